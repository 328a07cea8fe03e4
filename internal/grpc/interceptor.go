package grpcserver

import (
	"context"
	"log"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// NewUnaryLoggingInterceptor returns a unary interceptor that logs every call
// with its status code and latency.
func NewUnaryLoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Printf("grpc %s %s %s", info.FullMethod, status.Code(err), time.Since(start))
		return resp, err
	}
}
