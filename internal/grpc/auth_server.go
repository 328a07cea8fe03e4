package grpcserver

import (
	"context"

	"userAuthBackend/internal/auth"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// AuthServiceName is the fully qualified gRPC service name.
const AuthServiceName = "auth.v1.AuthService"

const (
	LoginMethod    = "/" + AuthServiceName + "/Login"
	RegisterMethod = "/" + AuthServiceName + "/Register"
)

// AuthServiceServer is the server API for auth.v1.AuthService. Requests and
// responses are google.protobuf.Struct messages carrying the same fields as
// the HTTP JSON bodies.
type AuthServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterAuthServiceServer registers impl on s.
func RegisterAuthServiceServer(s grpc.ServiceRegistrar, impl AuthServiceServer) {
	s.RegisterService(&authServiceDesc, impl)
}

var authServiceDesc = grpc.ServiceDesc{
	ServiceName: AuthServiceName,
	HandlerType: (*AuthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: loginHandler},
		{MethodName: "Register", Handler: registerHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "auth/v1/auth.proto",
}

func loginHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServiceServer).Login(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: LoginMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServiceServer).Login(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func registerHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuthServiceServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RegisterMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AuthServiceServer).Register(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// AuthServer implements AuthServiceServer on top of auth.Service.
type AuthServer struct {
	Auth *auth.Service
}

// Login checks credentials. Unknown credentials map to Unauthenticated.
func (s *AuthServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.Auth.Login(ctx, stringField(req, "username"), stringField(req, "password"))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "login: %v", err)
	}
	if !res.Success {
		return nil, failureStatus(res)
	}
	return structpb.NewStruct(map[string]any{
		"success":  true,
		"user_id":  res.User.ID,
		"username": res.User.Username,
		"is_admin": res.User.IsAdmin,
	})
}

// Register creates a user. A taken username maps to AlreadyExists.
func (s *AuthServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.Auth.Register(ctx, stringField(req, "username"), stringField(req, "password"), stringField(req, "email"))
	if err != nil {
		return nil, status.Errorf(codes.Internal, "register: %v", err)
	}
	if !res.Success {
		return nil, failureStatus(res)
	}
	return structpb.NewStruct(map[string]any{
		"success": true,
		"message": res.Message,
		"user_id": res.User.ID,
	})
}

func failureStatus(res *auth.Result) error {
	switch res.Failure {
	case auth.InvalidCredentials:
		return status.Error(codes.Unauthenticated, res.Message)
	case auth.DuplicateUsername:
		return status.Error(codes.AlreadyExists, res.Message)
	default:
		return status.Error(codes.Unknown, res.Message)
	}
}

// stringField returns the string value of key. It is nil when the key is
// missing or holds anything but a string (null included); "" is kept as is.
func stringField(s *structpb.Struct, key string) *string {
	v, ok := s.GetFields()[key]
	if !ok {
		return nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return nil
	}
	return &sv.StringValue
}
