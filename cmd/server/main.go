package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"userAuthBackend/internal/auth"
	"userAuthBackend/internal/config"
	"userAuthBackend/internal/db"
	grpcserver "userAuthBackend/internal/grpc"
	"userAuthBackend/internal/httpserver"
	"userAuthBackend/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)

	// Open DB
	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Printf("close db: %v", err)
		}
	}()

	users := repository.NewUserRepository(d)
	if err := users.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	svc := auth.NewService(users)

	// Start gRPC
	stopGRPC, err := grpcserver.StartGRPC(cfg, svc)
	if err != nil {
		log.Fatalf("start grpc: %v", err)
	}
	log.Printf("gRPC server listening on %s", cfg.GRPC.Address)

	// Start HTTP
	stopHTTP, err := httpserver.StartHTTP(cfg, svc, d)
	if err != nil {
		log.Fatalf("start http: %v", err)
	}
	log.Printf("HTTP server listening on %s", cfg.HTTP.Address)

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	var g errgroup.Group
	g.Go(func() error { return stopHTTP(ctx) })
	g.Go(func() error { return stopGRPC(ctx) })
	if err := g.Wait(); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
