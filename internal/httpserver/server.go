package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"userAuthBackend/internal/auth"
	"userAuthBackend/internal/config"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewRouter wires the auth endpoints and middleware onto a mux router.
func NewRouter(svc *auth.Service, db Pinger) *mux.Router {
	h := &Handler{Auth: svc, DB: db}

	r := mux.NewRouter()
	r.Use(RequestIDMiddleware, LoggingMiddleware, RecoveryMiddleware)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	return r
}

// StartHTTP starts serving the auth API on cfg.HTTP.Address and returns a
// shutdown function.
func StartHTTP(cfg *config.Config, svc *auth.Service, db Pinger) (func(context.Context) error, error) {
	if cfg == nil {
		panic("config is required")
	}

	addr := cfg.HTTP.Address
	if addr == "" {
		addr = ":5000"
	}

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           NewRouter(svc, db),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http serve: %v", err)
		}
	}()

	return srv.Shutdown, nil
}
