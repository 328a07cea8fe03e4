package auth

import (
	"context"
	"errors"
	"fmt"

	"userAuthBackend/models"
	"userAuthBackend/repository"
)

// Failure tags an expected, client-facing outcome of an auth operation.
type Failure string

const (
	InvalidCredentials Failure = "InvalidCredentials"
	DuplicateUsername  Failure = "DuplicateUsername"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgDuplicateUsername  = "Username already exists"
	msgRegistered         = "User registered successfully"
)

// Result is what Login and Register hand back to transports. Exactly one of
// Success or Failure is set.
type Result struct {
	Success bool
	Failure Failure
	Message string
	User    *models.User
}

// UserStore is the subset of the user repository the service depends on.
type UserStore interface {
	FindByCredentials(ctx context.Context, username, password *string) (*models.User, error)
	Insert(ctx context.Context, username, password, email *string) (*models.User, error)
}

// Service implements login and registration on top of a UserStore.
// It is built once at startup and shared by all transports.
type Service struct {
	users UserStore
}

func NewService(users UserStore) *Service {
	return &Service{users: users}
}

// Login looks the user up by exact username and password. A nil field means
// the client did not send it and never matches. No match is an
// InvalidCredentials result, not an error; the returned error is reserved for
// storage failures.
func (s *Service) Login(ctx context.Context, username, password *string) (*Result, error) {
	u, err := s.users.FindByCredentials(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if u == nil {
		return &Result{Failure: InvalidCredentials, Message: msgInvalidCredentials}, nil
	}
	return &Result{Success: true, User: u}, nil
}

// Register stores a new user. The password is stored as given; strength
// checks are not applied here. Nil fields are stored as NULL, while "" is a
// real value and takes part in the username uniqueness check.
func (s *Service) Register(ctx context.Context, username, password, email *string) (*Result, error) {
	u, err := s.users.Insert(ctx, username, password, email)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return &Result{Failure: DuplicateUsername, Message: msgDuplicateUsername}, nil
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	return &Result{Success: true, Message: msgRegistered, User: u}, nil
}
