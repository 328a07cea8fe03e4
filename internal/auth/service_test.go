package auth

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"userAuthBackend/internal/testutil"
	"userAuthBackend/models"
	"userAuthBackend/repository"
)

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(repository.NewUserRepository(testutil.OpenInMemoryDB(t, t.Name())))
}

func ptr(s string) *string { return &s }

func TestRegisterThenLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, ptr("alice"), ptr("Password123"), ptr("alice@example.com"))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !reg.Success || reg.Message != "User registered successfully" || reg.User == nil {
		t.Fatalf("unexpected register result: %+v", reg)
	}

	res, err := s.Login(ctx, ptr("alice"), ptr("Password123"))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.Success || res.User == nil {
		t.Fatalf("login failed: %+v", res)
	}
	if res.User.ID != reg.User.ID || res.User.Username != "alice" || res.User.IsAdmin != 0 {
		t.Fatalf("login user mismatch: %+v want id=%d", res.User, reg.User.ID)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	if _, err := s.Register(ctx, ptr("bob"), ptr("Password123"), ptr("bob@example.com")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cases := []struct {
		name               string
		username, password *string
	}{
		{"wrong password", ptr("bob"), ptr("wrong")},
		{"unknown user", ptr("nobody"), ptr("Password123")},
		{"both empty", ptr(""), ptr("")},
		{"empty password", ptr("bob"), ptr("")},
		{"both absent", nil, nil},
		{"absent password", ptr("bob"), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.Login(ctx, tc.username, tc.password)
			if err != nil {
				t.Fatalf("Login: %v", err)
			}
			if res.Success || res.Failure != InvalidCredentials || res.Message != "Invalid credentials" || res.User != nil {
				t.Fatalf("Login = %+v, want InvalidCredentials", res)
			}
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	first, err := s.Register(ctx, ptr("carol"), ptr("Password123"), ptr("a@example.com"))
	if err != nil || !first.Success {
		t.Fatalf("first register: %+v err=%v", first, err)
	}
	second, err := s.Register(ctx, ptr("carol"), ptr("Other456x"), ptr("b@example.com"))
	if err != nil {
		t.Fatalf("second register returned error: %v", err)
	}
	if second.Success || second.Failure != DuplicateUsername || second.Message != "Username already exists" {
		t.Fatalf("second register = %+v, want DuplicateUsername", second)
	}

	// the first password still works, the second does not
	if res, _ := s.Login(ctx, ptr("carol"), ptr("Password123")); !res.Success {
		t.Fatalf("original credentials rejected")
	}
	if res, _ := s.Login(ctx, ptr("carol"), ptr("Other456x")); res.Success {
		t.Fatalf("rejected registration overwrote password")
	}
}

func TestRegister_EmptyUsernameIsUnique(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	first, err := s.Register(ctx, ptr(""), ptr("pw1"), ptr(""))
	if err != nil || !first.Success {
		t.Fatalf("first register: %+v err=%v", first, err)
	}
	second, err := s.Register(ctx, ptr(""), ptr("pw2"), ptr(""))
	if err != nil {
		t.Fatalf("second register returned error: %v", err)
	}
	if second.Success || second.Failure != DuplicateUsername {
		t.Fatalf("second empty username = %+v, want DuplicateUsername", second)
	}
}

func TestRegister_EmptyPasswordThenLogin(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	reg, err := s.Register(ctx, ptr("gwen"), ptr(""), ptr("gwen@example.com"))
	if err != nil || !reg.Success {
		t.Fatalf("register: %+v err=%v", reg, err)
	}
	res, err := s.Login(ctx, ptr("gwen"), ptr(""))
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.Success || res.User == nil || res.User.ID != reg.User.ID {
		t.Fatalf("empty password login = %+v, want success", res)
	}
	// an absent password is not the same as an empty one
	if res, _ := s.Login(ctx, ptr("gwen"), nil); res.Success {
		t.Fatalf("absent password matched an empty one")
	}
}

func TestRegister_AbsentUsernameNotUnique(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		res, err := s.Register(ctx, nil, ptr("pw"), nil)
		if err != nil || !res.Success {
			t.Fatalf("register #%d without username: %+v err=%v", i, res, err)
		}
	}
}

func TestRegister_WeakPasswordAccepted(t *testing.T) {
	s := newService(t)
	res, err := s.Register(context.Background(), ptr("dave"), ptr("pass"), ptr("dave@example.com"))
	if err != nil || !res.Success {
		t.Fatalf("weak password should still register: %+v err=%v", res, err)
	}
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	s := NewService(repository.NewUserRepository(testutil.OpenFileDB(t)))
	ctx := context.Background()

	const n = 8
	var (
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			res, err := s.Register(ctx, ptr("erin"), ptr("Password123"), ptr("erin@example.com"))
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case res.Success:
				successes++
			case res.Failure == DuplicateUsername:
				duplicates++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent register: %v", err)
	}
	if successes != 1 || duplicates != n-1 {
		t.Fatalf("successes=%d duplicates=%d, want 1 and %d", successes, duplicates, n-1)
	}
}

type failingStore struct{ err error }

func (f failingStore) FindByCredentials(context.Context, *string, *string) (*models.User, error) {
	return nil, f.err
}

func (f failingStore) Insert(context.Context, *string, *string, *string) (*models.User, error) {
	return nil, f.err
}

func TestStorageErrorsPropagate(t *testing.T) {
	storageErr := &repository.StorageError{Op: "insert user", Err: errors.New("disk I/O error")}
	s := NewService(failingStore{err: storageErr})
	ctx := context.Background()

	if res, err := s.Register(ctx, ptr("x"), ptr("y"), ptr("z")); err == nil || res != nil {
		t.Fatalf("Register = %+v, %v; want storage error", res, err)
	} else if !errors.Is(err, storageErr) {
		t.Fatalf("Register error does not wrap StorageError: %v", err)
	}
	if res, err := s.Login(ctx, ptr("x"), ptr("y")); err == nil || res != nil {
		t.Fatalf("Login = %+v, %v; want storage error", res, err)
	}
}
