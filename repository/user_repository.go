package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"userAuthBackend/internal/db"
	"userAuthBackend/models"
)

const opTimeout = 3 * time.Second

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureSchema creates the users table if it does not exist. Safe to call on
// every start, and it recreates the table even when the migration history
// says it was applied.
func (r *UserRepository) EnsureSchema(ctx context.Context) error {
	if err := db.Migrate(ctx, r.db); err != nil {
		return &StorageError{Op: "ensure schema", Err: err}
	}
	if err := db.EnsureBaseline(ctx, r.db); err != nil {
		return &StorageError{Op: "ensure schema", Err: err}
	}
	return nil
}

// withConn runs fn on a connection held for the duration of one operation.
// The connection goes back to the pool on every exit path.
func (r *UserRepository) withConn(ctx context.Context, op string, fn func(ctx context.Context, conn *sql.Conn) error) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	conn, err := r.db.Conn(ctx)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer conn.Close()
	return fn(ctx, conn)
}

// FindByCredentials returns the first user whose username and password both
// match exactly, or nil when there is none. A nil argument stands for a field
// the caller did not send and never matches.
func (r *UserRepository) FindByCredentials(ctx context.Context, username, password *string) (*models.User, error) {
	var out *models.User
	err := r.withConn(ctx, "find by credentials", func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			`SELECT id, username, password, email, is_admin FROM users WHERE username = ? AND password = ? LIMIT 1`,
			nullable(username), nullable(password))
		u, err := scanUser(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return &StorageError{Op: "find by credentials", Err: err}
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Insert creates a user with is_admin = 0. Nil arguments are stored as NULL.
// A taken username yields an error matching ErrConflict; anything else is a
// *StorageError.
func (r *UserRepository) Insert(ctx context.Context, username, password, email *string) (*models.User, error) {
	var out *models.User
	err := r.withConn(ctx, "insert user", func(ctx context.Context, conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO users (username, password, email) VALUES (?, ?, ?)`,
			nullable(username), nullable(password), nullable(email))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("insert user %q: %w", deref(username), ErrConflict)
			}
			return &StorageError{Op: "insert user", Err: err}
		}
		id, err := res.LastInsertId()
		if err != nil {
			return &StorageError{Op: "insert user", Err: err}
		}
		out = &models.User{ID: id, Username: deref(username), Password: deref(password), Email: deref(email), IsAdmin: 0}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u                         models.User
		username, password, email sql.NullString
		isAdmin                   sql.NullInt64
	)
	if err := row.Scan(&u.ID, &username, &password, &email, &isAdmin); err != nil {
		return nil, err
	}
	u.Username = username.String
	u.Password = password.String
	u.Email = email.String
	u.IsAdmin = int(isAdmin.Int64)
	return &u, nil
}

// nullable binds nil as SQL NULL and any other value, "" included, verbatim.
func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
