package repository

import (
	"errors"
	"fmt"
)

// ErrConflict is returned by Insert when the username is already taken.
var ErrConflict = errors.New("username already exists")

// StorageError wraps any persistence failure other than a uniqueness conflict:
// connection failures, malformed queries, closed databases.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
