package models

// User represents a registered account.
// It maps to the `users` table in SQLite.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Password string `db:"password" json:"-"` // stored verbatim, never echoed
	Email    string `db:"email" json:"email"`
	IsAdmin  int    `db:"is_admin" json:"is_admin"`
}
