package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	stdfs "io/fs"
	"regexp"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "users.db"

// Open opens (or creates) a SQLite database and brings its schema up to date.
// Schema changes live as versioned .sql files under internal/db/migrations:
//
//	0001_name.up.sql
//
// Every pooled connection gets a busy timeout and foreign keys through the DSN,
// so concurrent writers wait on each other instead of failing with SQLITE_BUSY.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		path = DefaultPath
	}
	d, err := sql.Open("sqlite3", withConnParams(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if err := d.Ping(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("ping sqlite %q: %w", path, err)
	}
	// journal_mode may not be supported in some contexts (e.g., in-memory). Ignore errors.
	_, _ = d.Exec(`PRAGMA journal_mode=WAL`)
	if err := Migrate(context.Background(), d); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

// withConnParams appends per-connection settings to a sqlite3 DSN.
func withConnParams(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=5000&_foreign_keys=on"
}

//go:embed migrations/*.sql
var migrationsFS embed.FS

// baselineVersion is the migration that creates the users table. Its script
// only uses CREATE ... IF NOT EXISTS, so it may be re-run at any time.
const baselineVersion = 1

type migration struct {
	version int
	name    string
	file    string // path inside embedded FS
}

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.up\.sql$`)

func loadMigrations() (map[int]migration, error) {
	entries := map[int]migration{}
	list, err := stdfs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	for _, de := range list {
		if de.IsDir() {
			continue
		}
		m := migFileRe.FindStringSubmatch(de.Name())
		if m == nil {
			continue
		}
		var ver int
		if _, err := fmt.Sscanf(m[1], "%04d", &ver); err != nil {
			continue
		}
		entries[ver] = migration{version: ver, name: m[2], file: "migrations/" + de.Name()}
	}
	return entries, nil
}

func ensureMigrationsTable(ctx context.Context, d *sql.DB) error {
	_, err := d.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER PRIMARY KEY,
        applied_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
    )`)
	return err
}

func appliedVersions(ctx context.Context, d *sql.DB) (map[int]bool, error) {
	if err := ensureMigrationsTable(ctx, d); err != nil {
		return nil, err
	}
	rows, err := d.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	got := map[int]bool{}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		got[v] = true
	}
	return got, rows.Err()
}

// Migrate applies every embedded migration that has not been recorded in
// schema_migrations yet. Calling it again is a no-op.
func Migrate(ctx context.Context, d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	applied, err := appliedVersions(ctx, d)
	if err != nil {
		return err
	}
	versions := make([]int, 0, len(migs))
	for v := range migs {
		versions = append(versions, v)
	}
	sort.Ints(versions)
	for _, v := range versions {
		if applied[v] {
			continue
		}
		m := migs[v]
		if err := apply(ctx, d, m); err != nil {
			return fmt.Errorf("migration %04d_%s failed: %w", v, m.name, err)
		}
	}
	return nil
}

// EnsureBaseline re-runs the users table migration regardless of the recorded
// history, so a table dropped behind the migrator's back comes back.
func EnsureBaseline(ctx context.Context, d *sql.DB) error {
	if d == nil {
		return errors.New("nil db")
	}
	migs, err := loadMigrations()
	if err != nil {
		return err
	}
	m, ok := migs[baselineVersion]
	if !ok {
		return fmt.Errorf("missing baseline migration %04d", baselineVersion)
	}
	return apply(ctx, d, m)
}

// apply executes a migration script and records its version in one transaction.
func apply(ctx context.Context, d *sql.DB, m migration) error {
	sqlText, err := migrationsFS.ReadFile(m.file)
	if err != nil {
		return err
	}
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, string(sqlText)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO schema_migrations(version) VALUES(?)`, m.version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
