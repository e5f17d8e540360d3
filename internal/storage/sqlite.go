// Package storage opens and bootstraps the local SQLite database
// backing the compile history.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (and creates if needed) the SQLite database at path
// and ensures required tables exist. Paths on network filesystems are
// refused; SQLite locking is unreliable there.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if err := validateSQLiteFilesystem(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Basic health check + apply a few safe pragmas.
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(pctx, "PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign_keys: %w", err)
	}
	if _, err := db.ExecContext(pctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy_timeout: %w", err)
	}
	if err := BootstrapSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// BootstrapSQLite creates tables/indexes if missing.
func BootstrapSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS compile_history (
  id          TEXT PRIMARY KEY,
  created_at  TEXT NOT NULL,
  language    TEXT NOT NULL,
  format      TEXT NOT NULL,
  input       TEXT NOT NULL,
  action      TEXT NOT NULL DEFAULT '',
  ok          INTEGER NOT NULL,
  confidence  REAL NOT NULL,
  cache_hit   INTEGER NOT NULL,
  duration_ms INTEGER NOT NULL,
  code        TEXT NOT NULL DEFAULT '',
  diagnostics JSON,
  fingerprint TEXT NOT NULL DEFAULT ''
);`,
		`CREATE INDEX IF NOT EXISTS compile_history_created_at_idx ON compile_history(created_at);`,
		`CREATE INDEX IF NOT EXISTS compile_history_action_idx ON compile_history(action);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap sqlite: %w", err)
		}
	}
	return nil
}
