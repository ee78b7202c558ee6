// internal/database/database.go
//
// SQLite access for the gridword server.
// Responsibilities:
//   - Opening the database file with safe defaults (WAL, busy timeout,
//     foreign keys), creating the parent directory when needed.
//   - The shared ErrNotFound sentinel returned by the stores.

package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by store lookups when no row matches.
var ErrNotFound = errors.New("not found")

// Open opens (and creates if missing) a SQLite database file.
// Pass ":memory:" for an ephemeral database in tests.
func Open(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
	}

	params := "?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	if strings.Contains(dsn, "?") {
		params = "&_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn+params)
	if err != nil {
		return nil, err
	}
	// An in-memory database exists per connection, so the pool must not
	// grow past one or later queries would see an empty schema.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}
