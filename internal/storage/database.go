// Package storage is the record store: every entity the application
// persists goes through here, over an embedded sqlite database. Callers
// get typed structs back, never raw rows.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// ErrNotFound is returned when a record id does not exist, e.g. because
// it was deleted between selection and use. Checked with errors.Is;
// anything else coming out of this package is a store failure wrapping
// the driver error.
var ErrNotFound = errors.New("storage: record not found")

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to
// date. Foreign keys are enforced so parent deletions cascade.
func Open(dsn string) (*DB, error) {
	// time.Time values must land in SQLite's own datetime format, or the
	// date functions (DATE, strftime) used by the statistics queries
	// cannot read them back.
	if !strings.Contains(dsn, "_time_format") {
		if strings.Contains(dsn, "?") {
			dsn += "&_time_format=sqlite"
		} else {
			dsn += "?_time_format=sqlite"
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
