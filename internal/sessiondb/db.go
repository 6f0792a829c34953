// Package sessiondb persists analyzed sessions: the session registry, the
// per-session stroke timeline, and the aggregated analytics document.
package sessiondb

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle for session storage.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the session database at path and
// applies connection pragmas. Schema setup is separate; call MigrateUp.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	// WAL keeps readers (API queries) from blocking the analyzer's writes.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	return &DB{db}, nil
}
