package sqlite

import (
	"database/sql"
	"fmt"
)

// Store wraps a SQLite database holding the workflow ledger.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type Store struct {
	db *sql.DB
}

// NewStore initializes the required schema in the given database and
// returns a new Store
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			code TEXT NOT NULL,
			description TEXT NOT NULL,
			net_weight_kg TEXT NOT NULL,
			unit_of_measure TEXT NOT NULL,
			UNIQUE (tenant_id, code)
		);
		CREATE TABLE IF NOT EXISTS templates (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			steps BLOB NOT NULL,
			is_default INTEGER NOT NULL,
			is_active INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS workflows (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			tenant_id TEXT NOT NULL,
			template_id TEXT NOT NULL,
			identifier TEXT NOT NULL,
			status INTEGER NOT NULL,
			steps BLOB NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0,
			UNIQUE (item_id, identifier)
		);
		CREATE TABLE IF NOT EXISTS dispatches (
			id TEXT PRIMARY KEY,
			item_id TEXT NOT NULL,
			workflow_id TEXT NOT NULL,
			doc BLOB NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS receive_batches (
			id TEXT PRIMARY KEY,
			dispatch_id TEXT NOT NULL,
			doc BLOB NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0
		);`,
	)
	return err
}

// DB exposes the underlying database handle
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
