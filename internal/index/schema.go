// Package index provides a SQLite-backed index of markdown outputs and their metrics,
// with optional FTS5 full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// MemoryDSN is used when no database path is configured.
const MemoryDSN = ":memory:"

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS outputs (
	name                 TEXT PRIMARY KEY,
	ordinal              INTEGER NOT NULL DEFAULT -1,
	description          TEXT NOT NULL DEFAULT '',
	checksum             TEXT NOT NULL DEFAULT '',
	character_count      INTEGER NOT NULL DEFAULT 0,
	code_character_count INTEGER NOT NULL DEFAULT 0,
	code_percentage      REAL NOT NULL DEFAULT 0,
	code_blocks          INTEGER NOT NULL DEFAULT 0,
	body                 TEXT NOT NULL DEFAULT '',
	updated_at           DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_outputs_order ON outputs(ordinal, name);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// An empty path opens a private in-memory database.
func Open(path string) (*DB, error) {
	if path == "" {
		path = MemoryDSN
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	// Every connection to :memory: is a separate database.
	if path == MemoryDSN {
		conn.SetMaxOpenConns(1)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
