// Package index provides SQLite-backed storage of resolved vault metadata
// with optional FTS5 search over the classified fields.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	path            TEXT PRIMARY KEY,
	program         TEXT NOT NULL DEFAULT '',
	course          TEXT NOT NULL DEFAULT '',
	class           TEXT NOT NULL DEFAULT '',
	module          TEXT NOT NULL DEFAULT '',
	lesson          TEXT NOT NULL DEFAULT '',
	program_tier    INTEGER NOT NULL DEFAULT 0,
	course_tier     INTEGER NOT NULL DEFAULT 0,
	class_tier      INTEGER NOT NULL DEFAULT 0,
	module_strategy INTEGER NOT NULL DEFAULT 0,
	lesson_strategy INTEGER NOT NULL DEFAULT 0,
	checksum        TEXT NOT NULL DEFAULT '',
	updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_files_program ON files(program);
CREATE INDEX IF NOT EXISTS idx_files_course ON files(course);
CREATE INDEX IF NOT EXISTS idx_files_module ON files(module);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
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
