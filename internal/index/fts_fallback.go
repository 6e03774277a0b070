//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses a LIKE fallback over the files table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ FileRow) error {
	// Fields are already stored in the files table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled in).
func (db *DB) Search(query string, limit int) ([]FileRow, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT path, program, course, class, module, lesson
		FROM files
		WHERE path LIKE ? OR program LIKE ? OR course LIKE ?
		   OR class LIKE ? OR module LIKE ? OR lesson LIKE ?
		ORDER BY path
		LIMIT ?
	`, like, like, like, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var r FileRow
		if err := rows.Scan(&r.Path, &r.Program, &r.Course, &r.Class, &r.Module, &r.Lesson); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
