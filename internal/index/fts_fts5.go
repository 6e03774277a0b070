//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
			path UNINDEXED,
			program,
			course,
			class,
			module,
			lesson,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, r FileRow) error {
	_, _ = tx.Exec(`DELETE FROM files_fts WHERE path = ?`, r.Path)
	_, err := tx.Exec(`
		INSERT INTO files_fts (path, program, course, class, module, lesson)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.Path, r.Program, r.Course, r.Class, r.Module, r.Lesson)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, path string) {
	_, _ = tx.Exec(`DELETE FROM files_fts WHERE path = ?`, path)
}

// Search performs an FTS5 search over the classified fields and returns
// the matching file rows.
func (db *DB) Search(query string, limit int) ([]FileRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT f.path, f.program, f.course, f.class, f.module, f.lesson
		FROM files_fts
		JOIN files f ON f.path = files_fts.path
		WHERE files_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
