package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
)

// FileRow represents a row in the files table: one vault file with its
// resolved metadata and provenance.
type FileRow struct {
	Path           string
	Program        string
	Course         string
	Class          string
	Module         string
	Lesson         string
	ProgramTier    models.Tier
	CourseTier     models.Tier
	ClassTier      models.Tier
	ModuleStrategy models.Strategy
	LessonStrategy models.Strategy
	Checksum       string
	UpdatedAt      time.Time
}

// RowFromResult flattens a classification result into a FileRow.
func RowFromResult(res *models.Result, checksum string, at time.Time) FileRow {
	return FileRow{
		Path:           res.Path,
		Program:        res.Hierarchy.Program.Value,
		Course:         res.Hierarchy.Course.Value,
		Class:          res.Hierarchy.Class.Value,
		Module:         res.Structure.Module.Value,
		Lesson:         res.Structure.Lesson.Value,
		ProgramTier:    res.Hierarchy.Program.Tier,
		CourseTier:     res.Hierarchy.Course.Tier,
		ClassTier:      res.Hierarchy.Class.Tier,
		ModuleStrategy: res.Structure.Module.Strategy,
		LessonStrategy: res.Structure.Lesson.Strategy,
		Checksum:       checksum,
		UpdatedAt:      at,
	}
}

// UpsertFile inserts or replaces a file row and its FTS entry within a
// transaction.
func (db *DB) UpsertFile(r FileRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO files (path, program, course, class, module, lesson,
			program_tier, course_tier, class_tier, module_strategy, lesson_strategy,
			checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			program         = excluded.program,
			course          = excluded.course,
			class           = excluded.class,
			module          = excluded.module,
			lesson          = excluded.lesson,
			program_tier    = excluded.program_tier,
			course_tier     = excluded.course_tier,
			class_tier      = excluded.class_tier,
			module_strategy = excluded.module_strategy,
			lesson_strategy = excluded.lesson_strategy,
			checksum        = excluded.checksum,
			updated_at      = excluded.updated_at
	`, r.Path, r.Program, r.Course, r.Class, r.Module, r.Lesson,
		int(r.ProgramTier), int(r.CourseTier), int(r.ClassTier),
		int(r.ModuleStrategy), int(r.LessonStrategy),
		r.Checksum, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}

	if err := ftsUpsert(tx, r); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteFile removes a file row and its FTS entry.
func (db *DB) DeleteFile(path string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, path)
	_, _ = tx.Exec(`DELETE FROM files WHERE path = ?`, path)

	return tx.Commit()
}

// GetFile returns one file row, or apperr.ErrNotFound.
func (db *DB) GetFile(path string) (*FileRow, error) {
	row := db.conn.QueryRow(`
		SELECT path, program, course, class, module, lesson,
		       program_tier, course_tier, class_tier, module_strategy, lesson_strategy,
		       checksum, updated_at
		FROM files WHERE path = ?
	`, path)

	var r FileRow
	var pt, ct, clt, ms, ls int
	err := row.Scan(&r.Path, &r.Program, &r.Course, &r.Class, &r.Module, &r.Lesson,
		&pt, &ct, &clt, &ms, &ls, &r.Checksum, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("index: get file: %w", err)
	}
	r.ProgramTier, r.CourseTier, r.ClassTier = models.Tier(pt), models.Tier(ct), models.Tier(clt)
	r.ModuleStrategy, r.LessonStrategy = models.Strategy(ms), models.Strategy(ls)
	return &r, nil
}

// GetChecksum returns the stored checksum for a file, or empty string if
// not indexed.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM files WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllPaths returns every indexed file path.
func (db *DB) AllPaths() (map[string]struct{}, error) {
	rows, err := db.conn.Query(`SELECT path FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all paths: %w", err)
	}
	defer rows.Close()
	out := make(map[string]struct{})
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out[p] = struct{}{}
	}
	return out, rows.Err()
}

// AllChecksums returns path -> checksum for every indexed file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ListFiles returns paginated file rows, optionally filtered by program
// and course, together with the total match count.
func (db *DB) ListFiles(limit, offset int, program, course string) ([]FileRow, int, error) {
	if limit <= 0 {
		limit = 50
	}

	where := `WHERE 1=1`
	args := []any{}
	if program != "" {
		where += ` AND program = ?`
		args = append(args, program)
	}
	if course != "" {
		where += ` AND course = ?`
		args = append(args, course)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT count(*) FROM files `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count files: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT path, program, course, class, module, lesson,
		       program_tier, course_tier, class_tier, module_strategy, lesson_strategy,
		       checksum, updated_at
		FROM files `+where+` ORDER BY path LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		var r FileRow
		var pt, ct, clt, ms, ls int
		if err := rows.Scan(&r.Path, &r.Program, &r.Course, &r.Class, &r.Module, &r.Lesson,
			&pt, &ct, &clt, &ms, &ls, &r.Checksum, &r.UpdatedAt); err != nil {
			return nil, 0, err
		}
		r.ProgramTier, r.CourseTier, r.ClassTier = models.Tier(pt), models.Tier(ct), models.Tier(clt)
		r.ModuleStrategy, r.LessonStrategy = models.Strategy(ms), models.Strategy(ls)
		out = append(out, r)
	}
	return out, total, rows.Err()
}

// ProgramCount is one line of the vault summary.
type ProgramCount struct {
	Program string `json:"program"`
	Files   int    `json:"files"`
}

// VaultStats summarizes the indexed vault.
type VaultStats struct {
	Files       int            `json:"files"`
	WithModule  int            `json:"with_module"`
	WithLesson  int            `json:"with_lesson"`
	Programs    []ProgramCount `json:"programs"`
	LastUpdated time.Time      `json:"last_updated"`
}

// Stats aggregates counts over the files table.
func (db *DB) Stats() (*VaultStats, error) {
	s := &VaultStats{}
	err := db.conn.QueryRow(`
		SELECT count(*),
		       count(CASE WHEN module != '' THEN 1 END),
		       count(CASE WHEN lesson != '' THEN 1 END)
		FROM files
	`).Scan(&s.Files, &s.WithModule, &s.WithLesson)
	if err != nil {
		return nil, fmt.Errorf("index: stats: %w", err)
	}

	// Newest row timestamp; absent on an empty index.
	err = db.conn.QueryRow(`SELECT updated_at FROM files ORDER BY updated_at DESC LIMIT 1`).
		Scan(&s.LastUpdated)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index: stats updated: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT program, count(*) FROM files GROUP BY program ORDER BY count(*) DESC, program
	`)
	if err != nil {
		return nil, fmt.Errorf("index: stats programs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pc ProgramCount
		if err := rows.Scan(&pc.Program, &pc.Files); err != nil {
			return nil, err
		}
		s.Programs = append(s.Programs, pc)
	}
	return s, rows.Err()
}
