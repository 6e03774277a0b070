package index

import (
	"log/slog"
	"time"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

// ResolveFunc classifies one vault-relative path. Injected so the index
// package stays free of classification logic.
type ResolveFunc func(relPath string) (*models.Result, error)

// Sync walks the vault and brings the index up to date:
//   - new/changed files are re-resolved and upserted
//   - files removed from disk are deleted from the index
//
// A per-file failure is logged and the sync continues.
func Sync(db *DB, store storage.Provider, resolve ResolveFunc, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		if err := indexFile(db, resolve, m.Path, m.Checksum); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	// Remove stale entries.
	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := db.DeleteFile(p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// indexFile resolves one path and upserts the result.
func indexFile(db *DB, resolve ResolveFunc, path, checksum string) error {
	res, err := resolve(path)
	if err != nil {
		return err
	}
	return db.UpsertFile(RowFromResult(res, checksum, time.Now()))
}
