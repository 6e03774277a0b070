package tagger

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/classify"
)

// BatchStats summarises a batch tagging pass.
type BatchStats struct {
	Tagged    int
	Unchanged int
	Skipped   int
	Failed    int
}

// ProgressFunc is called once per processed file, from worker goroutines.
type ProgressFunc func(fr *FileResult, err error)

// ListPaths returns the vault-relative paths of all eligible files.
func (s *Service) ListPaths() ([]string, error) {
	metas, err := s.store.List("")
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(metas))
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return paths, nil
}

// TagBatch classifies and tags the given vault-relative paths using a
// bounded worker pool. Per-file failures are logged and counted, not
// fatal; cancellation of ctx stops dispatching new files and returns
// the context error.
func (s *Service) TagBatch(ctx context.Context, paths []string, opts Options, workers int, progress ProgressFunc) (*BatchStats, error) {
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	stats := &BatchStats{}

	g, runCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, relPath := range paths {
		if runCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			fr, tagErr := s.TagFile(runCtx, relPath, opts)
			if tagErr != nil && runCtx.Err() != nil {
				return runCtx.Err()
			}

			mu.Lock()
			switch {
			case tagErr != nil:
				stats.Failed++
			case fr.Skipped:
				stats.Skipped++
			case fr.Wrote || (opts.DryRun && wouldWrite(fr)):
				stats.Tagged++
			default:
				stats.Unchanged++
			}
			mu.Unlock()

			if tagErr != nil {
				s.logger.Warn("tagger: file failed",
					slog.String("path", relPath),
					slog.String("error", tagErr.Error()))
			}
			if progress != nil {
				progress(fr, tagErr)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	return stats, ctx.Err()
}

// wouldWrite reports whether a dry-run plan contains any mutation.
func wouldWrite(fr *FileResult) bool {
	for _, c := range fr.Changes {
		if c.Action == classify.ActionAdd || c.Action == classify.ActionModify {
			return true
		}
	}
	return false
}
