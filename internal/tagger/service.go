// Package tagger applies inferred vault metadata to files: it resolves
// hierarchy and structure for a path, merges the result into markdown
// frontmatter, and keeps the metadata index in sync.
package tagger

import (
	"context"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/classify"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Service coordinates classification, frontmatter writes and indexing.
type Service struct {
	store    storage.Provider
	db       *index.DB
	resolver *classify.Resolver
	logger   *slog.Logger
}

// fmReader adapts a storage.Provider to classify.FrontmatterReader.
type fmReader struct {
	store storage.Provider
}

func (r fmReader) ReadFrontmatter(relPath string) (*parser.Document, error) {
	data, err := r.store.Read(relPath)
	if err != nil {
		return nil, err
	}
	return parser.Parse(data)
}

// NewService builds a tagging service over the given vault and index.
// db may be nil when no indexing is wanted (single-file resolution).
func NewService(store storage.Provider, db *index.DB, rules classify.Rules, logger *slog.Logger) *Service {
	var files classify.FrontmatterReader
	if store != nil {
		files = fmReader{store: store}
	}
	return &Service{
		store:    store,
		db:       db,
		resolver: classify.NewResolver(rules, files, logger),
		logger:   logger,
	}
}

// Resolve classifies a single vault-relative path without touching disk
// beyond index-file reads.
func (s *Service) Resolve(relPath string, ov models.Overrides) (*models.Result, error) {
	return s.resolver.Resolve(relPath, ov)
}

// ResolveFunc exposes classification for the index sync and watcher.
func (s *Service) ResolveFunc() index.ResolveFunc {
	return func(relPath string) (*models.Result, error) {
		return s.resolver.Resolve(relPath, models.Overrides{})
	}
}

// Options controls a tagging pass.
type Options struct {
	DryRun    bool
	Overrides models.Overrides
}

// FileResult reports the outcome for a single tagged file.
type FileResult struct {
	Path    string
	Result  *models.Result
	Changes []classify.Change
	Wrote   bool
	Skipped bool
}

// TagFile classifies one file and, for markdown, merges the inferred
// metadata into its frontmatter. Keys already carrying a real value are
// left untouched. Non-markdown files are classified and indexed only.
//
// Files whose frontmatter cannot be parsed are skipped with a warning
// rather than rewritten, since a write-back would clobber the broken
// block.
func (s *Service) TagFile(ctx context.Context, relPath string, opts Options) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := s.resolver.Resolve(relPath, opts.Overrides)
	if err != nil {
		return nil, err
	}

	fr := &FileResult{Path: relPath, Result: res}

	data, err := s.store.Read(relPath)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(path.Ext(relPath), ".md") {
		doc, parseErr := parser.Parse(data)
		if parseErr != nil {
			if errors.Is(parseErr, apperr.ErrBadFrontmatter) {
				s.logger.Warn("tagger: skipping file with malformed frontmatter",
					slog.String("path", relPath),
					slog.String("error", parseErr.Error()))
				fr.Skipped = true
				return fr, s.indexResult(res, checksum.Sum(data))
			}
			return nil, parseErr
		}

		fr.Changes = classify.PlanChanges(doc, classify.InferredFields(res), s.resolver.Placeholders())

		if len(fr.Changes) > 0 && !opts.DryRun {
			if classify.ApplyChanges(doc, fr.Changes) > 0 {
				out, marshalErr := doc.Marshal()
				if marshalErr != nil {
					return nil, marshalErr
				}
				if writeErr := s.store.Write(relPath, out); writeErr != nil {
					return nil, writeErr
				}
				data = out
				fr.Wrote = true
			}
		}
	}

	if opts.DryRun {
		return fr, nil
	}
	return fr, s.indexResult(res, checksum.Sum(data))
}

func (s *Service) indexResult(res *models.Result, sum string) error {
	if s.db == nil {
		return nil
	}
	return s.db.UpsertFile(index.RowFromResult(res, sum, time.Now().UTC()))
}
