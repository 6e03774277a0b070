// Package classify infers program, course, class, module, and lesson
// metadata for vault files from directory structure, filenames, and
// index-file titles. Resolution is a pure computation over one file path:
// the only I/O is reading index-file frontmatter through the injected
// reader, so resolving many files concurrently is safe.
package classify

import (
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
)

// Rules is the vault-level classification configuration.
type Rules struct {
	// DefaultProgram is assigned when nothing else resolves the program.
	DefaultProgram string
	// SpecialPrograms are literal program identifiers matched case-insensitively
	// against path segments.
	SpecialPrograms []string
	// ProjectsDir is the optional sub-level directory that may follow a
	// special program and shifts the expected course/class depth.
	ProjectsDir string
	// Placeholders are sentinel frontmatter values eligible for replacement.
	Placeholders []string
}

// FrontmatterReader reads the frontmatter of a vault-relative path.
// Missing files must yield apperr.ErrNotFound; malformed frontmatter
// apperr.ErrBadFrontmatter.
type FrontmatterReader interface {
	ReadFrontmatter(path string) (*parser.Document, error)
}

// Resolver classifies vault files. A nil reader means the vault root is
// not configured: hierarchy fields then resolve to null/default and only
// filename-based structure detection applies, rather than failing.
type Resolver struct {
	rules  Rules
	files  FrontmatterReader
	logger *slog.Logger
	cache  *indexCache
}

// NewResolver builds a Resolver. The index-file lookup cache lives for the
// Resolver's lifetime, which callers scope to one batch run.
func NewResolver(rules Rules, files FrontmatterReader, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		rules:  rules,
		files:  files,
		logger: logger,
		cache:  newIndexCache(),
	}
}

// Resolve classifies one vault-relative file path. Overrides always win
// for the field they name. The returned result is fresh per call; two
// calls against an unchanged filesystem yield identical results.
func (r *Resolver) Resolve(relPath string, ov models.Overrides) (*models.Result, error) {
	rel := path.Clean(filepath.ToSlash(relPath))
	if path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil, fmt.Errorf("classify: %s: %w", relPath, apperr.ErrPathOutsideVault)
	}

	if r.files == nil {
		r.logger.Warn("vault root not configured, hierarchy resolution degraded",
			slog.String("path", rel))
		// Without a root there is no ancestor chain: classify from the
		// filename alone.
		rel = path.Base(rel)
	}

	ctx := r.newPathContext(rel)
	res := &models.Result{
		Path:      rel,
		Hierarchy: r.resolveHierarchy(ctx, ov),
		Structure: r.resolveStructure(ctx),
	}
	return res, nil
}

// Placeholders exposes the configured placeholder sentinels for merge planning.
func (r *Resolver) Placeholders() []string {
	return r.rules.Placeholders
}
