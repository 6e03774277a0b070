package classify

import (
	"errors"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/starford/ansuz/internal/apperr"
)

// Index filenames per hierarchy level, in tie-break priority order: when
// several exist in one directory the first readable one with a non-empty
// title wins.
var (
	programIndexNames = []string{"main-index.md", "program-index.md"}
	courseIndexNames  = []string{"course-index.md"}
	classIndexNames   = []string{"class-index.md"}
)

// indexCache memoizes index-file title lookups per (dir, filename) for the
// duration of one batch run. Index contents are read-only during a run, so
// a single mutex around the map is enough for concurrent workers.
type indexCache struct {
	mu     sync.Mutex
	titles map[string]cachedTitle
}

type cachedTitle struct {
	title string
	ok    bool
}

func newIndexCache() *indexCache {
	return &indexCache{titles: make(map[string]cachedTitle)}
}

func (c *indexCache) get(key string) (cachedTitle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.titles[key]
	return t, ok
}

func (c *indexCache) put(key string, t cachedTitle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles[key] = t
}

// scanIndexTitle walks from dir upward to the vault root and returns the
// first non-empty frontmatter title found in any of the candidate index
// filenames. Malformed or missing index files degrade to "absent".
func (r *Resolver) scanIndexTitle(dir string, names []string) (string, bool) {
	if r.files == nil {
		return "", false
	}
	for _, level := range dirChain(dir) {
		for _, name := range names {
			if title, ok := r.indexTitle(level, name); ok {
				return title, true
			}
		}
	}
	return "", false
}

// indexTitle reads one index file through the cache.
func (r *Resolver) indexTitle(dir, name string) (string, bool) {
	key := path.Join(dir, name)
	if t, ok := r.cache.get(key); ok {
		return t.title, t.ok
	}

	entry := cachedTitle{}
	doc, err := r.files.ReadFrontmatter(key)
	switch {
	case err == nil:
		if title, ok := doc.Get("title"); ok {
			entry.title = strings.TrimSpace(title)
			entry.ok = entry.title != ""
		}
	case errors.Is(err, apperr.ErrNotFound):
		// Nothing at this level.
	case errors.Is(err, apperr.ErrBadFrontmatter):
		r.logger.Warn("index file has malformed frontmatter, skipping",
			slog.String("path", key))
	default:
		r.logger.Warn("index file read failed, skipping",
			slog.String("path", key), slog.String("error", err.Error()))
	}

	r.cache.put(key, entry)
	return entry.title, entry.ok
}

// dirChain returns dir and all its ancestors up to and including the vault
// root (""), nearest-first.
func dirChain(dir string) []string {
	if dir == "" || dir == "." {
		return []string{""}
	}
	var out []string
	for d := dir; d != "." && d != "/"; d = path.Dir(d) {
		out = append(out, d)
	}
	return append(out, "")
}
