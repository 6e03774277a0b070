package classify

import (
	"log/slog"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// fieldKind names a hierarchy field inside the tier chain.
type fieldKind int

const (
	fieldProgram fieldKind = iota
	fieldCourse
	fieldClass
)

func (f fieldKind) String() string {
	switch f {
	case fieldCourse:
		return "course"
	case fieldClass:
		return "class"
	default:
		return "program"
	}
}

// pathContext is the precomputed view of one file path that every strategy
// works from. It is built once per Resolve call and never mutated.
type pathContext struct {
	rel      string
	dir      string   // vault-relative directory of the file, "" at root
	segments []string // directory segments from vault root downward
	base     string   // filename without extension

	specialProgram string // configured literal matched in the path, "" if none
	specialIdx     int    // segment index of the matched literal
	depthShift     int    // 1 when the projects sub-level follows the literal
}

func (r *Resolver) newPathContext(rel string) *pathContext {
	dir := path.Dir(rel)
	if dir == "." {
		dir = ""
	}
	base := path.Base(rel)
	base = strings.TrimSuffix(base, path.Ext(base))

	ctx := &pathContext{rel: rel, dir: dir, base: base, specialIdx: -1}
	if dir != "" {
		ctx.segments = strings.Split(dir, "/")
	}

	for i, seg := range ctx.segments {
		for _, sp := range r.rules.SpecialPrograms {
			if strings.EqualFold(seg, sp) {
				ctx.specialProgram = sp
				ctx.specialIdx = i
				if r.rules.ProjectsDir != "" && i+1 < len(ctx.segments) &&
					strings.EqualFold(ctx.segments[i+1], r.rules.ProjectsDir) {
					ctx.depthShift = 1
				}
				return ctx
			}
		}
	}
	return ctx
}

// ancestors returns the directory names nearest-first (immediate parent,
// then grandparent, up to the vault root).
func (c *pathContext) ancestors() []string {
	out := make([]string, 0, len(c.segments))
	for i := len(c.segments) - 1; i >= 0; i-- {
		out = append(out, c.segments[i])
	}
	return out
}

// hierarchyTier is one link in the resolution chain. Tiers run in order,
// independently per field; the first one that yields a value wins and no
// later tier may overwrite it.
type hierarchyTier struct {
	tier    models.Tier
	resolve func(r *Resolver, ctx *pathContext, ov models.Overrides, f fieldKind) (string, bool)
}

var hierarchyTiers = []hierarchyTier{
	{models.TierOverride, (*Resolver).fromOverride},
	{models.TierSpecialCase, (*Resolver).fromSpecialCase},
	{models.TierIndexTitle, (*Resolver).fromIndexTitle},
	{models.TierPath, (*Resolver).fromPathDepth},
	{models.TierDefault, (*Resolver).fromDefault},
}

func (r *Resolver) resolveHierarchy(ctx *pathContext, ov models.Overrides) models.Hierarchy {
	var h models.Hierarchy
	h.Program = r.resolveField(ctx, ov, fieldProgram)
	h.Course = r.resolveField(ctx, ov, fieldCourse)
	h.Class = r.resolveField(ctx, ov, fieldClass)
	return h
}

func (r *Resolver) resolveField(ctx *pathContext, ov models.Overrides, f fieldKind) models.HierarchyField {
	for _, t := range hierarchyTiers {
		v, ok := t.resolve(r, ctx, ov, f)
		if !ok {
			continue
		}
		r.logger.Debug("hierarchy field resolved",
			slog.String("path", ctx.rel),
			slog.String("field", f.String()),
			slog.String("tier", t.tier.String()),
			slog.String("value", v))
		return models.HierarchyField{Value: v, Tier: t.tier}
	}
	return models.HierarchyField{}
}

func (r *Resolver) fromOverride(_ *pathContext, ov models.Overrides, f fieldKind) (string, bool) {
	var v string
	switch f {
	case fieldProgram:
		v = ov.Program
	case fieldCourse:
		v = ov.Course
	case fieldClass:
		v = ov.Class
	}
	return v, v != ""
}

// fromSpecialCase sets the program when a configured special-program
// literal appears anywhere in the path. Course and class are not resolved
// here, but the literal's position (plus the optional projects sub-level)
// shifts the depths used by the path fallback.
func (r *Resolver) fromSpecialCase(ctx *pathContext, _ models.Overrides, f fieldKind) (string, bool) {
	if f != fieldProgram || ctx.specialProgram == "" {
		return "", false
	}
	return ctx.specialProgram, true
}

func (r *Resolver) fromIndexTitle(ctx *pathContext, _ models.Overrides, f fieldKind) (string, bool) {
	var names []string
	switch f {
	case fieldProgram:
		names = programIndexNames
	case fieldCourse:
		names = courseIndexNames
	case fieldClass:
		names = classIndexNames
	}
	return r.scanIndexTitle(ctx.dir, names)
}

func (r *Resolver) fromPathDepth(ctx *pathContext, _ models.Overrides, f fieldKind) (string, bool) {
	idx := -1
	switch f {
	case fieldProgram:
		idx = 0
	case fieldCourse:
		idx = 1
	case fieldClass:
		idx = 2
	}
	if ctx.specialIdx >= 0 && f != fieldProgram {
		// Depths count from the special program's position instead of the
		// vault root, skipping the projects sub-level when present.
		idx += ctx.specialIdx + ctx.depthShift
	}
	if idx < 0 || idx >= len(ctx.segments) {
		return "", false
	}
	return NormalizeLabel(ctx.segments[idx]), true
}

func (r *Resolver) fromDefault(_ *pathContext, _ models.Overrides, f fieldKind) (string, bool) {
	if f != fieldProgram || r.rules.DefaultProgram == "" {
		return "", false
	}
	return r.rules.DefaultProgram, true
}
