package classify

import (
	"log/slog"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// structureStrategy is one link in the module/lesson chain. Strategies run
// in order and only fill fields that earlier strategies left empty.
type structureStrategy struct {
	id      models.Strategy
	resolve func(r *Resolver, ctx *pathContext, current models.Structure) (module, lesson string)
}

var structureStrategies = []structureStrategy{
	{models.StrategyFilenamePattern, (*Resolver).fromFilenamePattern},
	{models.StrategyDirectoryKeyword, (*Resolver).fromDirectoryKeywords},
	{models.StrategyNumberedPair, (*Resolver).fromNumberedPair},
}

func (r *Resolver) resolveStructure(ctx *pathContext) models.Structure {
	var out models.Structure
	for _, s := range structureStrategies {
		m, l := s.resolve(r, ctx, out)
		if m != "" && !out.Module.Set() {
			out.Module = models.StructureField{Value: m, Strategy: s.id}
			r.logStructure(ctx, "module", s.id, m)
		}
		if l != "" && !out.Lesson.Set() {
			out.Lesson = models.StructureField{Value: l, Strategy: s.id}
			r.logStructure(ctx, "lesson", s.id, l)
		}
		if out.Module.Set() && out.Lesson.Set() {
			break
		}
	}
	return out
}

func (r *Resolver) logStructure(ctx *pathContext, field string, s models.Strategy, value string) {
	r.logger.Debug("structure field resolved",
		slog.String("path", ctx.rel),
		slog.String("field", field),
		slog.String("strategy", s.String()),
		slog.String("value", value))
}

// fromFilenamePattern matches the filename against the ordered rule table.
// Module-shaped rules precede lesson-shaped ones, so a filename matching
// both resolves to module deterministically.
func (r *Resolver) fromFilenamePattern(ctx *pathContext, _ models.Structure) (string, string) {
	m, ok := matchFilename(ctx.base)
	if !ok {
		return "", ""
	}
	r.logger.Debug("filename pattern matched",
		slog.String("path", ctx.rel),
		slog.String("rule", m.rule),
		slog.Int("number", m.number))
	if m.kind == patternLesson {
		return "", m.label
	}
	return m.label, ""
}

// fromDirectoryKeywords scans ancestor directories for indicator
// substrings. The nearest module-indicator directory supplies module; a
// lesson indicator supplies lesson when it sits at or nearer than the
// module directory (or when no module directory exists at all).
func (r *Resolver) fromDirectoryKeywords(ctx *pathContext, _ models.Structure) (string, string) {
	module, lesson := scanDirKeywords(ctx.ancestors())

	var m, l string
	if module != nil {
		m = NormalizeLabel(module.dir)
	}
	if lesson != nil && (module == nil || lesson.distance <= module.distance) {
		l = NormalizeLabel(lesson.dir)
	}
	return m, l
}

// fromNumberedPair infers module/lesson from numbered parent directories:
// a numbered parent under a numbered (or keyword-tagged) grandparent means
// grandparent -> module, parent -> lesson. A lone numbered parent directly
// under the course level becomes module with no lesson. Skipped entirely
// when an earlier strategy already produced a module.
func (r *Resolver) fromNumberedPair(ctx *pathContext, current models.Structure) (string, string) {
	if current.Module.Set() || len(ctx.segments) == 0 {
		return "", ""
	}

	parent := ctx.segments[len(ctx.segments)-1]
	if !hasNumericPrefix(parent) {
		return "", ""
	}

	if len(ctx.segments) >= 2 {
		grand := ctx.segments[len(ctx.segments)-2]
		lower := strings.ToLower(grand)
		if hasNumericPrefix(grand) || containsAny(lower, moduleKeywords) || containsAny(lower, lessonKeywords) {
			return NormalizeLabel(grand), NormalizeLabel(parent)
		}
	}
	return NormalizeLabel(parent), ""
}
