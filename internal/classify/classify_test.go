package classify

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
)

// fakeVault serves frontmatter documents from an in-memory path map.
type fakeVault map[string]string

func (v fakeVault) ReadFrontmatter(path string) (*parser.Document, error) {
	content, ok := v[path]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return parser.Parse([]byte(content))
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testResolver(rules Rules, vault fakeVault) *Resolver {
	return NewResolver(rules, vault, testLogger())
}

func TestResolve_FullVaultScenario(t *testing.T) {
	vault := fakeVault{
		"MBA/main-index.md":                  "---\ntitle: MBA\n---\n",
		"MBA/Finance101/course-index.md":     "---\ntitle: Finance 101\n---\n",
		"MBA/Finance101/Core/class-index.md": "---\ntitle: Core\n---\n",
	}
	r := testResolver(Rules{DefaultProgram: "general"}, vault)

	res, err := r.Resolve("MBA/Finance101/Core/01_strategy-fundamentals/02_competitive-analysis/video.mp4", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Hierarchy.Program.Value != "MBA" || res.Hierarchy.Program.Tier != models.TierIndexTitle {
		t.Errorf("program = %+v, want MBA via index-title", res.Hierarchy.Program)
	}
	if res.Hierarchy.Course.Value != "Finance 101" || res.Hierarchy.Course.Tier != models.TierIndexTitle {
		t.Errorf("course = %+v, want Finance 101 via index-title", res.Hierarchy.Course)
	}
	if res.Hierarchy.Class.Value != "Core" || res.Hierarchy.Class.Tier != models.TierIndexTitle {
		t.Errorf("class = %+v, want Core via index-title", res.Hierarchy.Class)
	}
	if res.Structure.Module.Value != "Strategy Fundamentals" || res.Structure.Module.Strategy != models.StrategyNumberedPair {
		t.Errorf("module = %+v, want Strategy Fundamentals via numbered-pair", res.Structure.Module)
	}
	if res.Structure.Lesson.Value != "Competitive Analysis" || res.Structure.Lesson.Strategy != models.StrategyNumberedPair {
		t.Errorf("lesson = %+v, want Competitive Analysis via numbered-pair", res.Structure.Lesson)
	}
}

func TestResolve_FullVaultScenarioNoIndexFiles(t *testing.T) {
	r := testResolver(Rules{DefaultProgram: "general"}, fakeVault{})

	res, err := r.Resolve("MBA/Finance101/Core/01_strategy-fundamentals/02_competitive-analysis/video.mp4", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Hierarchy.Program.Value != "MBA" || res.Hierarchy.Program.Tier != models.TierPath {
		t.Errorf("program = %+v, want MBA via path", res.Hierarchy.Program)
	}
	if res.Hierarchy.Course.Value != "Finance 101" {
		t.Errorf("course = %+v, want Finance 101", res.Hierarchy.Course)
	}
	if res.Hierarchy.Class.Value != "Core" {
		t.Errorf("class = %+v, want Core", res.Hierarchy.Class)
	}
	if res.Structure.Module.Value != "Strategy Fundamentals" {
		t.Errorf("module = %+v, want Strategy Fundamentals", res.Structure.Module)
	}
	if res.Structure.Lesson.Value != "Competitive Analysis" {
		t.Errorf("lesson = %+v, want Competitive Analysis", res.Structure.Lesson)
	}
}

func TestResolve_PathFallbackWithoutIndexFiles(t *testing.T) {
	r := testResolver(Rules{DefaultProgram: "general"}, fakeVault{})

	res, err := r.Resolve("mba-program/finance101/core-track/notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Hierarchy.Program.Value != "Mba Program" || res.Hierarchy.Program.Tier != models.TierPath {
		t.Errorf("program = %+v, want Mba Program via path", res.Hierarchy.Program)
	}
	if res.Hierarchy.Course.Value != "Finance 101" {
		t.Errorf("course = %+v, want Finance 101", res.Hierarchy.Course)
	}
	if res.Hierarchy.Class.Value != "Core Track" {
		t.Errorf("class = %+v, want Core Track", res.Hierarchy.Class)
	}
}

func TestResolve_DefaultProgramAtVaultRoot(t *testing.T) {
	r := testResolver(Rules{DefaultProgram: "general"}, fakeVault{})

	res, err := r.Resolve("orphan.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hierarchy.Program.Value != "general" || res.Hierarchy.Program.Tier != models.TierDefault {
		t.Errorf("program = %+v, want general via default", res.Hierarchy.Program)
	}
	if res.Hierarchy.Course.Set() || res.Hierarchy.Class.Set() {
		t.Errorf("course/class should stay unresolved at vault root: %+v", res.Hierarchy)
	}
}

func TestResolve_OverridesBeatEverything(t *testing.T) {
	vault := fakeVault{
		"MBA/main-index.md": "---\ntitle: MBA\n---\n",
	}
	r := testResolver(Rules{DefaultProgram: "general"}, vault)

	res, err := r.Resolve("MBA/Finance101/notes.md", models.Overrides{Program: "Executive MBA", Course: "Corp Finance"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hierarchy.Program.Value != "Executive MBA" || res.Hierarchy.Program.Tier != models.TierOverride {
		t.Errorf("program = %+v, want override", res.Hierarchy.Program)
	}
	if res.Hierarchy.Course.Value != "Corp Finance" || res.Hierarchy.Course.Tier != models.TierOverride {
		t.Errorf("course = %+v, want override", res.Hierarchy.Course)
	}
	// Class has no override and falls through to the path tier.
	if res.Hierarchy.Class.Set() {
		t.Errorf("class = %+v, want unresolved at depth 2", res.Hierarchy.Class)
	}
}

func TestResolve_SpecialProgramShiftsDepth(t *testing.T) {
	r := testResolver(Rules{
		DefaultProgram:  "general",
		SpecialPrograms: []string{"Certifications"},
		ProjectsDir:     "projects",
	}, fakeVault{})

	res, err := r.Resolve("archive/certifications/projects/aws/solutions-architect/exam-notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hierarchy.Program.Value != "Certifications" || res.Hierarchy.Program.Tier != models.TierSpecialCase {
		t.Errorf("program = %+v, want Certifications via special-case", res.Hierarchy.Program)
	}
	// Course/class depths count from the literal, skipping the projects dir.
	if res.Hierarchy.Course.Value != "Aws" || res.Hierarchy.Course.Tier != models.TierPath {
		t.Errorf("course = %+v, want Aws via path", res.Hierarchy.Course)
	}
	if res.Hierarchy.Class.Value != "Solutions Architect" {
		t.Errorf("class = %+v, want Solutions Architect", res.Hierarchy.Class)
	}
}

func TestResolve_RejectsEscapingPaths(t *testing.T) {
	r := testResolver(Rules{DefaultProgram: "general"}, fakeVault{})
	for _, p := range []string{"../outside.md", "/abs/path.md", "a/../../b.md"} {
		if _, err := r.Resolve(p, models.Overrides{}); !errors.Is(err, apperr.ErrPathOutsideVault) {
			t.Errorf("Resolve(%q) err = %v, want ErrPathOutsideVault", p, err)
		}
	}
}

func TestResolve_NilReaderDegradesToFilename(t *testing.T) {
	r := NewResolver(Rules{DefaultProgram: "general"}, nil, testLogger())

	res, err := r.Resolve("MBA/Finance101/Module 1 Intro.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hierarchy.Program.Value != "general" || res.Hierarchy.Program.Tier != models.TierDefault {
		t.Errorf("program = %+v, want default without a vault root", res.Hierarchy.Program)
	}
	if res.Structure.Module.Value != "Module 1 Intro" {
		t.Errorf("module = %+v, want filename-derived", res.Structure.Module)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	vault := fakeVault{
		"MBA/main-index.md": "---\ntitle: MBA\n---\n",
	}
	r := testResolver(Rules{DefaultProgram: "general"}, vault)

	a, err := r.Resolve("MBA/Finance101/01_intro/notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := r.Resolve("MBA/Finance101/01_intro/notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *a != *b {
		t.Errorf("same path resolved differently:\n%+v\n%+v", a, b)
	}
}
