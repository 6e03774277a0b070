package classify

import (
	"testing"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
)

func TestIndexScan_MainIndexBeatsProgramIndex(t *testing.T) {
	vault := fakeVault{
		"MBA/main-index.md":    "---\ntitle: From Main\n---\n",
		"MBA/program-index.md": "---\ntitle: From Program\n---\n",
	}
	r := testResolver(Rules{DefaultProgram: "general"}, vault)

	res, err := r.Resolve("MBA/notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hierarchy.Program.Value != "From Main" {
		t.Errorf("program = %q, want %q", res.Hierarchy.Program.Value, "From Main")
	}
}

func TestIndexScan_NearestDirectoryWins(t *testing.T) {
	vault := fakeVault{
		"outer/course-index.md":       "---\ntitle: Outer Course\n---\n",
		"outer/inner/course-index.md": "---\ntitle: Inner Course\n---\n",
	}
	r := testResolver(Rules{DefaultProgram: "general"}, vault)

	res, err := r.Resolve("outer/inner/deep/notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hierarchy.Course.Value != "Inner Course" {
		t.Errorf("course = %q, want %q", res.Hierarchy.Course.Value, "Inner Course")
	}
}

func TestIndexScan_MalformedIndexFallsThrough(t *testing.T) {
	vault := fakeVault{
		"MBA/main-index.md": "---\n: broken: yaml: {{{\n---\n",
	}
	r := testResolver(Rules{DefaultProgram: "general"}, vault)

	res, err := r.Resolve("MBA/Finance101/notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The broken index is skipped; the path tier supplies the program.
	if res.Hierarchy.Program.Value != "MBA" || res.Hierarchy.Program.Tier != models.TierPath {
		t.Errorf("program = %+v, want MBA via path", res.Hierarchy.Program)
	}
}

func TestIndexScan_EmptyTitleIgnored(t *testing.T) {
	vault := fakeVault{
		"MBA/main-index.md": "---\ntitle: \"\"\n---\n",
	}
	r := testResolver(Rules{DefaultProgram: "general"}, vault)

	res, err := r.Resolve("MBA/notes.md", models.Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Hierarchy.Program.Tier != models.TierPath {
		t.Errorf("program = %+v, want path tier when index title is empty", res.Hierarchy.Program)
	}
}

func TestDirChain(t *testing.T) {
	tests := []struct {
		dir  string
		want []string
	}{
		{"", []string{""}},
		{"a", []string{"a", ""}},
		{"a/b/c", []string{"a/b/c", "a/b", "a", ""}},
	}
	for _, tt := range tests {
		got := dirChain(tt.dir)
		if len(got) != len(tt.want) {
			t.Errorf("dirChain(%q) = %v, want %v", tt.dir, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("dirChain(%q)[%d] = %q, want %q", tt.dir, i, got[i], tt.want[i])
			}
		}
	}
}

func TestIndexCache_ReadOnce(t *testing.T) {
	calls := 0
	vault := countingVault{v: fakeVault{
		"MBA/main-index.md": "---\ntitle: MBA\n---\n",
	}, calls: &calls}
	r := NewResolver(Rules{DefaultProgram: "general"}, vault, testLogger())

	for range 3 {
		if _, err := r.Resolve("MBA/notes.md", models.Overrides{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("index file read %d times, want 1", calls)
	}
}

type countingVault struct {
	v     fakeVault
	calls *int
}

func (c countingVault) ReadFrontmatter(path string) (*parser.Document, error) {
	if path == "MBA/main-index.md" {
		*c.calls++
	}
	return c.v.ReadFrontmatter(path)
}
