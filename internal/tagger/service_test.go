package tagger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/classify"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/testutil"
)

func testService(t *testing.T) (*Service, string, storage.Provider) {
	t.Helper()
	vaultDir, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, db, classify.Rules{
		DefaultProgram: "general",
		Placeholders:   []string{"[MISSING]"},
	}, logger)
	return svc, vaultDir, store
}

func TestTagFile_AddsMetadata(t *testing.T) {
	svc, vaultDir, store := testService(t)
	testutil.WriteFile(t, vaultDir, "MBA/Finance101/01_intro/notes.md",
		"---\ntitle: Notes\n---\n# Notes\n")

	fr, err := svc.TagFile(context.Background(), "MBA/Finance101/01_intro/notes.md", Options{})
	if err != nil {
		t.Fatalf("TagFile: %v", err)
	}
	if !fr.Wrote {
		t.Error("expected a write")
	}

	data, err := store.Read("MBA/Finance101/01_intro/notes.md")
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"program: MBA", "course: Finance 101", "module: Intro", "title: Notes"} {
		if !strings.Contains(content, want) {
			t.Errorf("content missing %q:\n%s", want, content)
		}
	}
}

func TestTagFile_SecondRunUnchanged(t *testing.T) {
	svc, vaultDir, store := testService(t)
	testutil.WriteFile(t, vaultDir, "MBA/notes.md", "---\ntitle: Notes\n---\nBody\n")

	if _, err := svc.TagFile(context.Background(), "MBA/notes.md", Options{}); err != nil {
		t.Fatal(err)
	}
	first, _ := store.Read("MBA/notes.md")

	fr, err := svc.TagFile(context.Background(), "MBA/notes.md", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Wrote {
		t.Error("second run should not write")
	}
	second, _ := store.Read("MBA/notes.md")
	if string(first) != string(second) {
		t.Errorf("file changed on second run:\n%s\n---\n%s", first, second)
	}
}

func TestTagFile_PreservesHandCurated(t *testing.T) {
	svc, vaultDir, store := testService(t)
	testutil.WriteFile(t, vaultDir, "MBA/notes.md",
		"---\nprogram: Hand Curated\ncourse: \"[MISSING]\"\n---\nBody\n")

	if _, err := svc.TagFile(context.Background(), "MBA/notes.md", Options{}); err != nil {
		t.Fatal(err)
	}
	data, _ := store.Read("MBA/notes.md")
	if !strings.Contains(string(data), "program: Hand Curated") {
		t.Errorf("hand-curated program overwritten:\n%s", data)
	}
}

func TestTagFile_DryRunPlansWithoutWriting(t *testing.T) {
	svc, vaultDir, store := testService(t)
	original := "---\ntitle: Notes\n---\nBody\n"
	testutil.WriteFile(t, vaultDir, "MBA/notes.md", original)

	fr, err := svc.TagFile(context.Background(), "MBA/notes.md", Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Wrote {
		t.Error("dry run must not write")
	}
	if len(fr.Changes) == 0 {
		t.Error("dry run should still plan changes")
	}
	data, _ := store.Read("MBA/notes.md")
	if string(data) != original {
		t.Errorf("dry run modified the file:\n%s", data)
	}
}

func TestTagFile_MalformedFrontmatterSkipped(t *testing.T) {
	svc, vaultDir, store := testService(t)
	broken := "---\n: bad: yaml: {{{\n---\nBody\n"
	testutil.WriteFile(t, vaultDir, "MBA/broken.md", broken)

	fr, err := svc.TagFile(context.Background(), "MBA/broken.md", Options{})
	if err != nil {
		t.Fatalf("TagFile: %v", err)
	}
	if !fr.Skipped {
		t.Error("expected skip for malformed frontmatter")
	}
	data, _ := store.Read("MBA/broken.md")
	if string(data) != broken {
		t.Errorf("broken file was rewritten:\n%s", data)
	}
}

func TestTagFile_NonMarkdownIndexedOnly(t *testing.T) {
	svc, vaultDir, store := testService(t)
	testutil.WriteFile(t, vaultDir, "MBA/Finance101/01_intro/video.mp4", "binary-ish")

	fr, err := svc.TagFile(context.Background(), "MBA/Finance101/01_intro/video.mp4", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if fr.Wrote || len(fr.Changes) != 0 {
		t.Errorf("non-markdown file should not get frontmatter changes: %+v", fr)
	}
	if fr.Result.Structure.Module.Value != "Intro" {
		t.Errorf("module = %+v, want Intro", fr.Result.Structure.Module)
	}
	data, _ := store.Read("MBA/Finance101/01_intro/video.mp4")
	if string(data) != "binary-ish" {
		t.Errorf("non-markdown content changed: %q", data)
	}
}

func TestTagFile_OverridesApplied(t *testing.T) {
	svc, vaultDir, store := testService(t)
	testutil.WriteFile(t, vaultDir, "misc/notes.md", "---\ntitle: N\n---\nBody\n")

	_, err := svc.TagFile(context.Background(), "misc/notes.md", Options{
		Overrides: models.Overrides{Program: "Executive MBA"},
	})
	if err != nil {
		t.Fatal(err)
	}
	data, _ := store.Read("misc/notes.md")
	if !strings.Contains(string(data), "program: Executive MBA") {
		t.Errorf("override not applied:\n%s", data)
	}
}
