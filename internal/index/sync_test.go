package index

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/storage"
)

func syncTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	vaultDir := t.TempDir()
	store, err := storage.NewFS(vaultDir, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	dbFile, err := os.CreateTemp("", "ansuz-sync-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })
	db, err := Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return vaultDir, store, db
}

func pathResolve(relPath string) (*models.Result, error) {
	return &models.Result{
		Path: relPath,
		Hierarchy: models.Hierarchy{
			Program: models.HierarchyField{Value: "general", Tier: models.TierDefault},
		},
	}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSync_IndexesNewFiles(t *testing.T) {
	vaultDir, store, db := syncTestEnv(t)
	_ = os.WriteFile(filepath.Join(vaultDir, "a.md"), []byte("# A"), 0o644)
	_ = os.WriteFile(filepath.Join(vaultDir, "b.md"), []byte("# B"), 0o644)

	if err := Sync(db, store, pathResolve, quietLogger()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	paths, err := db.AllPaths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Errorf("paths = %v, want 2 entries", paths)
	}
	row, err := db.GetFile("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if row.Program != "general" {
		t.Errorf("program = %q, want general", row.Program)
	}
}

func TestSync_SkipsUnchanged(t *testing.T) {
	vaultDir, store, db := syncTestEnv(t)
	_ = os.WriteFile(filepath.Join(vaultDir, "a.md"), []byte("# A"), 0o644)

	if err := Sync(db, store, pathResolve, quietLogger()); err != nil {
		t.Fatal(err)
	}
	first, err := db.GetFile("a.md")
	if err != nil {
		t.Fatal(err)
	}

	if err := Sync(db, store, pathResolve, quietLogger()); err != nil {
		t.Fatal(err)
	}
	second, err := db.GetFile("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if !first.UpdatedAt.Equal(second.UpdatedAt) {
		t.Errorf("unchanged file re-indexed: %v vs %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestSync_RemovesStaleEntries(t *testing.T) {
	vaultDir, store, db := syncTestEnv(t)
	file := filepath.Join(vaultDir, "gone.md")
	_ = os.WriteFile(file, []byte("# Gone"), 0o644)

	if err := Sync(db, store, pathResolve, quietLogger()); err != nil {
		t.Fatal(err)
	}
	_ = os.Remove(file)
	if err := Sync(db, store, pathResolve, quietLogger()); err != nil {
		t.Fatal(err)
	}

	paths, err := db.AllPaths()
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 0 {
		t.Errorf("paths = %v, want empty after removal", paths)
	}
}

func TestSync_ReindexesChangedContent(t *testing.T) {
	vaultDir, store, db := syncTestEnv(t)
	file := filepath.Join(vaultDir, "a.md")
	_ = os.WriteFile(file, []byte("v1"), 0o644)

	if err := Sync(db, store, pathResolve, quietLogger()); err != nil {
		t.Fatal(err)
	}
	before, _ := db.GetChecksum("a.md")

	_ = os.WriteFile(file, []byte("v2"), 0o644)
	if err := Sync(db, store, pathResolve, quietLogger()); err != nil {
		t.Fatal(err)
	}
	after, _ := db.GetChecksum("a.md")
	if before == after {
		t.Error("checksum unchanged after content change")
	}
}
