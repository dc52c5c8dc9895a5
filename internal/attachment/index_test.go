package attachment

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const fpA = "0123456789abcdef0123456789abcdef"
const fpB = "fedcba9876543210fedcba9876543210"

func write(t *testing.T, root, rel string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildIndex(t *testing.T) {
	root := t.TempDir()
	write(t, root, "assets/img.fp-"+fpA+".png")
	write(t, root, "deep/nested/doc.fp-"+fpB+".pdf")
	write(t, root, "plain.png")
	write(t, root, "notes.md")

	ix, err := BuildIndex(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if ix.Len() != 2 {
		t.Fatalf("len = %d, want 2", ix.Len())
	}

	loc, ok := ix.Lookup(fpA)
	if !ok {
		t.Fatal("fpA not indexed")
	}
	if loc.Name != "img.fp-"+fpA+".png" {
		t.Errorf("name = %q", loc.Name)
	}

	// Case-insensitive lookup on the hex portion.
	if _, ok := ix.Lookup("0123456789ABCDEF0123456789ABCDEF"); !ok {
		t.Error("uppercase lookup failed")
	}
}

func TestBuildIndexLastWinsOnDuplicates(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a/img.fp-"+fpA+".png")
	write(t, root, "z/copy.fp-"+fpA+".png")

	ix, err := BuildIndex(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ix.Len() != 1 {
		t.Fatalf("len = %d, want 1", ix.Len())
	}
	if ix.Duplicates() != 1 {
		t.Errorf("duplicates = %d, want 1", ix.Duplicates())
	}
	// Lexical walk order: z/ is seen last and wins.
	loc, _ := ix.Lookup(fpA)
	if loc.Name != "copy.fp-"+fpA+".png" {
		t.Errorf("winner = %q, want last-seen", loc.Name)
	}
}

func TestBuildIndexStillFindsMarkedOrphans(t *testing.T) {
	root := t.TempDir()
	write(t, root, "assets/ORPHAN-img.fp-"+fpA+".png")

	ix, err := BuildIndex(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	loc, ok := ix.Lookup(fpA)
	if !ok {
		t.Fatal("marked orphan not indexed")
	}
	if !IsOrphanName(loc.Name) {
		t.Errorf("name = %q, expected orphan-marked", loc.Name)
	}
}

func TestOrphanNameIdempotent(t *testing.T) {
	name := "img.fp-" + fpA + ".png"
	once := OrphanName(name)
	if once != OrphanPrefix+name {
		t.Errorf("OrphanName = %q", once)
	}
	if twice := OrphanName(once); twice != once {
		t.Errorf("double-prefixed: %q", twice)
	}
}
