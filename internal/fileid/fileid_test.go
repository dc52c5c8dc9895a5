package fileid

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	a, b := New(), New()
	if len(a) != HexLen {
		t.Errorf("len = %d, want %d", len(a), HexLen)
	}
	if a != strings.ToLower(a) {
		t.Errorf("not lowercase: %s", a)
	}
	if a == b {
		t.Errorf("two identifiers collided: %s", a)
	}
}

func TestAssignAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	body := "# Title\n\nsome text\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	id, created, err := Assign(path)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if !created {
		t.Fatal("expected created=true on first assignment")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// Marker goes on the very first line; body is untouched below it.
	if !strings.HasPrefix(string(content), MarkerLine(id)+"\n") {
		t.Errorf("marker not on first line:\n%s", content)
	}
	if !strings.HasSuffix(string(content), body) {
		t.Errorf("body altered:\n%s", content)
	}

	got, ok, err := Read(path)
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	if got != id {
		t.Errorf("Read = %s, want %s", got, id)
	}
}

func TestAssignIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("text\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	first, _, err := Assign(path)
	if err != nil {
		t.Fatal(err)
	}
	second, created, err := Assign(path)
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("expected created=false on re-assignment")
	}
	if second != first {
		t.Errorf("identifier changed: %s -> %s", first, second)
	}
}

func TestReadOnlyScansLeadingBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.md")
	// Marker buried past the head limit must not be found.
	content := strings.Repeat("x", 2048) + "\n" + MarkerLine(New()) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("marker beyond the head limit should not be found")
	}
}

func TestReadFilesShorterThanHeadLimit(t *testing.T) {
	dir := t.TempDir()

	// A file holding nothing but the marker line is far below the head
	// limit; the short read must still surface the identifier.
	id := New()
	tiny := filepath.Join(dir, "tiny.md")
	if err := os.WriteFile(tiny, []byte(MarkerLine(id)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, ok, err := Read(tiny)
	if err != nil || !ok {
		t.Fatalf("Read(tiny): ok=%v err=%v", ok, err)
	}
	if got != id {
		t.Errorf("Read = %s, want %s", got, id)
	}

	empty := filepath.Join(dir, "empty.md")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := Read(empty); err != nil || ok {
		t.Errorf("Read(empty): ok=%v err=%v, want no identifier and no error", ok, err)
	}
}

func TestBuildIndex(t *testing.T) {
	root := t.TempDir()

	withID := filepath.Join(root, "a.md")
	if err := os.WriteFile(withID, []byte("plain\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	id, _, err := Assign(withID)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(root, "b.md"), []byte("no id\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "bin.dat"), []byte{0, 1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}

	ix, err := BuildIndex(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if ix.Len() != 1 {
		t.Fatalf("len = %d, want 1", ix.Len())
	}
	loc, ok := ix.Lookup(id)
	if !ok || loc.Path != withID {
		t.Errorf("Lookup(%s) = (%v, %v)", id, loc, ok)
	}
}

func TestBuildIndexDeterministicOnDuplicateIDs(t *testing.T) {
	root := t.TempDir()
	id := New()
	for _, name := range []string{"z.md", "a.md", "m.md"} {
		content := MarkerLine(id) + "\ncopy\n"
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ix, err := BuildIndex(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	loc, ok := ix.Lookup(id)
	if !ok {
		t.Fatal("id not indexed")
	}
	if filepath.Base(loc.Path) != "a.md" {
		t.Errorf("winner = %s, want lexicographically smallest path", loc.Path)
	}
}
