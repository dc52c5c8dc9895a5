package cli

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aidanlsb/magpie/internal/fingerprint"
	"github.com/aidanlsb/magpie/internal/ordinal"
	"github.com/aidanlsb/magpie/internal/renametx"
	"github.com/aidanlsb/magpie/internal/testutil"
)

func TestCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "directory unreadable",
			err:  ordinal.ErrDirectoryUnreadable,
			want: ErrDirectoryUnreadable,
		},
		{
			name: "duplicate suffix",
			err:  &ordinal.DuplicateSuffixError{Dir: "x", Suffixes: []string{"a / A"}},
			want: ErrDuplicateSuffix,
		},
		{
			name: "rollback incomplete",
			err:  &renametx.RollbackIncompleteError{Cause: errors.New("boom")},
			want: ErrRollbackIncomplete,
		},
		{
			name: "hash failure",
			err:  &fingerprint.HashError{Path: "x", Err: errors.New("io")},
			want: ErrHashFailed,
		},
		{
			name: "not exist",
			err:  os.ErrNotExist,
			want: ErrFileNotFound,
		},
		{
			name: "unknown",
			err:  errors.New("anything else"),
			want: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := codeFor(tt.err); got != tt.want {
				t.Fatalf("codeFor(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithoutItem(t *testing.T) {
	items := []ordinal.Item{
		{Name: "00010_a.md"},
		{Name: "00020_b.md"},
		{Name: "00030_c.md"},
	}
	got := withoutItem(items, "00020_b.md")
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	if got[0].Name != "00010_a.md" || got[1].Name != "00030_c.md" {
		t.Fatalf("wrong items kept: %v", got)
	}
	// Input slice must survive unmodified.
	if items[1].Name != "00020_b.md" {
		t.Fatal("input slice was mutated")
	}
}

func TestRunRenumber(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	ws.WriteFile("notes/1_a.md", "a body")
	ws.WriteFile("notes/23_b.md", "b body")
	ws.WriteFile("notes/100_c.md", "c body")

	var results []renumberData
	var warnings []Warning
	if err := runRenumber(filepath.Join(ws.Path, "notes"), &results, &warnings, false); err != nil {
		t.Fatalf("runRenumber: %v", err)
	}

	want := []string{"00010_a.md", "00020_b.md", "00030_c.md"}
	if got := ws.ListNames("notes"); !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	ws.AssertFileContains("notes/00010_a.md", "a body")

	if len(results) != 1 || results[0].Renamed != 3 {
		t.Fatalf("results = %+v", results)
	}
}

func TestRunRenumberRecursiveReachesNestedSequencedDirs(t *testing.T) {
	ws := testutil.NewWorkspace(t)
	// "projects" is a plain folder, not a sequenced item; the sequenced
	// files inside it must still be renumbered.
	ws.WriteFile("projects/1_a.md", "a")
	ws.WriteFile("projects/23_b.md", "b")
	ws.WriteFile("projects/sub/7_deep.md", "deep")

	renumberRecursive = true
	defer func() { renumberRecursive = false }()

	var results []renumberData
	var warnings []Warning
	if err := runRenumber(ws.Path, &results, &warnings, false); err != nil {
		t.Fatalf("runRenumber: %v", err)
	}

	want := []string{"00010_a.md", "00020_b.md", "sub"}
	if got := ws.ListNames("projects"); !reflect.DeepEqual(got, want) {
		t.Fatalf("projects = %v, want %v", got, want)
	}
	if got := ws.ListNames("projects/sub"); !reflect.DeepEqual(got, []string{"00010_deep.md"}) {
		t.Fatalf("sub = %v", got)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %+v", warnings)
	}
}

func TestSameDir(t *testing.T) {
	dir := t.TempDir()
	if !sameDir(dir, dir) {
		t.Fatal("identical paths not recognized")
	}
	if sameDir(dir, t.TempDir()) {
		t.Fatal("distinct directories reported equal")
	}
}
