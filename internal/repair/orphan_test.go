package repair

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/magpie/internal/attachment"
)

const orphanFP = "deadbeefdeadbeefdeadbeefdeadbeef"

func buildAttachmentIndex(t *testing.T, root string) *attachment.Index {
	t.Helper()
	ix, err := attachment.BuildIndex(context.Background(), root, nil)
	if err != nil {
		t.Fatal(err)
	}
	return ix
}

func TestReconcileMarksUnreferenced(t *testing.T) {
	root := t.TempDir()
	referencedName := "used.fp-" + testFP + ".png"
	orphanName := "unused.fp-" + orphanFP + ".png"
	writeTree(t, root, map[string]string{
		referencedName: "a",
		orphanName:     "b",
	})

	ix := buildAttachmentIndex(t, root)
	referenced := map[string]struct{}{testFP: {}}

	report := Reconcile(context.Background(), ix, referenced, ReconcileOptions{})
	if report.Found != 1 || report.Marked != 1 {
		t.Fatalf("report = %+v", report)
	}

	if _, err := os.Stat(filepath.Join(root, attachment.OrphanPrefix+orphanName)); err != nil {
		t.Errorf("orphan not marked: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, referencedName)); err != nil {
		t.Errorf("referenced attachment touched: %v", err)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	root := t.TempDir()
	orphanName := "unused.fp-" + orphanFP + ".png"
	writeTree(t, root, map[string]string{orphanName: "b"})

	ix := buildAttachmentIndex(t, root)
	Reconcile(context.Background(), ix, nil, ReconcileOptions{})

	// Second pass over a fresh index: recognized, counted, not re-renamed.
	ix2 := buildAttachmentIndex(t, root)
	report := Reconcile(context.Background(), ix2, nil, ReconcileOptions{})
	if report.Marked != 0 || report.AlreadyMarked != 1 {
		t.Fatalf("report = %+v", report)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), attachment.OrphanPrefix+attachment.OrphanPrefix) {
			t.Errorf("double-prefixed orphan: %s", e.Name())
		}
	}
}

func TestReconcileFailuresAreIndependent(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.fp-" + orphanFP + ".png": "a",
		"b.fp-" + testFP + ".png":   "b",
	})

	ix := buildAttachmentIndex(t, root)
	failOn := filepath.Join(root, "a.fp-"+orphanFP+".png")
	rename := func(from, to string) error {
		if from == failOn {
			return errors.New("denied")
		}
		return os.Rename(from, to)
	}

	report := Reconcile(context.Background(), ix, nil, ReconcileOptions{Rename: rename})
	if report.Found != 2 {
		t.Fatalf("found = %d, want 2", report.Found)
	}
	if report.Marked != 1 || len(report.Failed) != 1 {
		t.Errorf("report = %+v, want one marked and one failed", report)
	}
}

func TestReconcileDryRun(t *testing.T) {
	root := t.TempDir()
	orphanName := "unused.fp-" + orphanFP + ".png"
	writeTree(t, root, map[string]string{orphanName: "b"})

	ix := buildAttachmentIndex(t, root)
	report := Reconcile(context.Background(), ix, nil, ReconcileOptions{DryRun: true})
	if report.Found != 1 || report.Marked != 0 {
		t.Fatalf("report = %+v", report)
	}
	if _, err := os.Stat(filepath.Join(root, orphanName)); err != nil {
		t.Errorf("dry run renamed the orphan: %v", err)
	}
}
