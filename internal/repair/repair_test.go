package repair

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/magpie/internal/fileid"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestRunRepairsMovedAttachment(t *testing.T) {
	root := t.TempDir()
	attachmentName := "img.fp-" + testFP + ".png"
	writeTree(t, root, map[string]string{
		"note.md":                  "![x](" + attachmentName + ")\n",
		"assets/" + attachmentName: "png bytes",
	})

	summary, _, err := Run(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.LinksRepaired != 1 || summary.DocumentsModified != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	got := readFile(t, filepath.Join(root, "note.md"))
	want := "![x](assets/" + attachmentName + ")\n"
	if got != want {
		t.Fatalf("note.md = %q, want %q", got, want)
	}

	// Second pass is a no-op: the rewritten path resolves.
	summary2, _, err := Run(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if summary2.LinksRepaired != 0 || summary2.DocumentsModified != 0 {
		t.Errorf("second pass made changes: %+v", summary2)
	}
}

func TestRunLeavesResolvingLinksAlone(t *testing.T) {
	root := t.TempDir()
	attachmentName := "img.fp-" + testFP + ".png"
	writeTree(t, root, map[string]string{
		"note.md":       "![x](" + attachmentName + ")\n",
		attachmentName:  "png bytes",
		"other/junk.md": "no links here\n",
	})

	summary, _, err := Run(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if summary.LinksRepaired != 0 {
		t.Errorf("repaired = %d, want 0", summary.LinksRepaired)
	}
	if summary.LinksSeen != 1 {
		t.Errorf("seen = %d, want 1", summary.LinksSeen)
	}
}

func TestRunReportsMissingTargets(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"note.md": "[gone](lost.fp-" + testFP + ".pdf)\n",
	})

	summary, _, err := Run(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if len(summary.Missing) != 1 {
		t.Fatalf("missing = %+v, want 1 entry", summary.Missing)
	}
	m := summary.Missing[0]
	if m.Key != testFP || m.Kind != "hash" {
		t.Errorf("missing = %+v", m)
	}
	// The broken link is reported, never auto-removed.
	if !strings.Contains(readFile(t, filepath.Join(root, "note.md")), "lost.fp-") {
		t.Error("broken link was modified")
	}
}

func TestRunRepairsIdentifierLink(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/spec.md": "spec body\n",
		"note.md":      "", // filled below once the id is known
	})

	id, _, err := fileid.Assign(filepath.Join(root, "docs", "spec.md"))
	if err != nil {
		t.Fatal(err)
	}
	link := "<!-- magpie-ref:" + id + " -->[spec](old/path.md)\n"
	if err := os.WriteFile(filepath.Join(root, "note.md"), []byte(link), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, _, err := Run(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if summary.LinksRepaired != 1 {
		t.Fatalf("repaired = %d, want 1 (%+v)", summary.LinksRepaired, summary)
	}

	got := readFile(t, filepath.Join(root, "note.md"))
	want := "<!-- magpie-ref:" + id + " -->[spec](docs/spec.md)\n"
	if got != want {
		t.Errorf("note.md = %q, want %q", got, want)
	}
}

func TestRunLeavesAbsoluteLinkTargetsAlone(t *testing.T) {
	root := t.TempDir()
	attachmentName := "img.fp-" + testFP + ".png"
	writeTree(t, root, map[string]string{
		"assets/" + attachmentName: "png bytes",
	})

	// The link names its target absolutely; resolving it under the
	// document's directory would wrongly report it broken and rewrite it.
	link := "![x](" + filepath.ToSlash(filepath.Join(root, "assets", attachmentName)) + ")\n"
	writeTree(t, root, map[string]string{"docs/note.md": link})

	summary, _, err := Run(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	if summary.LinksRepaired != 0 {
		t.Errorf("repaired = %d, want 0", summary.LinksRepaired)
	}
	if got := readFile(t, filepath.Join(root, "docs", "note.md")); got != link {
		t.Errorf("note.md = %q, want untouched %q", got, link)
	}
}

func TestRunURLEncodedPaths(t *testing.T) {
	root := t.TempDir()
	name := "my img.fp-" + testFP + ".png"
	writeTree(t, root, map[string]string{
		"note.md":         "![x](my%20img.fp-" + testFP + ".png)\n",
		"assets a/" + name: "bytes",
	})

	_, _, err := Run(context.Background(), Options{Root: root})
	if err != nil {
		t.Fatal(err)
	}
	got := readFile(t, filepath.Join(root, "note.md"))
	want := "![x](assets%20a/my%20img.fp-" + testFP + ".png)\n"
	if got != want {
		t.Errorf("note.md = %q, want %q", got, want)
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	attachmentName := "img.fp-" + testFP + ".png"
	original := "![x](" + attachmentName + ")\n"
	writeTree(t, root, map[string]string{
		"note.md":                  original,
		"assets/" + attachmentName: "png bytes",
	})

	summary, changes, err := Run(context.Background(), Options{Root: root, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if summary.DocumentsModified != 1 || len(changes) != 1 {
		t.Fatalf("summary = %+v, changes = %d", summary, len(changes))
	}
	if changes[0].Before == changes[0].After {
		t.Error("change preview is empty")
	}
	if got := readFile(t, filepath.Join(root, "note.md")); got != original {
		t.Errorf("dry run modified the document: %q", got)
	}
}

func TestRunCancellation(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.md": "x\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Run(ctx, Options{Root: root}); err == nil {
		t.Error("expected context error")
	}
}
