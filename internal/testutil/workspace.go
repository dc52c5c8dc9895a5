// Package testutil provides a throwaway workspace fixture for tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// TestWorkspace is a temporary workspace rooted in t.TempDir().
type TestWorkspace struct {
	t    *testing.T
	Path string
}

// NewWorkspace creates an empty test workspace.
func NewWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{t: t, Path: t.TempDir()}
}

// WriteFile writes a file at a workspace-relative path, creating parents.
func (w *TestWorkspace) WriteFile(relPath, content string) {
	w.t.Helper()
	full := filepath.Join(w.Path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		w.t.Fatalf("mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		w.t.Fatalf("write %s: %v", relPath, err)
	}
}

// ReadFile returns the content of a workspace-relative file.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	b, err := os.ReadFile(filepath.Join(w.Path, filepath.FromSlash(relPath)))
	if err != nil {
		w.t.Fatalf("read %s: %v", relPath, err)
	}
	return string(b)
}

// ListNames returns the sorted base names in a workspace-relative directory.
func (w *TestWorkspace) ListNames(relDir string) []string {
	w.t.Helper()
	entries, err := os.ReadDir(filepath.Join(w.Path, filepath.FromSlash(relDir)))
	if err != nil {
		w.t.Fatalf("read dir %s: %v", relDir, err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// AssertFileExists fails the test if the file does not exist.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(filepath.Join(w.Path, filepath.FromSlash(relPath))); err != nil {
		w.t.Errorf("expected file to exist: %s (%v)", relPath, err)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (w *TestWorkspace) AssertFileNotExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(filepath.Join(w.Path, filepath.FromSlash(relPath))); err == nil {
		w.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain substr.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected %s to contain %q, got:\n%s", relPath, substr, content)
	}
}
