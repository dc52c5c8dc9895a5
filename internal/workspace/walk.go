// Package workspace enumerates the files of a Magpie workspace.
//
// It centralizes the skip rules every scanning component shares: the
// .magpie state directory, hidden and underscore-prefixed entries, and the
// caller-supplied exclusion globs. Exclusion patterns are matched against
// slash-separated workspace-relative paths and support `**`.
package workspace

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// StateDir is the per-workspace directory for generated artifacts
// (run history, locks). It is never scanned.
const StateDir = ".magpie"

// Excluded reports whether a workspace-relative slash path matches any of
// the exclusion globs. Invalid patterns never match.
func Excluded(relPath string, excludes []string) bool {
	for _, pat := range excludes {
		if ok, err := doublestar.Match(pat, relPath); err == nil && ok {
			return true
		}
	}
	return false
}

func skipName(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// WalkFiles calls fn for every regular file under root, in lexical order,
// honoring the shared skip rules and exclusion globs. The context is checked
// before each directory entry so a long walk can be aborted between files.
//
// Unreadable subdirectories are skipped, not fatal: the walk is best-effort
// over as much of the workspace as can be read.
func WalkFiles(ctx context.Context, root string, excludes []string, fn func(path, relPath string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if skipName(d.Name()) || d.Name() == StateDir || Excluded(rel, excludes) {
				return filepath.SkipDir
			}
			return nil
		}
		if skipName(d.Name()) || Excluded(rel, excludes) {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return fn(path, rel)
	})
}

// WalkDocuments calls fn for every markdown document under root, applying
// the same rules as WalkFiles.
func WalkDocuments(ctx context.Context, root string, excludes []string, fn func(path, relPath string) error) error {
	return WalkFiles(ctx, root, excludes, func(path, relPath string) error {
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}
		return fn(path, relPath)
	})
}
