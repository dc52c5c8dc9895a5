// Package watcher monitors a workspace and re-scans changed documents for
// broken links.
//
// Watch mode is report-only: it never rewrites a document. Rewrites happen
// only through an explicit repair run, so a watcher racing an editor can
// never half-apply anything.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/magpie/internal/attachment"
	"github.com/aidanlsb/magpie/internal/fileid"
	"github.com/aidanlsb/magpie/internal/repair"
	"github.com/aidanlsb/magpie/internal/workspace"
)

// Result is the outcome of scanning one changed document.
type Result struct {
	Path    string
	Links   int
	Missing []repair.Missing
	// Broken counts links that do not resolve as written, whether or not
	// an index entry could repair them.
	Broken int
}

// Config configures a Watcher.
type Config struct {
	Root     string
	Excludes []string

	// Debounce delays scanning after a burst of events. Default 250ms.
	Debounce time.Duration

	// OnResult receives the scan outcome for each changed document.
	OnResult func(Result)

	// OnError receives non-fatal errors (unreadable files, watch churn).
	OnError func(error)
}

// Watcher watches a workspace for markdown changes.
type Watcher struct {
	cfg Config
	fsw *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]time.Time
}

// New creates a Watcher over every non-excluded directory under cfg.Root.
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{cfg: cfg, fsw: fsw, pending: make(map[string]time.Time)}
	if err := w.addDirs(cfg.Root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		rel, _ := filepath.Rel(root, path)
		if rel != "." && workspace.Excluded(filepath.ToSlash(rel), w.cfg.Excludes) {
			return filepath.SkipDir
		}
		if werr := w.fsw.Add(path); werr != nil && w.cfg.OnError != nil {
			w.cfg.OnError(fmt.Errorf("watch %s: %w", path, werr))
		}
		return nil
	})
}

// Run processes events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if w.cfg.OnError != nil {
				w.cfg.OnError(err)
			}

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "_") {
		return
	}
	// New directories need a watch of their own.
	if ev.Op&fsnotify.Create != 0 {
		if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
			_ = w.addDirs(ev.Name)
			return
		}
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), ".md") {
		return
	}

	w.mu.Lock()
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

// flush scans every document whose debounce window has elapsed. Indexes are
// rebuilt once per flush, before any document is scanned.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	var due []string
	now := time.Now()
	for path, at := range w.pending {
		if now.Sub(at) >= w.cfg.Debounce {
			due = append(due, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()
	if len(due) == 0 {
		return
	}

	attachments, err := attachment.BuildIndex(ctx, w.cfg.Root, w.cfg.Excludes)
	if err != nil {
		if w.cfg.OnError != nil {
			w.cfg.OnError(err)
		}
		return
	}
	ids, err := fileid.BuildIndex(ctx, w.cfg.Root, w.cfg.Excludes)
	if err != nil {
		if w.cfg.OnError != nil {
			w.cfg.OnError(err)
		}
		return
	}

	scanner := repair.NewScanner(attachments, ids)
	for _, path := range due {
		if ctx.Err() != nil {
			return
		}
		content, rerr := os.ReadFile(path)
		if rerr != nil {
			continue // deleted or unreadable between event and flush
		}
		_, res := scanner.RepairDocument(path, string(content))
		if w.cfg.OnResult != nil {
			w.cfg.OnResult(Result{
				Path:    path,
				Links:   res.Links,
				Missing: res.Missing,
				Broken:  res.Repaired + len(res.Missing),
			})
		}
	}
}
