package fileid

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aidanlsb/magpie/internal/workspace"
)

// Location is where an identified file currently lives.
type Location struct {
	Path string
}

// Index maps embedded identifiers to file locations.
//
// The index is best-effort: binary and unreadable files are skipped
// silently. Completeness only affects repair coverage, not correctness.
type Index struct {
	byID map[string]Location
}

// BuildIndex reads the leading bytes of every file under root (after
// exclusions) and records the embedded identifiers it finds.
//
// Reads are parallelized across a bounded worker pool as a throughput
// optimization; results are merged deterministically (a duplicate identifier
// keeps the lexicographically smaller path) before the index is returned,
// so scanning never interleaves with repairing.
func BuildIndex(ctx context.Context, root string, excludes []string) (*Index, error) {
	var (
		mu   sync.Mutex
		byID = make(map[string]Location)
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	err := workspace.WalkFiles(gctx, root, excludes, func(path, relPath string) error {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			id, ok, err := Read(path)
			if err != nil || !ok {
				return nil // best-effort: skip unreadable files
			}
			mu.Lock()
			defer mu.Unlock()
			if prev, exists := byID[id]; !exists || path < prev.Path {
				byID[id] = Location{Path: path}
			}
			return nil
		})
		return nil
	})
	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return nil, err
	}
	return &Index{byID: byID}, nil
}

// Lookup returns the location of an identifier, if indexed.
func (ix *Index) Lookup(id string) (Location, bool) {
	loc, ok := ix.byID[id]
	return loc, ok
}

// IDs returns every indexed identifier in sorted order.
func (ix *Index) IDs() []string {
	out := make([]string, 0, len(ix.byID))
	for id := range ix.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of indexed identifiers.
func (ix *Index) Len() int { return len(ix.byID) }
