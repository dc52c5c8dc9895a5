// Package attachment indexes hash-named attachment files in a workspace.
//
// The index maps fingerprint -> current location by parsing fingerprints out
// of filenames; content is never re-hashed, the name is trusted. It is
// rebuilt in full on every repair run and consumed within that run only.
// It is a snapshot, stale the moment a rename happens.
package attachment

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidanlsb/magpie/internal/fingerprint"
	"github.com/aidanlsb/magpie/internal/workspace"
)

// OrphanPrefix marks attachments no scanned document references.
// Marking is idempotent: an already-prefixed name is never prefixed again.
const OrphanPrefix = "ORPHAN-"

// IsOrphanName reports whether a base name already carries the orphan prefix.
func IsOrphanName(name string) bool {
	return strings.HasPrefix(name, OrphanPrefix)
}

// OrphanName returns the marked form of a base name, unchanged if it is
// already marked.
func OrphanName(name string) string {
	if IsOrphanName(name) {
		return name
	}
	return OrphanPrefix + name
}

// Location is where an indexed attachment currently lives.
type Location struct {
	Path string // absolute path
	Name string // base name
}

// Index maps fingerprints to attachment locations.
type Index struct {
	byFingerprint map[string]Location
	duplicates    int
}

// BuildIndex scans root for hash-named files. Files sharing a fingerprint
// (true duplicate content) overwrite each other; the last seen in walk order
// wins. Attachments are rarely duplicated in practice, so the approximation
// is accepted and surfaced only as a count.
func BuildIndex(ctx context.Context, root string, excludes []string) (*Index, error) {
	ix := &Index{byFingerprint: make(map[string]Location)}
	err := workspace.WalkFiles(ctx, root, excludes, func(path, relPath string) error {
		name := filepath.Base(path)
		fp, ok := fingerprint.ParseName(strings.TrimPrefix(name, OrphanPrefix))
		if !ok {
			return nil
		}
		if _, exists := ix.byFingerprint[fp]; exists {
			ix.duplicates++
		}
		ix.byFingerprint[fp] = Location{Path: path, Name: name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ix, nil
}

// Lookup returns the location of a fingerprint, if indexed.
// The fingerprint is matched case-insensitively.
func (ix *Index) Lookup(fp string) (Location, bool) {
	loc, ok := ix.byFingerprint[strings.ToLower(fp)]
	return loc, ok
}

// Fingerprints returns every indexed fingerprint in sorted order.
func (ix *Index) Fingerprints() []string {
	out := make([]string, 0, len(ix.byFingerprint))
	for fp := range ix.byFingerprint {
		out = append(out, fp)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of indexed attachments.
func (ix *Index) Len() int { return len(ix.byFingerprint) }

// Duplicates returns how many fingerprints were seen more than once.
func (ix *Index) Duplicates() int { return ix.duplicates }
