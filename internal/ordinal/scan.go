package ordinal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDirectoryUnreadable indicates the target directory could not be listed.
// Callers scanning many directories treat this as skip-and-continue; callers
// operating on a user-specified directory treat it as fatal.
var ErrDirectoryUnreadable = errors.New("directory unreadable")

// Scan lists a directory and returns its ordinal items sorted by current
// numeric prefix ascending (ties broken by name). Entries that do not match
// the `<digits>_<suffix>` pattern are excluded, as are entries whose name
// starts with "." or "_" (reserved for hidden/generated artifacts).
func Scan(dir string) ([]Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, dir, err)
	}

	var items []Item
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		prefix, ord, suffix, ok := ParseName(name)
		if !ok {
			continue
		}
		items = append(items, Item{
			Name:    name,
			Prefix:  prefix,
			Ordinal: ord,
			Suffix:  suffix,
			IsDir:   e.IsDir(),
			Path:    filepath.Join(dir, name),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Ordinal != items[j].Ordinal {
			return items[i].Ordinal < items[j].Ordinal
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

// Find returns the item with the given base name from a scanned list.
func Find(items []Item, name string) (Item, bool) {
	for _, it := range items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}
