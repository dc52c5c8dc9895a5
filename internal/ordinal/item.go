// Package ordinal maintains the numeric-prefix ordering of files and folders
// in a workspace directory.
//
// Items are named `<digits>_<suffix>` (e.g. "00010_intro.md"). The numeric
// prefix is the item's ordinal; sequences start at 10 and step by 10 so a
// single item can be slotted between two neighbors without renumbering the
// whole directory. All mutating operations are computed as pure rename plans
// first and executed through the renametx package.
package ordinal

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

const (
	// Step is the gap between consecutive ordinals after a renumber.
	Step = 10

	// First is the ordinal assigned to the first item in a sequence.
	First = 10

	// Width is the zero-padded width used when rendering an ordinal
	// back into a name.
	Width = 5
)

var namePattern = regexp.MustCompile(`^(\d+)_(.+)$`)

// Item is one ordinal-prefixed entry in a directory. Items are constructed
// fresh on every scan and never persisted.
type Item struct {
	// Name is the current base name, e.g. "00010_intro.md".
	Name string

	// Prefix is the raw digit run as written, e.g. "00010" or "9".
	Prefix string

	// Ordinal is the parsed numeric value of Prefix.
	Ordinal int

	// Suffix is the name with the prefix and separator stripped.
	Suffix string

	// IsDir reports whether the item is a directory.
	IsDir bool

	// Path is the absolute path of the item.
	Path string
}

// Dir returns the directory containing the item.
func (it Item) Dir() string { return filepath.Dir(it.Path) }

// ParseName splits an ordinal-prefixed base name into its parts.
// ok is false if the name does not match `<digits>_<suffix>`.
func ParseName(name string) (prefix string, ord int, suffix string, ok bool) {
	m := namePattern.FindStringSubmatch(name)
	if m == nil {
		return "", 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Prefixes long enough to overflow int are not ordinals we manage.
		return "", 0, "", false
	}
	return m[1], n, m[2], true
}

// FormatName renders an ordinal and suffix into a canonical base name,
// zero-padding the ordinal to Width digits.
func FormatName(ord int, suffix string) string {
	return fmt.Sprintf("%0*d_%s", Width, ord, suffix)
}
