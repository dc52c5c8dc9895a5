package ordinal

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aidanlsb/magpie/internal/renametx"
)

// Direction selects which neighbor a MoveAdjacent operation swaps with.
type Direction int

const (
	// Up swaps with the immediate predecessor in ordinal order.
	Up Direction = iota
	// Down swaps with the immediate successor.
	Down
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// DuplicateSuffixError reports suffixes shared by two or more items in one
// directory. Duplicate suffixes make renumbering unsafe, so the plan is
// rejected before any rename is attempted.
type DuplicateSuffixError struct {
	Dir      string
	Suffixes []string
}

func (e *DuplicateSuffixError) Error() string {
	return fmt.Sprintf("duplicate suffixes in %s: %s", e.Dir, strings.Join(e.Suffixes, ", "))
}

// checkSuffixes rejects item lists whose suffixes collide modulo case.
func checkSuffixes(items []Item) error {
	seen := make(map[string]string, len(items))
	var dups []string
	for _, it := range items {
		key := strings.ToLower(it.Suffix)
		if prev, ok := seen[key]; ok {
			dups = append(dups, prev+" / "+it.Name)
			continue
		}
		seen[key] = it.Name
	}
	if len(dups) > 0 {
		dir := ""
		if len(items) > 0 {
			dir = items[0].Dir()
		}
		return &DuplicateSuffixError{Dir: dir, Suffixes: dups}
	}
	return nil
}

// RenumberPlan computes the renames that assign ordinal 10*(index+1) to every
// item in current order. Items whose name already matches the computed name
// produce no step, so renumbering an already-correct directory yields an
// empty plan.
//
// The relative order of items is preserved: only the absolute ordinal values
// change. No two plan steps can collide on a destination name because
// suffixes are unique within the directory (enforced here, pre-flight).
func RenumberPlan(items []Item) ([]renametx.Step, error) {
	if err := checkSuffixes(items); err != nil {
		return nil, err
	}
	var steps []renametx.Step
	for i, it := range items {
		want := FormatName((i+1)*Step, it.Suffix)
		if it.Name == want {
			continue
		}
		steps = append(steps, renametx.Step{
			From: it.Path,
			To:   filepath.Join(it.Dir(), want),
		})
	}
	return steps, nil
}

// InsertName computes the name for a new item slotted immediately after an
// existing one: the existing ordinal plus one, rendered with the standard
// padding. No existing item is renumbered; the gap-of-10 convention is
// expected to provide the headroom.
func InsertName(after Item, suffix string) string {
	return FormatName(after.Ordinal+1, suffix)
}

// MoveAdjacentPlan swaps an item's ordinal with its immediate neighbor in the
// given direction. The two items exchange their raw prefixes as written, so
// every other name in the directory is byte-identical before and after.
//
// atBoundary is true (with an empty plan and nil error) when the item is
// already first (Up) or last (Down): a benign no-op, not a failure.
func MoveAdjacentPlan(items []Item, name string, dir Direction) (steps []renametx.Step, atBoundary bool, err error) {
	if err := checkSuffixes(items); err != nil {
		return nil, false, err
	}

	idx := -1
	for i, it := range items {
		if it.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false, fmt.Errorf("item not found: %s", name)
	}

	var other int
	if dir == Up {
		other = idx - 1
	} else {
		other = idx + 1
	}
	if other < 0 || other >= len(items) {
		return nil, true, nil
	}

	a, b := items[idx], items[other]
	return []renametx.Step{
		{From: a.Path, To: filepath.Join(a.Dir(), b.Prefix+"_"+a.Suffix)},
		{From: b.Path, To: filepath.Join(b.Dir(), a.Prefix+"_"+b.Suffix)},
	}, false, nil
}

// stagingPrefix keeps the relocated item outside the visible ordinal sequence
// while its destination neighbors shift. A leading dot also hides it from
// Scan, so a crash mid-shift never leaves two items competing for one name.
const stagingPrefix = ".magpie-relocating-"

// StagingName returns the temporary name used to park an item during a
// relocation.
func StagingName(it Item) string {
	return stagingPrefix + it.Suffix
}

// RelocatePlan moves an item into the directory containing destNeighbor,
// giving it destNeighbor's ordinal. Every destination item whose ordinal is
// >= that ordinal shifts up by Step, processed highest-ordinal-first so no
// two items ever collide on an intermediate name.
//
// destItems must be the scanned contents of the destination directory. The
// moved item itself must not appear in destItems (relocating within a
// directory requires the caller to scan with the item excluded).
func RelocatePlan(item Item, destItems []Item, destNeighbor Item) ([]renametx.Step, error) {
	destDir := destNeighbor.Dir()

	all := make([]Item, 0, len(destItems)+1)
	all = append(all, destItems...)
	all = append(all, item)
	if err := checkSuffixes(all); err != nil {
		return nil, err
	}

	staging := filepath.Join(destDir, StagingName(item))
	steps := []renametx.Step{{From: item.Path, To: staging}}

	shifting := make([]Item, 0, len(destItems))
	for _, it := range destItems {
		if it.Ordinal >= destNeighbor.Ordinal {
			shifting = append(shifting, it)
		}
	}
	sort.SliceStable(shifting, func(i, j int) bool {
		return shifting[i].Ordinal > shifting[j].Ordinal
	})
	for _, it := range shifting {
		steps = append(steps, renametx.Step{
			From: it.Path,
			To:   filepath.Join(destDir, FormatName(it.Ordinal+Step, it.Suffix)),
		})
	}

	steps = append(steps, renametx.Step{
		From: staging,
		To:   filepath.Join(destDir, FormatName(destNeighbor.Ordinal, item.Suffix)),
	})
	return steps, nil
}
