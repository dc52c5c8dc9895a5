package repair

import (
	"sort"
	"strings"
)

// Replacement substitutes Text for the byte range [Start, End) of a document.
type Replacement struct {
	Start int
	End   int
	Text  string
}

// ApplyReplacements applies a set of replacements to content in a single
// pass. Every Start/End refers to the original content, so applying one
// replacement never invalidates the offsets of those still pending.
//
// Overlapping replacements are not expected (the two link shapes use
// disjoint syntax) but are not allowed to corrupt the document: when two
// replacements overlap, the one starting later in the document is dropped
// and returned in skipped.
func ApplyReplacements(content string, reps []Replacement) (out string, skipped []Replacement) {
	if len(reps) == 0 {
		return content, nil
	}

	sorted := make([]Replacement, len(reps))
	copy(sorted, reps)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	kept := sorted[:1]
	for _, r := range sorted[1:] {
		prev := kept[len(kept)-1]
		if r.Start < prev.End {
			skipped = append(skipped, r)
			continue
		}
		kept = append(kept, r)
	}

	var b strings.Builder
	b.Grow(len(content))
	last := 0
	for _, r := range kept {
		b.WriteString(content[last:r.Start])
		b.WriteString(r.Text)
		last = r.End
	}
	b.WriteString(content[last:])
	return b.String(), skipped
}
