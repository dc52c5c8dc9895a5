package repair

import "testing"

func TestApplyReplacements(t *testing.T) {
	content := "aaa BBB ccc DDD eee"
	reps := []Replacement{
		{Start: 12, End: 15, Text: "d"}, // DDD, deliberately listed first
		{Start: 4, End: 7, Text: "b"},   // BBB
	}

	out, skipped := ApplyReplacements(content, reps)
	if out != "aaa b ccc d eee" {
		t.Errorf("out = %q", out)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestApplyReplacementsNone(t *testing.T) {
	out, skipped := ApplyReplacements("unchanged", nil)
	if out != "unchanged" || skipped != nil {
		t.Errorf("got (%q, %v)", out, skipped)
	}
}

func TestApplyReplacementsSkipsOverlap(t *testing.T) {
	content := "0123456789"
	reps := []Replacement{
		{Start: 2, End: 6, Text: "X"},
		{Start: 4, End: 8, Text: "Y"}, // overlaps the first; starts later, dropped
		{Start: 8, End: 10, Text: "Z"},
	}

	out, skipped := ApplyReplacements(content, reps)
	if out != "01X67Z" {
		t.Errorf("out = %q", out)
	}
	if len(skipped) != 1 || skipped[0].Text != "Y" {
		t.Errorf("skipped = %v, want the later overlapping replacement", skipped)
	}
}

func TestApplyReplacementsAdjacentNotOverlapping(t *testing.T) {
	out, skipped := ApplyReplacements("abcd", []Replacement{
		{Start: 0, End: 2, Text: "X"},
		{Start: 2, End: 4, Text: "Y"},
	})
	if out != "XY" || len(skipped) != 0 {
		t.Errorf("got (%q, %v)", out, skipped)
	}
}
