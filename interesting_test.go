package grammar

import "testing"

func TestComputeInterestingIndicesMarksReferencingLines(t *testing.T) {
	g := New()
	errs := g.ParseFromString(`
!begin lines
var <new Element> = document.createElement("div");
use(<Element>);
use(<any>);
!end lines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}

	if len(g.allNonhelperLines) != 3 {
		t.Fatalf("allNonhelperLines = %v, want 3 entries", g.allNonhelperLines)
	}
	// Only the "use(<Element>);" line references Element as a plain tag
	// (not a <new ...> declaration), so it alone should be marked interesting.
	if got := g.interestingLines["Element"]; len(got) != 1 || got[0] != 1 {
		t.Errorf("interestingLines[Element] = %v, want [1]", got)
	}
}

func TestComputeInterestingIndicesSkipsNonInterestingTypes(t *testing.T) {
	g := New()
	errs := g.ParseFromString(`
!begin lines
use(<boolean>);
!end lines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	if got := g.interestingLines["boolean"]; len(got) != 0 {
		t.Errorf("expected boolean to never be indexed as interesting, got %v", got)
	}
}

func TestComputeInterestingIndicesExcludesHelperLines(t *testing.T) {
	g := New()
	errs := g.ParseFromString(`
!begin lines
var <new Element> = makeElement();
!end lines
!begin helperlines
helper(<Element>);
!end helperlines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	if len(g.allNonhelperLines) != 1 {
		t.Errorf("allNonhelperLines = %v, want exactly 1 (the non-helper line)", g.allNonhelperLines)
	}
}
