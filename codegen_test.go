package grammar

import (
	"strings"
	"testing"
)

func TestGenerateCodeExactLineCountWithNoVariables(t *testing.T) {
	g := New()
	g.SeedDOMVariables = false
	errs := g.ParseFromString(`
!begin lines
doStuff();
!end lines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	out, err := g.GenerateCode(4, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), out)
	}
	for _, l := range lines {
		if l != "doStuff();" {
			t.Errorf("unexpected line %q", l)
		}
	}
}

func TestGenerateCodeZeroLinesNeverErrorsWithoutLineRules(t *testing.T) {
	g := New()
	out, err := g.GenerateCode(0, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error requesting zero lines: %v", err)
	}
	if out != "" {
		t.Errorf("got %q, want empty output", out)
	}
}

func TestGenerateCodeErrorsWhenLinesRequestedWithNoRules(t *testing.T) {
	g := New()
	if _, err := g.GenerateCode(1, nil, 0); err == nil {
		t.Fatalf("expected an error requesting lines from a grammar with no line rules")
	}
}

func TestGenerateCodeSeedsDocumentAndWindowByDefault(t *testing.T) {
	g := New()
	errs := g.ParseFromString(`
!begin lines
use(<any>);
!end lines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	out, err := g.GenerateCode(1, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "document") && !strings.Contains(out, "window") {
		t.Errorf("expected the seeded document/window variable to be picked by <any>, got %q", out)
	}
}

func TestGenerateCodeSeedDOMVariablesCanBeDisabled(t *testing.T) {
	g := New()
	g.SeedDOMVariables = false
	errs := g.ParseFromString(`
!begin lines
use(<any>);
!end lines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	if _, err := g.GenerateCode(1, nil, 0); err == nil {
		t.Fatalf("expected an error: no variables declared with seeding disabled and no initial vars")
	}
}

func TestGenerateCodeVarReuseProbOneNeverCreatesSecondVariable(t *testing.T) {
	g := New()
	g.SeedDOMVariables = false
	g.varReuseProb = 1.0
	errs := g.ParseFromString(`
!begin helperlines
var <new T> = makeT();
!end helperlines
!begin lines
use(<T>);
!end lines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	out, err := g.GenerateCode(20, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(out, "makeT()"); got != 1 {
		t.Errorf("makeT() created %d times, want exactly 1 with var_reuse_prob=1.0", got)
	}
}

func TestVariableSettersWalksInheritanceChain(t *testing.T) {
	g := New()
	g.inheritance["Element"] = []string{"Node"}
	g.inheritance["Node"] = []string{"EventTarget"}

	got := g.variableSetters("var00001", "Element")
	for _, want := range []string{"'Element'", "'Node'", "'EventTarget'"} {
		if !strings.Contains(got, want) {
			t.Errorf("variableSetters output %q missing %s", got, want)
		}
	}
}

func TestGenerateCodeInitialVarsAreAvailableToAny(t *testing.T) {
	g := New()
	g.SeedDOMVariables = false
	errs := g.ParseFromString(`
!begin lines
use(<any>);
!end lines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	out, err := g.GenerateCode(1, []InitialVar{{Name: "preset0001", Type: "Node"}}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "preset0001") {
		t.Errorf("expected the pre-declared variable to be usable, got %q", out)
	}
}
