package grammar

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseGrammarLineBasic(t *testing.T) {
	g := New()
	if errs := g.ParseFromString(`<root root> = A<lt>B<gt>C`); errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	out, err := g.GenerateRoot()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "A<B>C" {
		t.Errorf("got %q, want A<B>C", out)
	}
}

func TestParseRecursiveFlag(t *testing.T) {
	g := New()
	if errs := g.ParseFromString(`
<root root> = <x>
<x> = (<x>)
<x nonrecursive> = leaf
`); errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}

	rules := g.creators["x"]
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules for x, got %d", len(rules))
	}
	if !rules[0].recursive {
		t.Errorf("expected first x rule to be recursive")
	}
	if rules[1].recursive {
		t.Errorf("expected nonrecursive leaf rule to not be flagged recursive")
	}
	if len(g.nonrecursiveCreators["x"]) != 1 {
		t.Errorf("expected exactly one nonrecursive creator for x")
	}
}

func TestParseCodeLineCreatesAndHelperLines(t *testing.T) {
	g := New()
	errs := g.ParseFromString(`
!begin lines
var <new T> = makeT();
!end lines
!begin helperlines
helper<new T>
!end helperlines
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	if len(g.creators["T"]) != 2 {
		t.Fatalf("expected 2 creators for T, got %d", len(g.creators["T"]))
	}
	if len(g.creators["line"]) != 1 {
		t.Fatalf("expected only the non-helper rule under line, got %d", len(g.creators["line"]))
	}
}

func TestDirectivesAndExtends(t *testing.T) {
	g := New()
	errs := g.ParseFromString(`
!varformat myvar%03d
!max_recursion 7
!var_reuse_prob 0.5
!extends Element Node
!extends Element EventTarget
<root root> = hi
`)
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	if g.varFormat != "myvar%03d" {
		t.Errorf("varformat = %q", g.varFormat)
	}
	if g.recursionMax != 7 {
		t.Errorf("recursionMax = %d", g.recursionMax)
	}
	if g.varReuseProb != 0.5 {
		t.Errorf("varReuseProb = %v", g.varReuseProb)
	}
	if got := g.inheritance["Element"]; len(got) != 2 || got[0] != "Node" || got[1] != "EventTarget" {
		t.Errorf("inheritance[Element] = %v", got)
	}
}

func TestParseErrorsAreCounted(t *testing.T) {
	g := New()
	errs := g.ParseFromString(`
this is not valid
!max_recursion notanumber
<root root> = ok
`)
	if errs != 2 {
		t.Fatalf("expected 2 errors, got %d", errs)
	}
}

func TestIncludeFromFile(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub.txt")
	if err := os.WriteFile(sub, []byte("<leaf> = leaftext\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "main.txt")
	if err := os.WriteFile(main, []byte("!include sub.txt\n<root root> = <leaf>\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := New()
	if errs := g.ParseFromFile(main); errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	out, err := g.GenerateRoot()
	if err != nil || out != "leaftext" {
		t.Fatalf("got (%q, %v)", out, err)
	}
}

func TestImportGrammar(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub.txt")
	if err := os.WriteFile(sub, []byte("<thing root> = subthing\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "main.txt")
	content := "!import sub.txt\n<root root> = <import from=sub.txt>\n"
	if err := os.WriteFile(main, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	g := New()
	if errs := g.ParseFromFile(main); errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	out, err := g.GenerateRoot()
	if err != nil || out != "subthing" {
		t.Fatalf("got (%q, %v)", out, err)
	}
}

func TestFunctionBlockCaptureAndDedent(t *testing.T) {
	g := New()
	errs := g.ParseFromString("!begin function double\n" +
		"    x = current * 2\n" +
		"!end function\n" +
		"<root root> = hi\n")
	if errs != 0 {
		t.Fatalf("unexpected parse errors: %d", errs)
	}
	src, ok := g.FunctionSource("double")
	if !ok {
		t.Fatalf("expected function source to be captured")
	}
	if src != "x = current * 2\n" {
		t.Errorf("got %q", src)
	}
}
