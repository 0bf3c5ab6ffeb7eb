// Package grammar parses a line-oriented, tag-based grammar definition and
// generates pseudo-random strings — including source code in a target
// scripting language — by recursive expansion of symbols.
//
// # Basic usage
//
//	g := grammar.New()
//	if errs := g.ParseFromFile("rules/js.txt"); errs > 0 {
//		log.Fatalf("%d errors parsing grammar", errs)
//	}
//	out, err := g.GenerateRoot()
//
// # Grammar syntax
//
// A grammar is built from directives and rules, one per physical line.
// Directives start with "!":
//
//	!varformat var%05d
//	!max_recursion 50
//	!extends Element Node
//
// A grammar rule declares a symbol and its expansion:
//
//	<greeting root> = Hello, <name>!
//	<name> = World
//	<name p=0.1> = Reader
//
// Tags (`<...>`) on the right-hand side either recurse into another symbol,
// invoke a built-in type generator (`<uint8 min=0 max=255>`), a constant
// (`<lt>`, `<gt>`), a user callback (`<call function=foo>`), or pick a
// previously declared variable (`<any>`).
//
// Inside a `!begin lines` / `!end lines` block, rules describe statements of
// a generated program rather than grammar fragments; `<new T>` tags declare
// typed variables that later lines may reuse:
//
//	!begin lines
//	var <new Element> = document.createElement("div");
//	use(<Element>);
//	!end lines
//
// This is the core of a grammar-based test-case generator for browser
// fuzzing; see the package's accompanying design notes for the full
// rationale behind probability weights, recursion-depth control, typed
// variable tracking and "interesting line" bias.
package grammar

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// nonInterestingTypes is the fixed set of types that never participate in
// variable tracking, reuse, or inheritance indexing (spec.md Glossary
// "_NONINTERESTING_TYPES").
var nonInterestingTypes = map[string]bool{
	"short":    true,
	"long":     true,
	"DOMString": true,
	"boolean":  true,
	"float":    true,
	"double":   true,
}

func isNonInteresting(t string) bool { return nonInterestingTypes[t] }

// constantTypes maps constant tags to their fixed literal expansion
// (spec.md §4.1 table / Part variant "constant tag").
var constantTypes = map[string]string{
	"lt":    "<",
	"gt":    ">",
	"hash":  "#",
	"cr":    "\r",
	"lf":    "\n",
	"space": " ",
	"tab":   "\t",
	"ex":    "!",
}

// Grammar holds a parsed rule set and the tunables that govern expansion
// (spec.md §3 "Grammar").
type Grammar struct {
	creators             map[string][]*Rule
	nonrecursiveCreators map[string][]*Rule

	creatorCDFs             map[string][]float64
	nonrecursiveCreatorCDFs map[string][]float64

	allRules []*Rule

	rootSymbol string

	interestingLines  map[string][]int
	allNonhelperLines []int

	imports   map[string]*Grammar
	functions map[string]Callback
	funcSrc   map[string]string

	inheritance map[string][]string

	varFormat           string
	lineGuard           string
	recursionMax        int
	varReuseProb        float64
	interestingLineProb float64
	maxVarsOfSameType   int

	// SeedDOMVariables controls whether GenerateCode implicitly declares a
	// "document" variable of type Document and a "window" variable of type
	// Window before generating any lines (spec.md §9 Open Question). The
	// original always does this; default true preserves that behavior.
	SeedDOMVariables bool

	definitionsDir string

	// Log receives parse and expansion diagnostics. Defaults to a disabled
	// logger; callers that want visibility into parse-error counting or
	// recursion-retry warnings (spec.md §7) should assign their own.
	Log zerolog.Logger
}

// New returns a Grammar with spec.md §3's documented default tunables.
func New() *Grammar {
	return &Grammar{
		creators:                map[string][]*Rule{},
		nonrecursiveCreators:    map[string][]*Rule{},
		creatorCDFs:             map[string][]float64{},
		nonrecursiveCreatorCDFs: map[string][]float64{},
		interestingLines:        map[string][]int{},
		imports:                 map[string]*Grammar{},
		functions:               map[string]Callback{},
		funcSrc:                 map[string]string{},
		inheritance:             map[string][]string{},
		varFormat:               "var%05d",
		recursionMax:            50,
		varReuseProb:            0.75,
		interestingLineProb:     0.9,
		maxVarsOfSameType:       5,
		SeedDOMVariables:        true,
		definitionsDir:          ".",
		Log:                     zerolog.Nop(),
	}
}

// AddImport mounts a pre-parsed sibling grammar, addressable from
// `<import from=name ...>` tags, without reparsing it (spec.md §6).
func (g *Grammar) AddImport(name string, sub *Grammar) {
	g.imports[name] = sub
}

// RegisterFunction registers a host-side callback addressable from `<call
// function=name>` and `beforeoutput=name` tags (spec.md §4.1/§9 design
// note: a plug-in interface stands in for the original's compiled
// user-provided snippets).
func (g *Grammar) RegisterFunction(name string, fn Callback) {
	g.functions[name] = fn
}

// FunctionSource returns the dedented source text captured from a
// `!begin function NAME` / `!end function` block, if any was parsed for
// name. It is documentation only; execution always goes through the
// function registered with RegisterFunction.
func (g *Grammar) FunctionSource(name string) (string, bool) {
	s, ok := g.funcSrc[name]
	return s, ok
}

// ParseFromFile reads and parses a grammar definition from filename,
// returning the number of errors encountered. A non-zero count means the
// grammar is unusable (spec.md §4.1 "Error policy").
func (g *Grammar) ParseFromFile(filename string) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		g.Log.Error().Err(err).Str("file", filename).Msg("error reading grammar file")
		return 1
	}
	g.definitionsDir = filepath.Dir(filename)
	return g.ParseFromString(string(content))
}

// ParseFromString parses grammar rules from a string, returning the number
// of errors encountered.
func (g *Grammar) ParseFromString(source string) int {
	errs := g.includeFromString(source)
	if errs > 0 {
		return errs
	}
	g.normalizeProbabilities()
	g.computeInterestingIndices()
	return 0
}

// GenerateRoot expands the grammar's root symbol (the tag marked `root` on
// its left-hand side).
func (g *Grammar) GenerateRoot() (string, error) {
	if g.rootSymbol == "" {
		return "", newGrammarError("no root element defined")
	}
	ctx := newGenerationContext()
	return g.generate(g.rootSymbol, ctx, 0, false)
}

// GenerateSymbol expands an arbitrary symbol by name.
func (g *Grammar) GenerateSymbol(name string) (string, error) {
	ctx := newGenerationContext()
	return g.generate(name, ctx, 0, false)
}

// CheckClosure reports, for every parsed rule, any tag part whose tagname
// is neither a built-in type, a constant, `call`/`any`/`import`, nor
// present in the creator table — spec.md §8 "Parse closure" as an optional
// post-parse diagnostic (grounded on original_source/generator.py's
// check_grammar, never invoked automatically there either).
func (g *Grammar) CheckClosure() []error {
	var errs []error
	for _, rule := range g.allRules {
		for _, part := range rule.parts {
			if part.kind != partTag {
				continue
			}
			name := part.tagname
			if name == "call" || name == "any" || name == "import" {
				continue
			}
			if _, ok := constantTypes[name]; ok {
				continue
			}
			if _, ok := builtinTypes[name]; ok {
				continue
			}
			if _, ok := g.creators[name]; ok {
				continue
			}
			errs = append(errs, newGrammarError("no creators for type %s", name))
		}
	}
	return errs
}
