package grammar

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	grammarLineRe = regexp.MustCompile(`^<([^>]*)>\s*=\s*(.*)$`)
	functionBlockRe = regexp.MustCompile(`^function\s*([a-zA-Z._0-9]+)$`)
)

// includeFromString is the per-line driver behind ParseFromString: it
// classifies each line as a directive, a begin/end block marker, a captured
// function-body line, a code-rule line, or a grammar-rule line, and returns
// the number of errors encountered (spec.md §4.1, §7 "Error policy" — parse
// keeps going and counts rather than aborting on the first error).
func (g *Grammar) includeFromString(source string) int {
	var (
		inCode       bool
		helperLines  bool
		inFunction   bool
		functionName string
		functionBody strings.Builder
		numErrors    int
	)

	for lineNo, raw := range strings.Split(source, "\n") {
		var line string
		if !inFunction {
			line = stripComment(raw)
			if line == "" {
				continue
			}
		} else {
			line = raw
		}

		if command, params, ok := directivePrefix(line); ok {
			switch {
			case commandHandlers[command] != nil:
				if err := commandHandlers[command](g, params); err != nil {
					g.Log.Warn().Err(err).Int("line", lineNo+1).Msg("error applying directive")
					numErrors++
				}
			case command == "begin" && params == "lines":
				inCode, helperLines = true, false
			case command == "begin" && params == "helperlines":
				inCode, helperLines = true, true
			case command == "end" && (params == "lines" || params == "helperlines"):
				inCode = false
			case command == "begin" && strings.HasPrefix(params, "function"):
				m := functionBlockRe.FindStringSubmatch(params)
				if m != nil && !inFunction {
					functionName = m[1]
					functionBody.Reset()
					inFunction = true
				} else {
					g.Log.Warn().Int("line", lineNo+1).Str("text", raw).Msg("error parsing line")
					numErrors++
				}
			case command == "end" && params == "function":
				if inFunction {
					inFunction = false
					g.saveFunctionSource(functionName, functionBody.String())
				}
			default:
				g.Log.Warn().Str("command", command).Int("line", lineNo+1).Msg("unknown command")
				numErrors++
			}
			continue
		}

		var err error
		switch {
		case inFunction:
			functionBody.WriteString(line)
			functionBody.WriteByte('\n')
		case inCode:
			err = g.parseCodeLine(line, helperLines)
		default:
			err = g.parseGrammarLine(line)
		}
		if err != nil {
			g.Log.Warn().Err(err).Int("line", lineNo+1).Str("text", raw).Msg("error parsing line")
			numErrors++
		}
	}

	return numErrors
}

// saveFunctionSource dedents and records a captured function body as
// documentation metadata (spec.md §9 design note — execution goes through
// RegisterFunction, not a compiled snippet).
func (g *Grammar) saveFunctionSource(name, body string) {
	g.funcSrc[name] = dedent(body)
}

// parseGrammarLine parses a `<tag attrs> = RHS` rule (spec.md §4.1
// "Grammar-line syntax").
func (g *Grammar) parseGrammarLine(line string) error {
	m := grammarLineRe.FindStringSubmatch(line)
	if m == nil {
		return newGrammarError("error parsing rule %s", line)
	}

	createTag, err := parseTagAttrs(m[1])
	if err != nil {
		return err
	}

	rule := &Rule{kind: kindGrammar, creates: []Part{createTag}}

	rhsParts := splitTagParts(m[2])
	for i, raw := range rhsParts {
		if i%2 == 0 {
			if raw != "" {
				rule.parts = append(rule.parts, Part{kind: partText, text: raw})
			}
			continue
		}
		tag, err := parseTagAttrs(raw)
		if err != nil {
			return err
		}
		rule.parts = append(rule.parts, tag)
		if tag.tagname == createTag.tagname {
			rule.recursive = true
		}
	}

	symbol := createTag.tagname
	g.creators[symbol] = append(g.creators[symbol], rule)
	if createTag.attrs.has("nonrecursive") {
		g.nonrecursiveCreators[symbol] = append(g.nonrecursiveCreators[symbol], rule)
	}
	g.allRules = append(g.allRules, rule)
	if createTag.attrs.has("root") {
		g.rootSymbol = symbol
	}
	return nil
}

// parseCodeLine parses a statement template inside a `!begin lines`/
// `!begin helperlines` block (spec.md §4.1 "Code-line syntax").
func (g *Grammar) parseCodeLine(line string, helperLines bool) error {
	rule := &Rule{kind: kindCode}

	parts := splitTagParts(line)
	for i, raw := range parts {
		if i%2 == 0 {
			if raw != "" {
				rule.parts = append(rule.parts, Part{kind: partText, text: raw})
			}
			continue
		}
		tag, err := parseTagAttrs(raw)
		if err != nil {
			return err
		}
		rule.parts = append(rule.parts, tag)
		if tag.isNew {
			rule.creates = append(rule.creates, tag)
		}
	}

	for _, tag := range rule.creates {
		name := tag.tagname
		if isNonInteresting(name) {
			continue
		}
		g.creators[name] = append(g.creators[name], rule)
		if tag.attrs.has("nonrecursive") {
			g.nonrecursiveCreators[name] = append(g.nonrecursiveCreators[name], rule)
		}
	}

	if !helperLines {
		g.creators["line"] = append(g.creators["line"], rule)
	}

	g.allRules = append(g.allRules, rule)
	return nil
}

// commandHandlers dispatches `!directive params` lines to their handler
// (spec.md §4.1 directive table).
var commandHandlers = map[string]func(*Grammar, string) error{
	"varformat": func(g *Grammar, params string) error {
		g.varFormat = strings.TrimSpace(params)
		return nil
	},
	"include": func(g *Grammar, params string) error {
		return g.includeFromFile(strings.TrimSpace(params))
	},
	"import": func(g *Grammar, params string) error {
		return g.importGrammar(strings.TrimSpace(params))
	},
	"lineguard": func(g *Grammar, params string) error {
		g.lineGuard = params
		return nil
	},
	"max_recursion": func(g *Grammar, params string) error {
		n, err := strconv.Atoi(strings.TrimSpace(params))
		if err != nil {
			return newGrammarError("argument to max_recursion is not an integer")
		}
		g.recursionMax = n
		return nil
	},
	"var_reuse_prob": func(g *Grammar, params string) error {
		p, err := strconv.ParseFloat(strings.TrimSpace(params), 64)
		if err != nil {
			return newGrammarError("argument to var_reuse_prob is not a number")
		}
		g.varReuseProb = p
		return nil
	},
	"extends": func(g *Grammar, params string) error {
		fields := strings.Fields(params)
		if len(fields) != 2 {
			return newGrammarError("extends requires exactly two arguments")
		}
		g.inheritance[fields[0]] = append(g.inheritance[fields[0]], fields[1])
		return nil
	},
}

// includeFromFile parses another grammar file into this grammar, resolving
// filename relative to the currently-including file's directory (spec.md
// §4.1 "include").
func (g *Grammar) includeFromFile(filename string) error {
	path := filepath.Join(g.definitionsDir, filename)
	content, err := os.ReadFile(path)
	if err != nil {
		g.Log.Error().Err(err).Str("file", filename).Msg("error reading include file")
		return newGrammarError("error reading %s", filename)
	}

	saved := g.definitionsDir
	g.definitionsDir = filepath.Dir(path)
	errs := g.includeFromString(string(content))
	g.definitionsDir = saved

	if errs > 0 {
		return newGrammarError("%d errors including %s", errs, filename)
	}
	return nil
}

// importGrammar parses filename as a fresh sub-grammar, indexed by its base
// name (spec.md §4.1 "import").
func (g *Grammar) importGrammar(filename string) error {
	base := filepath.Base(filename)
	path := filepath.Join(g.definitionsDir, filename)

	sub := New()
	sub.Log = g.Log
	if errs := sub.ParseFromFile(path); errs > 0 {
		return newGrammarError("there were errors when parsing %s", filename)
	}
	g.imports[base] = sub
	return nil
}
