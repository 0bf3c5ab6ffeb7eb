package grammar

import "strings"

// InitialVar describes a variable an embedder has already declared outside
// the engine (e.g. from pre-built HTML tags) and wants injected into a
// GenerateCode call (spec.md §6 "generate_code").
type InitialVar struct {
	Name string
	Type string
}

// GenerateCode generates numLines statements of code-mode output, seeding
// the context with initialVars and starting variable numbering at
// lastVarStart (spec.md §4.6 "Code generator").
func (g *Grammar) GenerateCode(numLines int, initialVars []InitialVar, lastVarStart int) (string, error) {
	ctx := newGenerationContext()
	ctx.lastVarIndex = lastVarStart

	for _, v := range initialVars {
		g.addVariable(v.Name, v.Type, ctx)
	}
	if g.SeedDOMVariables {
		g.addVariable("document", "Document", ctx)
		g.addVariable("window", "Window", ctx)
	}

	if numLines > 0 && len(g.allNonhelperLines) == 0 {
		return "", newGrammarError("no line rules defined")
	}

	for len(ctx.lines) < numLines {
		attempt := ctx.snapshot()

		var lineno int
		if rnd.Float64() < g.interestingLineProb && len(attempt.interestingLines) > 0 {
			attempt.forceVarReuse = true
			lineno = attempt.interestingLines[rnd.Intn(len(attempt.interestingLines))]
		} else {
			lineno = g.allNonhelperLines[rnd.Intn(len(g.allNonhelperLines))]
		}

		rule := g.creators["line"][lineno]
		if _, err := g.expandRule("line", rule, attempt, 0, false); err != nil {
			if isRecursionError(err) {
				g.Log.Warn().Err(err).Msg("recursion limit reached generating line, retrying")
				continue
			}
			return "", err
		}
		ctx = attempt
	}

	// A single line rule can emit several statements (helper declarations
	// and their GetVariable lines), so the last attempt may overshoot.
	if len(ctx.lines) > numLines {
		ctx.lines = ctx.lines[:numLines]
	}

	if g.lineGuard == "" {
		return strings.Join(ctx.lines, "\n"), nil
	}

	guarded := make([]string, len(ctx.lines))
	for i, line := range ctx.lines {
		guarded[i] = strings.ReplaceAll(g.lineGuard, "<line>", line)
	}
	return strings.Join(guarded, "\n"), nil
}

// variableSetters synthesizes the SetVariable(...) chain for varType and
// every ancestor type, depth-first in declaration order of inheritance
// entries (spec.md §4.6 "Setter synthesis").
func (g *Grammar) variableSetters(varName, varType string) string {
	var sb strings.Builder
	sb.WriteString("SetVariable(fuzzervars, ")
	sb.WriteString(varName)
	sb.WriteString(", '")
	sb.WriteString(varType)
	sb.WriteString("'); ")
	for _, parent := range g.inheritance[varType] {
		sb.WriteString(g.variableSetters(varName, parent))
	}
	return sb.String()
}
