package grammar

import "fmt"

// GenerationContext is created fresh for each top-level expansion and is
// never shared across concurrent expansions (spec.md §3 "GenerationContext",
// §5 "Contexts are never shared across parallel expansions").
type GenerationContext struct {
	lastVarIndex int
	lines        []string
	variables    map[string][]string

	// variableTypes records the order in which types were first declared
	// into variables, so `<any>` can pick among them reproducibly under a
	// fixed Seed instead of ranging the variables map (spec.md §8
	// "Expansion with a seeded PRNG is deterministic and reproducible" —
	// Go map iteration order is randomized per run).
	variableTypes []string

	// interestingLines holds the subset of "line" creator indices that
	// reference at least one currently-declared, interesting-typed
	// variable (spec.md §3).
	interestingLines []int

	// forceVarReuse is a one-shot flag: the next type lookup must reuse an
	// existing variable rather than create one (spec.md §3, set by
	// GenerateCode when it draws from interestingLines).
	forceVarReuse bool
}

func newGenerationContext() *GenerationContext {
	return &GenerationContext{variables: map[string][]string{}}
}

// snapshot returns a deep-enough copy of ctx suitable for a transactional
// retry: mutating the copy never affects ctx until the caller explicitly
// commits it back (spec.md §9 "Shallow context snapshot during code
// generation" design note — the original's literal shallow dict-copy
// aliases its 'lines'/'variables' slices across attempts; this
// reimplementation performs the "cheapest correct" copy the note
// recommends instead).
func (c *GenerationContext) snapshot() *GenerationContext {
	cp := &GenerationContext{
		lastVarIndex:  c.lastVarIndex,
		lines:         append([]string(nil), c.lines...),
		variables:     make(map[string][]string, len(c.variables)),
		forceVarReuse: c.forceVarReuse,
	}
	cp.interestingLines = append([]int(nil), c.interestingLines...)
	cp.variableTypes = append([]string(nil), c.variableTypes...)
	for k, v := range c.variables {
		cp.variables[k] = append([]string(nil), v...)
	}
	return cp
}

// addVariable registers var_name under var_type, and transitively under
// every ancestor of var_type in the inheritance graph, merging in any newly
// relevant interesting-line indices the first time a type is seen (spec.md
// §4.6 "Variable registration").
func (g *Grammar) addVariable(name, varType string, ctx *GenerationContext) {
	if _, seen := ctx.variables[varType]; !seen {
		ctx.variables[varType] = nil
		ctx.variableTypes = append(ctx.variableTypes, varType)
		if lines, ok := g.interestingLines[varType]; ok {
			have := make(map[int]bool, len(ctx.interestingLines))
			for _, l := range ctx.interestingLines {
				have[l] = true
			}
			for _, l := range lines {
				if !have[l] {
					ctx.interestingLines = append(ctx.interestingLines, l)
					have[l] = true
				}
			}
		}
	}
	ctx.variables[varType] = append(ctx.variables[varType], name)

	for _, parent := range g.inheritance[varType] {
		g.addVariable(name, parent, ctx)
	}
}

// nextVarName allocates a new variable name using the configured format
// (spec.md §3 "var_format").
func (g *Grammar) nextVarName(ctx *GenerationContext) string {
	ctx.lastVarIndex++
	return fmt.Sprintf(g.varFormat, ctx.lastVarIndex)
}
