package grammar

// generate resolves symbol, either by reusing an already-declared variable
// of that type or by selecting and expanding a creator rule (spec.md §4.4
// "Symbol expansion algorithm").
func (g *Grammar) generate(symbol string, ctx *GenerationContext, depth int, forceNonrecursive bool) (string, error) {
	if vars, ok := ctx.variables[symbol]; ok && !isNonInteresting(symbol) && len(vars) > 0 {
		if ctx.forceVarReuse || rnd.Float64() < g.varReuseProb || len(vars) > g.maxVarsOfSameType {
			ctx.forceVarReuse = false
			return vars[rnd.Intn(len(vars))], nil
		}
	}

	rule, err := g.selectCreator(symbol, depth, forceNonrecursive)
	if err != nil {
		return "", err
	}
	return g.expandRule(symbol, rule, ctx, depth, forceNonrecursive)
}

// selectCreator picks a production rule for symbol according to its CDF
// (spec.md §4.4 step 2), or uniformly if the CDF is empty.
func (g *Grammar) selectCreator(symbol string, depth int, forceNonrecursive bool) (*Rule, error) {
	creators, ok := g.creators[symbol]
	if !ok {
		return nil, newGrammarError("no creators for type %s", symbol)
	}

	if depth >= g.recursionMax {
		return nil, newRecursionError(symbol)
	}

	cdf := g.creatorCDFs[symbol]
	if forceNonrecursive {
		if nr, ok := g.nonrecursiveCreators[symbol]; ok {
			creators = nr
			cdf = g.nonrecursiveCreatorCDFs[symbol]
		}
	}

	if len(cdf) == 0 {
		return creators[rnd.Intn(len(creators))], nil
	}
	return creators[cdfLookup(cdf, rnd.Float64())], nil
}

// expandRule resolves every part of rule's right-hand side in order,
// concatenating (or, in code mode, committing) the result (spec.md §4.4
// "Rule expansion").
func (g *Grammar) expandRule(symbol string, rule *Rule, ctx *GenerationContext, depth int, forceNonrecursive bool) (string, error) {
	variableIDs := map[string]string{}

	type newVar struct{ name, typ string }
	var newVars []newVar
	var retVars []string
	retParts := make([]string, 0, len(rule.parts))

	for i := range rule.parts {
		part := &rule.parts[i]

		if id, ok := part.id(); ok {
			if cached, seen := variableIDs[id]; seen {
				retParts = append(retParts, cached)
				continue
			}
		}

		var expanded string
		var err error

		switch {
		case part.kind == partText:
			expanded = part.text

		case rule.kind == kindCode && part.isNew:
			varType := part.tagname
			name := g.nextVarName(ctx)
			newVars = append(newVars, newVar{name: name, typ: varType})
			if varType == symbol {
				retVars = append(retVars, name)
			}
			expanded = "/* newvar{" + name + ":" + varType + "} */ var " + name

		case isConstantTag(part.tagname):
			expanded = constantTypes[part.tagname]

		case builtinTypes[part.tagname] != nil:
			expanded, err = builtinTypes[part.tagname](g, part, ctx)

		case part.tagname == "call":
			fnAttr, ok := part.attrs["function"]
			if !ok || fnAttr.flag {
				err = newGrammarError("call tag without a function attribute")
				break
			}
			expanded, err = g.execFunction(fnAttr.value, part, ctx, "")

		case part.tagname == "any":
			expanded, err = g.anyVariable(ctx)

		default:
			expanded, err = g.generate(part.tagname, ctx, depth+1, forceNonrecursive)
			if err != nil {
				if isRecursionError(err) && !forceNonrecursive {
					expanded, err = g.generate(part.tagname, ctx, depth+1, true)
				}
			}
		}

		if err != nil {
			return "", err
		}

		if id, ok := part.id(); ok {
			variableIDs[id] = expanded
		}

		if bo, ok := part.attrs["beforeoutput"]; ok && !bo.flag {
			expanded, err = g.execFunction(bo.value, part, ctx, expanded)
			if err != nil {
				return "", err
			}
		}

		retParts = append(retParts, expanded)
	}

	var additionalLines []string
	for _, v := range newVars {
		if isNonInteresting(v.typ) {
			continue
		}
		g.addVariable(v.name, v.typ, ctx)
		additionalLines = append(additionalLines, "if (!"+v.name+") { "+v.name+" = GetVariable(fuzzervars, '"+v.typ+"'); } else { "+g.variableSetters(v.name, v.typ)+" }")
	}

	filledRule := joinStrings(retParts)

	if rule.kind == kindGrammar {
		return filledRule, nil
	}

	ctx.lines = append(ctx.lines, filledRule)
	ctx.lines = append(ctx.lines, additionalLines...)

	if symbol == "line" {
		return filledRule, nil
	}
	if len(retVars) == 0 {
		return "", newGrammarError("code rule for %s declared no matching variable", symbol)
	}
	return retVars[rnd.Intn(len(retVars))], nil
}

func joinStrings(parts []string) string {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	buf := make([]byte, 0, total)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return string(buf)
}

// anyVariable picks a uniform choice across all currently-declared
// variables of any type (spec.md §4.4 "`any` tag"). It walks
// ctx.variableTypes rather than ranging ctx.variables directly: map
// iteration order is randomized per process, which would make a seeded
// expansion non-reproducible.
func (g *Grammar) anyVariable(ctx *GenerationContext) (string, error) {
	types := make([]string, 0, len(ctx.variableTypes))
	for _, t := range ctx.variableTypes {
		if len(ctx.variables[t]) > 0 {
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		return "", newGrammarError("no variables declared for any tag")
	}
	t := types[rnd.Intn(len(types))]
	vars := ctx.variables[t]
	return vars[rnd.Intn(len(vars))], nil
}

func isRecursionError(err error) bool {
	_, ok := err.(*RecursionError)
	return ok
}

func isConstantTag(tagname string) bool {
	_, ok := constantTypes[tagname]
	return ok
}
