package grammar

// Callback is the host-side plug-in contract spec.md §9's design note
// describes as the statically-typed equivalent of Domato's compiled,
// user-provided Python snippets: a callback receives the tag's attributes,
// a handle to the current generation context, and the current value (the
// already-resolved tag expansion, for `beforeoutput` hooks; the empty
// string for `call` tags), and returns its replacement.
//
// No embeddable expression/scripting language appears anywhere in the
// example pack, and fabricating one would violate "never fabricate
// dependencies" — so embedders wire real Go functions through
// Grammar.RegisterFunction instead of supplying grammar-file source for
// the engine to compile.
type Callback func(attrs map[string]string, ctx *GenerationContext, current string) (string, error)

// execFunction invokes a registered callback by name (spec.md §4.1
// "Embedded-function runner", §4.4 `call`/`beforeoutput`).
func (g *Grammar) execFunction(name string, part *Part, ctx *GenerationContext, current string) (string, error) {
	fn, ok := g.functions[name]
	if !ok {
		return "", newGrammarError("unknown function %s", name)
	}

	plain := make(map[string]string, len(part.attrs))
	for k, v := range part.attrs {
		if v.flag {
			plain[k] = "true"
		} else {
			plain[k] = v.value
		}
	}

	ret, err := fn(plain, ctx, current)
	if err != nil {
		return "", newGrammarError("error in user-defined function %s: %v", name, err)
	}
	return ret, nil
}
