package grammar

// computeInterestingIndices builds allNonhelperLines and interestingLines
// from the parsed "line" creators (spec.md §4.3 "Interesting-line
// indexer"): a line rule is interesting for type T if it has a tag part
// referencing T (not creating it, and T isn't a non-interesting type).
func (g *Grammar) computeInterestingIndices() {
	lines, ok := g.creators["line"]
	if !ok {
		return
	}

	for i, rule := range lines {
		g.allNonhelperLines = append(g.allNonhelperLines, i)
		for _, part := range rule.parts {
			if part.kind != partTag {
				continue
			}
			if isNonInteresting(part.tagname) {
				continue
			}
			if part.isNew {
				continue
			}
			g.interestingLines[part.tagname] = append(g.interestingLines[part.tagname], i)
		}
	}
}
