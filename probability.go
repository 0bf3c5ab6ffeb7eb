package grammar

import "strconv"

// normalizeProbabilities builds the cumulative distribution function for
// every creator symbol, and for every non-recursive-creator symbol (spec.md
// §4.2 "Probability preprocessor").
func (g *Grammar) normalizeProbabilities() {
	for symbol, creators := range g.creators {
		g.creatorCDFs[symbol] = computeCDF(symbol, creators)
	}
	for symbol, creators := range g.nonrecursiveCreators {
		g.nonrecursiveCreatorCDFs[symbol] = computeCDF(symbol, creators)
	}
}

// computeCDF implements spec.md §4.2 steps 1-4. An empty return means
// "uniform distribution" — the symbol "line" is hard-coded uniform and
// never gets per-line probabilities (step 4, and spec.md §9 "Per-line
// probability is not supported").
func computeCDF(symbol string, creators []*Rule) []float64 {
	if symbol == "line" {
		return nil
	}

	probabilities := make([]float64, len(creators))
	defined := make([]bool, len(creators))
	uniform := true

	for i, rule := range creators {
		createTag, ok := rule.createTagFor(symbol)
		if !ok {
			continue
		}
		if v, has := createTag.attrs["p"]; has && !v.flag {
			if p, err := strconv.ParseFloat(v.value, 64); err == nil {
				probabilities[i] = p
				defined[i] = true
				uniform = false
			}
		}
	}

	if uniform {
		return nil
	}

	sum := 0.0
	undefinedCount := 0
	for i, p := range probabilities {
		if defined[i] {
			sum += p
		} else {
			undefinedCount++
		}
	}

	normFactor := 1.0
	undefinedValue := 0.0
	if sum > 1 || undefinedCount == 0 {
		if sum != 0 {
			normFactor = 1.0 / sum
		}
	} else {
		undefinedValue = (1 - sum) / float64(undefinedCount)
	}

	cdf := make([]float64, len(creators))
	running := 0.0
	for i, p := range probabilities {
		if defined[i] {
			p *= normFactor
		} else {
			p = undefinedValue
		}
		running += p
		cdf[i] = running
	}
	return cdf
}

// cdfLookup performs the binary search spec.md §4.4 describes: "binary-
// search a random value in [0,1) against the CDF."
func cdfLookup(cdf []float64, x float64) int {
	lo, hi := 0, len(cdf)
	for lo < hi {
		mid := (lo + hi) / 2
		if cdf[mid] < x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(cdf) {
		lo = len(cdf) - 1
	}
	return lo
}
