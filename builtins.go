package grammar

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"
)

// intRanges is the default [min, max] for each built-in integer type
// (spec.md §4.5 "Integers").
var intRanges = map[string][2]int64{
	"int":    {-2147483648, 2147483647},
	"int32":  {-2147483648, 2147483647},
	"uint32": {0, 4294967295},
	"int8":   {-128, 127},
	"uint8":  {0, 255},
	"int16":  {-32768, 32767},
	"uint16": {0, 65535},
	"int64":  {math.MinInt64, math.MaxInt64},
	"uint64": {0, math.MaxInt64}, // uint64 max doesn't fit in int64; see generateInt
}

// builtinFunc generates the string (or packed-binary, as a string of raw
// bytes) expansion for a built-in type tag.
type builtinFunc func(g *Grammar, part *Part, ctx *GenerationContext) (string, error)

// builtinTypes dispatches built-in type tags to their generator (spec.md
// §4.5).
var builtinTypes = map[string]builtinFunc{
	"int":            generateInt,
	"int32":          generateInt,
	"uint32":         generateInt,
	"int8":           generateInt,
	"uint8":          generateInt,
	"int16":          generateInt,
	"uint16":         generateInt,
	"int64":          generateInt,
	"uint64":         generateInt,
	"float":          generateFloat,
	"double":         generateFloat,
	"char":           generateChar,
	"string":         generateString,
	"htmlsafestring": generateHTMLString,
	"hex":            generateHex,
	"import":         generateImport,
	"lines":          generateLinesBuiltin,
}

func parseIntAttr(v string) (int64, error) {
	v = strings.TrimSpace(v)
	return strconv.ParseInt(v, 0, 64)
}

// generateInt generates §4.5's integer types, clamped to [min, max] and
// optionally packed as little- or big-endian fixed width binary.
func generateInt(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	defaultRange := intRanges[part.tagname]
	minValue, maxValue := defaultRange[0], defaultRange[1]
	if part.tagname == "uint64" {
		// uint64's natural range [0, 2^64-1] doesn't fit in int64; generate
		// it with unsigned arithmetic instead.
		return generateUint64(part)
	}

	if v, ok := part.attrs["min"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid min in integer tag: %v", err)
		}
		minValue = n
	}
	if v, ok := part.attrs["max"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid max in integer tag: %v", err)
		}
		maxValue = n
	}
	if minValue > maxValue {
		return "", newGrammarError("range error in integer tag")
	}

	i := randInt64Range(minValue, maxValue)

	if part.attrs.has("b") || part.attrs.has("be") {
		return packInt(part.tagname, i, part.attrs.has("be")), nil
	}
	return strconv.FormatInt(i, 10), nil
}

func generateUint64(part *Part) (string, error) {
	var minValue, maxValue uint64 = 0, math.MaxUint64
	if v, ok := part.attrs["min"]; ok && !v.flag {
		n, err := strconv.ParseUint(strings.TrimSpace(v.value), 0, 64)
		if err != nil {
			return "", newGrammarError("invalid min in integer tag: %v", err)
		}
		minValue = n
	}
	if v, ok := part.attrs["max"]; ok && !v.flag {
		n, err := strconv.ParseUint(strings.TrimSpace(v.value), 0, 64)
		if err != nil {
			return "", newGrammarError("invalid max in integer tag: %v", err)
		}
		maxValue = n
	}
	if minValue > maxValue {
		return "", newGrammarError("range error in integer tag")
	}
	i := randUint64Range(minValue, maxValue)
	if part.attrs.has("b") || part.attrs.has("be") {
		buf := make([]byte, 8)
		if part.attrs.has("be") {
			binary.BigEndian.PutUint64(buf, i)
		} else {
			binary.LittleEndian.PutUint64(buf, i)
		}
		return string(buf), nil
	}
	return strconv.FormatUint(i, 10), nil
}

// packInt packs i as a two's-complement fixed-width integer matching
// part.tagname's width, little- or big-endian per be.
func packInt(tagname string, i int64, be bool) string {
	var buf []byte
	switch tagname {
	case "int8", "uint8":
		buf = []byte{byte(i)}
	case "int16", "uint16":
		buf = make([]byte, 2)
		if be {
			binary.BigEndian.PutUint16(buf, uint16(i))
		} else {
			binary.LittleEndian.PutUint16(buf, uint16(i))
		}
	case "int64":
		buf = make([]byte, 8)
		if be {
			binary.BigEndian.PutUint64(buf, uint64(i))
		} else {
			binary.LittleEndian.PutUint64(buf, uint64(i))
		}
	default: // int, int32, uint32
		buf = make([]byte, 4)
		if be {
			binary.BigEndian.PutUint32(buf, uint32(i))
		} else {
			binary.LittleEndian.PutUint32(buf, uint32(i))
		}
	}
	return string(buf)
}

// generateFloat generates §4.5's "float"/"double", uniform in [min, max]
// (defaults 0, 1), optionally packed as IEEE-754 binary.
func generateFloat(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	minValue, maxValue := 0.0, 1.0
	if v := part.attrs.str("min", ""); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", newGrammarError("invalid min in float tag: %v", err)
		}
		minValue = n
	}
	if v := part.attrs.str("max", ""); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return "", newGrammarError("invalid max in float tag: %v", err)
		}
		maxValue = n
	}
	if minValue > maxValue {
		return "", newGrammarError("range error in a float tag")
	}
	f := minValue + rnd.Float64()*(maxValue-minValue)

	if part.attrs.has("b") {
		if part.tagname == "float" {
			buf := make([]byte, 4)
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
			return string(buf), nil
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return string(buf), nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// generateChar generates a single character (spec.md §4.5 "char").
func generateChar(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	if v, ok := part.attrs["code"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid code in char tag: %v", err)
		}
		return string(rune(n)), nil
	}

	minValue, maxValue := int64(0), int64(255)
	if v, ok := part.attrs["min"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid min in char tag: %v", err)
		}
		minValue = n
	}
	if v, ok := part.attrs["max"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid max in char tag: %v", err)
		}
		maxValue = n
	}
	if minValue > maxValue {
		return "", newGrammarError("range error in char tag")
	}
	return string(rune(randInt64Range(minValue, maxValue))), nil
}

// generateString generates a random string (spec.md §4.5 "string"): length
// in [minlength, maxlength] (defaults 0, 20), each code unit uniform in
// [min, max] (defaults 0, 255).
func generateString(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	minValue, maxValue := int64(0), int64(255)
	if v, ok := part.attrs["min"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid min in string tag: %v", err)
		}
		minValue = n
	}
	if v, ok := part.attrs["max"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid max in string tag: %v", err)
		}
		maxValue = n
	}
	if minValue > maxValue {
		return "", newGrammarError("range error in string tag")
	}

	minLen, maxLen := int64(0), int64(20)
	if v, ok := part.attrs["minlength"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid minlength in string tag: %v", err)
		}
		minLen = n
	}
	if v, ok := part.attrs["maxlength"]; ok && !v.flag {
		n, err := parseIntAttr(v.value)
		if err != nil {
			return "", newGrammarError("invalid maxlength in string tag: %v", err)
		}
		maxLen = n
	}

	length := randInt64Range(minLen, maxLen)

	var sb strings.Builder
	for i := int64(0); i < length; i++ {
		sb.WriteRune(rune(randInt64Range(minValue, maxValue)))
	}
	return sb.String(), nil
}

// htmlEscapeReplacer mirrors Python's html.escape(..., quote=True): Go's
// html.EscapeString escapes the same five characters but writes quotes as
// &#39; and &#34;, whereas this table writes &#x27; and &quot; (spec.md §4.5
// "htmlsafestring").
var htmlEscapeReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

func generateHTMLString(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	s, err := generateString(g, part, ctx)
	if err != nil {
		return "", err
	}
	return htmlEscapeReplacer.Replace(s), nil
}

// generateHex generates a single hex digit (spec.md §4.5 "hex").
func generateHex(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	digit := rnd.Intn(16)
	if part.attrs.has("up") {
		return strings.ToUpper(strconv.FormatInt(int64(digit), 16)), nil
	}
	return strconv.FormatInt(int64(digit), 16), nil
}

// generateImport expands a symbol from an imported sub-grammar (spec.md
// §4.5 "import").
func generateImport(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	name, ok := part.attrs["from"]
	if !ok || name.flag {
		return "", newGrammarError("import tag without from attribute")
	}
	sub, ok := g.imports[name.value]
	if !ok {
		return "", newGrammarError("unknown import %s", name.value)
	}
	if sym, ok := part.attrs["symbol"]; ok && !sym.flag {
		return sub.GenerateSymbol(sym.value)
	}
	return sub.GenerateRoot()
}

// generateLinesBuiltin runs code generation for count lines and returns the
// joined result (spec.md §4.5 "lines").
func generateLinesBuiltin(g *Grammar, part *Part, ctx *GenerationContext) (string, error) {
	countAttr, ok := part.attrs["count"]
	if !ok || countAttr.flag {
		return "", newGrammarError("lines tag without count attribute")
	}
	n, err := parseIntAttr(countAttr.value)
	if err != nil {
		return "", newGrammarError("invalid count in lines tag: %v", err)
	}
	return g.GenerateCode(int(n), nil, 0)
}
