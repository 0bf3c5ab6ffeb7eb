package grammar

import (
	"strings"
)

// stripComment removes everything from the first '#' to the end
// of the line and trims surrounding whitespace (spec.md §4.1: "Lines outside
// function blocks are first stripped of comments ... and whitespace-trimmed").
func stripComment(line string) string {
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// directivePrefix reports whether line is a `!directive` and, if so, returns
// the command name and the remaining parameter text.
func directivePrefix(line string) (command string, params string, ok bool) {
	if !strings.HasPrefix(line, "!") {
		return "", "", false
	}
	rest := line[1:]
	fields := strings.SplitN(rest, " ", 2)
	command = fields[0]
	if len(fields) == 2 {
		params = strings.TrimSpace(fields[1])
	}
	return command, params, true
}

// splitTagParts splits a rule's right-hand-side text on `<...>` boundaries,
// the way spec.md §4.1 describes: "foo<bar>baz" becomes three parts "foo",
// "bar", "baz"; even indices are literal text, odd indices are tag bodies.
// Tag delimiters nest poorly by design (§6: "<" and ">" are reserved inside
// tag parts"), so this is a simple non-nesting scan: every '<' opens a tag
// body that runs to the next '>', whatever characters it contains.
func splitTagParts(line string) []string {
	var parts []string
	var cur strings.Builder
	i := 0
	for i < len(line) {
		if line[i] == '<' {
			parts = append(parts, cur.String())
			cur.Reset()
			closeIdx := strings.IndexByte(line[i:], '>')
			if closeIdx < 0 {
				// Unterminated tag: treat rest of line as tag body, caller
				// will fail attribute parsing or accept it verbatim.
				parts = append(parts, line[i+1:])
				return parts
			}
			parts = append(parts, line[i+1:i+closeIdx])
			i += closeIdx + 1
		} else {
			cur.WriteByte(line[i])
			i++
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// parseTagAttrs extracts a tagname and attribute map from a tag body such as
// "new T k1=v1 k2 k3=v3" (spec.md §4.1 "Tag attribute parser").
//
// Attribute values may not themselves contain whitespace or "=" — there is
// no quoting mechanism (spec.md §9 "Ambiguity in attribute parsing"); this
// is a documented limitation, not a bug to silently work around.
func parseTagAttrs(body string) (Part, error) {
	fields := strings.Fields(body)
	if len(fields) < 1 {
		return Part{}, newGrammarError("empty tag encountered")
	}

	p := Part{kind: partTag, attrs: attrs{}}

	attrStart := 1
	if len(fields) > 1 && fields[0] == "new" {
		p.tagname = fields[1]
		p.attrs["new"] = flagAttr()
		p.isNew = true
		attrStart = 2
	} else {
		p.tagname = fields[0]
	}

	for i := attrStart; i < len(fields); i++ {
		kv := strings.Split(fields[i], "=")
		switch len(kv) {
		case 2:
			p.attrs[kv[0]] = valueAttr(kv[1])
		case 1:
			p.attrs[kv[0]] = flagAttr()
		default:
			return Part{}, newGrammarError("error parsing tag %q", body)
		}
	}

	return p, nil
}

// dedent removes the minimum common leading whitespace from a block of
// captured function-body lines, expanding tabs to 8 spaces first, matching
// grammar.py's _fix_idents (spec.md §4.1 "Function blocks").
func dedent(source string) string {
	expanded := strings.ReplaceAll(source, "\t", strings.Repeat(" ", 8))
	lines := strings.Split(expanded, "\n")

	minIndent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		indent := len(l) - len(strings.TrimLeft(l, " "))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}

	if minIndent <= 0 {
		return expanded
	}

	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			out[i] = l
			continue
		}
		if len(l) >= minIndent {
			out[i] = l[minIndent:]
		} else {
			out[i] = l
		}
	}
	return strings.Join(out, "\n")
}
