package grammar

// ruleKind distinguishes an ordinary grammar rule (§4.1 grammar-line syntax)
// from a code rule declared inside a `!begin lines`/`!begin helperlines`
// block (§4.1 code-line syntax).
type ruleKind int

const (
	kindGrammar ruleKind = iota
	kindCode
)

// partKind distinguishes the two shapes a Part can take: a literal text
// fragment, or a `<tagname attrs...>` tag.
type partKind int

const (
	partText partKind = iota
	partTag
)

// attrValue is the small tagged union spec.md §9 calls for: an attribute is
// either absent, a bare flag (`nonrecursive`), or a string value (`min=0`).
type attrValue struct {
	present bool
	flag    bool
	value   string
}

func flagAttr() attrValue  { return attrValue{present: true, flag: true} }
func valueAttr(v string) attrValue {
	return attrValue{present: true, value: v}
}

// attrs is the ordered-insensitive attribute map for a Part: "new T k1=v1
// k2 k3=v3" becomes tagname=T, new=flag, k1=value(v1), k2=flag, k3=value(v3).
type attrs map[string]attrValue

func (a attrs) has(key string) bool {
	_, ok := a[key]
	return ok
}

// str returns the string value of key, or def if the attribute is absent
// or a bare flag.
func (a attrs) str(key, def string) string {
	v, ok := a[key]
	if !ok || v.flag {
		return def
	}
	return v.value
}

// Part is one element of a rule's right-hand side (spec.md §3).
type Part struct {
	kind partKind

	// text fragment, valid when kind == partText
	text string

	// tag fields, valid when kind == partTag
	tagname string
	attrs   attrs
	isNew   bool // shorthand for attrs.has("new"), set on code-rule new-tags
}

// id returns the part's intra-rule alias ("id" attribute), if any.
func (p *Part) id() (string, bool) {
	v, ok := p.attrs["id"]
	if !ok {
		return "", false
	}
	return v.value, true
}

// Rule is a single production (spec.md §3).
type Rule struct {
	kind  ruleKind
	parts []Part

	// creates holds the LHS create-tag for grammar rules (len 1) or the
	// ordered sequence of new-variable tags declared by a code rule's parts.
	creates []Part

	// recursive is set for grammar rules whose RHS mentions the rule's own
	// symbol; code rules never set this (§3).
	recursive bool
}

// createTagFor returns the create-tag that declares symbol for this rule,
// used by the probability preprocessor (§4.2) to find a rule's "p" weight.
func (r *Rule) createTagFor(symbol string) (*Part, bool) {
	for i := range r.creates {
		if r.creates[i].tagname == symbol {
			return &r.creates[i], true
		}
	}
	return nil, false
}
