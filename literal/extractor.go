package literal

import (
	"unicode/utf8"

	"github.com/coregx/ecmaregex/syntax"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals. Extraction gives up on a
	// branch rather than exceed it. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each literal in bytes; longer
	// literals are truncated. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// [abc] is expanded to "a", "b", "c"; [a-z] is not. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts literal prefixes from parsed patterns.
//
// Extraction is sound: when ExtractPrefixes returns a non-empty Seq, every
// match of the pattern starts with one of its literals. Anything the
// extractor cannot reason about yields an empty Seq.
//
// Example:
//
//	re, _ := syntax.Parse("(?:hello|world)!", 0, 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	// prefixes = ["hello!", "world!"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

// set is an intermediate extraction result.
//
// ok=false means the node constrains nothing. exact means lits is the full
// set of strings the node can match, so a following node may extend them.
// guarded means an assertion also has to hold, so an occurrence of a
// literal is not a match by itself.
type set struct {
	lits    []string
	exact   bool
	ok      bool
	guarded bool
}

var (
	unknown   = set{}
	emptyWord = set{lits: []string{""}, exact: true, ok: true}
	assertion = set{lits: []string{""}, exact: true, ok: true, guarded: true}
)

// ExtractPrefixes returns literals that every match starts with.
//
// Patterns compiled with the i flag produce no literals, since matches may
// differ from the pattern text in case. Sticky patterns are searched at a
// single position and produce none either.
//
// Examples:
//
//	"hello"        → ["hello"]
//	"foo|bar"      → ["bar", "foo"]
//	"[ab]c"        → ["ac", "bc"]
//	"hello.*world" → ["hello"]
//	".*foo"        → []
//	"a?b"          → []
func (e *Extractor) ExtractPrefixes(re *syntax.Regexp) *Seq {
	if re.Flags.Has(syntax.FlagIgnoreCase) || re.Flags.Has(syntax.FlagSticky) {
		return NewSeq()
	}
	s := e.extract(re.Root)
	if !s.ok || len(s.lits) == 0 {
		return NewSeq()
	}
	lits := make([]Literal, 0, len(s.lits))
	for _, l := range s.lits {
		if l == "" {
			// Some match may start with anything.
			return NewSeq()
		}
		lits = append(lits, NewLiteral(l, s.exact && !s.guarded))
	}
	seq := NewSeq(lits...)
	seq.Minimize()
	return seq
}

func (e *Extractor) extract(n *syntax.Node) set {
	switch n.Op {
	case syntax.OpEmpty:
		return emptyWord
	case syntax.OpAssert, syntax.OpLook:
		// Zero-width: the text is unaffected.
		return assertion
	case syntax.OpChar:
		if !literalRune(n.Rune) {
			return unknown
		}
		return set{lits: []string{string(n.Rune)}, exact: true, ok: true}
	case syntax.OpClass:
		return e.expandClass(n.Class)
	case syntax.OpCapture:
		return e.extract(n.Sub[0])
	case syntax.OpConcat:
		return e.concat(n.Sub)
	case syntax.OpAlternate:
		var out set
		out.ok, out.exact = true, true
		for _, sub := range n.Sub {
			s := e.extract(sub)
			if !s.ok {
				return unknown
			}
			out.lits = append(out.lits, s.lits...)
			out.exact = out.exact && s.exact
			out.guarded = out.guarded || s.guarded
			if len(out.lits) > e.config.MaxLiterals {
				return unknown
			}
		}
		return out
	case syntax.OpRepeat:
		if n.Min == 0 {
			return set{lits: []string{""}, ok: true}
		}
		s := e.extract(n.Sub[0])
		if n.Min != 1 || n.Max != 1 {
			s.exact = false
		}
		return s
	case syntax.OpBackref:
		// The referenced text is unknown and may be empty.
		return set{lits: []string{""}, ok: true}
	}
	return unknown
}

func (e *Extractor) concat(subs []*syntax.Node) set {
	acc := emptyWord
	for _, sub := range subs {
		s := e.extract(sub)
		if !s.ok {
			acc.exact = false
			return acc
		}
		next, whole, ok := e.cross(acc.lits, s.lits)
		if !ok {
			acc.exact = false
			return acc
		}
		acc.lits = next
		acc.guarded = acc.guarded || s.guarded
		if !s.exact || !whole {
			acc.exact = false
			return acc
		}
	}
	return acc
}

// cross returns every a+b, truncated to MaxLiteralLen; whole is false if
// anything was truncated. It fails when the product would exceed
// MaxLiterals.
func (e *Extractor) cross(as, bs []string) (out []string, whole, ok bool) {
	if len(as)*len(bs) > e.config.MaxLiterals {
		return nil, false, false
	}
	whole = true
	out = make([]string, 0, len(as)*len(bs))
	for _, a := range as {
		for _, b := range bs {
			s := a + b
			if len(s) > e.config.MaxLiteralLen {
				s = truncate(s, e.config.MaxLiteralLen)
				whole = false
			}
			out = append(out, s)
		}
	}
	return out, whole, true
}

// truncate cuts s to at most n bytes without splitting a code point.
func truncate(s string, n int) string {
	for n > 0 && n < len(s) && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}

func (e *Extractor) expandClass(c *syntax.Class) set {
	if c.Negate || len(c.Exclude) > 0 {
		return unknown
	}
	var lits []string
	add := func(lo, hi, stride uint32) bool {
		for r := lo; r <= hi; r += stride {
			if len(lits) >= e.config.MaxClassSize || !literalRune(rune(r)) {
				return false
			}
			lits = append(lits, string(rune(r)))
		}
		return true
	}
	for _, r := range c.Table.R16 {
		if !add(uint32(r.Lo), uint32(r.Hi), uint32(r.Stride)) {
			return unknown
		}
	}
	for _, r := range c.Table.R32 {
		if !add(r.Lo, r.Hi, r.Stride) {
			return unknown
		}
	}
	if len(lits) == 0 {
		// [] never matches, so it contributes no literal at all.
		return set{ok: true, exact: true}
	}
	return set{lits: lits, exact: true, ok: true}
}

// literalRune reports whether r can only be matched by its own UTF-8
// encoding. U+FFFD also matches invalid bytes, and surrogates have no
// encoding.
func literalRune(r rune) bool {
	return r != utf8.RuneError && utf8.ValidRune(r)
}
