package syntax

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ecmaregex/internal/conv"
)

// DefaultMaxDepth is the group nesting limit used when Parse is given a
// non-positive maxDepth.
const DefaultMaxDepth = 256

// Parse parses pattern under flags.
//
// maxDepth bounds the nesting of groups and lookarounds; a non-positive
// value selects DefaultMaxDepth. Errors are of type *Error.
func Parse(pattern string, flags Flags, maxDepth int) (*Regexp, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{
		src:      pattern,
		flags:    flags,
		unicode:  flags.Has(FlagUnicode),
		maxDepth: maxDepth,
	}
	p.totalGroups, p.hasNames = prescan(pattern)
	p.names = make([]string, 1, p.totalGroups+1)

	root, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		// parseDisjunction only stops early at ')'.
		return nil, p.errorf(p.pos, ErrMsgUnmatchedParen)
	}
	for _, ref := range p.namedRefs {
		idx := p.groupByName(ref.Name)
		if idx == 0 {
			return nil, p.errorf(ref.Pos, ErrMsgInvalidNamedRef)
		}
		ref.Index = idx
	}
	return &Regexp{
		Pattern: pattern,
		Flags:   flags,
		Root:    root,
		Groups:  p.groups,
		Names:   p.names,
	}, nil
}

type parser struct {
	src     string
	pos     int
	flags   Flags
	unicode bool

	totalGroups int  // capturing groups in the whole pattern, from prescan
	hasNames    bool // pattern declares at least one named group
	groups      int  // groups opened so far
	names       []string
	namedRefs   []*Node

	depth    int
	maxDepth int
}

// prescan counts capturing groups and detects named groups. Decimal escapes
// need the total count before the groups they reference have been parsed.
func prescan(s string) (groups int, named bool) {
	inClass := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '(':
			if inClass {
				continue
			}
			rest := s[i+1:]
			switch {
			case !strings.HasPrefix(rest, "?"):
				groups++
			case strings.HasPrefix(rest, "?<") &&
				!strings.HasPrefix(rest, "?<=") && !strings.HasPrefix(rest, "?<!"):
				groups++
				named = true
			}
		}
	}
	return groups, named
}

func (p *parser) errorf(pos int, msg string) *Error {
	return &Error{Pattern: p.src, Pos: pos, Msg: msg}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// peek returns the next code point without consuming it, or -1 at the end.
func (p *parser) peek() rune {
	if p.eof() {
		return -1
	}
	c := p.src[p.pos]
	if c < utf8.RuneSelf {
		return rune(c)
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *parser) next() rune {
	if p.eof() {
		return -1
	}
	r, w := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += w
	return r
}

func (p *parser) eat(c byte) bool {
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) lookingAt(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) groupByName(name string) int {
	for i, n := range p.names {
		if n != "" && n == name {
			return i
		}
	}
	return 0
}

func (p *parser) parseDisjunction() (*Node, error) {
	start := p.pos
	var alts []*Node
	for {
		alt, err := p.parseAlternative()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
		if !p.eat('|') {
			break
		}
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &Node{Op: OpAlternate, Pos: start, Sub: alts}, nil
}

func (p *parser) parseAlternative() (*Node, error) {
	start := p.pos
	var terms []*Node
	for !p.eof() && p.src[p.pos] != '|' && p.src[p.pos] != ')' {
		t, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	switch len(terms) {
	case 0:
		return &Node{Op: OpEmpty, Pos: start}, nil
	case 1:
		return terms[0], nil
	default:
		return &Node{Op: OpConcat, Pos: start, Sub: terms}, nil
	}
}

func (p *parser) parseTerm() (*Node, error) {
	start := p.pos
	var assert *Node
	switch {
	case p.lookingAt("^"):
		p.pos++
		assert = &Node{Op: OpAssert, Pos: start, Assert: AssertStart}
	case p.lookingAt("$"):
		p.pos++
		assert = &Node{Op: OpAssert, Pos: start, Assert: AssertEnd}
	case p.lookingAt(`\b`):
		p.pos += 2
		assert = &Node{Op: OpAssert, Pos: start, Assert: AssertWordBoundary}
	case p.lookingAt(`\B`):
		p.pos += 2
		assert = &Node{Op: OpAssert, Pos: start, Assert: AssertNotWordBoundary}
	case p.lookingAt("(?<=") || p.lookingAt("(?<!"):
		n, err := p.parseLook(true)
		if err != nil {
			return nil, err
		}
		assert = n
	case p.lookingAt("(?=") || p.lookingAt("(?!"):
		n, err := p.parseLook(false)
		if err != nil {
			return nil, err
		}
		// Annex B allows quantified lookaheads outside Unicode mode.
		if !p.unicode {
			return p.parseQuantifier(n)
		}
		assert = n
	}
	if assert != nil {
		if p.atQuantifier() {
			return nil, p.errorf(p.pos, ErrMsgNothingToRepeat)
		}
		return assert, nil
	}

	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	return p.parseQuantifier(atom)
}

func (p *parser) enter(pos int) error {
	p.depth++
	if p.depth > p.maxDepth {
		return p.errorf(pos, ErrMsgTooDeep)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parseGroupBody parses a disjunction up to and including the closing ')'.
func (p *parser) parseGroupBody(start int) (*Node, error) {
	if err := p.enter(start); err != nil {
		return nil, err
	}
	defer p.leave()
	sub, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	if !p.eat(')') {
		return nil, p.errorf(start, ErrMsgUnterminatedGroup)
	}
	return sub, nil
}

func (p *parser) parseLook(behind bool) (*Node, error) {
	start := p.pos
	p.pos += 3
	if behind {
		p.pos++
	}
	negate := p.src[p.pos-1] == '!'
	sub, err := p.parseGroupBody(start)
	if err != nil {
		return nil, err
	}
	return &Node{Op: OpLook, Pos: start, Behind: behind, Negate: negate, Sub: []*Node{sub}}, nil
}

func (p *parser) parseAtom() (*Node, error) {
	start := p.pos
	c := p.peek()
	switch c {
	case '.':
		p.pos++
		return &Node{Op: OpAnyChar, Pos: start}, nil
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseClass()
	case '\\':
		return p.parseAtomEscape()
	case '*', '+', '?':
		return nil, p.errorf(start, ErrMsgNothingToRepeat)
	case '{':
		if p.atQuantifier() {
			return nil, p.errorf(start, ErrMsgNothingToRepeat)
		}
		if p.unicode {
			return nil, p.errorf(start, ErrMsgLoneBracket)
		}
	case '}', ']':
		if p.unicode {
			return nil, p.errorf(start, ErrMsgLoneBracket)
		}
	}
	p.next()
	return &Node{Op: OpChar, Pos: start, Rune: c}, nil
}

func (p *parser) parseGroup() (*Node, error) {
	start := p.pos
	switch {
	case p.lookingAt("(?:"):
		p.pos += 3
		return p.parseGroupBody(start)
	case p.lookingAt("(?<"):
		p.pos += 3
		name, err := p.parseGroupName()
		if err != nil {
			return nil, err
		}
		if p.groupByName(name) != 0 {
			return nil, p.errorf(start, ErrMsgDuplicateGroupName)
		}
		return p.parseCapture(start, name)
	case p.lookingAt("(?"):
		return nil, p.errorf(start, ErrMsgInvalidGroup)
	}
	p.pos++
	return p.parseCapture(start, "")
}

func (p *parser) parseCapture(start int, name string) (*Node, error) {
	p.groups++
	idx := p.groups
	p.names = append(p.names, name)
	sub, err := p.parseGroupBody(start)
	if err != nil {
		return nil, err
	}
	return &Node{Op: OpCapture, Pos: start, Index: idx, Name: name, Sub: []*Node{sub}}, nil
}

// parseGroupName parses "name>" after "(?<" or "\k<".
func (p *parser) parseGroupName() (string, error) {
	start := p.pos
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf(start, ErrMsgInvalidGroupName)
		}
		if p.eat('>') {
			break
		}
		var r rune
		if p.lookingAt(`\u`) {
			p.pos += 2
			v, ok := p.parseUnicodeEscapeBody(true)
			if !ok {
				return "", p.errorf(start, ErrMsgInvalidGroupName)
			}
			r = v
		} else {
			r = p.next()
		}
		if b.Len() == 0 && !isIDStart(r) || b.Len() > 0 && !isIDPart(r) {
			return "", p.errorf(start, ErrMsgInvalidGroupName)
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "", p.errorf(start, ErrMsgInvalidGroupName)
	}
	return b.String(), nil
}

func isIDStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) ||
		unicode.Is(unicode.Other_ID_Start, r)
}

func isIDPart(r rune) bool {
	return isIDStart(r) || r == 0x200C || r == 0x200D ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// atQuantifier reports whether a quantifier starts at the current position.
func (p *parser) atQuantifier() bool {
	if p.eof() {
		return false
	}
	switch p.src[p.pos] {
	case '*', '+', '?':
		return true
	case '{':
		save := p.pos
		_, _, ok := p.parseBraces()
		p.pos = save
		return ok
	}
	return false
}

// parseBraces parses {n}, {n,} or {n,m}. On failure the position is left
// somewhere inside the braces and the caller must restore it.
func (p *parser) parseBraces() (lo, hi int, ok bool) {
	if !p.eat('{') {
		return 0, 0, false
	}
	lo, ok = p.parseNumber()
	if !ok {
		return 0, 0, false
	}
	hi = lo
	if p.eat(',') {
		hi = -1
		if !p.eof() && isDigit(p.src[p.pos]) {
			hi, _ = p.parseNumber()
		}
	}
	if !p.eat('}') {
		return 0, 0, false
	}
	return lo, hi, true
}

func (p *parser) parseNumber() (int, bool) {
	start := p.pos
	n := 0
	for !p.eof() && isDigit(p.src[p.pos]) {
		n = conv.AppendDigit(n, int(p.src[p.pos]-'0'))
		p.pos++
	}
	return n, p.pos > start
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (p *parser) parseQuantifier(atom *Node) (*Node, error) {
	if p.eof() {
		return atom, nil
	}
	start := p.pos
	var lo, hi int
	switch p.src[p.pos] {
	case '*':
		p.pos++
		lo, hi = 0, -1
	case '+':
		p.pos++
		lo, hi = 1, -1
	case '?':
		p.pos++
		lo, hi = 0, 1
	case '{':
		var ok bool
		lo, hi, ok = p.parseBraces()
		if !ok {
			if p.unicode {
				return nil, p.errorf(start, ErrMsgIncompleteQuantifier)
			}
			p.pos = start
			return atom, nil
		}
		if hi >= 0 && lo > hi {
			return nil, p.errorf(start, ErrMsgQuantifierOrder)
		}
		// Every iteration past the minimum must consume input, so a bound
		// that no text can reach is the same as no bound.
		if hi == math.MaxInt32 {
			hi = -1
		}
	default:
		return atom, nil
	}
	greedy := !p.eat('?')
	return &Node{Op: OpRepeat, Pos: start, Min: lo, Max: hi, Greedy: greedy, Sub: []*Node{atom}}, nil
}

func (p *parser) parseAtomEscape() (*Node, error) {
	start := p.pos
	p.pos++ // '\'
	if p.eof() {
		return nil, p.errorf(start, ErrMsgTrailingBackslash)
	}
	c := p.src[p.pos]

	switch {
	case c >= '1' && c <= '9':
		save := p.pos
		n, _ := p.parseNumber()
		if n <= p.totalGroups {
			return &Node{Op: OpBackref, Pos: start, Index: n}, nil
		}
		if p.unicode {
			return nil, p.errorf(start, ErrMsgInvalidDecimalEscape)
		}
		p.pos = save
	case c == 'k':
		if p.unicode || p.hasNames {
			p.pos++
			if !p.eat('<') {
				return nil, p.errorf(start, ErrMsgInvalidNamedRef)
			}
			name, err := p.parseGroupName()
			if err != nil {
				return nil, err
			}
			n := &Node{Op: OpBackref, Pos: start, Name: name}
			p.namedRefs = append(p.namedRefs, n)
			return n, nil
		}
	}

	if set, ok, err := p.parseSetEscape(); err != nil {
		return nil, err
	} else if ok {
		return &Node{Op: OpClass, Pos: start, Class: set.class()}, nil
	}
	r, err := p.parseCharEscape(start, false)
	if err != nil {
		return nil, err
	}
	return &Node{Op: OpChar, Pos: start, Rune: r}, nil
}

// parseSetEscape parses \d \D \s \S \w \W and, in Unicode mode, \p{..}
// and \P{..}. The position is just past the backslash.
func (p *parser) parseSetEscape() (charSet, bool, error) {
	start := p.pos - 1
	switch p.src[p.pos] {
	case 'd':
		p.pos++
		return charSet{table: digitTable}, true, nil
	case 'D':
		p.pos++
		return charSet{table: digitTable, negate: true}, true, nil
	case 's':
		p.pos++
		return charSet{table: spaceTable}, true, nil
	case 'S':
		p.pos++
		return charSet{table: spaceTable, negate: true}, true, nil
	case 'w', 'W':
		t := wordTable
		if p.unicode && p.flags.Has(FlagIgnoreCase) {
			t = wordFoldTable
		}
		neg := p.src[p.pos] == 'W'
		p.pos++
		return charSet{table: t, negate: neg}, true, nil
	case 'p', 'P':
		if !p.unicode {
			return charSet{}, false, nil
		}
		neg := p.src[p.pos] == 'P'
		p.pos++
		if !p.eat('{') {
			return charSet{}, false, p.errorf(start, ErrMsgInvalidPropertyName)
		}
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 0 {
			return charSet{}, false, p.errorf(start, ErrMsgInvalidPropertyName)
		}
		body := p.src[p.pos : p.pos+end]
		t, ok := lookupProperty(body)
		if !ok {
			return charSet{}, false, p.errorf(start, ErrMsgInvalidPropertyName)
		}
		p.pos += end + 1
		return charSet{table: t, negate: neg}, true, nil
	}
	return charSet{}, false, nil
}

// parseCharEscape parses a CharacterEscape. The position is just past the
// backslash; start is the position of the backslash. inClass enables the
// class-only forms \b and \-.
func (p *parser) parseCharEscape(start int, inClass bool) (rune, error) {
	c := p.src[p.pos]
	switch c {
	case 't':
		p.pos++
		return '\t', nil
	case 'n':
		p.pos++
		return '\n', nil
	case 'v':
		p.pos++
		return '\v', nil
	case 'f':
		p.pos++
		return '\f', nil
	case 'r':
		p.pos++
		return '\r', nil
	case 'c':
		if p.pos+1 < len(p.src) {
			l := p.src[p.pos+1]
			if 'a' <= l && l <= 'z' || 'A' <= l && l <= 'Z' ||
				inClass && !p.unicode && (isDigit(l) || l == '_') {
				p.pos += 2
				return rune(l % 32), nil
			}
		}
		if p.unicode {
			return 0, p.errorf(start, ErrMsgInvalidUnicodeEscape)
		}
		// Leave "c" to be read as a literal after the backslash.
		return '\\', nil
	case '0':
		if p.pos+1 >= len(p.src) || !isDigit(p.src[p.pos+1]) {
			p.pos++
			return 0, nil
		}
		if p.unicode {
			return 0, p.errorf(start, ErrMsgInvalidDecimalEscape)
		}
		return p.parseLegacyOctal(), nil
	case 'x':
		p.pos++
		if v, ok := p.parseHex(2); ok {
			return v, nil
		}
		if p.unicode {
			return 0, p.errorf(start, ErrMsgInvalidEscape)
		}
		return 'x', nil
	case 'u':
		p.pos++
		if v, ok := p.parseUnicodeEscapeBody(p.unicode); ok {
			return v, nil
		}
		if p.unicode {
			return 0, p.errorf(start, ErrMsgInvalidUnicodeEscape)
		}
		return 'u', nil
	}

	if inClass {
		switch c {
		case 'b':
			p.pos++
			return '\b', nil
		case '-':
			p.pos++
			return '-', nil
		}
	}
	if isDigit(c) {
		if p.unicode {
			return 0, p.errorf(start, ErrMsgInvalidClassEscape)
		}
		if c <= '7' {
			return p.parseLegacyOctal(), nil
		}
		p.pos++
		return rune(c), nil
	}
	r := p.next()
	if p.unicode {
		if strings.ContainsRune(`^$\.*+?()[]{}|/`, r) {
			return r, nil
		}
		return 0, p.errorf(start, ErrMsgInvalidEscape)
	}
	return r, nil
}

// parseLegacyOctal parses up to three octal digits with a value of at most
// 0377.
func (p *parser) parseLegacyOctal() rune {
	var v rune
	for i := 0; i < 3 && !p.eof(); i++ {
		c := p.src[p.pos]
		if c < '0' || c > '7' {
			break
		}
		next := v*8 + rune(c-'0')
		if next > 0377 {
			break
		}
		v = next
		p.pos++
	}
	return v
}

// parseHex parses exactly n hex digits. The position is not moved on
// failure.
func (p *parser) parseHex(n int) (rune, bool) {
	if p.pos+n > len(p.src) {
		return 0, false
	}
	var v rune
	for i := range n {
		d, ok := hexVal(p.src[p.pos+i])
		if !ok {
			return 0, false
		}
		v = v<<4 | d
	}
	p.pos += n
	return v, true
}

func hexVal(c byte) (rune, bool) {
	switch {
	case '0' <= c && c <= '9':
		return rune(c - '0'), true
	case 'a' <= c && c <= 'f':
		return rune(c-'a') + 10, true
	case 'A' <= c && c <= 'F':
		return rune(c-'A') + 10, true
	}
	return 0, false
}

// parseUnicodeEscapeBody parses what follows "\u": four hex digits, or
// {hex} when braces is set. An escaped high surrogate directly followed by
// an escaped low surrogate is joined into one code point.
func (p *parser) parseUnicodeEscapeBody(braces bool) (rune, bool) {
	if braces && p.eat('{') {
		start := p.pos
		var v rune
		for !p.eof() && p.src[p.pos] != '}' {
			d, ok := hexVal(p.src[p.pos])
			if !ok {
				return 0, false
			}
			v = v<<4 | d
			if v > unicode.MaxRune {
				return 0, false
			}
			p.pos++
		}
		if p.pos == start || !p.eat('}') {
			return 0, false
		}
		return v, true
	}
	hi, ok := p.parseHex(4)
	if !ok {
		return 0, false
	}
	if 0xD800 <= hi && hi <= 0xDBFF && p.lookingAt(`\u`) {
		save := p.pos
		p.pos += 2
		if lo, ok := p.parseHex(4); ok && 0xDC00 <= lo && lo <= 0xDFFF {
			return (hi-0xD800)<<10 + (lo - 0xDC00) + 0x10000, true
		}
		p.pos = save
	}
	return hi, true
}

func (p *parser) parseClass() (*Node, error) {
	start := p.pos
	p.pos++ // '['
	negate := p.eat('^')
	var b classBuilder
	for {
		if p.eof() {
			return nil, p.errorf(start, ErrMsgUnterminatedClass)
		}
		if p.eat(']') {
			break
		}
		lo, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if p.pos+1 < len(p.src) && p.src[p.pos] == '-' && p.src[p.pos+1] != ']' {
			dash := p.pos
			p.pos++
			hi, err := p.parseClassAtom()
			if err != nil {
				return nil, err
			}
			if lo.isSet || hi.isSet {
				if p.unicode {
					return nil, p.errorf(dash, ErrMsgInvalidClass)
				}
				lo.addTo(&b)
				b.addRune('-')
				hi.addTo(&b)
				continue
			}
			if lo.r > hi.r {
				return nil, p.errorf(dash, ErrMsgClassRangeOrder)
			}
			b.addRange(lo.r, hi.r)
			continue
		}
		lo.addTo(&b)
	}
	return &Node{Op: OpClass, Pos: start, Class: b.build(negate)}, nil
}

type classAtom struct {
	r     rune
	set   charSet
	isSet bool
}

func (a classAtom) addTo(b *classBuilder) {
	if a.isSet {
		b.addSet(a.set)
		return
	}
	b.addRune(a.r)
}

func (p *parser) parseClassAtom() (classAtom, error) {
	start := p.pos
	if !p.eat('\\') {
		return classAtom{r: p.next()}, nil
	}
	if p.eof() {
		return classAtom{}, p.errorf(start, ErrMsgTrailingBackslash)
	}
	set, ok, err := p.parseSetEscape()
	if err != nil {
		return classAtom{}, err
	}
	if ok {
		return classAtom{set: set, isSet: true}, nil
	}
	switch c := p.src[p.pos]; {
	case c == 'B' || c == 'k':
		if p.unicode {
			return classAtom{}, p.errorf(start, ErrMsgInvalidClassEscape)
		}
		p.pos++
		return classAtom{r: rune(c)}, nil
	case '1' <= c && c <= '9' && p.unicode:
		return classAtom{}, p.errorf(start, ErrMsgInvalidClassEscape)
	}
	r, err := p.parseCharEscape(start, true)
	if err != nil {
		return classAtom{}, err
	}
	return classAtom{r: r}, nil
}
