package syntax

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/rangetable"
)

// Class is a compiled character class.
//
// A code point is a member when it is in Table or outside any of the
// Exclude tables; Exclude holds complemented escapes such as \D or \P{L}
// that appear inside brackets. Negate inverts the final answer, after case
// folding has been applied.
type Class struct {
	Table   *unicode.RangeTable
	Exclude []*unicode.RangeTable
	Negate  bool
}

// Contains reports raw membership of r, ignoring Negate and case folding.
func (c *Class) Contains(r rune) bool {
	if unicode.Is(c.Table, r) {
		return true
	}
	for _, t := range c.Exclude {
		if !unicode.Is(t, r) {
			return true
		}
	}
	return false
}

// Matches reports whether r matches the class. With fold set, r matches if
// any code point with the same canonical form (see Canonicalize) is a member.
func (c *Class) Matches(r rune, fold, unicodeMode bool) bool {
	in := c.Contains(r)
	if !in && fold {
		canon := Canonicalize(r, unicodeMode)
		for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
			if Canonicalize(f, unicodeMode) == canon && c.Contains(f) {
				in = true
				break
			}
		}
	}
	return in != c.Negate
}

// spanTable returns a table holding the single range [lo, hi].
func spanTable(lo, hi rune) *unicode.RangeTable {
	rt := &unicode.RangeTable{}
	if lo <= 0xFFFF {
		h := min(hi, 0xFFFF)
		//nolint:gosec // G115: bounded by 0xFFFF above
		rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(lo), Hi: uint16(h), Stride: 1})
		if h <= unicode.MaxLatin1 {
			rt.LatinOffset = 1
		}
	}
	if hi > 0xFFFF {
		l := max(lo, 0x10000)
		//nolint:gosec // G115: code points are non-negative
		rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(l), Hi: uint32(hi), Stride: 1})
	}
	return rt
}

var (
	digitTable = spanTable('0', '9')

	wordTable = rangetable.Merge(
		spanTable('0', '9'),
		spanTable('A', 'Z'),
		rangetable.New('_'),
		spanTable('a', 'z'),
	)

	// With both i and u, \w also covers the two non-ASCII code points that
	// case-fold into it: U+017F LATIN SMALL LETTER LONG S and U+212A KELVIN
	// SIGN.
	wordFoldTable = rangetable.Merge(wordTable, rangetable.New(0x017F, 0x212A))

	spaceTable = rangetable.Merge(
		rangetable.New('\t', '\n', '\v', '\f', '\r', ' ', 0x00A0, 0x1680,
			0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF),
		spanTable(0x2000, 0x200A),
	)

	anyTable   = spanTable(0, unicode.MaxRune)
	asciiTable = spanTable(0, unicode.MaxASCII)
)

// IsLineTerminator reports whether r is an ECMAScript line terminator.
func IsLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

// IsWordChar reports whether r is in \w. unicodeFold selects the wider set
// used when both the i and u flags are present.
func IsWordChar(r rune, unicodeFold bool) bool {
	if r < utf8.RuneSelf {
		return r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	}
	return unicodeFold && (r == 0x017F || r == 0x212A)
}

// classBuilder accumulates the members of a bracketed class.
type classBuilder struct {
	tables  []*unicode.RangeTable
	runes   []rune
	exclude []*unicode.RangeTable
}

func (b *classBuilder) addRune(r rune) {
	b.runes = append(b.runes, r)
}

func (b *classBuilder) addRange(lo, hi rune) {
	if lo == hi {
		b.addRune(lo)
		return
	}
	b.tables = append(b.tables, spanTable(lo, hi))
}

func (b *classBuilder) addSet(s charSet) {
	if s.negate {
		b.exclude = append(b.exclude, s.table)
		return
	}
	b.tables = append(b.tables, s.table)
}

func (b *classBuilder) build(negate bool) *Class {
	tables := append(b.tables, rangetable.New(b.runes...))
	return &Class{
		Table:   rangetable.Merge(tables...),
		Exclude: b.exclude,
		Negate:  negate,
	}
}

// charSet is a class escape such as \d, \W or \p{Lu}.
type charSet struct {
	table  *unicode.RangeTable
	negate bool
}

func (s charSet) class() *Class {
	return &Class{Table: s.table, Negate: s.negate}
}
