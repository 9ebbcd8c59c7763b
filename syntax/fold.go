package syntax

import (
	"unicode"
	"unicode/utf8"
)

// Canonicalize maps r to the representative used for case-insensitive
// comparison. Two code points match under the i flag iff their canonical
// forms are equal.
//
// With unicodeMode, code points are equivalent when they share a simple
// case folding orbit; the representative is the smallest member. Without
// it, the ECMAScript legacy rule applies: map to upper case, except that a
// non-ASCII code point never maps into ASCII.
func Canonicalize(r rune, unicodeMode bool) rune {
	if r < utf8.RuneSelf {
		if 'a' <= r && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}
	if !unicodeMode {
		u := unicode.ToUpper(r)
		if u < utf8.RuneSelf {
			return r
		}
		return u
	}
	least := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < least {
			least = f
		}
	}
	return least
}
