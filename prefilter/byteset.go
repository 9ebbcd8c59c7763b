package prefilter

import "github.com/coregx/ecmaregex/literal"

// byteSetPrefilter finds the first byte that belongs to a set.
//
// It serves patterns whose every branch starts with one of a few ASCII
// characters, typically a small class or a digit run:
//   - Numeric: `[0-9]+` is too large to expand, but `\d{3}` after `x|y`
//     style alternations often is
//   - Short alternations: `a|b|c`
//   - Small classes: `[+-]?\d`
//
// Finding a byte is only a candidate position, so the prefilter is never
// complete.
type byteSetPrefilter struct {
	set [256]bool
}

func newByteSetPrefilter(seq *literal.Seq) *byteSetPrefilter {
	p := &byteSetPrefilter{}
	for i := range seq.Len() {
		p.set[seq.Get(i).Value[0]] = true
	}
	return p
}

// Find returns the index of the first byte in the set at or after start.
func (p *byteSetPrefilter) Find(haystack string, start int) int {
	if start < 0 {
		return -1
	}
	for i := start; i < len(haystack); i++ {
		if p.set[haystack[i]] {
			return i
		}
	}
	return -1
}

// IsComplete returns false because the set only narrows the search space.
func (p *byteSetPrefilter) IsComplete() bool {
	return false
}

// LiteralLen returns 0 because IsComplete is false.
func (p *byteSetPrefilter) LiteralLen() int {
	return 0
}

// HeapBytes returns the size of the lookup table.
func (p *byteSetPrefilter) HeapBytes() int {
	return len(p.set)
}
