// Package prefilter provides fast candidate filtering for regex search using
// extracted literal sequences.
//
// A prefilter is used to quickly reject positions in the text that cannot
// possibly start a match. The backtracker only runs at positions the
// prefilter reports, which for patterns with a literal prefix turns a
// per-position program run into a substring search.
//
// The package selects the prefilter strategy based on extracted literals:
//   - Single byte → memchr (strings.IndexByte)
//   - Single substring → memmem (strings.Index)
//   - Several single bytes → byte set scan
//   - Several literals sharing a long prefix → memmem on the prefix
//   - Several literals → Aho-Corasick automaton
//
// Example usage:
//
//	re, _ := syntax.Parse("hello|world", 0, 0)
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find("foo hello bar world baz", 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"strings"

	"github.com/coregx/ecmaregex/literal"
)

// Prefilter is used to quickly find candidate match positions before running
// the full regex engine.
//
// Key methods:
//   - Find: returns the next candidate position
//   - IsComplete: indicates if prefilter match is sufficient (no verification needed)
//   - HeapBytes: returns memory usage for profiling
type Prefilter interface {
	// Find returns a candidate position at or after start, or -1 if none of
	// the prefilter literals occurs there.
	//
	// The candidate is never later than the first occurrence of a literal.
	// It is that occurrence for every strategy except Aho-Corasick with
	// literals of different lengths, which may return an earlier position.
	// A candidate does NOT guarantee a full regex match; the caller must
	// verify it.
	Find(haystack string, start int) int

	// IsComplete returns true if a prefilter match guarantees a full regex
	// match of LiteralLen bytes.
	IsComplete() bool

	// LiteralLen returns the length of the matched literal when IsComplete()
	// is true, and 0 otherwise.
	LiteralLen() int

	// HeapBytes returns the number of bytes of heap memory used by this prefilter.
	HeapBytes() int
}

// minCommonPrefix is the shortest shared prefix worth a substring search
// in place of an automaton.
const minCommonPrefix = 3

// Builder constructs the best prefilter from extracted literals.
//
// Selection strategy (in order of preference):
//  1. Single byte literal → memchr
//  2. Single substring literal → memmem
//  3. Only single-byte literals → byte set
//  4. Common prefix of at least minCommonPrefix bytes → memmem (incomplete)
//  5. Several literals → Aho-Corasick
//  6. No literals → nil (no prefilter)
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a new prefilter builder from extracted prefixes.
// The sequence must be sound: every match starts with one of its literals.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build constructs the best prefilter for the given literals.
//
// Returns nil if no prefilter can be built.
func (b *Builder) Build() Prefilter {
	return selectPrefilter(b.prefixes)
}

func selectPrefilter(seq *literal.Seq) Prefilter {
	if seq.IsEmpty() || minLen(seq) == 0 {
		// An empty literal matches everywhere.
		return nil
	}

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Value) == 1 {
			return newMemchrPrefilter(lit.Value[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Value, lit.Complete)
	}

	if maxLen(seq) == 1 {
		return newByteSetPrefilter(seq)
	}

	if lcp := seq.LongestCommonPrefix(); len(lcp) >= minCommonPrefix {
		return newMemmemPrefilter(lcp, false)
	}

	pf, err := newAhoCorasickPrefilter(seq)
	if err != nil {
		// Searching without a prefilter is always correct.
		return nil
	}
	return pf
}

// minLen returns the minimum literal length in the sequence.
func minLen(seq *literal.Seq) int {
	n := seq.Get(0).Len()
	for i := 1; i < seq.Len(); i++ {
		n = min(n, seq.Get(i).Len())
	}
	return n
}

// maxLen returns the maximum literal length in the sequence.
func maxLen(seq *literal.Seq) int {
	n := 0
	for i := range seq.Len() {
		n = max(n, seq.Get(i).Len())
	}
	return n
}

// memchrPrefilter searches for a single byte.
//
// Example patterns:
//
//	/a.*/         → search for 'a'
//	/x\d+/        → search for 'x'
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find using strings.IndexByte.
func (p *memchrPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := strings.IndexByte(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

// memmemPrefilter searches for a single substring.
//
// Example patterns:
//
//	/hello/       → search for "hello"
//	/foo|foobar/  → after minimization → search for "foo"
//	/prefix.*/    → search for "prefix"
type memmemPrefilter struct {
	needle   string
	complete bool
}

func newMemmemPrefilter(needle string, complete bool) Prefilter {
	return &memmemPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find using strings.Index.
func (p *memmemPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := strings.Index(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}
