package prefilter

import (
	"unsafe"

	"github.com/coregx/ahocorasick"

	"github.com/coregx/ecmaregex/literal"
)

// ahoCorasickPrefilter finds occurrences of any of several literals with
// an Aho-Corasick automaton.
//
// The automaton reports the occurrence that ends first, which is not
// always the one that starts first: for "abcd" and "bc" in "zabcd" it
// reports "bc" at 2. Find therefore returns the earliest position an
// occurrence could start, the end of the reported one minus the longest
// literal.
//
// Example patterns:
//
//	/(?:foo|bar|baz)\d/  → search for "foo", "bar" or "baz"
//	/x\d/                → search for "x0" … "x9"
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	complete bool
	litLen   int
	longest  int
	bytes    int
}

func newAhoCorasickPrefilter(seq *literal.Seq) (*ahoCorasickPrefilter, error) {
	builder := ahocorasick.NewBuilder()
	complete := true
	litLen := -1
	total, longest := 0, 0
	for i := range seq.Len() {
		lit := seq.Get(i)
		builder.AddPattern([]byte(lit.Value))
		complete = complete && lit.Complete
		total += lit.Len()
		longest = max(longest, lit.Len())
		switch {
		case litLen == -1:
			litLen = lit.Len()
		case litLen != lit.Len():
			// LiteralLen must be a single length.
			litLen = 0
		}
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if litLen <= 0 {
		complete = false
	}
	return &ahoCorasickPrefilter{
		auto:     auto,
		complete: complete,
		litLen:   max(litLen, 0),
		longest:  longest,
		bytes:    total,
	}, nil
}

// Find implements Prefilter.Find. The automaton reads the string's bytes
// in place. When every literal has the same length the result is exact.
func (p *ahoCorasickPrefilter) Find(haystack string, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	b := unsafe.Slice(unsafe.StringData(haystack), len(haystack))
	m := p.auto.Find(b, start)
	if m == nil {
		return -1
	}
	return max(start, m.End-p.longest)
}

// IsComplete implements Prefilter.IsComplete.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *ahoCorasickPrefilter) LiteralLen() int {
	if p.complete {
		return p.litLen
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes. It counts the pattern bytes;
// the automaton's own tables are not exposed.
func (p *ahoCorasickPrefilter) HeapBytes() int {
	return p.bytes
}
