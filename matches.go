package ecmaregex

import (
	"iter"
	"unicode/utf8"
)

// Matches iterates over successive non-overlapping matches in a text.
//
// Each step searches from LastIndex. After a match LastIndex moves to its
// end, and one code point further when the match is empty, so the
// iteration always makes progress. The first missing match or error ends
// the iteration for good; a new FindIter call starts over.
//
// A Matches value is not safe for concurrent use.
//
// Example:
//
//	it := re.FindIter("a1 b22 c333")
//	for it.Next() {
//	    fmt.Println(it.Match().String())
//	}
//	if err := it.Err(); err != nil {
//	    log.Fatal(err)
//	}
type Matches struct {
	re        *Regex
	text      string
	lastIndex int
	cur       *Match
	err       error
	done      bool
}

// FindIter returns an iterator over the matches in text, starting at
// offset 0.
func (r *Regex) FindIter(text string) *Matches {
	return &Matches{re: r, text: text}
}

// Next advances to the next match and reports whether there is one.
func (it *Matches) Next() bool {
	if it.done {
		return false
	}
	if it.lastIndex > len(it.text) {
		it.finish()
		return false
	}
	m, err := it.re.FindAt(it.text, it.lastIndex)
	if err != nil {
		it.err = err
		it.finish()
		return false
	}
	if m == nil {
		it.finish()
		return false
	}
	it.cur = m
	it.lastIndex = m.End()
	if m.IsEmpty() {
		it.lastIndex += advance(it.text, it.lastIndex)
	}
	return true
}

func (it *Matches) finish() {
	it.done = true
	it.cur = nil
}

// advance returns the width of the code point at pos, or 1 at the end of
// the text.
func advance(text string, pos int) int {
	if pos >= len(text) {
		return 1
	}
	_, w := utf8.DecodeRuneInString(text[pos:])
	return w
}

// Match returns the current match. It is nil before the first call to Next
// and after the iteration ends.
func (it *Matches) Match() *Match {
	return it.cur
}

// Err returns the error that ended the iteration, if any.
func (it *Matches) Err() error {
	return it.err
}

// LastIndex returns the offset the next search starts from.
func (it *Matches) LastIndex() int {
	return it.lastIndex
}

// All returns the remaining matches as a sequence. An error is yielded
// once, with a nil match, and ends the sequence.
//
// Example:
//
//	for m, err := range re.FindIter(text).All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(m.Start(), m.String())
//	}
func (it *Matches) All() iter.Seq2[*Match, error] {
	return func(yield func(*Match, error) bool) {
		for it.Next() {
			if !yield(it.Match(), nil) {
				return
			}
		}
		if it.err != nil {
			yield(nil, it.err)
		}
	}
}
