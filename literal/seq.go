// Package literal extracts literal prefixes from parsed patterns.
//
// The primary use case is prefilter optimization: if every match of
// /(?:foo|bar)\d+/ starts with "foo" or "bar", a substring search can skip
// straight to candidate positions before the backtracker runs.
//
// Key concepts:
//   - A Literal is a concrete string that every match of some branch starts with
//   - A Seq is a set of alternative literals (e.g., from alternations like /foo|bar/)
//   - Minimize and LongestCommonPrefix help pick a cheap search strategy
package literal

import (
	"sort"
	"strings"
)

// Literal is a string extracted from a pattern.
// Complete reports whether the literal is an entire match rather than a
// prefix of one.
//
// Example:
//   - Pattern /hello/ → Literal{"hello", true}
//   - Pattern /hello\d/ → Literal{"hello", false}
type Literal struct {
	Value    string
	Complete bool
}

// NewLiteral creates a new Literal.
func NewLiteral(s string, complete bool) Literal {
	return Literal{Value: s, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Value)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{value, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + l.Value + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals. A non-empty Seq promises that
// every match starts with at least one of its literals; an empty Seq
// promises nothing.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral("foo", true),
//	    literal.NewLiteral("bar", true),
//	)
//	fmt.Println(seq.Len()) // Output: 2
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at the specified index.
// Panics if index is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Strings returns the literal values in order.
func (s *Seq) Strings() []string {
	if s.IsEmpty() {
		return nil
	}
	out := make([]string, len(s.literals))
	for i, l := range s.literals {
		out[i] = l.Value
	}
	return out
}

// Minimize removes redundant literals from the sequence.
//
// For prefix search, a literal L is redundant if a kept literal S is a
// prefix of L: every position where L occurs is also a position where S
// occurs. S is then no longer complete. The result is ordered shortest
// first, ties broken lexicographically, so minimizing is deterministic.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral("foo", true),
//	    literal.NewLiteral("foobar", true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		a, b := s.literals[i].Value, s.literals[j].Value
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for i, k := range kept {
			if strings.HasPrefix(current.Value, k.Value) {
				if len(current.Value) != len(k.Value) {
					// k no longer stands for every match it begins.
					kept[i].Complete = false
				}
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, current)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals in
// the sequence, or "" if the sequence is empty.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral("hello", true),
//	    literal.NewLiteral("help", true),
//	    literal.NewLiteral("hero", true),
//	)
//	fmt.Println(seq.LongestCommonPrefix()) // Output: he
func (s *Seq) LongestCommonPrefix() string {
	if s.IsEmpty() {
		return ""
	}
	prefix := s.literals[0].Value
	for _, l := range s.literals[1:] {
		prefix = commonPrefix(prefix, l.Value)
		if prefix == "" {
			return ""
		}
	}
	return prefix
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}
