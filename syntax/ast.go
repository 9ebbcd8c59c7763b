// Package syntax parses ECMAScript (ECMA-262) regular expression patterns
// into an abstract syntax tree.
//
// The parser follows the ES2018 grammar. Without the Unicode flag it also
// accepts the legacy forms of Annex B (identity escapes, octal escapes,
// literal braces and quantifiable lookaheads), as web browsers do.
//
// Parsing is a pure function of (pattern, flags): the tree carries no
// references to parser state and can be compiled any number of times.
package syntax

import "strconv"

// Op identifies the kind of a Node.
type Op uint8

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota

	// OpChar matches the single code point Rune.
	OpChar

	// OpAnyChar matches any code point; line terminators only with the s flag.
	OpAnyChar

	// OpClass matches one code point against Class.
	OpClass

	// OpAssert is a zero-width position assertion (^, $, \b, \B).
	OpAssert

	// OpCapture records the span of Sub[0] as group Index.
	OpCapture

	// OpConcat matches Sub in sequence.
	OpConcat

	// OpAlternate tries Sub in order, first success wins.
	OpAlternate

	// OpRepeat matches Sub[0] between Min and Max times (Max < 0 is unbounded).
	OpRepeat

	// OpBackref matches the text last captured by group Index.
	OpBackref

	// OpLook is a lookahead or lookbehind (Behind), optionally negated.
	OpLook
)

var opNames = [...]string{
	OpEmpty:     "Empty",
	OpChar:      "Char",
	OpAnyChar:   "AnyChar",
	OpClass:     "Class",
	OpAssert:    "Assert",
	OpCapture:   "Capture",
	OpConcat:    "Concat",
	OpAlternate: "Alternate",
	OpRepeat:    "Repeat",
	OpBackref:   "Backref",
	OpLook:      "Look",
}

// String returns a human-readable name of the op.
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "Op(" + strconv.Itoa(int(op)) + ")"
}

// AssertKind identifies a zero-width assertion.
type AssertKind uint8

const (
	// AssertStart is ^: start of input, or of a line with the m flag.
	AssertStart AssertKind = iota

	// AssertEnd is $: end of input, or of a line with the m flag.
	AssertEnd

	// AssertWordBoundary is \b.
	AssertWordBoundary

	// AssertNotWordBoundary is \B.
	AssertNotWordBoundary
)

// Node is one node of a parsed pattern.
//
// Only the fields relevant to Op are meaningful.
type Node struct {
	Op     Op
	Pos    int // byte offset of the node in the pattern
	Rune   rune
	Class  *Class
	Assert AssertKind
	Index  int    // OpCapture, OpBackref: group number (1-based)
	Name   string // OpCapture: group name; OpBackref: referenced name
	Min    int
	Max    int // -1 means unbounded
	Greedy bool
	Behind bool // OpLook: lookbehind
	Negate bool // OpLook: negative lookaround
	Sub    []*Node
}

// Regexp is a parsed pattern.
type Regexp struct {
	Pattern string
	Flags   Flags
	Root    *Node

	// Groups is the number of capturing groups, excluding the whole match.
	Groups int

	// Names holds group names by group number; Names[0] and unnamed groups
	// are "".
	Names []string
}

// MinMaxCapture returns the lowest and highest capture group numbers inside
// n, or (0, -1) when n contains no captures.
func (n *Node) MinMaxCapture() (lo, hi int) {
	lo, hi = 0, -1
	n.walk(func(m *Node) {
		if m.Op != OpCapture {
			return
		}
		if hi < 0 || m.Index < lo {
			lo = m.Index
		}
		if m.Index > hi {
			hi = m.Index
		}
	})
	return lo, hi
}

// Nullable reports whether n may match without consuming input.
// The answer is conservative: true when unsure.
func (n *Node) Nullable() bool {
	switch n.Op {
	case OpChar, OpAnyChar, OpClass:
		return false
	case OpConcat:
		for _, s := range n.Sub {
			if !s.Nullable() {
				return false
			}
		}
		return true
	case OpAlternate:
		for _, s := range n.Sub {
			if s.Nullable() {
				return true
			}
		}
		return false
	case OpCapture:
		return n.Sub[0].Nullable()
	case OpRepeat:
		return n.Min == 0 || n.Sub[0].Nullable()
	default:
		// Empty, assertions, lookarounds, and backreferences, which match
		// empty when their group is unset.
		return true
	}
}

func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, s := range n.Sub {
		s.walk(fn)
	}
}
