package nfa

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
	"unicode"

	"github.com/dgryski/go-farm"

	"github.com/coregx/ecmaregex/syntax"
)

// Opcode identifies the kind of a program instruction.
type Opcode uint8

const (
	// OpMatch ends the program successfully.
	OpMatch Opcode = iota

	// OpChar consumes one code point equal to Rune. When the program folds
	// case, Rune is already canonical and the input is canonicalized first.
	OpChar

	// OpClass consumes one code point that matches Classes[Arg].
	OpClass

	// OpAny consumes one code point; Arg != 0 also admits line terminators.
	OpAny

	// OpSplit continues at X and, on failure, backtracks to Y.
	OpSplit

	// OpJump continues at X.
	OpJump

	// OpSave records the current position in slot Arg.
	OpSave

	// OpResetCaptures unsets slots [Arg, X).
	OpResetCaptures

	// OpAssert checks the zero-width Assertion in Arg.
	OpAssert

	// OpBackref consumes the text last captured by group Arg.
	OpBackref

	// OpLook runs the sub-program starting at pc+1 up to its OpLookEnd as
	// an atomic zero-width test, then continues at X. Neg inverts the test.
	OpLook

	// OpLookEnd ends a lookaround sub-program.
	OpLookEnd

	// OpLoopMark records the current position in register Arg.
	OpLoopMark

	// OpLoopCheck fails if the position still equals register Arg, which
	// rejects iterations of an optional repeat that consumed nothing.
	OpLoopCheck
)

var opcodeNames = [...]string{
	OpMatch:         "match",
	OpChar:          "char",
	OpClass:         "class",
	OpAny:           "any",
	OpSplit:         "split",
	OpJump:          "jump",
	OpSave:          "save",
	OpResetCaptures: "reset",
	OpAssert:        "assert",
	OpBackref:       "backref",
	OpLook:          "look",
	OpLookEnd:       "lookend",
	OpLoopMark:      "loopmark",
	OpLoopCheck:     "loopcheck",
}

// String returns the mnemonic of the opcode.
func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", op)
}

// Assertion is the argument of OpAssert.
type Assertion uint32

const (
	AssertBeginText Assertion = iota
	AssertEndText
	AssertBeginLine
	AssertEndLine
	AssertWordBoundary
	AssertNotWordBoundary
)

var assertionNames = [...]string{
	AssertBeginText:       "begin-text",
	AssertEndText:         "end-text",
	AssertBeginLine:       "begin-line",
	AssertEndLine:         "end-line",
	AssertWordBoundary:    "word-boundary",
	AssertNotWordBoundary: "not-word-boundary",
}

func (a Assertion) String() string {
	if int(a) < len(assertionNames) {
		return assertionNames[a]
	}
	return fmt.Sprintf("Assertion(%d)", a)
}

// Inst is one program instruction.
type Inst struct {
	Op   Opcode
	Back bool // consumers and backrefs read the text right to left
	Neg  bool // OpLook: negative lookaround
	Arg  uint32
	X, Y uint32
	Rune rune
}

// Program is a compiled pattern: a flat instruction list run by the
// Backtracker. A Program is immutable and safe for concurrent use.
type Program struct {
	Insts   []Inst
	Classes []*syntax.Class

	// NumCaptures counts capture groups including group 0, the whole match.
	NumCaptures int

	// NumRegisters counts the loop registers used by OpLoopMark.
	NumRegisters int

	// Names holds group names by group number, "" when unnamed.
	Names []string

	Flags syntax.Flags

	// Anchored is set when a match can only begin at offset 0.
	Anchored bool

	encoded []byte
}

// NumSlots returns the number of capture slots, two per group.
func (p *Program) NumSlots() int {
	return 2 * p.NumCaptures
}

// Fold reports whether the program compares text case-insensitively.
func (p *Program) Fold() bool {
	return p.Flags.Has(syntax.FlagIgnoreCase)
}

// Unicode reports whether the program was compiled in Unicode mode.
func (p *Program) Unicode() bool {
	return p.Flags.Has(syntax.FlagUnicode)
}

// Sticky reports whether matches must begin exactly at the search start.
func (p *Program) Sticky() bool {
	return p.Flags.Has(syntax.FlagSticky)
}

// Equal reports whether p and q are the same compiled program. Two
// patterns that compile to identical programs under identical flags are
// equal even if their source text differs.
func (p *Program) Equal(q *Program) bool {
	if p == q {
		return true
	}
	if p == nil || q == nil {
		return false
	}
	return bytes.Equal(p.Encoding(), q.Encoding())
}

// Fingerprint returns a 64-bit hash of the program encoding. Equal
// programs have equal fingerprints.
func (p *Program) Fingerprint() uint64 {
	return farm.Fingerprint64(p.Encoding())
}

// Encoding returns a canonical binary form of the program. The returned
// slice must not be modified.
func (p *Program) Encoding() []byte {
	if p.encoded == nil {
		// Hand-assembled programs are encoded on demand.
		return p.encode()
	}
	return p.encoded
}

// encodingVersion is bumped whenever the encoding layout changes.
const encodingVersion = 1

func (p *Program) encode() []byte {
	buf := make([]byte, 0, 16+8*len(p.Insts))
	buf = append(buf, encodingVersion, byte(p.Flags))
	buf = binary.AppendUvarint(buf, uint64(p.NumCaptures))
	buf = binary.AppendUvarint(buf, uint64(p.NumRegisters))
	buf = binary.AppendUvarint(buf, uint64(len(p.Insts)))
	for i := range p.Insts {
		in := &p.Insts[i]
		var bits byte
		if in.Back {
			bits |= 1
		}
		if in.Neg {
			bits |= 2
		}
		buf = append(buf, byte(in.Op), bits)
		buf = binary.AppendUvarint(buf, uint64(in.Arg))
		buf = binary.AppendUvarint(buf, uint64(in.X))
		buf = binary.AppendUvarint(buf, uint64(in.Y))
		buf = binary.AppendVarint(buf, int64(in.Rune))
	}
	buf = binary.AppendUvarint(buf, uint64(len(p.Classes)))
	for _, c := range p.Classes {
		buf = encodeClass(buf, c)
	}
	buf = binary.AppendUvarint(buf, uint64(len(p.Names)))
	for _, n := range p.Names {
		buf = binary.AppendUvarint(buf, uint64(len(n)))
		buf = append(buf, n...)
	}
	return buf
}

func encodeClass(buf []byte, c *syntax.Class) []byte {
	if c.Negate {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = encodeTable(buf, c.Table)
	buf = binary.AppendUvarint(buf, uint64(len(c.Exclude)))
	for _, t := range c.Exclude {
		buf = encodeTable(buf, t)
	}
	return buf
}

func encodeTable(buf []byte, t *unicode.RangeTable) []byte {
	buf = binary.AppendUvarint(buf, uint64(len(t.R16)))
	for _, r := range t.R16 {
		buf = binary.AppendUvarint(buf, uint64(r.Lo))
		buf = binary.AppendUvarint(buf, uint64(r.Hi))
		buf = binary.AppendUvarint(buf, uint64(r.Stride))
	}
	buf = binary.AppendUvarint(buf, uint64(len(t.R32)))
	for _, r := range t.R32 {
		buf = binary.AppendUvarint(buf, uint64(r.Lo))
		buf = binary.AppendUvarint(buf, uint64(r.Hi))
		buf = binary.AppendUvarint(buf, uint64(r.Stride))
	}
	return buf
}

// String returns a disassembly of the program, one instruction per line.
func (p *Program) String() string {
	var b strings.Builder
	for pc := range p.Insts {
		fmt.Fprintf(&b, "%3d: %s\n", pc, p.Insts[pc].describe())
	}
	return b.String()
}

func (in *Inst) describe() string {
	dir := ""
	if in.Back {
		dir = " <-"
	}
	switch in.Op {
	case OpChar:
		return fmt.Sprintf("char %q%s", in.Rune, dir)
	case OpClass:
		return fmt.Sprintf("class #%d%s", in.Arg, dir)
	case OpAny:
		if in.Arg != 0 {
			return "any" + dir
		}
		return "any-not-nl" + dir
	case OpSplit:
		return fmt.Sprintf("split %d, %d", in.X, in.Y)
	case OpJump:
		return fmt.Sprintf("jump %d", in.X)
	case OpSave:
		return fmt.Sprintf("save %d", in.Arg)
	case OpResetCaptures:
		return fmt.Sprintf("reset %d..%d", in.Arg, in.X)
	case OpAssert:
		return "assert " + Assertion(in.Arg).String()
	case OpBackref:
		return fmt.Sprintf("backref %d%s", in.Arg, dir)
	case OpLook:
		kind := "ahead"
		if in.Back {
			kind = "behind"
		}
		if in.Neg {
			kind += " not"
		}
		return fmt.Sprintf("look %s -> %d", kind, in.X)
	case OpLoopMark, OpLoopCheck:
		return fmt.Sprintf("%s r%d", in.Op, in.Arg)
	}
	return in.Op.String()
}
