package nfa

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coregx/ecmaregex/internal/conv"
	"github.com/coregx/ecmaregex/syntax"
)

// Budget bounds the work of a single search.
type Budget struct {
	// Steps is the maximum number of instructions executed. A non-positive
	// value means no step limit.
	Steps int64

	// Deadline, if non-zero, is checked every deadlineInterval steps.
	Deadline time.Time
}

// deadlineInterval is the number of steps between clock reads.
const deadlineInterval = 1024

// Candidates lets the Backtracker skip start positions that cannot match.
// Find returns an offset at or after at and no later than the first
// position where a match could begin, or -1 if no match can begin at or
// after at.
type Candidates interface {
	Find(haystack string, at int) int
}

// Backtracker executes a Program with depth-first backtracking.
//
// Alternatives are explored in priority order and the first path to reach
// OpMatch wins, which gives ECMAScript's leftmost-first semantics. Choice
// points live on an explicit stack and every slot or register write is
// recorded on an undo trail, so backtracking restores captures exactly.
//
// A Backtracker is immutable after construction and safe for concurrent
// use; per-search memory lives in BacktrackerState.
type Backtracker struct {
	prog       *Program
	candidates Candidates
}

// NewBacktracker creates a backtracker for prog.
func NewBacktracker(prog *Program) *Backtracker {
	return &Backtracker{prog: prog}
}

// WithCandidates returns a copy of b that uses c to skip start positions
// in non-sticky searches.
func (b *Backtracker) WithCandidates(c Candidates) *Backtracker {
	return &Backtracker{prog: b.prog, candidates: c}
}

// Program returns the program being executed.
func (b *Backtracker) Program() *Program {
	return b.prog
}

// frame is a pending alternative on the choice stack.
type frame struct {
	pc    uint32
	pos   int32
	trail int32
}

// undo restores vals[idx] to old.
type undo struct {
	idx int32
	old int32
}

// BacktrackerState holds the mutable memory of one search. Capture slots
// and loop registers share vals: slots first, then registers.
type BacktrackerState struct {
	vals  []int32
	slots int
	stack []frame
	trail []undo

	steps    int64
	limit    int64
	deadline time.Time
	err      error
}

// NewBacktrackerState allocates state sized for prog.
func NewBacktrackerState(prog *Program) *BacktrackerState {
	n := prog.NumSlots() + prog.NumRegisters
	return &BacktrackerState{
		vals:  make([]int32, n),
		slots: prog.NumSlots(),
		stack: make([]frame, 0, 16),
		trail: make([]undo, 0, 16),
	}
}

// Slots returns the capture slots of the last successful search, two per
// group, -1 for unset. The slice is reused by the next search.
func (s *BacktrackerState) Slots() []int32 {
	return s.vals[:s.slots]
}

// Steps returns the number of instructions executed by the last search.
func (s *BacktrackerState) Steps() int64 {
	return s.steps
}

func (s *BacktrackerState) begin(budget Budget) {
	s.steps = 0
	s.limit = budget.Steps
	s.deadline = budget.Deadline
	s.err = nil
}

func (s *BacktrackerState) clear() {
	for i := range s.vals {
		s.vals[i] = -1
	}
	s.stack = s.stack[:0]
	s.trail = s.trail[:0]
}

func (s *BacktrackerState) set(idx uint32, v int32) {
	s.trail = append(s.trail, undo{idx: int32(idx), old: s.vals[idx]}) //nolint:gosec // G115: idx < len(vals)
	s.vals[idx] = v
}

func (s *BacktrackerState) rewind(mark int) {
	for i := len(s.trail) - 1; i >= mark; i-- {
		u := s.trail[i]
		s.vals[u.idx] = u.old
	}
	s.trail = s.trail[:mark]
}

// tick charges one step and reports whether the budget still allows work.
func (s *BacktrackerState) tick() bool {
	s.steps++
	if s.limit > 0 && s.steps > s.limit {
		s.err = ErrExecutionLimitExceeded
		return false
	}
	if s.steps%deadlineInterval == 0 && !s.deadline.IsZero() && time.Now().After(s.deadline) {
		s.err = ErrExecutionLimitExceeded
		return false
	}
	return true
}

// Search finds the first match starting at or after start (exactly at
// start for sticky programs). On success the match is in s.Slots().
//
// A start inside a multi-byte code point is moved forward to the next
// boundary, except for sticky programs, which then cannot match.
func (b *Backtracker) Search(s *BacktrackerState, text string, start int, budget Budget) (bool, error) {
	if start < 0 || start > len(text) {
		return false, &ExecError{Err: ErrIndexOutOfRange, Start: start, Len: len(text)}
	}
	if len(text) > math.MaxInt32 {
		return false, &ExecError{Err: ErrTextTooLong, Start: start, Len: len(text)}
	}
	s.begin(budget)

	prog := b.prog
	sticky := prog.Sticky()
	pos := start
	if !isBoundary(text, pos) {
		if sticky {
			return false, nil
		}
		for pos < len(text) && !isBoundary(text, pos) {
			pos++
		}
	}
	for {
		if b.candidates != nil && !sticky && !prog.Anchored {
			pos = b.candidates.Find(text, pos)
			if pos < 0 {
				return false, nil
			}
			for pos < len(text) && !isBoundary(text, pos) {
				pos++
			}
		}
		s.clear()
		_, ok := b.run(s, text, 0, conv.IntToInt32(pos))
		if s.err != nil {
			return false, &ExecError{Err: s.err, Start: start, Len: len(text), Steps: s.steps}
		}
		if ok {
			return true, nil
		}
		if sticky || prog.Anchored || pos >= len(text) {
			return false, nil
		}
		_, w := utf8.DecodeRuneInString(text[pos:])
		pos += w
	}
}

// isBoundary reports whether pos starts a text unit. A byte that is not
// part of a valid encoding is a unit of its own.
func isBoundary(text string, pos int) bool {
	if pos <= 0 || pos >= len(text) || utf8.RuneStart(text[pos]) {
		return true
	}
	for i := pos - 1; i >= 0 && i > pos-utf8.UTFMax; i-- {
		if utf8.RuneStart(text[i]) {
			_, w := utf8.DecodeRuneInString(text[i:])
			return i+w <= pos
		}
	}
	return true
}

// run executes from pc at pos until OpMatch or OpLookEnd (success, with the
// end position) or until every alternative pushed since entry has failed.
func (b *Backtracker) run(s *BacktrackerState, text string, pc uint32, pos int32) (int32, bool) {
	prog := b.prog
	insts := prog.Insts
	fold, uni := prog.Fold(), prog.Unicode()
	base := len(s.stack)

	for {
		if !s.tick() {
			return -1, false
		}
		in := &insts[pc]
		switch in.Op {
		case OpMatch, OpLookEnd:
			return pos, true

		case OpChar:
			if r, next, ok := step(text, pos, in.Back); ok {
				if r == in.Rune || fold && syntax.Canonicalize(r, uni) == in.Rune {
					pos = next
					pc++
					continue
				}
			}

		case OpAny:
			if r, next, ok := step(text, pos, in.Back); ok && (in.Arg != 0 || !syntax.IsLineTerminator(r)) {
				pos = next
				pc++
				continue
			}

		case OpClass:
			if r, next, ok := step(text, pos, in.Back); ok && prog.Classes[in.Arg].Matches(r, fold, uni) {
				pos = next
				pc++
				continue
			}

		case OpSplit:
			s.stack = append(s.stack, frame{pc: in.Y, pos: pos, trail: int32(len(s.trail))}) //nolint:gosec // G115: trail length is bounded by steps
			pc = in.X
			continue

		case OpJump:
			pc = in.X
			continue

		case OpSave:
			s.set(in.Arg, pos)
			pc++
			continue

		case OpResetCaptures:
			for i := in.Arg; i < in.X; i++ {
				if s.vals[i] >= 0 {
					s.set(i, -1)
				}
			}
			pc++
			continue

		case OpAssert:
			if assert(Assertion(in.Arg), text, int(pos), uni && fold) {
				pc++
				continue
			}

		case OpBackref:
			if next, ok := b.backref(s, text, in, pos); ok {
				pos = next
				pc++
				continue
			}

		case OpLook:
			mark, depth := len(s.trail), len(s.stack)
			_, matched := b.run(s, text, pc+1, pos)
			// The body is atomic: its remaining alternatives are discarded.
			s.stack = s.stack[:depth]
			if s.err != nil {
				return -1, false
			}
			if matched != in.Neg {
				if in.Neg {
					s.rewind(mark)
				}
				pc = in.X
				continue
			}
			s.rewind(mark)

		case OpLoopMark:
			s.set(conv.IntToUint32(s.slots)+in.Arg, pos)
			pc++
			continue

		case OpLoopCheck:
			if s.vals[s.slots+int(in.Arg)] != pos {
				pc++
				continue
			}
		}

		// The current path failed: resume the most recent alternative.
		if len(s.stack) == base {
			return -1, false
		}
		f := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.rewind(int(f.trail))
		pc, pos = f.pc, f.pos
	}
}

// step decodes the code point after pos, or before it when back is set,
// and returns it with the position on its other side.
func step(text string, pos int32, back bool) (rune, int32, bool) {
	if back {
		if pos <= 0 {
			return 0, pos, false
		}
		if c := text[pos-1]; c < utf8.RuneSelf {
			return rune(c), pos - 1, true
		}
		r, w := utf8.DecodeLastRuneInString(text[:pos])
		return r, pos - int32(w), true //nolint:gosec // G115: w <= utf8.UTFMax
	}
	if int(pos) >= len(text) {
		return 0, pos, false
	}
	if c := text[pos]; c < utf8.RuneSelf {
		return rune(c), pos + 1, true
	}
	r, w := utf8.DecodeRuneInString(text[pos:])
	return r, pos + int32(w), true //nolint:gosec // G115: w <= utf8.UTFMax
}

func assert(a Assertion, text string, pos int, unicodeFold bool) bool {
	switch a {
	case AssertBeginText:
		return pos == 0
	case AssertEndText:
		return pos == len(text)
	case AssertBeginLine:
		if pos == 0 {
			return true
		}
		r, _ := utf8.DecodeLastRuneInString(text[:pos])
		return syntax.IsLineTerminator(r)
	case AssertEndLine:
		if pos == len(text) {
			return true
		}
		r, _ := utf8.DecodeRuneInString(text[pos:])
		return syntax.IsLineTerminator(r)
	case AssertWordBoundary, AssertNotWordBoundary:
		before, after := false, false
		if pos > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:pos])
			before = syntax.IsWordChar(r, unicodeFold)
		}
		if pos < len(text) {
			r, _ := utf8.DecodeRuneInString(text[pos:])
			after = syntax.IsWordChar(r, unicodeFold)
		}
		return (before != after) == (a == AssertWordBoundary)
	}
	return false
}

// backref matches the text of group in.Arg at pos. An unset group matches
// the empty string.
func (b *Backtracker) backref(s *BacktrackerState, text string, in *Inst, pos int32) (int32, bool) {
	lo, hi := s.vals[2*in.Arg], s.vals[2*in.Arg+1]
	if lo < 0 || hi < 0 {
		return pos, true
	}
	captured := text[lo:hi]
	if !b.prog.Fold() {
		if in.Back {
			if strings.HasSuffix(text[:pos], captured) {
				return pos - (hi - lo), true
			}
			return pos, false
		}
		if strings.HasPrefix(text[pos:], captured) {
			return pos + (hi - lo), true
		}
		return pos, false
	}

	uni := b.prog.Unicode()
	cur := pos
	for len(captured) > 0 {
		var want rune
		var w int
		if in.Back {
			want, w = utf8.DecodeLastRuneInString(captured)
			captured = captured[:len(captured)-w]
		} else {
			want, w = utf8.DecodeRuneInString(captured)
			captured = captured[w:]
		}
		r, next, ok := step(text, cur, in.Back)
		if !ok || syntax.Canonicalize(r, uni) != syntax.Canonicalize(want, uni) {
			return pos, false
		}
		cur = next
	}
	return cur, true
}
