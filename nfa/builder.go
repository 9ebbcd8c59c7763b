package nfa

import (
	"github.com/coregx/ecmaregex/internal/conv"
	"github.com/coregx/ecmaregex/internal/sparse"
	"github.com/coregx/ecmaregex/syntax"
)

// Builder constructs programs incrementally using a low-level API.
// This provides full control over program layout and is used by the
// Compiler.
//
// Every Add method returns the pc of the new instruction. Once the
// program grows past the size limit, further additions are dropped and
// Err reports ErrProgramTooLarge.
type Builder struct {
	insts   []Inst
	classes []*syntax.Class
	regs    int
	limit   int
	err     error
}

// NewBuilder creates a builder with no size limit.
func NewBuilder() *Builder {
	return NewBuilderWithLimit(0)
}

// NewBuilderWithLimit creates a builder that accepts at most limit
// instructions. A non-positive limit disables the check.
func NewBuilderWithLimit(limit int) *Builder {
	return &Builder{
		insts: make([]Inst, 0, 16),
		limit: limit,
	}
}

// Err returns the first error recorded while building.
func (b *Builder) Err() error {
	return b.err
}

// Len returns the number of instructions added so far; it is also the pc
// of the next instruction.
func (b *Builder) Len() uint32 {
	return conv.IntToUint32(len(b.insts))
}

func (b *Builder) add(in Inst) uint32 {
	pc := b.Len()
	if b.err != nil {
		return pc
	}
	if b.limit > 0 && len(b.insts) >= b.limit {
		b.err = ErrProgramTooLarge
		return pc
	}
	b.insts = append(b.insts, in)
	return pc
}

// AddMatch adds the accepting instruction.
func (b *Builder) AddMatch() uint32 {
	return b.add(Inst{Op: OpMatch})
}

// AddChar adds an instruction consuming the code point r.
func (b *Builder) AddChar(r rune, back bool) uint32 {
	return b.add(Inst{Op: OpChar, Rune: r, Back: back})
}

// AddClass adds an instruction consuming one member of c.
func (b *Builder) AddClass(c *syntax.Class, back bool) uint32 {
	idx := conv.IntToUint32(len(b.classes))
	b.classes = append(b.classes, c)
	return b.add(Inst{Op: OpClass, Arg: idx, Back: back})
}

// AddAny adds an instruction consuming any code point. Without dotAll, line
// terminators are rejected.
func (b *Builder) AddAny(dotAll, back bool) uint32 {
	var arg uint32
	if dotAll {
		arg = 1
	}
	return b.add(Inst{Op: OpAny, Arg: arg, Back: back})
}

// AddSplit adds a choice point preferring x over y.
func (b *Builder) AddSplit(x, y uint32) uint32 {
	return b.add(Inst{Op: OpSplit, X: x, Y: y})
}

// AddJump adds an unconditional jump to x.
func (b *Builder) AddJump(x uint32) uint32 {
	return b.add(Inst{Op: OpJump, X: x})
}

// AddSave adds an instruction recording the position in slot.
func (b *Builder) AddSave(slot int) uint32 {
	return b.add(Inst{Op: OpSave, Arg: conv.IntToUint32(slot)})
}

// AddResetCaptures adds an instruction unsetting slots [lo, hi).
func (b *Builder) AddResetCaptures(lo, hi int) uint32 {
	return b.add(Inst{Op: OpResetCaptures, Arg: conv.IntToUint32(lo), X: conv.IntToUint32(hi)})
}

// AddAssert adds a zero-width assertion.
func (b *Builder) AddAssert(a Assertion) uint32 {
	return b.add(Inst{Op: OpAssert, Arg: uint32(a)})
}

// AddBackref adds an instruction consuming the text of group.
func (b *Builder) AddBackref(group int, back bool) uint32 {
	return b.add(Inst{Op: OpBackref, Arg: conv.IntToUint32(group), Back: back})
}

// AddLook adds the head of a lookaround. Its continuation must be set with
// Patch once the body and its OpLookEnd have been added.
func (b *Builder) AddLook(behind, negate bool) uint32 {
	return b.add(Inst{Op: OpLook, Back: behind, Neg: negate})
}

// AddLookEnd adds the terminator of a lookaround body.
func (b *Builder) AddLookEnd() uint32 {
	return b.add(Inst{Op: OpLookEnd})
}

// NewRegister allocates a loop register.
func (b *Builder) NewRegister() int {
	b.regs++
	return b.regs - 1
}

// AddLoopMark adds an instruction recording the position in reg.
func (b *Builder) AddLoopMark(reg int) uint32 {
	return b.add(Inst{Op: OpLoopMark, Arg: conv.IntToUint32(reg)})
}

// AddLoopCheck adds an instruction failing when the position equals reg.
func (b *Builder) AddLoopCheck(reg int) uint32 {
	return b.add(Inst{Op: OpLoopCheck, Arg: conv.IntToUint32(reg)})
}

// Patch sets the primary target X of the jump, split or look at pc.
func (b *Builder) Patch(pc, target uint32) {
	if int(pc) < len(b.insts) {
		b.insts[pc].X = target
	}
}

// PatchSplit sets both targets of the split at pc.
func (b *Builder) PatchSplit(pc, x, y uint32) {
	if int(pc) < len(b.insts) {
		b.insts[pc].X = x
		b.insts[pc].Y = y
	}
}

// Build finalizes the program. captures counts groups including group 0.
func (b *Builder) Build(captures int, names []string, flags syntax.Flags, anchored bool) (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := &Program{
		Insts:        b.insts,
		Classes:      b.classes,
		NumCaptures:  captures,
		NumRegisters: b.regs,
		Names:        names,
		Flags:        flags,
		Anchored:     anchored,
	}
	if err := Validate(p); err != nil {
		return nil, err
	}
	p.encoded = p.encode()
	return p, nil
}

// Validate checks that every instruction reachable from pc 0 refers to
// valid targets, classes, slots and registers, and that the program can
// reach a match.
func Validate(p *Program) error {
	n := len(p.Insts)
	if n == 0 {
		return &BuildError{Message: "empty program", PC: -1}
	}
	seen := sparse.New(conv.IntToUint32(n))
	work := []uint32{0}
	hasMatch := false
	target := func(pc int, t uint32) error {
		if int(t) >= n {
			return &BuildError{Message: "jump target out of range", PC: pc}
		}
		if seen.Insert(t) {
			work = append(work, t)
		}
		return nil
	}
	seen.Insert(0)
	for len(work) > 0 {
		pc := work[len(work)-1]
		work = work[:len(work)-1]
		in := &p.Insts[pc]
		var err error
		switch in.Op {
		case OpMatch:
			hasMatch = true
			continue
		case OpLookEnd:
			continue
		case OpClass:
			if int(in.Arg) >= len(p.Classes) {
				return &BuildError{Message: "class index out of range", PC: int(pc)}
			}
		case OpSave:
			if int(in.Arg) >= p.NumSlots() {
				return &BuildError{Message: "slot out of range", PC: int(pc)}
			}
		case OpResetCaptures:
			if in.Arg > in.X || int(in.X) > p.NumSlots() {
				return &BuildError{Message: "slot range out of range", PC: int(pc)}
			}
		case OpBackref:
			if int(in.Arg) >= p.NumCaptures {
				return &BuildError{Message: "backreference to unknown group", PC: int(pc)}
			}
		case OpLoopMark, OpLoopCheck:
			if int(in.Arg) >= p.NumRegisters {
				return &BuildError{Message: "register out of range", PC: int(pc)}
			}
		case OpSplit:
			if err = target(int(pc), in.Y); err != nil {
				return err
			}
			err = target(int(pc), in.X)
			if err != nil {
				return err
			}
			continue
		case OpJump:
			if err = target(int(pc), in.X); err != nil {
				return err
			}
			continue
		case OpLook:
			if err = target(int(pc), in.X); err != nil {
				return err
			}
		}
		if err = target(int(pc), pc+1); err != nil {
			return err
		}
	}
	if !hasMatch {
		return &BuildError{Message: "no reachable match instruction", PC: -1}
	}
	return nil
}
