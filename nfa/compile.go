package nfa

import (
	"errors"

	"github.com/coregx/ecmaregex/syntax"
)

// CompilerConfig configures program compilation.
type CompilerConfig struct {
	// MaxProgramSize limits the number of instructions. Counted repetition
	// is expanded, so a{1000}{1000} is a million instructions.
	// A non-positive value disables the limit.
	MaxProgramSize int

	// MaxRecursionDepth limits group nesting during parsing.
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns the default compiler configuration.
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxProgramSize:    1_000_000,
		MaxRecursionDepth: syntax.DefaultMaxDepth,
	}
}

// Compiler translates a syntax tree into a Program.
type Compiler struct {
	config CompilerConfig
	b      *Builder
	re     *syntax.Regexp

	fold      bool
	unicode   bool
	dotAll    bool
	multiline bool
}

// NewCompiler creates a compiler with the given configuration.
func NewCompiler(config CompilerConfig) *Compiler {
	return &Compiler{config: config}
}

// Compile parses pattern under flags and compiles it with the default
// configuration.
func Compile(pattern string, flags syntax.Flags) (*Program, error) {
	return NewCompiler(DefaultCompilerConfig()).Compile(pattern, flags)
}

// Compile parses pattern under flags and compiles it.
// Errors are of type *syntax.Error.
func (c *Compiler) Compile(pattern string, flags syntax.Flags) (*Program, error) {
	re, err := syntax.Parse(pattern, flags, c.config.MaxRecursionDepth)
	if err != nil {
		return nil, err
	}
	return c.CompileRegexp(re)
}

// CompileRegexp compiles an already parsed pattern.
//
// Layout: save 0, body, save 1, match.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*Program, error) {
	c.re = re
	c.b = NewBuilderWithLimit(c.config.MaxProgramSize)
	c.fold = re.Flags.Has(syntax.FlagIgnoreCase)
	c.unicode = re.Flags.Has(syntax.FlagUnicode)
	c.dotAll = re.Flags.Has(syntax.FlagDotAll)
	c.multiline = re.Flags.Has(syntax.FlagMultiline)

	c.b.AddSave(0)
	c.compile(re.Root, false)
	c.b.AddSave(1)
	c.b.AddMatch()

	prog, err := c.b.Build(re.Groups+1, re.Names, re.Flags, c.anchored(re.Root))
	if err != nil {
		if errors.Is(err, ErrProgramTooLarge) {
			return nil, &syntax.Error{Pattern: re.Pattern, Pos: 0, Msg: syntax.ErrMsgTooLarge}
		}
		return nil, err
	}
	return prog, nil
}

// anchored reports whether every match must start at offset 0.
func (c *Compiler) anchored(n *syntax.Node) bool {
	if c.multiline {
		return false
	}
	for {
		switch n.Op {
		case syntax.OpAssert:
			return n.Assert == syntax.AssertStart
		case syntax.OpConcat, syntax.OpCapture:
			n = n.Sub[0]
		default:
			return false
		}
	}
}

// compile emits code for n that falls through to the next instruction on
// success. In back mode, consumers read right to left and sequences are
// emitted in reverse, which is how lookbehind bodies run.
func (c *Compiler) compile(n *syntax.Node, back bool) {
	if c.b.Err() != nil {
		return
	}
	switch n.Op {
	case syntax.OpEmpty:
	case syntax.OpChar:
		r := n.Rune
		if c.fold {
			r = syntax.Canonicalize(r, c.unicode)
		}
		c.b.AddChar(r, back)
	case syntax.OpAnyChar:
		c.b.AddAny(c.dotAll, back)
	case syntax.OpClass:
		c.b.AddClass(n.Class, back)
	case syntax.OpAssert:
		c.b.AddAssert(c.assertion(n.Assert))
	case syntax.OpCapture:
		open, closing := 2*n.Index, 2*n.Index+1
		if back {
			open, closing = closing, open
		}
		c.b.AddSave(open)
		c.compile(n.Sub[0], back)
		c.b.AddSave(closing)
	case syntax.OpConcat:
		if back {
			for i := len(n.Sub) - 1; i >= 0; i-- {
				c.compile(n.Sub[i], back)
			}
		} else {
			for _, s := range n.Sub {
				c.compile(s, back)
			}
		}
	case syntax.OpAlternate:
		c.alternate(n.Sub, back)
	case syntax.OpRepeat:
		c.repeat(n, back)
	case syntax.OpBackref:
		c.b.AddBackref(n.Index, back)
	case syntax.OpLook:
		look := c.b.AddLook(n.Behind, n.Negate)
		c.compile(n.Sub[0], n.Behind)
		c.b.AddLookEnd()
		c.b.Patch(look, c.b.Len())
	}
}

// emitsNothing reports whether compile(n) adds no instructions, as for
// (?:) or a{0}. Repeating such a node is a no-op at any count.
func emitsNothing(n *syntax.Node) bool {
	switch n.Op {
	case syntax.OpEmpty:
		return true
	case syntax.OpConcat:
		for _, sub := range n.Sub {
			if !emitsNothing(sub) {
				return false
			}
		}
		return true
	case syntax.OpAlternate:
		return len(n.Sub) == 1 && emitsNothing(n.Sub[0])
	case syntax.OpRepeat:
		return n.Max == 0 || emitsNothing(n.Sub[0])
	}
	return false
}

func (c *Compiler) assertion(k syntax.AssertKind) Assertion {
	switch k {
	case syntax.AssertStart:
		if c.multiline {
			return AssertBeginLine
		}
		return AssertBeginText
	case syntax.AssertEnd:
		if c.multiline {
			return AssertEndLine
		}
		return AssertEndText
	case syntax.AssertWordBoundary:
		return AssertWordBoundary
	default:
		return AssertNotWordBoundary
	}
}

//	     split L1, L2
//	L1:  alt[0]
//	     jump END
//	L2:  split L3, L4
//	...
//	Ln:  alt[n-1]
//	END:
func (c *Compiler) alternate(alts []*syntax.Node, back bool) {
	var jumps []uint32
	for i, alt := range alts {
		if i == len(alts)-1 {
			c.compile(alt, back)
			break
		}
		split := c.b.AddSplit(0, 0)
		c.compile(alt, back)
		jumps = append(jumps, c.b.AddJump(0))
		c.b.PatchSplit(split, split+1, c.b.Len())
	}
	end := c.b.Len()
	for _, j := range jumps {
		c.b.Patch(j, end)
	}
}

// repeat expands n.Min mandatory copies of the body followed by either a
// loop (unbounded) or n.Max-n.Min optional copies.
//
// Captures inside the body are reset at the start of every iteration.
// Optional iterations of a body that can match empty are guarded by a
// loop register so an iteration consuming nothing fails.
func (c *Compiler) repeat(n *syntax.Node, back bool) {
	sub := n.Sub[0]
	if emitsNothing(sub) {
		return
	}
	lo, hi := sub.MinMaxCapture()
	iteration := func(guard int) {
		if guard >= 0 {
			c.b.AddLoopMark(guard)
		}
		if hi > 0 {
			c.b.AddResetCaptures(2*lo, 2*hi+2)
		}
		c.compile(sub, back)
		if guard >= 0 {
			c.b.AddLoopCheck(guard)
		}
	}

	for i := 0; i < n.Min && c.b.Err() == nil; i++ {
		iteration(-1)
	}
	if n.Max == n.Min {
		return
	}

	guard := -1
	if sub.Nullable() {
		guard = c.b.NewRegister()
	}
	choice := func(split uint32) {
		if n.Greedy {
			c.b.PatchSplit(split, split+1, c.b.Len())
		} else {
			c.b.PatchSplit(split, c.b.Len(), split+1)
		}
	}

	if n.Max < 0 {
		split := c.b.AddSplit(0, 0)
		iteration(guard)
		c.b.AddJump(split)
		choice(split)
		return
	}

	var splits []uint32
	for i := n.Min; i < n.Max && c.b.Err() == nil; i++ {
		splits = append(splits, c.b.AddSplit(0, 0))
		iteration(guard)
	}
	for _, s := range splits {
		choice(s)
	}
}
