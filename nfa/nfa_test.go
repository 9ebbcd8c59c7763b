package nfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/coregx/ecmaregex/syntax"
)

func TestCompile_Layout(t *testing.T) {
	prog := compileProgramForTest(t, "a|b", 0)
	want := strings.Join([]string{
		"  0: save 0",
		"  1: split 2, 4",
		"  2: char 'a'",
		"  3: jump 5",
		"  4: char 'b'",
		"  5: save 1",
		"  6: match",
	}, "\n") + "\n"
	if got := prog.String(); got != want {
		t.Errorf("program:\n%s\nwant:\n%s", got, want)
	}
	if prog.NumCaptures != 1 || prog.NumSlots() != 2 {
		t.Errorf("NumCaptures = %d, NumSlots = %d; want 1, 2", prog.NumCaptures, prog.NumSlots())
	}
}

func TestCompile_Lookbehind(t *testing.T) {
	prog := compileProgramForTest(t, "(?<=(a)b)", 0)
	want := strings.Join([]string{
		"  0: save 0",
		"  1: look behind -> 7",
		"  2: char 'b' <-",
		"  3: save 3",
		"  4: char 'a' <-",
		"  5: save 2",
		"  6: lookend",
		"  7: save 1",
		"  8: match",
	}, "\n") + "\n"
	if got := prog.String(); got != want {
		t.Errorf("program:\n%s\nwant:\n%s", got, want)
	}
}

func TestCompile_RepeatGuards(t *testing.T) {
	tests := []struct {
		pattern   string
		registers int
	}{
		{"a*", 0},
		{"(?:a*)*", 1},
		{"(?:a|)+", 1},
		{"(?:\\b)*", 1},
		{"(a*){2,4}", 1},
		{"(?:a*)*(?:b?)*", 2},
	}
	for _, tt := range tests {
		prog := compileProgramForTest(t, tt.pattern, 0)
		if prog.NumRegisters != tt.registers {
			t.Errorf("%s: NumRegisters = %d, want %d", tt.pattern, prog.NumRegisters, tt.registers)
		}
	}
}

func TestCompile_Anchored(t *testing.T) {
	tests := []struct {
		pattern string
		flags   syntax.Flags
		want    bool
	}{
		{"^a", 0, true},
		{"(^a)b", 0, true},
		{"^a", syntax.FlagMultiline, false},
		{"a^", 0, false},
		{"^a|b", 0, false},
		{"a", 0, false},
	}
	for _, tt := range tests {
		prog := compileProgramForTest(t, tt.pattern, tt.flags)
		if prog.Anchored != tt.want {
			t.Errorf("%s/%s: Anchored = %v, want %v", tt.pattern, tt.flags, prog.Anchored, tt.want)
		}
	}
}

func TestCompile_FoldCanonicalizesChars(t *testing.T) {
	prog := compileProgramForTest(t, "k", syntax.FlagIgnoreCase)
	if in := prog.Insts[1]; in.Op != OpChar || in.Rune != 'K' {
		t.Errorf("inst 1 = %+v, want char 'K'", in)
	}
}

func TestCompile_TooLarge(t *testing.T) {
	_, err := Compile("a{1000}{1000}", 0)
	var perr *syntax.Error
	if !errors.As(err, &perr) || perr.Msg != syntax.ErrMsgTooLarge {
		t.Fatalf("err = %v, want %q", err, syntax.ErrMsgTooLarge)
	}

	small := NewCompiler(CompilerConfig{MaxProgramSize: 8})
	if _, err := small.Compile("abcde", 0); err != nil {
		t.Errorf("8 instructions within limit 8: %v", err)
	}
	if _, err := small.Compile("abcdef", 0); err == nil {
		t.Error("9 instructions within limit 8 compiled")
	}

	unlimited := NewCompiler(CompilerConfig{})
	if _, err := unlimited.Compile("a{10000}", 0); err != nil {
		t.Errorf("unlimited compiler: %v", err)
	}
}

func TestCompile_EmptyRepeat(t *testing.T) {
	empty := compileProgramForTest(t, "", 0)
	for _, pattern := range []string{
		"(?:){2147483647}",
		"(?:a{0}){2147483647}",
		"(?:(?:)(?:)){1000000,}",
		"(?:){0,2147483646}",
		"(?:b{0})*",
	} {
		prog := compileProgramForTest(t, pattern, 0)
		if prog.String() != empty.String() {
			t.Errorf("%s compiled to\n%s\nwant\n%s", pattern, prog, empty)
		}
	}

	prog := compileProgramForTest(t, "x(?:){5}y", 0)
	if got := len(prog.Insts); got != 5 {
		t.Errorf("x(?:){5}y: %d instructions, want 5", got)
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile("(", 0)
	var perr *syntax.Error
	if !errors.As(err, &perr) || perr.Msg != syntax.ErrMsgUnterminatedGroup {
		t.Errorf("err = %v, want unterminated group", err)
	}
}

func TestProgram_Equal(t *testing.T) {
	tests := []struct {
		a, b   string
		fa, fb syntax.Flags
		equal  bool
	}{
		{"abc", "abc", 0, 0, true},
		{"(?:a)", "a", 0, 0, true},
		{"a{2}", "aa", 0, 0, true},
		{"[a]", "a", 0, 0, false},
		{"a", "a", 0, syntax.FlagIgnoreCase, false},
		{"a", "a", 0, syntax.FlagGlobal, false},
		{"(?<x>a)", "(?<y>a)", 0, 0, false},
		{"[a-c]", "[abc]", 0, 0, true},
	}
	for _, tt := range tests {
		pa := compileProgramForTest(t, tt.a, tt.fa)
		pb := compileProgramForTest(t, tt.b, tt.fb)
		if got := pa.Equal(pb); got != tt.equal {
			t.Errorf("Equal(/%s/%s, /%s/%s) = %v, want %v", tt.a, tt.fa, tt.b, tt.fb, got, tt.equal)
		}
		if tt.equal && pa.Fingerprint() != pb.Fingerprint() {
			t.Errorf("equal programs /%s/ and /%s/ have different fingerprints", tt.a, tt.b)
		}
	}
	var nilProg *Program
	if nilProg.Equal(compileProgramForTest(t, "a", 0)) {
		t.Error("nil program equals a compiled one")
	}
}

func TestProgram_Deterministic(t *testing.T) {
	const pattern = `(?<year>\d{4})-(?<month>\d{2})|[\p{L}\W]+`
	first := compileProgramForTest(t, pattern, syntax.FlagUnicode)
	for range 10 {
		again := compileProgramForTest(t, pattern, syntax.FlagUnicode)
		if !first.Equal(again) || first.Fingerprint() != again.Fingerprint() {
			t.Fatal("recompiling the same pattern produced a different program")
		}
	}
}

func TestBuilder_Limit(t *testing.T) {
	b := NewBuilderWithLimit(2)
	b.AddSave(0)
	b.AddSave(1)
	b.AddMatch()
	if !errors.Is(b.Err(), ErrProgramTooLarge) {
		t.Fatalf("Err = %v, want ErrProgramTooLarge", b.Err())
	}
	if _, err := b.Build(1, nil, 0, false); !errors.Is(err, ErrProgramTooLarge) {
		t.Errorf("Build err = %v, want ErrProgramTooLarge", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		prog  *Program
		valid bool
	}{
		{"empty", &Program{}, false},
		{"match only", &Program{Insts: []Inst{{Op: OpMatch}}}, true},
		{"jump out of range", &Program{Insts: []Inst{{Op: OpJump, X: 5}, {Op: OpMatch}}}, false},
		{"split out of range", &Program{Insts: []Inst{{Op: OpSplit, X: 1, Y: 9}, {Op: OpMatch}}}, false},
		{"bad class", &Program{Insts: []Inst{{Op: OpClass, Arg: 0}, {Op: OpMatch}}}, false},
		{"bad slot", &Program{Insts: []Inst{{Op: OpSave, Arg: 2}, {Op: OpMatch}}, NumCaptures: 1}, false},
		{"bad register", &Program{Insts: []Inst{{Op: OpLoopMark}, {Op: OpMatch}}}, false},
		{"no match", &Program{Insts: []Inst{{Op: OpJump, X: 0}}}, false},
		{"falls off the end", &Program{Insts: []Inst{{Op: OpSave, Arg: 0}}, NumCaptures: 1}, false},
		{"unreachable garbage", &Program{Insts: []Inst{{Op: OpMatch}, {Op: OpJump, X: 99}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.prog)
			if (err == nil) != tt.valid {
				t.Errorf("Validate = %v, want valid=%v", err, tt.valid)
			}
			if err != nil {
				var berr *BuildError
				if !errors.As(err, &berr) {
					t.Errorf("error %T is not *BuildError", err)
				}
			}
		})
	}
}

func TestOpcode_String(t *testing.T) {
	if OpLoopCheck.String() != "loopcheck" {
		t.Errorf("OpLoopCheck = %q", OpLoopCheck.String())
	}
	if Opcode(200).String() != "Opcode(200)" {
		t.Errorf("Opcode(200) = %q", Opcode(200).String())
	}
}
