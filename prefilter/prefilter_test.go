package prefilter

import (
	"strings"
	"testing"

	"github.com/coregx/ecmaregex/literal"
	"github.com/coregx/ecmaregex/syntax"
)

func seqOf(complete bool, lits ...string) *literal.Seq {
	out := make([]literal.Literal, len(lits))
	for i, s := range lits {
		out[i] = literal.NewLiteral(s, complete)
	}
	return literal.NewSeq(out...)
}

func buildForPattern(t *testing.T, pattern string) Prefilter {
	t.Helper()
	re, err := syntax.Parse(pattern, 0, 0)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(re)
	return NewBuilder(prefixes).Build()
}

func TestSelectPrefilter(t *testing.T) {
	tests := []struct {
		name string
		seq  *literal.Seq
		want string
	}{
		{"nil", nil, "<nil>"},
		{"empty", literal.NewSeq(), "<nil>"},
		{"empty literal", seqOf(false, "", "a"), "<nil>"},
		{"single byte", seqOf(true, "a"), "*prefilter.memchrPrefilter"},
		{"single substring", seqOf(true, "hello"), "*prefilter.memmemPrefilter"},
		{"byte set", seqOf(false, "+", "-", "0"), "*prefilter.byteSetPrefilter"},
		{"multiple literals", seqOf(true, "foo", "bar"), "*prefilter.ahoCorasickPrefilter"},
		{"mixed lengths", seqOf(true, "a", "bc"), "*prefilter.ahoCorasickPrefilter"},
		{"common prefix", seqOf(true, "hello", "help!"), "*prefilter.memmemPrefilter"},
		{"short common prefix", seqOf(true, "abx", "aby"), "*prefilter.ahoCorasickPrefilter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := selectPrefilter(tt.seq)
			got := "<nil>"
			if pf != nil {
				got = typeName(pf)
			}
			if got != tt.want {
				t.Errorf("selectPrefilter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(pf Prefilter) string {
	switch pf.(type) {
	case *memchrPrefilter:
		return "*prefilter.memchrPrefilter"
	case *memmemPrefilter:
		return "*prefilter.memmemPrefilter"
	case *byteSetPrefilter:
		return "*prefilter.byteSetPrefilter"
	case *ahoCorasickPrefilter:
		return "*prefilter.ahoCorasickPrefilter"
	}
	return "unknown"
}

func TestPrefilter_Find(t *testing.T) {
	tests := []struct {
		name     string
		seq      *literal.Seq
		haystack string
		start    int
		want     int
	}{
		{"memchr found", seqOf(true, "x"), "abcxdef", 0, 3},
		{"memchr from start", seqOf(true, "x"), "xabcx", 1, 4},
		{"memchr missing", seqOf(true, "x"), "abcdef", 0, -1},
		{"memchr start at end", seqOf(true, "x"), "abcx", 4, -1},
		{"memchr negative start", seqOf(true, "x"), "x", -1, -1},
		{"memmem found", seqOf(true, "hello"), "say hello world", 0, 4},
		{"memmem from start", seqOf(true, "lo"), "lo hello", 1, 6},
		{"memmem missing", seqOf(true, "hello"), "help", 0, -1},
		{"memmem non-ascii", seqOf(true, "é!"), "café!", 0, 3},
		{"byte set found", seqOf(false, "1", "2"), "abc2x1", 0, 3},
		{"byte set from start", seqOf(false, "1", "2"), "abc2x1", 4, 5},
		{"byte set missing", seqOf(false, "1", "2"), "abc", 0, -1},
		{"aho-corasick leftmost", seqOf(true, "world", "hello"), "foo hello bar world", 0, 4},
		{"aho-corasick from start", seqOf(true, "world", "hello"), "foo hello bar world", 5, 14},
		{"aho-corasick missing", seqOf(true, "foo", "bar"), "baz qux", 0, -1},
		{"aho-corasick start at end", seqOf(true, "foo", "bar"), "foo", 3, -1},
		// "bc" ends first; "abcd" may start up to four bytes before its end.
		{"aho-corasick overlapping", seqOf(false, "abcd", "bc"), "zzabcdef", 0, 1},
		{"aho-corasick overlapping clamped", seqOf(false, "abcd", "bc"), "abcd", 1, 1},
		{"common prefix", seqOf(true, "hello", "help!"), "a help! hello", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := selectPrefilter(tt.seq)
			if pf == nil {
				t.Fatal("selectPrefilter() = nil")
			}
			if got := pf.Find(tt.haystack, tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

func TestPrefilter_Complete(t *testing.T) {
	tests := []struct {
		name         string
		seq          *literal.Seq
		wantComplete bool
		wantLen      int
	}{
		{"memchr complete", seqOf(true, "a"), true, 1},
		{"memchr prefix", seqOf(false, "a"), false, 0},
		{"memmem complete", seqOf(true, "abc"), true, 3},
		{"memmem prefix", seqOf(false, "abc"), false, 0},
		{"byte set", seqOf(true, "a", "b"), false, 0},
		{"aho-corasick same length", seqOf(true, "foo", "bar"), true, 3},
		{"aho-corasick mixed length", seqOf(true, "foo", "ba"), false, 0},
		{"aho-corasick prefix", seqOf(false, "foo", "bar"), false, 0},
		{"common prefix", seqOf(true, "hello", "help!"), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := selectPrefilter(tt.seq)
			if got := pf.IsComplete(); got != tt.wantComplete {
				t.Errorf("IsComplete() = %v, want %v", got, tt.wantComplete)
			}
			if got := pf.LiteralLen(); got != tt.wantLen {
				t.Errorf("LiteralLen() = %d, want %d", got, tt.wantLen)
			}
		})
	}
}

func TestPrefilter_HeapBytes(t *testing.T) {
	if got := selectPrefilter(seqOf(true, "a")).HeapBytes(); got != 0 {
		t.Errorf("memchr HeapBytes() = %d, want 0", got)
	}
	if got := selectPrefilter(seqOf(true, "hello")).HeapBytes(); got != 5 {
		t.Errorf("memmem HeapBytes() = %d, want 5", got)
	}
	if got := selectPrefilter(seqOf(false, "a", "b")).HeapBytes(); got != 256 {
		t.Errorf("byte set HeapBytes() = %d, want 256", got)
	}
	if got := selectPrefilter(seqOf(true, "foo", "quux")).HeapBytes(); got != 7 {
		t.Errorf("aho-corasick HeapBytes() = %d, want 7", got)
	}
}

// Every position where a pattern can match must be reported as a candidate.
func TestPrefilter_FromPattern(t *testing.T) {
	tests := []struct {
		pattern  string
		haystack string
		want     []int
	}{
		{"hello", "hello, hello", []int{0, 7}},
		{"foo|bar", "xbarfoo", []int{1, 4}},
		{"(?:foo|bar)\\d", "foo1 bar2", []int{0, 5}},
		{"x\\d", "ax1 x9", []int{1, 4}},
		{"[+-]", "1+2-3", []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			pf := buildForPattern(t, tt.pattern)
			if pf == nil {
				t.Fatal("Build() = nil")
			}
			var got []int
			for at := 0; ; {
				pos := pf.Find(tt.haystack, at)
				if pos < 0 {
					break
				}
				got = append(got, pos)
				at = pos + 1
			}
			if len(got) != len(tt.want) {
				t.Fatalf("candidates = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("candidates = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestPrefilter_NoLiterals(t *testing.T) {
	for _, pattern := range []string{"\\w+", ".", "a*", "(?:)", "\\uFFFD", "[a\\uFFFD]"} {
		if pf := buildForPattern(t, pattern); pf != nil {
			t.Errorf("Build() for %q = %T, want nil", pattern, pf)
		}
	}
}

func BenchmarkPrefilter_Memmem(b *testing.B) {
	pf := selectPrefilter(seqOf(true, "needle"))
	haystack := strings.Repeat("hay ", 4096) + "needle"
	b.SetBytes(int64(len(haystack)))
	for b.Loop() {
		_ = pf.Find(haystack, 0)
	}
}

func BenchmarkPrefilter_AhoCorasick(b *testing.B) {
	pf := selectPrefilter(seqOf(true, "needle", "pin", "thread"))
	haystack := strings.Repeat("hay ", 4096) + "thread"
	b.SetBytes(int64(len(haystack)))
	for b.Loop() {
		_ = pf.Find(haystack, 0)
	}
}
