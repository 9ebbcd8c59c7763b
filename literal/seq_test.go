package literal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestLiteralBasic tests basic Literal type functionality
func TestLiteralBasic(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		complete bool
		wantLen  int
		wantStr  string
	}{
		{"simple complete literal", "hello", true, 5, "literal{hello, complete=true}"},
		{"incomplete literal", "test", false, 4, "literal{test, complete=false}"},
		{"empty literal", "", true, 0, "literal{, complete=true}"},
		{"multi-byte", "é", true, 2, "literal{é, complete=true}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := NewLiteral(tt.value, tt.complete)
			if got := lit.Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
			if got := lit.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestSeq_Empty(t *testing.T) {
	var nilSeq *Seq
	if !nilSeq.IsEmpty() || nilSeq.Len() != 0 || nilSeq.Strings() != nil {
		t.Error("nil Seq should behave as empty")
	}
	if !NewSeq().IsEmpty() {
		t.Error("NewSeq() should be empty")
	}
	if NewSeq().LongestCommonPrefix() != "" {
		t.Error("empty Seq has a common prefix")
	}
}

func TestSeq_Minimize(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"prefix covers longer", []string{"foobar", "foo"}, []string{"foo"}},
		{"independent", []string{"world", "hello"}, []string{"hello", "world"}},
		{"duplicates", []string{"ab", "ab", "abc"}, []string{"ab"}},
		{"shortest first", []string{"ccc", "a", "bb"}, []string{"a", "bb", "ccc"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lits := make([]Literal, len(tt.in))
			for i, s := range tt.in {
				lits[i] = NewLiteral(s, true)
			}
			seq := NewSeq(lits...)
			seq.Minimize()
			if diff := cmp.Diff(tt.want, seq.Strings()); diff != "" {
				t.Errorf("Minimize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSeq_MinimizeComplete(t *testing.T) {
	seq := NewSeq(NewLiteral("foobar", true), NewLiteral("foo", true), NewLiteral("bar", true))
	seq.Minimize()
	want := []Literal{NewLiteral("bar", true), NewLiteral("foo", false)}
	if diff := cmp.Diff(want, seq.literals); diff != "" {
		t.Errorf("Minimize mismatch (-want +got):\n%s", diff)
	}

	seq = NewSeq(NewLiteral("ab", true), NewLiteral("ab", true))
	seq.Minimize()
	if seq.Len() != 1 || !seq.Get(0).Complete {
		t.Errorf("duplicate literals: got %v, want one complete literal", seq.literals)
	}
}

func TestSeq_LongestCommonPrefix(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"hello", "help", "hero"}, "he"},
		{[]string{"abc", "def"}, ""},
		{[]string{"same"}, "same"},
		{[]string{"abc", "ab"}, "ab"},
	}
	for _, tt := range tests {
		lits := make([]Literal, len(tt.in))
		for i, s := range tt.in {
			lits[i] = NewLiteral(s, true)
		}
		if got := NewSeq(lits...).LongestCommonPrefix(); got != tt.want {
			t.Errorf("LongestCommonPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
