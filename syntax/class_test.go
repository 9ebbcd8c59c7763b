package syntax

import (
	"testing"
	"unicode"
)

func parseClass(t *testing.T, pattern string, flags Flags) *Class {
	t.Helper()
	re, err := Parse(pattern, flags, 0)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	if re.Root.Op != OpClass {
		t.Fatalf("Parse(%q) root is %v, want Class", pattern, re.Root.Op)
	}
	return re.Root.Class
}

func TestClass_Matches(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		in      string
		out     string
	}{
		{"[abc]", 0, "abc", "dA"},
		{"[a-c]", 0, "abc", "d`"},
		{"[^a-c]", 0, "dZ\n", "abc"},
		{"[]", 0, "", "a\n"},
		{"[^]", 0, "a\n\u2028", ""},
		{"\\d", 0, "0189", "a٣"},
		{"\\D", 0, "a٣", "05"},
		{"\\s", 0, " \t\n\u00a0\u2003\ufeff\u2028", "a_"},
		{"\\w", 0, "aZ0_", "-éſ"},
		{"\\w", FlagIgnoreCase | FlagUnicode, "aZ0_ſK", "-é"},
		{"\\W", 0, "-é", "a_"},
		{"[\\d-]", 0, "5-", "a"},
		{"[\\d-z]", 0, "5-z", "y"},
		{"[\\W\\d]", 0, "-5", "a"},
		{"[^\\W]", 0, "a", "-"},
		{"[\\b]", 0, "\b", "b"},
		{"[\\-a]", FlagUnicode, "-a", "b"},
		{"[\\u{1F600}-\\u{1F64F}]", FlagUnicode, "😀🙏", "a"},
		{"[^\\u0000-\\uFFFF]", 0, "😀", "a￿"},
		{"\\p{Lu}", FlagUnicode, "AΩ", "a1"},
		{"\\P{Lu}", FlagUnicode, "a1", "AΩ"},
		{"\\p{Script=Greek}", FlagUnicode, "αΩ", "a"},
		{"\\p{sc=Grek}", FlagUnicode, "α", "a"},
		{"\\p{Letter}", FlagUnicode, "aé", "1"},
		{"\\p{Any}", FlagUnicode, "a\n😀", ""},
		{"\\p{ASCII}", FlagUnicode, "a\x7f", "é"},
		{"\\p{White_Space}", FlagUnicode, " \u3000", "a"},
		{"[\\p{L}\\P{L}]", FlagUnicode, "a1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			c := parseClass(t, tt.pattern, tt.flags)
			fold := tt.flags.Has(FlagIgnoreCase)
			u := tt.flags.Has(FlagUnicode)
			for _, r := range tt.in {
				if !c.Matches(r, fold, u) {
					t.Errorf("%s does not match %q", tt.pattern, r)
				}
			}
			for _, r := range tt.out {
				if c.Matches(r, fold, u) {
					t.Errorf("%s matches %q", tt.pattern, r)
				}
			}
		})
	}
}

func TestClass_MatchesFold(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		in      string
		out     string
	}{
		{"[a-c]", FlagIgnoreCase, "abcABC", "dD"},
		{"[^a]", FlagIgnoreCase, "b", "aA"},
		{"[k]", FlagIgnoreCase, "kK", "K"},
		{"[k]", FlagIgnoreCase | FlagUnicode, "kKK", "j"},
		{"[s]", FlagIgnoreCase, "sS", "ſ"},
		{"[s]", FlagIgnoreCase | FlagUnicode, "sSſ", ""},
		{"[σ]", FlagIgnoreCase, "σΣς", ""},
		{"\\W", FlagIgnoreCase | FlagUnicode, "-", "sSſkK"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.flags.String(), func(t *testing.T) {
			c := parseClass(t, tt.pattern, tt.flags)
			u := tt.flags.Has(FlagUnicode)
			for _, r := range tt.in {
				if !c.Matches(r, true, u) {
					t.Errorf("%s does not match %q", tt.pattern, r)
				}
			}
			for _, r := range tt.out {
				if c.Matches(r, true, u) {
					t.Errorf("%s matches %q", tt.pattern, r)
				}
			}
		})
	}
}

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		r       rune
		unicode bool
		want    rune
	}{
		{'a', false, 'A'},
		{'A', false, 'A'},
		{'1', false, '1'},
		{'a', true, 'A'},
		{'é', false, 'É'},
		{'ſ', false, 'ſ'}, // would map into ASCII
		{'K', false, 'K'},
		{'ſ', true, 'S'},
		{'K', true, 'K'},
		{'ς', false, 'Σ'},
		{'ς', true, 'Σ'},
		{'ß', false, 'ß'},
	}
	for _, tt := range tests {
		if got := Canonicalize(tt.r, tt.unicode); got != tt.want {
			t.Errorf("Canonicalize(%q, %v) = %q, want %q", tt.r, tt.unicode, got, tt.want)
		}
	}
}

func TestSpanTable(t *testing.T) {
	tests := []struct {
		lo, hi rune
		in     []rune
		out    []rune
	}{
		{'a', 'c', []rune{'a', 'b', 'c'}, []rune{'`', 'd'}},
		{0xFFF0, 0x10010, []rune{0xFFF0, 0xFFFF, 0x10000, 0x10010}, []rune{0xFFEF, 0x10011}},
		{0x10000, 0x10FFFF, []rune{0x10000, 0x10FFFF}, []rune{0xFFFF}},
	}
	for _, tt := range tests {
		rt := spanTable(tt.lo, tt.hi)
		for _, r := range tt.in {
			if !unicode.Is(rt, r) {
				t.Errorf("spanTable(%#x, %#x) missing %#x", tt.lo, tt.hi, r)
			}
		}
		for _, r := range tt.out {
			if unicode.Is(rt, r) {
				t.Errorf("spanTable(%#x, %#x) contains %#x", tt.lo, tt.hi, r)
			}
		}
	}
}

func TestIsWordChar(t *testing.T) {
	for _, r := range "azAZ09_" {
		if !IsWordChar(r, false) {
			t.Errorf("IsWordChar(%q) = false", r)
		}
	}
	for _, r := range "-é ſ" {
		if IsWordChar(r, false) {
			t.Errorf("IsWordChar(%q) = true", r)
		}
	}
	if !IsWordChar('K', true) || IsWordChar('K', false) {
		t.Error("KELVIN SIGN is a word character only with unicode folding")
	}
}

func TestLookupProperty(t *testing.T) {
	valid := []string{
		"L", "Lu", "Letter", "Uppercase_Letter", "gc=Lu", "General_Category=Letter", "LC",
		"Script=Latin", "sc=Latn", "scx=Cyrl", "Script_Extensions=Han",
		"White_Space", "Alphabetic", "Alpha", "ASCII", "Any", "Hex_Digit",
	}
	for _, name := range valid {
		if _, ok := lookupProperty(name); !ok {
			t.Errorf("lookupProperty(%q) not found", name)
		}
	}
	invalid := []string{"", "Foo", "Script=Foo", "gc=Latin", "Other_Alphabetic", "x=L"}
	for _, name := range invalid {
		if _, ok := lookupProperty(name); ok {
			t.Errorf("lookupProperty(%q) found", name)
		}
	}
}
