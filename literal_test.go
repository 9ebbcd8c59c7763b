package ecmaregex

import (
	"errors"
	"testing"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		literal string
		pattern string
		flags   string
	}{
		{`/hello/g`, "hello", "g"},
		{`/hello/`, "hello", ""},
		{`/a\/b/i`, `a\/b`, "i"},
		{`/[/]/`, "[/]", ""},
		{`/[\]/]+/u`, `[\]/]+`, "u"},
		{`/a\\/m`, `a\\`, "m"},
		{`//`, "", ""},
		{`/x/yusmig`, "x", "gimsuy"},
		{`/x/gg`, "x", "g"},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			re, err := ParseLiteral(tt.literal)
			if err != nil {
				t.Fatalf("ParseLiteral(%q): %v", tt.literal, err)
			}
			if re.String() != tt.pattern {
				t.Errorf("String() = %q, want %q", re.String(), tt.pattern)
			}
			if re.Flags().String() != tt.flags {
				t.Errorf("Flags() = %q, want %q", re.Flags(), tt.flags)
			}
		})
	}
}

func TestParseLiteral_Equivalence(t *testing.T) {
	re := MustParseLiteral(`/\w+/g`)
	want := MustCompile(`\w+`, FlagGlobal)
	if !re.Equal(want) {
		t.Error(`ParseLiteral("/\w+/g") differs from Compile("\w+", g)`)
	}
	if re.Fingerprint() != want.Fingerprint() {
		t.Error("fingerprints differ")
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	tests := []struct {
		literal string
		want    error
	}{
		{"hello/g", ErrMissingLeadingSlash},
		{"", ErrMissingLeadingSlash},
		{"/hello", ErrMissingTrailingSlash},
		{"/", ErrMissingTrailingSlash},
		{`/a\/`, ErrMissingTrailingSlash},
		{`/[/`, ErrMissingTrailingSlash},
		{"/a/c", ErrInvalidFlag},
		{"/a/gx", ErrInvalidFlag},
	}
	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			_, err := ParseLiteral(tt.literal)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseLiteral(%q) = %v, want %v", tt.literal, err, tt.want)
			}
			var le *LiteralError
			if !errors.As(err, &le) || le.Literal != tt.literal {
				t.Errorf("error %v is not a *LiteralError for %q", err, tt.literal)
			}
		})
	}

	_, err := ParseLiteral("/a/c")
	var fe *FlagError
	if !errors.As(err, &fe) || fe.Flag != 'c' {
		t.Errorf("ParseLiteral(/a/c) = %v, want *FlagError for 'c'", err)
	}
	if want := "regexp: invalid literal `/a/c`: invalid flag: \"c\""; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	_, err = ParseLiteral("/(a/")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("ParseLiteral(/(a/) = %v, want *SyntaxError", err)
	}
}

func TestMustParseLiteral_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParseLiteral did not panic")
		}
	}()
	MustParseLiteral("nope")
}

func TestRegex_Literal(t *testing.T) {
	tests := []struct {
		pattern string
		flags   Flags
		want    string
	}{
		{"abc", FlagGlobal | FlagIgnoreCase, "/abc/gi"},
		{"a/b", 0, `/a\/b/`},
		{`a\/b`, 0, `/a\/b/`},
		{"[/]", 0, "/[/]/"},
		{"", FlagSticky, "/(?:)/y"},
	}
	for _, tt := range tests {
		re := MustCompile(tt.pattern, tt.flags)
		got := re.Literal()
		if got != tt.want {
			t.Errorf("Literal() of %q = %q, want %q", tt.pattern, got, tt.want)
		}
		back, err := ParseLiteral(got)
		if err != nil {
			t.Errorf("ParseLiteral(%q): %v", got, err)
			continue
		}
		if back.Flags() != re.Flags() {
			t.Errorf("round trip of %q changed flags", got)
		}
	}
}
