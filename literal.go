package ecmaregex

import (
	"errors"
	"strings"

	"github.com/coregx/ecmaregex/syntax"
)

// Literal parsing errors, matched with errors.Is.
var (
	ErrMissingLeadingSlash  = errors.New("literal must start with '/'")
	ErrMissingTrailingSlash = errors.New("literal is missing its closing '/'")
)

// LiteralError reports a malformed /pattern/flags literal.
type LiteralError struct {
	Literal string
	Err     error
}

// Error implements the error interface.
func (e *LiteralError) Error() string {
	return "regexp: invalid literal " + quoteLiteral(e.Literal) + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *LiteralError) Unwrap() error {
	return e.Err
}

func quoteLiteral(s string) string {
	const maxShown = 64
	if len(s) > maxShown {
		return "`" + s[:maxShown] + "...`"
	}
	return "`" + s + "`"
}

// ParseLiteral compiles an ECMAScript regular expression literal such as
// /ab+c/gi.
//
// The pattern ends at the first '/' that is neither escaped nor inside a
// character class, so /[/]/ and /a\/b/ both work. Everything after it is
// parsed as flags.
//
// Errors: a *LiteralError wrapping ErrMissingLeadingSlash,
// ErrMissingTrailingSlash or a *FlagError (errors.Is(err, ErrInvalidFlag)),
// or a *SyntaxError for an invalid pattern.
//
// Example:
//
//	re, err := ecmaregex.ParseLiteral(`/(\d+)px/g`)
func ParseLiteral(s string) (*Regex, error) {
	pattern, flags, err := SplitLiteral(s)
	if err != nil {
		return nil, err
	}
	return Compile(pattern, flags)
}

// MustParseLiteral is like ParseLiteral but panics if the literal is invalid.
func MustParseLiteral(s string) *Regex {
	re, err := ParseLiteral(s)
	if err != nil {
		panic("regexp: ParseLiteral(`" + s + "`): " + err.Error())
	}
	return re
}

// SplitLiteral separates a /pattern/flags literal into its pattern and
// flags without compiling the pattern. It reports the same *LiteralError
// values as ParseLiteral.
func SplitLiteral(s string) (string, Flags, error) {
	if !strings.HasPrefix(s, "/") {
		return "", 0, &LiteralError{Literal: s, Err: ErrMissingLeadingSlash}
	}
	end := closingSlash(s)
	if end < 0 {
		return "", 0, &LiteralError{Literal: s, Err: ErrMissingTrailingSlash}
	}
	flags, err := syntax.ParseFlags(s[end+1:])
	if err != nil {
		return "", 0, &LiteralError{Literal: s, Err: err}
	}
	return s[1:end], flags, nil
}

// closingSlash returns the index of the '/' ending the pattern body that
// starts at s[1], or -1.
func closingSlash(s string) int {
	inClass := false
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			// Skip the escaped byte. A multi-byte escaped rune has no '/'
			// or ']' continuation bytes.
			i++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				return i
			}
		}
	}
	return -1
}

// Literal returns the regex as an ECMAScript literal, /source/flags.
//
// Unescaped slashes outside classes are escaped and an empty pattern is
// written as (?:), so the result always parses back to an equal Regex.
//
// Example:
//
//	re := ecmaregex.MustCompile("a/b", ecmaregex.FlagGlobal)
//	println(re.Literal()) // `/a\/b/g`
func (r *Regex) Literal() string {
	return "/" + literalSource(r.pattern) + "/" + r.Flags().String()
}

func literalSource(pattern string) string {
	if pattern == "" {
		return "(?:)"
	}
	var sb strings.Builder
	sb.Grow(len(pattern) + 2)
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\':
			sb.WriteByte(c)
			if i+1 < len(pattern) {
				i++
				c = pattern[i]
			}
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				sb.WriteByte('\\')
			}
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
