// Package ecmaregex provides a regular expression engine with ECMAScript
// (ECMA-262) semantics for Go.
//
// Patterns use JavaScript syntax and behave as they do in a browser:
// leftmost-first alternation, backreferences, lookahead and lookbehind,
// named groups, the i/m/s/u/y flags and the Annex B legacy forms accepted
// when u is absent.
//
// Every search runs under a step budget, so catastrophic backtracking
// ends with ErrExecutionLimitExceeded instead of hanging.
//
// Basic usage:
//
//	// Compile a pattern
//	re, err := ecmaregex.Compile(`(\d+)-(\d+)`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find first match
//	m, err := re.Find("call 555-1234 now")
//	if err == nil && m != nil {
//	    fmt.Println(m.String()) // "555-1234"
//	}
//
// Literals:
//
//	re := ecmaregex.MustParseLiteral(`/hello/gi`)
//	for m, err := range re.FindIter("Hello hello").All() {
//	    ...
//	}
//
// Advanced usage:
//
//	// Custom configuration
//	config := ecmaregex.DefaultConfig()
//	config.StepLimit = 100_000
//	re, err := ecmaregex.CompileWithConfig("(a+)+b", 0, config)
package ecmaregex

import (
	"strings"

	"github.com/coregx/ecmaregex/meta"
	"github.com/coregx/ecmaregex/nfa"
	"github.com/coregx/ecmaregex/syntax"
)

// Flags is a set of ECMAScript regular expression flags.
type Flags = syntax.Flags

// Flag constants, one per flag letter.
const (
	FlagGlobal     = syntax.FlagGlobal
	FlagIgnoreCase = syntax.FlagIgnoreCase
	FlagMultiline  = syntax.FlagMultiline
	FlagDotAll     = syntax.FlagDotAll
	FlagUnicode    = syntax.FlagUnicode
	FlagSticky     = syntax.FlagSticky
)

// Match is a successful search result with its capture groups.
type Match = meta.Match

// Config controls compilation limits and the default search budget.
type Config = meta.Config

// Budget bounds the work of a single search.
type Budget = nfa.Budget

// Stats counts the searches run by one Regex.
type Stats = meta.Stats

// Error types returned by this package.
type (
	// SyntaxError reports an invalid pattern.
	SyntaxError = syntax.Error

	// FlagError reports an unknown flag letter.
	FlagError = syntax.FlagError

	// ExecError reports a failed search.
	ExecError = nfa.ExecError

	// ConfigError reports an invalid Config.
	ConfigError = meta.ConfigError
)

// Errors matched with errors.Is.
var (
	ErrIndexOutOfRange        = nfa.ErrIndexOutOfRange
	ErrTextTooLong            = nfa.ErrTextTooLong
	ErrExecutionLimitExceeded = nfa.ErrExecutionLimitExceeded
	ErrInvalidFlag            = syntax.ErrInvalidFlag
)

// ParseFlags parses flag letters such as "gi".
func ParseFlags(s string) (Flags, error) {
	return syntax.ParseFlags(s)
}

// Regex represents a compiled regular expression.
//
// A Regex is immutable and safe to use concurrently from multiple
// goroutines. Iteration state lives in Matches, not here.
//
// Example:
//
//	re := ecmaregex.MustCompile(`hello`, 0)
//	if ok, _ := re.IsMatch("hello world"); ok {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a regular expression pattern under flags.
//
// Syntax is ECMAScript's. Returns a *SyntaxError if the pattern is invalid.
//
// Example:
//
//	re, err := ecmaregex.Compile(`\d{3}-\d{4}`, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string, flags Flags) (*Regex, error) {
	return CompileWithConfig(pattern, flags, meta.DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// This is useful for patterns known to be valid at compile time.
//
// Example:
//
//	var wordRegex = ecmaregex.MustCompile(`\p{L}+`, ecmaregex.FlagUnicode)
func MustCompile(pattern string, flags Flags) *Regex {
	re, err := Compile(pattern, flags)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := ecmaregex.DefaultConfig()
//	config.Timeout = 50 * time.Millisecond
//	re, err := ecmaregex.CompileWithConfig("(a|b|c)*d", 0, config)
func CompileWithConfig(pattern string, flags Flags, config Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, flags, config)
	if err != nil {
		return nil, err
	}

	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default configuration for compilation.
//
// Users can customize this and pass to CompileWithConfig.
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// QuoteMeta returns a string that escapes all regular expression
// syntax characters inside the argument text; the returned string is a
// pattern matching the literal text, with or without the u flag.
//
// Example:
//
//	escaped := ecmaregex.QuoteMeta("1+1=2?")
//	// escaped = `1\+1=2\?`
func QuoteMeta(s string) string {
	// SyntaxCharacter plus '/', the only identity escapes valid under u.
	const special = `^$\.*+?()[]{}|/`

	n := 0
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			n++
		}
	}

	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+n)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(special, s[i]) >= 0 {
			buf = append(buf, '\\')
		}
		buf = append(buf, s[i])
	}
	return string(buf)
}

// IsMatch reports whether text contains a match of the pattern.
//
// It agrees with Find: it returns true exactly when Find returns a match,
// and the same error when Find fails.
//
// Example:
//
//	re := ecmaregex.MustCompile(`\d+`, 0)
//	ok, err := re.IsMatch("hello 123") // true, nil
func (r *Regex) IsMatch(text string) (bool, error) {
	return r.engine.IsMatchAt(text, 0)
}

// IsMatchAt is like IsMatch but starts the search at byte offset start.
//
// Context before start is still visible to ^, \b and lookbehind.
func (r *Regex) IsMatchAt(text string, start int) (bool, error) {
	return r.engine.IsMatchAt(text, start)
}

// Find returns the leftmost-first match in text, or nil if there is none.
//
// Example:
//
//	re := ecmaregex.MustCompile(`\b\w{13}\b`, 0)
//	m, _ := re.Find("I categorically deny having triskaidekaphobia.")
//	// m.Start() == 2, m.End() == 15
func (r *Regex) Find(text string) (*Match, error) {
	return r.engine.FindAt(text, 0)
}

// FindAt returns the first match that starts at or after byte offset
// start, or nil if there is none. With the sticky flag the match must
// start exactly at start.
//
// A start outside [0, len(text)] fails with ErrIndexOutOfRange. A search
// that exhausts its budget fails with ErrExecutionLimitExceeded.
func (r *Regex) FindAt(text string, start int) (*Match, error) {
	return r.engine.FindAt(text, start)
}

// FindAtWithBudget is like FindAt but searches under budget instead of
// the configured step limit and timeout.
//
// Example:
//
//	deadline := time.Now().Add(10 * time.Millisecond)
//	m, err := re.FindAtWithBudget(text, 0, ecmaregex.Budget{Deadline: deadline})
//	if errors.Is(err, ecmaregex.ErrExecutionLimitExceeded) {
//	    // gave up
//	}
func (r *Regex) FindAtWithBudget(text string, start int, budget Budget) (*Match, error) {
	return r.engine.FindAtWithBudget(text, start, budget)
}

// FindAll returns successive non-overlapping matches, at most n of them
// when n >= 0, all of them when n < 0.
//
// The matches found before an error are returned along with it.
func (r *Regex) FindAll(text string, n int) ([]*Match, error) {
	if n == 0 {
		return nil, nil
	}
	var out []*Match
	it := r.FindIter(text)
	for it.Next() {
		out = append(out, it.Match())
		if n > 0 && len(out) == n {
			break
		}
	}
	return out, it.Err()
}

// String returns the source text used to compile the regular expression.
//
// Example:
//
//	re := ecmaregex.MustCompile(`\d+`, 0)
//	println(re.String()) // `\d+`
func (r *Regex) String() string {
	return r.pattern
}

// Flags returns the flags the regex was compiled with.
func (r *Regex) Flags() Flags {
	return r.engine.Flags()
}

// NumSubexp returns the number of capture groups, not counting the whole
// match.
//
// Example:
//
//	re := ecmaregex.MustCompile(`(\w+)@(\w+)\.(\w+)`, 0)
//	println(re.NumSubexp()) // 3
func (r *Regex) NumSubexp() int {
	return r.engine.NumCaptures() - 1
}

// SubexpNames returns the names of the capture groups in this Regex.
// names[0] is always "", as are the names of unnamed groups.
//
// Example:
//
//	re := ecmaregex.MustCompile(`(?<year>\d+)-(?<month>\d+)`, 0)
//	names := re.SubexpNames()
//	// names[0] = ""
//	// names[1] = "year"
//	// names[2] = "month"
func (r *Regex) SubexpNames() []string {
	return r.engine.SubexpNames()
}

// Equal reports whether r and other compile to the same program. Regexes
// with the same pattern and flags are always equal.
func (r *Regex) Equal(other *Regex) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.engine.Program().Equal(other.engine.Program())
}

// Fingerprint returns a 64-bit hash of the compiled program. Equal
// regexes have equal fingerprints.
func (r *Regex) Fingerprint() uint64 {
	return r.engine.Program().Fingerprint()
}

// Stats returns the search counters accumulated since compilation. They
// are shared by every goroutine using r.
func (r *Regex) Stats() Stats {
	return r.engine.Stats()
}

// HeapBytes approximates the memory held by the compiled program and its
// prefilter.
func (r *Regex) HeapBytes() int {
	return r.engine.HeapBytes()
}
