package syntax

import (
	"errors"
	"fmt"
	"strings"
)

// Flags is an immutable set of ECMAScript regular expression modes.
//
// Each flag is independent; any combination is valid. The zero value has
// no flags set. Bit positions are private to this package and carry no
// compatibility promise.
type Flags uint8

const (
	// FlagGlobal ("g") is a caller-level iteration policy. It does not change
	// compilation or a single search.
	FlagGlobal Flags = 1 << iota

	// FlagIgnoreCase ("i") compares characters case-insensitively.
	FlagIgnoreCase

	// FlagMultiline ("m") lets ^ and $ also match at line terminators.
	FlagMultiline

	// FlagDotAll ("s") lets . match line terminators.
	FlagDotAll

	// FlagUnicode ("u") enables strict Unicode pattern syntax, \u{...},
	// \p{...} property escapes and Unicode simple case folding.
	FlagUnicode

	// FlagSticky ("y") restricts a search to the supplied start offset.
	FlagSticky
)

// flagLetters lists every flag in canonical order.
var flagLetters = [...]struct {
	flag   Flags
	letter byte
}{
	{FlagGlobal, 'g'},
	{FlagIgnoreCase, 'i'},
	{FlagMultiline, 'm'},
	{FlagDotAll, 's'},
	{FlagUnicode, 'u'},
	{FlagSticky, 'y'},
}

// ErrInvalidFlag is matched by errors.Is for every *FlagError.
var ErrInvalidFlag = errors.New("invalid flag")

// FlagError reports a character that is not a known flag.
type FlagError struct {
	Flag rune
}

// Error implements the error interface.
func (e *FlagError) Error() string {
	return fmt.Sprintf("invalid flag: %q", string(e.Flag))
}

// Unwrap returns ErrInvalidFlag.
func (e *FlagError) Unwrap() error {
	return ErrInvalidFlag
}

// ParseFlags parses flag letters such as "gi". Order is irrelevant and
// duplicates are ignored. The first unknown character fails with a
// *FlagError naming it.
//
// Example:
//
//	f, err := syntax.ParseFlags("gu")
//	// f.Has(syntax.FlagGlobal) == true
func ParseFlags(s string) (Flags, error) {
	var f Flags
	for _, c := range s {
		bit, ok := flagFor(c)
		if !ok {
			return 0, &FlagError{Flag: c}
		}
		f |= bit
	}
	return f, nil
}

func flagFor(c rune) (Flags, bool) {
	for _, fl := range flagLetters {
		if rune(fl.letter) == c {
			return fl.flag, true
		}
	}
	return 0, false
}

// Has reports whether every flag in x is set in f.
func (f Flags) Has(x Flags) bool {
	return f&x == x
}

// With returns f with the flags in x added.
func (f Flags) With(x Flags) Flags {
	return f | x
}

// String returns the flag letters in canonical "gimsuy" order.
func (f Flags) String() string {
	var sb strings.Builder
	for _, fl := range flagLetters {
		if f&fl.flag != 0 {
			sb.WriteByte(fl.letter)
		}
	}
	return sb.String()
}
