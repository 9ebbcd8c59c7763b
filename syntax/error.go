package syntax

import "fmt"

// Error describes a pattern that could not be parsed or compiled.
//
// Pos is the byte offset into Pattern where the problem was detected.
type Error struct {
	Pattern string
	Pos     int
	Msg     string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("invalid regular expression /%s/: %s at position %d", e.Pattern, e.Msg, e.Pos)
}

// Error messages. They double as a vocabulary for tests.
const (
	ErrMsgNothingToRepeat      = "nothing to repeat"
	ErrMsgUnterminatedGroup    = "unterminated group"
	ErrMsgUnmatchedParen       = "unmatched ')'"
	ErrMsgInvalidGroup         = "invalid group"
	ErrMsgUnterminatedClass    = "unterminated character class"
	ErrMsgClassRangeOrder      = "range out of order in character class"
	ErrMsgInvalidClass         = "invalid character class"
	ErrMsgQuantifierOrder      = "numbers out of order in {} quantifier"
	ErrMsgIncompleteQuantifier = "incomplete quantifier"
	ErrMsgLoneBracket          = "lone quantifier brackets"
	ErrMsgTrailingBackslash    = "\\ at end of pattern"
	ErrMsgInvalidEscape        = "invalid escape"
	ErrMsgInvalidUnicodeEscape = "invalid Unicode escape"
	ErrMsgInvalidDecimalEscape = "invalid decimal escape"
	ErrMsgInvalidClassEscape   = "invalid class escape"
	ErrMsgInvalidPropertyName  = "invalid property name"
	ErrMsgInvalidGroupName     = "invalid capture group name"
	ErrMsgDuplicateGroupName   = "duplicate capture group name"
	ErrMsgInvalidNamedRef      = "invalid named reference"
	ErrMsgTooDeep              = "pattern nesting too deep"
	ErrMsgTooLarge             = "regular expression too large"
)
