// Package nfa compiles parsed ECMAScript patterns into a backtracking
// program and executes it.
//
// A Program is a flat list of instructions. The Backtracker runs it
// depth-first with an explicit choice stack, which yields the
// leftmost-first, priority-ordered results ECMAScript requires, including
// backreferences and lookaround. Every search is metered by a Budget so
// pathological patterns fail with ErrExecutionLimitExceeded instead of
// running unbounded.
package nfa

import (
	"errors"
	"fmt"
)

// Common execution errors
var (
	// ErrIndexOutOfRange indicates a search start beyond the text length.
	ErrIndexOutOfRange = errors.New("start index out of range")

	// ErrTextTooLong indicates a text whose offsets do not fit the slot width.
	ErrTextTooLong = errors.New("text too long")

	// ErrExecutionLimitExceeded indicates the step or time budget ran out.
	ErrExecutionLimitExceeded = errors.New("execution limit exceeded")

	// ErrProgramTooLarge indicates the compiled program exceeds its size limit.
	ErrProgramTooLarge = errors.New("program too large")
)

// ExecError wraps an execution failure with the search context.
type ExecError struct {
	Err   error
	Start int   // search start offset
	Len   int   // text length
	Steps int64 // steps spent before failing
}

// Error implements the error interface
func (e *ExecError) Error() string {
	switch {
	case errors.Is(e.Err, ErrIndexOutOfRange):
		return fmt.Sprintf("%v: start %d, text length %d", e.Err, e.Start, e.Len)
	case errors.Is(e.Err, ErrExecutionLimitExceeded):
		return fmt.Sprintf("%v after %d steps", e.Err, e.Steps)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExecError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during program construction via the
// Builder API.
type BuildError struct {
	Message string
	PC      int
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.PC >= 0 {
		return fmt.Sprintf("program build error at pc %d: %s", e.PC, e.Message)
	}
	return fmt.Sprintf("program build error: %s", e.Message)
}
