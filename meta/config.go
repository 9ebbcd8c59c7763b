// Package meta coordinates compilation and search for a single pattern.
//
// An Engine owns the compiled Program, the Backtracker that runs it and an
// optional prefilter built from the pattern's literal prefixes. It turns a
// Config into a per-search Budget, hands each search a pooled
// BacktrackerState and wraps the resulting capture slots in a Match.
//
// The root package exposes the public API; meta hides the wiring.
package meta

import (
	"time"

	"github.com/coregx/ecmaregex/nfa"
)

// Config controls engine compilation limits and the default search budget.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.StepLimit = 1_000_000 // Fail faster on pathological input
//	engine, err := meta.CompileWithConfig("(a+)+b", 0, config)
type Config struct {
	// StepLimit caps the number of instructions one search may execute.
	// Zero means unlimited.
	// Default: 10,000,000
	StepLimit int64

	// Timeout bounds the wall-clock time of one search. It is turned into a
	// deadline when the search starts. Zero means no timeout.
	// Default: 0
	Timeout time.Duration

	// EnablePrefilter enables literal-based skipping of start positions.
	// Default: true
	EnablePrefilter bool

	// MaxLiterals limits the number of prefix literals extracted for the
	// prefilter.
	// Default: 64
	MaxLiterals int

	// MaxProgramSize limits the number of compiled instructions.
	// Default: 1,000,000
	MaxProgramSize int

	// MaxRecursionDepth limits group nesting in the pattern.
	// Default: 256
	MaxRecursionDepth int
}

// DefaultConfig returns a configuration with sensible defaults.
//
// The step limit is large enough for ordinary patterns on megabyte inputs
// while still stopping catastrophic backtracking in well under a second.
func DefaultConfig() Config {
	compiler := nfa.DefaultCompilerConfig()
	return Config{
		StepLimit:         10_000_000,
		EnablePrefilter:   true,
		MaxLiterals:       64,
		MaxProgramSize:    compiler.MaxProgramSize,
		MaxRecursionDepth: compiler.MaxRecursionDepth,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - StepLimit: >= 0
//   - Timeout: >= 0
//   - MaxLiterals: 1 to 1,000 (when EnablePrefilter)
//   - MaxProgramSize: 1 to 100,000,000
//   - MaxRecursionDepth: 1 to 10,000
func (c Config) Validate() error {
	if c.StepLimit < 0 {
		return &ConfigError{
			Field:   "StepLimit",
			Message: "must not be negative",
		}
	}
	if c.Timeout < 0 {
		return &ConfigError{
			Field:   "Timeout",
			Message: "must not be negative",
		}
	}

	if c.EnablePrefilter {
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxProgramSize < 1 || c.MaxProgramSize > 100_000_000 {
		return &ConfigError{
			Field:   "MaxProgramSize",
			Message: "must be between 1 and 100,000,000",
		}
	}

	if c.MaxRecursionDepth < 1 || c.MaxRecursionDepth > 10_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 1 and 10,000",
		}
	}

	return nil
}

// Budget returns the search budget for a search starting now.
func (c Config) Budget() nfa.Budget {
	b := nfa.Budget{Steps: c.StepLimit}
	if c.Timeout > 0 {
		b.Deadline = time.Now().Add(c.Timeout)
	}
	return b
}

func (c Config) compilerConfig() nfa.CompilerConfig {
	return nfa.CompilerConfig{
		MaxProgramSize:    c.MaxProgramSize,
		MaxRecursionDepth: c.MaxRecursionDepth,
	}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "regexp: invalid config: " + e.Field + ": " + e.Message
}
