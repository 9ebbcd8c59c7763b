package meta

import (
	"errors"
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/coregx/ecmaregex/nfa"
	"github.com/coregx/ecmaregex/prefilter"
	"github.com/coregx/ecmaregex/syntax"
)

// Engine runs one compiled pattern.
//
// The Engine:
//  1. Holds the immutable Program and its Backtracker
//  2. Holds an optional prefilter that skips impossible start positions
//  3. Turns Config into a Budget for every search
//  4. Wraps successful searches in a Match
//
// Thread safety: the Engine uses a sync.Pool internally to provide
// thread-safe concurrent access. Multiple goroutines can safely call search
// methods on the same Engine instance concurrently.
//
// Example:
//
//	engine, err := meta.Compile(`(foo|bar)\d+`, 0)
//	if err != nil {
//	    return err
//	}
//
//	// Search (safe to call from multiple goroutines)
//	m, err := engine.FindAt("test foo123 end", 0)
//	if err == nil && m != nil {
//	    println(m.String()) // "foo123"
//	}
type Engine struct {
	// Statistics (useful for debugging and tuning)
	// IMPORTANT: stats MUST be first field for proper 8-byte alignment on 32-bit platforms.
	// This ensures atomic operations on uint64 fields work correctly.
	stats Stats

	prog      *nfa.Program
	bt        *nfa.Backtracker
	prefilter prefilter.Prefilter
	config    Config
	statePool *searchStatePool
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts searches started
	Searches uint64

	// Matches counts searches that found a match
	Matches uint64

	// Steps counts instructions executed across all searches
	Steps uint64

	// LimitExceeded counts searches stopped by their budget
	LimitExceeded uint64
}

// Program returns the compiled program.
func (e *Engine) Program() *nfa.Program {
	return e.prog
}

// Config returns the configuration the engine was compiled with.
func (e *Engine) Config() Config {
	return e.config
}

// Flags returns the flags the pattern was compiled with.
func (e *Engine) Flags() syntax.Flags {
	return e.prog.Flags
}

// Prefilter returns the prefilter in use, or nil.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// NumCaptures returns the number of capture groups in the pattern.
// Group 0 is the entire match, groups 1+ are explicit captures.
func (e *Engine) NumCaptures() int {
	return e.prog.NumCaptures
}

// SubexpNames returns the names of capture groups in the pattern.
// Index 0 is always "" (entire match). Named groups return their names,
// unnamed groups return "".
func (e *Engine) SubexpNames() []string {
	names := make([]string, e.prog.NumCaptures)
	copy(names, e.prog.Names)
	return names
}

// Stats returns a snapshot of execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("searches:", stats.Searches)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:      atomic.LoadUint64(&e.stats.Searches),
		Matches:       atomic.LoadUint64(&e.stats.Matches),
		Steps:         atomic.LoadUint64(&e.stats.Steps),
		LimitExceeded: atomic.LoadUint64(&e.stats.LimitExceeded),
	}
}

// HeapBytes approximates the memory held by the program and prefilter.
func (e *Engine) HeapBytes() int {
	n := len(e.prog.Insts) * int(unsafe.Sizeof(nfa.Inst{}))
	if e.prefilter != nil {
		n += e.prefilter.HeapBytes()
	}
	return n
}

// FindAt returns the first match starting at or after at (exactly at at
// for sticky patterns) under the configured budget.
//
// Returns (nil, nil) when there is no match. Errors are *nfa.ExecError
// wrapping nfa.ErrIndexOutOfRange, nfa.ErrTextTooLong or
// nfa.ErrExecutionLimitExceeded.
func (e *Engine) FindAt(text string, at int) (*Match, error) {
	return e.FindAtWithBudget(text, at, e.config.Budget())
}

// FindAtWithBudget is like FindAt but uses budget instead of the
// configured limits.
func (e *Engine) FindAtWithBudget(text string, at int, budget nfa.Budget) (*Match, error) {
	if e.prefilter != nil && e.prefilter.LiteralLen() > 0 && e.prog.NumCaptures == 1 {
		return e.findLiteral(text, at)
	}

	state := e.getSearchState()
	defer e.putSearchState(state)

	atomic.AddUint64(&e.stats.Searches, 1)
	bs := state.backtracker
	ok, err := e.bt.Search(bs, text, at, budget)
	atomic.AddUint64(&e.stats.Steps, uint64(bs.Steps())) //nolint:gosec // G115: steps are never negative
	if err != nil {
		if errors.Is(err, nfa.ErrExecutionLimitExceeded) {
			atomic.AddUint64(&e.stats.LimitExceeded, 1)
		}
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	atomic.AddUint64(&e.stats.Matches, 1)

	raw := bs.Slots()
	slots := make([]int, len(raw))
	for i, v := range raw {
		slots[i] = int(v)
	}
	return NewMatch(text, slots, e.prog.Names, e.prog.Flags), nil
}

// findLiteral answers a search with the prefilter alone. The pattern
// matches exactly the prefilter's literals, all of one length, and has no
// groups to fill in.
func (e *Engine) findLiteral(text string, at int) (*Match, error) {
	if err := checkInput(text, at); err != nil {
		return nil, err
	}
	atomic.AddUint64(&e.stats.Searches, 1)
	pos := e.prefilter.Find(text, at)
	if pos < 0 {
		return nil, nil
	}
	atomic.AddUint64(&e.stats.Matches, 1)
	return NewMatch(text, []int{pos, pos + e.prefilter.LiteralLen()}, e.prog.Names, e.prog.Flags), nil
}

// IsMatchAt reports whether a match starts at or after at. It shares
// FindAt's errors.
//
// When the prefilter is complete, any literal it finds is a match and the
// backtracker does not run.
func (e *Engine) IsMatchAt(text string, at int) (bool, error) {
	if e.prefilter == nil || !e.prefilter.IsComplete() {
		m, err := e.FindAt(text, at)
		return m != nil, err
	}
	if err := checkInput(text, at); err != nil {
		return false, err
	}
	atomic.AddUint64(&e.stats.Searches, 1)
	if e.prefilter.Find(text, at) < 0 {
		return false, nil
	}
	atomic.AddUint64(&e.stats.Matches, 1)
	return true, nil
}

// checkInput reports the errors the backtracker would for text and at.
func checkInput(text string, at int) error {
	if at < 0 || at > len(text) {
		return &nfa.ExecError{Err: nfa.ErrIndexOutOfRange, Start: at, Len: len(text)}
	}
	if len(text) > math.MaxInt32 {
		return &nfa.ExecError{Err: nfa.ErrTextTooLong, Start: at, Len: len(text)}
	}
	return nil
}

// getSearchState retrieves a SearchState from the pool.
// Caller must call putSearchState when done.
func (e *Engine) getSearchState() *SearchState {
	return e.statePool.get()
}

// putSearchState returns a SearchState to the pool.
func (e *Engine) putSearchState(state *SearchState) {
	e.statePool.put(state)
}
