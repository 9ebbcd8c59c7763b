package meta

import (
	"sync"

	"github.com/coregx/ecmaregex/nfa"
)

// SearchState holds per-search mutable state for thread-safe concurrent
// searches. It is obtained from a sync.Pool so one compiled Engine can be
// used from many goroutines at once.
//
// Usage pattern:
//
//	state := engine.getSearchState()
//	defer engine.putSearchState(state)
//	// use state for search operations
//
// Thread safety: each goroutine must use its own SearchState instance.
type SearchState struct {
	// backtracker holds the choice stack, undo trail and capture slots.
	backtracker *nfa.BacktrackerState
}

func newSearchState(prog *nfa.Program) *SearchState {
	return &SearchState{
		backtracker: nfa.NewBacktrackerState(prog),
	}
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
// This follows the stdlib regexp pattern of using sync.Pool for concurrent safety.
type searchStatePool struct {
	pool sync.Pool
	prog *nfa.Program
}

func newSearchStatePool(prog *nfa.Program) *searchStatePool {
	p := &searchStatePool{prog: prog}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState(p.prog)
		},
	}
	return p
}

// get retrieves a SearchState from the pool, creating one if necessary.
func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

// put returns a SearchState to the pool for reuse. The backtracker resets
// its own memory when the next search begins.
func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	p.pool.Put(state)
}
