package meta

import (
	"sync"

	"github.com/coregx/rationl/nfa"
	"github.com/coregx/rationl/prefilter"
)

// searchState holds per-search mutable state. It must not be shared between
// goroutines; the engine hands one out per search from its pool.
type searchState struct {
	nfa *nfa.State

	// tracker retires the prefilter when its candidates rarely match.
	// nil without a prefilter.
	tracker *prefilter.Tracker

	candidates uint64
	skipped    uint64
}

// reset prepares the state for another search.
func (s *searchState) reset() {
	if s.tracker != nil {
		s.tracker.Reset()
	}
	s.candidates = 0
	s.skipped = 0
}

// searchStatePool manages searchState instances for concurrent searches.
type searchStatePool struct {
	pool sync.Pool
}

func newSearchStatePool(sim *nfa.Simulator, pf prefilter.Prefilter) *searchStatePool {
	p := &searchStatePool{}
	p.pool.New = func() any {
		return &searchState{
			nfa:     sim.NewState(),
			tracker: prefilter.NewTracker(pf),
		}
	}
	return p
}

func (p *searchStatePool) get() *searchState {
	s := p.pool.Get().(*searchState)
	s.reset()
	return s
}

func (p *searchStatePool) put(s *searchState) {
	if s != nil {
		p.pool.Put(s)
	}
}
