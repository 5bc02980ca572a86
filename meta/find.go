package meta

import (
	"sync/atomic"

	"github.com/coregx/rationl/nfa"
)

// Match returns the longest match anchored at the start of subject, or nil.
func (e *Engine) Match(subject []byte) *Match {
	state := e.getSearchState()
	defer e.putSearchState(state)

	sp, ok := e.sim.MatchAtWithState(subject, 0, state.nfa)
	if !ok {
		return nil
	}
	return NewMatch(sp.Start, sp.End, subject)
}

// Accepts reports whether the whole of subject is in the pattern's language.
func (e *Engine) Accepts(subject []byte) bool {
	state := e.getSearchState()
	defer e.putSearchState(state)
	return e.sim.AcceptsWithState(subject, state.nfa)
}

// IsMatch reports whether subject contains any match.
func (e *Engine) IsMatch(subject []byte) bool {
	return e.Find(subject) != nil
}

// Find returns the leftmost-longest match in subject, or nil.
func (e *Engine) Find(subject []byte) *Match {
	return e.FindAt(subject, 0)
}

// FindAt returns the leftmost-longest match starting at or after at, or nil.
func (e *Engine) FindAt(subject []byte, at int) *Match {
	if at < 0 || at > len(subject) {
		return nil
	}
	start, end, ok := e.find(subject, at)
	if !ok {
		return nil
	}
	return NewMatch(start, end, subject)
}

// Search returns all non-overlapping leftmost-longest matches in subject.
//
// After a match the scan resumes at its end; an empty match immediately
// following the previous match is not reported.
func (e *Engine) Search(subject []byte) []*Match {
	var matches []*Match
	e.scan(subject, func(start, end int) {
		matches = append(matches, NewMatch(start, end, subject))
	})
	return matches
}

// SearchIndices is Search returning [start, end] pairs.
func (e *Engine) SearchIndices(subject []byte) [][2]int {
	var spans [][2]int
	e.scan(subject, func(start, end int) {
		spans = append(spans, [2]int{start, end})
	})
	return spans
}

// Replace returns a copy of subject with every match Search reports
// replaced by repl. The replacement is literal.
func (e *Engine) Replace(subject, repl []byte) []byte {
	return e.ReplaceFunc(subject, func([]byte) []byte { return repl })
}

// ReplaceFunc returns a copy of subject with every match replaced by the
// return value of fn applied to the matched bytes.
func (e *Engine) ReplaceFunc(subject []byte, fn func([]byte) []byte) []byte {
	out := make([]byte, 0, len(subject))
	last := 0
	e.scan(subject, func(start, end int) {
		out = append(out, subject[last:start]...)
		out = append(out, fn(subject[start:end])...)
		last = end
	})
	return append(out, subject[last:]...)
}

// find dispatches a single leftmost-longest search to the selected strategy.
func (e *Engine) find(subject []byte, at int) (start, end int, ok bool) {
	atomic.AddUint64(&e.stats.Searches, 1)

	switch e.strategy {
	case UseSearchDFA:
		atomic.AddUint64(&e.stats.SearchDFASearches, 1)
		return e.searchDFA.Find(subject, at)

	case UsePrefilter:
		atomic.AddUint64(&e.stats.PrefilterSearches, 1)
		if e.prefilter.IsComplete() {
			pos := e.prefilter.Find(subject, at)
			if pos < 0 {
				return -1, -1, false
			}
			atomic.AddUint64(&e.stats.PrefilterCandidates, 1)
			return pos, pos + e.prefilter.LiteralLen(), true
		}
		state := e.getSearchState()
		defer e.putSearchState(state)
		sp, found := e.sim.FindWithState(subject, at, e.candidates(state), state.nfa)
		if !found {
			return -1, -1, false
		}
		return sp.Start, sp.End, true

	default:
		atomic.AddUint64(&e.stats.NFASearches, 1)
		state := e.getSearchState()
		defer e.putSearchState(state)
		sp, found := e.sim.FindWithState(subject, at, nil, state.nfa)
		if !found {
			return -1, -1, false
		}
		return sp.Start, sp.End, true
	}
}

// scan reports every match Search would return, in order.
func (e *Engine) scan(subject []byte, emit func(start, end int)) {
	atomic.AddUint64(&e.stats.Searches, 1)

	switch e.strategy {
	case UseSearchDFA:
		atomic.AddUint64(&e.stats.SearchDFASearches, 1)
		for at := 0; at <= len(subject); {
			start, end, ok := e.searchDFA.Find(subject, at)
			if !ok {
				return
			}
			emit(start, end)
			if end > at {
				at = end
			} else {
				at++
			}
		}

	case UsePrefilter:
		atomic.AddUint64(&e.stats.PrefilterSearches, 1)
		if e.prefilter.IsComplete() {
			// Complete literals are non-empty, so every match advances.
			n := e.prefilter.LiteralLen()
			for at := 0; at < len(subject); {
				pos := e.prefilter.Find(subject, at)
				if pos < 0 {
					return
				}
				atomic.AddUint64(&e.stats.PrefilterCandidates, 1)
				emit(pos, pos+n)
				at = pos + n
			}
			return
		}
		state := e.getSearchState()
		defer e.putSearchState(state)
		e.sim.ScanWithState(subject, e.candidates(state), state.nfa, func(sp nfa.Span) {
			if state.tracker != nil {
				state.tracker.ConfirmMatch()
			}
			emit(sp.Start, sp.End)
		})

	default:
		atomic.AddUint64(&e.stats.NFASearches, 1)
		state := e.getSearchState()
		defer e.putSearchState(state)
		e.sim.ScanWithState(subject, nil, state.nfa, func(sp nfa.Span) {
			emit(sp.Start, sp.End)
		})
	}
}

// candidates returns the candidate function the simulator uses to skip
// ahead. Once the tracker retires the prefilter every position is tried.
func (e *Engine) candidates(state *searchState) nfa.CandidateFunc {
	tracker := state.tracker
	return func(subject []byte, at int) int {
		if !tracker.IsActive() {
			return at
		}
		pos := tracker.Find(subject, at)
		if pos < 0 {
			return -1
		}
		state.candidates++
		state.skipped += uint64(pos - at)
		return pos
	}
}

func (e *Engine) getSearchState() *searchState {
	return e.statePool.get()
}

// putSearchState folds the state's counters into the engine statistics and
// returns it to the pool.
func (e *Engine) putSearchState(state *searchState) {
	if state.candidates > 0 {
		atomic.AddUint64(&e.stats.PrefilterCandidates, state.candidates)
		atomic.AddUint64(&e.stats.PrefilterSkipped, state.skipped)
	}
	if state.tracker != nil && !state.tracker.IsActive() {
		atomic.AddUint64(&e.stats.PrefilterAbandoned, 1)
	}
	e.statePool.put(state)
}
