package dfa

import (
	"slices"

	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/internal/conv"
	"github.com/coregx/rationl/internal/sparse"
	"github.com/coregx/rationl/nfa"
)

// Determinize builds the deterministic automaton for a by subset
// construction. Epsilon edges are eliminated first.
//
// Each DFA state stands for a distinct reachable subset of a's states; it is
// accepting iff the subset holds an accepting state. DFA states are numbered
// in breadth-first order from the start subset, visiting letters in byte
// order, so the output is a deterministic function of the input. Group
// annotations of every member edge are unioned onto the DFA edge they
// collapse into. An automaton without start states yields a single
// non-accepting start state.
func Determinize(a *automaton.Automaton) *automaton.Automaton {
	d, err := determinize(a, 0)
	if err != nil {
		// unreachable: no limit
		panic(err)
	}
	return d
}

// DeterminizeLimit is Determinize that gives up with ErrStateLimitExceeded
// once more than maxStates DFA states would be created.
func DeterminizeLimit(a *automaton.Automaton, maxStates int) (*automaton.Automaton, error) {
	if maxStates <= 0 {
		return nil, ErrInvalidConfig
	}
	return determinize(a, maxStates)
}

func determinize(a *automaton.Automaton, maxStates int) (*automaton.Automaton, error) {
	if a.HasEpsilon() {
		a = nfa.EliminateEpsilon(a)
	}

	out := automaton.New()
	starts := liveStarts(a)
	if len(starts) == 0 {
		out.AddStart(out.AddState(false))
		out.MarkDeterministic()
		return out, nil
	}

	table := newSubsetTable(maxStates)
	symbols := a.Symbols()
	collect := sparse.NewSparseSet(conv.IntToUint32(a.States()))

	add := func(subset []automaton.StateID) (automaton.StateID, error) {
		key := table.key(subset)
		if id, ok := table.lookup(key, subset); ok {
			return id, nil
		}
		id := automaton.StateID(conv.IntToUint32(table.size()))
		if err := table.insert(key, subset, id); err != nil {
			return automaton.InvalidState, err
		}
		terminal := false
		for _, q := range subset {
			if a.IsTerminal(q) {
				terminal = true
			}
		}
		out.AddState(terminal)
		if terminal {
			for _, q := range subset {
				if a.IsTerminal(q) {
					out.UnionAcceptGroups(id, a.AcceptSet(q))
				}
			}
		}
		return id, nil
	}

	start, err := add(starts)
	if err != nil {
		return nil, err
	}
	out.AddStart(start)

	var subset []automaton.StateID
	for cur := 0; cur < table.size(); cur++ {
		src := automaton.StateID(cur)
		members := table.members[cur]
		for _, sym := range symbols {
			collect.Clear()
			for _, q := range members {
				for _, t := range a.Targets(q, sym) {
					collect.Insert(uint32(t))
				}
			}
			if collect.IsEmpty() {
				continue
			}
			subset = subset[:0]
			for _, v := range collect.Values() {
				subset = append(subset, automaton.StateID(v))
			}
			slices.Sort(subset)

			dst, err := add(subset)
			if err != nil {
				return nil, err
			}
			out.AddTransition(src, dst, sym)

			k := automaton.EdgeKey{From: src, To: dst, Symbol: sym}
			for _, q := range members {
				for _, t := range a.Targets(q, sym) {
					nk := automaton.EdgeKey{From: q, To: t, Symbol: sym}
					out.UnionEntering(k, a.EnteringSet(nk))
					out.UnionLeaving(k, a.LeavingSet(nk))
				}
			}
		}
	}

	out.MarkDeterministic()
	return out, nil
}

// liveStarts returns the sorted, deduplicated start states of a.
func liveStarts(a *automaton.Automaton) []automaton.StateID {
	starts := a.Starts()
	slices.Sort(starts)
	return slices.Compact(starts)
}
