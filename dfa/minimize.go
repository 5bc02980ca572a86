package dfa

import (
	"github.com/coregx/rationl/automaton"
)

// Transpose returns the reverse of a: every edge is migrated to point the
// other way, the start states become the accepting states and the accepting
// states become the start states. Entering and leaving annotations swap
// roles. Accept groups stay on their states.
func Transpose(a *automaton.Automaton) *automaton.Automaton {
	c := a.Clone()
	c.Compact()
	n := c.States()

	out := automaton.NewWithCapacity(n)
	for id := 0; id < n; id++ {
		out.AddState(c.IsStart(automaton.StateID(id)))
	}
	for _, t := range c.Terminals() {
		out.AddStart(t)
	}
	for id := 0; id < n; id++ {
		src := automaton.StateID(id)
		c.ForEachEdge(src, func(sym automaton.Symbol, dst automaton.StateID) {
			out.AddTransition(dst, src, sym)
		})
		out.UnionAcceptGroups(src, c.AcceptSet(src))
	}
	for _, k := range c.AnnotatedEdges() {
		rk := automaton.EdgeKey{From: k.To, To: k.From, Symbol: k.Symbol}
		out.UnionEntering(rk, c.LeavingSet(k))
		out.UnionLeaving(rk, c.EnteringSet(k))
	}
	return out
}

// Minimize returns the minimal DFA for the language of a by Brzozowski's
// construction: determinize the reverse, then determinize the reverse of
// that. Missing edges stand for the dead state, so every state of the result
// is reachable and can reach an accepting state, except the lone start state
// of an empty language.
func Minimize(a *automaton.Automaton) *automaton.Automaton {
	return Determinize(Transpose(Determinize(Transpose(a))))
}

// MinimizeLimit is Minimize with every intermediate determinization bounded
// by maxStates. Reversal can make an intermediate DFA exponentially larger
// than both input and result; on ErrStateLimitExceeded the caller keeps its
// unminimized automaton.
func MinimizeLimit(a *automaton.Automaton, maxStates int) (*automaton.Automaton, error) {
	r, err := DeterminizeLimit(Transpose(a), maxStates)
	if err != nil {
		return nil, err
	}
	return DeterminizeLimit(Transpose(r), maxStates)
}
