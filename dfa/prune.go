package dfa

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/coregx/rationl/automaton"
)

// Prune returns a copy of a without the states that are unreachable from
// every start state or from which no accepting state is reachable. The
// language is unchanged. When nothing survives, the result is a single
// non-accepting start state.
//
// Both analyses run to completion with explicit stacks before any state is
// removed, and the doomed states are then removed in one batch.
func Prune(a *automaton.Automaton) *automaton.Automaton {
	n := a.States()
	reach := reachable(a)
	escape := coreachable(a)

	var doomed []automaton.StateID
	for id := 0; id < n; id++ {
		s := automaton.StateID(id)
		if a.IsRemoved(s) {
			continue
		}
		if !reach.Test(uint(id)) || !escape.Test(uint(id)) {
			doomed = append(doomed, s)
		}
	}

	c := a.Clone()
	c.RemoveStates(doomed)
	c.Compact()
	if len(c.Starts()) == 0 {
		out := automaton.New()
		out.AddStart(out.AddState(false))
		out.MarkDeterministic()
		return out
	}
	if a.IsDeterministic() {
		c.MarkDeterministic()
	}
	return c
}

// reachable marks the states reachable from a start state.
func reachable(a *automaton.Automaton) *bitset.BitSet {
	seen := bitset.New(uint(a.States()))
	stack := a.Starts()
	for _, s := range stack {
		seen.Set(uint(s))
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a.ForEachEdge(q, func(_ automaton.Symbol, dst automaton.StateID) {
			if !seen.Test(uint(dst)) {
				seen.Set(uint(dst))
				stack = append(stack, dst)
			}
		})
	}
	return seen
}

// coreachable marks the states from which an accepting state is reachable,
// walking the predecessor index backwards from every accepting state.
func coreachable(a *automaton.Automaton) *bitset.BitSet {
	preds := a.Predecessors()
	escape := bitset.New(uint(a.States()))
	stack := a.Terminals()
	for _, s := range stack {
		escape.Set(uint(s))
	}
	for len(stack) > 0 {
		q := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, k := range preds[q] {
			if !escape.Test(uint(k.From)) {
				escape.Set(uint(k.From))
				stack = append(stack, k.From)
			}
		}
	}
	return escape
}
