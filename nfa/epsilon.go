package nfa

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/coregx/rationl/automaton"
)

// EliminateEpsilon returns an automaton accepting the same language as a
// without epsilon edges. The input is not modified.
//
// The epsilon closure of every state is computed once by a depth-first walk.
// A state takes the letter edges of every closure member and becomes terminal
// when a member is; a start state's closure members become starts too. No
// transitive epsilon edge is ever materialized, so the work is proportional
// to the closures plus the edges they copy.
//
// An edge s -c-> u created from a path s -ε*-> d and d -c-> u gets the union
// of the entering sets and of the leaving sets of every edge on the path,
// taken over all such paths. Leaving marks on an epsilon path into a terminal
// state become accept groups of s. Each closure is a fixpoint over set union,
// hence the result does not depend on state numbering.
func EliminateEpsilon(a *automaton.Automaton) *automaton.Automaton {
	if !a.HasEpsilon() {
		out := a.Clone()
		out.Compact()
		return out
	}

	n := a.States()
	out := automaton.NewWithCapacity(n)
	var removed []automaton.StateID
	for id := 0; id < n; id++ {
		s := out.AddState(false)
		if a.IsRemoved(s) {
			removed = append(removed, s)
		}
	}

	cl := newClosure(n, hasEpsilonAnnotations(a))
	seen := make(map[letterEdge]struct{})
	for id := 0; id < n; id++ {
		s := automaton.StateID(id)
		if a.IsRemoved(s) {
			continue
		}
		cl.compute(a, s)
		clear(seen)

		for _, d := range cl.members {
			if a.IsTerminal(d) {
				out.SetTerminal(s, true)
				out.UnionAcceptGroups(s, cl.leavingSet(d))
			}
			out.UnionAcceptGroups(s, a.AcceptSet(d))

			a.ForEachEdge(d, func(sym automaton.Symbol, dst automaton.StateID) {
				if sym == automaton.Epsilon {
					return
				}
				e := letterEdge{sym: sym, dst: dst}
				if _, ok := seen[e]; !ok {
					seen[e] = struct{}{}
					out.AddTransition(s, dst, sym)
				}
				k := automaton.EdgeKey{From: s, To: dst, Symbol: sym}
				next := automaton.EdgeKey{From: d, To: dst, Symbol: sym}
				out.UnionEntering(k, a.EnteringSet(next))
				out.UnionEntering(k, cl.enteringSet(d))
				out.UnionLeaving(k, a.LeavingSet(next))
				out.UnionLeaving(k, cl.leavingSet(d))
			})
		}

		if a.IsStart(s) {
			for _, d := range cl.members {
				out.AddStart(d)
			}
		}
	}

	out.RemoveStates(removed)
	out.Compact()
	return out
}

type letterEdge struct {
	sym automaton.Symbol
	dst automaton.StateID
}

// closure is the scratch space for one epsilon closure. It is reused across
// sources; only the entries of the previous members are reset.
type closure struct {
	members []automaton.StateID
	visited *bitset.BitSet
	stack   []automaton.StateID

	// entering[d] and leaving[d] accumulate the annotations of the epsilon
	// edges on the paths from the source to d. Nil when a carries no
	// annotated epsilon edge.
	entering []*bitset.BitSet
	leaving  []*bitset.BitSet
}

func newClosure(n int, annotated bool) *closure {
	c := &closure{visited: bitset.New(uint(n))}
	if annotated {
		c.entering = make([]*bitset.BitSet, n)
		c.leaving = make([]*bitset.BitSet, n)
	}
	return c
}

func (c *closure) enteringSet(d automaton.StateID) *bitset.BitSet {
	if c.entering == nil {
		return nil
	}
	return c.entering[d]
}

func (c *closure) leavingSet(d automaton.StateID) *bitset.BitSet {
	if c.leaving == nil {
		return nil
	}
	return c.leaving[d]
}

// compute fills members with the epsilon closure of s, s first.
// With annotations a member is pushed again whenever its accumulated sets
// grow, so cycles converge to the union over all paths.
func (c *closure) compute(a *automaton.Automaton, s automaton.StateID) {
	for _, m := range c.members {
		c.visited.Clear(uint(m))
		if c.entering != nil {
			c.entering[m] = nil
			c.leaving[m] = nil
		}
	}
	c.members = append(c.members[:0], s)
	c.visited.Set(uint(s))
	c.stack = append(c.stack[:0], s)

	for len(c.stack) > 0 {
		x := c.stack[len(c.stack)-1]
		c.stack = c.stack[:len(c.stack)-1]
		for _, y := range a.Targets(x, automaton.Epsilon) {
			push := false
			if !c.visited.Test(uint(y)) {
				c.visited.Set(uint(y))
				c.members = append(c.members, y)
				push = true
			}
			if c.entering != nil {
				k := automaton.EdgeKey{From: x, To: y, Symbol: automaton.Epsilon}
				if grow(c.entering, y, c.entering[x], a.EnteringSet(k)) {
					push = true
				}
				if grow(c.leaving, y, c.leaving[x], a.LeavingSet(k)) {
					push = true
				}
			}
			if push {
				c.stack = append(c.stack, y)
			}
		}
	}
}

// grow unions from and edge into sets[y] and reports whether it grew.
func grow(sets []*bitset.BitSet, y automaton.StateID, from, edge *bitset.BitSet) bool {
	grew := false
	for _, src := range [...]*bitset.BitSet{from, edge} {
		if src == nil || src.None() {
			continue
		}
		cur := sets[y]
		if cur == nil {
			sets[y] = src.Clone()
			grew = true
			continue
		}
		before := cur.Count()
		cur.InPlaceUnion(src)
		if cur.Count() != before {
			grew = true
		}
	}
	return grew
}

func hasEpsilonAnnotations(a *automaton.Automaton) bool {
	for _, k := range a.AnnotatedEdges() {
		if k.Symbol == automaton.Epsilon {
			return true
		}
	}
	return false
}
