package automaton

import (
	"github.com/bits-and-blooms/bitset"
)

// Group annotations record where a match crosses a capturing-group boundary.
// They are attached to a transition identity (EdgeKey), not to either
// endpoint, so a state can be the target of an edge that enters a group and
// of another edge that does not. Accept groups are the groups closed when a
// match ends in a state without consuming a further byte.

// MarkEnteringGroup records that taking edge k enters group g.
// The edge must exist.
func (a *Automaton) MarkEnteringGroup(k EdgeKey, g int) {
	a.requireEdge("MarkEnteringGroup", k)
	addGroup(a.entering, k, g)
}

// MarkLeavingGroup records that taking edge k leaves group g.
// The edge must exist.
func (a *Automaton) MarkLeavingGroup(k EdgeKey, g int) {
	a.requireEdge("MarkLeavingGroup", k)
	addGroup(a.leaving, k, g)
}

// EnteringGroups returns the groups entered by edge k in ascending order,
// or nil.
func (a *Automaton) EnteringGroups(k EdgeKey) []int {
	return members(a.entering[k])
}

// LeavingGroups returns the groups left by edge k in ascending order, or nil.
func (a *Automaton) LeavingGroups(k EdgeKey) []int {
	return members(a.leaving[k])
}

// EnteringSet returns the entering set of k, or nil. The set is owned by the
// automaton and must not be modified.
func (a *Automaton) EnteringSet(k EdgeKey) *bitset.BitSet {
	return a.entering[k]
}

// LeavingSet returns the leaving set of k, or nil. The set is owned by the
// automaton and must not be modified.
func (a *Automaton) LeavingSet(k EdgeKey) *bitset.BitSet {
	return a.leaving[k]
}

// UnionEntering adds every group of set to the entering set of edge k and
// reports whether the annotation grew.
func (a *Automaton) UnionEntering(k EdgeKey, set *bitset.BitSet) bool {
	if set == nil || set.None() {
		return false
	}
	a.requireEdge("UnionEntering", k)
	return unionInto(a.entering, k, set)
}

// UnionLeaving adds every group of set to the leaving set of edge k and
// reports whether the annotation grew.
func (a *Automaton) UnionLeaving(k EdgeKey, set *bitset.BitSet) bool {
	if set == nil || set.None() {
		return false
	}
	a.requireEdge("UnionLeaving", k)
	return unionInto(a.leaving, k, set)
}

// MarkAcceptGroup records that a match ending in id closes group g.
func (a *Automaton) MarkAcceptGroup(id StateID, g int) {
	a.check("MarkAcceptGroup", id)
	set := a.accept[id]
	if set == nil {
		set = bitset.New(uint(g + 1))
		a.accept[id] = set
	}
	set.Set(uint(g))
}

// AcceptGroups returns the groups closed by ending a match in id, or nil.
func (a *Automaton) AcceptGroups(id StateID) []int {
	return members(a.accept[id])
}

// AcceptSet returns the accept-group set of id, or nil. The set is owned by
// the automaton and must not be modified.
func (a *Automaton) AcceptSet(id StateID) *bitset.BitSet {
	return a.accept[id]
}

// UnionAcceptGroups adds set to the accept groups of id and reports whether
// they grew.
func (a *Automaton) UnionAcceptGroups(id StateID, set *bitset.BitSet) bool {
	if set == nil || set.None() {
		return false
	}
	a.check("UnionAcceptGroups", id)
	cur := a.accept[id]
	if cur == nil {
		a.accept[id] = set.Clone()
		return true
	}
	before := cur.Count()
	cur.InPlaceUnion(set)
	return cur.Count() != before
}

// AnnotatedEdges returns the keys carrying an entering or leaving
// annotation, sorted by (From, To, Symbol).
func (a *Automaton) AnnotatedEdges() []EdgeKey {
	seen := make(map[EdgeKey]bool, len(a.entering)+len(a.leaving))
	var keys []EdgeKey
	for _, m := range []map[EdgeKey]*bitset.BitSet{a.entering, a.leaving} {
		for k := range m {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sortKeys(keys)
	return keys
}

func (a *Automaton) requireEdge(op string, k EdgeKey) {
	if !a.HasTransition(k.From, k.To, k.Symbol) {
		invariant(op, k.From, "no edge %s", k)
	}
}

func addGroup(m map[EdgeKey]*bitset.BitSet, k EdgeKey, g int) {
	if g < 0 {
		invariant("addGroup", k.From, "negative group id %d", g)
	}
	set := m[k]
	if set == nil {
		set = bitset.New(uint(g + 1))
		m[k] = set
	}
	set.Set(uint(g))
}

func unionInto(m map[EdgeKey]*bitset.BitSet, k EdgeKey, set *bitset.BitSet) bool {
	cur := m[k]
	if cur == nil {
		m[k] = set.Clone()
		return true
	}
	before := cur.Count()
	cur.InPlaceUnion(set)
	return cur.Count() != before
}

func members(set *bitset.BitSet) []int {
	if set == nil || set.None() {
		return nil
	}
	out := make([]int, 0, set.Count())
	for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}
