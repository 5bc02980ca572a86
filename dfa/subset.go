package dfa

import (
	"encoding/binary"
	"slices"

	"github.com/dchest/siphash"

	"github.com/coregx/rationl/automaton"
)

// StateKey is the SipHash-2-4 digest of a sorted subset of NFA states.
type StateKey uint64

// Fixed keys: digests only need to be stable within one construction.
const (
	sipK0 = 0x736f6d6570736575
	sipK1 = 0x646f72616e646f6d
)

// subsetTable maps NFA state subsets to the DFA states built for them.
//
// Subsets are compared by value: the digest selects a bucket and the
// members are compared inside it, so a hash collision never merges two
// different subsets.
type subsetTable struct {
	buckets map[StateKey][]automaton.StateID
	members [][]automaton.StateID // indexed by DFA state id
	buf     []byte

	// maxStates is the capacity limit; zero means unbounded
	maxStates int
}

func newSubsetTable(maxStates int) *subsetTable {
	return &subsetTable{
		buckets:   make(map[StateKey][]automaton.StateID),
		maxStates: maxStates,
	}
}

// key hashes a sorted subset.
func (t *subsetTable) key(subset []automaton.StateID) StateKey {
	t.buf = t.buf[:0]
	for _, id := range subset {
		t.buf = binary.LittleEndian.AppendUint32(t.buf, uint32(id))
	}
	return StateKey(siphash.Hash(sipK0, sipK1, t.buf))
}

// lookup returns the DFA state assigned to subset, if any.
func (t *subsetTable) lookup(key StateKey, subset []automaton.StateID) (automaton.StateID, bool) {
	for _, id := range t.buckets[key] {
		if slices.Equal(t.members[id], subset) {
			return id, true
		}
	}
	return automaton.InvalidState, false
}

// insert records that DFA state id represents subset. It returns
// ErrStateLimitExceeded when the table is full.
func (t *subsetTable) insert(key StateKey, subset []automaton.StateID, id automaton.StateID) error {
	if t.maxStates > 0 && len(t.members) >= t.maxStates {
		return ErrStateLimitExceeded
	}
	if int(id) != len(t.members) {
		panic(&automaton.Error{Op: "determinize", State: id, Message: "DFA state ids out of order"})
	}
	t.members = append(t.members, slices.Clone(subset))
	t.buckets[key] = append(t.buckets[key], id)
	return nil
}

// size returns the number of subsets recorded.
func (t *subsetTable) size() int {
	return len(t.members)
}
