package automaton

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/coregx/rationl/internal/conv"
)

// State holds the per-state flags. Edges live in the automaton's transition
// table, addressed by state id.
type State struct {
	terminal bool
	start    bool
	removed  bool
}

// Automaton is a finite automaton over the byte alphabet plus epsilon.
//
// Transitions are stored in a sparse table: one row per state, one column per
// symbol actually used, each cell an ordered list of destinations (duplicates
// allowed). A fixed 257-entry lookup array maps a symbol to its column;
// columns are allocated on first use.
//
// States are removed by tombstoning: RemoveState drops the state's edges and
// annotations but keeps the id space stable until Compact renumbers the
// survivors densely.
type Automaton struct {
	states []State
	table  [][][]StateID

	// lookup maps a symbol to its column index + 1; zero means unused.
	lookup  [SymbolCount]uint16
	columns []Symbol
	// order lists column indexes sorted by symbol, for deterministic iteration.
	order []int

	starts        []StateID
	removed       int
	deterministic bool

	entering map[EdgeKey]*bitset.BitSet
	leaving  map[EdgeKey]*bitset.BitSet
	accept   map[StateID]*bitset.BitSet
}

// New returns an empty automaton.
func New() *Automaton {
	return NewWithCapacity(16)
}

// NewWithCapacity returns an empty automaton with room for capacity states.
func NewWithCapacity(capacity int) *Automaton {
	return &Automaton{
		states:   make([]State, 0, capacity),
		table:    make([][][]StateID, 0, capacity),
		entering: make(map[EdgeKey]*bitset.BitSet),
		leaving:  make(map[EdgeKey]*bitset.BitSet),
		accept:   make(map[StateID]*bitset.BitSet),
	}
}

// AddState appends a state and returns its id.
func (a *Automaton) AddState(terminal bool) StateID {
	id := StateID(conv.IntToUint32(len(a.states)))
	if id == InvalidState {
		invariant("AddState", InvalidState, "state id space exhausted")
	}
	a.states = append(a.states, State{terminal: terminal})
	a.table = append(a.table, nil)
	return id
}

// AddStart marks id as a start state. Marking an existing start is a no-op.
func (a *Automaton) AddStart(id StateID) {
	a.check("AddStart", id)
	if a.states[id].start {
		return
	}
	a.states[id].start = true
	a.starts = append(a.starts, id)
	if len(a.starts) > 1 {
		a.deterministic = false
	}
}

// SetTerminal sets or clears the accepting flag of id.
func (a *Automaton) SetTerminal(id StateID, terminal bool) {
	a.check("SetTerminal", id)
	a.states[id].terminal = terminal
}

// IsTerminal reports whether id is an accepting state.
func (a *Automaton) IsTerminal(id StateID) bool {
	a.check("IsTerminal", id)
	return a.states[id].terminal
}

// IsStart reports whether id is a start state.
func (a *Automaton) IsStart(id StateID) bool {
	a.check("IsStart", id)
	return a.states[id].start
}

// IsRemoved reports whether id has been tombstoned by RemoveState.
func (a *Automaton) IsRemoved(id StateID) bool {
	if int(id) >= len(a.states) {
		invariant("IsRemoved", id, "out of range (%d states)", len(a.states))
	}
	return a.states[id].removed
}

// Starts returns the start states in the order they were added.
func (a *Automaton) Starts() []StateID {
	return slices.Clone(a.starts)
}

// Terminals returns the live accepting states in id order.
func (a *Automaton) Terminals() []StateID {
	var out []StateID
	for i, s := range a.states {
		if s.terminal && !s.removed {
			out = append(out, StateID(i))
		}
	}
	return out
}

// States returns the size of the id space, including tombstoned states.
func (a *Automaton) States() int {
	return len(a.states)
}

// LiveStates returns the number of states that have not been removed.
func (a *Automaton) LiveStates() int {
	return len(a.states) - a.removed
}

// IsDeterministic reports whether the automaton is known to be deterministic:
// one start state, no epsilon edges and at most one destination per
// (state, byte). The flag is set by MarkDeterministic and cleared by any
// mutation that breaks one of those conditions.
func (a *Automaton) IsDeterministic() bool {
	return a.deterministic
}

// MarkDeterministic checks the deterministic invariants and records the
// result in the flag returned by IsDeterministic.
func (a *Automaton) MarkDeterministic() bool {
	a.deterministic = a.checkDeterministic()
	return a.deterministic
}

func (a *Automaton) checkDeterministic() bool {
	if len(a.starts) != 1 {
		return false
	}
	if col := a.lookup[Epsilon]; col != 0 {
		for _, row := range a.table {
			if int(col) <= len(row) && len(row[col-1]) > 0 {
				return false
			}
		}
	}
	for _, row := range a.table {
		for _, cell := range row {
			if len(cell) > 1 {
				return false
			}
		}
	}
	return true
}

// column returns the column for sym, allocating it if needed.
func (a *Automaton) column(sym Symbol) int {
	if sym >= SymbolCount {
		invariant("column", InvalidState, "symbol %d out of range", uint16(sym))
	}
	if c := a.lookup[sym]; c != 0 {
		return int(c) - 1
	}
	a.columns = append(a.columns, sym)
	col := len(a.columns) - 1
	a.lookup[sym] = conv.IntToUint16(col + 1)
	a.order = append(a.order, col)
	slices.SortFunc(a.order, func(x, y int) int {
		return int(a.columns[x]) - int(a.columns[y])
	})
	return col
}

// AddTransition appends dst to the destinations of (src, sym). Multi-edges
// are allowed: adding the same edge twice stores it twice.
func (a *Automaton) AddTransition(src, dst StateID, sym Symbol) {
	a.check("AddTransition", src)
	a.check("AddTransition", dst)
	col := a.column(sym)
	row := a.table[src]
	if len(row) <= col {
		row = append(row, make([][]StateID, col+1-len(row))...)
	}
	row[col] = append(row[col], dst)
	a.table[src] = row
	if sym == Epsilon || len(row[col]) > 1 {
		a.deterministic = false
	}
}

// RemoveTransition removes one occurrence of (src, dst, sym) and reports
// whether it was present. Annotations are dropped with the last occurrence.
func (a *Automaton) RemoveTransition(src, dst StateID, sym Symbol) bool {
	a.check("RemoveTransition", src)
	cell := a.cell(src, sym)
	if cell == nil {
		return false
	}
	idx := slices.Index(*cell, dst)
	if idx < 0 {
		return false
	}
	*cell = slices.Delete(*cell, idx, idx+1)
	if !slices.Contains(*cell, dst) {
		k := EdgeKey{From: src, To: dst, Symbol: sym}
		delete(a.entering, k)
		delete(a.leaving, k)
	}
	return true
}

func (a *Automaton) cell(src StateID, sym Symbol) *[]StateID {
	if sym >= SymbolCount {
		return nil
	}
	c := a.lookup[sym]
	row := a.table[src]
	if c == 0 || int(c) > len(row) {
		return nil
	}
	return &row[c-1]
}

// HasTransition reports whether at least one (src, dst, sym) edge exists.
func (a *Automaton) HasTransition(src, dst StateID, sym Symbol) bool {
	a.check("HasTransition", src)
	cell := a.cell(src, sym)
	return cell != nil && slices.Contains(*cell, dst)
}

// Targets returns the destinations of (src, sym) in insertion order.
// The slice aliases internal storage and must not be modified.
func (a *Automaton) Targets(src StateID, sym Symbol) []StateID {
	a.check("Targets", src)
	if cell := a.cell(src, sym); cell != nil {
		return *cell
	}
	return nil
}

// Symbols returns every symbol that has a column, in ascending order.
// Epsilon, when present, is last.
func (a *Automaton) Symbols() []Symbol {
	out := make([]Symbol, 0, len(a.order))
	for _, col := range a.order {
		out = append(out, a.columns[col])
	}
	return out
}

// OutSymbols returns the symbols labelling at least one edge leaving src,
// in ascending order.
func (a *Automaton) OutSymbols(src StateID) []Symbol {
	a.check("OutSymbols", src)
	row := a.table[src]
	var out []Symbol
	for _, col := range a.order {
		if col < len(row) && len(row[col]) > 0 {
			out = append(out, a.columns[col])
		}
	}
	return out
}

// ForEachEdge calls fn for every edge leaving src, by ascending symbol and
// then insertion order.
func (a *Automaton) ForEachEdge(src StateID, fn func(sym Symbol, dst StateID)) {
	a.check("ForEachEdge", src)
	row := a.table[src]
	for _, col := range a.order {
		if col >= len(row) {
			continue
		}
		sym := a.columns[col]
		for _, dst := range row[col] {
			fn(sym, dst)
		}
	}
}

// EdgeCount returns the total number of stored edges, counting multi-edges.
func (a *Automaton) EdgeCount() int {
	n := 0
	for _, row := range a.table {
		for _, cell := range row {
			n += len(cell)
		}
	}
	return n
}

// HasEpsilon reports whether any epsilon edge is stored.
func (a *Automaton) HasEpsilon() bool {
	c := a.lookup[Epsilon]
	if c == 0 {
		return false
	}
	for _, row := range a.table {
		if int(c) <= len(row) && len(row[c-1]) > 0 {
			return true
		}
	}
	return false
}

// Predecessors returns, for every state, the edges entering it (real and
// epsilon) in source order.
func (a *Automaton) Predecessors() [][]EdgeKey {
	preds := make([][]EdgeKey, len(a.states))
	for src := range a.table {
		if a.states[src].removed {
			continue
		}
		a.ForEachEdge(StateID(src), func(sym Symbol, dst StateID) {
			preds[dst] = append(preds[dst], EdgeKey{From: StateID(src), To: dst, Symbol: sym})
		})
	}
	return preds
}

// RemoveState tombstones id: its edges in both directions, its start mark
// and every annotation touching it are dropped. Ids are not shifted until
// Compact.
func (a *Automaton) RemoveState(id StateID) {
	a.RemoveStates([]StateID{id})
}

// RemoveStates tombstones every id in ids in a single pass over the table.
func (a *Automaton) RemoveStates(ids []StateID) {
	if len(ids) == 0 {
		return
	}
	doomed := bitset.New(uint(len(a.states)))
	for _, id := range ids {
		a.check("RemoveState", id)
		doomed.Set(uint(id))
	}
	for i, ok := doomed.NextSet(0); ok; i, ok = doomed.NextSet(i + 1) {
		id := StateID(i)
		a.states[id] = State{removed: true}
		a.table[id] = nil
		delete(a.accept, id)
		a.removed++
	}
	for src, row := range a.table {
		for col, cell := range row {
			row[col] = slices.DeleteFunc(cell, func(dst StateID) bool {
				return doomed.Test(uint(dst))
			})
		}
		a.table[src] = row
	}
	a.starts = slices.DeleteFunc(a.starts, func(s StateID) bool {
		return doomed.Test(uint(s))
	})
	touches := func(k EdgeKey, _ *bitset.BitSet) bool {
		return doomed.Test(uint(k.From)) || doomed.Test(uint(k.To))
	}
	deleteKeys(a.entering, touches)
	deleteKeys(a.leaving, touches)
}

func deleteKeys(m map[EdgeKey]*bitset.BitSet, pred func(EdgeKey, *bitset.BitSet) bool) {
	for k, v := range m {
		if pred(k, v) {
			delete(m, k)
		}
	}
}

// Compact renumbers the live states densely, preserving their relative
// order, and rewrites every reference to them. It returns the old-to-new id
// mapping, with InvalidState for removed states.
func (a *Automaton) Compact() []StateID {
	remap := make([]StateID, len(a.states))
	next := StateID(0)
	for i, s := range a.states {
		if s.removed {
			remap[i] = InvalidState
			continue
		}
		remap[i] = next
		next++
	}
	if a.removed == 0 {
		return remap
	}

	states := make([]State, 0, next)
	table := make([][][]StateID, 0, next)
	for i, s := range a.states {
		if s.removed {
			continue
		}
		row := a.table[i]
		for _, cell := range row {
			for j, dst := range cell {
				cell[j] = remap[dst]
			}
		}
		states = append(states, s)
		table = append(table, row)
	}
	a.states = states
	a.table = table
	for i, s := range a.starts {
		a.starts[i] = remap[s]
	}
	a.entering = rekey(a.entering, remap)
	a.leaving = rekey(a.leaving, remap)
	accept := make(map[StateID]*bitset.BitSet, len(a.accept))
	for id, set := range a.accept {
		accept[remap[id]] = set
	}
	a.accept = accept
	a.removed = 0
	return remap
}

func rekey(m map[EdgeKey]*bitset.BitSet, remap []StateID) map[EdgeKey]*bitset.BitSet {
	out := make(map[EdgeKey]*bitset.BitSet, len(m))
	for k, set := range m {
		out[EdgeKey{From: remap[k.From], To: remap[k.To], Symbol: k.Symbol}] = set
	}
	return out
}

// Clone returns a deep copy of the automaton.
func (a *Automaton) Clone() *Automaton {
	c := &Automaton{
		states:        slices.Clone(a.states),
		table:         make([][][]StateID, len(a.table)),
		lookup:        a.lookup,
		columns:       slices.Clone(a.columns),
		order:         slices.Clone(a.order),
		starts:        slices.Clone(a.starts),
		removed:       a.removed,
		deterministic: a.deterministic,
		entering:      cloneSets(a.entering),
		leaving:       cloneSets(a.leaving),
		accept:        make(map[StateID]*bitset.BitSet, len(a.accept)),
	}
	for i, row := range a.table {
		if row == nil {
			continue
		}
		r := make([][]StateID, len(row))
		for j, cell := range row {
			r[j] = slices.Clone(cell)
		}
		c.table[i] = r
	}
	for id, set := range a.accept {
		c.accept[id] = set.Clone()
	}
	return c
}

func cloneSets(m map[EdgeKey]*bitset.BitSet) map[EdgeKey]*bitset.BitSet {
	out := make(map[EdgeKey]*bitset.BitSet, len(m))
	for k, set := range m {
		out[k] = set.Clone()
	}
	return out
}

// String returns a short summary of the automaton.
func (a *Automaton) String() string {
	return fmt.Sprintf("Automaton{states: %d, edges: %d, starts: %v, terminals: %v, deterministic: %v}",
		a.LiveStates(), a.EdgeCount(), a.starts, a.Terminals(), a.deterministic)
}

func (a *Automaton) check(op string, id StateID) {
	if int(id) >= len(a.states) {
		invariant(op, id, "out of range (%d states)", len(a.states))
	}
	if a.states[id].removed {
		invariant(op, id, "state has been removed")
	}
}
