package dfa

import (
	"github.com/coregx/rationl/automaton"
)

// SearchDFA is a deterministic automaton augmented for substring scanning.
//
// States are visited breadth-first from the start. Each state q has a depth
// (its breadth-first distance from the start) and a failure state: the state
// reached by the longest proper suffix of the shortest input leading to q
// that is still a prefix of some match. For a non-terminal, non-start q and a
// letter c with no edge from q, a shortcut edge q -c-> δ(failure(q), c) is
// added when that target exists. Its skip, depth(q)+1-depth(target), is the
// number of positions the candidate match start advances when the shortcut is
// taken, so the scanner never moves the input pointer backwards.
//
// For a single literal the failure depths equal the classical prefix-function
// table and the scanner is exact. Patterns whose automaton is not a chain may
// miss overlapping candidates; callers only use SearchDFA for literals.
type SearchDFA struct {
	a       *automaton.Automaton
	start   automaton.StateID
	skip    map[automaton.EdgeKey]int
	failure []automaton.StateID
	depth   []int
}

// BuildSearchDFA determinizes a (when needed) and adds failure shortcuts.
func BuildSearchDFA(a *automaton.Automaton) *SearchDFA {
	var d *automaton.Automaton
	if a.IsDeterministic() {
		d = a.Clone()
		d.Compact()
	} else {
		d = Determinize(a)
	}

	n := d.States()
	s := &SearchDFA{
		a:       d,
		start:   d.Starts()[0],
		skip:    make(map[automaton.EdgeKey]int),
		failure: make([]automaton.StateID, n),
		depth:   make([]int, n),
	}
	for i := range s.failure {
		s.failure[i] = automaton.InvalidState
		s.depth[i] = -1
	}

	letters := d.Symbols()
	s0 := s.start
	s.depth[s0] = 0
	s.failure[s0] = s0
	queue := []automaton.StateID{s0}

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]

		// Discover children before adding shortcuts so only original edges
		// shape the breadth-first tree.
		for _, c := range d.OutSymbols(q) {
			for _, r := range d.Targets(q, c) {
				if s.depth[r] >= 0 {
					continue
				}
				s.depth[r] = s.depth[q] + 1
				if q == s0 {
					s.failure[r] = s0
				} else {
					s.failure[r] = s.follow(s.failure[q], c)
				}
				if s.failure[r] == r {
					s.failure[r] = s0
				}
				queue = append(queue, r)
			}
		}

		if q == s0 || d.IsTerminal(q) {
			continue
		}
		f := s.failure[q]
		for _, c := range letters {
			if len(d.Targets(q, c)) > 0 {
				continue
			}
			ts := d.Targets(f, c)
			if len(ts) == 0 || s.depth[ts[0]] < 0 {
				continue
			}
			t := ts[0]
			d.AddTransition(q, t, c)
			s.skip[automaton.EdgeKey{From: q, To: t, Symbol: c}] = s.depth[q] + 1 - s.depth[t]
		}
	}
	return s
}

// follow returns the state reached from f on c, walking failure links until
// an edge exists or the start state is reached.
func (s *SearchDFA) follow(f automaton.StateID, c automaton.Symbol) automaton.StateID {
	for {
		if ts := s.a.Targets(f, c); len(ts) > 0 {
			return ts[0]
		}
		next := s.failure[f]
		if f == s.start || next == automaton.InvalidState || next == f {
			return s.start
		}
		f = next
	}
}

// Automaton returns the augmented automaton. Shortcut edges are ordinary
// edges; Skip tells them apart.
func (s *SearchDFA) Automaton() *automaton.Automaton {
	return s.a
}

// Skip returns the skip annotation of a shortcut edge.
func (s *SearchDFA) Skip(k automaton.EdgeKey) (int, bool) {
	n, ok := s.skip[k]
	return n, ok
}

// Shortcuts returns the number of shortcut edges.
func (s *SearchDFA) Shortcuts() int {
	return len(s.skip)
}

// Failure returns the failure state of id, or InvalidState for a state not
// reachable from the start.
func (s *SearchDFA) Failure(id automaton.StateID) automaton.StateID {
	return s.failure[id]
}

// Depth returns the breadth-first depth of id, or -1 when unreachable.
func (s *SearchDFA) Depth(id automaton.StateID) int {
	return s.depth[id]
}

// Find returns the first match ending at or after at, scanning each byte of
// subject once.
func (s *SearchDFA) Find(subject []byte, at int) (start, end int, ok bool) {
	if at < 0 || at > len(subject) {
		return -1, -1, false
	}
	if s.a.IsTerminal(s.start) {
		return at, at, true
	}

	q := s.start
	start = at
	for i := at; i < len(subject); i++ {
		c := automaton.Byte(subject[i])
		ts := s.a.Targets(q, c)
		if len(ts) == 0 {
			if q == s.start {
				start = i + 1
				continue
			}
			// Dead end: retry the same byte from the start state.
			q = s.start
			start = i
			i--
			continue
		}
		t := ts[0]
		if n, shortcut := s.skip[automaton.EdgeKey{From: q, To: t, Symbol: c}]; shortcut {
			start += n
		} else if q == s.start {
			start = i
		}
		q = t
		if s.a.IsTerminal(q) {
			return start, i + 1, true
		}
	}
	return -1, -1, false
}

// FindAll returns all non-overlapping matches as [start, end] pairs.
func (s *SearchDFA) FindAll(subject []byte) [][2]int {
	var out [][2]int
	for at := 0; at <= len(subject); {
		start, end, ok := s.Find(subject, at)
		if !ok {
			break
		}
		out = append(out, [2]int{start, end})
		if end > at {
			at = end
		} else {
			at++
		}
	}
	return out
}
