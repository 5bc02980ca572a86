package nfa

import (
	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/internal/conv"
	"github.com/coregx/rationl/internal/sparse"
)

// Span is a match position: subject[Start:End].
type Span struct {
	Start int
	End   int
}

// Len returns the length of the matched text.
func (s Span) Len() int {
	return s.End - s.Start
}

// CandidateFunc returns the first position at or after at where a match may
// start, or -1 when no match can start at or after at. Search only attempts
// matches at positions it returns.
type CandidateFunc func(subject []byte, at int) int

// Simulator executes an automaton breadth-first over a byte subject.
//
// It accepts any automaton: epsilon edges are followed without consuming
// input, multi-edges and several start states are allowed. Matches are
// leftmost-longest: among the matches starting at the leftmost possible
// position, the longest wins.
//
// Thread safety: Simulator is immutable after creation. Methods without a
// State argument allocate their own; for hot loops, keep one State per
// goroutine and use the *WithState variants.
type Simulator struct {
	a        *automaton.Automaton
	starts   []automaton.StateID
	terminal []bool
	epsilon  bool
}

// State holds the mutable frontier sets of one simulation. A State must not
// be shared between goroutines.
type State struct {
	cur   *sparse.SparseSet
	next  *sparse.SparseSet
	stack []automaton.StateID
}

// NewSimulator creates a simulator for a. The automaton must not be modified
// while the simulator is in use.
func NewSimulator(a *automaton.Automaton) *Simulator {
	n := a.States()
	s := &Simulator{
		a:        a,
		starts:   a.Starts(),
		terminal: make([]bool, n),
		epsilon:  a.HasEpsilon(),
	}
	for _, id := range a.Terminals() {
		s.terminal[id] = true
	}
	return s
}

// Automaton returns the simulated automaton.
func (s *Simulator) Automaton() *automaton.Automaton {
	return s.a
}

// NewState allocates frontier sets sized for this simulator.
func (s *Simulator) NewState() *State {
	n := conv.IntToUint32(s.a.States())
	return &State{
		cur:  sparse.NewSparseSet(n),
		next: sparse.NewSparseSet(n),
	}
}

// Accepts reports whether the whole subject is in the language.
func (s *Simulator) Accepts(subject []byte) bool {
	return s.AcceptsWithState(subject, s.NewState())
}

// AcceptsWithState is Accepts using caller-provided state.
func (s *Simulator) AcceptsWithState(subject []byte, st *State) bool {
	st.cur.Clear()
	for _, q := range s.starts {
		s.addClosure(st, st.cur, q)
	}
	for _, b := range subject {
		if st.cur.IsEmpty() {
			return false
		}
		s.step(st, b)
	}
	return s.anyTerminal(st.cur)
}

// Match returns the longest match anchored at the start of subject.
func (s *Simulator) Match(subject []byte) (Span, bool) {
	return s.MatchAt(subject, 0)
}

// MatchAt returns the longest match of subject starting exactly at at.
func (s *Simulator) MatchAt(subject []byte, at int) (Span, bool) {
	return s.MatchAtWithState(subject, at, s.NewState())
}

// MatchAtWithState is MatchAt using caller-provided state.
func (s *Simulator) MatchAtWithState(subject []byte, at int, st *State) (Span, bool) {
	if at < 0 || at > len(subject) {
		return Span{}, false
	}
	st.cur.Clear()
	for _, q := range s.starts {
		s.addClosure(st, st.cur, q)
	}

	best := -1
	for pos := at; ; pos++ {
		if s.anyTerminal(st.cur) {
			best = pos
		}
		if pos == len(subject) || st.cur.IsEmpty() {
			break
		}
		s.step(st, subject[pos])
	}
	if best < 0 {
		return Span{}, false
	}
	return Span{Start: at, End: best}, true
}

// Search returns all non-overlapping leftmost-longest matches in subject.
//
// After a match the scan resumes at its end; where no match starts, it
// advances one byte. An empty match immediately following the previous
// match is not reported, so a* over "baaab" yields [0,0], [1,4], [5,5].
func (s *Simulator) Search(subject []byte) []Span {
	return s.SearchFunc(subject, nil)
}

// SearchFunc is Search restricted to the start positions reported by next.
// A nil next tries every position.
func (s *Simulator) SearchFunc(subject []byte, next CandidateFunc) []Span {
	var spans []Span
	s.scan(subject, next, s.NewState(), func(sp Span) {
		spans = append(spans, sp)
	})
	return spans
}

// Find returns the leftmost-longest match at or after at.
func (s *Simulator) Find(subject []byte, at int, next CandidateFunc) (Span, bool) {
	return s.FindWithState(subject, at, next, s.NewState())
}

// FindWithState is Find using caller-provided state.
func (s *Simulator) FindWithState(subject []byte, at int, next CandidateFunc, st *State) (Span, bool) {
	for pos := max(at, 0); pos <= len(subject); pos++ {
		if next != nil {
			if pos = next(subject, pos); pos < 0 {
				break
			}
		}
		if sp, ok := s.MatchAtWithState(subject, pos, st); ok {
			return sp, true
		}
	}
	return Span{}, false
}

// ScanWithState calls emit for each match Search would report, in order,
// using caller-provided state.
func (s *Simulator) ScanWithState(subject []byte, next CandidateFunc, st *State, emit func(Span)) {
	s.scan(subject, next, st, emit)
}

// Replace returns a copy of subject with every match reported by Search
// replaced by repl.
func (s *Simulator) Replace(subject, repl []byte) []byte {
	return s.ReplaceFunc(subject, repl, nil)
}

// ReplaceFunc is Replace with the candidate positions restricted by next.
func (s *Simulator) ReplaceFunc(subject, repl []byte, next CandidateFunc) []byte {
	out := make([]byte, 0, len(subject))
	last := 0
	s.scan(subject, next, s.NewState(), func(sp Span) {
		out = append(out, subject[last:sp.Start]...)
		out = append(out, repl...)
		last = sp.End
	})
	return append(out, subject[last:]...)
}

func (s *Simulator) scan(subject []byte, next CandidateFunc, st *State, emit func(Span)) {
	prevEnd := -1
	for pos := 0; pos <= len(subject); {
		if next != nil {
			if pos = next(subject, pos); pos < 0 {
				return
			}
		}
		sp, ok := s.MatchAtWithState(subject, pos, st)
		if !ok || (sp.End == pos && pos == prevEnd) {
			pos++
			continue
		}
		emit(sp)
		prevEnd = sp.End
		if sp.End > pos {
			pos = sp.End
		} else {
			pos++
		}
	}
}

// step advances the frontier over byte b.
func (s *Simulator) step(st *State, b byte) {
	st.next.Clear()
	sym := automaton.Byte(b)
	for _, q := range st.cur.Values() {
		for _, t := range s.a.Targets(automaton.StateID(q), sym) {
			s.addClosure(st, st.next, t)
		}
	}
	st.cur, st.next = st.next, st.cur
}

// addClosure inserts q and every state reachable from it by epsilon edges.
func (s *Simulator) addClosure(st *State, set *sparse.SparseSet, q automaton.StateID) {
	if !set.Insert(uint32(q)) || !s.epsilon {
		return
	}
	st.stack = append(st.stack[:0], q)
	for len(st.stack) > 0 {
		top := st.stack[len(st.stack)-1]
		st.stack = st.stack[:len(st.stack)-1]
		for _, t := range s.a.Targets(top, automaton.Epsilon) {
			if set.Insert(uint32(t)) {
				st.stack = append(st.stack, t)
			}
		}
	}
}

func (s *Simulator) anyTerminal(set *sparse.SparseSet) bool {
	for _, q := range set.Values() {
		if s.terminal[q] {
			return true
		}
	}
	return false
}
