package nfa

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/rationl/automaton"
)

func TestEliminateEpsilon_PreservesLanguage(t *testing.T) {
	for _, pattern := range corpusPatterns {
		t.Run(pattern, func(t *testing.T) {
			raw := mustCompile(t, pattern)
			edges := raw.EdgeCount()

			free := EliminateEpsilon(raw)
			if free.HasEpsilon() {
				t.Fatal("epsilon edges survived")
			}
			if raw.EdgeCount() != edges {
				t.Error("input automaton was modified")
			}
			sameLanguage(t, raw, free, "abcd1", 5)
		})
	}
}

func TestEliminateEpsilon_StartsAbsorbSuccessors(t *testing.T) {
	// 0 -ε-> 1 -ε-> 2 -a-> 3
	a := automaton.New()
	var s [4]automaton.StateID
	for i := range s {
		s[i] = a.AddState(i == 3)
	}
	a.AddStart(s[0])
	a.AddTransition(s[0], s[1], automaton.Epsilon)
	a.AddTransition(s[1], s[2], automaton.Epsilon)
	a.AddTransition(s[2], s[3], 'a')

	free := EliminateEpsilon(a)
	if diff := cmp.Diff([]automaton.StateID{0, 1, 2}, sorted(free.Starts())); diff != "" {
		t.Errorf("Starts() mismatch (-want +got):\n%s", diff)
	}
	for _, src := range []automaton.StateID{0, 1, 2} {
		if !free.HasTransition(src, 3, 'a') {
			t.Errorf("missing edge %d -a-> 3", src)
		}
	}
}

func TestEliminateEpsilon_TerminalInherited(t *testing.T) {
	// 0 -a-> 1 -ε-> 2(accept), with an epsilon cycle 2 -ε-> 1.
	a := automaton.New()
	s0 := a.AddState(false)
	s1 := a.AddState(false)
	s2 := a.AddState(true)
	a.AddStart(s0)
	a.AddTransition(s0, s1, 'a')
	a.AddTransition(s1, s2, automaton.Epsilon)
	a.AddTransition(s2, s1, automaton.Epsilon)
	a.AddTransition(s1, s1, automaton.Epsilon)

	free := EliminateEpsilon(a)
	if !free.IsTerminal(s1) {
		t.Error("state 1 did not inherit terminal status")
	}
	sameLanguage(t, a, free, "ab", 4)
}

func TestEliminateEpsilon_RelocatesGroups(t *testing.T) {
	free := EliminateEpsilon(mustCompile(t, `(a)b`))

	var enterA, leaveB bool
	for _, k := range free.AnnotatedEdges() {
		if k.Symbol == 'a' && slices.Equal(free.EnteringGroups(k), []int{1}) {
			enterA = true
		}
		if k.Symbol == 'b' && slices.Equal(free.LeavingGroups(k), []int{1}) {
			leaveB = true
		}
	}
	if !enterA {
		t.Error("no 'a' edge enters group 1")
	}
	if !leaveB {
		t.Error("no 'b' edge leaves group 1")
	}
}

func TestEliminateEpsilon_AcceptGroups(t *testing.T) {
	free := EliminateEpsilon(mustCompile(t, `x(a)`))

	found := false
	for _, id := range free.Terminals() {
		if slices.Equal(free.AcceptGroups(id), []int{1}) {
			found = true
		}
	}
	if !found {
		t.Error("no accepting state closes group 1")
	}
}

func TestEliminateEpsilon_NestedGroups(t *testing.T) {
	free := EliminateEpsilon(mustCompile(t, `((a))`))

	start := free.Starts()[0]
	for _, k := range free.AnnotatedEdges() {
		if k.Symbol == 'a' && k.From == start {
			if diff := cmp.Diff([]int{1, 2}, free.EnteringGroups(k)); diff != "" {
				t.Errorf("EnteringGroups mismatch (-want +got):\n%s", diff)
			}
		}
	}
	found := false
	for _, id := range free.Terminals() {
		if slices.Equal(free.AcceptGroups(id), []int{1, 2}) {
			found = true
		}
	}
	if !found {
		t.Error("no accepting state closes groups 1 and 2")
	}
}

func TestEliminateEpsilon_EpsilonFreeInput(t *testing.T) {
	a := automaton.New()
	s0 := a.AddState(false)
	s1 := a.AddState(true)
	a.AddStart(s0)
	a.AddTransition(s0, s1, 'a')

	free := EliminateEpsilon(a)
	if free == a {
		t.Fatal("EliminateEpsilon returned its input")
	}
	if free.States() != 2 || !free.HasTransition(s0, s1, 'a') {
		t.Errorf("epsilon-free input changed: %s", free)
	}
}

func TestEliminateEpsilon_LongOptionalChain(t *testing.T) {
	// Every state of (a?){200} reaches most of the others by epsilon alone.
	raw := mustCompile(t, `(?:a?){200}`)
	letters := 0
	for id := 0; id < raw.States(); id++ {
		letters += len(raw.Targets(automaton.StateID(id), 'a'))
	}

	start := time.Now()
	free := EliminateEpsilon(raw)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("EliminateEpsilon took %v", elapsed)
	}
	if free.HasEpsilon() {
		t.Fatal("epsilon edges survived")
	}
	if got, limit := free.EdgeCount(), free.States()*letters; got > limit {
		t.Errorf("EdgeCount() = %d, want at most %d", got, limit)
	}

	sim := NewSimulator(free)
	tests := []struct {
		n    int
		want bool
	}{
		{0, true},
		{1, true},
		{137, true},
		{200, true},
		{201, false},
	}
	for _, tt := range tests {
		if got := sim.Accepts([]byte(strings.Repeat("a", tt.n))); got != tt.want {
			t.Errorf("Accepts(a^%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestEliminateEpsilon_NumberingIndependent(t *testing.T) {
	patterns := []string{
		`(a)b`,
		`x(a)`,
		`((a))`,
		`(a*)(b|(c))*`,
		`((a|b)*c)?d`,
		`(a|)+(b)`,
		`(?:(a)|b(c)?)+`,
	}
	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			raw := mustCompile(t, pattern)
			n := raw.States()
			perm := make([]automaton.StateID, n)
			for i := range perm {
				perm[i] = automaton.StateID(n - 1 - i)
			}

			want := EliminateEpsilon(raw)
			got := EliminateEpsilon(renumber(raw, perm))
			sameLanguage(t, want, got, "abcdx", 5)

			if want.EdgeCount() != got.EdgeCount() {
				t.Fatalf("EdgeCount() = %d, want %d", got.EdgeCount(), want.EdgeCount())
			}
			for id := 0; id < n; id++ {
				s := automaton.StateID(id)
				if want.IsTerminal(s) != got.IsTerminal(perm[s]) {
					t.Errorf("state %d: terminal mismatch", s)
				}
				if want.IsStart(s) != got.IsStart(perm[s]) {
					t.Errorf("state %d: start mismatch", s)
				}
				if diff := cmp.Diff(want.AcceptGroups(s), got.AcceptGroups(perm[s])); diff != "" {
					t.Errorf("state %d: AcceptGroups mismatch (-want +got):\n%s", s, diff)
				}
				want.ForEachEdge(s, func(sym automaton.Symbol, dst automaton.StateID) {
					if !got.HasTransition(perm[s], perm[dst], sym) {
						t.Errorf("missing edge %d -%q-> %d", s, rune(sym), dst)
						return
					}
					k := automaton.EdgeKey{From: s, To: dst, Symbol: sym}
					pk := automaton.EdgeKey{From: perm[s], To: perm[dst], Symbol: sym}
					if diff := cmp.Diff(want.EnteringGroups(k), got.EnteringGroups(pk)); diff != "" {
						t.Errorf("%s: EnteringGroups mismatch (-want +got):\n%s", k, diff)
					}
					if diff := cmp.Diff(want.LeavingGroups(k), got.LeavingGroups(pk)); diff != "" {
						t.Errorf("%s: LeavingGroups mismatch (-want +got):\n%s", k, diff)
					}
				})
			}
		})
	}
}

// renumber copies a, moving state i to perm[i], annotations included.
func renumber(a *automaton.Automaton, perm []automaton.StateID) *automaton.Automaton {
	n := a.States()
	inv := make([]automaton.StateID, n)
	for i, p := range perm {
		inv[p] = automaton.StateID(i)
	}
	out := automaton.NewWithCapacity(n)
	for i := 0; i < n; i++ {
		out.AddState(a.IsTerminal(inv[i]))
	}
	for _, s := range a.Starts() {
		out.AddStart(perm[s])
	}
	for i := 0; i < n; i++ {
		s := inv[i]
		a.ForEachEdge(s, func(sym automaton.Symbol, dst automaton.StateID) {
			out.AddTransition(perm[s], perm[dst], sym)
		})
		for _, g := range a.AcceptGroups(s) {
			out.MarkAcceptGroup(perm[s], g)
		}
	}
	for _, k := range a.AnnotatedEdges() {
		pk := automaton.EdgeKey{From: perm[k.From], To: perm[k.To], Symbol: k.Symbol}
		for _, g := range a.EnteringGroups(k) {
			out.MarkEnteringGroup(pk, g)
		}
		for _, g := range a.LeavingGroups(k) {
			out.MarkLeavingGroup(pk, g)
		}
	}
	return out
}

func sorted(ids []automaton.StateID) []automaton.StateID {
	slices.Sort(ids)
	return ids
}
