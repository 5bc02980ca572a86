package dfa

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/nfa"
)

func TestDeterminize_PreservesLanguage(t *testing.T) {
	for _, pattern := range languagePatterns {
		t.Run(pattern, func(t *testing.T) {
			raw := compile(t, pattern)
			d := Determinize(nfa.EliminateEpsilon(raw))

			if !d.IsDeterministic() {
				t.Error("result not marked deterministic")
			}
			if len(d.Starts()) != 1 {
				t.Errorf("Starts() = %v, want one", d.Starts())
			}
			if d.HasEpsilon() {
				t.Error("result has epsilon edges")
			}
			sameLanguage(t, raw, d)
		})
	}
}

func TestDeterminize_EliminatesEpsilonItself(t *testing.T) {
	raw := compile(t, `a(b|c)*a`)
	direct := Determinize(raw)
	staged := Determinize(nfa.EliminateEpsilon(raw))
	if direct.States() != staged.States() {
		t.Errorf("States() = %d, want %d", direct.States(), staged.States())
	}
	sameLanguage(t, direct, staged)
}

func TestDeterminize_DeterministicInputIsIsomorphic(t *testing.T) {
	for _, pattern := range languagePatterns {
		t.Run(pattern, func(t *testing.T) {
			d := Determinize(compile(t, pattern))
			dd := Determinize(d)
			if diff := cmp.Diff(fixture(t, d), fixture(t, dd)); diff != "" {
				t.Errorf("redeterminized automaton differs (-once +twice):\n%s", diff)
			}
		})
	}
}

func TestDeterminize_NoStart(t *testing.T) {
	a := automaton.New()
	s := a.AddState(true)
	a.AddTransition(s, s, 'a')

	d := Determinize(a)
	if d.States() != 1 || len(d.Starts()) != 1 || d.IsTerminal(d.Starts()[0]) {
		t.Errorf("Determinize of a startless automaton = %s", d)
	}
	if d.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", d.EdgeCount())
	}
}

func TestDeterminize_MergesStarts(t *testing.T) {
	a := parseFixture(t, `
$ -> 0
$ -> 1
0 -> 2 a
1 -> 3 a
2 -> $
3 -> 4 b
4 -> $
`)
	d := Determinize(a)
	want := `$ -> 0
0 -> 1 a
1 -> 2 b
1 -> $
2 -> $
`
	if diff := cmp.Diff(want, fixture(t, d)); diff != "" {
		t.Errorf("Determinize mismatch (-want +got):\n%s", diff)
	}
}

func TestDeterminizeLimit(t *testing.T) {
	// The n-th letter from the end is an 'a': 2^5 subsets.
	raw := compile(t, `(a|b)*a(a|b)(a|b)(a|b)(a|b)`)

	if _, err := DeterminizeLimit(raw, 10); !errors.Is(err, ErrStateLimitExceeded) {
		t.Errorf("DeterminizeLimit(10) error = %v, want ErrStateLimitExceeded", err)
	}
	d, err := DeterminizeLimit(raw, 1000)
	if err != nil {
		t.Fatalf("DeterminizeLimit(1000): %v", err)
	}
	if d.States() < 32 {
		t.Errorf("States() = %d, want at least 32", d.States())
	}
	if m := Minimize(d); m.States() != 32 {
		t.Errorf("minimal States() = %d, want 32", m.States())
	}
	if _, err := DeterminizeLimit(raw, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("DeterminizeLimit(0) error = %v, want ErrInvalidConfig", err)
	}

	var derr *DFAError
	if _, err := DeterminizeLimit(raw, 3); !errors.As(err, &derr) || derr.Kind != StateLimitExceeded {
		t.Errorf("error kind = %v, want StateLimitExceeded", err)
	}
}

func TestDeterminize_CarriesGroups(t *testing.T) {
	d := Determinize(compile(t, `(a)b`))

	var enterA, leaveB bool
	for _, k := range d.AnnotatedEdges() {
		if k.Symbol == 'a' && slices.Equal(d.EnteringGroups(k), []int{1}) {
			enterA = true
		}
		if k.Symbol == 'b' && slices.Equal(d.LeavingGroups(k), []int{1}) {
			leaveB = true
		}
	}
	if !enterA || !leaveB {
		t.Errorf("group marks lost: entering on a=%v, leaving on b=%v", enterA, leaveB)
	}

	d = Determinize(compile(t, `x(a)`))
	for _, id := range d.Terminals() {
		if diff := cmp.Diff([]int{1}, d.AcceptGroups(id)); diff != "" {
			t.Errorf("AcceptGroups(%d) mismatch (-want +got):\n%s", id, diff)
		}
	}
}

func TestSubsetTable_CollisionsCompareMembers(t *testing.T) {
	table := newSubsetTable(0)
	x := []automaton.StateID{1, 2}
	key := table.key(x)
	if err := table.insert(key, x, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id, ok := table.lookup(key, x); !ok || id != 0 {
		t.Errorf("lookup(x) = %d, %v", id, ok)
	}
	// Same bucket, different members.
	if _, ok := table.lookup(key, []automaton.StateID{3}); ok {
		t.Error("lookup matched a different subset in the same bucket")
	}
}
