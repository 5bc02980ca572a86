package automaton

import (
	"strings"
	"testing"
)

func TestWriteDot(t *testing.T) {
	a := New()
	s0 := a.AddState(false)
	s1 := a.AddState(true)
	a.AddStart(s0)
	a.AddTransition(s0, s1, 'a')
	a.AddTransition(s0, s1, 'b')
	a.AddTransition(s1, s0, Epsilon)
	a.AddTransition(s1, s1, '"')

	var sb strings.Builder
	if err := WriteDot(&sb, a); err != nil {
		t.Fatalf("WriteDot: %v", err)
	}
	out := sb.String()

	want := []string{
		"digraph automaton {",
		`s1 [label="1", shape=doublecircle];`,
		`s0 [label="0"];`,
		"start0 [shape=point];",
		"start0 -> s0;",
		`s0 -> s1 [label="a,b"];`,
		`s1 -> s0 [label="ε"];`,
		`s1 -> s1 [label="\""];`,
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q\n%s", w, out)
		}
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("output not terminated:\n%s", out)
	}
}

func TestWriteDot_SkipsRemovedStates(t *testing.T) {
	a := New()
	s0 := a.AddState(false)
	s1 := a.AddState(true)
	a.AddTransition(s0, s1, 'a')
	a.RemoveState(s1)

	var sb strings.Builder
	if err := WriteDot(&sb, a); err != nil {
		t.Fatalf("WriteDot: %v", err)
	}
	if strings.Contains(sb.String(), "s1") {
		t.Errorf("removed state rendered:\n%s", sb.String())
	}
}
