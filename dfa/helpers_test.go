package dfa

import (
	"strings"
	"testing"

	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/nfa"
)

var languagePatterns = []string{
	`a`,
	`ab|ac`,
	`a*`,
	`(a|b)*c`,
	`a(b|c)*a`,
	`a?b*a`,
	`a{2,3}`,
	`[a-c]+d?`,
	`(ab|a)(bc|c)?`,
	`(a*)*b`,
	`(a|b)*abb`,
	`((a)|b)+`,
}

func compile(t *testing.T, pattern string) *automaton.Automaton {
	t.Helper()
	a, err := nfa.NewDefaultCompiler().Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return a
}

func accepts(a *automaton.Automaton, s string) bool {
	return nfa.NewSimulator(a).Accepts([]byte(s))
}

func allStrings(alphabet string, n int) []string {
	out := []string{""}
	layer := []string{""}
	for i := 0; i < n; i++ {
		var next []string
		for _, s := range layer {
			for j := 0; j < len(alphabet); j++ {
				next = append(next, s+alphabet[j:j+1])
			}
		}
		out = append(out, next...)
		layer = next
	}
	return out
}

func sameLanguage(t *testing.T, x, y *automaton.Automaton) {
	t.Helper()
	sx, sy := nfa.NewSimulator(x), nfa.NewSimulator(y)
	for _, s := range allStrings("abcd", 6) {
		if gx, gy := sx.Accepts([]byte(s)), sy.Accepts([]byte(s)); gx != gy {
			t.Errorf("languages differ on %q: %v vs %v", s, gx, gy)
			return
		}
	}
}

func fixture(t *testing.T, a *automaton.Automaton) string {
	t.Helper()
	var sb strings.Builder
	if err := automaton.WriteFixture(&sb, a); err != nil {
		t.Fatalf("WriteFixture: %v", err)
	}
	return sb.String()
}

func parseFixture(t *testing.T, text string) *automaton.Automaton {
	t.Helper()
	a, err := automaton.ParseFixture(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	return a
}
