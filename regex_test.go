package rationl

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/nfa"
	"github.com/coregx/rationl/syntax"
)

func spans(matches []*Match) [][2]int {
	var out [][2]int
	for _, m := range matches {
		out = append(out, [2]int{m.Start(), m.End()})
	}
	return out
}

func TestSearch(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    [][2]int
	}{
		{"ab", "xababx", [][2]int{{1, 3}, {3, 5}}},
		{"a+", "baaabaab", [][2]int{{1, 4}, {5, 7}}},
		{"a*", "baaab", [][2]int{{0, 0}, {1, 4}, {5, 5}}},
		{"abc|ab", "ababc", [][2]int{{0, 2}, {2, 5}}},
		{"x", "", nil},
		{"", "", [][2]int{{0, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.subject, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if diff := cmp.Diff(tt.want, spans(re.SearchString(tt.subject))); diff != "" {
				t.Errorf("SearchString mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		pattern, subject, repl, want string
	}{
		{"a+", "baaabaab", "X", "bXbXb"},
		{"ab", "xababx", "", "xx"},
		{"b*", "abc", "-", "-a-c-"},
		{`\d+`, "no digits", "#", "no digits"},
		{"o", "foo", "0$1", "f0$10$1"},
	}
	for _, tt := range tests {
		re := MustCompile(tt.pattern)
		if got := re.ReplaceString(tt.subject, tt.repl); got != tt.want {
			t.Errorf("%q.ReplaceString(%q, %q) = %q, want %q", tt.pattern, tt.subject, tt.repl, got, tt.want)
		}
	}
}

func TestMatchIsAnchored(t *testing.T) {
	re := MustCompile("a?b*a")
	for _, s := range []string{"a", "ba", "bba", "aba"} {
		if !re.AcceptsString(s) {
			t.Errorf("AcceptsString(%q) = false", s)
		}
	}
	for _, s := range []string{"", "b", "abab"} {
		if re.AcceptsString(s) {
			t.Errorf("AcceptsString(%q) = true", s)
		}
	}

	if m := re.MatchString("abab"); m == nil || m.String() != "aba" {
		t.Errorf("MatchString(%q) = %v, want aba", "abab", m)
	}
	if m := re.MatchString("cab"); m != nil {
		t.Errorf("MatchString(%q) = %v, want nil", "cab", m)
	}
	if m := re.FindString("cab"); m == nil || m.Start() != 1 {
		t.Errorf("FindString(%q) = %v, want match at 1", "cab", m)
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		target  error
	}{
		{"a(b", nfa.ErrInvalidPattern},
		{"[z-a]", nfa.ErrInvalidPattern},
		{"a{3,1}", nfa.ErrInvalidPattern},
		{"^a", syntax.ErrUnsupported},
		{`a\b`, syntax.ErrUnsupported},
	}
	for _, tt := range tests {
		_, err := Compile(tt.pattern)
		if !errors.Is(err, tt.target) {
			t.Errorf("Compile(%q) error = %v, want %v", tt.pattern, err, tt.target)
		}
		var serr *syntax.Error
		if !errors.As(err, &serr) {
			t.Errorf("Compile(%q) error = %v does not wrap *syntax.Error", tt.pattern, err)
		}
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustCompile did not panic")
		}
	}()
	MustCompile("(")
}

func TestCompileWithConfig(t *testing.T) {
	config := DefaultConfig()
	config.FoldCase = true
	re, err := CompileWithConfig("hello", config)
	if err != nil {
		t.Fatal(err)
	}
	got := re.FindAllString("Hello HELLO help", -1)
	if diff := cmp.Diff([]string{"Hello", "HELLO"}, got); diff != "" {
		t.Errorf("FindAllString mismatch (-want +got):\n%s", diff)
	}

	config = DefaultConfig()
	config.DotNewline = true
	re, err = CompileWithConfig("a.b", config)
	if err != nil {
		t.Fatal(err)
	}
	if !re.AcceptsString("a\nb") {
		t.Error("DotNewline: '.' does not match newline")
	}
	if MustCompile("a.b").AcceptsString("a\nb") {
		t.Error("default config: '.' matches newline")
	}
}

func TestParseConfigFacade(t *testing.T) {
	config, err := ParseConfig([]byte("prune: false\n"))
	if err != nil {
		t.Fatal(err)
	}
	if config.Prune {
		t.Error("ParseConfig() kept Prune")
	}
}

func TestFindAllIndexLimit(t *testing.T) {
	re := MustCompile(`\d`)
	b := []byte("1 2 3 4")
	if got := re.FindAllIndex(b, 0); got != nil {
		t.Errorf("FindAllIndex(n=0) = %v", got)
	}
	if got := re.FindAllIndex(b, 2); len(got) != 2 {
		t.Errorf("FindAllIndex(n=2) = %v", got)
	}
	if got := re.Count(b); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	if got := re.FindIndex([]byte("ab")); got != nil {
		t.Errorf("FindIndex() = %v, want nil", got)
	}
}

func TestSplitMatchesStdlib(t *testing.T) {
	tests := []struct {
		pattern, s string
		n          int
	}{
		{",", "a,b,c", -1},
		{",", "a,b,c", 2},
		{",", "a,b,c", 1},
		{",", "", -1},
		{"x*", "axbxxc", -1},
		{"", "abc", -1},
		{" +", "  lead and trail  ", -1},
		{"[0-9]", "no digits", 3},
	}
	for _, tt := range tests {
		want := regexp.MustCompile(tt.pattern)
		want.Longest()
		if diff := cmp.Diff(want.Split(tt.s, tt.n), MustCompile(tt.pattern).Split(tt.s, tt.n)); diff != "" {
			t.Errorf("Split(%q, %q, %d) mismatch (-stdlib +got):\n%s", tt.pattern, tt.s, tt.n, diff)
		}
	}
	if got := MustCompile(",").Split("a,b", 0); got != nil {
		t.Errorf("Split(n=0) = %v, want nil", got)
	}
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct{ in, want string }{
		{"plain", "plain"},
		{"1.5+1", `1\.5\+1`},
		{`[a]{b}(c)|d^$`, `\[a\]\{b\}\(c\)\|d\^\$`},
	}
	for _, tt := range tests {
		if got := QuoteMeta(tt.in); got != tt.want {
			t.Errorf("QuoteMeta(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	re, err := Compile(QuoteMeta("a.b*c$"))
	if err != nil {
		t.Fatal(err)
	}
	if !re.AcceptsString("a.b*c$") || re.AcceptsString("axbc$") {
		t.Error("quoted pattern does not match its literal text only")
	}
}

func TestSubexp(t *testing.T) {
	re := MustCompile(`(?P<user>\w+)@(\w+)`)
	if re.NumSubexp() != 2 {
		t.Errorf("NumSubexp() = %d, want 2", re.NumSubexp())
	}
	if diff := cmp.Diff([]string{"", "user", ""}, re.SubexpNames()); diff != "" {
		t.Errorf("SubexpNames mismatch (-want +got):\n%s", diff)
	}
	if m := re.FindString("mail bob@host"); m == nil || m.Groups() != nil {
		t.Errorf("FindString() = %v; groups are not reported", m)
	}
}

func TestStrategyAndAutomaton(t *testing.T) {
	re := MustCompile("needle")
	if re.Strategy().String() != "SearchDFA" {
		t.Errorf("Strategy() = %v", re.Strategy())
	}
	if re.String() != "needle" {
		t.Errorf("String() = %q", re.String())
	}
	a := re.Automaton()
	if !a.IsDeterministic() || a.States() != 7 {
		t.Errorf("Automaton() = %d states, deterministic=%v; want 7, true", a.States(), a.IsDeterministic())
	}
}

// TestStringifyRoundTrip recompiles the pattern synthesized from each
// automaton and compares the languages on all short strings.
func TestStringifyRoundTrip(t *testing.T) {
	patterns := []string{
		"a",
		"ab|ba",
		"a*b",
		"(a|b)*abb",
		"a?b*a",
		"(ab|c)+",
		"[ab]{2}c?",
		"",
		"[^\\x00-\\xff]",
	}
	alphabet := []byte("abc")
	inputs := allStrings(alphabet, 5)

	for _, pattern := range patterns {
		re := MustCompile(pattern)
		synth := automaton.Stringify(re.Automaton())
		back, err := Compile(synth)
		if err != nil {
			t.Errorf("Stringify(%q) = %q does not compile: %v", pattern, synth, err)
			continue
		}
		for _, s := range inputs {
			if re.Accepts(s) != back.Accepts(s) {
				t.Errorf("%q vs Stringify %q disagree on %q", pattern, synth, s)
				break
			}
		}
	}
}

func allStrings(alphabet []byte, maxLen int) [][]byte {
	out := [][]byte{{}}
	level := [][]byte{{}}
	for n := 1; n <= maxLen; n++ {
		var next [][]byte
		for _, prefix := range level {
			for _, c := range alphabet {
				s := append(append([]byte(nil), prefix...), c)
				next = append(next, s)
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}
