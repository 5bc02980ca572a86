package nfa

import (
	"regexp"
	"testing"

	"github.com/coregx/rationl/automaton"
)

// corpusPatterns are ASCII patterns without anchors, accepted by both this
// package and the standard library.
var corpusPatterns = []string{
	`a`,
	`ab`,
	`a|b`,
	`a*`,
	`a+`,
	`a?`,
	`b*`,
	`(a|b)*c`,
	`a(b|c)*a`,
	`a{2}`,
	`a{2,3}`,
	`a{2,}`,
	`[a-c]+`,
	`[^ab]`,
	`\d+`,
	`\w+`,
	`x*y?`,
	`(ab|a)(bc|c)?`,
	`(?i)AbC`,
	`a.c`,
	`(?:ab)+`,
	`(a*)*`,
	`(a|)+`,
	`[a-c]{0,2}d`,
	`a?b*a`,
	`(a|ab)(c|bcd)(d*)`,
}

var corpusSubjects = []string{
	"",
	"a",
	"ab",
	"abc",
	"aab",
	"baaab",
	"xababx",
	"aaaa",
	"abcabcd",
	"a1b22c333",
	"Hello, World",
	"aXbYc",
	"d",
	"acbd",
	"cab",
	"ABCabc",
	"abcd",
	"a\nc",
}

func mustCompile(t *testing.T, pattern string) *automaton.Automaton {
	t.Helper()
	a, err := NewDefaultCompiler().Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return a
}

func stdlibLongest(t *testing.T, pattern string) *regexp.Regexp {
	t.Helper()
	re := regexp.MustCompile(pattern)
	re.Longest()
	return re
}

// stdlibSpans converts FindAllIndex output to spans.
func stdlibSpans(re *regexp.Regexp, subject string) []Span {
	var out []Span
	for _, m := range re.FindAllStringIndex(subject, -1) {
		out = append(out, Span{Start: m[0], End: m[1]})
	}
	return out
}

// allStrings returns every string over alphabet of length at most n.
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

// sameLanguage fails t when x and y disagree on any string over alphabet of
// length at most n.
func sameLanguage(t *testing.T, x, y *automaton.Automaton, alphabet string, n int) {
	t.Helper()
	sx, sy := NewSimulator(x), NewSimulator(y)
	for _, s := range allStrings(alphabet, n) {
		if gx, gy := sx.Accepts([]byte(s)), sy.Accepts([]byte(s)); gx != gy {
			t.Errorf("languages differ on %q: %v vs %v", s, gx, gy)
			return
		}
	}
}
