package nfa

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSimulator_Match(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    Span
		ok      bool
	}{
		{`a+`, "aaab", Span{0, 3}, true},
		{`a*`, "baa", Span{0, 0}, true},
		{`ab|abcd`, "abcde", Span{0, 4}, true},
		{`b`, "ab", Span{}, false},
		{`a(b|c)*a`, "acbcaX", Span{0, 5}, true},
		{`x?`, "", Span{0, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.subject, func(t *testing.T) {
			got, ok := NewSimulator(mustCompile(t, tt.pattern)).Match([]byte(tt.subject))
			if ok != tt.ok || got != tt.want {
				t.Errorf("Match = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSimulator_MatchAt(t *testing.T) {
	sim := NewSimulator(mustCompile(t, `ab+`))
	subject := []byte("xxabbbx")

	if _, ok := sim.MatchAt(subject, 1); ok {
		t.Error("MatchAt(1) matched")
	}
	if got, ok := sim.MatchAt(subject, 2); !ok || got != (Span{2, 6}) {
		t.Errorf("MatchAt(2) = %v, %v", got, ok)
	}
	if _, ok := sim.MatchAt(subject, len(subject)+1); ok {
		t.Error("MatchAt past the end matched")
	}
}

func TestSimulator_Search(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		want    []Span
	}{
		{`ab`, "xababx", []Span{{1, 3}, {3, 5}}},
		{`a*`, "baaab", []Span{{0, 0}, {1, 4}, {5, 5}}},
		{`a+`, "baaabaab", []Span{{1, 4}, {5, 7}}},
		{`z`, "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.subject, func(t *testing.T) {
			got := NewSimulator(mustCompile(t, tt.pattern)).Search([]byte(tt.subject))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Search mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSimulator_Replace(t *testing.T) {
	tests := []struct {
		pattern string
		subject string
		repl    string
		want    string
	}{
		{`a+`, "baaabaab", "X", "bXbXb"},
		{`a*`, "baaab", "X", "XbXbX"},
		{`ab`, "xababx", "", "xx"},
		{`b`, "abc", "long", "alongc"},
		{`q`, "abc", "X", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.subject, func(t *testing.T) {
			got := NewSimulator(mustCompile(t, tt.pattern)).Replace([]byte(tt.subject), []byte(tt.repl))
			if string(got) != tt.want {
				t.Errorf("Replace = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSimulator_AgreesWithStdlib(t *testing.T) {
	for _, pattern := range corpusPatterns {
		t.Run(pattern, func(t *testing.T) {
			raw := mustCompile(t, pattern)
			free := EliminateEpsilon(raw)
			re := stdlibLongest(t, pattern)
			whole := regexp.MustCompile(`^(?:` + pattern + `)$`)

			for _, sim := range []*Simulator{NewSimulator(raw), NewSimulator(free)} {
				for _, subject := range corpusSubjects {
					b := []byte(subject)
					if diff := cmp.Diff(stdlibSpans(re, subject), sim.Search(b)); diff != "" {
						t.Errorf("Search(%q) mismatch (-stdlib +got):\n%s", subject, diff)
					}
					if got, want := sim.Replace(b, []byte("<>")), re.ReplaceAll(b, []byte("<>")); !bytes.Equal(got, want) {
						t.Errorf("Replace(%q) = %q, stdlib %q", subject, got, want)
					}
					if got, want := sim.Accepts(b), whole.Match(b); got != want {
						t.Errorf("Accepts(%q) = %v, stdlib %v", subject, got, want)
					}
				}
			}
		})
	}
}

func TestSimulator_SearchFunc(t *testing.T) {
	sim := NewSimulator(mustCompile(t, `ab+`))
	subject := []byte("ab xabb abbb")

	var calls int
	next := func(s []byte, at int) int {
		calls++
		if i := bytes.IndexByte(s[at:], 'a'); i >= 0 {
			return at + i
		}
		return -1
	}
	got := sim.SearchFunc(subject, next)
	want := sim.Search(subject)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchFunc mismatch (-want +got):\n%s", diff)
	}
	if calls == 0 {
		t.Error("candidate function never called")
	}

	sp, ok := sim.Find(subject, 1, next)
	if !ok || sp != (Span{4, 7}) {
		t.Errorf("Find(1) = %v, %v", sp, ok)
	}
}

func TestSimulator_StateReuse(t *testing.T) {
	sim := NewSimulator(mustCompile(t, `(a|b)*c`))
	st := sim.NewState()
	for i, subject := range []string{"abc", "abx", "c", ""} {
		got := sim.AcceptsWithState([]byte(subject), st)
		want := sim.Accepts([]byte(subject))
		if got != want {
			t.Errorf("case %d: AcceptsWithState(%q) = %v, want %v", i, subject, got, want)
		}
	}
}
