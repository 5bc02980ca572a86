package nfa

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/syntax"
)

func TestCompile_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		node   *syntax.Node
		states int
		edges  int
	}{
		{"literal", syntax.Literal('a'), 2, 1},
		{"empty", syntax.Empty(), 1, 0},
		{"class", syntax.Class(classOf("abc")), 2, 3},
		{"empty class", syntax.Class(syntax.ByteSet{}), 2, 0},
		{"concat", syntax.Concat(syntax.Literal('a'), syntax.Literal('b')), 4, 3},
		{"union", syntax.Union(syntax.Literal('a'), syntax.Literal('b')), 6, 6},
		{"star", syntax.Star(syntax.Literal('a')), 4, 5},
		{"maybe", syntax.Maybe(syntax.Literal('a')), 5, 5},
		{"exists", syntax.Exists(syntax.Literal('a')), 3, 3},
		{"group", syntax.Group(1, syntax.Literal('a')), 4, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Build(tt.node)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if a.States() != tt.states {
				t.Errorf("States() = %d, want %d", a.States(), tt.states)
			}
			if a.EdgeCount() != tt.edges {
				t.Errorf("EdgeCount() = %d, want %d", a.EdgeCount(), tt.edges)
			}
			if len(a.Starts()) != 1 {
				t.Errorf("Starts() = %v, want exactly one", a.Starts())
			}
		})
	}
}

func classOf(s string) syntax.ByteSet {
	var set syntax.ByteSet
	for i := 0; i < len(s); i++ {
		set.Add(s[i])
	}
	return set
}

func TestCompile_Languages(t *testing.T) {
	tests := []struct {
		pattern string
		accept  []string
		reject  []string
	}{
		{`a(b|c)*a`, []string{"aa", "aba", "acbca"}, []string{"ab", "", "a", "abcb"}},
		{`a?b*a`, []string{"a", "ba", "bba", "aba", "aa"}, []string{"", "b", "ab", "aab"}},
		{`(ab)+`, []string{"ab", "abab"}, []string{"", "a", "aba"}},
		{`x{2,3}`, []string{"xx", "xxx"}, []string{"x", "xxxx"}},
		{`[^a]`, []string{"b", "\x00", "\xff"}, []string{"a", ""}},
		{`é`, []string{"\xc3\xa9"}, []string{"\xc3", "e"}},
		{`(?i)ab`, []string{"ab", "AB", "aB"}, []string{"a", "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			sim := NewSimulator(mustCompile(t, tt.pattern))
			for _, s := range tt.accept {
				if !sim.Accepts([]byte(s)) {
					t.Errorf("Accepts(%q) = false", s)
				}
			}
			for _, s := range tt.reject {
				if sim.Accepts([]byte(s)) {
					t.Errorf("Accepts(%q) = true", s)
				}
			}
		})
	}
}

func TestCompile_GroupAnnotations(t *testing.T) {
	a := mustCompile(t, `(a)`)

	var entering, leaving []automaton.EdgeKey
	for _, k := range a.AnnotatedEdges() {
		if k.Symbol != automaton.Epsilon {
			t.Errorf("annotation on non-epsilon edge %s", k)
		}
		if g := a.EnteringGroups(k); g != nil {
			if diff := cmp.Diff([]int{1}, g); diff != "" {
				t.Errorf("EnteringGroups(%s) mismatch (-want +got):\n%s", k, diff)
			}
			entering = append(entering, k)
		}
		if g := a.LeavingGroups(k); g != nil {
			if diff := cmp.Diff([]int{1}, g); diff != "" {
				t.Errorf("LeavingGroups(%s) mismatch (-want +got):\n%s", k, diff)
			}
			leaving = append(leaving, k)
		}
	}
	if len(entering) != 1 || len(leaving) != 1 {
		t.Fatalf("entering=%v leaving=%v, want one of each", entering, leaving)
	}
	if !a.IsStart(entering[0].From) {
		t.Errorf("entering edge %s does not leave the start state", entering[0])
	}
	if !a.IsTerminal(leaving[0].To) {
		t.Errorf("leaving edge %s does not reach the accepting state", leaving[0])
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, err := NewDefaultCompiler().Compile(`a(b`)
		var cerr *CompileError
		if !errors.As(err, &cerr) {
			t.Fatalf("error = %v, want *CompileError", err)
		}
		if cerr.Pattern != `a(b` {
			t.Errorf("Pattern = %q", cerr.Pattern)
		}
		if !errors.Is(err, ErrInvalidPattern) {
			t.Error("errors.Is(err, ErrInvalidPattern) = false")
		}
		var serr *syntax.Error
		if !errors.As(err, &serr) {
			t.Error("syntax error not reachable through errors.As")
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := NewDefaultCompiler().Compile(`^a`)
		if !errors.Is(err, syntax.ErrUnsupported) {
			t.Errorf("error = %v, want ErrUnsupported", err)
		}
	})

	t.Run("too complex", func(t *testing.T) {
		c := NewCompiler(CompilerConfig{MaxRecursionDepth: 3})
		_, err := c.Compile(`(((a)))`)
		if !errors.Is(err, ErrTooComplex) {
			t.Fatalf("error = %v, want ErrTooComplex", err)
		}
		var cerr *CompileError
		if errors.As(err, &cerr) && cerr.Pattern != `(((a)))` {
			t.Errorf("Pattern = %q", cerr.Pattern)
		}
	})

	t.Run("nil node", func(t *testing.T) {
		_, err := Build(nil)
		var berr *BuildError
		if !errors.As(err, &berr) {
			t.Errorf("error = %v, want *BuildError", err)
		}
	})
}

func TestCompile_LongChainsAreIterative(t *testing.T) {
	lit := strings.Repeat("ab", 5000)
	a, err := NewCompiler(CompilerConfig{MaxRecursionDepth: 10}).Compile(lit + "|x|y|z")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	sim := NewSimulator(a)
	if !sim.Accepts([]byte(lit)) || !sim.Accepts([]byte("z")) {
		t.Error("long literal alternation not accepted")
	}
}

func TestCompile_DotNewline(t *testing.T) {
	plain := NewSimulator(mustCompile(t, `a.c`))
	if plain.Accepts([]byte("a\nc")) {
		t.Error("'.' matched newline without DotNewline")
	}

	a, err := NewCompiler(CompilerConfig{DotNewline: true}).Compile(`a.c`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !NewSimulator(a).Accepts([]byte("a\nc")) {
		t.Error("'.' did not match newline with DotNewline")
	}
}
