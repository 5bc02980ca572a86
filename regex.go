// Package rationl compiles regular expressions into finite automata and uses
// them to test, scan and rewrite byte strings.
//
// A pattern goes through the classical pipeline: Thompson construction,
// epsilon elimination, subset construction, Brzozowski minimization and
// pruning. The resulting automaton is simulated breadth-first, so matching
// is linear in the subject for every pattern. Literal prefixes, when the
// pattern has them, drive a memchr, memmem or Aho-Corasick prefilter; a
// pattern that is a single literal is scanned with a search DFA.
//
// Matches are leftmost-longest, the POSIX rule stdlib regexp applies after
// Longest(). The alphabet is bytes: patterns may not contain anchors or word
// boundaries, and '.' matches a single byte.
//
// Basic usage:
//
//	re, err := rationl.Compile(`\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// All non-overlapping matches
//	for _, m := range re.SearchString("a1 b22 c333") {
//	    fmt.Println(m.String())
//	}
//
//	// Rewrite
//	fmt.Println(re.ReplaceString("a1 b22", "#")) // "a# b#"
//
// Advanced usage:
//
//	config := rationl.DefaultConfig()
//	config.MaxDFAStates = 50000
//	re, err := rationl.CompileWithConfig("(a|b)*a(a|b){12}", config)
package rationl

import (
	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/meta"
)

// Config controls compilation; see meta.Config.
type Config = meta.Config

// Match is a matched span of a subject; see meta.Match.
type Match = meta.Match

// Strategy is the search strategy chosen at compile time.
type Strategy = meta.Strategy

// Regex is a compiled regular expression.
//
// A Regex is safe to use concurrently from multiple goroutines, except for
// ResetStats.
//
// Example:
//
//	re := rationl.MustCompile(`hello`)
//	if re.IsMatchString("hello world") {
//	    println("matched!")
//	}
type Regex struct {
	engine  *meta.Engine
	pattern string
}

// Compile compiles a regular expression pattern with DefaultConfig.
//
// Syntax is Perl-compatible (as in stdlib regexp) minus anchors and word
// boundaries. A malformed pattern is reported as *nfa.CompileError wrapping
// the *syntax.Error.
//
// Example:
//
//	re, err := rationl.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// Example:
//
//	var word = rationl.MustCompile(`[a-z]+`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("rationl: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom configuration.
//
// Example:
//
//	config := rationl.DefaultConfig()
//	config.FoldCase = true
//	re, err := rationl.CompileWithConfig("hello", config)
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	engine, err := meta.CompileWithConfig(pattern, config)
	if err != nil {
		return nil, err
	}
	return &Regex{
		engine:  engine,
		pattern: pattern,
	}, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return meta.DefaultConfig()
}

// ParseConfig reads a YAML or JSON configuration; see meta.ParseConfig.
func ParseConfig(data []byte) (Config, error) {
	return meta.ParseConfig(data)
}

// QuoteMeta returns a string that escapes all regular expression
// metacharacters inside the argument text; the returned string is a regular
// expression matching the literal text.
//
// Example:
//
//	escaped := rationl.QuoteMeta("1.5+1")
//	// escaped = `1\.5\+1`
func QuoteMeta(s string) string {
	const special = `\.+*?()|[]{}^$`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}

// Match returns the longest match starting at the beginning of b, or nil.
//
// Example:
//
//	re := rationl.MustCompile(`a+`)
//	re.Match([]byte("aab")).String() // "aa"
//	re.Match([]byte("baa"))          // nil
func (r *Regex) Match(b []byte) *Match {
	return r.engine.Match(b)
}

// MatchString is like Match but for a string.
func (r *Regex) MatchString(s string) *Match {
	return r.Match([]byte(s))
}

// Accepts reports whether the whole of b is in the pattern's language.
func (r *Regex) Accepts(b []byte) bool {
	return r.engine.Accepts(b)
}

// AcceptsString is like Accepts but for a string.
func (r *Regex) AcceptsString(s string) bool {
	return r.Accepts([]byte(s))
}

// IsMatch reports whether b contains any match of the pattern.
func (r *Regex) IsMatch(b []byte) bool {
	return r.engine.IsMatch(b)
}

// IsMatchString is like IsMatch but for a string.
func (r *Regex) IsMatchString(s string) bool {
	return r.IsMatch([]byte(s))
}

// Find returns the leftmost-longest match in b, or nil.
func (r *Regex) Find(b []byte) *Match {
	return r.engine.Find(b)
}

// FindString is like Find but for a string.
func (r *Regex) FindString(s string) *Match {
	return r.Find([]byte(s))
}

// FindIndex returns the [start, end) location of the leftmost-longest
// match in b, or nil.
func (r *Regex) FindIndex(b []byte) []int {
	m := r.engine.Find(b)
	if m == nil {
		return nil
	}
	return []int{m.Start(), m.End()}
}

// Search returns all non-overlapping leftmost-longest matches in b, in
// order. After a match the scan resumes at its end; an empty match right
// after the previous match is skipped.
//
// Example:
//
//	re := rationl.MustCompile(`ab`)
//	re.Search([]byte("xababx")) // matches at [1,3) and [3,5)
func (r *Regex) Search(b []byte) []*Match {
	return r.engine.Search(b)
}

// SearchString is like Search but for a string.
func (r *Regex) SearchString(s string) []*Match {
	return r.Search([]byte(s))
}

// FindAllIndex returns the locations of successive matches in b.
// If n >= 0, it returns at most n matches.
func (r *Regex) FindAllIndex(b []byte, n int) [][]int {
	if n == 0 {
		return nil
	}
	spans := r.engine.SearchIndices(b)
	if n > 0 && len(spans) > n {
		spans = spans[:n]
	}
	if len(spans) == 0 {
		return nil
	}
	out := make([][]int, len(spans))
	for i, sp := range spans {
		out[i] = []int{sp[0], sp[1]}
	}
	return out
}

// FindAllString returns the text of successive matches in s.
// If n >= 0, it returns at most n matches.
//
// Example:
//
//	re := rationl.MustCompile(`\d+`)
//	re.FindAllString("1 22 333", -1) // ["1", "22", "333"]
func (r *Regex) FindAllString(s string, n int) []string {
	locs := r.FindAllIndex([]byte(s), n)
	if locs == nil {
		return nil
	}
	out := make([]string, len(locs))
	for i, loc := range locs {
		out[i] = s[loc[0]:loc[1]]
	}
	return out
}

// Count returns the number of non-overlapping matches in b.
func (r *Regex) Count(b []byte) int {
	return len(r.engine.SearchIndices(b))
}

// Replace returns a copy of b with every match Search reports replaced by
// repl. The replacement is literal: '$' has no special meaning.
//
// Example:
//
//	re := rationl.MustCompile(`a+`)
//	re.Replace([]byte("baaabaab"), []byte("X")) // "bXbXb"
func (r *Regex) Replace(b, repl []byte) []byte {
	return r.engine.Replace(b, repl)
}

// ReplaceString is like Replace but for strings.
func (r *Regex) ReplaceString(s, repl string) string {
	return string(r.Replace([]byte(s), []byte(repl)))
}

// ReplaceFunc returns a copy of b with every match replaced by the return
// value of repl applied to the matched bytes.
func (r *Regex) ReplaceFunc(b []byte, repl func([]byte) []byte) []byte {
	return r.engine.ReplaceFunc(b, repl)
}

// Split slices s into substrings separated by the matches, as
// regexp.Regexp.Split does.
//
// The count determines the number of substrings to return:
//
//	n > 0: at most n substrings; the last substring will be the unsplit remainder.
//	n == 0: the result is nil (zero substrings)
//	n < 0: all substrings
func (r *Regex) Split(s string, n int) []string {
	if n == 0 {
		return nil
	}
	if r.pattern != "" && s == "" {
		return []string{""}
	}

	locs := r.FindAllIndex([]byte(s), n)
	parts := make([]string, 0, len(locs)+1)
	beg, end := 0, 0
	for _, loc := range locs {
		if n > 0 && len(parts) == n-1 {
			break
		}
		end = loc[0]
		if loc[1] != 0 {
			parts = append(parts, s[beg:end])
		}
		beg = loc[1]
	}
	if end != len(s) {
		parts = append(parts, s[beg:])
	}
	return parts
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.pattern
}

// Strategy returns the search strategy chosen at compile time.
func (r *Regex) Strategy() Strategy {
	return r.engine.Strategy()
}

// Automaton returns the automaton searches run on: the minimal pruned DFA
// with the default configuration. It must not be modified.
func (r *Regex) Automaton() *automaton.Automaton {
	return r.engine.Automaton()
}

// NumSubexp returns the number of parenthesized subexpressions.
func (r *Regex) NumSubexp() int {
	return r.engine.NumGroups()
}

// SubexpNames returns the names of the parenthesized subexpressions.
// Names[0] is the whole pattern and always "".
func (r *Regex) SubexpNames() []string {
	return r.engine.SubexpNames()
}

// Stats returns the engine's execution statistics.
func (r *Regex) Stats() meta.Stats {
	return r.engine.Stats()
}

// ResetStats resets the engine's execution statistics.
func (r *Regex) ResetStats() {
	r.engine.ResetStats()
}
