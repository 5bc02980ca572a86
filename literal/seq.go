// Package literal extracts the literal byte strings every match of a pattern
// must start with, so a search can skip to candidate positions before running
// the automaton.
//
// An Extractor walks the binary syntax tree and returns a Seq of prefixes;
// the prefilter package turns the Seq into a byte or substring search.
package literal

import (
	"bytes"
	"slices"
)

// Literal is a byte sequence extracted from a pattern. Complete reports
// whether the literal is an entire match (true) or only the start of one.
//
// For hello the prefix is the complete literal "hello"; for hello.*world it
// is "hello", incomplete.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral returns Literal{b, complete}. b is not copied.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{
		Bytes:    b,
		Complete: complete,
	}
}

// Len returns len(l.Bytes).
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String formats the literal as literal{bytes, complete=bool}.
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals. Every match of the pattern it was
// extracted from starts with at least one of them.
// A nil *Seq behaves as an empty one.
type Seq struct {
	literals []Literal
}

// NewSeq returns a sequence holding lits.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the i-th literal.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// Literals returns the literals of the sequence. The slice must not be
// modified.
func (s *Seq) Literals() []Literal {
	if s == nil {
		return nil
	}
	return s.literals
}

// IsEmpty reports whether s has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// IsFinite reports whether s bounds where a match can start, which holds
// whenever it has a literal.
func (s *Seq) IsFinite() bool {
	return !s.IsEmpty()
}

// AllComplete reports whether the sequence is non-empty and every literal in
// it is an entire match. A pattern whose prefixes are all complete matches
// exactly that finite set of strings.
func (s *Seq) AllComplete() bool {
	if s.IsEmpty() {
		return false
	}
	for _, lit := range s.literals {
		if !lit.Complete {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s *Seq) Clone() *Seq {
	if s == nil {
		return nil
	}
	cloned := make([]Literal, len(s.literals))
	for i, lit := range s.literals {
		cloned[i] = Literal{
			Bytes:    bytes.Clone(lit.Bytes),
			Complete: lit.Complete,
		}
	}

	return &Seq{literals: cloned}
}

// Minimize removes redundant literals from the sequence.
//
// For prefix matching, a literal L is redundant if a shorter literal S in the
// sequence is a prefix of L: every position where L starts, S starts too.
// When S absorbs a different literal it is no longer an entire match of
// everything it stands for, so its Complete flag is cleared. Exact duplicates
// collapse into one literal that is complete only if both were.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("foo"), true),
//	    literal.NewLiteral([]byte("foobar"), true),
//	)
//	seq.Minimize()
//	fmt.Println(seq.Len()) // Output: 1 (only "foo" remains, complete=false)
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	// Shortest first; ties keep their original order.
	slices.SortStableFunc(s.literals, func(a, b Literal) int {
		return len(a.Bytes) - len(b.Bytes)
	})

	kept := make([]Literal, 0, len(s.literals))
	for _, current := range s.literals {
		redundant := false
		for j := range kept {
			if !bytes.HasPrefix(current.Bytes, kept[j].Bytes) {
				continue
			}
			redundant = true
			if len(current.Bytes) != len(kept[j].Bytes) || !current.Complete {
				kept[j].Complete = false
			}
			break
		}
		if !redundant {
			kept = append(kept, current)
		}
	}

	s.literals = kept
}

// LongestCommonPrefix returns the longest common prefix of all literals in the sequence.
// If the sequence is empty or has no common prefix, returns an empty slice.
//
// Example:
//
//	seq := literal.NewSeq(
//	    literal.NewLiteral([]byte("hello"), true),
//	    literal.NewLiteral([]byte("help"), true),
//	    literal.NewLiteral([]byte("hero"), true),
//	)
//	prefix := seq.LongestCommonPrefix()
//	fmt.Println(string(prefix)) // Output: he
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	prefix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		prefix = commonPrefix(prefix, s.literals[i].Bytes)
		if len(prefix) == 0 {
			return []byte{}
		}
	}

	return bytes.Clone(prefix)
}

// LongestCommonSuffix returns the longest common suffix of all literals in the sequence.
// If the sequence is empty or has no common suffix, returns an empty slice.
func (s *Seq) LongestCommonSuffix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}

	suffix := s.literals[0].Bytes
	for i := 1; i < len(s.literals); i++ {
		suffix = commonSuffix(suffix, s.literals[i].Bytes)
		if len(suffix) == 0 {
			return []byte{}
		}
	}

	return bytes.Clone(suffix)
}

// commonPrefix returns the longest common prefix of a and b.
func commonPrefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// commonSuffix returns the longest common suffix of a and b.
func commonSuffix(a, b []byte) []byte {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[len(a)-1-i] != b[len(b)-1-i] {
			return a[len(a)-i:]
		}
	}
	return a[len(a)-n:]
}
