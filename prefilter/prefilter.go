// Package prefilter finds candidate match positions with fast byte search
// before the automaton runs.
//
// A prefilter is built from the prefix literals of a pattern: every match
// starts with one of them, so positions where none occurs can be skipped.
// Selection by literal set:
//   - Single byte → memchr
//   - Single substring → memmem (rare byte anchored)
//   - Up to three distinct first bytes → memchr2/memchr3 on the first byte
//   - More literals → Aho-Corasick automaton
//
// A byte table prefilter is also available for patterns whose first byte is
// restricted but whose prefixes are not finite.
//
// Example usage:
//
//	re := syntax.MustParse("(hello|world)", 0)
//	prefixes := literal.ExtractPrefixes(re.Root)
//	pf := prefilter.NewBuilder(prefixes).Build()
//	pos := pf.Find([]byte("foo hello bar world baz"), 0)
//	// pos == 4 (position of "hello")
package prefilter

import (
	"github.com/coregx/rationl/literal"
	"github.com/coregx/rationl/simd"
)

// Prefilter is used to quickly find candidate match positions before running
// the automaton.
//
// Key methods:
//   - Find: returns the next candidate position
//   - IsComplete: indicates if a prefilter hit is already a match
//   - HeapBytes: returns memory usage for profiling
type Prefilter interface {
	// Find returns the index of the first candidate match starting at or after
	// start, or -1 if no candidate is found.
	//
	// A candidate is a position where one of the prefilter literals starts.
	// It does NOT guarantee a match; the caller verifies with the automaton
	// unless IsComplete() is true.
	Find(haystack []byte, start int) int

	// IsComplete returns true if a prefilter hit is exactly a match of length
	// LiteralLen(), and no longer match starts at the same position.
	IsComplete() bool

	// LiteralLen returns the match length when IsComplete() is true, else 0.
	LiteralLen() int

	// HeapBytes returns the number of bytes of heap memory used by this prefilter.
	HeapBytes() int
}

// Builder constructs a prefilter from extracted prefix literals.
//
// Example:
//
//	pf := prefilter.NewBuilder(prefixes).Build()
//	if pf != nil {
//	    pos := pf.Find(haystack, 0)
//	}
type Builder struct {
	prefixes *literal.Seq
}

// NewBuilder creates a new prefilter builder from a prefix literal sequence
// (see literal.Extractor.ExtractPrefixes). A nil or empty sequence builds no
// prefilter.
func NewBuilder(prefixes *literal.Seq) *Builder {
	return &Builder{prefixes: prefixes}
}

// Build constructs the best prefilter for the given literals.
//
// Returns nil if no effective prefilter can be built: no literals, an empty
// literal (a match may start anywhere), or an Aho-Corasick build failure.
func (b *Builder) Build() Prefilter {
	return selectPrefilter(b.prefixes)
}

// selectPrefilter chooses the prefilter strategy for seq.
func selectPrefilter(prefixes *literal.Seq) Prefilter {
	if prefixes.IsEmpty() {
		return nil
	}
	for _, lit := range prefixes.Literals() {
		if len(lit.Bytes) == 0 {
			return nil
		}
	}

	seq := prefixes.Clone()
	seq.Minimize()

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}

	first, single := firstBytes(seq)
	if len(first) <= 3 {
		return newByteSetPrefilter(first, single && seq.AllComplete())
	}

	pf, err := newAhoCorasickPrefilter(seq)
	if err != nil {
		return nil
	}
	return pf
}

// firstBytes returns the distinct first bytes of seq in order of appearance
// and whether every literal is a single byte.
func firstBytes(seq *literal.Seq) (first []byte, single bool) {
	var seen [256]bool
	single = true
	for _, lit := range seq.Literals() {
		if len(lit.Bytes) != 1 {
			single = false
		}
		b := lit.Bytes[0]
		if !seen[b] {
			seen[b] = true
			first = append(first, b)
		}
	}
	return first, single
}

// memchrPrefilter wraps simd.Memchr as a Prefilter.
//
// Example patterns:
//
//	/a.*/         → search for 'a'
//	/a[0-9]+/     → search for 'a'
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{
		needle:   needle,
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memchrPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memchrPrefilter) HeapBytes() int {
	return 0
}

// memmemPrefilter wraps simd.Memmem as a Prefilter.
//
// Example patterns:
//
//	/hello/       → search for "hello"
//	/foo|foobar/  → after minimization → search for "foo"
//	/prefix.*/    → search for "prefix"
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

// newMemmemPrefilter copies needle, which must be longer than one byte.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	needleCopy := make([]byte, len(needle))
	copy(needleCopy, needle)

	return &memmemPrefilter{
		needle:   needleCopy,
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.Memmem.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memmem(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *memmemPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *memmemPrefilter) HeapBytes() int {
	return len(p.needle)
}
