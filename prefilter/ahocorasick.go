package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/rationl/literal"
)

// ahoCorasickPrefilter finds the leftmost occurrence of any of many
// literals with one pass of an Aho-Corasick automaton.
//
// Example patterns:
//
//	/(alpha|beta|gamma|delta)\d/  → four literals, four first bytes
type ahoCorasickPrefilter struct {
	ac    *ahocorasick.Automaton
	bytes int
}

func newAhoCorasickPrefilter(seq *literal.Seq) (Prefilter, error) {
	builder := ahocorasick.NewBuilder()
	size := 0
	for _, lit := range seq.Literals() {
		builder.AddPattern(lit.Bytes)
		size += len(lit.Bytes)
	}
	ac, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &ahoCorasickPrefilter{ac: ac, bytes: size}, nil
}

// Find implements Prefilter.Find. The candidate is the start of the
// leftmost literal occurrence at or after start.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.ac.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

// IsComplete implements Prefilter.IsComplete. Literals of different lengths
// may share a start, so hits are always verified.
func (p *ahoCorasickPrefilter) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *ahoCorasickPrefilter) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter.HeapBytes. It counts pattern bytes; the
// automaton's own tables are not exposed.
func (p *ahoCorasickPrefilter) HeapBytes() int {
	return p.bytes
}
