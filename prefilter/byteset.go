package prefilter

import (
	"github.com/coregx/rationl/simd"
)

// byteSetPrefilter searches for two or three bytes at once with
// simd.Memchr2/Memchr3. Candidates are positions of any of the bytes.
//
// Example patterns:
//
//	/[xyz]\d+/    → any of 'x', 'y', 'z'
//	/foo|bar/     → first bytes 'f', 'b'
type byteSetPrefilter struct {
	needles  []byte
	complete bool
}

// newByteSetPrefilter returns a memchr prefilter for a single byte.
func newByteSetPrefilter(needles []byte, complete bool) Prefilter {
	if len(needles) == 1 {
		return newMemchrPrefilter(needles[0], complete)
	}
	return &byteSetPrefilter{
		needles:  append([]byte(nil), needles...),
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.Memchr2 or simd.Memchr3.
func (p *byteSetPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	var idx int
	if len(p.needles) == 2 {
		idx = simd.Memchr2(haystack[start:], p.needles[0], p.needles[1])
	} else {
		idx = simd.Memchr3(haystack[start:], p.needles[0], p.needles[1], p.needles[2])
	}
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *byteSetPrefilter) IsComplete() bool {
	return p.complete
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *byteSetPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *byteSetPrefilter) HeapBytes() int {
	return len(p.needles)
}

// tablePrefilter reports positions holding any byte of a 256-entry table.
// It serves patterns whose prefixes are unbounded but whose first byte is
// restricted, such as /[a-z]+@/.
type tablePrefilter struct {
	table *[256]bool
}

// NewByteTable returns a prefilter whose candidates are the positions of
// bytes b with table[b] set. It returns nil when the table admits every
// byte or none, since neither narrows a search.
func NewByteTable(table [256]bool) Prefilter {
	n := 0
	for _, ok := range table {
		if ok {
			n++
		}
	}
	if n == 0 || n == len(table) {
		return nil
	}
	return &tablePrefilter{table: &table}
}

// Find implements Prefilter.Find using simd.MemchrInTable.
func (p *tablePrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.MemchrInTable(haystack[start:], p.table)
	if idx == -1 {
		return -1
	}
	return start + idx
}

// IsComplete implements Prefilter.IsComplete.
func (p *tablePrefilter) IsComplete() bool {
	return false
}

// LiteralLen implements Prefilter.LiteralLen.
func (p *tablePrefilter) LiteralLen() int {
	return 0
}

// HeapBytes implements Prefilter.HeapBytes.
func (p *tablePrefilter) HeapBytes() int {
	return len(p.table)
}
