package automaton

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/coregx/rationl/syntax"
)

// StateID identifies a state by its position in the automaton's state list.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID
const InvalidState StateID = 0xFFFFFFFF

// Symbol is a transition label: a byte value 0..255 or Epsilon.
type Symbol uint16

const (
	// Epsilon labels transitions taken without consuming input.
	Epsilon Symbol = 256

	// SymbolCount is the size of the symbol space (256 bytes plus epsilon).
	SymbolCount = 257
)

// Byte returns the symbol for byte b.
func Byte(b byte) Symbol {
	return Symbol(b)
}

// IsEpsilon reports whether s is the epsilon symbol.
func (s Symbol) IsEpsilon() bool {
	return s == Epsilon
}

// String returns "ε" for epsilon and the quoted byte otherwise.
func (s Symbol) String() string {
	if s == Epsilon {
		return "ε"
	}
	if s > Epsilon {
		return fmt.Sprintf("Symbol(%d)", uint16(s))
	}
	return syntax.QuoteByte(byte(s))
}

// EdgeKey identifies a transition by its endpoints and label. Group
// annotations and predecessor lists are keyed by it.
type EdgeKey struct {
	From   StateID
	To     StateID
	Symbol Symbol
}

// String returns a human-readable representation of the edge
func (k EdgeKey) String() string {
	return fmt.Sprintf("%d -%s-> %d", k.From, k.Symbol, k.To)
}

func compareKeys(x, y EdgeKey) int {
	if c := cmp.Compare(x.From, y.From); c != 0 {
		return c
	}
	if c := cmp.Compare(x.To, y.To); c != 0 {
		return c
	}
	return cmp.Compare(x.Symbol, y.Symbol)
}

func sortKeys(keys []EdgeKey) {
	slices.SortFunc(keys, compareKeys)
}
