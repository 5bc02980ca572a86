package meta

import (
	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/literal"
)

// Strategy represents the execution strategy for searching.
type Strategy int

const (
	// UseNFA tries the automaton at every position.
	// Selected when no prefilter narrows the search, or prefilters are
	// disabled.
	UseNFA Strategy = iota

	// UsePrefilter jumps between candidate positions found by a literal or
	// first-byte prefilter and verifies each with the automaton. A complete
	// prefilter reports matches without verification.
	UsePrefilter

	// UseSearchDFA scans with a search DFA built for a pattern that is a
	// single literal.
	UseSearchDFA
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseNFA:
		return "NFA"
	case UsePrefilter:
		return "Prefilter"
	case UseSearchDFA:
		return "SearchDFA"
	default:
		return "Unknown"
	}
}

// singleLiteral reports whether prefixes describe a pattern matching exactly
// one non-empty string.
func singleLiteral(prefixes *literal.Seq) bool {
	return prefixes.Len() == 1 && prefixes.AllComplete() && prefixes.Get(0).Len() > 0
}

// firstByteTable returns the bytes that can begin a match of a, an
// epsilon-free automaton, and whether a match can be empty (in which case
// any position may start one).
func firstByteTable(a *automaton.Automaton) (table [256]bool, nullable bool) {
	for _, s := range a.Starts() {
		if a.IsTerminal(s) {
			nullable = true
		}
		for _, sym := range a.OutSymbols(s) {
			if !sym.IsEpsilon() {
				table[byte(sym)] = true
			}
		}
	}
	return table, nullable
}
