// Package meta compiles patterns into automata and chooses how to search
// with them.
//
// Compilation runs the full pipeline: parse, Thompson construction, epsilon
// elimination, bounded subset construction and, when configured, Brzozowski
// minimization and pruning. When subset construction exceeds its state limit
// the engine keeps the epsilon-free NFA and simulates it instead.
//
// Searching coordinates three strategies:
//   - UseSearchDFA: a single literal pattern is scanned with a search DFA
//   - UsePrefilter: literal or first-byte prefilters propose candidate
//     starts, and the automaton verifies each one
//   - UseNFA: the automaton is tried at every position
//
// All strategies report the same leftmost-longest, non-overlapping matches.
package meta
