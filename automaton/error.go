// Package automaton provides the finite automaton graph shared by every
// compilation pass: states, a sparse transition table over a compacted byte
// alphabet, a start-state set and capturing-group annotations attached to
// transitions.
//
// The same type represents nondeterministic automata (with epsilon edges and
// multi-edges), epsilon-free automata and deterministic automata. Passes that
// transform an automaton build a new one and leave their input untouched.
package automaton

import "fmt"

// Error describes a violated automaton invariant, such as an out-of-range
// state id. Primitives panic with *Error: these are programming errors in a
// pass, not conditions a caller can recover from.
type Error struct {
	Op      string
	State   StateID
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.State != InvalidState {
		return fmt.Sprintf("automaton: %s: state %d: %s", e.Op, e.State, e.Message)
	}
	return fmt.Sprintf("automaton: %s: %s", e.Op, e.Message)
}

func invariant(op string, id StateID, format string, args ...any) {
	panic(&Error{Op: op, State: id, Message: fmt.Sprintf(format, args...)})
}
