// Package nfa builds nondeterministic automata from syntax trees and runs
// them.
//
// The Compiler implements the Thompson construction over the binary syntax
// tree, EliminateEpsilon removes epsilon edges while keeping group boundaries
// on the edges that replace them, and the Simulator executes any automaton
// (raw, epsilon-free or deterministic) breadth-first for anchored matching,
// leftmost-longest search and replacement.
package nfa

import (
	"errors"
	"fmt"

	"github.com/coregx/rationl/automaton"
)

// Common NFA errors
var (
	// ErrInvalidPattern indicates the regex pattern is invalid or unsupported
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrTooComplex indicates the pattern is too complex to compile
	ErrTooComplex = errors.New("pattern too complex")
)

// CompileError wraps compilation errors with additional context
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("NFA compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("NFA compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError reports a syntax tree the compiler cannot translate, such as a
// nil operand or an unknown operator.
type BuildError struct {
	Message string
	StateID automaton.StateID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.StateID != automaton.InvalidState {
		return fmt.Sprintf("NFA build error at state %d: %s", e.StateID, e.Message)
	}
	return fmt.Sprintf("NFA build error: %s", e.Message)
}
