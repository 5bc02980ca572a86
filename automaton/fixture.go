package automaton

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// The fixture format describes an automaton one edge per line:
//
//	# comment
//	$ -> 0        state 0 is a start state
//	0 -> 1 a      edge from 0 to 1 on 'a'
//	1 -> 2        epsilon edge
//	2 -> 3 \x0a   edge on byte 0x0a
//	3 -> $        state 3 is accepting
//
// State names are non-negative integers used only as aliases: a state is
// allocated the first time its alias appears and later references reuse it.
// '$' is a role marker, never a state name.

// FixtureError reports a malformed fixture line.
type FixtureError struct {
	Line    int
	Message string
}

// Error implements the error interface
func (e *FixtureError) Error() string {
	return fmt.Sprintf("fixture line %d: %s", e.Line, e.Message)
}

// ParseFixture reads an automaton in fixture format.
func ParseFixture(r io.Reader) (*Automaton, error) {
	a := New()
	alias := make(map[int]StateID)
	state := func(name string, line int) (StateID, error) {
		n, err := strconv.Atoi(name)
		if err != nil || n < 0 {
			return InvalidState, &FixtureError{Line: line, Message: fmt.Sprintf("bad state name %q", name)}
		}
		id, ok := alias[n]
		if !ok {
			id = a.AddState(false)
			alias[n] = id
		}
		return id, nil
	}

	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 3 || len(fields) > 4 || fields[1] != "->" {
			return nil, &FixtureError{Line: line, Message: fmt.Sprintf("expected '<src> -> <dst> [<letter>]', got %q", text)}
		}
		src, dst := fields[0], fields[2]
		switch {
		case src == "$" && dst == "$":
			return nil, &FixtureError{Line: line, Message: "'$ -> $' names no state"}
		case src == "$" || dst == "$":
			if len(fields) == 4 {
				return nil, &FixtureError{Line: line, Message: "role line takes no letter"}
			}
			if src == "$" {
				id, err := state(dst, line)
				if err != nil {
					return nil, err
				}
				a.AddStart(id)
			} else {
				id, err := state(src, line)
				if err != nil {
					return nil, err
				}
				a.SetTerminal(id, true)
			}
		default:
			from, err := state(src, line)
			if err != nil {
				return nil, err
			}
			to, err := state(dst, line)
			if err != nil {
				return nil, err
			}
			sym := Epsilon
			if len(fields) == 4 {
				b, err := parseLetter(fields[3])
				if err != nil {
					return nil, &FixtureError{Line: line, Message: err.Error()}
				}
				sym = Byte(b)
			}
			a.AddTransition(from, to, sym)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return a, nil
}

func parseLetter(tok string) (byte, error) {
	switch {
	case len(tok) == 1:
		return tok[0], nil
	case tok == `\\`:
		return '\\', nil
	case len(tok) == 4 && strings.HasPrefix(tok, `\x`):
		v, err := strconv.ParseUint(tok[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("bad letter %q", tok)
		}
		return byte(v), nil
	default:
		return 0, fmt.Errorf("bad letter %q", tok)
	}
}

func formatLetter(b byte) string {
	if b > ' ' && b < 0x7f && b != '\\' {
		return string(b)
	}
	return fmt.Sprintf(`\x%02x`, b)
}

// WriteFixture writes a in fixture format. States are renamed in
// breadth-first order from the start states, so writing a parsed fixture
// reproduces its text. Annotations and isolated non-accepting states are not
// represented.
func WriteFixture(w io.Writer, a *Automaton) error {
	bw := bufio.NewWriter(w)
	alias := make(map[StateID]int)
	var order []StateID
	name := func(id StateID) int {
		n, ok := alias[id]
		if !ok {
			n = len(alias)
			alias[id] = n
			order = append(order, id)
		}
		return n
	}

	for _, s := range a.starts {
		fmt.Fprintf(bw, "$ -> %d\n", name(s))
	}
	emitted := make(map[StateID]bool)
	emit := func(src StateID) {
		emitted[src] = true
		a.ForEachEdge(src, func(sym Symbol, dst StateID) {
			from := name(src)
			if sym == Epsilon {
				fmt.Fprintf(bw, "%d -> %d\n", from, name(dst))
			} else {
				fmt.Fprintf(bw, "%d -> %d %s\n", from, name(dst), formatLetter(byte(sym)))
			}
		})
	}
	for i := 0; i < len(order); i++ {
		emit(order[i])
	}
	for id := range a.states {
		sid := StateID(id)
		if a.states[id].removed || emitted[sid] {
			continue
		}
		emit(sid)
		for i := 0; i < len(order); i++ {
			if !emitted[order[i]] {
				emit(order[i])
			}
		}
	}
	for _, id := range order {
		if a.states[id].terminal {
			fmt.Fprintf(bw, "%d -> $\n", alias[id])
		}
	}
	for id, s := range a.states {
		if s.terminal && !s.removed {
			if _, ok := alias[StateID(id)]; !ok {
				fmt.Fprintf(bw, "%d -> $\n", name(StateID(id)))
			}
		}
	}
	return bw.Flush()
}
