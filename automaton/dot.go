package automaton

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteDot writes a Graphviz description of a. Accepting states are drawn as
// double circles, each start state gets an incoming edge from an invisible
// point node, and parallel edges between the same pair of states are merged
// into one edge with a comma-separated label.
func WriteDot(w io.Writer, a *Automaton) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph automaton {")
	fmt.Fprintln(bw, "\trankdir=LR;")
	fmt.Fprintln(bw, "\tnode [shape=circle];")

	for id, s := range a.states {
		if s.removed {
			continue
		}
		if s.terminal {
			fmt.Fprintf(bw, "\ts%d [label=\"%d\", shape=doublecircle];\n", id, id)
		} else {
			fmt.Fprintf(bw, "\ts%d [label=\"%d\"];\n", id, id)
		}
	}
	for i, s := range a.starts {
		fmt.Fprintf(bw, "\tstart%d [shape=point];\n", i)
		fmt.Fprintf(bw, "\tstart%d -> s%d;\n", i, s)
	}

	for src := range a.states {
		if a.states[src].removed {
			continue
		}
		var dsts []StateID
		labels := make(map[StateID][]string)
		a.ForEachEdge(StateID(src), func(sym Symbol, dst StateID) {
			if _, ok := labels[dst]; !ok {
				dsts = append(dsts, dst)
			}
			labels[dst] = append(labels[dst], sym.String())
		})
		for _, dst := range dsts {
			fmt.Fprintf(bw, "\ts%d -> s%d [label=\"%s\"];\n", src, dst, dotEscape(strings.Join(labels[dst], ",")))
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
