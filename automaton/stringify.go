package automaton

import (
	"slices"
	"strings"

	"github.com/coregx/rationl/syntax"
)

// Stringify synthesizes a pattern accepting the language of a by state
// elimination. The result is accepted by syntax.Parse. It is a diagnostic
// aid: the pattern is correct but makes no attempt to be short.
func Stringify(a *Automaton) string {
	g := newGNFA(a)
	for _, q := range g.eliminationOrder() {
		g.eliminate(q)
	}
	return g.edge(g.start, g.final).render(ctxTop)
}

// rx is a regular expression under construction. A nil *rx is the empty
// language.
type rx struct {
	kind  rxKind
	class syntax.ByteSet
	subs  []*rx
}

type rxKind uint8

const (
	rxEps rxKind = iota
	rxClass
	rxCat
	rxAlt
	rxStar
)

var epsRx = &rx{kind: rxEps}

func classRx(set syntax.ByteSet) *rx {
	return &rx{kind: rxClass, class: set}
}

func cat(parts ...*rx) *rx {
	var subs []*rx
	for _, p := range parts {
		switch {
		case p == nil:
			return nil
		case p.kind == rxEps:
		case p.kind == rxCat:
			subs = append(subs, p.subs...)
		default:
			subs = append(subs, p)
		}
	}
	switch len(subs) {
	case 0:
		return epsRx
	case 1:
		return subs[0]
	}
	return &rx{kind: rxCat, subs: subs}
}

func alt(x, y *rx) *rx {
	if x == nil {
		return y
	}
	if y == nil {
		return x
	}
	var subs []*rx
	var set syntax.ByteSet
	hasClass := false
	for _, p := range []*rx{x, y} {
		items := []*rx{p}
		if p.kind == rxAlt {
			items = p.subs
		}
		for _, it := range items {
			if it.kind == rxClass {
				set = set.Union(it.class)
				hasClass = true
				continue
			}
			if !slices.ContainsFunc(subs, func(s *rx) bool { return s.equal(it) }) {
				subs = append(subs, it)
			}
		}
	}
	if hasClass {
		subs = append([]*rx{classRx(set)}, subs...)
	}
	if len(subs) == 1 {
		return subs[0]
	}
	return &rx{kind: rxAlt, subs: subs}
}

func star(x *rx) *rx {
	if x == nil || x.kind == rxEps {
		return epsRx
	}
	if x.kind == rxStar {
		return x
	}
	if x.kind == rxAlt {
		// (x|)* == x*
		subs := slices.DeleteFunc(slices.Clone(x.subs), func(s *rx) bool { return s.kind == rxEps })
		if len(subs) == 1 {
			return star(subs[0])
		}
		x = &rx{kind: rxAlt, subs: subs}
	}
	return &rx{kind: rxStar, subs: []*rx{x}}
}

func (x *rx) equal(y *rx) bool {
	if x.kind != y.kind || x.class != y.class || len(x.subs) != len(y.subs) {
		return false
	}
	for i := range x.subs {
		if !x.subs[i].equal(y.subs[i]) {
			return false
		}
	}
	return true
}

type renderCtx uint8

const (
	ctxTop renderCtx = iota
	ctxCat
	ctxStar
)

func (x *rx) render(ctx renderCtx) string {
	if x == nil {
		return `[^\x00-\xff]`
	}
	switch x.kind {
	case rxEps:
		if ctx == ctxStar {
			return "(?:)"
		}
		return ""
	case rxClass:
		return renderClass(x.class)
	case rxStar:
		return x.subs[0].render(ctxStar) + "*"
	case rxCat:
		var sb strings.Builder
		for _, s := range x.subs {
			sb.WriteString(s.render(ctxCat))
		}
		if ctx == ctxStar {
			return "(?:" + sb.String() + ")"
		}
		return sb.String()
	default: // rxAlt
		var parts []string
		optional := false
		for _, s := range x.subs {
			if s.kind == rxEps {
				optional = true
				continue
			}
			parts = append(parts, s.render(ctxTop))
		}
		body := strings.Join(parts, "|")
		if optional {
			return "(?:" + body + ")?"
		}
		if ctx == ctxTop {
			return body
		}
		return "(?:" + body + ")"
	}
}

func renderClass(set syntax.ByteSet) string {
	switch n := set.Len(); {
	case n == 0:
		return `[^\x00-\xff]`
	case n == 256:
		return `(?s:.)`
	case n == 1 && set.Bytes()[0] < 0x80:
		return syntax.QuoteByte(set.Bytes()[0])
	}
	return set.String()
}

// gnfa is a generalized automaton whose edges carry expressions.
type gnfa struct {
	n     int // automaton states are 0..n-1
	start int
	final int
	out   map[int]map[int]*rx
	in    map[int]map[int]bool
	alive []bool
}

func newGNFA(a *Automaton) *gnfa {
	n := len(a.states)
	g := &gnfa{
		n:     n,
		start: n,
		final: n + 1,
		out:   make(map[int]map[int]*rx),
		in:    make(map[int]map[int]bool),
		alive: make([]bool, n),
	}
	for id, s := range a.states {
		if s.removed {
			continue
		}
		g.alive[id] = true
		if s.terminal {
			g.add(id, g.final, epsRx)
		}
		a.ForEachEdge(StateID(id), func(sym Symbol, dst StateID) {
			if sym == Epsilon {
				g.add(id, int(dst), epsRx)
				return
			}
			var set syntax.ByteSet
			set.Add(byte(sym))
			g.add(id, int(dst), classRx(set))
		})
	}
	for _, s := range a.starts {
		g.add(g.start, int(s), epsRx)
	}
	return g
}

func (g *gnfa) edge(from, to int) *rx {
	return g.out[from][to]
}

func (g *gnfa) add(from, to int, x *rx) {
	if x == nil {
		return
	}
	if g.out[from] == nil {
		g.out[from] = make(map[int]*rx)
	}
	if g.in[to] == nil {
		g.in[to] = make(map[int]bool)
	}
	g.out[from][to] = alt(g.out[from][to], x)
	g.in[to][from] = true
}

// eliminationOrder removes states with the fewest in*out edges first, which
// keeps intermediate expressions small.
func (g *gnfa) eliminationOrder() []int {
	var order []int
	for q := 0; q < g.n; q++ {
		if g.alive[q] {
			order = append(order, q)
		}
	}
	weight := func(q int) int {
		return len(g.in[q]) * len(g.out[q])
	}
	slices.SortStableFunc(order, func(x, y int) int {
		return weight(x) - weight(y)
	})
	return order
}

func (g *gnfa) eliminate(q int) {
	loop := star(g.out[q][q])
	preds := sortedKeys(g.in[q])
	succs := sortedKeys(g.out[q])
	for _, p := range preds {
		if p == q {
			continue
		}
		for _, r := range succs {
			if r == q {
				continue
			}
			g.add(p, r, cat(g.out[p][q], loop, g.out[q][r]))
		}
	}
	for _, p := range preds {
		delete(g.out[p], q)
	}
	for _, r := range succs {
		delete(g.in[r], q)
	}
	delete(g.out, q)
	delete(g.in, q)
	g.alive[q] = false
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
