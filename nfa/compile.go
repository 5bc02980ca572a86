package nfa

import (
	"fmt"

	"github.com/coregx/rationl/automaton"
	"github.com/coregx/rationl/syntax"
)

// CompilerConfig configures NFA compilation behavior
type CompilerConfig struct {
	// DotNewline determines whether '.' matches '\n'
	DotNewline bool

	// FoldCase matches ASCII letters case-insensitively
	FoldCase bool

	// MaxRecursionDepth limits recursion during compilation to prevent stack overflow.
	// Right-nested concatenations and alternations are compiled iteratively and
	// do not count against it.
	// Default: 1000
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		DotNewline:        false,
		FoldCase:          false,
		MaxRecursionDepth: 1000,
	}
}

// fragment is a partially built automaton: the states a match of the
// sub-expression starts in and the states it ends in. All fragments of one
// compilation share a single automaton, so splicing two fragments only adds
// epsilon edges. Terminal flags are set once, on the finished fragment.
type fragment struct {
	starts    []automaton.StateID
	terminals []automaton.StateID
}

// Compiler compiles syntax trees into Thompson NFAs
type Compiler struct {
	config CompilerConfig
	a      *automaton.Automaton
	depth  int // current recursion depth
}

// NewCompiler creates a new NFA compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 1000
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new NFA compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Build compiles n with the default configuration.
func Build(n *syntax.Node) (*automaton.Automaton, error) {
	return NewDefaultCompiler().CompileNode(n)
}

// Compile parses pattern and compiles it into an NFA
func (c *Compiler) Compile(pattern string) (*automaton.Automaton, error) {
	re, err := c.Parse(pattern)
	if err != nil {
		return nil, err
	}
	a, err := c.CompileNode(re.Root)
	if err != nil {
		if cerr, ok := err.(*CompileError); ok {
			cerr.Pattern = pattern
			return nil, cerr
		}
		return nil, &CompileError{Pattern: pattern, Err: err}
	}
	return a, nil
}

// Parse parses pattern with the compiler's flags. A syntax error is returned
// as a *CompileError wrapping both ErrInvalidPattern and the *syntax.Error.
func (c *Compiler) Parse(pattern string) (*syntax.Regexp, error) {
	var flags syntax.Flags
	if c.config.DotNewline {
		flags |= syntax.DotNewline
	}
	if c.config.FoldCase {
		flags |= syntax.FoldCase
	}
	re, err := syntax.Parse(pattern, flags)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     fmt.Errorf("%w: %w", ErrInvalidPattern, err),
		}
	}
	return re, nil
}

// CompileNode compiles a syntax tree into an NFA with exactly one start
// state. The result contains epsilon edges; group boundaries are recorded as
// entering/leaving annotations on them.
func (c *Compiler) CompileNode(n *syntax.Node) (*automaton.Automaton, error) {
	c.a = automaton.NewWithCapacity(2 * n.Size())
	c.depth = 0

	frag, err := c.compile(n)
	if err != nil {
		return nil, err
	}

	start := frag.starts[0]
	if len(frag.starts) > 1 {
		start = c.a.AddState(false)
		for _, s := range frag.starts {
			c.a.AddTransition(start, s, automaton.Epsilon)
		}
	}
	c.a.AddStart(start)
	for _, t := range frag.terminals {
		c.a.SetTerminal(t, true)
	}

	a := c.a
	c.a = nil
	return a, nil
}

// compile recursively compiles a syntax tree node.
func (c *Compiler) compile(n *syntax.Node) (fragment, error) {
	if n == nil {
		return fragment{}, &BuildError{Message: "nil syntax node", StateID: automaton.InvalidState}
	}

	// Check recursion depth
	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return fragment{}, &CompileError{
			Err: ErrTooComplex,
		}
	}
	defer func() { c.depth-- }()

	switch n.Op {
	case syntax.OpEmpty:
		return c.compileEmpty(), nil
	case syntax.OpLiteral:
		return c.compileLiteral(n.Byte), nil
	case syntax.OpClass:
		return c.compileClass(n.Class), nil
	case syntax.OpConcat:
		return c.compileConcat(n)
	case syntax.OpUnion:
		return c.compileUnion(n)
	case syntax.OpStar:
		return c.compileUnary(n, c.star)
	case syntax.OpMaybe:
		return c.compileUnary(n, c.maybe)
	case syntax.OpExists:
		return c.compileUnary(n, c.exists)
	case syntax.OpGroup:
		return c.compileUnary(n, func(sub fragment) fragment {
			return c.group(n.Group, sub)
		})
	default:
		return fragment{}, &BuildError{
			Message: fmt.Sprintf("unsupported operator %v", n.Op),
			StateID: automaton.InvalidState,
		}
	}
}

func (c *Compiler) compileUnary(n *syntax.Node, wrap func(fragment) fragment) (fragment, error) {
	sub, err := c.compile(n.Left)
	if err != nil {
		return fragment{}, err
	}
	return wrap(sub), nil
}

// compileEmpty returns a single state that both starts and ends the fragment.
func (c *Compiler) compileEmpty() fragment {
	s := c.a.AddState(false)
	return fragment{starts: []automaton.StateID{s}, terminals: []automaton.StateID{s}}
}

func (c *Compiler) compileLiteral(b byte) fragment {
	entry := c.a.AddState(false)
	accept := c.a.AddState(false)
	c.a.AddTransition(entry, accept, automaton.Byte(b))
	return fragment{starts: []automaton.StateID{entry}, terminals: []automaton.StateID{accept}}
}

// compileClass adds one edge per member byte. An empty class leaves the two
// states unconnected, so the fragment matches nothing.
func (c *Compiler) compileClass(set syntax.ByteSet) fragment {
	entry := c.a.AddState(false)
	accept := c.a.AddState(false)
	for _, b := range set.Bytes() {
		c.a.AddTransition(entry, accept, automaton.Byte(b))
	}
	return fragment{starts: []automaton.StateID{entry}, terminals: []automaton.StateID{accept}}
}

// compileConcat walks the right spine of a concatenation chain iteratively.
func (c *Compiler) compileConcat(n *syntax.Node) (fragment, error) {
	acc, err := c.compile(n.Left)
	if err != nil {
		return fragment{}, err
	}
	for n = n.Right; ; n = n.Right {
		last := n == nil || n.Op != syntax.OpConcat
		operand := n
		if !last {
			operand = n.Left
		}
		next, err := c.compile(operand)
		if err != nil {
			return fragment{}, err
		}
		acc = c.concat(acc, next)
		if last {
			return acc, nil
		}
	}
}

// compileUnion compiles an alternation chain into one fresh entry and one
// fresh accept shared by every alternative.
func (c *Compiler) compileUnion(n *syntax.Node) (fragment, error) {
	var alts []fragment
	for {
		left, err := c.compile(n.Left)
		if err != nil {
			return fragment{}, err
		}
		alts = append(alts, left)
		if n.Right == nil || n.Right.Op != syntax.OpUnion {
			break
		}
		n = n.Right
	}
	right, err := c.compile(n.Right)
	if err != nil {
		return fragment{}, err
	}
	alts = append(alts, right)
	return c.union(alts...), nil
}

// concat links every terminal of a to every start of b.
func (c *Compiler) concat(a, b fragment) fragment {
	c.link(a.terminals, b.starts, automaton.Epsilon)
	return fragment{starts: a.starts, terminals: b.terminals}
}

func (c *Compiler) union(alts ...fragment) fragment {
	entry := c.a.AddState(false)
	accept := c.a.AddState(false)
	for _, f := range alts {
		c.link([]automaton.StateID{entry}, f.starts, automaton.Epsilon)
		c.link(f.terminals, []automaton.StateID{accept}, automaton.Epsilon)
	}
	return fragment{starts: []automaton.StateID{entry}, terminals: []automaton.StateID{accept}}
}

// star adds a fresh entry/accept pair: entry skips to accept for zero
// repetitions, and every terminal of a loops back to a's starts or stops.
func (c *Compiler) star(a fragment) fragment {
	entry := c.a.AddState(false)
	accept := c.a.AddState(false)
	c.a.AddTransition(entry, accept, automaton.Epsilon)
	c.link([]automaton.StateID{entry}, a.starts, automaton.Epsilon)
	c.link(a.terminals, a.starts, automaton.Epsilon)
	c.link(a.terminals, []automaton.StateID{accept}, automaton.Epsilon)
	return fragment{starts: []automaton.StateID{entry}, terminals: []automaton.StateID{accept}}
}

// maybe is the union of a with an empty alternative.
func (c *Compiler) maybe(a fragment) fragment {
	return c.union(a, c.compileEmpty())
}

// exists adds a fresh accept reachable from a's terminals, with an epsilon
// back-edge to a's starts for further repetitions.
func (c *Compiler) exists(a fragment) fragment {
	accept := c.a.AddState(false)
	c.link(a.terminals, []automaton.StateID{accept}, automaton.Epsilon)
	c.link([]automaton.StateID{accept}, a.starts, automaton.Epsilon)
	return fragment{starts: a.starts, terminals: []automaton.StateID{accept}}
}

// group wraps a between a fresh entry and a fresh exit. The epsilon edges
// out of the entry enter group id and the edges into the exit leave it.
func (c *Compiler) group(id int, a fragment) fragment {
	entry := c.a.AddState(false)
	exit := c.a.AddState(false)
	for _, s := range a.starts {
		c.a.AddTransition(entry, s, automaton.Epsilon)
		c.a.MarkEnteringGroup(automaton.EdgeKey{From: entry, To: s, Symbol: automaton.Epsilon}, id)
	}
	for _, t := range a.terminals {
		c.a.AddTransition(t, exit, automaton.Epsilon)
		c.a.MarkLeavingGroup(automaton.EdgeKey{From: t, To: exit, Symbol: automaton.Epsilon}, id)
	}
	return fragment{starts: []automaton.StateID{entry}, terminals: []automaton.StateID{exit}}
}

func (c *Compiler) link(from, to []automaton.StateID, sym automaton.Symbol) {
	for _, src := range from {
		for _, dst := range to {
			c.a.AddTransition(src, dst, sym)
		}
	}
}
