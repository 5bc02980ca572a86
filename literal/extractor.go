package literal

import (
	"github.com/coregx/rationl/syntax"
)

// maxDepth bounds recursion into the syntax tree. Deeper subtrees are
// treated as having no known prefix.
const maxDepth = 100

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a|b|c|d|...)
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large byte classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals in a sequence. A cross
	// product that would exceed it keeps the shorter prefixes instead; an
	// alternation that would exceed it yields no prefixes. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal. Longer
	// literals are truncated and marked incomplete. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of byte classes to expand.
	// [abc] is expanded to ["a", "b", "c"]; [a-z] (26 bytes) is not.
	// Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts prefix literal sequences from syntax trees.
//
// Example:
//
//	re := syntax.MustParse("(hello|world)", 0)
//	extractor := literal.New(literal.DefaultConfig())
//	prefixes := extractor.ExtractPrefixes(re.Root)
//	// prefixes = ["hello", "world"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration. Non-positive
// limits are replaced by their defaults.
func New(config ExtractorConfig) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	if config.MaxClassSize < 0 {
		config.MaxClassSize = def.MaxClassSize
	}
	return &Extractor{config: config}
}

// ExtractPrefixes returns literals such that every match of n starts with
// at least one of them.
//
// Examples:
//
//	"hello"         → ["hello"] (complete)
//	"(foo|bar)"     → ["foo", "bar"] (complete)
//	"[abc]test"     → ["atest", "btest", "ctest"] (complete)
//	"hello.*world"  → ["hello"] (incomplete)
//	"a*b"           → ["a", "b"] ("a" incomplete, "b" complete)
//	".*foo"         → [] (no prefix requirement)
//
// The result is empty when no useful prefix exists: when a match may start
// with any byte, or when the empty string is a match.
func (e *Extractor) ExtractPrefixes(n *syntax.Node) *Seq {
	seq := e.extractPrefixes(n, 0)
	if seq == nil {
		return NewSeq()
	}
	for _, lit := range seq.literals {
		if len(lit.Bytes) == 0 {
			return NewSeq()
		}
	}
	return seq
}

// extractPrefixes returns the prefix set of n, or nil when the prefixes are
// unknown (unbounded). A non-nil empty Seq means n matches nothing.
func (e *Extractor) extractPrefixes(n *syntax.Node, depth int) *Seq {
	if n == nil || depth > maxDepth {
		return nil
	}

	switch n.Op {
	case syntax.OpEmpty:
		return NewSeq(NewLiteral([]byte{}, true))

	case syntax.OpLiteral:
		return NewSeq(NewLiteral([]byte{n.Byte}, true))

	case syntax.OpClass:
		return e.expandClass(n.Class)

	case syntax.OpConcat:
		left := e.extractPrefixes(n.Left, depth+1)
		if left == nil {
			return nil
		}
		if !e.extendable(left) {
			return incomplete(left)
		}
		return e.cross(left, e.extractPrefixes(n.Right, depth+1))

	case syntax.OpUnion:
		left := e.extractPrefixes(n.Left, depth+1)
		if left == nil {
			return nil
		}
		right := e.extractPrefixes(n.Right, depth+1)
		if right == nil || left.Len()+right.Len() > e.config.MaxLiterals {
			return nil
		}
		lits := make([]Literal, 0, left.Len()+right.Len())
		lits = append(lits, left.literals...)
		lits = append(lits, right.literals...)
		return NewSeq(lits...)

	case syntax.OpStar:
		// x* is "" or x followed by more.
		sub := e.extractPrefixes(n.Left, depth+1)
		if sub == nil || sub.Len()+1 > e.config.MaxLiterals {
			return nil
		}
		out := incomplete(sub)
		out.literals = append(out.literals, NewLiteral([]byte{}, true))
		return out

	case syntax.OpMaybe:
		sub := e.extractPrefixes(n.Left, depth+1)
		if sub == nil || sub.Len()+1 > e.config.MaxLiterals {
			return nil
		}
		out := sub.Clone()
		out.literals = append(out.literals, NewLiteral([]byte{}, true))
		return out

	case syntax.OpExists:
		sub := e.extractPrefixes(n.Left, depth+1)
		if sub == nil {
			return nil
		}
		return incomplete(sub)

	case syntax.OpGroup:
		return e.extractPrefixes(n.Left, depth+1)

	default:
		return nil
	}
}

// expandClass returns one literal per byte of a small class.
func (e *Extractor) expandClass(set syntax.ByteSet) *Seq {
	if set.Len() > e.config.MaxClassSize || set.Len() > e.config.MaxLiterals {
		return nil
	}
	members := set.Bytes()
	lits := make([]Literal, len(members))
	for i, b := range members {
		lits[i] = NewLiteral([]byte{b}, true)
	}
	return NewSeq(lits...)
}

// extendable reports whether some complete literal of seq is still shorter
// than MaxLiteralLen, so appending what follows can sharpen the prefixes.
func (e *Extractor) extendable(seq *Seq) bool {
	for _, lit := range seq.literals {
		if lit.Complete && len(lit.Bytes) < e.config.MaxLiteralLen {
			return true
		}
	}
	return false
}

// cross appends every literal of right to every complete literal of left.
// Incomplete literals of left are kept as they are. A nil right (unknown
// continuation) or a product larger than MaxLiterals leaves left's literals
// in place, marked incomplete.
func (e *Extractor) cross(left, right *Seq) *Seq {
	if right == nil {
		return incomplete(left)
	}

	var lits []Literal
	for _, l := range left.literals {
		if !l.Complete {
			lits = append(lits, l)
			continue
		}
		for _, r := range right.literals {
			b := make([]byte, 0, len(l.Bytes)+len(r.Bytes))
			b = append(b, l.Bytes...)
			b = append(b, r.Bytes...)
			complete := r.Complete
			if len(b) > e.config.MaxLiteralLen {
				b = b[:e.config.MaxLiteralLen]
				complete = false
			}
			lits = append(lits, NewLiteral(b, complete))
		}
		if len(lits) > e.config.MaxLiterals {
			return incomplete(left)
		}
	}
	return NewSeq(lits...)
}

// incomplete returns a copy of seq with every literal marked incomplete.
func incomplete(seq *Seq) *Seq {
	out := seq.Clone()
	for i := range out.literals {
		out.literals[i].Complete = false
	}
	return out
}

// ExtractPrefixes is a convenience wrapper using DefaultConfig.
func ExtractPrefixes(n *syntax.Node) *Seq {
	return New(DefaultConfig()).ExtractPrefixes(n)
}
