// Package syntax defines the binary syntax tree consumed by the Thompson
// construction and adapts patterns parsed by regexp/syntax into it.
//
// The tree is deliberately small: leaves are single bytes, byte classes or the
// empty string, and every interior node is one of the five combinators
// CONCAT, UNION, KLEENE_STAR, MAYBE and EXISTS, plus a capturing-group marker.
// Bounded repetition, strings and n-ary alternation are expanded into these
// forms by the parser adapter.
package syntax

import (
	"fmt"
	"strings"
)

// Op identifies the kind of a syntax tree node.
type Op uint8

const (
	// OpEmpty matches the empty string.
	OpEmpty Op = iota

	// OpLiteral matches the single byte Node.Byte.
	OpLiteral

	// OpClass matches any one byte of Node.Class. An empty class matches nothing.
	OpClass

	// OpConcat matches Left followed by Right.
	OpConcat

	// OpUnion matches Left or Right.
	OpUnion

	// OpStar matches zero or more repetitions of Left.
	OpStar

	// OpMaybe matches zero or one occurrence of Left.
	OpMaybe

	// OpExists matches one or more repetitions of Left.
	OpExists

	// OpGroup marks Left as capturing group Node.Group.
	OpGroup
)

// String returns a human-readable representation of the Op
func (op Op) String() string {
	switch op {
	case OpEmpty:
		return "Empty"
	case OpLiteral:
		return "Literal"
	case OpClass:
		return "Class"
	case OpConcat:
		return "Concat"
	case OpUnion:
		return "Union"
	case OpStar:
		return "Star"
	case OpMaybe:
		return "Maybe"
	case OpExists:
		return "Exists"
	case OpGroup:
		return "Group"
	default:
		return fmt.Sprintf("Unknown(%d)", op)
	}
}

// Node is a node of the binary syntax tree.
// Unary operators (Star, Maybe, Exists, Group) use Left only.
type Node struct {
	Op    Op
	Byte  byte
	Class ByteSet
	Group int
	Left  *Node
	Right *Node
}

// Empty returns a node matching the empty string.
func Empty() *Node {
	return &Node{Op: OpEmpty}
}

// Literal returns a node matching the single byte b.
func Literal(b byte) *Node {
	return &Node{Op: OpLiteral, Byte: b}
}

// Class returns a node matching any byte of set.
func Class(set ByteSet) *Node {
	return &Node{Op: OpClass, Class: set}
}

// Concat returns a node matching left then right.
func Concat(left, right *Node) *Node {
	return &Node{Op: OpConcat, Left: left, Right: right}
}

// Union returns a node matching left or right.
func Union(left, right *Node) *Node {
	return &Node{Op: OpUnion, Left: left, Right: right}
}

// Star returns a node matching zero or more sub.
func Star(sub *Node) *Node {
	return &Node{Op: OpStar, Left: sub}
}

// Maybe returns a node matching zero or one sub.
func Maybe(sub *Node) *Node {
	return &Node{Op: OpMaybe, Left: sub}
}

// Exists returns a node matching one or more sub.
func Exists(sub *Node) *Node {
	return &Node{Op: OpExists, Left: sub}
}

// Group returns a node marking sub as capturing group id.
func Group(id int, sub *Node) *Node {
	return &Node{Op: OpGroup, Group: id, Left: sub}
}

// String returns the bytes of s concatenated, or Empty for "".
func String(s string) *Node {
	if s == "" {
		return Empty()
	}
	n := Literal(s[len(s)-1])
	for i := len(s) - 2; i >= 0; i-- {
		n = Concat(Literal(s[i]), n)
	}
	return n
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Left = n.Left.Clone()
	c.Right = n.Right.Clone()
	return &c
}

// Size returns the number of nodes in the subtree.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.Size() + n.Right.Size()
}

// Nullable reports whether the subtree matches the empty string.
func (n *Node) Nullable() bool {
	switch n.Op {
	case OpEmpty, OpStar, OpMaybe:
		return true
	case OpLiteral, OpClass:
		return false
	case OpConcat:
		return n.Left.Nullable() && n.Right.Nullable()
	case OpUnion:
		return n.Left.Nullable() || n.Right.Nullable()
	default: // OpExists, OpGroup
		return n.Left.Nullable()
	}
}

// String renders the tree in prefix form, e.g. concat('a',star('b')).
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	switch n.Op {
	case OpEmpty:
		sb.WriteString("empty")
	case OpLiteral:
		sb.WriteString("'" + QuoteByte(n.Byte) + "'")
	case OpClass:
		sb.WriteString(n.Class.String())
	case OpConcat, OpUnion:
		sb.WriteString(strings.ToLower(n.Op.String()))
		sb.WriteByte('(')
		n.Left.write(sb)
		sb.WriteByte(',')
		n.Right.write(sb)
		sb.WriteByte(')')
	case OpGroup:
		fmt.Fprintf(sb, "group%d(", n.Group)
		n.Left.write(sb)
		sb.WriteByte(')')
	default:
		sb.WriteString(strings.ToLower(n.Op.String()))
		sb.WriteByte('(')
		n.Left.write(sb)
		sb.WriteByte(')')
	}
}
