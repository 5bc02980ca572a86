package syntax

import (
	"errors"
	"fmt"
	gosyntax "regexp/syntax"
	"unicode"
	"unicode/utf8"
)

// ErrUnsupported indicates a construct that has no meaning for a byte-alphabet
// automaton, such as anchors and word boundaries.
var ErrUnsupported = errors.New("unsupported construct")

// Error is a malformed or unsupported pattern.
type Error struct {
	Pattern string
	Code    gosyntax.ErrorCode // empty for unsupported constructs
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("syntax error in pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Flags control how a pattern is parsed.
type Flags uint8

const (
	// DotNewline makes '.' match '\n' as well.
	DotNewline Flags = 1 << iota

	// FoldCase matches ASCII letters case-insensitively.
	FoldCase
)

// Regexp is a parsed pattern.
type Regexp struct {
	Pattern string
	Root    *Node

	// NumGroups is the number of capturing groups; group ids are 1..NumGroups.
	NumGroups int

	// Names holds group names indexed by group id; Names[0] is always "".
	Names []string
}

// Parse parses pattern with Perl syntax and converts it to a binary tree
// over the byte alphabet.
//
// Literal runes at or above 0x80 are encoded as UTF-8 byte sequences. Class
// ranges are clipped to the byte range, so members above 0x7f are read as raw
// byte values. Non-greedy markers are accepted and have no effect.
func Parse(pattern string, flags Flags) (*Regexp, error) {
	pf := gosyntax.Perl
	if flags&DotNewline != 0 {
		pf |= gosyntax.DotNL
	}
	if flags&FoldCase != 0 {
		pf |= gosyntax.FoldCase
	}
	re, err := gosyntax.Parse(pattern, pf)
	if err != nil {
		perr := &Error{Pattern: pattern, Err: err}
		var serr *gosyntax.Error
		if errors.As(err, &serr) {
			perr.Code = serr.Code
		}
		return nil, perr
	}

	root, err := convert(re)
	if err != nil {
		return nil, &Error{Pattern: pattern, Err: err}
	}
	numGroups := re.MaxCap()
	return &Regexp{
		Pattern:   pattern,
		Root:      root,
		NumGroups: numGroups,
		Names:     re.CapNames(),
	}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(pattern string, flags Flags) *Regexp {
	re, err := Parse(pattern, flags)
	if err != nil {
		panic(err)
	}
	return re
}

func convert(re *gosyntax.Regexp) (*Node, error) {
	switch re.Op {
	case gosyntax.OpNoMatch:
		return Class(ByteSet{}), nil
	case gosyntax.OpEmptyMatch:
		return Empty(), nil
	case gosyntax.OpLiteral:
		return convertLiteral(re.Rune, re.Flags&gosyntax.FoldCase != 0), nil
	case gosyntax.OpCharClass:
		return Class(classSet(re.Rune)), nil
	case gosyntax.OpAnyChar:
		return Class(AllBytes()), nil
	case gosyntax.OpAnyCharNotNL:
		set := AllBytes()
		set.Remove('\n')
		return Class(set), nil
	case gosyntax.OpCapture:
		sub, err := convert(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return Group(re.Cap, sub), nil
	case gosyntax.OpStar, gosyntax.OpPlus, gosyntax.OpQuest:
		sub, err := convert(re.Sub[0])
		if err != nil {
			return nil, err
		}
		switch re.Op {
		case gosyntax.OpStar:
			return Star(sub), nil
		case gosyntax.OpPlus:
			return Exists(sub), nil
		default:
			return Maybe(sub), nil
		}
	case gosyntax.OpRepeat:
		sub, err := convert(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return expandRepeat(sub, re.Min, re.Max), nil
	case gosyntax.OpConcat:
		return fold(re.Sub, Concat)
	case gosyntax.OpAlternate:
		return fold(re.Sub, Union)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, re.Op)
	}
}

// fold converts subs and combines them right-associatively with join.
func fold(subs []*gosyntax.Regexp, join func(l, r *Node) *Node) (*Node, error) {
	if len(subs) == 0 {
		return Empty(), nil
	}
	acc, err := convert(subs[len(subs)-1])
	if err != nil {
		return nil, err
	}
	for i := len(subs) - 2; i >= 0; i-- {
		n, err := convert(subs[i])
		if err != nil {
			return nil, err
		}
		acc = join(n, acc)
	}
	return acc, nil
}

func convertLiteral(runes []rune, fold bool) *Node {
	var leaves []*Node
	var buf [utf8.UTFMax]byte
	for _, r := range runes {
		if r < utf8.RuneSelf {
			b := byte(r)
			if fold {
				if set := foldSet(r); set.Len() > 1 {
					leaves = append(leaves, Class(set))
					continue
				}
			}
			leaves = append(leaves, Literal(b))
			continue
		}
		n := utf8.EncodeRune(buf[:], r)
		for _, b := range buf[:n] {
			leaves = append(leaves, Literal(b))
		}
	}
	if len(leaves) == 0 {
		return Empty()
	}
	acc := leaves[len(leaves)-1]
	for i := len(leaves) - 2; i >= 0; i-- {
		acc = Concat(leaves[i], acc)
	}
	return acc
}

// foldSet returns the ASCII case-folding orbit of r.
func foldSet(r rune) ByteSet {
	var set ByteSet
	set.Add(byte(r))
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < utf8.RuneSelf {
			set.Add(byte(f))
		}
	}
	return set
}

func classSet(ranges []rune) ByteSet {
	var set ByteSet
	for i := 0; i+1 < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo > 0xff {
			continue
		}
		if hi > 0xff {
			hi = 0xff
		}
		set.AddRange(byte(lo), byte(hi))
	}
	return set
}

// expandRepeat rewrites sub{min,max} with the five combinators.
// max == -1 means unbounded.
//
//	x{3}   = x x x
//	x{2,}  = x x x*
//	x{1,3} = x (x (x)?)?
func expandRepeat(sub *Node, minRep, maxRep int) *Node {
	var parts []*Node
	for i := 0; i < minRep; i++ {
		parts = append(parts, sub.Clone())
	}
	switch {
	case maxRep == -1:
		parts = append(parts, Star(sub.Clone()))
	case maxRep > minRep:
		var tail *Node
		for i := 0; i < maxRep-minRep; i++ {
			if tail == nil {
				tail = Maybe(sub.Clone())
			} else {
				tail = Maybe(Concat(sub.Clone(), tail))
			}
		}
		parts = append(parts, tail)
	}
	if len(parts) == 0 {
		return Empty()
	}
	acc := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		acc = Concat(parts[i], acc)
	}
	return acc
}
