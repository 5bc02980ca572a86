package syntax

import (
	"math/bits"
	"strconv"
	"strings"
)

// ByteSet is a set of byte values. The zero value is the empty set.
//
// It is a fixed 256-bit value type so that syntax tree leaves can be copied
// and compared without allocation.
type ByteSet [4]uint64

// AllBytes returns the set containing every byte value.
func AllBytes() ByteSet {
	return ByteSet{^uint64(0), ^uint64(0), ^uint64(0), ^uint64(0)}
}

// Add inserts b.
func (s *ByteSet) Add(b byte) {
	s[b>>6] |= 1 << (b & 63)
}

// AddRange inserts every byte in [lo, hi].
func (s *ByteSet) AddRange(lo, hi byte) {
	for b := int(lo); b <= int(hi); b++ {
		s.Add(byte(b))
	}
}

// Remove deletes b.
func (s *ByteSet) Remove(b byte) {
	s[b>>6] &^= 1 << (b & 63)
}

// Contains reports whether b is in the set.
func (s ByteSet) Contains(b byte) bool {
	return s[b>>6]&(1<<(b&63)) != 0
}

// Len returns the number of members.
func (s ByteSet) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1]) +
		bits.OnesCount64(s[2]) + bits.OnesCount64(s[3])
}

// IsEmpty reports whether the set has no members.
func (s ByteSet) IsEmpty() bool {
	return s[0]|s[1]|s[2]|s[3] == 0
}

// Negate returns the complement of s.
func (s ByteSet) Negate() ByteSet {
	return ByteSet{^s[0], ^s[1], ^s[2], ^s[3]}
}

// Union returns s ∪ o.
func (s ByteSet) Union(o ByteSet) ByteSet {
	return ByteSet{s[0] | o[0], s[1] | o[1], s[2] | o[2], s[3] | o[3]}
}

// Bytes returns the members in ascending order.
func (s ByteSet) Bytes() []byte {
	out := make([]byte, 0, s.Len())
	for w := 0; w < 4; w++ {
		word := s[w]
		for word != 0 {
			tz := bits.TrailingZeros64(word)
			out = append(out, byte(w*64+tz))
			word &= word - 1
		}
	}
	return out
}

// String renders the set as a bracketed class, collapsing runs into ranges.
func (s ByteSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	members := s.Bytes()
	for i := 0; i < len(members); {
		j := i
		for j+1 < len(members) && members[j+1] == members[j]+1 {
			j++
		}
		sb.WriteString(QuoteByte(members[i]))
		if j > i {
			sb.WriteByte('-')
			sb.WriteString(QuoteByte(members[j]))
		}
		i = j + 1
	}
	sb.WriteByte(']')
	return sb.String()
}

// QuoteByte renders b for use inside a pattern: printable ASCII that is not a
// metacharacter is written as-is, metacharacters are backslash escaped and
// everything else uses the \xHH form.
func QuoteByte(b byte) string {
	switch {
	case strings.IndexByte(`\.+*?()|[]{}^$-`, b) >= 0:
		return `\` + string(b)
	case b >= 0x20 && b < 0x7f:
		return string(b)
	default:
		h := strconv.FormatUint(uint64(b), 16)
		if len(h) == 1 {
			h = "0" + h
		}
		return `\x` + h
	}
}
