package simd

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// splat broadcasts b to every byte of a uint64.
func splat(b byte) uint64 {
	return uint64(b) * lo8
}

// zeroBytes sets the high bit of every byte of v that is zero (Hacker's
// Delight). Bits above the first zero byte may be spurious, so only the
// lowest set bit is meaningful.
func zeroBytes(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}

// memchrGeneric is the SWAR implementation of Memchr.
//
// Algorithm:
//  1. Broadcast needle to every byte of a uint64 mask
//  2. XOR each 8-byte little-endian chunk with the mask (matches become 0x00)
//  3. Detect zero bytes; the trailing zero count locates the first one
func memchrGeneric(haystack []byte, needle byte) int {
	m := splat(needle)
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk ^ m); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// memchr2Generic checks both needles against each chunk in parallel.
func memchr2Generic(haystack []byte, needle1, needle2 byte) int {
	m1, m2 := splat(needle1), splat(needle2)
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk^m1) | zeroBytes(chunk^m2); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if b := haystack[i]; b == needle1 || b == needle2 {
			return i
		}
	}
	return -1
}

// memchr3Generic checks three needles against each chunk in parallel.
func memchr3Generic(haystack []byte, needle1, needle2, needle3 byte) int {
	m1, m2, m3 := splat(needle1), splat(needle2), splat(needle3)
	i := 0
	for ; i+8 <= len(haystack); i += 8 {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		if z := zeroBytes(chunk^m1) | zeroBytes(chunk^m2) | zeroBytes(chunk^m3); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
	}
	for ; i < len(haystack); i++ {
		if b := haystack[i]; b == needle1 || b == needle2 || b == needle3 {
			return i
		}
	}
	return -1
}
