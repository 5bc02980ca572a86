package simd

import "bytes"

// Memmem returns the index of the first instance of needle in haystack,
// or -1 if needle is not present. An empty needle matches at 0.
//
// The search scans for the rarest byte of needle (by ByteFrequencies) with
// Memchr and verifies the surrounding window at each candidate, so common
// text with a needle like "@example" visits few candidates.
func Memmem(haystack, needle []byte) int {
	switch {
	case len(needle) == 0:
		return 0
	case len(needle) > len(haystack):
		return -1
	case len(needle) == 1:
		return Memchr(haystack, needle[0])
	}

	rare, offset := rareByte(needle)
	last := len(haystack) - len(needle)
	for from := offset; from < len(haystack); {
		pos := Memchr(haystack[from:], rare)
		if pos < 0 {
			return -1
		}
		start := from + pos - offset
		if start > last {
			return -1
		}
		if bytes.Equal(haystack[start:start+len(needle)], needle) {
			return start
		}
		from += pos + 1
	}
	return -1
}
