// Package simd provides the byte search primitives used by prefilters:
// single bytes, sets of two or three bytes, byte tables and substrings.
//
// The package selects an implementation from the CPU features detected at
// startup. Where the CPU has wide vector units the Go runtime's assembly
// bytes.IndexByte is used; elsewhere the search runs as SWAR (SIMD Within A
// Register), eight bytes per uint64 step.
package simd

import (
	"bytes"

	"golang.org/x/sys/cpu"
)

// CPU feature detection flags set at package initialization.
var (
	// hasAVX2 indicates whether the CPU supports AVX2 instructions (256-bit SIMD).
	hasAVX2 = cpu.X86.HasAVX2

	// hasASIMD indicates whether an arm64 CPU supports Advanced SIMD.
	hasASIMD = cpu.ARM64.HasASIMD

	// vectorIndexByte reports whether bytes.IndexByte beats SWAR here.
	vectorIndexByte = hasAVX2 || hasASIMD
)

// Memchr returns the index of the first instance of needle in haystack,
// or -1 if needle is not present in haystack.
//
// Example:
//
//	pos := simd.Memchr([]byte("hello world"), 'o') // 4
func Memchr(haystack []byte, needle byte) int {
	if vectorIndexByte {
		return bytes.IndexByte(haystack, needle)
	}
	return memchrGeneric(haystack, needle)
}

// Memchr2 returns the index of the first instance of either needle1 or needle2
// in haystack, or -1 if neither is present.
func Memchr2(haystack []byte, needle1, needle2 byte) int {
	if needle1 == needle2 {
		return Memchr(haystack, needle1)
	}
	return memchr2Generic(haystack, needle1, needle2)
}

// Memchr3 returns the index of the first instance of needle1, needle2, or needle3
// in haystack, or -1 if none are present.
func Memchr3(haystack []byte, needle1, needle2, needle3 byte) int {
	return memchr3Generic(haystack, needle1, needle2, needle3)
}

// MemchrInTable finds the first byte where table[byte] is true.
// Returns position or -1 if not found.
func MemchrInTable(haystack []byte, table *[256]bool) int {
	if table == nil {
		return -1
	}
	for i, b := range haystack {
		if table[b] {
			return i
		}
	}
	return -1
}

// MemchrNotInTable finds the first byte where table[byte] is false.
// Returns position or -1 if all bytes have table[byte] == true.
func MemchrNotInTable(haystack []byte, table *[256]bool) int {
	if table == nil {
		return -1
	}
	for i, b := range haystack {
		if !table[b] {
			return i
		}
	}
	return -1
}
