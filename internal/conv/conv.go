// Package conv provides checked integer conversions for the regex engine.
//
// Program sizes and subject offsets are stored in narrower integer types than
// int. Conversions that can legitimately fail at runtime (a subject that is
// too long) report failure through a boolean; conversions that can only fail
// on a programming error panic.
package conv

import "math"

// IntToUint32 converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so 32-bit platforms, where int cannot represent
	// math.MaxUint32, stay correct.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// FitsInt32 reports whether n can be stored as an int32 offset.
func FitsInt32(n int) bool {
	return n >= math.MinInt32 && n <= math.MaxInt32
}

// IntToInt32 converts an int to int32.
// Panics if n is out of range; callers validate with FitsInt32 first.
//
//go:inline
func IntToInt32(n int) int32 {
	if !FitsInt32(n) {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// AppendDigit returns n*10+d clamped to math.MaxInt32. n must be
// non-negative and d in [0, 9]. Used for counted repetition bounds and
// decimal escapes, which may be written with arbitrarily many digits.
func AppendDigit(n, d int) int {
	if n > (math.MaxInt32-d)/10 {
		return math.MaxInt32
	}
	return n*10 + d
}
