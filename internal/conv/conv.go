// Package conv provides checked integer conversion helpers for the packer.
//
// These functions perform bounds checking before narrowing integer conversions
// so that an out-of-range state number, symbol or offset never wraps silently
// into the image. They panic on overflow since callers are expected to have
// validated sizes beforehand (an overflow here is a programming error).
package conv

import "math"

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToInt32 safely converts an int to int32.
// Panics if n is outside [math.MinInt32, math.MaxInt32].
//
//go:inline
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// Uint32ToInt converts a uint32 read from an image back to int.
// Panics on 32-bit platforms if the value does not fit.
//
//go:inline
func Uint32ToInt(n uint32) int {
	if uint64(n) > uint64(math.MaxInt) {
		panic("integer overflow: uint32 value out of int range")
	}
	return int(n)
}
