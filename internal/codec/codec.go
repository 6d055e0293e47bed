// Package codec provides the primitive integer encodings used by packed
// automaton images.
//
// Three encodings coexist in an image:
//   - unsigned little-endian fields of 1, 2 or 4 bytes (input symbols, header words)
//   - signed little-endian fields of 1, 2 or 4 bytes (output weights, table offsets)
//   - big-endian destination fields of 1 to 4 bytes, where the all-ones
//     pattern of the field width is reserved for the dead state
//
// All functions take the buffer and a byte offset and trust that the caller
// has sized the buffer; readers of untrusted data check bounds before calling.
package codec

import "math"

// DeadState is returned by DecodeDst for the reserved all-ones pattern.
const DeadState = -2

// WordSize is the alignment unit of image sections.
const WordSize = 4

// PutUint writes v as an unsigned little-endian value of size bytes (1, 2 or 4).
func PutUint(buf []byte, off int, v uint32, size int) {
	switch size {
	case 1:
		buf[off] = byte(v)
	case 2:
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
	default:
		buf[off] = byte(v)
		buf[off+1] = byte(v >> 8)
		buf[off+2] = byte(v >> 16)
		buf[off+3] = byte(v >> 24)
	}
}

// Uint reads an unsigned little-endian value of size bytes (1, 2 or 4).
func Uint(buf []byte, off int, size int) uint32 {
	switch size {
	case 1:
		return uint32(buf[off])
	case 2:
		return uint32(buf[off]) | uint32(buf[off+1])<<8
	default:
		return uint32(buf[off]) | uint32(buf[off+1])<<8 |
			uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	}
}

// PutInt writes v as a signed little-endian value of size bytes (1, 2 or 4).
// The value is truncated to the field width; use IntSize to pick the width.
func PutInt(buf []byte, off int, v int32, size int) {
	//nolint:gosec // G115: two's complement truncation is the encoding
	PutUint(buf, off, uint32(v), size)
}

// Int reads a signed little-endian value of size bytes (1, 2 or 4).
func Int(buf []byte, off int, size int) int32 {
	u := Uint(buf, off, size)
	switch size {
	case 1:
		return int32(int8(u)) //nolint:gosec // G115: sign extension of a 1-byte field
	case 2:
		return int32(int16(u)) //nolint:gosec // G115: sign extension of a 2-byte field
	default:
		return int32(u) //nolint:gosec // G115: reinterpretation of a 4-byte field
	}
}

// PutInt32 writes a 4-byte little-endian header word.
func PutInt32(buf []byte, off int, v int32) {
	PutInt(buf, off, v, 4)
}

// Int32 reads a 4-byte little-endian header word.
func Int32(buf []byte, off int) int32 {
	return Int(buf, off, 4)
}

// DstMask returns the all-ones pattern of a size-byte destination field.
func DstMask(size int) uint32 {
	if size >= 4 {
		return math.MaxUint32
	}
	return uint32(1)<<(8*uint(size)) - 1
}

// PutDst writes v as a big-endian value of size bytes (1 to 4).
func PutDst(buf []byte, off int, v uint32, size int) {
	for i := size - 1; i >= 0; i-- {
		buf[off+i] = byte(v)
		v >>= 8
	}
}

// Dst reads a big-endian value of size bytes (1 to 4).
func Dst(buf []byte, off int, size int) uint32 {
	var v uint32
	for i := 0; i < size; i++ {
		v = v<<8 | uint32(buf[off+i])
	}
	return v
}

// DecodeDst reads a destination field and maps the reserved mask to DeadState.
func DecodeDst(buf []byte, off int, size int) int {
	v := Dst(buf, off, size)
	if v == DstMask(size) {
		return DeadState
	}
	return int(v)
}

// IwSize returns the field width needed for input symbols up to maxIw.
func IwSize(maxIw int) int {
	switch {
	case maxIw&^0xffff != 0:
		return 4
	case maxIw&0xff00 != 0:
		return 2
	default:
		return 1
	}
}

// IntSize returns the smallest signed width (1, 2 or 4) that holds v.
func IntSize(v int) int {
	switch {
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return 1
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return 2
	default:
		return 4
	}
}

// UintSize returns the smallest byte count (1 to 4) that holds v >= 0.
func UintSize(v int) int {
	switch {
	case v <= 0xff:
		return 1
	case v <= 0xffff:
		return 2
	case v <= 0xffffff:
		return 3
	default:
		return 4
	}
}

// Align rounds n up to a multiple of WordSize.
func Align(n int) int {
	return (n + WordSize - 1) &^ (WordSize - 1)
}
