package codec

// Prefix codes store small non-negative integers in 1 to 5 bytes. The number
// of leading one bits in the first byte gives the count of extra bytes; 0xF0
// introduces a full 4-byte little-endian value.

// PrefixLen returns the number of bytes AppendPrefix writes for v.
func PrefixLen(v uint32) int {
	switch {
	case v <= 0x7f:
		return 1
	case v <= 0x3fff:
		return 2
	case v <= 0x1fffff:
		return 3
	case v <= 0x0fffffff:
		return 4
	default:
		return 5
	}
}

// AppendPrefix appends the prefix code of v to dst.
func AppendPrefix(dst []byte, v uint32) []byte {
	switch PrefixLen(v) {
	case 1:
		return append(dst, byte(v))
	case 2:
		return append(dst, 0x80|byte(v>>8), byte(v))
	case 3:
		return append(dst, 0xc0|byte(v>>16), byte(v>>8), byte(v))
	case 4:
		return append(dst, 0xe0|byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
	default:
		return append(dst, 0xf0, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
}

// Prefix decodes a prefix code at the start of buf and returns the value and
// the number of bytes consumed. n is 0 if buf is truncated.
func Prefix(buf []byte) (v uint32, n int) {
	if len(buf) == 0 {
		return 0, 0
	}
	s := buf[0]
	switch {
	case s&0x80 == 0:
		return uint32(s), 1
	case s&0x40 == 0:
		n = 2
	case s&0x20 == 0:
		n = 3
	case s&0x10 == 0:
		n = 4
	default:
		if len(buf) < 5 {
			return 0, 0
		}
		return Uint(buf, 1, 4), 5
	}
	if len(buf) < n {
		return 0, 0
	}
	v = uint32(s) & (0xff >> uint(n))
	for i := 1; i < n; i++ {
		v = v<<8 | uint32(buf[i])
	}
	return v, n
}
