package codec

import (
	"bytes"
	"math"
	"testing"
)

func TestUintRoundTrip(t *testing.T) {
	tests := []struct {
		v    uint32
		size int
		want []byte
	}{
		{0x7f, 1, []byte{0x7f}},
		{0x1234, 2, []byte{0x34, 0x12}},
		{0x01020304, 4, []byte{0x04, 0x03, 0x02, 0x01}},
	}
	for _, tt := range tests {
		buf := make([]byte, tt.size)
		PutUint(buf, 0, tt.v, tt.size)
		if !bytes.Equal(buf, tt.want) {
			t.Errorf("PutUint(%#x, %d) = %x, want %x", tt.v, tt.size, buf, tt.want)
		}
		if got := Uint(buf, 0, tt.size); got != tt.v {
			t.Errorf("Uint(%x, %d) = %#x, want %#x", buf, tt.size, got, tt.v)
		}
	}
}

func TestIntSignExtension(t *testing.T) {
	tests := []struct {
		v    int32
		size int
	}{
		{-1, 1}, {-128, 1}, {127, 1},
		{-129, 2}, {math.MinInt16, 2}, {math.MaxInt16, 2},
		{math.MinInt32, 4}, {math.MaxInt32, 4}, {-40000, 4},
	}
	for _, tt := range tests {
		buf := make([]byte, 4)
		PutInt(buf, 0, tt.v, tt.size)
		if got := Int(buf, 0, tt.size); got != tt.v {
			t.Errorf("Int(PutInt(%d, %d)) = %d", tt.v, tt.size, got)
		}
	}
}

func TestDstBigEndian(t *testing.T) {
	for size := 1; size <= 4; size++ {
		buf := make([]byte, 6)
		v := uint32(0x11223344) & DstMask(size)
		PutDst(buf, 1, v, size)
		if buf[1+size-1] != 0x44 {
			t.Errorf("size %d: low byte at %d = %#x, want 0x44", size, size, buf[1+size-1])
		}
		if got := Dst(buf, 1, size); got != v {
			t.Errorf("Dst size %d = %#x, want %#x", size, got, v)
		}
	}
}

func TestDecodeDstDeadSentinel(t *testing.T) {
	for size := 1; size <= 4; size++ {
		buf := make([]byte, 4)
		PutDst(buf, 0, DstMask(size), size)
		if got := DecodeDst(buf, 0, size); got != DeadState {
			t.Errorf("DecodeDst(mask, %d) = %d, want DeadState", size, got)
		}
		PutDst(buf, 0, DstMask(size)-1, size)
		if got := DecodeDst(buf, 0, size); got != int(DstMask(size)-1) {
			t.Errorf("DecodeDst(mask-1, %d) = %d, want %d", size, got, DstMask(size)-1)
		}
	}
}

func TestDstMask(t *testing.T) {
	want := []uint32{0, 0xff, 0xffff, 0xffffff, 0xffffffff}
	for size := 1; size <= 4; size++ {
		if got := DstMask(size); got != want[size] {
			t.Errorf("DstMask(%d) = %#x, want %#x", size, got, want[size])
		}
	}
}

func TestSizes(t *testing.T) {
	iw := []struct{ v, want int }{
		{0, 1}, {255, 1}, {256, 2}, {0xffff, 2}, {0x10000, 4},
	}
	for _, tt := range iw {
		if got := IwSize(tt.v); got != tt.want {
			t.Errorf("IwSize(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
	signed := []struct{ v, want int }{
		{0, 1}, {-128, 1}, {128, 2}, {-32769, 4}, {1 << 20, 4},
	}
	for _, tt := range signed {
		if got := IntSize(tt.v); got != tt.want {
			t.Errorf("IntSize(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
	unsigned := []struct{ v, want int }{
		{0, 1}, {255, 1}, {256, 2}, {0x10000, 3}, {0x1000000, 4},
	}
	for _, tt := range unsigned {
		if got := UintSize(tt.v); got != tt.want {
			t.Errorf("UintSize(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
	if got := Align(5); got != 8 {
		t.Errorf("Align(5) = %d, want 8", got)
	}
	if got := Align(8); got != 8 {
		t.Errorf("Align(8) = %d, want 8", got)
	}
}

func TestPrefix(t *testing.T) {
	values := []uint32{0, 0x7f, 0x80, 0x3fff, 0x4000, 0x1fffff, 0x200000, 0x0fffffff, 0x10000000, math.MaxUint32}
	wantLen := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	for i, v := range values {
		enc := AppendPrefix(nil, v)
		if len(enc) != wantLen[i] || PrefixLen(v) != wantLen[i] {
			t.Errorf("prefix length of %#x = %d (PrefixLen %d), want %d", v, len(enc), PrefixLen(v), wantLen[i])
		}
		got, n := Prefix(enc)
		if got != v || n != len(enc) {
			t.Errorf("Prefix(%x) = %#x, %d; want %#x, %d", enc, got, n, v, len(enc))
		}
	}
}

func TestPrefixTruncated(t *testing.T) {
	enc := AppendPrefix(nil, 0x200000)
	if _, n := Prefix(enc[:2]); n != 0 {
		t.Errorf("Prefix on truncated input consumed %d bytes, want 0", n)
	}
	if _, n := Prefix(nil); n != 0 {
		t.Errorf("Prefix(nil) consumed %d bytes, want 0", n)
	}
}
