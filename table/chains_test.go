package table

import (
	"errors"
	"slices"
	"testing"

	"github.com/coregx/fsmpack/internal/codec"
)

func TestChainsDedupAndFrequencyOrder(t *testing.T) {
	c := NewChains()
	rare := c.Add([]int{7})
	common := c.Add([]int{1, 2})
	if again := c.Add([]int{1, 2}); again != common {
		t.Fatalf("Add(equal array) = %d, want %d", again, common)
	}
	c.Add([]int{1, 2})
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}

	if got := c.Offset([]int{1, 2}); got != -1 {
		t.Errorf("Offset before Process = %d, want -1", got)
	}
	if err := c.Process(); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	// the array added three times comes first, right after the header
	if got := c.OffsetOf(common); got != 8 {
		t.Errorf("OffsetOf(common) = %d, want 8", got)
	}
	if got := c.OffsetOf(rare); got != 8+3 {
		t.Errorf("OffsetOf(rare) = %d, want 11", got)
	}

	dump := c.Dump()
	if len(dump)%4 != 0 {
		t.Errorf("dump length %d is not word aligned", len(dump))
	}
	// header + 5 one-byte values rounded up
	if len(dump) != 16 {
		t.Errorf("len(dump) = %d, want 16", len(dump))
	}
	if codec.Int32(dump, 0) != 1 || codec.Int32(dump, 4) != 2 {
		t.Errorf("header = %d, %d, want 1, 2", codec.Int32(dump, 0), codec.Int32(dump, 4))
	}
	for _, b := range dump[13:] {
		if b != 0 {
			t.Errorf("padding byte = %#x, want 0", b)
		}
	}
}

func TestChainsValueSize(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{"small", []int{1, -1, 127}, 1},
		{"short", []int{128}, 2},
		{"negative short", []int{-129}, 2},
		{"int", []int{1 << 20}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChains()
			c.Add(tt.values)
			if got := c.SizeOfValue(); got != tt.want {
				t.Errorf("SizeOfValue() = %d, want %d", got, tt.want)
			}
		})
	}

	long := make([]int, 200)
	c := NewChains()
	c.Add(long)
	if got := c.SizeOfValue(); got != 2 {
		t.Errorf("SizeOfValue() with count 200 = %d, want 2", got)
	}
}

func TestChainsRoundTrip(t *testing.T) {
	sets := [][]int{{-5, 300}, {0}, {1, 2, 3, 4}, {-70000}}
	c := NewChains()
	for _, s := range sets {
		c.Add(s)
	}
	if err := c.Process(); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	v, err := ParseChains(c.Dump())
	if err != nil {
		t.Fatalf("ParseChains() error = %v", err)
	}
	if v.MaxCount() != 4 {
		t.Errorf("MaxCount() = %d, want 4", v.MaxCount())
	}
	for _, s := range sets {
		got, err := v.At(nil, c.Offset(s))
		if err != nil {
			t.Fatalf("At(%d) error = %v", c.Offset(s), err)
		}
		if !slices.Equal(got, s) {
			t.Errorf("At(%d) = %v, want %v", c.Offset(s), got, s)
		}
	}
}

func TestChainsDeterministic(t *testing.T) {
	build := func() []byte {
		c := NewChains()
		for i := 0; i < 20; i++ {
			c.Add([]int{i % 3, i % 5})
		}
		if err := c.Process(); err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		return c.Dump()
	}
	if !slices.Equal(build(), build()) {
		t.Error("two identical builds produced different dumps")
	}
}

func TestChainsEmptyAndClear(t *testing.T) {
	c := NewChains()
	if err := c.Process(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Process() on empty table error = %v, want ErrEmpty", err)
	}
	c.Add([]int{1000})
	c.Clear()
	if c.Len() != 0 || c.SizeOfValue() != 1 || c.Dump() != nil {
		t.Errorf("Clear left Len=%d SizeOfValue=%d", c.Len(), c.SizeOfValue())
	}
}

func TestParseChainsMalformed(t *testing.T) {
	c := NewChains()
	c.Add([]int{1, 2})
	if err := c.Process(); err != nil {
		t.Fatal(err)
	}
	dump := c.Dump()

	if _, err := ParseChains(dump[:4]); !errors.Is(err, ErrMalformed) {
		t.Errorf("short dump error = %v, want ErrMalformed", err)
	}
	bad := slices.Clone(dump)
	bad[0] = 3
	if _, err := ParseChains(bad); !errors.Is(err, ErrMalformed) {
		t.Errorf("bad value size error = %v, want ErrMalformed", err)
	}

	v, err := ParseChains(dump)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := v.At(nil, 2); !errors.Is(err, ErrMalformed) {
		t.Errorf("At(header offset) error = %v, want ErrMalformed", err)
	}
	if _, err := v.At(nil, len(dump)); !errors.Is(err, ErrMalformed) {
		t.Errorf("At(end) error = %v, want ErrMalformed", err)
	}
	bad = slices.Clone(dump)
	bad[8] = 100 // count beyond max count
	v, _ = ParseChains(bad)
	if _, err := v.At(nil, 8); !errors.Is(err, ErrMalformed) {
		t.Errorf("At(oversized count) error = %v, want ErrMalformed", err)
	}
}
