package table

import (
	"errors"
	"testing"

	"github.com/coregx/fsmpack/internal/codec"
)

func TestIwMapRoundTrip(t *testing.T) {
	oldIws := []int{5, 6, 7, 40, 200, 201, 1000}
	newIws := []int{0, 1, 1, 2, 3, 0, 4}

	m := NewIwMap()
	if err := m.SetIws(oldIws, newIws); err != nil {
		t.Fatalf("SetIws() error = %v", err)
	}
	if err := m.Process(); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	dump := m.Dump()
	if len(dump)%4 != 0 {
		t.Errorf("dump length %d is not word aligned", len(dump))
	}
	// 5..40 joined (gap 32), 200..201 separate (gap 159), 1000 separate
	if got := codec.Int32(dump, 4); got != 3 {
		t.Errorf("interval count = %d, want 3", got)
	}

	v, err := ParseIwMap(dump)
	if err != nil {
		t.Fatalf("ParseIwMap() error = %v", err)
	}
	for i, iw := range oldIws {
		if got := v.NewIw(iw); got != newIws[i] {
			t.Errorf("NewIw(%d) = %d, want %d", iw, got, newIws[i])
		}
		if got := m.NewIw(iw); got != newIws[i] {
			t.Errorf("builder NewIw(%d) = %d, want %d", iw, got, newIws[i])
		}
	}
	for _, iw := range []int{0, 4, 8, 39, 41, 199, 202, 999, 1001, 1 << 20} {
		if got := v.NewIw(iw); got != -1 {
			t.Errorf("NewIw(%d) = %d, want -1", iw, got)
		}
	}

	var seen []int
	v.Each(func(oldIw, newIw int) { seen = append(seen, oldIw) })
	if len(seen) != len(oldIws) {
		t.Errorf("Each visited %v, want %v", seen, oldIws)
	}
}

func TestIwMapMaxGap(t *testing.T) {
	m := NewIwMap()
	m.SetMaxGap(0)
	if err := m.SetIws([]int{1, 3}, []int{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.Process(); err != nil {
		t.Fatal(err)
	}
	if got := codec.Int32(m.Dump(), 4); got != 2 {
		t.Errorf("interval count with MaxGap 0 = %d, want 2", got)
	}
}

func TestIwMapNewIwSize(t *testing.T) {
	tests := []struct {
		maxNew int
		want   int32
	}{
		{254, 1}, {255, 2}, {0xfffe, 2}, {0xffff, 3}, {0xffffff, 4},
	}
	for _, tt := range tests {
		m := NewIwMap()
		if err := m.SetIws([]int{0}, []int{tt.maxNew}); err != nil {
			t.Fatal(err)
		}
		if err := m.Process(); err != nil {
			t.Fatal(err)
		}
		if got := codec.Int32(m.Dump(), 0); got != tt.want {
			t.Errorf("NewIwSize for max %d = %d, want %d", tt.maxNew, got, tt.want)
		}
		v, err := ParseIwMap(m.Dump())
		if err != nil {
			t.Fatal(err)
		}
		if got := v.NewIw(0); got != tt.maxNew {
			t.Errorf("NewIw(0) = %d, want %d", got, tt.maxNew)
		}
	}
}

func TestIwMapInvalid(t *testing.T) {
	m := NewIwMap()
	bad := [][2][]int{
		{nil, nil},
		{{1, 2}, {0}},
		{{2, 1}, {0, 0}},
		{{1, 1}, {0, 0}},
		{{-1}, {0}},
		{{1}, {-1}},
	}
	for _, b := range bad {
		if err := m.SetIws(b[0], b[1]); !errors.Is(err, ErrInvalidIws) {
			t.Errorf("SetIws(%v, %v) error = %v, want ErrInvalidIws", b[0], b[1], err)
		}
	}
	if err := m.Process(); !errors.Is(err, ErrEmpty) {
		t.Errorf("Process() without input error = %v, want ErrEmpty", err)
	}
}

func TestParseIwMapMalformed(t *testing.T) {
	m := NewIwMap()
	if err := m.SetIws([]int{3, 4}, []int{0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := m.Process(); err != nil {
		t.Fatal(err)
	}
	dump := m.Dump()

	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"short", func(b []byte) []byte { return b[:6] }},
		{"bad size", func(b []byte) []byte { b[0] = 9; return b }},
		{"bad count", func(b []byte) []byte { b[4] = 50; return b }},
		{"reversed interval", func(b []byte) []byte { b[12] = 1; return b }},
		{"offset past end", func(b []byte) []byte { b[16] = 200; return b }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(append([]byte(nil), dump...))
			if _, err := ParseIwMap(b); !errors.Is(err, ErrMalformed) {
				t.Errorf("ParseIwMap() error = %v, want ErrMalformed", err)
			}
		})
	}
}
