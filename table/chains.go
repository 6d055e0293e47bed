package table

import (
	"cmp"
	"slices"

	"github.com/coregx/fsmpack/internal/chain"
	"github.com/coregx/fsmpack/internal/codec"
	"github.com/coregx/fsmpack/internal/conv"
)

const chainsHeaderSize = 8

// Chains is a content-addressed table of integer arrays.
//
// Dump layout:
//
//	<SizeOfValue int32> <MaxCount int32> { <Count> <Value>{Count} }
//
// Count and values are signed little-endian fields of SizeOfValue bytes.
// Arrays are laid out from most to least frequently added, ties in
// insertion order, so common arrays get small offsets.
type Chains struct {
	sets        *chain.Map // value is the add count
	sizeOfValue int
	maxCount    int
	valuesCount int
	offsets     []int
	dump        []byte
}

// NewChains returns an empty table.
func NewChains() *Chains {
	return &Chains{sets: chain.New(), sizeOfValue: 1}
}

// Add registers values and returns the stable id of its content. Adding an
// equal array again returns the same id and bumps its frequency.
func (c *Chains) Add(values []int) int {
	c.offsets = c.offsets[:0]
	for _, v := range values {
		c.sizeOfValue = max(c.sizeOfValue, codec.IntSize(v))
	}
	c.sizeOfValue = max(c.sizeOfValue, codec.IntSize(len(values)))

	if id := c.sets.ID(values); id != -1 {
		c.sets.Add(values, c.sets.Value(id)+1)
		return id
	}
	c.maxCount = max(c.maxCount, len(values))
	c.valuesCount += 1 + len(values)
	return c.sets.Add(values, 1)
}

// Len returns the number of distinct arrays.
func (c *Chains) Len() int {
	return c.sets.Len()
}

// SizeOfValue returns the field width used for counts and values.
func (c *Chains) SizeOfValue() int {
	return c.sizeOfValue
}

// Process lays out the dump. Offsets are valid until the next Add or Clear.
func (c *Chains) Process() error {
	n := c.sets.Len()
	if n == 0 {
		return ErrEmpty
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(c.sets.Value(b), c.sets.Value(a))
	})

	c.dump = make([]byte, codec.Align(chainsHeaderSize+c.sizeOfValue*c.valuesCount))
	codec.PutInt32(c.dump, 0, conv.IntToInt32(c.sizeOfValue))
	codec.PutInt32(c.dump, 4, conv.IntToInt32(c.maxCount))

	c.offsets = make([]int, n)
	off := chainsHeaderSize
	for _, id := range order {
		c.offsets[id] = off
		values := c.sets.Chain(id)
		codec.PutInt(c.dump, off, conv.IntToInt32(len(values)), c.sizeOfValue)
		off += c.sizeOfValue
		for _, v := range values {
			codec.PutInt(c.dump, off, conv.IntToInt32(v), c.sizeOfValue)
			off += c.sizeOfValue
		}
	}
	return nil
}

// Offset returns the byte offset of values within the dump, or -1 if the
// array was never added or Process has not run.
func (c *Chains) Offset(values []int) int {
	id := c.sets.ID(values)
	if id == -1 {
		return -1
	}
	return c.OffsetOf(id)
}

// OffsetOf returns the byte offset of the array with the given id, or -1.
func (c *Chains) OffsetOf(id int) int {
	if id < 0 || id >= len(c.offsets) {
		return -1
	}
	return c.offsets[id]
}

// Dump returns the bytes built by Process.
func (c *Chains) Dump() []byte {
	return c.dump
}

// Clear removes all arrays.
func (c *Chains) Clear() {
	c.sets.Clear()
	c.sizeOfValue = 1
	c.maxCount = 0
	c.valuesCount = 0
	c.offsets = c.offsets[:0]
	c.dump = nil
}

// ChainsView reads a Chains dump.
type ChainsView struct {
	dump        []byte
	sizeOfValue int
	maxCount    int
}

// ParseChains validates the header of a Chains dump.
func ParseChains(dump []byte) (*ChainsView, error) {
	if len(dump) < chainsHeaderSize {
		return nil, malformed(0, "dump of %d bytes is shorter than its header", len(dump))
	}
	size := int(codec.Int32(dump, 0))
	if size != 1 && size != 2 && size != 4 {
		return nil, malformed(0, "value size %d", size)
	}
	maxCount := int(codec.Int32(dump, 4))
	if maxCount < 0 {
		return nil, malformed(4, "negative max count %d", maxCount)
	}
	return &ChainsView{dump: dump, sizeOfValue: size, maxCount: maxCount}, nil
}

// MaxCount returns the length of the longest stored array.
func (v *ChainsView) MaxCount() int {
	return v.maxCount
}

// At decodes the array stored at offset, appending it to dst.
func (v *ChainsView) At(dst []int, offset int) ([]int, error) {
	size := v.sizeOfValue
	if offset < chainsHeaderSize || offset+size > len(v.dump) {
		return dst, malformed(offset, "array offset out of bounds")
	}
	n := int(codec.Int(v.dump, offset, size))
	if n < 0 || n > v.maxCount || offset+size*(n+1) > len(v.dump) {
		return dst, malformed(offset, "array count %d out of bounds", n)
	}
	for i := 1; i <= n; i++ {
		dst = append(dst, int(codec.Int(v.dump, offset+i*size, size)))
	}
	return dst, nil
}
