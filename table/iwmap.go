package table

import (
	"sort"

	"github.com/coregx/fsmpack/internal/codec"
	"github.com/coregx/fsmpack/internal/conv"
)

// DefaultMaxGap is the largest run of unmapped symbols folded into an interval.
const DefaultMaxGap = 50

// IwMap packs an old-symbol -> new-symbol map.
//
// Old symbols are grouped into intervals; holes of up to MaxGap unmapped
// symbols stay inside an interval. Dump layout:
//
//	<NewIwSize int32> <IntervalCount int32>
//	<FromIw int32>{IntervalCount}
//	{ <ToIw int32> <Offset int32> }{IntervalCount}
//	<NewIw+1>{...}
//
// Offset is the byte position of the interval's first entry within the
// trailing array. Entries are NewIwSize-byte big-endian values; 0 marks an
// unmapped symbol.
type IwMap struct {
	maxGap  int
	oldIws  []int
	newIws  []int
	newSize int

	from   []int
	to     []int
	idx    []int
	maxIdx int
	dump   []byte
}

// NewIwMap returns an empty map with DefaultMaxGap.
func NewIwMap() *IwMap {
	return &IwMap{maxGap: DefaultMaxGap}
}

// SetMaxGap overrides DefaultMaxGap.
func (m *IwMap) SetMaxGap(maxGap int) {
	m.maxGap = max(maxGap, 0)
}

// SetIws sets the mapping oldIws[i] -> newIws[i]. oldIws must be sorted,
// unique and non-negative; the slices are not copied.
func (m *IwMap) SetIws(oldIws, newIws []int) error {
	if len(oldIws) == 0 || len(oldIws) != len(newIws) {
		return ErrInvalidIws
	}
	for i, iw := range oldIws {
		if iw < 0 || newIws[i] < 0 || (i > 0 && oldIws[i-1] >= iw) {
			return ErrInvalidIws
		}
	}
	m.oldIws = oldIws
	m.newIws = newIws
	return nil
}

// NewIw returns the mapping of oldIw, or -1.
func (m *IwMap) NewIw(oldIw int) int {
	i := sort.SearchInts(m.oldIws, oldIw)
	if i < len(m.oldIws) && m.oldIws[i] == oldIw {
		return m.newIws[i]
	}
	return -1
}

// Process builds the dump.
func (m *IwMap) Process() error {
	if len(m.oldIws) == 0 {
		return ErrEmpty
	}
	m.reset()
	m.calcNewIwSize()
	m.buildIntervals()
	m.buildDump()
	return nil
}

// Dump returns the bytes built by Process.
func (m *IwMap) Dump() []byte {
	return m.dump
}

// Clear drops the built dump and the input.
func (m *IwMap) Clear() {
	m.reset()
	m.oldIws = nil
	m.newIws = nil
}

func (m *IwMap) reset() {
	m.from = m.from[:0]
	m.to = m.to[:0]
	m.idx = m.idx[:0]
	m.maxIdx = 0
	m.dump = nil
}

func (m *IwMap) calcNewIwSize() {
	maxNew := 0
	for _, v := range m.newIws {
		maxNew = max(maxNew, v)
	}
	// entries store NewIw + 1
	m.newSize = codec.UintSize(maxNew + 1)
}

func (m *IwMap) addInterval(from, to int) {
	m.from = append(m.from, from)
	m.to = append(m.to, to)
	m.idx = append(m.idx, m.maxIdx)
	m.maxIdx += to - from + 1
}

func (m *IwMap) buildIntervals() {
	prev := m.oldIws[0]
	begin, end := prev, prev
	for _, iw := range m.oldIws[1:] {
		if prev+m.maxGap < iw {
			m.addInterval(begin, end)
			begin = iw
		}
		end = iw
		prev = iw
	}
	m.addInterval(begin, end)
}

func (m *IwMap) buildDump() {
	count := len(m.from)
	size := 8 + 12*count + m.newSize*m.maxIdx
	m.dump = make([]byte, codec.Align(size))

	codec.PutInt32(m.dump, 0, conv.IntToInt32(m.newSize))
	codec.PutInt32(m.dump, 4, conv.IntToInt32(count))
	off := 8
	for _, from := range m.from {
		codec.PutInt32(m.dump, off, conv.IntToInt32(from))
		off += 4
	}
	for i, to := range m.to {
		codec.PutInt32(m.dump, off, conv.IntToInt32(to))
		codec.PutInt32(m.dump, off+4, conv.IntToInt32(m.idx[i]*m.newSize))
		off += 8
	}

	// holes stay zero
	k := 0
	for i, from := range m.from {
		for ; k < len(m.oldIws) && m.oldIws[k] <= m.to[i]; k++ {
			pos := off + (m.idx[i]+m.oldIws[k]-from)*m.newSize
			codec.PutDst(m.dump, pos, conv.IntToUint32(m.newIws[k]+1), m.newSize)
		}
	}
}

// IwMapView reads an IwMap dump.
type IwMapView struct {
	dump    []byte
	newSize int
	count   int
	values  int // start of the NewIw+1 array
}

// ParseIwMap validates an IwMap dump.
func ParseIwMap(dump []byte) (*IwMapView, error) {
	if len(dump) < 8 {
		return nil, malformed(0, "dump of %d bytes is shorter than its header", len(dump))
	}
	size := int(codec.Int32(dump, 0))
	if size < 1 || size > 4 {
		return nil, malformed(0, "symbol size %d", size)
	}
	count := int(codec.Int32(dump, 4))
	if count <= 0 || 8+12*count > len(dump) {
		return nil, malformed(4, "interval count %d", count)
	}
	v := &IwMapView{dump: dump, newSize: size, count: count, values: 8 + 12*count}
	for i := 0; i < count; i++ {
		from, to, off := v.interval(i)
		if to < from || off < 0 || v.values+off+(to-from+1)*size > len(dump) {
			return nil, malformed(8+4*i, "interval %d [%d, %d] at %d out of bounds", i, from, to, off)
		}
		if i > 0 {
			if prevFrom, _, _ := v.interval(i - 1); prevFrom >= from {
				return nil, malformed(8+4*i, "intervals not sorted")
			}
		}
	}
	return v, nil
}

func (v *IwMapView) interval(i int) (from, to, off int) {
	from = int(codec.Int32(v.dump, 8+4*i))
	pair := 8 + 4*v.count + 8*i
	return from, int(codec.Int32(v.dump, pair)), int(codec.Int32(v.dump, pair+4))
}

// NewIw returns the mapping of oldIw, or -1 if it is not mapped.
func (v *IwMapView) NewIw(oldIw int) int {
	// last interval with From <= oldIw
	i := sort.Search(v.count, func(i int) bool {
		return int(codec.Int32(v.dump, 8+4*i)) > oldIw
	}) - 1
	if i < 0 {
		return -1
	}
	from, to, off := v.interval(i)
	if oldIw > to {
		return -1
	}
	return int(codec.Dst(v.dump, v.values+off+(oldIw-from)*v.newSize, v.newSize)) - 1
}

// Each calls fn for every mapped symbol in ascending old order.
func (v *IwMapView) Each(fn func(oldIw, newIw int)) {
	for i := 0; i < v.count; i++ {
		from, to, _ := v.interval(i)
		for iw := from; iw <= to; iw++ {
			if n := v.NewIw(iw); n != -1 {
				fn(iw, n)
			}
		}
	}
}
