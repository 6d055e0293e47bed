package image

import (
	"sort"

	"github.com/coregx/fsmpack/internal/conv"
	"github.com/coregx/fsmpack/internal/layout"
	"github.com/coregx/fsmpack/internal/sparse"
)

// Stats summarizes an image.
type Stats struct {
	Size      int
	DstSize   int
	States    int
	Reachable int
	Finals    int
	WithOw    int
	// ByType counts records per representation.
	ByType     map[layout.TrType]int
	Alphabet   int
	Remapped   bool
	StatesSize int
	OwsSize    int
}

// Stats walks every record and counts states reachable from Initial.
func (m *Image) Stats() Stats {
	s := Stats{
		Size:       len(m.buf),
		DstSize:    m.dstSize,
		States:     len(m.records),
		ByType:     make(map[layout.TrType]int),
		Alphabet:   len(m.IWs()),
		Remapped:   m.remap != nil,
		StatesSize: m.statesEnd,
	}
	if m.ows != nil {
		s.OwsSize = len(m.buf) - m.owsOffset
	}
	for _, off := range m.records {
		r, _ := m.decode(off)
		s.ByType[r.info.TrType()]++
		if r.info.IsFinal() {
			s.Finals++
		}
		if r.info.OwSize() > 0 {
			s.WithOw++
		}
	}
	s.Reachable = m.reachable()
	return s
}

// recordIndex maps a record offset to its position in m.records.
func (m *Image) recordIndex(off int) int {
	return sort.SearchInts(m.records, off)
}

// reachable counts records reachable from the initial state.
func (m *Image) reachable() int {
	seen := sparse.NewSparseSet(conv.IntToUint32(len(m.records)))
	stack := []int{m.first}
	seen.Insert(0)
	for len(stack) > 0 {
		off := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		r, _ := m.decode(off)
		m.each(&r, func(_, dst int) {
			if dst < 0 {
				return
			}
			if seen.Insert(conv.IntToUint32(m.recordIndex(dst))) {
				stack = append(stack, dst)
			}
		})
	}
	return seen.Len()
}

// RecordInfo describes the encoding of one state record.
type RecordInfo struct {
	Offset int
	Size   int
	Type   layout.TrType
	IwSize int
	OwSize int
	Final  bool
	// Count is the number of transitions, ranges or IwIA slots.
	Count int
}

// Record describes the record of state.
func (m *Image) Record(state int) (RecordInfo, bool) {
	r, ok := m.stateRecord(state)
	if !ok {
		return RecordInfo{}, false
	}
	info := RecordInfo{
		Offset: r.off,
		Size:   r.end - r.off,
		Type:   r.info.TrType(),
		OwSize: r.info.OwSize(),
		Final:  r.info.IsFinal(),
		Count:  r.n,
	}
	if info.Type != layout.TrsNone {
		info.IwSize = r.iwSize
	}
	return info, true
}

// SizeHistogram returns the number of records of every record size.
func (m *Image) SizeHistogram() map[int]int {
	h := make(map[int]int)
	for _, off := range m.records {
		r, _ := m.decode(off)
		h[r.end-off]++
	}
	return h
}
