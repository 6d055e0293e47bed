// Package image reads packed automaton images.
//
// An Image wraps the bytes produced by pack.Packer and answers transition,
// finality and output queries directly on them. States are identified by
// the byte offset of their record; Initial returns the first one. Parse
// validates the whole image up front (header, symbol map, Ows table, every
// record's field widths and every destination reference), so queries on a
// parsed Image never read out of bounds.
package image

import (
	"github.com/coregx/fsmpack/internal/codec"
	"github.com/coregx/fsmpack/internal/conv"
	"github.com/coregx/fsmpack/internal/layout"
	"github.com/coregx/fsmpack/table"
)

const (
	// NoState is returned by Dest when there is no transition.
	NoState = -1
	// DeadState is returned by Dest for a rejecting transition.
	DeadState = codec.DeadState
	// NoOw is returned for an absent output weight.
	NoOw = -1
)

// Image is a parsed, read-only automaton image. It is safe for concurrent use.
type Image struct {
	buf       []byte
	dstSize   int
	dstMask   uint32
	alphabet  []int
	remap     *table.IwMapView
	ows       *table.ChainsView
	owsOffset int
	first     int
	statesEnd int
	records   []int
	starts    bitset

	closer func() error
}

// Parse validates buf and returns an Image reading from it. buf must not be
// modified while the Image is in use.
func Parse(buf []byte) (*Image, error) {
	m := &Image{buf: buf}
	if err := m.parseHeader(); err != nil {
		return nil, err
	}
	if err := m.scanRecords(); err != nil {
		return nil, err
	}
	if err := m.checkReferences(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Image) parseHeader() error {
	buf := m.buf
	if len(buf) < layout.HeaderSize+4 || len(buf)%codec.WordSize != 0 {
		return malformed(0, "image size %d", len(buf))
	}
	m.dstSize = int(codec.Int32(buf, layout.DstSizeOffset))
	if m.dstSize < 1 || m.dstSize > 4 {
		return malformed(layout.DstSizeOffset, "destination size %d", m.dstSize)
	}
	m.dstMask = codec.DstMask(m.dstSize)

	m.owsOffset = int(codec.Int32(buf, layout.OwsOffsetOffset))
	m.statesEnd = len(buf)
	if m.owsOffset != 0 {
		if m.owsOffset < layout.HeaderSize || m.owsOffset >= len(buf) || m.owsOffset%codec.WordSize != 0 {
			return malformed(layout.OwsOffsetOffset, "Ows table offset %d", m.owsOffset)
		}
		ows, err := table.ParseChains(buf[m.owsOffset:])
		if err != nil {
			return &FormatError{Offset: m.owsOffset, Reason: "Ows table", Err: err}
		}
		m.ows = ows
		m.statesEnd = m.owsOffset
	}

	off := layout.AlphabetOffset
	raw := codec.Uint(buf, off, 4)
	remapped := raw&layout.RemapFlag != 0
	count := conv.Uint32ToInt(raw &^ layout.RemapFlag)
	off += 4
	if count%2 != 0 || off+4*count > m.statesEnd {
		return malformed(layout.AlphabetOffset, "alphabet count %d", count)
	}
	m.alphabet = make([]int, count)
	for i := range m.alphabet {
		m.alphabet[i] = int(codec.Int32(buf, off))
		off += 4
	}
	for i := 0; i < count; i += 2 {
		from, to := m.alphabet[i], m.alphabet[i+1]
		if from < 0 || to < from || (i > 0 && from <= m.alphabet[i-1]+1) {
			return malformed(layout.AlphabetOffset+4+4*i, "alphabet range [%d, %d]", from, to)
		}
	}

	if remapped {
		if off+4 > m.statesEnd {
			return malformed(off, "missing symbol map size")
		}
		size := int(codec.Int32(buf, off))
		off += 4
		if size <= 0 || off+size > m.statesEnd {
			return malformed(off-4, "symbol map size %d", size)
		}
		remap, err := table.ParseIwMap(buf[off : off+size])
		if err != nil {
			return &FormatError{Offset: off, Reason: "symbol map", Err: err}
		}
		m.remap = remap
		off += size
	}
	if off >= m.statesEnd {
		return malformed(off, "image has no state records")
	}
	m.first = off
	return nil
}

// scanRecords walks the contiguous records of the states area.
func (m *Image) scanRecords() error {
	m.starts = newBitset(m.statesEnd)
	for off := m.first; off < m.statesEnd; {
		r, ok := m.decode(off)
		if !ok {
			return malformed(off, "state record %#02x does not fit the image", m.buf[off])
		}
		m.records = append(m.records, off)
		m.starts.set(off)
		off = r.end
	}
	return nil
}

// checkReferences validates symbol order, destinations and outputs, then
// drops the alignment padding from the record list.
func (m *Image) checkReferences() error {
	refs := newBitset(m.statesEnd)
	for _, off := range m.records {
		r, _ := m.decode(off)
		if err := m.checkRecord(&r, refs); err != nil {
			return err
		}
	}
	m.trimPadding(refs)
	return nil
}

// trimPadding removes trailing zero bytes in the last word of the states
// area that no transition references. These are the packer's alignment
// bytes, which decode as empty records.
func (m *Image) trimPadding(refs bitset) {
	for len(m.records) > 1 {
		off := m.records[len(m.records)-1]
		if off < m.statesEnd-(codec.WordSize-1) || m.buf[off] != 0 || refs.has(off) {
			return
		}
		m.records = m.records[:len(m.records)-1]
		m.starts.clear(off)
	}
}

func (m *Image) checkRecord(r *record, refs bitset) error {
	switch r.info.TrType() {
	case layout.TrsPara:
		for i := 1; i < r.n; i++ {
			if m.iwAt(r, i) <= m.iwAt(r, i-1) {
				return malformed(r.off, "unsorted symbols")
			}
		}
	case layout.TrsRange:
		tos := r.iws + r.n*r.iwSize
		prev := -1
		for i := 0; i < r.n; i++ {
			from := m.iwAt(r, i)
			to := int(codec.Uint(m.buf, tos+i*r.iwSize, r.iwSize))
			if to < from || from <= prev {
				return malformed(r.off, "bad range [%d, %d]", from, to)
			}
			prev = to
		}
	}

	var bad int
	ok := true
	check := func(dst int, hole bool) {
		if !ok {
			return
		}
		switch {
		case uint32(dst) == m.dstMask:
		case hole && dst == 0:
		case !m.starts.has(dst):
			ok, bad = false, dst
		default:
			refs.set(dst)
		}
	}
	switch r.info.TrType() {
	case layout.TrsImpl:
		check(r.end, false)
	case layout.TrsPara, layout.TrsRange:
		for i := 0; i < r.n; i++ {
			check(m.dstAt(r, i), false)
		}
	case layout.TrsIwIA:
		for i := 0; i < r.n; i++ {
			check(m.dstAt(r, i), true)
		}
	}
	if !ok {
		return malformed(r.off, "destination %d is not a state record", bad)
	}

	if m.ows != nil && r.info.OwSize() > 0 {
		ow := int(codec.Int(m.buf, r.ow, r.info.OwSize()))
		if _, err := m.ows.At(nil, ow); err != nil {
			return &FormatError{Offset: r.off, Reason: "output set", Err: err}
		}
	}
	return nil
}

// Close releases a memory mapping created by Open. It is a no-op for
// images created by Parse.
func (m *Image) Close() error {
	if m.closer == nil {
		return nil
	}
	err := m.closer()
	m.closer = nil
	m.buf = nil
	return err
}

// Bytes returns the underlying image.
func (m *Image) Bytes() []byte { return m.buf }

// DstSize returns the width of destination fields.
func (m *Image) DstSize() int { return m.dstSize }

// Initial returns the initial state.
func (m *Image) Initial() int { return m.first }

// Remapped reports whether the image stores a symbol map.
func (m *Image) Remapped() bool { return m.remap != nil }

// HasOwsTable reports whether the image carries an Ows table.
func (m *Image) HasOwsTable() bool { return m.ows != nil }

// Alphabet returns the alphabet as [from, to] pairs.
func (m *Image) Alphabet() []int { return m.alphabet }

// IWs returns the alphabet, one symbol per element.
func (m *Image) IWs() []int {
	var iws []int
	for i := 0; i < len(m.alphabet); i += 2 {
		for iw := m.alphabet[i]; iw <= m.alphabet[i+1]; iw++ {
			iws = append(iws, iw)
		}
	}
	return iws
}

// States returns the offsets of all state records in image order.
// Alignment padding is not a state. An empty, non-final state that nothing
// references and that ends within the last word of the states area cannot
// be told apart from padding and is dropped with it.
func (m *Image) States() []int { return m.records }

// IsState reports whether state is the offset of a state record.
func (m *Image) IsState(state int) bool {
	return state >= m.first && state < m.statesEnd && m.starts.has(state)
}

// packedIw maps an alphabet symbol into the stored symbol space.
func (m *Image) packedIw(iw int) int {
	if iw < 0 {
		return -1
	}
	if m.remap != nil {
		return m.remap.NewIw(iw)
	}
	return iw
}

func (m *Image) stateRecord(state int) (record, bool) {
	if !m.IsState(state) {
		return record{}, false
	}
	return m.decode(state)
}

// Dest returns the state reached from state on iw, NoState if there is no
// transition, or DeadState.
func (m *Image) Dest(state, iw int) int {
	dst, _, ok := m.find(state, iw)
	if !ok {
		return NoState
	}
	return dst
}

func (m *Image) find(state, iw int) (dst, rank int, ok bool) {
	r, ok := m.stateRecord(state)
	if !ok {
		return 0, 0, false
	}
	piw := m.packedIw(iw)
	if piw < 0 {
		return 0, 0, false
	}
	return m.lookup(&r, piw)
}

// IsFinal reports whether state is final.
func (m *Image) IsFinal(state int) bool {
	if !m.IsState(state) {
		return false
	}
	return layout.Info(m.buf[state]).IsFinal()
}

// Ow returns the raw output field of state: the Moore weight of a single
// weight image, or the Ows table offset of weight-set and Mealy images.
func (m *Image) Ow(state int) int {
	r, ok := m.stateRecord(state)
	if !ok || r.info.OwSize() == 0 {
		return NoOw
	}
	return int(codec.Int(m.buf, r.ow, r.info.OwSize()))
}

// Ows appends the weight set of state to dst. It returns dst unchanged if
// the state has no set or the image has no Ows table.
func (m *Image) Ows(dst []int, state int) []int {
	if m.ows == nil {
		return dst
	}
	ow := m.Ow(state)
	if ow == NoOw {
		return dst
	}
	// offsets were validated by Parse
	out, _ := m.ows.At(dst, ow)
	return out
}

// DestOw returns the destination and the Mealy output of state on iw.
func (m *Image) DestOw(state, iw int) (dst, ow int) {
	dst, rank, ok := m.find(state, iw)
	if !ok {
		return NoState, NoOw
	}
	if m.ows == nil {
		return dst, NoOw
	}
	off := m.Ow(state)
	if off == NoOw {
		return dst, NoOw
	}
	ows, _ := m.ows.At(nil, off)
	if rank >= len(ows) {
		return dst, NoOw
	}
	return dst, ows[rank]
}

// MealyOw returns the Mealy output of state on iw.
func (m *Image) MealyOw(state, iw int) int {
	_, ow := m.DestOw(state, iw)
	return ow
}

// Arc is one outgoing transition in alphabet symbols.
type Arc struct {
	Iw  int
	Dst int
}

// Arcs returns the outgoing transitions of state ordered by symbol.
// Remapped images report every alphabet symbol mapped to a stored one.
func (m *Image) Arcs(state int) []Arc {
	r, ok := m.stateRecord(state)
	if !ok || r.info.TrType() == layout.TrsNone {
		return nil
	}
	var arcs []Arc
	if m.remap != nil {
		for _, iw := range m.IWs() {
			if dst := m.Dest(state, iw); dst != NoState {
				arcs = append(arcs, Arc{Iw: iw, Dst: dst})
			}
		}
		return arcs
	}
	m.each(&r, func(iw, dst int) {
		arcs = append(arcs, Arc{Iw: iw, Dst: dst})
	})
	return arcs
}

// Run follows iws from the initial state and returns the state reached, or
// NoState / DeadState when the walk stops early.
func (m *Image) Run(iws []int) int {
	state := m.first
	for _, iw := range iws {
		state = m.Dest(state, iw)
		if state < 0 {
			return state
		}
	}
	return state
}

// Accepts reports whether iws leads from the initial state to a final state.
func (m *Image) Accepts(iws []int) bool {
	state := m.Run(iws)
	return state >= 0 && m.IsFinal(state)
}
