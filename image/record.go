package image

import (
	"github.com/coregx/fsmpack/internal/codec"
	"github.com/coregx/fsmpack/internal/layout"
)

// record is a decoded state record header.
type record struct {
	off    int // info byte
	info   layout.Info
	iwSize int
	n      int // transitions (para), ranges (range) or slots (iwia)
	base   int // first symbol (iwia)
	iws    int // symbol data
	dsts   int // destination array
	ow     int // output field
	end    int
}

// decode reads the record at off, checking every field against limit.
func (m *Image) decode(off int) (record, bool) {
	buf, limit := m.buf, m.statesEnd
	if off < m.first || off >= limit {
		return record{}, false
	}
	r := record{off: off, info: layout.Info(buf[off])}
	r.iwSize = r.info.IwSize()
	if r.iwSize == 3 {
		return r, false
	}
	p := off + 1
	w, d := r.iwSize, m.dstSize

	switch r.info.TrType() {
	case layout.TrsNone:
	case layout.TrsImpl:
		if p+w > limit {
			return r, false
		}
		r.n, r.iws = 1, p
		p += w
	case layout.TrsPara:
		if p+w > limit {
			return r, false
		}
		r.n = int(codec.Uint(buf, p, w)) + 1
		r.iws = p + w
		r.dsts = r.iws + r.n*w
		p = r.dsts + r.n*d
	case layout.TrsIwIA:
		if p+2*w > limit {
			return r, false
		}
		r.base = int(codec.Uint(buf, p, w))
		top := int(codec.Uint(buf, p+w, w))
		if top < r.base {
			return r, false
		}
		r.n = top - r.base + 1
		r.dsts = p + 2*w
		p = r.dsts + r.n*d
	case layout.TrsRange:
		if p+w > limit {
			return r, false
		}
		r.n = int(codec.Uint(buf, p, w)) + 1
		r.iws = p + w
		r.dsts = r.iws + 2*r.n*w
		p = r.dsts + r.n*d
	default:
		return r, false
	}

	r.ow = p
	p += r.info.OwSize()
	if p > limit || p < off {
		return r, false
	}
	r.end = p
	return r, true
}

func (m *Image) iwAt(r *record, i int) int {
	return int(codec.Uint(m.buf, r.iws+i*r.iwSize, r.iwSize))
}

// dstAt returns the raw destination field i.
func (m *Image) dstAt(r *record, i int) int {
	return int(codec.Dst(m.buf, r.dsts+i*m.dstSize, m.dstSize))
}

// destAt returns destination i with the dead sentinel mapped to DeadState.
func (m *Image) destAt(r *record, i int) int {
	return codec.DecodeDst(m.buf, r.dsts+i*m.dstSize, m.dstSize)
}

// search returns the index of the last symbol in [lo, hi) of the symbol
// array at base that is <= iw, or -1.
func (m *Image) search(r *record, base, count, iw int) int {
	lo, hi := 0, count
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if int(codec.Uint(m.buf, base+mid*r.iwSize, r.iwSize)) <= iw {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo - 1
}

// lookup finds the transition on a packed symbol. It returns the
// destination, the transition's rank among the record's transitions, and
// whether it exists.
func (m *Image) lookup(r *record, iw int) (dst, rank int, ok bool) {
	switch r.info.TrType() {
	case layout.TrsImpl:
		if m.iwAt(r, 0) == iw {
			return r.end, 0, true
		}
	case layout.TrsPara:
		i := m.search(r, r.iws, r.n, iw)
		if i >= 0 && m.iwAt(r, i) == iw {
			return m.destAt(r, i), i, true
		}
	case layout.TrsIwIA:
		i := iw - r.base
		if i >= 0 && i < r.n {
			if m.dstAt(r, i) != 0 {
				rank = 0
				for j := 0; j < i; j++ {
					if m.dstAt(r, j) != 0 {
						rank++
					}
				}
				return m.destAt(r, i), rank, true
			}
		}
	case layout.TrsRange:
		i := m.search(r, r.iws, r.n, iw)
		tos := r.iws + r.n*r.iwSize
		if i >= 0 && int(codec.Uint(m.buf, tos+i*r.iwSize, r.iwSize)) >= iw {
			for j := 0; j < i; j++ {
				from := m.iwAt(r, j)
				to := int(codec.Uint(m.buf, tos+j*r.iwSize, r.iwSize))
				rank += to - from + 1
			}
			rank += iw - m.iwAt(r, i)
			return m.destAt(r, i), rank, true
		}
	}
	return 0, 0, false
}

// each calls fn for every transition of r in packed-symbol order.
func (m *Image) each(r *record, fn func(iw, dst int)) {
	switch r.info.TrType() {
	case layout.TrsImpl:
		fn(m.iwAt(r, 0), r.end)
	case layout.TrsPara:
		for i := 0; i < r.n; i++ {
			fn(m.iwAt(r, i), m.destAt(r, i))
		}
	case layout.TrsIwIA:
		for i := 0; i < r.n; i++ {
			if m.dstAt(r, i) != 0 {
				fn(r.base+i, m.destAt(r, i))
			}
		}
	case layout.TrsRange:
		tos := r.iws + r.n*r.iwSize
		for i := 0; i < r.n; i++ {
			to := int(codec.Uint(m.buf, tos+i*r.iwSize, r.iwSize))
			dst := m.destAt(r, i)
			for iw := m.iwAt(r, i); iw <= to; iw++ {
				fn(iw, dst)
			}
		}
	}
}
