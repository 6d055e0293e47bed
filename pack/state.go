package pack

import (
	"math"
	"slices"
	"sort"

	"github.com/coregx/fsmpack/internal/codec"
	"github.com/coregx/fsmpack/internal/layout"
)

// transition is one outgoing arc in packed-symbol space.
type transition struct {
	iw   int // packed symbol
	orig int // symbol queried on the automaton
	dst  int // state number or fsm.DeadState
}

// stateRec is the measured form of one state record.
type stateRec struct {
	trs    []transition // sorted by iw
	typ    layout.TrType
	iwSize int
	final  bool

	ows   []int // weight set for the Ows table, nil if none
	ow    int   // weight or Ows table offset
	hasOw bool

	size int
}

func (r *stateRec) owSize() int {
	if !r.hasOw {
		return 0
	}
	return codec.IntSize(r.ow)
}

func sortTransitions(trs []transition) {
	slices.SortFunc(trs, func(a, b transition) int { return a.iw - b.iw })
}

// symbolSize returns the field width of the largest symbol of r.
func (r *stateRec) symbolSize() int {
	if len(r.trs) == 0 {
		return 1
	}
	return codec.IwSize(r.trs[len(r.trs)-1].iw)
}

// rangeCount returns the number of runs of consecutive symbols with a
// common destination.
func rangeCount(trs []transition) int {
	n := 0
	for i, t := range trs {
		if i == 0 || t.iw != trs[i-1].iw+1 || t.dst != trs[i-1].dst {
			n++
		}
	}
	return n
}

func paraSize(trs []transition, iwSize, dstSize int) int {
	return iwSize + len(trs)*(iwSize+dstSize)
}

func iwiaSize(trs []transition, iwSize, dstSize int) int {
	span := trs[len(trs)-1].iw - trs[0].iw + 1
	return 2*iwSize + dstSize*span
}

func rangesSize(trs []transition, iwSize, dstSize int) int {
	r := rangeCount(trs)
	return iwSize + 2*iwSize*r + dstSize*r
}

// chooseTrType picks the smallest enabled representation of a state with
// at least one transition.
func chooseTrType(state int, trs []transition, iwSize int, cfg *Config, initial int) layout.TrType {
	if len(trs) == 1 && trs[0].dst == state+1 {
		return layout.TrsImpl
	}
	if cfg.UseIwIA && state == initial {
		return layout.TrsIwIA
	}

	para := paraSize(trs, iwSize, cfg.DstSize)
	iwia := math.MaxInt
	if cfg.UseIwIA {
		iwia = iwiaSize(trs, iwSize, cfg.DstSize)
	}
	ranges := math.MaxInt
	if cfg.UseRanges {
		ranges = rangesSize(trs, iwSize, cfg.DstSize)
	}

	switch {
	case para < iwia && para <= ranges:
		return layout.TrsPara
	case ranges < iwia:
		return layout.TrsRange
	default:
		return layout.TrsIwIA
	}
}

// measure fixes the representation and byte size of r.
func (r *stateRec) measure(state int, cfg *Config, initial int) {
	r.size = 1 // info byte
	r.typ = layout.TrsNone
	r.iwSize = r.symbolSize()
	if len(r.trs) > 0 {
		r.typ = chooseTrType(state, r.trs, r.iwSize, cfg, initial)
		switch r.typ {
		case layout.TrsImpl:
			r.size += r.iwSize
		case layout.TrsPara:
			r.size += paraSize(r.trs, r.iwSize, cfg.DstSize)
		case layout.TrsIwIA:
			r.size += iwiaSize(r.trs, r.iwSize, cfg.DstSize)
		case layout.TrsRange:
			r.size += rangesSize(r.trs, r.iwSize, cfg.DstSize)
		}
	}
	r.size += r.owSize()
}

// findIw returns the index of the transition on iw, or -1.
func findIw(trs []transition, iw int) int {
	i := sort.Search(len(trs), func(i int) bool { return trs[i].iw >= iw })
	if i < len(trs) && trs[i].iw == iw {
		return i
	}
	return -1
}
