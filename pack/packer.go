// Package pack compiles deterministic automata into compact, randomly
// addressable binary images.
//
// A Packer reads an fsm.RSDfa and at most one output function (Moore
// single weight, Moore weight set, or Mealy) and lays every state out as a
// variable-size record: an info byte, the transitions in the cheapest of
// four representations, and the output field. Destination fields hold
// absolute byte offsets of the target records, so a reader follows a
// transition with one decode and no index. Since offsets depend on the
// sizes of all records, packing runs in three passes: measure, encode with
// state numbers, relink state numbers to offsets.
//
// Basic usage:
//
//	p := pack.New(pack.DefaultConfig().WithRanges(true))
//	p.SetDfa(dfa)
//	p.SetState2Ow(weights)
//	if err := p.Process(); err != nil {
//	    return err
//	}
//	img := p.Image()
package pack

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/coregx/fsmpack/fsm"
	"github.com/coregx/fsmpack/internal/codec"
	"github.com/coregx/fsmpack/internal/conv"
	"github.com/coregx/fsmpack/internal/layout"
	"github.com/coregx/fsmpack/table"
)

// Phase is the progress of a Process call.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseReady
	PhaseStoreAlphabet
	PhaseStoreStates
	PhaseStoreOutputTable
	PhaseDone
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseReady:
		return "Ready"
	case PhaseStoreAlphabet:
		return "StoreAlphabet"
	case PhaseStoreStates:
		return "StoreStates"
	case PhaseStoreOutputTable:
		return "StoreOutputTable"
	case PhaseDone:
		return "Done"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// outputKind selects the single output source of a packing run.
type outputKind uint8

const (
	noOutput outputKind = iota
	stateOwOutput
	stateOwsOutput
	mealyOutput
)

// Stats describes the last successfully built image.
type Stats struct {
	States    int
	Empty     int
	Implicit  int
	Parallel  int
	IwIA      int
	Ranges    int
	WithOw    int
	ImageSize int
	// StatesSize is the size of the header, alphabet, symbol map and state
	// records, word aligned.
	StatesSize int
	OwsSize    int
	RemapSize  int
	EqClasses  int
	Remapped   bool
}

// Packer builds images. A Packer is reusable but not safe for concurrent use.
type Packer struct {
	cfg Config

	dfa       fsm.RSDfa
	state2ow  fsm.State2Ow
	state2ows fsm.State2Ows
	sigma     fsm.MealyDfa

	phase Phase
	image []byte
	stats Stats
}

// New returns a Packer with the given configuration. The configuration is
// validated by Process.
func New(cfg Config) *Packer {
	return &Packer{cfg: cfg}
}

// SetConfig replaces the configuration.
func (p *Packer) SetConfig(cfg Config) { p.cfg = cfg }

// SetDfa sets the automaton to pack.
func (p *Packer) SetDfa(dfa fsm.RSDfa) { p.dfa = dfa }

// SetState2Ow sets a Moore single-weight output.
func (p *Packer) SetState2Ow(m fsm.State2Ow) { p.state2ow = m }

// SetState2Ows sets a Moore weight-set output.
func (p *Packer) SetState2Ows(m fsm.State2Ows) { p.state2ows = m }

// SetSigma sets a Mealy output.
func (p *Packer) SetSigma(m fsm.MealyDfa) { p.sigma = m }

// Phase returns the phase reached by the last Process call.
func (p *Packer) Phase() Phase { return p.phase }

// Image returns the image built by the last successful Process, or nil.
func (p *Packer) Image() []byte { return p.image }

// Stats returns statistics of the last successful Process.
func (p *Packer) Stats() Stats { return p.stats }

// build holds the scratch state of one Process call.
type build struct {
	cfg     Config
	dfa     fsm.RSDfa
	out     outputKind
	p       *Packer
	dstMask uint32
	initial int

	alphabet []int
	syms     *symbols
	ows      *table.Chains
	states   []stateRec
	offsets  []int
	fixups   []fixup

	buf []byte
	pos int
}

// fixup is a destination field holding a state number until relink.
type fixup struct {
	pos   int
	state int
}

// Process builds the image. On error no image is retained.
func (p *Packer) Process() error {
	p.image = nil
	p.stats = Stats{}
	p.phase = PhaseIdle

	img, stats, err := p.process()
	if err != nil {
		p.phase = PhaseIdle
		if errors.Is(err, ErrCapacity) {
			Logger().Warn("packing failed", zap.Error(err), zap.Int("dst_size", p.cfg.DstSize))
		}
		return err
	}
	p.image = img
	p.stats = stats
	p.phase = PhaseDone

	Logger().Debug("packed automaton",
		zap.Int("states", stats.States),
		zap.Int("image_size", stats.ImageSize),
		zap.Int("ows_size", stats.OwsSize),
		zap.Int("remap_size", stats.RemapSize),
		zap.Int("implicit", stats.Implicit),
		zap.Int("parallel", stats.Parallel),
		zap.Int("iwia", stats.IwIA),
		zap.Int("ranges", stats.Ranges),
	)
	return nil
}

func (p *Packer) process() ([]byte, Stats, error) {
	b, err := p.prepare()
	if err != nil {
		return nil, Stats{}, err
	}
	p.phase = PhaseReady

	if err := b.buildSymbols(); err != nil {
		return nil, Stats{}, err
	}
	if err := b.collect(); err != nil {
		return nil, Stats{}, err
	}
	if err := b.packOws(); err != nil {
		return nil, Stats{}, err
	}
	total, err := b.measure()
	if err != nil {
		return nil, Stats{}, err
	}

	b.buf = make([]byte, total)
	p.phase = PhaseStoreAlphabet
	b.storeHeader()
	b.storeAlphabet()

	p.phase = PhaseStoreStates
	if err := b.storeStates(); err != nil {
		return nil, Stats{}, err
	}
	if err := b.relink(); err != nil {
		return nil, Stats{}, err
	}

	p.phase = PhaseStoreOutputTable
	b.storeOws()

	return b.buf, b.stats(total), nil
}

func (p *Packer) prepare() (*build, error) {
	if err := p.cfg.Validate(); err != nil {
		return nil, err
	}
	if p.dfa == nil {
		return nil, newError(Precondition, "no automaton set")
	}
	if r, ok := p.dfa.(fsm.Preparer); ok && !r.Ready() {
		return nil, newError(Precondition, "automaton is not prepared")
	}

	b := &build{cfg: p.cfg, dfa: p.dfa, p: p, dstMask: codec.DstMask(p.cfg.DstSize)}
	outputs := 0
	if p.state2ow != nil {
		b.out = stateOwOutput
		outputs++
	}
	if p.state2ows != nil {
		b.out = stateOwsOutput
		outputs++
		if r, ok := p.state2ows.(fsm.Preparer); ok && !r.Ready() {
			return nil, newError(Precondition, "weight sets are not prepared")
		}
	}
	if p.sigma != nil {
		b.out = mealyOutput
		outputs++
	}
	if outputs > 1 {
		return nil, newError(Precondition, "more than one output function set")
	}

	maxState := p.dfa.MaxState()
	if maxState < 0 {
		return nil, newError(Precondition, "automaton has no states")
	}
	if uint64(maxState) >= uint64(b.dstMask) {
		return nil, &PackError{
			Kind:    InternalError,
			Message: fmt.Sprintf("%d states need more than %d-byte destinations", maxState+1, p.cfg.DstSize),
			Cause:   ErrCapacity,
		}
	}
	b.initial = p.dfa.Initial()
	if b.initial < 0 || b.initial > maxState {
		return nil, newError(InvalidParameters, "initial state %d out of range", b.initial)
	}

	iws := p.dfa.IWs()
	for i, iw := range iws {
		if iw < 0 || (i > 0 && iws[i-1] >= iw) {
			return nil, newError(InvalidParameters, "alphabet is not sorted, unique and non-negative at %d", i)
		}
		if iw > math.MaxInt32 {
			return nil, newError(InvalidParameters, "symbol %d does not fit in 32 bits", iw)
		}
	}
	return b, nil
}

func (b *build) buildSymbols() error {
	iws := b.dfa.IWs()
	b.alphabet = alphabetRanges(iws)
	if !b.cfg.RemapIws || len(iws) == 0 {
		b.syms = identitySymbols(iws)
		return nil
	}
	var sigma fsm.MealyDfa
	if b.out == mealyOutput {
		sigma = b.p.sigma
	}
	syms, err := remapSymbols(b.dfa, sigma)
	if err != nil {
		return err
	}
	b.syms = syms
	return nil
}

// stateAt returns the automaton state stored at record position k. The
// initial state is swapped with state 0 so that it is the first record.
func (b *build) stateAt(k int) int {
	switch k {
	case 0:
		return b.initial
	case b.initial:
		return 0
	}
	return k
}

// collect gathers the transitions and outputs of every state in record order.
func (b *build) collect() error {
	maxState := b.dfa.MaxState()
	b.states = make([]stateRec, maxState+1)
	for k := range b.states {
		state := b.stateAt(k)
		rec := &b.states[k]
		rec.final = b.dfa.IsFinal(state)
		for i, iw := range b.syms.orig {
			dst := b.dfa.Dest(state, iw)
			if dst == fsm.NoState {
				continue
			}
			if dst != fsm.DeadState {
				if dst < 0 || dst > maxState {
					return newError(InvalidParameters, "destination %d of state %d on %d out of range", dst, state, iw)
				}
				// the swap is its own inverse
				dst = b.stateAt(dst)
			}
			rec.trs = append(rec.trs, transition{iw: b.syms.packed[i], orig: iw, dst: dst})
		}
		if b.syms.remapped {
			sortTransitions(rec.trs)
		}
		if err := b.output(state, rec); err != nil {
			return err
		}
	}
	return nil
}

// output reads the output of state from the configured source.
func (b *build) output(state int, rec *stateRec) error {
	switch b.out {
	case stateOwOutput:
		if ow := b.p.state2ow.Ow(state); ow != fsm.NoOw {
			if err := checkWeight(state, ow); err != nil {
				return err
			}
			rec.ow, rec.hasOw = ow, true
		}
	case stateOwsOutput:
		if ows := b.p.state2ows.Ows(state); len(ows) > 0 {
			for _, ow := range ows {
				if err := checkWeight(state, ow); err != nil {
					return err
				}
			}
			rec.ows = ows
		}
	case mealyOutput:
		empty := true
		ows := make([]int, len(rec.trs))
		for i, t := range rec.trs {
			ows[i] = b.p.sigma.Ow(state, t.orig)
			if ows[i] == fsm.NoOw {
				continue
			}
			if err := checkWeight(state, ows[i]); err != nil {
				return err
			}
			empty = false
		}
		if !empty {
			rec.ows = ows
		}
	}
	return nil
}

// checkWeight rejects weights that the 4-byte signed fields cannot hold.
func checkWeight(state, ow int) error {
	if ow < math.MinInt32 || ow > math.MaxInt32 {
		return newError(InvalidParameters, "weight %d of state %d does not fit in 32 bits", ow, state)
	}
	return nil
}

// packOws builds the Ows table and turns weight sets into table offsets.
func (b *build) packOws() error {
	if b.out != stateOwsOutput && b.out != mealyOutput {
		return nil
	}
	b.ows = table.NewChains()
	for i := range b.states {
		if ows := b.states[i].ows; ows != nil {
			b.ows.Add(ows)
		}
	}
	if b.ows.Len() == 0 {
		b.ows = nil
		return nil
	}
	if err := b.ows.Process(); err != nil {
		return &PackError{Kind: InternalError, Message: "output table failed", Cause: err}
	}
	for i := range b.states {
		rec := &b.states[i]
		if rec.ows != nil {
			rec.ow, rec.hasOw = b.ows.Offset(rec.ows), true
		}
	}
	return nil
}

// measure sizes every record and assigns state offsets. It returns the
// word-aligned size of everything before the Ows table.
func (b *build) measure() (int, error) {
	size := layout.HeaderSize + 4*(1+len(b.alphabet))
	if b.syms.remapped {
		size += 4 + len(b.syms.remapDump)
	}

	b.offsets = make([]int, len(b.states))
	for state := range b.states {
		rec := &b.states[state]
		rec.measure(state, &b.cfg, 0)
		b.offsets[state] = size
		size += rec.size
	}

	last := b.offsets[len(b.offsets)-1]
	if uint64(last) >= uint64(b.dstMask) {
		return 0, &PackError{
			Kind:    InternalError,
			Message: fmt.Sprintf("state offset %d needs more than %d-byte destinations", last, b.cfg.DstSize),
			Cause:   ErrCapacity,
		}
	}
	return codec.Align(size), nil
}

func (b *build) putInt32(v int) {
	codec.PutInt32(b.buf, b.pos, conv.IntToInt32(v))
	b.pos += 4
}

func (b *build) putIw(iw, size int) {
	codec.PutUint(b.buf, b.pos, conv.IntToUint32(iw), size)
	b.pos += size
}

// putDst writes a destination state number and records it for relink.
// Holes are written as 0 and never relinked.
func (b *build) putDst(dst int) {
	size := b.cfg.DstSize
	if dst == fsm.DeadState {
		codec.PutDst(b.buf, b.pos, b.dstMask, size)
	} else {
		codec.PutDst(b.buf, b.pos, conv.IntToUint32(dst), size)
		b.fixups = append(b.fixups, fixup{pos: b.pos, state: dst})
	}
	b.pos += size
}

func (b *build) storeHeader() {
	b.putInt32(b.cfg.DstSize)
	b.putInt32(0) // Ows table offset, set by storeOws
}

func (b *build) storeAlphabet() {
	count := conv.IntToUint32(len(b.alphabet))
	if b.syms.remapped {
		count |= layout.RemapFlag
	}
	codec.PutUint(b.buf, b.pos, count, 4)
	b.pos += 4
	for _, iw := range b.alphabet {
		b.putInt32(iw)
	}
	if b.syms.remapped {
		b.putInt32(len(b.syms.remapDump))
		b.pos += copy(b.buf[b.pos:], b.syms.remapDump)
	}
}

func (b *build) storeStates() error {
	for state := range b.states {
		rec := &b.states[state]
		start := b.pos
		if start != b.offsets[state] {
			return newError(InternalError, "state %d encoded at %d, measured at %d", state, start, b.offsets[state])
		}

		b.buf[b.pos] = byte(layout.NewInfo(rec.typ, rec.iwSize, rec.owSize(), rec.final))
		b.pos++

		switch rec.typ {
		case layout.TrsImpl:
			b.putIw(rec.trs[0].iw, rec.iwSize)
		case layout.TrsPara:
			b.storePara(rec)
		case layout.TrsIwIA:
			b.storeIwIA(rec)
		case layout.TrsRange:
			b.storeRanges(rec)
		}

		if rec.hasOw {
			size := rec.owSize()
			codec.PutInt(b.buf, b.pos, conv.IntToInt32(rec.ow), size)
			b.pos += size
		}

		if b.pos-start != rec.size {
			return newError(InternalError, "state %d encoded to %d bytes, measured %d", state, b.pos-start, rec.size)
		}
	}
	return nil
}

func (b *build) storePara(rec *stateRec) {
	b.putIw(len(rec.trs)-1, rec.iwSize)
	for _, t := range rec.trs {
		b.putIw(t.iw, rec.iwSize)
	}
	for _, t := range rec.trs {
		b.putDst(t.dst)
	}
}

func (b *build) storeIwIA(rec *stateRec) {
	base := rec.trs[0].iw
	top := rec.trs[len(rec.trs)-1].iw
	b.putIw(base, rec.iwSize)
	b.putIw(top, rec.iwSize)
	for iw := base; iw <= top; iw++ {
		if i := findIw(rec.trs, iw); i != -1 {
			b.putDst(rec.trs[i].dst)
		} else {
			b.pos += b.cfg.DstSize // hole, left zero
		}
	}
}

func (b *build) storeRanges(rec *stateRec) {
	var froms, tos, dsts []int
	for i, t := range rec.trs {
		if i > 0 && t.iw == rec.trs[i-1].iw+1 && t.dst == rec.trs[i-1].dst {
			tos[len(tos)-1] = t.iw
			continue
		}
		froms = append(froms, t.iw)
		tos = append(tos, t.iw)
		dsts = append(dsts, t.dst)
	}
	b.putIw(len(froms)-1, rec.iwSize)
	for _, iw := range froms {
		b.putIw(iw, rec.iwSize)
	}
	for _, iw := range tos {
		b.putIw(iw, rec.iwSize)
	}
	for _, dst := range dsts {
		b.putDst(dst)
	}
}

// relink replaces the state numbers left by storeStates with record offsets.
func (b *build) relink() error {
	size := b.cfg.DstSize
	for _, f := range b.fixups {
		if got := codec.Dst(b.buf, f.pos, size); got != conv.IntToUint32(f.state) {
			return newError(InternalError, "destination at %d holds %d, expected state %d", f.pos, got, f.state)
		}
		off := b.offsets[f.state]
		if uint64(off) >= uint64(b.dstMask) {
			return newError(InvalidParameters, "offset %d of state %d does not fit %d bytes", off, f.state, size)
		}
		codec.PutDst(b.buf, f.pos, conv.IntToUint32(off), size)
	}
	return nil
}

func (b *build) storeOws() {
	if b.ows == nil {
		return
	}
	offset := len(b.buf)
	b.buf = append(b.buf, b.ows.Dump()...)
	codec.PutInt32(b.buf, layout.OwsOffsetOffset, conv.IntToInt32(offset))
}

func (b *build) stats(statesSize int) Stats {
	s := Stats{
		States:     len(b.states),
		ImageSize:  len(b.buf),
		StatesSize: statesSize,
		EqClasses:  b.syms.eqClasses,
		Remapped:   b.syms.remapped,
		RemapSize:  len(b.syms.remapDump),
	}
	if b.ows != nil {
		s.OwsSize = len(b.ows.Dump())
	}
	for i := range b.states {
		rec := &b.states[i]
		switch rec.typ {
		case layout.TrsNone:
			s.Empty++
		case layout.TrsImpl:
			s.Implicit++
		case layout.TrsPara:
			s.Parallel++
		case layout.TrsIwIA:
			s.IwIA++
		case layout.TrsRange:
			s.Ranges++
		}
		if rec.hasOw {
			s.WithOw++
		}
	}
	return s
}
