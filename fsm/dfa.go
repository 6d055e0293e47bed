package fsm

import "slices"

// Dfa is an in-memory RSDfa. It is populated with the Set* methods between
// Create and Prepare:
//
//	d := fsm.NewDfa()
//	d.SetMaxState(2)
//	d.SetMaxIw(255)
//	d.Create()
//	d.SetTransition(0, 'a', 1)
//	d.SetInitial(0)
//	d.SetFinals([]int{1})
//	d.Prepare()
type Dfa struct {
	maxState int
	maxIw    int
	initial  int
	finals   []int
	iws      []int
	trans    []map[int]int
	created  bool
	ready    bool
}

// NewDfa returns an empty automaton in construction state.
func NewDfa() *Dfa {
	return &Dfa{maxState: -1, maxIw: -1}
}

// SetMaxState sets the largest state number.
func (d *Dfa) SetMaxState(maxState int) {
	d.maxState = maxState
}

// SetMaxIw sets the largest input symbol.
func (d *Dfa) SetMaxIw(maxIw int) {
	d.maxIw = maxIw
}

// Create allocates storage for MaxState+1 states.
func (d *Dfa) Create() error {
	if d.maxState < 0 || d.maxIw < 0 {
		return ErrOutOfRange
	}
	d.trans = make([]map[int]int, d.maxState+1)
	d.created = true
	d.ready = false
	return nil
}

// SetInitial sets the initial state.
func (d *Dfa) SetInitial(state int) error {
	if !d.created {
		return ErrNotCreated
	}
	if state < 0 || state > d.maxState {
		return ErrOutOfRange
	}
	d.initial = state
	return nil
}

// SetFinals sets the final states. Duplicates are removed by Prepare.
func (d *Dfa) SetFinals(states []int) error {
	if !d.created {
		return ErrNotCreated
	}
	for _, s := range states {
		if s < 0 || s > d.maxState {
			return ErrOutOfRange
		}
	}
	d.finals = slices.Clone(states)
	d.ready = false
	return nil
}

// SetIWs declares alphabet symbols, including ones without transitions.
func (d *Dfa) SetIWs(iws []int) error {
	if !d.created {
		return ErrNotCreated
	}
	for _, iw := range iws {
		if iw < 0 || iw > d.maxIw {
			return ErrOutOfRange
		}
	}
	d.iws = append(d.iws, iws...)
	d.ready = false
	return nil
}

// SetTransition adds src --iw--> dst. A dst of NoState is ignored; DeadState
// is stored as an explicit rejecting transition.
func (d *Dfa) SetTransition(src, iw, dst int) error {
	if !d.created {
		return ErrNotCreated
	}
	if dst == NoState {
		return nil
	}
	if src < 0 || src > d.maxState || iw < 0 || iw > d.maxIw {
		return ErrOutOfRange
	}
	if dst != DeadState && (dst < 0 || dst > d.maxState) {
		return ErrOutOfRange
	}
	m := d.trans[src]
	if m == nil {
		m = make(map[int]int)
		d.trans[src] = m
	}
	if _, ok := m[iw]; !ok {
		d.iws = append(d.iws, iw)
	}
	m[iw] = dst
	d.ready = false
	return nil
}

// SetTransitions adds src --iws[i]--> dsts[i] for every i.
func (d *Dfa) SetTransitions(src int, iws, dsts []int) error {
	if len(iws) != len(dsts) {
		return ErrLengthMismatch
	}
	for i, iw := range iws {
		if err := d.SetTransition(src, iw, dsts[i]); err != nil {
			return err
		}
	}
	return nil
}

// Prepare sorts and deduplicates the alphabet and the final states.
func (d *Dfa) Prepare() error {
	if !d.created {
		return ErrNotCreated
	}
	slices.Sort(d.iws)
	d.iws = slices.Compact(d.iws)
	slices.Sort(d.finals)
	d.finals = slices.Compact(d.finals)
	d.ready = true
	return nil
}

// Clear returns the automaton to construction state.
func (d *Dfa) Clear() {
	*d = Dfa{maxState: -1, maxIw: -1}
}

// Ready reports whether Prepare has run since the last mutation.
func (d *Dfa) Ready() bool { return d.ready }

func (d *Dfa) MaxState() int { return d.maxState }
func (d *Dfa) MaxIw() int    { return d.maxIw }
func (d *Dfa) IWs() []int    { return d.iws }
func (d *Dfa) Initial() int  { return d.initial }
func (d *Dfa) Finals() []int { return d.finals }

// IsFinal reports whether state is final. Requires Prepare.
func (d *Dfa) IsFinal(state int) bool {
	_, found := slices.BinarySearch(d.finals, state)
	return found
}

// Dest returns the destination of state on iw.
func (d *Dfa) Dest(state, iw int) int {
	if state < 0 || state >= len(d.trans) {
		return NoState
	}
	dst, ok := d.trans[state][iw]
	if !ok {
		return NoState
	}
	return dst
}
