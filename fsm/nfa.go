package fsm

import "slices"

// Nfa is an in-memory RSNfa. Unlike Dfa a (state, iw) pair may lead to
// several destinations.
type Nfa struct {
	maxState int
	maxIw    int
	iws      []int
	dests    map[arc][]int
	ready    bool
}

// NewNfa returns an automaton with the given bounds.
func NewNfa(maxState, maxIw int) *Nfa {
	return &Nfa{maxState: maxState, maxIw: maxIw, dests: make(map[arc][]int)}
}

// AddTransition adds src --iw--> dst.
func (n *Nfa) AddTransition(src, iw, dst int) error {
	if src < 0 || src > n.maxState || iw < 0 || iw > n.maxIw {
		return ErrOutOfRange
	}
	if dst != DeadState && (dst < 0 || dst > n.maxState) {
		return ErrOutOfRange
	}
	k := arc{src, iw}
	if _, ok := n.dests[k]; !ok {
		n.iws = append(n.iws, iw)
	}
	n.dests[k] = append(n.dests[k], dst)
	n.ready = false
	return nil
}

// Prepare sorts and deduplicates the alphabet and every destination set.
func (n *Nfa) Prepare() {
	slices.Sort(n.iws)
	n.iws = slices.Compact(n.iws)
	for k, d := range n.dests {
		slices.Sort(d)
		n.dests[k] = slices.Compact(d)
	}
	n.ready = true
}

// Ready reports whether Prepare has run since the last mutation.
func (n *Nfa) Ready() bool { return n.ready }

func (n *Nfa) MaxState() int { return n.maxState }
func (n *Nfa) MaxIw() int    { return n.maxIw }
func (n *Nfa) IWs() []int    { return n.iws }

// Dests returns the destination set of state on iw.
func (n *Nfa) Dests(state, iw int) []int {
	return n.dests[arc{state, iw}]
}

type arc3 struct {
	src, iw, dst int
}

// NfaSigma is an in-memory MealyNfa.
type NfaSigma struct {
	ows map[arc3]int
}

// NewNfaSigma returns an empty arc-output map.
func NewNfaSigma() *NfaSigma {
	return &NfaSigma{ows: make(map[arc3]int)}
}

// SetOw sets the weight of src --iw--> dst.
func (m *NfaSigma) SetOw(src, iw, dst, ow int) {
	m.ows[arc3{src, iw, dst}] = ow
}

// Ow returns the weight of src --iw--> dst or NoOw.
func (m *NfaSigma) Ow(src, iw, dst int) int {
	if ow, ok := m.ows[arc3{src, iw, dst}]; ok {
		return ow
	}
	return NoOw
}
