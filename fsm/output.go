package fsm

import "slices"

type arc struct {
	state, iw int
}

// Mealy is an in-memory MealyDfa.
type Mealy struct {
	ows map[arc]int
}

// NewMealy returns an empty transition-output map.
func NewMealy() *Mealy {
	return &Mealy{ows: make(map[arc]int)}
}

// SetOw sets the weight of state --iw-->. A weight of NoOw removes it.
func (m *Mealy) SetOw(state, iw, ow int) {
	if ow == NoOw {
		delete(m.ows, arc{state, iw})
		return
	}
	m.ows[arc{state, iw}] = ow
}

// Ow returns the weight of state --iw--> or NoOw.
func (m *Mealy) Ow(state, iw int) int {
	if ow, ok := m.ows[arc{state, iw}]; ok {
		return ow
	}
	return NoOw
}

// Clear removes all weights.
func (m *Mealy) Clear() {
	clear(m.ows)
}

// StateOw is an in-memory State2Ow.
type StateOw struct {
	ows map[int]int
}

// NewStateOw returns an empty state-output map.
func NewStateOw() *StateOw {
	return &StateOw{ows: make(map[int]int)}
}

// SetOw sets the weight of state. A weight of NoOw removes it.
func (m *StateOw) SetOw(state, ow int) {
	if ow == NoOw {
		delete(m.ows, state)
		return
	}
	m.ows[state] = ow
}

// Ow returns the weight of state or NoOw.
func (m *StateOw) Ow(state int) int {
	if ow, ok := m.ows[state]; ok {
		return ow
	}
	return NoOw
}

// StateOws is an in-memory State2Ows.
type StateOws struct {
	ows   map[int][]int
	ready bool
}

// NewStateOws returns an empty state-output-set map.
func NewStateOws() *StateOws {
	return &StateOws{ows: make(map[int][]int)}
}

// SetOws replaces the weights of state. An empty set removes it.
func (m *StateOws) SetOws(state int, ows []int) {
	m.ready = false
	if len(ows) == 0 {
		delete(m.ows, state)
		return
	}
	m.ows[state] = slices.Clone(ows)
}

// AddOw adds a single weight to the set of state.
func (m *StateOws) AddOw(state, ow int) {
	m.ready = false
	m.ows[state] = append(m.ows[state], ow)
}

// Prepare sorts and deduplicates every weight set.
func (m *StateOws) Prepare() {
	for s, ows := range m.ows {
		slices.Sort(ows)
		m.ows[s] = slices.Compact(ows)
	}
	m.ready = true
}

// Ready reports whether Prepare has run since the last mutation.
func (m *StateOws) Ready() bool { return m.ready }

// Ows returns the weights of state, nil if it has none.
func (m *StateOws) Ows(state int) []int {
	return m.ows[state]
}
