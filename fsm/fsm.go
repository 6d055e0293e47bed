// Package fsm defines the read-only automaton views consumed by the packer and
// the equivalence-class calculator, together with simple in-memory
// implementations of them.
//
// States are dense integers 0..MaxState and input symbols are integers
// 0..MaxIw. A transition function returns NoState when a state has no
// transition on a symbol and DeadState for an explicit rejecting transition.
// Output weights use -1 for "no weight".
package fsm

import "errors"

const (
	// NoState is returned by Dest when there is no transition.
	NoState = -1

	// DeadState is an explicit transition into the rejecting sink.
	DeadState = -2

	// NoOw is the absent output weight.
	NoOw = -1
)

// Common construction errors
var (
	// ErrNotCreated indicates a mutation before Create was called
	ErrNotCreated = errors.New("automaton not created")

	// ErrOutOfRange indicates a state or symbol outside the declared bounds
	ErrOutOfRange = errors.New("state or symbol out of range")

	// ErrLengthMismatch indicates parallel slices of different lengths
	ErrLengthMismatch = errors.New("mismatched slice lengths")
)

// RSDfa is a deterministic automaton with one initial state and a set of
// final states.
type RSDfa interface {
	// MaxState returns the largest state number.
	MaxState() int
	// MaxIw returns the largest input symbol.
	MaxIw() int
	// IWs returns the alphabet, sorted and unique.
	IWs() []int
	// Dest returns the destination of state on iw, NoState or DeadState.
	Dest(state, iw int) int
	// Initial returns the initial state.
	Initial() int
	// Finals returns the final states, sorted and unique.
	Finals() []int
	// IsFinal reports whether state is final.
	IsFinal(state int) bool
}

// RSNfa is a non-deterministic automaton view. Dests returns a sorted set of
// destinations, nil when there is no transition.
type RSNfa interface {
	MaxState() int
	MaxIw() int
	IWs() []int
	Dests(state, iw int) []int
}

// MealyDfa assigns an output weight to each transition of a deterministic automaton.
type MealyDfa interface {
	Ow(state, iw int) int
}

// MealyNfa assigns an output weight to each (src, iw, dst) arc.
type MealyNfa interface {
	Ow(src, iw, dst int) int
}

// State2Ow assigns at most one output weight to each state (Moore).
type State2Ow interface {
	Ow(state int) int
}

// State2Ows assigns a sorted set of output weights to each state (Moore).
type State2Ows interface {
	Ows(state int) []int
}

// Preparer is implemented by views that must be finalized before use.
type Preparer interface {
	Ready() bool
}

// RSDfaBuilder is the write side of an RSDfa. Set* calls are valid between
// Create and Prepare.
type RSDfaBuilder interface {
	SetMaxState(maxState int)
	SetMaxIw(maxIw int)
	Create() error
	SetInitial(state int) error
	SetFinals(states []int) error
	SetIWs(iws []int) error
	SetTransition(src, iw, dst int) error
	SetTransitions(src int, iws, dsts []int) error
	Prepare() error
	Clear()
}

var (
	_ RSDfa        = (*Dfa)(nil)
	_ RSDfaBuilder = (*Dfa)(nil)
	_ Preparer     = (*Dfa)(nil)
	_ RSNfa        = (*Nfa)(nil)
	_ MealyDfa     = (*Mealy)(nil)
	_ MealyNfa     = (*NfaSigma)(nil)
	_ State2Ow     = (*StateOw)(nil)
	_ State2Ows    = (*StateOws)(nil)
)
