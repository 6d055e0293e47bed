// Package eqclass computes input-symbol equivalence classes of an automaton.
//
// Two symbols are equivalent when every state has the same transition on
// them (same destination, or the same destination set for an NFA) and, if
// an output function is given, the same output. Merging equivalent symbols
// shrinks the alphabet the packer has to encode without changing the
// language or the outputs.
//
// Symbols outside [IwBase, IwMax] are never merged and map to themselves.
package eqclass

import (
	"errors"
	"sort"

	"github.com/coregx/fsmpack/fsm"
	"github.com/coregx/fsmpack/internal/chain"
)

var (
	// ErrNoAutomaton indicates Process without an automaton
	ErrNoAutomaton = errors.New("no automaton set")

	// ErrAmbiguousInput indicates both a DFA and an NFA were set
	ErrAmbiguousInput = errors.New("both DFA and NFA set")

	// ErrSigmaMismatch indicates an output function of the wrong kind
	ErrSigmaMismatch = errors.New("output function does not match automaton kind")

	// ErrEmptyAlphabet indicates an automaton without symbols
	ErrEmptyAlphabet = errors.New("empty alphabet")
)

// Calculator computes equivalence classes of the symbols of one automaton.
type Calculator struct {
	iwBase    int
	iwMax     int
	newIwBase int

	dfa      fsm.RSDfa
	dfaSigma fsm.MealyDfa
	nfa      fsm.RSNfa
	nfaSigma fsm.MealyNfa

	split  *splitSets
	set2id *chain.Map
	ows    []int
}

// NewCalculator returns a calculator that merges symbols over the whole
// non-negative range and numbers classes from 0.
func NewCalculator() *Calculator {
	return &Calculator{
		iwMax:  int(^uint32(0) >> 1),
		split:  newSplitSets(),
		set2id: chain.New(),
	}
}

// SetIwBase sets the smallest symbol that may be merged.
func (c *Calculator) SetIwBase(iwBase int) { c.iwBase = iwBase }

// SetIwMax sets the largest symbol that may be merged.
func (c *Calculator) SetIwMax(iwMax int) { c.iwMax = iwMax }

// SetNewIwBase sets the id of the first class.
func (c *Calculator) SetNewIwBase(newIwBase int) { c.newIwBase = newIwBase }

// SetRSDfa sets a deterministic input automaton.
func (c *Calculator) SetRSDfa(dfa fsm.RSDfa) { c.dfa = dfa }

// SetDfaSigma sets the transition outputs of the DFA.
func (c *Calculator) SetDfaSigma(sigma fsm.MealyDfa) { c.dfaSigma = sigma }

// SetRSNfa sets a non-deterministic input automaton.
func (c *Calculator) SetRSNfa(nfa fsm.RSNfa) { c.nfa = nfa }

// SetNfaSigma sets the arc outputs of the NFA.
func (c *Calculator) SetNfaSigma(sigma fsm.MealyNfa) { c.nfaSigma = sigma }

// Process computes the classes. The calculator may be reused afterwards.
func (c *Calculator) Process() (*Classes, error) {
	if c.dfa == nil && c.nfa == nil {
		return nil, ErrNoAutomaton
	}
	if c.dfa != nil && c.nfa != nil {
		return nil, ErrAmbiguousInput
	}
	if (c.dfa != nil && c.nfaSigma != nil) || (c.nfa != nil && c.dfaSigma != nil) {
		return nil, ErrSigmaMismatch
	}

	var iws []int
	var maxState int
	if c.dfa != nil {
		iws, maxState = c.dfa.IWs(), c.dfa.MaxState()
	} else {
		iws, maxState = c.nfa.IWs(), c.nfa.MaxState()
	}
	if len(iws) == 0 {
		return nil, ErrEmptyAlphabet
	}
	defer c.set2id.Clear()

	res := &Classes{
		iws:      append([]int(nil), iws...),
		newIws:   make([]int, len(iws)),
		maxNewIw: -1,
	}
	// e2iw holds the mergeable symbols, e2pos their position in iws
	var e2iw, e2pos []int
	for i, iw := range iws {
		if iw < c.iwBase || iw > c.iwMax {
			res.newIws[i] = iw
			continue
		}
		e2iw = append(e2iw, iw)
		e2pos = append(e2pos, i)
	}
	if len(e2iw) == 0 {
		return res, nil
	}

	c.split.prepare(len(e2iw))
	info := make([]int, len(e2iw))
	hasSigma := c.dfaSigma != nil || c.nfaSigma != nil

	for state := 0; state <= maxState; state++ {
		for i, iw := range e2iw {
			dst := c.destID(state, iw)
			if dst == fsm.NoState && c.dfa != nil {
				dst = maxState + 1
			}
			info[i] = dst
		}
		c.split.addInfo(info)

		if hasSigma {
			for i, iw := range e2iw {
				info[i] = c.owID(state, iw)
			}
			c.split.addInfo(info)
		}
	}

	for i, class := range c.split.process() {
		newIw := class + c.newIwBase
		res.newIws[e2pos[i]] = newIw
		res.maxNewIw = max(res.maxNewIw, newIw)
	}
	res.classes = res.maxNewIw - c.newIwBase + 1
	return res, nil
}

func (c *Calculator) destID(state, iw int) int {
	if c.dfa != nil {
		return c.dfa.Dest(state, iw)
	}
	dsts := c.nfa.Dests(state, iw)
	if len(dsts) == 0 {
		return fsm.NoState
	}
	return c.set2id.Add(dsts, 0)
}

func (c *Calculator) owID(state, iw int) int {
	if c.dfaSigma != nil {
		return c.dfaSigma.Ow(state, iw)
	}
	dsts := c.nfa.Dests(state, iw)
	if len(dsts) == 0 {
		return fsm.NoOw
	}
	c.ows = c.ows[:0]
	for _, dst := range dsts {
		c.ows = append(c.ows, c.nfaSigma.Ow(state, iw, dst))
	}
	return c.set2id.Add(c.ows, 0)
}

// Classes is a symbol -> class map over an automaton's alphabet.
type Classes struct {
	iws      []int
	newIws   []int
	maxNewIw int
	classes  int
}

// Map returns the class of iw, or -1 if iw is not in the alphabet.
func (c *Classes) Map(iw int) int {
	i := sort.SearchInts(c.iws, iw)
	if i < len(c.iws) && c.iws[i] == iw {
		return c.newIws[i]
	}
	return -1
}

// MaxNewIw returns the largest class id assigned to a merged symbol, or -1
// if no symbol was in range.
func (c *Classes) MaxNewIw() int { return c.maxNewIw }

// Count returns the number of classes among merged symbols.
func (c *Classes) Count() int { return c.classes }

// Iws returns the alphabet, sorted.
func (c *Classes) Iws() []int { return c.iws }

// NewIws returns the class of each symbol of Iws.
func (c *Classes) NewIws() []int { return c.newIws }
