package pack

import (
	"cmp"
	"slices"

	"github.com/coregx/fsmpack/eqclass"
	"github.com/coregx/fsmpack/fsm"
	"github.com/coregx/fsmpack/table"
)

// symbols is the alphabet as the packer iterates it. Each packing symbol i
// is queried on the automaton as orig[i] and stored in the image as
// packed[i]. Without remapping both are the input alphabet.
type symbols struct {
	orig   []int
	packed []int

	remapped  bool
	eqClasses int // 0 when symbols were not merged
	remapDump []byte
}

// alphabetRanges folds a sorted alphabet into [from, to] pairs.
func alphabetRanges(iws []int) []int {
	var ranges []int
	prev := -2
	for _, iw := range iws {
		if prev+1 < iw {
			ranges = append(ranges, iw, iw)
		} else {
			ranges[len(ranges)-1] = iw
		}
		prev = iw
	}
	return ranges
}

func identitySymbols(iws []int) *symbols {
	return &symbols{orig: iws, packed: iws}
}

// remapSymbols merges equivalent symbols, renumbers the survivors by
// descending usage and builds the old -> new map dump.
func remapSymbols(dfa fsm.RSDfa, sigma fsm.MealyDfa) (*symbols, error) {
	iws := dfa.IWs()

	calc := eqclass.NewCalculator()
	calc.SetIwMax(iws[len(iws)-1])
	calc.SetRSDfa(dfa)
	if sigma != nil {
		calc.SetDfaSigma(sigma)
	}
	classes, err := calc.Process()
	if err != nil {
		return nil, &PackError{Kind: InternalError, Message: "equivalence classes failed", Cause: err}
	}

	s := &symbols{remapped: true}
	eqMax := classes.MaxNewIw()
	useEqs := eqMax+1 < len(iws)
	if useEqs {
		s.eqClasses = eqMax + 1
		s.orig = make([]int, eqMax+1)
		// iws ascend, so the first member seen is the smallest
		seen := make([]bool, eqMax+1)
		for _, iw := range iws {
			eq := classes.Map(iw)
			if !seen[eq] {
				seen[eq] = true
				s.orig[eq] = iw
			}
		}
	} else {
		s.orig = iws
	}

	// usage count of every packing symbol
	freq := make([]int, len(s.orig))
	for state := 0; state <= dfa.MaxState(); state++ {
		for i, iw := range s.orig {
			if dfa.Dest(state, iw) != fsm.NoState {
				freq[i]++
			}
		}
	}
	order := make([]int, len(s.orig))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(freq[b], freq[a])
	})
	s.packed = make([]int, len(s.orig))
	for rank, i := range order {
		s.packed[i] = rank
	}

	newIws := make([]int, len(iws))
	for j, iw := range iws {
		i := j
		if useEqs {
			i = classes.Map(iw)
		}
		newIws[j] = s.packed[i]
	}
	m := table.NewIwMap()
	if err := m.SetIws(iws, newIws); err != nil {
		return nil, &PackError{Kind: InvalidParameters, Message: "alphabet cannot be remapped", Cause: err}
	}
	if err := m.Process(); err != nil {
		return nil, &PackError{Kind: InternalError, Message: "symbol map failed", Cause: err}
	}
	s.remapDump = m.Dump()
	return s, nil
}
