package pack_test

import (
	"math/rand"
	"testing"

	"github.com/coregx/fsmpack/fsm"
)

// randomDfa returns a prepared automaton over symbols 0..alphabet-1 with
// about half of the transitions set and an occasional dead transition.
func randomDfa(t *testing.T, seed int64, states, alphabet int) *fsm.Dfa {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	var arcs []arc
	var finals []int
	for s := 0; s < states; s++ {
		if rng.Intn(3) == 0 {
			finals = append(finals, s)
		}
		for iw := 0; iw < alphabet; iw++ {
			switch r := rng.Intn(10); {
			case r < 5:
			case r == 5:
				arcs = append(arcs, arc{s, iw, fsm.DeadState})
			default:
				arcs = append(arcs, arc{s, iw, rng.Intn(states)})
			}
		}
	}
	return newDfa(t, states-1, rng.Intn(states), finals, arcs)
}
