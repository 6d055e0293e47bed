package eqclass

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/coregx/fsmpack/fsm"
)

func newDfa(t *testing.T, maxState, maxIw int, trans [][3]int) *fsm.Dfa {
	t.Helper()
	d := fsm.NewDfa()
	d.SetMaxState(maxState)
	d.SetMaxIw(maxIw)
	if err := d.Create(); err != nil {
		t.Fatal(err)
	}
	for _, tr := range trans {
		if err := d.SetTransition(tr[0], tr[1], tr[2]); err != nil {
			t.Fatal(err)
		}
	}
	if err := d.Prepare(); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestTwoClasses(t *testing.T) {
	d := newDfa(t, 1, 10, [][3]int{
		{0, 5, 1}, {0, 6, 1}, {0, 7, fsm.DeadState},
		{1, 5, fsm.DeadState}, {1, 6, fsm.DeadState}, {1, 7, fsm.DeadState},
	})

	c := NewCalculator()
	c.SetRSDfa(d)
	classes, err := c.Process()
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if classes.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", classes.Count())
	}
	if classes.Map(5) != classes.Map(6) {
		t.Errorf("Map(5) = %d, Map(6) = %d, want equal", classes.Map(5), classes.Map(6))
	}
	if classes.Map(5) == classes.Map(7) {
		t.Errorf("Map(5) = Map(7) = %d, want distinct", classes.Map(5))
	}
	// first appearance numbering
	if classes.Map(5) != 0 || classes.Map(7) != 1 {
		t.Errorf("Map(5), Map(7) = %d, %d, want 0, 1", classes.Map(5), classes.Map(7))
	}
	if classes.MaxNewIw() != 1 {
		t.Errorf("MaxNewIw() = %d, want 1", classes.MaxNewIw())
	}
	if classes.Map(8) != -1 {
		t.Errorf("Map(8) = %d, want -1 for a symbol outside the alphabet", classes.Map(8))
	}
}

func TestNoTransitionDiffersFromDead(t *testing.T) {
	d := newDfa(t, 1, 10, [][3]int{
		{0, 1, fsm.DeadState}, {0, 2, 1},
		{1, 2, 1},
	})
	c := NewCalculator()
	c.SetRSDfa(d)
	classes, err := c.Process()
	if err != nil {
		t.Fatal(err)
	}
	if classes.Map(1) == classes.Map(2) {
		t.Errorf("symbols 1 and 2 merged although dest(0,1)=DEAD and dest(0,2)=1")
	}
}

func TestSigmaSplitsClasses(t *testing.T) {
	d := newDfa(t, 1, 10, [][3]int{{0, 1, 1}, {0, 2, 1}})

	c := NewCalculator()
	c.SetRSDfa(d)
	classes, err := c.Process()
	if err != nil {
		t.Fatal(err)
	}
	if classes.Map(1) != classes.Map(2) {
		t.Fatalf("symbols 1 and 2 should merge without outputs")
	}

	sigma := fsm.NewMealy()
	sigma.SetOw(0, 1, 10)
	sigma.SetOw(0, 2, 20)
	c.SetDfaSigma(sigma)
	classes, err = c.Process()
	if err != nil {
		t.Fatal(err)
	}
	if classes.Map(1) == classes.Map(2) {
		t.Errorf("symbols with different outputs were merged")
	}
}

func TestRangeAndBase(t *testing.T) {
	d := newDfa(t, 1, 300, [][3]int{{0, 1, 1}, {0, 2, 1}, {0, 200, 1}, {0, 201, 1}})

	c := NewCalculator()
	c.SetIwBase(100)
	c.SetIwMax(250)
	c.SetNewIwBase(1000)
	c.SetRSDfa(d)
	classes, err := c.Process()
	if err != nil {
		t.Fatal(err)
	}
	if classes.Map(1) != 1 || classes.Map(2) != 2 {
		t.Errorf("out of range symbols mapped to %d, %d, want identity", classes.Map(1), classes.Map(2))
	}
	if classes.Map(200) != 1000 || classes.Map(201) != 1000 {
		t.Errorf("in range symbols mapped to %d, %d, want 1000", classes.Map(200), classes.Map(201))
	}
	if classes.MaxNewIw() != 1000 || classes.Count() != 1 {
		t.Errorf("MaxNewIw() = %d, Count() = %d, want 1000, 1", classes.MaxNewIw(), classes.Count())
	}
}

func TestNfaClasses(t *testing.T) {
	n := fsm.NewNfa(2, 5)
	for _, tr := range [][3]int{
		{0, 1, 1}, {0, 1, 2},
		{0, 2, 2}, {0, 2, 1},
		{0, 3, 1},
	} {
		if err := n.AddTransition(tr[0], tr[1], tr[2]); err != nil {
			t.Fatal(err)
		}
	}
	n.Prepare()

	c := NewCalculator()
	c.SetRSNfa(n)
	classes, err := c.Process()
	if err != nil {
		t.Fatal(err)
	}
	if classes.Map(1) != classes.Map(2) {
		t.Errorf("symbols with equal destination sets were not merged")
	}
	if classes.Map(1) == classes.Map(3) {
		t.Errorf("symbols with different destination sets were merged")
	}

	sigma := fsm.NewNfaSigma()
	sigma.SetOw(0, 1, 2, 7)
	c.SetNfaSigma(sigma)
	classes, err = c.Process()
	if err != nil {
		t.Fatal(err)
	}
	if classes.Map(1) == classes.Map(2) {
		t.Errorf("symbols with different arc outputs were merged")
	}
}

func TestProcessErrors(t *testing.T) {
	d := newDfa(t, 0, 1, nil)
	n := fsm.NewNfa(0, 1)

	tests := []struct {
		name  string
		setup func(c *Calculator)
		want  error
	}{
		{"no automaton", func(c *Calculator) {}, ErrNoAutomaton},
		{"both", func(c *Calculator) { c.SetRSDfa(d); c.SetRSNfa(n) }, ErrAmbiguousInput},
		{"nfa sigma on dfa", func(c *Calculator) { c.SetRSDfa(d); c.SetNfaSigma(fsm.NewNfaSigma()) }, ErrSigmaMismatch},
		{"empty alphabet", func(c *Calculator) { c.SetRSDfa(d) }, ErrEmptyAlphabet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator()
			tt.setup(c)
			if _, err := c.Process(); !errors.Is(err, tt.want) {
				t.Errorf("Process() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// signature builds the full column vector of iw, the reference definition
// of equivalence.
func signature(d *fsm.Dfa, sigma *fsm.Mealy, iw int) []int {
	var sig []int
	for s := 0; s <= d.MaxState(); s++ {
		sig = append(sig, d.Dest(s, iw), sigma.Ow(s, iw))
	}
	return sig
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSoundnessRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		maxState := 1 + rng.Intn(30)
		var trans [][3]int
		sigma := fsm.NewMealy()
		for s := 0; s <= maxState; s++ {
			for iw := 0; iw < 12; iw++ {
				switch rng.Intn(4) {
				case 0:
				case 1:
					trans = append(trans, [3]int{s, iw, fsm.DeadState})
				default:
					// few destinations so that symbols collide often
					trans = append(trans, [3]int{s, iw, rng.Intn(2)})
					if rng.Intn(3) == 0 {
						sigma.SetOw(s, iw, rng.Intn(2))
					}
				}
			}
		}
		d := newDfa(t, maxState, 11, trans)

		c := NewCalculator()
		c.SetRSDfa(d)
		c.SetDfaSigma(sigma)
		classes, err := c.Process()
		if err != nil {
			t.Fatal(err)
		}
		for _, a := range d.IWs() {
			for _, b := range d.IWs() {
				same := classes.Map(a) == classes.Map(b)
				want := equalInts(signature(d, sigma, a), signature(d, sigma, b))
				if same != want {
					t.Fatalf("round %d: symbols %d, %d merged=%v, equal signatures=%v", round, a, b, same, want)
				}
			}
		}
	}
}

func TestSplitSetsBatchIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const elements, columns = 40, 37
	cols := make([][]int, columns)
	for i := range cols {
		cols[i] = make([]int, elements)
		for e := range cols[i] {
			cols[i][e] = rng.Intn(2)
		}
	}

	var want []int
	for _, batch := range []int{1, 2, 5, defaultBatch, columns, columns + 1} {
		s := newSplitSets()
		s.batch = batch
		s.prepare(elements)
		for _, col := range cols {
			s.addInfo(col)
		}
		got := append([]int(nil), s.process()...)
		if want == nil {
			want = got
			continue
		}
		if !equalInts(got, want) {
			t.Errorf("batch %d: classes %v, want %v", batch, got, want)
		}
	}
}
