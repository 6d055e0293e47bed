package eqclass

import "github.com/coregx/fsmpack/internal/chain"

// defaultBatch is the number of info columns buffered between refinements.
const defaultBatch = 10

// splitSets refines a partition of n elements by successive info columns.
//
// Every element starts in class 0. Columns are buffered per element; every
// batch columns each element's vector (old class, buffered values...) is
// hashed to its new class. Two elements end in the same class exactly when
// all their columns agree, so batching only bounds memory. Classes are
// numbered by first appearance in element order.
type splitSets struct {
	e2c     []int
	e2v     [][]int
	info2c  *chain.Map
	pending int
	batch   int
}

func newSplitSets() *splitSets {
	return &splitSets{info2c: chain.New(), batch: defaultBatch}
}

func (s *splitSets) prepare(n int) {
	s.e2c = make([]int, n)
	s.e2v = make([][]int, n)
	s.info2c.Clear()
	s.pending = 0
}

// addInfo appends one column; len(info) must equal the element count.
func (s *splitSets) addInfo(info []int) {
	for i, v := range info {
		s.e2v[i] = append(s.e2v[i], v)
	}
	s.pending++
	if s.pending == s.batch {
		s.classify()
	}
}

func (s *splitSets) classify() {
	for i, c := range s.e2c {
		v := append(s.e2v[i], c)
		id := s.info2c.ID(v)
		if id == -1 {
			id = s.info2c.Add(v, 0)
		}
		s.e2c[i] = id
		s.e2v[i] = v[:0]
	}
	s.info2c.Clear()
	s.pending = 0
}

// process flushes buffered columns and returns element -> class.
func (s *splitSets) process() []int {
	s.classify()
	return s.e2c
}
