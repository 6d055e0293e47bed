// Package chain maps integer sequences to dense ids.
//
// A Map assigns ids 0, 1, 2, ... to distinct chains in insertion order and
// keeps one integer value per chain. It is the content-addressing primitive
// behind the Ows table (value = frequency) and the equivalence-class
// calculator (value unused, id = class).
package chain

import (
	"encoding/binary"
	"slices"
)

// Map is a chain -> (id, value) hash. The zero value is not usable; call New.
type Map struct {
	ids     map[string]int
	chains  [][]int
	values  []int
	scratch []byte
}

// New returns an empty Map.
func New() *Map {
	return &Map{ids: make(map[string]int)}
}

func (m *Map) key(chain []int) []byte {
	b := m.scratch[:0]
	for _, v := range chain {
		b = binary.AppendVarint(b, int64(v))
	}
	m.scratch = b
	return b
}

// Add stores value for chain and returns its id. A new chain gets the next
// id; an existing chain keeps its id and has its value replaced.
func (m *Map) Add(chain []int, value int) int {
	k := m.key(chain)
	if id, ok := m.ids[string(k)]; ok {
		m.values[id] = value
		return id
	}
	id := len(m.chains)
	m.ids[string(k)] = id
	m.chains = append(m.chains, slices.Clone(chain))
	m.values = append(m.values, value)
	return id
}

// ID returns the id of chain, or -1 if it was never added.
func (m *Map) ID(chain []int) int {
	if id, ok := m.ids[string(m.key(chain))]; ok {
		return id
	}
	return -1
}

// Chain returns the chain stored under id. The slice must not be modified.
func (m *Map) Chain(id int) []int {
	return m.chains[id]
}

// Value returns the value stored under id.
func (m *Map) Value(id int) int {
	return m.values[id]
}

// Len returns the number of distinct chains.
func (m *Map) Len() int {
	return len(m.chains)
}

// Clear removes all chains. Ids restart from 0.
func (m *Map) Clear() {
	clear(m.ids)
	m.chains = m.chains[:0]
	m.values = m.values[:0]
}
