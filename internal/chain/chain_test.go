package chain

import "testing"

func TestMapDedup(t *testing.T) {
	m := New()

	a := m.Add([]int{1, 2, 3}, 10)
	b := m.Add([]int{3, 2, 1}, 20)
	c := m.Add([]int{1, 2, 3}, 11)

	if a != 0 || b != 1 {
		t.Errorf("ids = %d, %d, want 0, 1", a, b)
	}
	if c != a {
		t.Errorf("re-adding an equal chain returned id %d, want %d", c, a)
	}
	if m.Value(a) != 11 {
		t.Errorf("Value(%d) = %d, want 11", a, m.Value(a))
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if got := m.ID([]int{3, 2, 1}); got != b {
		t.Errorf("ID([3 2 1]) = %d, want %d", got, b)
	}
	if got := m.ID([]int{1, 2}); got != -1 {
		t.Errorf("ID of unknown chain = %d, want -1", got)
	}
}

func TestMapKeysAreUnambiguous(t *testing.T) {
	m := New()
	// Chains that would collide under naive byte concatenation
	ids := []int{
		m.Add([]int{1, 23}, 0),
		m.Add([]int{12, 3}, 0),
		m.Add([]int{-1}, 0),
		m.Add([]int{}, 0),
		m.Add([]int{0}, 0),
		m.Add([]int{1 << 40}, 0),
	}
	seen := make(map[int]bool)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("distinct chains shared id %d: %v", id, ids)
		}
		seen[id] = true
	}
}

func TestMapChainIsCopied(t *testing.T) {
	m := New()
	in := []int{4, 5}
	id := m.Add(in, 0)
	in[0] = 99
	if got := m.Chain(id); got[0] != 4 {
		t.Errorf("stored chain aliased the caller's slice: %v", got)
	}
}

func TestMapClear(t *testing.T) {
	m := New()
	m.Add([]int{1}, 1)
	m.Add([]int{2}, 2)
	m.Clear()
	if m.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", m.Len())
	}
	if got := m.Add([]int{2}, 5); got != 0 {
		t.Errorf("first id after Clear = %d, want 0", got)
	}
}
