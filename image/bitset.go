package image

// bitset marks record start offsets.
type bitset []uint64

func newBitset(n int) bitset {
	return make(bitset, (n+63)/64)
}

func (b bitset) set(i int) {
	b[i>>6] |= 1 << (uint(i) & 63)
}

func (b bitset) clear(i int) {
	b[i>>6] &^= 1 << (uint(i) & 63)
}

func (b bitset) has(i int) bool {
	if i < 0 || i>>6 >= len(b) {
		return false
	}
	return b[i>>6]&(1<<(uint(i)&63)) != 0
}
