package hir

// BitVector is a fixed-capacity bit set over small dense ids. Out-of-range
// reads return false; out-of-range writes grow the vector.
type BitVector struct {
	words []uint64
}

// NewBitVector creates a bit vector with capacity for n bits.
func NewBitVector(n int) *BitVector {
	return &BitVector{words: make([]uint64, (n+63)/64)}
}

// Set sets bit i.
func (v *BitVector) Set(i int) {
	w := i / 64
	for w >= len(v.words) {
		v.words = append(v.words, 0)
	}
	v.words[w] |= 1 << uint(i%64)
}

// Clear clears bit i.
func (v *BitVector) Clear(i int) {
	w := i / 64
	if w < len(v.words) {
		v.words[w] &^= 1 << uint(i%64)
	}
}

// Get reports bit i.
func (v *BitVector) Get(i int) bool {
	w := i / 64
	return w < len(v.words) && v.words[w]&(1<<uint(i%64)) != 0
}

// Count returns the number of set bits.
func (v *BitVector) Count() int {
	n := 0
	v.ForEach(func(int) { n++ })
	return n
}

// ForEach calls fn for every set bit in ascending order.
func (v *BitVector) ForEach(fn func(i int)) {
	for w, word := range v.words {
		for bit := 0; word != 0; bit++ {
			if word&1 != 0 {
				fn(w*64 + bit)
			}
			word >>= 1
		}
	}
}
