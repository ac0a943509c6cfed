package hir

import "testing"

func TestBitVectorSetGetClear(t *testing.T) {
	v := NewBitVector(128)
	for _, i := range []int{0, 1, 63, 64, 127} {
		if v.Get(i) {
			t.Errorf("Get(%d) = true before Set", i)
		}
		v.Set(i)
		if !v.Get(i) {
			t.Errorf("Get(%d) = false after Set", i)
		}
	}
	v.Clear(63)
	if v.Get(63) {
		t.Error("Get(63) = true after Clear")
	}
	if v.Count() != 4 {
		t.Errorf("Count = %d, want 4", v.Count())
	}
}

func TestBitVectorGrowsOnSet(t *testing.T) {
	v := NewBitVector(8)
	v.Set(200)
	if !v.Get(200) {
		t.Error("Get(200) = false after out-of-capacity Set")
	}
	if v.Get(1000) {
		t.Error("Get(1000) = true, want false for out-of-range read")
	}
}

func TestBitVectorForEachOrder(t *testing.T) {
	v := NewBitVector(256)
	want := []int{3, 64, 65, 200}
	for _, i := range want {
		v.Set(i)
	}
	var got []int
	v.ForEach(func(i int) { got = append(got, i) })
	if len(got) != len(want) {
		t.Fatalf("ForEach visited %d bits, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ForEach[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
