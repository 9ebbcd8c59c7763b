package sparse

import (
	"testing"
)

func TestSet_Basic(t *testing.T) {
	s := New(100)

	if s.Len() != 0 {
		t.Fatalf("new set should be empty, len=%d", s.Len())
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	if !s.Insert(5) {
		t.Error("first insert should return true")
	}
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	if s.Insert(5) {
		t.Error("duplicate insert should return false")
	}

	s.Insert(10)
	s.Insert(3)
	if s.Len() != 3 {
		t.Errorf("len should be 3, got %d", s.Len())
	}

	s.Clear()
	if s.Len() != 0 {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSet_InsertionOrder(t *testing.T) {
	s := New(16)
	for _, v := range []uint32{5, 2, 8, 1} {
		s.Insert(v)
	}

	want := []uint32{5, 2, 8, 1}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSet_ContainsOutOfBounds(t *testing.T) {
	s := New(4)
	if s.Contains(4) || s.Contains(1 << 30) {
		t.Error("out-of-range values must not be members")
	}
	if s.Capacity() != 4 {
		t.Errorf("Capacity() = %d, want 4", s.Capacity())
	}
}

// TestSet_StaleSparseEntries verifies that values removed by Clear are not
// resurrected by leftover entries in the sparse array.
func TestSet_StaleSparseEntries(t *testing.T) {
	s := New(8)
	s.Insert(7)
	s.Insert(3)
	s.Clear()
	s.Insert(3)

	if s.Contains(7) {
		t.Error("7 should not be a member after Clear")
	}
	if !s.Contains(3) {
		t.Error("3 should be a member after re-insert")
	}
}

func BenchmarkSet_Insert(b *testing.B) {
	s := New(1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%1024 == 0 {
			s.Clear()
		}
		s.Insert(uint32(i % 1024))
	}
}
