// Package sparse provides a sparse set of instruction indices.
//
// The set supports O(1) insertion, membership testing and clearing while
// keeping its members in insertion order, which makes it a good fit for
// walking the reachable instructions of a compiled program.
package sparse

// Set is a set of uint32 values drawn from [0, capacity).
//
// dense holds the members in insertion order; sparse maps a value to its
// index in dense. A value is a member iff sparse[v] < len(dense) and
// dense[sparse[v]] == v, so neither slice needs zeroing on Clear.
type Set struct {
	sparse []uint32
	dense  []uint32
}

// New creates a set able to hold values in [0, capacity).
func New(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds v to the set. It returns false if v was already present.
// Panics if v >= capacity.
func (s *Set) Insert(v uint32) bool {
	if s.Contains(v) {
		return false
	}
	//nolint:gosec // G115: len(dense) < capacity which fits in uint32
	s.sparse[v] = uint32(len(s.dense))
	s.dense = append(s.dense, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v uint32) bool {
	if uint64(v) >= uint64(len(s.sparse)) {
		return false
	}
	i := s.sparse[v]
	return uint64(i) < uint64(len(s.dense)) && s.dense[i] == v
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.dense)
}

// Capacity returns the exclusive upper bound on storable values.
func (s *Set) Capacity() int {
	return len(s.sparse)
}

// Values returns the members in insertion order.
// The slice is only valid until the next mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}

// Clear removes all members in O(1).
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}
