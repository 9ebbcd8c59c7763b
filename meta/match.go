package meta

import "github.com/coregx/ecmaregex/syntax"

// Match is a successful search result: the subject text, the flags it was
// searched under and the capture slots of every group.
//
// Slots 0 and 1 delimit the whole match; slots 2i and 2i+1 delimit group i,
// or are both -1 when the group did not participate. A Match is never
// modified after construction and may be shared between goroutines.
//
// Example:
//
//	m, _ := engine.FindAt("test foo123 end", 0)
//	println(m.String())         // "foo123"
//	println(m.Start(), m.End()) // 5, 11
type Match struct {
	text  string
	slots []int
	names []string
	flags syntax.Flags
}

// NewMatch creates a Match from capture slots.
//
// names holds group names by group number ("" when unnamed) and may be
// shorter than the group count. The slots slice is retained, not copied.
func NewMatch(text string, slots []int, names []string, flags syntax.Flags) *Match {
	return &Match{
		text:  text,
		slots: slots,
		names: names,
		flags: flags,
	}
}

// Start returns the inclusive start offset of the match.
func (m *Match) Start() int {
	return m.slots[0]
}

// End returns the exclusive end offset of the match.
func (m *Match) End() int {
	return m.slots[1]
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.slots[1] - m.slots[0]
}

// String returns the matched text.
//
// The result is a substring of the subject and does not allocate.
func (m *Match) String() string {
	return m.text[m.slots[0]:m.slots[1]]
}

// IsEmpty returns true if the match has zero length.
//
// Empty matches occur with patterns like /a*/ or /(?:)/ that can succeed
// without consuming input.
func (m *Match) IsEmpty() bool {
	return m.slots[0] == m.slots[1]
}

// Contains returns true if the given position is within the match range.
//
// Returns true if start <= pos < end.
func (m *Match) Contains(pos int) bool {
	return pos >= m.slots[0] && pos < m.slots[1]
}

// GroupCount returns the number of groups including group 0.
func (m *Match) GroupCount() int {
	return len(m.slots) / 2
}

// GroupIndex returns the [start, end) offsets of group i, or nil if the
// group did not participate or i is out of range.
//
// Example:
//
//	// /(a)(b)?/ against "a"
//	m.GroupIndex(1) // [0 1]
//	m.GroupIndex(2) // nil
func (m *Match) GroupIndex(i int) []int {
	if i < 0 || 2*i+1 >= len(m.slots) || m.slots[2*i] < 0 {
		return nil
	}
	return []int{m.slots[2*i], m.slots[2*i+1]}
}

// Group returns the text of group i and whether it participated.
func (m *Match) Group(i int) (string, bool) {
	idx := m.GroupIndex(i)
	if idx == nil {
		return "", false
	}
	return m.text[idx[0]:idx[1]], true
}

// NamedGroup returns the text of the group called name and whether it
// participated. Unknown names report false.
func (m *Match) NamedGroup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	for i, n := range m.names {
		if n == name {
			return m.Group(i)
		}
	}
	return "", false
}

// Flags returns the flags of the regex that produced the match.
func (m *Match) Flags() syntax.Flags {
	return m.flags
}

// Text returns the subject the match was found in.
func (m *Match) Text() string {
	return m.text
}
