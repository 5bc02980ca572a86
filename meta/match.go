package meta

// Match represents a successful match with position information.
//
// A Match contains:
//   - Start position (inclusive)
//   - End position (exclusive)
//   - Reference to the original subject
//
// Group boundaries are tracked on the automaton but not read back during
// matching, so Groups is always nil.
//
// Example:
//
//	match := meta.NewMatch(5, 11, []byte("test foo123 end"))
//	println(match.String()) // "foo123"
type Match struct {
	start   int
	end     int
	subject []byte
}

// NewMatch creates a new Match from start and end positions.
//
// The subject is stored by reference (not copied). Callers must ensure it
// remains valid for the lifetime of the Match.
func NewMatch(start, end int, subject []byte) *Match {
	return &Match{
		start:   start,
		end:     end,
		subject: subject,
	}
}

// Start returns the inclusive start position of the match.
func (m *Match) Start() int {
	return m.start
}

// End returns the exclusive end position of the match.
func (m *Match) End() int {
	return m.end
}

// Len returns the length of the match in bytes.
func (m *Match) Len() int {
	return m.end - m.start
}

// Bytes returns the matched bytes as a view into the subject.
func (m *Match) Bytes() []byte {
	return m.subject[m.start:m.end]
}

// String returns the matched text as a string.
func (m *Match) String() string {
	return string(m.Bytes())
}

// IsEmpty returns true if the match has zero length.
func (m *Match) IsEmpty() bool {
	return m.start == m.end
}

// Groups returns the spans of capturing groups. Group extraction is not
// supported; the result is always nil.
func (m *Match) Groups() [][2]int {
	return nil
}
