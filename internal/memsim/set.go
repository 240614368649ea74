package memsim

// Set is an ordered group of at most Ways lines, ordered by insertion
// time: index 0 is the oldest (next to be evicted). No two resident
// lines share a tag.
type Set struct {
	ways  int
	lines []Line
}

// NewSet creates an empty set with the given associativity.
func NewSet(ways int) Set {
	return Set{
		ways:  ways,
		lines: make([]Line, 0, ways),
	}
}

// IsPresent reports whether tag is currently resident.
func (s *Set) IsPresent(tag uint64) bool {
	for i := range s.lines {
		if s.lines[i].Tag == tag {
			return true
		}
	}
	return false
}

// IsFull reports whether the set is at capacity.
func (s *Set) IsFull() bool {
	return len(s.lines) == s.ways
}

// indexOf returns the slice index of tag, or -1 if absent.
func (s *Set) indexOf(tag uint64) int {
	for i := range s.lines {
		if s.lines[i].Tag == tag {
			return i
		}
	}
	return -1
}

// Install inserts tag as a new clean line at the back of the set. If
// the set was already full, the front (oldest) line is evicted first
// and returned as ok=true. Installing a tag that is already present is
// a caller bug and panics, per the core's invariant-violation policy.
func (s *Set) Install(tag uint64) (evicted Line, ok bool) {
	if s.IsPresent(tag) {
		panic("memsim: Install called with a tag already present in the set")
	}

	if s.IsFull() {
		evicted = s.lines[0]
		copy(s.lines, s.lines[1:])
		s.lines = s.lines[:len(s.lines)-1]
		ok = true
	}

	s.lines = append(s.lines, Line{Tag: tag})
	return evicted, ok
}

// MarkDirty marks the resident line for tag as dirty. Calling this for
// an absent tag is a caller bug and panics.
func (s *Set) MarkDirty(tag uint64) {
	i := s.indexOf(tag)
	if i < 0 {
		panic("memsim: MarkDirty called for a tag not present in the set")
	}
	s.lines[i].Dirty = true
}
