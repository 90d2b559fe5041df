package trivia

// AskedSet remembers the question texts already served in a session.
// Membership is exact text equality. Iteration follows insertion order.
type AskedSet struct {
	order []string
	seen  map[string]struct{}
}

// NewAskedSet returns a set holding texts.
func NewAskedSet(texts ...string) *AskedSet {
	s := &AskedSet{seen: make(map[string]struct{}, len(texts))}
	for _, t := range texts {
		s.Add(t)
	}
	return s
}

// Add records text. It reports false if text was already present.
func (s *AskedSet) Add(text string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[text]; ok {
		return false
	}
	s.seen[text] = struct{}{}
	s.order = append(s.order, text)
	return true
}

// Contains reports whether text has been asked. A nil set contains nothing.
func (s *AskedSet) Contains(text string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[text]
	return ok
}

// Len returns the number of distinct texts.
func (s *AskedSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Texts returns the texts in the order they were added.
func (s *AskedSet) Texts() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Clone returns an independent copy.
func (s *AskedSet) Clone() *AskedSet {
	return NewAskedSet(s.Texts()...)
}

// Clear empties the set.
func (s *AskedSet) Clear() {
	s.order = nil
	s.seen = make(map[string]struct{})
}
