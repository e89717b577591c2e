package charts

// Selection is an immutable set of subject identifiers. Mutating methods
// return a new Selection so callers never share state with the engine.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...string) Selection {
	s := Selection{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected subjects.
func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected subjects in numeric order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	SortSubjects(ids)
	return ids
}

// With returns a copy of s that also holds id.
func (s Selection) With(id string) Selection {
	return NewSelection(append(s.IDs(), id)...)
}

// Without returns a copy of s without id.
func (s Selection) Without(id string) Selection {
	ids := make([]string, 0, len(s.ids))
	for existing := range s.ids {
		if existing != id {
			ids = append(ids, existing)
		}
	}
	return NewSelection(ids...)
}
