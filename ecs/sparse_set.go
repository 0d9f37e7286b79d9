package ecs

// SparseSet is a cache-friendly storage for components keyed by entity slot.
// Values are stored as `any`; typed access goes through the generic helpers.
type SparseSet struct {
	denseIDs    []entityID
	denseValues []any
	sparse      []int
}

func newSparseSet() *SparseSet {
	return &SparseSet{}
}

// Has returns true if the slot id exists in the set.
func (s *SparseSet) Has(id entityID) bool {
	if s == nil || id == 0 || int(id) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[id]
	return idx >= 0 && idx < len(s.denseIDs) && s.denseIDs[idx] == id
}

// Get returns the component for id, or nil.
func (s *SparseSet) Get(id entityID) (any, bool) {
	if !s.Has(id) {
		return nil, false
	}
	return s.denseValues[s.sparse[id]], true
}

// Set inserts or updates a component for id.
func (s *SparseSet) Set(id entityID, v any) {
	if s == nil || id == 0 {
		return
	}
	for int(id) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(id) {
		s.denseValues[s.sparse[id]] = v
		return
	}
	s.denseIDs = append(s.denseIDs, id)
	s.denseValues = append(s.denseValues, v)
	s.sparse[id] = len(s.denseIDs) - 1
}

// Remove deletes the component for id if present.
func (s *SparseSet) Remove(id entityID) bool {
	if s == nil || !s.Has(id) {
		return false
	}
	idx := s.sparse[id]
	last := len(s.denseIDs) - 1
	lastID := s.denseIDs[last]

	s.denseIDs[idx] = s.denseIDs[last]
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastID] = idx

	s.denseIDs = s.denseIDs[:last]
	s.denseValues[last] = nil
	s.denseValues = s.denseValues[:last]
	s.sparse[id] = -1
	return true
}

// Len returns the number of stored components.
func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseIDs)
}

func (s *SparseSet) ids() []entityID {
	if s == nil {
		return nil
	}
	return s.denseIDs
}
