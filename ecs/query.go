package ecs

import "github.com/milk9111/arena/ecs/component"

// Query returns live entities carrying every kind, in the dense order of the
// smallest store.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		if k == nil {
			return nil
		}
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate smaller set
	base := sets[0]
	for _, s := range sets[1:] {
		if s.Len() < base.Len() {
			base = s
		}
	}
	out := make([]Entity, 0, base.Len())
	for _, id := range base.ids() {
		match := true
		for _, s := range sets {
			if s != base && !s.Has(id) {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if e, ok := w.entities.handle(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// First returns any entity carrying kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return NoEntity, false
	}
	return ents[0], true
}
