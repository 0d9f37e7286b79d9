package ecs

import "github.com/milk9111/arena/ecs/component"

func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	return w.AddComponent(e, handle.Kind(), value)
}

func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.RemoveComponent(e, handle.Kind())
}

func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	return w.HasComponent(e, handle.Kind())
}

func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (T, bool) {
	var zero T
	value, ok := w.GetComponent(e, handle.Kind())
	if !ok {
		return zero, false
	}
	cast, ok := value.(T)
	if !ok {
		return zero, false
	}
	return cast, true
}

// ForEach calls fn for every entity carrying handle. Changes made through the
// pointer are written back unless fn removed the component or the entity.
func ForEach[T any](w *World, handle component.ComponentHandle[T], fn func(e Entity, v *T)) {
	if w == nil || fn == nil {
		return
	}
	s := w.store(handle.Kind().ID(), false)
	if s.Len() == 0 {
		return
	}
	ids := append([]entityID(nil), s.ids()...)
	for _, id := range ids {
		e, ok := w.entities.handle(id)
		if !ok {
			continue
		}
		v, ok := Get(w, e, handle)
		if !ok {
			continue
		}
		fn(e, &v)
		if Has(w, e, handle) {
			_ = Add(w, e, handle, v)
		}
	}
}
