package ecs

import "github.com/milk9111/arena/ecs/component"

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// World owns entities, components, the simulation clock and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	systems  []System
	events   EventQueue

	dt      float64
	elapsed float64
	tick    uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and invalidates the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns every live entity in slot order.
func (w *World) Entities() []Entity {
	if w == nil {
		return nil
	}
	return w.entities.all()
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Step advances simulated time by dt and runs all systems once.
func (w *World) Step(dt float64) {
	if w == nil {
		return
	}
	if dt < 0 {
		dt = 0
	}
	w.dt = dt
	w.elapsed += dt
	w.tick++
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.events.flush()
}

// Delta returns the length of the current tick in simulated seconds.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// SetDelta overrides the current tick length; used by systems driven outside Step.
func (w *World) SetDelta(dt float64) {
	if w == nil {
		return
	}
	w.dt = dt
}

// Elapsed returns the total simulated time.
func (w *World) Elapsed() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Tick returns the number of completed Step calls.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]*SparseSet)
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = newSparseSet()
		w.stores[id] = s
	}
	return s
}

// AddComponent stores value under kind for e.
func (w *World) AddComponent(e Entity, kind component.Kind, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e.id(), value)
	return nil
}

// GetComponent returns the raw value stored under kind for e.
func (w *World) GetComponent(e Entity, kind component.Kind) (any, bool) {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	return w.store(kind.ID(), false).Get(e.id())
}

// HasComponent reports whether e carries kind.
func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Has(e.id())
}

// RemoveComponent deletes kind from e.
func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return false
	}
	return w.store(kind.ID(), false).Remove(e.id())
}
