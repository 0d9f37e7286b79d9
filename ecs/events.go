package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// Event types emitted by the combat systems. Data carries the matching
// struct from ecs/component (see component.Signal* types).
const (
	EventAnimation      = "animation"
	EventAnimationSpeed = "animation_speed"
	EventSound          = "sound"
	EventDamageText     = "damage_text"
	EventRegionOn       = "region_on"
	EventRegionOff      = "region_off"
	EventEntityDefeated = "entity_defeated"
	EventEntityReleased = "entity_released"
	EventTeamEliminated = "team_eliminated"
)

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Emit is shorthand for Push(Event{Type: typ, Data: data}).
func (q *EventQueue) Emit(typ string, data any) {
	q.Push(Event{Type: typ, Data: data})
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
