package component

import "github.com/jakecoffman/cp"

// Signal payloads pushed on the world event queue.

type AnimationSignal struct {
	Entity uint64
	Name   string
}

type AnimationSpeedSignal struct {
	Entity uint64
	Speed  float64
}

type SoundSignal struct {
	Entity uint64
	Cue    string
}

type DamageTextSignal struct {
	Entity   uint64
	Amount   float64
	Position cp.Vector
}

type RegionSignal struct {
	Owner  uint64
	Window uint64
	Region string
}

type EntityDefeated struct {
	Entity uint64
	Team   Team
}

type EntityReleased struct {
	Entity uint64
	Team   Team
}

type TeamEliminated struct {
	Team Team
}
