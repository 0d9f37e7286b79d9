package component

// Death is added when an entity is defeated and counts down the linger
// before the entity returns to the pool.
type Death struct {
	Linger float64
}

var DeathComponent = NewComponent[Death]()
