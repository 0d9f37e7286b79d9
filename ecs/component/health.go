package component

// Health tracks hit points. Alive only ever goes from true to false; the
// pool re-initialises the entity to revive it.
type Health struct {
	Current float64
	Max     float64
	Alive   bool
}

var HealthComponent = NewComponent[Health]()
