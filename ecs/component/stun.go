package component

// Stun is present while an entity is stunned.
type Stun struct {
	Remaining float64
}

var StunComponent = NewComponent[Stun]()
