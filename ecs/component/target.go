package component

// Target is an AI's cached target. Entity is a weak handle: it must be
// re-validated against the world before every use.
type Target struct {
	Entity    uint64
	Timer     float64
	FlankSign float64
}

var TargetComponent = NewComponent[Target]()
