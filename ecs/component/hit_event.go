package component

// DamageRequest is queued on a target by hit detection and consumed by the
// damage system.
type DamageRequest struct {
	Source  uint64
	Window  uint64
	Amount  float64
	HitType HitType
}

// HitQueue holds pending damage requests for one target.
type HitQueue struct {
	Pending []DamageRequest
}

var HitQueueComponent = NewComponent[HitQueue]()
