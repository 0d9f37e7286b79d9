package component

import "github.com/jakecoffman/cp"

// DamagePayload is bound to a hit window while it is live.
type DamagePayload struct {
	Damage  float64
	HitType HitType
}

// HitWindow is an ephemeral entity created per attack invocation. Times are
// measured from the start of the owning attack, already scaled by attack
// speed.
type HitWindow struct {
	Owner      uint64
	Generation uint64
	Region     string
	Offset     cp.Vector
	Radius     float64

	ActivateAt   float64
	DeactivateAt float64
	Elapsed      float64

	Live      bool
	Activated bool
	Payload   DamagePayload

	// HitTargets records every entity this window already damaged.
	HitTargets map[uint64]bool
}

var HitWindowComponent = NewComponent[HitWindow]()
