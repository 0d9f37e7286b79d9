package component

import "github.com/looplab/fsm"

// AttackPhase is a state of the attack sequencer.
type AttackPhase = string

const (
	PhaseIdle        AttackPhase = "idle"
	PhaseWindUp      AttackPhase = "wind_up"
	PhaseHitWindows  AttackPhase = "hit_windows"
	PhaseComboWindow AttackPhase = "combo_window"
	PhaseResolved    AttackPhase = "resolved"
	PhaseInterrupted AttackPhase = "interrupted"
	PhaseStunned     AttackPhase = "stunned"
	PhaseDead        AttackPhase = "dead"
)

// Attack is the per-entity attack sequencer state. Combo is -1 when no
// combo is running. Generation increases on every Attack and ResetAttack so
// hit windows spawned by an older invocation can detect cancellation.
type Attack struct {
	Attacking  bool
	Combo      int
	Generation uint64

	Elapsed  float64
	WindUp   float64
	HitEnd   float64
	End      float64
	MoveTime float64
	Moved    bool

	AnimSpeed float64

	Machine *fsm.FSM
}

// Phase returns the current sequencer phase.
func (a Attack) Phase() AttackPhase {
	if a.Machine == nil {
		return PhaseIdle
	}
	return a.Machine.Current()
}

var AttackComponent = NewComponent[Attack]()
