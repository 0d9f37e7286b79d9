package system

import (
	"context"

	"github.com/looplab/fsm"
	"github.com/milk9111/arena/ecs/component"
)

const (
	evWindUp    = "wind_up"
	evStrike    = "strike"
	evOpenCombo = "open_combo"
	evResolve   = "resolve"
	evInterrupt = "interrupt"
	evStun      = "stun"
	evRecover   = "recover"
	evDie       = "die"
)

var (
	readyPhases  = []string{component.PhaseIdle, component.PhaseResolved, component.PhaseInterrupted}
	activePhases = []string{component.PhaseWindUp, component.PhaseHitWindows, component.PhaseComboWindow}
	livePhases   = []string{
		component.PhaseIdle, component.PhaseResolved, component.PhaseInterrupted,
		component.PhaseWindUp, component.PhaseHitWindows, component.PhaseComboWindow,
		component.PhaseStunned,
	}
)

// NewAttackMachine builds the phase machine guarding sequencer transitions.
func NewAttackMachine() *fsm.FSM {
	return fsm.NewFSM(
		component.PhaseIdle,
		fsm.Events{
			{Name: evWindUp, Src: readyPhases, Dst: component.PhaseWindUp},
			{Name: evStrike, Src: append([]string{component.PhaseWindUp}, readyPhases...), Dst: component.PhaseHitWindows},
			{Name: evOpenCombo, Src: []string{component.PhaseHitWindows}, Dst: component.PhaseComboWindow},
			{Name: evResolve, Src: []string{component.PhaseHitWindows, component.PhaseComboWindow}, Dst: component.PhaseResolved},
			{Name: evInterrupt, Src: activePhases, Dst: component.PhaseInterrupted},
			{Name: evStun, Src: livePhases, Dst: component.PhaseStunned},
			{Name: evRecover, Src: []string{component.PhaseStunned}, Dst: component.PhaseIdle},
			{Name: evDie, Src: livePhases, Dst: component.PhaseDead},
		},
		fsm.Callbacks{},
	)
}

// fire attempts a transition; invalid transitions are ignored.
func fire(a *component.Attack, event string) bool {
	if a == nil {
		return false
	}
	if a.Machine == nil {
		a.Machine = NewAttackMachine()
	}
	if !a.Machine.Can(event) {
		return false
	}
	return a.Machine.Event(context.Background(), event) == nil
}
