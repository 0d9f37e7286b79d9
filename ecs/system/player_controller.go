package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// InputSource supplies the joystick direction for the player entity.
type InputSource interface {
	Direction() cp.Vector
}

// PlayerController turns joystick input into intent. Releasing the stick
// attacks, which is how combos chain.
type PlayerController struct {
	tuning    Tuning
	sequencer *AttackSequencer
	input     InputSource
}

func NewPlayerController(tuning Tuning, sequencer *AttackSequencer, input InputSource) *PlayerController {
	return &PlayerController{tuning: tuning, sequencer: sequencer, input: input}
}

// SetInput swaps the input collaborator.
func (c *PlayerController) SetInput(input InputSource) {
	c.input = input
}

func (c *PlayerController) Update(w *ecs.World, e ecs.Entity) {
	move := cp.Vector{}
	if c.input != nil {
		move = c.input.Direction()
	} else if in, ok := ecs.Get(w, e, component.PlayerInputComponent); ok {
		move = in.Move
	}
	if l := move.Length(); l > 1 {
		move = move.Mult(1 / l)
	}

	if move.Length() > c.tuning.MoveEpsilon {
		setIntent(w, e, move)
		return
	}
	setIntent(w, e, cp.Vector{})
	c.sequencer.Attack(w, e)
}
