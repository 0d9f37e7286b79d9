package component

import "github.com/jakecoffman/cp"

// Intent is the desired planar move direction for this tick (X, Z).
type Intent struct {
	Move cp.Vector
}

var IntentComponent = NewComponent[Intent]()

// PlayerInput carries the joystick direction written by the input collaborator.
type PlayerInput struct {
	Move cp.Vector
}

var PlayerInputComponent = NewComponent[PlayerInput]()
