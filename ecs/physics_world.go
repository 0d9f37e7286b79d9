package ecs

import (
	"github.com/jakecoffman/cp"
)

const collisionTypeCombatant cp.CollisionType = 1

// PhysicsWorld owns the Chipmunk space that integrates combatant bodies on
// the arena ground plane. cp's Y axis carries the world Z coordinate.
type PhysicsWorld struct {
	space  *cp.Space
	bodies map[Entity]*cp.Body
	shapes map[Entity]*cp.Shape
}

// NewPhysicsWorld creates a zero-gravity arena space.
func NewPhysicsWorld() *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})

	return &PhysicsWorld{
		space:  space,
		bodies: make(map[Entity]*cp.Body),
		shapes: make(map[Entity]*cp.Shape),
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// EnsureBody creates a circular body for e at pos if it has none yet.
// Shapes are sensors: combatants overlap freely and separation is left to
// the movement policy.
func (pw *PhysicsWorld) EnsureBody(e Entity, pos cp.Vector, radius float64) *cp.Body {
	if pw == nil || pw.space == nil || !e.Valid() {
		return nil
	}
	if body, ok := pw.bodies[e]; ok {
		return body
	}
	if radius <= 0 {
		radius = 0.5
	}

	mass := 1.0
	body := cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{}))
	body.SetPosition(pos)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypeCombatant)

	pw.space.AddBody(body)
	pw.space.AddShape(shape)
	pw.bodies[e] = body
	pw.shapes[e] = shape
	return body
}

// Body returns the body registered for e.
func (pw *PhysicsWorld) Body(e Entity) (*cp.Body, bool) {
	if pw == nil {
		return nil, false
	}
	body, ok := pw.bodies[e]
	return body, ok
}

// RemoveBody detaches e's body and shape from the space.
func (pw *PhysicsWorld) RemoveBody(e Entity) {
	if pw == nil || pw.space == nil {
		return
	}
	if shape, ok := pw.shapes[e]; ok {
		pw.space.RemoveShape(shape)
		delete(pw.shapes, e)
	}
	if body, ok := pw.bodies[e]; ok {
		pw.space.RemoveBody(body)
		delete(pw.bodies, e)
	}
}

// Len returns the number of registered bodies.
func (pw *PhysicsWorld) Len() int {
	if pw == nil {
		return 0
	}
	return len(pw.bodies)
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}
