package component

import "github.com/jakecoffman/cp"

// PhysicsBody links an entity to its body in the arena space.
type PhysicsBody struct {
	Body   *cp.Body
	Radius float64
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
