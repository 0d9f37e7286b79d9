package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

const moveTurnRate = 8

// PhysicsSystem converts intent into body velocity, steps the arena space
// and copies positions back into transforms.
type PhysicsSystem struct {
	physics *ecs.PhysicsWorld
	rosters Rosters
}

func NewPhysicsSystem(physics *ecs.PhysicsWorld, rosters Rosters) *PhysicsSystem {
	if physics == nil {
		physics = ecs.NewPhysicsWorld()
	}
	return &PhysicsSystem{physics: physics, rosters: rosters}
}

func (s *PhysicsSystem) World() *ecs.PhysicsWorld {
	return s.physics
}

// canMove reports whether e may translate this tick. Wind-up and hit windows
// root the entity; the combo window does not.
func canMove(w *ecs.World, e ecs.Entity) bool {
	if h, ok := ecs.Get(w, e, component.HealthComponent); !ok || !h.Alive {
		return false
	}
	if ecs.Has(w, e, component.StunComponent) {
		return false
	}
	a, _ := ecs.Get(w, e, component.AttackComponent)
	switch a.Phase() {
	case component.PhaseWindUp, component.PhaseHitWindows:
		return false
	}
	return true
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.rosters == nil {
		return
	}
	dt := w.Delta()
	members := append(append([]ecs.Entity{}, s.rosters.Members(component.TeamA)...), s.rosters.Members(component.TeamB)...)

	for _, e := range members {
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || pb.Body == nil {
			continue
		}
		vel := cp.Vector{}
		if canMove(w, e) {
			intent, _ := ecs.Get(w, e, component.IntentComponent)
			c, _ := ecs.Get(w, e, component.CombatantComponent)
			vel = intent.Move.Mult(c.MoveSpeed)
		}
		pb.Body.SetVelocityVector(vel)
	}

	s.physics.Step(dt)

	for _, e := range members {
		pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent)
		if !ok || pb.Body == nil {
			continue
		}
		tr, _ := ecs.Get(w, e, component.TransformComponent)
		pos := pb.Body.Position()
		tr.X, tr.Z = pos.X, pos.Y
		vel := pb.Body.Velocity()
		if vel.Length() > 0.1 {
			if yaw, ok := common.YawTowards(vel); ok {
				tr.Yaw = common.LerpAngle(tr.Yaw, yaw, moveTurnRate*dt)
			}
		}
		_ = ecs.Add(w, e, component.TransformComponent, tr)
	}
}
