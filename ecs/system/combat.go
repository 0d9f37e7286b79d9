package system

import (
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// CombatSystem tests every live hit window against the opposing team and
// queues damage requests on the targets it overlaps.
type CombatSystem struct {
	rosters Rosters
}

func NewCombatSystem(rosters Rosters) *CombatSystem { return &CombatSystem{rosters: rosters} }

func hurtRadius(w *ecs.World, e ecs.Entity) float64 {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent); ok && pb.Radius > 0 {
		return pb.Radius
	}
	c, _ := ecs.Get(w, e, component.CombatantComponent)
	return c.Radius
}

func (s *CombatSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.rosters == nil {
		return
	}
	for _, win := range w.Query(component.HitWindowComponent.Kind()) {
		hw, _ := ecs.Get(w, win, component.HitWindowComponent)
		if !hw.Live || !windowCurrent(w, hw) {
			continue
		}
		owner := ecs.Entity(hw.Owner)
		oc, _ := ecs.Get(w, owner, component.CombatantComponent)
		otr, _ := ecs.Get(w, owner, component.TransformComponent)
		center := common.Planar(otr.X, otr.Z).Add(common.LocalToWorld(hw.Offset, otr.Yaw))

		hit := false
		for _, t := range s.rosters.Members(oc.Team.Opponent()) {
			if hw.HitTargets[uint64(t)] {
				continue
			}
			h, ok := ecs.Get(w, t, component.HealthComponent)
			if !ok || !h.Alive {
				continue
			}
			if tc, _ := ecs.Get(w, t, component.CombatantComponent); tc.Team == oc.Team {
				continue
			}
			reach := hw.Radius + hurtRadius(w, t)
			if center.DistanceSq(positionOf(w, t)) > reach*reach {
				continue
			}

			hw.HitTargets[uint64(t)] = true
			hit = true
			q, _ := ecs.Get(w, t, component.HitQueueComponent)
			q.Pending = append(q.Pending, component.DamageRequest{
				Source:  hw.Owner,
				Window:  uint64(win),
				Amount:  hw.Payload.Damage,
				HitType: hw.Payload.HitType,
			})
			_ = ecs.Add(w, t, component.HitQueueComponent, q)
		}
		if hit {
			_ = ecs.Add(w, win, component.HitWindowComponent, hw)
		}
	}
}
