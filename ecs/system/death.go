package system

import (
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// DeathSystem counts down the death linger and announces when a defeated
// entity may return to the pool.
type DeathSystem struct{}

func NewDeathSystem() *DeathSystem { return &DeathSystem{} }

func (s *DeathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach(w, component.DeathComponent, func(e ecs.Entity, d *component.Death) {
		d.Linger -= dt
		if d.Linger > 0 {
			return
		}
		ecs.Remove(w, e, component.DeathComponent)
		c, _ := ecs.Get(w, e, component.CombatantComponent)
		w.Events().Emit(ecs.EventEntityReleased, component.EntityReleased{Entity: uint64(e), Team: c.Team})
	})
}
