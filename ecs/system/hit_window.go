package system

import (
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"go.uber.org/zap"
)

// HitWindowScheduler times the damage regions of an attack. Each window is
// an ecs entity stamped with the generation of the attack that spawned it.
type HitWindowScheduler struct {
	tuning Tuning
	log    *zap.Logger
}

func NewHitWindowScheduler(tuning Tuning, log *zap.Logger) *HitWindowScheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HitWindowScheduler{tuning: tuning, log: log}
}

// Schedule creates one window per descriptor of step. Delays are counted
// from startAt (the end of the wind-up). It returns the latest window end;
// descriptors naming an unknown region are skipped.
func (s *HitWindowScheduler) Schedule(w *ecs.World, owner ecs.Entity, c component.Combatant, step component.AttackDefinition, gen uint64, startAt float64) float64 {
	speed := attackSpeed(c)
	hitEnd := startAt
	for i, def := range step.Windows {
		region, ok := c.Regions[def.Region]
		if def.Region == "" || !ok {
			s.log.Warn("hit window skipped: unknown region",
				zap.Stringer("entity", owner),
				zap.Int("window", i),
				zap.String("region", def.Region),
			)
			continue
		}
		activateAt := startAt + def.Delay/speed
		deactivateAt := activateAt + s.tuning.HitActiveDuration/speed

		win := w.CreateEntity()
		_ = ecs.Add(w, win, component.HitWindowComponent, component.HitWindow{
			Owner:        uint64(owner),
			Generation:   gen,
			Region:       region.Name,
			Offset:       region.Offset,
			Radius:       region.Radius,
			ActivateAt:   activateAt,
			DeactivateAt: deactivateAt,
			HitTargets:   map[uint64]bool{},
		})
		if deactivateAt > hitEnd {
			hitEnd = deactivateAt
		}
	}
	return hitEnd
}

// Windows returns the pending or live windows owned by owner.
func (s *HitWindowScheduler) Windows(w *ecs.World, owner ecs.Entity) []ecs.Entity {
	var out []ecs.Entity
	for _, win := range w.Query(component.HitWindowComponent.Kind()) {
		hw, ok := ecs.Get(w, win, component.HitWindowComponent)
		if ok && ecs.Entity(hw.Owner) == owner {
			out = append(out, win)
		}
	}
	return out
}

// Advance steps every window of owner by dt. A window whose generation no
// longer matches its owner's attack is cancelled in the same step.
func (s *HitWindowScheduler) Advance(w *ecs.World, owner ecs.Entity, dt float64) {
	for _, win := range s.Windows(w, owner) {
		hw, _ := ecs.Get(w, win, component.HitWindowComponent)
		if !windowCurrent(w, hw) {
			s.close(w, win, hw)
			continue
		}

		hw.Elapsed += dt
		if hw.Live {
			if hw.Elapsed >= hw.DeactivateAt {
				s.close(w, win, hw)
				continue
			}
		} else if !hw.Activated && hw.Elapsed >= hw.ActivateAt {
			s.activate(w, win, &hw)
		}
		_ = ecs.Add(w, win, component.HitWindowComponent, hw)
	}
}

// Cancel deactivates and destroys every window of owner immediately.
func (s *HitWindowScheduler) Cancel(w *ecs.World, owner ecs.Entity) int {
	n := 0
	for _, win := range s.Windows(w, owner) {
		hw, _ := ecs.Get(w, win, component.HitWindowComponent)
		s.close(w, win, hw)
		n++
	}
	return n
}

func windowCurrent(w *ecs.World, hw component.HitWindow) bool {
	owner := ecs.Entity(hw.Owner)
	if !w.IsAlive(owner) {
		return false
	}
	if h, ok := ecs.Get(w, owner, component.HealthComponent); ok && !h.Alive {
		return false
	}
	a, ok := ecs.Get(w, owner, component.AttackComponent)
	return ok && a.Generation == hw.Generation
}

func (s *HitWindowScheduler) activate(w *ecs.World, win ecs.Entity, hw *component.HitWindow) {
	owner := ecs.Entity(hw.Owner)
	c, _ := ecs.Get(w, owner, component.CombatantComponent)
	a, _ := ecs.Get(w, owner, component.AttackComponent)
	hitType := component.Hit0
	if a.Combo >= 0 && a.Combo < len(c.Attacks) {
		hitType = c.Attacks[a.Combo].HitType
	}

	hw.Live = true
	hw.Activated = true
	hw.Payload = component.DamagePayload{Damage: ComputeDamage(c, a.Combo), HitType: hitType}
	w.Events().Emit(ecs.EventRegionOn, component.RegionSignal{Owner: hw.Owner, Window: uint64(win), Region: hw.Region})
}

// close is the single exit path of a window: a live window is deactivated
// before the entity is destroyed.
func (s *HitWindowScheduler) close(w *ecs.World, win ecs.Entity, hw component.HitWindow) {
	if hw.Live {
		hw.Live = false
		hw.Payload = component.DamagePayload{}
		w.Events().Emit(ecs.EventRegionOff, component.RegionSignal{Owner: hw.Owner, Window: uint64(win), Region: hw.Region})
	}
	w.DestroyEntity(win)
}
