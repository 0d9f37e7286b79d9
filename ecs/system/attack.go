package system

import (
	"fmt"

	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"go.uber.org/zap"
)

// AttackSequencer drives the per-entity attack state machine. All timing is
// in simulated seconds and advances only through Advance.
type AttackSequencer struct {
	tuning  Tuning
	windows *HitWindowScheduler
	log     *zap.Logger
}

func NewAttackSequencer(tuning Tuning, windows *HitWindowScheduler, log *zap.Logger) *AttackSequencer {
	if log == nil {
		log = zap.NewNop()
	}
	if windows == nil {
		windows = NewHitWindowScheduler(tuning, log)
	}
	return &AttackSequencer{tuning: tuning, windows: windows, log: log}
}

// Windows returns the scheduler owning the sequencer's hit windows.
func (s *AttackSequencer) Windows() *HitWindowScheduler {
	return s.windows
}

// Attack starts the next combo step. It returns false, doing nothing, when
// the entity is already attacking, stunned or dead.
func (s *AttackSequencer) Attack(w *ecs.World, e ecs.Entity) bool {
	a, ok := ecs.Get(w, e, component.AttackComponent)
	if !ok || a.Attacking || ecs.Has(w, e, component.StunComponent) {
		return false
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent); !ok || !h.Alive {
		return false
	}
	c, ok := ecs.Get(w, e, component.CombatantComponent)
	if !ok {
		return false
	}
	steps := c.ComboSteps()
	if steps == 0 {
		return false
	}

	if a.Combo >= steps-1 {
		a.Combo = -1
	}
	a.Combo++
	a.Generation++
	a.Attacking = true
	a.Elapsed = 0
	a.MoveTime = 0
	a.Moved = false
	a.WindUp = 0
	if c.WindUp > 0 && hasLiveTarget(w, e) {
		a.WindUp = c.WindUp
	}

	speed := attackSpeed(c)
	step := c.Attacks[a.Combo]
	a.HitEnd = s.windows.Schedule(w, e, c, step, a.Generation, a.WindUp)
	a.End = a.WindUp + step.Duration/speed
	if a.HitEnd > a.End {
		a.End = a.HitEnd
	}
	a.AnimSpeed = speed

	if a.WindUp > 0 {
		fire(&a, evWindUp)
	} else {
		fire(&a, evStrike)
	}
	_ = ecs.Add(w, e, component.AttackComponent, a)

	w.Events().Emit(ecs.EventAnimation, component.AnimationSignal{Entity: uint64(e), Name: fmt.Sprintf("Attack%d", a.Combo)})
	w.Events().Emit(ecs.EventAnimationSpeed, component.AnimationSpeedSignal{Entity: uint64(e), Speed: speed})
	s.log.Debug("attack", zap.Stringer("entity", e), zap.Int("combo", a.Combo), zap.Uint64("generation", a.Generation))
	return true
}

// ResetAttack cancels the running attack and every hit window it spawned,
// clears the combo and restores the animation rate.
func (s *AttackSequencer) ResetAttack(w *ecs.World, e ecs.Entity) {
	a, ok := ecs.Get(w, e, component.AttackComponent)
	if !ok {
		return
	}
	a.Generation++
	s.windows.Cancel(w, e)

	a.Combo = -1
	a.Attacking = false
	a.Elapsed = 0
	a.MoveTime = 0
	a.Moved = false
	a.AnimSpeed = 1
	fire(&a, evInterrupt)
	_ = ecs.Add(w, e, component.AttackComponent, a)

	w.Events().Emit(ecs.EventAnimationSpeed, component.AnimationSpeedSignal{Entity: uint64(e), Speed: 1})
}

// release ends the attack early while keeping the combo so the next Attack
// chains.
func (s *AttackSequencer) release(w *ecs.World, e ecs.Entity, a *component.Attack) {
	a.Attacking = false
	a.AnimSpeed = 1
	fire(a, evResolve)
	w.Events().Emit(ecs.EventAnimationSpeed, component.AnimationSpeedSignal{Entity: uint64(e), Speed: 1})
}

// Advance moves e's attack forward by dt. Phases cascade within one call so
// a large dt cannot stall the sequence. It reports true when the combo window
// was released because movement stopped short of the interrupt threshold;
// the caller may chain the next step in the same tick.
func (s *AttackSequencer) Advance(w *ecs.World, e ecs.Entity, snap *Snapshot, dt float64) bool {
	a, ok := ecs.Get(w, e, component.AttackComponent)
	if !ok || !a.Attacking {
		return false
	}
	a.Elapsed += dt

	if a.Phase() == component.PhaseWindUp {
		s.turnTowardTarget(w, e, snap, dt, a.Elapsed >= a.WindUp)
		if a.Elapsed >= a.WindUp {
			fire(&a, evStrike)
		}
	}

	if a.Phase() == component.PhaseHitWindows && a.Elapsed >= a.HitEnd {
		fire(&a, evOpenCombo)
		a.MoveTime = 0
		a.Moved = false
	}

	if a.Phase() == component.PhaseComboWindow {
		intent, _ := ecs.Get(w, e, component.IntentComponent)
		if intent.Move.Length() > s.tuning.MoveEpsilon {
			a.Moved = true
			a.MoveTime += dt
			if a.MoveTime > s.tuning.MoveInterruptWindow {
				_ = ecs.Add(w, e, component.AttackComponent, a)
				s.ResetAttack(w, e)
				s.log.Debug("attack interrupted", zap.Stringer("entity", e))
				return false
			}
		} else if a.Moved {
			s.release(w, e, &a)
			_ = ecs.Add(w, e, component.AttackComponent, a)
			return true
		}

		if s.lostEngagement(w, e, snap) {
			s.release(w, e, &a)
			_ = ecs.Add(w, e, component.AttackComponent, a)
			return false
		}

		if a.Elapsed >= a.End {
			s.release(w, e, &a)
		}
	}

	_ = ecs.Add(w, e, component.AttackComponent, a)
	return false
}

// lostEngagement is the Hard tier early release: the target died or left
// attack range.
func (s *AttackSequencer) lostEngagement(w *ecs.World, e ecs.Entity, snap *Snapshot) bool {
	ai, ok := ecs.Get(w, e, component.AIComponent)
	if !ok || ai.Tier != component.TierHard {
		return false
	}
	tg, _ := ecs.Get(w, e, component.TargetComponent)
	target := ecs.Entity(tg.Entity)
	if !cacheValid(w, snap, target) {
		return true
	}
	c, _ := ecs.Get(w, e, component.CombatantComponent)
	tv, ok := snap.Lookup(target)
	if !ok {
		return true
	}
	return positionOf(w, e).DistanceSq(tv.Position) > c.AttackRange*c.AttackRange
}

func (s *AttackSequencer) turnTowardTarget(w *ecs.World, e ecs.Entity, snap *Snapshot, dt float64, finish bool) {
	tg, ok := ecs.Get(w, e, component.TargetComponent)
	if !ok {
		return
	}
	tv, ok := snap.Lookup(ecs.Entity(tg.Entity))
	if !ok {
		return
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return
	}
	yaw, ok := common.YawTowards(tv.Position.Sub(common.Planar(tr.X, tr.Z)))
	if !ok {
		return
	}
	if finish {
		tr.Yaw = yaw
	} else {
		tr.Yaw = common.LerpAngle(tr.Yaw, yaw, s.tuning.WindUpTurnRate*dt)
	}
	_ = ecs.Add(w, e, component.TransformComponent, tr)
}

func hasLiveTarget(w *ecs.World, e ecs.Entity) bool {
	tg, ok := ecs.Get(w, e, component.TargetComponent)
	if !ok {
		return false
	}
	return cacheValid(w, nil, ecs.Entity(tg.Entity))
}
