package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"go.uber.org/zap"
)

// Roller supplies uniform [0,1) draws; *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
}

// DamageResult reports what a hit did to its target.
type DamageResult struct {
	Applied   bool
	Defeated  bool
	Stunned   bool
	Remaining float64
}

func attackSpeed(c component.Combatant) float64 {
	if c.AttackSpeed <= 0 {
		return 1
	}
	return c.AttackSpeed
}

// ComputeDamage returns base * (1 + level*damageScale) * (1 + combo*comboMultiplier).
func ComputeDamage(c component.Combatant, combo int) float64 {
	return c.BaseDamage * (1 + float64(c.Level)*c.DamageScale) * (1 + float64(combo)*c.ComboMultiplier)
}

var hitReactions = map[component.HitType]struct{ anim, sound string }{
	component.Hit0: {"Hit0", "hit1"},
	component.Hit1: {"Hit1", "hit3"},
	component.Hit2: {"Hit2", "hit2"},
	component.Hit3: {"Hit0", "hit1"},
}

// DamageResolver applies damage, death and stun outcomes.
type DamageResolver struct {
	tuning    Tuning
	sequencer *AttackSequencer
	physics   *ecs.PhysicsWorld
	rng       Roller
	log       *zap.Logger
}

func NewDamageResolver(tuning Tuning, sequencer *AttackSequencer, physics *ecs.PhysicsWorld, rng Roller, log *zap.Logger) *DamageResolver {
	if log == nil {
		log = zap.NewNop()
	}
	if sequencer == nil {
		sequencer = NewAttackSequencer(tuning, nil, log)
	}
	return &DamageResolver{tuning: tuning, sequencer: sequencer, physics: physics, rng: rng, log: log}
}

// TakeDamage applies a hit using the default tuning.
func TakeDamage(w *ecs.World, target ecs.Entity, amount float64, hitType component.HitType, rng Roller) DamageResult {
	return NewDamageResolver(DefaultTuning(), nil, nil, rng, nil).ApplyDamage(w, target, amount, hitType)
}

// ApplyDamage subtracts amount from target. Dead or missing targets are a
// no-op.
func (r *DamageResolver) ApplyDamage(w *ecs.World, target ecs.Entity, amount float64, hitType component.HitType) DamageResult {
	h, ok := ecs.Get(w, target, component.HealthComponent)
	if !ok || !h.Alive {
		return DamageResult{Remaining: h.Current}
	}
	if amount < 0 {
		amount = 0
	}
	h.Current -= amount
	res := DamageResult{Applied: true, Remaining: h.Current}

	w.Events().Emit(ecs.EventDamageText, component.DamageTextSignal{
		Entity:   uint64(target),
		Amount:   amount,
		Position: positionOf(w, target),
	})

	if h.Current <= 0 {
		h.Alive = false
		_ = ecs.Add(w, target, component.HealthComponent, h)
		r.defeat(w, target)
		res.Defeated = true
		return res
	}
	_ = ecs.Add(w, target, component.HealthComponent, h)

	reaction, ok := hitReactions[hitType]
	if !ok {
		reaction = hitReactions[component.Hit0]
	}
	w.Events().Emit(ecs.EventAnimation, component.AnimationSignal{Entity: uint64(target), Name: reaction.anim})
	w.Events().Emit(ecs.EventSound, component.SoundSignal{Entity: uint64(target), Cue: reaction.sound})
	r.stopBody(w, target)

	if r.rollStun(hitType) {
		r.stun(w, target)
		res.Stunned = true
	}
	return res
}

func (r *DamageResolver) rollStun(hitType component.HitType) bool {
	chance := r.tuning.StunChanceFor(hitType)
	if chance <= 0 || r.rng == nil {
		return false
	}
	return r.rng.Float64() < chance
}

func (r *DamageResolver) stun(w *ecs.World, e ecs.Entity) {
	r.sequencer.ResetAttack(w, e)
	if a, ok := ecs.Get(w, e, component.AttackComponent); ok {
		fire(&a, evStun)
		_ = ecs.Add(w, e, component.AttackComponent, a)
	}
	_ = ecs.Add(w, e, component.StunComponent, component.Stun{Remaining: r.tuning.StunDuration})
	r.log.Debug("stunned", zap.Stringer("entity", e), zap.Float64("duration", r.tuning.StunDuration))
}

func (r *DamageResolver) defeat(w *ecs.World, e ecs.Entity) {
	r.sequencer.ResetAttack(w, e)
	if a, ok := ecs.Get(w, e, component.AttackComponent); ok {
		fire(&a, evDie)
		_ = ecs.Add(w, e, component.AttackComponent, a)
	}
	ecs.Remove(w, e, component.StunComponent)
	_ = ecs.Add(w, e, component.IntentComponent, component.Intent{})
	r.stopBody(w, e)

	c, _ := ecs.Get(w, e, component.CombatantComponent)
	w.Events().Emit(ecs.EventAnimation, component.AnimationSignal{Entity: uint64(e), Name: "Die"})
	w.Events().Emit(ecs.EventEntityDefeated, component.EntityDefeated{Entity: uint64(e), Team: c.Team})
	_ = ecs.Add(w, e, component.DeathComponent, component.Death{Linger: r.tuning.DeathLinger})
	r.log.Debug("defeated", zap.Stringer("entity", e), zap.Stringer("team", c.Team))
}

func (r *DamageResolver) stopBody(w *ecs.World, e ecs.Entity) {
	if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent); ok && pb.Body != nil {
		pb.Body.SetVelocityVector(cp.Vector{})
	}
}

func positionOf(w *ecs.World, e ecs.Entity) cp.Vector {
	tr, ok := ecs.Get(w, e, component.TransformComponent)
	if !ok {
		return cp.Vector{}
	}
	return common.Planar(tr.X, tr.Z)
}

// DamageSystem drains every target's hit queue in roster order.
type DamageSystem struct {
	resolver *DamageResolver
	rosters  Rosters
	log      *zap.Logger
}

func NewDamageSystem(resolver *DamageResolver, rosters Rosters, log *zap.Logger) *DamageSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &DamageSystem{resolver: resolver, rosters: rosters, log: log}
}

func (s *DamageSystem) Update(w *ecs.World) {
	if s == nil || w == nil || s.rosters == nil {
		return
	}
	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		for _, e := range s.rosters.Members(team) {
			q, ok := ecs.Get(w, e, component.HitQueueComponent)
			if !ok || len(q.Pending) == 0 {
				continue
			}
			pending := q.Pending
			_ = ecs.Add(w, e, component.HitQueueComponent, component.HitQueue{})
			for _, req := range pending {
				res := s.resolver.ApplyDamage(w, e, req.Amount, req.HitType)
				if !res.Applied {
					continue
				}
				s.log.Debug("hit",
					zap.Stringer("entity", e),
					zap.Stringer("source", ecs.Entity(req.Source)),
					zap.Float64("damage", req.Amount),
					zap.Bool("defeated", res.Defeated),
					zap.Bool("stunned", res.Stunned),
				)
			}
		}
	}
}
