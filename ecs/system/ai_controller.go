package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"go.uber.org/zap"
)

// AIController runs target selection, the engage gate and the movement
// policy for one AI entity per call.
type AIController struct {
	tuning    Tuning
	targets   *TargetSelector
	sequencer *AttackSequencer
	scripts   *EngageScripts
	rng       Roller
	log       *zap.Logger
}

func NewAIController(tuning Tuning, sequencer *AttackSequencer, scripts *EngageScripts, rng Roller, log *zap.Logger) *AIController {
	if log == nil {
		log = zap.NewNop()
	}
	return &AIController{
		tuning:    tuning,
		targets:   NewTargetSelector(tuning),
		sequencer: sequencer,
		scripts:   scripts,
		rng:       rng,
		log:       log,
	}
}

func (c *AIController) Update(w *ecs.World, snap *Snapshot, e ecs.Entity, dt float64) {
	ai, ok := ecs.Get(w, e, component.AIComponent)
	if !ok {
		return
	}
	self, ok := snap.Lookup(e)
	if !ok {
		return
	}

	target, changed := c.targets.Update(w, snap, e, ai.Tier, dt)
	tg, _ := ecs.Get(w, e, component.TargetComponent)
	if ai.Tier == component.TierHard && target.Valid() && (changed || tg.FlankSign == 0) {
		tg.FlankSign = c.flankSign()
		_ = ecs.Add(w, e, component.TargetComponent, tg)
	}

	a, _ := ecs.Get(w, e, component.AttackComponent)
	if a.Attacking || !target.Valid() {
		setIntent(w, e, cp.Vector{})
		return
	}
	tv, ok := snap.Lookup(target)
	if !ok {
		setIntent(w, e, cp.Vector{})
		return
	}

	cmb, _ := ecs.Get(w, e, component.CombatantComponent)
	q := buildEngageQuery(w, snap, self, tv, cmb)
	res := Engage(c.tuning, ai.Tier, q)
	if ai.EngageScript != "" && c.scripts != nil {
		d, err := c.scripts.Decide(ai.EngageScript, ai.Tier, res.Decision, q)
		if err != nil {
			c.log.Warn("engage script failed, using tier gate", zap.Stringer("entity", e), zap.Error(err))
		} else {
			res = EngageResult{Decision: d, ResetCombo: d == DecisionMove && res.ResetCombo}
		}
	}

	switch res.Decision {
	case DecisionAttack:
		setIntent(w, e, cp.Vector{})
		c.sequencer.Attack(w, e)
	case DecisionHold:
		setIntent(w, e, cp.Vector{})
	default:
		if res.ResetCombo && a.Combo != -1 {
			a.Combo = -1
			_ = ecs.Add(w, e, component.AttackComponent, a)
		}
		setIntent(w, e, MoveDirection(c.tuning, ai.Tier, MovementQuery{
			Position:    self.Position,
			Target:      tv.Position,
			AttackRange: cmb.AttackRange,
			FlankSign:   tg.FlankSign,
			Neighbors:   neighbors(snap, self),
		}))
	}
}

func (c *AIController) flankSign() float64 {
	if c.rng != nil && c.rng.Float64() < 0.5 {
		return -1
	}
	return 1
}

func buildEngageQuery(w *ecs.World, snap *Snapshot, self, target CombatantView, cmb component.Combatant) EngageQuery {
	h, _ := ecs.Get(w, self.Entity, component.HealthComponent)
	q := EngageQuery{
		Distance:       self.Position.Distance(target.Position),
		AttackRange:    cmb.AttackRange,
		Health:         h.Current,
		MaxHealth:      h.Max,
		TargetHealth:   target.Health,
		TeamAlive:      snap.AliveCount(self.Team),
		TargetEngaging: target.Target.Valid() && target.TargetTeam == self.Team,
	}

	near := 4 * cmb.AttackRange * cmb.AttackRange
	for _, o := range snap.Team(self.Team.Opponent()) {
		if o.Alive && self.Position.DistanceSq(o.Position) <= near {
			q.OpponentsNear++
		}
	}
	for _, ally := range snap.Team(self.Team) {
		if ally.Entity == self.Entity || !ally.Alive || ally.Target != target.Entity {
			continue
		}
		q.AllyOnTarget = true
		if ally.Attacking {
			q.AlliesAttacking++
		}
	}
	return q
}

func neighbors(snap *Snapshot, self CombatantView) []cp.Vector {
	var out []cp.Vector
	for _, ally := range snap.Team(self.Team) {
		if ally.Entity == self.Entity || !ally.Alive {
			continue
		}
		out = append(out, ally.Position)
	}
	return out
}

func setIntent(w *ecs.World, e ecs.Entity, move cp.Vector) {
	_ = ecs.Add(w, e, component.IntentComponent, component.Intent{Move: move})
}
