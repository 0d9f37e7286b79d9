package system

import (
	"math"

	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// TargetQuery is the input to a target policy.
type TargetQuery struct {
	Self        CombatantView
	Opponents   []CombatantView
	DetectRange float64
}

// TargetPolicy picks a target from q.Opponents. Candidates are visited in
// roster order and only strict improvements replace the current pick.
type TargetPolicy func(q TargetQuery) (ecs.Entity, bool)

var targetPolicies = map[component.Tier]TargetPolicy{
	component.TierEasy:   SelectEasyTarget,
	component.TierMedium: SelectMediumTarget,
	component.TierHard:   SelectHardTarget,
}

// TargetPolicyFor returns the policy for tier, defaulting to Easy.
func TargetPolicyFor(tier component.Tier) TargetPolicy {
	if p, ok := targetPolicies[tier]; ok {
		return p
	}
	return SelectEasyTarget
}

// SelectEasyTarget returns the first living opponent inside the detection
// range without searching for a closer one.
func SelectEasyTarget(q TargetQuery) (ecs.Entity, bool) {
	r2 := q.DetectRange * q.DetectRange
	for _, o := range q.Opponents {
		if !o.Alive {
			continue
		}
		if q.DetectRange <= 0 || q.Self.Position.DistanceSq(o.Position) <= r2 {
			return o.Entity, true
		}
	}
	return ecs.NoEntity, false
}

// SelectMediumTarget prefers the weakest opponent whose health is below the
// selector's own, falling back to the nearest opponent.
func SelectMediumTarget(q TargetQuery) (ecs.Entity, bool) {
	weakest := ecs.NoEntity
	lowest := math.MaxFloat64
	nearest := ecs.NoEntity
	closest := math.MaxFloat64

	for _, o := range q.Opponents {
		if !o.Alive {
			continue
		}
		if o.Health < q.Self.Health && o.Health < lowest {
			lowest = o.Health
			weakest = o.Entity
		}
		if d := q.Self.Position.DistanceSq(o.Position); d < closest {
			closest = d
			nearest = o.Entity
		}
	}
	if weakest.Valid() {
		return weakest, true
	}
	return nearest, nearest.Valid()
}

// SelectHardTarget counter-focuses: the nearest opponent currently targeting
// the selector's team wins, otherwise the lowest-health opponent.
func SelectHardTarget(q TargetQuery) (ecs.Entity, bool) {
	threat := ecs.NoEntity
	closest := math.MaxFloat64
	weakest := ecs.NoEntity
	lowest := math.MaxFloat64

	for _, o := range q.Opponents {
		if !o.Alive {
			continue
		}
		if o.Health < lowest {
			lowest = o.Health
			weakest = o.Entity
		}
		if o.Target.Valid() && o.TargetTeam == q.Self.Team {
			if d := q.Self.Position.DistanceSq(o.Position); d < closest {
				closest = d
				threat = o.Entity
			}
		}
	}
	if threat.Valid() {
		return threat, true
	}
	return weakest, weakest.Valid()
}

// TargetSelector owns the per-entity cache and re-evaluation timer.
type TargetSelector struct {
	tuning Tuning
}

func NewTargetSelector(tuning Tuning) *TargetSelector {
	return &TargetSelector{tuning: tuning}
}

// cacheValid reports whether a cached target can still be trusted.
func cacheValid(w *ecs.World, snap *Snapshot, target ecs.Entity) bool {
	if !target.Valid() || !w.IsAlive(target) {
		return false
	}
	if v, ok := snap.Lookup(target); ok {
		return v.Alive
	}
	h, ok := ecs.Get(w, target, component.HealthComponent)
	return ok && h.Alive
}

// Update re-evaluates e's target according to its tier and returns the
// current target. The second return is true when the target changed.
func (s *TargetSelector) Update(w *ecs.World, snap *Snapshot, e ecs.Entity, tier component.Tier, dt float64) (ecs.Entity, bool) {
	self, ok := snap.Lookup(e)
	if !ok {
		return ecs.NoEntity, false
	}
	tg, _ := ecs.Get(w, e, component.TargetComponent)
	cached := ecs.Entity(tg.Entity)

	tg.Timer += dt
	if tier != component.TierEasy && tg.Timer < s.tuning.TargetInterval && cacheValid(w, snap, cached) {
		_ = ecs.Add(w, e, component.TargetComponent, tg)
		return cached, false
	}
	tg.Timer = 0

	combatant, _ := ecs.Get(w, e, component.CombatantComponent)
	q := TargetQuery{
		Self:        self,
		Opponents:   snap.Team(self.Team.Opponent()),
		DetectRange: combatant.DetectRange,
	}
	next, found := TargetPolicyFor(tier)(q)
	if !found {
		next = ecs.NoEntity
	}
	changed := next != cached
	tg.Entity = uint64(next)
	if changed {
		tg.FlankSign = 0
	}
	_ = ecs.Add(w, e, component.TargetComponent, tg)
	return next, changed
}
