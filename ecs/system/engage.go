package system

import "github.com/milk9111/arena/ecs/component"

// Decision is an engage gate outcome.
type Decision int

const (
	DecisionMove Decision = iota
	DecisionAttack
	DecisionHold
)

func (d Decision) String() string {
	switch d {
	case DecisionAttack:
		return "attack"
	case DecisionHold:
		return "hold"
	default:
		return "move"
	}
}

// ParseDecision maps a script result to a Decision.
func ParseDecision(s string) (Decision, bool) {
	switch s {
	case "attack":
		return DecisionAttack, true
	case "move":
		return DecisionMove, true
	case "hold":
		return DecisionHold, true
	}
	return DecisionMove, false
}

// EngageQuery describes the tactical situation of one AI entity.
type EngageQuery struct {
	Distance     float64
	AttackRange  float64
	Health       float64
	MaxHealth    float64
	TargetHealth float64
	// OpponentsNear counts living opponents within twice the attack range.
	OpponentsNear int
	// AllyOnTarget is true when another living teammate has the same target.
	AllyOnTarget bool
	TeamAlive    int
	// TargetEngaging is true when the target is targeting our team.
	TargetEngaging bool
	// AlliesAttacking counts teammates attacking the same target.
	AlliesAttacking int
}

// EngageResult is the gate decision plus whether the combo should reset.
type EngageResult struct {
	Decision   Decision
	ResetCombo bool
}

type engageGate func(t Tuning, q EngageQuery) EngageResult

var engageGates = map[component.Tier]engageGate{
	component.TierEasy:   easyGate,
	component.TierMedium: mediumGate,
	component.TierHard:   hardGate,
}

func easyGate(_ Tuning, q EngageQuery) EngageResult {
	if q.Distance <= q.AttackRange {
		return EngageResult{Decision: DecisionAttack}
	}
	return EngageResult{Decision: DecisionMove}
}

func mediumGate(t Tuning, q EngageQuery) EngageResult {
	optimal := q.AttackRange * t.OptimalRangeFactor
	if q.Distance >= optimal*t.InnerBandFactor && q.Distance <= optimal && q.OpponentsNear <= t.CrowdLimit {
		return EngageResult{Decision: DecisionAttack}
	}
	return EngageResult{Decision: DecisionMove, ResetCombo: true}
}

func hardGate(t Tuning, q EngageQuery) EngageResult {
	inBand := q.Distance >= q.AttackRange*t.InnerBandFactor && q.Distance <= q.AttackRange
	backed := q.AllyOnTarget || q.TeamAlive == 1 || q.TargetEngaging
	if inBand && backed && q.AlliesAttacking < t.HardAttackerCap {
		return EngageResult{Decision: DecisionAttack}
	}
	return EngageResult{Decision: DecisionMove}
}

// Engage runs the gate for tier.
func Engage(t Tuning, tier component.Tier, q EngageQuery) EngageResult {
	g, ok := engageGates[tier]
	if !ok {
		g = easyGate
	}
	return g(t, q)
}
