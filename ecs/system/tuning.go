package system

import "github.com/milk9111/arena/ecs/component"

// Tuning holds the combat constants shared by every combatant in a match.
type Tuning struct {
	HitActiveDuration   float64
	MoveInterruptWindow float64
	StunDuration        float64
	StunChance          [component.HitTypeCount]float64
	TargetInterval      float64
	SeparationStrength  float64
	AvoidanceRadius     float64
	OptimalRangeFactor  float64
	InnerBandFactor     float64
	FlankFactor         float64
	CrowdLimit          int
	HardAttackerCap     int
	DeathLinger         float64
	DefaultWindUp       float64
	WindUpTurnRate      float64
	MoveEpsilon         float64
}

// DefaultTuning returns the stock arena tuning.
func DefaultTuning() Tuning {
	return Tuning{
		HitActiveDuration:   0.5,
		MoveInterruptWindow: 0.5,
		StunDuration:        0.5,
		StunChance:          [component.HitTypeCount]float64{0.05, 0.10, 0.20, 0.30},
		TargetInterval:      0.5,
		SeparationStrength:  0.5,
		AvoidanceRadius:     0.2,
		OptimalRangeFactor:  0.9,
		InnerBandFactor:     0.7,
		FlankFactor:         0.5,
		CrowdLimit:          2,
		HardAttackerCap:     5,
		DeathLinger:         1.0,
		DefaultWindUp:       0.2,
		WindUpTurnRate:      15,
		MoveEpsilon:         0.01,
	}
}

// StunChanceFor returns the stun probability for hitType.
func (t Tuning) StunChanceFor(hitType component.HitType) float64 {
	if hitType < 0 || int(hitType) >= len(t.StunChance) {
		return 0
	}
	return t.StunChance[hitType]
}
