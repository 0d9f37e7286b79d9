package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs/component"
)

// Avoidance returns the separation push away from neighbors closer than
// radius: strength * sum(normalize(pos-n) / |pos-n|).
func Avoidance(pos cp.Vector, neighbors []cp.Vector, radius, strength float64) cp.Vector {
	var out cp.Vector
	r2 := radius * radius
	for _, n := range neighbors {
		away := pos.Sub(n)
		d2 := away.LengthSq()
		if d2 <= 1e-12 || d2 >= r2 {
			continue
		}
		out = out.Add(away.Normalize().Mult(1 / math.Sqrt(d2)))
	}
	return out.Mult(strength)
}

// MovementQuery is the input to a movement policy.
type MovementQuery struct {
	Position    cp.Vector
	Target      cp.Vector
	AttackRange float64
	FlankSign   float64
	Neighbors   []cp.Vector
}

type movementPolicy func(t Tuning, q MovementQuery) cp.Vector

var movementPolicies = map[component.Tier]movementPolicy{
	component.TierEasy:   easyDirection,
	component.TierMedium: mediumDirection,
	component.TierHard:   hardDirection,
}

func easyDirection(_ Tuning, q MovementQuery) cp.Vector {
	return common.SafeNormalize(q.Target.Sub(q.Position))
}

// mediumDirection closes to the optimal band and backs off when too close.
func mediumDirection(t Tuning, q MovementQuery) cp.Vector {
	toTarget := q.Target.Sub(q.Position)
	dist := toTarget.Length()
	optimal := q.AttackRange * t.OptimalRangeFactor
	switch {
	case dist > optimal:
		return common.SafeNormalize(toTarget)
	case dist < optimal*t.InnerBandFactor:
		return common.SafeNormalize(toTarget.Neg())
	}
	return cp.Vector{}
}

// hardDirection approaches with a sideways flank component, backing off
// instead once inside the inner edge of the attack band.
func hardDirection(t Tuning, q MovementQuery) cp.Vector {
	toTarget := q.Target.Sub(q.Position)
	flank := common.SafeNormalize(toTarget.Perp()).Mult(q.FlankSign * t.FlankFactor)
	heading := common.SafeNormalize(toTarget)
	if toTarget.Length() < q.AttackRange*t.InnerBandFactor {
		heading = heading.Neg()
	}
	return common.SafeNormalize(heading.Add(flank))
}

// MoveDirection combines the tier policy with neighbor avoidance and returns
// a unit vector (or zero).
func MoveDirection(t Tuning, tier component.Tier, q MovementQuery) cp.Vector {
	p, ok := movementPolicies[tier]
	if !ok {
		p = easyDirection
	}
	base := p(t, q)
	avoid := Avoidance(q.Position, q.Neighbors, t.AvoidanceRadius, t.SeparationStrength)
	return common.SafeNormalize(base.Add(avoid))
}
