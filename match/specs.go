package match

import (
	"fmt"
	"math"

	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/prefabs"
)

// Specs bundles the prefab data a match is built from.
type Specs struct {
	Player *prefabs.CombatantSpec
	TeamA  *prefabs.CombatantSpec
	TeamB  *prefabs.CombatantSpec
	Combat *prefabs.CombatSpec
	Levels *prefabs.LevelsSpec
}

// LoadSpecs reads every prefab a match needs.
func LoadSpecs() (*Specs, error) {
	var s Specs
	var err error
	if s.Player, err = prefabs.LoadCombatantSpec("player.yaml"); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	if s.TeamA, err = prefabs.LoadCombatantSpec("ai_team_a.yaml"); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	if s.TeamB, err = prefabs.LoadCombatantSpec("ai_team_b.yaml"); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	if s.Combat, err = prefabs.LoadCombatSpec(); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	if s.Levels, err = prefabs.LoadLevelsSpec(); err != nil {
		return nil, fmt.Errorf("match: %w", err)
	}
	return &s, nil
}

// TuningFrom overlays the non-zero fields of spec on the default tuning.
func TuningFrom(spec *prefabs.CombatSpec) system.Tuning {
	t := system.DefaultTuning()
	if spec == nil {
		return t
	}
	setFloat(&t.HitActiveDuration, spec.HitActiveDuration)
	setFloat(&t.MoveInterruptWindow, spec.MoveInterruptWindow)
	setFloat(&t.StunDuration, spec.StunDuration)
	setFloat(&t.TargetInterval, spec.TargetInterval)
	setFloat(&t.SeparationStrength, spec.SeparationStrength)
	setFloat(&t.AvoidanceRadius, spec.AvoidanceRadius)
	setFloat(&t.OptimalRangeFactor, spec.OptimalRangeFactor)
	setFloat(&t.InnerBandFactor, spec.InnerBandFactor)
	setFloat(&t.FlankFactor, spec.FlankFactor)
	setFloat(&t.DeathLinger, spec.DeathLinger)
	setFloat(&t.DefaultWindUp, spec.DefaultWindUp)
	setFloat(&t.WindUpTurnRate, spec.WindUpTurnRate)
	if spec.CrowdLimit > 0 {
		t.CrowdLimit = spec.CrowdLimit
	}
	if spec.HardAttackerCap > 0 {
		t.HardAttackerCap = spec.HardAttackerCap
	}
	for name, chance := range spec.StunChance {
		ht, err := component.ParseHitType(name)
		if err != nil {
			continue
		}
		t.StunChance[ht] = chance
	}
	return t
}

func setFloat(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

func arenaOf(spec *prefabs.CombatSpec) prefabs.ArenaSpec {
	a := prefabs.ArenaSpec{
		Spacing: 2,
		TeamA:   prefabs.SpawnPoint{Z: -6},
		TeamB:   prefabs.SpawnPoint{Z: 6, Yaw: math.Pi},
	}
	if spec == nil {
		return a
	}
	if spec.Arena.Spacing > 0 {
		a.Spacing = spec.Arena.Spacing
	}
	if spec.Arena.TeamA != (prefabs.SpawnPoint{}) || spec.Arena.TeamB != (prefabs.SpawnPoint{}) {
		a.TeamA, a.TeamB = spec.Arena.TeamA, spec.Arena.TeamB
	}
	return a
}
