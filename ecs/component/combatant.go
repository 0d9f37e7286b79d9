package component

import (
	"fmt"
	"strings"

	"github.com/jakecoffman/cp"
)

// Team identifies one side of a match.
type Team int

const (
	TeamA Team = iota
	TeamB
)

func (t Team) String() string {
	if t == TeamB {
		return "team_b"
	}
	return "team_a"
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Tier names an AI difficulty policy.
type Tier int

const (
	TierEasy Tier = iota
	TierMedium
	TierHard
)

func (t Tier) String() string {
	switch t {
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	default:
		return "easy"
	}
}

// ParseTier accepts "easy", "medium" or "hard" (case-insensitive).
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "":
		return TierEasy, nil
	case "medium":
		return TierMedium, nil
	case "hard":
		return TierHard, nil
	}
	return TierEasy, fmt.Errorf("component: unknown tier %q", s)
}

// HitType classifies an attack step; it drives the hit reaction and stun odds.
type HitType int

const (
	Hit0 HitType = iota
	Hit1
	Hit2
	Hit3
	hitTypeCount
)

// HitTypeCount is the number of hit types.
const HitTypeCount = int(hitTypeCount)

func (h HitType) String() string {
	return fmt.Sprintf("Hit%d", int(h))
}

// ParseHitType accepts "hit0".."hit3" or a bare index.
func ParseHitType(s string) (HitType, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "hit")
	for i := 0; i < HitTypeCount; i++ {
		if v == fmt.Sprint(i) {
			return HitType(i), nil
		}
	}
	return Hit0, fmt.Errorf("component: unknown hit type %q", s)
}

// HitRegion is a damage circle relative to its owner, in the owner's local
// frame (X right, Y forward).
type HitRegion struct {
	Name   string
	Offset cp.Vector
	Radius float64
}

// HitWindowDef schedules one region inside an attack step.
type HitWindowDef struct {
	Region string
	Delay  float64
}

// AttackDefinition is one combo step.
type AttackDefinition struct {
	HitType  HitType
	Duration float64
	Windows  []HitWindowDef
}

// Combatant holds static and derived stats for an arena fighter.
type Combatant struct {
	Name   string
	Team   Team
	Level  int
	Player bool

	BaseHealth    float64
	BaseDamage    float64
	BaseMoveSpeed float64
	AttackRange   float64
	AttackSpeed   float64
	DetectRange   float64
	Radius        float64

	HealthScale     float64
	DamageScale     float64
	MoveSpeedScale  float64
	ComboMultiplier float64

	// MoveSpeed is derived once at Init from BaseMoveSpeed and level.
	MoveSpeed float64

	Attacks  []AttackDefinition
	Regions  map[string]HitRegion
	MaxCombo int
	WindUp   float64
}

// ComboSteps returns how many steps a combo may chain before wrapping.
func (c Combatant) ComboSteps() int {
	n := len(c.Attacks)
	if c.MaxCombo > 0 && c.MaxCombo < n {
		n = c.MaxCombo
	}
	return n
}

var CombatantComponent = NewComponent[Combatant]()
