package prefabs

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// CombatantSpec describes a fighter archetype.
type CombatantSpec struct {
	Name          string         `yaml:"name"`
	BaseHealth    float64        `yaml:"base_health"`
	BaseDamage    float64        `yaml:"base_damage"`
	BaseMoveSpeed float64        `yaml:"base_move_speed"`
	AttackRange   float64        `yaml:"attack_range"`
	AttackSpeed   float64        `yaml:"attack_speed"`
	DetectRange   float64        `yaml:"detect_range"`
	Radius        float64        `yaml:"radius"`
	WindUp        *float64       `yaml:"wind_up"`
	Scaling       ScalingSpec    `yaml:"scaling"`
	MaxCombo      map[string]int `yaml:"max_combo"`
	EngageScript  string         `yaml:"engage_script"`
	Regions       []RegionSpec   `yaml:"regions"`
	Attacks       []AttackSpec   `yaml:"attacks"`
}

type ScalingSpec struct {
	Health          float64 `yaml:"health"`
	Damage          float64 `yaml:"damage"`
	MoveSpeed       float64 `yaml:"move_speed"`
	ComboMultiplier float64 `yaml:"combo_multiplier"`
}

type RegionSpec struct {
	Name    string  `yaml:"name"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetZ float64 `yaml:"offset_z"`
	Radius  float64 `yaml:"radius"`
}

type AttackSpec struct {
	HitType  string       `yaml:"hit_type"`
	Duration float64      `yaml:"duration"`
	Windows  []WindowSpec `yaml:"windows"`
}

type WindowSpec struct {
	Region string  `yaml:"region"`
	Delay  float64 `yaml:"delay"`
}

func LoadCombatantSpec(filename string) (*CombatantSpec, error) {
	spec, err := LoadSpec[CombatantSpec](filename)
	if err != nil {
		return nil, err
	}
	if len(spec.Attacks) == 0 {
		return nil, fmt.Errorf("prefabs: %s: no attacks defined", filename)
	}
	return &spec, nil
}

// CombatSpec holds match-wide combat tuning. Zero fields fall back to the
// built-in defaults.
type CombatSpec struct {
	HitActiveDuration   float64            `yaml:"hit_active_duration"`
	MoveInterruptWindow float64            `yaml:"move_interrupt_window"`
	StunDuration        float64            `yaml:"stun_duration"`
	StunChance          map[string]float64 `yaml:"stun_chance"`
	TargetInterval      float64            `yaml:"target_interval"`
	SeparationStrength  float64            `yaml:"separation_strength"`
	AvoidanceRadius     float64            `yaml:"avoidance_radius"`
	OptimalRangeFactor  float64            `yaml:"optimal_range_factor"`
	InnerBandFactor     float64            `yaml:"inner_band_factor"`
	FlankFactor         float64            `yaml:"flank_factor"`
	CrowdLimit          int                `yaml:"crowd_limit"`
	HardAttackerCap     int                `yaml:"hard_attacker_cap"`
	DeathLinger         float64            `yaml:"death_linger"`
	DefaultWindUp       float64            `yaml:"default_wind_up"`
	WindUpTurnRate      float64            `yaml:"wind_up_turn_rate"`
	Arena               ArenaSpec          `yaml:"arena"`
}

// ArenaSpec places the two teams.
type ArenaSpec struct {
	Spacing float64    `yaml:"spacing"`
	TeamA   SpawnPoint `yaml:"team_a"`
	TeamB   SpawnPoint `yaml:"team_b"`
}

type SpawnPoint struct {
	X   float64 `yaml:"x"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

func LoadCombatSpec() (*CombatSpec, error) {
	spec, err := LoadSpec[CombatSpec]("combat.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// LevelSpec is per-level match data.
type LevelSpec struct {
	Level      int           `yaml:"level"`
	Mode       string        `yaml:"mode"`
	TimeLimit  float64       `yaml:"time_limit"`
	AIQuantity int           `yaml:"ai_quantity"`
	Allies     int           `yaml:"allies"`
	Opponents  int           `yaml:"opponents"`
	TierRates  TierRatesSpec `yaml:"tier_rates"`
}

type TierRatesSpec struct {
	Easy   float64 `yaml:"easy"`
	Medium float64 `yaml:"medium"`
	Hard   float64 `yaml:"hard"`
}

type LevelsSpec struct {
	Levels []LevelSpec `yaml:"levels"`
}

func LoadLevelsSpec() (*LevelsSpec, error) {
	spec, err := LoadSpec[LevelsSpec]("levels.yaml")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(spec.Levels, func(i, j int) bool { return spec.Levels[i].Level < spec.Levels[j].Level })
	return &spec, nil
}

// ForLevel returns the entry with the highest Level not above level.
func (s *LevelsSpec) ForLevel(level int) (LevelSpec, bool) {
	if s == nil || len(s.Levels) == 0 {
		return LevelSpec{}, false
	}
	best := s.Levels[0]
	found := false
	for _, l := range s.Levels {
		if l.Level <= level {
			best = l
			found = true
		}
	}
	if !found {
		return s.Levels[0], true
	}
	return best, true
}
