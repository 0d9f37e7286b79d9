package entity

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/prefabs"
)

var ErrNoSpec = errors.New("entity: nil combatant spec")

// Params selects how a combatant is (re)initialised.
type Params struct {
	Level     int
	Team      component.Team
	Tier      component.Tier
	Player    bool
	Autopilot bool
	Position  cp.Vector
	Yaw       float64
	// DefaultWindUp applies to AI combatants whose spec leaves wind_up unset.
	DefaultWindUp float64
}

// BuildCombatant converts a prefab spec into combatant stats for level.
func BuildCombatant(spec *prefabs.CombatantSpec, p Params) (component.Combatant, error) {
	if spec == nil {
		return component.Combatant{}, ErrNoSpec
	}
	c := component.Combatant{
		Name:            spec.Name,
		Team:            p.Team,
		Level:           p.Level,
		Player:          p.Player,
		BaseHealth:      spec.BaseHealth,
		BaseDamage:      spec.BaseDamage,
		BaseMoveSpeed:   spec.BaseMoveSpeed,
		AttackRange:     spec.AttackRange,
		AttackSpeed:     spec.AttackSpeed,
		DetectRange:     spec.DetectRange,
		Radius:          spec.Radius,
		HealthScale:     spec.Scaling.Health,
		DamageScale:     spec.Scaling.Damage,
		MoveSpeedScale:  spec.Scaling.MoveSpeed,
		ComboMultiplier: spec.Scaling.ComboMultiplier,
		Regions:         make(map[string]component.HitRegion, len(spec.Regions)),
	}
	c.MoveSpeed = c.BaseMoveSpeed * (1 + float64(c.Level)*c.MoveSpeedScale)

	for _, r := range spec.Regions {
		c.Regions[r.Name] = component.HitRegion{
			Name:   r.Name,
			Offset: cp.Vector{X: r.OffsetX, Y: r.OffsetZ},
			Radius: r.Radius,
		}
	}
	for i, a := range spec.Attacks {
		hitType, err := component.ParseHitType(a.HitType)
		if err != nil {
			return component.Combatant{}, fmt.Errorf("entity: %s attack %d: %w", spec.Name, i, err)
		}
		def := component.AttackDefinition{HitType: hitType, Duration: a.Duration}
		for _, w := range a.Windows {
			def.Windows = append(def.Windows, component.HitWindowDef{Region: w.Region, Delay: w.Delay})
		}
		c.Attacks = append(c.Attacks, def)
	}

	switch {
	case p.Player && !p.Autopilot:
		c.MaxCombo = len(c.Attacks)
	case spec.MaxCombo != nil && spec.MaxCombo[p.Tier.String()] > 0:
		c.MaxCombo = spec.MaxCombo[p.Tier.String()]
	default:
		c.MaxCombo = int(p.Tier) + 1
	}

	switch {
	case spec.WindUp != nil:
		c.WindUp = *spec.WindUp
	case !p.Player || p.Autopilot:
		c.WindUp = p.DefaultWindUp
	}
	return c, nil
}

type initStep struct {
	name string
	fn   func(w *ecs.World, physics *ecs.PhysicsWorld, e ecs.Entity, c component.Combatant, spec *prefabs.CombatantSpec, p Params) error
}

var initOrder = []initStep{
	{"combatant", initCombatant},
	{"health", initHealth},
	{"transform", initTransform},
	{"attack", initAttack},
	{"control", initControl},
	{"physics_body", initBody},
	{"transient", clearTransient},
}

// Init builds or resets e as a combatant. It is also the pool's reset path:
// every piece of per-match state is overwritten.
func Init(w *ecs.World, physics *ecs.PhysicsWorld, e ecs.Entity, spec *prefabs.CombatantSpec, p Params) error {
	if !w.IsAlive(e) {
		return component.ErrEntityNotAlive
	}
	c, err := BuildCombatant(spec, p)
	if err != nil {
		return err
	}
	for _, step := range initOrder {
		if err := step.fn(w, physics, e, c, spec, p); err != nil {
			return fmt.Errorf("entity: init %s: %w", step.name, err)
		}
	}
	return nil
}

// NewCombatant creates a fresh entity and initialises it.
func NewCombatant(w *ecs.World, physics *ecs.PhysicsWorld, spec *prefabs.CombatantSpec, p Params) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := Init(w, physics, e, spec, p); err != nil {
		w.DestroyEntity(e)
		return ecs.NoEntity, err
	}
	return e, nil
}

func initCombatant(w *ecs.World, _ *ecs.PhysicsWorld, e ecs.Entity, c component.Combatant, _ *prefabs.CombatantSpec, _ Params) error {
	return ecs.Add(w, e, component.CombatantComponent, c)
}

func initHealth(w *ecs.World, _ *ecs.PhysicsWorld, e ecs.Entity, c component.Combatant, _ *prefabs.CombatantSpec, _ Params) error {
	maxHealth := c.BaseHealth * (1 + float64(c.Level)*c.HealthScale)
	return ecs.Add(w, e, component.HealthComponent, component.Health{Current: maxHealth, Max: maxHealth, Alive: true})
}

func initTransform(w *ecs.World, _ *ecs.PhysicsWorld, e ecs.Entity, _ component.Combatant, _ *prefabs.CombatantSpec, p Params) error {
	return ecs.Add(w, e, component.TransformComponent, component.Transform{X: p.Position.X, Z: p.Position.Y, Yaw: p.Yaw})
}

func initAttack(w *ecs.World, _ *ecs.PhysicsWorld, e ecs.Entity, _ component.Combatant, _ *prefabs.CombatantSpec, _ Params) error {
	// keep the generation monotonic across pool reuse
	var gen uint64
	if prev, ok := ecs.Get(w, e, component.AttackComponent); ok {
		gen = prev.Generation + 1
	}
	return ecs.Add(w, e, component.AttackComponent, component.Attack{
		Combo:      -1,
		Generation: gen,
		AnimSpeed:  1,
		Machine:    system.NewAttackMachine(),
	})
}

func initControl(w *ecs.World, _ *ecs.PhysicsWorld, e ecs.Entity, _ component.Combatant, spec *prefabs.CombatantSpec, p Params) error {
	ecs.Remove(w, e, component.PlayerTagComponent)
	ecs.Remove(w, e, component.AIComponent)
	ecs.Remove(w, e, component.PlayerInputComponent)
	if p.Player {
		if err := ecs.Add(w, e, component.PlayerTagComponent, component.PlayerTag{}); err != nil {
			return err
		}
		if err := ecs.Add(w, e, component.PlayerInputComponent, component.PlayerInput{}); err != nil {
			return err
		}
		if !p.Autopilot {
			return nil
		}
	}
	tier := p.Tier
	script := spec.EngageScript
	if p.Player {
		tier = component.TierHard
		script = ""
	}
	return ecs.Add(w, e, component.AIComponent, component.AI{Tier: tier, EngageScript: script})
}

func initBody(w *ecs.World, physics *ecs.PhysicsWorld, e ecs.Entity, c component.Combatant, _ *prefabs.CombatantSpec, p Params) error {
	if physics == nil {
		return ecs.Add(w, e, component.PhysicsBodyComponent, component.PhysicsBody{Radius: c.Radius})
	}
	body := physics.EnsureBody(e, p.Position, c.Radius)
	if body == nil {
		return fmt.Errorf("no body for %s", e)
	}
	body.SetPosition(p.Position)
	body.SetVelocityVector(cp.Vector{})
	return ecs.Add(w, e, component.PhysicsBodyComponent, component.PhysicsBody{Body: body, Radius: c.Radius})
}

func clearTransient(w *ecs.World, _ *ecs.PhysicsWorld, e ecs.Entity, _ component.Combatant, _ *prefabs.CombatantSpec, _ Params) error {
	ecs.Remove(w, e, component.StunComponent)
	ecs.Remove(w, e, component.DeathComponent)
	if err := ecs.Add(w, e, component.TargetComponent, component.Target{}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.IntentComponent, component.Intent{}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.HitQueueComponent, component.HitQueue{})
}
