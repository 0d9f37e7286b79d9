package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/stretchr/testify/require"
)

const testDt = 0.125

type fixedRoll float64

func (r fixedRoll) Float64() float64 { return float64(r) }

type recorder struct {
	events []ecs.Event
}

func (r *recorder) HandleSignal(evt ecs.Event) { r.events = append(r.events, evt) }

func (r *recorder) count(typ string) int {
	n := 0
	for _, evt := range r.events {
		if evt.Type == typ {
			n++
		}
	}
	return n
}

type fixture struct {
	w      *ecs.World
	roster *Roster
	tick   *CombatTickSystem
	rec    *recorder
}

func newFixture(t *testing.T, rng Roller) *fixture {
	t.Helper()
	f := &fixture{w: ecs.NewWorld(), roster: &Roster{}, rec: &recorder{}}
	f.tick = NewCombatTickSystem(Options{
		Tuning:  DefaultTuning(),
		Rosters: f.roster,
		Rand:    rng,
		Sink:    f.rec,
	})
	f.w.AddSystem(f.tick)
	return f
}

func (f *fixture) step(n int) {
	for i := 0; i < n; i++ {
		f.w.Step(testDt)
	}
}

// brawler has four one-window steps; the fist reaches 0.8 ahead.
func brawler() component.Combatant {
	c := component.Combatant{
		Name:            "brawler",
		BaseHealth:      100,
		BaseDamage:      10,
		AttackRange:     2,
		AttackSpeed:     1,
		DetectRange:     10,
		Radius:          0.5,
		ComboMultiplier: 0.2,
		MoveSpeed:       4,
		Regions: map[string]component.HitRegion{
			"fist": {Name: "fist", Offset: cp.Vector{Y: 0.8}, Radius: 1},
		},
	}
	for i := 0; i < 4; i++ {
		c.Attacks = append(c.Attacks, component.AttackDefinition{
			HitType:  component.HitType(i),
			Duration: 2,
			Windows:  []component.HitWindowDef{{Region: "fist", Delay: 0.125}},
		})
	}
	return c
}

type spawnOpts struct {
	player bool
	ai     *component.AI
	health float64
}

func (f *fixture) spawn(t *testing.T, team component.Team, pos cp.Vector, c component.Combatant, o spawnOpts) ecs.Entity {
	t.Helper()
	w := f.w
	e := w.CreateEntity()
	c.Team = team
	health := o.health
	if health == 0 {
		health = c.BaseHealth
	}

	require.NoError(t, ecs.Add(w, e, component.CombatantComponent, c))
	require.NoError(t, ecs.Add(w, e, component.HealthComponent, component.Health{Current: health, Max: c.BaseHealth, Alive: true}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent, component.Transform{X: pos.X, Z: pos.Y}))
	require.NoError(t, ecs.Add(w, e, component.AttackComponent, component.Attack{Combo: -1, AnimSpeed: 1, Machine: NewAttackMachine()}))
	require.NoError(t, ecs.Add(w, e, component.TargetComponent, component.Target{}))
	require.NoError(t, ecs.Add(w, e, component.IntentComponent, component.Intent{}))
	require.NoError(t, ecs.Add(w, e, component.HitQueueComponent, component.HitQueue{}))
	body := f.tick.Physics().EnsureBody(e, pos, c.Radius)
	require.NoError(t, ecs.Add(w, e, component.PhysicsBodyComponent, component.PhysicsBody{Body: body, Radius: c.Radius}))
	if o.player {
		require.NoError(t, ecs.Add(w, e, component.PlayerTagComponent, component.PlayerTag{}))
		require.NoError(t, ecs.Add(w, e, component.PlayerInputComponent, component.PlayerInput{}))
	}
	if o.ai != nil {
		require.NoError(t, ecs.Add(w, e, component.AIComponent, *o.ai))
	}
	f.roster.Add(team, e)
	return e
}

// dummy is a combatant with no controller.
func (f *fixture) dummy(t *testing.T, team component.Team, pos cp.Vector, health float64) ecs.Entity {
	return f.spawn(t, team, pos, brawler(), spawnOpts{health: health})
}

func attackOf(w *ecs.World, e ecs.Entity) component.Attack {
	a, _ := ecs.Get(w, e, component.AttackComponent)
	return a
}

func healthOf(w *ecs.World, e ecs.Entity) component.Health {
	h, _ := ecs.Get(w, e, component.HealthComponent)
	return h
}

func setStick(t *testing.T, w *ecs.World, e ecs.Entity, move cp.Vector) {
	t.Helper()
	require.NoError(t, ecs.Add(w, e, component.PlayerInputComponent, component.PlayerInput{Move: move}))
}
