package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasyAIClosesAndDefeatsDummy(t *testing.T) {
	f := newFixture(t, nil)
	ai := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{ai: &component.AI{Tier: component.TierEasy}})
	foe := f.dummy(t, component.TeamB, cp.Vector{Y: 5}, 15)

	for i := 0; i < 200 && healthOf(f.w, foe).Alive; i++ {
		f.step(1)
	}
	require.False(t, healthOf(f.w, foe).Alive)

	tr, _ := ecs.Get(f.w, ai, component.TransformComponent)
	assert.Greater(t, tr.Z, 2.5, "moved into range")
	assert.True(t, f.tick.Eliminated(component.TeamB))
	assert.False(t, f.tick.Eliminated(component.TeamA))

	f.step(20)
	assert.Equal(t, 1, f.rec.count(ecs.EventEntityDefeated))
	assert.Equal(t, 1, f.rec.count(ecs.EventTeamEliminated))
	assert.Equal(t, 1, f.rec.count(ecs.EventEntityReleased))
	assert.False(t, ecs.Has(f.w, foe, component.DeathComponent))

	intent, _ := ecs.Get(f.w, ai, component.IntentComponent)
	assert.Equal(t, cp.Vector{}, intent.Move, "no target, no movement")
}

func TestDeadEntitiesAreSkipped(t *testing.T) {
	f := newFixture(t, nil)
	p := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{player: true})
	f.dummy(t, component.TeamB, cp.Vector{X: 20}, 0)
	TakeDamage(f.w, p, 1000, component.Hit0, nil)

	f.step(3)
	a := attackOf(f.w, p)
	assert.False(t, a.Attacking)
	assert.Equal(t, component.PhaseDead, a.Phase())
	assert.Empty(t, f.tick.Windows().Windows(f.w, p))
}

func TestOrphanWindowsAreSwept(t *testing.T) {
	f := newFixture(t, nil)
	p := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{player: true})
	f.dummy(t, component.TeamB, cp.Vector{X: 20}, 0)

	f.step(1)
	require.Len(t, f.tick.Windows().Windows(f.w, p), 1)

	f.w.DestroyEntity(p)
	f.step(1)
	assert.Empty(t, f.w.Query(component.HitWindowComponent.Kind()))
	assert.Equal(t, f.rec.count(ecs.EventRegionOn), f.rec.count(ecs.EventRegionOff))
}

type stick cp.Vector

func (s *stick) Direction() cp.Vector { return cp.Vector(*s) }

func TestPlayerInputSource(t *testing.T) {
	f := newFixture(t, nil)
	p := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{player: true})
	f.dummy(t, component.TeamB, cp.Vector{X: 20}, 0)

	in := &stick{X: 3}
	f.tick.Player().SetInput(in)
	f.step(2)

	intent, _ := ecs.Get(f.w, p, component.IntentComponent)
	assert.InDelta(t, 1, intent.Move.Length(), 1e-9, "stick input is clamped")
	assert.False(t, attackOf(f.w, p).Attacking)
	tr, _ := ecs.Get(f.w, p, component.TransformComponent)
	assert.InDelta(t, 1, tr.X, 1e-6, "two ticks at move speed 4")

	*in = stick{}
	f.step(1)
	assert.True(t, attackOf(f.w, p).Attacking, "releasing the stick attacks")
}

func TestRootedDuringHitWindows(t *testing.T) {
	f := newFixture(t, nil)
	p := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{player: true})
	f.dummy(t, component.TeamB, cp.Vector{X: 20}, 0)

	f.step(1)
	require.Equal(t, component.PhaseHitWindows, attackOf(f.w, p).Phase())
	require.NoError(t, ecs.Add(f.w, p, component.IntentComponent, component.Intent{Move: cp.Vector{X: 1}}))

	f.tick.physics.Update(f.w)
	tr, _ := ecs.Get(f.w, p, component.TransformComponent)
	assert.Zero(t, tr.X)
}

func TestMediumResetsComboWhenMoving(t *testing.T) {
	f := newFixture(t, nil)
	e := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{ai: &component.AI{Tier: component.TierMedium}})
	f.dummy(t, component.TeamB, cp.Vector{Y: 6}, 0)

	a := attackOf(f.w, e)
	a.Combo = 2
	require.NoError(t, ecs.Add(f.w, e, component.AttackComponent, a))

	f.step(1)
	assert.Equal(t, -1, attackOf(f.w, e).Combo)
	intent, _ := ecs.Get(f.w, e, component.IntentComponent)
	assert.InDelta(t, 1, intent.Move.Y, 1e-9)
}

func TestHardAssignsFlankSign(t *testing.T) {
	f := newFixture(t, fixedRoll(0.2))
	e := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{ai: &component.AI{Tier: component.TierHard}})
	f.dummy(t, component.TeamB, cp.Vector{Y: 6}, 0)

	f.step(1)
	tg, _ := ecs.Get(f.w, e, component.TargetComponent)
	assert.Equal(t, -1.0, tg.FlankSign)

	intent, _ := ecs.Get(f.w, e, component.IntentComponent)
	assert.Greater(t, intent.Move.X, 0.0)
}

func TestStunnedEntityIsFrozen(t *testing.T) {
	f := newFixture(t, nil)
	e := f.spawn(t, component.TeamA, cp.Vector{}, brawler(), spawnOpts{ai: &component.AI{Tier: component.TierEasy}})
	f.dummy(t, component.TeamB, cp.Vector{Y: 6}, 0)
	require.NoError(t, ecs.Add(f.w, e, component.StunComponent, component.Stun{Remaining: 0.25}))

	f.step(1)
	tr, _ := ecs.Get(f.w, e, component.TransformComponent)
	assert.Zero(t, tr.Z)

	f.step(2)
	tr, _ = ecs.Get(f.w, e, component.TransformComponent)
	assert.Greater(t, tr.Z, 0.0)
}
