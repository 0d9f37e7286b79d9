package match

import (
	"context"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

type fixedRoll float64

func (r fixedRoll) Float64() float64 { return float64(r) }

func loadSpecs(t *testing.T) *Specs {
	t.Helper()
	specs, err := LoadSpecs()
	require.NoError(t, err)
	return specs
}

func TestVFormation(t *testing.T) {
	got := VFormation(cp.Vector{}, 5, 2, cp.Vector{Y: 1})
	want := []cp.Vector{{X: 0, Y: 0}, {X: 2, Y: -2}, {X: -2, Y: -2}, {X: 4, Y: -4}, {X: -4, Y: -4}}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9, "x of %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9, "y of %d", i)
	}

	back := VFormation(cp.Vector{Y: 6}, 2, 2, cp.Vector{Y: -1})
	assert.InDelta(t, 8, back[1].Y, 1e-9, "rows extend behind a team facing -Z")
	assert.Empty(t, VFormation(cp.Vector{}, 0, 2, cp.Vector{Y: 1}))
}

func TestTeamSizes(t *testing.T) {
	tests := []struct {
		mode      Mode
		level     int
		data      prefabs.LevelSpec
		allies    int
		opponents int
	}{
		{OneVsOne, 5, prefabs.LevelSpec{}, 0, 1},
		{OneVsMany, 1, prefabs.LevelSpec{}, 0, 2},
		{OneVsMany, 4, prefabs.LevelSpec{}, 0, 3},
		{OneVsMany, 10, prefabs.LevelSpec{}, 0, 5},
		{OneVsMany, 1, prefabs.LevelSpec{AIQuantity: 7}, 0, 7},
		{ManyVsMany, 1, prefabs.LevelSpec{}, 1, 2},
		{ManyVsMany, 5, prefabs.LevelSpec{}, 2, 3},
		{ManyVsMany, 9, prefabs.LevelSpec{}, 3, 4},
		{ManyVsMany, 9, prefabs.LevelSpec{Allies: 1, Opponents: 4}, 1, 4},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			allies, opponents := TeamSizes(tt.mode, tt.level, tt.data)
			assert.Equal(t, tt.allies, allies)
			assert.Equal(t, tt.opponents, opponents)
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{OneVsOne, OneVsMany, ManyVsMany} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("battle_royale")
	assert.Error(t, err)
}

func TestRollTier(t *testing.T) {
	rates := prefabs.TierRatesSpec{Easy: 0.2, Medium: 0.6, Hard: 0.2}
	assert.Equal(t, component.TierEasy, RollTier(rates, fixedRoll(0.1)))
	assert.Equal(t, component.TierMedium, RollTier(rates, fixedRoll(0.5)))
	assert.Equal(t, component.TierHard, RollTier(rates, fixedRoll(0.9)))
	assert.Equal(t, component.TierMedium, RollTier(prefabs.TierRatesSpec{Medium: 1}, fixedRoll(0.99)))
	assert.Equal(t, component.TierEasy, RollTier(prefabs.TierRatesSpec{}, fixedRoll(0.5)))
}

func TestTuningFrom(t *testing.T) {
	assert.Equal(t, system.DefaultTuning(), TuningFrom(nil))

	tuning := TuningFrom(&prefabs.CombatSpec{
		StunDuration: 1.5,
		CrowdLimit:   4,
		StunChance:   map[string]float64{"hit2": 0.9, "kick": 1},
	})
	assert.Equal(t, 1.5, tuning.StunDuration)
	assert.Equal(t, 4, tuning.CrowdLimit)
	assert.Equal(t, 0.9, tuning.StunChanceFor(component.Hit2))
	assert.Equal(t, 0.05, tuning.StunChanceFor(component.Hit0))
	assert.Equal(t, system.DefaultTuning().TargetInterval, tuning.TargetInterval)
}

func TestNewSpawnsModes(t *testing.T) {
	specs := loadSpecs(t)
	tests := []struct {
		mode  Mode
		level int
		a, b  int
	}{
		{OneVsOne, 1, 1, 1},
		{OneVsMany, 4, 1, 3},
		{ManyVsMany, 5, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			m, err := New(Options{Mode: tt.mode, Level: tt.level, Seed: 1, Specs: specs})
			require.NoError(t, err)

			assert.Len(t, m.Roster().TeamA, tt.a)
			assert.Len(t, m.Roster().TeamB, tt.b)
			assert.Equal(t, tt.a+tt.b, m.Pool().Live())
			assert.Equal(t, tt.a+tt.b, m.Physics().Len())
			assert.Equal(t, m.Roster().TeamA[0], m.Player())
			assert.True(t, ecs.Has(m.World(), m.Player(), component.PlayerTagComponent))

			seen := map[cp.Vector]bool{}
			for _, team := range []component.Team{component.TeamA, component.TeamB} {
				for _, e := range m.Roster().Members(team) {
					tr, ok := ecs.Get(m.World(), e, component.TransformComponent)
					require.True(t, ok)
					pos := cp.Vector{X: tr.X, Y: tr.Z}
					assert.False(t, seen[pos], "spawn points are distinct")
					seen[pos] = true

					c, _ := ecs.Get(m.World(), e, component.CombatantComponent)
					assert.Equal(t, team, c.Team)
				}
			}
		})
	}
}

func TestNewRequiresSpecs(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrNoSpecs)
}

func TestMatchRunsToCompletion(t *testing.T) {
	specs := loadSpecs(t)

	var defeated, eliminated int
	var victory, die int
	m, err := New(Options{
		Mode:      OneVsMany,
		Level:     3,
		Autopilot: true,
		Seed:      7,
		Specs:     specs,
		Listeners: []Listener{ListenerFuncs{
			Defeated:   func(ecs.Entity, component.Team) { defeated++ },
			Eliminated: func(component.Team) { eliminated++ },
		}},
		Presenters: []system.SignalSink{system.SignalFunc(func(evt ecs.Event) {
			if a, ok := evt.Data.(component.AnimationSignal); ok {
				switch a.Name {
				case "Victory":
					victory++
				case "Die":
					die++
				}
			}
		})},
	})
	require.NoError(t, err)

	res, err := m.Run(context.Background(), dt, 60*200)
	require.NoError(t, err)
	assert.True(t, m.Over())
	assert.False(t, m.Step(dt), "a finished match does not advance")
	assert.Equal(t, res.Ticks, m.World().Tick())

	total := res.Defeated[component.TeamA] + res.Defeated[component.TeamB]
	assert.Equal(t, total, defeated)
	if res.Draw {
		assert.Zero(t, victory)
		return
	}
	assert.Equal(t, 1, eliminated)
	assert.Zero(t, res.Alive[res.Winner.Opponent()])
	assert.Equal(t, res.Alive[res.Winner], victory)
	assert.Positive(t, die)

	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		for _, e := range m.Roster().Members(team) {
			a, _ := ecs.Get(m.World(), e, component.AttackComponent)
			assert.False(t, a.Attacking, "game over stops every attack")
		}
	}
}

func TestMatchIsDeterministicPerSeed(t *testing.T) {
	specs := loadSpecs(t)
	run := func() Result {
		m, err := New(Options{Mode: ManyVsMany, Level: 6, Autopilot: true, Seed: 99, Specs: specs})
		require.NoError(t, err)
		res, err := m.Run(context.Background(), dt, 60*200)
		require.NoError(t, err)
		return res
	}
	first, second := run(), run()
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Ticks, second.Ticks)
	assert.Equal(t, first.Winner, second.Winner)
	assert.Equal(t, first.Draw, second.Draw)
	assert.Equal(t, first.Defeated, second.Defeated)
}

func TestTimeLimitIsADraw(t *testing.T) {
	specs := loadSpecs(t)
	specs.Levels = &prefabs.LevelsSpec{Levels: []prefabs.LevelSpec{{Level: 1, TimeLimit: 0.5}}}

	m, err := New(Options{Mode: OneVsOne, Level: 1, Autopilot: true, Seed: 3, Specs: specs})
	require.NoError(t, err)
	res, err := m.Run(context.Background(), dt, 0)
	require.NoError(t, err)

	assert.True(t, res.Draw)
	assert.InDelta(t, 0.5, res.Elapsed, dt)
}

func TestRunHonoursContext(t *testing.T) {
	m, err := New(Options{Mode: OneVsOne, Level: 1, Seed: 3, Specs: loadSpecs(t)})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Run(ctx, dt, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, m.Over())
}

func TestReleasedEntitiesLeaveRosterAndWorld(t *testing.T) {
	specs := loadSpecs(t)
	m, err := New(Options{Mode: OneVsMany, Level: 1, Seed: 5, Specs: specs})
	require.NoError(t, err)

	victim := m.Roster().TeamB[0]
	system.TakeDamage(m.World(), victim, 1e6, component.Hit0, nil)
	for i := 0; i < 90; i++ {
		m.Step(dt)
	}

	assert.False(t, m.World().IsAlive(victim))
	assert.NotContains(t, m.Roster().TeamB, victim)
	_, ok := m.Physics().Body(victim)
	assert.False(t, ok)
	assert.Equal(t, 1, m.Result().Defeated[component.TeamB])
	assert.False(t, m.Over(), "one opponent is still standing")
}

func TestGameOverClosesLiveWindows(t *testing.T) {
	var on, off int
	m, err := New(Options{
		Mode:      OneVsOne,
		Level:     1,
		Autopilot: true,
		Seed:      11,
		Specs:     loadSpecs(t),
		Presenters: []system.SignalSink{system.SignalFunc(func(evt ecs.Event) {
			switch evt.Type {
			case ecs.EventRegionOn:
				on++
			case ecs.EventRegionOff:
				off++
			}
		})},
	})
	require.NoError(t, err)

	windows := func() (total, live int) {
		ecs.ForEach(m.World(), component.HitWindowComponent, func(_ ecs.Entity, hw *component.HitWindow) {
			total++
			if hw.Live {
				live++
			}
		})
		return total, live
	}
	for i := 0; i < 60*30; i++ {
		if _, live := windows(); live > 0 {
			break
		}
		require.True(t, m.Step(dt), "match ended before anyone swung")
	}
	_, live := windows()
	require.Positive(t, live)
	require.Equal(t, live, on-off)

	m.HandleSignal(ecs.Event{Type: ecs.EventTeamEliminated, Data: component.TeamEliminated{Team: component.TeamB}})
	require.True(t, m.Over())
	assert.Equal(t, on, off, "every open region is closed exactly once")
	total, _ := windows()
	assert.Zero(t, total)

	m.Step(dt)
	assert.Equal(t, on, off)
}
