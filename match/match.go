package match

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/entity"
	"github.com/milk9111/arena/ecs/system"
	"github.com/milk9111/arena/prefabs"
	"go.uber.org/zap"
)

var ErrNoSpecs = errors.New("match: no specs")

// Options configures a match.
type Options struct {
	Mode      Mode
	Level     int
	Autopilot bool
	Seed      int64
	Specs     *Specs
	Input     system.InputSource
	Scripts   *system.EngageScripts
	Logger    *zap.Logger

	Listeners  []Listener
	Presenters []system.SignalSink
}

// Result summarises a finished match.
type Result struct {
	ID       uuid.UUID
	Mode     Mode
	Level    int
	Winner   component.Team
	Draw     bool
	Ticks    uint64
	Elapsed  float64
	Defeated map[component.Team]int
	Alive    map[component.Team]int
}

func (r Result) String() string {
	outcome := fmt.Sprintf("%s wins", r.Winner)
	if r.Draw {
		outcome = "draw"
	}
	return fmt.Sprintf("match %s %s level %d: %s after %.1fs (%d ticks)", r.ID, r.Mode, r.Level, outcome, r.Elapsed, r.Ticks)
}

// Match owns one arena: the world, its rosters and the combat tick. It is
// not safe for concurrent use; run separate matches in separate goroutines.
type Match struct {
	id      uuid.UUID
	opts    Options
	log     *zap.Logger
	rng     *rand.Rand
	tuning  system.Tuning
	level   prefabs.LevelSpec
	arena   prefabs.ArenaSpec
	w       *ecs.World
	physics *ecs.PhysicsWorld
	roster  *system.Roster
	tick    *system.CombatTickSystem
	pool    *Pool
	player  ecs.Entity

	over   bool
	result Result
}

func New(opts Options) (*Match, error) {
	if opts.Specs == nil {
		return nil, ErrNoSpecs
	}
	if opts.Level < 1 {
		opts.Level = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	id := uuid.New()
	m := &Match{
		id:      id,
		opts:    opts,
		log:     opts.Logger.With(zap.String("match", id.String())),
		rng:     rand.New(rand.NewSource(opts.Seed)),
		tuning:  TuningFrom(opts.Specs.Combat),
		arena:   arenaOf(opts.Specs.Combat),
		w:       ecs.NewWorld(),
		physics: ecs.NewPhysicsWorld(),
		roster:  &system.Roster{},
	}
	m.level, _ = opts.Specs.Levels.ForLevel(opts.Level)
	m.tick = system.NewCombatTickSystem(system.Options{
		Tuning:  m.tuning,
		Rosters: m.roster,
		Physics: m.physics,
		Rand:    m.rng,
		Scripts: opts.Scripts,
		Input:   opts.Input,
		Sink:    m,
		Logger:  m.log,
	})
	m.w.AddSystem(m.tick)
	m.pool = NewPool(m.w, m.physics, m.roster, m.log)
	m.result = Result{
		ID:       id,
		Mode:     opts.Mode,
		Level:    opts.Level,
		Defeated: map[component.Team]int{},
		Alive:    map[component.Team]int{},
	}

	if err := m.setup(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Match) setup() error {
	specs := m.opts.Specs
	if specs.Player == nil || specs.TeamA == nil || specs.TeamB == nil {
		return ErrNoSpecs
	}

	a, b := m.arena.TeamA, m.arena.TeamB
	player, err := m.spawn(specs.Player, component.TeamA, entity.Params{
		Level:     0,
		Player:    true,
		Autopilot: m.opts.Autopilot,
		Position:  common.Planar(a.X, a.Z),
		Yaw:       a.Yaw,
	})
	if err != nil {
		return err
	}
	m.player = player

	allies, opponents := TeamSizes(m.opts.Mode, m.opts.Level, m.level)
	if allies > 0 {
		// slot 0 of the ally V is the player's
		spots := VFormation(common.Planar(a.X, a.Z), allies+1, m.arena.Spacing, common.Forward(a.Yaw))[1:]
		for _, pos := range spots {
			if _, err := m.spawnAI(specs.TeamA, component.TeamA, pos, a.Yaw); err != nil {
				return err
			}
		}
	}
	spots := VFormation(common.Planar(b.X, b.Z), opponents, m.arena.Spacing, common.Forward(b.Yaw))
	for _, pos := range spots {
		if _, err := m.spawnAI(specs.TeamB, component.TeamB, pos, b.Yaw); err != nil {
			return err
		}
	}

	m.log.Info("match setup",
		zap.Stringer("mode", m.opts.Mode),
		zap.Int("level", m.opts.Level),
		zap.Int("team_a", len(m.roster.TeamA)),
		zap.Int("team_b", len(m.roster.TeamB)),
	)
	return nil
}

func (m *Match) spawnAI(spec *prefabs.CombatantSpec, team component.Team, pos cp.Vector, yaw float64) (ecs.Entity, error) {
	return m.spawn(spec, team, entity.Params{
		Level:    m.opts.Level,
		Tier:     RollTier(m.level.TierRates, m.rng),
		Position: pos,
		Yaw:      yaw,
	})
}

func (m *Match) spawn(spec *prefabs.CombatantSpec, team component.Team, p entity.Params) (ecs.Entity, error) {
	p.Team = team
	p.DefaultWindUp = m.tuning.DefaultWindUp
	e := m.pool.Acquire(team)
	if err := entity.Init(m.w, m.physics, e, spec, p); err != nil {
		m.pool.Release(e)
		return ecs.NoEntity, fmt.Errorf("match: spawn %s: %w", spec.Name, err)
	}
	m.log.Debug("spawned",
		zap.Stringer("entity", e),
		zap.Stringer("team", team),
		zap.Stringer("tier", p.Tier),
		zap.Bool("player", p.Player),
	)
	return e, nil
}

func (m *Match) ID() uuid.UUID { return m.id }
func (m *Match) World() *ecs.World { return m.w }
func (m *Match) Physics() *ecs.PhysicsWorld { return m.physics }
func (m *Match) Roster() *system.Roster { return m.roster }
func (m *Match) Tick() *system.CombatTickSystem { return m.tick }
func (m *Match) Pool() *Pool { return m.pool }
func (m *Match) Player() ecs.Entity { return m.player }
func (m *Match) Tuning() system.Tuning { return m.tuning }
func (m *Match) Over() bool { return m.over }
func (m *Match) Result() Result { return m.result }

// Step advances the match by dt. It returns false once the match is over.
func (m *Match) Step(dt float64) bool {
	if m.over {
		return false
	}
	m.w.Step(dt)
	if !m.over && m.level.TimeLimit > 0 && m.w.Elapsed() >= m.level.TimeLimit {
		m.log.Info("time limit reached", zap.Float64("limit", m.level.TimeLimit))
		m.finish(component.TeamA, true)
	}
	return !m.over
}

// Run steps the match until it ends, maxTicks elapse (a draw) or ctx is
// cancelled.
func (m *Match) Run(ctx context.Context, dt float64, maxTicks int) (Result, error) {
	for i := 0; maxTicks <= 0 || i < maxTicks; i++ {
		if err := ctx.Err(); err != nil {
			return m.result, err
		}
		if !m.Step(dt) {
			return m.result, nil
		}
	}
	if !m.over {
		m.log.Info("tick limit reached", zap.Int("max_ticks", maxTicks))
		m.finish(component.TeamA, true)
	}
	return m.result, nil
}

// HandleSignal routes lifecycle events to the match and listeners, then
// forwards every event to the presenters.
func (m *Match) HandleSignal(evt ecs.Event) {
	switch d := evt.Data.(type) {
	case component.EntityDefeated:
		m.result.Defeated[d.Team]++
		for _, l := range m.opts.Listeners {
			l.OnEntityDefeated(ecs.Entity(d.Entity), d.Team)
		}
	case component.EntityReleased:
		m.pool.Release(ecs.Entity(d.Entity))
		for _, l := range m.opts.Listeners {
			l.OnEntityReleased(ecs.Entity(d.Entity), d.Team)
		}
	case component.TeamEliminated:
		for _, l := range m.opts.Listeners {
			l.OnTeamEliminated(d.Team)
		}
		if !m.over {
			winner := d.Team.Opponent()
			m.finish(winner, m.aliveCount(winner) == 0)
		}
	}
	m.present(evt)
}

func (m *Match) present(evt ecs.Event) {
	for _, p := range m.opts.Presenters {
		p.HandleSignal(evt)
	}
}

func (m *Match) aliveCount(team component.Team) int {
	n := 0
	for _, e := range m.roster.Members(team) {
		if h, ok := ecs.Get(m.w, e, component.HealthComponent); ok && h.Alive {
			n++
		}
	}
	return n
}

// finish stops every combatant. Living members of the winning team play
// Victory, living losers Die; a draw plays neither.
func (m *Match) finish(winner component.Team, draw bool) {
	m.over = true
	seq := m.tick.Sequencer()
	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		for _, e := range m.roster.Members(team) {
			seq.ResetAttack(m.w, e)
			_ = ecs.Add(m.w, e, component.IntentComponent, component.Intent{})
			if pb, ok := ecs.Get(m.w, e, component.PhysicsBodyComponent); ok && pb.Body != nil {
				pb.Body.SetVelocityVector(cp.Vector{})
			}
			if h, ok := ecs.Get(m.w, e, component.HealthComponent); draw || !ok || !h.Alive {
				continue
			}
			anim := "Die"
			if team == winner {
				anim = "Victory"
			}
			m.present(ecs.Event{Type: ecs.EventAnimation, Data: component.AnimationSignal{Entity: uint64(e), Name: anim}})
		}
	}
	// ResetAttack queues speed signals into the world; hand them over now
	// since no further step will drain them.
	for _, evt := range m.w.Events().Drain() {
		m.present(evt)
	}

	m.result.Winner = winner
	m.result.Draw = draw
	m.result.Ticks = m.w.Tick()
	m.result.Elapsed = m.w.Elapsed()
	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		m.result.Alive[team] = m.aliveCount(team)
	}

	fields := []zap.Field{
		zap.Bool("draw", draw),
		zap.Uint64("ticks", m.result.Ticks),
		zap.Float64("elapsed", m.result.Elapsed),
	}
	if !draw {
		fields = append(fields, zap.Stringer("winner", winner))
	}
	m.log.Info("match over", fields...)
}
