package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"go.uber.org/zap"
)

// Options wires a CombatTickSystem.
type Options struct {
	Tuning  Tuning
	Rosters Rosters
	Physics *ecs.PhysicsWorld
	Rand    Roller
	Scripts *EngageScripts
	Input   InputSource
	Sink    SignalSink
	Logger  *zap.Logger
}

// CombatTickSystem advances every combatant once per world step. Order
// within a tick: roster snapshot, per-entity update (stun, controller,
// attack sequencer, own hit windows), physics, hit detection, damage,
// death linger, elimination check, signals.
type CombatTickSystem struct {
	tuning  Tuning
	rosters Rosters
	log     *zap.Logger

	windows   *HitWindowScheduler
	sequencer *AttackSequencer
	resolver  *DamageResolver
	ai        *AIController
	player    *PlayerController
	physics   *PhysicsSystem

	post    *ecs.Scheduler
	signals *SignalSystem

	snap       *Snapshot
	eliminated map[component.Team]bool
}

func NewCombatTickSystem(opts Options) *CombatTickSystem {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Rosters == nil {
		opts.Rosters = &Roster{}
	}
	if opts.Scripts == nil {
		opts.Scripts = NewEngageScripts()
	}

	windows := NewHitWindowScheduler(opts.Tuning, log)
	sequencer := NewAttackSequencer(opts.Tuning, windows, log)
	physics := NewPhysicsSystem(opts.Physics, opts.Rosters)
	resolver := NewDamageResolver(opts.Tuning, sequencer, physics.World(), opts.Rand, log)

	s := &CombatTickSystem{
		tuning:     opts.Tuning,
		rosters:    opts.Rosters,
		log:        log,
		windows:    windows,
		sequencer:  sequencer,
		resolver:   resolver,
		ai:         NewAIController(opts.Tuning, sequencer, opts.Scripts, opts.Rand, log),
		player:     NewPlayerController(opts.Tuning, sequencer, opts.Input),
		physics:    physics,
		signals:    NewSignalSystem(opts.Sink),
		eliminated: map[component.Team]bool{},
	}
	s.post = ecs.NewScheduler(
		physics,
		NewCombatSystem(opts.Rosters),
		NewDamageSystem(resolver, opts.Rosters, log),
		NewDeathSystem(),
	)
	return s
}

func (s *CombatTickSystem) Sequencer() *AttackSequencer { return s.sequencer }
func (s *CombatTickSystem) Resolver() *DamageResolver { return s.resolver }
func (s *CombatTickSystem) Physics() *ecs.PhysicsWorld { return s.physics.World() }
func (s *CombatTickSystem) Player() *PlayerController { return s.player }
func (s *CombatTickSystem) Windows() *HitWindowScheduler { return s.windows }
func (s *CombatTickSystem) Snapshot() *Snapshot { return s.snap }
func (s *CombatTickSystem) Eliminated(t component.Team) bool { return s.eliminated[t] }

func (s *CombatTickSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}
	dt := w.Delta()
	s.snap = TakeSnapshot(w, s.rosters)

	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		for _, v := range s.snap.Team(team) {
			if v.Alive {
				s.UpdateCombatEntity(w, v.Entity, dt)
			}
		}
	}
	s.sweepOrphanWindows(w)

	s.post.Update(w)
	s.checkElimination(w)
	s.signals.Update(w)
}

// UpdateCombatEntity advances one living entity by dt: stun timer, then
// its controller, attack sequencer and hit windows.
func (s *CombatTickSystem) UpdateCombatEntity(w *ecs.World, e ecs.Entity, dt float64) {
	h, ok := ecs.Get(w, e, component.HealthComponent)
	if !ok || !h.Alive {
		return
	}
	if s.snap == nil {
		s.snap = TakeSnapshot(w, s.rosters)
	}

	if st, ok := ecs.Get(w, e, component.StunComponent); ok {
		st.Remaining -= dt
		if st.Remaining > 0 {
			_ = ecs.Add(w, e, component.StunComponent, st)
			setIntent(w, e, cp.Vector{})
			return
		}
		ecs.Remove(w, e, component.StunComponent)
		if a, ok := ecs.Get(w, e, component.AttackComponent); ok {
			fire(&a, evRecover)
			_ = ecs.Add(w, e, component.AttackComponent, a)
		}
	}

	manual := false
	switch {
	case ecs.Has(w, e, component.AIComponent):
		s.ai.Update(w, s.snap, e, dt)
	case ecs.Has(w, e, component.PlayerTagComponent):
		manual = true
		s.player.Update(w, e)
	}

	// Letting go of the stick mid combo window chains the next step now.
	if s.sequencer.Advance(w, e, s.snap, dt) && manual {
		s.player.Update(w, e)
		s.sequencer.Advance(w, e, s.snap, dt)
	}
	s.windows.Advance(w, e, dt)
}

// sweepOrphanWindows closes windows whose owner is gone or no longer
// entitled to them; live owners are handled by their own update.
func (s *CombatTickSystem) sweepOrphanWindows(w *ecs.World) {
	for _, win := range w.Query(component.HitWindowComponent.Kind()) {
		hw, _ := ecs.Get(w, win, component.HitWindowComponent)
		if !windowCurrent(w, hw) {
			s.windows.close(w, win, hw)
		}
	}
}

func (s *CombatTickSystem) checkElimination(w *ecs.World) {
	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		members := s.rosters.Members(team)
		if s.eliminated[team] || len(members) == 0 {
			continue
		}
		alive := false
		for _, e := range members {
			if h, ok := ecs.Get(w, e, component.HealthComponent); ok && h.Alive {
				alive = true
				break
			}
		}
		if alive {
			continue
		}
		s.eliminated[team] = true
		w.Events().Emit(ecs.EventTeamEliminated, component.TeamEliminated{Team: team})
		s.log.Info("team eliminated", zap.Stringer("team", team))
	}
}
