package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/arena/common"
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// Rosters exposes team membership. Implementations are owned by the match
// orchestrator; the combat systems only read them.
type Rosters interface {
	Members(team component.Team) []ecs.Entity
}

// Roster is a plain two-team roster.
type Roster struct {
	TeamA []ecs.Entity
	TeamB []ecs.Entity
}

func (r *Roster) Members(team component.Team) []ecs.Entity {
	if r == nil {
		return nil
	}
	if team == component.TeamB {
		return r.TeamB
	}
	return r.TeamA
}

// Add appends e to team.
func (r *Roster) Add(team component.Team, e ecs.Entity) {
	if team == component.TeamB {
		r.TeamB = append(r.TeamB, e)
		return
	}
	r.TeamA = append(r.TeamA, e)
}

// Remove drops e from whichever team holds it, keeping order.
func (r *Roster) Remove(e ecs.Entity) bool {
	for _, list := range []*[]ecs.Entity{&r.TeamA, &r.TeamB} {
		for i, m := range *list {
			if m == e {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return true
			}
		}
	}
	return false
}

// CombatantView is a read-only view of one roster member taken at the start of a
// tick.
type CombatantView struct {
	Entity    ecs.Entity
	Team      component.Team
	Position  cp.Vector
	Health    float64
	Alive     bool
	Attacking bool
	Target    ecs.Entity
	// TargetTeam is only meaningful when Target is valid.
	TargetTeam component.Team
}

// Snapshot is the per-tick roster view shared by every entity update.
type Snapshot struct {
	TeamA []CombatantView
	TeamB []CombatantView
	index map[ecs.Entity]int
}

// TakeSnapshot reads every roster member, TeamA first, in roster order.
func TakeSnapshot(w *ecs.World, rosters Rosters) *Snapshot {
	s := &Snapshot{index: map[ecs.Entity]int{}}
	if rosters == nil {
		return s
	}
	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		for _, e := range rosters.Members(team) {
			v, ok := viewOf(w, e, team)
			if !ok {
				continue
			}
			list := s.team(team)
			s.index[e] = len(*list)
			*list = append(*list, v)
		}
	}
	// resolve target teams after all views exist
	for _, list := range []*[]CombatantView{&s.TeamA, &s.TeamB} {
		for i := range *list {
			v := &(*list)[i]
			if t, ok := s.Lookup(v.Target); ok {
				v.TargetTeam = t.Team
			} else {
				v.Target = ecs.NoEntity
			}
		}
	}
	return s
}

func viewOf(w *ecs.World, e ecs.Entity, team component.Team) (CombatantView, bool) {
	if !w.IsAlive(e) {
		return CombatantView{}, false
	}
	v := CombatantView{Entity: e, Team: team}
	if tr, ok := ecs.Get(w, e, component.TransformComponent); ok {
		v.Position = common.Planar(tr.X, tr.Z)
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent); ok {
		v.Health = h.Current
		v.Alive = h.Alive
	}
	if a, ok := ecs.Get(w, e, component.AttackComponent); ok {
		v.Attacking = a.Attacking
	}
	if tg, ok := ecs.Get(w, e, component.TargetComponent); ok {
		v.Target = ecs.Entity(tg.Entity)
	}
	return v, true
}

func (s *Snapshot) team(team component.Team) *[]CombatantView {
	if team == component.TeamB {
		return &s.TeamB
	}
	return &s.TeamA
}

// Team returns the views of team in roster order.
func (s *Snapshot) Team(team component.Team) []CombatantView {
	if s == nil {
		return nil
	}
	return *s.team(team)
}

// Lookup finds the view of e.
func (s *Snapshot) Lookup(e ecs.Entity) (CombatantView, bool) {
	if s == nil || !e.Valid() {
		return CombatantView{}, false
	}
	for _, team := range []component.Team{component.TeamA, component.TeamB} {
		list := s.Team(team)
		if i, ok := s.index[e]; ok && i < len(list) && list[i].Entity == e {
			return list[i], true
		}
	}
	return CombatantView{}, false
}

// AliveCount returns the number of living members of team.
func (s *Snapshot) AliveCount(team component.Team) int {
	n := 0
	for _, v := range s.Team(team) {
		if v.Alive {
			n++
		}
	}
	return n
}
