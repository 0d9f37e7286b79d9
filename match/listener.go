package match

import (
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
)

// Listener observes match lifecycle. Callbacks run at the end of the tick
// that produced them.
type Listener interface {
	OnEntityDefeated(e ecs.Entity, team component.Team)
	OnEntityReleased(e ecs.Entity, team component.Team)
	OnTeamEliminated(team component.Team)
}

// ListenerFuncs adapts optional functions to Listener.
type ListenerFuncs struct {
	Defeated   func(e ecs.Entity, team component.Team)
	Released   func(e ecs.Entity, team component.Team)
	Eliminated func(team component.Team)
}

func (l ListenerFuncs) OnEntityDefeated(e ecs.Entity, team component.Team) {
	if l.Defeated != nil {
		l.Defeated(e, team)
	}
}

func (l ListenerFuncs) OnEntityReleased(e ecs.Entity, team component.Team) {
	if l.Released != nil {
		l.Released(e, team)
	}
}

func (l ListenerFuncs) OnTeamEliminated(team component.Team) {
	if l.Eliminated != nil {
		l.Eliminated(team)
	}
}
