package match

import (
	"github.com/milk9111/arena/ecs"
	"github.com/milk9111/arena/ecs/component"
	"github.com/milk9111/arena/ecs/system"
	"go.uber.org/zap"
)

// Pool hands out combatant entities and takes them back. Released entities
// are destroyed so their handles go stale; the world recycles the slots.
type Pool struct {
	w       *ecs.World
	physics *ecs.PhysicsWorld
	roster  *system.Roster
	log     *zap.Logger

	live     map[ecs.Entity]component.Team
	acquired int
	released int
}

func NewPool(w *ecs.World, physics *ecs.PhysicsWorld, roster *system.Roster, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{
		w:       w,
		physics: physics,
		roster:  roster,
		log:     log,
		live:    map[ecs.Entity]component.Team{},
	}
}

// Acquire creates an entity and enrols it in team's roster.
func (p *Pool) Acquire(team component.Team) ecs.Entity {
	e := p.w.CreateEntity()
	p.live[e] = team
	p.roster.Add(team, e)
	p.acquired++
	return e
}

// Release removes e from its roster, the physics space and the world.
func (p *Pool) Release(e ecs.Entity) bool {
	team, ok := p.live[e]
	if !ok {
		return false
	}
	delete(p.live, e)
	p.roster.Remove(e)
	p.physics.RemoveBody(e)
	p.w.DestroyEntity(e)
	p.released++
	p.log.Debug("released", zap.Stringer("entity", e), zap.Stringer("team", team))
	return true
}

// Clear releases every live entity.
func (p *Pool) Clear() {
	for e := range p.live {
		p.Release(e)
	}
}

// Live returns the number of entities currently handed out.
func (p *Pool) Live() int { return len(p.live) }

// Stats returns lifetime acquire/release counts.
func (p *Pool) Stats() (acquired, released int) { return p.acquired, p.released }
