package ecs

// entityStore tracks entity generations and free ids. Slot 0 is reserved so
// the zero Entity is never alive.
type entityStore struct {
	gen   []generation
	alive []bool
	free  []entityID
	count int
}

func (s *entityStore) create() Entity {
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		if len(s.gen) == 0 {
			s.gen = append(s.gen, 0)
			s.alive = append(s.alive, false)
		}
		id = entityID(len(s.gen))
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
	}
	s.alive[id] = true
	s.count++
	return makeEntity(id, s.gen[id])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	id := e.id()
	s.alive[id] = false
	s.gen[id]++
	s.free = append(s.free, id)
	s.count--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	id := e.id()
	if id == 0 || int(id) >= len(s.gen) {
		return false
	}
	return s.alive[id] && s.gen[id] == e.generation()
}

// handle returns the live handle currently occupying id.
func (s *entityStore) handle(id entityID) (Entity, bool) {
	if id == 0 || int(id) >= len(s.gen) || !s.alive[id] {
		return NoEntity, false
	}
	return makeEntity(id, s.gen[id]), true
}

func (s *entityStore) all() []Entity {
	out := make([]Entity, 0, s.count)
	for i := 1; i < len(s.gen); i++ {
		if s.alive[i] {
			out = append(out, makeEntity(entityID(i), s.gen[i]))
		}
	}
	return out
}
