// Package systems contains the particle store, spatial index and the
// per-tick systems of the infection model.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lipidose/components"
)

// Ref identifies a particle both by ECS entity (for component access) and
// by its stable ID (for bookkeeping and rendering).
type Ref struct {
	Entity ecs.Entity
	ID     uint64
}

// Counts holds population totals read from the store.
type Counts struct {
	Bacteria       int // live bacteria
	FreeEndotoxin  int
	BoundEndotoxin int
	WBCs           int
	Therapeutics   int // active therapeutic particles
	TotalEmitted   int // endotoxin created since the last reset
}

// Store owns the four particle populations.
// One archetype per population keeps the filters disjoint.
type Store struct {
	world *ecs.World

	nextID  uint64
	emitted int

	bacteriaMapper    *ecs.Map4[components.Position, components.Velocity, components.Particle, components.Bacterium]
	endotoxinMapper   *ecs.Map4[components.Position, components.Velocity, components.Particle, components.Endotoxin]
	wbcMapper         *ecs.Map4[components.Position, components.Velocity, components.Particle, components.WhiteBloodCell]
	therapeuticMapper *ecs.Map4[components.Position, components.Velocity, components.Particle, components.Therapeutic]

	bacteriaFilter    *ecs.Filter4[components.Position, components.Velocity, components.Particle, components.Bacterium]
	endotoxinFilter   *ecs.Filter4[components.Position, components.Velocity, components.Particle, components.Endotoxin]
	wbcFilter         *ecs.Filter4[components.Position, components.Velocity, components.Particle, components.WhiteBloodCell]
	therapeuticFilter *ecs.Filter4[components.Position, components.Velocity, components.Particle, components.Therapeutic]

	// Individual component mappers for lookups
	posMap         *ecs.Map1[components.Position]
	velMap         *ecs.Map1[components.Velocity]
	particleMap    *ecs.Map1[components.Particle]
	bacteriumMap   *ecs.Map1[components.Bacterium]
	endotoxinMap   *ecs.Map1[components.Endotoxin]
	therapeuticMap *ecs.Map1[components.Therapeutic]
}

// NewStore creates an empty particle store.
func NewStore() *Store {
	s := &Store{nextID: 1}
	s.Reset()
	return s
}

// Reset discards every particle. IDs keep counting from where they were so
// a reference held across a reset can never alias a new particle.
func (s *Store) Reset() {
	world := ecs.NewWorld()

	s.world = world
	s.emitted = 0

	s.bacteriaMapper = ecs.NewMap4[components.Position, components.Velocity, components.Particle, components.Bacterium](world)
	s.endotoxinMapper = ecs.NewMap4[components.Position, components.Velocity, components.Particle, components.Endotoxin](world)
	s.wbcMapper = ecs.NewMap4[components.Position, components.Velocity, components.Particle, components.WhiteBloodCell](world)
	s.therapeuticMapper = ecs.NewMap4[components.Position, components.Velocity, components.Particle, components.Therapeutic](world)

	s.bacteriaFilter = ecs.NewFilter4[components.Position, components.Velocity, components.Particle, components.Bacterium](world)
	s.endotoxinFilter = ecs.NewFilter4[components.Position, components.Velocity, components.Particle, components.Endotoxin](world)
	s.wbcFilter = ecs.NewFilter4[components.Position, components.Velocity, components.Particle, components.WhiteBloodCell](world)
	s.therapeuticFilter = ecs.NewFilter4[components.Position, components.Velocity, components.Particle, components.Therapeutic](world)

	s.posMap = ecs.NewMap1[components.Position](world)
	s.velMap = ecs.NewMap1[components.Velocity](world)
	s.particleMap = ecs.NewMap1[components.Particle](world)
	s.bacteriumMap = ecs.NewMap1[components.Bacterium](world)
	s.endotoxinMap = ecs.NewMap1[components.Endotoxin](world)
	s.therapeuticMap = ecs.NewMap1[components.Therapeutic](world)
}

func (s *Store) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// AddBacterium creates a live bacterium.
func (s *Store) AddBacterium(pos components.Position, vel components.Velocity, timer float32) Ref {
	id := s.allocID()
	part := components.Particle{ID: id, Kind: components.KindBacterium}
	bact := components.Bacterium{Alive: true, ReplicationTimer: max(timer, 0)}
	e := s.bacteriaMapper.NewEntity(&pos, &vel, &part, &bact)
	return Ref{Entity: e, ID: id}
}

// AddWBC creates a white blood cell.
func (s *Store) AddWBC(pos components.Position, vel components.Velocity) Ref {
	id := s.allocID()
	part := components.Particle{ID: id, Kind: components.KindWBC}
	e := s.wbcMapper.NewEntity(&pos, &vel, &part, &components.WhiteBloodCell{})
	return Ref{Entity: e, ID: id}
}

// AddEndotoxin creates a free endotoxin at rest at origin.
func (s *Store) AddEndotoxin(origin components.Position, sourceID uint64) Ref {
	id := s.allocID()
	vel := components.Velocity{}
	part := components.Particle{ID: id, Kind: components.KindEndotoxin}
	tox := components.Endotoxin{SourceID: sourceID}
	e := s.endotoxinMapper.NewEntity(&origin, &vel, &part, &tox)
	s.emitted++
	return Ref{Entity: e, ID: id}
}

// AddTherapeutic creates an active therapeutic particle.
func (s *Store) AddTherapeutic(pos components.Position, vel components.Velocity) Ref {
	id := s.allocID()
	part := components.Particle{ID: id, Kind: components.KindTherapeutic}
	e := s.therapeuticMapper.NewEntity(&pos, &vel, &part, &components.Therapeutic{Active: true})
	return Ref{Entity: e, ID: id}
}

// RemoveBacterium marks a bacterium dead and removes it from the store.
func (s *Store) RemoveBacterium(e ecs.Entity) bool {
	if !s.world.Alive(e) || !s.bacteriumMap.HasAll(e) {
		return false
	}
	s.bacteriumMap.Get(e).Alive = false
	s.world.RemoveEntity(e)
	return true
}

// RemoveTherapeutic consumes a therapeutic particle.
func (s *Store) RemoveTherapeutic(e ecs.Entity) bool {
	if !s.world.Alive(e) || !s.therapeuticMap.HasAll(e) {
		return false
	}
	s.therapeuticMap.Get(e).Active = false
	s.world.RemoveEntity(e)
	return true
}

// Alive reports whether the entity still exists in the store.
func (s *Store) Alive(e ecs.Entity) bool {
	return s.world.Alive(e)
}

// Position returns the position component of a live entity.
func (s *Store) Position(e ecs.Entity) *components.Position { return s.posMap.Get(e) }

// Velocity returns the velocity component of a live entity.
func (s *Store) Velocity(e ecs.Entity) *components.Velocity { return s.velMap.Get(e) }

// Particle returns the identity component of a live entity.
func (s *Store) Particle(e ecs.Entity) *components.Particle { return s.particleMap.Get(e) }

// Bacterium returns the bacterium component of a live bacterium.
func (s *Store) Bacterium(e ecs.Entity) *components.Bacterium { return s.bacteriumMap.Get(e) }

// Endotoxin returns the endotoxin component of a live toxin.
func (s *Store) Endotoxin(e ecs.Entity) *components.Endotoxin { return s.endotoxinMap.Get(e) }

// Therapeutic returns the therapeutic component of a live agent particle.
func (s *Store) Therapeutic(e ecs.Entity) *components.Therapeutic { return s.therapeuticMap.Get(e) }

// Bacteria appends all bacterium entities to dst.
// Callers iterate the returned slice so they may add or remove entities
// while processing, which is not allowed during an open query.
func (s *Store) Bacteria(dst []ecs.Entity) []ecs.Entity {
	query := s.bacteriaFilter.Query()
	for query.Next() {
		dst = append(dst, query.Entity())
	}
	return dst
}

// Endotoxins appends all endotoxin entities to dst.
func (s *Store) Endotoxins(dst []ecs.Entity) []ecs.Entity {
	query := s.endotoxinFilter.Query()
	for query.Next() {
		dst = append(dst, query.Entity())
	}
	return dst
}

// WBCs appends all white blood cell entities to dst.
func (s *Store) WBCs(dst []ecs.Entity) []ecs.Entity {
	query := s.wbcFilter.Query()
	for query.Next() {
		dst = append(dst, query.Entity())
	}
	return dst
}

// Therapeutics appends all therapeutic entities to dst.
func (s *Store) Therapeutics(dst []ecs.Entity) []ecs.Entity {
	query := s.therapeuticFilter.Query()
	for query.Next() {
		dst = append(dst, query.Entity())
	}
	return dst
}

// TotalEmitted returns the number of endotoxins created since the last reset.
func (s *Store) TotalEmitted() int {
	return s.emitted
}

// ActiveTherapeutics counts therapeutic particles that can still bind.
func (s *Store) ActiveTherapeutics() int {
	n := 0
	query := s.therapeuticFilter.Query()
	for query.Next() {
		_, _, _, th := query.Get()
		if th.Active {
			n++
		}
	}
	return n
}

// Counts tallies every population.
func (s *Store) Counts() Counts {
	c := Counts{TotalEmitted: s.emitted}

	bq := s.bacteriaFilter.Query()
	for bq.Next() {
		_, _, _, b := bq.Get()
		if b.Alive {
			c.Bacteria++
		}
	}

	eq := s.endotoxinFilter.Query()
	for eq.Next() {
		_, _, _, tox := eq.Get()
		if tox.Bound {
			c.BoundEndotoxin++
		} else {
			c.FreeEndotoxin++
		}
	}

	wq := s.wbcFilter.Query()
	for wq.Next() {
		c.WBCs++
	}

	tq := s.therapeuticFilter.Query()
	for tq.Next() {
		_, _, _, th := tq.Get()
		if th.Active {
			c.Therapeutics++
		}
	}

	return c
}
