package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/config"
)

// ImmuneResult counts the events of one immune pass.
type ImmuneResult struct {
	Engulfed int // bacteria destroyed
	Missed   int // contacts that failed the effectiveness trial
}

// ImmuneSystem steers white blood cells toward bacteria and resolves
// phagocytosis on contact.
type ImmuneSystem struct {
	bounds        Bounds
	speed         float32
	seekRadius    float32
	engulfRadius  float32
	seekEndotoxin bool

	entities []ecs.Entity
}

// NewImmuneSystem creates a new immune system.
func NewImmuneSystem(cfg *config.Config) *ImmuneSystem {
	ic := &cfg.Immune
	return &ImmuneSystem{
		bounds:        BoundsOf(cfg),
		speed:         float32(ic.Speed),
		seekRadius:    float32(ic.SeekRadius),
		engulfRadius:  float32(ic.EngulfRadius),
		seekEndotoxin: ic.SeekEndotoxin,
	}
}

// Update runs one immune pass. The index must have been rebuilt this tick.
// Engulfed bacteria leave the store immediately.
func (s *ImmuneSystem) Update(store *Store, index *SpatialIndex, rng *RNG, settings config.Settings) ImmuneResult {
	var res ImmuneResult

	liveBacterium := func(e ecs.Entity) bool { return store.Bacterium(e).Alive }
	freeToxin := func(e ecs.Entity) bool { return !store.Endotoxin(e).Bound }
	engulfSq := s.engulfRadius * s.engulfRadius

	s.entities = store.WBCs(s.entities[:0])

	for _, e := range s.entities {
		pos := store.Position(e)
		vel := store.Velocity(e)

		target, ok := index.Nearest(components.KindBacterium, pos.X, pos.Y, s.seekRadius, liveBacterium)
		if ok {
			steer(vel, target.DX, target.DY, s.speed)
		} else if s.seekEndotoxin {
			// Secondary target: head for free toxin, which marks where bacteria have been.
			if tox, found := index.Nearest(components.KindEndotoxin, pos.X, pos.Y, s.seekRadius, freeToxin); found {
				steer(vel, tox.DX, tox.DY, s.speed)
			}
		}

		s.bounds.Integrate(pos, vel)

		if !ok {
			continue
		}
		tpos := store.Position(target.E)
		if distanceSq(pos.X, pos.Y, tpos.X, tpos.Y) > engulfSq {
			continue
		}
		if rng.Chance(settings.WBCEffectiveness) {
			store.RemoveBacterium(target.E)
			res.Engulfed++
		} else {
			res.Missed++
		}
	}

	return res
}
