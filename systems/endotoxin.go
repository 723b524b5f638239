package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lipidose/config"
)

// EndotoxinSystem diffuses free toxin and keeps bound toxin anchored.
type EndotoxinSystem struct {
	bounds    Bounds
	diffusion float32
	maxSpeed  float32

	entities []ecs.Entity
}

// NewEndotoxinSystem creates a new endotoxin system.
func NewEndotoxinSystem(cfg *config.Config) *EndotoxinSystem {
	return &EndotoxinSystem{
		bounds:    BoundsOf(cfg),
		diffusion: float32(cfg.Endotoxin.Diffusion),
		maxSpeed:  float32(cfg.Endotoxin.MaxSpeed),
	}
}

// Update random-walks every free endotoxin. Positions never leave the bounds.
func (s *EndotoxinSystem) Update(store *Store, rng *RNG) {
	s.entities = store.Endotoxins(s.entities[:0])

	for _, e := range s.entities {
		tox := store.Endotoxin(e)
		vel := store.Velocity(e)
		if tox.Bound {
			vel.X, vel.Y = 0, 0
			continue
		}

		vel.X += rng.Jitter(s.diffusion)
		vel.Y += rng.Jitter(s.diffusion)
		limitSpeed(vel, s.maxSpeed)

		s.bounds.Integrate(store.Position(e), vel)
	}
}
