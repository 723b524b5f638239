package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/config"
)

// BacteriaResult counts the events of one bacteria pass.
type BacteriaResult struct {
	Replications int // successful replication checks
	Suppressed   int // replications dropped at the population cap
	Emissions    int
}

type pendingBacterium struct {
	pos components.Position
	vel components.Velocity
}

type pendingEmission struct {
	pos      components.Position
	sourceID uint64
}

// BacteriaSystem moves, replicates and emits from live bacteria.
type BacteriaSystem struct {
	cfg    *config.Config
	bounds Bounds

	// scratch buffers reused across ticks
	entities []ecs.Entity
	births   []pendingBacterium
	emits    []pendingEmission
}

// NewBacteriaSystem creates a new bacteria system.
func NewBacteriaSystem(cfg *config.Config) *BacteriaSystem {
	return &BacteriaSystem{
		cfg:    cfg,
		bounds: BoundsOf(cfg),
	}
}

// Update runs one bacteria pass. Offspring and toxin are added after the
// pass, so a newborn bacterium first acts on the following tick.
func (s *BacteriaSystem) Update(store *Store, rng *RNG, settings config.Settings) BacteriaResult {
	var res BacteriaResult
	bc := &s.cfg.Bacteria

	replicateP := settings.ReplicationRate * bc.ReplicationChance
	emitP := bc.Emission.For(settings.EndotoxinRelease)
	timerMin, timerMax := float32(bc.TimerMin), float32(bc.TimerMax)
	offset := float32(bc.SpawnOffset)

	s.entities = store.Bacteria(s.entities[:0])
	s.births = s.births[:0]
	s.emits = s.emits[:0]
	population := len(s.entities)

	for _, e := range s.entities {
		// Killed earlier this tick: do nothing.
		if !store.Alive(e) {
			continue
		}
		b := store.Bacterium(e)
		if !b.Alive {
			continue
		}
		pos := store.Position(e)
		vel := store.Velocity(e)

		s.bounds.Integrate(pos, vel)

		b.ReplicationTimer--
		if b.ReplicationTimer <= 0 {
			if rng.Chance(replicateP) {
				if population+len(s.births) < bc.MaxPopulation {
					x, y := s.bounds.Clamp(pos.X+rng.Jitter(2*offset), pos.Y+rng.Jitter(2*offset))
					s.births = append(s.births, pendingBacterium{
						pos: components.Position{X: x, Y: y},
						vel: bacteriumDrift(rng, bc),
					})
					res.Replications++
				} else {
					res.Suppressed++
				}
			}
			b.ReplicationTimer = rng.Range(timerMin, timerMax)
		}

		if rng.Chance(emitP) {
			s.emits = append(s.emits, pendingEmission{pos: *pos, sourceID: store.Particle(e).ID})
			res.Emissions++
		}
	}

	for _, nb := range s.births {
		store.AddBacterium(nb.pos, nb.vel, rng.Range(timerMin, timerMax))
	}
	for _, em := range s.emits {
		store.AddEndotoxin(em.pos, em.sourceID)
	}

	return res
}
