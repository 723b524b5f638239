package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/config"
)

// TherapeuticResult counts the events of one therapeutic pass.
type TherapeuticResult struct {
	Spawned int
	Bound   int // endotoxins neutralized
	Missed  int // contacts that failed the efficiency trial
}

// TherapeuticSystem doses lipidose particles through the catheter, steers
// them toward free endotoxin and resolves binding.
type TherapeuticSystem struct {
	cfg        *config.Config
	bounds     Bounds
	speed      float32
	drift      float32
	seekRadius float32
	bindRadius float32

	entities []ecs.Entity
}

// NewTherapeuticSystem creates a new therapeutic system.
func NewTherapeuticSystem(cfg *config.Config) *TherapeuticSystem {
	tc := &cfg.Therapeutic
	return &TherapeuticSystem{
		cfg:        cfg,
		bounds:     BoundsOf(cfg),
		speed:      float32(tc.Speed),
		drift:      float32(tc.Drift),
		seekRadius: float32(tc.SeekRadius),
		bindRadius: float32(tc.BindRadius),
	}
}

// TargetPopulation returns the steady-state particle count for a dose.
func (s *TherapeuticSystem) TargetPopulation(c config.Concentration) int {
	if c == config.ConcentrationHigh {
		return s.cfg.Therapeutic.TargetHigh
	}
	return s.cfg.Therapeutic.TargetTherapeutic
}

// Update runs one therapeutic pass. Callers skip it while the drug is off,
// which leaves any remaining particles where they are.
func (s *TherapeuticSystem) Update(store *Store, index *SpatialIndex, rng *RNG, settings config.Settings) TherapeuticResult {
	var res TherapeuticResult

	res.Spawned = s.dose(store, rng, settings)

	freeToxin := func(e ecs.Entity) bool { return !store.Endotoxin(e).Bound }
	bindSq := s.bindRadius * s.bindRadius

	s.entities = store.Therapeutics(s.entities[:0])

	for _, e := range s.entities {
		th := store.Therapeutic(e)
		if !th.Active {
			continue
		}
		pos := store.Position(e)
		vel := store.Velocity(e)

		target, ok := index.Nearest(components.KindEndotoxin, pos.X, pos.Y, s.seekRadius, freeToxin)
		if ok {
			steer(vel, target.DX, target.DY, s.speed)
		}

		s.bounds.Integrate(pos, vel)

		if !ok {
			continue
		}
		tpos := store.Position(target.E)
		if distanceSq(pos.X, pos.Y, tpos.X, tpos.Y) > bindSq {
			continue
		}
		if !rng.Chance(settings.LipidoseEfficiency) {
			res.Missed++
			continue
		}

		tox := store.Endotoxin(target.E)
		tox.Bound = true
		tox.BoundBy = store.Particle(e).ID
		tvel := store.Velocity(target.E)
		tvel.X, tvel.Y = 0, 0

		store.RemoveTherapeutic(e)
		res.Bound++
	}

	return res
}

// dose infuses new particles near the injection point, at most
// spawn_per_tick at a time, until the active population reaches its target.
func (s *TherapeuticSystem) dose(store *Store, rng *RNG, settings config.Settings) int {
	active := store.ActiveTherapeutics()
	n := min(s.TargetPopulation(settings.LipidoseConcentration)-active, s.cfg.Therapeutic.SpawnPerTick)
	if n <= 0 {
		return 0
	}

	cat := &s.cfg.Catheter
	spread := float32(cat.InjectionSpread)
	for i := 0; i < n; i++ {
		x, y := s.bounds.Clamp(
			float32(cat.InjectionX)+rng.Jitter(spread),
			float32(cat.InjectionY)+rng.Jitter(spread),
		)
		// Carried downstream with the infusion.
		vel := components.Velocity{
			X: rng.Range(0.5, 1) * s.drift,
			Y: rng.Jitter(s.drift),
		}
		store.AddTherapeutic(components.Position{X: x, Y: y}, vel)
	}
	return n
}
