package systems

import (
	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/config"
)

// Populate fills an empty store with the initial colony on the catheter tip
// and a uniformly scattered WBC population.
func Populate(store *Store, rng *RNG, cfg *config.Config, settings config.Settings) {
	bounds := BoundsOf(cfg)
	bc := &cfg.Bacteria

	for i := 0; i < settings.BacterialLoad; i++ {
		x, y := bounds.Clamp(
			float32(cfg.Catheter.X)+rng.Jitter(float32(cfg.Catheter.SpreadX)),
			float32(cfg.Catheter.Y)+rng.Jitter(float32(cfg.Catheter.SpreadY)),
		)
		timer := rng.Range(0, float32(bc.InitialTimerMax))
		store.AddBacterium(components.Position{X: x, Y: y}, bacteriumDrift(rng, bc), timer)
	}

	drift := float32(cfg.Immune.Drift)
	for i := 0; i < settings.WBCCount; i++ {
		pos := components.Position{
			X: rng.Float32() * bounds.Width,
			Y: rng.Float32() * bounds.Height,
		}
		vel := components.Velocity{X: rng.Jitter(drift), Y: rng.Jitter(drift)}
		store.AddWBC(pos, vel)
	}
}

// BoundsOf returns the world bounds of a config.
func BoundsOf(cfg *config.Config) Bounds {
	return Bounds{Width: cfg.Derived.WorldW32, Height: cfg.Derived.WorldH32}
}

// bacteriumDrift draws the fixed downstream velocity of a new bacterium.
func bacteriumDrift(rng *RNG, bc *config.BacteriaConfig) components.Velocity {
	return components.Velocity{
		X: rng.Range(float32(bc.DriftMinVX), float32(bc.DriftMaxVX)),
		Y: rng.Jitter(float32(bc.DriftVY)),
	}
}
