package systems

import (
	"testing"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/config"
)

// testWorld bundles a store and index over the embedded default config.
type testWorld struct {
	cfg   *config.Config
	store *Store
	index *SpatialIndex
	rng   *RNG
}

func newTestWorld(t *testing.T, seed int64) *testWorld {
	t.Helper()
	cfg := config.Default()
	store := NewStore()
	return &testWorld{
		cfg:   cfg,
		store: store,
		index: NewSpatialIndex(store, cfg.Derived.WorldW32, cfg.Derived.WorldH32, cfg.Derived.CellSize32),
		rng:   NewRNG(seed),
	}
}

func pos(x, y float32) components.Position { return components.Position{X: x, Y: y} }

func vel(x, y float32) components.Velocity { return components.Velocity{X: x, Y: y} }
