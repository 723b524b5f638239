package game

import (
	"log/slog"

	"github.com/pthm-cable/lipidose/systems"
	"github.com/pthm-cable/lipidose/telemetry"
)

// reset discards every particle and places the initial populations.
// The RNG is reseeded, so resetting twice with the same settings yields
// the same particle layout. Callers hold g.mu.
func (g *Game) reset() {
	g.store.Reset()
	g.rng = systems.NewRNG(g.seed)
	systems.Populate(g.store, g.rng, g.cfg, g.settings)

	g.tick = 0
	g.collector.Reset(0)
	g.bookmarkDetector.Reset()

	stats := telemetry.ComputeStats(g.store.Counts(), g.cfg, g.settings, 0)
	g.publish(stats)

	slog.Info("reset",
		"seed", g.seed,
		"bacteria", stats.BacterialCount,
		"wbc", stats.WBCCount,
	)
}

// publish makes a copy of the store visible to consumers.
func (g *Game) publish(stats telemetry.Stats) {
	g.frame.Store(&Frame{
		Snapshot: g.store.Snapshot(),
		Stats:    stats,
	})
}
