package game

import (
	"fmt"

	"github.com/pthm-cable/lipidose/telemetry"
)

// Tick advances the simulation by one step and publishes a new frame.
// It fails with ErrInvalidState while Idle and with ErrReentrantTick if
// the previous tick has not finished.
func (g *Game) Tick() error {
	if !g.ticking.CompareAndSwap(false, true) {
		return ErrReentrantTick
	}

	ws, flushed, err := g.tickLocked()
	g.ticking.Store(false)
	if err != nil {
		return err
	}

	if flushed && g.statsCallback != nil {
		g.statsCallback(ws)
	}
	return nil
}

func (g *Game) tickLocked() (telemetry.WindowStats, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateRunning {
		return telemetry.WindowStats{}, false, fmt.Errorf("%w: tick while %s", ErrInvalidState, g.state)
	}

	stats := g.step()
	ws, flushed := g.flushTelemetry(stats)
	return ws, flushed, nil
}

// step runs every system once in order and publishes the result.
func (g *Game) step() telemetry.Stats {
	perf := g.perfCollector
	perf.StartTick()

	perf.StartPhase(telemetry.PhaseBacteria)
	g.collector.RecordBacteria(g.bacteria.Update(g.store, g.rng, g.settings))

	perf.StartPhase(telemetry.PhaseEndotoxin)
	g.endotoxin.Update(g.store, g.rng)

	// Interaction systems share this topology for the rest of the tick.
	perf.StartPhase(telemetry.PhaseSpatialGrid)
	g.index.Rebuild()

	perf.StartPhase(telemetry.PhaseImmune)
	g.collector.RecordImmune(g.immune.Update(g.store, g.index, g.rng, g.settings))

	if g.settings.IntroduceLipidose {
		perf.StartPhase(telemetry.PhaseTherapeutic)
		g.collector.RecordTherapeutic(g.therapeutic.Update(g.store, g.index, g.rng, g.settings))
	}

	g.tick++

	perf.StartPhase(telemetry.PhaseStats)
	stats := telemetry.ComputeStats(g.store.Counts(), g.cfg, g.settings, g.tick)
	g.collector.Sample(stats)

	perf.StartPhase(telemetry.PhasePublish)
	g.publish(stats)

	perf.EndTick()
	return stats
}
