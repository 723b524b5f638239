// Package game runs the infection model: it owns the particle store and
// systems, drives ticks through an Idle/Running state machine and
// publishes an immutable frame after every tick.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/pthm-cable/lipidose/config"
	"github.com/pthm-cable/lipidose/systems"
	"github.com/pthm-cable/lipidose/telemetry"
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// current state: Tick while Idle, or Start while Running.
	ErrInvalidState = errors.New("invalid state")

	// ErrReentrantTick is returned when Tick is called before the previous
	// tick has finished.
	ErrReentrantTick = errors.New("re-entrant tick")
)

// State is the orchestrator state.
type State uint8

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	if s == StateRunning {
		return "running"
	}
	return "idle"
}

// Options configures a new game.
type Options struct {
	Seed      int64
	Config    *config.Config   // nil = embedded defaults
	Settings  *config.Settings // nil = Config.Settings
	LogStats  bool             // log window stats via slog
	OutputDir string           // CSV/YAML output directory (empty = disabled)

	// StatsCallback is invoked after each completed telemetry window,
	// outside the tick's critical section.
	StatsCallback func(telemetry.WindowStats)
}

// Frame is what a consumer sees: the snapshot and statistics published at
// the end of one tick.
type Frame struct {
	Snapshot *systems.Snapshot
	Stats    telemetry.Stats
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	seed int64

	// mu serializes ticks with every other mutation, so Stop returning
	// guarantees no tick is mid-write.
	mu      sync.Mutex
	ticking atomic.Bool
	state   State

	settings config.Settings
	tick     int32

	store *systems.Store
	index *systems.SpatialIndex
	rng   *systems.RNG

	bacteria    *systems.BacteriaSystem
	endotoxin   *systems.EndotoxinSystem
	immune      *systems.ImmuneSystem
	therapeutic *systems.TherapeuticSystem

	frame atomic.Pointer[Frame]

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGame creates a game in the Idle state and initializes it with the
// configured settings.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	settings := cfg.Settings
	if opts.Settings != nil {
		settings = *opts.Settings
	}

	store := systems.NewStore()
	g := &Game{
		cfg:              cfg,
		seed:             opts.Seed,
		store:            store,
		index:            systems.NewSpatialIndex(store, cfg.Derived.WorldW32, cfg.Derived.WorldH32, cfg.Derived.CellSize32),
		bacteria:         systems.NewBacteriaSystem(cfg),
		endotoxin:        systems.NewEndotoxinSystem(cfg),
		immune:           systems.NewImmuneSystem(cfg),
		therapeutic:      systems.NewTherapeuticSystem(cfg),
		collector:        telemetry.NewCollector(int32(cfg.Telemetry.WindowTicks)),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.Initialize(settings)
	return g, nil
}

// Initialize applies settings and resets the simulation: every particle is
// discarded, the initial populations are placed and the clock returns to 0.
// The state is unchanged.
func (g *Game) Initialize(settings config.Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.settings = clampSettings(settings)
	g.reset()
}

// Reconfigure applies new settings without a state transition. A change to
// BacterialLoad or WBCCount resets the simulation; anything else takes
// effect on the next tick.
func (g *Game) Reconfigure(settings config.Settings) {
	g.mu.Lock()
	defer g.mu.Unlock()

	next := clampSettings(settings)
	prev := g.settings
	g.settings = next

	if next.LoadChanged(prev) {
		slog.Info("load changed, resetting",
			"bacterial_load", next.BacterialLoad,
			"wbc_count", next.WBCCount,
		)
		g.reset()
		return
	}

	// Threshold changes reclassify the current state immediately.
	if next.InflammationThreshold != prev.InflammationThreshold {
		g.publish(telemetry.ComputeStats(g.store.Counts(), g.cfg, g.settings, g.tick))
	}
}

// Start transitions Idle to Running.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateRunning {
		return fmt.Errorf("%w: start while %s", ErrInvalidState, g.state)
	}
	g.state = StateRunning
	slog.Info("simulation started", "tick", g.tick, "seed", g.seed)
	return nil
}

// Stop transitions Running to Idle. It waits for an in-flight tick, and no
// mutation happens after it returns. Stopping an idle game does nothing.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateIdle {
		return
	}
	g.state = StateIdle
	slog.Info("simulation stopped", "tick", g.tick)
}

// State returns the current orchestrator state.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Settings returns the settings in effect.
func (g *Game) Settings() config.Settings {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settings
}

// Config returns the engine configuration.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Frame returns the last published frame. It never blocks on a tick.
func (g *Game) Frame() *Frame {
	return g.frame.Load()
}

// Snapshot returns the particle snapshot published by the last tick.
func (g *Game) Snapshot() *systems.Snapshot {
	return g.frame.Load().Snapshot
}

// Stats returns the statistics published by the last tick.
func (g *Game) Stats() telemetry.Stats {
	return g.frame.Load().Stats
}

// Close releases output files.
func (g *Game) Close() error {
	return g.outputManager.Close()
}

// clampSettings forces settings into range and logs each correction.
func clampSettings(s config.Settings) config.Settings {
	clamped, adjustments := s.Clamp()
	for _, adj := range adjustments {
		slog.Debug("setting clamped", "adjustment", adj)
	}
	return clamped
}

// PerfStats returns tick timing aggregated over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.perfCollector.Stats()
}
