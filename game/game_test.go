package game

import (
	"errors"
	"testing"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/config"
	"github.com/pthm-cable/lipidose/telemetry"
)

func newTestGame(t *testing.T, seed int64, settings config.Settings) *Game {
	t.Helper()
	g, err := NewGame(Options{Seed: seed, Settings: &settings})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(func() { g.Close() })
	return g
}

func mustStart(t *testing.T, g *Game) {
	t.Helper()
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
}

func mustTick(t *testing.T, g *Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := g.Tick(); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
	}
}

func TestStateMachine(t *testing.T) {
	g := newTestGame(t, 1, config.DefaultSettings())

	if g.State() != StateIdle {
		t.Fatalf("new game state = %s, want idle", g.State())
	}
	if err := g.Tick(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Tick while idle = %v, want ErrInvalidState", err)
	}

	mustStart(t, g)
	if err := g.Start(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Start = %v, want ErrInvalidState", err)
	}
	mustTick(t, g, 3)

	g.Stop()
	if g.State() != StateIdle {
		t.Errorf("state after Stop = %s, want idle", g.State())
	}
	if err := g.Tick(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Tick after Stop = %v, want ErrInvalidState", err)
	}
	if got := g.Stats().Time; got != 3 {
		t.Errorf("time after stop = %d, want 3", got)
	}

	// Stop on an idle game is harmless; Start works again.
	g.Stop()
	mustStart(t, g)
	mustTick(t, g, 1)
	if got := g.Stats().Time; got != 4 {
		t.Errorf("time after restart = %d, want 4", got)
	}
}

func TestReentrantTickRejected(t *testing.T) {
	g := newTestGame(t, 1, config.DefaultSettings())
	mustStart(t, g)

	g.ticking.Store(true)
	if err := g.Tick(); !errors.Is(err, ErrReentrantTick) {
		t.Errorf("Tick during tick = %v, want ErrReentrantTick", err)
	}
	g.ticking.Store(false)

	if err := g.Tick(); err != nil {
		t.Errorf("Tick after previous finished: %v", err)
	}
}

func TestTimeCountsTicks(t *testing.T) {
	g := newTestGame(t, 2, config.DefaultSettings())
	if got := g.Stats().Time; got != 0 {
		t.Fatalf("initial time = %d, want 0", got)
	}
	mustStart(t, g)
	for i := int32(1); i <= 50; i++ {
		mustTick(t, g, 1)
		if got := g.Stats().Time; got != i {
			t.Fatalf("time = %d, want %d", got, i)
		}
	}
}

func TestConservationAndIndexBounds(t *testing.T) {
	settings := config.DefaultSettings()
	settings.IntroduceLipidose = true
	settings.EndotoxinRelease = config.LevelHigh
	g := newTestGame(t, 3, settings)
	mustStart(t, g)

	prevBound := 0
	for tick := 0; tick < 400; tick++ {
		mustTick(t, g, 1)
		s := g.Stats()

		if emitted := g.store.TotalEmitted(); s.FreeEndotoxin+s.BoundEndotoxin != emitted {
			t.Fatalf("tick %d: free %d + bound %d != emitted %d", s.Time, s.FreeEndotoxin, s.BoundEndotoxin, emitted)
		}
		if s.BoundEndotoxin < prevBound {
			t.Fatalf("tick %d: bound decreased %d -> %d", s.Time, prevBound, s.BoundEndotoxin)
		}
		if s.InflammationIndex < 0 || s.InflammationIndex > 100 {
			t.Fatalf("tick %d: index %d out of range", s.Time, s.InflammationIndex)
		}
		if want := telemetry.ClassifyStatus(s.InflammationIndex); s.PatientStatus != want {
			t.Fatalf("tick %d: status %s, want %s", s.Time, s.PatientStatus, want)
		}
		prevBound = s.BoundEndotoxin
	}
}

func TestIdempotentReset(t *testing.T) {
	settings := config.DefaultSettings()
	g := newTestGame(t, 5, settings)

	g.Initialize(settings)
	first := g.Frame()
	g.Initialize(settings)
	second := g.Frame()

	if first.Stats != second.Stats {
		t.Errorf("stats differ after repeated reset: %+v vs %+v", first.Stats, second.Stats)
	}
	if len(first.Snapshot.Bacteria) != settings.BacterialLoad || len(second.Snapshot.Bacteria) != settings.BacterialLoad {
		t.Fatalf("bacteria after reset = %d / %d, want %d",
			len(first.Snapshot.Bacteria), len(second.Snapshot.Bacteria), settings.BacterialLoad)
	}
	if len(second.Snapshot.Endotoxins) != 0 || len(second.Snapshot.Therapeutics) != 0 {
		t.Error("reset left endotoxin or therapeutic particles")
	}
	for i := range first.Snapshot.Bacteria {
		a, b := first.Snapshot.Bacteria[i], second.Snapshot.Bacteria[i]
		if a.X != b.X || a.Y != b.Y || a.ReplicationTimer != b.ReplicationTimer {
			t.Fatalf("bacterium %d differs: %+v vs %+v", i, a, b)
		}
	}
	if first.Stats.Time != 0 {
		t.Errorf("time after reset = %d, want 0", first.Stats.Time)
	}
}

func TestReconfigure(t *testing.T) {
	settings := config.DefaultSettings()
	g := newTestGame(t, 6, settings)
	mustStart(t, g)
	mustTick(t, g, 20)

	// Behavior-only change: no reset.
	tuned := settings
	tuned.WBCEffectiveness = 0.9
	tuned.ReplicationRate = 2
	g.Reconfigure(tuned)
	if got := g.Stats().Time; got != 20 {
		t.Errorf("time after behavior change = %d, want 20", got)
	}
	if g.State() != StateRunning {
		t.Error("Reconfigure changed state")
	}

	// Load change: reset to the new population.
	tuned.BacterialLoad = 40
	g.Reconfigure(tuned)
	s := g.Stats()
	if s.Time != 0 || s.BacterialCount != 40 || s.FreeEndotoxin != 0 {
		t.Errorf("after load change: time %d bacteria %d free %d", s.Time, s.BacterialCount, s.FreeEndotoxin)
	}

	// Out-of-range values are clamped, not rejected.
	tuned.WBCCount = 9000
	g.Reconfigure(tuned)
	if got := g.Settings().WBCCount; got != config.MaxWBCCount {
		t.Errorf("WBCCount = %d, want clamp to %d", got, config.MaxWBCCount)
	}
	if got := g.Stats().WBCCount; got != config.MaxWBCCount {
		t.Errorf("WBCs placed = %d, want %d", got, config.MaxWBCCount)
	}
}

func TestReconfigureThresholdReclassifies(t *testing.T) {
	settings := config.DefaultSettings()
	settings.InflammationThreshold = config.LevelHigh
	g := newTestGame(t, 6, settings)

	for i := 0; i < 500; i++ {
		g.store.AddEndotoxin(components.Position{X: 400, Y: 200}, 0)
	}
	g.mu.Lock()
	g.publish(telemetry.ComputeStats(g.store.Counts(), g.cfg, g.settings, g.tick))
	g.mu.Unlock()
	high := g.Stats().InflammationIndex

	settings.InflammationThreshold = config.LevelLow
	g.Reconfigure(settings)
	low := g.Stats().InflammationIndex

	if high != 17 || low != 50 {
		t.Errorf("index high/low threshold = %d/%d, want 17/50", high, low)
	}
}

func TestDisabledDrugFreezesParticles(t *testing.T) {
	settings := config.DefaultSettings()
	settings.IntroduceLipidose = true
	g := newTestGame(t, 8, settings)
	mustStart(t, g)
	mustTick(t, g, 10)

	before := g.Snapshot().Therapeutics
	if len(before) == 0 {
		t.Fatal("expected therapeutic particles after dosing")
	}

	settings.IntroduceLipidose = false
	g.Reconfigure(settings)
	mustTick(t, g, 10)

	after := g.Snapshot().Therapeutics
	if len(after) != len(before) {
		t.Fatalf("therapeutic count changed %d -> %d while disabled", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("particle %d moved while disabled: %+v -> %+v", before[i].ID, before[i], after[i])
		}
	}
}

func TestDeterminism(t *testing.T) {
	settings := config.DefaultSettings()
	settings.IntroduceLipidose = true
	a := newTestGame(t, 77, settings)
	b := newTestGame(t, 77, settings)
	mustStart(t, a)
	mustStart(t, b)

	for tick := 0; tick < 200; tick++ {
		mustTick(t, a, 1)
		mustTick(t, b, 1)
		if a.Stats() != b.Stats() {
			t.Fatalf("tick %d: stats diverged: %+v vs %+v", tick, a.Stats(), b.Stats())
		}
	}

	sa, sb := a.Snapshot(), b.Snapshot()
	for i := range sa.Bacteria {
		if sa.Bacteria[i].X != sb.Bacteria[i].X || sa.Bacteria[i].Y != sb.Bacteria[i].Y {
			t.Fatalf("bacterium %d position diverged", i)
		}
	}
}

func TestPublishedFrameIsStable(t *testing.T) {
	g := newTestGame(t, 9, config.DefaultSettings())
	mustStart(t, g)
	mustTick(t, g, 1)

	held := g.Frame()
	x := held.Snapshot.Bacteria[0].X
	mustTick(t, g, 5)

	if held.Snapshot.Bacteria[0].X != x || held.Stats.Time != 1 {
		t.Error("held frame mutated by later ticks")
	}
	if g.Frame() == held {
		t.Error("no new frame published")
	}
}

func TestStatsCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Telemetry.WindowTicks = 10
	settings := cfg.Settings

	var windows []telemetry.WindowStats
	g, err := NewGame(Options{
		Seed:     1,
		Config:   cfg,
		Settings: &settings,
		StatsCallback: func(ws telemetry.WindowStats) {
			windows = append(windows, ws)
		},
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Close()

	mustStart(t, g)
	mustTick(t, g, 35)

	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[2].WindowEndTick != 30 {
		t.Errorf("third window ends at %d, want 30", windows[2].WindowEndTick)
	}
}
