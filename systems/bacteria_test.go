package systems

import (
	"testing"

	"github.com/pthm-cable/lipidose/config"
)

func TestBacteriaNoReplicationAtZeroRate(t *testing.T) {
	w := newTestWorld(t, 7)
	settings := config.DefaultSettings()
	settings.BacterialLoad = 30
	settings.WBCCount = 0
	settings.ReplicationRate = 0
	Populate(w.store, w.rng, w.cfg, settings)

	sys := NewBacteriaSystem(w.cfg)
	for tick := 0; tick < 500; tick++ {
		res := sys.Update(w.store, w.rng, settings)
		if res.Replications != 0 {
			t.Fatalf("tick %d: %d replications at rate 0", tick, res.Replications)
		}
	}
	if got := w.store.Counts().Bacteria; got != 30 {
		t.Errorf("bacteria = %d, want 30", got)
	}
}

func TestBacteriaPopulationCap(t *testing.T) {
	tests := []struct {
		name           string
		maxPopulation  int
		wantBirths     int
		wantSuppressed int
	}{
		{"at cap", 5, 0, 5},
		{"room for two", 7, 2, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t, 3)
			w.cfg.Bacteria.MaxPopulation = tc.maxPopulation
			settings := config.DefaultSettings()
			settings.ReplicationRate = config.MaxReplicationRate

			for i := 0; i < 5; i++ {
				w.store.AddBacterium(pos(100, 100+float32(i)*10), vel(0.5, 0), 0)
			}

			res := NewBacteriaSystem(w.cfg).Update(w.store, w.rng, settings)
			if res.Replications != tc.wantBirths {
				t.Errorf("Replications = %d, want %d", res.Replications, tc.wantBirths)
			}
			if res.Suppressed != tc.wantSuppressed {
				t.Errorf("Suppressed = %d, want %d", res.Suppressed, tc.wantSuppressed)
			}
			if got := w.store.Counts().Bacteria; got != 5+tc.wantBirths {
				t.Errorf("bacteria = %d, want %d", got, 5+tc.wantBirths)
			}
		})
	}
}

func TestBacteriaTimerRedrawn(t *testing.T) {
	w := newTestWorld(t, 11)
	settings := config.DefaultSettings()
	ref := w.store.AddBacterium(pos(100, 100), vel(0.5, 0), 0)

	NewBacteriaSystem(w.cfg).Update(w.store, w.rng, settings)

	timer := w.store.Bacterium(ref.Entity).ReplicationTimer
	lo, hi := float32(w.cfg.Bacteria.TimerMin), float32(w.cfg.Bacteria.TimerMax)
	if timer < lo || timer > hi {
		t.Errorf("timer = %f, want within [%f, %f]", timer, lo, hi)
	}
}

func TestBacteriaEmissionsTracked(t *testing.T) {
	w := newTestWorld(t, 5)
	settings := config.DefaultSettings()
	settings.BacterialLoad = 50
	settings.WBCCount = 0
	settings.ReplicationRate = 0
	settings.EndotoxinRelease = config.LevelHigh
	Populate(w.store, w.rng, w.cfg, settings)

	ids := make(map[uint64]bool)
	for _, e := range w.store.Bacteria(nil) {
		ids[w.store.Particle(e).ID] = true
	}

	sys := NewBacteriaSystem(w.cfg)
	emitted := 0
	for tick := 0; tick < 100; tick++ {
		emitted += sys.Update(w.store, w.rng, settings).Emissions
	}

	if emitted == 0 {
		t.Fatal("expected emissions at high release")
	}
	c := w.store.Counts()
	if c.TotalEmitted != emitted || c.FreeEndotoxin != emitted {
		t.Errorf("emitted %d, store reports total %d free %d", emitted, c.TotalEmitted, c.FreeEndotoxin)
	}
	for _, v := range w.store.Snapshot().Endotoxins {
		if !ids[v.SourceID] {
			t.Errorf("toxin %d has unknown source %d", v.ID, v.SourceID)
		}
	}
}

func TestParticlesStayInBounds(t *testing.T) {
	w := newTestWorld(t, 9)
	settings := config.DefaultSettings()
	settings.ReplicationRate = 0
	Populate(w.store, w.rng, w.cfg, settings)

	bacteria := NewBacteriaSystem(w.cfg)
	endotoxin := NewEndotoxinSystem(w.cfg)
	immune := NewImmuneSystem(w.cfg)
	bounds := BoundsOf(w.cfg)

	for tick := 0; tick < 1500; tick++ {
		bacteria.Update(w.store, w.rng, settings)
		endotoxin.Update(w.store, w.rng)
		w.index.Rebuild()
		immune.Update(w.store, w.index, w.rng, settings)
	}

	snap := w.store.Snapshot()
	for _, b := range snap.Bacteria {
		if !bounds.Contains(b.X, b.Y) {
			t.Errorf("bacterium %d out of bounds at (%f, %f)", b.ID, b.X, b.Y)
		}
	}
	for _, e := range snap.Endotoxins {
		if !bounds.Contains(e.X, e.Y) {
			t.Errorf("endotoxin %d out of bounds at (%f, %f)", e.ID, e.X, e.Y)
		}
	}
	for _, c := range snap.WBCs {
		if !bounds.Contains(c.X, c.Y) {
			t.Errorf("WBC %d out of bounds at (%f, %f)", c.ID, c.X, c.Y)
		}
	}
}
