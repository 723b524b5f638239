package systems

import (
	"testing"

	"github.com/pthm-cable/lipidose/config"
)

func TestTherapeuticDose(t *testing.T) {
	w := newTestWorld(t, 1)
	sys := NewTherapeuticSystem(w.cfg)
	settings := config.DefaultSettings()
	settings.IntroduceLipidose = true

	perTick := w.cfg.Therapeutic.SpawnPerTick
	res := sys.Update(w.store, w.index, w.rng, settings)
	if res.Spawned != perTick {
		t.Errorf("first tick spawned %d, want %d", res.Spawned, perTick)
	}

	target := sys.TargetPopulation(settings.LipidoseConcentration)
	for i := 0; i < target; i++ {
		w.index.Rebuild()
		sys.Update(w.store, w.index, w.rng, settings)
	}
	if got := w.store.ActiveTherapeutics(); got != target {
		t.Errorf("active = %d, want target %d", got, target)
	}
}

func TestTherapeuticTargetPopulation(t *testing.T) {
	w := newTestWorld(t, 1)
	sys := NewTherapeuticSystem(w.cfg)

	low := sys.TargetPopulation(config.ConcentrationTherapeutic)
	high := sys.TargetPopulation(config.ConcentrationHigh)
	if high <= low {
		t.Errorf("high dose %d should exceed therapeutic %d", high, low)
	}
}

func TestTherapeuticBindingConservesEndotoxin(t *testing.T) {
	w := newTestWorld(t, 42)
	settings := config.DefaultSettings()
	settings.IntroduceLipidose = true
	settings.LipidoseEfficiency = config.MaxLipidoseEfficiency

	cat := w.cfg.Catheter
	for i := 0; i < 50; i++ {
		x := float32(cat.X) + w.rng.Jitter(40)
		y := float32(cat.Y) + w.rng.Jitter(80)
		w.store.AddEndotoxin(pos(x, y), 0)
	}

	endotoxin := NewEndotoxinSystem(w.cfg)
	therapeutic := NewTherapeuticSystem(w.cfg)

	prev := w.store.Counts()
	for tick := 0; tick < 600; tick++ {
		endotoxin.Update(w.store, w.rng)
		w.index.Rebuild()
		res := therapeutic.Update(w.store, w.index, w.rng, settings)

		c := w.store.Counts()
		if c.FreeEndotoxin+c.BoundEndotoxin != 50 {
			t.Fatalf("tick %d: free %d + bound %d != 50", tick, c.FreeEndotoxin, c.BoundEndotoxin)
		}
		if c.BoundEndotoxin < prev.BoundEndotoxin {
			t.Fatalf("tick %d: bound decreased %d -> %d", tick, prev.BoundEndotoxin, c.BoundEndotoxin)
		}
		if dFree, dBound := c.FreeEndotoxin-prev.FreeEndotoxin, c.BoundEndotoxin-prev.BoundEndotoxin; dFree != -dBound {
			t.Fatalf("tick %d: free changed %d, bound changed %d", tick, dFree, dBound)
		}
		if res.Bound != c.BoundEndotoxin-prev.BoundEndotoxin {
			t.Fatalf("tick %d: reported %d bindings, counts moved %d", tick, res.Bound, c.BoundEndotoxin-prev.BoundEndotoxin)
		}
		prev = c
	}

	if prev.BoundEndotoxin == 0 {
		t.Error("expected some endotoxin to bind")
	}
	for _, v := range w.store.Snapshot().Endotoxins {
		if v.Bound && v.BoundBy == 0 {
			t.Errorf("toxin %d bound without a binder", v.ID)
		}
	}
}
