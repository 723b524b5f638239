package game

import (
	"testing"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/config"
)

func TestImmuneResponseClearsDefaultInfection(t *testing.T) {
	// Default panel: load 150, replication 1.0, 200 WBCs at 0.6, no drug.
	seeds := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	initial, final := 0, 0
	for _, seed := range seeds {
		g := newTestGame(t, seed, config.DefaultSettings())
		initial += g.Stats().BacterialCount
		mustStart(t, g)
		mustTick(t, g, 500)
		final += g.Stats().BacterialCount
	}

	n := float64(len(seeds))
	if float64(initial)/n != 150 {
		t.Fatalf("mean initial bacteria = %.1f, want 150", float64(initial)/n)
	}
	if mean := float64(final) / n; mean >= 150 {
		t.Errorf("mean bacteria after 500 ticks = %.1f, want below 150", mean)
	}
}

func TestPopulationBoundUnderFullImmunity(t *testing.T) {
	settings := config.DefaultSettings()
	settings.BacterialLoad = 30
	settings.ReplicationRate = 0
	settings.WBCCount = config.MaxWBCCount
	settings.WBCEffectiveness = 1
	g := newTestGame(t, 11, settings)
	mustStart(t, g)

	prev := g.Stats().BacterialCount
	for tick := 0; tick < 5000 && prev > 0; tick++ {
		mustTick(t, g, 1)
		n := g.Stats().BacterialCount
		if n > prev {
			t.Fatalf("tick %d: bacteria grew %d -> %d with replication off", tick, prev, n)
		}
		prev = n
	}
	if prev != 0 {
		t.Errorf("bacteria = %d after 5000 ticks, want 0", prev)
	}
}

func TestLipidoseBindsFreeEndotoxin(t *testing.T) {
	settings := config.DefaultSettings()
	settings.IntroduceLipidose = true
	settings.LipidoseConcentration = config.ConcentrationHigh
	settings.LipidoseEfficiency = 0.95
	g := newTestGame(t, 21, settings)

	// Start from 50 free toxins and no bacteria.
	for _, e := range g.store.Bacteria(nil) {
		g.store.RemoveBacterium(e)
	}
	cat := g.cfg.Catheter
	for i := 0; i < 50; i++ {
		x := float32(cat.X) + g.rng.Jitter(float32(cat.SpreadX)*2)
		y := float32(cat.Y) + g.rng.Jitter(float32(cat.SpreadY))
		g.store.AddEndotoxin(components.Position{X: x, Y: y}, 0)
	}

	mustStart(t, g)
	prevBound := 0
	for tick := 0; tick < 2000; tick++ {
		mustTick(t, g, 1)
		s := g.Stats()
		if s.FreeEndotoxin+s.BoundEndotoxin != 50 {
			t.Fatalf("tick %d: free %d + bound %d != 50", s.Time, s.FreeEndotoxin, s.BoundEndotoxin)
		}
		if s.BoundEndotoxin < prevBound {
			t.Fatalf("tick %d: bound decreased %d -> %d", s.Time, prevBound, s.BoundEndotoxin)
		}
		prevBound = s.BoundEndotoxin
	}

	if prevBound < 25 {
		t.Errorf("bound = %d after 2000 ticks, want most of 50", prevBound)
	}
}
