package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/lipidose/config"
	"github.com/pthm-cable/lipidose/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()

	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: round trip %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}
}

func TestDefaultsMatchEmbeddedConfig(t *testing.T) {
	pv := NewParamVector()
	got := pv.ExtractFromConfig(config.Default())
	for i, spec := range pv.Specs {
		if got[i] != spec.Default {
			t.Errorf("%s: config has %v, spec default %v", spec.Path, got[i], spec.Default)
		}
	}
}

func TestClampRoundsIntegers(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{-1, 9, 150, 6, 3.6, 500}

	got := pv.Clamp(raw)
	want := []float64{0.5, 1.5, 150, 6, 4, 200}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: Clamp = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestApplyToConfig(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	pv.ApplyToConfig(cfg, []float64{2, 0.5, 100, 4, 5.2, 40})

	tc := cfg.Therapeutic
	if tc.Speed != 2 || tc.Drift != 0.5 || tc.SeekRadius != 100 || tc.BindRadius != 4 {
		t.Errorf("float params not applied: %+v", tc)
	}
	if tc.SpawnPerTick != 5 || tc.TargetTherapeutic != 40 || tc.TargetHigh != 120 {
		t.Errorf("integer params not applied: %+v", tc)
	}
}

func TestSummarize(t *testing.T) {
	windows := []telemetry.WindowStats{
		{InflammationMean: 40, InflammationMax: 55, Spawned: 30},
		{InflammationMean: 20, InflammationMax: 35, Spawned: 10},
	}
	final := telemetry.Stats{BoundEndotoxin: 30, TotalEndotoxin: 40, InflammationIndex: 5}

	s := summarize(windows, final)
	if s.MeanInflammation != 30 {
		t.Errorf("MeanInflammation = %v, want 30", s.MeanInflammation)
	}
	if s.PeakInflammation != 55 {
		t.Errorf("PeakInflammation = %v, want 55", s.PeakInflammation)
	}
	if s.BoundFraction != 0.75 {
		t.Errorf("BoundFraction = %v, want 0.75", s.BoundFraction)
	}
	if s.Spawned != 40 {
		t.Errorf("Spawned = %v, want 40", s.Spawned)
	}

	empty := summarize(nil, final)
	if empty.MeanInflammation != 5 {
		t.Errorf("without windows MeanInflammation = %v, want final index 5", empty.MeanInflammation)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()
	ev := NewFitnessEvaluator(pv, 200, []int64{1, 2}, cfg, 0.25)

	a := ev.Evaluate(pv.DefaultVector())
	b := ev.Evaluate(pv.DefaultVector())
	if a != b {
		t.Errorf("same params and seeds gave %v then %v", a, b)
	}
	if math.IsInf(a, 0) || math.IsNaN(a) || a < 0 {
		t.Errorf("fitness = %v, want a finite non-negative value", a)
	}
}
