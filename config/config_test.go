package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.World.Width != 800 || cfg.World.Height != 400 {
		t.Errorf("world = %dx%d, want 800x400", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Derived.WorldW32 != 800 {
		t.Errorf("Derived.WorldW32 = %v, want 800", cfg.Derived.WorldW32)
	}
	if cfg.Bacteria.TimerMin != 50 || cfg.Bacteria.TimerMax != 150 {
		t.Errorf("timer range = [%v, %v], want [50, 150]", cfg.Bacteria.TimerMin, cfg.Bacteria.TimerMax)
	}
	if got := cfg.Bacteria.Emission.For(LevelHigh); math.Abs(got-0.15) > 1e-9 {
		t.Errorf("high emission = %v, want 0.15", got)
	}
	if cfg.Settings != DefaultSettings() {
		t.Errorf("settings = %+v, want %+v", cfg.Settings, DefaultSettings())
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte(`
immune:
  speed: 3.0
settings:
  endotoxin_release: 3
  lipidose_concentration: high
  wbc_count: 9000
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Immune.Speed != 3.0 {
		t.Errorf("immune speed = %v, want 3.0", cfg.Immune.Speed)
	}
	if cfg.Immune.SeekRadius != 120 {
		t.Errorf("seek radius = %v, want default 120", cfg.Immune.SeekRadius)
	}
	if cfg.Settings.EndotoxinRelease != LevelHigh {
		t.Errorf("endotoxin release = %v, want high", cfg.Settings.EndotoxinRelease)
	}
	if cfg.Settings.LipidoseConcentration != ConcentrationHigh {
		t.Errorf("concentration = %v, want high", cfg.Settings.LipidoseConcentration)
	}
	// Out-of-range values from files are clamped, not rejected.
	if cfg.Settings.WBCCount != MaxWBCCount {
		t.Errorf("wbc count = %d, want %d", cfg.Settings.WBCCount, MaxWBCCount)
	}
}

func TestLoadRejectsUnknownLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("settings:\n  endotoxin_release: extreme\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Settings.IntroduceLipidose = true
	cfg.Settings.InflammationThreshold = LevelLow

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Settings != cfg.Settings {
		t.Errorf("settings after round trip = %+v, want %+v", loaded.Settings, cfg.Settings)
	}
}
