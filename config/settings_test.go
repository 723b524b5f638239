package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSettingsClamp(t *testing.T) {
	tests := []struct {
		name       string
		in         Settings
		want       Settings
		wantAdjust int
	}{
		{
			name:       "defaults untouched",
			in:         DefaultSettings(),
			want:       DefaultSettings(),
			wantAdjust: 0,
		},
		{
			name: "everything out of range",
			in: Settings{
				BacterialLoad:         1,
				ReplicationRate:       -2,
				EndotoxinRelease:      Level(9),
				WBCCount:              10000,
				WBCEffectiveness:      3,
				InflammationThreshold: Level(0),
				LipidoseConcentration: Concentration(7),
				LipidoseEfficiency:    0.1,
			},
			want: Settings{
				BacterialLoad:         MinBacterialLoad,
				ReplicationRate:       MinReplicationRate,
				EndotoxinRelease:      LevelHigh,
				WBCCount:              MaxWBCCount,
				WBCEffectiveness:      MaxWBCEffectiveness,
				InflammationThreshold: LevelLow,
				LipidoseConcentration: ConcentrationHigh,
				LipidoseEfficiency:    MinLipidoseEfficiency,
			},
			wantAdjust: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, adj := tt.in.Clamp()
			if got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
			if len(adj) != tt.wantAdjust {
				t.Errorf("adjustments = %d (%v), want %d", len(adj), adj, tt.wantAdjust)
			}
		})
	}
}

func TestSettingsClampNaN(t *testing.T) {
	s := DefaultSettings()
	s.WBCEffectiveness = math.NaN()
	got, adj := s.Clamp()
	if got.WBCEffectiveness != MinWBCEffectiveness {
		t.Errorf("NaN effectiveness clamped to %v, want %v", got.WBCEffectiveness, MinWBCEffectiveness)
	}
	if len(adj) != 1 || adj[0].Field != "wbc_effectiveness" {
		t.Errorf("adjustments = %v, want one for wbc_effectiveness", adj)
	}
}

func TestLoadChanged(t *testing.T) {
	base := DefaultSettings()

	rate := base
	rate.ReplicationRate = 3
	rate.IntroduceLipidose = true
	if base.LoadChanged(rate) {
		t.Error("rate and drug changes must not count as load changes")
	}

	load := base
	load.BacterialLoad = 300
	if !base.LoadChanged(load) {
		t.Error("bacterial load change not detected")
	}

	wbc := base
	wbc.WBCCount = 60
	if !base.LoadChanged(wbc) {
		t.Error("wbc count change not detected")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"low", LevelLow, false},
		{"Medium", LevelMedium, false},
		{" high ", LevelHigh, false},
		{"1", LevelLow, false},
		{"3", LevelHigh, false},
		{"4", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseConcentration(t *testing.T) {
	if c, err := ParseConcentration("2"); err != nil || c != ConcentrationHigh {
		t.Errorf("ParseConcentration(2) = %v, %v", c, err)
	}
	if _, err := ParseConcentration("overdose"); err == nil {
		t.Error("expected error")
	}
}

func TestSettingsYAMLLoadsBack(t *testing.T) {
	want := DefaultSettings()
	want.BacterialLoad = 320
	want.EndotoxinRelease = LevelHigh
	want.IntroduceLipidose = true
	want.LipidoseConcentration = ConcentrationHigh

	text, err := want.YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	if !strings.Contains(text, "endotoxin_release: high") {
		t.Errorf("levels should marshal by name, got:\n%s", text)
	}

	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Settings != want {
		t.Errorf("settings = %+v, want %+v", cfg.Settings, want)
	}
}
