// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	World        WorldConfig        `yaml:"world"`
	Catheter     CatheterConfig     `yaml:"catheter"`
	Physics      PhysicsConfig      `yaml:"physics"`
	Bacteria     BacteriaConfig     `yaml:"bacteria"`
	Endotoxin    EndotoxinConfig    `yaml:"endotoxin"`
	Immune       ImmuneConfig       `yaml:"immune"`
	Therapeutic  TherapeuticConfig  `yaml:"therapeutic"`
	Inflammation InflammationConfig `yaml:"inflammation"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Settings     Settings           `yaml:"settings"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds the dimensions of the simulated vessel segment.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// CatheterConfig locates the catheter tip (colonization site) and the
// lumen through which the therapeutic is infused.
type CatheterConfig struct {
	X               float64 `yaml:"x"`
	Y               float64 `yaml:"y"`
	SpreadX         float64 `yaml:"spread_x"`
	SpreadY         float64 `yaml:"spread_y"`
	InjectionX      float64 `yaml:"injection_x"`
	InjectionY      float64 `yaml:"injection_y"`
	InjectionSpread float64 `yaml:"injection_spread"`
}

// PhysicsConfig holds spatial indexing parameters.
type PhysicsConfig struct {
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// BacteriaConfig holds bacterial drift, replication and emission parameters.
type BacteriaConfig struct {
	DriftMinVX        float64     `yaml:"drift_min_vx"`
	DriftMaxVX        float64     `yaml:"drift_max_vx"`
	DriftVY           float64     `yaml:"drift_vy"`
	InitialTimerMax   float64     `yaml:"initial_timer_max"`
	TimerMin          float64     `yaml:"timer_min"`
	TimerMax          float64     `yaml:"timer_max"`
	ReplicationChance float64     `yaml:"replication_chance"` // spawn probability per check at rate 1.0
	SpawnOffset       float64     `yaml:"spawn_offset"`
	MaxPopulation     int         `yaml:"max_population"`
	Emission          LevelFloats `yaml:"emission"`
}

// EndotoxinConfig holds free-toxin diffusion parameters.
type EndotoxinConfig struct {
	Diffusion float64 `yaml:"diffusion"`
	MaxSpeed  float64 `yaml:"max_speed"`
}

// ImmuneConfig holds white blood cell parameters.
type ImmuneConfig struct {
	Speed         float64 `yaml:"speed"`
	Drift         float64 `yaml:"drift"`
	SeekRadius    float64 `yaml:"seek_radius"`
	EngulfRadius  float64 `yaml:"engulf_radius"`
	SeekEndotoxin bool    `yaml:"seek_endotoxin"` // fall back to chasing free toxin
}

// TherapeuticConfig holds lipidose dosing and binding parameters.
type TherapeuticConfig struct {
	Speed             float64 `yaml:"speed"`
	Drift             float64 `yaml:"drift"`
	SeekRadius        float64 `yaml:"seek_radius"`
	BindRadius        float64 `yaml:"bind_radius"`
	SpawnPerTick      int     `yaml:"spawn_per_tick"`
	TargetTherapeutic int     `yaml:"target_therapeutic"`
	TargetHigh        int     `yaml:"target_high"`
}

// InflammationConfig maps the inflammation threshold setting to its divisor.
type InflammationConfig struct {
	Thresholds LevelFloats `yaml:"thresholds"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
	PerfWindow  int `yaml:"perf_window"`
}

// LevelFloats holds one value per Level.
type LevelFloats struct {
	Low    float64 `yaml:"low"`
	Medium float64 `yaml:"medium"`
	High   float64 `yaml:"high"`
}

// For returns the value for the given level. Unknown levels read as Medium.
func (l LevelFloats) For(level Level) float64 {
	switch level {
	case LevelLow:
		return l.Low
	case LevelHigh:
		return l.High
	default:
		return l.Medium
	}
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW32   float32 // World.Width as float32
	WorldH32   float32 // World.Height as float32
	CellSize32 float32 // Physics.GridCellSize as float32
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded file is part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.World.Width <= 0 {
		c.World.Width = 800
	}
	if c.World.Height <= 0 {
		c.World.Height = 400
	}
	if c.Physics.GridCellSize <= 0 {
		c.Physics.GridCellSize = 24
	}
	if c.Bacteria.TimerMax < c.Bacteria.TimerMin {
		c.Bacteria.TimerMin, c.Bacteria.TimerMax = c.Bacteria.TimerMax, c.Bacteria.TimerMin
	}

	c.Derived.WorldW32 = float32(c.World.Width)
	c.Derived.WorldH32 = float32(c.World.Height)
	c.Derived.CellSize32 = float32(c.Physics.GridCellSize)

	c.Settings, _ = c.Settings.Clamp()
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
