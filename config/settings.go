package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level is a three-step setting (endotoxin release, inflammation threshold).
type Level uint8

const (
	LevelLow Level = iota + 1
	LevelMedium
	LevelHigh
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLevel accepts a level name or its numeric encoding (1, 2, 3).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "1":
		return LevelLow, nil
	case "medium", "2":
		return LevelMedium, nil
	case "high", "3":
		return LevelHigh, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseLevel(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*l = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Level) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// Concentration selects the lipidose dosing regime.
type Concentration uint8

const (
	ConcentrationTherapeutic Concentration = iota + 1
	ConcentrationHigh
)

// String returns the lowercase concentration name.
func (c Concentration) String() string {
	switch c {
	case ConcentrationTherapeutic:
		return "therapeutic"
	case ConcentrationHigh:
		return "high"
	default:
		return fmt.Sprintf("concentration(%d)", uint8(c))
	}
}

// ParseConcentration accepts a concentration name or its numeric encoding (1, 2).
func ParseConcentration(s string) (Concentration, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "therapeutic", "1":
		return ConcentrationTherapeutic, nil
	case "high", "2":
		return ConcentrationHigh, nil
	}
	return 0, fmt.Errorf("unknown concentration %q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Concentration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseConcentration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Concentration) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Settings is the user-adjustable record a control panel produces.
type Settings struct {
	BacterialLoad         int           `yaml:"bacterial_load"`
	ReplicationRate       float64       `yaml:"replication_rate"`
	EndotoxinRelease      Level         `yaml:"endotoxin_release"`
	WBCCount              int           `yaml:"wbc_count"`
	WBCEffectiveness      float64       `yaml:"wbc_effectiveness"`
	InflammationThreshold Level         `yaml:"inflammation_threshold"`
	IntroduceLipidose     bool          `yaml:"introduce_lipidose"`
	LipidoseConcentration Concentration `yaml:"lipidose_concentration"`
	LipidoseEfficiency    float64       `yaml:"lipidose_efficiency"`
}

// Documented settings ranges.
const (
	MinBacterialLoad      = 10
	MaxBacterialLoad      = 500
	MinReplicationRate    = 0.0
	MaxReplicationRate    = 5.0
	MinWBCCount           = 50
	MaxWBCCount           = 500
	MinWBCEffectiveness   = 0.2
	MaxWBCEffectiveness   = 1.0
	MinLipidoseEfficiency = 0.8
	MaxLipidoseEfficiency = 0.99
)

// DefaultSettings returns the control panel defaults.
func DefaultSettings() Settings {
	return Settings{
		BacterialLoad:         150,
		ReplicationRate:       1.0,
		EndotoxinRelease:      LevelMedium,
		WBCCount:              200,
		WBCEffectiveness:      0.6,
		InflammationThreshold: LevelMedium,
		IntroduceLipidose:     false,
		LipidoseConcentration: ConcentrationTherapeutic,
		LipidoseEfficiency:    0.95,
	}
}

// Adjustment records one out-of-range value that Clamp corrected.
type Adjustment struct {
	Field string
	From  string
	To    string
}

// LogValue implements slog.LogValuer.
func (a Adjustment) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("field", a.Field),
		slog.String("from", a.From),
		slog.String("to", a.To),
	)
}

// Clamp returns a copy of s with every field forced into its documented
// range, plus the list of corrections made. Clamping never fails.
func (s Settings) Clamp() (Settings, []Adjustment) {
	var adj []Adjustment

	clampInt := func(field string, v *int, lo, hi int) {
		c := min(max(*v, lo), hi)
		if c != *v {
			adj = append(adj, Adjustment{Field: field, From: strconv.Itoa(*v), To: strconv.Itoa(c)})
			*v = c
		}
	}
	clampFloat := func(field string, v *float64, lo, hi float64) {
		c := *v
		if c != c { // NaN
			c = lo
		}
		c = min(max(c, lo), hi)
		if c != *v {
			adj = append(adj, Adjustment{
				Field: field,
				From:  strconv.FormatFloat(*v, 'g', -1, 64),
				To:    strconv.FormatFloat(c, 'g', -1, 64),
			})
			*v = c
		}
	}
	clampLevel := func(field string, v *Level) {
		c := min(max(*v, LevelLow), LevelHigh)
		if c != *v {
			adj = append(adj, Adjustment{Field: field, From: v.String(), To: c.String()})
			*v = c
		}
	}

	clampInt("bacterial_load", &s.BacterialLoad, MinBacterialLoad, MaxBacterialLoad)
	clampFloat("replication_rate", &s.ReplicationRate, MinReplicationRate, MaxReplicationRate)
	clampLevel("endotoxin_release", &s.EndotoxinRelease)
	clampInt("wbc_count", &s.WBCCount, MinWBCCount, MaxWBCCount)
	clampFloat("wbc_effectiveness", &s.WBCEffectiveness, MinWBCEffectiveness, MaxWBCEffectiveness)
	clampLevel("inflammation_threshold", &s.InflammationThreshold)
	clampFloat("lipidose_efficiency", &s.LipidoseEfficiency, MinLipidoseEfficiency, MaxLipidoseEfficiency)

	if c := min(max(s.LipidoseConcentration, ConcentrationTherapeutic), ConcentrationHigh); c != s.LipidoseConcentration {
		adj = append(adj, Adjustment{Field: "lipidose_concentration", From: s.LipidoseConcentration.String(), To: c.String()})
		s.LipidoseConcentration = c
	}

	return s, adj
}

// LoadChanged reports whether the population-defining fields differ.
// A change here requires the particle store to be rebuilt.
func (s Settings) LoadChanged(other Settings) bool {
	return s.BacterialLoad != other.BacterialLoad || s.WBCCount != other.WBCCount
}

// YAML renders the settings as a config file fragment that Load accepts.
func (s Settings) YAML() (string, error) {
	data, err := yaml.Marshal(struct {
		Settings Settings `yaml:"settings"`
	}{s})
	if err != nil {
		return "", fmt.Errorf("marshaling settings: %w", err)
	}
	return string(data), nil
}
