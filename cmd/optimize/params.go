package main

import (
	"math"

	"github.com/pthm-cable/lipidose/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded before it is applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of therapeutic parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "speed", Path: "therapeutic.speed", Min: 0.5, Max: 3.0, Default: 1.8},
			{Name: "drift", Path: "therapeutic.drift", Min: 0.1, Max: 1.5, Default: 0.8},
			{Name: "seek_radius", Path: "therapeutic.seek_radius", Min: 30, Max: 300, Default: 150},
			{Name: "bind_radius", Path: "therapeutic.bind_radius", Min: 2, Max: 12, Default: 6},
			{Name: "spawn_per_tick", Path: "therapeutic.spawn_per_tick", Min: 1, Max: 10, Default: 3, Integer: true},
			{Name: "target_therapeutic", Path: "therapeutic.target_therapeutic", Min: 10, Max: 200, Default: 50, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds, rounding integer parameters.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := min(max(v[i], spec.Min), spec.Max)
		if spec.Integer {
			val = math.Round(val)
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)
	tc := &cfg.Therapeutic

	tc.Speed = c[0]
	tc.Drift = c[1]
	tc.SeekRadius = c[2]
	tc.BindRadius = c[3]
	tc.SpawnPerTick = int(c[4])
	tc.TargetTherapeutic = int(c[5])
	// High concentration keeps its ratio to the therapeutic dose.
	tc.TargetHigh = 3 * tc.TargetTherapeutic
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	tc := &cfg.Therapeutic
	return []float64{
		tc.Speed,
		tc.Drift,
		tc.SeekRadius,
		tc.BindRadius,
		float64(tc.SpawnPerTick),
		float64(tc.TargetTherapeutic),
	}
}
