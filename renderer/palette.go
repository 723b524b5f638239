// Package renderer draws the vessel view with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/telemetry"
)

// Population colors.
var (
	ColorBacterium      = rl.Color{R: 148, G: 0, B: 211, A: 255}
	ColorFreeEndotoxin  = rl.Color{R: 255, G: 0, B: 0, A: 255}
	ColorBoundEndotoxin = rl.Color{R: 0, G: 255, B: 0, A: 255}
	ColorWBC            = rl.Color{R: 255, G: 255, B: 224, A: 255}
	ColorTherapeutic    = rl.Color{R: 0, G: 255, B: 255, A: 255}
	ColorCatheter       = rl.Color{R: 85, G: 85, B: 85, A: 255}
	ColorVessel         = rl.Color{R: 26, G: 0, B: 0, A: 255}
)

// Particle radii in world units.
const (
	RadiusWBC            = 8
	RadiusTherapeutic    = 5
	RadiusBoundEndotoxin = 4
	RadiusFreeEndotoxin  = 2
	BacteriumLength      = 8
	BacteriumWidth       = 4
)

// StatusColor returns the display color for a patient status.
func StatusColor(s telemetry.PatientStatus) rl.Color {
	switch s {
	case telemetry.StatusCritical:
		return rl.Red
	case telemetry.StatusSevere:
		return rl.Orange
	case telemetry.StatusModerate:
		return rl.Yellow
	case telemetry.StatusImproving:
		return rl.Green
	default:
		return rl.White
	}
}

// InflammationColor shades from green at 0 to red at 100.
func InflammationColor(index int) rl.Color {
	index = min(max(index, 0), 100)
	return rl.ColorFromHSV(float32(100-index), 1, 1)
}
