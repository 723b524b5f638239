package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/systems"
	"github.com/pthm-cable/lipidose/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	State    string
	Tick     int32
	Speed    int // ticks per frame
	FPS      int32
	Zoom     float32
	Selected string // description of the inspected particle, if any
}

// HUD renders the main heads-up display above the vessel view.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 8, 20, rl.White)

	stateColor := rl.Yellow
	if data.State == "running" {
		stateColor = rl.Green
	}
	titleW := rl.MeasureText(data.Title, 20)
	rl.DrawText(fmt.Sprintf("[%s]", data.State), 20+titleW, 11, 16, stateColor)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d | Zoom: %.1fx", data.Tick, data.Speed, data.FPS, data.Zoom),
		10, 32, 14, rl.LightGray,
	)

	if data.Selected != "" {
		rl.DrawText("Inspecting "+data.Selected, 520, 32, 14, rl.SkyBlue)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 14, rl.Gray)
}

// PerfPanel renders the tick phase timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	phases   []string
	registry *systems.SystemRegistry
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		phases:   telemetry.Phases(),
		registry: systems.NewSystemRegistry(),
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	p.renderer.DrawPanel(x-6, y-6, 250, int32(len(p.phases))*14+48)

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s | %.0f ticks/s", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond),
		x, y, 12, rl.Yellow,
	)
	y += 16

	for _, name := range p.phases {
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-14s %7s %5.1f%%", p.registry.GetName(name), stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
