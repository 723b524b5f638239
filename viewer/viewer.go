// Package viewer is the interactive raylib front end: it drives a game from
// the window loop and draws the vessel, dashboard and controls.
package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/camera"
	"github.com/pthm-cable/lipidose/game"
	"github.com/pthm-cable/lipidose/renderer"
	"github.com/pthm-cable/lipidose/systems"
	"github.com/pthm-cable/lipidose/ui"
)

// Layout constants in screen pixels.
const (
	margin     = 10
	viewTop    = 56
	panelWidth = 370
	maxSpeed   = 10
	pickRadius = 10 // world units
)

// Viewer owns the window-side state for one game.
type Viewer struct {
	game *game.Game

	screenWidth, screenHeight float32

	camera    *camera.Camera
	vessel    *renderer.VesselRenderer
	flow      *renderer.FlowRenderer
	particles *renderer.ParticleRenderer

	hud        *ui.HUD
	dashboard  *ui.Dashboard
	settings   *ui.SettingsPanel
	controls   *ui.ControlsPanel
	inspector  *ui.Inspector
	perfPanel  *ui.PerfPanel
	overlays   *ui.OverlayRegistry
	maxTickCap int32

	speed        int
	frames       int64
	selection    systems.Picked
	hasSelection bool
}

// New creates a viewer. The raylib window must already be open.
// maxTicks > 0 stops the game once that tick is reached.
func New(g *game.Game, maxTicks int32) *Viewer {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())

	cam := camera.New(cfg.Derived.WorldW32, cfg.Derived.WorldH32, cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	cam.SetOffset(margin, viewTop)

	v := &Viewer{
		game:         g,
		screenWidth:  w,
		screenHeight: h,
		camera:       cam,
		vessel:       renderer.NewVesselRenderer(cfg),
		flow:         renderer.NewFlowRenderer(cfg.Derived.WorldW32, cfg.Derived.WorldH32, 50),
		particles:    renderer.NewParticleRenderer(cfg.Derived.CellSize32),
		hud:          ui.NewHUD(),
		overlays:     ui.NewOverlayRegistry(),
		maxTickCap:   maxTicks,
		speed:        1,
	}
	v.settings = ui.NewSettingsPanel(0, 0, panelWidth)
	v.controls = ui.NewControlsPanel(0, 0, panelWidth)
	v.dashboard = ui.NewDashboard(0, 0, 400)
	v.inspector = ui.NewInspector(0, 0, 300)
	v.perfPanel = ui.NewPerfPanel(0, 0)
	v.layout()
	return v
}

// layout positions the panels around the vessel view.
func (v *Viewer) layout() {
	right := int32(v.camera.OffsetX+v.camera.ViewportW) + margin
	below := int32(v.camera.OffsetY+v.camera.ViewportH) + margin

	v.settings.SetPosition(right, margin)
	v.controls.SetPosition(right, margin+v.settings.Height()+margin)
	v.dashboard.SetPosition(margin, below)
	v.inspector.SetPosition(margin+400+margin, below)
	v.perfPanel.SetPosition(int32(v.screenWidth)-250, int32(v.screenHeight)-170)
}

// Run drives the window loop until the window closes.
func (v *Viewer) Run() {
	defer v.vessel.Unload()

	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()
	}
}

// Update handles input and advances the simulation by the current speed.
func (v *Viewer) Update() {
	v.frames++
	v.handleInput()

	if v.overlays.IsEnabled(ui.OverlayBloodFlow) {
		v.flow.Update()
	}

	if v.game.State() != game.StateRunning {
		return
	}
	for i := 0; i < v.speed; i++ {
		if err := v.game.Tick(); err != nil {
			slog.Warn("tick failed", "error", err)
			return
		}
		if v.maxTickCap > 0 && v.game.Stats().Time >= v.maxTickCap {
			slog.Info("max ticks reached", "tick", v.game.Stats().Time)
			v.game.Stop()
			return
		}
	}
}
