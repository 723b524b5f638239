package viewer

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/game"
	"github.com/pthm-cable/lipidose/ui"
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.toggleRunning()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		v.reset()
	}

	// Ticks per frame with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && v.speed > 1 {
		v.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.speed < maxSpeed {
		v.speed++
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	for _, key := range v.overlays.Keys() {
		if rl.IsKeyPressed(key) {
			if id, on, ok := v.overlays.HandleKeyPress(key); ok {
				slog.Debug("overlay toggled", "overlay", id, "enabled", on)
			}
		}
	}

	v.handleCameraInput()
	v.handleSelection()
}

// handleResize keeps the perf panel anchored to the window corner.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.layout()
}

// handleCameraInput processes camera pan/zoom controls.
func (v *Viewer) handleCameraInput() {
	cam := v.camera

	panSpeed := float32(8.0)
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	mouse := rl.GetMousePosition()
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && cam.InViewport(mouse.X, mouse.Y) {
		cam.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		cam.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}

// handleSelection picks the particle under a left click; right click clears.
func (v *Viewer) handleSelection() {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.hasSelection = false
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if !v.camera.InViewport(mouse.X, mouse.Y) {
		return
	}
	wx, wy := v.camera.ScreenToWorld(mouse.X, mouse.Y)
	v.selection, v.hasSelection = v.game.Snapshot().Pick(wx, wy, pickRadius)
	if v.hasSelection {
		slog.Debug("particle selected", "particle", selectionLabel(v.selection.Kind, v.selection.ID))
	}
}

// applySettings carries out what the settings panel asked for.
func (v *Viewer) applySettings(act ui.SettingsAction) {
	if act.Changed {
		v.game.Reconfigure(act.Settings)
	}
	switch {
	case act.Start:
		v.toggleRunning()
	case act.Stop:
		v.toggleRunning()
	case act.Reset:
		v.reset()
	}
	if act.CopyYAML {
		text, err := v.game.Settings().YAML()
		if err != nil {
			slog.Error("copying settings", "error", err)
			return
		}
		rl.SetClipboardText(text)
		slog.Info("settings copied to clipboard")
	}
}

func (v *Viewer) toggleRunning() {
	if v.game.State() == game.StateRunning {
		v.game.Stop()
		return
	}
	if err := v.game.Start(); err != nil {
		slog.Warn("start failed", "error", err)
	}
}

// reset stops the game and rebuilds the initial layout.
func (v *Viewer) reset() {
	v.game.Stop()
	v.game.Initialize(v.game.Settings())
	v.hasSelection = false
}
