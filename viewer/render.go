package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/game"
	"github.com/pthm-cable/lipidose/ui"
)

const controlsLegend = "SPACE start/stop | R reset | < > speed | TAB overlays | 1-5 populations | " +
	"arrows/wheel camera | HOME fit | click inspect"

// Draw renders one frame and applies the settings panel's edits.
func (v *Viewer) Draw() {
	frame := v.game.Frame()
	stats := frame.Stats
	running := v.game.State() == game.StateRunning

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 12, G: 12, B: 16, A: 255})

	// Vessel view, clipped to its viewport.
	cam := v.camera
	rl.BeginScissorMode(int32(cam.OffsetX), int32(cam.OffsetY), int32(cam.ViewportW), int32(cam.ViewportH))
	v.vessel.Draw(cam, float32(v.frames)/60, stats.InflammationIndex)
	if v.overlays.IsEnabled(ui.OverlayBloodFlow) {
		v.flow.Draw(cam, v.frames)
	}
	v.vessel.DrawCatheter(cam)
	v.particles.Draw(frame.Snapshot, cam, v.overlays.Layers())
	if v.hasSelection {
		v.particles.DrawSelection(frame.Snapshot, cam, v.selection)
	}
	rl.EndScissorMode()
	v.vessel.DrawBorder(cam)

	// Panels
	v.hud.Draw(ui.HUDData{
		Title:    "Lipidose CRBSI Simulation",
		State:    v.game.State().String(),
		Tick:     stats.Time,
		Speed:    v.speed,
		FPS:      rl.GetFPS(),
		Zoom:     cam.Zoom,
		Selected: v.selectedLabel(),
	})
	v.dashboard.Draw(stats)

	if v.hasSelection {
		if data, ok := ui.Resolve(frame.Snapshot, v.selection); ok {
			v.inspector.Draw(data)
		} else {
			v.hasSelection = false
		}
	}

	act := v.settings.Draw(v.game.Settings(), running)
	v.controls.Draw(v.overlays)

	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perfPanel.Draw(v.game.PerfStats())
	}

	v.hud.DrawControls(int32(v.screenHeight), controlsLegend)
	if !running && stats.Time == 0 {
		v.drawIdleHint()
	}

	rl.EndDrawing()

	v.applySettings(act)
}

// drawIdleHint prompts the user before the first tick.
func (v *Viewer) drawIdleHint() {
	text := "Adjust parameters, then press Start"
	size := int32(20)
	w := rl.MeasureText(text, size)
	x := int32(v.camera.OffsetX+v.camera.ViewportW/2) - w/2
	y := int32(v.camera.OffsetY + v.camera.ViewportH - 40)
	rl.DrawText(text, x, y, size, rl.Fade(rl.White, 0.8))
}

// selectedLabel names the inspected particle, or "" when nothing is.
func (v *Viewer) selectedLabel() string {
	if !v.hasSelection {
		return ""
	}
	return selectionLabel(v.selection.Kind, v.selection.ID)
}

func selectionLabel(kind components.Kind, id uint64) string {
	return fmt.Sprintf("%s #%d", kind, id)
}
