package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/camera"
	"github.com/pthm-cable/lipidose/config"
)

// VesselRenderer renders the blood vessel background, its walls and the
// catheter.
type VesselRenderer struct {
	shader          rl.Shader
	timeLoc         int32
	resolutionLoc   int32
	screenHeightLoc int32
	cameraPosLoc    int32
	cameraZoomLoc   int32
	worldSizeLoc    int32
	viewOffsetLoc   int32
	inflammationLoc int32

	catheter rl.Rectangle // world coordinates

	initialized bool
}

// NewVesselRenderer creates a new vessel renderer.
// The catheter body is drawn as a 20x100 block ending at the catheter tip.
func NewVesselRenderer(cfg *config.Config) *VesselRenderer {
	cat := cfg.Catheter
	return &VesselRenderer{
		catheter: rl.Rectangle{
			X:      float32(cat.X) - 10,
			Y:      float32(cat.Y) - 50,
			Width:  20,
			Height: 100,
		},
	}
}

// Init initializes the renderer (must be called after raylib window is created).
func (v *VesselRenderer) Init() {
	if v.initialized {
		return
	}

	v.shader = rl.LoadShader("", "shaders/vessel.fs")
	v.timeLoc = rl.GetShaderLocation(v.shader, "time")
	v.resolutionLoc = rl.GetShaderLocation(v.shader, "resolution")
	v.screenHeightLoc = rl.GetShaderLocation(v.shader, "screenHeight")
	v.cameraPosLoc = rl.GetShaderLocation(v.shader, "cameraPos")
	v.cameraZoomLoc = rl.GetShaderLocation(v.shader, "cameraZoom")
	v.worldSizeLoc = rl.GetShaderLocation(v.shader, "worldSize")
	v.viewOffsetLoc = rl.GetShaderLocation(v.shader, "viewOffset")
	v.inflammationLoc = rl.GetShaderLocation(v.shader, "inflammation")

	v.initialized = true
}

// Draw renders the vessel. inflammation is the current index in [0, 100]
// and tints the plasma.
func (v *VesselRenderer) Draw(cam *camera.Camera, time float32, inflammation int) {
	if !v.initialized {
		v.Init()
	}

	rl.SetShaderValue(v.shader, v.timeLoc, []float32{time}, rl.ShaderUniformFloat)
	rl.SetShaderValue(v.shader, v.resolutionLoc, []float32{cam.ViewportW, cam.ViewportH}, rl.ShaderUniformVec2)
	rl.SetShaderValue(v.shader, v.screenHeightLoc, []float32{float32(rl.GetScreenHeight())}, rl.ShaderUniformFloat)
	rl.SetShaderValue(v.shader, v.cameraPosLoc, []float32{cam.X, cam.Y}, rl.ShaderUniformVec2)
	rl.SetShaderValue(v.shader, v.cameraZoomLoc, []float32{cam.Zoom}, rl.ShaderUniformFloat)
	rl.SetShaderValue(v.shader, v.worldSizeLoc, []float32{cam.WorldW, cam.WorldH}, rl.ShaderUniformVec2)
	rl.SetShaderValue(v.shader, v.viewOffsetLoc, []float32{cam.OffsetX, cam.OffsetY}, rl.ShaderUniformVec2)
	rl.SetShaderValue(v.shader, v.inflammationLoc, []float32{float32(inflammation) / 100}, rl.ShaderUniformFloat)

	rl.BeginShaderMode(v.shader)
	rl.DrawRectangleV(
		rl.Vector2{X: cam.OffsetX, Y: cam.OffsetY},
		rl.Vector2{X: cam.ViewportW, Y: cam.ViewportH},
		ColorVessel,
	)
	rl.EndShaderMode()
}

// DrawCatheter renders the catheter over the background.
func (v *VesselRenderer) DrawCatheter(cam *camera.Camera) {
	x, y := cam.WorldToScreen(v.catheter.X, v.catheter.Y)
	rl.DrawRectangleRec(rl.Rectangle{
		X:      x,
		Y:      y,
		Width:  cam.Scale(v.catheter.Width),
		Height: cam.Scale(v.catheter.Height),
	}, ColorCatheter)
}

// DrawBorder outlines the visible vessel area.
func (v *VesselRenderer) DrawBorder(cam *camera.Camera) {
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      cam.OffsetX,
		Y:      cam.OffsetY,
		Width:  cam.ViewportW,
		Height: cam.ViewportH,
	}, 1, rl.Color{R: 90, G: 20, B: 20, A: 255})
}

// Unload frees resources.
func (v *VesselRenderer) Unload() {
	if v.initialized {
		rl.UnloadShader(v.shader)
		v.initialized = false
	}
}
