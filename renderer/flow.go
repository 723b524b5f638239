package renderer

import (
	"math"
	"math/rand/v2"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/camera"
)

// bloodCell is one decorative red cell carried by the flow.
type bloodCell struct {
	X, Y  float32
	Speed float32
	Phase float32
}

// FlowRenderer animates red blood cells drifting downstream. The cells are
// decoration only and never interact with the simulation.
type FlowRenderer struct {
	cells          []bloodCell
	worldW, worldH float32
}

// NewFlowRenderer creates count blood cells spread across the vessel.
func NewFlowRenderer(worldW, worldH float32, count int) *FlowRenderer {
	rng := rand.New(rand.NewPCG(0xb100d, uint64(count)))
	r := &FlowRenderer{worldW: worldW, worldH: worldH}
	r.cells = make([]bloodCell, count)
	for i := range r.cells {
		r.cells[i] = bloodCell{
			X:     rng.Float32() * worldW,
			Y:     rng.Float32() * worldH,
			Speed: 0.4 + rng.Float32()*0.4,
			Phase: rng.Float32() * 2 * math.Pi,
		}
	}
	return r
}

// Update advances the flow by one frame.
func (r *FlowRenderer) Update() {
	for i := range r.cells {
		c := &r.cells[i]
		c.X += c.Speed
		if c.X > r.worldW+10 {
			c.X = -10
		}
	}
}

// Draw renders the blood cells with a gentle wobble.
func (r *FlowRenderer) Draw(cam *camera.Camera, frame int64) {
	color := rl.Color{R: 255, G: 0, B: 0, A: 26}
	radius := cam.Scale(10)
	for i := range r.cells {
		c := &r.cells[i]
		y := c.Y + float32(math.Sin(float64(frame)*0.02+float64(c.Phase)))*2
		if !cam.IsVisible(c.X, y, 10) {
			continue
		}
		sx, sy := cam.WorldToScreen(c.X, y)
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, color)
	}
}
