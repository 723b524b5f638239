package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/camera"
	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/systems"
)

// Layers selects what the particle renderer draws.
type Layers struct {
	Bacteria       bool
	FreeEndotoxin  bool
	BoundEndotoxin bool
	WBCs           bool
	Therapeutics   bool
	Velocity       bool // motion vectors, scaled for visibility
	Grid           bool // spatial index cells
}

// AllLayers enables every population and no debug layer.
func AllLayers() Layers {
	return Layers{
		Bacteria:       true,
		FreeEndotoxin:  true,
		BoundEndotoxin: true,
		WBCs:           true,
		Therapeutics:   true,
	}
}

// ParticleRenderer renders a particle snapshot.
type ParticleRenderer struct {
	cellSize float32
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer(cellSize float32) *ParticleRenderer {
	return &ParticleRenderer{cellSize: cellSize}
}

// Draw renders the snapshot back to front: WBCs, bacteria, free toxin,
// therapeutics, then bound complexes on top.
func (r *ParticleRenderer) Draw(snap *systems.Snapshot, cam *camera.Camera, layers Layers) {
	if snap == nil {
		return
	}

	if layers.Grid {
		r.drawGrid(cam)
	}

	if layers.WBCs {
		for i := range snap.WBCs {
			p := &snap.WBCs[i]
			circle(cam, p.X, p.Y, RadiusWBC, ColorWBC)
		}
	}

	if layers.Bacteria {
		w, h := cam.Scale(BacteriumLength), cam.Scale(BacteriumWidth)
		for i := range snap.Bacteria {
			b := &snap.Bacteria[i]
			if !b.Alive || !cam.IsVisible(b.X, b.Y, BacteriumLength) {
				continue
			}
			sx, sy := cam.WorldToScreen(b.X, b.Y)
			// Rod-shaped, drawn at 45 degrees.
			rl.DrawRectanglePro(
				rl.Rectangle{X: sx, Y: sy, Width: w, Height: h},
				rl.Vector2{X: w / 2, Y: h / 2},
				45,
				ColorBacterium,
			)
		}
	}

	if layers.FreeEndotoxin {
		for i := range snap.Endotoxins {
			e := &snap.Endotoxins[i]
			if !e.Bound {
				circle(cam, e.X, e.Y, RadiusFreeEndotoxin, ColorFreeEndotoxin)
			}
		}
	}

	if layers.Therapeutics {
		for i := range snap.Therapeutics {
			p := &snap.Therapeutics[i]
			if p.Active {
				circle(cam, p.X, p.Y, RadiusTherapeutic, ColorTherapeutic)
			}
		}
	}

	if layers.BoundEndotoxin {
		for i := range snap.Endotoxins {
			e := &snap.Endotoxins[i]
			if e.Bound {
				circle(cam, e.X, e.Y, RadiusBoundEndotoxin, ColorBoundEndotoxin)
			}
		}
	}

	if layers.Velocity {
		r.drawVelocities(snap, cam)
	}
}

// DrawSelection rings the selected particle.
func (r *ParticleRenderer) DrawSelection(snap *systems.Snapshot, cam *camera.Camera, sel systems.Picked) {
	x, y, ok := position(snap, sel)
	if !ok {
		return
	}
	sx, sy := cam.WorldToScreen(x, y)
	rl.DrawCircleLinesV(rl.Vector2{X: sx, Y: sy}, cam.Scale(RadiusWBC+4), rl.White)
}

func (r *ParticleRenderer) drawGrid(cam *camera.Camera) {
	color := rl.Color{R: 255, G: 255, B: 255, A: 20}
	for x := float32(0); x <= cam.WorldW; x += r.cellSize {
		x0, y0 := cam.WorldToScreen(x, 0)
		_, y1 := cam.WorldToScreen(x, cam.WorldH)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x0, Y: y1}, color)
	}
	for y := float32(0); y <= cam.WorldH; y += r.cellSize {
		x0, y0 := cam.WorldToScreen(0, y)
		x1, _ := cam.WorldToScreen(cam.WorldW, y)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y0}, color)
	}
}

func (r *ParticleRenderer) drawVelocities(snap *systems.Snapshot, cam *camera.Camera) {
	const scale = 10
	line := func(p *systems.ParticleView, color rl.Color) {
		if p.VX == 0 && p.VY == 0 {
			return
		}
		x0, y0 := cam.WorldToScreen(p.X, p.Y)
		x1, y1 := cam.WorldToScreen(p.X+p.VX*scale, p.Y+p.VY*scale)
		rl.DrawLineV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, color)
	}
	for i := range snap.Bacteria {
		line(&snap.Bacteria[i].ParticleView, ColorBacterium)
	}
	for i := range snap.WBCs {
		line(&snap.WBCs[i], ColorWBC)
	}
	for i := range snap.Therapeutics {
		line(&snap.Therapeutics[i].ParticleView, ColorTherapeutic)
	}
}

func circle(cam *camera.Camera, x, y, radius float32, color rl.Color) {
	if !cam.IsVisible(x, y, radius) {
		return
	}
	sx, sy := cam.WorldToScreen(x, y)
	rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, cam.Scale(radius), color)
}

// position looks up the world position of a picked particle.
func position(snap *systems.Snapshot, sel systems.Picked) (x, y float32, ok bool) {
	var p *systems.ParticleView
	switch sel.Kind {
	case components.KindBacterium:
		if sel.Index < len(snap.Bacteria) {
			p = &snap.Bacteria[sel.Index].ParticleView
		}
	case components.KindEndotoxin:
		if sel.Index < len(snap.Endotoxins) {
			p = &snap.Endotoxins[sel.Index].ParticleView
		}
	case components.KindWBC:
		if sel.Index < len(snap.WBCs) {
			p = &snap.WBCs[sel.Index]
		}
	case components.KindTherapeutic:
		if sel.Index < len(snap.Therapeutics) {
			p = &snap.Therapeutics[sel.Index].ParticleView
		}
	}
	if p == nil || p.ID != sel.ID {
		return 0, 0, false
	}
	return p.X, p.Y, true
}
