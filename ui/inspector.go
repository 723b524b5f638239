package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/components"
	"github.com/pthm-cable/lipidose/renderer"
	"github.com/pthm-cable/lipidose/systems"
)

// InspectorData is the selected particle, resolved against the current
// snapshot. Exactly one of the view pointers is set.
type InspectorData struct {
	Kind        components.Kind
	Particle    *systems.ParticleView
	Bacterium   *systems.BacteriumView
	Endotoxin   *systems.EndotoxinView
	Therapeutic *systems.TherapeuticView
}

// Resolve builds inspector data for a selection. It fails once the
// particle has left the snapshot (engulfed, consumed or reset away).
func Resolve(snap *systems.Snapshot, sel systems.Picked) (InspectorData, bool) {
	if snap == nil {
		return InspectorData{}, false
	}
	p, ok := snap.Find(sel.Kind, sel.ID)
	if !ok {
		return InspectorData{}, false
	}
	d := InspectorData{Kind: sel.Kind}
	switch sel.Kind {
	case components.KindBacterium:
		d.Bacterium = &snap.Bacteria[p.Index]
		d.Particle = &d.Bacterium.ParticleView
	case components.KindEndotoxin:
		d.Endotoxin = &snap.Endotoxins[p.Index]
		d.Particle = &d.Endotoxin.ParticleView
	case components.KindWBC:
		d.Particle = &snap.WBCs[p.Index]
	case components.KindTherapeutic:
		d.Therapeutic = &snap.Therapeutics[p.Index]
		d.Particle = &d.Therapeutic.ParticleView
	}
	return d, true
}

func inspected(d any) InspectorData { return d.(InspectorData) }

// inspectorDescriptor lays out the particle inspector.
func inspectorDescriptor(width int32) PanelDescriptor {
	isKind := func(k components.Kind) func(any) bool {
		return func(d any) bool { return inspected(d).Kind == k }
	}
	return PanelDescriptor{
		ID:    "inspector",
		Title: "Inspector",
		Width: width,
		Sections: []SectionDescriptor{
			{
				ID: "identity",
				Fields: []FieldDescriptor{
					{
						ID: "kind", Label: "Kind", Widget: WidgetText,
						TextGetter:  func(d any) string { return inspected(d).Kind.String() },
						ColorGetter: func(d any) rl.Color { return kindColor(inspected(d)) },
					},
					{
						ID: "id", Label: "ID", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("#%d", inspected(d).Particle.ID) },
					},
					{
						ID: "position", Label: "Position", Widget: WidgetText,
						TextGetter: func(d any) string {
							p := inspected(d).Particle
							return fmt.Sprintf("(%.1f, %.1f)", p.X, p.Y)
						},
					},
					{
						ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.2f",
						Getter: func(d any) float32 {
							p := inspected(d).Particle
							return float32(math.Hypot(float64(p.VX), float64(p.VY)))
						},
					},
				},
			},
			{
				ID:      "bacterium",
				Title:   "Bacterium",
				Visible: isKind(components.KindBacterium),
				Fields: []FieldDescriptor{
					{
						ID: "replication_timer", Label: "Next Division", Widget: WidgetBar,
						Range:  FieldRange{Min: 0, Max: 150},
						Getter: func(d any) float32 { return inspected(d).Bacterium.ReplicationTimer },
					},
				},
			},
			{
				ID:      "endotoxin",
				Title:   "Endotoxin",
				Visible: isKind(components.KindEndotoxin),
				Fields: []FieldDescriptor{
					{
						ID: "bound", Label: "State", Widget: WidgetText,
						TextGetter: func(d any) string {
							if inspected(d).Endotoxin.Bound {
								return "bound"
							}
							return "free"
						},
						ColorGetter: func(d any) rl.Color { return kindColor(inspected(d)) },
					},
					{
						ID: "source", Label: "Emitted By", Widget: WidgetText,
						TextGetter: func(d any) string { return fmt.Sprintf("#%d", inspected(d).Endotoxin.SourceID) },
					},
					{
						ID: "bound_by", Label: "Bound By", Widget: WidgetText,
						Visible:    func(d any) bool { return inspected(d).Endotoxin.Bound },
						TextGetter: func(d any) string { return fmt.Sprintf("#%d", inspected(d).Endotoxin.BoundBy) },
					},
				},
			},
		},
	}
}

func kindColor(d InspectorData) rl.Color {
	switch d.Kind {
	case components.KindBacterium:
		return renderer.ColorBacterium
	case components.KindEndotoxin:
		if d.Endotoxin != nil && d.Endotoxin.Bound {
			return renderer.ColorBoundEndotoxin
		}
		return renderer.ColorFreeEndotoxin
	case components.KindTherapeutic:
		return renderer.ColorTherapeutic
	default:
		return renderer.ColorWBC
	}
}

// Inspector renders the particle inspection panel.
type Inspector struct {
	renderer   *Renderer
	desc       PanelDescriptor
	x, y       int32
	lastHeight int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		desc:     inspectorDescriptor(width),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for the given data.
func (ins *Inspector) Draw(data InspectorData) int32 {
	bottom := ins.renderer.DrawPanelDescriptor(ins.x, ins.y, ins.desc, data, ins.lastHeight)
	ins.lastHeight = bottom - ins.y
	return bottom
}
