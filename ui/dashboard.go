package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/renderer"
	"github.com/pthm-cable/lipidose/telemetry"
)

// stat adapts a Stats getter to the descriptor signature.
func stat(get func(telemetry.Stats) int) func(any) float32 {
	return func(d any) float32 { return float32(get(d.(telemetry.Stats))) }
}

func statText(get func(telemetry.Stats) int) func(any) string {
	return func(d any) string { return strconv.Itoa(get(d.(telemetry.Stats))) }
}

func fixedColor(c rl.Color) func(any) rl.Color {
	return func(any) rl.Color { return c }
}

// DashboardDescriptor lays out the live statistics panel.
func DashboardDescriptor(width int32) PanelDescriptor {
	return PanelDescriptor{
		ID:    "dashboard",
		Title: "Real-Time Statistics",
		Width: width,
		Sections: []SectionDescriptor{
			{
				ID: "patient",
				Fields: []FieldDescriptor{
					{
						ID:     "status",
						Label:  "Patient Status",
						Widget: WidgetText,
						TextGetter: func(d any) string {
							return strings.ToUpper(d.(telemetry.Stats).PatientStatus.String())
						},
						ColorGetter: func(d any) rl.Color {
							return renderer.StatusColor(d.(telemetry.Stats).PatientStatus)
						},
					},
					{
						ID:     "inflammation",
						Label:  "Inflammation Index",
						Widget: WidgetLevelBar,
						Range:  FieldRange{Min: 0, Max: 100},
						Getter: stat(func(s telemetry.Stats) int { return s.InflammationIndex }),
						ColorGetter: func(d any) rl.Color {
							return renderer.InflammationColor(d.(telemetry.Stats).InflammationIndex)
						},
					},
				},
			},
			{
				ID:    "populations",
				Title: "Populations",
				Fields: []FieldDescriptor{
					{
						ID:          "bacteria",
						Label:       "Bacterial Count",
						Widget:      WidgetText,
						TextGetter:  statText(func(s telemetry.Stats) int { return s.BacterialCount }),
						ColorGetter: fixedColor(renderer.ColorBacterium),
					},
					{
						ID:          "free_endotoxin",
						Label:       "Free Endotoxin (LPS)",
						Widget:      WidgetText,
						TextGetter:  statText(func(s telemetry.Stats) int { return s.FreeEndotoxin }),
						ColorGetter: fixedColor(renderer.ColorFreeEndotoxin),
					},
					{
						ID:          "bound_endotoxin",
						Label:       "Bound Endotoxin (Safe)",
						Widget:      WidgetText,
						TextGetter:  statText(func(s telemetry.Stats) int { return s.BoundEndotoxin }),
						ColorGetter: fixedColor(renderer.ColorBoundEndotoxin),
					},
					{
						ID:         "wbcs",
						Label:      "Active WBCs",
						Widget:     WidgetText,
						TextGetter: statText(func(s telemetry.Stats) int { return s.WBCCount }),
					},
					{
						ID:          "therapeutics",
						Label:       "Lipidose Particles",
						Widget:      WidgetText,
						TextGetter:  statText(func(s telemetry.Stats) int { return s.TherapeuticCount }),
						ColorGetter: fixedColor(renderer.ColorTherapeutic),
						Visible:     func(d any) bool { return d.(telemetry.Stats).TherapeuticCount > 0 },
					},
					{
						ID:     "time",
						Label:  "Time Elapsed",
						Widget: WidgetText,
						TextGetter: func(d any) string {
							return strconv.Itoa(int(d.(telemetry.Stats).Time))
						},
					},
				},
			},
		},
	}
}

// Dashboard renders the live statistics panel.
type Dashboard struct {
	renderer   *Renderer
	desc       PanelDescriptor
	x, y       int32
	lastHeight int32
}

// NewDashboard creates a dashboard at the given position.
func NewDashboard(x, y, width int32) *Dashboard {
	return &Dashboard{
		renderer: NewRenderer(),
		desc:     DashboardDescriptor(width),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (d *Dashboard) SetPosition(x, y int32) {
	d.x = x
	d.y = y
}

// Draw renders the dashboard and returns the Y below it.
func (d *Dashboard) Draw(stats telemetry.Stats) int32 {
	bottom := d.renderer.DrawPanelDescriptor(d.x, d.y, d.desc, stats, d.lastHeight)
	d.lastHeight = bottom - d.y
	return bottom
}
