package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lipidose/config"
)

// SettingsAction is what the settings panel asks of the game this frame.
type SettingsAction struct {
	Settings config.Settings
	Changed  bool // Settings differ from the input
	Start    bool
	Stop     bool
	Reset    bool
	CopyYAML bool
}

// SettingsPanel renders the simulation controls with raygui widgets.
type SettingsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewSettingsPanel creates a new settings panel.
func NewSettingsPanel(x, y, width int32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *SettingsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Height is the panel's fixed height.
func (p *SettingsPanel) Height() int32 {
	return 380
}

// Draw renders the controls for settings and reports the user's edits.
func (p *SettingsPanel) Draw(settings config.Settings, running bool) SettingsAction {
	r := p.renderer
	act := SettingsAction{Settings: settings}
	s := &act.Settings

	r.DrawPanel(p.x, p.y, p.width, p.Height())

	pad := float32(r.Theme.Padding)
	x := float32(p.x) + pad
	y := float32(p.y) + pad
	inner := float32(p.width) - 2*pad
	labelW := float32(150)
	sliderW := inner - labelW - 40

	rl.DrawText("Infection Parameters", int32(x), int32(y), r.Theme.HeaderFontSize+2, rl.White)
	y += 26

	slider := func(label string, value, lo, hi float32, format string) float32 {
		rl.DrawText(label, int32(x), int32(y)+4, r.Theme.FontSize, r.Theme.LabelColor)
		v := gui.SliderBar(
			rl.Rectangle{X: x + labelW, Y: y, Width: sliderW, Height: 20},
			"", fmt.Sprintf(format, value),
			value, lo, hi,
		)
		y += 26
		return v
	}
	intSlider := func(label string, v *int, lo, hi int) {
		nv := int(math.Round(float64(slider(label, float32(*v), float32(lo), float32(hi), "%.0f"))))
		if nv != *v {
			*v = nv
			act.Changed = true
		}
	}
	floatSlider := func(label string, v *float64, lo, hi float64, format string) {
		nv := float64(slider(label, float32(*v), float32(lo), float32(hi), format))
		// Round to the slider's displayed precision so repeated frames are stable.
		nv = math.Round(nv*100) / 100
		if nv != *v {
			*v = nv
			act.Changed = true
		}
	}
	choice := func(label string, options []string, active int) int {
		rl.DrawText(label, int32(x), int32(y)+4, r.Theme.FontSize, r.Theme.LabelColor)
		bw := (inner - labelW) / float32(len(options))
		for i, opt := range options {
			rect := rl.Rectangle{X: x + labelW + float32(i)*bw, Y: y, Width: bw - 4, Height: 20}
			if gui.Button(rect, opt) {
				active = i
			}
			if i == active {
				rl.DrawRectangleLinesEx(rect, 2, rl.SkyBlue)
			}
		}
		y += 26
		return active
	}
	level := func(label string, v *config.Level) {
		nv := config.Level(choice(label, []string{"Low", "Medium", "High"}, int(*v)-1) + 1)
		if nv != *v {
			*v = nv
			act.Changed = true
		}
	}

	intSlider("Bacterial Load", &s.BacterialLoad, config.MinBacterialLoad, config.MaxBacterialLoad)
	floatSlider("Replication Rate", &s.ReplicationRate, config.MinReplicationRate, config.MaxReplicationRate, "%.1f")
	level("Endotoxin Release", &s.EndotoxinRelease)

	y += 6
	rl.DrawText("Immune Response", int32(x), int32(y), r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += 22
	intSlider("WBC Count", &s.WBCCount, config.MinWBCCount, config.MaxWBCCount)
	floatSlider("WBC Effectiveness", &s.WBCEffectiveness, config.MinWBCEffectiveness, config.MaxWBCEffectiveness, "%.2f")
	level("Inflammation Threshold", &s.InflammationThreshold)

	y += 6
	rl.DrawText("LIPIDOSE Intervention", int32(x), int32(y), r.Theme.HeaderFontSize, rl.SkyBlue)
	y += 22
	on := 0
	if s.IntroduceLipidose {
		on = 1
	}
	if nv := choice("Introduce Lipidose", []string{"Off", "On"}, on) == 1; nv != s.IntroduceLipidose {
		s.IntroduceLipidose = nv
		act.Changed = true
	}
	conc := config.Concentration(choice("Concentration", []string{"Therapeutic", "High"}, int(s.LipidoseConcentration)-1) + 1)
	if conc != s.LipidoseConcentration {
		s.LipidoseConcentration = conc
		act.Changed = true
	}
	floatSlider("Binding Efficiency", &s.LipidoseEfficiency, config.MinLipidoseEfficiency, config.MaxLipidoseEfficiency, "%.2f")

	// Buttons
	y += 8
	bw := (inner - 8) / 3
	label := "Start"
	if running {
		label = "Stop"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: 30}, label) {
		if running {
			act.Stop = true
		} else {
			act.Start = true
		}
	}
	if gui.Button(rl.Rectangle{X: x + bw + 4, Y: y, Width: bw, Height: 30}, "Reset") {
		act.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + 2*(bw+4), Y: y, Width: bw, Height: 30}, "Copy YAML") {
		act.CopyYAML = true
	}

	return act
}

// ControlsPanel renders the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	totalItems := 0
	for _, cat := range categories {
		totalItems += len(overlays.ByCategory(cat)) + 1
	}
	panelHeight := int32(totalItems)*lineHeight + padding*3 + lineHeight

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}

		y += 4
	}

	return y
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)

	nameColor := r.Theme.LabelColor
	if enabled {
		nameColor = rl.White
	}
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

// categoryLabel returns a display label for a category.
func categoryLabel(cat string) string {
	switch cat {
	case "populations":
		return "Populations"
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
