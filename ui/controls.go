package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/constellation/renderer"
	"github.com/pthm-cable/constellation/systems"
)

// Slider ranges for the tuning panel.
const (
	maxRepulsionRadius   = 400
	maxRepulsionStrength = 1
	minDamping           = 0.9
	maxConnectionRadius  = 250
)

// ControlsAction reports what the user asked for this frame.
type ControlsAction struct {
	Reseed bool
	Reset  bool
}

// ControlsPanel renders the left-side panel with live tuning sliders and
// overlay toggles.
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

// SetVisible shows or hides the panel.
func (c *ControlsPanel) SetVisible(visible bool) {
	c.visible = visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the visible panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return rl.CheckCollisionPointRec(rl.Vector2{X: x, Y: y}, rl.Rectangle{
		X:      float32(c.x),
		Y:      float32(c.y),
		Width:  float32(c.width),
		Height: float32(c.height(nil)),
	})
}

func (c *ControlsPanel) height(overlays *OverlayRegistry) int32 {
	r := c.renderer
	sliders := int32(5)
	h := r.Theme.Padding*3 + r.Theme.LineHeight + sliders*(r.Theme.LineHeight+26) + 40
	if overlays != nil {
		for _, cat := range overlays.Categories() {
			h += r.Theme.LineHeight * int32(len(overlays.ByCategory(cat))+1)
		}
	} else {
		h += r.Theme.LineHeight * 6
	}
	return h
}

// Draw renders the panel and writes slider changes straight into physics
// and style. Changes take effect on the next tick.
func (c *ControlsPanel) Draw(physics *systems.PhysicsParams, style *renderer.Style, overlays *OverlayRegistry) ControlsAction {
	var action ControlsAction
	if !c.visible {
		return action
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	r.DrawPanel(c.x, c.y, c.width, c.height(overlays))

	x := float32(c.x + padding)
	y := c.y + padding
	sliderWidth := float32(c.width - padding*2 - 60)

	rl.DrawText("Field Tuning", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	slider := func(label string, value *float32, min, max float32, format string) {
		rl.DrawText(label, int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
		y += lineHeight
		*value = gui.SliderBar(
			rl.Rectangle{X: x + 30, Y: float32(y), Width: sliderWidth - 30, Height: 16},
			"", "",
			*value, min, max,
		)
		rl.DrawText(fmt.Sprintf(format, *value), int32(x+sliderWidth+6), y+2, r.Theme.FontSize, r.Theme.ValueColor)
		y += 26
	}

	slider("Repulsion radius", &physics.RepulsionRadius, 0, maxRepulsionRadius, "%.0f")
	slider("Repulsion strength", &physics.RepulsionStrength, 0, maxRepulsionStrength, "%.2f")
	slider("Damping", &physics.Damping, minDamping, 1, "%.3f")
	slider("Connection radius", &style.Connections.Radius, 0, maxConnectionRadius, "%.0f")
	slider("Particle opacity", &style.ParticleOpacity, 0, 1, "%.2f")

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: 100, Height: 24}, "Reseed") {
		action.Reseed = true
	}
	if gui.Button(rl.Rectangle{X: x + 110, Y: float32(y), Width: 100, Height: 24}, "Reset") {
		action.Reset = true
	}
	y += 40

	if overlays == nil {
		return action
	}
	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight
		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
	}
	return action
}

// drawToggle draws a single overlay toggle line.
func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	if enabled {
		statusColor = r.Theme.BarFill
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
	case "visual":
		return "Visual"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
