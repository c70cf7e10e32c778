package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/constellation/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Particles     int
	Connections   int
	Tick          int64
	FPS           int32
	Paused        bool
	PointerActive bool
	Width, Height float32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.RayWhite)

	rl.DrawText(
		fmt.Sprintf("Particles: %d | Connections: %d", data.Particles, data.Connections),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | %.0fx%.0f", data.Tick, data.FPS, data.Width, data.Height),
		10, 55, 16, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.PointerActive {
		status += " | pointer"
	}
	rl.DrawText(status, 10, 75, 16, h.renderer.Theme.SectionHeader)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	padding := r.Theme.Padding
	phases := telemetry.Phases()

	height := r.Theme.LineHeight*int32(len(phases)+3) + padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + padding
	y := p.y + padding
	y = r.DrawSectionHeader(x, y, "Frame Performance")
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%s (max %s)",
		stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.0f", stats.FPS))

	for _, row := range stats.Breakdown() {
		color := rl.LightGray
		if row.Pct > 50 {
			color = rl.Red
		} else if row.Pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", row.Phase, row.Avg.Round(time.Microsecond), row.Pct),
			x, y, r.Theme.FontSize, color,
		)
		y += r.Theme.LineHeight
	}
}

// FieldStatsPanel renders the particle speed distribution.
type FieldStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewFieldStatsPanel creates a new field stats panel.
func NewFieldStatsPanel(x, y, width int32) *FieldStatsPanel {
	return &FieldStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (f *FieldStatsPanel) SetPosition(x, y int32) {
	f.x = x
	f.y = y
}

// Draw renders the field stats panel. maxSpeed scales the bars.
func (f *FieldStatsPanel) Draw(speeds telemetry.SpeedStats, maxSpeed float32) {
	r := f.renderer
	padding := r.Theme.Padding

	height := r.Theme.LineHeight*7 + padding*2
	r.DrawPanel(f.x, f.y, f.width, height)

	x := f.x + padding
	width := f.width - padding*2
	y := f.y + padding
	y = r.DrawSectionHeader(x, y, "Particle Speed")
	y = r.DrawBar(x, y, "Mean", float32(speeds.Mean), maxSpeed, width)
	y = r.DrawBar(x, y, "Std", float32(speeds.Std), maxSpeed, width)
	y = r.DrawBar(x, y, "P10", float32(speeds.P10), maxSpeed, width)
	y = r.DrawBar(x, y, "P50", float32(speeds.P50), maxSpeed, width)
	r.DrawBar(x, y, "P90", float32(speeds.P90), maxSpeed, width)
}
