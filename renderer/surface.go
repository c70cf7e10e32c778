// Package renderer draws the particle field onto an abstract drawing surface.
package renderer

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/constellation/systems"
)

// Surface is a 2-D drawing target. Coordinates are pixels with the origin at
// the top-left; opacity is in [0, 1].
type Surface interface {
	// Size returns the current drawable width and height.
	Size() (width, height float32)
	// Clear erases the whole surface to fully transparent.
	Clear()
	DrawFilledCircle(x, y, radius float32, c Color, opacity float32)
	DrawLine(x1, y1, x2, y2 float32, c Color, opacity, width float32)
}

// Presenter is implemented by surfaces that buffer a frame and need an
// explicit flush once drawing is done.
type Presenter interface {
	Present() error
}

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// ParseColor parses a "#rrggbb" hex string.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colorful converts to a go-colorful color for blending.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// Style holds the visual constants of the field.
type Style struct {
	Accent          Color   // particle and line color
	Background      Color   // used by backends that cannot show transparency
	ParticleOpacity float32 // fill opacity of every particle
	LineWidth       float32 // connection stroke width in px
	Connections     systems.ConnectionParams
}

// DefaultStyle returns the violet accent at 0.6 particle opacity with 0.5 px lines.
func DefaultStyle() Style {
	return Style{
		Accent:          Color{R: 0x8b, G: 0x5c, B: 0xf6},
		Background:      Color{R: 0x0b, G: 0x0a, B: 0x12},
		ParticleOpacity: 0.6,
		LineWidth:       0.5,
		Connections:     systems.DefaultConnectionParams(),
	}
}
