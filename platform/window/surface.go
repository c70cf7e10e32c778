package window

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/constellation/renderer"
)

// Surface draws into the raylib back buffer. It must only be used between
// BeginDrawing and EndDrawing on the main thread.
type Surface struct {
	background rl.Color
}

// NewSurface creates a surface that clears to background.
func NewSurface(background renderer.Color) *Surface {
	return &Surface{background: toRaylib(background)}
}

// Size returns the current window size.
func (s *Surface) Size() (float32, float32) {
	return float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
}

// Clear fills the window with the background color.
func (s *Surface) Clear() {
	rl.ClearBackground(s.background)
}

// DrawFilledCircle draws a filled circle.
func (s *Surface) DrawFilledCircle(x, y, radius float32, c renderer.Color, opacity float32) {
	rl.DrawCircleV(rl.Vector2{X: x, Y: y}, radius, rl.Fade(toRaylib(c), opacity))
}

// DrawLine draws a line segment of the given width.
func (s *Surface) DrawLine(x1, y1, x2, y2 float32, c renderer.Color, opacity, width float32) {
	rl.DrawLineEx(rl.Vector2{X: x1, Y: y1}, rl.Vector2{X: x2, Y: y2}, width, rl.Fade(toRaylib(c), opacity))
}

func toRaylib(c renderer.Color) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
