// Package terminal renders the field into a tcell screen and turns mouse,
// focus and resize events into engine notifications.
package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/constellation/renderer"
)

// Glyphs drawn for each kind of content, strongest last.
const (
	glyphEmpty    = ' '
	glyphLine     = '·'
	glyphParticle = '●'
)

type cell struct {
	color colorful.Color
	glyph rune
}

// Surface maps logical pixels onto terminal cells. Each cell covers
// cellW x cellH pixels; colors are alpha-composited over the background.
type Surface struct {
	screen       tcell.Screen
	cellW, cellH float32
	background   colorful.Color

	cols, rows int
	cells      []cell
}

// NewSurface creates a surface sized to the screen.
func NewSurface(screen tcell.Screen, cellW, cellH int, background renderer.Color) *Surface {
	s := &Surface{
		screen:     screen,
		cellW:      float32(max(cellW, 1)),
		cellH:      float32(max(cellH, 1)),
		background: background.Colorful(),
	}
	s.SetCells(screen.Size())
	return s
}

// SetCells resizes the framebuffer to cols x rows cells.
func (s *Surface) SetCells(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.cells = make([]cell, s.cols*s.rows)
	s.Clear()
}

// Cells returns the framebuffer dimensions in cells.
func (s *Surface) Cells() (cols, rows int) {
	return s.cols, s.rows
}

// Size returns the surface dimensions in logical pixels.
func (s *Surface) Size() (float32, float32) {
	return float32(s.cols) * s.cellW, float32(s.rows) * s.cellH
}

// CellCenter returns the pixel coordinate at the center of a cell.
func (s *Surface) CellCenter(col, row int) (float32, float32) {
	return (float32(col) + 0.5) * s.cellW, (float32(row) + 0.5) * s.cellH
}

// Clear resets every cell to the background.
func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i] = cell{color: s.background, glyph: glyphEmpty}
	}
}

// DrawFilledCircle composites c into every cell the circle touches.
func (s *Surface) DrawFilledCircle(x, y, radius float32, c renderer.Color, opacity float32) {
	col0, row0 := s.cellAt(x-radius, y-radius)
	col1, row1 := s.cellAt(x+radius, y+radius)
	for row := max(row0, 0); row <= min(row1, s.rows-1); row++ {
		for col := max(col0, 0); col <= min(col1, s.cols-1); col++ {
			s.blend(col, row, c, opacity, glyphParticle)
		}
	}
}

// DrawLine composites c along the cells between the two points.
// Width is ignored; a cell is the thinnest stroke a terminal can show.
func (s *Surface) DrawLine(x1, y1, x2, y2 float32, c renderer.Color, opacity, width float32) {
	col0, row0 := s.cellAt(x1, y1)
	col1, row1 := s.cellAt(x2, y2)

	dc, dr := col1-col0, row1-row0
	steps := max(abs(dc), abs(dr))
	for i := 0; i <= steps; i++ {
		col, row := col0, row0
		if steps > 0 {
			t := float64(i) / float64(steps)
			col = col0 + int(math.Round(t*float64(dc)))
			row = row0 + int(math.Round(t*float64(dr)))
		}
		if col < 0 || col >= s.cols || row < 0 || row >= s.rows {
			continue
		}
		s.blend(col, row, c, opacity, glyphLine)
	}
}

// Present copies the framebuffer to the screen and shows it.
func (s *Surface) Present() error {
	bg := toTcell(s.background)
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			cl := s.cells[row*s.cols+col]
			style := tcell.StyleDefault.Background(bg).Foreground(toTcell(cl.color))
			s.screen.SetContent(col, row, cl.glyph, nil, style)
		}
	}
	s.screen.Show()
	return nil
}

// At returns the composited color and glyph of a cell.
func (s *Surface) At(col, row int) (renderer.Color, rune) {
	cl := s.cells[row*s.cols+col]
	r, g, b := cl.color.Clamped().RGB255()
	return renderer.Color{R: r, G: g, B: b}, cl.glyph
}

func (s *Surface) cellAt(x, y float32) (int, int) {
	return int(math.Floor(float64(x / s.cellW))), int(math.Floor(float64(y / s.cellH)))
}

func (s *Surface) blend(col, row int, c renderer.Color, opacity float32, glyph rune) {
	i := row*s.cols + col
	s.cells[i].color = s.cells[i].color.BlendRgb(c.Colorful(), float64(clamp01(opacity)))
	if glyphRank(glyph) > glyphRank(s.cells[i].glyph) {
		s.cells[i].glyph = glyph
	}
}

func glyphRank(g rune) int {
	switch g {
	case glyphParticle:
		return 2
	case glyphLine:
		return 1
	}
	return 0
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
