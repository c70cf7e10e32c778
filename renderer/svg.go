package renderer

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	svg "github.com/ajstarks/svgo/float"
)

// SVGSurface records each frame as an SVG document. The most recently
// presented document can be read from any goroutine with Snapshot.
// Drawing and Present must happen on a single goroutine.
type SVGSurface struct {
	mu            sync.Mutex // guards width and height
	width, height float32

	background Color
	buf        bytes.Buffer
	canvas     *svg.SVG
	open       bool

	latest atomic.Pointer[[]byte]
	frames atomic.Uint64
}

// NewSVGSurface creates a surface of the given size. Frames are drawn over
// an opaque rectangle of background color.
func NewSVGSurface(width, height float32, background Color) *SVGSurface {
	s := &SVGSurface{
		width:      width,
		height:     height,
		background: background,
	}
	s.canvas = svg.New(&s.buf)
	s.canvas.Decimals = 2
	return s
}

// Size returns the current drawable dimensions.
func (s *SVGSurface) Size() (float32, float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// SetSize changes the dimensions used by subsequent frames.
func (s *SVGSurface) SetSize(width, height float32) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

// Clear starts a new document, discarding anything drawn since the last Present.
func (s *SVGSurface) Clear() {
	w, h := s.Size()
	s.buf.Reset()
	s.canvas.Start(float64(w), float64(h))
	s.canvas.Rect(0, 0, float64(w), float64(h), "fill:"+s.background.Hex())
	s.open = true
}

// DrawFilledCircle appends a circle element.
func (s *SVGSurface) DrawFilledCircle(x, y, radius float32, c Color, opacity float32) {
	if !s.open {
		s.Clear()
	}
	s.canvas.Circle(float64(x), float64(y), float64(radius),
		fmt.Sprintf("fill:%s;fill-opacity:%.3f", c.Hex(), opacity))
}

// DrawLine appends a line element.
func (s *SVGSurface) DrawLine(x1, y1, x2, y2 float32, c Color, opacity, width float32) {
	if !s.open {
		s.Clear()
	}
	s.canvas.Line(float64(x1), float64(y1), float64(x2), float64(y2),
		fmt.Sprintf("stroke:%s;stroke-opacity:%.3f;stroke-width:%.2f", c.Hex(), opacity, width))
}

// Present closes the current document and publishes it.
func (s *SVGSurface) Present() error {
	if !s.open {
		s.Clear()
	}
	s.canvas.End()
	s.open = false

	doc := bytes.Clone(s.buf.Bytes())
	s.latest.Store(&doc)
	s.frames.Add(1)
	return nil
}

// Snapshot returns the last presented document, or nil before the first Present.
func (s *SVGSurface) Snapshot() []byte {
	doc := s.latest.Load()
	if doc == nil {
		return nil
	}
	return *doc
}

// Frames returns how many frames have been presented.
func (s *SVGSurface) Frames() uint64 {
	return s.frames.Load()
}
