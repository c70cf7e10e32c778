package renderer

import (
	"bytes"
	"encoding/xml"
	"math"
	"testing"

	"github.com/pthm-cable/constellation/components"
)

type drawOp struct {
	kind    string
	x1, y1  float32
	x2, y2  float32
	radius  float32
	color   Color
	opacity float32
	width   float32
}

// recordingSurface captures draw calls for inspection.
type recordingSurface struct {
	w, h float32
	ops  []drawOp
}

func (s *recordingSurface) Size() (float32, float32) { return s.w, s.h }

func (s *recordingSurface) Clear() {
	s.ops = append(s.ops, drawOp{kind: "clear"})
}

func (s *recordingSurface) DrawFilledCircle(x, y, radius float32, c Color, opacity float32) {
	s.ops = append(s.ops, drawOp{kind: "circle", x1: x, y1: y, radius: radius, color: c, opacity: opacity})
}

func (s *recordingSurface) DrawLine(x1, y1, x2, y2 float32, c Color, opacity, width float32) {
	s.ops = append(s.ops, drawOp{kind: "line", x1: x1, y1: y1, x2: x2, y2: y2, color: c, opacity: opacity, width: width})
}

func (s *recordingSurface) count(kind string) int {
	n := 0
	for _, op := range s.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

func TestRenderSample(t *testing.T) {
	style := DefaultStyle()
	r := NewFieldRenderer(&style)
	surface := &recordingSurface{w: 300, h: 300}

	particles := []components.Particle{
		{X: 0, Y: 0, Radius: 1},
		{X: 50, Y: 0, Radius: 2},
		{X: 200, Y: 0, Radius: 3},
	}
	stats := r.Render(surface, particles)

	if stats.Particles != 3 || stats.Connections != 1 {
		t.Errorf("stats = %+v, want 3 particles and 1 connection", stats)
	}
	if len(surface.ops) == 0 || surface.ops[0].kind != "clear" {
		t.Fatal("frame does not start with clear")
	}
	if got := surface.count("clear"); got != 1 {
		t.Errorf("clear called %d times, want 1", got)
	}
	if got := surface.count("circle"); got != 3 {
		t.Errorf("circles = %d, want 3", got)
	}

	var line drawOp
	for _, op := range surface.ops {
		switch op.kind {
		case "circle":
			if op.color != style.Accent || op.opacity != 0.6 {
				t.Errorf("circle drawn with %v at opacity %v", op.color, op.opacity)
			}
		case "line":
			line = op
		}
	}
	if line.kind != "line" {
		t.Fatal("no connection line drawn")
	}
	if line.x1 != 0 || line.x2 != 50 {
		t.Errorf("line from x=%v to x=%v, want 0 to 50", line.x1, line.x2)
	}
	if math.Abs(float64(line.opacity-0.075)) > 1e-6 {
		t.Errorf("line opacity = %v, want 0.075", line.opacity)
	}
	if line.width != 0.5 {
		t.Errorf("line width = %v, want 0.5", line.width)
	}
}

func TestRenderCirclesBeforeLines(t *testing.T) {
	style := DefaultStyle()
	r := NewFieldRenderer(&style)
	surface := &recordingSurface{w: 100, h: 100}

	r.Render(surface, []components.Particle{{X: 10, Y: 10, Radius: 1}, {X: 20, Y: 10, Radius: 1}, {X: 30, Y: 10, Radius: 1}})

	sawLine := false
	for _, op := range surface.ops {
		if op.kind == "line" {
			sawLine = true
		}
		if op.kind == "circle" && sawLine {
			t.Fatal("circle drawn after a line")
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	style := DefaultStyle()
	r := NewFieldRenderer(&style)
	surface := &recordingSurface{}

	stats := r.Render(surface, nil)

	if stats != (FrameStats{}) {
		t.Errorf("stats = %+v, want zero", stats)
	}
	if len(surface.ops) != 1 || surface.ops[0].kind != "clear" {
		t.Errorf("ops = %+v, want a single clear", surface.ops)
	}
}

func TestRenderFollowsLiveStyle(t *testing.T) {
	style := DefaultStyle()
	r := NewFieldRenderer(&style)
	particles := []components.Particle{{X: 0, Y: 0}, {X: 150, Y: 0}}

	surface := &recordingSurface{}
	if stats := r.Render(surface, particles); stats.Connections != 0 {
		t.Fatalf("connections = %d at default radius, want 0", stats.Connections)
	}

	style.Connections.Radius = 200
	surface = &recordingSurface{}
	if stats := r.Render(surface, particles); stats.Connections != 1 {
		t.Errorf("connections = %d after widening radius, want 1", stats.Connections)
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#8b5cf6")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c != (Color{R: 0x8b, G: 0x5c, B: 0xf6}) {
		t.Errorf("color = %+v", c)
	}
	if c.Hex() != "#8b5cf6" {
		t.Errorf("Hex = %q", c.Hex())
	}

	if _, err := ParseColor("violet"); err == nil {
		t.Error("expected error for non-hex color")
	}
}

func TestSVGSurface(t *testing.T) {
	style := DefaultStyle()
	r := NewFieldRenderer(&style)
	surface := NewSVGSurface(200, 100, style.Background)

	if surface.Snapshot() != nil {
		t.Fatal("snapshot available before first frame")
	}

	r.Render(surface, []components.Particle{{X: 10, Y: 10, Radius: 2}, {X: 40, Y: 10, Radius: 1}})
	if err := surface.Present(); err != nil {
		t.Fatalf("Present: %v", err)
	}

	doc := surface.Snapshot()
	if doc == nil {
		t.Fatal("no snapshot after Present")
	}
	if err := xml.Unmarshal(doc, new(struct{})); err != nil {
		t.Errorf("snapshot is not well-formed XML: %v", err)
	}
	if n := bytes.Count(doc, []byte("<circle")); n != 2 {
		t.Errorf("circles = %d, want 2", n)
	}
	if n := bytes.Count(doc, []byte("<line")); n != 1 {
		t.Errorf("lines = %d, want 1", n)
	}
	if !bytes.Contains(doc, []byte("#8b5cf6")) {
		t.Error("accent color missing from document")
	}
	if surface.Frames() != 1 {
		t.Errorf("frames = %d, want 1", surface.Frames())
	}

	// A second frame replaces rather than appends
	r.Render(surface, nil)
	surface.Present()
	if n := bytes.Count(surface.Snapshot(), []byte("<circle")); n != 0 {
		t.Errorf("circles after empty frame = %d, want 0", n)
	}
}

func TestSVGSurfaceResize(t *testing.T) {
	surface := NewSVGSurface(200, 100, Color{})
	surface.SetSize(640, 480)

	if w, h := surface.Size(); w != 640 || h != 480 {
		t.Errorf("size = %vx%v, want 640x480", w, h)
	}

	surface.Clear()
	surface.Present()
	if !bytes.Contains(surface.Snapshot(), []byte(`width="640.00"`)) {
		t.Errorf("document does not carry the new width:\n%s", surface.Snapshot())
	}
}
