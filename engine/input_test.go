package engine

import "testing"

func TestInputStateSnapshot(t *testing.T) {
	h := newHarness(800, 600)
	h.engine.Start()
	h.notifier.move(120, 80)

	snap := h.engine.Input()
	if p := snap.Pointer(); !p.Active || p.X != 120 || p.Y != 80 {
		t.Errorf("pointer = %+v, want active at (120, 80)", p)
	}
	if b := h.engine.Input().Bounds(); b.Width != 800 || b.Height != 600 {
		t.Errorf("bounds = %+v, want 800x600", b)
	}

	// The returned value is a copy; later input must not leak into it.
	h.notifier.leave()
	h.notifier.resize(400, 300)
	if !snap.Pointer().Active {
		t.Error("earlier snapshot lost its pointer after leave")
	}
	if b := snap.Bounds(); b.Width != 800 || b.Height != 600 {
		t.Errorf("earlier snapshot bounds = %+v, want 800x600", b)
	}
	if h.engine.Input().Pointer().Active {
		t.Error("live input still has the pointer after leave")
	}
}

func TestInputStateClampsNegativeSize(t *testing.T) {
	var s InputState
	s.SetSize(-5, 40)
	if b := s.Bounds(); b.Width != 0 || b.Height != 40 {
		t.Errorf("bounds = %+v, want 0x40", b)
	}
}
