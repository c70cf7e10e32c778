package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayToggle(t *testing.T) {
	r := NewOverlayRegistry()

	if r.IsEnabled(OverlayRepulsion) {
		t.Fatal("overlays should start disabled")
	}
	if !r.Toggle(OverlayRepulsion) || !r.IsEnabled(OverlayRepulsion) {
		t.Error("Toggle should enable")
	}
	if r.Toggle(OverlayRepulsion) {
		t.Error("second Toggle should disable")
	}
	if r.Toggle("missing") {
		t.Error("unknown overlay toggled on")
	}
}

func TestOverlayExclusive(t *testing.T) {
	r := NewOverlayRegistry()

	r.SetEnabled(OverlayFieldStats, true)
	r.SetEnabled(OverlayVelocity, true)
	r.Toggle(OverlayPerf)

	if r.IsEnabled(OverlayFieldStats) {
		t.Error("enabling perf should disable field stats")
	}
	if !r.IsEnabled(OverlayVelocity) {
		t.Error("non-exclusive overlay was disabled")
	}
}

func TestOverlayHandleKeyPress(t *testing.T) {
	r := NewOverlayRegistry()

	id, on, ok := r.HandleKeyPress(rl.KeyV)
	if !ok || id != OverlayVelocity || !on {
		t.Errorf("HandleKeyPress(V) = %q, %v, %v", id, on, ok)
	}
	if _, _, ok := r.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key toggled an overlay")
	}
}

func TestOverlayCategories(t *testing.T) {
	r := NewOverlayRegistry()

	cats := r.Categories()
	if len(cats) != 2 || cats[0] != "visual" || cats[1] != "debug" {
		t.Errorf("categories = %v", cats)
	}
	if n := len(r.ByCategory("debug")); n != 2 {
		t.Errorf("debug overlays = %d, want 2", n)
	}
}
