package engine

import "github.com/pthm-cable/constellation/components"

// InputState is the single owner of the pointer and surface dimensions.
// Notifications write it through the setters; only Tick reads it.
type InputState struct {
	pointer components.Pointer
	bounds  components.Bounds
}

// SetPointer records the latest pointer position and marks it present.
func (s *InputState) SetPointer(x, y float32) {
	s.pointer = components.Pointer{X: x, Y: y, Active: true}
}

// ClearPointer marks the pointer absent.
func (s *InputState) ClearPointer() {
	s.pointer = components.Pointer{}
}

// SetSize records the surface dimensions. Negative values are treated as 0.
func (s *InputState) SetSize(width, height float32) {
	s.bounds = components.Bounds{Width: max(width, 0), Height: max(height, 0)}
}

// Pointer returns the current pointer state.
func (s InputState) Pointer() components.Pointer {
	return s.pointer
}

// Bounds returns the current surface dimensions.
func (s InputState) Bounds() components.Bounds {
	return s.bounds
}
