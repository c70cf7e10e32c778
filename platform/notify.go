package platform

import (
	"slices"
	"sync"
)

type pointerSub struct {
	id      int
	onMove  func(x, y float32)
	onLeave func()
}

// PointerHub fans pointer events out to subscribers. Move and Leave call
// subscribers on the calling goroutine, so backends invoke them from the
// loop goroutine.
type PointerHub struct {
	mu     sync.Mutex
	nextID int
	subs   []pointerSub
}

// SubscribePointer registers callbacks and returns an unsubscribe function.
// Calling the unsubscribe function more than once is harmless.
func (h *PointerHub) SubscribePointer(onMove func(x, y float32), onLeave func()) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, pointerSub{id: id, onMove: onMove, onLeave: onLeave})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		h.subs = slices.DeleteFunc(h.subs, func(s pointerSub) bool { return s.id == id })
		h.mu.Unlock()
	}
}

// Move reports the pointer at (x, y).
func (h *PointerHub) Move(x, y float32) {
	for _, s := range h.snapshot() {
		if s.onMove != nil {
			s.onMove(x, y)
		}
	}
}

// Leave reports the pointer leaving the viewport.
func (h *PointerHub) Leave() {
	for _, s := range h.snapshot() {
		if s.onLeave != nil {
			s.onLeave()
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (h *PointerHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *PointerHub) snapshot() []pointerSub {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.subs)
}

type resizeSub struct {
	id       int
	onResize func(w, h float32)
}

// ResizeHub fans size changes out to subscribers, with the same calling
// rules as PointerHub.
type ResizeHub struct {
	mu     sync.Mutex
	nextID int
	subs   []resizeSub
}

// SubscribeResize registers onResize and returns an unsubscribe function.
func (h *ResizeHub) SubscribeResize(onResize func(width, height float32)) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, resizeSub{id: id, onResize: onResize})
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		h.subs = slices.DeleteFunc(h.subs, func(s resizeSub) bool { return s.id == id })
		h.mu.Unlock()
	}
}

// Emit reports new dimensions.
func (h *ResizeHub) Emit(width, height float32) {
	h.mu.Lock()
	subs := slices.Clone(h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.onResize(width, height)
	}
}

// Subscribers returns the number of active subscriptions.
func (h *ResizeHub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
