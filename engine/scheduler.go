// Package engine runs the particle field: it owns the store, the input
// state and the frame loop, and bridges platform notifications into them.
package engine

// FrameToken identifies one scheduled frame callback.
type FrameToken uint64

// Scheduler invokes a callback once at the next frame.
// Cancel on a token that already fired or was cancelled is a no-op.
type Scheduler interface {
	Schedule(fn func()) FrameToken
	Cancel(token FrameToken)
}

// PointerNotifier reports pointer motion over the whole viewport and the
// pointer leaving it. The returned function unsubscribes both callbacks.
type PointerNotifier interface {
	SubscribePointer(onMove func(x, y float32), onLeave func()) (unsubscribe func())
}

// ResizeNotifier reports new surface dimensions.
type ResizeNotifier interface {
	SubscribeResize(onResize func(width, height float32)) (unsubscribe func())
}
