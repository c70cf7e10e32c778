// Package platform provides the frame loop and input notifiers shared by
// the terminal, server and headless backends.
package platform

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/pthm-cable/constellation/engine"
)

// ErrLoopStopped is returned when posting to a loop that is not running.
var ErrLoopStopped = errors.New("platform: loop stopped")

// Loop is a single-goroutine frame scheduler. Frame callbacks and posted
// closures all run on the goroutine that called Run, one at a time.
type Loop struct {
	interval time.Duration
	posts    chan func()
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	next    engine.FrameToken
	pending map[engine.FrameToken]func()
	frames  uint64
}

// NewLoop creates a loop firing frames every interval. An interval of zero
// or less fires frames back to back.
func NewLoop(interval time.Duration) *Loop {
	return &Loop{
		interval: interval,
		posts:    make(chan func(), 64),
		done:     make(chan struct{}),
		pending:  make(map[engine.FrameToken]func()),
	}
}

// Schedule queues fn for the next frame.
func (l *Loop) Schedule(fn func()) engine.FrameToken {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.pending[l.next] = fn
	return l.next
}

// Cancel removes a queued callback. Unknown tokens are ignored.
func (l *Loop) Cancel(token engine.FrameToken) {
	l.mu.Lock()
	delete(l.pending, token)
	l.mu.Unlock()
}

// Pending returns the number of queued frame callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Frames returns how many frames have fired.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Frame runs every callback queued before it was called, in scheduling
// order, and returns how many ran. Callbacks scheduled while it runs wait
// for the next frame. Run calls Frame; tests may call it directly.
func (l *Loop) Frame() int {
	l.mu.Lock()
	if len(l.pending) == 0 {
		l.mu.Unlock()
		return 0
	}
	tokens := make([]engine.FrameToken, 0, len(l.pending))
	for t := range l.pending {
		tokens = append(tokens, t)
	}
	slices.Sort(tokens)
	l.frames++
	l.mu.Unlock()

	ran := 0
	for _, t := range tokens {
		// A callback earlier in this frame may have cancelled t
		l.mu.Lock()
		fn, ok := l.pending[t]
		delete(l.pending, t)
		l.mu.Unlock()
		if ok {
			fn()
			ran++
		}
	}
	return ran
}

// Post queues fn to run on the loop goroutine. It is safe to call from any
// goroutine and does not wait for fn to run.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.posts <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Call runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Post(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes frames and posted closures until ctx is cancelled.
// Queued frame callbacks are dropped on return.
func (l *Loop) Run(ctx context.Context) {
	defer l.stop()

	if l.interval <= 0 {
		l.runUnpaced(ctx)
		return
	}

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.posts:
			fn()
		case <-ticker.C:
			l.Frame()
		}
	}
}

func (l *Loop) runUnpaced(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.posts:
			fn()
			continue
		default:
		}

		if l.Frame() > 0 {
			continue
		}

		// Nothing scheduled; wait for work
		select {
		case <-ctx.Done():
			return
		case fn := <-l.posts:
			fn()
		}
	}
}

func (l *Loop) stop() {
	l.stopOnce.Do(func() {
		close(l.done)
		l.mu.Lock()
		clear(l.pending)
		l.mu.Unlock()
	})
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
