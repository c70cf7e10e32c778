package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/constellation/platform"
	"github.com/pthm-cable/constellation/renderer"
)

// Backend owns a tcell screen and forwards its events into a loop.
type Backend struct {
	screen  tcell.Screen
	surface *Surface
	loop    *platform.Loop

	pointer platform.PointerHub
	resize  platform.ResizeHub

	// OnKey is called on the loop goroutine for keys other than quit.
	OnKey func(ev *tcell.EventKey)
}

// Open initializes screen and prepares a backend posting into loop.
func Open(screen tcell.Screen, loop *platform.Loop, cellW, cellH int, background renderer.Color) (*Backend, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()
	screen.Clear()

	return &Backend{
		screen:  screen,
		surface: NewSurface(screen, cellW, cellH, background),
		loop:    loop,
	}, nil
}

// Surface returns the drawing surface.
func (b *Backend) Surface() *Surface { return b.surface }

// Pointer returns the pointer notifier.
func (b *Backend) Pointer() *platform.PointerHub { return &b.pointer }

// Resize returns the resize notifier.
func (b *Backend) Resize() *platform.ResizeHub { return &b.resize }

// Run reads screen events until ctx is done or the user quits, posting
// each into the loop. cancel is called when the user asks to quit.
func (b *Backend) Run(ctx context.Context, cancel context.CancelFunc) {
	events := make(chan tcell.Event, 32)
	quit := make(chan struct{})
	go b.screen.ChannelEvents(events, quit)
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := b.loop.Post(func() { b.HandleEvent(ev, cancel) }); err != nil {
				return
			}
		}
	}
}

// HandleEvent applies one screen event. It must run on the loop goroutine.
func (b *Backend) HandleEvent(ev tcell.Event, cancel context.CancelFunc) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		cols, rows := ev.Size()
		b.surface.SetCells(cols, rows)
		b.screen.Sync()
		w, h := b.surface.Size()
		b.resize.Emit(w, h)

	case *tcell.EventMouse:
		col, row := ev.Position()
		cols, rows := b.surface.Cells()
		if col < 0 || row < 0 || col >= cols || row >= rows {
			b.pointer.Leave()
			return
		}
		b.pointer.Move(b.surface.CellCenter(col, row))

	case *tcell.EventFocus:
		if !ev.Focused {
			b.pointer.Leave()
		}

	case *tcell.EventKey:
		if isQuit(ev) {
			slog.Info("quit requested")
			if cancel != nil {
				cancel()
			}
			return
		}
		if b.OnKey != nil {
			b.OnKey(ev)
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// Close restores the terminal.
func (b *Backend) Close() {
	b.screen.Fini()
}
