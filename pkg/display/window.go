package display

import (
	"fmt"
	"sync/atomic"

	"gocv.io/x/gocv"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// Key codes reported by gocv.Window.WaitKey.
const (
	keyEsc   = 27
	keySpace = 32
	keyQ     = 'q'
)

// Window is a gocv HighGUI sink.
type Window struct {
	win     *gocv.Window
	sizeSet bool
	lastKey int
	closed  atomic.Bool
}

// OpenWindow creates an on-screen window with the given title.
func OpenWindow(title string) *Window {
	return &Window{
		win:     gocv.NewWindow(title),
		lastKey: -1,
	}
}

// Present shows the frame. The window is resized to the frame
// dimensions on the first call. WaitKey is pumped here because HighGUI
// only delivers input while the event loop runs.
func (w *Window) Present(f *frame.Frame) error {
	if w.closed.Load() {
		return ErrSinkClosed
	}
	mat, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Data)
	if err != nil {
		return fmt.Errorf("display: frame to mat: %w", err)
	}
	defer mat.Close()

	if !w.sizeSet {
		w.win.ResizeWindow(f.Width, f.Height)
		w.sizeSet = true
	}
	w.win.IMShow(mat)
	w.lastKey = w.win.WaitKey(1)
	return nil
}

// Poll returns the input gathered during the last Present.
func (w *Window) Poll() InputEvent {
	key := w.lastKey
	w.lastKey = -1
	switch key {
	case keyQ, keyEsc:
		return QuitRequested
	case keySpace:
		return SnapshotRequested
	default:
		return None
	}
}

// Close destroys the window. Safe to call more than once.
func (w *Window) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	return w.win.Close()
}
