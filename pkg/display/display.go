// Package display presents frames in an on-screen window and reports
// user input back to the pipeline driver.
package display

import (
	"errors"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// ErrSinkClosed is returned when presenting to a closed sink.
var ErrSinkClosed = errors.New("display: sink closed")

// InputEvent is what the user asked for since the last poll.
type InputEvent int

const (
	// None means no input is pending.
	None InputEvent = iota
	// QuitRequested means the user pressed Q or ESC.
	QuitRequested
	// SnapshotRequested means the user pressed SPACE.
	SnapshotRequested
)

// String implements fmt.Stringer.
func (e InputEvent) String() string {
	switch e {
	case QuitRequested:
		return "quit"
	case SnapshotRequested:
		return "snapshot"
	default:
		return "none"
	}
}

// Sink pushes finished frames to a visible surface.
//
// Present must complete before the next Present call is issued; there
// is no frame queue, the latest frame wins. Poll reports input gathered
// during the most recent Present.
type Sink interface {
	Present(f *frame.Frame) error
	Poll() InputEvent
	Close() error
}
