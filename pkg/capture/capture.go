// Package capture provides frame sources for the vision pipeline.
//
// The gocv-backed Device talks to a local V4L2 webcam; the Mock source
// replays scripted frames for tests. Both satisfy Source.
package capture

import (
	"context"
	"errors"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// Sentinel errors for capture conditions.
var (
	// ErrDeviceUnavailable is returned when no capture device can be opened.
	ErrDeviceUnavailable = errors.New("capture: device unavailable")

	// ErrCaptureTimeout is returned when no frame arrived within the
	// configured deadline. Retryable up to the driver's budget.
	ErrCaptureTimeout = errors.New("capture: timed out waiting for frame")

	// ErrDeviceDisconnected is returned when the device stops producing
	// frames mid-stream.
	ErrDeviceDisconnected = errors.New("capture: device disconnected")

	// ErrSourceClosed is returned when capturing from a closed source.
	ErrSourceClosed = errors.New("capture: source closed")
)

// Source produces frames on demand.
//
// Capture blocks until a frame is available or the source's bounded
// timeout elapses. Each call advances the source's sequence counter.
// Close releases the underlying device; the source is invalid afterwards.
type Source interface {
	Capture(ctx context.Context) (*frame.Frame, error)
	Close() error
}
