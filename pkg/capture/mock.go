package capture

import (
	"context"
	"sync"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// Mock implements Source for testing.
//
// By default it produces solid-gray 64x48 frames forever. Script it by
// setting Frames (finite sequence) and FailAfter (error once the
// scripted captures are exhausted or the count is reached).
type Mock struct {
	// Frames is an optional scripted sequence returned in order.
	Frames []*frame.Frame

	// FailAfter makes Capture return FailWith after this many
	// successful captures. Zero means never fail.
	FailAfter int

	// FailWith is the error returned once FailAfter is reached.
	// Defaults to ErrDeviceDisconnected.
	FailWith error

	mu       sync.Mutex
	seq      uint64
	captures int
	closed   bool
}

// NewMock creates a mock source producing synthetic frames.
func NewMock() *Mock {
	return &Mock{}
}

// Capture returns the next scripted or synthetic frame.
func (m *Mock) Capture(ctx context.Context) (*frame.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if m.FailAfter > 0 && m.captures >= m.FailAfter {
		if m.FailWith != nil {
			return nil, m.FailWith
		}
		return nil, ErrDeviceDisconnected
	}

	var f *frame.Frame
	if len(m.Frames) > 0 {
		if m.captures >= len(m.Frames) {
			if m.FailWith != nil {
				return nil, m.FailWith
			}
			return nil, ErrDeviceDisconnected
		}
		f = m.Frames[m.captures].Clone()
	} else {
		f = frame.New(64, 48)
		for i := range f.Data {
			f.Data[i] = 0x80
		}
	}

	m.captures++
	m.seq++
	f.Seq = m.seq
	return f, nil
}

// Captures returns how many successful captures occurred.
func (m *Mock) Captures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.captures
}

// Close marks the source closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
