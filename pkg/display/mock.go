package display

import (
	"sync"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// Mock implements Sink for testing.
//
// Script input by filling Events: the nth Poll returns the nth event,
// then None forever. Presented frames are recorded by sequence number.
type Mock struct {
	// Events scripts the Poll results, one per loop iteration.
	Events []InputEvent

	// PresentErr, when set, is returned by every Present call.
	PresentErr error

	mu        sync.Mutex
	presented []uint64
	polls     int
	closed    bool
}

// NewMock creates a mock sink with no scripted input.
func NewMock() *Mock {
	return &Mock{}
}

// Present records the frame's sequence number.
func (m *Mock) Present(f *frame.Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrSinkClosed
	}
	if m.PresentErr != nil {
		return m.PresentErr
	}
	m.presented = append(m.presented, f.Seq)
	return nil
}

// Poll returns the next scripted event.
func (m *Mock) Poll() InputEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.polls
	m.polls++
	if i < len(m.Events) {
		return m.Events[i]
	}
	return None
}

// Presented returns the sequence numbers of presented frames, in order.
func (m *Mock) Presented() []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]uint64, len(m.presented))
	copy(out, m.presented)
	return out
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Close marks the sink closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
