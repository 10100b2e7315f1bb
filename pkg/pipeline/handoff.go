package pipeline

import (
	"errors"
	"sync"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// ErrHandoffClosed is returned when the capture handoff is closed with
// no frame pending.
var ErrHandoffClosed = errors.New("pipeline: capture handoff closed")

// handoff is a single-slot, latest-wins frame buffer between the
// offloaded capture goroutine and the loop thread. Set replaces any
// unconsumed frame; Next blocks until a frame newer than the last one
// consumed arrives. The mutex guarantees the consumer never observes a
// partially written frame.
type handoff struct {
	mu     sync.Mutex
	cond   *sync.Cond
	f      *frame.Frame
	err    error
	seq    uint64
	taken  uint64
	closed bool
}

func newHandoff() *handoff {
	h := &handoff{}
	h.cond = sync.NewCond(&h.mu)
	return h
}

// Set publishes a frame or a terminal capture error.
func (h *handoff) Set(f *frame.Frame, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.f = f
	h.err = err
	h.seq++
	h.cond.Broadcast()
}

// Next returns the most recent unconsumed frame, blocking if none has
// arrived yet. Returns the producer's error once one is published.
func (h *handoff) Next() (*frame.Frame, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for h.seq == h.taken && !h.closed {
		h.cond.Wait()
	}
	if h.closed && h.seq == h.taken {
		return nil, ErrHandoffClosed
	}
	h.taken = h.seq
	return h.f, h.err
}

// Close wakes any blocked consumer.
func (h *handoff) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	h.cond.Broadcast()
}
