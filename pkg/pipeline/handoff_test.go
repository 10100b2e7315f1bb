package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

func TestHandoffLatestWins(t *testing.T) {
	h := newHandoff()

	old := frame.New(4, 4)
	old.Seq = 1
	newer := frame.New(4, 4)
	newer.Seq = 2

	h.Set(old, nil)
	h.Set(newer, nil)

	f, err := h.Next()
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if f.Seq != 2 {
		t.Errorf("Expected latest frame (seq 2), got seq %d", f.Seq)
	}
}

func TestHandoffBlocksUntilSet(t *testing.T) {
	h := newHandoff()

	done := make(chan uint64, 1)
	go func() {
		f, err := h.Next()
		if err != nil {
			done <- 0
			return
		}
		done <- f.Seq
	}()

	select {
	case <-done:
		t.Fatal("Next returned before any frame was set")
	case <-time.After(10 * time.Millisecond):
	}

	f := frame.New(4, 4)
	f.Seq = 7
	h.Set(f, nil)

	select {
	case seq := <-done:
		if seq != 7 {
			t.Errorf("Expected seq 7, got %d", seq)
		}
	case <-time.After(time.Second):
		t.Fatal("Next did not wake after Set")
	}
}

func TestHandoffConsumesEachFrameOnce(t *testing.T) {
	h := newHandoff()

	f := frame.New(4, 4)
	h.Set(f, nil)

	if _, err := h.Next(); err != nil {
		t.Fatalf("Next failed: %v", err)
	}

	// Second Next must block until something new arrives.
	got := make(chan error, 1)
	go func() {
		_, err := h.Next()
		got <- err
	}()
	select {
	case <-got:
		t.Fatal("Next returned a frame that was already consumed")
	case <-time.After(10 * time.Millisecond):
	}

	h.Close()
	if err := <-got; !errors.Is(err, ErrHandoffClosed) {
		t.Errorf("Expected ErrHandoffClosed, got %v", err)
	}
}

func TestHandoffDeliversProducerError(t *testing.T) {
	h := newHandoff()
	want := errors.New("capture exploded")
	h.Set(nil, want)

	if _, err := h.Next(); !errors.Is(err, want) {
		t.Errorf("Expected producer error, got %v", err)
	}
}
