package capture

import (
	"context"
	"errors"
	"testing"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

func TestMockProducesSequencedFrames(t *testing.T) {
	ctx := context.Background()
	m := NewMock()

	for want := uint64(1); want <= 3; want++ {
		f, err := m.Capture(ctx)
		if err != nil {
			t.Fatalf("Capture failed: %v", err)
		}
		if f.Seq != want {
			t.Errorf("Expected seq %d, got %d", want, f.Seq)
		}
		if err := f.Validate(); err != nil {
			t.Errorf("Validate failed: %v", err)
		}
	}
	if m.Captures() != 3 {
		t.Errorf("Expected 3 captures, got %d", m.Captures())
	}
}

func TestMockScriptedFrames(t *testing.T) {
	ctx := context.Background()
	scripted := frame.New(10, 10)
	scripted.Data[0] = 0xaa

	m := NewMock()
	m.Frames = []*frame.Frame{scripted}

	f, err := m.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if f.Data[0] != 0xaa {
		t.Error("Expected scripted frame content")
	}
	if f == scripted {
		t.Error("Expected a copy, not the scripted frame itself")
	}

	// Script exhausted.
	if _, err := m.Capture(ctx); !errors.Is(err, ErrDeviceDisconnected) {
		t.Errorf("Expected ErrDeviceDisconnected, got %v", err)
	}
}

func TestMockFailAfter(t *testing.T) {
	ctx := context.Background()
	m := NewMock()
	m.FailAfter = 2
	m.FailWith = ErrCaptureTimeout

	for i := 0; i < 2; i++ {
		if _, err := m.Capture(ctx); err != nil {
			t.Fatalf("Capture %d failed: %v", i, err)
		}
	}
	if _, err := m.Capture(ctx); !errors.Is(err, ErrCaptureTimeout) {
		t.Errorf("Expected ErrCaptureTimeout, got %v", err)
	}
	if m.Captures() != 2 {
		t.Errorf("Expected 2 successful captures, got %d", m.Captures())
	}
}

func TestMockClosed(t *testing.T) {
	m := NewMock()
	m.Close()
	if _, err := m.Capture(context.Background()); !errors.Is(err, ErrSourceClosed) {
		t.Errorf("Expected ErrSourceClosed, got %v", err)
	}
}
