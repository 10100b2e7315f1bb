package frame

import (
	"image"
	"image/color"
	"testing"
)

func TestNewFrame(t *testing.T) {
	f := New(8, 4)
	if err := f.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if f.Channels != BGR24Channels {
		t.Errorf("Expected %d channels, got %d", BGR24Channels, f.Channels)
	}
	if len(f.Data) != 8*4*3 {
		t.Errorf("Expected %d bytes, got %d", 8*4*3, len(f.Data))
	}
	if f.TraceID == "" {
		t.Error("Expected a trace ID")
	}
}

func TestValidateRejectsBadGeometry(t *testing.T) {
	f := New(8, 4)
	f.Data = f.Data[:10]
	if err := f.Validate(); err == nil {
		t.Error("Expected error for short buffer")
	}

	f = New(8, 4)
	f.Width = 0
	if err := f.Validate(); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := New(4, 4)
	f.Data[0] = 42

	c := f.Clone()
	if c.Data[0] != 42 {
		t.Fatal("Clone did not copy pixel data")
	}
	if c.TraceID != f.TraceID {
		t.Error("Clone should keep the trace ID")
	}

	c.Data[0] = 7
	if f.Data[0] != 42 {
		t.Error("Mutating the clone touched the original")
	}
}

func TestImageRoundTrip(t *testing.T) {
	f := New(3, 2)
	// pixel (1,0) pure red in BGR
	i := (0*3 + 1) * 3
	f.Data[i+2] = 0xff

	img := f.ToImage()
	if got := img.RGBAAt(1, 0); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Expected red pixel, got %+v", got)
	}

	back := FromImage(img)
	if back.Width != f.Width || back.Height != f.Height {
		t.Fatalf("Round trip changed dimensions: %dx%d", back.Width, back.Height)
	}
	for j := range f.Data {
		if back.Data[j] != f.Data[j] {
			t.Fatalf("Round trip changed byte %d: %d != %d", j, back.Data[j], f.Data[j])
		}
	}
}

func TestFromImageNonZeroOrigin(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 3, 6, 7))
	f := FromImage(img)
	if f.Width != 4 || f.Height != 4 {
		t.Errorf("Expected 4x4, got %dx%d", f.Width, f.Height)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestWithPixelsKeepsMetadata(t *testing.T) {
	f := New(4, 4)
	f.Seq = 9

	out := f.WithPixels(2, 2, make([]byte, 2*2*3))
	if out.Seq != 9 || out.TraceID != f.TraceID {
		t.Error("WithPixels should keep sequence and trace ID")
	}
	if out.Width != 2 || out.Height != 2 {
		t.Errorf("Expected 2x2, got %dx%d", out.Width, out.Height)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}
