// Package frame defines the video frame passed between pipeline stages.
//
// A Frame is immutable once produced: stages that change pixels return a
// new Frame and must treat their input as read-only. Exactly one stage
// owns a frame at a time: ownership moves forward through the pipeline
// with the frame itself.
package frame

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/google/uuid"
)

// BGR24Channels is the channel count of the only layout the capture
// device produces.
const BGR24Channels = 3

// Frame represents a single video frame.
type Frame struct {
	// Seq is the monotonic sequence number assigned by the source.
	Seq uint64
	// Timestamp is when the frame was captured.
	Timestamp time.Time
	// Width in pixels.
	Width int
	// Height in pixels.
	Height int
	// Channels per pixel (3 for BGR24).
	Channels int
	// Data contains the interleaved pixel samples, row-major.
	Data []byte
	// TraceID identifies the frame across the pipeline.
	TraceID string
}

// New allocates a zeroed BGR24 frame of the given dimensions.
func New(width, height int) *Frame {
	return &Frame{
		Timestamp: time.Now(),
		Width:     width,
		Height:    height,
		Channels:  BGR24Channels,
		Data:      make([]byte, width*height*BGR24Channels),
		TraceID:   uuid.NewString(),
	}
}

// Validate checks that the buffer matches the declared geometry.
func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame: invalid dimensions %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * f.Channels; len(f.Data) != want {
		return fmt.Errorf("frame: buffer is %d bytes, want %d", len(f.Data), want)
	}
	return nil
}

// Clone returns a deep copy sharing no memory with the receiver.
func (f *Frame) Clone() *Frame {
	n := *f
	n.Data = make([]byte, len(f.Data))
	copy(n.Data, f.Data)
	return &n
}

// ToImage converts a BGR24 frame to an RGBA image for drawing and
// encoding. The returned image shares no memory with the frame.
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := y * f.Width * f.Channels
		dst := y * img.Stride
		for x := 0; x < f.Width; x++ {
			img.Pix[dst+0] = f.Data[src+2] // R
			img.Pix[dst+1] = f.Data[src+1] // G
			img.Pix[dst+2] = f.Data[src+0] // B
			img.Pix[dst+3] = 0xff
			src += f.Channels
			dst += 4
		}
	}
	return img
}

// FromImage builds a BGR24 frame from any image. Metadata (Seq,
// Timestamp, TraceID) is freshly assigned.
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	f := New(bounds.Dx(), bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			f.Data[i+0] = c.B
			f.Data[i+1] = c.G
			f.Data[i+2] = c.R
			i += f.Channels
		}
	}
	return f
}

// WithPixels returns a copy of the frame's metadata wrapped around a new
// pixel buffer. Stages use this so derived frames keep the trace ID and
// sequence number of their input.
func (f *Frame) WithPixels(width, height int, data []byte) *Frame {
	return &Frame{
		Seq:       f.Seq,
		Timestamp: f.Timestamp,
		Width:     width,
		Height:    height,
		Channels:  f.Channels,
		Data:      data,
		TraceID:   f.TraceID,
	}
}
