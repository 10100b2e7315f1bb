package capture

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/andlarsen/vision-ai/internal/log"
	"github.com/andlarsen/vision-ai/pkg/frame"
)

// Device is a gocv-backed webcam source.
type Device struct {
	cam    *gocv.VideoCapture
	cfg    Config
	index  int
	seq    uint64
	closed atomic.Bool
}

// Open opens the configured capture device. With a negative device
// index it probes indices 0..ScanLimit-1 and takes the first camera
// that opens, matching how V4L2 enumerates /dev/video*.
func Open(cfg Config) (*Device, error) {
	if cfg.DeviceIndex >= 0 {
		cam, err := openIndex(cfg, cfg.DeviceIndex)
		if err != nil {
			return nil, err
		}
		return newDevice(cam, cfg, cfg.DeviceIndex), nil
	}

	limit := cfg.ScanLimit
	if limit <= 0 {
		limit = 4
	}
	for i := 0; i < limit; i++ {
		cam, err := openIndex(cfg, i)
		if err != nil {
			continue
		}
		log.Info("connected to camera", "device", i)
		return newDevice(cam, cfg, i), nil
	}
	return nil, fmt.Errorf("%w: no camera in indices 0..%d", ErrDeviceUnavailable, limit-1)
}

func openIndex(cfg Config, index int) (*gocv.VideoCapture, error) {
	cam, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("%w: index %d: %v", ErrDeviceUnavailable, index, err)
	}
	if !cam.IsOpened() {
		cam.Close()
		return nil, fmt.Errorf("%w: index %d", ErrDeviceUnavailable, index)
	}
	if cfg.Width > 0 {
		cam.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	}
	if cfg.Height > 0 {
		cam.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}
	return cam, nil
}

func newDevice(cam *gocv.VideoCapture, cfg Config, index int) *Device {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}
	return &Device{cam: cam, cfg: cfg, index: index}
}

// Index returns the device index actually opened.
func (d *Device) Index() int {
	return d.index
}

// Capture reads the next frame, blocking up to the configured timeout.
func (d *Device) Capture(ctx context.Context) (*frame.Frame, error) {
	if d.closed.Load() {
		return nil, ErrSourceClosed
	}

	type result struct {
		f   *frame.Frame
		err error
	}
	ch := make(chan result, 1)

	go func() {
		mat := gocv.NewMat()
		defer mat.Close()

		if ok := d.cam.Read(&mat); !ok {
			ch <- result{err: ErrDeviceDisconnected}
			return
		}
		if mat.Empty() {
			ch <- result{err: ErrCaptureTimeout}
			return
		}

		data := mat.ToBytes()
		f := &frame.Frame{
			Seq:       atomic.AddUint64(&d.seq, 1),
			Timestamp: time.Now(),
			Width:     mat.Cols(),
			Height:    mat.Rows(),
			Channels:  mat.Channels(),
			Data:      data,
			TraceID:   uuid.NewString(),
		}
		ch <- result{f: f}
	}()

	timer := time.NewTimer(d.cfg.Timeout)
	defer timer.Stop()

	select {
	case r := <-ch:
		return r.f, r.err
	case <-timer.C:
		return nil, ErrCaptureTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the camera. Safe to call more than once.
func (d *Device) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	return d.cam.Close()
}
