package capture

import "time"

// Config holds capture device parameters.
type Config struct {
	// DeviceIndex selects the V4L2 device. Negative means scan for the
	// first openable device.
	DeviceIndex int

	// Width and Height request a capture resolution. Zero keeps the
	// device default.
	Width  int
	Height int

	// Timeout bounds a single Capture call.
	Timeout time.Duration

	// ScanLimit is how many device indices to probe when scanning.
	ScanLimit int
}

// DefaultConfig returns the recommended capture configuration:
// scan for the first camera, 640x480, one second per frame at most.
func DefaultConfig() Config {
	return Config{
		DeviceIndex: -1,
		Width:       640,
		Height:      480,
		Timeout:     time.Second,
		ScanLimit:   4,
	}
}
