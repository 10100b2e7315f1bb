package pipeline

import (
	"image"
	"time"
)

// Config holds driver tuning parameters.
type Config struct {
	// RetryBudget is how many capture attempts are made before a
	// capture error becomes fatal.
	RetryBudget int

	// RetryBackoff is the initial delay between capture retries.
	// Doubles per attempt.
	RetryBackoff time.Duration

	// OverlayPos is the text baseline origin for the caption.
	OverlayPos image.Point

	// AsyncCapture offloads capture to a dedicated goroutine feeding a
	// single-slot latest-wins handoff.
	AsyncCapture bool

	// AnalysisPrompt is the question sent with each snapshot.
	// Empty uses the analyzer's default.
	AnalysisPrompt string
}

// DefaultConfig returns the driver defaults: 3 capture attempts with
// 100ms initial backoff, caption in the lower-left corner region.
func DefaultConfig() Config {
	return Config{
		RetryBudget:  3,
		RetryBackoff: 100 * time.Millisecond,
		OverlayPos:   image.Point{X: 10, Y: 24},
	}
}
