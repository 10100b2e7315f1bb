// Package pipeline orchestrates the capture -> process -> annotate ->
// present loop and owns its lifecycle.
//
// The driver runs a single logical thread of control. A stop request
// (user quit, fatal stage error, context cancellation) takes effect at
// loop-iteration boundaries only, never mid-frame, so a partially
// rendered frame is never displayed. Teardown releases resources in
// reverse acquisition order regardless of why the loop stopped.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andlarsen/vision-ai/internal/log"
	"github.com/andlarsen/vision-ai/pkg/analyze"
	"github.com/andlarsen/vision-ai/pkg/capture"
	"github.com/andlarsen/vision-ai/pkg/display"
	"github.com/andlarsen/vision-ai/pkg/frame"
	"github.com/andlarsen/vision-ai/pkg/overlay"
	"github.com/andlarsen/vision-ai/pkg/process"
	"github.com/andlarsen/vision-ai/pkg/snapshot"
)

// Driver owns the pipeline loop and the lifecycle of its stages.
type Driver struct {
	source   capture.Source
	proc     process.Processor
	renderer *overlay.Renderer
	sink     display.Sink
	cfg      Config
	logger   *slog.Logger

	// optional snapshot analysis
	analyzer analyze.Provider
	photos   *snapshot.Store

	mu         sync.Mutex
	state      State
	caption    string
	iterations uint64

	analyzing atomic.Bool
	wg        sync.WaitGroup
}

// New creates a driver over the given stages. The renderer may be nil,
// in which case the annotate stage is skipped.
func New(source capture.Source, proc process.Processor, renderer *overlay.Renderer, sink display.Sink, cfg Config) *Driver {
	if cfg.RetryBudget <= 0 {
		cfg.RetryBudget = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	return &Driver{
		source:   source,
		proc:     proc,
		renderer: renderer,
		sink:     sink,
		cfg:      cfg,
		state:    Idle,
		logger:   log.With("component", "pipeline"),
	}
}

// AttachAnalyzer enables snapshot analysis. Photos may be nil to skip
// writing snapshots to disk.
func (d *Driver) AttachAnalyzer(p analyze.Provider, photos *snapshot.Store) {
	d.analyzer = p
	d.photos = photos
}

// State returns the current lifecycle state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Iterations returns how many complete loop iterations ran.
func (d *Driver) Iterations() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.iterations
}

// Caption returns the text currently composited onto frames.
func (d *Driver) Caption() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.caption
}

// SetCaption replaces the overlay caption.
func (d *Driver) SetCaption(text string) {
	d.mu.Lock()
	d.caption = text
	d.mu.Unlock()
}

// Run executes the pipeline until the user quits, a stage fails
// fatally, or ctx is cancelled. It returns nil on a clean quit.
// Calling Run on a driver that is not Idle fails with
// ErrInvalidStateTransition.
func (d *Driver) Run(ctx context.Context) error {
	if err := d.transition(Idle, Running); err != nil {
		return err
	}
	d.logger.Info("pipeline running",
		"retry_budget", d.cfg.RetryBudget,
		"async_capture", d.cfg.AsyncCapture)

	next := d.syncCapture(ctx)
	if d.cfg.AsyncCapture {
		next = d.asyncCapture(ctx)
	}

	var runErr error
	for d.State() == Running {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		f, err := next()
		if err != nil {
			runErr = fmt.Errorf("capture stage: %w", err)
			break
		}

		processed, err := d.proc.Process(f)
		if err != nil {
			runErr = fmt.Errorf("process stage: %w", err)
			break
		}

		annotated := processed
		if d.renderer != nil {
			annotated = d.renderer.Annotate(processed, d.Caption(), d.cfg.OverlayPos)
		}

		if err := d.sink.Present(annotated); err != nil {
			runErr = fmt.Errorf("display stage: %w", err)
			break
		}

		d.mu.Lock()
		d.iterations++
		d.mu.Unlock()

		switch d.sink.Poll() {
		case display.QuitRequested:
			d.logger.Info("quit requested", "iterations", d.Iterations())
			d.requestStop()
		case display.SnapshotRequested:
			d.snapshot(ctx, processed)
		}
	}

	d.teardown()

	if runErr != nil {
		d.logger.Error("pipeline failed", "error", runErr)
	}
	return runErr
}

// syncCapture captures on the loop thread.
func (d *Driver) syncCapture(ctx context.Context) func() (*frame.Frame, error) {
	return func() (*frame.Frame, error) {
		return d.captureWithRetry(ctx)
	}
}

// asyncCapture offloads capture to a dedicated goroutine feeding a
// single-slot latest-wins handoff, trading one frame of staleness for
// lower end-to-end latency.
func (d *Driver) asyncCapture(ctx context.Context) func() (*frame.Frame, error) {
	h := newHandoff()
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer h.Close()
		for ctx.Err() == nil && d.State() == Running {
			f, err := d.captureWithRetry(ctx)
			h.Set(f, err)
			if err != nil {
				return
			}
		}
	}()
	return h.Next
}

// captureWithRetry retries transient capture errors with exponential
// backoff until the budget is spent, then surfaces the last error.
func (d *Driver) captureWithRetry(ctx context.Context) (*frame.Frame, error) {
	backoff := d.cfg.RetryBackoff
	var lastErr error
	for attempt := 0; attempt < d.cfg.RetryBudget; attempt++ {
		if attempt > 0 {
			d.logger.Warn("capture retry", "attempt", attempt, "backoff", backoff, "error", lastErr)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		f, err := d.source.Capture(ctx)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, capture.ErrCaptureTimeout) && !errors.Is(err, capture.ErrDeviceDisconnected) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("retry budget exhausted after %d attempts: %w", d.cfg.RetryBudget, lastErr)
}

// snapshot saves the frame and kicks off analysis. At most one analysis
// runs at a time; a failed analysis never stops the loop.
func (d *Driver) snapshot(ctx context.Context, f *frame.Frame) {
	snap := f.Clone()

	if d.photos != nil {
		path, err := d.photos.Save(snap)
		if err != nil {
			d.logger.Error("snapshot save failed", "error", err)
		} else {
			d.logger.Info("snapshot saved", "path", path, "trace_id", snap.TraceID)
		}
	}

	if d.analyzer == nil {
		return
	}
	if !d.analyzing.CompareAndSwap(false, true) {
		d.logger.Debug("analysis already in flight, skipping", "trace_id", snap.TraceID)
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer d.analyzing.Store(false)

		res, err := d.analyzer.Vision(ctx, &analyze.Request{
			Image:  snap.ToImage(),
			Prompt: d.cfg.AnalysisPrompt,
		})
		if err != nil {
			d.logger.Error("analysis failed", "trace_id", snap.TraceID, "error", err)
			return
		}
		d.logger.Info("analysis complete",
			"trace_id", snap.TraceID,
			"latency_ms", res.LatencyMs,
			"description", res.Content)
		d.SetCaption(res.Content)
	}()
}

// teardown waits out background work, then releases the sink, the
// renderer, and the source, in reverse acquisition order.
func (d *Driver) teardown() {
	d.mu.Lock()
	if d.state == Running {
		d.state = Stopping
	}
	d.mu.Unlock()

	d.wg.Wait()

	if err := d.sink.Close(); err != nil {
		d.logger.Warn("sink close", "error", err)
	}
	if d.renderer != nil {
		if err := d.renderer.Close(); err != nil {
			d.logger.Warn("renderer close", "error", err)
		}
	}
	if err := d.source.Close(); err != nil {
		d.logger.Warn("source close", "error", err)
	}

	d.mu.Lock()
	d.state = Stopped
	d.mu.Unlock()
	d.logger.Info("pipeline stopped", "iterations", d.iterations)
}

func (d *Driver) transition(from, to State) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, d.state, to)
	}
	d.state = to
	return nil
}

func (d *Driver) requestStop() {
	d.mu.Lock()
	if d.state == Running {
		d.state = Stopping
	}
	d.mu.Unlock()
}
