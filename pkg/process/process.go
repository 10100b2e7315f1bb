// Package process contains the frame transformation stage.
//
// Processors are pure: they never mutate their input and produce
// byte-identical output for byte-identical input. That keeps the stage
// testable without a camera and lets the driver treat the result as the
// sole valid view of the frame.
package process

import (
	"errors"
	"fmt"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// ErrUnsupportedFormat is returned for frames that are not valid BGR24.
var ErrUnsupportedFormat = errors.New("process: unsupported frame format")

// Processor transforms one frame into another.
type Processor interface {
	Process(f *frame.Frame) (*frame.Frame, error)
}

// Func adapts a plain function to Processor.
type Func func(f *frame.Frame) (*frame.Frame, error)

// Process implements Processor.
func (fn Func) Process(f *frame.Frame) (*frame.Frame, error) {
	return fn(f)
}

// check validates the stage input contract.
func check(f *frame.Frame) error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrUnsupportedFormat)
	}
	if f.Channels != frame.BGR24Channels {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.Channels)
	}
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	return nil
}

// Identity returns the input frame unchanged.
func Identity() Processor {
	return Func(func(f *frame.Frame) (*frame.Frame, error) {
		if err := check(f); err != nil {
			return nil, err
		}
		return f, nil
	})
}

// Chain composes processors left to right. An empty chain is Identity.
type Chain []Processor

// Process implements Processor.
func (c Chain) Process(f *frame.Frame) (*frame.Frame, error) {
	if err := check(f); err != nil {
		return nil, err
	}
	out := f
	for i, p := range c {
		next, err := p.Process(out)
		if err != nil {
			return nil, fmt.Errorf("chain stage %d: %w", i, err)
		}
		out = next
	}
	return out, nil
}
