package analyze

import (
	"context"
	"sync"
)

// Mock implements Provider for testing.
type Mock struct {
	// VisionFunc is called when Vision is invoked.
	VisionFunc func(ctx context.Context, req *Request) (*Result, error)

	// HealthFunc is called when Health is invoked.
	HealthFunc func(ctx context.Context) error

	mu    sync.Mutex
	calls []string
}

// NewMock creates a mock provider with sensible defaults.
func NewMock() *Mock {
	return &Mock{
		VisionFunc: func(ctx context.Context, req *Request) (*Result, error) {
			return &Result{Content: "a mock scene", Model: "mock"}, nil
		},
		HealthFunc: func(ctx context.Context) error {
			return nil
		},
	}
}

// WithError returns a mock whose calls all fail with err.
func WithError(err error) *Mock {
	return &Mock{
		VisionFunc: func(ctx context.Context, req *Request) (*Result, error) {
			return nil, err
		},
		HealthFunc: func(ctx context.Context) error {
			return err
		},
	}
}

// Vision calls VisionFunc and records the call.
func (m *Mock) Vision(ctx context.Context, req *Request) (*Result, error) {
	m.record("Vision")
	if m.VisionFunc != nil {
		return m.VisionFunc(ctx, req)
	}
	return nil, ErrProviderUnavailable
}

// Health calls HealthFunc and records the call.
func (m *Mock) Health(ctx context.Context) error {
	m.record("Health")
	if m.HealthFunc != nil {
		return m.HealthFunc(ctx)
	}
	return nil
}

// Close records the call.
func (m *Mock) Close() error {
	m.record("Close")
	return nil
}

// CallCount returns how many times the named method was invoked.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (m *Mock) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, method)
}
