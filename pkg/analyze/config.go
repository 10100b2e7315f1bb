package analyze

import (
	"log/slog"
	"time"
)

// Config holds provider configuration.
type Config struct {
	// Connection
	BaseURL string // API base URL
	APIKey  string // API key (not needed for local Ollama)

	// Model is the vision model name.
	Model string

	// MaxTokens is the default response length limit.
	MaxTokens int

	// ResizeTo downscales the longest snapshot side before encoding.
	// Small vision models only need a few hundred pixels, and CPU
	// inference time scales with input size. Zero disables resizing.
	ResizeTo int

	// Timeout bounds a single request. CPU inference is slow.
	Timeout time.Duration

	// Retry configuration for 429/5xx responses.
	MaxRetries int
	RetryDelay time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring the client.
type Option func(*Config)

// WithBaseURL sets the API base URL.
// Examples: "http://localhost:11434/v1", "https://api.openai.com/v1"
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithModel sets the vision model.
func WithModel(model string) Option {
	return func(c *Config) { c.Model = model }
}

// WithMaxTokens sets the default max tokens.
func WithMaxTokens(n int) Option {
	return func(c *Config) { c.MaxTokens = n }
}

// WithResizeTo sets the pre-encoding downscale target.
func WithResizeTo(px int) Option {
	return func(c *Config) { c.ResizeTo = px }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRetry configures retry behavior.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// DefaultConfig returns sensible defaults for a local Ollama.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://127.0.0.1:11434/v1",
		Model:      "moondream",
		MaxTokens:  200,
		ResizeTo:   512,
		Timeout:    120 * time.Second,
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
		Logger:     slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Model == "" {
		return ErrNoModel
	}
	return nil
}
