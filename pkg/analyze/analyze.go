// Package analyze sends snapshot frames to a vision model for scene
// description.
//
// The client speaks the OpenAI-compatible chat completions API, which
// Ollama serves locally, so no API key is required by default.
//
// Example usage:
//
//	client, _ := analyze.NewClient(
//	    analyze.WithBaseURL("http://127.0.0.1:11434/v1"),
//	    analyze.WithModel("moondream"),
//	)
//	defer client.Close()
//
//	resp, _ := client.Vision(ctx, &analyze.Request{
//	    Image:  img,
//	    Prompt: "Describe this image in one short sentence.",
//	})
package analyze

import (
	"context"
	"image"
)

// Provider is the vision inference interface.
type Provider interface {
	// Vision analyzes an image with a text prompt.
	Vision(ctx context.Context, req *Request) (*Result, error)

	// Health checks provider connectivity and model availability.
	Health(ctx context.Context) error

	// Close releases any resources held by the provider.
	Close() error
}

// Request for vision analysis.
type Request struct {
	// Image is the snapshot to analyze.
	Image image.Image

	// Prompt is the question asked about the image.
	Prompt string

	// Model overrides the configured vision model.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// Result of a vision analysis.
type Result struct {
	// Content is the model's description.
	Content string

	// Model is the model that produced the response.
	Model string

	// LatencyMs is the wall-clock inference time.
	LatencyMs int64
}

// DefaultPrompt matches the one-line description the overlay expects.
const DefaultPrompt = "Describe this image in one short sentence."
