package analyze

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func completionBody(content string) string {
	return `{"model":"moondream","choices":[{"message":{"content":"` + content + `"},"finish_reason":"stop"}]}`
}

func TestVisionSendsImageAndPrompt(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Write([]byte(completionBody("a desk with a laptop")))
	}))
	defer srv.Close()

	client, err := NewClient(WithBaseURL(srv.URL), WithModel("moondream"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	defer client.Close()

	res, err := client.Vision(context.Background(), &Request{
		Image:  image.NewRGBA(image.Rect(0, 0, 32, 32)),
		Prompt: "what is this?",
	})
	if err != nil {
		t.Fatalf("Vision failed: %v", err)
	}

	if res.Content != "a desk with a laptop" {
		t.Errorf("Unexpected content: %q", res.Content)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("Expected /chat/completions, got %s", gotPath)
	}
	if gotPayload["model"] != "moondream" {
		t.Errorf("Expected model moondream, got %v", gotPayload["model"])
	}

	// The message must carry both the prompt text and an image part.
	raw, _ := json.Marshal(gotPayload["messages"])
	body := string(raw)
	if !strings.Contains(body, "what is this?") {
		t.Error("Prompt missing from request")
	}
	if !strings.Contains(body, "data:image/jpeg;base64,") {
		t.Error("Image data URL missing from request")
	}
}

func TestVisionDefaultPrompt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		json.NewDecoder(r.Body).Decode(&payload)
		raw, _ := json.Marshal(payload["messages"])
		if !strings.Contains(string(raw), DefaultPrompt) {
			t.Error("Expected the default prompt")
		}
		w.Write([]byte(completionBody("ok")))
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL))
	defer client.Close()

	if _, err := client.Vision(context.Background(), &Request{}); err != nil {
		t.Fatalf("Vision failed: %v", err)
	}
}

func TestVisionRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody("eventually")))
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL), WithRetry(3, time.Millisecond))
	defer client.Close()

	res, err := client.Vision(context.Background(), &Request{})
	if err != nil {
		t.Fatalf("Vision failed after retries: %v", err)
	}
	if res.Content != "eventually" {
		t.Errorf("Unexpected content: %q", res.Content)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

func TestVisionDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad request"}}`))
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL), WithRetry(3, time.Millisecond))
	defer client.Close()

	_, err := client.Vision(context.Background(), &Request{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "bad request" {
		t.Errorf("Unexpected APIError: %+v", apiErr)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"data":[{"id":"moondream"}]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(WithBaseURL(srv.URL))
	defer client.Close()

	if err := client.Health(context.Background()); err != nil {
		t.Errorf("Health failed: %v", err)
	}
}

func TestHealthUnreachable(t *testing.T) {
	client, _ := NewClient(WithBaseURL("http://127.0.0.1:1"), WithTimeout(100*time.Millisecond))
	defer client.Close()

	if err := client.Health(context.Background()); !errors.Is(err, ErrProviderUnavailable) {
		t.Errorf("Expected ErrProviderUnavailable, got %v", err)
	}
}

func TestNewClientRequiresModel(t *testing.T) {
	if _, err := NewClient(WithModel("")); !errors.Is(err, ErrNoModel) {
		t.Errorf("Expected ErrNoModel, got %v", err)
	}
}

func TestDownscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1024, 512))

	out := Downscale(img, 512)
	b := out.Bounds()
	if b.Dx() != 512 || b.Dy() != 256 {
		t.Errorf("Expected 512x256, got %dx%d", b.Dx(), b.Dy())
	}

	small := image.NewRGBA(image.Rect(0, 0, 100, 100))
	if Downscale(small, 512) != small {
		t.Error("Expected small image to pass through")
	}
	if Downscale(img, 0) != img {
		t.Error("Expected zero maxSide to disable downscaling")
	}
}
