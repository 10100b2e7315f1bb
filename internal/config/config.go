// Package config provides configuration helpers for vision-ai commands.
// All settings come from environment variables with sensible defaults,
// so the binary runs with no required arguments.
package config

import (
	"os"
	"strconv"
)

// Defaults.
const (
	DefaultOllamaHost = "http://127.0.0.1:11434"
	DefaultModel      = "moondream"
	DefaultPhotoDir   = "photos"
	DefaultFontDir    = "fonts"
)

// DeviceIndex returns the capture device index from VISION_DEVICE.
// Returns -1 (scan for first available device) if unset or invalid.
func DeviceIndex() int {
	v := os.Getenv("VISION_DEVICE")
	if v == "" {
		return -1
	}
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 0 {
		return -1
	}
	return idx
}

// OllamaHost returns the inference API host from OLLAMA_HOST.
func OllamaHost() string {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		return host
	}
	return DefaultOllamaHost
}

// Model returns the vision model name from VISION_MODEL.
func Model() string {
	if model := os.Getenv("VISION_MODEL"); model != "" {
		return model
	}
	return DefaultModel
}

// PhotoDir returns the snapshot output directory from VISION_PHOTO_DIR.
func PhotoDir() string {
	if dir := os.Getenv("VISION_PHOTO_DIR"); dir != "" {
		return dir
	}
	return DefaultPhotoDir
}

// FontDir returns the overlay font directory from VISION_FONT_DIR.
func FontDir() string {
	if dir := os.Getenv("VISION_FONT_DIR"); dir != "" {
		return dir
	}
	return DefaultFontDir
}

// LogLevel returns the log level from LOG_LEVEL ("info" if unset).
func LogLevel() string {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return "info"
}

// Filter returns the frame filter name from VISION_FILTER.
// Known values: "none", "grayscale", "blur". Empty means none.
func Filter() string {
	return os.Getenv("VISION_FILTER")
}

// AsyncCapture reports whether VISION_ASYNC_CAPTURE enables the
// offloaded capture thread.
func AsyncCapture() bool {
	v, err := strconv.ParseBool(os.Getenv("VISION_ASYNC_CAPTURE"))
	return err == nil && v
}
