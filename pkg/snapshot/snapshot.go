// Package snapshot writes captured frames to disk as JPEG photos.
package snapshot

import (
	"fmt"
	"image/jpeg"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

// Store writes snapshots into a photos directory.
type Store struct {
	dir     string
	quality int
}

// NewStore creates the photos directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	return &Store{dir: dir, quality: 90}, nil
}

// Save writes the frame as a JPEG and returns its path. Filenames carry
// the capture timestamp plus a short unique suffix so rapid snapshots
// never collide.
func (s *Store) Save(f *frame.Frame) (string, error) {
	ts := f.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	name := fmt.Sprintf("capture_%s_%s.jpg",
		ts.Format("20060102_150405"),
		uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, f.ToImage(), &jpeg.Options{Quality: s.quality}); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("snapshot: encode: %w", err)
	}
	return path, nil
}

// Dir returns the photos directory.
func (s *Store) Dir() string {
	return s.dir
}
