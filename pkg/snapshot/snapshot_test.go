package snapshot

import (
	"image/jpeg"
	"os"
	"strings"
	"testing"

	"github.com/andlarsen/vision-ai/pkg/frame"
)

func TestSaveWritesDecodableJPEG(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	f := frame.New(32, 24)
	for i := range f.Data {
		f.Data[i] = byte(i)
	}

	path, err := store.Save(f)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !strings.HasPrefix(path, store.Dir()) {
		t.Errorf("Expected path under %s, got %s", store.Dir(), path)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	img, err := jpeg.Decode(file)
	if err != nil {
		t.Fatalf("Saved file is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Errorf("Expected 32x24, got %v", img.Bounds())
	}
}

func TestSaveUniqueNames(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	f := frame.New(8, 8)
	a, err := store.Save(f)
	if err != nil {
		t.Fatal(err)
	}
	b, err := store.Save(f)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("Expected distinct filenames for back-to-back snapshots")
	}
}

func TestNewStoreCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/photos"
	if _, err := NewStore(dir); err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("Expected dir to exist: %v", err)
	}
}
