// Package overlay composites text annotations onto frames.
//
// Fonts are loaded once at startup and shared read-only across all
// render calls. Annotation never fails at render time: empty text is a
// no-op and positions outside the frame clip silently.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/andlarsen/vision-ai/internal/log"
	"github.com/andlarsen/vision-ai/pkg/frame"
)

// ErrFontLoad is returned when no usable font could be loaded.
// Fatal at startup.
var ErrFontLoad = errors.New("overlay: font load failed")

// DefaultFontSize is the rendered glyph size in points.
const DefaultFontSize = 16

// FontResource holds the loaded typeface. Read-only after LoadFonts.
type FontResource struct {
	face  font.Face
	names []string
}

// Names returns the names of the font files that loaded successfully.
func (r *FontResource) Names() []string {
	return r.names
}

// Close releases the font face.
func (r *FontResource) Close() error {
	return r.face.Close()
}

// LoadFonts parses the given font files and returns a resource backed
// by the first face that loads. Files that fail to parse are skipped
// with a warning; if none load, ErrFontLoad is returned.
func LoadFonts(paths []string) (*FontResource, error) {
	res := &FontResource{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			log.Warn("skipping font", "path", p, "error", err)
			continue
		}
		ft, err := opentype.Parse(data)
		if err != nil {
			log.Warn("skipping unparseable font", "path", p, "error", err)
			continue
		}
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    DefaultFontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			log.Warn("skipping font face", "path", p, "error", err)
			continue
		}
		if res.face == nil {
			res.face = face
		} else {
			face.Close()
		}
		res.names = append(res.names, filepath.Base(p))
	}
	if res.face == nil {
		return nil, fmt.Errorf("%w: none of %d font file(s) usable", ErrFontLoad, len(paths))
	}
	return res, nil
}

// LoadFontDir loads every .ttf/.otf file in dir.
func LoadFontDir(dir string) (*FontResource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".ttf", ".otf":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no font files in %s", ErrFontLoad, dir)
	}
	return LoadFonts(paths)
}

// Renderer draws text onto frames with a loaded font resource.
type Renderer struct {
	fonts *FontResource
	color color.RGBA
}

// NewRenderer creates a renderer using the given fonts.
func NewRenderer(fonts *FontResource) *Renderer {
	return &Renderer{
		fonts: fonts,
		color: color.RGBA{R: 0, G: 255, B: 0, A: 255},
	}
}

// NewRendererFace wraps an already constructed face. Useful with
// bitmap faces such as basicfont.Face7x13 when no font files are
// available.
func NewRendererFace(face font.Face) *Renderer {
	return NewRenderer(&FontResource{face: face})
}

// Annotate returns a new frame with text drawn at pos (baseline origin).
// Empty text returns the input unchanged. Text outside the frame bounds
// clips rather than failing.
func (r *Renderer) Annotate(f *frame.Frame, text string, pos image.Point) *frame.Frame {
	if text == "" {
		return f
	}
	img := f.ToImage()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(r.color),
		Face: r.fonts.face,
		Dot:  fixed.P(pos.X, pos.Y),
	}
	d.DrawString(text)

	out := frame.FromImage(img)
	return f.WithPixels(out.Width, out.Height, out.Data)
}

// Close releases the renderer's font resource.
func (r *Renderer) Close() error {
	return r.fonts.Close()
}
