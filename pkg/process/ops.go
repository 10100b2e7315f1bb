package process

import "github.com/andlarsen/vision-ai/pkg/frame"

// Grayscale converts the frame to gray while keeping the BGR24 layout,
// using the integer Rec.601 weights so the result is deterministic.
func Grayscale() Processor {
	return Func(func(f *frame.Frame) (*frame.Frame, error) {
		if err := check(f); err != nil {
			return nil, err
		}
		data := make([]byte, len(f.Data))
		for i := 0; i < len(f.Data); i += f.Channels {
			b := uint32(f.Data[i])
			g := uint32(f.Data[i+1])
			r := uint32(f.Data[i+2])
			// Rec.601 luma, fixed point
			y := byte((299*r + 587*g + 114*b) / 1000)
			data[i] = y
			data[i+1] = y
			data[i+2] = y
		}
		return f.WithPixels(f.Width, f.Height, data), nil
	})
}

// Resize scales the frame to the given dimensions with nearest-neighbor
// sampling. Used to shrink frames before inference.
func Resize(width, height int) Processor {
	return Func(func(f *frame.Frame) (*frame.Frame, error) {
		if err := check(f); err != nil {
			return nil, err
		}
		if width <= 0 || height <= 0 {
			return nil, ErrUnsupportedFormat
		}
		if width == f.Width && height == f.Height {
			return f, nil
		}
		ch := f.Channels
		data := make([]byte, width*height*ch)
		for y := 0; y < height; y++ {
			sy := y * f.Height / height
			srcRow := sy * f.Width * ch
			dstRow := y * width * ch
			for x := 0; x < width; x++ {
				sx := x * f.Width / width
				copy(data[dstRow+x*ch:dstRow+x*ch+ch], f.Data[srcRow+sx*ch:srcRow+sx*ch+ch])
			}
		}
		return f.WithPixels(width, height, data), nil
	})
}

// BoxBlur applies a radius-1 box filter. Edge pixels average over the
// neighbors that exist.
func BoxBlur() Processor {
	return Func(func(f *frame.Frame) (*frame.Frame, error) {
		if err := check(f); err != nil {
			return nil, err
		}
		ch := f.Channels
		data := make([]byte, len(f.Data))
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				for c := 0; c < ch; c++ {
					var sum, n int
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							nx, ny := x+dx, y+dy
							if nx < 0 || ny < 0 || nx >= f.Width || ny >= f.Height {
								continue
							}
							sum += int(f.Data[(ny*f.Width+nx)*ch+c])
							n++
						}
					}
					data[(y*f.Width+x)*ch+c] = byte(sum / n)
				}
			}
		}
		return f.WithPixels(f.Width, f.Height, data), nil
	})
}
