package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/samcharles93/descale/internal/plane"
)

// decodeImage reads a PNG, TIFF, BMP or JPEG file into float32 planes in
// [0, 1]. Grayscale images become a single plane, everything else three RGB
// planes without subsampling.
func decodeImage(path string) (*plane.Frame, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	b := m.Bounds()
	w, h := b.Dx(), b.Dy()

	gray := false
	switch m.(type) {
	case *image.Gray, *image.Gray16:
		gray = true
	}

	numPlanes := 3
	if gray {
		numPlanes = 1
	}
	f := plane.NewFrame(w, h, numPlanes, 0, 0)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r16, g16, b16, _ := m.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if gray {
				f.Planes[0].Set(x, y, float32(r16)/65535.0)
				continue
			}
			f.Planes[0].Set(x, y, float32(r16)/65535.0)
			f.Planes[1].Set(x, y, float32(g16)/65535.0)
			f.Planes[2].Set(x, y, float32(b16)/65535.0)
		}
	}

	return f, nil
}

// encodePNG writes a frame as a 16-bit PNG, clamping samples to [0, 1].
func encodePNG(path string, f *plane.Frame) error {
	w, h := f.Width(), f.Height()

	var m image.Image
	if len(f.Planes) == 1 {
		g := image.NewGray16(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g.SetGray16(x, y, color.Gray16{Y: quantize16(f.Planes[0].At(x, y))})
			}
		}
		m = g
	} else {
		rgba := image.NewNRGBA64(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				rgba.SetNRGBA64(x, y, color.NRGBA64{
					R: quantize16(f.Planes[0].At(x, y)),
					G: quantize16(f.Planes[1].At(x, y)),
					B: quantize16(f.Planes[2].At(x, y)),
					A: 65535,
				})
			}
		}
		m = rgba
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	return png.Encode(out, m)
}

func quantize16(v float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 65535
	}
	return uint16(v*65535.0 + 0.5)
}
