package render

import (
	"image"
	"image/color"
	"image/draw"
)

// OutlineOptions configures the halo drawn behind rasterized chat text so it
// stays legible on bright screenshots.
type OutlineOptions struct {
	Radius  int
	Opacity float64
	// Gain amplifies the blurred coverage so thin glyph strokes produce a
	// solid edge rather than a faint glow.
	Gain  float64
	Color color.RGBA
}

// DefaultOutlineOptions returns a tight black halo.
func DefaultOutlineOptions() OutlineOptions {
	return OutlineOptions{
		Radius:  1,
		Opacity: 1,
		Gain:    4,
		Color:   color.RGBA{A: 255},
	}
}

// ApplyOutline returns a copy of img with a halo under every covered pixel.
// The result keeps img's bounds, so callers must leave Radius pixels of
// padding around the text.
func ApplyOutline(img *image.RGBA, opts OutlineOptions) *image.RGBA {
	if img == nil || img.Bounds().Empty() || opts.Opacity <= 0 {
		return img
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	gain := opts.Gain
	if gain < 1 {
		gain = 1
	}

	b := img.Bounds()
	// Glyph coverage becomes mask alpha; untouched pixels stay transparent.
	mask := image.NewAlpha(b.Sub(b.Min))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetAlpha(x-b.Min.X, y-b.Min.Y, color.Alpha{A: a})
			}
		}
	}
	halo := boxBlur(mask, opts.Radius)
	for i, v := range halo.Pix {
		scaled := float64(v) * gain * opacity
		if scaled > 255 {
			scaled = 255
		}
		halo.Pix[i] = uint8(scaled + 0.5)
	}

	dst := image.NewRGBA(b)
	draw.DrawMask(dst, b, image.NewUniform(opts.Color), image.Point{}, halo, image.Point{}, draw.Over)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}

// boxBlur averages src over a (2r+1)x(2r+1) window using two separable
// prefix-sum passes.
func boxBlur(src *image.Alpha, radius int) *image.Alpha {
	b := src.Bounds()
	out := image.NewAlpha(b)
	if radius <= 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := image.NewAlpha(b)

	prefix := make([]int, max(w, h)+1)
	window := func(i, n int) (int, int) {
		lo, hi := i-radius, i+radius
		if lo < 0 {
			lo = 0
		}
		if hi >= n {
			hi = n - 1
		}
		return lo, hi
	}

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			lo, hi := window(x, w)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			lo, hi := window(y, h)
			out.Pix[y*out.Stride+x] = uint8((prefix[hi+1] - prefix[lo]) / (hi - lo + 1))
		}
	}
	return out
}
