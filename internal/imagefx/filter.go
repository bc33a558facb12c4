package imagefx

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

type rgb [3]float64

type matrix [3][3]float64

func (m matrix) apply(c rgb) rgb {
	return rgb{
		m[0][0]*c[0] + m[0][1]*c[1] + m[0][2]*c[2],
		m[1][0]*c[0] + m[1][1]*c[1] + m[1][2]*c[2],
		m[2][0]*c[0] + m[2][1]*c[1] + m[2][2]*c[2],
	}
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// op returns the per-pixel function for f, following the CSS filter effect
// definitions.
func (f Filter) op() func(rgb) rgb {
	a := f.Amount
	switch f.Kind {
	case Brightness:
		return func(c rgb) rgb { return rgb{c[0] * a, c[1] * a, c[2] * a} }
	case Contrast:
		return func(c rgb) rgb {
			return rgb{(c[0]-0.5)*a + 0.5, (c[1]-0.5)*a + 0.5, (c[2]-0.5)*a + 0.5}
		}
	case Grayscale:
		g := 1 - unit(a)
		return matrix{
			{0.2126 + 0.7874*g, 0.7152 - 0.7152*g, 0.0722 - 0.0722*g},
			{0.2126 - 0.2126*g, 0.7152 + 0.2848*g, 0.0722 - 0.0722*g},
			{0.2126 - 0.2126*g, 0.7152 - 0.7152*g, 0.0722 + 0.9278*g},
		}.apply
	case Sepia:
		s := 1 - unit(a)
		return matrix{
			{0.393 + 0.607*s, 0.769 - 0.769*s, 0.189 - 0.189*s},
			{0.349 - 0.349*s, 0.686 + 0.314*s, 0.168 - 0.168*s},
			{0.272 - 0.272*s, 0.534 - 0.534*s, 0.131 + 0.869*s},
		}.apply
	case Saturate:
		return matrix{
			{0.213 + 0.787*a, 0.715 - 0.715*a, 0.072 - 0.072*a},
			{0.213 - 0.213*a, 0.715 + 0.285*a, 0.072 - 0.072*a},
			{0.213 - 0.213*a, 0.715 - 0.715*a, 0.072 + 0.928*a},
		}.apply
	}
	return func(c rgb) rgb { return c }
}

// ApplyChain runs chain over img in place. Each step clamps to [0,1] before
// the next one, matching how browsers compose filter lists.
func ApplyChain(img *image.NRGBA, chain []Filter) {
	if len(chain) == 0 {
		return
	}
	ops := make([]func(rgb) rgb, len(chain))
	for i, f := range chain {
		ops[i] = f.op()
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			c := rgb{float64(row[i]) / 255, float64(row[i+1]) / 255, float64(row[i+2]) / 255}
			for _, op := range ops {
				c = op(c)
				c = rgb{unit(c[0]), unit(c[1]), unit(c[2])}
			}
			row[i] = uint8(c[0]*255 + 0.5)
			row[i+1] = uint8(c[1]*255 + 0.5)
			row[i+2] = uint8(c[2]*255 + 0.5)
		}
	}
}

// Apply draws src into the rectangle r of dst through t's crop and filter
// chain. Crop areas outside src stay transparent.
func Apply(dst draw.Image, r image.Rectangle, src image.Image, t Transform) {
	if src == nil || r.Empty() {
		return
	}
	crop := t.Crop.Rect().Add(src.Bounds().Min)
	if crop.Empty() {
		crop = src.Bounds()
	}
	visible := crop.Intersect(src.Bounds())
	if visible.Empty() {
		return
	}

	tmp := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	sx := float64(r.Dx()) / float64(crop.Dx())
	sy := float64(r.Dy()) / float64(crop.Dy())
	target := image.Rect(
		int(math.Round(float64(visible.Min.X-crop.Min.X)*sx)),
		int(math.Round(float64(visible.Min.Y-crop.Min.Y)*sy)),
		int(math.Round(float64(visible.Max.X-crop.Min.X)*sx)),
		int(math.Round(float64(visible.Max.Y-crop.Min.Y)*sy)),
	)
	xdraw.CatmullRom.Scale(tmp, target, src, visible, xdraw.Src, nil)

	if t.Crop.ScaleX < 0 {
		mirrorX(tmp)
	}
	if t.Crop.ScaleY < 0 {
		mirrorY(tmp)
	}
	ApplyChain(tmp, t.Effects.Chain())
	draw.Draw(dst, r, tmp, image.Point{}, draw.Over)
}

func mirrorX(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for l, r := b.Min.X, b.Max.X-1; l < r; l, r = l+1, r-1 {
			li, ri := img.PixOffset(l, y), img.PixOffset(r, y)
			for k := 0; k < 4; k++ {
				img.Pix[li+k], img.Pix[ri+k] = img.Pix[ri+k], img.Pix[li+k]
			}
		}
	}
}

func mirrorY(img *image.NRGBA) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	tmp := make([]byte, rowLen)
	for t, bt := b.Min.Y, b.Max.Y-1; t < bt; t, bt = t+1, bt-1 {
		top := img.Pix[img.PixOffset(b.Min.X, t) : img.PixOffset(b.Min.X, t)+rowLen]
		bottom := img.Pix[img.PixOffset(b.Min.X, bt) : img.PixOffset(b.Min.X, bt)+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
