package render

import (
	"image"
	"image/draw"
)

// Canvas is the drawing surface a Session renders into. It is resized to
// fit each composition.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas returns an empty canvas.
func NewCanvas() *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rectangle{})}
}

// Image returns the current pixels. The image is replaced, not mutated in
// place, when the canvas changes size.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() image.Point {
	return c.img.Bounds().Size()
}

func (c *Canvas) reset(w, h int) {
	if c.img == nil || c.img.Bounds().Dx() != w || c.img.Bounds().Dy() != h {
		c.img = image.NewRGBA(image.Rect(0, 0, w, h))
		return
	}
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}
