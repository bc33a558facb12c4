package render

import (
	"image"
	"image/draw"

	"github.com/example/chatshot/internal/imagefx"
	"github.com/example/chatshot/internal/overlay"
)

// Layout is the vertical arrangement of a composition.
type Layout struct {
	Width  int
	Height int
	// BaseY is where the base image starts.
	BaseY int
	// TopY and BottomY are where the overlays are drawn.
	TopY    int
	BottomY int
}

// ComputeLayout places the base image and overlays. Overlays marked Outside
// extend the canvas instead of covering the image.
func ComputeLayout(t imagefx.Transform, chat ChatConfig, top, bottom *overlay.Overlay) Layout {
	l := Layout{Width: t.Width, Height: t.Height}
	if top != nil && chat.Top.Outside {
		h := top.Size().Y
		l.BaseY = h
		l.Height += h
	}
	if bottom != nil {
		h := bottom.Size().Y
		if chat.Bottom.Outside {
			l.BottomY = l.Height
			l.Height += h
		} else {
			l.BottomY = l.BaseY + t.Height - h
		}
	}
	return l
}

// compose draws base and the overlays of res onto c. Overlays whose section
// has no text are skipped even when cached.
func compose(c *Canvas, base image.Image, t imagefx.Transform, chat ChatConfig, res *overlay.Result) Layout {
	var top, bottom *overlay.Overlay
	if res != nil {
		top, bottom = res.Top, res.Bottom
	}
	if !chat.Top.HasText() {
		top = nil
	}
	if !chat.Bottom.HasText() {
		bottom = nil
	}
	l := ComputeLayout(t, chat, top, bottom)
	c.reset(l.Width, l.Height)
	if base != nil {
		imagefx.Apply(c.img, image.Rect(0, l.BaseY, t.Width, l.BaseY+t.Height), base, t)
	}
	drawOverlay(c.img, top, chat.Top, l.TopY)
	drawOverlay(c.img, bottom, chat.Bottom, l.BottomY)
	return l
}

func drawOverlay(dst draw.Image, o *overlay.Overlay, s Section, y int) {
	if o == nil {
		return
	}
	origin := image.Pt(0, y)
	if s.UseBackground {
		bg := image.NewUniform(s.background())
		if s.UseMask && o.Meta != nil {
			for _, m := range o.Meta.Masks {
				if m.Width <= 0 {
					continue
				}
				r := m.Rect().Inset(-s.MaskPadding).Add(origin)
				draw.Draw(dst, r, bg, image.Point{}, draw.Over)
			}
		} else {
			draw.Draw(dst, image.Rectangle{Max: o.Size()}.Add(origin), bg, image.Point{}, draw.Over)
		}
	}
	if o.Bitmap != nil {
		b := o.Bitmap.Bounds()
		draw.Draw(dst, b.Sub(b.Min).Add(origin), o.Bitmap, b.Min, draw.Over)
	}
}
