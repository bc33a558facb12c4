package rasterd

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/overlay"
	"github.com/example/chatshot/internal/render"
)

var (
	boldOnce sync.Once
	boldFont *opentype.Font
	boldErr  error
)

// newFace returns a fresh face for size. Faces keep per-instance glyph
// buffers, so each render gets its own.
func newFace(size float64) (font.Face, error) {
	boldOnce.Do(func() {
		boldFont, boldErr = opentype.Parse(gobold.TTF)
	})
	if boldErr != nil {
		return nil, fmt.Errorf("parse font: %w", boldErr)
	}
	return opentype.NewFace(boldFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
}

// Rasterizer draws chat lines into overlays.
type Rasterizer struct {
	cfg RenderConfig
}

// NewRasterizer returns a Rasterizer using cfg.
func NewRasterizer(cfg RenderConfig) *Rasterizer {
	return &Rasterizer{cfg: cfg}
}

func (r *Rasterizer) fontSize(requested int) int {
	switch {
	case requested <= 0:
		return r.cfg.DefaultFontSize
	case r.cfg.MaxFontSize > 0 && requested > r.cfg.MaxFontSize:
		return r.cfg.MaxFontSize
	}
	return requested
}

// Section renders lines into a width-wide overlay. Every line gets a mask;
// lines with no visible text get a zero-width mask. It returns a nil image
// when there are no lines.
func (r *Rasterizer) Section(lines []overlay.Line, fontSize int, offset overlay.Offset, width int) (overlay.Metadata, image.Image, error) {
	if len(lines) == 0 || width <= 0 {
		return overlay.Metadata{}, nil, nil
	}
	if r.cfg.MaxLines > 0 && len(lines) > r.cfg.MaxLines {
		lines = lines[len(lines)-r.cfg.MaxLines:]
	}
	size := float64(r.fontSize(fontSize))
	face, err := newFace(size)
	if err != nil {
		return overlay.Metadata{}, nil, err
	}
	defer func() { _ = face.Close() }()

	lineHeight := math.Ceil(size * r.cfg.LineSpacing)
	pad := r.cfg.OutlineRadius + 1
	height := offset.Top + int(lineHeight)*len(lines) + pad
	if height > overlay.MaxHeight {
		height = overlay.MaxHeight
	}

	dc := gg.NewContext(width, height)
	dc.SetFontFace(face)
	ascent := float64(face.Metrics().Ascent.Ceil())

	meta := overlay.Metadata{Width: float64(width), Height: float64(height)}
	for i, l := range lines {
		top := float64(offset.Top) + lineHeight*float64(i)
		mask := overlay.Mask{Left: float64(offset.Left), Top: top, Height: lineHeight}
		if strings.TrimSpace(l.Message) != "" {
			w, _ := dc.MeasureString(l.Message)
			mask.Width = math.Ceil(w)
			c, err := chatlog.ParseColor(l.Color)
			if err != nil {
				c = chatlog.DefaultPalette().Default
			}
			dc.SetColor(c.RGBA())
			dc.DrawString(l.Message, float64(offset.Left), top+ascent)
		}
		meta.Masks = append(meta.Masks, mask)
	}

	img := toRGBA(dc.Image())
	img = render.ApplyOutline(img, render.OutlineOptions{
		Radius:  r.cfg.OutlineRadius,
		Opacity: r.cfg.OutlineOpacity,
		Gain:    render.DefaultOutlineOptions().Gain,
		Color:   render.DefaultOutlineOptions().Color,
	})
	return meta, img, nil
}

// Frame renders both sections of req into a response frame.
func (r *Rasterizer) Frame(req overlay.Request) (overlay.Frame, error) {
	req = req.Clamp()
	var f overlay.Frame
	sections := []struct {
		lines      []overlay.Line
		meta, bits int
	}{
		{req.Top, overlay.TopMeta, overlay.TopBitmap},
		{req.Bottom, overlay.BottomMeta, overlay.BottomBitmap},
	}
	for _, s := range sections {
		meta, img, err := r.Section(s.lines, req.FontSize, req.Offset, req.Width)
		if err != nil {
			return f, err
		}
		f[s.meta], f[s.bits], err = overlay.EncodeOverlay(meta, img)
		if err != nil {
			return f, err
		}
	}
	return f, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, img, b.Min, draw.Src)
	return out
}
