package overlay

import (
	"image"
	"math"

	"github.com/example/chatshot/internal/chatlog"
)

// Largest output the rasterizer is asked to produce.
const (
	MaxWidth  = 3840
	MaxHeight = 2160
)

// Offset positions the text block inside each overlay.
type Offset struct {
	Left int `json:"left"`
	Top  int `json:"top"`
}

// Line is one colored message sent to the rasterizer.
type Line struct {
	Message string `json:"message"`
	Color   string `json:"color"`
}

// Request is the JSON body POSTed to the rasterizer.
type Request struct {
	Offset   Offset `json:"offset"`
	FontSize int    `json:"fontSize"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Top      []Line `json:"top"`
	Bottom   []Line `json:"bottom"`
}

// NewRequest builds a request from classified lines, clamping the output
// dimensions to MaxWidth x MaxHeight.
func NewRequest(offset Offset, fontSize, width, height int, top, bottom []chatlog.Line) Request {
	return Request{
		Offset:   offset,
		FontSize: fontSize,
		Width:    clamp(width, MaxWidth),
		Height:   clamp(height, MaxHeight),
		Top:      toLines(top),
		Bottom:   toLines(bottom),
	}
}

// Clamp bounds Width and Height to the rasterizer maximums.
func (r Request) Clamp() Request {
	r.Width = clamp(r.Width, MaxWidth)
	r.Height = clamp(r.Height, MaxHeight)
	return r
}

func clamp(v, max int) int {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func toLines(lines []chatlog.Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{Message: l.Text, Color: string(l.Color)})
	}
	return out
}

// Mask is the bounding box of one rendered line within its overlay.
type Mask struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the mask grown outward to whole pixels.
func (m Mask) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(m.Left)),
		int(math.Floor(m.Top)),
		int(math.Ceil(m.Left+m.Width)),
		int(math.Ceil(m.Top+m.Height)),
	)
}

// Metadata describes a rendered overlay.
type Metadata struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Masks  []Mask  `json:"masks"`
}

// Overlay is one decoded section. Either field may be nil when the
// corresponding response part was empty or failed to decode.
type Overlay struct {
	Meta   *Metadata
	Bitmap image.Image
}

// Size reports the overlay dimensions, preferring the metadata and falling
// back to the bitmap bounds.
func (o *Overlay) Size() image.Point {
	if o == nil {
		return image.Point{}
	}
	if o.Meta != nil && o.Meta.Width > 0 && o.Meta.Height > 0 {
		return image.Pt(int(math.Ceil(o.Meta.Width)), int(math.Ceil(o.Meta.Height)))
	}
	if o.Bitmap != nil {
		return o.Bitmap.Bounds().Size()
	}
	return image.Point{}
}

// Result holds the top and bottom overlays of one rasterizer exchange.
type Result struct {
	Top    *Overlay
	Bottom *Overlay
}
