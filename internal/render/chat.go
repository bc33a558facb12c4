package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/overlay"
)

// Section configures one of the two chat overlays.
type Section struct {
	Text          string
	Background    color.Color
	UseBackground bool
	UseMask       bool
	// MaskPadding grows every line mask by this many pixels on each side.
	MaskPadding int
	// Outside places the overlay beyond the image edge, growing the canvas.
	Outside bool
}

// HasText reports whether the section has anything to render.
func (s Section) HasText() bool {
	return strings.TrimSpace(s.Text) != ""
}

func (s Section) background() color.Color {
	if s.Background == nil {
		return color.Black
	}
	return s.Background
}

// ChatConfig holds everything about the overlays except the base image.
type ChatConfig struct {
	Top      Section
	Bottom   Section
	FontSize int
	Offset   image.Point
	Filter   chatlog.Preferences
}

// DefaultChatConfig mirrors a fresh install.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		Top:      Section{Text: "* Ray Maverick waves.", Background: color.Black, MaskPadding: 5},
		Bottom:   Section{Background: color.Black, MaskPadding: 5},
		FontSize: 18,
		Offset:   image.Pt(10, 10),
		Filter:   chatlog.DefaultPreferences(),
	}
}

// Request builds the rasterizer request for c at the given output size.
func (c ChatConfig) Request(classifier *chatlog.Classifier, width, height int) overlay.Request {
	if classifier == nil {
		classifier = chatlog.Default
	}
	var top, bottom []chatlog.Line
	if c.Top.HasText() {
		top = classifier.ClassifyText(c.Top.Text, c.Filter)
	}
	if c.Bottom.HasText() {
		bottom = classifier.ClassifyText(c.Bottom.Text, c.Filter)
	}
	return overlay.NewRequest(overlay.Offset{Left: c.Offset.X, Top: c.Offset.Y}, c.FontSize, width, height, top, bottom)
}

// Warnings lists formatting problems in the chat text that usually come from
// sloppy copy and paste.
func Warnings(c ChatConfig) []string {
	var out []string
	check := func(name, text string) {
		if strings.HasPrefix(text, "\n") {
			out = append(out, fmt.Sprintf("%s text starts with an empty line", name))
		}
		if strings.HasSuffix(text, "\n") {
			out = append(out, fmt.Sprintf("%s text ends with an empty line", name))
		}
	}
	check("top", c.Top.Text)
	check("bottom", c.Bottom.Text)
	return out
}

// ParseColor accepts CSS color names, #RGB, #RRGGBB and #RRGGBBAA.
func ParseColor(s string) (color.Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return nil, fmt.Errorf("empty color")
	}
	if v == "transparent" {
		return color.Transparent, nil
	}
	if c, ok := colornames.Map[v]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(v, "#")
	if !ok {
		return nil, fmt.Errorf("unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		return color.NRGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 0xff}, nil
	}
	return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}
