package chatlog

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is a display color in RRGGBB hex form, as expected by the rasterizer.
type Color string

// RGBA converts c to an opaque color. Malformed values yield white.
func (c Color) RGBA() color.RGBA {
	val, err := strconv.ParseUint(string(c), 16, 32)
	if err != nil || len(c) != 6 {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{
		R: uint8(val >> 16),
		G: uint8((val >> 8) & 0xFF),
		B: uint8(val & 0xFF),
		A: 255,
	}
}

// Hex returns the color with a leading '#'.
func (c Color) Hex() string {
	return "#" + string(c)
}

// ParseColor accepts RRGGBB with or without a leading '#'.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return "", fmt.Errorf("invalid color %q: want RRGGBB", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color(strings.ToUpper(hex)), nil
}

// Palette assigns a color to every line category. OwnVoice and Mic override
// the speech colors for the viewer's own lines and microphone lines.
type Palette struct {
	Action        Color
	Radio         Color
	RadioReceive  Color
	RadioBanner   Color
	OwnVoice      Color
	LowSpeech     Color
	Phone         Color
	Speech        Color
	Mic           Color
	Whisper       Color
	Shout         Color
	Advertisement Color
	Package       Color
	News          Color
	Government    Color
	WeaponPackage Color
	ListItem      Color
	Spawn         Color
	Drugs         Color
	Default       Color
}

// DefaultPalette returns the in-game chat colors.
func DefaultPalette() Palette {
	return Palette{
		Action:        "C2A4DA",
		Radio:         "FFEC8B",
		RadioReceive:  "BFC0C2",
		RadioBanner:   "FF8282",
		OwnVoice:      "FFFFFF",
		LowSpeech:     "C8C8C8",
		Phone:         "FFFF00",
		Speech:        "E6E6E6",
		Mic:           "9DFF96",
		Whisper:       "FFFF00",
		Shout:         "FFFFFF",
		Advertisement: "33AA33",
		Package:       "33AA33",
		News:          "FFEC8B",
		Government:    "6495ED",
		WeaponPackage: "33AA33",
		ListItem:      "F0F8FF",
		Spawn:         "33AA33",
		Drugs:         "FFFF00",
		Default:       "FFFFFF",
	}
}
