// Package imagefx crops, scales and color-filters the base screenshot.
package imagefx

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"
)

// Kind names a filter effect.
type Kind string

const (
	Brightness Kind = "brightness"
	Grayscale  Kind = "grayscale"
	Sepia      Kind = "sepia"
	Saturate   Kind = "saturate"
	Contrast   Kind = "contrast"
)

// Order is the fixed order in which enabled effects are applied.
var Order = []Kind{Brightness, Grayscale, Sepia, Saturate, Contrast}

// Effect is one optional filter. Magnitude is clamped to [0, MaxMagnitude].
type Effect struct {
	Enabled      bool
	Magnitude    float64
	MaxMagnitude float64
}

func (e Effect) clamped() float64 {
	v := e.Magnitude
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	if upper := math.Max(e.MaxMagnitude, 0); v > upper {
		v = upper
	}
	return v
}

// Effects holds every supported filter.
type Effects struct {
	Brightness Effect
	Grayscale  Effect
	Sepia      Effect
	Saturate   Effect
	Contrast   Effect
}

// DefaultEffects returns all effects disabled with their preset magnitudes.
func DefaultEffects() Effects {
	return Effects{
		Brightness: Effect{Magnitude: 1, MaxMagnitude: 2},
		Grayscale:  Effect{Magnitude: 1, MaxMagnitude: 2},
		Sepia:      Effect{Magnitude: 1, MaxMagnitude: 1},
		Saturate:   Effect{Magnitude: 2, MaxMagnitude: 4},
		Contrast:   Effect{Magnitude: 1.5, MaxMagnitude: 3},
	}
}

// Get returns the effect for k.
func (e *Effects) Get(k Kind) (*Effect, bool) {
	switch k {
	case Brightness:
		return &e.Brightness, true
	case Grayscale:
		return &e.Grayscale, true
	case Sepia:
		return &e.Sepia, true
	case Saturate:
		return &e.Saturate, true
	case Contrast:
		return &e.Contrast, true
	}
	return nil, false
}

// Filter is a resolved effect in a chain.
type Filter struct {
	Kind   Kind
	Amount float64
}

func (f Filter) String() string {
	return fmt.Sprintf("%s(%s)", f.Kind, strconv.FormatFloat(f.Amount, 'f', -1, 64))
}

// Chain returns the enabled effects in Order with clamped magnitudes.
func (e Effects) Chain() []Filter {
	var out []Filter
	for _, k := range Order {
		eff, _ := e.Get(k)
		if !eff.Enabled {
			continue
		}
		out = append(out, Filter{Kind: k, Amount: eff.clamped()})
	}
	return out
}

// ChainString renders the chain in CSS filter syntax, "none" when empty.
func ChainString(chain []Filter) string {
	if len(chain) == 0 {
		return "none"
	}
	parts := make([]string, len(chain))
	for i, f := range chain {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

// ParseEffects enables the effects named in spec, a comma separated list of
// kind or kind=magnitude entries, on top of base.
func ParseEffects(spec string, base Effects) (Effects, error) {
	out := base
	for _, item := range strings.Split(spec, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, value, hasValue := strings.Cut(item, "=")
		eff, ok := out.Get(Kind(strings.ToLower(strings.TrimSpace(name))))
		if !ok {
			return base, fmt.Errorf("unknown filter %q", name)
		}
		eff.Enabled = true
		if hasValue {
			v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return base, fmt.Errorf("invalid magnitude for %s: %w", name, err)
			}
			eff.Magnitude = v
		}
	}
	return out, nil
}

// Crop is a source-space rectangle. Negative scales mirror the axis.
type Crop struct {
	X, Y          float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64
}

// Rect returns the crop rectangle rounded to whole pixels.
func (c Crop) Rect() image.Rectangle {
	x0 := int(math.Round(c.X))
	y0 := int(math.Round(c.Y))
	return image.Rect(x0, y0, x0+int(math.Round(c.Width)), y0+int(math.Round(c.Height)))
}

// ParseCrop parses "x,y,width,height".
func ParseCrop(s string) (Crop, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Crop{}, fmt.Errorf("invalid crop %q: want x,y,width,height", s)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Crop{}, fmt.Errorf("invalid crop %q", s)
		}
		vals[i] = v
	}
	if vals[2] <= 0 || vals[3] <= 0 {
		return Crop{}, fmt.Errorf("crop %q is empty", s)
	}
	return Crop{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3], ScaleX: 1, ScaleY: 1}, nil
}

// Transform describes how the base image is placed on the output: the output
// size, the source crop and the filter effects.
type Transform struct {
	Width   int
	Height  int
	Crop    Crop
	Effects Effects
}

// DefaultTransform returns an 800x600 output with an identity crop.
func DefaultTransform() Transform {
	return Transform{
		Width:   800,
		Height:  600,
		Crop:    Crop{Width: 800, Height: 600, ScaleX: 1, ScaleY: 1},
		Effects: DefaultEffects(),
	}
}
