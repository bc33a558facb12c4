package prefs

import (
	"image"
	"image/color"

	"github.com/example/chatshot/internal/chatlog"
	"github.com/example/chatshot/internal/imagefx"
	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/render"
)

// Filter returns the classification preferences.
func (c ChatData) Filter() chatlog.Preferences {
	return chatlog.Preferences{
		IncludeRadio:            c.IncludeRadio,
		IncludeAutomatedActions: c.IncludeAutomatedActions,
		IncludeBroadcasts:       c.IncludeBroadcasts,
		IncludeNotices:          c.IncludeNotices,
		CharacterName:           c.CharacterName,
	}
}

// Config returns the compositor view of c.
func (c ChatData) Config() render.ChatConfig {
	return render.ChatConfig{
		Top:      c.Top.section(),
		Bottom:   c.Bottom.section(),
		FontSize: c.FontSize,
		Offset:   image.Pt(c.Offset.Left, c.Offset.Top),
		Filter:   c.Filter(),
	}
}

func (s Section) section() render.Section {
	var bg color.Color = color.Black
	if s.Background != "" {
		c, err := render.ParseColor(s.Background)
		if err != nil {
			logger.Warnf("prefs: %v, using black", err)
		} else {
			bg = c
		}
	}
	pad := s.MaskWidth
	if pad < 0 {
		pad = 0
	}
	return render.Section{
		Text:          s.Text,
		Background:    bg,
		UseBackground: s.UseBackground,
		UseMask:       s.UseMask,
		MaskPadding:   pad,
		Outside:       s.Outside,
	}
}

func (o Option) effect() imagefx.Effect {
	return imagefx.Effect{Enabled: o.Enabled, Magnitude: o.Value, MaxMagnitude: o.MaxValue}
}

// Effects returns the filter effects.
func (i ImageData) Effects() imagefx.Effects {
	return imagefx.Effects{
		Brightness: i.Options.Brightness.effect(),
		Grayscale:  i.Options.Grayscale.effect(),
		Sepia:      i.Options.Sepia.effect(),
		Saturate:   i.Options.Saturate.effect(),
		Contrast:   i.Options.Contrast.effect(),
	}
}

// SetEffects stores e back into the filter options.
func (i *ImageData) SetEffects(e imagefx.Effects) {
	set := func(o *Option, eff imagefx.Effect) {
		*o = Option{Enabled: eff.Enabled, Value: eff.Magnitude, MaxValue: eff.MaxMagnitude}
	}
	set(&i.Options.Brightness, e.Brightness)
	set(&i.Options.Grayscale, e.Grayscale)
	set(&i.Options.Sepia, e.Sepia)
	set(&i.Options.Saturate, e.Saturate)
	set(&i.Options.Contrast, e.Contrast)
}

// Transform returns an output transform of the stored size using crop. A
// zero crop covers the whole output.
func (i ImageData) Transform(crop imagefx.Crop) imagefx.Transform {
	t := imagefx.Transform{Width: i.Width, Height: i.Height, Crop: crop, Effects: i.Effects()}
	if t.Width <= 0 || t.Height <= 0 {
		def := imagefx.DefaultTransform()
		t.Width, t.Height = def.Width, def.Height
	}
	if crop.Width <= 0 || crop.Height <= 0 {
		t.Crop = imagefx.Crop{Width: float64(t.Width), Height: float64(t.Height), ScaleX: 1, ScaleY: 1}
	}
	return t
}
