// Package prefs persists the chat and image settings as a versioned JSON
// document and upgrades older documents on load.
// Preferences are stored in ~/.config/chatshot/prefs.json by default.
package prefs

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 4

// Offset positions the chat text inside its overlay.
type Offset struct {
	Left int `json:"left" toml:"left"`
	Top  int `json:"top" toml:"top"`
}

// Section holds one chat overlay's text and background settings.
type Section struct {
	Text          string `json:"text" toml:"text"`
	Background    string `json:"background" toml:"background"`
	UseBackground bool   `json:"useBackground" toml:"use_background"`
	UseMask       bool   `json:"useMask" toml:"use_mask"`
	MaskWidth     int    `json:"maskWidth" toml:"mask_width"`
	Outside       bool   `json:"outside" toml:"outside"`
}

// ChatData holds the chat overlay settings.
type ChatData struct {
	Top                     Section `json:"top" toml:"top"`
	Bottom                  Section `json:"bottom" toml:"bottom"`
	FontSize                int     `json:"fontSize" toml:"font_size"`
	Offset                  Offset  `json:"offset" toml:"offset"`
	CharacterName           string  `json:"characterName" toml:"character_name"`
	IncludeRadio            bool    `json:"includeRadio" toml:"include_radio"`
	IncludeAutomatedActions bool    `json:"includeAutomatedActions" toml:"include_automated_actions"`
	IncludeBroadcasts       bool    `json:"includeBroadcasts" toml:"include_broadcasts"`
	IncludeNotices          bool    `json:"includeNotices" toml:"include_notices"`
}

// Option is one image filter toggle.
type Option struct {
	Enabled  bool    `json:"enabled" toml:"enabled"`
	Value    float64 `json:"value" toml:"value"`
	MaxValue float64 `json:"maxValue" toml:"max_value"`
}

// Options holds every image filter toggle.
type Options struct {
	Brightness Option `json:"brightness" toml:"brightness"`
	Grayscale  Option `json:"grayscale" toml:"grayscale"`
	Sepia      Option `json:"sepia" toml:"sepia"`
	Saturate   Option `json:"saturate" toml:"saturate"`
	Contrast   Option `json:"contrast" toml:"contrast"`
}

// ImageData holds the output size and filters.
type ImageData struct {
	Width   int     `json:"width" toml:"width"`
	Height  int     `json:"height" toml:"height"`
	Options Options `json:"options" toml:"options"`
}

// Data is the persisted document.
type Data struct {
	Version   int       `json:"version" toml:"version"`
	ChatData  ChatData  `json:"chatData" toml:"chat"`
	ImageData ImageData `json:"imageData" toml:"image"`
}

// Default returns the settings of a fresh install.
func Default() Data {
	section := func(text string) Section {
		return Section{Text: text, Background: "black", MaskWidth: 5}
	}
	return Data{
		Version: CurrentVersion,
		ChatData: ChatData{
			Top:            section("* Ray Maverick waves."),
			Bottom:         section(""),
			FontSize:       18,
			Offset:         Offset{Left: 10, Top: 10},
			IncludeRadio:   true,
			IncludeNotices: true,
		},
		ImageData: ImageData{
			Width:  800,
			Height: 600,
			Options: Options{
				Brightness: Option{Value: 1, MaxValue: 2},
				Grayscale:  Option{Value: 1, MaxValue: 2},
				Sepia:      Option{Value: 1, MaxValue: 1},
				Saturate:   Option{Value: 2, MaxValue: 4},
				Contrast:   Option{Value: 1.5, MaxValue: 3},
			},
		},
	}
}
