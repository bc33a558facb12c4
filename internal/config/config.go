package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/example/chatshot/internal/chatlog"
)

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	Rasterizer string
	SaveDir    string
	Prefs      string
	LogLevel   string
	LogFormat  string
	Notify     Notify
	Palette    chatlog.Palette
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Palette: chatlog.DefaultPalette(),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
// Only palette entries that differ from the built-in colors are written.
func (c *Config) String() string {
	var sb strings.Builder

	root := []struct{ key, value string }{
		{"rasterizer", c.Rasterizer},
		{"save_dir", c.SaveDir},
		{"prefs", c.Prefs},
		{"log_level", c.LogLevel},
		{"log_format", c.LogFormat},
	}
	for _, kv := range root {
		if kv.value != "" {
			fmt.Fprintf(&sb, "%s = %s\n", kv.key, kv.value)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	overrides := paletteOverrides(c.Palette)
	if len(overrides) > 0 {
		sb.WriteString("\n[palette]\n")
		for _, kv := range overrides {
			fmt.Fprintf(&sb, "%s = #%s\n", kv[0], kv[1])
		}
	}
	return sb.String()
}

func paletteOverrides(p chatlog.Palette) [][2]string {
	def := reflect.ValueOf(chatlog.DefaultPalette())
	val := reflect.ValueOf(p)
	var out [][2]string
	for i := 0; i < val.NumField(); i++ {
		got := val.Field(i).String()
		if got != def.Field(i).String() {
			out = append(out, [2]string{val.Type().Field(i).Name, got})
		}
	}
	return out
}
