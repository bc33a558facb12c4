// Package rasterd is a reference implementation of the text rasterizer the
// compositor talks to. It renders classified chat lines into transparent
// overlays and answers with the length-prefixed multipart frame.
package rasterd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Render RenderConfig `mapstructure:"render"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

type RenderConfig struct {
	// LineSpacing is the line height as a multiple of the font size.
	LineSpacing     float64 `mapstructure:"line_spacing"`
	DefaultFontSize int     `mapstructure:"default_font_size"`
	MaxFontSize     int     `mapstructure:"max_font_size"`
	MaxLines        int     `mapstructure:"max_lines"`
	OutlineRadius   int     `mapstructure:"outline_radius"`
	OutlineOpacity  float64 `mapstructure:"outline_opacity"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	MaxAge         int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the settings used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           "127.0.0.1:8787",
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   30 * time.Second,
			MaxHeaderBytes: 1 << 20,
			MaxBodyBytes:   1 << 20,
		},
		Render: RenderConfig{
			LineSpacing:     1.25,
			DefaultFontSize: 18,
			MaxFontSize:     96,
			MaxLines:        200,
			OutlineRadius:   1,
			OutlineOpacity:  1,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			MaxAge:         3600,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads path (any format viper understands) over the defaults.
// CHATSHOT_RASTERD_* environment variables override both, e.g.
// CHATSHOT_RASTERD_SERVER_ADDR. An empty path uses defaults and environment
// only.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("CHATSHOT_RASTERD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.max_header_bytes", d.Server.MaxHeaderBytes)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("render.line_spacing", d.Render.LineSpacing)
	v.SetDefault("render.default_font_size", d.Render.DefaultFontSize)
	v.SetDefault("render.max_font_size", d.Render.MaxFontSize)
	v.SetDefault("render.max_lines", d.Render.MaxLines)
	v.SetDefault("render.outline_radius", d.Render.OutlineRadius)
	v.SetDefault("render.outline_opacity", d.Render.OutlineOpacity)
	v.SetDefault("cors.allowed_origins", d.CORS.AllowedOrigins)
	v.SetDefault("cors.max_age", d.CORS.MaxAge)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Render.LineSpacing <= 0 {
		return fmt.Errorf("render.line_spacing must be positive")
	}
	if c.Render.DefaultFontSize <= 0 || c.Render.MaxFontSize < c.Render.DefaultFontSize {
		return fmt.Errorf("render font sizes are inconsistent")
	}
	return nil
}
