package config

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/example/chatshot/internal/chatlog"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		// Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2 {
			value = value[1 : len(value)-1]
		}

		switch currentSection {
		case "":
			setRootField(cfg, key, value)
		case "notify":
			if err := setNotifyField(&cfg.Notify, key, value); err != nil {
				return nil, fmt.Errorf("error in section [notify]: %w", err)
			}
		case "palette":
			if err := setPaletteField(&cfg.Palette, key, value); err != nil {
				return nil, fmt.Errorf("error in section [palette]: %w", err)
			}
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "rasterizer":
		cfg.Rasterizer = value
	case "save_dir":
		cfg.SaveDir = value
	case "prefs":
		cfg.Prefs = value
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	}
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

// setPaletteField assigns a color to the palette field whose name matches
// key case-insensitively, ignoring underscores. Unknown keys are ignored.
func setPaletteField(p *chatlog.Palette, key, value string) error {
	want := strings.ReplaceAll(key, "_", "")
	val := reflect.ValueOf(p).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if !strings.EqualFold(typ.Field(i).Name, want) {
			continue
		}
		col, err := chatlog.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		val.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}
