package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/example/chatshot/internal/logger"
)

const defaultPrefsPath = "~/.config/chatshot/prefs.json"

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads the document at path, migrating and re-saving it one version
// at a time when it is older than CurrentVersion. A missing file yields the
// defaults. On a corrupt file the defaults are returned with the error.
func Load(path string) (Data, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), err
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read prefs: %w", err)
	}

	var blob Blob
	if err := json.Unmarshal(raw, &blob); err != nil {
		return Default(), fmt.Errorf("parse prefs %s: %w", resolved, err)
	}
	if v := Version(blob); v > CurrentVersion {
		return Default(), fmt.Errorf("prefs %s: version %d is newer than supported %d", resolved, v, CurrentVersion)
	}
	for Version(blob) < CurrentVersion {
		from := Version(blob)
		blob, err = Step(blob)
		if err != nil {
			return Default(), err
		}
		if err := writeJSON(resolved, blob); err != nil {
			return Default(), err
		}
		logger.Infof("prefs: migrated %s from version %d to %d", resolved, from, from+1)
	}
	return decode(blob)
}

// Save writes d at CurrentVersion, creating directories as needed.
func Save(path string, d Data) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	d.Version = CurrentVersion
	return writeJSON(resolved, d)
}

// Encode writes d to w as "json" or "toml".
func Encode(w io.Writer, d Data, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	case "toml":
		return toml.NewEncoder(w).Encode(d)
	}
	return fmt.Errorf("unknown format %q", format)
}

func decode(b Blob) (Data, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return Default(), fmt.Errorf("encode prefs: %w", err)
	}
	d := Default()
	if err := json.Unmarshal(raw, &d); err != nil {
		return Default(), fmt.Errorf("decode prefs: %w", err)
	}
	return d, nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".prefs-*.json")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
