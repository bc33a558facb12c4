package prefs

import (
	"fmt"
)

// Blob is a decoded but not yet typed preferences document.
type Blob map[string]any

// step upgrades a document from version to version+1. Steps never modify
// their input.
type step func(Blob) Blob

var steps = []step{
	0: resetLegacyOffset,
	1: structureSections,
	2: addBackground,
	3: addMask,
}

// Version reports the schema version of b. Documents without a version
// predate versioning and count as 0.
func Version(b Blob) int {
	switch v := b["version"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Step applies the single migration that upgrades b by one version.
func Step(b Blob) (Blob, error) {
	v := Version(b)
	if v < 0 || v >= len(steps) {
		return nil, fmt.Errorf("no migration from version %d", v)
	}
	out := steps[v](clone(b))
	out["version"] = float64(v + 1)
	return out, nil
}

// Migrate applies every pending migration in order. A current document is
// returned unchanged.
func Migrate(b Blob) (Blob, error) {
	if v := Version(b); v > CurrentVersion {
		return nil, fmt.Errorf("preferences version %d is newer than supported %d", v, CurrentVersion)
	}
	out := clone(b)
	for Version(out) < CurrentVersion {
		next, err := Step(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// resetLegacyOffset replaces the old default text offset with the new one.
func resetLegacyOffset(b Blob) Blob {
	chat := object(b, "chatData")
	if chat == nil {
		return b
	}
	if off, ok := chat["offset"].(map[string]any); ok && number(off["left"]) == 30 && number(off["top"]) == 10 {
		chat["offset"] = map[string]any{"left": float64(10), "top": float64(10)}
	}
	return b
}

// structureSections turns the flat top/bottom strings into section objects.
func structureSections(b Blob) Blob {
	chat := object(b, "chatData")
	if chat == nil {
		return b
	}
	for _, key := range []string{"top", "bottom"} {
		if text, ok := chat[key].(string); ok {
			chat[key] = map[string]any{"text": text}
		}
	}
	return b
}

func addBackground(b Blob) Blob {
	eachSection(b, func(s map[string]any) {
		setDefault(s, "background", "black")
		setDefault(s, "useBackground", false)
		setDefault(s, "outside", false)
	})
	return b
}

func addMask(b Blob) Blob {
	eachSection(b, func(s map[string]any) {
		setDefault(s, "useMask", false)
		setDefault(s, "maskWidth", float64(3))
	})
	return b
}

func eachSection(b Blob, fn func(map[string]any)) {
	chat := object(b, "chatData")
	if chat == nil {
		return
	}
	for _, key := range []string{"top", "bottom"} {
		s, ok := chat[key].(map[string]any)
		if !ok {
			s = map[string]any{"text": ""}
			chat[key] = s
		}
		fn(s)
	}
}

func object(b Blob, key string) map[string]any {
	m, _ := b[key].(map[string]any)
	return m
}

func setDefault(m map[string]any, key string, v any) {
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}

func number(v any) float64 {
	f, _ := v.(float64)
	return f
}

func clone(b Blob) Blob {
	out := make(Blob, len(b))
	for k, v := range b {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, vv := range t {
			m[k] = cloneValue(vv)
		}
		return m
	case Blob:
		return clone(t)
	case []any:
		s := make([]any, len(t))
		for i, vv := range t {
			s[i] = cloneValue(vv)
		}
		return s
	}
	return v
}
