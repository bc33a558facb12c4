// Package notify raises desktop notifications when an export finishes.
package notify

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/chatshot/internal/logger"
	"github.com/example/chatshot/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when a composited screenshot is written to disk.
	EventSave Event = "save"
	// EventCopy fires when a composited screenshot is copied to the clipboard.
	EventCopy Event = "copy"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title   string
	Timeout time.Duration
	Events  map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title:   "chatshot",
		Timeout: 5 * time.Second,
		Events: map[Event]EventPreference{
			EventSave: {Template: "Saved %s"},
			EventCopy: {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences applies CHATSHOT_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("CHATSHOT_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	if v := strings.TrimSpace(os.Getenv("CHATSHOT_NOTIFY_TIMEOUT")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			prefs.Timeout = d
		} else {
			logger.Warnf("notify: ignoring CHATSHOT_NOTIFY_TIMEOUT: %v", err)
		}
	}
	apply := func(key string, event Event) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	apply("CHATSHOT_NOTIFY_SAVE_TEXT", EventSave)
	apply("CHATSHOT_NOTIFY_COPY_TEXT", EventCopy)
	return prefs
}

// send is swapped out in tests.
var send = platform.Notify

// Notifier sends OS-level notifications for the enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
}

// New creates a new Notifier using the provided preferences. All events
// start disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Timeout: prefs.Timeout, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool)}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save reports a written file, using the file itself as the icon.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := n.options()
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, statErr := os.Stat(abs); statErr == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy reports a clipboard export with a preview of img when given.
func (n *Notifier) Copy(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "screenshot"
	}
	opts := n.options()
	if img != nil {
		path, cleanup, err := createPreview(img)
		if err != nil {
			logger.Warnf("notify: preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) options() platform.Options {
	return platform.Options{Timeout: n.prefs.Timeout}
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(n.prefs.Title, body, opts); err != nil {
		logger.Warnf("notify: %s: %v", event, err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "chatshot-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("notify: remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
