// Package chatlog classifies in-game chat lines and selects the lines that
// surround a screenshot in a session chatlog.
package chatlog

import (
	"strings"

	"github.com/example/chatshot/internal/logger"
)

// Preferences controls which optional line categories are kept. CharacterName
// marks the viewer's own speech lines.
type Preferences struct {
	IncludeRadio            bool
	IncludeAutomatedActions bool
	IncludeBroadcasts       bool
	IncludeNotices          bool
	CharacterName           string
}

// DefaultPreferences returns the filter settings used for new sessions.
func DefaultPreferences() Preferences {
	return Preferences{
		IncludeRadio:            true,
		IncludeAutomatedActions: false,
		IncludeBroadcasts:       false,
		IncludeNotices:          true,
	}
}

// owns reports whether line starts with the configured character name.
// Underscores and spaces are interchangeable and case is ignored.
func (p Preferences) owns(line string) bool {
	name := strings.TrimSpace(p.CharacterName)
	if name == "" {
		return false
	}
	normalize := func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", " "))
	}
	return strings.HasPrefix(normalize(line), normalize(name))
}

// Line is a classified chat line ready to be sent to the rasterizer.
type Line struct {
	Text     string
	Color    Color
	Category Category
}

// Classifier applies the rule table using a palette.
type Classifier struct {
	Palette Palette
}

// NewClassifier returns a Classifier using p.
func NewClassifier(p Palette) *Classifier {
	return &Classifier{Palette: p}
}

// Default is the classifier used by the package-level helpers.
var Default = NewClassifier(DefaultPalette())

// Classify categorizes a single raw line. A leading timestamp is stripped
// before matching. ok is false when the line is unrecognized or filtered out
// by prefs.
func (c *Classifier) Classify(raw string, prefs Preferences) (line Line, ok bool) {
	_, text, _ := SplitTimestamp(raw)
	for i := range rules {
		r := &rules[i]
		if !r.match(text) {
			continue
		}
		if r.allow != nil && !r.allow(text, prefs) {
			logger.Debugf("chatlog: filtered %s line %q", r.category, text)
			return Line{}, false
		}
		color := r.color(text, prefs, &c.Palette)
		if r.rewrite != nil {
			text = r.rewrite(text)
		}
		return Line{Text: text, Color: color, Category: r.category}, true
	}
	logger.Debugf("chatlog: ignoring %q", text)
	return Line{}, false
}

// ClassifyText splits text on newlines and returns the accepted lines in order.
func (c *Classifier) ClassifyText(text string, prefs Preferences) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	out := make([]Line, 0, len(raw))
	for _, l := range raw {
		if line, ok := c.Classify(l, prefs); ok {
			out = append(out, line)
		}
	}
	return out
}

// Classify runs the default classifier.
func Classify(raw string, prefs Preferences) (Line, bool) {
	return Default.Classify(raw, prefs)
}

// ClassifyText runs the default classifier over every line of text.
func ClassifyText(text string, prefs Preferences) []Line {
	return Default.ClassifyText(text, prefs)
}
