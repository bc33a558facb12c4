package chatlog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/example/chatshot/internal/logger"
)

// Window bounds the lines selected from a chatlog. A line qualifies when its
// timestamp lies strictly between Reference-MaxSeconds and Reference, and
// strictly after Bound when Bound is set.
type Window struct {
	Reference  Clock
	MaxLines   int
	MaxSeconds int
	Bound      *Clock
}

func (w Window) contains(ts Clock) bool {
	if ts >= w.Reference || ts <= w.Reference.Add(-w.MaxSeconds) {
		return false
	}
	if w.Bound != nil && ts <= *w.Bound {
		return false
	}
	return true
}

// Selection is the user-facing line/second budget for one section.
type Selection struct {
	Lines   int
	Seconds int
	Include bool
}

// DefaultTopSelection covers the lines leading up to a screenshot.
func DefaultTopSelection() Selection {
	return Selection{Lines: 10, Seconds: 90, Include: true}
}

// DefaultBottomSelection covers the lines following a screenshot.
func DefaultBottomSelection() Selection {
	return Selection{Lines: 5, Seconds: 30, Include: false}
}

// TopWindow selects lines before shot.
func TopWindow(shot Clock, sel Selection) Window {
	return Window{Reference: shot, MaxLines: sel.Lines, MaxSeconds: sel.Seconds}
}

// BottomWindow selects lines after shot, up to sel.Seconds later.
func BottomWindow(shot Clock, sel Selection) Window {
	bound := shot
	return Window{Reference: shot.Add(sel.Seconds), MaxLines: sel.Lines, MaxSeconds: sel.Seconds, Bound: &bound}
}

// ExtractWindow returns the newline-joined raw lines of log that fall inside w
// and survive classification. Only the last w.MaxLines qualifying lines are
// kept, in their original order.
func (c *Classifier) ExtractWindow(log string, prefs Preferences, w Window) string {
	out, err := c.ExtractWindowReader(strings.NewReader(log), prefs, w)
	if err != nil {
		logger.Warnf("chatlog: %v", err)
	}
	return out
}

// ExtractWindowReader is ExtractWindow over a stream. Lines of any length are
// accepted. On a read error the lines gathered so far are returned with it.
func (c *Classifier) ExtractWindowReader(r io.Reader, prefs Preferences, w Window) (string, error) {
	if w.MaxLines <= 0 {
		return "", nil
	}
	ring := make([]string, w.MaxLines)
	reader := bufio.NewReader(r)
	count := 0
	idx := 0
	var readErr error
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if ts, _, ok := SplitTimestamp(line); ok && w.contains(ts) {
				if _, ok := c.Classify(line, prefs); ok {
					ring[idx] = line
					idx = (idx + 1) % w.MaxLines
					if count < w.MaxLines {
						count++
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read chatlog: %w", err)
			break
		}
	}

	lines := make([]string, count)
	if count == w.MaxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%w.MaxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return strings.Join(lines, "\n"), readErr
}

// Extract builds the top and bottom section texts around a screenshot taken
// at shot. The bottom text is empty unless bottom.Include is set.
func (c *Classifier) Extract(log string, prefs Preferences, shot Clock, top, bottom Selection) (topText, bottomText string) {
	if top.Include {
		topText = strings.TrimSpace(c.ExtractWindow(log, prefs, TopWindow(shot, top)))
	}
	if bottom.Include {
		bottomText = strings.TrimSpace(c.ExtractWindow(log, prefs, BottomWindow(shot, bottom)))
	}
	return topText, bottomText
}

// ExtractWindow runs the default classifier.
func ExtractWindow(log string, prefs Preferences, w Window) string {
	return Default.ExtractWindow(log, prefs, w)
}
