package chatlog

import (
	"fmt"
	"time"
)

// Clock is a time of day in seconds since midnight. Arithmetic never wraps
// past midnight.
type Clock int

// ClockOf returns the local time of day of t.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// NewClock builds a Clock from its components.
func NewClock(hour, minute, second int) Clock {
	return Clock(hour*3600 + minute*60 + second)
}

// ParseClock parses HH:MM:SS.
func ParseClock(s string) (Clock, error) {
	if len(s) != 8 || s[2] != ':' || s[5] != ':' {
		return 0, fmt.Errorf("invalid time %q: want HH:MM:SS", s)
	}
	h, okH := twoDigits(s[0:2])
	m, okM := twoDigits(s[3:5])
	sec, okS := twoDigits(s[6:8])
	if !okH || !okM || !okS {
		return 0, fmt.Errorf("invalid time %q: want HH:MM:SS", s)
	}
	return NewClock(h, m, sec), nil
}

// Add returns c shifted by seconds.
func (c Clock) Add(seconds int) Clock {
	return c + Clock(seconds)
}

func (c Clock) String() string {
	v := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", v/3600, (v/60)%60, v%60)
}

// SplitTimestamp separates a leading "[HH:MM:SS]" prefix from line. The single
// space that follows the prefix is dropped. ok is false when the prefix is
// absent or malformed, in which case rest is line unchanged.
func SplitTimestamp(line string) (ts Clock, rest string, ok bool) {
	if len(line) < 10 || line[0] != '[' || line[9] != ']' {
		return 0, line, false
	}
	ts, err := ParseClock(line[1:9])
	if err != nil {
		return 0, line, false
	}
	rest = line[10:]
	if len(rest) > 0 && rest[0] == ' ' {
		rest = rest[1:]
	}
	return ts, rest, true
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}
