package activity

import (
	"fmt"
	"time"
)

// clockLayouts are accepted time-of-day formats, tried in order.
var clockLayouts = []string{"15:04:05", "15:04"}

// ClockTime is a time of day, used for the lights-on and lights-off
// settings. The zero value is midnight.
type ClockTime struct {
	seconds int // seconds since midnight
}

// ParseClockTime parses a clock string such as "9:00:00" or "23:00".
func ParseClockTime(s string) (ClockTime, error) {
	for _, layout := range clockLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return ClockTime{seconds: t.Hour()*3600 + t.Minute()*60 + t.Second()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("%w: invalid clock time %q", ErrInvalidConfig, s)
}

// SecondsOfDay returns the seconds elapsed since midnight.
func (c ClockTime) SecondsOfDay() int { return c.seconds }

// On returns the absolute time with this clock time on t's calendar date,
// in t's location.
func (c ClockTime) On(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, c.seconds, 0, t.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.seconds/3600, c.seconds/60%60, c.seconds%60)
}

// secondsOfDay extracts the clock component of an absolute timestamp.
func secondsOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
