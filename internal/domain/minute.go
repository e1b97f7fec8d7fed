package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidClock rejects wall-clock values outside 00:00..23:59.
var ErrInvalidClock = errors.New("invalid wall-clock time")

// MinuteOfDay is a local wall-clock time as minutes since midnight (0..1439).
// Construct through NewMinuteOfDay or ParseClock so the range is always valid.
type MinuteOfDay int

// NewMinuteOfDay builds a MinuteOfDay from hour and minute components.
func NewMinuteOfDay(hour, minute int) (MinuteOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: hour %d", ErrInvalidClock, hour)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: minute %d", ErrInvalidClock, minute)
	}
	return MinuteOfDay(hour*60 + minute), nil
}

// MinuteOf returns t's wall-clock time in its own location.
func MinuteOf(t time.Time) MinuteOfDay {
	return MinuteOfDay(t.Hour()*60 + t.Minute())
}

func (m MinuteOfDay) Hour() int   { return int(m) / 60 }
func (m MinuteOfDay) Minute() int { return int(m) % 60 }

// String formats as zero-padded "HH:MM".
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", m.Hour(), m.Minute())
}
