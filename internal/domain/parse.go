package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses "HH:MM" (24h) into a MinuteOfDay.
func ParseClock(s string) (MinuteOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: expected HH:MM, got %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidClock, s)
	}
	return NewMinuteOfDay(h, m)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeeklyClock parses "<weekday> HH:MM", e.g. "Sun 20:00" or
// "monday 08:30". Weekday names match on their first three letters.
func ParseWeeklyClock(s string) (time.Weekday, MinuteOfDay, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, 0, errors.New("expected format: <weekday> HH:MM")
	}
	name := strings.ToLower(fields[0])
	if len(name) > 3 {
		name = name[:3]
	}
	wd, ok := weekdayNames[name]
	if !ok {
		return 0, 0, fmt.Errorf("unknown weekday %q", fields[0])
	}
	clock, err := ParseClock(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return wd, clock, nil
}

// ValidateTZ checks that tz is a valid IANA location and returns its
// canonical name.
func ValidateTZ(tz string) (string, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}

// NormalizeHabit lowercases and trims a habit category; empty input falls
// back to DefaultHabit.
func NormalizeHabit(habit string) string {
	habit = strings.ToLower(strings.TrimSpace(habit))
	if habit == "" {
		return DefaultHabit
	}
	return habit
}
