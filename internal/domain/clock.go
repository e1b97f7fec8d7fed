package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownTimezone marks an IANA zone name the runtime cannot resolve.
// Unresolvable zones are never silently treated as UTC; callers that loop
// over users are expected to skip the item and continue.
var ErrUnknownTimezone = errors.New("unknown timezone")

// LoadZone resolves an IANA zone name against the timezone database.
func LoadZone(tz string) (*time.Location, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, tz)
	}
	return loc, nil
}

// DayBounds returns the absolute instant range of t's local calendar day in
// tz: local midnight of that date (inclusive) to local midnight of the next
// date (exclusive). On DST transition days the range is 23h or 25h long.
func DayBounds(t time.Time, tz string) (start, end time.Time, err error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	lt := t.In(loc)
	start = time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	end = time.Date(lt.Year(), lt.Month(), lt.Day()+1, 0, 0, 0, 0, loc)
	return start, end, nil
}

// WeekBounds returns the absolute instant range of t's local ISO week in tz:
// Monday local midnight (inclusive) to the next Monday local midnight
// (exclusive).
func WeekBounds(t time.Time, tz string) (start, end time.Time, err error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	lt := t.In(loc)
	daysFromMonday := (int(lt.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	start = time.Date(lt.Year(), lt.Month(), lt.Day()-daysFromMonday, 0, 0, 0, 0, loc)
	end = time.Date(lt.Year(), lt.Month(), lt.Day()-daysFromMonday+7, 0, 0, 0, 0, loc)
	return start, end, nil
}

// LocalClock returns t's wall-clock time as observed in tz.
func LocalClock(t time.Time, tz string) (MinuteOfDay, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return 0, err
	}
	return MinuteOf(t.In(loc)), nil
}

// LocalInstantAtClock returns the absolute instant of the given wall-clock
// time on ref's local calendar date in tz.
func LocalInstantAtClock(ref time.Time, tz string, clock MinuteOfDay) (time.Time, error) {
	loc, err := LoadZone(tz)
	if err != nil {
		return time.Time{}, err
	}
	lt := ref.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// NextDailyAt returns the next instant strictly after now whose wall clock in
// loc reads `at`.
func NextDailyAt(now time.Time, loc *time.Location, at MinuteOfDay) time.Time {
	ln := now.In(loc)
	next := time.Date(ln.Year(), ln.Month(), ln.Day(), at.Hour(), at.Minute(), 0, 0, loc)
	if !next.After(now) {
		next = time.Date(ln.Year(), ln.Month(), ln.Day()+1, at.Hour(), at.Minute(), 0, 0, loc)
	}
	return next
}

// NextWeeklyAt returns the next instant strictly after now falling on weekday
// wd at wall clock `at` in loc.
func NextWeeklyAt(now time.Time, loc *time.Location, wd time.Weekday, at MinuteOfDay) time.Time {
	ln := now.In(loc)
	daysAhead := (int(wd) - int(ln.Weekday()) + 7) % 7
	next := time.Date(ln.Year(), ln.Month(), ln.Day()+daysAhead, at.Hour(), at.Minute(), 0, 0, loc)
	if !next.After(now) {
		next = time.Date(ln.Year(), ln.Month(), ln.Day()+daysAhead+7, at.Hour(), at.Minute(), 0, 0, loc)
	}
	return next
}
