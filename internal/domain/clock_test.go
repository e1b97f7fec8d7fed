package domain

import (
	"errors"
	"testing"
	"time"
)

// helper: build a time in given tz and return its UTC
func mustLocalUTC(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	return time.Date(y, m, d, hh, mm, 0, 0, loc).UTC()
}

func TestDayBounds_NewYorkSpringForward(t *testing.T) {
	// 2024-03-10 06:00Z is ~01:00 local, before the DST jump; the local day
	// starts at EST midnight and ends at EDT midnight, so it is 23h long.
	ref := time.Date(2024, time.March, 10, 6, 0, 0, 0, time.UTC)

	start, end, err := DayBounds(ref, "America/New_York")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	wantStart := time.Date(2024, time.March, 10, 5, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.March, 11, 4, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("start: want %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Fatalf("end: want %v, got %v", wantEnd, end)
	}
}

func TestDayBounds_ContainsReference(t *testing.T) {
	zones := []string{"UTC", "Europe/Moscow", "America/New_York", "Asia/Tokyo"}
	refs := []time.Time{
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.June, 13, 23, 59, 0, 0, time.UTC),
		time.Date(2024, time.November, 3, 6, 30, 0, 0, time.UTC),
	}
	for _, tz := range zones {
		for _, ref := range refs {
			start, end, err := DayBounds(ref, tz)
			if err != nil {
				t.Fatalf("DayBounds(%v, %s): %v", ref, tz, err)
			}
			if ref.Before(start) || !ref.Before(end) {
				t.Fatalf("ref %v not in [%v, %v) for %s", ref, start, end, tz)
			}
		}
	}
}

func TestDayBounds_24hOutsideDSTTransitions(t *testing.T) {
	ref := mustLocalUTC(t, "Europe/Moscow", 2024, time.June, 13, 12, 0)
	start, end, err := DayBounds(ref, "Europe/Moscow")
	if err != nil {
		t.Fatalf("DayBounds: %v", err)
	}
	if got := end.Sub(start); got != 24*time.Hour {
		t.Fatalf("want 24h day, got %v", got)
	}
}

func TestWeekBounds_UTCThursday(t *testing.T) {
	ref := time.Date(2024, time.June, 13, 15, 0, 0, 0, time.UTC) // Thursday

	start, end, err := WeekBounds(ref, "UTC")
	if err != nil {
		t.Fatalf("WeekBounds: %v", err)
	}
	wantStart := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, time.June, 17, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("start: want %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Fatalf("end: want %v, got %v", wantEnd, end)
	}
	if got := end.Sub(start); got != 7*24*time.Hour {
		t.Fatalf("want 7-day week, got %v", got)
	}
}

func TestWeekBounds_StartsMondayMidnightLocal(t *testing.T) {
	// Sunday evening UTC is already Monday in Tokyo.
	ref := time.Date(2024, time.June, 16, 20, 0, 0, 0, time.UTC)

	start, _, err := WeekBounds(ref, "Asia/Tokyo")
	if err != nil {
		t.Fatalf("WeekBounds: %v", err)
	}
	loc, _ := time.LoadLocation("Asia/Tokyo")
	local := start.In(loc)
	if local.Weekday() != time.Monday {
		t.Fatalf("want Monday start, got %v", local.Weekday())
	}
	if local.Hour() != 0 || local.Minute() != 0 {
		t.Fatalf("want local midnight start, got %02d:%02d", local.Hour(), local.Minute())
	}
	want := mustLocalUTC(t, "Asia/Tokyo", 2024, time.June, 17, 0, 0)
	if !start.Equal(want) {
		t.Fatalf("start: want %v, got %v", want, start)
	}
}

func TestLocalClock(t *testing.T) {
	ref := time.Date(2024, time.March, 10, 6, 0, 0, 0, time.UTC)

	clock, err := LocalClock(ref, "America/New_York")
	if err != nil {
		t.Fatalf("LocalClock: %v", err)
	}
	if clock.Hour() != 1 || clock.Minute() != 0 {
		t.Fatalf("want 01:00, got %s", clock)
	}
}

func TestLocalInstantAtClock(t *testing.T) {
	// 09:00 local on 2024-03-10 in New York is EDT (UTC-4) after the jump.
	ref := time.Date(2024, time.March, 10, 6, 0, 0, 0, time.UTC)
	nine, err := NewMinuteOfDay(9, 0)
	if err != nil {
		t.Fatalf("NewMinuteOfDay: %v", err)
	}

	got, err := LocalInstantAtClock(ref, "America/New_York", nine)
	if err != nil {
		t.Fatalf("LocalInstantAtClock: %v", err)
	}
	want := time.Date(2024, time.March, 10, 13, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
}

func TestUnknownTimezone(t *testing.T) {
	ref := time.Now()
	nine, _ := NewMinuteOfDay(9, 0)

	if _, _, err := DayBounds(ref, "Mars/Olympus_Mons"); !errors.Is(err, ErrUnknownTimezone) {
		t.Fatalf("DayBounds: want ErrUnknownTimezone, got %v", err)
	}
	if _, _, err := WeekBounds(ref, "Mars/Olympus_Mons"); !errors.Is(err, ErrUnknownTimezone) {
		t.Fatalf("WeekBounds: want ErrUnknownTimezone, got %v", err)
	}
	if _, err := LocalClock(ref, "Mars/Olympus_Mons"); !errors.Is(err, ErrUnknownTimezone) {
		t.Fatalf("LocalClock: want ErrUnknownTimezone, got %v", err)
	}
	if _, err := LocalInstantAtClock(ref, "Mars/Olympus_Mons", nine); !errors.Is(err, ErrUnknownTimezone) {
		t.Fatalf("LocalInstantAtClock: want ErrUnknownTimezone, got %v", err)
	}
}

func TestNextDailyAt(t *testing.T) {
	at, _ := NewMinuteOfDay(20, 0)

	// Before today's fire time → today.
	now := time.Date(2024, time.June, 13, 10, 0, 0, 0, time.UTC)
	next := NextDailyAt(now, time.UTC, at)
	want := time.Date(2024, time.June, 13, 20, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}

	// Past today's fire time → tomorrow.
	now = time.Date(2024, time.June, 13, 21, 0, 0, 0, time.UTC)
	next = NextDailyAt(now, time.UTC, at)
	want = time.Date(2024, time.June, 14, 20, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}

func TestNextWeeklyAt(t *testing.T) {
	at, _ := NewMinuteOfDay(20, 0)

	// Thursday → next Sunday 20:00.
	now := time.Date(2024, time.June, 13, 10, 0, 0, 0, time.UTC)
	next := NextWeeklyAt(now, time.UTC, time.Sunday, at)
	want := time.Date(2024, time.June, 16, 20, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}

	// Sunday after the fire time → a full week ahead.
	now = time.Date(2024, time.June, 16, 21, 0, 0, 0, time.UTC)
	next = NextWeeklyAt(now, time.UTC, time.Sunday, at)
	want = time.Date(2024, time.June, 23, 20, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("want %v, got %v", want, next)
	}
}
