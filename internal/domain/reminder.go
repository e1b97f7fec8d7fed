package domain

import "time"

// Reminder nudges a user to log a habit, at most once per local calendar day
// inside its send window. Window bounds are local wall-clock times in the
// owner's timezone; if either bound is absent the reminder is always
// considered in window. Windows do not wrap midnight: WindowStart greater
// than WindowEnd means the window is empty and the reminder never fires.
type Reminder struct {
	ID          string
	UserID      string
	Active      bool
	Habit       *string // informational label used in the message text
	WindowStart *MinuteOfDay
	WindowEnd   *MinuteOfDay
	LastSentAt  *time.Time // UTC, nullable
	CreatedAt   time.Time  // UTC
}

// ActiveReminder is a Reminder joined with the owner fields the dispatcher
// needs, so one query feeds the whole evaluation loop.
type ActiveReminder struct {
	Reminder
	OwnerPhone string
	OwnerTZ    string
}
