// Package reminder decides when habit reminders fire and dispatches them.
package reminder

import (
	"time"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
)

// IsDue reports whether the reminder should fire at now. Pure function of
// its inputs; the only error source is an unresolvable owner timezone.
//
// A reminder is due when it is active, now falls inside its local send
// window, and it has not already been sent at or after the start of the
// current window occurrence. That yields at most one send per local
// calendar day inside the window.
func IsDue(r domain.ActiveReminder, now time.Time) (bool, error) {
	if !r.Active {
		return false, nil
	}

	// Window check. Absent bounds mean the reminder is always in window.
	if r.WindowStart != nil && r.WindowEnd != nil {
		nowClock, err := domain.LocalClock(now, r.OwnerTZ)
		if err != nil {
			return false, err
		}
		// Inclusive on both ends; windows never wrap midnight, so a start
		// after the end is simply an empty window.
		if nowClock < *r.WindowStart || nowClock > *r.WindowEnd {
			return false, nil
		}
	}

	if r.LastSentAt == nil {
		return true, nil
	}
	// Without a window start there is no window occurrence to anchor the
	// recency check against, so it is skipped.
	if r.WindowStart == nil {
		return true, nil
	}

	// Recently sent: the last send happened at or after the start of the
	// current window occurrence (windowStart on now's local date). Once the
	// local date rolls past the next window start the reminder is due again.
	windowStart, err := domain.LocalInstantAtClock(now, r.OwnerTZ, *r.WindowStart)
	if err != nil {
		return false, err
	}
	if !r.LastSentAt.Before(windowStart) {
		return false, nil
	}
	return true, nil
}
