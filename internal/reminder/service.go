package reminder

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/codegiant07/habit-tracker-bot/internal/store"
)

// Sender is the minimal outbound-message interface the dispatcher needs.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// Service evaluates active reminders and dispatches the due ones.
type Service struct {
	repo   store.Repo
	sender Sender
	log    *zap.Logger
}

func NewService(repo store.Repo, sender Sender, log *zap.Logger) *Service {
	return &Service{repo: repo, sender: sender, log: log}
}

// SendDue runs one evaluation pass at now: every active reminder is checked
// with IsDue, due ones are sent and marked. Failures are isolated per
// reminder; one bad timezone or failed send never aborts the rest of the
// pass. A send whose mark-sent write fails stays eligible next pass, which
// is an accepted duplicate risk.
func (s *Service) SendDue(ctx context.Context, now time.Time) {
	reminders, err := s.repo.ListActiveReminders(ctx)
	if err != nil {
		s.log.Error("list active reminders failed", zap.Error(err))
		return
	}

	for _, r := range reminders {
		due, err := IsDue(r, now)
		if err != nil {
			s.log.Error("reminder evaluation failed",
				zap.Error(err), zap.String("reminderID", r.ID))
			continue
		}
		if !due {
			continue
		}

		if err := s.sender.SendText(ctx, r.OwnerPhone, messageFor(r.Habit)); err != nil {
			s.log.Error("reminder send failed",
				zap.Error(err), zap.String("reminderID", r.ID))
			continue
		}
		if err := s.repo.MarkReminderSent(ctx, r.ID, now); err != nil {
			s.log.Error("mark reminder sent failed",
				zap.Error(err), zap.String("reminderID", r.ID))
		}
	}
}

func messageFor(habit *string) string {
	label := "your habit"
	if habit != nil && *habit != "" {
		label = *habit
	}
	return fmt.Sprintf("Reminder: log %s now.", label)
}
