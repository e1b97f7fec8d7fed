package store

import (
	"context"
	"time"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
)

// Repo defines the storage operations the services and scheduler consume.
// All instant ranges are inclusive-start, exclusive-end.
type Repo interface {
	// UpsertUserByPhone creates the user on first contact. On later calls a
	// nil name/tz leaves the stored value untouched.
	UpsertUserByPhone(ctx context.Context, phone string, name, tz *string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)

	CreateLog(ctx context.Context, log *domain.HabitLog) error
	SumLogCount(ctx context.Context, userID, habit string, start, end time.Time) (int64, error)
	GroupedLogSums(ctx context.Context, userID string, start, end time.Time) (map[string]int64, error)
	DistinctUsersWithLogs(ctx context.Context, start, end time.Time) ([]string, error)

	CreateReminder(ctx context.Context, r *domain.Reminder) error
	// ListActiveReminders returns active reminders joined with owner phone
	// and timezone, in creation order.
	ListActiveReminders(ctx context.Context) ([]domain.ActiveReminder, error)
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error

	Close() error
}
