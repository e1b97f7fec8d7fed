// Package stats aggregates habit log counts over timezone-local day and
// week ranges.
package stats

import (
	"context"
	"time"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
	"github.com/codegiant07/habit-tracker-bot/internal/store"
)

// Totals maps a habit category to its summed count over some range.
// Habits with no logs in the range are absent, never zero-valued.
type Totals map[string]int64

// Service computes per-user aggregates. It is a thin composition of the
// calendar math in domain and the storage collaborator.
type Service struct {
	repo store.Repo
}

func New(repo store.Repo) *Service {
	return &Service{repo: repo}
}

// TotalInRange sums counts for (user, habit) over [start, end).
// No matching logs is a zero total, not an error.
func (s *Service) TotalInRange(ctx context.Context, userID, habit string, start, end time.Time) (int64, error) {
	return s.repo.SumLogCount(ctx, userID, habit, start, end)
}

// TotalForDay sums counts over the local calendar day of asOf in tz.
func (s *Service) TotalForDay(ctx context.Context, userID, habit string, asOf time.Time, tz string) (int64, error) {
	start, end, err := domain.DayBounds(asOf, tz)
	if err != nil {
		return 0, err
	}
	return s.repo.SumLogCount(ctx, userID, habit, start, end)
}

// TotalForWeek sums counts over the local ISO week of asOf in tz.
func (s *Service) TotalForWeek(ctx context.Context, userID, habit string, asOf time.Time, tz string) (int64, error) {
	start, end, err := domain.WeekBounds(asOf, tz)
	if err != nil {
		return 0, err
	}
	return s.repo.SumLogCount(ctx, userID, habit, start, end)
}

// DailySummary returns per-habit totals over the local day of asOf in tz.
func (s *Service) DailySummary(ctx context.Context, userID, tz string, asOf time.Time) (Totals, error) {
	start, end, err := domain.DayBounds(asOf, tz)
	if err != nil {
		return nil, err
	}
	sums, err := s.repo.GroupedLogSums(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return Totals(sums), nil
}

// WeeklySummary returns per-habit totals over the local ISO week of asOf in tz.
func (s *Service) WeeklySummary(ctx context.Context, userID, tz string, asOf time.Time) (Totals, error) {
	start, end, err := domain.WeekBounds(asOf, tz)
	if err != nil {
		return nil, err
	}
	sums, err := s.repo.GroupedLogSums(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return Totals(sums), nil
}

// UsersWithActivityToday returns IDs of users with any log during the local
// day of asOf in tz.
func (s *Service) UsersWithActivityToday(ctx context.Context, tz string, asOf time.Time) ([]string, error) {
	start, end, err := domain.DayBounds(asOf, tz)
	if err != nil {
		return nil, err
	}
	return s.repo.DistinctUsersWithLogs(ctx, start, end)
}

// UsersWithActivityThisWeek returns IDs of users with any log during the
// local ISO week of asOf in tz.
func (s *Service) UsersWithActivityThisWeek(ctx context.Context, tz string, asOf time.Time) ([]string, error) {
	start, end, err := domain.WeekBounds(asOf, tz)
	if err != nil {
		return nil, err
	}
	return s.repo.DistinctUsersWithLogs(ctx, start, end)
}
