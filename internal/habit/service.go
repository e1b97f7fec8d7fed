// Package habit owns the log-a-habit business rules: count validation,
// lazy user creation, and the running today-total used in replies.
package habit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
	"github.com/codegiant07/habit-tracker-bot/internal/store"
)

// LogRequest describes one reported activity.
type LogRequest struct {
	Phone  string
	Name   *string
	TZ     *string
	Habit  string
	Count  int64
	Source string
	Note   *string
	// LoggedAt defaults to the current instant when zero.
	LoggedAt time.Time
}

// LogResult carries what the transport needs for its confirmation message.
type LogResult struct {
	User       *domain.User
	Log        *domain.HabitLog
	TodayTotal int64
}

type Service struct {
	repo store.Repo
}

func New(repo store.Repo) *Service {
	return &Service{repo: repo}
}

// Upsert creates or refreshes the user for a contact without logging
// anything (stats queries may arrive before any log exists).
func (s *Service) Upsert(ctx context.Context, phone string, name *string) (*domain.User, error) {
	return s.repo.UpsertUserByPhone(ctx, phone, name, nil)
}

// Log validates and persists one habit log, creating the user on first
// contact, and returns the user's running total for the habit over their
// local calendar day. A non-positive count fails with ErrInvalidCount
// before anything is written.
func (s *Service) Log(ctx context.Context, req LogRequest) (*LogResult, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidCount, req.Count)
	}

	user, err := s.repo.UpsertUserByPhone(ctx, req.Phone, req.Name, req.TZ)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	loggedAt := req.LoggedAt
	if loggedAt.IsZero() {
		loggedAt = time.Now()
	}
	log := &domain.HabitLog{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Habit:    domain.NormalizeHabit(req.Habit),
		Count:    req.Count,
		LoggedAt: loggedAt.UTC(),
		Source:   req.Source,
		Note:     req.Note,
	}
	if err := s.repo.CreateLog(ctx, log); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}

	start, end, err := domain.DayBounds(loggedAt, user.TZ)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.SumLogCount(ctx, user.ID, log.Habit, start, end)
	if err != nil {
		return nil, fmt.Errorf("today total: %w", err)
	}

	return &LogResult{User: user, Log: log, TodayTotal: total}, nil
}
