// Package scheduler runs the three periodic triggers: reminder checks,
// daily summaries, and weekly summaries. Each trigger is one goroutine
// whose ticks run synchronously inside its own loop, so ticks of the same
// trigger never overlap; a slow tick delays the next one instead of
// duplicating sends.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
	"github.com/codegiant07/habit-tracker-bot/internal/reminder"
	"github.com/codegiant07/habit-tracker-bot/internal/stats"
	"github.com/codegiant07/habit-tracker-bot/internal/store"
)

// Messenger sends one outbound text message.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// Config carries the three trigger schedules. Daily/weekly fire times are
// wall-clock times in Location, which is also the coarse summary
// pre-filter timezone.
type Config struct {
	ReminderEvery time.Duration
	DailyAt       domain.MinuteOfDay
	WeeklyDay     time.Weekday
	WeeklyAt      domain.MinuteOfDay
	Location      *time.Location
}

type Scheduler struct {
	cfg       Config
	repo      store.Repo
	reminders *reminder.Service
	stats     *stats.Service
	messenger Messenger
	log       *zap.Logger
}

func New(cfg Config, repo store.Repo, reminders *reminder.Service, statsSvc *stats.Service, messenger Messenger, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		repo:      repo,
		reminders: reminders,
		stats:     statsSvc,
		messenger: messenger,
		log:       log,
	}
}

// Run starts all three trigger loops and blocks until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); s.runReminderLoop(ctx) }()
	go func() { defer wg.Done(); s.runDailyLoop(ctx) }()
	go func() { defer wg.Done(); s.runWeeklyLoop(ctx) }()
	wg.Wait()
}

func (s *Scheduler) runReminderLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.ReminderEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reminder trigger stopping")
			return
		case <-ticker.C:
			s.reminders.SendDue(ctx, time.Now().UTC())
		}
	}
}

func (s *Scheduler) runDailyLoop(ctx context.Context) {
	s.runClockLoop(ctx, "daily summary", func(now time.Time) time.Time {
		return domain.NextDailyAt(now, s.cfg.Location, s.cfg.DailyAt)
	}, func(now time.Time) {
		s.sendSummaries(ctx, periodDay, now)
	})
}

func (s *Scheduler) runWeeklyLoop(ctx context.Context) {
	s.runClockLoop(ctx, "weekly summary", func(now time.Time) time.Time {
		return domain.NextWeeklyAt(now, s.cfg.Location, s.cfg.WeeklyDay, s.cfg.WeeklyAt)
	}, func(now time.Time) {
		s.sendSummaries(ctx, periodWeek, now)
	})
}

// runClockLoop sleeps until the next wall-clock fire time, runs the tick,
// and repeats. Recomputing after every tick keeps the loop aligned across
// DST transitions.
func (s *Scheduler) runClockLoop(ctx context.Context, name string, nextAfter func(time.Time) time.Time, tick func(time.Time)) {
	for {
		next := nextAfter(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("trigger stopping", zap.String("trigger", name))
			return
		case <-timer.C:
			tick(time.Now().UTC())
		}
	}
}
