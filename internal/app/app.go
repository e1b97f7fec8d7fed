package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/codegiant07/habit-tracker-bot/internal/config"
	"github.com/codegiant07/habit-tracker-bot/internal/domain"
	"github.com/codegiant07/habit-tracker-bot/internal/habit"
	"github.com/codegiant07/habit-tracker-bot/internal/reminder"
	"github.com/codegiant07/habit-tracker-bot/internal/scheduler"
	"github.com/codegiant07/habit-tracker-bot/internal/stats"
	"github.com/codegiant07/habit-tracker-bot/internal/store"
	"github.com/codegiant07/habit-tracker-bot/internal/whatsapp"
)

type App struct {
	cfg      config.Config
	log      *zap.Logger
	echo     *echo.Echo
	client   *whatsapp.Client
	schedCfg scheduler.Config
	repo     store.Repo
}

// New validates the schedule configuration and builds the transport pieces.
// Storage and services are wired in Run, once the database is open.
func New(cfg config.Config, log *zap.Logger) (*App, error) {
	loc, err := domain.LoadZone(cfg.DefaultTZ)
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_TZ: %w", err)
	}
	dailyAt, err := domain.ParseClock(cfg.DailySummaryAt)
	if err != nil {
		return nil, fmt.Errorf("DAILY_SUMMARY_AT: %w", err)
	}
	weeklyDay, weeklyAt, err := domain.ParseWeeklyClock(cfg.WeeklySummaryAt)
	if err != nil {
		return nil, fmt.Errorf("WEEKLY_SUMMARY_AT: %w", err)
	}
	if cfg.ReminderCheckEvery <= 0 {
		return nil, errors.New("REMINDER_CHECK_EVERY must be positive")
	}

	client := whatsapp.NewClient(whatsapp.Config{
		BaseURL:       cfg.WABaseURL,
		PhoneNumberID: cfg.WAPhoneNumberID,
		AccessToken:   cfg.WAToken,
		VerifyToken:   cfg.WAVerifyToken,
	}, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return &App{
		cfg:    cfg,
		log:    log,
		echo:   e,
		client: client,
		schedCfg: scheduler.Config{
			ReminderEvery: cfg.ReminderCheckEvery,
			DailyAt:       dailyAt,
			WeeklyDay:     weeklyDay,
			WeeklyAt:      weeklyAt,
			Location:      loc,
		},
	}, nil
}

// Run opens storage, wires services, and serves until a shutdown signal.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting habit-tracker-bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("defaultTZ", a.cfg.DefaultTZ),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	habits := habit.New(repo)
	statsSvc := stats.New(repo)
	reminders := reminder.NewService(repo, a.client, a.log)

	webhook := whatsapp.NewWebhook(a.cfg.WAVerifyToken, habits, statsSvc, a.client, a.log)
	webhook.Register(a.echo)

	sched := scheduler.New(a.schedCfg, repo, reminders, statsSvc, a.client, a.log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)

	go func() {
		if err := a.echo.Start(a.cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	// Short-lived shutdown context, canceled immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.echo.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	if a.repo != nil {
		_ = a.repo.Close()
	}
	return nil
}
