package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/codegiant07/habit-tracker-bot/internal/stats"
)

type period string

const (
	periodDay  period = "day"
	periodWeek period = "week"
)

// sendSummaries fans a daily or weekly summary out to every user with
// qualifying activity. The candidate set is pre-filtered over the
// configured default timezone's day/week; each user's totals are then
// recomputed over their own local bounds, and users whose local range
// turns out empty are skipped. A user active only in their local range but
// not the pre-filter range is missed; the pre-filter timezone is
// configurable to bound that skew.
func (s *Scheduler) sendSummaries(ctx context.Context, p period, now time.Time) {
	filterTZ := s.cfg.Location.String()

	var (
		userIDs []string
		err     error
	)
	if p == periodWeek {
		userIDs, err = s.stats.UsersWithActivityThisWeek(ctx, filterTZ, now)
	} else {
		userIDs, err = s.stats.UsersWithActivityToday(ctx, filterTZ, now)
	}
	if err != nil {
		s.log.Error("summary candidate query failed",
			zap.Error(err), zap.String("period", string(p)))
		return
	}

	for _, userID := range userIDs {
		user, err := s.repo.GetUser(ctx, userID)
		if err != nil {
			s.log.Warn("summary user lookup failed",
				zap.Error(err), zap.String("userID", userID))
			continue
		}

		var totals stats.Totals
		if p == periodWeek {
			totals, err = s.stats.WeeklySummary(ctx, user.ID, user.TZ, now)
		} else {
			totals, err = s.stats.DailySummary(ctx, user.ID, user.TZ, now)
		}
		if err != nil {
			s.log.Error("summary computation failed",
				zap.Error(err), zap.String("userID", userID))
			continue
		}
		if len(totals) == 0 {
			continue
		}

		if err := s.messenger.SendText(ctx, user.Phone, formatSummary(p, totals)); err != nil {
			s.log.Error("summary send failed",
				zap.Error(err), zap.String("userID", userID))
		}
	}
}

// formatSummary renders totals with habits in sorted order so repeated
// summaries over the same data are byte-identical.
func formatSummary(p period, totals stats.Totals) string {
	habits := make([]string, 0, len(totals))
	for habit := range totals {
		habits = append(habits, habit)
	}
	sort.Strings(habits)

	header := "Your daily summary"
	if p == periodWeek {
		header = "Your weekly summary"
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString(":")
	for _, habit := range habits {
		b.WriteString(fmt.Sprintf("\n%s: %d", habit, totals[habit]))
	}
	return b.String()
}
