// Package intent converts free-form inbound text into a structured intent.
// It is a deliberately small keyword heuristic; anything it cannot place
// becomes Unknown and the transport answers with usage hints.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
)

type Kind string

const (
	LogHabit    Kind = "LOG_HABIT"
	GetStats    Kind = "GET_STATS"
	SetReminder Kind = "SET_REMINDER"
	Unknown     Kind = "UNKNOWN"
)

type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
)

// Intent is the structured form of one inbound message.
type Intent struct {
	Kind   Kind
	Habit  string
	Count  int64
	Period Period
}

// habitKeywords normalizes singular/plural/hyphenated habit spellings.
var habitKeywords = map[string]string{
	"pushup":   "pushups",
	"pushups":  "pushups",
	"push-up":  "pushups",
	"push-ups": "pushups",
	"squat":    "squats",
	"squats":   "squats",
	"situp":    "situps",
	"situps":   "situps",
	"sit-up":   "situps",
	"sit-ups":  "situps",
	"walk":     "walking",
	"walking":  "walking",
}

var (
	allDigitsRe   = regexp.MustCompile(`^\d+$`)
	numberHabitRe = regexp.MustCompile(`(\d+)\s+([a-z-]+)`)
	tokenCleanRe  = regexp.MustCompile(`[^\w-]`)
)

// Parse classifies the given text.
func Parse(text string) Intent {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return Intent{Kind: Unknown}
	}

	// A bare number logs the default habit.
	if allDigitsRe.MatchString(s) {
		count, err := strconv.ParseInt(s, 10, 64)
		if err != nil || count <= 0 {
			return Intent{Kind: Unknown}
		}
		return Intent{Kind: LogHabit, Habit: domain.DefaultHabit, Count: count}
	}

	// "<number> <habit>"
	if m := numberHabitRe.FindStringSubmatch(s); m != nil {
		count, err := strconv.ParseInt(m[1], 10, 64)
		if habit, ok := habitKeywords[m[2]]; ok && err == nil && count > 0 {
			return Intent{Kind: LogHabit, Habit: habit, Count: count}
		}
	}

	// Stats queries: "how many ... today/this week", "stats".
	if strings.Contains(s, "how many") || strings.Contains(s, "stats") {
		period := PeriodToday
		if strings.Contains(s, "week") {
			period = PeriodWeek
		}
		habit := habitFromText(s)
		if habit == "" {
			habit = domain.DefaultHabit
		}
		return Intent{Kind: GetStats, Habit: habit, Period: period}
	}

	if strings.Contains(s, "remind") {
		return Intent{Kind: SetReminder}
	}

	return Intent{Kind: Unknown}
}

func habitFromText(s string) string {
	for _, token := range strings.Fields(s) {
		if habit, ok := habitKeywords[tokenCleanRe.ReplaceAllString(token, "")]; ok {
			return habit
		}
	}
	return ""
}
