package domain

import (
	"errors"
	"time"
)

// Log source tags (origin channel of a HabitLog).
const (
	SourceWhatsApp = "whatsapp"
	SourceSystem   = "system"
)

// DefaultHabit is assumed when an inbound message carries a bare count.
const DefaultHabit = "pushups"

// ErrInvalidCount rejects habit logs with a non-positive count.
var ErrInvalidCount = errors.New("count must be greater than zero")

// HabitLog is an immutable activity fact: "user did <count> of <habit> at <instant>".
// Habit is a free-form, lowercased category string.
type HabitLog struct {
	ID       string
	UserID   string
	Habit    string
	Count    int64
	LoggedAt time.Time // UTC
	Source   string
	Note     *string
}
