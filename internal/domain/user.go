package domain

import "time"

// User is an account keyed by its WhatsApp phone number.
// Created lazily on first inbound activity; name and timezone are filled in
// later when known and never cleared by a partial update.
type User struct {
	ID        string
	Phone     string
	Name      *string
	TZ        string    // IANA zone name, e.g. "America/New_York"
	CreatedAt time.Time // UTC
}
