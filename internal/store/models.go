package store

import (
	"database/sql"
	"time"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
)

func toNullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().Unix(), Valid: true}
}

func fromNullTime(ns sql.NullInt64) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := time.Unix(ns.Int64, 0).UTC()
	return &t
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNullMinute(m *domain.MinuteOfDay) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*m), Valid: true}
}

func fromNullMinute(ns sql.NullInt64) *domain.MinuteOfDay {
	if !ns.Valid {
		return nil
	}
	m := domain.MinuteOfDay(ns.Int64)
	return &m
}
