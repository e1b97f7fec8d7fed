package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/codegiant07/habit-tracker-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUserByPhone inserts the user on first contact, otherwise updates only
// the fields actually provided (nil name/tz keep stored values).
func (r *SQLiteRepo) UpsertUserByPhone(ctx context.Context, phone string, name, tz *string) (*domain.User, error) {
	if phone == "" {
		return nil, errors.New("empty phone")
	}
	if tz != nil {
		if _, err := domain.ValidateTZ(*tz); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, phone, name, tz, created_at)
		VALUES (?, ?, ?, COALESCE(?, 'UTC'), ?)
		ON CONFLICT(phone) DO UPDATE SET
			name = COALESCE(excluded.name, users.name),
			tz   = CASE WHEN ? IS NULL THEN users.tz ELSE excluded.tz END`,
		uuid.NewString(), phone, toNullString(name), toNullString(tz), now,
		toNullString(tz),
	)
	if err != nil {
		return nil, err
	}
	return r.getUserByPhone(ctx, phone)
}

// GetUser returns a user by ID or an error if not found.
func (r *SQLiteRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, phone, name, tz, created_at
		FROM users
		WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *SQLiteRepo) getUserByPhone(ctx context.Context, phone string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, phone, name, tz, created_at
		FROM users
		WHERE phone = ?`,
		phone,
	)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var (
		id        string
		phone     string
		nameNS    sql.NullString
		tz        string
		createdAt int64
	)
	if err := row.Scan(&id, &phone, &nameNS, &tz, &createdAt); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:        id,
		Phone:     phone,
		Name:      fromNullString(nameNS),
		TZ:        tz,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}

// CreateLog persists an immutable habit log row.
func (r *SQLiteRepo) CreateLog(ctx context.Context, log *domain.HabitLog) error {
	if log == nil {
		return errors.New("nil log")
	}
	if log.Count <= 0 {
		return domain.ErrInvalidCount
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO habit_logs (id, user_id, habit, count, logged_at, source, note)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		log.ID, log.UserID, log.Habit, log.Count,
		log.LoggedAt.UTC().Unix(), log.Source, toNullString(log.Note),
	)
	return err
}

// SumLogCount returns the sum of counts for (user, habit) with
// logged_at in [start, end). No matching rows sums to zero.
func (r *SQLiteRepo) SumLogCount(ctx context.Context, userID, habit string, start, end time.Time) (int64, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(count), 0)
		FROM habit_logs
		WHERE user_id = ?
		  AND habit = ?
		  AND logged_at >= ?
		  AND logged_at < ?`,
		userID, habit, start.UTC().Unix(), end.UTC().Unix(),
	)
	var total int64
	if err := row.Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// GroupedLogSums returns per-habit count sums for a user over [start, end).
// Habits without logs in range are simply absent from the map.
func (r *SQLiteRepo) GroupedLogSums(ctx context.Context, userID string, start, end time.Time) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT habit, SUM(count)
		FROM habit_logs
		WHERE user_id = ?
		  AND logged_at >= ?
		  AND logged_at < ?
		GROUP BY habit`,
		userID, start.UTC().Unix(), end.UTC().Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int64)
	for rows.Next() {
		var (
			habit string
			sum   int64
		)
		if err := rows.Scan(&habit, &sum); err != nil {
			return nil, err
		}
		totals[habit] = sum
	}
	return totals, rows.Err()
}

// DistinctUsersWithLogs returns IDs of users having at least one log with
// logged_at in [start, end).
func (r *SQLiteRepo) DistinctUsersWithLogs(ctx context.Context, start, end time.Time) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT user_id
		FROM habit_logs
		WHERE logged_at >= ?
		  AND logged_at < ?`,
		start.UTC().Unix(), end.UTC().Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CreateReminder inserts a reminder row. Reminders are provisioned outside
// the inbound message flow, so this is used by operators and tests.
func (r *SQLiteRepo) CreateReminder(ctx context.Context, rem *domain.Reminder) error {
	if rem == nil {
		return errors.New("nil reminder")
	}
	created := rem.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reminders (id, user_id, active, habit, window_start_m, window_end_m, last_sent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.UserID, boolToInt(rem.Active), toNullString(rem.Habit),
		toNullMinute(rem.WindowStart), toNullMinute(rem.WindowEnd),
		toNullTime(rem.LastSentAt), created.Unix(),
	)
	return err
}

// ListActiveReminders returns active reminders joined with owner phone and
// timezone, ordered by creation time.
func (r *SQLiteRepo) ListActiveReminders(ctx context.Context) ([]domain.ActiveReminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.active, r.habit,
		       r.window_start_m, r.window_end_m, r.last_sent_at, r.created_at,
		       u.phone, u.tz
		FROM reminders r
		JOIN users u ON u.id = r.user_id
		WHERE r.active = 1
		ORDER BY r.created_at ASC, r.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.ActiveReminder
	for rows.Next() {
		var (
			id        string
			userID    string
			activeInt int
			habitNS   sql.NullString
			startNS   sql.NullInt64
			endNS     sql.NullInt64
			lastNS    sql.NullInt64
			createdAt int64
			phone     string
			tz        string
		)
		if err := rows.Scan(
			&id, &userID, &activeInt, &habitNS,
			&startNS, &endNS, &lastNS, &createdAt,
			&phone, &tz,
		); err != nil {
			return nil, err
		}
		res = append(res, domain.ActiveReminder{
			Reminder: domain.Reminder{
				ID:          id,
				UserID:      userID,
				Active:      activeInt != 0,
				Habit:       fromNullString(habitNS),
				WindowStart: fromNullMinute(startNS),
				WindowEnd:   fromNullMinute(endNS),
				LastSentAt:  fromNullTime(lastNS),
				CreatedAt:   time.Unix(createdAt, 0).UTC(),
			},
			OwnerPhone: phone,
			OwnerTZ:    tz,
		})
	}
	return res, rows.Err()
}

// MarkReminderSent records the last successful dispatch instant.
func (r *SQLiteRepo) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE reminders
		SET last_sent_at = ?
		WHERE id = ?`,
		sentAt.UTC().Unix(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("reminder %s not found", id)
	}
	return nil
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
