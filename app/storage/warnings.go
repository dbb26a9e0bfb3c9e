package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hemanth-attr/groupguard/app/storage/engine"
)

// Warnings is a storage for per-(chat,user) warning counts with rolling expiry.
// Increment is a single atomic upsert, concurrent infractions from the same
// user never lose counts.
type Warnings struct {
	db   *engine.SQL
	lock engine.RWLocker
	ttl  time.Duration
	now  func() time.Time
}

// WarningRecord is a row of the warnings table
type WarningRecord struct {
	GID    string    `db:"gid"`
	ChatID int64     `db:"chat_id"`
	UserID int64     `db:"user_id"`
	Count  int       `db:"count"`
	Expiry time.Time `db:"expiry"`
}

var warningsSchema = []engine.Query{
	{
		Sqlite: `CREATE TABLE IF NOT EXISTS warnings (
			gid TEXT NOT NULL DEFAULT '',
			chat_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			count INTEGER NOT NULL DEFAULT 1,
			expiry TIMESTAMP NOT NULL,
			PRIMARY KEY (gid, chat_id, user_id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS warnings (
			gid TEXT NOT NULL DEFAULT '',
			chat_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			count INTEGER NOT NULL DEFAULT 1,
			expiry TIMESTAMP NOT NULL,
			PRIMARY KEY (gid, chat_id, user_id)
		)`,
	},
	engine.Same("CREATE INDEX IF NOT EXISTS idx_warnings_expiry ON warnings(expiry)"),
}

// NewWarnings creates a warnings store with the given expiry ttl
func NewWarnings(ctx context.Context, db *engine.SQL, ttl time.Duration) (*Warnings, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	res := &Warnings{db: db, lock: db.MakeLock(), ttl: ttl, now: time.Now}
	if err := initTable(ctx, db, warningsSchema...); err != nil {
		return nil, fmt.Errorf("failed to make warnings table: %w", err)
	}
	return res, nil
}

// Add registers an infraction: inserts the record with count=1 or increments
// the existing one, always resetting expiry to now+ttl. An expired record
// restarts from 1. Returns the post-increment count and the new expiry.
func (w *Warnings) Add(ctx context.Context, chatID, userID int64) (count int, expiry time.Time, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	now := w.now()
	expiry = now.Add(w.ttl)

	query := w.db.Adopt(`
		INSERT INTO warnings (gid, chat_id, user_id, count, expiry) VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (gid, chat_id, user_id) DO UPDATE SET
			count = CASE WHEN warnings.expiry <= ? THEN 1 ELSE warnings.count + 1 END,
			expiry = excluded.expiry
		RETURNING count`)

	if err = w.db.GetContext(ctx, &count, query, w.db.GID(), chatID, userID, expiry, now); err != nil {
		return 0, time.Time{}, fmt.Errorf("failed to add warning for %d:%d: %w", chatID, userID, err)
	}
	return count, expiry, nil
}

// Count returns the active warning count, 0 when no record exists or it expired
func (w *Warnings) Count(ctx context.Context, chatID, userID int64) (int, error) {
	w.lock.RLock()
	defer w.lock.RUnlock()

	query := w.db.Adopt("SELECT count FROM warnings WHERE gid=? AND chat_id=? AND user_id=? AND expiry > ?")
	var count int
	err := w.db.GetContext(ctx, &count, query, w.db.GID(), chatID, userID, w.now())
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get warning count for %d:%d: %w", chatID, userID, err)
	}
	return count, nil
}

// Clear drops the record for the user, used by admin reversal actions.
// Clearing a missing record is a no-op.
func (w *Warnings) Clear(ctx context.Context, chatID, userID int64) error {
	w.lock.Lock()
	defer w.lock.Unlock()

	query := w.db.Adopt("DELETE FROM warnings WHERE gid=? AND chat_id=? AND user_id=?")
	if _, err := w.db.ExecContext(ctx, query, w.db.GID(), chatID, userID); err != nil {
		return fmt.Errorf("failed to clear warnings for %d:%d: %w", chatID, userID, err)
	}
	return nil
}

// CleanExpired deletes all records with expiry in the past and returns the
// number of removed rows. Safe to run concurrently, deletes are idempotent.
func (w *Warnings) CleanExpired(ctx context.Context) (int64, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	query := w.db.Adopt("DELETE FROM warnings WHERE gid=? AND expiry <= ?")
	res, err := w.db.ExecContext(ctx, query, w.db.GID(), w.now())
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired warnings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return affected, nil
}
