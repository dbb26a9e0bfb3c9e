package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hemanth-attr/groupguard/app/storage/engine"
)

// UserActivity is a storage for the persisted initial-message counter,
// used to decide when a user stops being "new" in a chat. The counter
// saturates at a max value and never changes after that.
type UserActivity struct {
	db   *engine.SQL
	lock engine.RWLocker
}

var userActivitySchema = []engine.Query{
	{
		Sqlite: `CREATE TABLE IF NOT EXISTS user_activity (
			gid TEXT NOT NULL DEFAULT '',
			chat_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (gid, chat_id, user_id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS user_activity (
			gid TEXT NOT NULL DEFAULT '',
			chat_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (gid, chat_id, user_id)
		)`,
	},
}

// NewUserActivity creates a user activity store
func NewUserActivity(ctx context.Context, db *engine.SQL) (*UserActivity, error) {
	res := &UserActivity{db: db, lock: db.MakeLock()}
	if err := initTable(ctx, db, userActivitySchema...); err != nil {
		return nil, fmt.Errorf("failed to make user_activity table: %w", err)
	}
	return res, nil
}

// Increment bumps the counter by one, saturating at max. A saturated counter
// is never touched again, the single upsert keeps concurrent bumps correct.
func (ua *UserActivity) Increment(ctx context.Context, chatID, userID int64, max int) error {
	ua.lock.Lock()
	defer ua.lock.Unlock()

	query := ua.db.Adopt(`
		INSERT INTO user_activity (gid, chat_id, user_id, count) VALUES (?, ?, ?, 1)
		ON CONFLICT (gid, chat_id, user_id) DO UPDATE SET count = user_activity.count + 1
		WHERE user_activity.count < ?`)
	if _, err := ua.db.ExecContext(ctx, query, ua.db.GID(), chatID, userID, max); err != nil {
		return fmt.Errorf("failed to increment activity for %d:%d: %w", chatID, userID, err)
	}
	return nil
}

// Count returns the persisted message counter, 0 when the user was never seen
func (ua *UserActivity) Count(ctx context.Context, chatID, userID int64) (int, error) {
	ua.lock.RLock()
	defer ua.lock.RUnlock()

	query := ua.db.Adopt("SELECT count FROM user_activity WHERE gid=? AND chat_id=? AND user_id=?")
	var count int
	err := ua.db.GetContext(ctx, &count, query, ua.db.GID(), chatID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get activity for %d:%d: %w", chatID, userID, err)
	}
	return count, nil
}
