package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hemanth-attr/groupguard/app/storage/engine"
)

// ChatSettings is a storage for per-chat moderation flags. A chat without a
// row gets all-false defaults, the row appears on the first explicit set.
type ChatSettings struct {
	db   *engine.SQL
	lock engine.RWLocker
}

// Settings is a set of per-chat moderation flags
type Settings struct {
	GID          string `db:"gid"`
	ChatID       int64  `db:"chat_id"`
	StrictMode   bool   `db:"strict_mode"`   // stricter link and mention rules for new users
	MLMode       bool   `db:"ml_mode"`       // statistical classifier enabled
	Enforcement  bool   `db:"enforcement"`   // automatic mute on warning-limit breach allowed
	AutoReaction bool   `db:"auto_reaction"` // bot reacts to greetings and thanks
}

// settable flag names accepted by Set
var settingNames = map[string]bool{
	"strict_mode": true, "ml_mode": true, "enforcement": true, "auto_reaction": true,
}

var chatSettingsSchema = []engine.Query{
	{
		Sqlite: `CREATE TABLE IF NOT EXISTS chat_settings (
			gid TEXT NOT NULL DEFAULT '',
			chat_id INTEGER NOT NULL,
			strict_mode BOOLEAN NOT NULL DEFAULT 0,
			ml_mode BOOLEAN NOT NULL DEFAULT 0,
			enforcement BOOLEAN NOT NULL DEFAULT 0,
			auto_reaction BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (gid, chat_id)
		)`,
		Postgres: `CREATE TABLE IF NOT EXISTS chat_settings (
			gid TEXT NOT NULL DEFAULT '',
			chat_id BIGINT NOT NULL,
			strict_mode BOOLEAN NOT NULL DEFAULT false,
			ml_mode BOOLEAN NOT NULL DEFAULT false,
			enforcement BOOLEAN NOT NULL DEFAULT false,
			auto_reaction BOOLEAN NOT NULL DEFAULT false,
			PRIMARY KEY (gid, chat_id)
		)`,
	},
}

// NewChatSettings creates a chat settings store
func NewChatSettings(ctx context.Context, db *engine.SQL) (*ChatSettings, error) {
	res := &ChatSettings{db: db, lock: db.MakeLock()}
	if err := initTable(ctx, db, chatSettingsSchema...); err != nil {
		return nil, fmt.Errorf("failed to make chat_settings table: %w", err)
	}
	return res, nil
}

// Get returns the settings for the chat, all-false defaults when no row exists
func (cs *ChatSettings) Get(ctx context.Context, chatID int64) (Settings, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	query := cs.db.Adopt("SELECT gid, chat_id, strict_mode, ml_mode, enforcement, auto_reaction" +
		" FROM chat_settings WHERE gid=? AND chat_id=?")
	var res Settings
	err := cs.db.GetContext(ctx, &res, query, cs.db.GID(), chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{GID: cs.db.GID(), ChatID: chatID}, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to get settings for chat %d: %w", chatID, err)
	}
	return res, nil
}

// Set updates a single flag for the chat, inserting the row on first use.
// The name must be one of strict_mode, ml_mode, enforcement, auto_reaction.
func (cs *ChatSettings) Set(ctx context.Context, chatID int64, name string, value bool) error {
	if !settingNames[name] {
		return fmt.Errorf("unknown setting %q", name)
	}

	cs.lock.Lock()
	defer cs.lock.Unlock()

	// name is validated against the fixed set above, safe to interpolate
	query := cs.db.Adopt(fmt.Sprintf(`
		INSERT INTO chat_settings (gid, chat_id, %[1]s) VALUES (?, ?, ?)
		ON CONFLICT (gid, chat_id) DO UPDATE SET %[1]s = excluded.%[1]s`, name))
	if _, err := cs.db.ExecContext(ctx, query, cs.db.GID(), chatID, value); err != nil {
		return fmt.Errorf("failed to set %s=%v for chat %d: %w", name, value, chatID, err)
	}
	return nil
}
