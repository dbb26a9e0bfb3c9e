// Package bot provides the message model and the spam filter orchestrating
// rule checks, the statistical classifier and per-chat settings.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/hemanth-attr/groupguard/app/storage"
	"github.com/hemanth-attr/groupguard/lib/guard/spamcheck"
)

// Message is the primary record passed from the listener to handlers
type Message struct {
	ID       int
	From     User
	ChatID   int64
	Sent     time.Time
	Text     string   `json:",omitempty"`
	Entities []Entity `json:",omitempty"`

	MediaOnly      bool   `json:",omitempty"` // photo, video or sticker without any text
	NewChatMembers []User `json:",omitempty"` // set for join events
}

// Entity represents one special entity in a text message,
// hashtags, usernames, urls and formatting marks.
type Entity struct {
	Type      string
	Offset    int
	Length    int
	Text      string `json:",omitempty"` // covered text, extracted by the listener
	URL       string `json:",omitempty"` // for "text_link" only
	User      *User  `json:",omitempty"` // for "text_mention" only
	IsChannel bool   `json:",omitempty"` // mention resolved to a channel or group
}

// User defines user info of the Message
type User struct {
	ID          int64  `json:"id"`
	Username    string `json:"user_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Verdict is the spam decision for a single message with the chat settings
// it was made under, so callers don't fetch them twice.
type Verdict struct {
	Spam     bool
	Reason   string
	Checks   []spamcheck.Response
	Settings storage.Settings
}

// DisplayName returns user's display name or username or id
func DisplayName(msg Message) string {
	displayUsername := msg.From.DisplayName
	if displayUsername == "" {
		displayUsername = msg.From.Username
	}
	if displayUsername == "" {
		displayUsername = fmt.Sprintf("%d", msg.From.ID)
	}
	return strings.TrimSpace(displayUsername)
}
