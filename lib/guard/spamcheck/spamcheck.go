// Package spamcheck provides shared request and response types for spam checks.
package spamcheck

import (
	"fmt"
	"strings"
)

// Request is a request to check a message for spam.
type Request struct {
	Msg      string   `json:"msg"`       // message to check
	ChatID   int64    `json:"chat_id"`   // chat id the message was sent to
	UserID   int64    `json:"user_id"`   // sender id
	UserName string   `json:"user_name"` // sender name
	Meta     MetaData `json:"meta"`      // meta-info, provided by the client
}

// MetaData is a meta-info about the message, provided by the client.
type MetaData struct {
	NewUser    bool     `json:"new_user"`   // sender is still within the first-messages window, stricter rules apply
	BlockURLs  bool     `json:"block_urls"` // chat-wide block of all non-allow-listed urls
	Classifier bool     `json:"classifier"` // statistical classifier enabled for the chat
	Entities   []Entity `json:"entities"`   // message entities as reported by the platform
}

// Entity is a single message entity, a plain subset of what the platform reports.
type Entity struct {
	Type      string `json:"type"`                 // entity type: url, text_link, mention, bold, italic, ...
	Text      string `json:"text,omitempty"`       // covered text, set for url and mention entities
	URL       string `json:"url,omitempty"`        // target url, for text_link only
	IsChannel bool   `json:"is_channel,omitempty"` // mention resolved to a channel/group, not a private user
}

func (r *Request) String() string {
	return fmt.Sprintf("msg:%q, user:%q (%d), chat:%d, new:%v, entities:%d",
		r.Msg, r.UserName, r.UserID, r.ChatID, r.Meta.NewUser, len(r.Meta.Entities))
}

// Response is a result of a single spam check.
type Response struct {
	Name    string `json:"name"`    // name of the check
	Spam    bool   `json:"spam"`    // true if spam
	Details string `json:"details"` // details of the check
}

func (r *Response) String() string {
	spamOrHam := "ham"
	if r.Spam {
		spamOrHam = "spam"
	}
	return fmt.Sprintf("%s: %s, %s", r.Name, spamOrHam, r.Details)
}

// ChecksToString converts a slice of checks to a string
func ChecksToString(checks []Response) string {
	elems := []string{}
	for _, r := range checks {
		elems = append(elems, "{"+r.String()+"}")
	}
	return strings.Join(elems, ", ")
}

// Reason returns the details of the first spam-positive check, empty if none matched.
func Reason(checks []Response) string {
	for _, r := range checks {
		if r.Spam {
			return fmt.Sprintf("%s: %s", r.Name, r.Details)
		}
	}
	return ""
}
