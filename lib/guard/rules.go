package guard

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"

	"github.com/hemanth-attr/groupguard/lib/guard/spamcheck"
)

// rule predicates evaluated by the detector in a fixed order, first match wins.
// each predicate gets the original request and the normalized (ascii-folded,
// lowercased) message text.

// platform deep-link markers, matching is unconditional and ignores chat settings
var inviteMarkers = []string{"t.me/", "telegram.me/", "telegram.dog/"}

// urlRE extracts url-like tokens: scheme-prefixed, www-prefixed or bare domains
var urlRE = regexp.MustCompile(`(?i)\b(?:https?://[^\s<>"]+|www\.[^\s<>"]+|[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)*\.[a-z]{2,}(?:/[^\s<>"]*)?)`)

// isInviteLink flags any telegram deep-link, the strongest spam signal for group chats.
func (d *Detector) isInviteLink(req spamcheck.Request, normMsg string) spamcheck.Response {
	for _, marker := range inviteMarkers {
		if strings.Contains(normMsg, marker) {
			return spamcheck.Response{Name: "invite-link", Spam: true, Details: marker}
		}
	}
	for _, e := range req.Meta.Entities {
		if e.Type != "text_link" {
			continue
		}
		target := strings.ToLower(e.URL)
		for _, marker := range inviteMarkers {
			if strings.Contains(target, marker) {
				return spamcheck.Response{Name: "invite-link", Spam: true, Details: "hidden " + marker}
			}
		}
	}
	return spamcheck.Response{Name: "invite-link", Spam: false, Details: "not found"}
}

// isBlockedURL flags urls outside the allow-list. Active only when the chat blocks
// all urls or the sender is still a new user under strict mode. Unparseable urls
// are treated as a match, malformed links are suspicious by default.
func (d *Detector) isBlockedURL(req spamcheck.Request, normMsg string) spamcheck.Response {
	if !req.Meta.BlockURLs && !req.Meta.NewUser {
		return spamcheck.Response{Name: "url", Spam: false, Details: "check not active"}
	}

	candidates := urlRE.FindAllString(normMsg, -1)
	for _, e := range req.Meta.Entities {
		if e.Type == "text_link" && e.URL != "" {
			candidates = append(candidates, strings.ToLower(e.URL))
		}
	}

	for _, token := range candidates {
		if isPlatformLink(token) {
			continue // invite-link rule territory
		}
		domain, err := registrableDomain(token)
		if err != nil {
			return spamcheck.Response{Name: "url", Spam: true, Details: fmt.Sprintf("malformed url %q", token)}
		}
		if _, ok := d.allowedDomains[domain]; !ok {
			return spamcheck.Response{Name: "url", Spam: true, Details: fmt.Sprintf("domain %s not allowed", domain)}
		}
	}
	return spamcheck.Response{Name: "url", Spam: false, Details: fmt.Sprintf("%d urls allowed", len(candidates))}
}

// isChannelMention flags mentions resolving to channels or groups, advertising another
// community is the classic spam pattern. Private user mentions pass.
func (d *Detector) isChannelMention(req spamcheck.Request, _ string) spamcheck.Response {
	for _, e := range req.Meta.Entities {
		if e.Type == "mention" && e.IsChannel {
			return spamcheck.Response{Name: "mention", Spam: true, Details: e.Text}
		}
	}
	return spamcheck.Response{Name: "mention", Spam: false, Details: "no channel mentions"}
}

// isManyEmojis flags messages with too many emojis from the spam set.
func (d *Detector) isManyEmojis(req spamcheck.Request, _ string) spamcheck.Response {
	count := 0
	if len(d.spamEmojis) == 0 {
		count = len(gomoji.CollectAll(req.Msg))
	} else {
		for _, em := range gomoji.CollectAll(req.Msg) {
			if _, ok := d.spamEmojis[em.Character]; ok {
				count++
			}
		}
	}
	return spamcheck.Response{Name: "emoji", Spam: count > d.MaxEmoji, Details: fmt.Sprintf("%d/%d", count, d.MaxEmoji)}
}

// isKeyword flags any configured marketing/scam keyword in the normalized text
func (d *Detector) isKeyword(_ spamcheck.Request, normMsg string) spamcheck.Response {
	for _, word := range d.keywords { // keywords normalized on load
		if strings.Contains(normMsg, word) {
			return spamcheck.Response{Name: "keyword", Spam: true, Details: word}
		}
	}
	return spamcheck.Response{Name: "keyword", Spam: false, Details: "not found"}
}

// isHeavyFormatting flags bulk-spam signature of many rich-format entities
func (d *Detector) isHeavyFormatting(req spamcheck.Request, _ string) spamcheck.Response {
	count := 0
	for _, e := range req.Meta.Entities {
		if _, ok := d.formatEntities[e.Type]; ok {
			count++
		}
	}
	return spamcheck.Response{Name: "format", Spam: count >= d.MaxFormatEntities,
		Details: fmt.Sprintf("%d/%d", count, d.MaxFormatEntities)}
}

// isFlooding flags rapid-fire messaging from the same user in the same chat
func (d *Detector) isFlooding(req spamcheck.Request, _ string) spamcheck.Response {
	if d.flood.active(req.ChatID, req.UserID, d.now()) {
		return spamcheck.Response{Name: "flood", Spam: true,
			Details: fmt.Sprintf("%d+ messages in %v", d.FloodMessages, d.FloodInterval)}
	}
	return spamcheck.Response{Name: "flood", Spam: false, Details: "no flood"}
}

func isPlatformLink(token string) bool {
	for _, marker := range inviteMarkers {
		if strings.Contains(token, marker) {
			return true
		}
	}
	return false
}

// registrableDomain resolves the url-ish token to its host: strips scheme, "www."
// prefix and port. Returns an error for tokens that don't parse as a url.
func registrableDomain(token string) (string, error) {
	raw := token
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("can't parse url %q: %w", token, err)
	}
	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", fmt.Errorf("no host in url %q", token)
	}
	return host, nil
}
