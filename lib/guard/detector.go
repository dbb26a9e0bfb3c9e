// Package guard implements a spam detector for group chats, combining an
// ordered set of rule checks with a naive bayes classifier trained from
// spam and ham samples.
package guard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/hemanth-attr/groupguard/lib/guard/spamcheck"
)

//go:generate moq --out mocks/activity.go --pkg mocks --with-resets --skip-ensure . ActivityTracker

// ActivityTracker reports how many messages a user has sent to a chat,
// used to decide if the sender is still within the new-user window.
type ActivityTracker interface {
	Count(ctx context.Context, chatID, userID int64) (int, error)
}

// Config is a set of parameters for Detector.
type Config struct {
	MaxEmoji          int           // max number of emojis allowed in a message
	MaxFormatEntities int           // number of rich-format entities treated as spam signature
	FloodMessages     int           // number of messages in FloodInterval to qualify as flooding
	FloodInterval     time.Duration // flood sliding window
	FirstMessages     int           // how many messages until a user is no longer "new"
	MinClassifierProb float64       // min probability percent for classifier to declare spam
}

// Detector is a spam detector, thread-safe. Checks run in a fixed order and
// the first positive one decides, remaining rules are not evaluated.
type Detector struct {
	Config

	classifier        classifier
	classifierEnabled bool
	keywords          []string
	allowedDomains    map[string]struct{}
	spamEmojis        map[string]struct{}
	formatEntities    map[string]struct{}
	flood             *floodTracker
	activity          ActivityTracker
	norm              *normalizer
	now               func() time.Time

	lock sync.Mutex
}

// LoadResult is a result of loading samples or keyword dictionaries.
type LoadResult struct {
	Spam     int // number of spam samples loaded
	Ham      int // number of ham samples loaded
	Keywords int // number of keywords loaded
	Domains  int // number of allowed domains loaded
}

// New makes a new detector with the given config.
func New(p Config) *Detector {
	if p.MaxEmoji <= 0 {
		p.MaxEmoji = 5
	}
	if p.MaxFormatEntities <= 0 {
		p.MaxFormatEntities = 5
	}
	if p.FloodMessages <= 0 {
		p.FloodMessages = 3
	}
	if p.FloodInterval <= 0 {
		p.FloodInterval = 5 * time.Second
	}
	if p.FirstMessages <= 0 {
		p.FirstMessages = 3
	}
	if p.MinClassifierProb <= 0 {
		p.MinClassifierProb = 60
	}

	return &Detector{
		Config:         p,
		classifier:     newClassifier(),
		allowedDomains: map[string]struct{}{},
		spamEmojis:     map[string]struct{}{},
		formatEntities: map[string]struct{}{
			"bold": {}, "italic": {}, "underline": {}, "strikethrough": {},
			"code": {}, "pre": {}, "spoiler": {}, "blockquote": {},
		},
		flood: newFloodTracker(p.FloodInterval, p.FloodMessages),
		norm:  newNormalizer(),
		now:   time.Now,
	}
}

// WithActivityTracker sets the store used to count user messages for the new-user window.
func (d *Detector) WithActivityTracker(a ActivityTracker) *Detector {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.activity = a
	return d
}

// Check evaluates the request against all checks in order. The first positive
// check decides the verdict and short-circuits the rest; cr holds the checks
// actually evaluated. Messages without text pass, media-only updates are
// handled by the flood path on the caller's side.
func (d *Detector) Check(req spamcheck.Request) (spam bool, cr []spamcheck.Response) {
	if strings.TrimSpace(req.Msg) == "" && len(req.Meta.Entities) == 0 {
		return false, []spamcheck.Response{{Name: "empty", Spam: false, Details: "no text"}}
	}

	d.lock.Lock()
	defer d.lock.Unlock()

	normMsg := d.norm.normalize(req.Msg)

	// order matters, cheapest and highest-signal checks first
	checks := []func(spamcheck.Request, string) spamcheck.Response{
		d.isInviteLink,
		d.isBlockedURL,
		d.isChannelMention,
		d.isManyEmojis,
		d.isKeyword,
		d.isHeavyFormatting,
		d.isFlooding,
	}

	for _, check := range checks {
		resp := check(req, normMsg)
		cr = append(cr, resp)
		if resp.Spam {
			return true, cr
		}
	}

	if req.Meta.Classifier && d.classifierEnabled {
		resp := d.classifierCheck(normMsg, req.Meta.NewUser)
		cr = append(cr, resp)
		if resp.Spam {
			return true, cr
		}
	}

	return false, cr
}

// classifierCheck runs the naive bayes classifier on the normalized text.
// The verdict is spam only when the classifier is certain and the probability
// clears the configured threshold. The check name marks new-user senders so
// the verdict reason shows the stricter context, the action is the same.
func (d *Detector) classifierCheck(normMsg string, newUser bool) spamcheck.Response {
	name := "classifier"
	if newUser {
		name = "classifier (new user)"
	}
	tokens := tokenize(normMsg)
	if len(tokens) == 0 {
		return spamcheck.Response{Name: name, Spam: false, Details: "no tokens"}
	}
	class, prob, certain := d.classifier.classify(tokens...)
	isSpam := certain && class == classSpam && prob >= d.MinClassifierProb
	return spamcheck.Response{Name: name, Spam: isSpam,
		Details: fmt.Sprintf("probability of %s: %.2f%%", class, prob)}
}

// Record registers the message in the flood window. Called for every message,
// including media-only ones.
func (d *Detector) Record(req spamcheck.Request) {
	d.flood.record(req.ChatID, req.UserID, d.now())
}

// IsFlooding reports if the user currently exceeds the flood threshold.
// Used for media-only messages which skip the text checks.
func (d *Detector) IsFlooding(chatID, userID int64) bool {
	return d.flood.active(chatID, userID, d.now())
}

// IsNewUser reports if the user is still within the first-messages window.
// Without a tracker, or on tracker error, users are treated as established,
// so the stricter rules never fire on storage failures.
func (d *Detector) IsNewUser(ctx context.Context, chatID, userID int64) bool {
	d.lock.Lock()
	activity := d.activity
	d.lock.Unlock()

	if activity == nil {
		return false
	}
	count, err := activity.Count(ctx, chatID, userID)
	if err != nil {
		return false
	}
	return count < d.FirstMessages
}

// ClassifierActive reports if the classifier was trained with both classes.
func (d *Detector) ClassifierActive() bool {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.classifierEnabled
}

// LoadSamples loads spam and ham samples from readers, one sample per line,
// and trains the classifier. Previous training is discarded. The classifier
// stays disabled unless both classes got at least one sample.
func (d *Detector) LoadSamples(spamReader, hamReader io.Reader) (LoadResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.classifier.reset()
	d.classifierEnabled = false

	res := LoadResult{}
	var docs []document

	spamCount, err := forEachLine(spamReader, func(line string) {
		docs = append(docs, document{spamClass: classSpam, tokens: tokenize(d.norm.normalize(line))})
	})
	if err != nil {
		return res, fmt.Errorf("failed to read spam samples: %w", err)
	}
	res.Spam = spamCount

	hamCount, err := forEachLine(hamReader, func(line string) {
		docs = append(docs, document{spamClass: classHam, tokens: tokenize(d.norm.normalize(line))})
	})
	if err != nil {
		return res, fmt.Errorf("failed to read ham samples: %w", err)
	}
	res.Ham = hamCount

	d.classifier.learn(docs...)
	d.classifierEnabled = d.classifier.ready()
	return res, nil
}

// LoadKeywords loads the keyword dictionary from the reader, one keyword per
// line. Keywords are normalized the same way messages are, previous set is replaced.
func (d *Detector) LoadKeywords(r io.Reader) (LoadResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	keywords := []string{}
	count, err := forEachLine(r, func(line string) {
		keywords = append(keywords, d.norm.normalize(line))
	})
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read keywords: %w", err)
	}
	d.keywords = keywords
	return LoadResult{Keywords: count}, nil
}

// LoadDomains loads the url allow-list from the reader, one domain per line.
// Previous set is replaced.
func (d *Detector) LoadDomains(r io.Reader) (LoadResult, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	domains := map[string]struct{}{}
	count, err := forEachLine(r, func(line string) {
		domains[strings.TrimPrefix(strings.ToLower(line), "www.")] = struct{}{}
	})
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read domains: %w", err)
	}
	d.allowedDomains = domains
	return LoadResult{Domains: count}, nil
}

// SetSpamEmojis replaces the set of emojis counted by the emoji-density rule.
// An empty set means every emoji counts.
func (d *Detector) SetSpamEmojis(emojis []string) {
	d.lock.Lock()
	defer d.lock.Unlock()

	set := map[string]struct{}{}
	for _, e := range emojis {
		if e = strings.TrimSpace(e); e != "" {
			set[e] = struct{}{}
		}
	}
	d.spamEmojis = set
}

// forEachLine applies fn to each non-empty, non-comment line of the reader
// and returns the number of lines processed.
func forEachLine(r io.Reader, fn func(line string)) (int, error) {
	if r == nil {
		return 0, nil
	}
	count := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fn(line)
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, err
	}
	return count, nil
}

// tokenize splits normalized text to classifier tokens, dropping short ones
func tokenize(normMsg string) []string {
	fields := strings.FieldsFunc(normMsg, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9') && r < 0x80
	})
	res := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		res = append(res, f)
	}
	return res
}
