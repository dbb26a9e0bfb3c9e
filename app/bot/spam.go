package bot

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"

	"github.com/hemanth-attr/groupguard/app/storage"
	"github.com/hemanth-attr/groupguard/lib/guard"
	"github.com/hemanth-attr/groupguard/lib/guard/spamcheck"
)

//go:generate moq --out mocks/detector.go --pkg mocks --with-resets --skip-ensure . Detector
//go:generate moq --out mocks/settings_store.go --pkg mocks --with-resets --skip-ensure . SettingsStore
//go:generate moq --out mocks/activity_store.go --pkg mocks --with-resets --skip-ensure . ActivityStore

// SpamFilter checks messages with guard.Detector, feeding it per-chat
// settings and behavior state. Reloads dictionaries on file change.
type SpamFilter struct {
	detector Detector
	settings SettingsStore
	activity ActivityStore
	params   SpamConfig
}

// SpamConfig is a full set of parameters for the spam filter
type SpamConfig struct {
	// dictionary file names, watched for changes and reloaded
	KeywordsFile    string
	DomainsFile     string
	SpamSamplesFile string
	HamSamplesFile  string

	SpamEmojis []string // emojis counted by the emoji-density rule
	BlockURLs  bool     // block all non-allow-listed urls regardless of user age
	MaxInitial int      // messages until a user stops being "new"
	WatchDelay time.Duration
}

// Detector is a spam detector interface
type Detector interface {
	Check(req spamcheck.Request) (spam bool, cr []spamcheck.Response)
	Record(req spamcheck.Request)
	IsFlooding(chatID, userID int64) bool
	IsNewUser(ctx context.Context, chatID, userID int64) bool
	ClassifierActive() bool
	LoadSamples(spamReader, hamReader io.Reader) (guard.LoadResult, error)
	LoadKeywords(r io.Reader) (guard.LoadResult, error)
	LoadDomains(r io.Reader) (guard.LoadResult, error)
	SetSpamEmojis(emojis []string)
}

// SettingsStore provides per-chat settings
type SettingsStore interface {
	Get(ctx context.Context, chatID int64) (storage.Settings, error)
}

// ActivityStore persists the initial-message counter
type ActivityStore interface {
	Increment(ctx context.Context, chatID, userID int64, max int) error
}

// NewSpamFilter creates the spam filter, loads all dictionaries and starts
// the file watcher. Missing classifier samples disable the statistical path
// for the process lifetime, logged once here and never again.
func NewSpamFilter(ctx context.Context, detector Detector, settings SettingsStore, activity ActivityStore, params SpamConfig) *SpamFilter {
	if params.MaxInitial <= 0 {
		params.MaxInitial = 3
	}
	if params.WatchDelay <= 0 {
		params.WatchDelay = time.Second
	}
	res := &SpamFilter{detector: detector, settings: settings, activity: activity, params: params}
	res.detector.SetSpamEmojis(params.SpamEmojis)

	if err := res.ReloadDictionaries(); err != nil {
		log.Printf("[WARN] failed to load dictionaries: %v", err)
	}
	if !res.detector.ClassifierActive() {
		log.Printf("[WARN] classifier samples missing or incomplete, running in rule-only mode")
	}

	go func() {
		if err := res.watch(ctx, params.WatchDelay); err != nil {
			log.Printf("[WARN] dictionary watcher failed: %v", err)
		}
	}()
	return res
}

// OnMessage records the message activity and decides if it is spam.
// Settings fetch failures degrade to all-false defaults, a storage outage
// relaxes moderation instead of blocking the chat.
func (s *SpamFilter) OnMessage(ctx context.Context, msg Message) Verdict {
	if msg.From.ID == 0 { // don't check system messages
		return Verdict{}
	}

	settings, err := s.settings.Get(ctx, msg.ChatID)
	if err != nil {
		log.Printf("[WARN] failed to get settings for chat %d, using defaults: %v", msg.ChatID, err)
		settings = storage.Settings{ChatID: msg.ChatID}
	}

	req := spamcheck.Request{Msg: msg.Text, ChatID: msg.ChatID, UserID: msg.From.ID, UserName: DisplayName(msg)}
	s.detector.Record(req)
	if err := s.activity.Increment(ctx, msg.ChatID, msg.From.ID, s.params.MaxInitial); err != nil {
		log.Printf("[WARN] failed to bump activity for %d:%d: %v", msg.ChatID, msg.From.ID, err)
	}

	if strings.TrimSpace(msg.Text) == "" {
		// media-only messages skip text rules but still count for flood
		if s.detector.IsFlooding(msg.ChatID, msg.From.ID) {
			resp := spamcheck.Response{Name: "flood", Spam: true, Details: "media flood"}
			log.Printf("[INFO] user %s flooding with media in chat %d", req.UserName, msg.ChatID)
			return Verdict{Spam: true, Reason: spamcheck.Reason([]spamcheck.Response{resp}),
				Checks: []spamcheck.Response{resp}, Settings: settings}
		}
		return Verdict{Settings: settings}
	}

	req.Meta = spamcheck.MetaData{
		NewUser:    settings.StrictMode && s.detector.IsNewUser(ctx, msg.ChatID, msg.From.ID),
		BlockURLs:  s.params.BlockURLs,
		Classifier: settings.MLMode,
		Entities:   toCheckEntities(msg.Entities),
	}

	spam, cr := s.detector.Check(req)
	if spam {
		log.Printf("[INFO] user %s detected as spammer: %s, %q", req.UserName, spamcheck.ChecksToString(cr), msg.Text)
	} else {
		log.Printf("[DEBUG] user %s is not a spammer, %s", req.UserName, spamcheck.ChecksToString(cr))
	}
	return Verdict{Spam: spam, Reason: spamcheck.Reason(cr), Checks: cr, Settings: settings}
}

func toCheckEntities(entities []Entity) []spamcheck.Entity {
	if len(entities) == 0 {
		return nil
	}
	res := make([]spamcheck.Entity, 0, len(entities))
	for _, e := range entities {
		res = append(res, spamcheck.Entity{Type: e.Type, Text: e.Text, URL: e.URL, IsChannel: e.IsChannel})
	}
	return res
}

// ReloadDictionaries re-reads all dictionary files and retrains the classifier.
// Keywords and domains are optional, absent files leave the set empty.
// Both sample files are needed for the classifier, otherwise it stays off.
func (s *SpamFilter) ReloadDictionaries() error {
	errs := new(multierror.Error)

	if kr, err := os.Open(s.params.KeywordsFile); err == nil {
		lr, lerr := s.detector.LoadKeywords(kr)
		kr.Close()
		if lerr != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to load keywords: %w", lerr))
		} else {
			log.Printf("[INFO] loaded %d keywords from %s", lr.Keywords, s.params.KeywordsFile)
		}
	}

	if dr, err := os.Open(s.params.DomainsFile); err == nil {
		lr, lerr := s.detector.LoadDomains(dr)
		dr.Close()
		if lerr != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to load domains: %w", lerr))
		} else {
			log.Printf("[INFO] loaded %d allowed domains from %s", lr.Domains, s.params.DomainsFile)
		}
	}

	spamReader, spamErr := os.Open(s.params.SpamSamplesFile)
	hamReader, hamErr := os.Open(s.params.HamSamplesFile)
	if spamErr == nil && hamErr == nil {
		lr, lerr := s.detector.LoadSamples(spamReader, hamReader)
		if lerr != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to load samples: %w", lerr))
		} else {
			log.Printf("[INFO] loaded samples - spam: %d, ham: %d", lr.Spam, lr.Ham)
		}
	}
	if spamErr == nil {
		spamReader.Close()
	}
	if hamErr == nil {
		hamReader.Close()
	}

	return errs.ErrorOrNil()
}

// watch watches for changes in dictionary files and reloads them.
// delay coalesces bursts of events into a single reload.
func (s *SpamFilter) watch(ctx context.Context, delay time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	done := make(chan bool)
	reloadTimer := time.NewTimer(delay)
	reloadPending := false

	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				log.Printf("[INFO] stopping dictionary watcher: %v", ctx.Err())
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				log.Printf("[DEBUG] file %q updated, op: %v", event.Name, event.Op)
				if !reloadPending {
					reloadPending = true
					reloadTimer.Reset(delay)
				}
			case <-reloadTimer.C:
				if reloadPending {
					reloadPending = false
					if err := s.ReloadDictionaries(); err != nil {
						log.Printf("[WARN] %v", err)
					}
				}
			case e, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[WARN] watcher error: %v", e)
			}
		}
	}()

	watched := 0
	for _, file := range []string{s.params.KeywordsFile, s.params.DomainsFile, s.params.SpamSamplesFile, s.params.HamSamplesFile} {
		if file == "" {
			continue
		}
		if _, err := os.Stat(file); err != nil {
			log.Printf("[DEBUG] skip watching %q: %v", file, err)
			continue
		}
		if err := watcher.Add(file); err != nil {
			return fmt.Errorf("failed to watch %q: %w", file, err)
		}
		watched++
	}
	if watched == 0 {
		log.Printf("[INFO] no dictionary files to watch")
		return nil
	}
	<-done
	return nil
}
