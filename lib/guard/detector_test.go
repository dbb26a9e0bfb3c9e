package guard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemanth-attr/groupguard/lib/guard/mocks"
	"github.com/hemanth-attr/groupguard/lib/guard/spamcheck"
)

func TestDetector_CheckInviteLink(t *testing.T) {
	d := New(Config{})

	tbl := []struct {
		name string
		req  spamcheck.Request
		spam bool
	}{
		{"plain invite", spamcheck.Request{Msg: "join t.me/great_deals now"}, true},
		{"telegram.me form", spamcheck.Request{Msg: "see telegram.me/offers"}, true},
		{"full-width obfuscated", spamcheck.Request{Msg: "join ｔ.ｍｅ/great_deals"}, true},
		{"hidden in text_link", spamcheck.Request{Msg: "click here",
			Meta: spamcheck.MetaData{Entities: []spamcheck.Entity{{Type: "text_link", URL: "https://t.me/spam_group"}}}}, true},
		{"no invite", spamcheck.Request{Msg: "just a regular message"}, false},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			spam, cr := d.Check(tt.req)
			assert.Equal(t, tt.spam, spam)
			if tt.spam {
				assert.Equal(t, "invite-link", cr[len(cr)-1].Name)
			}
		})
	}
}

func TestDetector_CheckOrder(t *testing.T) {
	// message hits both the invite-link and the keyword rule,
	// the invite-link rule runs first and decides
	d := New(Config{})
	_, err := d.LoadKeywords(strings.NewReader("crypto\n"))
	require.NoError(t, err)

	spam, cr := d.Check(spamcheck.Request{Msg: "free crypto at t.me/pump", ChatID: 1, UserID: 2})
	assert.True(t, spam)
	require.Len(t, cr, 1)
	assert.Equal(t, "invite-link", cr[0].Name)
}

func TestDetector_CheckBlockedURL(t *testing.T) {
	d := New(Config{})
	_, err := d.LoadDomains(strings.NewReader("example.com\nwiki.org\n"))
	require.NoError(t, err)

	tbl := []struct {
		name string
		req  spamcheck.Request
		spam bool
	}{
		{"unlisted domain, new user",
			spamcheck.Request{Msg: "check http://example-unlisted.com/offer", Meta: spamcheck.MetaData{NewUser: true}}, true},
		{"unlisted domain, established user, no block",
			spamcheck.Request{Msg: "check http://example-unlisted.com/offer"}, false},
		{"unlisted domain, block urls on",
			spamcheck.Request{Msg: "check http://example-unlisted.com/offer", Meta: spamcheck.MetaData{BlockURLs: true}}, true},
		{"allowed domain, new user",
			spamcheck.Request{Msg: "see https://example.com/page", Meta: spamcheck.MetaData{NewUser: true}}, false},
		{"allowed domain with www, new user",
			spamcheck.Request{Msg: "see https://www.example.com/page", Meta: spamcheck.MetaData{NewUser: true}}, false},
		{"bare domain, new user",
			spamcheck.Request{Msg: "visit shady-site.biz today", Meta: spamcheck.MetaData{NewUser: true}}, true},
		{"unlisted in text_link, new user",
			spamcheck.Request{Msg: "click here", Meta: spamcheck.MetaData{NewUser: true,
				Entities: []spamcheck.Entity{{Type: "text_link", URL: "http://sneaky.net/x"}}}}, true},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			spam, cr := d.Check(tt.req)
			assert.Equal(t, tt.spam, spam, spamcheck.ChecksToString(cr))
			if tt.spam {
				assert.Equal(t, "url", cr[len(cr)-1].Name)
			}
		})
	}
}

func TestDetector_CheckChannelMention(t *testing.T) {
	d := New(Config{})

	spam, cr := d.Check(spamcheck.Request{Msg: "look at @some_channel",
		Meta: spamcheck.MetaData{Entities: []spamcheck.Entity{{Type: "mention", Text: "@some_channel", IsChannel: true}}}})
	assert.True(t, spam)
	assert.Equal(t, "mention", cr[len(cr)-1].Name)

	spam, _ = d.Check(spamcheck.Request{Msg: "hey @regular_user",
		Meta: spamcheck.MetaData{Entities: []spamcheck.Entity{{Type: "mention", Text: "@regular_user"}}}})
	assert.False(t, spam)
}

func TestDetector_CheckEmojis(t *testing.T) {
	d := New(Config{MaxEmoji: 5})

	spam, cr := d.Check(spamcheck.Request{Msg: "buy now 🚀🚀🚀💰💰💰"})
	assert.True(t, spam)
	assert.Equal(t, "emoji", cr[len(cr)-1].Name)

	spam, _ = d.Check(spamcheck.Request{Msg: "nice 🚀🚀🚀💰💰"})
	assert.False(t, spam, "5 emojis is still within the limit")

	// with a restricted spam set only listed emojis count
	d.SetSpamEmojis([]string{"💰"})
	spam, _ = d.Check(spamcheck.Request{Msg: "😀😀😀😀😀😀😀 hello"})
	assert.False(t, spam)
}

func TestDetector_CheckKeywordNormalized(t *testing.T) {
	d := New(Config{})
	_, err := d.LoadKeywords(strings.NewReader("free crypto\nearn money\n"))
	require.NoError(t, err)

	tbl := []struct {
		name string
		msg  string
		spam bool
	}{
		{"plain keyword", "get free crypto today", true},
		{"full-width homoglyphs", "get ｆｒｅｅ ｃｒｙｐｔｏ today", true},
		{"accented homoglyphs", "get ｆŕèé ĉrỳṕtô today", true},
		{"zero-width interleaved", "get fre​e cry​pto today", true},
		{"mixed case", "FREE CRYPTO giveaway", true},
		{"clean", "how do I configure the linter", false},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			spam, cr := d.Check(spamcheck.Request{Msg: tt.msg})
			assert.Equal(t, tt.spam, spam, spamcheck.ChecksToString(cr))
		})
	}
}

func TestDetector_CheckFormatting(t *testing.T) {
	d := New(Config{MaxFormatEntities: 5})

	entities := func(n int) (res []spamcheck.Entity) {
		for i := 0; i < n; i++ {
			res = append(res, spamcheck.Entity{Type: "bold"})
		}
		return res
	}

	spam, cr := d.Check(spamcheck.Request{Msg: "big announcement", Meta: spamcheck.MetaData{Entities: entities(5)}})
	assert.True(t, spam)
	assert.Equal(t, "format", cr[len(cr)-1].Name)

	spam, _ = d.Check(spamcheck.Request{Msg: "big announcement", Meta: spamcheck.MetaData{Entities: entities(4)}})
	assert.False(t, spam)
}

func TestDetector_CheckFlood(t *testing.T) {
	d := New(Config{FloodMessages: 3, FloodInterval: 5 * time.Second})
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return now }

	req := spamcheck.Request{Msg: "hello", ChatID: 10, UserID: 20}

	// two messages in the window, not flooding yet
	d.Record(req)
	now = now.Add(500 * time.Millisecond)
	d.Record(req)
	spam, _ := d.Check(req)
	assert.False(t, spam)

	// third message within 2s crosses the threshold
	now = now.Add(500 * time.Millisecond)
	d.Record(req)
	spam, cr := d.Check(req)
	assert.True(t, spam)
	assert.Equal(t, "flood", cr[len(cr)-1].Name)

	// same rate from another user is independent
	other := spamcheck.Request{Msg: "hello", ChatID: 10, UserID: 21}
	spam, _ = d.Check(other)
	assert.False(t, spam)

	// window expires
	now = now.Add(6 * time.Second)
	spam, _ = d.Check(req)
	assert.False(t, spam)
	assert.False(t, d.IsFlooding(10, 20))
}

func TestDetector_CheckClassifier(t *testing.T) {
	d := New(Config{MinClassifierProb: 60})
	spam := "win a huge lottery prize today\nbuy cheap followers and likes\nlimited offer, claim your bonus money now"
	ham := "the meeting moved to three pm\nanyone tried the new compiler release\nthanks for the code review yesterday"
	res, err := d.LoadSamples(strings.NewReader(spam), strings.NewReader(ham))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Spam)
	assert.Equal(t, 3, res.Ham)
	assert.True(t, d.ClassifierActive())

	isSpam, cr := d.Check(spamcheck.Request{Msg: "claim your lottery bonus prize",
		Meta: spamcheck.MetaData{Classifier: true}})
	assert.True(t, isSpam, spamcheck.ChecksToString(cr))
	assert.Equal(t, "classifier", cr[len(cr)-1].Name)

	isSpam, cr = d.Check(spamcheck.Request{Msg: "claim your lottery bonus prize",
		Meta: spamcheck.MetaData{Classifier: true, NewUser: true}})
	assert.True(t, isSpam, spamcheck.ChecksToString(cr))
	assert.Equal(t, "classifier (new user)", cr[len(cr)-1].Name)

	isSpam, cr = d.Check(spamcheck.Request{Msg: "thanks, the compiler release looks good",
		Meta: spamcheck.MetaData{Classifier: true}})
	assert.False(t, isSpam, spamcheck.ChecksToString(cr))

	// classifier disabled for the chat, same spammy text passes the rules
	isSpam, cr = d.Check(spamcheck.Request{Msg: "claim your lottery bonus prize"})
	assert.False(t, isSpam, spamcheck.ChecksToString(cr))
	for _, r := range cr {
		assert.NotEqual(t, "classifier", r.Name)
	}
}

func TestDetector_LoadSamplesOneClass(t *testing.T) {
	d := New(Config{})
	res, err := d.LoadSamples(strings.NewReader("spam sample text here"), strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Spam)
	assert.Equal(t, 0, res.Ham)
	assert.False(t, d.ClassifierActive(), "single-class training keeps the classifier off")

	isSpam, _ := d.Check(spamcheck.Request{Msg: "spam sample text here", Meta: spamcheck.MetaData{Classifier: true}})
	assert.False(t, isSpam)
}

func TestDetector_CheckEmpty(t *testing.T) {
	d := New(Config{})
	spam, cr := d.Check(spamcheck.Request{Msg: "  ", ChatID: 1, UserID: 2})
	assert.False(t, spam)
	require.Len(t, cr, 1)
	assert.Equal(t, "empty", cr[0].Name)
}

func TestDetector_IsNewUser(t *testing.T) {
	t.Run("no tracker", func(t *testing.T) {
		d := New(Config{FirstMessages: 3})
		assert.False(t, d.IsNewUser(context.Background(), 1, 2))
	})

	t.Run("below threshold", func(t *testing.T) {
		mock := &mocks.ActivityTrackerMock{CountFunc: func(ctx context.Context, chatID, userID int64) (int, error) {
			return 2, nil
		}}
		d := New(Config{FirstMessages: 3}).WithActivityTracker(mock)
		assert.True(t, d.IsNewUser(context.Background(), 1, 2))
		require.Len(t, mock.CountCalls(), 1)
		assert.Equal(t, int64(1), mock.CountCalls()[0].ChatID)
		assert.Equal(t, int64(2), mock.CountCalls()[0].UserID)
	})

	t.Run("at threshold", func(t *testing.T) {
		mock := &mocks.ActivityTrackerMock{CountFunc: func(ctx context.Context, chatID, userID int64) (int, error) {
			return 3, nil
		}}
		d := New(Config{FirstMessages: 3}).WithActivityTracker(mock)
		assert.False(t, d.IsNewUser(context.Background(), 1, 2))
	})

	t.Run("tracker error treated as established", func(t *testing.T) {
		mock := &mocks.ActivityTrackerMock{CountFunc: func(ctx context.Context, chatID, userID int64) (int, error) {
			return 0, errors.New("db down")
		}}
		d := New(Config{FirstMessages: 3}).WithActivityTracker(mock)
		assert.False(t, d.IsNewUser(context.Background(), 1, 2))
	})
}

func TestDetector_LoadKeywordsAndDomains(t *testing.T) {
	d := New(Config{})

	res, err := d.LoadKeywords(strings.NewReader("Free Crypto\n\n# comment line\nearn money\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Keywords)

	res, err = d.LoadDomains(strings.NewReader("Example.COM\nwww.wiki.org\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Domains)
	assert.Contains(t, d.allowedDomains, "example.com")
	assert.Contains(t, d.allowedDomains, "wiki.org")
}

func TestRegistrableDomain(t *testing.T) {
	tbl := []struct {
		token  string
		domain string
		err    bool
	}{
		{"http://example.com/page", "example.com", false},
		{"https://www.example.com:8080/x", "example.com", false},
		{"example.com/path", "example.com", false},
		{"www.sub.wiki.org", "sub.wiki.org", false},
		{"http://", "", true},
		{"http://%zz", "", true},
	}

	for _, tt := range tbl {
		t.Run(tt.token, func(t *testing.T) {
			domain, err := registrableDomain(tt.token)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.domain, domain)
		})
	}
}
