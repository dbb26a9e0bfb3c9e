package guard

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
)

// floodTracker keeps per-(chat,user) sliding windows of recent message timestamps.
// The window is in-memory only and bounded by the flood interval; losing it on
// restart is accepted, flood state rebuilds within seconds.
type floodTracker struct {
	window   time.Duration
	messages int
	cache    cache.Cache[string, []time.Time]
	mu       sync.Mutex
}

func newFloodTracker(window time.Duration, messages int) *floodTracker {
	const maxTrackedUsers = 10000
	return &floodTracker{
		window:   window,
		messages: messages,
		cache:    cache.NewCache[string, []time.Time]().WithMaxKeys(maxTrackedUsers).WithTTL(window * 2),
	}
}

func floodKey(chatID, userID int64) string { return fmt.Sprintf("%d:%d", chatID, userID) }

// record appends the timestamp to the user's window, dropping entries older than the interval
func (f *floodTracker) record(chatID, userID int64, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := floodKey(chatID, userID)
	stamps, _ := f.cache.Get(key)
	fresh := stamps[:0]
	for _, ts := range stamps {
		if now.Sub(ts) < f.window {
			fresh = append(fresh, ts)
		}
	}
	fresh = append(fresh, now)
	f.cache.Set(key, fresh, f.window*2)
}

// active reports if the user's window holds enough messages to qualify as flooding
func (f *floodTracker) active(chatID, userID int64, now time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	stamps, ok := f.cache.Get(floodKey(chatID, userID))
	if !ok {
		return false
	}
	count := 0
	for _, ts := range stamps {
		if now.Sub(ts) < f.window {
			count++
		}
	}
	return count >= f.messages
}
