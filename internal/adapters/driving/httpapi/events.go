package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultDedupSize is used when no dedup size is configured.
const defaultDedupSize = 1024

// eventSet remembers recently handled Slack events in a bounded LRU.
type eventSet struct {
	cache *lru.Cache[string, struct{}]
}

func newEventSet(size int) (*eventSet, error) {
	if size <= 0 {
		size = defaultDedupSize
	}
	cache, err := lru.New[string, struct{}](size)
	if err != nil {
		return nil, fmt.Errorf("creating event set: %w", err)
	}
	return &eventSet{cache: cache}, nil
}

// Seen records key and reports whether it was already present.
func (s *eventSet) Seen(key string) bool {
	found, _ := s.cache.ContainsOrAdd(key, struct{}{})
	return found
}

// eventKey prefers Slack's event id and falls back to a content hash.
func eventKey(eventID, channel, ts, text string) string {
	if eventID != "" {
		return eventID
	}
	sum := sha256.Sum256([]byte(channel + "\x00" + ts + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
