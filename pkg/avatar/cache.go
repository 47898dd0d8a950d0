package avatar

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/avatarworks/mouthpiece/pkg/types"
)

// Cache defaults
const (
	DefaultCacheTTL        = 300 * time.Second
	DefaultCacheMaxEntries = 1000
)

// ResponseCache is a content-addressed, TTL-bounded cache of prior successful
// speak results. Entries expire lazily on lookup; once the entry count
// exceeds the configured ceiling, the oldest tenth are evicted.
type ResponseCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result   types.SpeakResult
	cachedAt time.Time
}

// NewResponseCache creates a response cache. Non-positive ttl or maxEntries
// fall back to the defaults.
func NewResponseCache(ttl time.Duration, maxEntries int) *ResponseCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheMaxEntries
	}
	return &ResponseCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
	}
}

// cacheKeyFields is serialized with a fixed field order so structurally
// identical requests always collide to the same key. The provider is part of
// the key: the cache is per-provider, never shared across providers.
type cacheKeyFields struct {
	Operation string `json:"operation"`
	Provider  string `json:"provider"`
	AvatarID  string `json:"avatar_id"`
	Text      string `json:"text"`
	Emotion   string `json:"emotion"`
	Language  string `json:"language"`
}

// CacheKey derives the deterministic fingerprint of a request for one
// provider. A serialization failure is reported so the caller can treat the
// request as uncacheable rather than abort.
func CacheKey(operation string, provider ProviderID, req types.SpeakRequest) (string, error) {
	key, err := json.Marshal(cacheKeyFields{
		Operation: operation,
		Provider:  string(provider),
		AvatarID:  req.AvatarID,
		Text:      req.Text,
		Emotion:   req.Emotion,
		Language:  req.Language,
	})
	if err != nil {
		return "", err
	}
	return string(key), nil
}

// Lookup returns the cached result for key, if present and not expired.
// Expired entries are deleted as a side effect.
func (c *ResponseCache) Lookup(key string) (types.SpeakResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return types.SpeakResult{}, false
	}
	if time.Since(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		return types.SpeakResult{}, false
	}
	return entry.result, true
}

// Store inserts or overwrites the entry for key. If the cache then exceeds
// its ceiling, the oldest tenth of the ceiling is evicted immediately.
func (c *ResponseCache) Store(key string, result types.SpeakResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: result, cachedAt: time.Now()}

	if len(c.entries) <= c.maxEntries {
		return
	}

	evict := c.maxEntries / 10
	if evict < 1 {
		evict = 1
	}

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].cachedAt.Before(c.entries[keys[j]].cachedAt)
	})
	for _, k := range keys[:evict] {
		delete(c.entries, k)
	}
}

// Len returns the current entry count.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries and returns how many were dropped.
func (c *ResponseCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	return n
}
