package usecase

import (
	"sync"
	"time"

	"github.com/lingvoapp/lingvo-backend/internal/domain/model"
)

// SettingsCacheTTL bounds pricing-config staleness. A brief window of
// stale pricing after an admin change is acceptable; correctness never
// depends on the cache.
const SettingsCacheTTL = 5 * time.Minute

type cacheEntry struct {
	settings *model.CohortPricing
	storedAt time.Time
}

// SettingsCache is a TTL cache over cohort pricing rows. The clock is
// injected so tests control time deterministically.
type SettingsCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[model.Cohort]cacheEntry
}

// NewSettingsCache builds a cache with the given TTL. A nil clock falls
// back to time.Now.
func NewSettingsCache(ttl time.Duration, now func() time.Time) *SettingsCache {
	if now == nil {
		now = time.Now
	}
	return &SettingsCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[model.Cohort]cacheEntry),
	}
}

// Get returns the cached settings for the cohort when present and fresh.
// The second return is false on a miss or an expired entry. A cached nil
// is valid: it remembers "no config exists" for the TTL.
func (c *SettingsCache) Get(cohort model.Cohort) (*model.CohortPricing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[cohort]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, false
	}
	return entry.settings, true
}

// Put stores the settings for the cohort.
func (c *SettingsCache) Put(cohort model.Cohort, settings *model.CohortPricing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cohort] = cacheEntry{settings: settings, storedAt: c.now()}
}

// Invalidate drops every entry; called after admin pricing updates.
func (c *SettingsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[model.Cohort]cacheEntry)
}
