package utils

import (
	"sync"
	"time"

	"github.com/Abhinav-710/LearnOrbit/models"
)

type planCacheEntry struct {
	plans     []models.SubscriptionPlan
	expiresAt time.Time
}

// PlanCache is a small TTL cache for plan listings. The clock is injectable so
// tests control expiry without sleeping.
type PlanCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]planCacheEntry
}

// NewPlanCache creates a cache with the given TTL. A nil now uses time.Now.
func NewPlanCache(ttl time.Duration, now func() time.Time) *PlanCache {
	if now == nil {
		now = time.Now
	}
	return &PlanCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]planCacheEntry),
	}
}

// Get returns the cached plans for key if present and not expired.
func (pc *PlanCache) Get(key string) ([]models.SubscriptionPlan, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	entry, ok := pc.entries[key]
	if !ok || pc.now().After(entry.expiresAt) {
		delete(pc.entries, key)
		return nil, false
	}
	return entry.plans, true
}

// Set stores plans under key for the cache TTL.
func (pc *PlanCache) Set(key string, plans []models.SubscriptionPlan) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.entries[key] = planCacheEntry{
		plans:     plans,
		expiresAt: pc.now().Add(pc.ttl),
	}
}

// Clear drops every entry. Called after any admin plan write.
func (pc *PlanCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.entries = make(map[string]planCacheEntry)
}
