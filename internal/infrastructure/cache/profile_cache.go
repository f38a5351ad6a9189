package cache

import (
	"sync"
	"time"

	"ops-hub/internal/domain"
)

// cacheEntry represents a cached profile with its expiry.
type cacheEntry struct {
	profile   domain.Profile
	expiresAt time.Time
}

// ProfileCache provides thread-safe in-memory profile caching with TTL,
// sitting between the auth provider and the profile store.
// Implements domain.ProfileCache.
type ProfileCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

// NewProfileCache creates a new profile cache with the specified TTL.
func NewProfileCache(ttl time.Duration) *ProfileCache {
	c := &ProfileCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached profile by identity id.
func (c *ProfileCache) Get(identityID string) (*domain.Profile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[identityID]
	if !found || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return &entry.profile, true
}

// Set stores a profile in the cache.
func (c *ProfileCache) Set(identityID string, profile domain.Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[identityID] = &cacheEntry{
		profile:   profile,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Invalidate drops a cached profile, e.g. after a profile write.
func (c *ProfileCache) Invalidate(identityID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, identityID)
}

// cleanup removes expired entries.
func (c *ProfileCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *ProfileCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}
