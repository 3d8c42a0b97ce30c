package service

import (
	"sync"
	"time"
)

type cacheEntry[T any] struct {
	value   T
	expires time.Time
}

func (e cacheEntry[T]) expired() bool {
	return time.Now().After(e.expires)
}

// GroupCache holds advisory per-group language and activation entries.
// It only accelerates reads: the key-value store stays the source of
// truth, and every successful write to a cached field refreshes the
// matching entry. It is injected into the GroupStore, never shared as
// process-wide state.
type GroupCache struct {
	mu        sync.RWMutex
	languages map[string]cacheEntry[string]
	active    map[string]cacheEntry[bool]

	languageTTL   time.Duration
	activationTTL time.Duration
}

func NewGroupCache(languageTTL, activationTTL time.Duration) *GroupCache {
	return &GroupCache{
		languages:     make(map[string]cacheEntry[string]),
		active:        make(map[string]cacheEntry[bool]),
		languageTTL:   languageTTL,
		activationTTL: activationTTL,
	}
}

func (c *GroupCache) Language(groupID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.languages[groupID]
	if !ok || e.expired() {
		return "", false
	}
	return e.value, true
}

func (c *GroupCache) SetLanguage(groupID, language string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.languages[groupID] = cacheEntry[string]{value: language, expires: time.Now().Add(c.languageTTL)}
}

func (c *GroupCache) Active(groupID string) (bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.active[groupID]
	if !ok || e.expired() {
		return false, false
	}
	return e.value, true
}

func (c *GroupCache) SetActive(groupID string, isActive bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active[groupID] = cacheEntry[bool]{value: isActive, expires: time.Now().Add(c.activationTTL)}
}

// Invalidate drops all entries for a group, e.g. after Remove.
func (c *GroupCache) Invalidate(groupID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.languages, groupID)
	delete(c.active, groupID)
}
