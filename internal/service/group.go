package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/roohic/supervisorbot/internal/domain"
	"github.com/roohic/supervisorbot/internal/repository"
)

// GroupEntry pairs a group id with its record, as returned by ListAll.
type GroupEntry struct {
	ID    string
	Group domain.Group
}

// GroupStore owns persisted group state. All read-modify-write paths are
// serialized per group so that concurrent settlements cannot lose credit
// updates. The cache accelerates language and activation reads only; it
// never substitutes for the backing store on writes.
type GroupStore struct {
	kv    repository.KV
	cache *GroupCache

	flight singleflight.Group

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGroupStore(kv repository.KV, cache *GroupCache) *GroupStore {
	return &GroupStore{
		kv:    kv,
		cache: cache,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *GroupStore) lockFor(groupID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[groupID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[groupID] = l
	}
	return l
}

func (s *GroupStore) Get(ctx context.Context, groupID string) (*domain.Group, error) {
	raw, err := s.kv.Get(ctx, groupID)
	if err != nil {
		if errors.Is(err, repository.ErrKeyNotFound) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	var g domain.Group
	if err := json.Unmarshal([]byte(raw), &g); err != nil {
		return nil, fmt.Errorf("decode group %s: %w", groupID, err)
	}
	return &g, nil
}

func (s *GroupStore) put(ctx context.Context, groupID string, g *domain.Group) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encode group %s: %w", groupID, err)
	}
	if err := s.kv.Set(ctx, groupID, string(raw)); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Create validates and persists a new record. An existing record under the
// same id is overwritten.
func (s *GroupStore) Create(ctx context.Context, groupID string, g *domain.Group) error {
	if groupID == "" {
		return fmt.Errorf("%w: group id must not be empty", domain.ErrValidation)
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.put(ctx, groupID, g); err != nil {
		return err
	}
	s.cache.SetLanguage(groupID, g.Language)
	s.cache.SetActive(groupID, g.IsActive)
	return nil
}

// Update replaces the record for an existing group. Both cached fields
// are refreshed since a full replace may change either.
func (s *GroupStore) Update(ctx context.Context, groupID string, g *domain.Group) error {
	l := s.lockFor(groupID)
	l.Lock()
	defer l.Unlock()

	if _, err := s.Get(ctx, groupID); err != nil {
		return err
	}
	if err := s.put(ctx, groupID, g); err != nil {
		return err
	}
	s.cache.SetLanguage(groupID, g.Language)
	s.cache.SetActive(groupID, g.IsActive)
	return nil
}

// SetLanguage persists a new target language. Returns false without a
// store write when the language is unchanged.
func (s *GroupStore) SetLanguage(ctx context.Context, groupID, language string) (bool, error) {
	if language == "" {
		return false, fmt.Errorf("%w: language must not be empty", domain.ErrValidation)
	}

	l := s.lockFor(groupID)
	l.Lock()
	defer l.Unlock()

	g, err := s.Get(ctx, groupID)
	if err != nil {
		return false, err
	}
	if g.Language == language {
		return false, nil
	}

	g.Language = language
	if err := s.put(ctx, groupID, g); err != nil {
		return false, err
	}
	s.cache.SetLanguage(groupID, language)
	return true, nil
}

// SetActive flips the activation flag. Returns false without a store
// write when the flag already has the requested value.
func (s *GroupStore) SetActive(ctx context.Context, groupID string, isActive bool) (bool, error) {
	l := s.lockFor(groupID)
	l.Lock()
	defer l.Unlock()

	g, err := s.Get(ctx, groupID)
	if err != nil {
		return false, err
	}
	if g.IsActive == isActive {
		return false, nil
	}

	g.IsActive = isActive
	if err := s.put(ctx, groupID, g); err != nil {
		return false, err
	}
	s.cache.SetActive(groupID, isActive)
	return true, nil
}

// AddCredit increases the purchased credit of a group.
func (s *GroupStore) AddCredit(ctx context.Context, groupID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}

	l := s.lockFor(groupID)
	l.Lock()
	defer l.Unlock()

	g, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	g.CreditPurchased = g.CreditPurchased.Add(amount)
	return s.put(ctx, groupID, g)
}

// Rename updates the display name only.
func (s *GroupStore) Rename(ctx context.Context, groupID, newName string) error {
	if newName == "" {
		return fmt.Errorf("%w: group name must not be empty", domain.ErrValidation)
	}
	if len(newName) > domain.MaxGroupNameLen {
		return fmt.Errorf("%w: group name must not exceed %d characters", domain.ErrValidation, domain.MaxGroupNameLen)
	}

	l := s.lockFor(groupID)
	l.Lock()
	defer l.Unlock()

	g, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	g.Name = newName
	return s.put(ctx, groupID, g)
}

// Remove erases the record entirely. Reports whether it existed.
func (s *GroupStore) Remove(ctx context.Context, groupID string) (bool, error) {
	existed, err := s.kv.Del(ctx, groupID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	s.cache.Invalidate(groupID)
	return existed, nil
}

// ListAll scans the whole key space. Unpaginated; a known scaling
// liability at large group counts.
func (s *GroupStore) ListAll(ctx context.Context) ([]GroupEntry, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	entries := make([]GroupEntry, 0, len(keys))
	for _, key := range keys {
		g, err := s.Get(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrGroupNotFound) {
				continue // deleted between scan and read
			}
			return nil, err
		}
		entries = append(entries, GroupEntry{ID: key, Group: *g})
	}
	return entries, nil
}

// IsActive is the cache-accelerated activation read used by the
// eligibility gate. Concurrent misses for the same group collapse into a
// single store load.
func (s *GroupStore) IsActive(ctx context.Context, groupID string) (bool, error) {
	if active, ok := s.cache.Active(groupID); ok {
		return active, nil
	}

	v, err, _ := s.flight.Do("active:"+groupID, func() (interface{}, error) {
		g, err := s.Get(ctx, groupID)
		if err != nil {
			return false, err
		}
		s.cache.SetActive(groupID, g.IsActive)
		return g.IsActive, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Language is the cache-accelerated language read used when resolving the
// translation target.
func (s *GroupStore) Language(ctx context.Context, groupID string) (string, error) {
	if lang, ok := s.cache.Language(groupID); ok {
		return lang, nil
	}

	v, err, _ := s.flight.Do("language:"+groupID, func() (interface{}, error) {
		g, err := s.Get(ctx, groupID)
		if err != nil {
			return "", err
		}
		s.cache.SetLanguage(groupID, g.Language)
		return g.Language, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Settle applies one request's cost to the ledger under the per-group
// lock. When the spend reaches the purchased credit the group is
// deactivated in the same write; deactivated reports whether this call
// performed that transition, so the caller can attach a one-time notice.
func (s *GroupStore) Settle(ctx context.Context, groupID string, cost decimal.Decimal) (stillActive, deactivated bool, err error) {
	if cost.IsNegative() {
		return false, false, domain.ErrInvalidAmount
	}

	l := s.lockFor(groupID)
	l.Lock()
	defer l.Unlock()

	g, err := s.Get(ctx, groupID)
	if err != nil {
		return false, false, err
	}

	g.CreditUsed = g.CreditUsed.Add(cost)
	if g.Depleted() && g.IsActive {
		g.IsActive = false
		deactivated = true
	}

	if err := s.put(ctx, groupID, g); err != nil {
		return false, false, err
	}
	if deactivated {
		s.cache.SetActive(groupID, false)
	}
	return g.IsActive, deactivated, nil
}
