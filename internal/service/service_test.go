package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roohic/supervisorbot/internal/domain"
	"github.com/roohic/supervisorbot/internal/repository"
)

// memKV is an in-memory stand-in for the Redis backend. It counts writes
// so tests can assert that no-op operations skip the store, and can be
// switched into a failing state to exercise StoreUnavailable paths.
type memKV struct {
	mu      sync.Mutex
	data    map[string]string
	sets    int
	failing bool
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

var errKVDown = errors.New("connection refused")

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return "", errKVDown
	}
	v, ok := m.data[key]
	if !ok {
		return "", repository.ErrKeyNotFound
	}
	return v, nil
}

func (m *memKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return errKVDown
	}
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memKV) Del(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return false, errKVDown
	}
	_, ok := m.data[key]
	delete(m.data, key)
	return ok, nil
}

func (m *memKV) Keys(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, errKVDown
	}
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func (m *memKV) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *memKV) setFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// fakeProvider returns a canned completion and counts invocations.
type fakeProvider struct {
	text  string
	usage *domain.TokenUsage
	err   error
	calls atomic.Int32
}

func (f *fakeProvider) ChatComplete(ctx context.Context, system, user, model string, maxTokens int, temperature float64) (*domain.Completion, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Completion{Text: f.text, Usage: f.usage}, nil
}

func (f *fakeProvider) Complete(ctx context.Context, prompt, model string, maxTokens int, temperature float64) (*domain.Completion, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Completion{Text: f.text, Usage: f.usage}, nil
}

func newTestStore() (*GroupStore, *memKV) {
	kv := newMemKV()
	return NewGroupStore(kv, NewGroupCache(time.Hour, time.Hour)), kv
}

func mustCreateGroup(t *testing.T, store *GroupStore, id string, purchased, used string, active bool) {
	t.Helper()
	g := domain.NewGroup("Test Group", "Deutsch")
	g.IsActive = active
	g.CreditPurchased = decimal.RequireFromString(purchased)
	g.CreditUsed = decimal.RequireFromString(used)
	if err := store.Create(context.Background(), id, g); err != nil {
		t.Fatalf("create group: %v", err)
	}
}
