package repository

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has no value.
var ErrKeyNotFound = errors.New("key not found")

// KV is the key-value backend behind the group store: opaque string values
// keyed by group id, plus a key scan used for listing.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Del reports whether the key existed.
	Del(ctx context.Context, key string) (bool, error)
	// Keys enumerates every key in the store. Unpaginated full scan;
	// acceptable at moderate group counts.
	Keys(ctx context.Context) ([]string, error)
}
