package db

import (
	"context"
	"time"
)

// Store is the key-value database facade used for model persistence.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVPair is a single key and value for MSET.
type KVPair struct {
	Key   string
	Value []byte
}

// KVStore provides the batch key-value operations the model store needs.
type KVStore interface {
	// MSet writes every pair atomically.
	MSet(ctx context.Context, pairs []KVPair) error
	// MGet returns values in key order; missing keys yield nil.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	// Del removes keys; missing keys are ignored.
	Del(ctx context.Context, keys ...string) error
}
