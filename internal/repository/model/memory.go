package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/jobrank/internal/index"
)

// MemoryStore keeps the last saved snapshot in process memory.
// Nothing survives a restart, so Load after startup is always absent.
type MemoryStore struct {
	mu   sync.RWMutex
	snap *index.Snapshot
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory model store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Save replaces the stored snapshot.
func (s *MemoryStore) Save(ctx context.Context, snap *index.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// Load returns the stored snapshot, or absent.
func (s *MemoryStore) Load(_ context.Context) LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return absent()
	}
	return loaded(s.snap)
}
