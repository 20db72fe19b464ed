package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/jobrank/internal/db"
	"github.com/kailas-cloud/jobrank/internal/index"
)

// kvStore is the consumer interface for the KV-backed model store (ISP).
type kvStore interface {
	MSet(ctx context.Context, pairs []db.KVPair) error
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Del(ctx context.Context, keys ...string) error
}

// KVStore keeps the four artifacts under <prefix>model:<artifact>.
// MSET and MGET make both write and read of the set atomic. A set that
// loads as corrupt is deleted, so the retrain that follows starts clean.
type KVStore struct {
	store  kvStore
	prefix string
}

var _ Store = (*KVStore)(nil)

// NewKVStore creates a KV-backed model store.
func NewKVStore(s kvStore, keyPrefix string) *KVStore {
	return &KVStore{store: s, prefix: keyPrefix + "model:"}
}

func (s *KVStore) keys() []string {
	return []string{
		s.prefix + ArtifactManifest,
		s.prefix + ArtifactVectorizer,
		s.prefix + ArtifactMatrix,
		s.prefix + ArtifactCorpus,
	}
}

// Save writes all artifacts with a single MSET.
func (s *KVStore) Save(ctx context.Context, snap *index.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	k := s.keys()
	pairs := []db.KVPair{
		{Key: k[0], Value: b.Manifest},
		{Key: k[1], Value: b.Vectorizer},
		{Key: k[2], Value: b.Matrix},
		{Key: k[3], Value: b.Corpus},
	}
	if err := s.store.MSet(ctx, pairs); err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return nil
}

// Load reads all artifacts with a single MGET.
func (s *KVStore) Load(ctx context.Context) LoadResult {
	vals, err := s.store.MGet(ctx, s.keys())
	if err != nil {
		return ioError(fmt.Errorf("load model: %w", err))
	}
	if len(vals) != 4 {
		return ioError(fmt.Errorf("load model: expected 4 values, got %d", len(vals)))
	}

	blobs := make(map[string][]byte, 4)
	for i, name := range []string{ArtifactManifest, ArtifactVectorizer, ArtifactMatrix, ArtifactCorpus} {
		if vals[i] != nil {
			blobs[name] = vals[i]
		}
	}
	res := fromBlobs(blobs)
	if res.Status == StatusCorrupt {
		if err := s.store.Del(ctx, s.keys()...); err != nil {
			res.Err = errors.Join(res.Err, fmt.Errorf("clear corrupt model: %w", err))
		}
	}
	return res
}
