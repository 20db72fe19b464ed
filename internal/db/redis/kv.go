package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/jobrank/internal/db"
)

// MSet writes all pairs with a single atomic MSET.
func (s *Store) MSet(ctx context.Context, pairs []db.KVPair) error {
	if len(pairs) == 0 {
		return nil
	}
	kv := s.b().Mset().KeyValue()
	for _, p := range pairs {
		kv = kv.KeyValue(p.Key, rueidis.BinaryString(p.Value))
	}
	if err := s.do(ctx, kv.Build()).Error(); err != nil {
		return &db.Error{Op: db.OpMSet, Err: err}
	}
	return nil
}

// MGet reads all keys with a single MGET. Missing keys yield nil entries.
func (s *Store) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	cmd := s.b().Mget().Key(keys...).Build()
	msgs, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpMGet, Err: err}
	}

	out := make([][]byte, len(msgs))
	for i := range msgs {
		if msgs[i].IsNil() {
			continue
		}
		data, err := msgs[i].AsBytes()
		if err != nil {
			return nil, &db.Error{Op: db.OpMGet, Err: err}
		}
		out[i] = data
	}
	return out, nil
}

// Del deletes keys.
func (s *Store) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	cmd := s.b().Del().Key(keys...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
