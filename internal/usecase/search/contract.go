package search

import "github.com/kailas-cloud/jobrank/internal/index"

// SnapshotReader returns the live index, or nil before training.
type SnapshotReader interface {
	Current() *index.Snapshot
}

// Normalizer turns raw query text into the processed form used at indexing time.
type Normalizer interface {
	Normalize(raw string) string
}
