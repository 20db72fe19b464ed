package training

import (
	"context"

	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/index"
	"github.com/kailas-cloud/jobrank/internal/repository/model"
)

// DatasetReader reads the training corpus.
type DatasetReader interface {
	Records(ctx context.Context, limit int) ([]job.Record, error)
}

// IndexBuilder turns a corpus into a snapshot.
type IndexBuilder interface {
	Build(ctx context.Context, corpus []job.Record) (*index.Snapshot, error)
}

// ModelStore persists snapshots.
type ModelStore interface {
	Save(ctx context.Context, snap *index.Snapshot) error
	Load(ctx context.Context) model.LoadResult
}

// SnapshotPublisher publishes the live snapshot to readers.
type SnapshotPublisher interface {
	Swap(s *index.Snapshot) *index.Snapshot
}
