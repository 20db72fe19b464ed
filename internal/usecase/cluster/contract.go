package cluster

import "github.com/kailas-cloud/jobrank/internal/index"

// SnapshotReader returns the live index, or nil before training.
type SnapshotReader interface {
	Current() *index.Snapshot
}
