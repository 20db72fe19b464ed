// Package model persists trained index snapshots.
//
// A persisted model is three JSON artifacts (vectorizer, matrix, corpus)
// plus a manifest carrying the model id and a SHA-256 checksum per
// artifact. A triple is only loaded when every checksum matches.
package model

import (
	"context"

	"github.com/kailas-cloud/jobrank/internal/index"
)

// Status classifies the outcome of Load.
type Status string

// Load outcomes.
const (
	StatusLoaded  Status = "loaded"
	StatusAbsent  Status = "absent"
	StatusCorrupt Status = "corrupt"
	StatusIOError Status = "io_error"
)

// Artifact names, shared by every backend.
const (
	ArtifactManifest   = "manifest"
	ArtifactVectorizer = "vectorizer"
	ArtifactMatrix     = "matrix"
	ArtifactCorpus     = "corpus"
)

// LoadResult is the explicit outcome of Load. Snapshot is set only
// when Status is StatusLoaded; Err explains Corrupt and IOError.
type LoadResult struct {
	Status   Status
	Snapshot *index.Snapshot
	Err      error
}

// Store saves and restores the trained snapshot.
type Store interface {
	Save(ctx context.Context, snap *index.Snapshot) error
	Load(ctx context.Context) LoadResult
}

func loaded(s *index.Snapshot) LoadResult { return LoadResult{Status: StatusLoaded, Snapshot: s} }

func absent() LoadResult { return LoadResult{Status: StatusAbsent} }

func corrupt(err error) LoadResult { return LoadResult{Status: StatusCorrupt, Err: err} }

func ioError(err error) LoadResult { return LoadResult{Status: StatusIOError, Err: err} }
