// Package index holds the trained, immutable search index and the
// reference cell that publishes it to readers.
package index

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/tfidf"
)

// Snapshot is a fully built (vocabulary, weight matrix, corpus) triple.
// It is never mutated after construction.
type Snapshot struct {
	id         string
	builtAt    time.Time
	vectorizer *tfidf.Vectorizer
	matrix     *tfidf.Matrix
	corpus     []job.Record
}

// NewSnapshot validates that the parts agree in shape.
func NewSnapshot(
	id string, builtAt time.Time,
	vectorizer *tfidf.Vectorizer, matrix *tfidf.Matrix, corpus []job.Record,
) (*Snapshot, error) {
	if vectorizer == nil || matrix == nil {
		return nil, fmt.Errorf("snapshot: vectorizer and matrix are required")
	}
	if matrix.Rows() != len(corpus) {
		return nil, fmt.Errorf("snapshot: matrix has %d rows for %d records", matrix.Rows(), len(corpus))
	}
	if matrix.Cols() != vectorizer.Size() {
		return nil, fmt.Errorf("snapshot: matrix has %d columns for %d terms", matrix.Cols(), vectorizer.Size())
	}
	return &Snapshot{
		id:         id,
		builtAt:    builtAt,
		vectorizer: vectorizer,
		matrix:     matrix,
		corpus:     corpus,
	}, nil
}

// ID returns the model identifier assigned at training time.
func (s *Snapshot) ID() string { return s.id }

// BuiltAt returns the training timestamp.
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// Vectorizer returns the fitted vocabulary and IDF weights.
func (s *Snapshot) Vectorizer() *tfidf.Vectorizer { return s.vectorizer }

// Matrix returns the document weight matrix.
func (s *Snapshot) Matrix() *tfidf.Matrix { return s.matrix }

// Corpus returns the indexed records; row i of Matrix is Corpus()[i].
func (s *Snapshot) Corpus() []job.Record { return s.corpus }

// Size returns the number of indexed records.
func (s *Snapshot) Size() int { return len(s.corpus) }

// Holder publishes the current Snapshot. Readers call Current once per
// request; writers build a new Snapshot and Swap it in.
type Holder struct {
	cur atomic.Pointer[Snapshot]
}

// NewHolder returns an empty holder.
func NewHolder() *Holder { return &Holder{} }

// Current returns the live snapshot or nil when nothing is trained.
func (h *Holder) Current() *Snapshot { return h.cur.Load() }

// Swap publishes s and returns the previous snapshot.
func (h *Holder) Swap(s *Snapshot) *Snapshot { return h.cur.Swap(s) }

// Ready reports whether a snapshot is loaded.
func (h *Holder) Ready() bool { return h.cur.Load() != nil }
