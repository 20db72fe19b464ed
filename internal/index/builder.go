package index

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/jobrank/internal/domain"
	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/textnorm"
	"github.com/kailas-cloud/jobrank/internal/tfidf"
)

// BuildOptions controls document assembly and vectorization.
type BuildOptions struct {
	Vectorizer       tfidf.Options
	DescriptionChars int // description prefix length in runes
	Workers          int // normalization workers; 0 = GOMAXPROCS
}

// DefaultBuildOptions returns the default vectorizer options and a
// 500-character description prefix.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Vectorizer:       tfidf.DefaultOptions(),
		DescriptionChars: 500,
	}
}

// Builder turns a corpus into a Snapshot.
type Builder struct {
	norm *textnorm.Normalizer
	opts BuildOptions
	now  func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(norm *textnorm.Normalizer, opts BuildOptions) *Builder {
	return &Builder{norm: norm, opts: opts, now: time.Now}
}

// Normalizer returns the normalizer shared by indexing and querying.
func (b *Builder) Normalizer() *textnorm.Normalizer { return b.norm }

// Documents returns the processed text of every record, in corpus order.
func (b *Builder) Documents(ctx context.Context, corpus []job.Record) ([]string, error) {
	docs := make([]string, len(corpus))
	workers := b.opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	chunk := (len(corpus) + workers - 1) / workers
	for lo := 0; lo < len(corpus); lo += chunk {
		hi := min(lo+chunk, len(corpus))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("normalize documents: %w", err)
			}
			for i := lo; i < hi; i++ {
				docs[i] = b.norm.Normalize(corpus[i].Text(b.opts.DescriptionChars))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Build normalizes the corpus, fits the vectorizer and returns a new Snapshot.
// An empty vocabulary is reported as domain.ErrEmptyVocabulary.
func (b *Builder) Build(ctx context.Context, corpus []job.Record) (*Snapshot, error) {
	docs, err := b.Documents(ctx, corpus)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	vec, m, err := tfidf.Fit(docs, b.opts.Vectorizer)
	if errors.Is(err, tfidf.ErrNoTerms) {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmptyVocabulary, err)
	}
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}

	return NewSnapshot(uuid.NewString(), b.now().UTC(), vec, m, corpus)
}
