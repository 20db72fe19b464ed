package search

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/kailas-cloud/jobrank/internal/domain"
	"github.com/kailas-cloud/jobrank/internal/domain/search/request"
	"github.com/kailas-cloud/jobrank/internal/domain/search/result"
	"github.com/kailas-cloud/jobrank/internal/domain/stats"
	"github.com/kailas-cloud/jobrank/internal/metrics"
)

const (
	// DefaultCandidateMultiplier sizes the candidate pool as top_n * multiplier.
	DefaultCandidateMultiplier = 3
	// DefaultTopSkills is used when TopSkills gets n <= 0.
	DefaultTopSkills = 50
)

// Service ranks the live corpus against free-text queries.
type Service struct {
	snapshots  SnapshotReader
	norm       Normalizer
	multiplier int
}

// New creates a search service. multiplier <= 0 uses DefaultCandidateMultiplier.
func New(snapshots SnapshotReader, norm Normalizer, multiplier int) *Service {
	if multiplier <= 0 {
		multiplier = DefaultCandidateMultiplier
	}
	return &Service{snapshots: snapshots, norm: norm, multiplier: multiplier}
}

// Search returns at most req.TopN() results ordered by descending cosine
// similarity, ties by ascending row.
//
// Filters run on a candidate pool of min(corpus, top_n * multiplier) rows,
// not on the whole corpus. A selective filter can therefore return fewer
// than top_n results even when more matching rows exist further down.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	start := time.Now()

	snap := s.snapshots.Current()
	if snap == nil {
		return nil, domain.ErrNotTrained
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	qv := snap.Vectorizer().Transform(s.norm.Normalize(req.Query()))
	scores := snap.Matrix().MulVec(qv)

	pool := min(snap.Size(), req.TopN()*s.multiplier)
	corpus := snap.Corpus()
	candidates := make([]result.Result, 0, pool)
	for _, row := range rankRows(scores, pool) {
		candidates = append(candidates, result.New(row, corpus[row], clamp(scores[row])))
	}

	results := req.Filters().Apply(candidates)
	if len(results) > req.TopN() {
		results = results[:req.TopN()]
	}

	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	metrics.SearchResults.Observe(float64(len(results)))
	return results, nil
}

// TopSkills returns the n terms with the largest summed weight across the
// corpus. n <= 0 uses DefaultTopSkills.
func (s *Service) TopSkills(_ context.Context, n int) ([]stats.Term, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return nil, domain.ErrNotTrained
	}
	if n <= 0 {
		n = DefaultTopSkills
	}

	sums := snap.Matrix().ColumnSums()
	terms := snap.Vectorizer().Terms()
	cols := rankRows(sums, min(n, len(sums)))

	out := make([]stats.Term, len(cols))
	for i, c := range cols {
		out[i] = stats.NewTerm(terms[c], sums[c])
	}
	return out, nil
}

// rankRows returns the indices of the k largest values, descending,
// ties by ascending index.
func rankRows(values []float64, k int) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	slices.SortFunc(idx, func(a, b int) int {
		switch {
		case values[a] > values[b]:
			return -1
		case values[a] < values[b]:
			return 1
		default:
			return a - b
		}
	})
	return idx[:k]
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
