package cluster

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/domain"
	domcluster "github.com/kailas-cloud/jobrank/internal/domain/cluster"
	"github.com/kailas-cloud/jobrank/internal/kmeans"
)

// Service groups the indexed corpus into k clusters.
type Service struct {
	snapshots SnapshotReader
	cfg       kmeans.Config
	logger    *zap.Logger
}

// New creates a cluster service. cfg.K is the default k.
func New(snapshots SnapshotReader, cfg kmeans.Config, logger *zap.Logger) *Service {
	if cfg.K < 1 {
		cfg.K = kmeans.DefaultConfig().K
	}
	return &Service{snapshots: snapshots, cfg: cfg, logger: logger}
}

// DefaultK returns the configured number of clusters.
func (s *Service) DefaultK() int { return s.cfg.K }

// Cluster runs k-means over the live weight matrix and describes each cluster.
func (s *Service) Cluster(ctx context.Context, k int) (domcluster.Report, error) {
	snap := s.snapshots.Current()
	if snap == nil {
		return domcluster.Report{}, domain.ErrNotTrained
	}
	if k < 1 || k > snap.Size() {
		return domcluster.Report{}, domain.NewArgumentError(
			"k", fmt.Sprintf("must be between 1 and %d", snap.Size()))
	}

	cfg := s.cfg
	cfg.K = k
	res, err := kmeans.Run(ctx, snap.Matrix(), cfg)
	if err != nil {
		return domcluster.Report{}, fmt.Errorf("kmeans: %w", err)
	}
	s.logger.Debug("clustering finished",
		zap.Int("k", k),
		zap.Int("restart", res.Restart),
		zap.Int("iterations", res.Iterations),
		zap.Float64("inertia", res.Inertia),
	)

	terms := snap.Vectorizer().Terms()
	corpus := snap.Corpus()
	sizes := make([]int, k)
	samples := make([][]string, k)
	for row, label := range res.Labels {
		sizes[label]++
		if len(samples[label]) < domcluster.MaxSampleTitles {
			samples[label] = append(samples[label], corpus[row].Title())
		}
	}

	clusters := make([]domcluster.Cluster, k)
	for c := 0; c < k; c++ {
		clusters[c] = domcluster.New(c, topTerms(res.Centroids[c], terms), sizes[c], samples[c])
	}
	return domcluster.NewReport(clusters, res.Labels, res.Inertia), nil
}

// topTerms returns up to MaxTopTerms terms with the heaviest positive
// centroid weight, ties by vocabulary index.
func topTerms(centroid []float64, terms []string) []string {
	idx := make([]int, 0, len(centroid))
	for i, w := range centroid {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	slices.SortFunc(idx, func(a, b int) int {
		switch {
		case centroid[a] > centroid[b]:
			return -1
		case centroid[a] < centroid[b]:
			return 1
		default:
			return a - b
		}
	})
	if len(idx) > domcluster.MaxTopTerms {
		idx = idx[:domcluster.MaxTopTerms]
	}
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = terms[j]
	}
	return out
}
