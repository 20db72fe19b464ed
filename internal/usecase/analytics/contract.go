package analytics

import (
	"context"

	domcluster "github.com/kailas-cloud/jobrank/internal/domain/cluster"
	"github.com/kailas-cloud/jobrank/internal/domain/stats"
)

// SkillRanker extracts the heaviest vocabulary terms from the live index.
type SkillRanker interface {
	TopSkills(ctx context.Context, n int) ([]stats.Term, error)
}

// Clusterer groups the live index.
type Clusterer interface {
	Cluster(ctx context.Context, k int) (domcluster.Report, error)
	DefaultK() int
}
