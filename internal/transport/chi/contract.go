package chi

import (
	"context"

	domcluster "github.com/kailas-cloud/jobrank/internal/domain/cluster"
	"github.com/kailas-cloud/jobrank/internal/domain/search/request"
	"github.com/kailas-cloud/jobrank/internal/domain/search/result"
	"github.com/kailas-cloud/jobrank/internal/domain/stats"
	analyticsuc "github.com/kailas-cloud/jobrank/internal/usecase/analytics"
	healthuc "github.com/kailas-cloud/jobrank/internal/usecase/health"
	traininguc "github.com/kailas-cloud/jobrank/internal/usecase/training"
)

// Searcher ranks jobs and extracts skills from the live index.
type Searcher interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
	TopSkills(ctx context.Context, n int) ([]stats.Term, error)
}

// Trainer rebuilds the index.
type Trainer interface {
	Train(ctx context.Context) (traininguc.Summary, error)
}

// Clusterer groups the live index.
type Clusterer interface {
	Cluster(ctx context.Context, k int) (domcluster.Report, error)
	DefaultK() int
}

// Analytics serves dataset statistics.
type Analytics interface {
	Summary() stats.Summary
	FilterOptions() stats.FilterOptions
	Dashboard(ctx context.Context) analyticsuc.Dashboard
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
