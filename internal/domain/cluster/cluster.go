package cluster

import "fmt"

// Limits for per-cluster descriptions.
const (
	MaxTopTerms     = 10
	MaxSampleTitles = 5
)

// Cluster describes one group of similar postings.
type Cluster struct {
	id           int
	topTerms     []string
	size         int
	sampleTitles []string
}

// New creates a cluster description. id is zero-based.
func New(id int, topTerms []string, size int, sampleTitles []string) Cluster {
	return Cluster{id: id, topTerms: topTerms, size: size, sampleTitles: sampleTitles}
}

// ID returns the zero-based cluster index.
func (c Cluster) ID() int { return c.id }

// Label returns the display label ("Cluster 1" for id 0).
func (c Cluster) Label() string { return fmt.Sprintf("Cluster %d", c.id+1) }

// TopTerms returns the highest-weighted centroid terms.
func (c Cluster) TopTerms() []string { return c.topTerms }

// Size returns the number of member jobs.
func (c Cluster) Size() int { return c.size }

// SampleTitles returns up to five member titles in corpus order.
func (c Cluster) SampleTitles() []string { return c.sampleTitles }

// Report is the outcome of clustering the corpus.
type Report struct {
	clusters    []Cluster
	assignments []int
	inertia     float64
}

// NewReport creates a clustering report.
func NewReport(clusters []Cluster, assignments []int, inertia float64) Report {
	return Report{clusters: clusters, assignments: assignments, inertia: inertia}
}

// Clusters returns the per-cluster descriptions ordered by id.
func (r Report) Clusters() []Cluster { return r.clusters }

// Assignments maps corpus row to cluster id.
func (r Report) Assignments() []int { return r.assignments }

// Inertia returns the within-cluster sum of squared distances.
func (r Report) Inertia() float64 { return r.inertia }

// K returns the number of clusters.
func (r Report) K() int { return len(r.clusters) }
