package stats

import "github.com/kailas-cloud/jobrank/internal/domain/job"

// Count is a label with its number of occurrences.
type Count struct {
	label string
	count int
}

// NewCount creates a Count.
func NewCount(label string, count int) Count { return Count{label: label, count: count} }

// Label returns the counted value.
func (c Count) Label() string { return c.label }

// Count returns the number of occurrences.
func (c Count) Count() int { return c.count }

// Mean is a label with an averaged value.
type Mean struct {
	label string
	value float64
}

// NewMean creates a Mean.
func NewMean(label string, value float64) Mean { return Mean{label: label, value: value} }

// Label returns the grouped value.
func (m Mean) Label() string { return m.label }

// Value returns the mean.
func (m Mean) Value() float64 { return m.value }

// Term is a vocabulary term with an aggregate weight.
type Term struct {
	term  string
	score float64
}

// NewTerm creates a Term.
func NewTerm(term string, score float64) Term { return Term{term: term, score: score} }

// Term returns the vocabulary term.
func (t Term) Term() string { return t.term }

// Score returns the aggregate weight.
func (t Term) Score() float64 { return t.score }

// Histogram holds equal-width bin counts. len(Edges) == len(Counts)+1.
type Histogram struct {
	edges  []float64
	counts []int
}

// NewHistogram creates a Histogram.
func NewHistogram(edges []float64, counts []int) Histogram {
	return Histogram{edges: edges, counts: counts}
}

// Edges returns the bin boundaries.
func (h Histogram) Edges() []float64 { return h.edges }

// Counts returns the per-bin counts.
func (h Histogram) Counts() []int { return h.counts }

// FilterOptions lists the values offered in the search filter UI.
type FilterOptions struct {
	locations []string
	workTypes []string
}

// NewFilterOptions creates FilterOptions.
func NewFilterOptions(locations, workTypes []string) FilterOptions {
	return FilterOptions{locations: locations, workTypes: workTypes}
}

// Locations returns the most common locations.
func (f FilterOptions) Locations() []string { return f.locations }

// WorkTypes returns the distinct work types.
func (f FilterOptions) WorkTypes() []string { return f.workTypes }

// Summary holds headline dataset statistics.
type Summary struct {
	totalJobs       int
	totalCompanies  int
	totalLocations  int
	workTypes       []Count
	avgApplications job.NullFloat
	avgFollowers    job.NullFloat
	remoteJobs      int
	recentJobs24h   int
}

// NewSummary creates a Summary.
func NewSummary(
	totalJobs, totalCompanies, totalLocations int,
	workTypes []Count,
	avgApplications, avgFollowers job.NullFloat,
	remoteJobs, recentJobs24h int,
) Summary {
	return Summary{
		totalJobs:       totalJobs,
		totalCompanies:  totalCompanies,
		totalLocations:  totalLocations,
		workTypes:       workTypes,
		avgApplications: avgApplications,
		avgFollowers:    avgFollowers,
		remoteJobs:      remoteJobs,
		recentJobs24h:   recentJobs24h,
	}
}

// TotalJobs returns the number of postings.
func (s Summary) TotalJobs() int { return s.totalJobs }

// TotalCompanies returns the number of distinct companies.
func (s Summary) TotalCompanies() int { return s.totalCompanies }

// TotalLocations returns the number of distinct locations.
func (s Summary) TotalLocations() int { return s.totalLocations }

// WorkTypes returns posting counts per work type.
func (s Summary) WorkTypes() []Count { return s.workTypes }

// AvgApplications returns the mean application count over known values.
func (s Summary) AvgApplications() job.NullFloat { return s.avgApplications }

// AvgFollowers returns the mean follower count over known values.
func (s Summary) AvgFollowers() job.NullFloat { return s.avgFollowers }

// RemoteJobs returns the number of postings with work type "remote".
func (s Summary) RemoteJobs() int { return s.remoteJobs }

// RecentJobs24h returns the number of postings at most 24 hours old.
func (s Summary) RecentJobs24h() int { return s.recentJobs24h }
