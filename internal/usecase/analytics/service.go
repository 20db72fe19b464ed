package analytics

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	domcluster "github.com/kailas-cloud/jobrank/internal/domain/cluster"
	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/domain/stats"
)

// Defaults for list sizes.
const (
	DefaultTopTitles        = 15
	DefaultTopCompanies     = 15
	DefaultTopLocations     = 20
	DefaultCompanyFollowers = 15
	DefaultHistogramBins    = 50
	DefaultDashboardSkills  = 30
	FilterLocations         = 50
	RecentHours             = 24
)

// recency buckets, upper bounds inclusive.
var recencyBuckets = []struct {
	label string
	upper float64
}{
	{"< 1 day", 24},
	{"1-3 days", 72},
	{"3-7 days", 168},
	{"1-2 weeks", 336},
	{"> 2 weeks", math.Inf(1)},
}

// Service computes descriptive statistics over the full dataset.
type Service struct {
	records  []job.Record
	skills   SkillRanker
	clusters Clusterer
	logger   *zap.Logger
}

// New creates an analytics service. skills and clusters can be nil.
func New(records []job.Record, skills SkillRanker, clusters Clusterer, logger *zap.Logger) *Service {
	return &Service{records: records, skills: skills, clusters: clusters, logger: logger}
}

// Summary returns headline statistics.
func (s *Service) Summary() stats.Summary {
	companies := make(map[string]struct{})
	locations := make(map[string]struct{})
	var apps, followers mean
	remote, recent := 0, 0

	for i := range s.records {
		r := &s.records[i]
		if r.Company() != "" {
			companies[r.Company()] = struct{}{}
		}
		if r.Location() != "" {
			locations[r.Location()] = struct{}{}
		}
		if a := r.Applications(); a.Valid {
			apps.add(float64(a.Value))
		}
		if f := r.Followers(); f.Valid {
			followers.add(float64(f.Value))
		}
		if strings.EqualFold(strings.TrimSpace(r.WorkType()), "remote") {
			remote++
		}
		if p := r.PostedHoursAgo(); p.Valid && p.Value <= RecentHours {
			recent++
		}
	}

	return stats.NewSummary(
		len(s.records), len(companies), len(locations),
		s.WorkTypes(),
		apps.value(), followers.value(),
		remote, recent,
	)
}

// TopTitles returns the most frequent job titles. n <= 0 uses DefaultTopTitles.
func (s *Service) TopTitles(n int) []stats.Count {
	return s.top(n, DefaultTopTitles, (*job.Record).Title)
}

// TopCompanies returns the companies with the most postings.
func (s *Service) TopCompanies(n int) []stats.Count {
	return s.top(n, DefaultTopCompanies, (*job.Record).Company)
}

// TopLocations returns the locations with the most postings.
func (s *Service) TopLocations(n int) []stats.Count {
	return s.top(n, DefaultTopLocations, (*job.Record).Location)
}

// WorkTypes returns posting counts for every work type.
func (s *Service) WorkTypes() []stats.Count {
	return countBy(s.records, (*job.Record).WorkType)
}

func (s *Service) top(n, def int, key func(*job.Record) string) []stats.Count {
	if n <= 0 {
		n = def
	}
	counts := countBy(s.records, key)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// CompanyFollowers returns companies ranked by mean follower count.
func (s *Service) CompanyFollowers(n int) []stats.Mean {
	if n <= 0 {
		n = DefaultCompanyFollowers
	}
	byCompany := make(map[string]*mean)
	var order []string
	for i := range s.records {
		r := &s.records[i]
		f := r.Followers()
		if r.Company() == "" || !f.Valid {
			continue
		}
		m, ok := byCompany[r.Company()]
		if !ok {
			m = &mean{}
			byCompany[r.Company()] = m
			order = append(order, r.Company())
		}
		m.add(float64(f.Value))
	}

	out := make([]stats.Mean, len(order))
	for i, c := range order {
		out[i] = stats.NewMean(c, byCompany[c].value().Value)
	}
	slices.SortStableFunc(out, func(a, b stats.Mean) int {
		switch {
		case a.Value() > b.Value():
			return -1
		case a.Value() < b.Value():
			return 1
		default:
			return 0
		}
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PostingRecency buckets postings by age. Unknown ages are skipped.
func (s *Service) PostingRecency() []stats.Count {
	counts := make([]int, len(recencyBuckets))
	for i := range s.records {
		p := s.records[i].PostedHoursAgo()
		if !p.Valid || p.Value < 0 {
			continue
		}
		for b, bucket := range recencyBuckets {
			if p.Value <= bucket.upper {
				counts[b]++
				break
			}
		}
	}
	out := make([]stats.Count, len(recencyBuckets))
	for b, bucket := range recencyBuckets {
		out[b] = stats.NewCount(bucket.label, counts[b])
	}
	return out
}

// ApplicationsHistogram returns an equal-width histogram of application
// counts. bins <= 0 uses DefaultHistogramBins.
func (s *Service) ApplicationsHistogram(bins int) stats.Histogram {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	var values []float64
	for i := range s.records {
		if a := s.records[i].Applications(); a.Valid {
			values = append(values, float64(a.Value))
		}
	}
	return histogram(values, bins)
}

// FilterOptions returns the values offered as search filters.
func (s *Service) FilterOptions() stats.FilterOptions {
	locs := s.TopLocations(FilterLocations)
	locations := make([]string, len(locs))
	for i, c := range locs {
		locations[i] = c.Label()
	}

	seen := make(map[string]struct{})
	workTypes := []string{}
	for i := range s.records {
		wt := s.records[i].WorkType()
		if wt == "" {
			continue
		}
		if _, ok := seen[wt]; !ok {
			seen[wt] = struct{}{}
			workTypes = append(workTypes, wt)
		}
	}
	return stats.NewFilterOptions(locations, workTypes)
}

// Dashboard is the batch result of every analytic.
type Dashboard struct {
	Summary          stats.Summary
	TopTitles        []stats.Count
	TopCompanies     []stats.Count
	TopLocations     []stats.Count
	WorkTypes        []stats.Count
	CompanyFollowers []stats.Mean
	PostingRecency   []stats.Count
	Applications     stats.Histogram
	TopSkills        []stats.Term
	Clusters         *domcluster.Report
	Warnings         []string
}

// Dashboard computes every analytic. A failing section is left empty and
// reported in Warnings; the call itself never fails.
func (s *Service) Dashboard(ctx context.Context) Dashboard {
	var d Dashboard

	s.attempt(&d, "summary", func() error { d.Summary = s.Summary(); return nil })
	s.attempt(&d, "top_titles", func() error { d.TopTitles = s.TopTitles(0); return nil })
	s.attempt(&d, "top_companies", func() error { d.TopCompanies = s.TopCompanies(0); return nil })
	s.attempt(&d, "top_locations", func() error { d.TopLocations = s.TopLocations(0); return nil })
	s.attempt(&d, "work_types", func() error { d.WorkTypes = s.WorkTypes(); return nil })
	s.attempt(&d, "company_followers", func() error { d.CompanyFollowers = s.CompanyFollowers(0); return nil })
	s.attempt(&d, "posting_recency", func() error { d.PostingRecency = s.PostingRecency(); return nil })
	s.attempt(&d, "applications", func() error { d.Applications = s.ApplicationsHistogram(0); return nil })

	s.attempt(&d, "top_skills", func() error {
		if s.skills == nil {
			return fmt.Errorf("skill ranker not configured")
		}
		terms, err := s.skills.TopSkills(ctx, DefaultDashboardSkills)
		if err != nil {
			return err
		}
		d.TopSkills = terms
		return nil
	})
	s.attempt(&d, "clusters", func() error {
		if s.clusters == nil {
			return fmt.Errorf("clusterer not configured")
		}
		rep, err := s.clusters.Cluster(ctx, s.clusters.DefaultK())
		if err != nil {
			return err
		}
		d.Clusters = &rep
		return nil
	})
	return d
}

// attempt runs one dashboard section, turning errors and panics into warnings.
func (s *Service) attempt(d *Dashboard, name string, fn func() error) {
	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		return fn()
	}()
	if err != nil {
		s.logger.Warn("Dashboard section degraded", zap.String("section", name), zap.Error(err))
		d.Warnings = append(d.Warnings, name+": "+err.Error())
	}
}

// countBy counts non-empty keys, descending, ties by first appearance.
func countBy(records []job.Record, key func(*job.Record) string) []stats.Count {
	idx := make(map[string]int)
	var labels []string
	var counts []int
	for i := range records {
		k := key(&records[i])
		if k == "" {
			continue
		}
		j, ok := idx[k]
		if !ok {
			j = len(labels)
			idx[k] = j
			labels = append(labels, k)
			counts = append(counts, 0)
		}
		counts[j]++
	}

	out := make([]stats.Count, len(labels))
	for j := range labels {
		out[j] = stats.NewCount(labels[j], counts[j])
	}
	slices.SortStableFunc(out, func(a, b stats.Count) int { return b.Count() - a.Count() })
	return out
}

func histogram(values []float64, bins int) stats.Histogram {
	if len(values) == 0 {
		return stats.NewHistogram([]float64{}, []int{})
	}
	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)
	edges := make([]float64, bins+1)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	counts := make([]int, bins)
	for _, v := range values {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1 // right edge is inclusive
		}
		counts[b]++
	}
	return stats.NewHistogram(edges, counts)
}

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) { m.sum += v; m.n++ }

func (m *mean) value() job.NullFloat {
	if m.n == 0 {
		return job.NullFloat{}
	}
	return job.Float(m.sum / float64(m.n))
}
