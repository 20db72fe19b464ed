package chi

import (
	"github.com/kailas-cloud/jobrank/internal/domain/cluster"
	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/domain/search/result"
	"github.com/kailas-cloud/jobrank/internal/domain/stats"
	analyticsuc "github.com/kailas-cloud/jobrank/internal/usecase/analytics"
	traininguc "github.com/kailas-cloud/jobrank/internal/usecase/training"
)

// ErrorCode is the machine-readable error identifier.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeUnauthorized     ErrorCode = "unauthorized"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeNotTrained       ErrorCode = "not_trained"
	ErrorCodeTrainingFailed   ErrorCode = "training_failed"
	ErrorCodeDatasetNotFound  ErrorCode = "dataset_not_found"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the body of POST /api/search.
type SearchRequest struct {
	Query    string `json:"query"`
	Limit    *int   `json:"limit,omitempty"`
	Location string `json:"location,omitempty"`
	WorkType string `json:"work_type,omitempty"`
}

// JobResponse is a ranked job.
type JobResponse struct {
	Title           string   `json:"job"`
	Company         string   `json:"company_name"`
	Location        string   `json:"location"`
	WorkType        string   `json:"work_type"`
	Applications    *int64   `json:"no_of_application"`
	Followers       *int64   `json:"linkedin_followers"`
	PostedHoursAgo  *float64 `json:"posted_hours_ago"`
	Description     string   `json:"job_details"`
	SimilarityScore float64  `json:"similarity_score"`
}

// SearchResponse is the body returned by POST /api/search.
type SearchResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Results []JobResponse `json:"results"`
}

// SkillResponse is one extracted skill.
type SkillResponse struct {
	Skill string  `json:"skill"`
	Score float64 `json:"score"`
}

// SkillsResponse is the body returned by GET /api/top-skills.
type SkillsResponse struct {
	Success bool            `json:"success"`
	Skills  []SkillResponse `json:"skills"`
}

// TrainResponse is the body returned by POST /api/train.
type TrainResponse struct {
	Success        bool   `json:"success"`
	ModelID        string `json:"model_id"`
	Documents      int    `json:"documents"`
	VocabularySize int    `json:"vocabulary_size"`
	DurationMs     int64  `json:"duration_ms"`
}

// ClusterResponse describes one cluster.
type ClusterResponse struct {
	ID           int      `json:"id"`
	Label        string   `json:"label"`
	TopTerms     []string `json:"top_terms"`
	Size         int      `json:"size"`
	SampleTitles []string `json:"sample_titles"`
}

// ClustersResponse is the body returned by GET /api/clusters.
type ClustersResponse struct {
	Success  bool              `json:"success"`
	K        int               `json:"k"`
	Inertia  float64           `json:"inertia"`
	Clusters []ClusterResponse `json:"clusters"`
}

// CountResponse is a labelled count.
type CountResponse struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MeanResponse is a labelled mean.
type MeanResponse struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// HistogramResponse is an equal-width histogram.
type HistogramResponse struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// StatsResponse is the body returned by GET /api/stats.
type StatsResponse struct {
	TotalJobs       int             `json:"total_jobs"`
	TotalCompanies  int             `json:"total_companies"`
	TotalLocations  int             `json:"total_locations"`
	WorkTypes       []CountResponse `json:"work_types"`
	AvgApplications *float64        `json:"avg_applications"`
	AvgFollowers    *float64        `json:"avg_followers"`
	RemoteJobs      int             `json:"remote_jobs"`
	RecentJobs24h   int             `json:"recent_jobs_24h"`
}

// FiltersResponse is the body returned by GET /api/filters.
type FiltersResponse struct {
	Locations []string `json:"locations"`
	WorkTypes []string `json:"work_types"`
}

// DashboardResponse is the body returned by GET /api/dashboard.
type DashboardResponse struct {
	Stats            StatsResponse     `json:"stats"`
	TopTitles        []CountResponse   `json:"top_titles"`
	TopCompanies     []CountResponse   `json:"top_companies"`
	TopLocations     []CountResponse   `json:"top_locations"`
	WorkTypes        []CountResponse   `json:"work_types"`
	CompanyFollowers []MeanResponse    `json:"company_followers"`
	PostingRecency   []CountResponse   `json:"posting_recency"`
	Applications     HistogramResponse `json:"applications_histogram"`
	TopSkills        []SkillResponse   `json:"top_skills"`
	Clusters         *ClustersResponse `json:"clusters"`
	Warnings         []string          `json:"warnings"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func jobToResponse(r *result.Result) JobResponse {
	rec := r.Record()
	return JobResponse{
		Title:           rec.Title(),
		Company:         rec.Company(),
		Location:        rec.Location(),
		WorkType:        rec.WorkType(),
		Applications:    nullInt(rec.Applications()),
		Followers:       nullInt(rec.Followers()),
		PostedHoursAgo:  nullFloat(rec.PostedHoursAgo()),
		Description:     rec.Description(),
		SimilarityScore: r.Score(),
	}
}

func skillsToResponse(terms []stats.Term) []SkillResponse {
	out := make([]SkillResponse, len(terms))
	for i, t := range terms {
		out[i] = SkillResponse{Skill: t.Term(), Score: t.Score()}
	}
	return out
}

func trainToResponse(s traininguc.Summary) TrainResponse {
	return TrainResponse{
		Success:        true,
		ModelID:        s.ModelID,
		Documents:      s.Documents,
		VocabularySize: s.VocabularySize,
		DurationMs:     s.Duration.Milliseconds(),
	}
}

func clustersToResponse(r cluster.Report) ClustersResponse {
	out := ClustersResponse{
		Success:  true,
		K:        r.K(),
		Inertia:  r.Inertia(),
		Clusters: make([]ClusterResponse, 0, r.K()),
	}
	for _, c := range r.Clusters() {
		out.Clusters = append(out.Clusters, ClusterResponse{
			ID:           c.ID(),
			Label:        c.Label(),
			TopTerms:     nonNil(c.TopTerms()),
			Size:         c.Size(),
			SampleTitles: nonNil(c.SampleTitles()),
		})
	}
	return out
}

func statsToResponse(s stats.Summary) StatsResponse {
	return StatsResponse{
		TotalJobs:       s.TotalJobs(),
		TotalCompanies:  s.TotalCompanies(),
		TotalLocations:  s.TotalLocations(),
		WorkTypes:       countsToResponse(s.WorkTypes()),
		AvgApplications: nullFloat(s.AvgApplications()),
		AvgFollowers:    nullFloat(s.AvgFollowers()),
		RemoteJobs:      s.RemoteJobs(),
		RecentJobs24h:   s.RecentJobs24h(),
	}
}

func countsToResponse(cs []stats.Count) []CountResponse {
	out := make([]CountResponse, len(cs))
	for i, c := range cs {
		out[i] = CountResponse{Label: c.Label(), Count: c.Count()}
	}
	return out
}

func meansToResponse(ms []stats.Mean) []MeanResponse {
	out := make([]MeanResponse, len(ms))
	for i, m := range ms {
		out[i] = MeanResponse{Label: m.Label(), Value: m.Value()}
	}
	return out
}

func dashboardToResponse(d *analyticsuc.Dashboard) DashboardResponse {
	resp := DashboardResponse{
		Stats:            statsToResponse(d.Summary),
		TopTitles:        countsToResponse(d.TopTitles),
		TopCompanies:     countsToResponse(d.TopCompanies),
		TopLocations:     countsToResponse(d.TopLocations),
		WorkTypes:        countsToResponse(d.WorkTypes),
		CompanyFollowers: meansToResponse(d.CompanyFollowers),
		PostingRecency:   countsToResponse(d.PostingRecency),
		Applications: HistogramResponse{
			Edges:  nonNil(d.Applications.Edges()),
			Counts: nonNil(d.Applications.Counts()),
		},
		TopSkills: skillsToResponse(d.TopSkills),
		Warnings:  nonNil(d.Warnings),
	}
	if d.Clusters != nil {
		c := clustersToResponse(*d.Clusters)
		resp.Clusters = &c
	}
	return resp
}

func nullInt(v job.NullInt) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Value
}

func nullFloat(v job.NullFloat) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Value
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
