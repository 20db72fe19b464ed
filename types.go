package jobrank

import (
	"time"

	"github.com/kailas-cloud/jobrank/internal/domain"
	domcluster "github.com/kailas-cloud/jobrank/internal/domain/cluster"
	"github.com/kailas-cloud/jobrank/internal/domain/search/result"
	"github.com/kailas-cloud/jobrank/internal/domain/stats"
	traininguc "github.com/kailas-cloud/jobrank/internal/usecase/training"
)

// Errors returned by Client operations. Match with errors.Is.
var (
	ErrDatasetNotFound = domain.ErrDatasetNotFound
	ErrNotTrained      = domain.ErrNotTrained
	ErrInvalidQuery    = domain.ErrInvalidQuery
	ErrInvalidArgument = domain.ErrInvalidArgument
	ErrEmptyVocabulary = domain.ErrEmptyVocabulary
)

// Job is a job posting. Nil numeric fields are unknown.
type Job struct {
	Title          string
	Company        string
	Location       string
	WorkType       string
	Applications   *int64
	Followers      *int64
	PostedHoursAgo *float64
	Description    string
}

// Hit is a ranked job.
type Hit struct {
	Job   Job
	Row   int     // position in the training corpus
	Score float64 // cosine similarity in [0,1]
}

// Skill is a vocabulary term with its summed weight across the corpus.
type Skill struct {
	Term  string
	Score float64
}

// Cluster describes one k-means cluster.
type Cluster struct {
	ID           int
	Label        string
	TopTerms     []string
	Size         int
	SampleTitles []string
}

// Clustering is the result of Client.Cluster.
type Clustering struct {
	Clusters    []Cluster
	Assignments []int // cluster id per corpus row
	Inertia     float64
}

// TrainSummary describes the model that was published.
type TrainSummary struct {
	ModelID        string
	Documents      int
	VocabularySize int
	Duration       time.Duration
	Loaded         bool   // restored from the model store instead of trained
	LoadStatus     string // loaded, absent, corrupt, io_error; empty after Train
}

func hitFromResult(r *result.Result) Hit {
	rec := r.Record()
	j := Job{
		Title:       rec.Title(),
		Company:     rec.Company(),
		Location:    rec.Location(),
		WorkType:    rec.WorkType(),
		Description: rec.Description(),
	}
	if v := rec.Applications(); v.Valid {
		j.Applications = &v.Value
	}
	if v := rec.Followers(); v.Valid {
		j.Followers = &v.Value
	}
	if v := rec.PostedHoursAgo(); v.Valid {
		j.PostedHoursAgo = &v.Value
	}
	return Hit{Job: j, Row: r.Row(), Score: r.Score()}
}

func skillsFromTerms(terms []stats.Term) []Skill {
	out := make([]Skill, len(terms))
	for i, t := range terms {
		out[i] = Skill{Term: t.Term(), Score: t.Score()}
	}
	return out
}

func clusteringFromReport(r domcluster.Report) Clustering {
	out := Clustering{
		Clusters:    make([]Cluster, len(r.Clusters())),
		Assignments: r.Assignments(),
		Inertia:     r.Inertia(),
	}
	for i, c := range r.Clusters() {
		out.Clusters[i] = Cluster{
			ID:           c.ID(),
			Label:        c.Label(),
			TopTerms:     c.TopTerms(),
			Size:         c.Size(),
			SampleTitles: c.SampleTitles(),
		}
	}
	return out
}

func summaryFromTraining(s traininguc.Summary) TrainSummary {
	return TrainSummary{
		ModelID:        s.ModelID,
		Documents:      s.Documents,
		VocabularySize: s.VocabularySize,
		Duration:       s.Duration,
		Loaded:         s.Loaded,
		LoadStatus:     string(s.LoadStatus),
	}
}
