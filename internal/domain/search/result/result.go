package result

import "github.com/kailas-cloud/jobrank/internal/domain/job"

// Result is a single ranked job.
type Result struct {
	row    int
	record job.Record
	score  float64
}

// New creates a search result.
func New(row int, record job.Record, score float64) Result {
	return Result{row: row, record: record, score: score}
}

// Row returns the corpus position of the job.
func (r *Result) Row() int { return r.row }

// Record returns the job record.
func (r *Result) Record() job.Record { return r.record }

// Score returns the cosine similarity in [0,1].
func (r *Result) Score() float64 { return r.score }
