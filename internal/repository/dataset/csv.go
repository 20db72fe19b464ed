package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/domain/job"
)

type csvSource struct {
	path   string
	logger *zap.Logger
}

func (s *csvSource) Path() string { return s.path }

// Records streams the CSV file row by row and stops at limit.
func (s *csvSource) Records(ctx context.Context, limit int) ([]job.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []job.Record{}, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols, missing := resolveColumns(header)
	warnMissing(s.logger, missing)

	var out []job.Record
	for limit <= 0 || len(out) < limit {
		if len(out)%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("read csv: %w", err)
			}
		}
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read csv row %d: %w", len(out)+1, err)
		}
		out = append(out, csvRecord(row, cols))
	}
	if out == nil {
		out = []job.Record{}
	}
	return out, nil
}

func csvRecord(row []string, cols columns) job.Record {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	return job.New(job.Fields{
		Title:          cell(cols.title),
		Company:        cell(cols.company),
		Location:       cell(cols.location),
		WorkType:       cell(cols.workType),
		Applications:   parseInt(cell(cols.applications)),
		Followers:      parseInt(cell(cols.followers)),
		PostedHoursAgo: parseFloat(cell(cols.postedHoursAgo)),
		Description:    cell(cols.description),
	})
}
