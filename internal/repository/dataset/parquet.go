package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/domain/job"
)

const parquetBatch = 1000

type parquetSource struct {
	path   string
	logger *zap.Logger
}

func (s *parquetSource) Path() string { return s.path }

// Records reads row groups with the generic row reader and stops at limit.
func (s *parquetSource) Records(ctx context.Context, limit int) ([]job.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet: %w", err)
	}
	pf, err := parquet.OpenFile(f, st.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	header := make([]string, 0, len(pf.Schema().Columns()))
	for _, path := range pf.Schema().Columns() {
		name := ""
		if len(path) > 0 {
			name = path[0]
		}
		header = append(header, name)
	}
	cols, missing := resolveColumns(header)
	warnMissing(s.logger, missing)

	out := []job.Record{}
	buf := make([]parquet.Row, parquetBatch)
	for _, rg := range pf.RowGroups() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("read parquet: %w", err)
		}
		done, err := readRowGroup(rg, cols, buf, limit, &out)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
	}
	return out, nil
}

func readRowGroup(rg parquet.RowGroup, cols columns, buf []parquet.Row, limit int, out *[]job.Record) (bool, error) {
	rows := parquet.NewRowGroupReader(rg)
	for {
		n, readErr := rows.ReadRows(buf)
		for i := 0; i < n; i++ {
			*out = append(*out, parquetRecord(buf[i], cols))
			if limit > 0 && len(*out) >= limit {
				return true, nil
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return false, nil
			}
			return false, fmt.Errorf("read parquet rows: %w", readErr)
		}
	}
}

func parquetRecord(row parquet.Row, cols columns) job.Record {
	var f job.Fields
	for _, v := range row {
		if v.IsNull() {
			continue
		}
		switch v.Column() {
		case cols.title:
			f.Title = v.String()
		case cols.company:
			f.Company = v.String()
		case cols.location:
			f.Location = v.String()
		case cols.workType:
			f.WorkType = v.String()
		case cols.applications:
			f.Applications = valueInt(v)
		case cols.followers:
			f.Followers = valueInt(v)
		case cols.postedHoursAgo:
			f.PostedHoursAgo = valueFloat(v)
		case cols.description:
			f.Description = v.String()
		}
	}
	return job.New(f)
}

// valueFloat reads numeric physical types directly and parses byte arrays as text.
func valueFloat(v parquet.Value) job.NullFloat {
	switch v.Kind() {
	case parquet.Int32:
		return job.Float(float64(v.Int32()))
	case parquet.Int64:
		return job.Float(float64(v.Int64()))
	case parquet.Float:
		return parseFloat(fmt.Sprint(v.Float()))
	case parquet.Double:
		return parseFloat(fmt.Sprint(v.Double()))
	case parquet.ByteArray:
		return parseFloat(string(v.ByteArray()))
	default:
		return job.NullFloat{}
	}
}

func valueInt(v parquet.Value) job.NullInt {
	switch v.Kind() {
	case parquet.Int32:
		return job.Int(int64(v.Int32()))
	case parquet.Int64:
		return job.Int(v.Int64())
	default:
		f := valueFloat(v)
		if !f.Valid {
			return job.NullInt{}
		}
		return parseInt(fmt.Sprint(f.Value))
	}
}
