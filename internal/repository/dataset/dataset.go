package dataset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobrank/internal/domain"
	"github.com/kailas-cloud/jobrank/internal/domain/job"
)

// Source reads job records from a tabular file.
type Source interface {
	// Records returns the first limit rows in file order (limit <= 0 = all).
	Records(ctx context.Context, limit int) ([]job.Record, error)
	// Path returns the file the source reads from.
	Path() string
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used to report missing columns.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Open returns a Source for path, picking the reader by file extension.
// A missing file is reported as domain.ErrDatasetNotFound.
func Open(path string, opts ...Option) (Source, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	clean := filepath.Clean(path)
	st, err := os.Stat(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, clean)
		}
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	if st.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrDatasetNotFound, clean)
	}

	logger := o.logger.With(zap.String("dataset", clean))
	switch ext := strings.ToLower(filepath.Ext(clean)); ext {
	case ".csv":
		return &csvSource{path: clean, logger: logger}, nil
	case ".parquet":
		return &parquetSource{path: clean, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", ext)
	}
}

func warnMissing(logger *zap.Logger, missing []string) {
	if len(missing) > 0 {
		logger.Warn("dataset columns missing, fields will be empty",
			zap.Strings("columns", missing))
	}
}
