package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/jobrank/internal/domain"
	"github.com/kailas-cloud/jobrank/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopN    = 10
	MaxTopN        = 500
)

// Request is a validated search query.
type Request struct {
	query   string
	topN    int
	filters filter.Expression
}

// New validates and normalizes search parameters.
// A zero topN defaults to DefaultTopN. A negative topN or one above MaxTopN
// is an ArgumentError.
func New(query string, topN int, filters filter.Expression) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if topN < 0 || topN > MaxTopN {
		return Request{}, domain.NewArgumentError("limit", fmt.Sprintf("must be between 1 and %d", MaxTopN))
	}
	if topN == 0 {
		topN = DefaultTopN
	}
	return Request{query: query, topN: topN, filters: filters}, nil
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// TopN returns the maximum number of results.
func (r *Request) TopN() int { return r.topN }

// Filters returns the post-ranking filter expression.
func (r *Request) Filters() filter.Expression { return r.filters }
