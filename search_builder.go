package jobrank

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/jobrank/internal/domain/search/filter"
	"github.com/kailas-cloud/jobrank/internal/domain/search/request"
)

// SearchBuilder is a fluent builder for job queries.
type SearchBuilder struct {
	client   *Client
	query    string
	limit    int
	location string
	workType string
}

// Limit sets the maximum number of results (default 10). Do returns
// ErrInvalidArgument for a negative limit or one above 500.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Location keeps jobs whose location contains s, case-insensitively.
// "" or "all" disables the filter.
func (b *SearchBuilder) Location(s string) *SearchBuilder {
	b.location = s
	return b
}

// WorkType keeps jobs whose work type contains s, case-insensitively.
// "" or "all" disables the filter.
func (b *SearchBuilder) WorkType(s string) *SearchBuilder {
	b.workType = s
	return b
}

// Do runs the query. Filters apply only to the best limit*multiplier
// candidates (3 by default), so a selective filter can return fewer than
// limit hits.
func (b *SearchBuilder) Do(ctx context.Context) ([]Hit, error) {
	filters, err := filter.NewExpression(b.location, b.workType)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	req, err := request.New(b.query, b.limit, filters)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results, err := b.client.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits := make([]Hit, len(results))
	for i := range results {
		hits[i] = hitFromResult(&results[i])
	}
	return hits, nil
}
