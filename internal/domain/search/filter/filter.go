package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/jobrank/internal/domain/job"
	"github.com/kailas-cloud/jobrank/internal/domain/search/result"
)

// MaxValueLength is the maximum length of a single filter value.
const MaxValueLength = 256

// Any is the filter value that disables a condition.
const Any = "all"

// Field names a filterable job attribute.
type Field string

const (
	// Location filters on the job location.
	Location Field = "location"
	// WorkType filters on the work arrangement.
	WorkType Field = "work_type"
)

// Condition is a case-insensitive substring match on one field.
type Condition struct {
	field  Field
	needle string
}

// NewCondition creates a substring condition.
// Returns ok=false when value disables the filter ("" or "all").
func NewCondition(field Field, value string) (c Condition, ok bool, err error) {
	switch field {
	case Location, WorkType:
	default:
		return Condition{}, false, fmt.Errorf("unknown filter field %q", field)
	}
	if len(value) > MaxValueLength {
		return Condition{}, false, fmt.Errorf("%s filter too long (max %d chars)", field, MaxValueLength)
	}
	if value == "" || strings.EqualFold(value, Any) {
		return Condition{}, false, nil
	}
	return Condition{field: field, needle: strings.ToLower(value)}, true, nil
}

// Field returns the filtered field.
func (c Condition) Field() Field { return c.field }

// Value returns the lowercased substring to match.
func (c Condition) Value() string { return c.needle }

// Matches reports whether the record satisfies the condition.
func (c Condition) Matches(r *job.Record) bool {
	var v string
	switch c.field {
	case Location:
		v = r.Location()
	case WorkType:
		v = r.WorkType()
	}
	return strings.Contains(strings.ToLower(v), c.needle)
}

// Expression is an ordered conjunction of conditions: location first, then work type.
type Expression struct {
	conditions []Condition
}

// NewExpression builds the location/work-type filter.
// Either value may be "" or "all" to leave that field unfiltered.
func NewExpression(location, workType string) (Expression, error) {
	var e Expression
	for _, p := range []struct {
		field Field
		value string
	}{
		{Location, location},
		{WorkType, workType},
	} {
		c, ok, err := NewCondition(p.field, p.value)
		if err != nil {
			return Expression{}, err
		}
		if ok {
			e.conditions = append(e.conditions, c)
		}
	}
	return e, nil
}

// Conditions returns the active conditions in evaluation order.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Matches reports whether the record satisfies every condition.
func (e Expression) Matches(r *job.Record) bool {
	for _, c := range e.conditions {
		if !c.Matches(r) {
			return false
		}
	}
	return true
}

// Apply returns the results that satisfy the expression, preserving order.
// The input slice is not modified.
func (e Expression) Apply(results []result.Result) []result.Result {
	if e.IsEmpty() {
		return results
	}
	out := make([]result.Result, 0, len(results))
	for _, r := range results {
		rec := r.Record()
		if e.Matches(&rec) {
			out = append(out, r)
		}
	}
	return out
}
