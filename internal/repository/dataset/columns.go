package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/jobrank/internal/domain/job"
)

// Source column names.
const (
	ColTitle          = "job"
	ColCompany        = "company_name"
	ColLocation       = "location"
	ColWorkType       = "work_type"
	ColApplications   = "no_of_application"
	ColFollowers      = "linkedin_followers"
	ColPostedHoursAgo = "posted_hours_ago"
	ColDescription    = "job_details"
)

// columns holds the position of each known column; -1 when absent.
type columns struct {
	title          int
	company        int
	location       int
	workType       int
	applications   int
	followers      int
	postedHoursAgo int
	description    int
}

// resolveColumns maps header names to positions and reports missing ones.
func resolveColumns(header []string) (columns, []string) {
	cols := columns{
		title: -1, company: -1, location: -1, workType: -1,
		applications: -1, followers: -1, postedHoursAgo: -1, description: -1,
	}
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case ColTitle:
			cols.title = i
		case ColCompany:
			cols.company = i
		case ColLocation:
			cols.location = i
		case ColWorkType:
			cols.workType = i
		case ColApplications:
			cols.applications = i
		case ColFollowers:
			cols.followers = i
		case ColPostedHoursAgo:
			cols.postedHoursAgo = i
		case ColDescription:
			cols.description = i
		}
	}

	var missing []string
	check := func(idx int, name string) {
		if idx < 0 {
			missing = append(missing, name)
		}
	}
	check(cols.title, ColTitle)
	check(cols.company, ColCompany)
	check(cols.location, ColLocation)
	check(cols.workType, ColWorkType)
	check(cols.applications, ColApplications)
	check(cols.followers, ColFollowers)
	check(cols.postedHoursAgo, ColPostedHoursAgo)
	check(cols.description, ColDescription)
	return cols, missing
}

// parseFloat coerces numeric text; anything unparseable is null.
// Thousands separators are not accepted: "1,234" is null.
func parseFloat(s string) job.NullFloat {
	s = strings.TrimSpace(s)
	if s == "" {
		return job.NullFloat{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return job.NullFloat{}
	}
	return job.Float(f)
}

// parseInt accepts integer or float text ("12.0"), truncating toward zero.
// Values outside the int64 range are null. float64(math.MaxInt64) rounds up
// to 2^63, which is already out of range.
func parseInt(s string) job.NullInt {
	f := parseFloat(s)
	if !f.Valid || f.Value >= math.MaxInt64 || f.Value < math.MinInt64 {
		return job.NullInt{}
	}
	return job.Int(int64(f.Value))
}
