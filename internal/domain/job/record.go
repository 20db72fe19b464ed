package job

// NullInt is an integer field that may be absent in the source data.
type NullInt struct {
	Value int64
	Valid bool
}

// Int returns a present NullInt.
func Int(v int64) NullInt { return NullInt{Value: v, Valid: true} }

// NullFloat is a float field that may be absent in the source data.
type NullFloat struct {
	Value float64
	Valid bool
}

// Float returns a present NullFloat.
func Float(v float64) NullFloat { return NullFloat{Value: v, Valid: true} }

// Fields is the mutable input used to build a Record.
type Fields struct {
	Title          string
	Company        string
	Location       string
	WorkType       string
	Applications   NullInt
	Followers      NullInt
	PostedHoursAgo NullFloat
	Description    string
}

// Record is a single job posting (immutable value object).
// Identity is the row position in the corpus it was loaded into.
type Record struct {
	title          string
	company        string
	location       string
	workType       string
	applications   NullInt
	followers      NullInt
	postedHoursAgo NullFloat
	description    string
}

// New creates a Record from its fields.
func New(f Fields) Record {
	return Record{
		title:          f.Title,
		company:        f.Company,
		location:       f.Location,
		workType:       f.WorkType,
		applications:   f.Applications,
		followers:      f.Followers,
		postedHoursAgo: f.PostedHoursAgo,
		description:    f.Description,
	}
}

// Title returns the job title.
func (r *Record) Title() string { return r.title }

// Company returns the hiring company name.
func (r *Record) Company() string { return r.company }

// Location returns the free-form location string.
func (r *Record) Location() string { return r.location }

// WorkType returns the work arrangement (Remote, On-site, Hybrid, ...).
func (r *Record) WorkType() string { return r.workType }

// Applications returns the number of applications, if known.
func (r *Record) Applications() NullInt { return r.applications }

// Followers returns the company follower count, if known.
func (r *Record) Followers() NullInt { return r.followers }

// PostedHoursAgo returns the posting age in hours, if known.
func (r *Record) PostedHoursAgo() NullFloat { return r.postedHoursAgo }

// Description returns the full job description.
func (r *Record) Description() string { return r.description }

// Fields returns a copy of the record's fields.
func (r *Record) Fields() Fields {
	return Fields{
		Title:          r.title,
		Company:        r.company,
		Location:       r.location,
		WorkType:       r.workType,
		Applications:   r.applications,
		Followers:      r.followers,
		PostedHoursAgo: r.postedHoursAgo,
		Description:    r.description,
	}
}

// Text assembles the indexed document: the title, a space, then at most
// descriptionChars runes of the description.
func (r *Record) Text(descriptionChars int) string {
	desc := r.description
	if descriptionChars >= 0 {
		n := 0
		for i := range desc {
			if n == descriptionChars {
				desc = desc[:i]
				break
			}
			n++
		}
	}
	return r.title + " " + desc
}
