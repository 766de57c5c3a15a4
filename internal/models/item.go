package models

// Kind is one of the listing categories scraped per employer.
type Kind string

const (
	KindJobs     Kind = "jobs"
	KindReviews  Kind = "reviews"
	KindSalaries Kind = "salaries"
)

// Kinds lists every listing kind in scrape order.
var Kinds = []Kind{KindJobs, KindReviews, KindSalaries}

// Item is the normalized view of a scraped record used for tabular output
// and seen tracking. Fields a kind does not carry stay empty.
type Item struct {
	Kind     Kind    `json:"kind"`
	ID       string  `json:"id,omitempty"`
	Title    string  `json:"title"`
	Role     string  `json:"role,omitempty"`
	Employer string  `json:"employer,omitempty"`
	Location string  `json:"location,omitempty"`
	URL      string  `json:"url,omitempty"`
	Pay      string  `json:"pay,omitempty"`
	Rating   float64 `json:"rating,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	Posted   string  `json:"posted,omitempty"`
	Count    int     `json:"count,omitempty"`
}
