package pagination

const (
	// DefaultPerPage is the page size when the caller does not send one.
	DefaultPerPage = 20
	// MaxPerPage caps how many rows one page can request.
	MaxPerPage = 100
)

// Page is a 1-based page request.
type Page struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// Normalize clamps the request to sane bounds.
func Normalize(page, perPage int) Page {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Page{Page: page, PerPage: perPage}
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Limit is the page size.
func (p Page) Limit() int {
	return p.PerPage
}
