package core

// DefaultPageLimit is the page size used when a request does not supply one.
const DefaultPageLimit = 10

type (
	// Page holds 1-based pagination parameters.
	Page struct {
		Number int
		Limit  int
	}

	// PageInfo is the pagination metadata returned alongside a page of
	// results.
	PageInfo struct {
		Page  int `json:"page"`
		Limit int `json:"limit"`
		Total int `json:"total"`
		Pages int `json:"pages"`
	}
)

// NewPage clamps both parameters to at least 1.
func NewPage(number, limit int) Page {
	if number < 1 {
		number = 1
	}
	if limit < 1 {
		limit = 1
	}
	return Page{Number: number, Limit: limit}
}

// DefaultPage is the first page with the default limit.
func DefaultPage() Page {
	return Page{Number: 1, Limit: DefaultPageLimit}
}

// Offset returns the index of the first record on this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Limit
}

// Slice returns this page's window of the ordered result set. A page past
// the end yields an empty slice, never an error.
func (p Page) Slice(items []Transaction) []Transaction {
	start := p.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// NewPageInfo computes metadata for a page over total matching records.
// Pages is ceil(total/limit), zero when there are no records.
func NewPageInfo(p Page, total int) PageInfo {
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return PageInfo{Page: p.Number, Limit: p.Limit, Total: total, Pages: pages}
}
