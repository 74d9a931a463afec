package core

import "strings"

// Filter is the composable matching rule a listing query compiles down to.
// Zero-valued fields impose no constraint; populated fields combine with
// logical AND. Both store backends evaluate the same Filter, the file store
// directly via Matches and the mongo store by translating it to a query
// document with identical semantics.
type Filter struct {
	Type      Type
	Category  Category
	StartDate Date // inclusive lower bound
	EndDate   Date // inclusive upper bound
	Search    string
	OwnerID   string
}

// NewFilter normalizes raw query values into a Filter. An unrecognized type
// value is dropped rather than rejected, matching the lenient behavior of the
// listing endpoint. Category is taken verbatim: an unknown category simply
// matches nothing.
func NewFilter(typ, category string, start, end Date, search, ownerID string) Filter {
	f := Filter{
		Category:  Category(strings.TrimSpace(category)),
		StartDate: start,
		EndDate:   end,
		Search:    strings.TrimSpace(search),
		OwnerID:   strings.TrimSpace(ownerID),
	}
	if t := Type(strings.TrimSpace(typ)); t.Valid() {
		f.Type = t
	}
	return f
}

// Matches reports whether the transaction satisfies every constraint.
func (f Filter) Matches(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if !f.StartDate.IsZero() && t.Date.Before(f.StartDate.Time) {
		return false
	}
	if !f.EndDate.IsZero() && t.Date.After(f.EndDate.Time) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
		return false
	}
	if f.OwnerID != "" && t.OwnerID != f.OwnerID {
		return false
	}
	return true
}
