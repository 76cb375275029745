package store

import "strings"

// AllCategories is the client-side sentinel for "no category filter". It is
// accepted here so clients that forward it verbatim still match everything.
const AllCategories = "all"

// ServiceQuery defines optional filters for service listing queries.
type ServiceQuery struct {
	Category string
	Search   string
}

// Normalize trims the filters and clears the sentinel category.
func (q *ServiceQuery) Normalize() {
	q.Category = strings.TrimSpace(q.Category)
	if strings.EqualFold(q.Category, AllCategories) {
		q.Category = ""
	}
	q.Search = strings.TrimSpace(q.Search)
}

// Matches reports whether s passes the filters. Category matches exactly,
// ignoring case; Search is a case-insensitive substring of the title or
// description.
func (q *ServiceQuery) Matches(s *Service) bool {
	if q == nil {
		return true
	}
	if q.Category != "" && !strings.EqualFold(q.Category, s.Category) {
		return false
	}
	if q.Search == "" {
		return true
	}
	term := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(s.Title), term) ||
		strings.Contains(strings.ToLower(s.Description), term)
}
