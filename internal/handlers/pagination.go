package handlers

import (
	"errors"
	"net/url"
	"strconv"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var (
	errInvalidPage  = errors.New("Invalid page number.")
	errInvalidLimit = errors.New("Invalid limit. Must be between 1 and 100.")
)

// Pagination carries normalized page and limit values for list endpoints.
type Pagination struct {
	Page  int
	Limit int
}

// Skip returns the number of records preceding the requested page.
func (p Pagination) Skip() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page and limit from the query string, applying
// defaults when either is absent. Page must be at least 1 and limit must
// stay within [1, 100].
func ParsePagination(query url.Values) (Pagination, error) {
	p := Pagination{Page: defaultPage, Limit: defaultLimit}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Pagination{}, errInvalidPage
		}
		p.Page = page
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return Pagination{}, errInvalidLimit
		}
		p.Limit = limit
	}

	return p, nil
}
