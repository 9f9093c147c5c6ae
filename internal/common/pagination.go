package common

import (
	"net/http"
	"strconv"
)

// Pagination is the list-response metadata block.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination reads page and page-size query parameters. Both "limit"
// and "per_page" are accepted for the size; invalid values fall back to the
// defaults.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	page = positiveQueryInt(r, "page", 1)
	perPage = positiveQueryInt(r, "limit", 0)
	if perPage == 0 {
		perPage = positiveQueryInt(r, "per_page", defaultPerPage)
	}
	return page, perPage
}

func positiveQueryInt(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
