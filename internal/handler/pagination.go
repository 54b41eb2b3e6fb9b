package handler

import (
	"fmt"
	"strconv"
)

// ArticlesPerPage is the number of articles shown per page on the home page.
const ArticlesPerPage = 5

// Pagination holds pagination data for templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int

	// BasePath is the path page links point at; empty means the homepage.
	BasePath string
}

// ParsePage interprets a raw "page" query parameter.
// Anything that is not a positive integer means page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// BuildPagination computes page counts and clamps the requested page.
// A page past the end yields the last page rather than an empty listing.
func BuildPagination(page int, totalItems int64, perPage int) Pagination {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
		PrevPage:    page - 1,
		NextPage:    page + 1,
	}
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int64 {
	return int64(p.CurrentPage-1) * int64(p.PerPage)
}

// WithBase returns a copy whose page links point at the given path.
func (p Pagination) WithBase(path string) Pagination {
	p.BasePath = path
	return p
}

// PageURL returns the URL for a specific page number.
func (p Pagination) PageURL(page int) string {
	base := p.BasePath
	if base == "" {
		base = "/"
	}
	return fmt.Sprintf("%s?page=%d", base, page)
}

// PrevURL returns the URL for the previous page.
func (p Pagination) PrevURL() string {
	return p.PageURL(p.PrevPage)
}

// NextURL returns the URL for the next page.
func (p Pagination) NextURL() string {
	return p.PageURL(p.NextPage)
}

// ShouldShow returns true if pagination should be displayed (more than 1 page).
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}
