package domain

import "github.com/google/uuid"

// SortField enumerates the columns a listing may be ordered by. The set is
// closed: only values accepted by the options validator ever reach query
// construction.
type SortField string

const (
	SortUnspecified SortField = ""
	SortByTitle     SortField = "title"
	SortByYear      SortField = "yearofrelease"
)

// SortOrder selects the listing direction.
type SortOrder int

const (
	SortAscending SortOrder = iota
	SortDescending
)

// GetAllMoviesOptions describes one listing query: optional filters, an
// optional sort, the caller identity used to compute per-row user ratings,
// and pagination bounds.
type GetAllMoviesOptions struct {
	Title     *string
	Year      *int       `validate:"omitempty,notfuture"`
	SortField SortField  `validate:"omitempty,oneof=title yearofrelease"`
	SortOrder SortOrder
	UserID    *uuid.UUID
	Page      int `validate:"gte=1"`
	PageSize  int `validate:"gte=1,lte=25"`
}

// Offset converts the 1-based page number into a row offset.
func (o GetAllMoviesOptions) Offset() int {
	return (o.Page - 1) * o.PageSize
}
