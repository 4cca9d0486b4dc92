package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var slugStrip = regexp.MustCompile(`[^0-9A-Za-z _-]`)

// Movie represents the canonical catalog entity. Rating is the average of
// all users' scores rounded to one decimal place; UserRating is the calling
// user's own score. Both are nil when absent.
type Movie struct {
	ID            uuid.UUID `validate:"required"`
	Title         string    `validate:"required"`
	YearOfRelease int       `validate:"required,notfuture"`
	Genres        []string  `validate:"required,min=1,dive,required"`
	Rating        *float64
	UserRating    *int
}

// Slug returns the movie's URL-safe unique key. It is derived from title and
// year on every call, never stored as an independently editable field, so any
// title or year change changes the slug.
func (m Movie) Slug() string {
	return Slugify(m.Title, m.YearOfRelease)
}

// Slugify strips everything outside [0-9A-Za-z _-] from the title,
// lower-cases it, replaces spaces with hyphens and appends the release year.
// The result doubles as the uniqueness key at write time, so it must be
// deterministic.
func Slugify(title string, year int) string {
	slugged := strings.ToLower(slugStrip.ReplaceAllString(title, ""))
	return strings.ReplaceAll(slugged, " ", "-") + "-" + strconv.Itoa(year)
}
