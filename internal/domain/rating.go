package domain

import "github.com/google/uuid"

// MovieRating is a single entry of a user's rating history.
type MovieRating struct {
	MovieID uuid.UUID
	Slug    string
	Rating  int
}
