package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/flicklog/movies-api/internal/domain"
)

// RatingService handles per-user movie ratings.
type RatingService struct {
	ratings RatingStore
	movies  MovieStore
}

func NewRatingService(ratings RatingStore, movies MovieStore) *RatingService {
	return &RatingService{ratings: ratings, movies: movies}
}

// Rate rejects scores outside [1,5] as invalid input, then gates on movie
// existence: a missing movie reports false rather than an error.
func (s *RatingService) Rate(ctx context.Context, movieID, userID uuid.UUID, rating int) (bool, error) {
	if rating < 1 || rating > 5 {
		return false, &domain.ValidationError{Failures: []domain.FieldError{
			{Field: "Rating", Message: "rating must be between 1 and 5"},
		}}
	}

	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil || !exists {
		return false, err
	}
	return s.ratings.Rate(ctx, movieID, rating, userID)
}

// DeleteRating applies the same existence gate, then delegates.
func (s *RatingService) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	exists, err := s.movies.ExistsByID(ctx, movieID)
	if err != nil || !exists {
		return false, err
	}
	return s.ratings.DeleteRating(ctx, movieID, userID)
}

// GetRatingsForUser returns the user's full rating history.
func (s *RatingService) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]domain.MovieRating, error) {
	return s.ratings.GetRatingsForUser(ctx, userID)
}
