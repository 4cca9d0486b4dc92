// Package service orchestrates validation and repository calls. Services are
// stateless and safe to share across concurrent requests; all mutable state
// lives in the store.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/flicklog/movies-api/internal/domain"
	"github.com/flicklog/movies-api/internal/validation"
)

// MovieStore is the slice of the movie repository the services depend on.
type MovieStore interface {
	Create(ctx context.Context, movie domain.Movie) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*domain.Movie, error)
	GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*domain.Movie, error)
	GetAll(ctx context.Context, options domain.GetAllMoviesOptions) ([]domain.Movie, error)
	GetCount(ctx context.Context, title *string, year *int) (int, error)
	DeleteByID(ctx context.Context, id uuid.UUID) (bool, error)
	Update(ctx context.Context, movie domain.Movie) (bool, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// RatingStore is the slice of the rating repository the services depend on.
type RatingStore interface {
	Rate(ctx context.Context, movieID uuid.UUID, rating int, userID uuid.UUID) (bool, error)
	DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error)
	GetRating(ctx context.Context, movieID uuid.UUID) (*float64, error)
	GetUserRating(ctx context.Context, movieID, userID uuid.UUID) (*float64, *int, error)
	GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]domain.MovieRating, error)
}

// MovieService handles movie CRUD and listing.
type MovieService struct {
	movies           MovieStore
	ratings          RatingStore
	movieValidator   *validation.MovieValidator
	optionsValidator *validation.OptionsValidator
}

func NewMovieService(movies MovieStore, ratings RatingStore, mv *validation.MovieValidator, ov *validation.OptionsValidator) *MovieService {
	return &MovieService{
		movies:           movies,
		ratings:          ratings,
		movieValidator:   mv,
		optionsValidator: ov,
	}
}

// Create validates the movie and delegates to the repository. A validation
// failure returns a *domain.ValidationError before any write.
func (s *MovieService) Create(ctx context.Context, movie domain.Movie) (bool, error) {
	if err := s.movieValidator.Validate(ctx, movie); err != nil {
		return false, err
	}
	return s.movies.Create(ctx, movie)
}

// GetByID resolves the caller identity into the aggregate-rating computation.
func (s *MovieService) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*domain.Movie, error) {
	return s.movies.GetByID(ctx, id, userID)
}

// GetBySlug is the slug-keyed variant of GetByID.
func (s *MovieService) GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*domain.Movie, error) {
	return s.movies.GetBySlug(ctx, slug, userID)
}

// GetAll validates the listing options before any query executes.
func (s *MovieService) GetAll(ctx context.Context, options domain.GetAllMoviesOptions) ([]domain.Movie, error) {
	if err := s.optionsValidator.Validate(options); err != nil {
		return nil, err
	}
	return s.movies.GetAll(ctx, options)
}

// GetCount returns the total number of movies matching the listing filters.
func (s *MovieService) GetCount(ctx context.Context, title *string, year *int) (int, error) {
	return s.movies.GetCount(ctx, title, year)
}

// Update validates, gates on existence (nil result means not found), updates,
// then re-fetches rating aggregates. The update statement never touches the
// ratings table, so skipping the refresh would hand the caller stale values.
func (s *MovieService) Update(ctx context.Context, movie domain.Movie, userID *uuid.UUID) (*domain.Movie, error) {
	if err := s.movieValidator.Validate(ctx, movie); err != nil {
		return nil, err
	}

	exists, err := s.movies.ExistsByID(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	if _, err := s.movies.Update(ctx, movie); err != nil {
		return nil, err
	}

	if userID == nil {
		rating, err := s.ratings.GetRating(ctx, movie.ID)
		if err != nil {
			return nil, err
		}
		movie.Rating = rating
		movie.UserRating = nil
		return &movie, nil
	}

	rating, userRating, err := s.ratings.GetUserRating(ctx, movie.ID, *userID)
	if err != nil {
		return nil, err
	}
	movie.Rating = rating
	movie.UserRating = userRating
	return &movie, nil
}

// DeleteByID reports true only if a movie row was actually removed.
func (s *MovieService) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.movies.DeleteByID(ctx, id)
}
