// Package validation holds the pure-ish predicate sets over movies and
// listing options. Validators run before any write; failures surface as
// *domain.ValidationError values with field-level messages, never as panics.
package validation

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/flicklog/movies-api/internal/domain"
	"github.com/flicklog/movies-api/internal/repository"
)

// SlugLookup resolves a slug to the movie currently holding it. Satisfied by
// *repository.MovieRepository.
type SlugLookup interface {
	GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*domain.Movie, error)
}

func newValidate() *validator.Validate {
	v := validator.New()
	// Year fields must not be later than the current (UTC) year.
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		return int(fl.Field().Int()) <= time.Now().UTC().Year()
	})
	return v
}

// MovieValidator checks a Movie before create and update.
type MovieValidator struct {
	validate *validator.Validate
	slugs    SlugLookup
}

func NewMovieValidator(slugs SlugLookup) *MovieValidator {
	return &MovieValidator{validate: newValidate(), slugs: slugs}
}

// Validate returns nil or a *domain.ValidationError. The slug check queries
// the repository: the derived slug may already be held, but only by the same
// movie id (the update case).
func (mv *MovieValidator) Validate(ctx context.Context, movie domain.Movie) error {
	failures := structFailures(mv.validate.Struct(movie), movieMessages)

	existing, err := mv.slugs.GetBySlug(ctx, movie.Slug(), nil)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if existing != nil && existing.ID != movie.ID {
		failures = append(failures, domain.FieldError{
			Field:   "Slug",
			Message: "slug is already in use by another movie",
		})
	}

	if len(failures) > 0 {
		return &domain.ValidationError{Failures: failures}
	}
	return nil
}

func movieMessages(fe validator.FieldError) string {
	switch fe.Field() {
	case "ID":
		return "id must be set"
	case "Title":
		return "title must not be empty"
	case "YearOfRelease":
		if fe.Tag() == "notfuture" {
			return "year of release cannot be in the future"
		}
		return "year of release must be set"
	case "Genres":
		return "at least one genre is required"
	default:
		return "invalid value"
	}
}

// structFailures flattens validator.ValidationErrors into field errors using
// the supplied message function.
func structFailures(err error, message func(validator.FieldError) string) []domain.FieldError {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []domain.FieldError{{Field: "", Message: err.Error()}}
	}
	failures := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		failures = append(failures, domain.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return failures
}
