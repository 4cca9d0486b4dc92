package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/flicklog/movies-api/internal/domain"
	"github.com/flicklog/movies-api/internal/repository"
	"github.com/flicklog/movies-api/internal/validation"
)

// fakeMovieStore is an in-memory MovieStore keyed by id.
type fakeMovieStore struct {
	movies      map[uuid.UUID]domain.Movie
	getAllCalls int
	createCalls int
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: make(map[uuid.UUID]domain.Movie)}
}

func (f *fakeMovieStore) Create(_ context.Context, movie domain.Movie) (bool, error) {
	f.createCalls++
	f.movies[movie.ID] = movie
	return true, nil
}

func (f *fakeMovieStore) GetByID(_ context.Context, id uuid.UUID, _ *uuid.UUID) (*domain.Movie, error) {
	if movie, ok := f.movies[id]; ok {
		return &movie, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMovieStore) GetBySlug(_ context.Context, slug string, _ *uuid.UUID) (*domain.Movie, error) {
	for _, movie := range f.movies {
		if movie.Slug() == slug {
			return &movie, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeMovieStore) GetAll(_ context.Context, _ domain.GetAllMoviesOptions) ([]domain.Movie, error) {
	f.getAllCalls++
	all := make([]domain.Movie, 0, len(f.movies))
	for _, movie := range f.movies {
		all = append(all, movie)
	}
	return all, nil
}

func (f *fakeMovieStore) GetCount(_ context.Context, _ *string, _ *int) (int, error) {
	return len(f.movies), nil
}

func (f *fakeMovieStore) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.movies[id]; !ok {
		return false, nil
	}
	delete(f.movies, id)
	return true, nil
}

func (f *fakeMovieStore) Update(_ context.Context, movie domain.Movie) (bool, error) {
	if _, ok := f.movies[movie.ID]; !ok {
		return false, nil
	}
	f.movies[movie.ID] = movie
	return true, nil
}

func (f *fakeMovieStore) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.movies[id]
	return ok, nil
}

// fakeRatingStore serves canned aggregates.
type fakeRatingStore struct {
	avg       *float64
	user      *int
	rated     map[uuid.UUID]int
	rateCalls int
}

func newFakeRatingStore() *fakeRatingStore {
	return &fakeRatingStore{rated: make(map[uuid.UUID]int)}
}

func (f *fakeRatingStore) Rate(_ context.Context, movieID uuid.UUID, rating int, _ uuid.UUID) (bool, error) {
	f.rateCalls++
	f.rated[movieID] = rating
	return true, nil
}

func (f *fakeRatingStore) DeleteRating(_ context.Context, movieID, _ uuid.UUID) (bool, error) {
	if _, ok := f.rated[movieID]; !ok {
		return false, nil
	}
	delete(f.rated, movieID)
	return true, nil
}

func (f *fakeRatingStore) GetRating(_ context.Context, _ uuid.UUID) (*float64, error) {
	return f.avg, nil
}

func (f *fakeRatingStore) GetUserRating(_ context.Context, _, _ uuid.UUID) (*float64, *int, error) {
	return f.avg, f.user, nil
}

func (f *fakeRatingStore) GetRatingsForUser(_ context.Context, _ uuid.UUID) ([]domain.MovieRating, error) {
	return nil, nil
}

func newMovieService(movies *fakeMovieStore, ratings *fakeRatingStore) *MovieService {
	return NewMovieService(movies, ratings,
		validation.NewMovieValidator(movies),
		validation.NewOptionsValidator())
}

func validMovie() domain.Movie {
	return domain.Movie{
		ID:            uuid.New(),
		Title:         "Street Fighter",
		YearOfRelease: 1992,
		Genres:        []string{"Action", "Adventure"},
	}
}

func TestMovieServiceCreate_InvalidInputNeverWrites(t *testing.T) {
	movies := newFakeMovieStore()
	svc := newMovieService(movies, newFakeRatingStore())

	movie := validMovie()
	movie.Title = ""

	_, err := svc.Create(context.Background(), movie)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create() error = %v, want *domain.ValidationError", err)
	}
	if movies.createCalls != 0 {
		t.Fatalf("repository Create called %d times for invalid input", movies.createCalls)
	}
}

func TestMovieServiceCreate_DuplicateSlugOtherMovie(t *testing.T) {
	movies := newFakeMovieStore()
	svc := newMovieService(movies, newFakeRatingStore())

	first := validMovie()
	if _, err := svc.Create(context.Background(), first); err != nil {
		t.Fatalf("first create: %v", err)
	}

	second := validMovie() // same title/year, different id
	_, err := svc.Create(context.Background(), second)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create() error = %v, want slug validation error", err)
	}
}

func TestMovieServiceUpdate_NotFound(t *testing.T) {
	svc := newMovieService(newFakeMovieStore(), newFakeRatingStore())

	got, err := svc.Update(context.Background(), validMovie(), nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Update() = %+v, want nil for missing movie", got)
	}
}

func TestMovieServiceUpdate_RefreshesAggregates(t *testing.T) {
	movies := newFakeMovieStore()
	ratings := newFakeRatingStore()
	svc := newMovieService(movies, ratings)

	movie := validMovie()
	if _, err := svc.Create(context.Background(), movie); err != nil {
		t.Fatalf("create: %v", err)
	}

	avg := 3.0
	userScore := 4
	ratings.avg = &avg
	ratings.user = &userScore

	userID := uuid.New()
	movie.Genres = []string{"Comedy"}
	got, err := svc.Update(context.Background(), movie, &userID)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got == nil {
		t.Fatal("Update() = nil")
	}
	if got.Rating == nil || *got.Rating != 3.0 {
		t.Fatalf("Rating = %v, want 3.0", got.Rating)
	}
	if got.UserRating == nil || *got.UserRating != 4 {
		t.Fatalf("UserRating = %v, want 4", got.UserRating)
	}

	// Anonymous update refreshes only the global average.
	got, err = svc.Update(context.Background(), movie, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.UserRating != nil {
		t.Fatalf("UserRating = %v, want nil for anonymous caller", got.UserRating)
	}
}

func TestMovieServiceGetAll_InvalidOptionsFailBeforeQuery(t *testing.T) {
	movies := newFakeMovieStore()
	svc := newMovieService(movies, newFakeRatingStore())

	options := domain.GetAllMoviesOptions{Page: 1, PageSize: 26}
	_, err := svc.GetAll(context.Background(), options)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("GetAll() error = %v, want *domain.ValidationError", err)
	}
	if movies.getAllCalls != 0 {
		t.Fatalf("repository GetAll called %d times for invalid options", movies.getAllCalls)
	}
}

func TestRatingServiceRate(t *testing.T) {
	movies := newFakeMovieStore()
	ratings := newFakeRatingStore()
	svc := NewRatingService(ratings, movies)

	movie := validMovie()
	movies.movies[movie.ID] = movie
	userID := uuid.New()

	for _, score := range []int{0, 6} {
		_, err := svc.Rate(context.Background(), movie.ID, userID, score)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("Rate(score=%d) error = %v, want *domain.ValidationError", score, err)
		}
	}
	if ratings.rateCalls != 0 {
		t.Fatalf("repository Rate called for out-of-bounds scores")
	}

	// Missing movie reports false, not an error.
	ok, err := svc.Rate(context.Background(), uuid.New(), userID, 4)
	if err != nil || ok {
		t.Fatalf("Rate(missing movie) = %v, %v; want false, nil", ok, err)
	}

	ok, err = svc.Rate(context.Background(), movie.ID, userID, 4)
	if err != nil || !ok {
		t.Fatalf("Rate() = %v, %v; want true, nil", ok, err)
	}
}

func TestRatingServiceDeleteRating(t *testing.T) {
	movies := newFakeMovieStore()
	ratings := newFakeRatingStore()
	svc := NewRatingService(ratings, movies)

	movie := validMovie()
	movies.movies[movie.ID] = movie
	userID := uuid.New()

	ok, err := svc.DeleteRating(context.Background(), uuid.New(), userID)
	if err != nil || ok {
		t.Fatalf("DeleteRating(missing movie) = %v, %v; want false, nil", ok, err)
	}

	if _, err := svc.Rate(context.Background(), movie.ID, userID, 5); err != nil {
		t.Fatalf("rate: %v", err)
	}
	ok, err = svc.DeleteRating(context.Background(), movie.ID, userID)
	if err != nil || !ok {
		t.Fatalf("DeleteRating() = %v, %v; want true, nil", ok, err)
	}
	ok, err = svc.DeleteRating(context.Background(), movie.ID, userID)
	if err != nil || ok {
		t.Fatalf("second DeleteRating() = %v, %v; want false, nil", ok, err)
	}
}
