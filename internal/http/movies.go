package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/flicklog/movies-api/internal/domain"
	"github.com/flicklog/movies-api/internal/repository"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type movieRequest struct {
	Title         string   `json:"title"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
}

type movieResponse struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
	Rating        *float64 `json:"rating"`
	UserRating    *int     `json:"userRating"`
}

type moviesResponse struct {
	Items    []movieResponse `json:"items"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
	Total    int             `json:"total"`
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie := domain.Movie{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(req.Title),
		YearOfRelease: req.YearOfRelease,
		Genres:        req.Genres,
	}

	if _, err := s.movies.Create(r.Context(), movie); err != nil {
		s.respondServiceError(w, "create movie", err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/movies/%s", movie.ID))
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	userID := callerID(r.Context())

	var (
		movie *domain.Movie
		err   error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		movie, err = s.movies.GetByID(r.Context(), id, userID)
	} else {
		movie, err = s.movies.GetBySlug(r.Context(), idOrSlug, userID)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.respondServiceError(w, "get movie", err)
		return
	}

	s.respondJSON(w, http.StatusOK, toMovieResponse(*movie))
}

func (s *Server) handleGetAllMovies(w http.ResponseWriter, r *http.Request) {
	options, err := buildListOptions(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	options.UserID = callerID(r.Context())

	movies, err := s.movies.GetAll(r.Context(), options)
	if err != nil {
		s.respondServiceError(w, "list movies", err)
		return
	}

	total, err := s.movies.GetCount(r.Context(), options.Title, options.Year)
	if err != nil {
		s.respondServiceError(w, "count movies", err)
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, moviesResponse{
		Items:    items,
		Page:     options.Page,
		PageSize: options.PageSize,
		Total:    total,
	})
}

// buildListOptions maps query parameters onto listing options. A sortBy value
// may carry a leading '-' for descending order; the bare field name sorts
// ascending. Validation of field names and bounds happens in the service.
func buildListOptions(query url.Values) (domain.GetAllMoviesOptions, error) {
	options := domain.GetAllMoviesOptions{
		Page:     1,
		PageSize: 10,
	}

	if title := strings.TrimSpace(query.Get("title")); title != "" {
		options.Title = &title
	}
	if val := strings.TrimSpace(query.Get("year")); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return options, fmt.Errorf("invalid year value")
		}
		options.Year = &year
	}
	if sortBy := strings.TrimSpace(query.Get("sortBy")); sortBy != "" {
		if field, ok := strings.CutPrefix(sortBy, "-"); ok {
			options.SortField = domain.SortField(field)
			options.SortOrder = domain.SortDescending
		} else {
			options.SortField = domain.SortField(strings.TrimPrefix(sortBy, "+"))
			options.SortOrder = domain.SortAscending
		}
	}
	if val := strings.TrimSpace(query.Get("page")); val != "" {
		page, err := strconv.Atoi(val)
		if err != nil {
			return options, fmt.Errorf("invalid page value")
		}
		options.Page = page
	}
	if val := strings.TrimSpace(query.Get("pageSize")); val != "" {
		pageSize, err := strconv.Atoi(val)
		if err != nil {
			return options, fmt.Errorf("invalid pageSize value")
		}
		options.PageSize = pageSize
	}
	return options, nil
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}

	var req movieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie := domain.Movie{
		ID:            id,
		Title:         strings.TrimSpace(req.Title),
		YearOfRelease: req.YearOfRelease,
		Genres:        req.Genres,
	}

	updated, err := s.movies.Update(r.Context(), movie, callerID(r.Context()))
	if err != nil {
		s.respondServiceError(w, "update movie", err)
		return
	}
	if updated == nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}

	s.respondJSON(w, http.StatusOK, toMovieResponse(*updated))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}

	deleted, err := s.movies.DeleteByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, "delete movie", err)
		return
	}
	if !deleted {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:            movie.ID.String(),
		Title:         movie.Title,
		Slug:          movie.Slug(),
		YearOfRelease: movie.YearOfRelease,
		Genres:        movie.Genres,
		Rating:        movie.Rating,
		UserRating:    movie.UserRating,
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// respondServiceError maps a service-layer error onto the wire: validation
// failures carry their field details, everything else is logged and hidden
// behind a 500.
func (s *Server) respondServiceError(w http.ResponseWriter, op string, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Validation failed",
			Details: verr.Failures,
		})
		return
	}
	s.logger.Printf("%s error: %v", op, err)
	s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}
