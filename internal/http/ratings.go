package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type rateMovieRequest struct {
	Rating int `json:"rating"`
}

type movieRatingResponse struct {
	MovieID string `json:"movieId"`
	Slug    string `json:"slug"`
	Rating  int    `json:"rating"`
}

func (s *Server) handleRateMovie(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}

	var req rateMovieRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	userID := callerID(r.Context())
	ok, err := s.ratings.Rate(r.Context(), movieID, *userID, req.Rating)
	if err != nil {
		s.respondServiceError(w, "rate movie", err)
		return
	}
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	movieID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movie id")
		return
	}

	userID := callerID(r.Context())
	ok, err := s.ratings.DeleteRating(r.Context(), movieID, *userID)
	if err != nil {
		s.respondServiceError(w, "delete rating", err)
		return
	}
	if !ok {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetUserRatings(w http.ResponseWriter, r *http.Request) {
	userID := callerID(r.Context())

	ratings, err := s.ratings.GetRatingsForUser(r.Context(), *userID)
	if err != nil {
		s.respondServiceError(w, "list user ratings", err)
		return
	}

	resp := make([]movieRatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		resp = append(resp, movieRatingResponse{
			MovieID: rating.MovieID.String(),
			Slug:    rating.Slug,
			Rating:  rating.Rating,
		})
	}
	s.respondJSON(w, http.StatusOK, resp)
}
