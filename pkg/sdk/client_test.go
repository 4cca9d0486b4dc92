package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, "stub-token", 5*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestClientGetMovie(t *testing.T) {
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/movies/street-fighter-1992" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer stub-token" {
			t.Errorf("authorization header = %q", got)
		}
		_ = json.NewEncoder(w).Encode(Movie{
			ID:            "11111111-1111-1111-1111-111111111111",
			Title:         "Street Fighter",
			Slug:          "street-fighter-1992",
			YearOfRelease: 1992,
			Genres:        []string{"Action"},
		})
	})

	movie, err := client.GetMovie(context.Background(), "street-fighter-1992")
	if err != nil {
		t.Fatalf("GetMovie: %v", err)
	}
	if movie.Title != "Street Fighter" || movie.YearOfRelease != 1992 {
		t.Fatalf("movie = %+v", movie)
	}
}

func TestClientGetMoviesQuery(t *testing.T) {
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("title") != "Fight" || query.Get("sortBy") != "-yearofrelease" ||
			query.Get("page") != "2" || query.Get("pageSize") != "5" || query.Get("year") != "1992" {
			t.Errorf("query = %v", query)
		}
		_ = json.NewEncoder(w).Encode(MovieList{Page: 2, PageSize: 5, Total: 11})
	})

	year := 1992
	list, err := client.GetMovies(context.Background(), ListOptions{
		Title:    "Fight",
		Year:     &year,
		SortBy:   "-yearofrelease",
		Page:     2,
		PageSize: 5,
	})
	if err != nil {
		t.Fatalf("GetMovies: %v", err)
	}
	if list.Total != 11 {
		t.Fatalf("total = %d", list.Total)
	}
}

func TestClientErrorMapping(t *testing.T) {
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/movies/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/api/movies":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"Validation failed","details":[{"field":"Title","message":"required"}]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	if _, err := client.GetMovie(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("404 mapped to %v, want ErrNotFound", err)
	}

	_, err := client.CreateMovie(context.Background(), CreateMovieParams{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("400 mapped to %v, want ErrValidation", err)
	}

	if err := client.DeleteMovie(context.Background(), "boom"); err == nil {
		t.Fatal("500 should surface as an error")
	} else if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
		t.Fatalf("500 mapped to sentinel: %v", err)
	}
}

func TestClientRateMovie(t *testing.T) {
	client := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/movies/abc/ratings" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Rating int `json:"rating"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Rating != 4 {
			t.Errorf("payload = %+v, err %v", payload, err)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := client.RateMovie(context.Background(), "abc", 4); err != nil {
		t.Fatalf("RateMovie: %v", err)
	}
}
