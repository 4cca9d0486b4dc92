// Package sdk provides a typed HTTP client for the movies API, for consumers
// that do not want to hand-roll requests.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the API cannot find the requested resource.
var ErrNotFound = errors.New("sdk: not found")

// ErrValidation is returned for 400 responses carrying field failures.
var ErrValidation = errors.New("sdk: validation failed")

// Movie mirrors the API's movie representation.
type Movie struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
	Rating        *float64 `json:"rating"`
	UserRating    *int     `json:"userRating"`
}

// MovieList is one page of the catalog.
type MovieList struct {
	Items    []Movie `json:"items"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Total    int     `json:"total"`
}

// CreateMovieParams is the payload for creating or updating a movie.
type CreateMovieParams struct {
	Title         string   `json:"title"`
	YearOfRelease int      `json:"yearOfRelease"`
	Genres        []string `json:"genres"`
}

// ListOptions carries the supported listing query parameters. SortBy takes a
// field name with an optional leading '-' for descending order.
type ListOptions struct {
	Title    string
	Year     *int
	SortBy   string
	Page     int
	PageSize int
}

// Client talks to a running movies API instance.
type Client struct {
	baseURL *url.URL
	token   string
	client  *http.Client
}

// New constructs a client. token is the caller's bearer JWT; it may be empty
// for anonymous reads.
func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		baseURL: parsed,
		token:   token,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}, nil
}

// GetMovie fetches a movie by id or slug.
func (c *Client) GetMovie(ctx context.Context, idOrSlug string) (*Movie, error) {
	var movie Movie
	err := c.do(ctx, http.MethodGet, "/api/movies/"+url.PathEscape(idOrSlug), nil, &movie)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetMovies fetches one catalog page.
func (c *Client) GetMovies(ctx context.Context, options ListOptions) (*MovieList, error) {
	query := url.Values{}
	if options.Title != "" {
		query.Set("title", options.Title)
	}
	if options.Year != nil {
		query.Set("year", strconv.Itoa(*options.Year))
	}
	if options.SortBy != "" {
		query.Set("sortBy", options.SortBy)
	}
	if options.Page > 0 {
		query.Set("page", strconv.Itoa(options.Page))
	}
	if options.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(options.PageSize))
	}

	path := "/api/movies"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var list MovieList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateMovie creates a movie and returns the stored representation.
func (c *Client) CreateMovie(ctx context.Context, params CreateMovieParams) (*Movie, error) {
	var movie Movie
	if err := c.do(ctx, http.MethodPost, "/api/movies", params, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// UpdateMovie replaces a movie's title, year and genres.
func (c *Client) UpdateMovie(ctx context.Context, id string, params CreateMovieParams) (*Movie, error) {
	var movie Movie
	if err := c.do(ctx, http.MethodPut, "/api/movies/"+url.PathEscape(id), params, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// DeleteMovie removes a movie and everything attached to it.
func (c *Client) DeleteMovie(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/movies/"+url.PathEscape(id), nil, nil)
}

// RateMovie submits the caller's score for a movie.
func (c *Client) RateMovie(ctx context.Context, id string, rating int) error {
	payload := struct {
		Rating int `json:"rating"`
	}{Rating: rating}
	return c.do(ctx, http.MethodPut, "/api/movies/"+url.PathEscape(id)+"/ratings", payload, nil)
}

// MovieRating is one entry of the caller's rating history.
type MovieRating struct {
	MovieID string `json:"movieId"`
	Slug    string `json:"slug"`
	Rating  int    `json:"rating"`
}

// GetMyRatings fetches the caller's full rating history.
func (c *Client) GetMyRatings(ctx context.Context) ([]MovieRating, error) {
	var ratings []MovieRating
	if err := c.do(ctx, http.MethodGet, "/api/ratings/me", nil, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, dst any) error {
	var body *bytes.Buffer
	if payload != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	endpoint := c.baseURL.String() + path
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, endpoint, nil)
	}
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if dst == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(dst)
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		var apiErr struct {
			Message string          `json:"message"`
			Details json.RawMessage `json:"details"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && len(apiErr.Details) > 0 {
			return fmt.Errorf("%w: %s", ErrValidation, apiErr.Details)
		}
		return ErrValidation
	default:
		return fmt.Errorf("sdk: unexpected status %d", resp.StatusCode)
	}
}
