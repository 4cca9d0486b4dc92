package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicklog/movies-api/internal/domain"
)

// RatingRepository owns all SQL against the ratings table.
type RatingRepository struct {
	pool *pgxpool.Pool
}

// Rate upserts the (userid, movieid) row with the new score. Repeated calls
// with the same pair converge to the latest score.
func (r *RatingRepository) Rate(ctx context.Context, movieID uuid.UUID, rating int, userID uuid.UUID) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        insert into ratings (userid, movieid, rating)
        values ($1, $2, $3)
        on conflict (userid, movieid) do update set rating = excluded.rating
    `, userID, movieID, rating)
	if err != nil {
		return false, fmt.Errorf("upsert rating: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteRating removes the user's rating row if present and reports whether a
// row was removed.
func (r *RatingRepository) DeleteRating(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        delete from ratings
        where movieid = $1 and userid = $2
    `, movieID, userID)
	if err != nil {
		return false, fmt.Errorf("delete rating: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetRating returns the average of all scores for a movie, or nil when the
// movie is unrated.
func (r *RatingRepository) GetRating(ctx context.Context, movieID uuid.UUID) (*float64, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var rating *float64
	err = conn.QueryRow(ctx, `
        select round(avg(rating), 1)
        from ratings
        where movieid = $1
    `, movieID).Scan(&rating)
	if err != nil {
		return nil, fmt.Errorf("aggregate rating: %w", err)
	}
	return rating, nil
}

// GetUserRating returns the movie's rating average together with the given
// user's own score. Either value is nil when absent.
func (r *RatingRepository) GetUserRating(ctx context.Context, movieID, userID uuid.UUID) (*float64, *int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var (
		rating     *float64
		userRating *int
	)
	err = conn.QueryRow(ctx, `
        select round(avg(rating), 1),
               (select rating
                from ratings
                where movieid = $1 and userid = $2
                limit 1)
        from ratings
        where movieid = $1
    `, movieID, userID).Scan(&rating, &userRating)
	if err != nil {
		return nil, nil, fmt.Errorf("aggregate user rating: %w", err)
	}
	return rating, userRating, nil
}

// GetRatingsForUser returns the user's full rating history, joined with
// movies so each entry carries the slug.
func (r *RatingRepository) GetRatingsForUser(ctx context.Context, userID uuid.UUID) ([]domain.MovieRating, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        select r.movieid, m.slug, r.rating
        from ratings r
        inner join movies m on r.movieid = m.id
        where r.userid = $1
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("list user ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]domain.MovieRating, 0)
	for rows.Next() {
		var mr domain.MovieRating
		if err := rows.Scan(&mr.MovieID, &mr.Slug, &mr.Rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, mr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}
