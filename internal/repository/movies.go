package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flicklog/movies-api/internal/domain"
)

// MovieRepository owns all SQL against the movies, genres and ratings tables
// for catalog reads and writes. Every multi-statement write runs inside one
// transaction: no partial writes are observable to readers.
type MovieRepository struct {
	pool *pgxpool.Pool
}

// sortColumns maps the closed sort-field set to literal column names. SQL
// does not allow identifiers as bound parameters, so order-by columns are
// interpolated as text; only values from this map ever reach identifier
// position.
var sortColumns = map[domain.SortField]string{
	domain.SortByTitle: "m.title",
	domain.SortByYear:  "m.yearofrelease",
}

// Create inserts the movie row and one genre row per genre inside a single
// transaction, rolling back entirely if any statement fails. It reports
// whether the movie insert affected a row.
func (r *MovieRepository) Create(ctx context.Context, movie domain.Movie) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        insert into movies (id, slug, title, yearofrelease)
        values ($1, $2, $3, $4)
    `, movie.ID, movie.Slug(), movie.Title, movie.YearOfRelease)
	if err != nil {
		return false, fmt.Errorf("insert movie: %w", err)
	}

	if tag.RowsAffected() > 0 {
		for _, genre := range movie.Genres {
			if _, err := tx.Exec(ctx, `
                insert into genres (movieid, name)
                values ($1, $2)
            `, movie.ID, genre); err != nil {
				return false, fmt.Errorf("insert genre: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID fetches a movie by identifier together with its rating average and
// the caller's own rating. userID may be nil for anonymous callers.
func (r *MovieRepository) GetByID(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (*domain.Movie, error) {
	const query = `
        select m.id, m.title, m.yearofrelease,
               round(avg(r.rating), 1) as rating,
               myr.rating as userrating
        from movies m
        left join ratings r on m.id = r.movieid
        left join ratings myr on m.id = myr.movieid and myr.userid = $2
        where m.id = $1
        group by m.id, myr.rating
    `
	return r.getOne(ctx, query, id, userID)
}

// GetBySlug is the slug-keyed variant of GetByID.
func (r *MovieRepository) GetBySlug(ctx context.Context, slug string, userID *uuid.UUID) (*domain.Movie, error) {
	const query = `
        select m.id, m.title, m.yearofrelease,
               round(avg(r.rating), 1) as rating,
               myr.rating as userrating
        from movies m
        left join ratings r on m.id = r.movieid
        left join ratings myr on m.id = myr.movieid and myr.userid = $2
        where m.slug = $1
        group by m.id, myr.rating
    `
	return r.getOne(ctx, query, slug, userID)
}

// getOne runs a single-movie aggregate query, then loads genres with a second
// statement. The myr join is restricted to one userid, so at most one row per
// movie exists and the group-by stays per-movie regardless of rater count.
func (r *MovieRepository) getOne(ctx context.Context, query string, key any, userID *uuid.UUID) (*domain.Movie, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var movie domain.Movie
	err = conn.QueryRow(ctx, query, key, userID).Scan(
		&movie.ID,
		&movie.Title,
		&movie.YearOfRelease,
		&movie.Rating,
		&movie.UserRating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select movie: %w", err)
	}

	rows, err := conn.Query(ctx, `select name from genres where movieid = $1`, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("load genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		movie.Genres = append(movie.Genres, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetAll returns one page of the catalog. Genres are aggregated into a
// comma-joined string, ratings averaged, and the caller's rating attached per
// row. Sorting is applied only when a sort field is present; its column name
// comes from sortColumns, never from caller input.
func (r *MovieRepository) GetAll(ctx context.Context, options domain.GetAllMoviesOptions) ([]domain.Movie, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	args := make([]any, 0, 5)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	var qb strings.Builder
	qb.WriteString(`
        select m.id, m.title, m.yearofrelease,
               string_agg(distinct g.name, ',') as genres,
               round(avg(r.rating), 1) as rating,
               myr.rating as userrating
        from movies m
        left join genres g on m.id = g.movieid
        left join ratings r on m.id = r.movieid
        left join ratings myr on m.id = myr.movieid and myr.userid = `)
	qb.WriteString(arg(options.UserID))

	where := make([]string, 0, 2)
	if options.Title != nil {
		where = append(where, fmt.Sprintf("m.title like %s", arg("%"+*options.Title+"%")))
	}
	if options.Year != nil {
		where = append(where, fmt.Sprintf("m.yearofrelease = %s", arg(*options.Year)))
	}
	if len(where) > 0 {
		qb.WriteString(" where ")
		qb.WriteString(strings.Join(where, " and "))
	}

	qb.WriteString(" group by m.id, myr.rating")

	if column, ok := sortColumns[options.SortField]; ok {
		direction := "asc"
		if options.SortOrder == domain.SortDescending {
			direction = "desc"
		}
		qb.WriteString(" order by " + column + " " + direction)
	}

	qb.WriteString(" limit " + arg(options.PageSize))
	qb.WriteString(" offset " + arg(options.Offset()))

	rows, err := conn.Query(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		var (
			movie  domain.Movie
			genres *string
		)
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.YearOfRelease, &genres, &movie.Rating, &movie.UserRating); err != nil {
			return nil, err
		}
		if genres != nil {
			movie.Genres = strings.Split(*genres, ",")
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return movies, nil
}

// GetCount applies the same filter predicate as GetAll and returns the total
// number of matching movies, used by callers for page math.
func (r *MovieRepository) GetCount(ctx context.Context, title *string, year *int) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	const query = `
        select count(id) from movies
        where ($1::text is null or title like ('%' || $1 || '%'))
          and ($2::integer is null or yearofrelease = $2)
    `
	var count int
	if err := conn.QueryRow(ctx, query, title, year).Scan(&count); err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

// DeleteByID removes the movie's rating rows, its genre rows and the movie
// row itself in one transaction. Ratings go first: leaving them orphaned
// would violate the movieid foreign key. Reports whether the movie row was
// removed.
func (r *MovieRepository) DeleteByID(ctx context.Context, id uuid.UUID) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `delete from ratings where movieid = $1`, id); err != nil {
		return false, fmt.Errorf("delete ratings: %w", err)
	}
	if _, err := tx.Exec(ctx, `delete from genres where movieid = $1`, id); err != nil {
		return false, fmt.Errorf("delete genres: %w", err)
	}
	tag, err := tx.Exec(ctx, `delete from movies where id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete movie: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Update replaces the entire genre set (delete-all, insert-each) and updates
// slug, title and year in one transaction. Rating aggregates are left to the
// caller. Reports whether the movie row was affected.
func (r *MovieRepository) Update(ctx context.Context, movie domain.Movie) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `delete from genres where movieid = $1`, movie.ID); err != nil {
		return false, fmt.Errorf("delete genres: %w", err)
	}
	for _, genre := range movie.Genres {
		if _, err := tx.Exec(ctx, `
            insert into genres (movieid, name)
            values ($1, $2)
        `, movie.ID, genre); err != nil {
			return false, fmt.Errorf("insert genre: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `
        update movies
        set slug = $1, title = $2, yearofrelease = $3
        where id = $4
    `, movie.Slug(), movie.Title, movie.YearOfRelease, movie.ID)
	if err != nil {
		return false, fmt.Errorf("update movie: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ExistsByID is the existence probe used as a precondition gate before
// attaching ratings or recomputing aggregates.
func (r *MovieRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	if err := conn.QueryRow(ctx, `select exists(select 1 from movies where id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("movie exists: %w", err)
	}
	return exists, nil
}
