package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`create table if not exists movies (
		id uuid primary key,
		slug text not null,
		title text not null,
		yearofrelease integer not null)`,
	`create unique index if not exists movies_slug_idx
		on movies using btree (slug)`,
	`create table if not exists genres (
		movieid uuid references movies (id),
		name text not null)`,
	`create table if not exists ratings (
		userid uuid,
		movieid uuid references movies (id),
		rating integer not null,
		primary key (userid, movieid))`,
}

// InitSchema creates the catalog tables and indexes if they do not already
// exist. It runs once at startup and is safe to repeat.
func (s *Store) InitSchema(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return applySchema(ctx, conn)
}

// InitSchemaWithPool applies the schema through a raw pool, for callers that
// do not hold a Store.
func InitSchemaWithPool(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return applySchema(ctx, conn)
}

func applySchema(ctx context.Context, conn *pgxpool.Conn) error {
	for _, stmt := range schemaStatements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
