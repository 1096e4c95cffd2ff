package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinolog/kinolog/internal/domain"
)

// MoviesRepository persists denormalized movie snapshots keyed by the
// catalog-assigned identifier.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    title,
    year,
    poster_path,
    overview,
    genres,
    runtime,
    created_at,
    updated_at
`

// querier is satisfied by both pgxpool.Pool and pgx.Tx so upserts can run
// standalone or inside a rating transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Upsert writes or overwrites the denormalized record for a catalog movie.
// Metadata drifts toward the catalog's latest state on every save.
func (r *MoviesRepository) Upsert(ctx context.Context, movie domain.Movie) (domain.StoredMovie, error) {
	return upsertMovie(ctx, r.pool, movie)
}

func upsertMovie(ctx context.Context, q querier, movie domain.Movie) (domain.StoredMovie, error) {
	query := fmt.Sprintf(`
        INSERT INTO movies (id, title, year, poster_path, overview, genres, runtime)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO UPDATE SET
            title = EXCLUDED.title,
            year = EXCLUDED.year,
            poster_path = EXCLUDED.poster_path,
            overview = EXCLUDED.overview,
            genres = EXCLUDED.genres,
            runtime = EXCLUDED.runtime,
            updated_at = now()
        RETURNING %s
    `, movieColumns)

	row := q.QueryRow(ctx, query,
		movie.ID,
		movie.Title,
		movie.Year(),
		movie.PosterPath,
		movie.Overview,
		movie.GenreNames(),
		movie.Runtime,
	)
	return scanStoredMovie(row)
}

// Get fetches a stored movie by its catalog identifier.
func (r *MoviesRepository) Get(ctx context.Context, id int) (domain.StoredMovie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	movie, err := scanStoredMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.StoredMovie{}, ErrNotFound
		}
		return domain.StoredMovie{}, err
	}
	return movie, nil
}

func scanStoredMovie(row pgx.Row) (domain.StoredMovie, error) {
	var movie domain.StoredMovie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.Year,
		&movie.PosterPath,
		&movie.Overview,
		&movie.Genres,
		&movie.Runtime,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.StoredMovie{}, err
	}
	return movie, nil
}
