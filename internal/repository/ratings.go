package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinolog/kinolog/internal/domain"
)

// RatingsRepository persists one rating per movie with overwrite semantics.
type RatingsRepository struct {
	pool   *pgxpool.Pool
	movies *MoviesRepository
}

const ratingColumns = `movie_id, overall, plot, acting, cinematography, score, created_at, updated_at`

// Save upserts the movie snapshot and its rating in one transaction, so a
// rating row can never exist without its movie row. A prior rating keeps its
// created_at; updated_at is refreshed either way. The second return reports
// whether the rating was newly inserted.
func (r *RatingsRepository) Save(ctx context.Context, movie domain.Movie, values domain.RatingValues) (domain.WatchedEntry, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.WatchedEntry{}, false, fmt.Errorf("begin save rating: %w", err)
	}
	defer tx.Rollback(ctx)

	stored, err := upsertMovie(ctx, tx, movie)
	if err != nil {
		return domain.WatchedEntry{}, false, fmt.Errorf("upsert movie %d: %w", movie.ID, err)
	}

	rating, inserted, err := upsertRating(ctx, tx, movie.ID, values)
	if err != nil {
		return domain.WatchedEntry{}, false, fmt.Errorf("upsert rating %d: %w", movie.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.WatchedEntry{}, false, fmt.Errorf("commit save rating: %w", err)
	}

	return domain.WatchedEntry{Rating: rating, Movie: stored}, inserted, nil
}

func upsertRating(ctx context.Context, q querier, movieID int, values domain.RatingValues) (domain.Rating, bool, error) {
	query := fmt.Sprintf(`
        INSERT INTO ratings (movie_id, overall, plot, acting, cinematography, score)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (movie_id) DO UPDATE SET
            overall = EXCLUDED.overall,
            plot = EXCLUDED.plot,
            acting = EXCLUDED.acting,
            cinematography = EXCLUDED.cinematography,
            score = EXCLUDED.score,
            updated_at = now()
        RETURNING %s, (xmax = 0) AS inserted
    `, ratingColumns)

	var rating domain.Rating
	var inserted bool
	err := q.QueryRow(ctx, query,
		movieID,
		values.Overall,
		values.Plot,
		values.Acting,
		values.Cinematography,
		values.Score,
	).Scan(
		&rating.MovieID,
		&rating.Overall,
		&rating.Plot,
		&rating.Acting,
		&rating.Cinematography,
		&rating.Score,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Rating{}, false, err
	}
	return rating, inserted, nil
}

// Get retrieves the rating for a movie, or ErrNotFound when none exists.
func (r *RatingsRepository) Get(ctx context.Context, movieID int) (domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE movie_id = $1`, ratingColumns)

	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, movieID).Scan(
		&rating.MovieID,
		&rating.Overall,
		&rating.Plot,
		&rating.Acting,
		&rating.Cinematography,
		&rating.Score,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Rating{}, ErrNotFound
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

// ListWithMovies returns every rating joined with its movie snapshot,
// newest-created first. This is the canonical watched list.
func (r *RatingsRepository) ListWithMovies(ctx context.Context) ([]domain.WatchedEntry, error) {
	const query = `
        SELECT r.movie_id, r.overall, r.plot, r.acting, r.cinematography, r.score,
               r.created_at, r.updated_at,
               m.id, m.title, m.year, m.poster_path, m.overview, m.genres, m.runtime,
               m.created_at, m.updated_at
        FROM ratings r
        JOIN movies m ON m.id = r.movie_id
        ORDER BY r.created_at DESC, r.movie_id DESC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.WatchedEntry, 0)
	for rows.Next() {
		var entry domain.WatchedEntry
		err := rows.Scan(
			&entry.MovieID,
			&entry.Overall,
			&entry.Plot,
			&entry.Acting,
			&entry.Cinematography,
			&entry.Score,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.Movie.ID,
			&entry.Movie.Title,
			&entry.Movie.Year,
			&entry.Movie.PosterPath,
			&entry.Movie.Overview,
			&entry.Movie.Genres,
			&entry.Movie.Runtime,
			&entry.Movie.CreatedAt,
			&entry.Movie.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes the rating row only; the movie snapshot stays. The boolean
// reports whether a row existed, so a second delete is a clean no-op for
// callers that tolerate not-found.
func (r *RatingsRepository) Delete(ctx context.Context, movieID int) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ratings WHERE movie_id = $1`, movieID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
