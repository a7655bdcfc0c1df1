package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-review/internal/domain"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ratings (
    id         BIGSERIAL PRIMARY KEY,
    user_id    BIGINT           NOT NULL,
    movie_id   BIGINT           NOT NULL,
    rating     DOUBLE PRECISION NOT NULL,
    created_at TIMESTAMPTZ      NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_ratings_movie_id ON ratings (movie_id);
`

// PostgresRatings stores ratings in PostgreSQL.
type PostgresRatings struct {
	pool *pgxpool.Pool
}

// Initialize ensures the ratings table and its index exist.
func (r *PostgresRatings) Initialize(ctx context.Context) error {
	// Simple protocol allows the multi-statement schema in one round trip.
	if _, err := r.pool.Exec(ctx, postgresSchema, pgx.QueryExecModeSimpleProtocol); err != nil {
		return fmt.Errorf("initialize ratings schema: %w", err)
	}
	return nil
}

// AddRating appends one rating row.
func (r *PostgresRatings) AddRating(ctx context.Context, params RatingCreateParams) (domain.Rating, error) {
	if err := params.Validate(); err != nil {
		return domain.Rating{}, err
	}

	const query = `
        INSERT INTO ratings (user_id, movie_id, rating)
        VALUES ($1,$2,$3)
        RETURNING id, user_id, movie_id, rating, created_at
    `

	var rating domain.Rating
	err := r.pool.QueryRow(ctx, query, params.UserID, params.MovieID, params.Score).Scan(
		&rating.ID,
		&rating.UserID,
		&rating.MovieID,
		&rating.Score,
		&rating.CreatedAt,
	)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	return rating, nil
}

// AverageRating returns the mean score for movieID, or 0 without ratings.
func (r *PostgresRatings) AverageRating(ctx context.Context, movieID int64) (float64, error) {
	agg, err := r.Aggregate(ctx, movieID)
	if err != nil {
		return 0, err
	}
	return agg.Average, nil
}

// Aggregate returns the rating average and count for a movie.
func (r *PostgresRatings) Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(rating), 0)::float8 AS average,
               COUNT(*)::int8 AS count
        FROM ratings
        WHERE movie_id = $1
    `

	var agg domain.RatingAggregate
	err := r.pool.QueryRow(ctx, query, movieID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

// ListByMovie returns every rating for movieID in insertion order.
func (r *PostgresRatings) ListByMovie(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	const query = `
        SELECT id, user_id, movie_id, rating, created_at
        FROM ratings
        WHERE movie_id = $1
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	ratings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Rating, error) {
		var rating domain.Rating
		err := row.Scan(&rating.ID, &rating.UserID, &rating.MovieID, &rating.Score, &rating.CreatedAt)
		return rating, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan ratings: %w", err)
	}
	return ratings, nil
}
