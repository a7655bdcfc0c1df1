package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Clark-Hu/movie-review/internal/domain"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ratings (
        id         INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id    INTEGER NOT NULL,
        movie_id   INTEGER NOT NULL,
        rating     REAL    NOT NULL,
        created_at TEXT    NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_movie_id ON ratings (movie_id)`,
}

// SQLiteRatings stores ratings in the local SQLite file.
type SQLiteRatings struct {
	db *sql.DB
}

// Initialize ensures the ratings table and its index exist.
func (r *SQLiteRatings) Initialize(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initialize ratings schema: %w", err)
		}
	}
	return nil
}

// AddRating appends one rating row.
func (r *SQLiteRatings) AddRating(ctx context.Context, params RatingCreateParams) (domain.Rating, error) {
	if err := params.Validate(); err != nil {
		return domain.Rating{}, err
	}

	createdAt := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (user_id, movie_id, rating, created_at) VALUES (?, ?, ?, ?)`,
		params.UserID, params.MovieID, params.Score, createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return domain.Rating{}, fmt.Errorf("insert rating: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Rating{}, fmt.Errorf("last insert id: %w", err)
	}

	return domain.Rating{
		ID:        id,
		UserID:    params.UserID,
		MovieID:   params.MovieID,
		Score:     params.Score,
		CreatedAt: createdAt,
	}, nil
}

// AverageRating returns the mean score for movieID, or 0 without ratings.
func (r *SQLiteRatings) AverageRating(ctx context.Context, movieID int64) (float64, error) {
	agg, err := r.Aggregate(ctx, movieID)
	if err != nil {
		return 0, err
	}
	return agg.Average, nil
}

// Aggregate returns the rating average and count for a movie.
func (r *SQLiteRatings) Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	const query = `
        SELECT COALESCE(AVG(rating), 0.0) AS average,
               COUNT(*) AS count
        FROM ratings
        WHERE movie_id = ?
    `

	var agg domain.RatingAggregate
	if err := r.db.QueryRowContext(ctx, query, movieID).Scan(&agg.Average, &agg.Count); err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}

// ListByMovie returns every rating for movieID in insertion order.
func (r *SQLiteRatings) ListByMovie(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	const query = `
        SELECT id, user_id, movie_id, rating, created_at
        FROM ratings
        WHERE movie_id = ?
        ORDER BY id
    `
	rows, err := r.db.QueryContext(ctx, query, movieID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]domain.Rating, 0)
	for rows.Next() {
		var (
			rating    domain.Rating
			createdAt string
		)
		if err := rows.Scan(&rating.ID, &rating.UserID, &rating.MovieID, &rating.Score, &createdAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		rating.CreatedAt = parsed
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ratings: %w", err)
	}
	return ratings, nil
}
