package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/movie-review/internal/domain"
	"github.com/Clark-Hu/movie-review/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// RatingStore persists immutable rating rows and answers aggregate queries.
type RatingStore interface {
	// Initialize creates the schema if absent. Safe to call on every start.
	Initialize(ctx context.Context) error
	AddRating(ctx context.Context, params RatingCreateParams) (domain.Rating, error)
	// AverageRating returns the mean score, or 0 when the movie has no ratings.
	AverageRating(ctx context.Context, movieID int64) (float64, error)
	Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error)
	ListByMovie(ctx context.Context, movieID int64) ([]domain.Rating, error)
}

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Ratings RatingStore
}

// NewSQLite constructs a Repository backed by the local SQLite file.
func NewSQLite(st *store.SQLite) *Repository {
	return NewWithDB(st.DB())
}

// NewWithDB allows constructing repositories directly from a database/sql handle.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{Ratings: &SQLiteRatings{db: db}}
}

// NewPostgres constructs a Repository backed by the provided pgx store.
func NewPostgres(st *store.Postgres) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{Ratings: &PostgresRatings{pool: pool}}
}
