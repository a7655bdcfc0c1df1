// Package app holds the movie-review use cases independent of any
// presentation surface. The CLI and the HTTP API both call into Service.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/Clark-Hu/movie-review/internal/domain"
	"github.com/Clark-Hu/movie-review/internal/repository"
	"github.com/Clark-Hu/movie-review/internal/tmdb"
)

// ErrLookupUnavailable is returned by lookup use cases when no provider
// client is configured (for example, a missing API key).
var ErrLookupUnavailable = errors.New("app: movie lookup not configured")

// RatingInput is a parsed rate request.
type RatingInput struct {
	UserID  int64
	MovieID int64
	Score   float64
}

// Service composes the lookup client and the rating store.
type Service struct {
	lookup  tmdb.Client
	ratings repository.RatingStore
	logger  *log.Logger
}

// New constructs a Service. lookup may be nil when only rating operations are needed.
func New(lookup tmdb.Client, ratings repository.RatingStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{lookup: lookup, ratings: ratings, logger: logger}
}

// Initialize ensures the rating schema exists.
func (s *Service) Initialize(ctx context.Context) error {
	return s.ratings.Initialize(ctx)
}

// Search returns provider matches for query. Lookup failures are returned,
// never collapsed into an empty result.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	if s.lookup == nil {
		return nil, ErrLookupUnavailable
	}
	movies, err := s.lookup.SearchMovies(ctx, query)
	if err != nil {
		s.logger.Printf("app: search %q failed: %v", query, err)
		return nil, err
	}
	return movies, nil
}

// Trailer resolves the trailer for movieID; tmdb.ErrNotAvailable signals none exists.
func (s *Service) Trailer(ctx context.Context, movieID int64) (domain.Trailer, error) {
	if s.lookup == nil {
		return domain.Trailer{}, ErrLookupUnavailable
	}
	trailer, err := s.lookup.Trailer(ctx, movieID)
	if err != nil && !errors.Is(err, tmdb.ErrNotAvailable) {
		s.logger.Printf("app: trailer lookup for movie %d failed: %v", movieID, err)
	}
	return trailer, err
}

// Rate appends a rating.
func (s *Service) Rate(ctx context.Context, input RatingInput) (domain.Rating, error) {
	rating, err := s.ratings.AddRating(ctx, repository.RatingCreateParams{
		UserID:  input.UserID,
		MovieID: input.MovieID,
		Score:   input.Score,
	})
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logger.Printf("app: store rating for movie %d failed: %v", input.MovieID, err)
		}
		return domain.Rating{}, err
	}
	return rating, nil
}

// Rating returns the aggregate for movieID. Count 0 means no ratings yet.
func (s *Service) Rating(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	return s.ratings.Aggregate(ctx, movieID)
}

// History lists the stored ratings for movieID.
func (s *Service) History(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	return s.ratings.ListByMovie(ctx, movieID)
}

// ParseRatingInput converts raw text fields into a RatingInput. movie may be a
// bare id or a "id - title" label.
func ParseRatingInput(userID, movie, score string) (RatingInput, error) {
	uid, err := strconv.ParseInt(strings.TrimSpace(userID), 10, 64)
	if err != nil {
		return RatingInput{}, &domain.ValidationError{Field: "userId", Message: fmt.Sprintf("%q is not an integer", userID)}
	}
	movieID, err := domain.ParseMovieLabel(movie)
	if err != nil {
		return RatingInput{}, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(score), 64)
	if err != nil {
		return RatingInput{}, &domain.ValidationError{Field: "score", Message: fmt.Sprintf("%q is not a number", score)}
	}
	return RatingInput{UserID: uid, MovieID: movieID, Score: value}, nil
}
