package app

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/Clark-Hu/movie-review/internal/domain"
	"github.com/Clark-Hu/movie-review/internal/repository"
	"github.com/Clark-Hu/movie-review/internal/store"
	"github.com/Clark-Hu/movie-review/internal/tmdb"
)

type fakeLookup struct {
	movies    []domain.Movie
	searchErr error
	trailers  map[int64]domain.Trailer
}

func (f *fakeLookup) SearchMovies(ctx context.Context, query string) ([]domain.Movie, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.movies, nil
}

func (f *fakeLookup) Trailer(ctx context.Context, movieID int64) (domain.Trailer, error) {
	trailer, ok := f.trailers[movieID]
	if !ok {
		return domain.Trailer{}, tmdb.ErrNotAvailable
	}
	return trailer, nil
}

func (f *fakeLookup) TrailerURL(ctx context.Context, movieID int64) (string, error) {
	trailer, err := f.Trailer(ctx, movieID)
	return trailer.URL, err
}

func newTestService(t *testing.T, lookup tmdb.Client) *Service {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	st, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "app.db"), store.Options{Logger: logger})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	svc := New(lookup, repository.NewSQLite(st).Ratings, logger)
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	return svc
}

func TestParseRatingInput(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		movie   string
		score   string
		want    RatingInput
		wantErr string
	}{
		{"plain", "1", "42", "4.5", RatingInput{UserID: 1, MovieID: 42, Score: 4.5}, ""},
		{"label and spaces", " 2 ", "603 - The Matrix", " 5 ", RatingInput{UserID: 2, MovieID: 603, Score: 5}, ""},
		{"bad user", "abc", "42", "4", RatingInput{}, "userId"},
		{"bad score", "1", "42", "four", RatingInput{}, "score"},
		{"bad movie", "1", "The Matrix", "4", RatingInput{}, "movieId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRatingInput(tt.user, tt.movie, tt.score)
			if tt.wantErr != "" {
				var vErr *domain.ValidationError
				if !errors.As(err, &vErr) || vErr.Field != tt.wantErr {
					t.Fatalf("error = %v, want validation error on %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestServiceRateAndRating(t *testing.T) {
	svc := newTestService(t, nil)
	ctx := context.Background()

	if _, err := svc.Rate(ctx, RatingInput{UserID: 1, MovieID: 42, Score: 4}); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := svc.Rate(ctx, RatingInput{UserID: 2, MovieID: 42, Score: 5}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	agg, err := svc.Rating(ctx, 42)
	if err != nil {
		t.Fatalf("rating: %v", err)
	}
	if agg.Average != 4.5 || agg.Count != 2 {
		t.Fatalf("aggregate = %+v, want 4.5 over 2", agg)
	}

	history, err := svc.History(ctx, 42)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("history = %+v", history)
	}

	if _, err := svc.Rate(ctx, RatingInput{UserID: 1, MovieID: 42, Score: 9}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("rate out of range error = %v, want validation error", err)
	}
}

func TestServiceSearchDistinguishesFailure(t *testing.T) {
	failing := &fakeLookup{searchErr: tmdb.ErrLookupFailed}
	svc := newTestService(t, failing)
	if _, err := svc.Search(context.Background(), "heat"); !errors.Is(err, tmdb.ErrLookupFailed) {
		t.Fatalf("search error = %v, want ErrLookupFailed", err)
	}

	empty := &fakeLookup{movies: []domain.Movie{}}
	svc = newTestService(t, empty)
	movies, err := svc.Search(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(movies) != 0 {
		t.Fatalf("movies = %+v, want none", movies)
	}
}

func TestServiceTrailer(t *testing.T) {
	lookup := &fakeLookup{trailers: map[int64]domain.Trailer{
		27205: {Key: "YoHD9XEInc0", URL: tmdb.TrailerBaseURL + "YoHD9XEInc0"},
	}}
	svc := newTestService(t, lookup)

	trailer, err := svc.Trailer(context.Background(), 27205)
	if err != nil {
		t.Fatalf("trailer: %v", err)
	}
	if trailer.URL != "https://www.youtube.com/watch?v=YoHD9XEInc0" {
		t.Fatalf("url = %s", trailer.URL)
	}

	if _, err := svc.Trailer(context.Background(), 1); !errors.Is(err, tmdb.ErrNotAvailable) {
		t.Fatalf("trailer error = %v, want ErrNotAvailable", err)
	}
}

func TestServiceWithoutLookup(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Search(context.Background(), "heat"); !errors.Is(err, ErrLookupUnavailable) {
		t.Fatalf("search error = %v, want ErrLookupUnavailable", err)
	}
	if _, err := svc.Trailer(context.Background(), 1); !errors.Is(err, ErrLookupUnavailable) {
		t.Fatalf("trailer error = %v, want ErrLookupUnavailable", err)
	}
}
