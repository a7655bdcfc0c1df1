package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/Clark-Hu/movie-review/internal/tmdb"
)

func loadFixture(t *testing.T) mockData {
	t.Helper()
	raw, err := os.ReadFile("testdata/mock-tmdb.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var data mockData
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return data
}

func newMockClient(t *testing.T, apiKey string) *tmdb.HTTPClient {
	t.Helper()
	server := httptest.NewServer(newRouter(loadFixture(t)))
	t.Cleanup(server.Close)

	client, err := tmdb.NewHTTPClient(server.URL, apiKey, tmdb.Options{Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	return client
}

func TestMockSpeaksProviderContract(t *testing.T) {
	client := newMockClient(t, "mock-key")
	ctx := context.Background()

	movies, err := client.SearchMovies(ctx, "matrix")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(movies) != 2 || movies[0].ID != 603 {
		t.Fatalf("movies = %+v", movies)
	}

	none, err := client.SearchMovies(ctx, "casablanca")
	if err != nil || len(none) != 0 {
		t.Fatalf("empty search = %+v, %v", none, err)
	}

	link, err := client.TrailerURL(ctx, 27205)
	if err != nil {
		t.Fatalf("trailer: %v", err)
	}
	if link != "https://www.youtube.com/watch?v=YoHD9XEInc0" {
		t.Fatalf("trailer url = %s, want first trailer", link)
	}

	if _, err := client.TrailerURL(ctx, 949); !errors.Is(err, tmdb.ErrNotAvailable) {
		t.Fatalf("clip-only movie error = %v, want ErrNotAvailable", err)
	}
	if _, err := client.TrailerURL(ctx, 1); !errors.Is(err, tmdb.ErrNotFound) {
		t.Fatalf("unknown movie error = %v, want ErrNotFound", err)
	}
}

func TestMockRejectsWrongAPIKey(t *testing.T) {
	client := newMockClient(t, "wrong")
	if _, err := client.SearchMovies(context.Background(), "matrix"); !errors.Is(err, tmdb.ErrLookupFailed) {
		t.Fatalf("search error = %v, want ErrLookupFailed", err)
	}
}
