package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type movieEntry struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date,omitempty"`
	Overview    string `json:"overview,omitempty"`
}

type videoEntry struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
	Site string `json:"site,omitempty"`
	Type string `json:"type"`
}

type mockData struct {
	APIKey string                  `json:"api_key"`
	Movies []movieEntry            `json:"movies"`
	Videos map[string][]videoEntry `json:"videos"`
}

func main() {
	var (
		port    = flag.String("port", "9099", "port to listen on")
		data    = flag.String("data", "cmd/tmdb-mock/testdata/mock-tmdb.json", "path to mock data file")
		logReqs = flag.Bool("log", false, "enable request logging")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	var payload mockData
	if err := json.Unmarshal(file, &payload); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	router := newRouter(payload)
	if *logReqs {
		router = middleware.Logger(router)
	}

	addr := ":" + *port
	log.Printf("mock tmdb listening on %s with %d movies", addr, len(payload.Movies))
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newRouter(data mockData) http.Handler {
	r := chi.NewRouter()
	r.Use(requireAPIKey(data.APIKey))

	r.Get("/search/movie", func(w http.ResponseWriter, r *http.Request) {
		query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
		results := make([]movieEntry, 0)
		if query != "" {
			for _, movie := range data.Movies {
				if strings.Contains(strings.ToLower(movie.Title), query) {
					results = append(results, movie)
				}
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"page":          1,
			"results":       results,
			"total_pages":   1,
			"total_results": len(results),
		})
	})

	r.Get("/movie/{id}/videos", func(w http.ResponseWriter, r *http.Request) {
		rawID := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || !hasMovie(data.Movies, id) {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"status_code":    34,
				"status_message": "The resource you requested could not be found.",
			})
			return
		}
		videos := data.Videos[rawID]
		if videos == nil {
			videos = []videoEntry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "results": videos})
	})

	return r
}

func requireAPIKey(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected != "" && r.URL.Query().Get("api_key") != expected {
				writeJSON(w, http.StatusUnauthorized, map[string]any{
					"status_code":    7,
					"status_message": "Invalid API key: You must be granted a valid key.",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hasMovie(movies []movieEntry, id int64) bool {
	for _, movie := range movies {
		if movie.ID == id {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}
