package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movie-review/internal/app"
	"github.com/Clark-Hu/movie-review/internal/domain"
	"github.com/Clark-Hu/movie-review/internal/tmdb"
)

const maxRequestBody = 1 << 20 // 1 MiB

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type movieListResponse struct {
	Items []movieResponse `json:"items"`
}

type movieResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	Overview    string `json:"overview,omitempty"`
}

type trailerResponse struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
	Site string `json:"site,omitempty"`
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	movies, err := s.svc.Search(r.Context(), query)
	if err != nil {
		s.respondLookupError(w, err, "Failed to search movies")
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, movieListResponse{Items: items})
}

func (s *Server) handleGetTrailer(w http.ResponseWriter, r *http.Request) {
	movieID, err := decodeMovieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	trailer, err := s.svc.Trailer(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotAvailable) {
			s.respondError(w, http.StatusNotFound, "NOT_AVAILABLE", "Trailer not available")
			return
		}
		s.respondLookupError(w, err, "Failed to look up trailer")
		return
	}

	s.respondJSON(w, http.StatusOK, trailerResponse{
		URL:  trailer.URL,
		Key:  trailer.Key,
		Name: trailer.Name,
		Site: trailer.Site,
	})
}

func (s *Server) respondLookupError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, app.ErrLookupUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, "LOOKUP_UNAVAILABLE", "Movie lookup is not configured")
	case errors.Is(err, tmdb.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
	default:
		s.respondError(w, http.StatusBadGateway, "LOOKUP_FAILED", message)
	}
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Malformed JSON payload")
	case errors.As(err, &typeError):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", fmt.Sprintf("Invalid value for field %s", typeError.Field))
	case errors.Is(err, io.EOF):
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Request body cannot be empty")
	default:
		s.respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Unable to parse request body")
	}
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		ReleaseDate: movie.ReleaseDate,
		Overview:    movie.Overview,
	}
}

func decodeMovieIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "movieID"))
	if raw == "" {
		return 0, fmt.Errorf("missing movie id parameter")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie id parameter")
	}
	return id, nil
}
