package httpserver

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Clark-Hu/movie-review/internal/app"
	"github.com/Clark-Hu/movie-review/internal/domain"
)

type ratingRequest struct {
	UserID int64    `json:"userId" validate:"required,gt=0"`
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

type ratingResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	MovieID   int64     `json:"movieId"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

type ratingListResponse struct {
	Items []ratingResponse `json:"items"`
}

type ratingAggregateResponse struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	movieID, err := decodeMovieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	var req ratingRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	rating, err := s.svc.Rate(r.Context(), app.RatingInput{
		UserID:  req.UserID,
		MovieID: movieID,
		Score:   *req.Rating,
	})
	if err != nil {
		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", vErr.Error())
			return
		}
		s.logger.Printf("add rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process rating")
		return
	}

	s.respondJSON(w, http.StatusCreated, toRatingResponse(rating))
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	movieID, err := decodeMovieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	agg, err := s.svc.Rating(r.Context(), movieID)
	if err != nil {
		s.logger.Printf("aggregate rating error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch rating")
		return
	}

	s.respondJSON(w, http.StatusOK, ratingAggregateResponse{
		Average: roundToTwoDecimals(agg.Average),
		Count:   agg.Count,
	})
}

func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	movieID, err := decodeMovieIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	ratings, err := s.svc.History(r.Context(), movieID)
	if err != nil {
		s.logger.Printf("list ratings error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list ratings")
		return
	}

	items := make([]ratingResponse, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, toRatingResponse(rating))
	}
	s.respondJSON(w, http.StatusOK, ratingListResponse{Items: items})
}

func (s *Server) respondValidationError(w http.ResponseWriter, err error) {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
		return
	}
	details := make(map[string]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		details[fe.Field()] = fe.Tag()
	}
	s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "userId must be positive and rating must be between 0 and 5",
		Details: details,
	})
}

func toRatingResponse(rating domain.Rating) ratingResponse {
	return ratingResponse{
		ID:        rating.ID,
		UserID:    rating.UserID,
		MovieID:   rating.MovieID,
		Rating:    rating.Score,
		CreatedAt: rating.CreatedAt,
	}
}

func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
