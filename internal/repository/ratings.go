package repository

import (
	"fmt"
	"math"

	"github.com/Clark-Hu/movie-review/internal/domain"
)

// RatingCreateParams captures the payload required to append a rating.
type RatingCreateParams struct {
	UserID  int64
	MovieID int64
	Score   float64
}

// Validate enforces identifier positivity and the 0-5 score range.
func (p RatingCreateParams) Validate() error {
	if p.UserID <= 0 {
		return &domain.ValidationError{Field: "userId", Message: "must be a positive integer"}
	}
	if p.MovieID <= 0 {
		return &domain.ValidationError{Field: "movieId", Message: "must be a positive integer"}
	}
	if math.IsNaN(p.Score) || math.IsInf(p.Score, 0) {
		return &domain.ValidationError{Field: "score", Message: "must be a finite number"}
	}
	if p.Score < domain.MinScore || p.Score > domain.MaxScore {
		return &domain.ValidationError{
			Field:   "score",
			Message: fmt.Sprintf("must be between %g and %g", domain.MinScore, domain.MaxScore),
		}
	}
	return nil
}
