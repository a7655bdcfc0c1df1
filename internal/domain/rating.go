package domain

import "time"

// Rating scores are accepted on a closed 0-5 scale.
const (
	MinScore = 0.0
	MaxScore = 5.0
)

// Rating is one immutable user score for a movie. Re-rating appends a new row.
type Rating struct {
	ID        int64
	UserID    int64
	MovieID   int64
	Score     float64
	CreatedAt time.Time
}

// RatingAggregate provides average and count for a movie's ratings.
// Average is 0 when Count is 0.
type RatingAggregate struct {
	Average float64
	Count   int64
}
