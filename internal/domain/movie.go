package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// labelSeparator joins a movie id and title in list labels ("42 - Heat").
const labelSeparator = " - "

// Movie is a search hit returned by the movie-metadata provider. It is never
// stored locally.
type Movie struct {
	ID          int64
	Title       string
	ReleaseDate string
	Overview    string
}

// Label renders the movie the way selection lists display it.
func (m Movie) Label() string {
	return strconv.FormatInt(m.ID, 10) + labelSeparator + m.Title
}

// ParseMovieLabel extracts the movie id from either a bare id or a label
// produced by Movie.Label.
func ParseMovieLabel(label string) (int64, error) {
	raw := strings.TrimSpace(label)
	if idx := strings.Index(raw, labelSeparator); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &ValidationError{Field: "movieId", Message: fmt.Sprintf("%q is not a movie id", label)}
	}
	return id, nil
}

// Trailer references a playable video for a movie.
type Trailer struct {
	Key  string
	Name string
	Site string
	URL  string
}
