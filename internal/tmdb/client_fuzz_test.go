package tmdb

import (
	"strings"
	"testing"
)

func FuzzFirstTrailer(f *testing.F) {
	f.Add("Teaser", "abc", "Trailer", "def")
	f.Add("Trailer", "x y", "Trailer", "z")

	f.Fuzz(func(t *testing.T, firstType, firstKey, secondType, secondKey string) {
		payload := videosResponse{Results: []videoResult{
			{Type: firstType, Key: firstKey},
			{Type: secondType, Key: secondKey},
		}}

		trailer, ok := firstTrailer(payload)
		wantOK := firstType == trailerType || secondType == trailerType
		if ok != wantOK {
			t.Fatalf("firstTrailer ok = %v, want %v", ok, wantOK)
		}
		if !ok {
			return
		}
		wantKey := secondKey
		if firstType == trailerType {
			wantKey = firstKey
		}
		if trailer.Key != wantKey {
			t.Fatalf("trailer key = %q, want %q", trailer.Key, wantKey)
		}
		if !strings.HasPrefix(trailer.URL, TrailerBaseURL) {
			t.Fatalf("trailer url %q lacks prefix", trailer.URL)
		}
	})
}

func FuzzConvertSearchResults(f *testing.F) {
	f.Add(int64(603), "The Matrix", "1999-03-30")

	f.Fuzz(func(t *testing.T, id int64, title, releaseDate string) {
		movies := convertSearchResults(searchResponse{Results: []searchResult{{ID: id, Title: title, ReleaseDate: releaseDate}}})
		if len(movies) != 1 {
			t.Fatalf("len(movies) = %d, want 1", len(movies))
		}
		if movies[0].ID != id || movies[0].Title != title {
			t.Fatalf("conversion changed fields: %+v", movies[0])
		}
		if empty := convertSearchResults(searchResponse{}); empty == nil {
			t.Fatalf("empty conversion must be non-nil")
		}
	})
}
