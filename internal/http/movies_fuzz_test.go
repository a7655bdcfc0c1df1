package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func FuzzDecodeMovieIDParam(f *testing.F) {
	for _, seed := range []string{"42", "0", "-1", "abc", "9223372036854775808", " 7 "} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("movieID", raw)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

		id, err := decodeMovieIDParam(req)
		if err == nil && id <= 0 {
			t.Fatalf("accepted non-positive id %d from %q", id, raw)
		}
	})
}
