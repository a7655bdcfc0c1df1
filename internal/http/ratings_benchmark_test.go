package httpserver

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"
)

func BenchmarkHandleSubmitRating(b *testing.B) {
	srv := buildTestServer(b, fakeLookup{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		payload := []byte(fmt.Sprintf(`{"userId":%d,"rating":4.0}`, i+1))
		rec := serve(srv, http.MethodPost, "/movies/1/ratings", bytes.NewReader(payload))
		if rec.Code != http.StatusCreated {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}
