package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Clark-Hu/movie-review/internal/domain"
)

// TrailerBaseURL prefixes a YouTube video key to form a playable link.
const TrailerBaseURL = "https://www.youtube.com/watch?v="

const trailerType = "Trailer"

var (
	// ErrLookupFailed covers unreachable providers, non-2xx answers and
	// undecodable bodies. It is never used for "no results".
	ErrLookupFailed = errors.New("tmdb: lookup failed")
	// ErrNotAvailable is returned when a movie has no video of type Trailer.
	ErrNotAvailable = errors.New("tmdb: trailer not available")
	// ErrNotFound is returned when the provider does not know the movie id.
	ErrNotFound = errors.New("tmdb: not found")
)

// Client defines the contract for querying the movie-metadata provider.
type Client interface {
	SearchMovies(ctx context.Context, query string) ([]domain.Movie, error)
	Trailer(ctx context.Context, movieID int64) (domain.Trailer, error)
	TrailerURL(ctx context.Context, movieID int64) (string, error)
}

// Options tunes the HTTP client.
type Options struct {
	Language  string
	Timeout   time.Duration
	RateLimit float64
	RateBurst int
	Logger    *log.Logger
}

// HTTPClient implements Client over the TMDB v3 REST API.
type HTTPClient struct {
	baseURL  *url.URL
	apiKey   string
	language string
	client   *http.Client
	limiter  *rate.Limiter
	logger   *log.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs a new HTTP-backed provider client.
func NewHTTPClient(baseURL, apiKey string, opts Options) (*HTTPClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse tmdb url: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &HTTPClient{
		baseURL:  parsed,
		apiKey:   apiKey,
		language: strings.TrimSpace(opts.Language),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// SearchMovies returns the movies matching query. An empty result list is not an error.
func (c *HTTPClient) SearchMovies(ctx context.Context, query string) ([]domain.Movie, error) {
	params := url.Values{}
	params.Set("query", query)
	if c.language != "" {
		params.Set("language", c.language)
	}

	var payload searchResponse
	if err := c.getJSON(ctx, "/search/movie", params, &payload); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return convertSearchResults(payload), nil
}

// Trailer returns the first video of type Trailer in provider order.
func (c *HTTPClient) Trailer(ctx context.Context, movieID int64) (domain.Trailer, error) {
	var payload videosResponse
	path := "/movie/" + strconv.FormatInt(movieID, 10) + "/videos"
	if err := c.getJSON(ctx, path, url.Values{}, &payload); err != nil {
		return domain.Trailer{}, fmt.Errorf("videos for movie %d: %w", movieID, err)
	}
	trailer, ok := firstTrailer(payload)
	if !ok {
		return domain.Trailer{}, ErrNotAvailable
	}
	return trailer, nil
}

// TrailerURL returns only the playback link of Trailer.
func (c *HTTPClient) TrailerURL(ctx context.Context, movieID int64) (string, error) {
	trailer, err := c.Trailer(ctx, movieID)
	if err != nil {
		return "", err
	}
	return trailer.URL, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, params url.Values, dst interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", ErrLookupFailed, err)
	}

	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	params.Set("api_key", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrLookupFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		c.logger.Printf("tmdb: GET %s failed after %v: %v", path, latency, err)
		return fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrLookupFailed, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Printf("tmdb: unexpected status %d for %s (latency=%v)", resp.StatusCode, path, latency)
		return fmt.Errorf("%w: upstream returned %d", ErrLookupFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrLookupFailed, err)
	}
	return nil
}

type searchResponse struct {
	Page         int            `json:"page"`
	Results      []searchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type searchResult struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
}

type videosResponse struct {
	ID      int64         `json:"id"`
	Results []videoResult `json:"results"`
}

type videoResult struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

func convertSearchResults(payload searchResponse) []domain.Movie {
	movies := make([]domain.Movie, 0, len(payload.Results))
	for _, result := range payload.Results {
		movies = append(movies, domain.Movie{
			ID:          result.ID,
			Title:       result.Title,
			ReleaseDate: result.ReleaseDate,
			Overview:    result.Overview,
		})
	}
	return movies
}

func firstTrailer(payload videosResponse) (domain.Trailer, bool) {
	for _, video := range payload.Results {
		if video.Type != trailerType {
			continue
		}
		return domain.Trailer{
			Key:  video.Key,
			Name: video.Name,
			Site: video.Site,
			URL:  TrailerBaseURL + url.QueryEscape(video.Key),
		}, true
	}
	return domain.Trailer{}, false
}
