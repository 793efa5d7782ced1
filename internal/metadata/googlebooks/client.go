// Package googlebooks provides access to the Google Books volumes API.
package googlebooks

import (
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://www.googleapis.com/books/v1"

// Client is a rate-limited Google Books API client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	language    string
	limit       int
}

// NewClient creates a new Google Books client.
// The API allows roughly 100 unauthenticated requests per 100 seconds;
// 1 req/s with a small burst stays comfortably under that.
func NewClient(logger *slog.Logger, language string, limit int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
		logger:      logger,
		baseURL:     defaultBaseURL,
		language:    language,
		limit:       limit,
	}
}
