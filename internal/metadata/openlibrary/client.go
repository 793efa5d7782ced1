// Package openlibrary provides access to the Open Library search API.
package openlibrary

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	coversBaseURL  = "https://covers.openlibrary.org"
)

// Client is a rate-limited Open Library client.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
	limit       int
}

// NewClient creates a new Open Library client.
// Open Library asks clients to stay under 100 requests per 5 minutes.
func NewClient(logger *slog.Logger, limit int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(3*time.Second), 5),
		logger:      logger,
		baseURL:     defaultBaseURL,
		limit:       limit,
	}
}

// searchResponse is the raw response from /search.json.
type searchResponse struct {
	Docs     []searchDoc `json:"docs"`
	NumFound int         `json:"numFound"`
}

type searchDoc struct {
	Key              string   `json:"key"` // e.g. /works/OL893415W
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	CoverID          int      `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
	MedianPages      int      `json:"number_of_pages_median"`
	ISBN             []string `json:"isbn"`
}

// Search performs a free-text work search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.BookCandidate, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(c.limit))

	searchURL := c.baseURL + "/search.json?" + params.Encode()

	c.logger.Debug("searching Open Library",
		"query", query,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Unavailable("Open Library").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Unavailable("Open Library").
			WithCause(fmt.Errorf("search failed: status %d", resp.StatusCode))
	}

	var searchResp searchResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	candidates := make([]domain.BookCandidate, 0, len(searchResp.Docs))
	for i := range searchResp.Docs {
		candidates = append(candidates, candidateFromDoc(&searchResp.Docs[i]))
	}
	return candidates, nil
}

func candidateFromDoc(d *searchDoc) domain.BookCandidate {
	c := domain.BookCandidate{
		ExternalID:    d.Key,
		Title:         d.Title,
		YearPublished: d.FirstPublishYear,
		Pages:         d.MedianPages,
	}
	if len(d.AuthorName) > 0 {
		c.Author = d.AuthorName[0]
	}
	if d.CoverID > 0 {
		c.CoverURL = CoverURL(d.CoverID, "L")
	}
	if len(d.ISBN) > 0 {
		// Prefer an ISBN-13 when the doc lists both forms.
		c.ISBN = d.ISBN[0]
		for _, isbn := range d.ISBN {
			if len(isbn) == 13 {
				c.ISBN = isbn
				break
			}
		}
	}
	return c.Normalize()
}

// CoverURL builds a cover image URL for a cover ID.
// Size is "S", "M" or "L".
func CoverURL(coverID int, size string) string {
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", coversBaseURL, coverID, size)
}
