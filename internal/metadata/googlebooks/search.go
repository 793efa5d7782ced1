package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
)

// Search performs a free-text volume search.
func (c *Client) Search(ctx context.Context, query string) ([]domain.BookCandidate, error) {
	return c.search(ctx, query)
}

// SearchTitle searches volumes by title.
func (c *Client) SearchTitle(ctx context.Context, title string) ([]domain.BookCandidate, error) {
	return c.search(ctx, "intitle:"+title)
}

// SearchAuthor searches volumes by author.
func (c *Client) SearchAuthor(ctx context.Context, author string) ([]domain.BookCandidate, error) {
	return c.search(ctx, "inauthor:"+author)
}

// SearchISBN looks up a volume by ISBN-10 or ISBN-13.
func (c *Client) SearchISBN(ctx context.Context, isbn string) ([]domain.BookCandidate, error) {
	return c.search(ctx, "isbn:"+isbn)
}

func (c *Client) search(ctx context.Context, q string) ([]domain.BookCandidate, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", strconv.Itoa(c.limit))
	if c.language != "" {
		params.Set("langRestrict", c.language)
	}

	searchURL := c.baseURL + "/volumes?" + params.Encode()

	c.logger.Debug("searching Google Books",
		"query", q,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainerrors.Unavailable("Google Books").WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domainerrors.Unavailable("Google Books").
			WithCause(fmt.Errorf("search failed: status %d", resp.StatusCode))
	}

	var searchResp volumesResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	candidates := make([]domain.BookCandidate, 0, len(searchResp.Items))
	for i := range searchResp.Items {
		candidates = append(candidates, candidateFromVolume(&searchResp.Items[i]))
	}
	return candidates, nil
}

// GetVolume fetches a single volume by its Google Books ID.
func (c *Client) GetVolume(ctx context.Context, volumeID string) (domain.BookCandidate, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return domain.BookCandidate{}, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/volumes/"+url.PathEscape(volumeID), nil)
	if err != nil {
		return domain.BookCandidate{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BookCandidate{}, domainerrors.Unavailable("Google Books").WithCause(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return domain.BookCandidate{}, domainerrors.NotFoundf("volume %s not found", volumeID)
	default:
		return domain.BookCandidate{}, domainerrors.Unavailable("Google Books").
			WithCause(fmt.Errorf("get volume failed: status %d", resp.StatusCode))
	}

	var vol volume
	if err := json.UnmarshalRead(resp.Body, &vol); err != nil {
		return domain.BookCandidate{}, fmt.Errorf("parse response: %w", err)
	}

	return candidateFromVolume(&vol), nil
}

func candidateFromVolume(v *volume) domain.BookCandidate {
	info := &v.VolumeInfo

	c := domain.BookCandidate{
		ExternalID:  v.ID,
		Title:       info.Title,
		Author:      strings.Join(info.Authors, ", "),
		Description: info.Description,
		Pages:       info.PageCount,
		CoverURL:    cleanCoverURL(info.ImageLinks.Thumbnail),
	}
	if c.CoverURL == "" {
		c.CoverURL = cleanCoverURL(info.ImageLinks.SmallThumbnail)
	}

	// publishedDate may be "2005", "2005-06" or "2005-06-01".
	if len(info.PublishedDate) >= 4 {
		if year, err := strconv.Atoi(info.PublishedDate[:4]); err == nil {
			c.YearPublished = year
		}
	}

	// Prefer ISBN-13 over ISBN-10.
	for _, ident := range info.IndustryIdentifiers {
		if ident.Type == "ISBN_13" {
			c.ISBN = ident.Identifier
			break
		}
		if ident.Type == "ISBN_10" && c.ISBN == "" {
			c.ISBN = ident.Identifier
		}
	}

	return c.Normalize()
}

// cleanCoverURL upgrades thumbnail links to https and drops the page-curl
// effect Google adds to some covers.
func cleanCoverURL(raw string) string {
	if raw == "" {
		return ""
	}
	raw = strings.Replace(raw, "http://", "https://", 1)
	raw = strings.ReplaceAll(raw, "&edge=curl", "")
	return raw
}
