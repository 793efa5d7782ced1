package openlibrary

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leituraapp/leitura-server/internal/domain"
	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/logger"
)

const searchJSON = `{
  "numFound": 2,
  "docs": [
    {
      "key": "/works/OL893415W",
      "title": "Dune",
      "author_name": ["Frank Herbert", "Someone Else"],
      "cover_i": 11481354,
      "first_publish_year": 1965,
      "number_of_pages_median": 412,
      "isbn": ["0441013597", "9780441013593"]
    },
    {
      "key": "/works/OL000001W",
      "title": "Duneland Sketches"
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.New(logger.Config{Format: "json", Level: slog.LevelError})
	c := NewClient(log.Logger, 10)
	c.baseURL = srv.URL
	return c
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.json", r.URL.Path)
		assert.Equal(t, "dune", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(searchJSON))
	})

	results, err := c.Search(context.Background(), "dune")
	require.NoError(t, err)
	require.Len(t, results, 2)

	got := results[0]
	assert.Equal(t, "/works/OL893415W", got.ExternalID)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author, "first author wins")
	assert.Equal(t, 1965, got.YearPublished)
	assert.Equal(t, "9780441013593", got.ISBN, "prefers ISBN-13")
	assert.Equal(t, "https://covers.openlibrary.org/b/id/11481354-L.jpg", got.CoverURL)

	// Doc with no author gets the placeholder, no cover stays empty.
	assert.Equal(t, domain.UnknownAuthor, results[1].Author)
	assert.Empty(t, results[1].CoverURL)
}

func TestSearch_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Search(context.Background(), "dune")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

func TestCoverURL(t *testing.T) {
	assert.Equal(t, "https://covers.openlibrary.org/b/id/42-S.jpg", CoverURL(42, "S"))
}
