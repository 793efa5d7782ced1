package googlebooks

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/leituraapp/leitura-server/internal/errors"
	"github.com/leituraapp/leitura-server/internal/logger"
)

const volumesJSON = `{
  "totalItems": 1,
  "items": [
    {
      "id": "gk6PEAAAQBAJ",
      "volumeInfo": {
        "title": "Dune",
        "authors": ["Frank Herbert"],
        "publishedDate": "1965-08-01",
        "description": "A desert planet.",
        "pageCount": 412,
        "industryIdentifiers": [
          {"type": "ISBN_10", "identifier": "0441013597"},
          {"type": "ISBN_13", "identifier": "9780441013593"}
        ],
        "imageLinks": {
          "thumbnail": "http://books.google.com/books/content?id=gk6PEAAAQBAJ&zoom=1&edge=curl&source=gbs_api"
        }
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := logger.New(logger.Config{Format: "json", Level: slog.LevelError})
	c := NewClient(log.Logger, "", 10)
	c.baseURL = srv.URL
	return c
}

func TestSearch(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(volumesJSON))
	})

	results, err := c.SearchTitle(context.Background(), "Dune")
	require.NoError(t, err)
	assert.Equal(t, "intitle:Dune", gotQuery)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "gk6PEAAAQBAJ", got.ExternalID)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.Equal(t, 1965, got.YearPublished)
	assert.Equal(t, 412, got.Pages)
	assert.Equal(t, "9780441013593", got.ISBN, "prefers ISBN-13")
	assert.Contains(t, got.CoverURL, "https://")
	assert.NotContains(t, got.CoverURL, "edge=curl")
}

func TestSearch_EmptyResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	})

	results, err := c.Search(context.Background(), "nothing matches this")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Search(context.Background(), "dune")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnavailable))
}

func TestGetVolume(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/volumes/gk6PEAAAQBAJ", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "gk6PEAAAQBAJ", "volumeInfo": {"title": "Dune", "authors": ["Frank Herbert"]}}`))
	})

	got, err := c.GetVolume(context.Background(), "gk6PEAAAQBAJ")
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
}

func TestGetVolume_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.GetVolume(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCleanCoverURL(t *testing.T) {
	assert.Equal(t, "", cleanCoverURL(""))
	assert.Equal(t,
		"https://books.google.com/books?id=x&zoom=1",
		cleanCoverURL("http://books.google.com/books?id=x&zoom=1&edge=curl"),
	)
}
