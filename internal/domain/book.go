// Package domain contains the core business entities and domain logic for the Leitura reading tracker.
package domain

import (
	"strings"
	"time"
)

// Book represents canonical book metadata shared by all users.
// Books are created lazily the first time anyone references them and are
// never deleted; user-specific state lives on ShelfEntry.
type Book struct {
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	ID            string    `json:"id"`
	ExternalID    string    `json:"external_id,omitempty"` // Catalog provider identifier (Google volume ID or Open Library key)
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Description   string    `json:"description,omitempty"`
	ISBN          string    `json:"isbn,omitempty"`
	YearPublished int       `json:"year_published,omitempty"`
	Pages         int       `json:"pages,omitempty"`
}

// UnknownAuthor is the placeholder used when a catalog provider returns no author.
const UnknownAuthor = "Unknown author"

// BookCandidate is loosely-structured metadata from a catalog provider or an
// import row, used to resolve or create a canonical Book.
type BookCandidate struct {
	ExternalID    string `json:"external_id,omitempty"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	CoverURL      string `json:"cover_url,omitempty"`
	Description   string `json:"description,omitempty"`
	ISBN          string `json:"isbn,omitempty"`
	YearPublished int    `json:"year_published,omitempty"`
	Pages         int    `json:"pages,omitempty"`
}

// Normalize trims whitespace and fills the author placeholder.
// Returns a copy; the receiver is not modified.
func (c BookCandidate) Normalize() BookCandidate {
	c.ExternalID = strings.TrimSpace(c.ExternalID)
	c.Title = strings.TrimSpace(c.Title)
	c.Author = strings.TrimSpace(c.Author)
	if c.Author == "" {
		c.Author = UnknownAuthor
	}
	return c
}

// Valid reports whether the candidate has the minimum fields to become a Book.
func (c BookCandidate) Valid() bool {
	return strings.TrimSpace(c.Title) != ""
}
