// Package goodreads parses Goodreads library export CSV files.
package goodreads

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/leituraapp/leitura-server/internal/domain"
)

// Row is one parsed line of a Goodreads export, mapped to our domain.
type Row struct {
	DateRead   *time.Time
	DateAdded  *time.Time
	Rating     *int
	Title      string
	Author     string
	ISBN       string
	ISBN13     string
	Shelves    string
	Status     domain.Status
	Pages      int
	LineNumber int
}

// Candidate converts the row into a book candidate for resolution.
// Goodreads exports carry no external catalog ID, so matching falls back to
// title and author.
func (r Row) Candidate() domain.BookCandidate {
	isbn := r.ISBN13
	if isbn == "" {
		isbn = r.ISBN
	}
	return domain.BookCandidate{
		Title:  r.Title,
		Author: r.Author,
		ISBN:   isbn,
		Pages:  r.Pages,
	}.Normalize()
}

// Goodreads export column headers we care about. The export has ~30 columns;
// the rest are ignored.
const (
	colTitle          = "Title"
	colAuthor         = "Author"
	colAuthorLF       = "Author l-f"
	colISBN           = "ISBN"
	colISBN13         = "ISBN13"
	colMyRating       = "My Rating"
	colPages          = "Number of Pages"
	colDateRead       = "Date Read"
	colDateAdded      = "Date Added"
	colExclusiveShelf = "Exclusive Shelf"
	colBookshelves    = "Bookshelves"
)

// goodreadsDateLayout is the date format used in export files.
const goodreadsDateLayout = "2006/01/02"

// Parse reads a Goodreads export CSV and returns one Row per book with a
// non-empty title. A UTF-8 BOM, which Goodreads sometimes emits, is stripped.
// Rows with the wrong field count are reported by the csv reader as errors;
// a missing Title header is an error since nothing useful can be imported
// without it.
func Parse(r io.Reader) ([]Row, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1 // header decides; exports vary across Goodreads versions

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty export file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols[colTitle]; !ok {
		return nil, fmt.Errorf("not a Goodreads export: missing %q column", colTitle)
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		title := field(record, colTitle)
		if title == "" {
			continue
		}

		// Older exports carry only the "last, first" author column.
		author := field(record, colAuthor)
		if author == "" {
			author = field(record, colAuthorLF)
		}

		row := Row{
			LineNumber: line,
			Title:      title,
			Author:     author,
			ISBN:       cleanISBN(field(record, colISBN)),
			ISBN13:     cleanISBN(field(record, colISBN13)),
			Shelves:    field(record, colBookshelves),
		}

		if pages, err := strconv.Atoi(field(record, colPages)); err == nil && pages > 0 {
			row.Pages = pages
		}
		if rating, err := strconv.Atoi(field(record, colMyRating)); err == nil && domain.ValidRating(rating) {
			row.Rating = &rating
		}
		row.DateRead = parseDate(field(record, colDateRead))
		row.DateAdded = parseDate(field(record, colDateAdded))

		// Exports without an "Exclusive Shelf" column still list the shelf
		// names under "Bookshelves".
		shelf := field(record, colExclusiveShelf)
		if shelf == "" {
			shelf = row.Shelves
		}
		row.Status = mapShelf(shelf)

		rows = append(rows, row)
	}

	return rows, nil
}

// mapShelf converts a Goodreads exclusive shelf name to a shelf status.
// Custom exclusive shelves fall back to "want".
func mapShelf(shelf string) domain.Status {
	shelf = strings.ToLower(shelf)
	switch {
	case strings.Contains(shelf, "currently-reading"):
		return domain.StatusReading
	case strings.Contains(shelf, "to-read"):
		return domain.StatusWant
	case strings.Contains(shelf, "read"):
		return domain.StatusRead
	default:
		return domain.StatusWant
	}
}

// cleanISBN strips the ="..." wrapper Goodreads uses to stop spreadsheets
// from eating leading zeros.
func cleanISBN(s string) string {
	s = strings.TrimPrefix(s, "=")
	s = strings.Trim(s, `"`)
	return strings.TrimSpace(s)
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(goodreadsDateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
