// Package search implements the incremental search navigator: the query
// buffer, the result window over a catalog result set, and key repeat for
// vertical movement.
package search

import "errors"

// ErrNoRow is returned when asking a result set for a row it does not have.
var ErrNoRow = errors.New("no such row")

// Searcher runs a catalog query.
type Searcher interface {
	// Search returns the rows matching text. An empty text yields no rows.
	Search(text string) (Results, error)
}

// Results is a ranked catalog result set. Rows are tab-delimited records
// with at least title, composer and path fields.
type Results interface {
	Len() int
	// Rows returns up to count rows starting at offset.
	Rows(offset, count int) ([]string, error)
	Full(i int) (string, error)
}

// noResults is the empty result set.
type noResults struct{}

func (noResults) Len() int                       { return 0 }
func (noResults) Rows(int, int) ([]string, error) { return nil, nil }
func (noResults) Full(int) (string, error)       { return "", ErrNoRow }
