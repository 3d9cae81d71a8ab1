package search

import (
	"errors"
	"fmt"
	"strings"
)

// fakeSearcher returns n generated rows for any non-empty query.
type fakeSearcher struct {
	rows    []string
	err     error
	queries []string
}

func newFakeSearcher(n int) *fakeSearcher {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("Title %d\tComposer %d\tC64/song%d.sid", i, i, i)
	}
	return &fakeSearcher{rows: rows}
}

func (f *fakeSearcher) Search(text string) (Results, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	if strings.TrimSpace(text) == "" {
		return sliceResults(nil), nil
	}
	return sliceResults(f.rows), nil
}

type sliceResults []string

func (s sliceResults) Len() int { return len(s) }

func (s sliceResults) Rows(offset, count int) ([]string, error) {
	end := min(offset+count, len(s))
	if offset >= end {
		return nil, nil
	}
	return s[offset:end], nil
}

func (s sliceResults) Full(i int) (string, error) {
	if i < 0 || i >= len(s) {
		return "", ErrNoRow
	}
	return s[i], nil
}

var errCatalog = errors.New("catalog unavailable")
