package catalog

import (
	"fmt"

	"github.com/llehouerou/chiptide/internal/search"
)

// Memory is an in-memory catalog ranked by trigram coverage.
// It is read-only after construction and safe for concurrent searches.
type Memory struct {
	records []Record
	matcher *trigramMatcher
}

var _ search.Searcher = (*Memory)(nil)

// NewMemory indexes the given records.
func NewMemory(records []Record) *Memory {
	return &Memory{
		records: records,
		matcher: newTrigramMatcher(records),
	}
}

// Len returns the number of indexed records.
func (m *Memory) Len() int {
	return len(m.records)
}

// Search returns the records matching every word of text.
func (m *Memory) Search(text string) (search.Results, error) {
	matches := m.matcher.search(text)
	rows := make([]Record, len(matches))
	for i, mt := range matches {
		rows[i] = m.records[mt.index]
	}
	return memoryResults(rows), nil
}

type memoryResults []Record

func (r memoryResults) Len() int { return len(r) }

func (r memoryResults) Rows(offset, count int) ([]string, error) {
	offset, end := window(offset, count, len(r))
	lines := make([]string, 0, end-offset)
	for _, rec := range r[offset:end] {
		lines = append(lines, rec.Line())
	}
	return lines, nil
}

func (r memoryResults) Full(i int) (string, error) {
	if i < 0 || i >= len(r) {
		return "", fmt.Errorf("row %d: %w", i, search.ErrNoRow)
	}
	return r[i].Line(), nil
}

// window clamps [offset, offset+count) to [0, n).
func window(offset, count, n int) (int, int) {
	offset = max(offset, 0)
	offset = min(offset, n)
	end := min(offset+max(count, 0), n)
	return offset, end
}
