package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/chiptide/internal/search"
)

func TestGenerateTrigrams(t *testing.T) {
	tris := generateTrigrams("cat")
	for _, want := range []string{"  c", " ca", "cat", "at ", "t  "} {
		assert.Contains(t, tris, want)
	}
	assert.NotContains(t, tris, "   ")
	assert.Nil(t, generateTrigrams(""))
}

func TestTrigramCoverage(t *testing.T) {
	q := generateTrigrams("hub")
	assert.InDelta(t, 1.0, trigramCoverage(q, generateTrigrams("hub")), 1e-9)
	assert.InDelta(t, 0.0, trigramCoverage(q, generateTrigrams("xyz")), 1e-9)
	assert.InDelta(t, 0.0, trigramCoverage(nil, q), 1e-9)
}

func TestMemory_Search_EmptyQuery(t *testing.T) {
	m := NewMemory(testRecords)

	res, err := m.Search("")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())
	assert.Equal(t, len(testRecords), m.Len())
}

func TestMemory_Search_SingleWord(t *testing.T) {
	m := NewMemory(testRecords)

	res, err := m.Search("Hubbard")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Len())
}

func TestMemory_Search_MultiWord(t *testing.T) {
	m := NewMemory(testRecords)

	res, err := m.Search("tel cyber")
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())

	full, err := res.Full(0)
	require.NoError(t, err)
	assert.Equal(t, testRecords[3].Line(), full)
}

func TestMemory_Search_NoMatch(t *testing.T) {
	m := NewMemory(testRecords)

	res, err := m.Search("galway")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Len())

	_, err = res.Full(0)
	assert.ErrorIs(t, err, search.ErrNoRow)
}

func TestMemory_Search_AllWordsMustMatch(t *testing.T) {
	m := NewMemory([]Record{
		{Title: "Ninjas", Composer: "Nobody", Path: "a.sid"},
		{Title: "Last Ninja", Composer: "Ben Daglish", Path: "b.sid"},
	})

	res, err := m.Search("last ninja")
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	assert.Contains(t, mustRows(t, res, 0, 1)[0], "Last Ninja")
}

func TestMemoryResults_Rows(t *testing.T) {
	m := NewMemory(testRecords)
	res, err := m.Search("musicians")
	require.NoError(t, err)
	require.Equal(t, 4, res.Len())

	assert.Len(t, mustRows(t, res, 2, 10), 2)
	assert.Empty(t, mustRows(t, res, 9, 10))
	assert.Empty(t, mustRows(t, res, -3, 0))
}

func TestWindow(t *testing.T) {
	tests := []struct {
		offset, count, n int
		start, end       int
	}{
		{0, 5, 10, 0, 5},
		{8, 5, 10, 8, 10},
		{12, 5, 10, 10, 10},
		{-2, 3, 10, 0, 3},
		{0, -1, 10, 0, 0},
		{0, 5, 0, 0, 0},
	}
	for _, tt := range tests {
		start, end := window(tt.offset, tt.count, tt.n)
		assert.Equal(t, tt.start, start)
		assert.Equal(t, tt.end, end)
	}
}

func mustRows(t *testing.T, res search.Results, offset, count int) []string {
	t.Helper()
	rows, err := res.Rows(offset, count)
	require.NoError(t, err)
	return rows
}
