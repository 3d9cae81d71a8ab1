// Package catalog provides the song catalog searched by the navigator:
// a SQLite FTS5 store for large collections, an in-memory trigram store
// for listings, and importers that fill them.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned for listing lines without title, composer and path.
var ErrMalformed = errors.New("malformed catalog record")

// Record is one catalog entry.
type Record struct {
	Title    string
	Composer string
	Path     string // relative to the asset root, forward slashes
	Released string
	Songs    int
}

// Line returns the tab-delimited form handed to the navigator:
// title, composer, path.
func (r Record) Line() string {
	return r.Title + "\t" + r.Composer + "\t" + r.Path
}

// SearchText returns the lowercased text the indexes match against.
func (r Record) SearchText() string {
	return normalize(r.Title + " " + r.Composer + " " + r.Path)
}

// ParseRecord parses a listing line:
// title<TAB>composer<TAB>path[<TAB>released[<TAB>songs]].
func ParseRecord(line string) (Record, error) {
	fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
	if len(fields) < 3 || strings.TrimSpace(fields[2]) == "" {
		return Record{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	rec := Record{
		Title:    strings.TrimSpace(fields[0]),
		Composer: strings.TrimSpace(fields[1]),
		Path:     strings.ReplaceAll(strings.TrimSpace(fields[2]), "\\", "/"),
	}
	if len(fields) > 3 {
		rec.Released = strings.TrimSpace(fields[3])
	}
	if len(fields) > 4 {
		n, err := strconv.Atoi(strings.TrimSpace(fields[4]))
		if err != nil {
			return Record{}, fmt.Errorf("%w: songs %q", ErrMalformed, fields[4])
		}
		rec.Songs = n
	}
	return rec, nil
}
