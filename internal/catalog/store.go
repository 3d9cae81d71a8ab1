package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/llehouerou/chiptide/internal/db"
	"github.com/llehouerou/chiptide/internal/search"
)

const schema = `
CREATE TABLE IF NOT EXISTS songs (
	id       INTEGER PRIMARY KEY,
	path     TEXT NOT NULL UNIQUE,
	title    TEXT NOT NULL DEFAULT '',
	composer TEXT NOT NULL DEFAULT '',
	released TEXT NOT NULL DEFAULT '',
	songs    INTEGER NOT NULL DEFAULT 0
);

CREATE VIRTUAL TABLE IF NOT EXISTS songs_fts USING fts5(
	search_text,
	tokenize='trigram'
);
`

// Store is a SQLite catalog with an FTS5 trigram index.
// The FTS rowid is the songs.id of the record.
type Store struct {
	db *sql.DB
}

var _ search.Searcher = (*Store)(nil)

// Open opens (creating if needed) the catalog database at path.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return &Store{db: conn}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Count returns the number of records in the catalog.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM songs`).Scan(&n)
	return n, err
}

// Import upserts records keyed by path and refreshes their index entries.
// It returns the number of records written.
func (s *Store) Import(ctx context.Context, records []Record) (int, error) {
	written := 0
	err := db.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		upsert, err := tx.PrepareContext(ctx, `
			INSERT INTO songs (path, title, composer, released, songs)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(path) DO UPDATE SET
				title = excluded.title,
				composer = excluded.composer,
				released = excluded.released,
				songs = excluded.songs
			RETURNING id`)
		if err != nil {
			return err
		}
		defer upsert.Close()

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			var id int64
			if err := upsert.QueryRowContext(ctx,
				rec.Path, rec.Title, rec.Composer, rec.Released, rec.Songs,
			).Scan(&id); err != nil {
				return fmt.Errorf("import %s: %w", rec.Path, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM songs_fts WHERE rowid = ?`, id); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO songs_fts (rowid, search_text) VALUES (?, ?)`,
				id, rec.SearchText(),
			); err != nil {
				return err
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// Search returns the ids of records matching every word of text.
// Words of three or more characters go through the trigram index ranked by
// bm25; shorter words fall back to LIKE filtering in catalog order.
func (s *Store) Search(text string) (search.Results, error) {
	words := strings.Fields(normalize(text))
	if len(words) == 0 {
		return &storeResults{db: s.db}, nil
	}

	var rows *sql.Rows
	var err error
	if allTrigrams(words) {
		rows, err = s.db.Query(
			`SELECT rowid FROM songs_fts WHERE search_text MATCH ? ORDER BY rank`,
			escapeFTSQuery(words),
		)
	} else {
		clauses := make([]string, len(words))
		args := make([]any, len(words))
		for i, w := range words {
			clauses[i] = `search_text LIKE ? ESCAPE '\'`
			args[i] = "%" + escapeLike(w) + "%"
		}
		rows, err = s.db.Query(
			`SELECT rowid FROM songs_fts WHERE `+strings.Join(clauses, " AND ")+` ORDER BY rowid`,
			args...,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", text, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &storeResults{db: s.db, ids: ids}, nil
}

func allTrigrams(words []string) bool {
	for _, w := range words {
		if len([]rune(w)) < 3 {
			return false
		}
	}
	return true
}

// escapeFTSQuery quotes each word so FTS5 operators are matched literally.
func escapeFTSQuery(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// storeResults is a ranked id list; rows are read on demand.
type storeResults struct {
	db  *sql.DB
	ids []int64
}

func (r *storeResults) Len() int { return len(r.ids) }

func (r *storeResults) Rows(offset, count int) ([]string, error) {
	offset, end := window(offset, count, len(r.ids))
	ids := r.ids[offset:end]
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.Query(
		`SELECT id, title, composer, path FROM songs WHERE id IN (`+db.Placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var rec Record
		if err := rows.Scan(&id, &rec.Title, &rec.Composer, &rec.Path); err != nil {
			return nil, err
		}
		byID[id] = rec.Line()
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		if line, ok := byID[id]; ok {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r *storeResults) Full(i int) (string, error) {
	if i < 0 || i >= len(r.ids) {
		return "", fmt.Errorf("row %d: %w", i, search.ErrNoRow)
	}
	var rec Record
	err := r.db.QueryRow(
		`SELECT title, composer, path FROM songs WHERE id = ?`, r.ids[i],
	).Scan(&rec.Title, &rec.Composer, &rec.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("row %d: %w", i, search.ErrNoRow)
	}
	if err != nil {
		return "", err
	}
	return rec.Line(), nil
}
