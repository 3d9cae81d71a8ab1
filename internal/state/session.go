package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/chiptide/internal/db"
)

// Session is what is restored on the next start.
type Session struct {
	Query     string
	AssetPath string // relative catalog path of the last loaded asset
	Song      int
}

func getSession(db *sql.DB) (*Session, error) {
	row := db.QueryRow(`SELECT query, asset_path, song FROM session_state WHERE id = 1`)

	var s Session
	var assetPath sql.NullString
	err := row.Scan(&s.Query, &assetPath, &s.Song)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved state is valid on first run
	}
	if err != nil {
		return nil, err
	}
	s.AssetPath = dbutil.NullStringValue(assetPath)
	return &s, nil
}

func saveSession(db *sql.DB, s Session) error {
	var assetPath sql.NullString
	if s.AssetPath != "" {
		assetPath = sql.NullString{String: s.AssetPath, Valid: true}
	}
	_, err := db.Exec(`
		INSERT INTO session_state (id, query, asset_path, song, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			query = excluded.query,
			asset_path = excluded.asset_path,
			song = excluded.song,
			updated_at = excluded.updated_at
	`, s.Query, assetPath, s.Song, time.Now().Unix())
	return err
}
