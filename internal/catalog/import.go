package catalog

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/llehouerou/chiptide/internal/chip"
)

// ReadListing parses a tab-separated listing, one record per line.
// Blank lines and lines starting with '#' are ignored; malformed lines are
// logged and skipped.
func ReadListing(r io.Reader, log *zap.Logger) ([]Record, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var records []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			log.Debug("skipping listing line", zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, sc.Err()
}

// ScanDir walks root and builds a record for every playable file, using the
// PSID header for SID tunes and embedded tags for decoded formats.
// Paths are stored relative to root with forward slashes.
func ScanDir(ctx context.Context, root string, log *zap.Logger) ([]Record, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var records []Record
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !chip.Supported(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rec, err := recordFor(path)
		if err != nil {
			log.Debug("skipping file", zap.String("path", path), zap.Error(err))
			return nil
		}
		rec.Path = filepath.ToSlash(rel)
		records = append(records, rec)
		return nil
	})
	return records, err
}

func recordFor(path string) (Record, error) {
	if strings.EqualFold(filepath.Ext(path), ".sid") {
		h, err := chip.ReadSIDHeader(path)
		if err != nil {
			return Record{}, err
		}
		return Record{
			Title:    h.Name,
			Composer: h.Author,
			Released: h.Released,
			Songs:    int(h.Songs),
		}, nil
	}

	meta := chip.ReadTags(path)
	return Record{
		Title:    meta[chip.MetaTitle],
		Composer: meta[chip.MetaComposer],
		Released: meta[chip.MetaCopyright],
		Songs:    1,
	}, nil
}
