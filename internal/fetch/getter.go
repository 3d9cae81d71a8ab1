package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const userAgent = "chiptide/1.0 (https://github.com/llehouerou/chiptide)"

// Getter starts fetch jobs against one source. A source is either an HTTP(S)
// base URL, whose files are cached on disk, or a local directory.
type Getter struct {
	base     *url.URL
	root     string
	cacheDir string
	client   *http.Client
	log      *zap.Logger
}

// New creates a getter. baseURL with an http or https scheme selects the
// remote transport; anything else, including "", names a local directory
// (a file:// URL is accepted too).
func New(baseURL, cacheDir string, log *zap.Logger) (*Getter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Getter{
		cacheDir: cacheDir,
		client:   &http.Client{Timeout: 2 * time.Minute},
		log:      log,
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		if cacheDir == "" {
			return nil, errors.New("remote source requires a cache directory")
		}
		g.base = u
	case "file":
		g.root = u.Path
	default:
		g.root = baseURL
	}
	return g, nil
}

// Remote reports whether the getter downloads over HTTP.
func (g *Getter) Remote() bool { return g.base != nil }

// Source describes where assets come from, for display.
func (g *Getter) Source() string {
	if g.base != nil {
		return g.base.String()
	}
	if g.root == "" {
		return "."
	}
	return g.root
}

// Get starts retrieving relPath and returns immediately.
func (g *Getter) Get(ctx context.Context, relPath string) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := newJob(relPath, cancel)

	go func() {
		file, err := g.run(ctx, j)
		if err != nil {
			g.log.Debug("fetch failed", zap.String("path", relPath), zap.Error(err))
		} else {
			g.log.Debug("fetch done", zap.String("path", relPath), zap.String("file", file), zap.Int64("bytes", j.Bytes()))
		}
		j.finish(file, err)
	}()
	return j
}

func (g *Getter) run(ctx context.Context, j *Job) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := cleanRelative(j.path)
	if err != nil {
		return "", err
	}
	if g.base != nil {
		return g.download(ctx, j, rel)
	}

	file := filepath.Join(g.root, filepath.FromSlash(rel))
	st, err := os.Stat(file)
	if err != nil {
		return "", err
	}
	if st.IsDir() {
		return "", fmt.Errorf("%s is a directory", rel)
	}
	j.bytes.Store(st.Size())
	return file, nil
}

// download fetches rel into the cache, reusing a previous copy.
func (g *Getter) download(ctx context.Context, j *Job, rel string) (string, error) {
	dest := filepath.Join(g.cacheDir, filepath.FromSlash(rel))
	if st, err := os.Stat(dest); err == nil && st.Size() > 0 {
		j.bytes.Store(st.Size())
		return dest, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base.JoinPath(rel).String(), http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*")
	if err != nil {
		return "", err
	}
	_, err = io.Copy(io.MultiWriter(tmp, countingWriter{job: j}), resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("read body: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return dest, nil
}

// cleanRelative normalizes a catalog path and rejects ones leaving the root.
func cleanRelative(p string) (string, error) {
	p = strings.TrimLeft(strings.ReplaceAll(p, "\\", "/"), "/")
	if p == "" {
		return "", errors.New("empty path")
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%s: %w", p, ErrOutsideRoot)
		}
	}
	return p, nil
}
