package session

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llehouerou/chiptide/internal/chip"
	"github.com/llehouerou/chiptide/internal/fetch"
	"github.com/llehouerou/chiptide/internal/grid"
	"github.com/llehouerou/chiptide/internal/keymap"
	"github.com/llehouerou/chiptide/internal/playback"
	"github.com/llehouerou/chiptide/internal/search"
	"github.com/llehouerou/chiptide/internal/state"
)

// scriptedInput yields queued keys, one per Poll, and a fixed held set.
type scriptedInput struct {
	keys []keymap.Key
	held map[keymap.Key]bool
}

func (in *scriptedInput) push(keys ...keymap.Key) {
	in.keys = append(in.keys, keys...)
}

func (in *scriptedInput) Poll() keymap.Key {
	if len(in.keys) == 0 {
		return keymap.NoKey
	}
	k := in.keys[0]
	in.keys = in.keys[1:]
	return k
}

func (in *scriptedInput) Held(k keymap.Key) bool { return in.held[k] }

// frames counts presented grids.
type frames struct {
	count int
	last  []string
}

func (f *frames) Present(g *grid.Grid) {
	f.count++
	f.last = g.Lines()
}

// rowsSearcher returns fixed rows for any non-empty query.
type rowsSearcher struct {
	rows []string
}

func (s *rowsSearcher) Search(text string) (search.Results, error) {
	if strings.TrimSpace(text) == "" {
		return fixedRows(nil), nil
	}
	return fixedRows(s.rows), nil
}

type fixedRows []string

func (r fixedRows) Len() int { return len(r) }

func (r fixedRows) Rows(offset, count int) ([]string, error) {
	end := min(offset+count, len(r))
	if offset >= end {
		return nil, nil
	}
	return r[offset:end], nil
}

func (r fixedRows) Full(i int) (string, error) {
	if i < 0 || i >= len(r) {
		return "", search.ErrNoRow
	}
	return r[i], nil
}

// recordingFetcher remembers requested paths and delegates to a real getter.
type recordingFetcher struct {
	mu     sync.Mutex
	getter *fetch.Getter
	paths  []string
}

func (f *recordingFetcher) Get(ctx context.Context, rel string) *fetch.Job {
	f.mu.Lock()
	f.paths = append(f.paths, rel)
	f.mu.Unlock()
	return f.getter.Get(ctx, rel)
}

func (f *recordingFetcher) requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.paths...)
}

// sidImage builds a minimal PSID v2 tune.
func sidImage(name, author, released string, songs, start uint16) []byte {
	data := make([]byte, 0x7C+8)
	copy(data, "PSID")
	binary.BigEndian.PutUint16(data[0x04:], 2)
	binary.BigEndian.PutUint16(data[0x06:], 0x7C)
	binary.BigEndian.PutUint16(data[0x0E:], songs)
	binary.BigEndian.PutUint16(data[0x10:], start)
	copy(data[0x16:0x36], name)
	copy(data[0x36:0x56], author)
	copy(data[0x56:0x76], released)
	return data
}

type harness struct {
	t       *testing.T
	root    string
	input   *scriptedInput
	frames  *frames
	fetcher *recordingFetcher
	engine  *playback.Engine
	store   *state.Mock
	ctrl    *Controller
}

func newHarness(t *testing.T, rows []string, startup string) *harness {
	t.Helper()
	return newResumingHarness(t, rows, startup, 0)
}

// newResumingHarness starts with a saved sub-song for the startup asset.
func newResumingHarness(t *testing.T, rows []string, startup string, song int) *harness {
	t.Helper()
	root := t.TempDir()
	getter, err := fetch.New(root, "", nil)
	require.NoError(t, err)

	h := &harness{
		t:       t,
		root:    root,
		input:   &scriptedInput{held: map[keymap.Key]bool{}},
		frames:  &frames{},
		fetcher: &recordingFetcher{getter: getter},
		engine:  playback.New(chip.NewRegistry(44100, nil), 44100, nil),
		store:   state.NewMock(),
	}
	h.ctrl = New(Deps{
		Player:       h.engine,
		Fetcher:      h.fetcher,
		Searcher:     &rowsSearcher{rows: rows},
		Input:        h.input,
		Presenter:    h.frames,
		Store:        h.store,
		Width:        40,
		Height:       25,
		StartupAsset: startup,
		StartupSong:  song,
	})
	t.Cleanup(h.ctrl.Close)
	return h
}

func (h *harness) writeAsset(rel string, data []byte) {
	h.t.Helper()
	p := filepath.Join(h.root, filepath.FromSlash(rel))
	require.NoError(h.t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(h.t, os.WriteFile(p, data, 0o644))
}

func (h *harness) tick(keys ...keymap.Key) {
	h.input.push(keys...)
	h.ctrl.Tick(context.Background())
}

// typeText enters text one key per tick.
func (h *harness) typeText(text string) {
	for _, r := range text {
		h.tick(keymap.Key(r))
	}
}

// settle waits for the outstanding fetch and runs the tick that installs it.
func (h *harness) settle() {
	h.t.Helper()
	job := h.ctrl.Pending()
	require.NotNil(h.t, job, "no fetch outstanding")
	<-job.Done()
	h.tick()
}

func (h *harness) line(y int) string {
	return h.ctrl.Grid().Line(y)
}
