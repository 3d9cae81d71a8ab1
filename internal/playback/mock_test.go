package playback

import (
	"errors"
	"sync"

	"github.com/llehouerou/chiptide/internal/chip"
)

// fakeHandle is a scripted chip.Handle.
type fakeHandle struct {
	mu        sync.Mutex
	meta      map[string]string
	songs     int
	startSong int
	value     float64
	renderErr error
	panicMsg  string
	renders   int
	selected  []int
	selectErr error
	onSelect  func()
	closed    bool
}

func (h *fakeHandle) Meta(key string) string { return h.meta[key] }

func (h *fakeHandle) MetaInt(key string) int {
	switch key {
	case chip.MetaSongs:
		return h.songs
	case chip.MetaStartSong:
		return h.startSong
	}
	return 0
}

func (h *fakeHandle) Render(buf [][2]float64) error {
	h.mu.Lock()
	h.renders++
	h.mu.Unlock()
	if h.panicMsg != "" {
		panic(h.panicMsg)
	}
	for i := range buf {
		buf[i] = [2]float64{h.value, h.value}
	}
	return h.renderErr
}

func (h *fakeHandle) SelectSong(song int) error {
	if h.onSelect != nil {
		h.onSelect()
	}
	h.selected = append(h.selected, song)
	return h.selectErr
}

func (h *fakeHandle) Close() error {
	h.closed = true
	return nil
}

func (h *fakeHandle) renderCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.renders
}

// fakeOpener returns handles keyed by path.
type fakeOpener struct {
	handles map[string]*fakeHandle
	opened  []string
}

var errBadAsset = errors.New("bad asset")

func (o *fakeOpener) Open(path string) (chip.Handle, error) {
	o.opened = append(o.opened, path)
	h, ok := o.handles[path]
	if !ok {
		return nil, errBadAsset
	}
	return h, nil
}

func newTitled(title string, songs, start int) *fakeHandle {
	return &fakeHandle{
		meta:      map[string]string{chip.MetaTitle: title, chip.MetaComposer: "Rob Hubbard", chip.MetaCopyright: "1985"},
		songs:     songs,
		startSong: start,
		value:     0.5,
	}
}
