// Package playback owns the currently loaded asset and feeds the audio device from it.
package playback

import (
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"go.uber.org/zap"

	"github.com/llehouerou/chiptide/internal/chip"
)

const (
	initialLoad = 20.0
	loadDecay   = 0.8
)

// Info describes the loaded asset.
type Info struct {
	Path      string
	Title     string
	Composer  string
	Copyright string
	Songs     int
	StartSong int
}

// Engine serializes access to the loaded handle between the control loop and
// the audio goroutine. The lock is held for one handle swap or one render,
// never across file or network I/O: Load opens and Seek restarts with the
// lock released.
type Engine struct {
	opener     chip.Opener
	sampleRate beep.SampleRate
	log        *zap.Logger
	now        func() time.Time

	mu          sync.Mutex
	handle      chip.Handle
	info        Info
	currentSong int
	renderErr   error
	swaps       uint64 // bumped whenever handle is replaced or released

	loaded atomic.Bool
	load   atomic.Uint64 // float64 bits, written only by the audio goroutine
}

var _ beep.Streamer = (*Engine)(nil)

// New creates an engine with no asset loaded.
func New(opener chip.Opener, sampleRate beep.SampleRate, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		opener:      opener,
		sampleRate:  sampleRate,
		log:         log,
		now:         time.Now,
		currentSong: -1,
	}
	e.load.Store(math.Float64bits(initialLoad))
	return e
}

// SampleRate returns the output rate handles render at.
func (e *Engine) SampleRate() beep.SampleRate { return e.sampleRate }

// Load constructs a handle from path and installs it. The previous handle is
// only replaced once the new one has been built; on error it keeps playing.
// Must not be called from the audio goroutine.
func (e *Engine) Load(path string) (Info, error) {
	h, err := e.opener.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}

	info := Info{
		Path:      path,
		Title:     h.Meta(chip.MetaTitle),
		Composer:  h.Meta(chip.MetaComposer),
		Copyright: h.Meta(chip.MetaCopyright),
		Songs:     h.MetaInt(chip.MetaSongs),
		StartSong: h.MetaInt(chip.MetaStartSong),
	}
	if info.StartSong < 0 || info.StartSong >= info.Songs {
		info.StartSong = 0
	}

	e.mu.Lock()
	old := e.handle
	e.handle = h
	e.swaps++
	e.info = info
	e.currentSong = info.StartSong
	e.renderErr = nil
	e.loaded.Store(true)
	e.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			e.log.Warn("close previous asset", zap.Error(err))
		}
	}
	e.log.Info("asset loaded",
		zap.String("path", path),
		zap.String("title", info.Title),
		zap.Int("songs", info.Songs),
		zap.Int("start_song", info.StartSong))
	return info, nil
}

// Stream implements beep.Streamer and is called from the audio goroutine.
// It always fills samples completely: silence when nothing is loaded or when
// the handle fails.
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	if !e.loaded.Load() {
		clear(samples)
		return len(samples), true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle == nil {
		clear(samples)
		return len(samples), true
	}

	start := e.now()
	e.render(samples)
	e.observe(e.now().Sub(start), len(samples))
	return len(samples), true
}

// Err implements beep.Streamer. Render failures never stop the stream; see RenderErr.
func (e *Engine) Err() error { return nil }

// render must be called with e.mu held.
func (e *Engine) render(samples [][2]float64) {
	defer func() {
		if r := recover(); r != nil {
			clear(samples)
			e.renderErr = fmt.Errorf("render panic: %v", r)
		}
	}()
	if err := e.handle.Render(samples); err != nil {
		clear(samples)
		e.renderErr = err
	}
}

// observe folds the time spent rendering n frames into the smoothed load.
func (e *Engine) observe(d time.Duration, n int) {
	if n == 0 || e.sampleRate <= 0 {
		return
	}
	budget := float64(n) / float64(e.sampleRate) * float64(time.Second)
	instant := float64(d) / budget * 100
	prev := math.Float64frombits(e.load.Load())
	e.load.Store(math.Float64bits(prev*loadDecay + instant*(1-loadDecay)))
}

// LoadPercent returns the smoothed render time as a percentage of the real-time budget.
func (e *Engine) LoadPercent() float64 {
	return math.Float64frombits(e.load.Load())
}

// Seek selects a sub-song. Out-of-range songs are rejected without effect.
// The handle is detached while it restarts, so the audio goroutine renders
// silence instead of waiting on the restart's I/O.
// Must not be called from the audio goroutine.
func (e *Engine) Seek(song int) bool {
	e.mu.Lock()
	h := e.handle
	if h == nil || song < 0 || song >= e.info.Songs {
		e.mu.Unlock()
		return false
	}
	e.handle = nil
	swaps := e.swaps
	e.mu.Unlock()

	err := h.SelectSong(song)

	e.mu.Lock()
	if e.swaps != swaps {
		// Replaced or closed meanwhile; h is no longer ours to install.
		e.mu.Unlock()
		if cerr := h.Close(); cerr != nil {
			e.log.Warn("close detached asset", zap.Error(cerr))
		}
		return false
	}
	e.handle = h
	if err == nil {
		e.currentSong = song
	}
	e.mu.Unlock()

	if err != nil {
		e.log.Warn("select sub-song", zap.Int("song", song), zap.Error(err))
		return false
	}
	return true
}

// Loaded reports whether an asset is installed.
func (e *Engine) Loaded() bool { return e.loaded.Load() }

// Info returns the description of the loaded asset.
func (e *Engine) Info() Info {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.info
}

// CurrentSong returns the selected sub-song, or -1 when nothing is loaded.
func (e *Engine) CurrentSong() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentSong
}

// Songs returns the number of sub-songs of the loaded asset.
func (e *Engine) Songs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.info.Songs
}

// Meta reads a metadata string. Callers check Loaded first.
func (e *Engine) Meta(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle == nil {
		return ""
	}
	return e.handle.Meta(key)
}

// MetaInt reads a numeric metadata value. Callers check Loaded first.
func (e *Engine) MetaInt(key string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handle == nil {
		return 0
	}
	return e.handle.MetaInt(key)
}

// TakeRenderErr returns and clears the last render failure.
func (e *Engine) TakeRenderErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.renderErr
	e.renderErr = nil
	return err
}

// Close releases the loaded handle.
func (e *Engine) Close() error {
	e.mu.Lock()
	h := e.handle
	e.handle = nil
	e.swaps++
	e.info = Info{}
	e.currentSong = -1
	e.loaded.Store(false)
	e.mu.Unlock()

	if h != nil {
		return h.Close()
	}
	return nil
}
