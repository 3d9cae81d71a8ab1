// Package session drives one interactive session: per tick it drains external
// commands, completes fetches into the playback engine, feeds input to the
// search navigator and redraws the grid.
package session

import (
	"context"
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/llehouerou/chiptide/internal/errmsg"
	"github.com/llehouerou/chiptide/internal/fetch"
	"github.com/llehouerou/chiptide/internal/grid"
	"github.com/llehouerou/chiptide/internal/keymap"
	"github.com/llehouerou/chiptide/internal/playback"
	"github.com/llehouerou/chiptide/internal/search"
	"github.com/llehouerou/chiptide/internal/state"
)

// Grid layout.
const (
	rowTitle     = 0
	rowComposer  = 1
	rowCopyright = 2
	rowStatus    = 3
	rowQuery     = 4
	rowResults   = 5

	songWidth = 10 // "SONG xx/yy"
	loadWidth = 4  // "NNN%"

	cursorGlyph = '>'
	// forces the song indicator to redraw on the next tick
	songUnknown = math.MinInt
)

// Player is the playback side of the session.
type Player interface {
	Load(path string) (playback.Info, error)
	Seek(song int) bool
	Loaded() bool
	CurrentSong() int
	Songs() int
	LoadPercent() float64
	TakeRenderErr() error
}

// Fetcher starts asset retrievals.
type Fetcher interface {
	Get(ctx context.Context, relPath string) *fetch.Job
}

// Input yields at most one key per tick and reports held keys.
type Input interface {
	Poll() keymap.Key
	Held(k keymap.Key) bool
}

// Presenter shows a finished frame.
type Presenter interface {
	Present(g *grid.Grid)
}

// Store persists the session between runs.
type Store interface {
	SaveSession(s state.Session)
}

// Deps are the collaborators of a Controller. Store and Log may be nil.
type Deps struct {
	Player    Player
	Fetcher   Fetcher
	Searcher  search.Searcher
	Input     Input
	Presenter Presenter
	Store     Store
	Commands  *Commands
	Log       *zap.Logger

	Width        int
	Height       int
	StartupAsset string // relative path fetched on the first tick
	StartupSong  int    // sub-song selected once the startup asset loads
}

// Controller is the per-tick orchestrator. Tick is not safe for concurrent
// use; external callers go through Commands.
type Controller struct {
	player    Player
	fetcher   Fetcher
	searcher  search.Searcher
	input     Input
	presenter Presenter
	store     Store
	cmds      *Commands
	log       *zap.Logger

	grid *grid.Grid
	nav  *search.Navigator

	job       *fetch.Job
	asset     string // relative path of the loaded asset
	title     string
	playRow   int
	status    string
	startup   string
	startSong int
	started   bool
	lastSong  int
	lastText  string
	lastGen   int
	lastTop   int
	cursorRow int // screen row of the drawn cursor, -1 if none
}

// New creates a controller over a blank grid.
func New(d Deps) *Controller {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	cmds := d.Commands
	if cmds == nil {
		cmds = NewCommands()
	}
	g := grid.New(d.Width, d.Height)

	return &Controller{
		player:    d.Player,
		fetcher:   d.Fetcher,
		searcher:  d.Searcher,
		input:     d.Input,
		presenter: d.Presenter,
		store:     d.Store,
		cmds:      cmds,
		log:       log,
		grid:      g,
		nav:       search.New(max(g.Height()-rowResults, 1)),
		playRow:   -1,
		startup:   d.StartupAsset,
		startSong: d.StartupSong,
		lastSong:  songUnknown,
		lastGen:   -1,
		cursorRow: -1,
	}
}

// Commands returns the external command mailbox.
func (c *Controller) Commands() *Commands { return c.cmds }

// Grid returns the frame being drawn.
func (c *Controller) Grid() *grid.Grid { return c.grid }

// Navigator returns the search navigator.
func (c *Controller) Navigator() *search.Navigator { return c.nav }

// Pending returns the outstanding fetch job, or nil.
func (c *Controller) Pending() *fetch.Job { return c.job }

// Status returns the current status-row message.
func (c *Controller) Status() string { return c.status }

// Tick runs one control step.
func (c *Controller) Tick(ctx context.Context) {
	if !c.started {
		c.started = true
		if c.startup != "" {
			c.request(ctx, c.startup)
		}
	}

	saveNeeded := c.drainCommands()
	saveNeeded = c.completeFetch() || saveNeeded
	if err := c.player.TakeRenderErr(); err != nil {
		c.setStatus(errmsg.Format(errmsg.OpRender, err))
	}

	key := c.input.Poll()
	c.dispatch(key)
	if err := c.nav.Refresh(c.searcher); err != nil {
		c.setStatus(errmsg.Format(errmsg.OpCatalogSearch, err))
	}

	if c.nav.Text() != c.lastText {
		saveNeeded = true
	}
	if c.nav.Text() != c.lastText || c.nav.Generation() != c.lastGen || c.nav.Scroll() != c.lastTop {
		c.drawQuery()
		c.drawResults()
	}
	if song := c.player.CurrentSong(); song != c.lastSong {
		c.drawSong(song)
		saveNeeded = saveNeeded || c.asset != ""
	}
	c.playPending(ctx)
	c.drawCursor()
	c.drawStatus()
	c.drawLoad()

	if saveNeeded && c.store != nil {
		c.store.SaveSession(state.Session{
			Query:     c.nav.Text(),
			AssetPath: c.asset,
			Song:      max(c.player.CurrentSong(), 0),
		})
	}
	c.publish()
	if c.presenter != nil {
		c.presenter.Present(c.grid)
	}
}

// Close cancels the outstanding fetch.
func (c *Controller) Close() {
	if c.job != nil {
		c.job.Cancel()
		c.job = nil
	}
}

func (c *Controller) drainCommands() bool {
	if row, ok := c.cmds.takePlay(); ok {
		c.playRow = row
	}
	if text, ok := c.cmds.takeSearch(); ok {
		c.nav.SetText(text)
		return true
	}
	return false
}

// completeFetch installs a finished job's file. It reports whether an asset
// was loaded.
func (c *Controller) completeFetch() bool {
	if c.job == nil || !c.job.IsDone() {
		return false
	}
	job := c.job
	c.job = nil
	resume := c.startSong
	c.startSong = 0
	c.grid.Fill(grid.Blank, 0, rowStatus, 0, 1)
	c.status = ""

	file, err := job.Take()
	if err != nil {
		c.log.Warn("fetch failed", zap.String("path", job.Path()), zap.Error(err))
		c.setStatus(errmsg.FormatWith(errmsg.OpFetch, path.Base(job.Path()), err))
		return false
	}

	info, err := c.player.Load(file)
	if err != nil {
		c.log.Warn("asset rejected", zap.String("path", job.Path()), zap.Error(err))
		c.setStatus(errmsg.FormatWith(errmsg.OpAssetLoad, path.Base(job.Path()), err))
		return false
	}

	if resume > 0 && job.Path() == c.startup && !c.player.Seek(resume) {
		c.log.Debug("saved sub-song out of range", zap.Int("song", resume))
	}
	c.asset = job.Path()
	c.title = info.Title
	c.drawMeta(info)
	c.lastSong = songUnknown
	return true
}

func (c *Controller) dispatch(key keymap.Key) {
	c.nav.Navigate(key, c.input.Held)

	switch key {
	case keymap.Backspace:
		c.nav.RemoveLast()
	case keymap.Escape, keymap.F1:
		c.nav.Clear()
	case keymap.Left:
		c.player.Seek(c.player.CurrentSong() - 1)
	case keymap.Right:
		c.player.Seek(c.player.CurrentSong() + 1)
	case keymap.Enter:
		if m := c.nav.Marker(); m >= 0 {
			c.playRow = m
		}
	default:
		if key.Printable() {
			c.nav.AddLetter(key.Rune())
		}
	}
}

func (c *Controller) playPending(ctx context.Context) {
	if c.playRow < 0 {
		return
	}
	row := c.playRow
	c.playRow = -1

	record, err := c.nav.Full(row)
	if err != nil {
		c.log.Debug("play request for missing row", zap.Int("row", row), zap.Error(err))
		return
	}
	fields := strings.Split(record, "\t")
	if len(fields) < 3 {
		c.log.Debug("malformed catalog row", zap.Int("row", row), zap.String("record", record))
		return
	}
	c.request(ctx, NormalizePath(fields[2]))
}

// request replaces the outstanding job with a fetch of rel.
func (c *Controller) request(ctx context.Context, rel string) {
	if c.job != nil {
		c.job.Cancel()
		c.log.Debug("fetch replaced", zap.String("path", c.job.Path()))
	}
	c.job = c.fetcher.Get(ctx, rel)
	c.status = ""
}

// NormalizePath turns catalog path separators into forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

func (c *Controller) setStatus(msg string) {
	c.status = msg
}

func (c *Controller) publish() {
	c.cmds.publish(Snapshot{
		Query:  c.nav.Text(),
		Marker: c.nav.Marker(),
		Hits:   c.nav.Len(),
		Asset:  c.asset,
		Title:  c.title,
		Song:   c.player.CurrentSong(),
		Songs:  c.player.Songs(),
		Load:   c.player.LoadPercent(),
		Status: c.statusLine(),
	})
}

func (c *Controller) statusLine() string {
	if c.job != nil {
		msg := "LOADING " + path.Base(c.job.Path())
		if n := c.job.Bytes(); n > 0 {
			msg += " " + humanize.Bytes(uint64(n))
		}
		return msg
	}
	return c.status
}

func (c *Controller) drawMeta(info playback.Info) {
	w := c.grid.Width()
	c.grid.Fill(grid.Blank, 0, rowTitle, w-songWidth, 1)
	c.grid.Fill(grid.Blank, 0, rowComposer, 0, 1)
	c.grid.Fill(grid.Blank, 0, rowCopyright, w-loadWidth, 1)
	c.grid.Print(clip(info.Title, w-songWidth-1), 0, rowTitle)
	c.grid.Print(info.Composer, 0, rowComposer)
	c.grid.Print(clip(info.Copyright, w-loadWidth-1), 0, rowCopyright)
}

func (c *Controller) drawSong(song int) {
	c.lastSong = song
	x := c.grid.Width() - songWidth
	c.grid.Fill(grid.Blank, x, rowTitle, songWidth, 1)
	if !c.player.Loaded() || song < 0 {
		return
	}
	c.grid.Print(fmt.Sprintf("SONG %02d/%02d", song+1, c.player.Songs()), x, rowTitle)
}

func (c *Controller) drawQuery() {
	c.lastText = c.nav.Text()
	c.grid.Fill(grid.Blank, 0, rowQuery, 0, 1)
	c.grid.Print(c.nav.Text(), 1, rowQuery)
}

func (c *Controller) drawResults() {
	c.lastGen = c.nav.Generation()
	c.lastTop = c.nav.Scroll()
	c.grid.Fill(grid.Blank, 0, rowResults, 0, 0)
	c.cursorRow = -1

	rows, err := c.nav.Visible()
	if err != nil {
		c.setStatus(errmsg.Format(errmsg.OpCatalogRow, err))
		return
	}
	for i, row := range rows {
		fields := strings.Split(row, "\t")
		if len(fields) < 3 {
			c.log.Debug("malformed catalog row", zap.Int("row", c.nav.Scroll()+i), zap.String("record", row))
			continue
		}
		c.grid.Print(fields[0]+" / "+fields[1], 1, rowResults+i)
	}
}

func (c *Controller) drawCursor() {
	want := -1
	if m := c.nav.Marker(); m >= 0 {
		want = rowResults + m - c.nav.Scroll()
	}
	if want == c.cursorRow {
		return
	}
	if c.cursorRow >= 0 {
		c.grid.Fill(grid.Blank, 0, c.cursorRow, 1, 1)
	}
	if want >= 0 {
		c.grid.Print(string(cursorGlyph), 0, want)
	}
	c.cursorRow = want
}

func (c *Controller) drawStatus() {
	c.grid.Fill(grid.Blank, 0, rowStatus, 0, 1)
	c.grid.Print(c.statusLine(), 0, rowStatus)
}

func (c *Controller) drawLoad() {
	load := int(math.Round(c.player.LoadPercent()))
	load = max(0, min(load, 999))
	x := c.grid.Width() - loadWidth
	c.grid.Fill(grid.Blank, x, rowCopyright, loadWidth, 1)
	c.grid.Print(fmt.Sprintf("%03d%%", load), x, rowCopyright)
}

func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
