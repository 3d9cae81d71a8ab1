// Package app is the Bubble Tea frontend: it drives the session tick, feeds
// terminal keys to it and draws the presented grid.
package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Session is the per-tick orchestrator driven by the frontend.
type Session interface {
	Tick(ctx context.Context)
}

// Model is the root Bubble Tea model.
type Model struct {
	session  Session
	keys     *KeyQueue
	screen   *Screen
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	quitting bool
}

// New creates the model. keys and screen must be the Input and Presenter the
// session was built with.
func New(session Session, keys *KeyQueue, screen *Screen, interval time.Duration) Model {
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		session:  session,
		keys:     keys,
		screen:   screen,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Init starts the tick cadence.
func (m Model) Init() tea.Cmd {
	return TickCmd(m.interval)
}

// Context is cancelled when the user quits.
func (m Model) Context() context.Context {
	return m.ctx
}

// Quitting reports whether quit was requested.
func (m Model) Quitting() bool {
	return m.quitting
}
