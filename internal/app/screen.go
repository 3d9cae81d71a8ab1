package app

import (
	"sync"

	"github.com/llehouerou/chiptide/internal/grid"
)

// Screen keeps the last frame presented by the session.
type Screen struct {
	mu     sync.RWMutex
	lines  []string
	frames int
}

// Present implements session.Presenter.
func (s *Screen) Present(g *grid.Grid) {
	lines := g.Lines()
	s.mu.Lock()
	s.lines = lines
	s.frames++
	s.mu.Unlock()
}

// Lines returns the last presented frame.
func (s *Screen) Lines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lines
}

// Frames returns how many frames were presented.
func (s *Screen) Frames() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames
}
