package search

import "github.com/llehouerou/chiptide/internal/keymap"

// RepeatDelay is the number of ticks between a fresh press and the first
// repeated move.
const RepeatDelay = 4

// RepeatState is the phase of the key-repeat machine.
type RepeatState int

const (
	Idle RepeatState = iota
	Armed
	Repeating
)

func (s RepeatState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Armed:
		return "Armed"
	case Repeating:
		return "Repeating"
	default:
		return "Unknown"
	}
}

// Repeat turns polled Up/Down input into marker moves: one move on a fresh
// press, a pause of RepeatDelay ticks, then one move per tick while the key
// stays held.
type Repeat struct {
	state RepeatState
	delay int
	key   keymap.Key
}

// State returns the current phase.
func (r *Repeat) State() RepeatState { return r.state }

// Delay returns the remaining arm delay; zero unless Armed.
func (r *Repeat) Delay() int {
	if r.state != Armed {
		return 0
	}
	return r.delay
}

// Reset returns the machine to Idle.
func (r *Repeat) Reset() {
	*r = Repeat{}
}

// Step advances the machine by one tick. pressed is the key polled this tick
// (keymap.NoKey if none), held reports whether a key is currently down.
// It returns the marker delta: -1, 0 or +1.
func (r *Repeat) Step(pressed keymap.Key, held func(keymap.Key) bool) int {
	switch r.state {
	case Armed:
		if r.delay > 1 {
			r.delay--
			return 0
		}
		if held(r.key) {
			r.state = Repeating
			return direction(r.key)
		}
		r.Reset()
	case Repeating:
		if held(r.key) {
			return direction(r.key)
		}
		r.Reset()
	}

	if !pressed.IsVertical() {
		return 0
	}
	r.state = Armed
	r.delay = RepeatDelay
	r.key = pressed
	return direction(pressed)
}

func direction(k keymap.Key) int {
	switch k {
	case keymap.Up:
		return -1
	case keymap.Down:
		return 1
	}
	return 0
}
