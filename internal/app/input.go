package app

import (
	"sync"
	"time"

	"github.com/llehouerou/chiptide/internal/keymap"
)

// Terminals report key repeats, not releases. A key counts as held while its
// repeat events keep arriving within HoldWindow of each other.
const (
	HoldWindow = 60 * time.Millisecond
	queueCap   = 16
)

// KeyQueue buffers translated key events between Bubble Tea and the session
// tick. Poll hands out one key per call.
type KeyQueue struct {
	mu       sync.Mutex
	keys     []keymap.Key
	lastSeen map[keymap.Key]time.Time
	now      func() time.Time
}

// NewKeyQueue creates an empty queue using the wall clock.
func NewKeyQueue() *KeyQueue {
	return newKeyQueue(time.Now)
}

func newKeyQueue(now func() time.Time) *KeyQueue {
	return &KeyQueue{
		lastSeen: make(map[keymap.Key]time.Time),
		now:      now,
	}
}

// Push records a key event. Repeats of a pending arrow key are coalesced;
// when the queue is full the oldest key is dropped.
func (q *KeyQueue) Push(k keymap.Key) {
	if k == keymap.NoKey {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	q.lastSeen[k] = q.now()
	// Autorepeat of a held arrow is reported through Held, not as more presses.
	if k.IsVertical() && len(q.keys) > 0 && q.keys[len(q.keys)-1] == k {
		return
	}
	if len(q.keys) == queueCap {
		q.keys = q.keys[1:]
	}
	q.keys = append(q.keys, k)
}

// Poll returns the oldest pending key, or NoKey.
func (q *KeyQueue) Poll() keymap.Key {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.keys) == 0 {
		return keymap.NoKey
	}
	k := q.keys[0]
	q.keys = q.keys[1:]
	return k
}

// Held reports whether k was seen within the hold window.
func (q *KeyQueue) Held(k keymap.Key) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	seen, ok := q.lastSeen[k]
	if !ok {
		return false
	}
	return q.now().Sub(seen) <= HoldWindow
}

// Len returns the number of pending keys.
func (q *KeyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.keys)
}
