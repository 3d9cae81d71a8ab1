package session

import "sync/atomic"

// Snapshot is the session state published after every tick.
type Snapshot struct {
	Query  string  `json:"query"`
	Marker int     `json:"marker"`
	Hits   int     `json:"hits"`
	Asset  string  `json:"asset,omitempty"`
	Title  string  `json:"title,omitempty"`
	Song   int     `json:"song"`
	Songs  int     `json:"songs"`
	Load   float64 `json:"load"`
	Status string  `json:"status,omitempty"`
}

// Commands is the mailbox between external callers and the controller.
// Writers may run on any goroutine; the controller drains each slot at most
// once per tick and the last write before the tick wins.
type Commands struct {
	play     atomic.Int64 // -1 when empty
	search   atomic.Pointer[string]
	snapshot atomic.Pointer[Snapshot]
}

// NewCommands creates an empty mailbox.
func NewCommands() *Commands {
	c := &Commands{}
	c.play.Store(-1)
	c.snapshot.Store(&Snapshot{Marker: -1, Song: -1})
	return c
}

// PlayIndex requests playback of result row i. Negative rows are ignored.
func (c *Commands) PlayIndex(i int) {
	if i < 0 {
		return
	}
	c.play.Store(int64(i))
}

// SetSearch replaces the whole query text.
func (c *Commands) SetSearch(text string) {
	c.search.Store(&text)
}

// Status returns the snapshot published by the last tick.
func (c *Commands) Status() Snapshot {
	return *c.snapshot.Load()
}

func (c *Commands) takePlay() (int, bool) {
	v := c.play.Swap(-1)
	return int(v), v >= 0
}

func (c *Commands) takeSearch() (string, bool) {
	p := c.search.Swap(nil)
	if p == nil {
		return "", false
	}
	return *p, true
}

func (c *Commands) publish(s Snapshot) {
	c.snapshot.Store(&s)
}
