// Package chip defines the handle through which a loaded asset is played and
// the engines that construct handles from files.
package chip

import "errors"

// Metadata keys understood by every handle.
const (
	MetaTitle     = "title"
	MetaComposer  = "composer"
	MetaCopyright = "copyright"
	MetaSongs     = "songs"
	MetaStartSong = "startsong" // 0-based
)

// ErrUnsupported is returned when no engine recognises an asset.
var ErrUnsupported = errors.New("unsupported asset format")

// ErrNoSuchSong is returned when selecting a sub-song outside the asset.
var ErrNoSuchSong = errors.New("no such sub-song")

// Handle is a loaded, playable asset.
//
// Render and SelectSong are never called concurrently; the owner serializes them.
type Handle interface {
	Meta(key string) string
	MetaInt(key string) int
	// Render fills buf with stereo samples in [-1, 1].
	Render(buf [][2]float64) error
	SelectSong(song int) error
	Close() error
}

// Opener constructs handles from local files.
type Opener interface {
	Open(path string) (Handle, error)
}
