package chip

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
)

// Registry picks an engine by file extension.
type Registry struct {
	sampleRate beep.SampleRate
	newSynth   func() Synth
}

// NewRegistry creates a registry producing handles at the given output rate.
// newSynth may be nil, in which case SID tunes render silence.
func NewRegistry(sampleRate beep.SampleRate, newSynth func() Synth) *Registry {
	return &Registry{sampleRate: sampleRate, newSynth: newSynth}
}

// Supported reports whether path has an extension the registry can open.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sid", extMP3, extFLAC, extWAV:
		return true
	}
	return false
}

// Open constructs a handle for the file at path.
func (r *Registry) Open(path string) (Handle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sid":
		h, err := openSID(path, r.newSynth)
		if err != nil {
			return nil, err
		}
		return h, nil
	case extMP3, extFLAC, extWAV:
		h, err := openStream(path, r.sampleRate)
		if err != nil {
			return nil, err
		}
		return h, nil
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupported)
}

var _ Opener = (*Registry)(nil)
