package chip

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
)

// streamHandle plays a decoded audio file as a single-song asset.
type streamHandle struct {
	streamer beep.StreamSeekCloser
	out      beep.Streamer
	meta     map[string]string
}

func openStream(path string, sampleRate beep.SampleRate) (*streamHandle, error) {
	ext := strings.ToLower(filepath.Ext(path))

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case extMP3:
		streamer, format, err = mp3.Decode(f)
	case extFLAC:
		streamer, format, err = flac.Decode(f)
	case extWAV:
		streamer, format, err = wav.Decode(f)
	default:
		err = fmt.Errorf("%s: %w", ext, ErrUnsupported)
	}
	if err != nil {
		f.Close()
		return nil, err
	}

	// The decoder owns f from here on and closes it with the streamer.
	h := &streamHandle{
		streamer: streamer,
		out:      streamer,
		meta:     ReadTags(path),
	}
	if format.SampleRate != sampleRate {
		h.out = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	return h, nil
}

// ReadTags collects display metadata for a decoded audio file, falling
// back to the file name for the title.
func ReadTags(path string) map[string]string {
	meta := map[string]string{
		MetaTitle: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	f, err := os.Open(path)
	if err != nil {
		return meta
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return meta
	}
	if m.Title() != "" {
		meta[MetaTitle] = m.Title()
	}
	meta[MetaComposer] = m.Artist()
	if m.Year() > 0 {
		meta[MetaCopyright] = strconv.Itoa(m.Year())
		if m.Album() != "" {
			meta[MetaCopyright] += " " + m.Album()
		}
	} else {
		meta[MetaCopyright] = m.Album()
	}
	return meta
}

func (h *streamHandle) Meta(key string) string {
	switch key {
	case MetaSongs, MetaStartSong:
		return strconv.Itoa(h.MetaInt(key))
	}
	return h.meta[key]
}

func (h *streamHandle) MetaInt(key string) int {
	if key == MetaSongs {
		return 1
	}
	return 0
}

func (h *streamHandle) Render(buf [][2]float64) error {
	n, ok := h.out.Stream(buf)
	clear(buf[n:])
	if !ok {
		return h.streamer.Err()
	}
	return nil
}

// SelectSong restarts the stream; decoded files hold a single song.
func (h *streamHandle) SelectSong(song int) error {
	if song != 0 {
		return ErrNoSuchSong
	}
	return h.streamer.Seek(0)
}

func (h *streamHandle) Close() error {
	return h.streamer.Close()
}
