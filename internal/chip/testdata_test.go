package chip

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/require"
)

// buildSID creates a minimal PSID v2 file image.
func buildSID(songs, startSong uint16, name, author, released string) []byte {
	data := make([]byte, 0x7C+16)
	copy(data[0x00:], "PSID")
	binary.BigEndian.PutUint16(data[0x04:], 2)
	binary.BigEndian.PutUint16(data[0x06:], 0x7C)
	binary.BigEndian.PutUint16(data[0x08:], 0x1000)
	binary.BigEndian.PutUint16(data[0x0A:], 0x1000)
	binary.BigEndian.PutUint16(data[0x0C:], 0x1003)
	binary.BigEndian.PutUint16(data[0x0E:], songs)
	binary.BigEndian.PutUint16(data[0x10:], startSong)
	copy(data[0x16:0x36], name)
	copy(data[0x36:0x56], author)
	copy(data[0x56:0x76], released)
	for i := 0x7C; i < len(data); i++ {
		data[i] = 0x60
	}
	return data
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// constStreamer produces a fixed number of constant samples.
type constStreamer struct {
	remaining int
	value     float64
}

func (c *constStreamer) Stream(samples [][2]float64) (int, bool) {
	if c.remaining <= 0 {
		return 0, false
	}
	n := min(len(samples), c.remaining)
	for i := range n {
		samples[i] = [2]float64{c.value, c.value}
	}
	c.remaining -= n
	return n, true
}

func (c *constStreamer) Err() error { return nil }

// writeWAV encodes frames constant samples at rate into a temp file.
func writeWAV(t *testing.T, name string, rate beep.SampleRate, frames int, value float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, &constStreamer{remaining: frames, value: value}, format))
	return path
}
