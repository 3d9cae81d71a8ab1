package chip

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSIDHeader(t *testing.T) {
	h, err := ParseSIDHeader(buildSID(5, 3, "Ocean Loader 2", "Martin Galway", "1987 Ocean"))
	require.NoError(t, err)

	assert.Equal(t, "PSID", h.Magic)
	assert.False(t, h.IsRSID())
	assert.Equal(t, uint16(2), h.Version)
	assert.Equal(t, uint16(5), h.Songs)
	assert.Equal(t, uint16(3), h.StartSong)
	assert.Equal(t, "Ocean Loader 2", h.Name)
	assert.Equal(t, "Martin Galway", h.Author)
	assert.Equal(t, "1987 Ocean", h.Released)
}

func TestParseSIDHeader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"too short", func(b []byte) []byte { return b[:0x40] }},
		{"bad magic", func(b []byte) []byte { copy(b, "MTHD"); return b }},
		{"data offset beyond file", func(b []byte) []byte { b[0x06], b[0x07] = 0xFF, 0xFF; return b }},
		{"no songs", func(b []byte) []byte { b[0x0E], b[0x0F] = 0, 0; return b }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSIDHeader(tt.mutate(buildSID(1, 1, "x", "y", "z")))
			assert.Error(t, err)
		})
	}
}

func TestParseSIDHeader_BadMagicIsUnsupported(t *testing.T) {
	data := buildSID(1, 1, "x", "y", "z")
	copy(data, "ABCD")
	_, err := ParseSIDHeader(data)
	assert.True(t, errors.Is(err, ErrUnsupported))
}

func TestParseSIDHeader_StartSongOutOfRange(t *testing.T) {
	h, err := ParseSIDHeader(buildSID(2, 9, "x", "y", "z"))
	require.NoError(t, err)
	assert.Equal(t, uint16(1), h.StartSong)
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, "Jeroen Tel", latin1([]byte("Jeroen Tel\x00garbage")))
	assert.Equal(t, "Söderström", latin1([]byte{'S', 0xF6, 'd', 'e', 'r', 's', 't', 'r', 0xF6, 'm'}))
	assert.Equal(t, "pad", latin1([]byte("pad   ")))
}

func TestSIDHandle(t *testing.T) {
	path := writeFile(t, "tune.sid", buildSID(4, 2, "Cybernoid II", "Jeroen Tel", "1988 Hewson"))

	h, err := NewRegistry(44100, nil).Open(path)
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, "Cybernoid II", h.Meta(MetaTitle))
	assert.Equal(t, "Jeroen Tel", h.Meta(MetaComposer))
	assert.Equal(t, "1988 Hewson", h.Meta(MetaCopyright))
	assert.Equal(t, 4, h.MetaInt(MetaSongs))
	assert.Equal(t, 1, h.MetaInt(MetaStartSong))
	assert.Equal(t, "4", h.Meta(MetaSongs))

	assert.NoError(t, h.SelectSong(3))
	assert.ErrorIs(t, h.SelectSong(4), ErrNoSuchSong)
	assert.ErrorIs(t, h.SelectSong(-1), ErrNoSuchSong)

	buf := make([][2]float64, 16)
	buf[3] = [2]float64{1, 1}
	require.NoError(t, h.Render(buf))
	assert.Equal(t, [2]float64{}, buf[3], "sid without synth renders silence")
}

type fakeSynth struct {
	starts  []int
	closed  bool
	failAll bool
}

func (f *fakeSynth) Start(_ SIDHeader, _ []byte, song int) error {
	if f.failAll {
		return errors.New("no emulator")
	}
	f.starts = append(f.starts, song)
	return nil
}

func (f *fakeSynth) Render(buf [][2]float64) error {
	for i := range buf {
		buf[i] = [2]float64{0.25, 0.25}
	}
	return nil
}

func (f *fakeSynth) Close() error {
	f.closed = true
	return nil
}

func TestSIDHandle_Synth(t *testing.T) {
	synth := &fakeSynth{}
	path := writeFile(t, "tune.sid", buildSID(3, 1, "a", "b", "c"))

	h, err := NewRegistry(44100, func() Synth { return synth }).Open(path)
	require.NoError(t, err)

	require.NoError(t, h.SelectSong(2))
	assert.Equal(t, []int{0, 2}, synth.starts)

	buf := make([][2]float64, 4)
	require.NoError(t, h.Render(buf))
	assert.Equal(t, [2]float64{0.25, 0.25}, buf[0])

	require.NoError(t, h.Close())
	assert.True(t, synth.closed)
}

func TestSIDHandle_SynthStartFailure(t *testing.T) {
	synth := &fakeSynth{failAll: true}
	path := writeFile(t, "tune.sid", buildSID(1, 1, "a", "b", "c"))

	h, err := NewRegistry(44100, func() Synth { return synth }).Open(path)
	assert.Error(t, err)
	assert.Nil(t, h)
	assert.True(t, synth.closed)
}

func TestReadSIDHeader(t *testing.T) {
	path := writeFile(t, "tune.sid", buildSID(7, 1, "Commando", "Rob Hubbard", "1985 Elite"))

	h, err := ReadSIDHeader(path)
	require.NoError(t, err)
	assert.Equal(t, "Commando", h.Name)
	assert.Equal(t, uint16(7), h.Songs)
}
