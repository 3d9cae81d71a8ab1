package chip

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const sidHeaderLen = 0x76

// SIDHeader is the PSID/RSID file header.
type SIDHeader struct {
	Magic       string
	Version     uint16
	DataOffset  uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16 // 1-based as stored in the file
	Speed       uint32
	Name        string
	Author      string
	Released    string
	Flags       uint16
}

// IsRSID reports whether the tune requires a real C64 environment.
func (h SIDHeader) IsRSID() bool { return h.Magic == "RSID" }

// ParseSIDHeader decodes the header of a PSID or RSID file.
func ParseSIDHeader(data []byte) (SIDHeader, error) {
	if len(data) < sidHeaderLen {
		return SIDHeader{}, errors.New("sid data too short")
	}

	h := SIDHeader{Magic: string(data[:4])}
	if h.Magic != "PSID" && h.Magic != "RSID" {
		return SIDHeader{}, fmt.Errorf("invalid sid magic %q: %w", h.Magic, ErrUnsupported)
	}

	h.Version = binary.BigEndian.Uint16(data[0x04:0x06])
	h.DataOffset = binary.BigEndian.Uint16(data[0x06:0x08])
	h.LoadAddress = binary.BigEndian.Uint16(data[0x08:0x0A])
	h.InitAddress = binary.BigEndian.Uint16(data[0x0A:0x0C])
	h.PlayAddress = binary.BigEndian.Uint16(data[0x0C:0x0E])
	h.Songs = binary.BigEndian.Uint16(data[0x0E:0x10])
	h.StartSong = binary.BigEndian.Uint16(data[0x10:0x12])
	h.Speed = binary.BigEndian.Uint32(data[0x12:0x16])
	h.Name = latin1(data[0x16:0x36])
	h.Author = latin1(data[0x36:0x56])
	h.Released = latin1(data[0x56:0x76])

	if h.DataOffset >= 0x78 && len(data) >= 0x78 {
		h.Flags = binary.BigEndian.Uint16(data[0x76:0x78])
	}

	if h.DataOffset < sidHeaderLen || int(h.DataOffset) > len(data) {
		return SIDHeader{}, fmt.Errorf("invalid data offset 0x%04X", h.DataOffset)
	}
	if h.Songs == 0 {
		return SIDHeader{}, errors.New("sid declares no songs")
	}
	if h.StartSong == 0 || h.StartSong > h.Songs {
		h.StartSong = 1
	}
	return h, nil
}

// ReadSIDHeader reads and decodes the header of the file at path.
func ReadSIDHeader(path string) (SIDHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return SIDHeader{}, err
	}
	defer f.Close()

	buf := make([]byte, 0x80)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return SIDHeader{}, fmt.Errorf("read sid header: %w", err)
	}
	return ParseSIDHeader(buf[:n])
}

// latin1 decodes a NUL-padded Latin-1 field.
func latin1(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c == 0 {
			break
		}
		sb.WriteRune(rune(c))
	}
	return strings.TrimRight(sb.String(), " ")
}

// sidHandle exposes the metadata and sub-song selection of a SID tune.
// Emulating the 6502 and SID chip is left to a Synth; without one the
// handle renders silence.
type sidHandle struct {
	header SIDHeader
	data   []byte
	song   int
	synth  Synth
}

// Synth renders a SID tune. Implementations wrap an external emulator.
type Synth interface {
	Start(header SIDHeader, program []byte, song int) error
	Render(buf [][2]float64) error
	Close() error
}

func openSID(path string, newSynth func() Synth) (*sidHandle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	header, err := ParseSIDHeader(data)
	if err != nil {
		return nil, err
	}
	h := &sidHandle{
		header: header,
		data:   data[header.DataOffset:],
		song:   int(header.StartSong) - 1,
	}
	if newSynth != nil {
		h.synth = newSynth()
		if err := h.synth.Start(header, h.data, h.song); err != nil {
			_ = h.synth.Close()
			return nil, fmt.Errorf("start sid synth: %w", err)
		}
	}
	return h, nil
}

func (h *sidHandle) Meta(key string) string {
	switch key {
	case MetaTitle:
		return h.header.Name
	case MetaComposer:
		return h.header.Author
	case MetaCopyright:
		return h.header.Released
	case MetaSongs, MetaStartSong:
		return strconv.Itoa(h.MetaInt(key))
	}
	return ""
}

func (h *sidHandle) MetaInt(key string) int {
	switch key {
	case MetaSongs:
		return int(h.header.Songs)
	case MetaStartSong:
		return int(h.header.StartSong) - 1
	}
	return 0
}

func (h *sidHandle) Render(buf [][2]float64) error {
	if h.synth == nil {
		clear(buf)
		return nil
	}
	return h.synth.Render(buf)
}

func (h *sidHandle) SelectSong(song int) error {
	if song < 0 || song >= int(h.header.Songs) {
		return ErrNoSuchSong
	}
	h.song = song
	if h.synth != nil {
		return h.synth.Start(h.header, h.data, song)
	}
	return nil
}

func (h *sidHandle) Close() error {
	if h.synth != nil {
		return h.synth.Close()
	}
	return nil
}
