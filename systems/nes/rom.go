package nes

import (
	"encoding/binary"
	"io"

	"github.com/hemu/hemucore/emu"
)

// iNESHeader is the 16-byte header shared by iNES and NES 2.0 images.
type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8
	CHRROMSize uint8
	Flags6     uint8
	Flags7     uint8
	Flags8     uint8 // NES 2.0: mapper MSB / submapper
	Flags9     uint8
	Flags10    uint8
	Padding    [5]uint8
}

// ROM holds a parsed cartridge image: PRG/CHR data plus the header
// fields a mapper needs to configure itself.
type ROM struct {
	PRG []uint8
	CHR []uint8

	MapperID   uint8
	Mirroring  MirrorMode
	HasBattery bool
	HasCHRRAM  bool
	NES20      bool
}

// ParseINES parses an iNES or NES 2.0 cartridge image. A malformed
// header or truncated body is a structural error (spec category 1):
// never a panic, always a typed, recoverable error.
func ParseINES(data []byte) (*ROM, error) {
	r := byteReader{data: data}

	var header iNESHeader
	if err := binary.Read(&r, binary.LittleEndian, &header); err != nil {
		return nil, &emu.StructuralError{Check: "ines-header", Err: err}
	}

	if string(header.Magic[:]) != "NES\x1A" {
		return nil, &emu.StructuralError{Check: "ines-magic"}
	}
	if header.PRGROMSize == 0 {
		return nil, &emu.StructuralError{Check: "ines-prg-size-zero"}
	}

	nes20 := (header.Flags7 & 0x0C) == 0x08

	rom := &ROM{
		MapperID:   (header.Flags6 >> 4) | (header.Flags7 & 0xF0),
		HasBattery: (header.Flags6 & 0x02) != 0,
		NES20:      nes20,
	}

	switch {
	case (header.Flags6 & 0x08) != 0:
		rom.Mirroring = MirrorFourScreen
	case (header.Flags6 & 0x01) != 0:
		rom.Mirroring = MirrorVertical
	default:
		rom.Mirroring = MirrorHorizontal
	}

	if (header.Flags6 & 0x04) != 0 {
		if _, err := r.skip(512); err != nil {
			return nil, &emu.StructuralError{Check: "ines-trainer", Err: err}
		}
	}

	prgSize := int(header.PRGROMSize) * 16384
	rom.PRG = make([]uint8, prgSize)
	if err := r.readFull(rom.PRG); err != nil {
		return nil, &emu.StructuralError{Check: "ines-prg-body", Err: err}
	}

	chrSize := int(header.CHRROMSize) * 8192
	if chrSize > 0 {
		rom.CHR = make([]uint8, chrSize)
		if err := r.readFull(rom.CHR); err != nil {
			return nil, &emu.StructuralError{Check: "ines-chr-body", Err: err}
		}
	} else {
		rom.CHR = make([]uint8, 8192)
		rom.HasCHRRAM = true
	}

	return rom, nil
}

// byteReader adapts a plain byte slice to io.Reader for binary.Read
// without an extra allocation from bytes.NewReader at each call site.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *byteReader) skip(n int) (int, error) {
	if r.pos+n > len(r.data) {
		return 0, io.ErrUnexpectedEOF
	}
	r.pos += n
	return n, nil
}

func (r *byteReader) readFull(p []byte) error {
	n, err := io.ReadFull(r, p)
	if n == len(p) {
		return nil
	}
	return err
}
