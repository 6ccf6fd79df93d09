package snes

import "github.com/hemu/hemucore/emu"

// Mapping identifies where in the cartridge address space the SNES
// header (and therefore the ROM bank layout) lives.
type Mapping int

const (
	LoROM Mapping = iota
	HiROM
)

const (
	loROMHeaderOffset = 0x7FC0
	hiROMHeaderOffset = 0xFFC0
	headerSize        = 0x40
	minROMSize        = 0x8000
)

// ROM holds a parsed SNES cartridge image plus the header fields a
// mapper needs: title, checksum and its documented complement, and
// which of the two bank layouts spec §6's SNES entry names.
type ROM struct {
	Data []uint8

	Mapping    Mapping
	Title      string
	Checksum   uint16
	Complement uint16
	HasBattery bool
}

// ParseROM picks LoROM or HiROM by checking which header offset's
// checksum/complement pair XORs to 0xFFFF, the documented SNES header
// validity check; a cartridge with neither candidate valid is a
// structural error rather than a best-effort guess.
func ParseROM(data []uint8) (*ROM, error) {
	if len(data) < minROMSize {
		return nil, &emu.StructuralError{Check: "snes-rom-too-small"}
	}

	// Copier headers prepend 512 bytes ahead of the real image; strip
	// them when the size is exactly 512 bytes past a multiple of 1KiB,
	// the documented heuristic for the format this comes from.
	if len(data)%0x400 == 0x200 {
		data = data[0x200:]
	}

	lo, loOK := readHeader(data, loROMHeaderOffset)
	hi, hiOK := readHeader(data, hiROMHeaderOffset)

	switch {
	case loOK && !hiOK:
		return buildROM(data, LoROM, lo), nil
	case hiOK && !loOK:
		return buildROM(data, HiROM, hi), nil
	case loOK && hiOK:
		// Both candidates pass; LoROM is the documented default layout
		// for anything this small.
		return buildROM(data, LoROM, lo), nil
	default:
		return nil, &emu.StructuralError{Check: "snes-rom-header-checksum"}
	}
}

type rawHeader struct {
	title      string
	mapMode    uint8
	checksum   uint16
	complement uint16
}

func readHeader(data []uint8, offset int) (rawHeader, bool) {
	if offset+headerSize > len(data) {
		return rawHeader{}, false
	}
	h := data[offset : offset+headerSize]
	title := make([]byte, 21)
	copy(title, h[0:21])
	mapMode := h[0x15]
	complement := uint16(h[0x1C]) | uint16(h[0x1D])<<8
	checksum := uint16(h[0x1E]) | uint16(h[0x1F])<<8
	ok := checksum^complement == 0xFFFF
	return rawHeader{title: string(title), mapMode: mapMode, checksum: checksum, complement: complement}, ok
}

func buildROM(data []uint8, mapping Mapping, h rawHeader) *ROM {
	return &ROM{
		Data:       data,
		Mapping:    mapping,
		Title:      h.title,
		Checksum:   h.checksum,
		Complement: h.complement,
		HasBattery: h.mapMode&0x0F == 0x02 || h.mapMode&0x0F == 0x0A,
	}
}
