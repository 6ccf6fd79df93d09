package gameboy

import "github.com/hemu/hemucore/emu"

// nintendoLogo is the fixed byte sequence at 0x104-0x133 every
// licensed Game Boy cartridge carries; the boot ROM refuses to run
// anything whose first four bytes don't match (spec §6).
var nintendoLogo = [4]uint8{0xCE, 0xED, 0x66, 0x66}

// ROM holds a parsed Game Boy cartridge image plus the header fields
// needed to pick an MBC.
type ROM struct {
	Data []uint8

	Title        string
	CartType     uint8
	ROMSizeCode  uint8
	RAMSizeCode  uint8
	HasBattery   bool
	HasRTC       bool
	ROMBankCount int
	RAMSize      int
}

// ParseROM validates the Nintendo logo checksum bytes and extracts
// the header fields at 0x147-0x149. A truncated image or failed logo
// check is a structural error (spec category 1); unknown cartridge
// types are not rejected here (spec category 3 territory) since the
// mapper itself falls back to MBC0 semantics for anything it doesn't
// recognize.
func ParseROM(data []uint8) (*ROM, error) {
	if len(data) < 0x150 {
		return nil, &emu.StructuralError{Check: "gb-header-truncated"}
	}
	if data[0x104] != nintendoLogo[0] || data[0x105] != nintendoLogo[1] ||
		data[0x106] != nintendoLogo[2] || data[0x107] != nintendoLogo[3] {
		return nil, &emu.StructuralError{Check: "gb-logo-mismatch"}
	}

	romSizeCode := data[0x148]
	ramSizeCode := data[0x149]
	cartType := data[0x147]

	romBanks := 2 << romSizeCode
	if int(romBanks)*0x4000 > len(data) {
		romBanks = len(data) / 0x4000
		if romBanks < 2 {
			romBanks = 2
		}
	}

	ramSizes := map[uint8]int{0: 0, 1: 0x800, 2: 0x2000, 3: 0x8000, 4: 0x20000, 5: 0x10000}

	r := &ROM{
		Data:         data,
		Title:        string(titleBytes(data)),
		CartType:     cartType,
		ROMSizeCode:  romSizeCode,
		RAMSizeCode:  ramSizeCode,
		ROMBankCount: romBanks,
		RAMSize:      ramSizes[ramSizeCode],
	}
	r.HasBattery = hasBattery(cartType)
	r.HasRTC = hasRTC(cartType)
	if mbcKind(cartType) == mbc2 {
		r.RAMSize = 512 // MBC2's built-in 4-bit RAM, nibble-per-byte
	}
	return r, nil
}

func titleBytes(data []uint8) []uint8 {
	end := 0x144
	for i := 0x134; i < 0x144 && i < len(data); i++ {
		if data[i] == 0 {
			end = i
			break
		}
		end = i + 1
	}
	return data[0x134:end]
}

func hasBattery(cartType uint8) bool {
	switch cartType {
	case 0x03, 0x06, 0x09, 0x0D, 0x0F, 0x10, 0x13, 0x1B, 0x1E, 0x22, 0xFF:
		return true
	default:
		return false
	}
}

func hasRTC(cartType uint8) bool {
	return cartType == 0x0F || cartType == 0x10
}
