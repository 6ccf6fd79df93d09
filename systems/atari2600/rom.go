package atari2600

import "github.com/hemu/hemucore/emu"

// bankScheme identifies an Atari 2600 cartridge's bank-switching
// hardware. The 2600 has no header: every real emulator (including
// the reference this package is grounded on) detects the scheme
// purely from the ROM image's byte length.
type bankScheme int

const (
	schemeRom2K bankScheme = iota
	schemeRom4K
	schemeF8 // 8KiB, Atari standard, hotspots $1FF8/$1FF9
	schemeFA // 12KiB, CBS RAM+, hotspots $1FF8-$1FFA
	schemeF6 // 16KiB, Atari standard, hotspots $1FF6-$1FF9
	schemeF4 // 32KiB, Atari standard, hotspots $1FF4-$1FFB
)

// detectBanking classifies a ROM image by its exact byte length, the
// same size-based switch the reference Atari 2600 cartridge loader
// uses (no header field identifies the scheme on real carts).
func detectBanking(size int) (bankScheme, int, bool) {
	switch size {
	case 2048:
		return schemeRom2K, 1, true
	case 4096:
		return schemeRom4K, 1, true
	case 8192:
		return schemeF8, 2, true
	case 12288:
		return schemeFA, 3, true
	case 16384:
		return schemeF6, 4, true
	case 32768:
		return schemeF4, 8, true
	default:
		return schemeRom2K, 0, false
	}
}

// ROM is a validated Atari 2600 cartridge image: raw bytes plus the
// bank-switching scheme and bank count detected from its length.
type ROM struct {
	Data    []byte
	Scheme  bankScheme
	Banks   int
	BankLen int
}

// ParseROM validates the image length against the six sizes real
// Atari 2600 cartridges ship in and returns the detected scheme.
func ParseROM(data []byte) (*ROM, error) {
	scheme, banks, ok := detectBanking(len(data))
	if !ok {
		return nil, &emu.StructuralError{Check: "atari2600-rom-size"}
	}
	bankLen := len(data) / banks
	return &ROM{Data: data, Scheme: scheme, Banks: banks, BankLen: bankLen}, nil
}
