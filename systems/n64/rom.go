package n64

import "github.com/hemu/hemucore/emu"

// romMagicBigEndian is the canonical big-endian N64 ROM magic (.z64);
// the core normalizes every cartridge to this byte order on load,
// grounded on original_source's n64/src/cartridge.rs Cartridge::load.
var romMagicBigEndian = [4]uint8{0x80, 0x37, 0x12, 0x40}

// ROM holds a cartridge image already normalized to big-endian byte
// order, whatever order the dump arrived in.
type ROM struct {
	Data []uint8
}

// ParseROM validates the byte-order magic (spec §6: big/little/middle-
// endian variants) and converts little- or middle-endian dumps to the
// canonical big-endian layout this core's bus assumes everywhere else.
// An unrecognized magic or a too-small image is a structural error
// (spec §7 category 1); it never panics.
func ParseROM(data []uint8) (*ROM, error) {
	if len(data) < 0x1000 {
		return nil, &emu.StructuralError{Check: "n64-rom-too-small"}
	}

	switch {
	case matches(data, 0x80, 0x37, 0x12, 0x40): // .z64, already big-endian
		out := make([]uint8, len(data))
		copy(out, data)
		return &ROM{Data: out}, nil
	case matches(data, 0x40, 0x12, 0x37, 0x80): // .n64, little-endian
		return &ROM{Data: swap16(data)}, nil
	case matches(data, 0x37, 0x80, 0x40, 0x12): // .v64, byte-swapped (middle-endian)
		return &ROM{Data: swap32(data)}, nil
	default:
		return nil, &emu.StructuralError{Check: "n64-rom-magic"}
	}
}

func matches(data []uint8, a, b, c, d uint8) bool {
	return len(data) >= 4 && data[0] == a && data[1] == b && data[2] == c && data[3] == d
}

// swap16 reverses every 4-byte group (.n64 little-endian -> big-endian).
func swap16(data []uint8) []uint8 {
	out := make([]uint8, len(data))
	copy(out, data)
	for i := 0; i+3 < len(out); i += 4 {
		out[i], out[i+3] = out[i+3], out[i]
		out[i+1], out[i+2] = out[i+2], out[i+1]
	}
	return out
}

// swap32 swaps the two bytes inside each 16-bit half of a 4-byte group
// (.v64 middle-endian -> big-endian).
func swap32(data []uint8) []uint8 {
	out := make([]uint8, len(data))
	copy(out, data)
	for i := 0; i+3 < len(out); i += 4 {
		out[i], out[i+1] = out[i+1], out[i]
		out[i+2], out[i+3] = out[i+3], out[i+2]
	}
	return out
}
