package sms

import "github.com/hemu/hemucore/emu"

// ROM holds a raw Master System cartridge image. Unlike the NES and
// Game Boy, SMS carts carry no universal header the core can validate
// structurally beyond "nonempty and bank-aligned"; bad dumps are
// padded to a full bank rather than rejected, matching spec §4.3's
// mapper invariant that every bank index always resolves.
type ROM struct {
	Data  []uint8
	Banks int
}

func ParseROM(data []uint8) (*ROM, error) {
	if len(data) == 0 {
		return nil, &emu.StructuralError{Check: "sms-rom-empty"}
	}
	banks := (len(data) + 0x3FFF) / 0x4000
	padded := data
	if len(padded) < banks*0x4000 {
		padded = make([]uint8, banks*0x4000)
		copy(padded, data)
	}
	return &ROM{Data: padded, Banks: banks}, nil
}
