package snes

// Cartridge translates a 65C816 bank:offset address into an offset
// into the ROM image, following the two bank layouts spec §6 names.
// Grounded on the same "mapper owns the address translation, bus owns
// dispatch" split used by the NES mappers (systems/nes/mapper_nrom.go)
// and the SMS cartridge (systems/sms/cartridge.go).
type Cartridge struct {
	rom *ROM
	sram [0x8000]uint8
}

func NewCartridge(rom *ROM) *Cartridge {
	return &Cartridge{rom: rom}
}

// Read8 resolves a full 24-bit SNES address against the cartridge's
// bank layout; the SRAM window reads battery-backed SRAM when the
// cartridge has a battery, and other addresses that don't land in ROM
// read as zero, matching the same "never panic on guest-driven
// addressing" invariant the other mappers hold.
func (c *Cartridge) Read8(bank uint8, offset uint16) uint8 {
	if off, ok := c.sramOffset(bank, offset); ok {
		return c.sram[off]
	}
	if off, ok := c.romOffset(bank, offset); ok {
		return c.rom.Data[off%len(c.rom.Data)]
	}
	return 0
}

func (c *Cartridge) Write8(bank uint8, offset uint16, v uint8) {
	if off, ok := c.sramOffset(bank, offset); ok {
		c.sram[off] = v
	}
	// ROM writes are ignored; no mapper register bank is modeled.
}

func (c *Cartridge) romOffset(bank uint8, offset uint16) (int, bool) {
	b := bank & 0x7F
	switch c.rom.Mapping {
	case LoROM:
		if offset < 0x8000 {
			return 0, false
		}
		return int(b)*0x8000 + int(offset-0x8000), true
	default: // HiROM
		if b < 0x40 {
			if offset < 0x8000 {
				return 0, false
			}
			return int(b)*0x10000 + int(offset), true
		}
		return int(b-0x40)*0x10000 + int(offset), true
	}
}

// sramOffset recognizes the documented battery-backed SRAM window:
// LoROM banks 0x70-0x7D, offsets 0x0000-0x7FFF.
func (c *Cartridge) sramOffset(bank uint8, offset uint16) (int, bool) {
	if !c.rom.HasBattery || c.rom.Mapping != LoROM {
		return 0, false
	}
	b := bank & 0x7F
	if b >= 0x70 && b <= 0x7D && offset < 0x8000 {
		return (int(b-0x70)*0x8000 + int(offset)) % len(c.sram), true
	}
	return 0, false
}

type cartridgeState struct {
	ROM  []uint8
	SRAM [0x8000]uint8
}

func (c *Cartridge) getState() cartridgeState {
	rom := make([]uint8, len(c.rom.Data))
	copy(rom, c.rom.Data)
	return cartridgeState{ROM: rom, SRAM: c.sram}
}

func (c *Cartridge) setState(s cartridgeState) {
	if len(s.ROM) > 0 {
		copy(c.rom.Data, s.ROM)
	}
	c.sram = s.SRAM
}
