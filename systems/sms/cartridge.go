package sms

// Cartridge implements the standard Sega memory mapper: three 16KiB
// ROM slots at $0000-$3FFF/$4000-$7FFF/$8000-$BFFF, each independently
// banked through a register mirrored into the top of system RAM
// ($FFFC-$FFFE), grounded on the bus's bank-register placement in the
// reference SMS bus implementation. Slot 0's first 1KiB ($0000-
// $03FF) is NOT fixed in this simplified model (spec allows the
// simplification; most commercial carts never rely on it being
// unbanked).
type Cartridge struct {
	rom *ROM

	bank0, bank1, bank2 uint8
}

func NewCartridge(data []byte) (*Cartridge, error) {
	rom, err := ParseROM(data)
	if err != nil {
		return nil, err
	}
	return &Cartridge{rom: rom, bank0: 0, bank1: 1 % uint8(rom.Banks), bank2: 2 % uint8(rom.Banks)}, nil
}

func (c *Cartridge) Read(addr uint16) uint8 {
	var bank uint8
	switch {
	case addr < 0x4000:
		bank = c.bank0
	case addr < 0x8000:
		bank = c.bank1
	default:
		bank = c.bank2
	}
	off := int(bank)*0x4000 + int(addr&0x3FFF)
	if off < len(c.rom.Data) {
		return c.rom.Data[off]
	}
	return 0xFF
}

// SetBank is called by the bus when a write lands on one of the
// mirrored bank-select bytes at the top of RAM ($FFFC-$FFFE).
func (c *Cartridge) SetBank(slot int, value uint8) {
	if c.rom.Banks == 0 {
		return
	}
	bank := value % uint8(c.rom.Banks)
	switch slot {
	case 0:
		c.bank0 = bank
	case 1:
		c.bank1 = bank
	case 2:
		c.bank2 = bank
	}
}

type cartridgeState struct {
	Bank0, Bank1, Bank2 uint8
}

func (c *Cartridge) getState() cartridgeState {
	return cartridgeState{c.bank0, c.bank1, c.bank2}
}

func (c *Cartridge) setState(s cartridgeState) {
	c.bank0, c.bank1, c.bank2 = s.Bank0, s.Bank1, s.Bank2
}
