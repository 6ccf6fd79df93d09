package gameboy

// Cartridge owns the parsed ROM image and its MBC, the single point
// bus.go routes $0000-$7FFF and $A000-$BFFF accesses through.
type Cartridge struct {
	rom    *ROM
	mapper Mapper
}

func NewCartridge(data []byte) (*Cartridge, error) {
	rom, err := ParseROM(data)
	if err != nil {
		return nil, err
	}
	return &Cartridge{rom: rom, mapper: newMapper(rom)}, nil
}

func (c *Cartridge) ReadROM(addr uint16) uint8         { return c.mapper.ReadROM(addr) }
func (c *Cartridge) WriteROM(addr uint16, value uint8) { c.mapper.WriteROM(addr, value) }
func (c *Cartridge) ReadRAM(addr uint16) uint8         { return c.mapper.ReadRAM(addr) }
func (c *Cartridge) WriteRAM(addr uint16, value uint8) { c.mapper.WriteRAM(addr, value) }

type cartridgeState struct {
	CartType uint8
	Mapper   MapperState
}

func (c *Cartridge) getState() cartridgeState {
	return cartridgeState{CartType: c.rom.CartType, Mapper: c.mapper.GetState()}
}

func (c *Cartridge) setState(s cartridgeState) {
	c.mapper.SetState(s.Mapper)
}
