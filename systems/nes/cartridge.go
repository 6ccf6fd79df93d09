package nes

// Cartridge owns a parsed ROM image and its mapper, and is the single
// point bus.go and ppu.go both route PRG/CHR accesses through.
type Cartridge struct {
	rom    *ROM
	mapper Mapper
}

// NewCartridge parses raw iNES bytes and selects the matching mapper.
func NewCartridge(data []byte) (*Cartridge, error) {
	rom, err := ParseINES(data)
	if err != nil {
		return nil, err
	}
	return &Cartridge{rom: rom, mapper: newMapper(rom.MapperID, rom)}, nil
}

func (c *Cartridge) ReadPRG(addr uint16) uint8         { return c.mapper.ReadPRG(addr) }
func (c *Cartridge) WritePRG(addr uint16, value uint8) { c.mapper.WritePRG(addr, value) }
func (c *Cartridge) ReadCHR(addr uint16) uint8         { return c.mapper.ReadCHR(addr) }
func (c *Cartridge) WriteCHR(addr uint16, value uint8) { c.mapper.WriteCHR(addr, value) }
func (c *Cartridge) NotifyA12(high bool)               { c.mapper.NotifyA12(high) }
func (c *Cartridge) TakeIRQPending() bool              { return c.mapper.TakeIRQPending() }
func (c *Cartridge) Mirroring() MirrorMode {
	if c == nil { // no cartridge mounted
		return MirrorHorizontal
	}
	return c.mapper.Mirroring()
}

type cartridgeState struct {
	MapperID uint8
	Mapper   MapperState
}

func (c *Cartridge) getState() cartridgeState {
	return cartridgeState{MapperID: c.rom.MapperID, Mapper: c.mapper.GetState()}
}

func (c *Cartridge) setState(s cartridgeState) {
	c.mapper.SetState(s.Mapper)
}
