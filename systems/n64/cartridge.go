package n64

// Cartridge is the N64's PI (Peripheral Interface) cart domain: a
// flat, read-mostly ROM image the CPU addresses big-endian, 32 bits
// at a time. Real N64 carts have no bank switching the core needs to
// model (the PI DMA engine streams the whole image linearly); out-of-
// range reads return 0 rather than panicking, per spec §4.3's "never
// panic on out-of-range addresses" invariant applied here too.
type Cartridge struct {
	rom *ROM
}

func NewCartridge(rom *ROM) *Cartridge { return &Cartridge{rom: rom} }

func (c *Cartridge) Read8(offset uint32) uint8 {
	if int(offset) < len(c.rom.Data) {
		return c.rom.Data[offset]
	}
	return 0
}

func (c *Cartridge) Read32(offset uint32) uint32 {
	return uint32(c.Read8(offset))<<24 | uint32(c.Read8(offset+1))<<16 |
		uint32(c.Read8(offset+2))<<8 | uint32(c.Read8(offset+3))
}

// Write is a no-op: cartridge ROM is never writable, matching spec
// §4.3's "writes to ROM regions do not modify ROM bytes" invariant.
func (c *Cartridge) Write8(uint32, uint8) {}

type cartridgeState struct {
	ROM []uint8
}

func (c *Cartridge) getState() cartridgeState { return cartridgeState{ROM: c.rom.Data} }

func (c *Cartridge) setState(s cartridgeState) { c.rom = &ROM{Data: s.ROM} }
