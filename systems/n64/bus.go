package n64

const rdramSize = 4 * 1024 * 1024 // 4 MiB: enough for this core's reduced-fidelity needs

// bus implements cpumips.Memory: RDRAM at the bottom of the physical
// map, the cartridge's PI domain at 0x10000000, a minimal VI (video
// interface) register block the system driver reads to locate the
// framebuffer in RDRAM, and a PIF controller-state latch. Real N64
// hardware also has RSP/RDP command FIFOs and a TLB; both are out of
// scope (spec §1's N64 RSP/RDP non-goal), so writes to those regions
// are accepted and ignored rather than modeled.
type bus struct {
	rdram [rdramSize]uint8
	cart  *Cartridge
	ctrl  [4]controller

	viOrigin uint32
	viWidth  uint32
	viStatus uint32
}

func newBus(cart *Cartridge) *bus {
	return &bus{cart: cart, viWidth: 320, viOrigin: 0x100000}
}

func (b *bus) readByte(addr uint32) uint8 {
	switch {
	case addr < rdramSize:
		return b.rdram[addr]
	case addr >= 0x10000000 && addr < 0x1FC00000:
		if b.cart != nil {
			return b.cart.Read8(addr - 0x10000000)
		}
		return 0
	case addr >= 0x04400000 && addr < 0x04400010:
		return b.readVIByte(addr - 0x04400000)
	case addr >= 0x04800000 && addr < 0x04800010:
		return b.readControllerByte(addr - 0x04800000)
	default:
		return 0
	}
}

func (b *bus) writeByte(addr uint32, v uint8) {
	switch {
	case addr < rdramSize:
		b.rdram[addr] = v
	case addr >= 0x10000000 && addr < 0x1FC00000:
		// cartridge ROM: writes ignored (spec §4.3 ROM-write invariant)
	case addr >= 0x04400000 && addr < 0x04400010:
		b.writeVIByte(addr-0x04400000, v)
	default:
		// unmapped/RSP/RDP/TLB register space: accepted, ignored
	}
}

func regByte(reg uint32, off uint32) uint8 { return uint8(reg >> ((3 - off) * 8)) }

func setRegByte(reg *uint32, off uint32, v uint8) {
	shift := (3 - off) * 8
	*reg = *reg&^(0xFF<<shift) | uint32(v)<<shift
}

func (b *bus) readVIByte(off uint32) uint8 {
	switch {
	case off < 4:
		return regByte(b.viStatus, off)
	case off < 8:
		return regByte(b.viOrigin, off-4)
	default:
		return regByte(b.viWidth, off-8)
	}
}

func (b *bus) writeVIByte(off uint32, v uint8) {
	switch {
	case off < 4:
		setRegByte(&b.viStatus, off, v)
	case off < 8:
		setRegByte(&b.viOrigin, off-4, v)
	default:
		setRegByte(&b.viWidth, off-8, v)
	}
}

func (b *bus) readControllerByte(off uint32) uint8 {
	idx := off / 4
	if idx >= uint32(len(b.ctrl)) {
		return 0
	}
	c := &b.ctrl[idx]
	switch off % 4 {
	case 0:
		return uint8(c.buttons >> 8)
	case 1:
		return uint8(c.buttons)
	case 2:
		return uint8(c.stickX)
	default:
		return uint8(c.stickY)
	}
}

func (b *bus) Read8(addr uint32) uint8  { return b.readByte(addr) }
func (b *bus) Write8(addr uint32, v uint8) { b.writeByte(addr, v) }

func (b *bus) Read16(addr uint32) uint16 {
	return uint16(b.readByte(addr))<<8 | uint16(b.readByte(addr+1))
}

func (b *bus) Write16(addr uint32, v uint16) {
	b.writeByte(addr, uint8(v>>8))
	b.writeByte(addr+1, uint8(v))
}

func (b *bus) Read32(addr uint32) uint32 {
	return uint32(b.readByte(addr))<<24 | uint32(b.readByte(addr+1))<<16 |
		uint32(b.readByte(addr+2))<<8 | uint32(b.readByte(addr+3))
}

func (b *bus) Write32(addr uint32, v uint32) {
	b.writeByte(addr, uint8(v>>24))
	b.writeByte(addr+1, uint8(v>>16))
	b.writeByte(addr+2, uint8(v>>8))
	b.writeByte(addr+3, uint8(v))
}

type busState struct {
	RDRAM                     []uint8
	Ctrl                      [4]controller
	ViOrigin, ViWidth, ViStatus uint32
}

func (b *bus) getState() busState {
	rdram := make([]uint8, rdramSize)
	copy(rdram, b.rdram[:])
	return busState{RDRAM: rdram, Ctrl: b.ctrl, ViOrigin: b.viOrigin, ViWidth: b.viWidth, ViStatus: b.viStatus}
}

func (b *bus) setState(s busState) {
	copy(b.rdram[:], s.RDRAM)
	b.ctrl = s.Ctrl
	b.viOrigin, b.viWidth, b.viStatus = s.ViOrigin, s.ViWidth, s.ViStatus
}
