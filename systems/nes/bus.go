package nes

// bus implements cpu6502.Memory: the CPU's view of the NES address
// space, routing $0000-$1FFF to mirrored internal RAM, $2000-$3FFF to
// PPU registers (also mirrored every 8 bytes), $4000-$4017 to APU and
// controller ports, and $6000-$FFFF to the cartridge ($4018-$5FFF
// reads as open bus and ignores writes).
type bus struct {
	ram  [0x800]uint8
	ppu  *PPU
	apu  *APU
	cart *Cartridge

	controllers [2]controller

	openBus uint8

	dmaCallback func(page uint8)
}

// newBus wires a fresh PPU and APU to cart, with the APU's DMC sample
// fetches routed back through the bus itself (b implements
// apu2a03.MemoryReader via Read).
func newBus(cart *Cartridge) *bus {
	b := &bus{cart: cart}
	b.ppu = newPPU(cart)
	b.apu = newAPU(b)
	return b
}

func (b *bus) Read(addr uint16) uint8 {
	var value uint8
	switch {
	case addr < 0x2000:
		value = b.ram[addr&0x07FF]
	case addr < 0x4000:
		value = b.ppu.ReadRegister(0x2000 + addr&7)
	case addr == 0x4015:
		value = b.apu.readStatus()
	case addr == 0x4016:
		value = b.controllers[0].read()
	case addr == 0x4017:
		value = b.controllers[1].read() | 0x40
	case addr < 0x4020:
		value = b.openBus
	case addr >= 0x6000:
		value = b.cart.ReadPRG(addr)
	default:
		value = b.openBus
	}
	b.openBus = value
	return value
}

func (b *bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		b.ram[addr&0x07FF] = value
	case addr < 0x4000:
		b.ppu.WriteRegister(0x2000+addr&7, value)
	case addr == 0x4014:
		if b.dmaCallback != nil {
			b.dmaCallback(value)
		}
	case addr == 0x4016:
		b.controllers[0].write(value)
		b.controllers[1].write(value)
	case addr >= 0x4000 && addr <= 0x4013, addr == 0x4015, addr == 0x4017:
		b.apu.writeRegister(addr, value)
	case addr >= 0x6000:
		b.cart.WritePRG(addr, value)
	}
}

func (b *bus) performOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.writeOAM(uint8(i), b.Read(base+uint16(i)))
	}
}

type busState struct {
	RAM      [0x800]uint8
	Buttons1 uint8
	Buttons2 uint8
	OpenBus  uint8
}

func (b *bus) getState() busState {
	return busState{
		RAM:      b.ram,
		Buttons1: b.controllers[0].buttons,
		Buttons2: b.controllers[1].buttons,
		OpenBus:  b.openBus,
	}
}

func (b *bus) setState(s busState) {
	b.ram = s.RAM
	b.controllers[0].buttons = s.Buttons1
	b.controllers[1].buttons = s.Buttons2
	b.openBus = s.OpenBus
}
