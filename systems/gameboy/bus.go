package gameboy

import "github.com/hemu/hemucore/core/apugb"

// bus implements cpulr35902.Memory: the DMG's flat memory map. It
// owns work RAM, HRAM, the IE/IF interrupt registers, and routes
// VRAM/OAM/PPU-register/APU-register/joypad/timer/cartridge accesses
// to their owning component, exactly as systems/nes's bus does for
// the 6502.
type bus struct {
	wram [0x2000]uint8
	hram [0x7F]uint8

	ie, ifReg uint8

	ppu   *PPU
	apu   *apugb.APU
	cart  *Cartridge
	pad   joypad
	timer timer

	dmaActive bool
	dmaSrc    uint16
	dmaPos    uint16
}

func newBus(cart *Cartridge) *bus {
	return &bus{ppu: newPPU(), apu: apugb.New(), cart: cart}
}

func (b *bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		if b.cart != nil {
			return b.cart.ReadROM(addr)
		}
		return 0xFF
	case addr < 0xA000:
		return b.ppu.readVRAM(addr - 0x8000)
	case addr < 0xC000:
		if b.cart != nil {
			return b.cart.ReadRAM(addr - 0xA000)
		}
		return 0xFF
	case addr < 0xE000:
		return b.wram[addr&0x1FFF]
	case addr < 0xFE00:
		return b.wram[addr&0x1FFF]
	case addr < 0xFEA0:
		return b.ppu.readOAM(uint8(addr - 0xFE00))
	case addr < 0xFF00:
		return 0xFF
	case addr == 0xFF00:
		return b.pad.read()
	case addr == 0xFF04:
		return b.timer.readDIV()
	case addr == 0xFF05:
		return b.timer.tima
	case addr == 0xFF06:
		return b.timer.tma
	case addr == 0xFF07:
		return b.timer.tac | 0xF8
	case addr == 0xFF0F:
		return b.ifReg | 0xE0
	case addr >= 0xFF10 && addr <= 0xFF3F:
		if addr == 0xFF26 {
			return b.apu.ReadStatus() | 0x70
		}
		return 0xFF
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.ppu.ReadRegister(addr)
	case addr < 0xFF80:
		return 0xFF
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return b.ie
	}
}

func (b *bus) Write(addr uint16, value uint8) {
	switch {
	case addr < 0x8000:
		if b.cart != nil {
			b.cart.WriteROM(addr, value)
		}
	case addr < 0xA000:
		b.ppu.writeVRAM(addr-0x8000, value)
	case addr < 0xC000:
		if b.cart != nil {
			b.cart.WriteRAM(addr-0xA000, value)
		}
	case addr < 0xE000:
		b.wram[addr&0x1FFF] = value
	case addr < 0xFE00:
		b.wram[addr&0x1FFF] = value
	case addr < 0xFEA0:
		b.ppu.writeOAM(uint8(addr-0xFE00), value)
	case addr < 0xFF00:
	case addr == 0xFF00:
		b.pad.write(value)
	case addr == 0xFF04:
		b.timer.writeDIV()
	case addr == 0xFF05:
		b.timer.tima = value
	case addr == 0xFF06:
		b.timer.tma = value
	case addr == 0xFF07:
		b.timer.tac = value & 0x07
	case addr == 0xFF0F:
		b.ifReg = value & 0x1F
	case addr == 0xFF46:
		b.startOAMDMA(value)
	case addr >= 0xFF10 && addr <= 0xFF3F:
		b.apu.WriteRegister(addr, value)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.ppu.WriteRegister(addr, value)
	case addr < 0xFF80:
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = value
	default:
		b.ie = value
	}
}

// startOAMDMA copies 160 bytes from (value<<8) into OAM immediately;
// the real hardware takes 160 cycles and blocks non-HRAM access
// during the transfer, a timing detail the driver's step loop doesn't
// need to model cycle-exactly for the core's scope.
func (b *bus) startOAMDMA(value uint8) {
	src := uint16(value) << 8
	for i := uint16(0); i < 0xA0; i++ {
		b.ppu.writeOAM(uint8(i), b.Read(src+i))
	}
}

// pullInterrupts folds the PPU's pending IF bits (set during the
// Step call the driver just made) into the shared IF register; the
// driver calls this before handing ie/ifReg to the CPU core.
func (b *bus) pullInterrupts() {
	b.ifReg |= b.ppu.TakeIF()
}

// raiseTimerIRQ sets the timer interrupt flag (bit 2).
func (b *bus) raiseTimerIRQ() { b.ifReg |= 0x04 }

type busState struct {
	WRAM  [0x2000]uint8
	HRAM  [0x7F]uint8
	IE    uint8
	IF    uint8
	Pad   uint8
	Timer timerState
}

func (b *bus) getState() busState {
	return busState{WRAM: b.wram, HRAM: b.hram, IE: b.ie, IF: b.ifReg, Pad: b.pad.buttons, Timer: b.timer.getState()}
}

func (b *bus) setState(s busState) {
	b.wram, b.hram = s.WRAM, s.HRAM
	b.ie, b.ifReg = s.IE, s.IF
	b.pad.buttons = s.Pad
	b.timer.setState(s.Timer)
}
