package nes

// mmc3 implements mapper 4: eight bank registers selected by a
// bank-select/bank-data register pair, plus a scanline IRQ counter
// that reloads and decrements on PPU A12 rising edges rather than on
// a scanline callback, matching real MMC3 hardware (the PPU toggles
// A12 twice per scanline during background/sprite pattern fetches;
// the counter only reacts to transitions, with a short low-time
// filter that real silicon implements and this core approximates by
// simply requiring a rising edge after having seen A12 low).
type mmc3 struct {
	prg  []uint8
	chr  []uint8
	sram [0x2000]uint8

	prgBanks int

	bankSelect uint8
	prgMode    uint8
	chrMode    uint8
	registers  [8]uint8

	mirroring          MirrorMode
	prgRAMEnabled      bool
	prgRAMWriteProtect bool

	irqLatch      uint8
	irqCounter    uint8
	irqEnabled    bool
	irqPending    bool
	irqReloadFlag bool

	a12Low bool
}

func newMMC3(rom *ROM) *mmc3 {
	return &mmc3{
		prg:           rom.PRG,
		chr:           rom.CHR,
		prgBanks:      len(rom.PRG) / 0x2000,
		mirroring:     rom.Mirroring,
		prgRAMEnabled: true,
		a12Low:        true,
	}
}

func (m *mmc3) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled {
			return m.sram[addr-0x6000]
		}
		return 0
	case addr >= 0x8000 && addr < 0xA000:
		return m.prgAt(m.bank0(), addr-0x8000)
	case addr >= 0xA000 && addr < 0xC000:
		return m.prgAt(m.registers[7], addr-0xA000)
	case addr >= 0xC000 && addr < 0xE000:
		return m.prgAt(m.bank2(), addr-0xC000)
	default:
		return m.prgAt(uint8(m.prgBanks-1), addr-0xE000)
	}
}

func (m *mmc3) bank0() uint8 {
	if m.prgMode == 0 {
		return m.registers[6]
	}
	return uint8(m.prgBanks - 2)
}

func (m *mmc3) bank2() uint8 {
	if m.prgMode == 0 {
		return uint8(m.prgBanks - 2)
	}
	return m.registers[6]
}

func (m *mmc3) prgAt(bank uint8, offset uint16) uint8 {
	o := uint32(bank)*0x2000 + uint32(offset)
	if int(o) < len(m.prg) {
		return m.prg[o]
	}
	return 0
}

func (m *mmc3) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled && !m.prgRAMWriteProtect {
			m.sram[addr-0x6000] = value
		}
	case addr >= 0x8000 && addr < 0xA000:
		if addr&1 == 0 {
			m.bankSelect = value & 0x07
			m.prgMode = (value >> 6) & 0x01
			m.chrMode = (value >> 7) & 0x01
		} else {
			m.registers[m.bankSelect] = value
		}
	case addr >= 0xA000 && addr < 0xC000:
		if addr&1 == 0 {
			if value&1 == 0 {
				m.mirroring = MirrorVertical
			} else {
				m.mirroring = MirrorHorizontal
			}
		} else {
			m.prgRAMWriteProtect = value&0x40 != 0
			m.prgRAMEnabled = value&0x80 != 0
		}
	case addr >= 0xC000 && addr < 0xE000:
		if addr&1 == 0 {
			m.irqLatch = value
		} else {
			m.irqCounter = 0
			m.irqReloadFlag = true
		}
	default:
		if addr&1 == 0 {
			m.irqEnabled = false
			m.irqPending = false
		} else {
			m.irqEnabled = true
		}
	}
}

func (m *mmc3) ReadCHR(addr uint16) uint8 {
	o := m.chrOffset(addr)
	if int(o) < len(m.chr) {
		return m.chr[o]
	}
	return 0
}

func (m *mmc3) WriteCHR(addr uint16, value uint8) {}

func (m *mmc3) chrOffset(addr uint16) uint32 {
	if m.chrMode == 0 {
		switch {
		case addr < 0x0800:
			return uint32(m.registers[0]&0xFE)*0x400 + uint32(addr)
		case addr < 0x1000:
			return uint32(m.registers[1]&0xFE)*0x400 + uint32(addr-0x0800)
		case addr < 0x1400:
			return uint32(m.registers[2])*0x400 + uint32(addr-0x1000)
		case addr < 0x1800:
			return uint32(m.registers[3])*0x400 + uint32(addr-0x1400)
		case addr < 0x1C00:
			return uint32(m.registers[4])*0x400 + uint32(addr-0x1800)
		default:
			return uint32(m.registers[5])*0x400 + uint32(addr-0x1C00)
		}
	}
	switch {
	case addr < 0x0400:
		return uint32(m.registers[2])*0x400 + uint32(addr)
	case addr < 0x0800:
		return uint32(m.registers[3])*0x400 + uint32(addr-0x0400)
	case addr < 0x0C00:
		return uint32(m.registers[4])*0x400 + uint32(addr-0x0800)
	case addr < 0x1000:
		return uint32(m.registers[5])*0x400 + uint32(addr-0x0C00)
	case addr < 0x1800:
		return uint32(m.registers[0]&0xFE)*0x400 + uint32(addr-0x1000)
	default:
		return uint32(m.registers[1]&0xFE)*0x400 + uint32(addr-0x1800)
	}
}

// NotifyA12 clocks the IRQ counter on a rising A12 edge (low-to-high
// transition of PPU VRAM address bit 12), the signal real MMC3
// hardware uses instead of a scanline count.
func (m *mmc3) NotifyA12(high bool) {
	if high && m.a12Low {
		if m.irqCounter == 0 || m.irqReloadFlag {
			m.irqCounter = m.irqLatch
			m.irqReloadFlag = false
		} else {
			m.irqCounter--
		}
		if m.irqCounter == 0 && m.irqEnabled {
			m.irqPending = true
		}
	}
	m.a12Low = !high
}

func (m *mmc3) TakeIRQPending() bool {
	p := m.irqPending
	m.irqPending = false
	return p
}

func (m *mmc3) Mirroring() MirrorMode { return m.mirroring }

func (m *mmc3) GetState() MapperState {
	return MapperState{
		Registers: m.registers, BankSelect: m.bankSelect,
		PRGMode: m.prgMode, CHRMode: m.chrMode,
		Mirroring: uint8(m.mirroring),
		IRQLatch:  m.irqLatch, IRQCounter: m.irqCounter,
		IRQEnabled: m.irqEnabled, IRQPending: m.irqPending, IRQReload: m.irqReloadFlag,
		PRGRAM: append([]uint8(nil), m.sram[:]...),
	}
}

func (m *mmc3) SetState(s MapperState) {
	m.registers, m.bankSelect = s.Registers, s.BankSelect
	m.prgMode, m.chrMode = s.PRGMode, s.CHRMode
	m.mirroring = MirrorMode(s.Mirroring)
	m.irqLatch, m.irqCounter = s.IRQLatch, s.IRQCounter
	m.irqEnabled, m.irqPending, m.irqReloadFlag = s.IRQEnabled, s.IRQPending, s.IRQReload
	copy(m.sram[:], s.PRGRAM)
}
