package nes

// mmc1 implements mapper 1: a 5-bit serial shift register feeds four
// internal registers (control, CHR bank 0, CHR bank 1, PRG bank) one
// bit per write regardless of address, committed on the fifth write.
// Writing with bit 7 set resets the shift register and forces PRG mode
// 3 (fix last bank), independent of shift progress.
type mmc1 struct {
	prg  []uint8
	chr  []uint8
	sram [0x2000]uint8

	prgBanks int
	chrIsRAM bool

	shiftReg   uint8
	shiftCount uint8

	mirroring uint8 // 0=single-low 1=single-high 2=vertical 3=horizontal
	prgMode   uint8
	chrMode   uint8

	chrBank0 uint8
	chrBank1 uint8
	prgBank  uint8

	prgRAMEnabled bool
}

func newMMC1(rom *ROM) *mmc1 {
	mirroring := uint8(3) // horizontal
	if rom.Mirroring == MirrorVertical {
		mirroring = 2
	}
	return &mmc1{
		prg:           rom.PRG,
		chr:           rom.CHR,
		prgBanks:      len(rom.PRG) / 0x4000,
		chrIsRAM:      rom.HasCHRRAM,
		shiftReg:      0x10,
		prgMode:       3,
		mirroring:     mirroring,
		prgRAMEnabled: true,
	}
}

func (m *mmc1) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled {
			return m.sram[addr-0x6000]
		}
		return 0
	case addr >= 0x8000 && addr < 0xC000:
		bank := m.prgBankFor(0, addr)
		offset := uint32(bank)*0x4000 + uint32(addr-0x8000)
		if int(offset) < len(m.prg) {
			return m.prg[offset]
		}
	case addr >= 0xC000:
		bank := m.prgBankFor(1, addr)
		offset := uint32(bank)*0x4000 + uint32(addr-0xC000)
		if int(offset) < len(m.prg) {
			return m.prg[offset]
		}
	}
	return 0
}

func (m *mmc1) prgBankFor(half int, addr uint16) uint8 {
	switch m.prgMode {
	case 0, 1:
		if half == 0 {
			return m.prgBank & 0xFE
		}
		return (m.prgBank & 0xFE) | 1
	case 2:
		if half == 0 {
			return 0
		}
		return m.prgBank
	default: // 3
		if half == 0 {
			return m.prgBank
		}
		return uint8(m.prgBanks - 1)
	}
}

func (m *mmc1) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		if m.prgRAMEnabled {
			m.sram[addr-0x6000] = value
		}
	case addr >= 0x8000:
		if value&0x80 != 0 {
			m.shiftReg = 0x10
			m.shiftCount = 0
			m.prgMode = 3
			return
		}
		m.shiftReg = (m.shiftReg >> 1) | ((value & 1) << 4)
		m.shiftCount++
		if m.shiftCount == 5 {
			m.commit(addr, m.shiftReg)
			m.shiftReg = 0x10
			m.shiftCount = 0
		}
	}
}

func (m *mmc1) commit(addr uint16, value uint8) {
	switch {
	case addr < 0xA000:
		m.mirroring = value & 0x03
		m.prgMode = (value >> 2) & 0x03
		m.chrMode = (value >> 4) & 0x01
	case addr < 0xC000:
		m.chrBank0 = value & 0x1F
	case addr < 0xE000:
		m.chrBank1 = value & 0x1F
	default:
		m.prgBank = value & 0x0F
		m.prgRAMEnabled = value&0x10 == 0
	}
}

func (m *mmc1) ReadCHR(addr uint16) uint8 {
	offset := m.chrOffset(addr)
	if int(offset) < len(m.chr) {
		return m.chr[offset]
	}
	return 0
}

func (m *mmc1) WriteCHR(addr uint16, value uint8) {
	if !m.chrIsRAM {
		return
	}
	offset := m.chrOffset(addr)
	if int(offset) < len(m.chr) {
		m.chr[offset] = value
	}
}

func (m *mmc1) chrOffset(addr uint16) uint32 {
	if m.chrMode == 0 {
		bank := m.chrBank0 & 0xFE
		if addr >= 0x1000 {
			bank |= 1
		}
		return uint32(bank)*0x1000 + uint32(addr&0x0FFF)
	}
	if addr < 0x1000 {
		return uint32(m.chrBank0)*0x1000 + uint32(addr)
	}
	return uint32(m.chrBank1)*0x1000 + uint32(addr-0x1000)
}

func (m *mmc1) NotifyA12(high bool)  {}
func (m *mmc1) TakeIRQPending() bool { return false }

func (m *mmc1) Mirroring() MirrorMode {
	switch m.mirroring {
	case 0:
		return MirrorSingleLow
	case 1:
		return MirrorSingleHigh
	case 2:
		return MirrorVertical
	default:
		return MirrorHorizontal
	}
}

func (m *mmc1) GetState() MapperState {
	return MapperState{
		ShiftReg: m.shiftReg, ShiftCount: m.shiftCount,
		Mirroring: m.mirroring, PRGMode: m.prgMode, CHRMode: m.chrMode,
		CHRBank0: m.chrBank0, CHRBank1: m.chrBank1, PRGBank: m.prgBank,
		PRGRAM: append([]uint8(nil), m.sram[:]...),
		CHRRAM: append([]uint8(nil), m.chr...),
	}
}

func (m *mmc1) SetState(s MapperState) {
	m.shiftReg, m.shiftCount = s.ShiftReg, s.ShiftCount
	m.mirroring, m.prgMode, m.chrMode = s.Mirroring, s.PRGMode, s.CHRMode
	m.chrBank0, m.chrBank1, m.prgBank = s.CHRBank0, s.CHRBank1, s.PRGBank
	copy(m.sram[:], s.PRGRAM)
	if m.chrIsRAM {
		copy(m.chr, s.CHRRAM)
	}
}
