package nes

// axrom implements mapper 7 (AxROM): switchable 32KB PRG bank, fixed
// 8KB CHR RAM, single-screen mirroring selected via bit 4 of the
// bank-select write.
type axrom struct {
	prg      []uint8
	chr      [0x2000]uint8
	prgBanks uint8
	prgBank  uint8
	mirror   MirrorMode
}

func newAxROM(rom *ROM) *axrom {
	return &axrom{
		prg:      rom.PRG,
		prgBanks: uint8(len(rom.PRG) / 0x8000),
		mirror:   MirrorSingleLow,
	}
}

func (m *axrom) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	offset := uint32(m.prgBank)*0x8000 + uint32(addr-0x8000)
	if int(offset) < len(m.prg) {
		return m.prg[offset]
	}
	return 0
}

func (m *axrom) WritePRG(addr uint16, value uint8) {
	if addr < 0x8000 {
		return
	}
	bank := value & 0x07
	if m.prgBanks > 0 {
		bank &= m.prgBanks - 1
	}
	m.prgBank = bank
	if value&0x10 != 0 {
		m.mirror = MirrorSingleHigh
	} else {
		m.mirror = MirrorSingleLow
	}
}

func (m *axrom) ReadCHR(addr uint16) uint8 {
	if addr < 0x2000 {
		return m.chr[addr]
	}
	return 0
}

func (m *axrom) WriteCHR(addr uint16, value uint8) {
	if addr < 0x2000 {
		m.chr[addr] = value
	}
}

func (m *axrom) NotifyA12(high bool)   {}
func (m *axrom) TakeIRQPending() bool  { return false }
func (m *axrom) Mirroring() MirrorMode { return m.mirror }

func (m *axrom) GetState() MapperState {
	return MapperState{PRGBank: m.prgBank, Mirroring: uint8(m.mirror), CHRRAM: append([]uint8(nil), m.chr[:]...)}
}
func (m *axrom) SetState(s MapperState) {
	m.prgBank = s.PRGBank
	m.mirror = MirrorMode(s.Mirroring)
	copy(m.chr[:], s.CHRRAM)
}
