package nes

// uxrom implements mapper 2 (UxROM): switchable 16KB bank at $8000,
// fixed last bank at $C000, CHR RAM only.
type uxrom struct {
	prg        []uint8
	chr        []uint8
	sram       [0x2000]uint8
	prgBanks   int
	selectBank uint8
	mirror     MirrorMode
}

func newUxROM(rom *ROM) *uxrom {
	return &uxrom{
		prg:      rom.PRG,
		chr:      rom.CHR,
		prgBanks: len(rom.PRG) / 0x4000,
		mirror:   rom.Mirroring,
	}
}

func (m *uxrom) ReadPRG(addr uint16) uint8 {
	switch {
	case addr >= 0xC000:
		offset := uint32(m.prgBanks-1)*0x4000 + uint32(addr-0xC000)
		return m.prg[offset]
	case addr >= 0x8000:
		offset := uint32(m.selectBank)*0x4000 + uint32(addr-0x8000)
		if int(offset) < len(m.prg) {
			return m.prg[offset]
		}
	case addr >= 0x6000:
		return m.sram[addr-0x6000]
	}
	return 0
}

func (m *uxrom) WritePRG(addr uint16, value uint8) {
	switch {
	case addr >= 0x8000:
		m.selectBank = value & 0x0F
	case addr >= 0x6000:
		m.sram[addr-0x6000] = value
	}
}

func (m *uxrom) ReadCHR(addr uint16) uint8 {
	if int(addr) < len(m.chr) {
		return m.chr[addr]
	}
	return 0
}

func (m *uxrom) WriteCHR(addr uint16, value uint8) {
	if int(addr) < len(m.chr) {
		m.chr[addr] = value
	}
}

func (m *uxrom) NotifyA12(high bool)   {}
func (m *uxrom) TakeIRQPending() bool  { return false }
func (m *uxrom) Mirroring() MirrorMode { return m.mirror }

func (m *uxrom) GetState() MapperState {
	return MapperState{BankSelect: m.selectBank}
}
func (m *uxrom) SetState(s MapperState) { m.selectBank = s.BankSelect }
