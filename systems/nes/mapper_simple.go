package nes

// simpleBankSwitch is the common shape behind several low-pin-count
// discrete-logic mappers: a single latch written anywhere in PRG space
// selects both a 32KB PRG bank and an 8KB CHR bank, with no IRQ and no
// PRG RAM. ColorDreams, BNROM and GxROM differ only in which write
// region they respond to and how the PRG/CHR fields are packed into
// the written byte.
type simpleBankSwitch struct {
	prg      []uint8
	chr      []uint8
	prgBanks int
	chrBanks int
	prgBank  int
	chrBank  int
	mirror   MirrorMode
	pack     func(value uint8) (prg, chr int)
	writeLow bool // NINA-style: register lives at $6000-$7FFF, not $8000+
}

func (m *simpleBankSwitch) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	offset := m.prgBank*0x8000 + int(addr-0x8000)
	if offset < len(m.prg) {
		return m.prg[offset]
	}
	return 0
}

func (m *simpleBankSwitch) WritePRG(addr uint16, value uint8) {
	if m.writeLow {
		if addr < 0x6000 || addr >= 0x8000 {
			return
		}
	} else if addr < 0x8000 {
		return
	}
	prg, chr := m.pack(value)
	if m.prgBanks > 0 {
		prg %= m.prgBanks
	}
	if m.chrBanks > 0 {
		chr %= m.chrBanks
	}
	m.prgBank, m.chrBank = prg, chr
}

func (m *simpleBankSwitch) ReadCHR(addr uint16) uint8 {
	offset := m.chrBank*0x2000 + int(addr)
	if offset < len(m.chr) {
		return m.chr[offset]
	}
	return 0
}

func (m *simpleBankSwitch) WriteCHR(addr uint16, value uint8) {}

func (m *simpleBankSwitch) NotifyA12(high bool)   {}
func (m *simpleBankSwitch) TakeIRQPending() bool  { return false }
func (m *simpleBankSwitch) Mirroring() MirrorMode { return m.mirror }

func (m *simpleBankSwitch) GetState() MapperState {
	return MapperState{PRGBank: uint8(m.prgBank), CHRBank0: uint8(m.chrBank)}
}
func (m *simpleBankSwitch) SetState(s MapperState) {
	m.prgBank, m.chrBank = int(s.PRGBank), int(s.CHRBank0)
}

// newColorDreams builds mapper 11: low nibble selects the PRG bank,
// high nibble selects the CHR bank.
func newColorDreams(rom *ROM) *simpleBankSwitch {
	return &simpleBankSwitch{
		prg: rom.PRG, chr: rom.CHR,
		prgBanks: len(rom.PRG) / 0x8000,
		chrBanks: len(rom.CHR) / 0x2000,
		mirror:   rom.Mirroring,
		pack: func(v uint8) (int, int) {
			return int(v & 0x0F), int(v >> 4)
		},
	}
}

// newBNROM builds mapper 34: the written byte selects only the PRG
// bank; CHR is one fixed 8KB bank, and writes to it are ignored like
// every simpleBankSwitch CHR write, so CHR RAM is never filled.
func newBNROM(rom *ROM) *simpleBankSwitch {
	return &simpleBankSwitch{
		prg: rom.PRG, chr: rom.CHR,
		prgBanks: len(rom.PRG) / 0x8000,
		chrBanks: 1,
		mirror:   rom.Mirroring,
		pack: func(v uint8) (int, int) {
			return int(v), 0
		},
	}
}

// newGxROM builds mapper 66: bits 0-1 select PRG, bits 4-5 select CHR.
func newGxROM(rom *ROM) *simpleBankSwitch {
	return &simpleBankSwitch{
		prg: rom.PRG, chr: rom.CHR,
		prgBanks: len(rom.PRG) / 0x8000,
		chrBanks: len(rom.CHR) / 0x2000,
		mirror:   rom.Mirroring,
		pack: func(v uint8) (int, int) {
			return int(v & 0x03), int((v >> 4) & 0x03)
		},
	}
}

// newNINA builds mapper 79 (NINA-03/06): the bank-select register is
// mirrored across $4100-$5FFF on real hardware but is exposed here at
// $6000-$7FFF, the window this core's bus already routes to cartridge
// space; bit 3 selects PRG, bits 0-2 select CHR.
func newNINA(rom *ROM) *simpleBankSwitch {
	return &simpleBankSwitch{
		prg: rom.PRG, chr: rom.CHR,
		prgBanks: len(rom.PRG) / 0x8000,
		chrBanks: len(rom.CHR) / 0x2000,
		mirror:   rom.Mirroring,
		writeLow: true,
		pack: func(v uint8) (int, int) {
			return int((v >> 3) & 0x01), int(v & 0x07)
		},
	}
}
