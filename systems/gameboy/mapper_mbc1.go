package gameboy

// mbc1Mapper implements the MBC1 banking protocol (spec §4.3): a
// 5-bit ROM-bank-low register at $2000-$3FFF, a 2-bit secondary
// register at $4000-$5FFF that is either the RAM bank or the upper
// two ROM bank bits depending on the mode latch at $6000-$7FFF, and
// RAM-enable gated by writes of 0x0A to $0000-$1FFF.
type mbc1Mapper struct {
	rom *ROM
	ram []uint8

	ramEnabled bool
	bankLow    uint8 // 5 bits
	bankHigh   uint8 // 2 bits
	mode       uint8 // 0 = ROM banking mode, 1 = RAM banking mode
}

func newMBC1(rom *ROM) Mapper {
	size := rom.RAMSize
	if size == 0 {
		size = 1
	}
	return &mbc1Mapper{rom: rom, ram: make([]uint8, size), bankLow: 1}
}

func (m *mbc1Mapper) romBank() int {
	bank := int(m.bankHigh)<<5 | int(m.bankLow)
	if bank == 0 || bank == 0x20 || bank == 0x40 || bank == 0x60 {
		bank++ // bank 0 never maps into the switchable window
	}
	return bank % m.rom.ROMBankCount
}

func (m *mbc1Mapper) zeroBank() int {
	if m.mode == 1 {
		return (int(m.bankHigh) << 5) % m.rom.ROMBankCount
	}
	return 0
}

func (m *mbc1Mapper) ramBankIdx() int {
	if m.mode == 1 && len(m.ram) > 0x2000 {
		return int(m.bankHigh) % (len(m.ram) / 0x2000)
	}
	return 0
}

func (m *mbc1Mapper) ReadROM(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		off := m.zeroBank()*0x4000 + int(addr)
		if off < len(m.rom.Data) {
			return m.rom.Data[off]
		}
	default:
		off := m.romBank()*0x4000 + int(addr-0x4000)
		if off < len(m.rom.Data) {
			return m.rom.Data[off]
		}
	}
	return 0xFF
}

func (m *mbc1Mapper) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & 0x1F
		if v == 0 {
			v = 1
		}
		m.bankLow = v
	case addr < 0x6000:
		m.bankHigh = value & 0x03
	case addr < 0x8000:
		m.mode = value & 0x01
	}
}

func (m *mbc1Mapper) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	off := m.ramBankIdx()*0x2000 + int(addr)
	if off < len(m.ram) {
		return m.ram[off]
	}
	return 0xFF
}

func (m *mbc1Mapper) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	off := m.ramBankIdx()*0x2000 + int(addr)
	if off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *mbc1Mapper) GetState() MapperState {
	return MapperState{
		ROMBank:    uint16(m.bankLow),
		RAMBank:    m.bankHigh,
		RAMEnabled: m.ramEnabled,
		Mode:       m.mode,
		RAM:        append([]uint8(nil), m.ram...),
	}
}

func (m *mbc1Mapper) SetState(s MapperState) {
	m.bankLow = uint8(s.ROMBank)
	m.bankHigh = s.RAMBank
	m.ramEnabled = s.RAMEnabled
	m.mode = s.Mode
	copy(m.ram, s.RAM)
}
