package gameboy

// mbc5Mapper uses a full 9-bit ROM bank number split across two
// registers (spec §4.3) and a 4-bit RAM bank, the widest of the
// required Game Boy MBCs and the only one whose ROM bank 0 write
// register actually allows bank 0 to be selected explicitly.
type mbc5Mapper struct {
	rom *ROM
	ram []uint8

	ramEnabled bool
	romBankLo  uint8
	romBankHi  uint8 // bit 0 only
	ramBank    uint8 // 4 bits
}

func newMBC5(rom *ROM) Mapper {
	size := rom.RAMSize
	if size == 0 {
		size = 1
	}
	return &mbc5Mapper{rom: rom, ram: make([]uint8, size), romBankLo: 1}
}

func (m *mbc5Mapper) bank() int {
	return (int(m.romBankHi)<<8 | int(m.romBankLo)) % m.rom.ROMBankCount
}

func (m *mbc5Mapper) ReadROM(addr uint16) uint8 {
	if addr < 0x4000 {
		if int(addr) < len(m.rom.Data) {
			return m.rom.Data[addr]
		}
		return 0xFF
	}
	off := m.bank()*0x4000 + int(addr-0x4000)
	if off < len(m.rom.Data) {
		return m.rom.Data[off]
	}
	return 0xFF
}

func (m *mbc5Mapper) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x3000:
		m.romBankLo = value
	case addr < 0x4000:
		m.romBankHi = value & 0x01
	case addr < 0x6000:
		m.ramBank = value & 0x0F
	}
}

func (m *mbc5Mapper) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	banks := len(m.ram) / 0x2000
	if banks == 0 {
		banks = 1
	}
	off := int(m.ramBank)%banks*0x2000 + int(addr)
	if off < len(m.ram) {
		return m.ram[off]
	}
	return 0xFF
}

func (m *mbc5Mapper) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	banks := len(m.ram) / 0x2000
	if banks == 0 {
		banks = 1
	}
	off := int(m.ramBank)%banks*0x2000 + int(addr)
	if off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *mbc5Mapper) GetState() MapperState {
	return MapperState{
		ROMBank:    uint16(m.romBankHi)<<8 | uint16(m.romBankLo),
		RAMBank:    m.ramBank,
		RAMEnabled: m.ramEnabled,
		RAM:        append([]uint8(nil), m.ram...),
	}
}

func (m *mbc5Mapper) SetState(s MapperState) {
	m.romBankLo = uint8(s.ROMBank)
	m.romBankHi = uint8(s.ROMBank >> 8)
	m.ramBank = s.RAMBank
	m.ramEnabled = s.RAMEnabled
	copy(m.ram, s.RAM)
}
