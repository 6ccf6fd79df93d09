package gameboy

// mbc3Mapper adds a real-time-clock register bank (0x08-0x0C, spec
// §4.3) selected through the same register as the RAM bank. Writing
// 0 then 1 to $6000 latches the live RTC registers into a read-only
// snapshot; reads of the RTC bank return the latched copy.
type mbc3Mapper struct {
	rom *ROM
	ram []uint8

	ramEnabled bool
	romBank    uint8 // 7 bits
	bankSel    uint8 // RAM bank 0-3, or RTC register 0x08-0x0C

	rtc        [5]uint8 // seconds, minutes, hours, day-low, day-high/flags
	rtcLatched [5]uint8
	latchState uint8
}

func newMBC3(rom *ROM) Mapper {
	size := rom.RAMSize
	if size == 0 {
		size = 1
	}
	return &mbc3Mapper{rom: rom, ram: make([]uint8, size), romBank: 1}
}

func (m *mbc3Mapper) bank() int {
	b := int(m.romBank)
	if b == 0 {
		b = 1
	}
	return b % m.rom.ROMBankCount
}

func (m *mbc3Mapper) ReadROM(addr uint16) uint8 {
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

func (m *mbc3Mapper) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		m.bankSel = value
	case addr < 0x8000:
		if m.latchState == 0 && value == 1 {
			m.rtcLatched = m.rtc
		}
		m.latchState = value
	}
}

func (m *mbc3Mapper) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if m.bankSel >= 0x08 && m.bankSel <= 0x0C {
		return m.rtcLatched[m.bankSel-0x08]
	}
	if len(m.ram) == 0 {
		return 0xFF
	}
	banks := len(m.ram) / 0x2000
	if banks == 0 {
		banks = 1
	}
	off := int(m.bankSel)%banks*0x2000 + int(addr)
	if off < len(m.ram) {
		return m.ram[off]
	}
	return 0xFF
}

func (m *mbc3Mapper) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	if m.bankSel >= 0x08 && m.bankSel <= 0x0C {
		m.rtc[m.bankSel-0x08] = value
		return
	}
	if len(m.ram) == 0 {
		return
	}
	banks := len(m.ram) / 0x2000
	if banks == 0 {
		banks = 1
	}
	off := int(m.bankSel)%banks*0x2000 + int(addr)
	if off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *mbc3Mapper) GetState() MapperState {
	return MapperState{
		ROMBank:    uint16(m.romBank),
		RAMBank:    m.bankSel,
		RAMEnabled: m.ramEnabled,
		RAM:        append([]uint8(nil), m.ram...),
		RTC:        m.rtc,
		RTCLatched: m.rtcLatched,
		RTCLatch:   m.latchState,
	}
}

func (m *mbc3Mapper) SetState(s MapperState) {
	m.romBank = uint8(s.ROMBank)
	m.bankSel = s.RAMBank
	m.ramEnabled = s.RAMEnabled
	copy(m.ram, s.RAM)
	m.rtc = s.RTC
	m.rtcLatched = s.RTCLatched
	m.latchState = s.RTCLatch
}
