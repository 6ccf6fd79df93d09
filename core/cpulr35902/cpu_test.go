package cpulr35902

import "testing"

type mockMemory struct {
	data [0x10000]uint8
}

func newMockMemory() *mockMemory { return &mockMemory{} }

func (m *mockMemory) Read(addr uint16) uint8     { return m.data[addr] }
func (m *mockMemory) Write(addr uint16, v uint8) { m.data[addr] = v }

func (m *mockMemory) load(addr uint16, program ...uint8) {
	copy(m.data[addr:], program)
}

func TestResetMatchesPostBootRegisters(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()

	if c.PC != 0x0100 {
		t.Errorf("expected PC=0x0100, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFE {
		t.Errorf("expected SP=0xFFFE, got 0x%04X", c.SP)
	}
}

func TestHLIncDecLoad(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.H, c.L = 0xC0, 0x00
	c.A = 0x42
	mem.load(0x100, 0x22) // LD (HL+),A

	c.Step()

	if mem.data[0xC000] != 0x42 {
		t.Errorf("expected memory write at 0xC000, got 0x%02X", mem.data[0xC000])
	}
	if c.H != 0xC0 || c.L != 0x01 {
		t.Errorf("expected HL incremented to 0xC001, got H=%02X L=%02X", c.H, c.L)
	}
}

func TestLDHRoundTrip(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.A = 0x07
	mem.load(0x100, 0xE0, 0x80, 0xF0, 0x80) // LDH (80h),A ; LDH A,(80h)

	c.Step()
	c.A = 0
	c.Step()

	if c.A != 0x07 {
		t.Errorf("expected A=0x07 after LDH round trip, got 0x%02X", c.A)
	}
}

func TestInterruptVector(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.SP = 0xFFFE
	c.ime = true
	mem.load(0x100, 0x00)
	c.SetInterruptLines(0x01, 0x01) // VBlank enabled and requested

	c.Step()

	if c.PC != 0x40 {
		t.Errorf("expected VBlank vector 0x0040, got 0x%04X", c.PC)
	}
	if c.ime {
		t.Errorf("expected IME cleared on interrupt entry")
	}
}

func TestHaltWakesOnPendingInterruptEvenWithIMEClear(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	mem.load(0x100, 0x76) // HALT
	c.Step()
	if !c.halted {
		t.Fatalf("expected CPU halted")
	}

	c.SetInterruptLines(0x01, 0x01)
	c.Step()

	if c.halted {
		t.Errorf("expected HALT to end once an enabled interrupt is pending")
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.A, c.PC, c.SP = 0x99, 0x4567, 0x8899

	saved := c.GetState()
	c.A, c.PC = 0, 0
	c.SetState(saved)

	if c.A != 0x99 || c.PC != 0x4567 || c.SP != 0x8899 {
		t.Errorf("state did not round-trip: A=%02X PC=%04X SP=%04X", c.A, c.PC, c.SP)
	}
}
