package cpuz80

import "testing"

type mockMemory struct {
	data    [0x10000]uint8
	ports   [256]uint8
	outLog  []uint8
}

func newMockMemory() *mockMemory { return &mockMemory{} }

func (m *mockMemory) Read(addr uint16) uint8  { return m.data[addr] }
func (m *mockMemory) Write(addr uint16, v uint8) { m.data[addr] = v }
func (m *mockMemory) IOIn(port uint8) uint8    { return m.ports[port] }
func (m *mockMemory) IOOut(port uint8, v uint8) {
	m.ports[port] = v
	m.outLog = append(m.outLog, v)
}

func (m *mockMemory) load(addr uint16, program ...uint8) {
	copy(m.data[addr:], program)
}

func TestReset(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.A = 0x55
	c.PC = 0x1234

	c.Reset()

	if c.PC != 0 {
		t.Errorf("expected PC=0 after reset, got 0x%04X", c.PC)
	}
	if c.SP != 0xFFFF {
		t.Errorf("expected SP=0xFFFF after reset, got 0x%04X", c.SP)
	}
	if c.IFF1 || c.IFF2 {
		t.Errorf("expected interrupts disabled after reset")
	}
}

func TestLoadImmediateAndAdd(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	mem.load(0, 0x3E, 0x10, 0x06, 0x05, 0x80) // LD A,10h; LD B,05h; ADD A,B

	c.Step()
	c.Step()
	c.Step()

	if c.A != 0x15 {
		t.Errorf("expected A=0x15, got 0x%02X", c.A)
	}
}

func TestIncDecFlags(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.A = 0xFF
	mem.load(0, 0x3C) // INC A

	c.Step()

	if c.A != 0x00 {
		t.Errorf("expected A=0 after wraparound, got 0x%02X", c.A)
	}
	if c.F&flagZ == 0 {
		t.Errorf("expected Z flag set")
	}
}

func TestJrConditional(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	// XOR A (zero flag set); JR Z,+2; LD A,1 (skipped); LD A,2
	mem.load(0, 0xAF, 0x28, 0x02, 0x3E, 0x01, 0x3E, 0x02)

	c.Step() // XOR A
	c.Step() // JR Z,+2

	if c.PC != 5 {
		t.Errorf("expected PC=5 after taken jump, got %d", c.PC)
	}
}

func TestCallAndRet(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.SP = 0x2000
	mem.load(0, 0xCD, 0x10, 0x00) // CALL 0x0010
	mem.load(0x10, 0xC9)          // RET

	c.Step() // CALL
	if c.PC != 0x10 {
		t.Errorf("expected PC=0x10 after CALL, got 0x%04X", c.PC)
	}
	c.Step() // RET
	if c.PC != 3 {
		t.Errorf("expected PC=3 after RET, got 0x%04X", c.PC)
	}
}

func TestCBBitOps(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.B = 0x00
	mem.load(0, 0xCB, 0xC0) // SET 0,B

	c.Step()

	if c.B != 0x01 {
		t.Errorf("expected B=0x01 after SET 0,B, got 0x%02X", c.B)
	}
}

func TestIndexedLoadAndStore(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	// LD IX,0x2000; LD A,0x42; LD (IX+2),A; LD B,(IX+2)
	mem.load(0, 0xDD, 0x21, 0x00, 0x20, 0x3E, 0x42, 0xDD, 0x77, 0x02, 0xDD, 0x46, 0x02)

	c.Step() // LD IX,nn
	c.Step() // LD A,n
	c.Step() // LD (IX+2),A
	c.Step() // LD B,(IX+2)

	if c.B != 0x42 {
		t.Errorf("expected B=0x42 via indexed addressing, got 0x%02X", c.B)
	}
}

func TestNMIPriorityOverIRQ(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.IFF1 = true
	c.IM = 1
	c.SP = 0x2000
	mem.load(0, 0x00)

	c.IRQ(true)
	c.NMI()
	c.Step()

	if c.PC != 0x0066 {
		t.Errorf("expected NMI to take priority and vector to 0x0066, got 0x%04X", c.PC)
	}
}

func TestIM1InterruptVectorsToRST38(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.IFF1 = true
	c.IM = 1
	c.SP = 0x2000
	mem.load(0, 0x00)

	c.IRQ(true)
	c.Step()

	if c.PC != 0x0038 {
		t.Errorf("expected IM1 interrupt to vector to 0x0038, got 0x%04X", c.PC)
	}
	if c.IFF1 {
		t.Errorf("expected IFF1 cleared on interrupt entry")
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	mem := newMockMemory()
	c := New(mem)
	c.Reset()
	c.A, c.B, c.PC, c.SP = 0x11, 0x22, 0x3344, 0x5566

	saved := c.GetState()

	c.A = 0
	c.PC = 0
	c.SetState(saved)

	if c.A != 0x11 || c.B != 0x22 || c.PC != 0x3344 || c.SP != 0x5566 {
		t.Errorf("state did not round-trip: A=%02X B=%02X PC=%04X SP=%04X", c.A, c.B, c.PC, c.SP)
	}
}
