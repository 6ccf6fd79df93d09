package cpu6502

import "testing"

// MockMemory implements Memory for testing.
type MockMemory struct {
	data [0x10000]uint8
}

func NewMockMemory() *MockMemory {
	return &MockMemory{}
}

func (m *MockMemory) Read(address uint16) uint8 {
	return m.data[address]
}

func (m *MockMemory) Write(address uint16, value uint8) {
	m.data[address] = value
}

func (m *MockMemory) SetBytes(address uint16, values ...uint8) {
	for i, value := range values {
		m.data[address+uint16(i)] = value
	}
}

// CPU6502TestHelper provides common test utilities.
type CPU6502TestHelper struct {
	CPU    *CPU6502
	Memory *MockMemory
}

func NewCPU6502TestHelper() *CPU6502TestHelper {
	memory := NewMockMemory()
	cpu := New(memory)
	return &CPU6502TestHelper{CPU: cpu, Memory: memory}
}

func (h *CPU6502TestHelper) SetupResetVector(address uint16) {
	h.Memory.SetBytes(0xFFFC, uint8(address&0xFF), uint8(address>>8))
	h.CPU.Reset()
}

func (h *CPU6502TestHelper) LoadProgram(address uint16, program ...uint8) {
	h.Memory.SetBytes(address, program...)
}

func TestCPU6502Initialization(t *testing.T) {
	helper := NewCPU6502TestHelper()

	if helper.CPU.A != 0 {
		t.Errorf("Expected A=0, got %d", helper.CPU.A)
	}
	if helper.CPU.SP != 0xFD {
		t.Errorf("Expected SP=0xFD, got 0x%02X", helper.CPU.SP)
	}
	if helper.CPU.DecimalEnabled {
		t.Errorf("Expected DecimalEnabled=false by default (NES 2A03 semantics)")
	}
}

func TestCPU6502Reset(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.Memory.SetBytes(0xFFFC, 0x00, 0x80)

	helper.CPU.A = 0x55
	helper.CPU.X = 0xAA
	helper.CPU.SP = 0x00
	helper.CPU.PC = 0x1234
	helper.CPU.I = false

	helper.CPU.Reset()

	if helper.CPU.A != 0x00 || helper.CPU.X != 0x00 {
		t.Errorf("Expected registers cleared after reset, got A=0x%02X X=0x%02X", helper.CPU.A, helper.CPU.X)
	}
	if helper.CPU.SP != 0xFD {
		t.Errorf("Expected SP=0xFD after reset, got 0x%02X", helper.CPU.SP)
	}
	if helper.CPU.PC != 0x8000 {
		t.Errorf("Expected PC=0x8000 after reset, got 0x%04X", helper.CPU.PC)
	}
	if !helper.CPU.I {
		t.Errorf("Expected I flag set after reset")
	}
}

// TestJMPIndirectPageWrapBug verifies the documented 6502 hardware bug:
// JMP ($xxFF) fetches the high byte from $xx00, not $(xx+1)00.
func TestJMPIndirectPageWrapBug(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)

	helper.Memory.SetBytes(0x30FF, 0x40) // low byte of target, at page-end
	helper.Memory.SetBytes(0x3000, 0x80) // high byte wraps to $3000, not $3100
	helper.Memory.SetBytes(0x3100, 0xFF) // decoy: must NOT be read as the high byte

	helper.LoadProgram(0x8000, 0x6C, 0xFF, 0x30) // JMP ($30FF)
	helper.CPU.Step()

	if helper.CPU.PC != 0x8040 {
		t.Errorf("Expected JMP indirect page-wrap bug to produce PC=0x8040, got 0x%04X", helper.CPU.PC)
	}
}

func TestNMIFallingEdgeTrigger(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)
	helper.Memory.SetBytes(0xFFFA, 0x00, 0x90) // NMI vector -> 0x9000
	helper.LoadProgram(0x8000, 0xEA)           // NOP

	helper.CPU.SetNMI(true)
	helper.CPU.SetNMI(false) // falling edge latches nmiPending

	helper.CPU.Step()             // executes the NOP, then services the pending NMI
	helper.CPU.ProcessPendingInterrupts()

	if helper.CPU.PC != 0x9000 {
		t.Errorf("Expected NMI to vector PC to 0x9000, got 0x%04X", helper.CPU.PC)
	}
	if !helper.CPU.I {
		t.Errorf("Expected I flag set after servicing NMI")
	}
}

func TestIRQIgnoredWhenMasked(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.I = true
	helper.CPU.SetIRQ(true)
	helper.CPU.ProcessPendingInterrupts()

	if helper.CPU.PC != 0x8000 {
		t.Errorf("Expected masked IRQ to leave PC unchanged, got 0x%04X", helper.CPU.PC)
	}
}

// TestDecimalModeAddition exercises BCD correction, which only applies
// when DecimalEnabled is set (Atari 2600 6507 semantics).
func TestDecimalModeAddition(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.DecimalEnabled = true
	helper.CPU.D = true
	helper.CPU.C = false
	helper.CPU.A = 0x58 // BCD 58

	helper.Memory.SetBytes(0x20, 0x46) // BCD 46
	helper.LoadProgram(0x8000, 0x65, 0x20) // ADC $20 (zero page)
	helper.CPU.Step()

	if helper.CPU.A != 0x04 {
		t.Errorf("Expected BCD 58+46=04 (with carry out), got 0x%02X", helper.CPU.A)
	}
	if !helper.CPU.C {
		t.Errorf("Expected carry flag set from BCD overflow past 99")
	}
}

// TestDecimalModeDisabledOnNES verifies that setting D alone, without
// DecimalEnabled, leaves ADC/SBC purely binary (2A03 behavior).
func TestDecimalModeDisabledOnNES(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.D = true // guest program can still set the flag bit
	helper.CPU.A = 0x58

	helper.Memory.SetBytes(0x20, 0x46)
	helper.LoadProgram(0x8000, 0x65, 0x20)
	helper.CPU.Step()

	if helper.CPU.A != 0x9E { // pure binary 0x58+0x46
		t.Errorf("Expected binary-mode 58+46=9E when DecimalEnabled=false, got 0x%02X", helper.CPU.A)
	}
}

func TestUnofficialLAX(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)
	helper.Memory.SetBytes(0x20, 0x7F)
	helper.LoadProgram(0x8000, 0xA7, 0x20) // LAX $20 (zero page)
	helper.CPU.Step()

	if helper.CPU.A != 0x7F || helper.CPU.X != 0x7F {
		t.Errorf("Expected LAX to load both A and X with 0x7F, got A=0x%02X X=0x%02X", helper.CPU.A, helper.CPU.X)
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)
	helper.CPU.A, helper.CPU.X, helper.CPU.Y = 0x11, 0x22, 0x33
	helper.CPU.N, helper.CPU.C = true, true
	helper.CPU.DecimalEnabled = true

	saved := helper.CPU.GetState()

	fresh := New(helper.Memory)
	fresh.SetState(saved)

	if fresh.A != 0x11 || fresh.X != 0x22 || fresh.Y != 0x33 {
		t.Errorf("Expected registers restored from saved state, got A=0x%02X X=0x%02X Y=0x%02X", fresh.A, fresh.X, fresh.Y)
	}
	if !fresh.N || !fresh.C {
		t.Errorf("Expected N and C flags restored from saved state")
	}
	if !fresh.DecimalEnabled {
		t.Errorf("Expected DecimalEnabled restored from saved state")
	}
}

func TestSetTraceReceivesRetiredInstructions(t *testing.T) {
	helper := NewCPU6502TestHelper()
	helper.SetupResetVector(0x8000)
	helper.LoadProgram(0x8000, 0xEA) // NOP

	var got TraceEvent
	calls := 0
	helper.CPU.SetTrace(func(ev TraceEvent) {
		got = ev
		calls++
	})
	helper.CPU.Step()

	if calls != 1 {
		t.Fatalf("Expected exactly one trace callback, got %d", calls)
	}
	if got.Name != "NOP" || got.PC != 0x8000 {
		t.Errorf("Expected trace event for NOP at 0x8000, got Name=%s PC=0x%04X", got.Name, got.PC)
	}
}
