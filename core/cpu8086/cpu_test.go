package cpu8086

import "testing"

type mockMemory struct {
	data [0x100000]uint8
}

func (m *mockMemory) Read8(addr uint32) uint8        { return m.data[addr&0xFFFFF] }
func (m *mockMemory) Write8(addr uint32, value uint8) { m.data[addr&0xFFFFF] = value }

func newTestCPU() (*CPU, *mockMemory) {
	mem := &mockMemory{}
	cpu := New(mem)
	cpu.CS, cpu.IP = 0x0000, 0x0100
	return cpu, mem
}

func load(mem *mockMemory, cs, ip uint16, bytes ...uint8) {
	base := linear(cs, ip)
	for i, b := range bytes {
		mem.data[int(base)+i] = b
	}
}

// Spec §8: INC AX when AX=0x7FFF must set OF/SF, clear ZF and leave CF
// untouched.
func TestIncDoesNotTouchCarry(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.AX = 0x7FFF
	cpu.setFlag(flagCF, true)
	load(mem, cpu.CS, cpu.IP, 0x40) // INC AX

	cpu.Step()

	if cpu.AX != 0x8000 {
		t.Fatalf("AX = %#x, want 0x8000", cpu.AX)
	}
	if !cpu.flag(flagOF) {
		t.Fatal("OF not set")
	}
	if !cpu.flag(flagSF) {
		t.Fatal("SF not set")
	}
	if cpu.flag(flagZF) {
		t.Fatal("ZF should be clear")
	}
	if !cpu.flag(flagCF) {
		t.Fatal("CF must be unchanged (was set) by INC")
	}
}

// Spec §8: DEC AX when AX=0x0000 wraps to 0xFFFF, sets ZF=0, SF=1, and
// leaves CF untouched.
func TestDecDoesNotTouchCarry(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.AX = 0x0000
	cpu.setFlag(flagCF, false)
	load(mem, cpu.CS, cpu.IP, 0x48) // DEC AX

	cpu.Step()

	if cpu.AX != 0xFFFF {
		t.Fatalf("AX = %#x, want 0xFFFF", cpu.AX)
	}
	if cpu.flag(flagZF) {
		t.Fatal("ZF should be clear")
	}
	if !cpu.flag(flagSF) {
		t.Fatal("SF should be set")
	}
	if cpu.flag(flagCF) {
		t.Fatal("CF must be unchanged (was clear) by DEC")
	}
}

func TestLinearAddressWrapsAt1MiB(t *testing.T) {
	// Spec §4.1.4: segment:offset wraps at 1 MiB on the 8086.
	addr := linear(0xFFFF, 0xFFFF)
	if addr != (0xFFFF0+0xFFFF)&0xFFFFF {
		t.Fatalf("linear() = %#x", addr)
	}
}

func TestMovImmAndAdd(t *testing.T) {
	cpu, mem := newTestCPU()
	load(mem, cpu.CS, cpu.IP,
		0xB8, 0x34, 0x12, // MOV AX, 0x1234
		0x05, 0x01, 0x00, // ADD AX, 0x0001
	)
	cpu.Step()
	cpu.Step()
	if cpu.AX != 0x1235 {
		t.Fatalf("AX = %#x, want 0x1235", cpu.AX)
	}
}

func TestModRMMemoryWrite(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.DS = 0x0000
	cpu.BX = 0x2000
	load(mem, cpu.CS, cpu.IP,
		0xC6, 0x07, 0x42, // MOV byte [BX], 0x42
	)
	cpu.Step()
	if got := mem.Read8(0x2000); got != 0x42 {
		t.Fatalf("mem[0x2000] = %#x, want 0x42", got)
	}
}

func TestJmpRel8(t *testing.T) {
	cpu, mem := newTestCPU()
	load(mem, cpu.CS, cpu.IP, 0xEB, 0x02) // JMP +2
	start := cpu.IP
	cpu.Step()
	if cpu.IP != start+2+2 {
		t.Fatalf("IP = %#x", cpu.IP)
	}
}

func TestIntServicesThroughIVT(t *testing.T) {
	cpu, mem := newTestCPU()
	// IVT entry for vector 0x21: IP=0x5000, CS=0x0700
	mem.data[0x21*4] = 0x00
	mem.data[0x21*4+1] = 0x50
	mem.data[0x21*4+2] = 0x00
	mem.data[0x21*4+3] = 0x07
	cpu.SS, cpu.SP = 0x0000, 0x1000
	load(mem, cpu.CS, cpu.IP, 0xCD, 0x21) // INT 0x21

	cpu.Step()

	if cpu.CS != 0x0700 || cpu.IP != 0x5000 {
		t.Fatalf("did not vector through IVT: CS=%#x IP=%#x", cpu.CS, cpu.IP)
	}
	if cpu.flag(flagIF) {
		t.Fatal("IF should be cleared on interrupt entry")
	}
}
