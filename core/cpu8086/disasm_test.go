package cpu8086

import "testing"

func TestDisassembleDecodesMovImmediate(t *testing.T) {
	cpu, mem := newTestCPU()
	load(mem, cpu.CS, cpu.IP, 0xB8, 0x34, 0x12) // MOV AX, 0x1234

	out := cpu.Disassemble(cpu.CS, cpu.IP)
	if out == "" || out == "(bad)" {
		t.Fatalf("expected a decoded instruction, got %q", out)
	}
}
