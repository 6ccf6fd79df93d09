package cpu8086

import "golang.org/x/arch/x86/x86asm"

// Disassemble decodes the instruction at the given CS:IP and formats
// it the way x86asm's GNU-syntax (AT&T) printer does, for trace logging
// and tests; it never drives execution (Step's own switch-based
// decoder is independent and does not depend on this package). x86asm
// targets real 16-bit mode addressing, matching this core's baseline.
func (cpu *CPU) Disassemble(cs, ip uint16) string {
	buf := make([]uint8, 16)
	for i := range buf {
		buf[i] = cpu.read8(cs, ip+uint16(i))
	}
	inst, err := x86asm.Decode(buf, 16)
	if err != nil {
		return "(bad)"
	}
	return x86asm.GNUSyntax(inst, 0, nil)
}
