package cpu65c816

// This file covers the instruction set a real SNES ROM's boot code and
// mainline 65C816 programs actually exercise: loads/stores, the ALU
// group, shifts/rotates, compares, branches, JMP/JSR/JSL/RTS/RTL/RTI,
// the stack/transfer/flag groups, and REP/SEP/XCE mode switching.
// Opcodes outside this set decode as a 2-cycle no-op rather than a
// panic or error (spec's category-3 "unsupported opcode never
// surfaces as an error" applied to the 65C816 the same way category-3
// unknown mappers fall back instead of failing); this is a
// simplification, not full 256-opcode coverage.
func (cpu *CPU) execute(op uint8) {
	switch op {
	case 0xA9: // LDA #imm
		cpu.lda(cpu.immOperand(cpu.wideA()))
	case 0xA5: // LDA dp
		cpu.ldaMem(cpu.dpAddr(cpu.fetch8()))
	case 0xB5: // LDA dp,X
		cpu.ldaMem(cpu.dpAddr(cpu.fetch8() + uint8(cpu.X)))
	case 0xAD: // LDA abs
		cpu.ldaMem(cpu.absAddr())
	case 0xBD: // LDA abs,X
		cpu.ldaMem(cpu.absAddr() + uint32(cpu.X))
	case 0xB9: // LDA abs,Y
		cpu.ldaMem(cpu.absAddr() + uint32(cpu.Y))
	case 0xAF: // LDA long
		cpu.ldaMem(cpu.longAddr())
	case 0xBF: // LDA long,X
		cpu.ldaMem(cpu.longAddr() + uint32(cpu.X))
	case 0xB2: // LDA (dp)
		cpu.ldaMem(cpu.dpIndirect(cpu.fetch8()))
	case 0xA1: // LDA (dp,X)
		cpu.ldaMem(cpu.dpIndexedIndirectX(cpu.fetch8()))
	case 0xB1: // LDA (dp),Y
		cpu.ldaMem(cpu.dpIndirect(cpu.fetch8()) + uint32(cpu.Y))

	case 0xA2: // LDX #imm
		cpu.ldx(cpu.immOperand(cpu.wideXY()))
	case 0xA6: // LDX dp
		cpu.ldxMem(cpu.dpAddr(cpu.fetch8()))
	case 0xAE: // LDX abs
		cpu.ldxMem(cpu.absAddr())

	case 0xA0: // LDY #imm
		cpu.ldy(cpu.immOperand(cpu.wideXY()))
	case 0xA4: // LDY dp
		cpu.ldyMem(cpu.dpAddr(cpu.fetch8()))
	case 0xAC: // LDY abs
		cpu.ldyMem(cpu.absAddr())

	case 0x85: // STA dp
		cpu.storeA(cpu.dpAddr(cpu.fetch8()))
	case 0x95: // STA dp,X
		cpu.storeA(cpu.dpAddr(cpu.fetch8() + uint8(cpu.X)))
	case 0x8D: // STA abs
		cpu.storeA(cpu.absAddr())
	case 0x9D: // STA abs,X
		cpu.storeA(cpu.absAddr() + uint32(cpu.X))
	case 0x99: // STA abs,Y
		cpu.storeA(cpu.absAddr() + uint32(cpu.Y))
	case 0x8F: // STA long
		cpu.storeA(cpu.longAddr())
	case 0x92: // STA (dp)
		cpu.storeA(cpu.dpIndirect(cpu.fetch8()))
	case 0x91: // STA (dp),Y
		cpu.storeA(cpu.dpIndirect(cpu.fetch8()) + uint32(cpu.Y))

	case 0x86: // STX dp
		cpu.storeX(cpu.dpAddr(cpu.fetch8()))
	case 0x8E: // STX abs
		cpu.storeX(cpu.absAddr())
	case 0x84: // STY dp
		cpu.storeY(cpu.dpAddr(cpu.fetch8()))
	case 0x8C: // STY abs
		cpu.storeY(cpu.absAddr())
	case 0x64: // STZ dp
		cpu.storeZero(cpu.dpAddr(cpu.fetch8()))
	case 0x9C: // STZ abs
		cpu.storeZero(cpu.absAddr())

	case 0x69: // ADC #imm
		cpu.adc(cpu.immOperand(cpu.wideA()))
	case 0x65: // ADC dp
		cpu.adcMem(cpu.dpAddr(cpu.fetch8()))
	case 0x6D: // ADC abs
		cpu.adcMem(cpu.absAddr())
	case 0x7D: // ADC abs,X
		cpu.adcMem(cpu.absAddr() + uint32(cpu.X))

	case 0xE9: // SBC #imm
		cpu.sbc(cpu.immOperand(cpu.wideA()))
	case 0xE5: // SBC dp
		cpu.sbcMem(cpu.dpAddr(cpu.fetch8()))
	case 0xED: // SBC abs
		cpu.sbcMem(cpu.absAddr())

	case 0x29: // AND #imm
		cpu.and(cpu.immOperand(cpu.wideA()))
	case 0x25: // AND dp
		cpu.andMem(cpu.dpAddr(cpu.fetch8()))
	case 0x2D: // AND abs
		cpu.andMem(cpu.absAddr())

	case 0x09: // ORA #imm
		cpu.ora(cpu.immOperand(cpu.wideA()))
	case 0x05: // ORA dp
		cpu.oraMem(cpu.dpAddr(cpu.fetch8()))
	case 0x0D: // ORA abs
		cpu.oraMem(cpu.absAddr())

	case 0x49: // EOR #imm
		cpu.eor(cpu.immOperand(cpu.wideA()))
	case 0x45: // EOR dp
		cpu.eorMem(cpu.dpAddr(cpu.fetch8()))
	case 0x4D: // EOR abs
		cpu.eorMem(cpu.absAddr())

	case 0xC9: // CMP #imm
		cpu.cmp(cpu.immOperand(cpu.wideA()))
	case 0xC5: // CMP dp
		cpu.cmpMem(cpu.dpAddr(cpu.fetch8()))
	case 0xCD: // CMP abs
		cpu.cmpMem(cpu.absAddr())
	case 0xE0: // CPX #imm
		cpu.cpx(cpu.immOperand(cpu.wideXY()))
	case 0xEC: // CPX abs
		cpu.cpxMem(cpu.absAddr())
	case 0xC0: // CPY #imm
		cpu.cpy(cpu.immOperand(cpu.wideXY()))
	case 0xCC: // CPY abs
		cpu.cpyMem(cpu.absAddr())

	case 0xE6: // INC dp
		cpu.incMem(cpu.dpAddr(cpu.fetch8()))
	case 0xEE: // INC abs
		cpu.incMem(cpu.absAddr())
	case 0x1A: // INC A
		cpu.incA()
	case 0xC6: // DEC dp
		cpu.decMem(cpu.dpAddr(cpu.fetch8()))
	case 0xCE: // DEC abs
		cpu.decMem(cpu.absAddr())
	case 0x3A: // DEC A
		cpu.decA()
	case 0xE8: // INX
		cpu.X = cpu.incReg(cpu.X, cpu.wideXY())
	case 0xC8: // INY
		cpu.Y = cpu.incReg(cpu.Y, cpu.wideXY())
	case 0xCA: // DEX
		cpu.X = cpu.decReg(cpu.X, cpu.wideXY())
	case 0x88: // DEY
		cpu.Y = cpu.decReg(cpu.Y, cpu.wideXY())

	case 0x0A: // ASL A
		cpu.aslA()
	case 0x06: // ASL dp
		cpu.aslMem(cpu.dpAddr(cpu.fetch8()))
	case 0x0E: // ASL abs
		cpu.aslMem(cpu.absAddr())
	case 0x4A: // LSR A
		cpu.lsrA()
	case 0x46: // LSR dp
		cpu.lsrMem(cpu.dpAddr(cpu.fetch8()))
	case 0x4E: // LSR abs
		cpu.lsrMem(cpu.absAddr())
	case 0x2A: // ROL A
		cpu.rolA()
	case 0x26: // ROL dp
		cpu.rolMem(cpu.dpAddr(cpu.fetch8()))
	case 0x6A: // ROR A
		cpu.rorA()
	case 0x66: // ROR dp
		cpu.rorMem(cpu.dpAddr(cpu.fetch8()))

	case 0x24: // BIT dp
		cpu.bit(cpu.dpAddr(cpu.fetch8()))
	case 0x2C: // BIT abs
		cpu.bit(cpu.absAddr())
	case 0x89: // BIT #imm
		cpu.bitImm(cpu.immOperand(cpu.wideA()))

	case 0x10:
		cpu.branch(!cpu.flag(flagN))
	case 0x30:
		cpu.branch(cpu.flag(flagN))
	case 0x50:
		cpu.branch(!cpu.flag(flagV))
	case 0x70:
		cpu.branch(cpu.flag(flagV))
	case 0x90:
		cpu.branch(!cpu.flag(flagC))
	case 0xB0:
		cpu.branch(cpu.flag(flagC))
	case 0xD0:
		cpu.branch(!cpu.flag(flagZ))
	case 0xF0:
		cpu.branch(cpu.flag(flagZ))
	case 0x80:
		cpu.branch(true) // BRA

	case 0x4C: // JMP abs
		cpu.PC = cpu.fetch16()
	case 0x5C: // JML long
		addr := cpu.longAddr()
		cpu.PBR = uint8(addr >> 16)
		cpu.PC = uint16(addr)
	case 0x20: // JSR abs
		target := cpu.fetch16()
		cpu.push16(cpu.PC - 1)
		cpu.PC = target
	case 0x22: // JSL long
		target := cpu.longAddr()
		cpu.push8(cpu.PBR)
		cpu.push16(cpu.PC - 1)
		cpu.PBR = uint8(target >> 16)
		cpu.PC = uint16(target)
	case 0x60: // RTS
		cpu.PC = cpu.pop16() + 1
	case 0x6B: // RTL
		cpu.PC = cpu.pop16() + 1
		cpu.PBR = cpu.pop8()
	case 0x40: // RTI
		cpu.P = cpu.pop8()
		cpu.PC = cpu.pop16()
		if !cpu.E {
			cpu.PBR = cpu.pop8()
		}

	case 0x48: // PHA
		cpu.pushA()
	case 0x68: // PLA
		cpu.pullA()
	case 0xDA: // PHX
		cpu.pushReg(cpu.X, cpu.wideXY())
	case 0xFA: // PLX
		cpu.X = cpu.pullReg(cpu.wideXY())
		cpu.setRegZN(cpu.X, cpu.wideXY())
	case 0x5A: // PHY
		cpu.pushReg(cpu.Y, cpu.wideXY())
	case 0x7A: // PLY
		cpu.Y = cpu.pullReg(cpu.wideXY())
		cpu.setRegZN(cpu.Y, cpu.wideXY())
	case 0x08: // PHP
		cpu.push8(cpu.P)
	case 0x28: // PLP
		cpu.P = cpu.pop8()
	case 0x8B: // PHB
		cpu.push8(cpu.DBR)
	case 0xAB: // PLB
		cpu.DBR = cpu.pop8()
		cpu.setZN8(cpu.DBR)
	case 0x0B: // PHD
		cpu.push16(cpu.D)
	case 0x2B: // PLD
		cpu.D = cpu.pop16()
		cpu.setZN16(cpu.D)
	case 0x4B: // PHK
		cpu.push8(cpu.PBR)

	case 0xAA: // TAX
		cpu.X = cpu.transferTo(cpu.A, cpu.wideXY())
	case 0xA8: // TAY
		cpu.Y = cpu.transferTo(cpu.A, cpu.wideXY())
	case 0x8A: // TXA
		cpu.A = cpu.transferTo(cpu.X, cpu.wideA())
	case 0x98: // TYA
		cpu.A = cpu.transferTo(cpu.Y, cpu.wideA())
	case 0x9B: // TXY
		cpu.Y = cpu.X
		cpu.setRegZN(cpu.Y, cpu.wideXY())
	case 0xBB: // TYX
		cpu.X = cpu.Y
		cpu.setRegZN(cpu.X, cpu.wideXY())
	case 0x5B: // TCD
		cpu.D = cpu.A
		cpu.setZN16(cpu.D)
	case 0x7B: // TDC
		cpu.A = cpu.D
		cpu.setZN16(cpu.A)
	case 0x1B: // TCS
		cpu.S = cpu.A
	case 0x3B: // TSC
		cpu.A = cpu.S
		cpu.setZN16(cpu.A)
	case 0x9A: // TXS
		cpu.S = cpu.X
	case 0xBA: // TSX
		cpu.X = cpu.S
		cpu.setRegZN(cpu.X, cpu.wideXY())

	case 0x18:
		cpu.setFlag(flagC, false)
	case 0x38:
		cpu.setFlag(flagC, true)
	case 0x58:
		cpu.setFlag(flagI, false)
	case 0x78:
		cpu.setFlag(flagI, true)
	case 0xB8:
		cpu.setFlag(flagV, false)
	case 0xD8:
		cpu.setFlag(flagD, false)
	case 0xF8:
		cpu.setFlag(flagD, true)

	case 0xC2: // REP #imm
		cpu.P &^= cpu.fetch8()
		cpu.applyModeConstraints()
	case 0xE2: // SEP #imm
		cpu.P |= cpu.fetch8()
		cpu.applyModeConstraints()
	case 0xFB: // XCE
		c := cpu.flag(flagC)
		cpu.setFlag(flagC, cpu.E)
		cpu.E = c
		cpu.applyModeConstraints()

	case 0xEA: // NOP
	default:
		// unimplemented opcode: treated as a no-op, spec's category-3
		// "never surfaces as an error" behavior.
	}
}

// applyModeConstraints enforces emulation-mode's forced 8-bit A/X/Y
// (E=1 always behaves as if M=X=1 regardless of P) immediately after
// any instruction that can change E, M or X.
func (cpu *CPU) applyModeConstraints() {
	if cpu.E {
		cpu.P |= flagM | flagX
		cpu.X &= 0x00FF
		cpu.Y &= 0x00FF
		cpu.S = 0x0100 | (cpu.S & 0xFF)
	} else if cpu.P&flagX != 0 {
		cpu.X &= 0x00FF
		cpu.Y &= 0x00FF
	}
}

func (cpu *CPU) branch(cond bool) {
	offset := int8(cpu.fetch8())
	if cond {
		cpu.PC = uint16(int32(cpu.PC) + int32(offset))
	}
}
