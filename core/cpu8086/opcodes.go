package cpu8086

// reg8 / reg16 index the eight 8-bit and eight 16-bit register
// encodings ModR/M and the register-direct opcode ranges use.
func (cpu *CPU) reg8(i uint8) uint8 {
	switch i & 7 {
	case 0:
		return uint8(cpu.AX)
	case 1:
		return uint8(cpu.CX)
	case 2:
		return uint8(cpu.DX)
	case 3:
		return uint8(cpu.BX)
	case 4:
		return uint8(cpu.AX >> 8)
	case 5:
		return uint8(cpu.CX >> 8)
	case 6:
		return uint8(cpu.DX >> 8)
	default:
		return uint8(cpu.BX >> 8)
	}
}

func (cpu *CPU) setReg8(i uint8, v uint8) {
	switch i & 7 {
	case 0:
		cpu.AX = cpu.AX&0xFF00 | uint16(v)
	case 1:
		cpu.CX = cpu.CX&0xFF00 | uint16(v)
	case 2:
		cpu.DX = cpu.DX&0xFF00 | uint16(v)
	case 3:
		cpu.BX = cpu.BX&0xFF00 | uint16(v)
	case 4:
		cpu.AX = cpu.AX&0x00FF | uint16(v)<<8
	case 5:
		cpu.CX = cpu.CX&0x00FF | uint16(v)<<8
	case 6:
		cpu.DX = cpu.DX&0x00FF | uint16(v)<<8
	default:
		cpu.BX = cpu.BX&0x00FF | uint16(v)<<8
	}
}

func (cpu *CPU) reg16(i uint8) uint16 {
	switch i & 7 {
	case 0:
		return cpu.AX
	case 1:
		return cpu.CX
	case 2:
		return cpu.DX
	case 3:
		return cpu.BX
	case 4:
		return cpu.SP
	case 5:
		return cpu.BP
	case 6:
		return cpu.SI
	default:
		return cpu.DI
	}
}

func (cpu *CPU) setReg16(i uint8, v uint16) {
	switch i & 7 {
	case 0:
		cpu.AX = v
	case 1:
		cpu.CX = v
	case 2:
		cpu.DX = v
	case 3:
		cpu.BX = v
	case 4:
		cpu.SP = v
	case 5:
		cpu.BP = v
	case 6:
		cpu.SI = v
	default:
		cpu.DI = v
	}
}

func (cpu *CPU) segReg(i uint8) uint16 {
	switch i & 3 {
	case 0:
		return cpu.ES
	case 1:
		return cpu.CS
	case 2:
		return cpu.SS
	default:
		return cpu.DS
	}
}

func (cpu *CPU) setSegReg(i uint8, v uint16) {
	switch i & 3 {
	case 0:
		cpu.ES = v
	case 1:
		cpu.CS = v
	case 2:
		cpu.SS = v
	default:
		cpu.DS = v
	}
}

// modrm holds one decoded ModR/M byte: reg is always the /reg field;
// isMem reports whether rm resolved to a memory operand (seg:off) or
// a register index.
type modrm struct {
	reg     uint8
	isMem   bool
	rmReg   uint8
	seg     uint16
	off     uint16
}

func (cpu *CPU) decodeModRM() modrm {
	b := cpu.fetch8()
	mod := b >> 6
	reg := (b >> 3) & 7
	rm := b & 7

	if mod == 3 {
		return modrm{reg: reg, isMem: false, rmReg: rm}
	}

	var base uint16
	seg := cpu.dataSeg()
	switch rm {
	case 0:
		base = cpu.BX + cpu.SI
	case 1:
		base = cpu.BX + cpu.DI
	case 2:
		base = cpu.BP + cpu.SI
		if !cpu.hasSegOverride {
			seg = cpu.SS
		}
	case 3:
		base = cpu.BP + cpu.DI
		if !cpu.hasSegOverride {
			seg = cpu.SS
		}
	case 4:
		base = cpu.SI
	case 5:
		base = cpu.DI
	case 6:
		if mod == 0 {
			base = cpu.fetch16()
		} else {
			base = cpu.BP
			if !cpu.hasSegOverride {
				seg = cpu.SS
			}
		}
	case 7:
		base = cpu.BX
	}

	switch mod {
	case 1:
		base += uint16(int16(int8(cpu.fetch8())))
	case 2:
		base += cpu.fetch16()
	}

	return modrm{reg: reg, isMem: true, seg: seg, off: base}
}

func (cpu *CPU) rm8(m modrm) uint8 {
	if m.isMem {
		return cpu.read8(m.seg, m.off)
	}
	return cpu.reg8(m.rmReg)
}

func (cpu *CPU) setRM8(m modrm, v uint8) {
	if m.isMem {
		cpu.write8(m.seg, m.off, v)
	} else {
		cpu.setReg8(m.rmReg, v)
	}
}

func (cpu *CPU) rm16(m modrm) uint16 {
	if m.isMem {
		return cpu.read16(m.seg, m.off)
	}
	return cpu.reg16(m.rmReg)
}

func (cpu *CPU) setRM16(m modrm, v uint16) {
	if m.isMem {
		cpu.write16(m.seg, m.off, v)
	} else {
		cpu.setReg16(m.rmReg, v)
	}
}

// --- flag computation -------------------------------------------------

func parity(v uint8) bool {
	count := 0
	for i := 0; i < 8; i++ {
		if v&(1<<i) != 0 {
			count++
		}
	}
	return count%2 == 0
}

func (cpu *CPU) setLogicFlags8(v uint8) {
	cpu.setFlag(flagCF, false)
	cpu.setFlag(flagOF, false)
	cpu.setFlag(flagSF, v&0x80 != 0)
	cpu.setFlag(flagZF, v == 0)
	cpu.setFlag(flagPF, parity(v))
}

func (cpu *CPU) setLogicFlags16(v uint16) {
	cpu.setFlag(flagCF, false)
	cpu.setFlag(flagOF, false)
	cpu.setFlag(flagSF, v&0x8000 != 0)
	cpu.setFlag(flagZF, v == 0)
	cpu.setFlag(flagPF, parity(uint8(v)))
}

// add8/sub8/add16/sub16 perform the operation and set CF/OF/AF/SF/ZF/PF,
// returning the result. cf is the incoming carry for ADC/SBB.
func (cpu *CPU) add8(a, b uint8, cf uint8) uint8 {
	r := uint16(a) + uint16(b) + uint16(cf)
	res := uint8(r)
	cpu.setFlag(flagCF, r > 0xFF)
	cpu.setFlag(flagAF, (a&0xF)+(b&0xF)+cf > 0xF)
	cpu.setFlag(flagOF, (a^b)&0x80 == 0 && (a^res)&0x80 != 0)
	cpu.setFlag(flagSF, res&0x80 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(res))
	return res
}

func (cpu *CPU) sub8(a, b uint8, cf uint8) uint8 {
	r := int16(a) - int16(b) - int16(cf)
	res := uint8(r)
	cpu.setFlag(flagCF, r < 0)
	cpu.setFlag(flagAF, int16(a&0xF)-int16(b&0xF)-int16(cf) < 0)
	cpu.setFlag(flagOF, (a^b)&0x80 != 0 && (a^res)&0x80 != 0)
	cpu.setFlag(flagSF, res&0x80 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(res))
	return res
}

func (cpu *CPU) add16(a, b uint16, cf uint16) uint16 {
	r := uint32(a) + uint32(b) + uint32(cf)
	res := uint16(r)
	cpu.setFlag(flagCF, r > 0xFFFF)
	cpu.setFlag(flagAF, (a&0xF)+(b&0xF)+cf > 0xF)
	cpu.setFlag(flagOF, (a^b)&0x8000 == 0 && (a^res)&0x8000 != 0)
	cpu.setFlag(flagSF, res&0x8000 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(uint8(res)))
	return res
}

func (cpu *CPU) sub16(a, b uint16, cf uint16) uint16 {
	r := int32(a) - int32(b) - int32(cf)
	res := uint16(r)
	cpu.setFlag(flagCF, r < 0)
	cpu.setFlag(flagAF, int32(a&0xF)-int32(b&0xF)-int32(cf) < 0)
	cpu.setFlag(flagOF, (a^b)&0x8000 != 0 && (a^res)&0x8000 != 0)
	cpu.setFlag(flagSF, res&0x8000 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(uint8(res)))
	return res
}

// inc8/dec8/inc16/dec16 deliberately do not touch CF: per spec §4.1.4
// and the boundary behavior in §8, INC/DEC must leave the carry flag
// exactly as they found it, unlike ADD/SUB.
func (cpu *CPU) inc8(v uint8) uint8 {
	res := v + 1
	cpu.setFlag(flagAF, v&0xF == 0xF)
	cpu.setFlag(flagOF, v == 0x7F)
	cpu.setFlag(flagSF, res&0x80 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(res))
	return res
}

func (cpu *CPU) dec8(v uint8) uint8 {
	res := v - 1
	cpu.setFlag(flagAF, v&0xF == 0)
	cpu.setFlag(flagOF, v == 0x80)
	cpu.setFlag(flagSF, res&0x80 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(res))
	return res
}

func (cpu *CPU) inc16(v uint16) uint16 {
	res := v + 1
	cpu.setFlag(flagAF, v&0xF == 0xF)
	cpu.setFlag(flagOF, v == 0x7FFF)
	cpu.setFlag(flagSF, res&0x8000 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(uint8(res)))
	return res
}

func (cpu *CPU) dec16(v uint16) uint16 {
	res := v - 1
	cpu.setFlag(flagAF, v&0xF == 0)
	cpu.setFlag(flagOF, v == 0x8000)
	cpu.setFlag(flagSF, res&0x8000 != 0)
	cpu.setFlag(flagZF, res == 0)
	cpu.setFlag(flagPF, parity(uint8(res)))
	return res
}

// --- string operations -------------------------------------------------

func (cpu *CPU) strStep() int16 {
	if cpu.flag(flagDF) {
		return -1
	}
	return 1
}

// repeated wraps a string op body so it honors REP/REPNE (CX-counted,
// with REPE/REPNE additionally gating on ZF for CMPS/SCAS).
func (cpu *CPU) repeated(cmpClass bool, body func()) {
	if cpu.rep == 0 {
		body()
		return
	}
	for cpu.CX != 0 {
		body()
		cpu.CX--
		if cmpClass {
			if cpu.rep == 1 && !cpu.flag(flagZF) {
				break
			}
			if cpu.rep == 2 && cpu.flag(flagZF) {
				break
			}
		}
	}
}

// --- execute -------------------------------------------------------------

func (cpu *CPU) execute(op uint8) {
	switch {
	case op <= 0x3D && op&0xC0 == 0 && (op&7) <= 5:
		cpu.execALUGroup(op)
		return
	}

	switch op {
	case 0x88: // MOV r/m8, r8
		m := cpu.decodeModRM()
		cpu.setRM8(m, cpu.reg8(m.reg))
	case 0x89: // MOV r/m16, r16
		m := cpu.decodeModRM()
		cpu.setRM16(m, cpu.reg16(m.reg))
	case 0x8A: // MOV r8, r/m8
		m := cpu.decodeModRM()
		cpu.setReg8(m.reg, cpu.rm8(m))
	case 0x8B: // MOV r16, r/m16
		m := cpu.decodeModRM()
		cpu.setReg16(m.reg, cpu.rm16(m))
	case 0x8C: // MOV r/m16, Sreg
		m := cpu.decodeModRM()
		cpu.setRM16(m, cpu.segReg(m.reg))
	case 0x8E: // MOV Sreg, r/m16
		m := cpu.decodeModRM()
		cpu.setSegReg(m.reg, cpu.rm16(m))
	case 0x8D: // LEA r16, m
		m := cpu.decodeModRM()
		cpu.setReg16(m.reg, m.off)
	case 0xA0: // MOV AL, moffs8
		off := cpu.fetch16()
		cpu.AX = cpu.AX&0xFF00 | uint16(cpu.read8(cpu.dataSeg(), off))
	case 0xA1: // MOV AX, moffs16
		off := cpu.fetch16()
		cpu.AX = cpu.read16(cpu.dataSeg(), off)
	case 0xA2: // MOV moffs8, AL
		off := cpu.fetch16()
		cpu.write8(cpu.dataSeg(), off, uint8(cpu.AX))
	case 0xA3: // MOV moffs16, AX
		off := cpu.fetch16()
		cpu.write16(cpu.dataSeg(), off, cpu.AX)
	case 0xC6: // MOV r/m8, imm8
		m := cpu.decodeModRM()
		cpu.setRM8(m, cpu.fetch8())
	case 0xC7: // MOV r/m16, imm16
		m := cpu.decodeModRM()
		cpu.setRM16(m, cpu.fetch16())

	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7: // MOV reg8, imm8
		cpu.setReg8(op-0xB0, cpu.fetch8())
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF: // MOV reg16, imm16
		cpu.setReg16(op-0xB8, cpu.fetch16())

	case 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57: // PUSH reg16
		cpu.push16(cpu.reg16(op - 0x50))
	case 0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F: // POP reg16
		cpu.setReg16(op-0x58, cpu.pop16())
	case 0x06:
		cpu.push16(cpu.ES)
	case 0x07:
		cpu.ES = cpu.pop16()
	case 0x0E:
		cpu.push16(cpu.CS)
	case 0x16:
		cpu.push16(cpu.SS)
	case 0x17:
		cpu.SS = cpu.pop16()
	case 0x1E:
		cpu.push16(cpu.DS)
	case 0x1F:
		cpu.DS = cpu.pop16()
	case 0x9C: // PUSHF
		cpu.push16(cpu.Flags)
	case 0x9D: // POPF
		cpu.Flags = cpu.pop16()

	case 0xFE: // INC/DEC r/m8 (group)
		m := cpu.decodeModRM()
		if m.reg == 0 {
			cpu.setRM8(m, cpu.inc8(cpu.rm8(m)))
		} else {
			cpu.setRM8(m, cpu.dec8(cpu.rm8(m)))
		}
	case 0xFF: // INC/DEC/CALL/JMP/PUSH r/m16 (group)
		cpu.execGroupFF()
	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47: // INC reg16
		cpu.setReg16(op-0x40, cpu.inc16(cpu.reg16(op-0x40)))
	case 0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F: // DEC reg16
		cpu.setReg16(op-0x48, cpu.dec16(cpu.reg16(op-0x48)))

	case 0x80, 0x81, 0x83: // ALU r/m, imm (group)
		cpu.execGroupALUImm(op)

	case 0x84: // TEST r/m8, r8
		m := cpu.decodeModRM()
		cpu.setLogicFlags8(cpu.rm8(m) & cpu.reg8(m.reg))
	case 0x85: // TEST r/m16, r16
		m := cpu.decodeModRM()
		cpu.setLogicFlags16(cpu.rm16(m) & cpu.reg16(m.reg))
	case 0xA8: // TEST AL, imm8
		cpu.setLogicFlags8(uint8(cpu.AX) & cpu.fetch8())
	case 0xA9: // TEST AX, imm16
		cpu.setLogicFlags16(cpu.AX & cpu.fetch16())

	case 0xE8: // CALL rel16
		rel := int16(cpu.fetch16())
		cpu.push16(cpu.IP)
		cpu.IP = uint16(int32(cpu.IP) + int32(rel))
	case 0xE9: // JMP rel16
		rel := int16(cpu.fetch16())
		cpu.IP = uint16(int32(cpu.IP) + int32(rel))
	case 0xEB: // JMP rel8
		rel := int8(cpu.fetch8())
		cpu.IP = uint16(int32(cpu.IP) + int32(rel))
	case 0xEA: // JMP far ptr16:16
		ip := cpu.fetch16()
		cs := cpu.fetch16()
		cpu.IP, cpu.CS = ip, cs
	case 0xC2: // RET imm16 (near)
		n := cpu.fetch16()
		cpu.IP = cpu.pop16()
		cpu.SP += n
	case 0xC3: // RET (near)
		cpu.IP = cpu.pop16()
	case 0xCA: // RETF imm16
		n := cpu.fetch16()
		cpu.IP = cpu.pop16()
		cpu.CS = cpu.pop16()
		cpu.SP += n
	case 0xCB: // RETF
		cpu.IP = cpu.pop16()
		cpu.CS = cpu.pop16()
	case 0xE2: // LOOP rel8
		rel := int8(cpu.fetch8())
		cpu.CX--
		if cpu.CX != 0 {
			cpu.IP = uint16(int32(cpu.IP) + int32(rel))
		}
	case 0xE3: // JCXZ rel8
		rel := int8(cpu.fetch8())
		if cpu.CX == 0 {
			cpu.IP = uint16(int32(cpu.IP) + int32(rel))
		}

	case 0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x76, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F: // Jcc rel8
		rel := int8(cpu.fetch8())
		if cpu.condition(op & 0x0F) {
			cpu.IP = uint16(int32(cpu.IP) + int32(rel))
		}

	case 0xF8:
		cpu.setFlag(flagCF, false)
	case 0xF9:
		cpu.setFlag(flagCF, true)
	case 0xF5:
		cpu.setFlag(flagCF, !cpu.flag(flagCF))
	case 0xFA:
		cpu.setFlag(flagIF, false)
	case 0xFB:
		cpu.setFlag(flagIF, true)
	case 0xFC:
		cpu.setFlag(flagDF, false)
	case 0xFD:
		cpu.setFlag(flagDF, true)

	case 0xCC: // INT3
		cpu.serviceInterrupt(3)
	case 0xCD: // INT imm8
		cpu.serviceInterrupt(cpu.fetch8())
	case 0xCE: // INTO
		if cpu.flag(flagOF) {
			cpu.serviceInterrupt(4)
		}
	case 0xCF: // IRET
		cpu.IP = cpu.pop16()
		cpu.CS = cpu.pop16()
		cpu.Flags = cpu.pop16()

	case 0xF4: // HLT
		cpu.halted = true

	case 0xA4: // MOVSB
		cpu.repeated(false, func() {
			v := cpu.read8(cpu.dataSeg(), cpu.SI)
			cpu.write8(cpu.ES, cpu.DI, v)
			cpu.SI = uint16(int32(cpu.SI) + int32(cpu.strStep()))
			cpu.DI = uint16(int32(cpu.DI) + int32(cpu.strStep()))
		})
	case 0xA5: // MOVSW
		cpu.repeated(false, func() {
			v := cpu.read16(cpu.dataSeg(), cpu.SI)
			cpu.write16(cpu.ES, cpu.DI, v)
			cpu.SI = uint16(int32(cpu.SI) + 2*int32(cpu.strStep()))
			cpu.DI = uint16(int32(cpu.DI) + 2*int32(cpu.strStep()))
		})
	case 0xAA: // STOSB
		cpu.repeated(false, func() {
			cpu.write8(cpu.ES, cpu.DI, uint8(cpu.AX))
			cpu.DI = uint16(int32(cpu.DI) + int32(cpu.strStep()))
		})
	case 0xAB: // STOSW
		cpu.repeated(false, func() {
			cpu.write16(cpu.ES, cpu.DI, cpu.AX)
			cpu.DI = uint16(int32(cpu.DI) + 2*int32(cpu.strStep()))
		})
	case 0xAC: // LODSB
		cpu.repeated(false, func() {
			cpu.AX = cpu.AX&0xFF00 | uint16(cpu.read8(cpu.dataSeg(), cpu.SI))
			cpu.SI = uint16(int32(cpu.SI) + int32(cpu.strStep()))
		})
	case 0xAD: // LODSW
		cpu.repeated(false, func() {
			cpu.AX = cpu.read16(cpu.dataSeg(), cpu.SI)
			cpu.SI = uint16(int32(cpu.SI) + 2*int32(cpu.strStep()))
		})
	case 0xA6: // CMPSB (ES:DI cannot take a segment override, spec §4.1.4)
		cpu.repeated(true, func() {
			a := cpu.read8(cpu.dataSeg(), cpu.SI)
			b := cpu.read8(cpu.ES, cpu.DI)
			cpu.sub8(a, b, 0)
			cpu.SI = uint16(int32(cpu.SI) + int32(cpu.strStep()))
			cpu.DI = uint16(int32(cpu.DI) + int32(cpu.strStep()))
		})
	case 0xAE: // SCASB
		cpu.repeated(true, func() {
			b := cpu.read8(cpu.ES, cpu.DI)
			cpu.sub8(uint8(cpu.AX), b, 0)
			cpu.DI = uint16(int32(cpu.DI) + int32(cpu.strStep()))
		})

	case 0x90: // NOP / XCHG AX,AX
	case 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97: // XCHG AX, reg16
		r := op - 0x90
		a, b := cpu.AX, cpu.reg16(r)
		cpu.AX, _ = b, a
		cpu.setReg16(r, a)
	case 0x86: // XCHG r8, r/m8
		m := cpu.decodeModRM()
		a, b := cpu.reg8(m.reg), cpu.rm8(m)
		cpu.setReg8(m.reg, b)
		cpu.setRM8(m, a)
	case 0x87: // XCHG r16, r/m16
		m := cpu.decodeModRM()
		a, b := cpu.reg16(m.reg), cpu.rm16(m)
		cpu.setReg16(m.reg, b)
		cpu.setRM16(m, a)

	case 0x0F: // two-byte opcode escape: 80386+ only (BSWAP/CMPXCHG/...)
		cpu.execTwoByte()

	default:
		// Undocumented/unsupported opcode: spec §4.1.4/§7 category 3
		// treats this as an invalid-opcode interrupt rather than a
		// panic, mirroring real 8086 behavior for reserved encodings.
		cpu.serviceInterrupt(6)
	}
}

// execTwoByte recognizes the small 80386+ opcode set spec §4.1.4
// calls out by name; on a lower Model it falls through to the same
// invalid-opcode interrupt an 8086 would raise for 0x0F (reserved on
// that model).
func (cpu *CPU) execTwoByte() {
	if cpu.Model < Model80386 {
		cpu.serviceInterrupt(6)
		return
	}
	op := cpu.fetch8()
	switch {
	case op >= 0xC8 && op <= 0xCF: // BSWAP r32 (modeled on the 16-bit half)
		r := op - 0xC8
		v := cpu.reg16(r)
		cpu.setReg16(r, v>>8|v<<8)
	case op == 0xB0: // CMPXCHG r/m8, r8
		m := cpu.decodeModRM()
		dst := cpu.rm8(m)
		if uint8(cpu.AX) == dst {
			cpu.setFlag(flagZF, true)
			cpu.setRM8(m, cpu.reg8(m.reg))
		} else {
			cpu.setFlag(flagZF, false)
			cpu.AX = cpu.AX&0xFF00 | uint16(dst)
		}
	case op == 0xB1: // CMPXCHG r/m16, r16
		m := cpu.decodeModRM()
		dst := cpu.rm16(m)
		if cpu.AX == dst {
			cpu.setFlag(flagZF, true)
			cpu.setRM16(m, cpu.reg16(m.reg))
		} else {
			cpu.setFlag(flagZF, false)
			cpu.AX = dst
		}
	default:
		cpu.serviceInterrupt(6)
	}
}

// condition evaluates a Jcc tttn nibble against the current flags.
func (cpu *CPU) condition(tttn uint8) bool {
	switch tttn {
	case 0x0:
		return cpu.flag(flagOF)
	case 0x1:
		return !cpu.flag(flagOF)
	case 0x2:
		return cpu.flag(flagCF)
	case 0x3:
		return !cpu.flag(flagCF)
	case 0x4:
		return cpu.flag(flagZF)
	case 0x5:
		return !cpu.flag(flagZF)
	case 0x6:
		return cpu.flag(flagCF) || cpu.flag(flagZF)
	case 0x7:
		return !cpu.flag(flagCF) && !cpu.flag(flagZF)
	case 0x8:
		return cpu.flag(flagSF)
	case 0x9:
		return !cpu.flag(flagSF)
	case 0xA:
		return cpu.flag(flagPF)
	case 0xB:
		return !cpu.flag(flagPF)
	case 0xC:
		return cpu.flag(flagSF) != cpu.flag(flagOF)
	case 0xD:
		return cpu.flag(flagSF) == cpu.flag(flagOF)
	case 0xE:
		return cpu.flag(flagZF) || (cpu.flag(flagSF) != cpu.flag(flagOF))
	default:
		return !cpu.flag(flagZF) && (cpu.flag(flagSF) == cpu.flag(flagOF))
	}
}

// execALUGroup covers the eight ALU operations' canonical six-opcode
// layout (r/m,r8 / r/m,r16 / r8,r/m / r16,r/m / AL,imm8 / AX,imm16):
// ADD 00-05, OR 08-0D, ADC 10-15, SBB 18-1D, AND 20-25, SUB 28-2D,
// XOR 30-35, CMP 38-3D.
func (cpu *CPU) execALUGroup(op uint8) {
	aluOp := op >> 3
	form := op & 7

	apply8 := func(a, b uint8) uint8 { return cpu.alu8(aluOp, a, b) }
	apply16 := func(a, b uint16) uint16 { return cpu.alu16(aluOp, a, b) }

	switch form {
	case 0: // r/m8, r8
		m := cpu.decodeModRM()
		cpu.setRM8(m, apply8(cpu.rm8(m), cpu.reg8(m.reg)))
	case 1: // r/m16, r16
		m := cpu.decodeModRM()
		cpu.setRM16(m, apply16(cpu.rm16(m), cpu.reg16(m.reg)))
	case 2: // r8, r/m8
		m := cpu.decodeModRM()
		cpu.setReg8(m.reg, apply8(cpu.reg8(m.reg), cpu.rm8(m)))
	case 3: // r16, r/m16
		m := cpu.decodeModRM()
		cpu.setReg16(m.reg, apply16(cpu.reg16(m.reg), cpu.rm16(m)))
	case 4: // AL, imm8
		cpu.AX = cpu.AX&0xFF00 | uint16(apply8(uint8(cpu.AX), cpu.fetch8()))
	case 5: // AX, imm16
		cpu.AX = apply16(cpu.AX, cpu.fetch16())
	}
}

// alu8/alu16 dispatch on the 3-bit ALU sub-opcode; CMP/TEST-class
// comparisons discard the result but still set flags.
func (cpu *CPU) alu8(op uint8, a, b uint8) uint8 {
	switch op {
	case 0: // ADD
		return cpu.add8(a, b, 0)
	case 1: // OR
		r := a | b
		cpu.setLogicFlags8(r)
		return r
	case 2: // ADC
		return cpu.add8(a, b, boolToCarry8(cpu.flag(flagCF)))
	case 3: // SBB
		return cpu.sub8(a, b, boolToCarry8(cpu.flag(flagCF)))
	case 4: // AND
		r := a & b
		cpu.setLogicFlags8(r)
		return r
	case 5: // SUB
		return cpu.sub8(a, b, 0)
	case 6: // XOR
		r := a ^ b
		cpu.setLogicFlags8(r)
		return r
	default: // CMP
		cpu.sub8(a, b, 0)
		return a
	}
}

func (cpu *CPU) alu16(op uint8, a, b uint16) uint16 {
	switch op {
	case 0:
		return cpu.add16(a, b, 0)
	case 1:
		r := a | b
		cpu.setLogicFlags16(r)
		return r
	case 2:
		return cpu.add16(a, b, boolToCarry16(cpu.flag(flagCF)))
	case 3:
		return cpu.sub16(a, b, boolToCarry16(cpu.flag(flagCF)))
	case 4:
		r := a & b
		cpu.setLogicFlags16(r)
		return r
	case 5:
		return cpu.sub16(a, b, 0)
	case 6:
		r := a ^ b
		cpu.setLogicFlags16(r)
		return r
	default:
		cpu.sub16(a, b, 0)
		return a
	}
}

func boolToCarry8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func boolToCarry16(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

// execGroupALUImm covers opcodes 0x80 (r/m8, imm8), 0x81 (r/m16,
// imm16) and 0x83 (r/m16, sign-extended imm8); the ModR/M reg field
// selects which of the eight ALU operations to perform.
func (cpu *CPU) execGroupALUImm(op uint8) {
	m := cpu.decodeModRM()
	switch op {
	case 0x80:
		imm := cpu.fetch8()
		cpu.setRM8(m, cpu.alu8(m.reg, cpu.rm8(m), imm))
	case 0x81:
		imm := cpu.fetch16()
		cpu.setRM16(m, cpu.alu16(m.reg, cpu.rm16(m), imm))
	case 0x83:
		imm := uint16(int16(int8(cpu.fetch8())))
		cpu.setRM16(m, cpu.alu16(m.reg, cpu.rm16(m), imm))
	}
}

// execGroupFF covers opcode 0xFF's seven sub-operations selected by
// the ModR/M reg field: INC/DEC r/m16, CALL/JMP (near and far)
// indirect through r/m16, and PUSH r/m16.
func (cpu *CPU) execGroupFF() {
	m := cpu.decodeModRM()
	switch m.reg {
	case 0:
		cpu.setRM16(m, cpu.inc16(cpu.rm16(m)))
	case 1:
		cpu.setRM16(m, cpu.dec16(cpu.rm16(m)))
	case 2: // CALL near indirect
		target := cpu.rm16(m)
		cpu.push16(cpu.IP)
		cpu.IP = target
	case 3: // CALL far indirect
		ip := cpu.rm16(m)
		cs := cpu.read16(m.seg, m.off+2)
		cpu.push16(cpu.CS)
		cpu.push16(cpu.IP)
		cpu.IP, cpu.CS = ip, cs
	case 4: // JMP near indirect
		cpu.IP = cpu.rm16(m)
	case 5: // JMP far indirect
		cpu.IP = cpu.rm16(m)
		cpu.CS = cpu.read16(m.seg, m.off+2)
	case 6: // PUSH r/m16
		cpu.push16(cpu.rm16(m))
	}
}
