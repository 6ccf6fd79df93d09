package cpuz80

// executeCB decodes the bit-operations plane: rotate/shift (0x00-0x3F),
// BIT (0x40-0x7F), RES (0x80-0xBF), SET (0xC0-0xFF), each over the
// 3-bit register field shared with the unprefixed plane.
func (c *CPU) executeCB(op uint8) {
	reg := op & 7
	v := c.getReg8(reg)
	cycles := uint64(8) + reg8Cycles(reg)

	switch {
	case op < 0x40:
		v = c.shiftRotate((op>>3)&7, v)
		c.setReg8(reg, v)
	case op < 0x80:
		bit := (op >> 3) & 7
		c.setFlag(flagZ, v&(1<<bit) == 0)
		c.F |= flagH
		c.F &^= flagN
		c.setFlag(flagS, bit == 7 && v&0x80 != 0)
		cycles = 8
		if reg == 6 {
			cycles = 12
		}
	case op < 0xC0:
		bit := (op >> 3) & 7
		c.setReg8(reg, v&^(1<<bit))
	default:
		bit := (op >> 3) & 7
		c.setReg8(reg, v|(1<<bit))
	}
	c.cycles += cycles
}

// shiftRotate applies op idx (0=RLC 1=RRC 2=RL 3=RR 4=SLA 5=SRA 6=SLL
// 7=SRL) to v, updating flags, and returns the result.
func (c *CPU) shiftRotate(idx uint8, v uint8) uint8 {
	var result uint8
	var carryOut bool
	switch idx {
	case 0: // RLC
		carryOut = v&0x80 != 0
		result = v<<1 | v>>7
	case 1: // RRC
		carryOut = v&1 != 0
		result = v>>1 | v<<7
	case 2: // RL
		carryOut = v&0x80 != 0
		in := uint8(0)
		if c.F&flagC != 0 {
			in = 1
		}
		result = v<<1 | in
	case 3: // RR
		carryOut = v&1 != 0
		in := uint8(0)
		if c.F&flagC != 0 {
			in = 0x80
		}
		result = v>>1 | in
	case 4: // SLA
		carryOut = v&0x80 != 0
		result = v << 1
	case 5: // SRA
		carryOut = v&1 != 0
		result = v>>1 | v&0x80
	case 6: // SLL (undocumented, sets bit 0)
		carryOut = v&0x80 != 0
		result = v<<1 | 1
	default: // SRL
		carryOut = v&1 != 0
		result = v >> 1
	}
	c.setFlag(flagC, carryOut)
	c.F &^= flagN | flagH
	c.setSZ(result)
	c.setFlag(flagPV, c.parity(result))
	return result
}

// executeED decodes the extended plane: IN/OUT, 16-bit ADC/SBC HL,ss,
// LD dd,(nn)/LD (nn),dd, NEG, interrupt mode/return variants,
// LD A,I/R, and the block transfer/compare instructions.
func (c *CPU) executeED(op uint8) {
	switch op {
	case 0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C: // NEG
		v := c.A
		c.A = 0 - v
		c.setSZ(c.A)
		c.setFlag(flagC, v != 0)
		c.setFlag(flagPV, v == 0x80)
		c.setFlag(flagH, v&0x0F != 0)
		c.F |= flagN
		c.cycles += 8
	case 0x46, 0x4E, 0x66, 0x6E: // IM 0
		c.IM = 0
		c.cycles += 8
	case 0x56, 0x76: // IM 1
		c.IM = 1
		c.cycles += 8
	case 0x5E, 0x7E: // IM 2
		c.IM = 2
		c.cycles += 8
	case 0x45, 0x4D, 0x55, 0x5D, 0x65, 0x6D, 0x75, 0x7D: // RETN/RETI
		c.IFF1 = c.IFF2
		c.PC = c.pop()
		c.cycles += 14
	case 0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x78: // IN r,(C)
		v := c.mem.IOIn(c.C)
		c.setReg8((op>>3)&7, v)
		c.setSZ(v)
		c.setFlag(flagPV, c.parity(v))
		c.F &^= flagN | flagH
		c.cycles += 12
	case 0x41, 0x49, 0x51, 0x59, 0x61, 0x69, 0x79: // OUT (C),r
		c.mem.IOOut(c.C, c.getReg8((op>>3)&7))
		c.cycles += 12
	case 0x47: // LD I,A
		c.I = c.A
		c.cycles += 9
	case 0x4F: // LD R,A
		c.R = c.A
		c.cycles += 9
	case 0x57: // LD A,I
		c.A = c.I
		c.setSZ(c.A)
		c.F &^= flagN | flagH
		c.setFlag(flagPV, c.IFF2)
		c.cycles += 9
	case 0x5F: // LD A,R
		c.A = c.R
		c.setSZ(c.A)
		c.F &^= flagN | flagH
		c.setFlag(flagPV, c.IFF2)
		c.cycles += 9
	case 0xA0: // LDI
		c.blockLoad(1)
	case 0xB0: // LDIR
		c.blockLoad(1)
		if c.getReg16(0) != 0 {
			c.PC -= 2
			c.cycles += 5
		}
	case 0xA8: // LDD
		c.blockLoad(-1)
	case 0xB8: // LDDR
		c.blockLoad(-1)
		if c.getReg16(0) != 0 {
			c.PC -= 2
			c.cycles += 5
		}
	case 0xA1: // CPI
		c.blockCompare(1)
	case 0xB1: // CPIR
		c.blockCompare(1)
		if c.getReg16(0) != 0 && c.F&flagZ == 0 {
			c.PC -= 2
			c.cycles += 5
		}
	case 0xA9: // CPD
		c.blockCompare(-1)
	case 0xB9: // CPDR
		c.blockCompare(-1)
		if c.getReg16(0) != 0 && c.F&flagZ == 0 {
			c.PC -= 2
			c.cycles += 5
		}
	default:
		switch op & 0xCF {
		case 0x4A: // ADC HL,ss
			c.adcHL(c.getReg16((op >> 4) & 3))
			return
		case 0x42: // SBC HL,ss
			c.sbcHL(c.getReg16((op >> 4) & 3))
			return
		case 0x43: // LD (nn),dd
			addr := c.fetch16()
			v := c.getReg16((op >> 4) & 3)
			c.mem.Write(addr, uint8(v))
			c.mem.Write(addr+1, uint8(v>>8))
			c.cycles += 20
			return
		case 0x4B: // LD dd,(nn)
			addr := c.fetch16()
			lo := uint16(c.mem.Read(addr))
			hi := uint16(c.mem.Read(addr + 1))
			c.setReg16((op>>4)&3, hi<<8|lo)
			c.cycles += 20
			return
		}
		// Unimplemented ED opcode (undocumented/rare): behaves as an
		// 8-cycle NOP.
		c.cycles += 8
	}
}

func (c *CPU) blockLoad(step int) {
	hl := c.getReg16(2)
	de := c.getReg16(1)
	bc := c.getReg16(0)
	v := c.mem.Read(hl)
	c.mem.Write(de, v)
	c.setReg16(2, uint16(int32(hl)+int32(step)))
	c.setReg16(1, uint16(int32(de)+int32(step)))
	bc--
	c.setReg16(0, bc)
	c.F &^= flagN | flagH
	c.setFlag(flagPV, bc != 0)
	c.cycles += 16
}

func (c *CPU) blockCompare(step int) {
	hl := c.getReg16(2)
	bc := c.getReg16(0)
	v := c.mem.Read(hl)
	res := c.A - v
	c.setReg16(2, uint16(int32(hl)+int32(step)))
	bc--
	c.setReg16(0, bc)
	c.setSZ(res)
	c.setFlag(flagH, c.A&0x0F < v&0x0F)
	c.F |= flagN
	c.setFlag(flagPV, bc != 0)
	c.cycles += 16
}

func (c *CPU) adcHL(operand uint16) {
	hl := uint16(c.H)<<8 | uint16(c.L)
	carryIn := uint32(0)
	if c.F&flagC != 0 {
		carryIn = 1
	}
	result := uint32(hl) + uint32(operand) + carryIn
	c.setFlag(flagH, (hl&0xFFF)+(operand&0xFFF)+uint16(carryIn) > 0xFFF)
	c.setFlag(flagC, result > 0xFFFF)
	c.setFlag(flagPV, (hl^operand)&0x8000 == 0 && (hl^uint16(result))&0x8000 != 0)
	c.F &^= flagN
	c.H, c.L = uint8(result>>8), uint8(result)
	c.setSZ(c.H)
	c.setFlag(flagZ, uint16(result) == 0)
	c.cycles += 15
}

func (c *CPU) sbcHL(operand uint16) {
	hl := uint16(c.H)<<8 | uint16(c.L)
	carryIn := int32(0)
	if c.F&flagC != 0 {
		carryIn = 1
	}
	result := int32(hl) - int32(operand) - carryIn
	c.setFlag(flagH, int32(hl&0xFFF)-int32(operand&0xFFF)-carryIn < 0)
	c.setFlag(flagC, result < 0)
	c.setFlag(flagPV, (hl^operand)&0x8000 != 0 && (hl^uint16(result))&0x8000 != 0)
	c.F |= flagN
	c.H, c.L = uint8(result>>8), uint8(result)
	c.setSZ(c.H)
	c.setFlag(flagZ, uint16(result) == 0)
	c.cycles += 15
}

// executeIndexed handles the DD/FD prefix: the bulk of the
// instruction set redirects HL to *index for the purposes of 16-bit
// loads/arithmetic and (HL)-style addressing becomes (index+d).
// A following CB byte addresses the DDCB/FDCB bit-op-on-(index+d)
// forms, which additionally copy the result into a register.
func (c *CPU) executeIndexed(index *uint16) {
	op := c.fetch()
	switch op {
	case 0xCB:
		d := int8(c.fetch())
		op2 := c.fetch()
		addr := uint16(int32(*index) + int32(d))
		c.executeIndexedCB(addr, op2)
		return
	case 0x21: // LD index,nn
		*index = c.fetch16()
		c.cycles += 14
		return
	case 0x22: // LD (nn),index
		addr := c.fetch16()
		c.mem.Write(addr, uint8(*index))
		c.mem.Write(addr+1, uint8(*index>>8))
		c.cycles += 20
		return
	case 0x2A: // LD index,(nn)
		addr := c.fetch16()
		lo := uint16(c.mem.Read(addr))
		hi := uint16(c.mem.Read(addr + 1))
		*index = hi<<8 | lo
		c.cycles += 20
		return
	case 0x23: // INC index
		*index++
		c.cycles += 10
		return
	case 0x2B: // DEC index
		*index--
		c.cycles += 10
		return
	case 0x09, 0x19, 0x29, 0x39: // ADD index,ss (HL slot substituted by index)
		var operand uint16
		switch (op >> 4) & 3 {
		case 2:
			operand = *index
		default:
			operand = c.getReg16((op >> 4) & 3)
		}
		result := uint32(*index) + uint32(operand)
		c.setFlag(flagH, (*index&0xFFF)+(operand&0xFFF) > 0xFFF)
		c.setFlag(flagC, result > 0xFFFF)
		c.F &^= flagN
		*index = uint16(result)
		c.cycles += 15
		return
	case 0xE9: // JP (index)
		c.PC = *index
		c.cycles += 8
		return
	case 0xF9: // LD SP,index
		c.SP = *index
		c.cycles += 10
		return
	case 0x36: // LD (index+d),n
		d := int8(c.fetch())
		n := c.fetch()
		c.mem.Write(uint16(int32(*index)+int32(d)), n)
		c.cycles += 19
		return
	case 0xE1: // POP index
		*index = c.pop()
		c.cycles += 14
		return
	case 0xE5: // PUSH index
		c.push(*index)
		c.cycles += 15
		return
	}

	// LD r,(index+d) / LD (index+d),r / ALU A,(index+d) / INC,DEC
	// (index+d): these share the same 3-bit-field encoding as the
	// unprefixed plane, with register slot 6 ((HL)) redirected to
	// (index+d).
	if op&0xC0 == 0x40 && op != 0x76 {
		src := op & 7
		dst := (op >> 3) & 7
		var v uint8
		extra := uint64(4)
		if src == 6 {
			d := int8(c.fetch())
			v = c.mem.Read(uint16(int32(*index) + int32(d)))
			extra = 15
		} else {
			v = c.getReg8(src)
		}
		if dst == 6 {
			d := int8(c.fetch())
			c.mem.Write(uint16(int32(*index)+int32(d)), v)
			extra = 15
		} else {
			c.setReg8(dst, v)
		}
		c.cycles += extra
		return
	}
	if op&0xC0 == 0x80 { // ALU A,(index+d)
		var v uint8
		if op&7 == 6 {
			d := int8(c.fetch())
			v = c.mem.Read(uint16(int32(*index) + int32(d)))
			c.cycles += 15
		} else {
			v = c.getReg8(op & 7)
			c.cycles += 4
		}
		c.alu((op>>3)&7, v)
		return
	}
	if op == 0x34 { // INC (index+d)
		d := int8(c.fetch())
		addr := uint16(int32(*index) + int32(d))
		c.mem.Write(addr, c.incDec(c.mem.Read(addr), 1))
		c.cycles += 23
		return
	}
	if op == 0x35 { // DEC (index+d)
		d := int8(c.fetch())
		addr := uint16(int32(*index) + int32(d))
		c.mem.Write(addr, c.incDec(c.mem.Read(addr), -1))
		c.cycles += 23
		return
	}

	// Anything else (rare DD/FD-prefixed forms): fall back to the
	// unprefixed plane's behavior on the plain registers, matching
	// real hardware's documented treatment of such prefixes as a
	// no-op extra fetch for instructions that don't reference HL.
	c.execute(op)
}

func (c *CPU) executeIndexedCB(addr uint16, op uint8) {
	v := c.mem.Read(addr)
	switch {
	case op < 0x40:
		result := c.shiftRotate((op>>3)&7, v)
		c.mem.Write(addr, result)
		if op&7 != 6 {
			c.setReg8(op&7, result)
		}
	case op < 0x80:
		bit := (op >> 3) & 7
		c.setFlag(flagZ, v&(1<<bit) == 0)
		c.F |= flagH
		c.F &^= flagN
	case op < 0xC0:
		bit := (op >> 3) & 7
		result := v &^ (1 << bit)
		c.mem.Write(addr, result)
		if op&7 != 6 {
			c.setReg8(op&7, result)
		}
	default:
		bit := (op >> 3) & 7
		result := v | (1 << bit)
		c.mem.Write(addr, result)
		if op&7 != 6 {
			c.setReg8(op&7, result)
		}
	}
	c.cycles += 23
}
