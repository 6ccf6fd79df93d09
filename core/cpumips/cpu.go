// Package cpumips implements the integer subset of the MIPS R4300i
// the N64 system actually needs to run boot code and simple guest
// programs: 32 general-purpose registers (r0 hardwired to zero), the
// HI/LO multiply/divide latches, the branch-delay slot every control-
// transfer instruction carries, and the handful of coprocessor-0
// exception vectors SYSCALL/BREAK/illegal-instruction need. It is
// structured the same way core/cpu6502 and core/cpuz80 are (explicit
// register struct, one Step per instruction, a Memory interface the
// bus implements) even though the R4300i's own addressing and
// pipeline model is a world away from those 8-bit cores, because that
// shape is this repo's idiom for "a CPU core." Floating point and the
// TLB are explicitly out of scope (spec's own stub directive): both
// raise the same illegal-instruction exception a real R4300i would
// raise for an unrecognized opcode when its coprocessor is disabled.
package cpumips

// Memory is the R4300i's bus contract as this core exercises it: big-
// endian 8/16/32-bit physical memory access. The N64's real address
// space is 64-bit with KUSEG/KSEG0/KSEG1/KSEG2 segment translation;
// this core masks every address to 29 bits (addr &^ 0xE0000000) before
// calling Memory, collapsing cached/uncached KSEG0/KSEG1 into one
// physical view, which is the simplification every N64 software
// interpreter in the reference material takes for its CPU core.
type Memory interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, value uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, value uint16)
	Read32(addr uint32) uint32
	Write32(addr uint32, value uint32)
}

// Exception vectors (physical, already segment-masked): the general
// exception vector all of SYSCALL/BREAK/illegal-instruction in this
// reduced core share, since a full cause-code dispatch table is out
// of scope for the integer-only subset spec §4.1.5 asks for.
const generalExceptionVector = 0x80000180 &^ 0xE0000000

// Cause register exception codes this core raises.
const (
	excInt  = 0
	excSys  = 8
	excBp   = 9
	excRI   = 10 // reserved instruction (illegal opcode, FPU, TLB stubs)
	excOv   = 12
)

type CPU struct {
	Reg [32]uint64
	HI  uint64
	LO  uint64

	PC     uint64
	nextPC uint64

	// CP0 subset: enough to make SYSCALL/BREAK/illegal-instruction
	// observable to a debugger without modeling the full 32-register
	// coprocessor-0 file.
	Status uint32
	Cause  uint32
	EPC    uint64

	mem Memory

	cycles uint64
}

func New(mem Memory) *CPU {
	cpu := &CPU{mem: mem}
	cpu.Reset()
	return cpu
}

// Reset vectors to the R4300i's documented cold-reset PC (the PIF ROM
// entry point in KSEG1, masked to this core's physical view) with
// interrupts disabled.
func (cpu *CPU) Reset() {
	*cpu = CPU{mem: cpu.mem}
	cpu.PC = 0xFFFFFFFFBFC00000 &^ 0xFFFFFFFFE0000000
	cpu.nextPC = cpu.PC + 4
	cpu.Status = 0x34000000 // CU1, CU0 and FR set; ERL, EXL and IE clear
}

func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

func (cpu *CPU) physical(addr uint64) uint32 {
	return uint32(addr) &^ 0xE0000000
}

// Step executes exactly one instruction (which may be a branch's
// delay slot) and returns the cycles it took. This core charges one
// cycle per instruction; the R4300i's real multi-stage pipeline
// timing is out of scope for the integer-subset contract spec §4.1.5
// describes.
func (cpu *CPU) Step() uint64 {
	pc := cpu.PC
	instr := cpu.mem.Read32(cpu.physical(pc))
	cpu.PC = cpu.nextPC
	cpu.nextPC = cpu.PC + 4
	cpu.execute(instr, pc)
	cpu.Reg[0] = 0
	cpu.cycles++
	return 1
}

func (cpu *CPU) raise(code uint32, pc uint64) {
	cpu.Cause = (cpu.Cause &^ 0x7C) | (code << 2)
	cpu.EPC = pc
	cpu.Status |= 0x2 // EXL
	cpu.PC = generalExceptionVector
	cpu.nextPC = cpu.PC + 4
}

func signExt16(v uint16) uint64 { return uint64(int64(int16(v))) }
func signExt32(v uint32) uint64 { return uint64(int64(int32(v))) }

func (cpu *CPU) execute(instr uint32, pc uint64) {
	op := instr >> 26
	rs := (instr >> 21) & 0x1F
	rt := (instr >> 16) & 0x1F
	rd := (instr >> 11) & 0x1F
	shamt := (instr >> 6) & 0x1F
	funct := instr & 0x3F
	imm := uint16(instr)
	target := instr & 0x03FFFFFF

	switch op {
	case 0x00: // SPECIAL
		cpu.execSpecial(funct, rs, rt, rd, shamt, pc)
	case 0x01: // REGIMM (BLTZ/BGEZ family)
		cond := int64(cpu.Reg[rs]) < 0
		switch rt {
		case 0x00: // BLTZ
			cpu.branchIf(cond, imm)
		case 0x01: // BGEZ
			cpu.branchIf(!cond, imm)
		case 0x10: // BLTZAL
			cpu.Reg[31] = pc + 8
			cpu.branchIf(cond, imm)
		case 0x11: // BGEZAL
			cpu.Reg[31] = pc + 8
			cpu.branchIf(!cond, imm)
		default:
			cpu.raise(excRI, pc)
		}
	case 0x02: // J
		cpu.nextPC = (cpu.PC & 0xFFFFFFFFF0000000) | uint64(target)<<2
	case 0x03: // JAL
		cpu.Reg[31] = pc + 8
		cpu.nextPC = (cpu.PC & 0xFFFFFFFFF0000000) | uint64(target)<<2
	case 0x04: // BEQ
		cpu.branchIf(cpu.Reg[rs] == cpu.Reg[rt], imm)
	case 0x05: // BNE
		cpu.branchIf(cpu.Reg[rs] != cpu.Reg[rt], imm)
	case 0x06: // BLEZ
		cpu.branchIf(int64(cpu.Reg[rs]) <= 0, imm)
	case 0x07: // BGTZ
		cpu.branchIf(int64(cpu.Reg[rs]) > 0, imm)
	case 0x08: // ADDI
		r := int32(cpu.Reg[rs]) + int32(int16(imm))
		cpu.Reg[rt] = signExt32(uint32(r))
	case 0x09: // ADDIU
		cpu.Reg[rt] = signExt32(uint32(int32(cpu.Reg[rs]) + int32(int16(imm))))
	case 0x0A: // SLTI
		cpu.Reg[rt] = boolToU64(int64(cpu.Reg[rs]) < int64(int16(imm)))
	case 0x0B: // SLTIU
		cpu.Reg[rt] = boolToU64(cpu.Reg[rs] < uint64(int64(int16(imm))))
	case 0x0C: // ANDI
		cpu.Reg[rt] = cpu.Reg[rs] & uint64(imm)
	case 0x0D: // ORI
		cpu.Reg[rt] = cpu.Reg[rs] | uint64(imm)
	case 0x0E: // XORI
		cpu.Reg[rt] = cpu.Reg[rs] ^ uint64(imm)
	case 0x0F: // LUI
		cpu.Reg[rt] = uint64(imm) << 16
	case 0x20: // LB
		cpu.Reg[rt] = uint64(int64(int8(cpu.mem.Read8(cpu.physical(cpu.Reg[rs] + signExt16(imm))))))
	case 0x21: // LH
		cpu.Reg[rt] = uint64(int64(int16(cpu.mem.Read16(cpu.physical(cpu.Reg[rs] + signExt16(imm))))))
	case 0x23: // LW
		cpu.Reg[rt] = signExt32(cpu.mem.Read32(cpu.physical(cpu.Reg[rs] + signExt16(imm))))
	case 0x24: // LBU
		cpu.Reg[rt] = uint64(cpu.mem.Read8(cpu.physical(cpu.Reg[rs] + signExt16(imm))))
	case 0x25: // LHU
		cpu.Reg[rt] = uint64(cpu.mem.Read16(cpu.physical(cpu.Reg[rs] + signExt16(imm))))
	case 0x28: // SB
		cpu.mem.Write8(cpu.physical(cpu.Reg[rs]+signExt16(imm)), uint8(cpu.Reg[rt]))
	case 0x29: // SH
		cpu.mem.Write16(cpu.physical(cpu.Reg[rs]+signExt16(imm)), uint16(cpu.Reg[rt]))
	case 0x2B: // SW
		cpu.mem.Write32(cpu.physical(cpu.Reg[rs]+signExt16(imm)), uint32(cpu.Reg[rt]))
	default:
		cpu.raise(excRI, pc)
	}
}

func (cpu *CPU) branchIf(cond bool, imm uint16) {
	if cond {
		cpu.nextPC = cpu.PC + signExt16(imm)<<2
	}
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (cpu *CPU) execSpecial(funct, rs, rt, rd, shamt uint32, pc uint64) {
	switch funct {
	case 0x00: // SLL
		cpu.Reg[rd] = signExt32(uint32(cpu.Reg[rt]) << shamt)
	case 0x02: // SRL
		cpu.Reg[rd] = signExt32(uint32(cpu.Reg[rt]) >> shamt)
	case 0x03: // SRA
		cpu.Reg[rd] = uint64(int64(int32(cpu.Reg[rt]) >> shamt))
	case 0x04: // SLLV
		cpu.Reg[rd] = signExt32(uint32(cpu.Reg[rt]) << (cpu.Reg[rs] & 0x1F))
	case 0x06: // SRLV
		cpu.Reg[rd] = signExt32(uint32(cpu.Reg[rt]) >> (cpu.Reg[rs] & 0x1F))
	case 0x07: // SRAV
		cpu.Reg[rd] = uint64(int64(int32(cpu.Reg[rt]) >> (cpu.Reg[rs] & 0x1F)))
	case 0x08: // JR
		cpu.nextPC = cpu.Reg[rs]
	case 0x09: // JALR
		cpu.Reg[rd] = pc + 8
		cpu.nextPC = cpu.Reg[rs]
	case 0x0C: // SYSCALL
		cpu.raise(excSys, pc)
	case 0x0D: // BREAK
		cpu.raise(excBp, pc)
	case 0x10: // MFHI
		cpu.Reg[rd] = cpu.HI
	case 0x11: // MTHI
		cpu.HI = cpu.Reg[rs]
	case 0x12: // MFLO
		cpu.Reg[rd] = cpu.LO
	case 0x13: // MTLO
		cpu.LO = cpu.Reg[rs]
	case 0x18: // MULT
		r := int64(int32(cpu.Reg[rs])) * int64(int32(cpu.Reg[rt]))
		cpu.LO = signExt32(uint32(r))
		cpu.HI = signExt32(uint32(r >> 32))
	case 0x19: // MULTU
		r := uint64(uint32(cpu.Reg[rs])) * uint64(uint32(cpu.Reg[rt]))
		cpu.LO = signExt32(uint32(r))
		cpu.HI = signExt32(uint32(r >> 32))
	case 0x1A: // DIV
		n, d := int32(cpu.Reg[rs]), int32(cpu.Reg[rt])
		if d != 0 {
			cpu.LO = signExt32(uint32(n / d))
			cpu.HI = signExt32(uint32(n % d))
		}
	case 0x1B: // DIVU
		n, d := uint32(cpu.Reg[rs]), uint32(cpu.Reg[rt])
		if d != 0 {
			cpu.LO = signExt32(n / d)
			cpu.HI = signExt32(n % d)
		}
	case 0x20: // ADD
		cpu.Reg[rd] = signExt32(uint32(int32(cpu.Reg[rs]) + int32(cpu.Reg[rt])))
	case 0x21: // ADDU
		cpu.Reg[rd] = signExt32(uint32(cpu.Reg[rs]) + uint32(cpu.Reg[rt]))
	case 0x22: // SUB
		cpu.Reg[rd] = signExt32(uint32(int32(cpu.Reg[rs]) - int32(cpu.Reg[rt])))
	case 0x23: // SUBU
		cpu.Reg[rd] = signExt32(uint32(cpu.Reg[rs]) - uint32(cpu.Reg[rt]))
	case 0x24: // AND
		cpu.Reg[rd] = cpu.Reg[rs] & cpu.Reg[rt]
	case 0x25: // OR
		cpu.Reg[rd] = cpu.Reg[rs] | cpu.Reg[rt]
	case 0x26: // XOR
		cpu.Reg[rd] = cpu.Reg[rs] ^ cpu.Reg[rt]
	case 0x27: // NOR
		cpu.Reg[rd] = ^(cpu.Reg[rs] | cpu.Reg[rt])
	case 0x2A: // SLT
		cpu.Reg[rd] = boolToU64(int64(cpu.Reg[rs]) < int64(cpu.Reg[rt]))
	case 0x2B: // SLTU
		cpu.Reg[rd] = boolToU64(cpu.Reg[rs] < cpu.Reg[rt])
	default:
		cpu.raise(excRI, pc)
	}
}

// State is the save-state shape for the integer register file, HI/LO,
// the program counter pair (PC plus the pending delay-slot nextPC, so
// a state saved mid-delay-slot restores faithfully) and the CP0
// subset this core models.
type State struct {
	Reg            [32]uint64
	HI, LO         uint64
	PC, NextPC     uint64
	Status, Cause  uint32
	EPC            uint64
	Cycles         uint64
}

func (cpu *CPU) GetState() State {
	return State{cpu.Reg, cpu.HI, cpu.LO, cpu.PC, cpu.nextPC, cpu.Status, cpu.Cause, cpu.EPC, cpu.cycles}
}

func (cpu *CPU) SetState(s State) {
	cpu.Reg = s.Reg
	cpu.HI, cpu.LO = s.HI, s.LO
	cpu.PC, cpu.nextPC = s.PC, s.NextPC
	cpu.Status, cpu.Cause, cpu.EPC = s.Status, s.Cause, s.EPC
	cpu.cycles = s.Cycles
}
