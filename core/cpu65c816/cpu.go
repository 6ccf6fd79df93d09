// Package cpu65c816 implements the WDC 65C816, the SNES's CPU: a
// 6502-compatible core extended with a 16-bit accumulator/index-
// register mode, a 24-bit address space reached through a data-bank
// and program-bank register, and a relocatable direct page. It is
// structured the same way core/cpu6502 is (explicit register struct,
// one Step per instruction, a Memory interface the bus implements)
// since the 65C816 is that same lineage's 16-bit successor; where the
// two diverge this core follows WDC's own 65C816 programming manual
// rather than porting 6502 behavior verbatim.
package cpu65c816

// Memory is the 65C816's bus contract: addresses are 24-bit
// (bank<<16 | offset), matching the chip's actual address bus width.
type Memory interface {
	Read(addr uint32) uint8
	Write(addr uint32, value uint8)
}

// Status register bits, valid in native mode. In emulation mode bit
// 0x10 is the (unused by this core) break flag rather than the
// X/short-index flag WDC's manual documents for native mode.
const (
	flagC = 0x01
	flagZ = 0x02
	flagI = 0x04
	flagD = 0x08
	flagX = 0x10 // native mode: 0 = 16-bit index registers
	flagM = 0x20 // native mode: 0 = 16-bit accumulator
	flagV = 0x40
	flagN = 0x80
)

type CPU struct {
	A, X, Y uint16
	D       uint16 // direct page register
	S       uint16 // stack pointer
	PC      uint16
	DBR     uint8 // data bank register
	PBR     uint8 // program bank register
	P       uint8 // status flags (see flag* constants)
	E       bool  // emulation mode (power-on default: true)

	mem Memory

	cycles uint64

	nmiPending bool
	irqLine    bool
}

func New(mem Memory) *CPU {
	cpu := &CPU{mem: mem}
	cpu.Reset()
	return cpu
}

// Reset matches WDC's documented power-on/reset state: emulation mode,
// 8-bit A/X/Y, direct page zero, stack page 1, PC loaded from the
// bank-0 reset vector at $FFFC (shared with the 6502's vector, since
// the 65C816 boots in 6502-compatible emulation mode).
func (cpu *CPU) Reset() {
	cpu.E = true
	cpu.P = flagM | flagX | flagI
	cpu.D = 0
	cpu.DBR = 0
	cpu.PBR = 0
	cpu.S = 0x01FD
	cpu.X &= 0x00FF
	cpu.Y &= 0x00FF
	lo := cpu.mem.Read(0x00FFFC)
	hi := cpu.mem.Read(0x00FFFD)
	cpu.PC = uint16(lo) | uint16(hi)<<8
}

func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

func (cpu *CPU) SetNMI(state bool) { cpu.nmiPending = state }
func (cpu *CPU) SetIRQ(state bool) { cpu.irqLine = state }

func (cpu *CPU) flag(mask uint8) bool { return cpu.P&mask != 0 }
func (cpu *CPU) setFlag(mask uint8, v bool) {
	if v {
		cpu.P |= mask
	} else {
		cpu.P &^= mask
	}
}

// wideA reports whether the accumulator is in 16-bit mode (native
// mode only; emulation mode always forces 8-bit A/X/Y regardless of P).
func (cpu *CPU) wideA() bool { return !cpu.E && cpu.P&flagM == 0 }
func (cpu *CPU) wideXY() bool { return !cpu.E && cpu.P&flagX == 0 }

func (cpu *CPU) read8(addr uint32) uint8   { return cpu.mem.Read(addr & 0xFFFFFF) }
func (cpu *CPU) write8(addr uint32, v uint8) { cpu.mem.Write(addr&0xFFFFFF, v) }

func (cpu *CPU) read16(addr uint32) uint16 {
	lo := cpu.read8(addr)
	hi := cpu.read8(addr + 1)
	return uint16(lo) | uint16(hi)<<8
}

func (cpu *CPU) write16(addr uint32, v uint16) {
	cpu.write8(addr, uint8(v))
	cpu.write8(addr+1, uint8(v>>8))
}

func (cpu *CPU) push8(v uint8) {
	cpu.write8(uint32(cpu.S), v)
	cpu.S--
	if cpu.E {
		cpu.S = 0x0100 | (cpu.S & 0xFF)
	}
}

func (cpu *CPU) pop8() uint8 {
	cpu.S++
	if cpu.E {
		cpu.S = 0x0100 | (cpu.S & 0xFF)
	}
	return cpu.read8(uint32(cpu.S))
}

func (cpu *CPU) push16(v uint16) {
	cpu.push8(uint8(v >> 8))
	cpu.push8(uint8(v))
}

func (cpu *CPU) pop16() uint16 {
	lo := cpu.pop8()
	hi := cpu.pop8()
	return uint16(lo) | uint16(hi)<<8
}

func (cpu *CPU) setZN8(v uint8) {
	cpu.setFlag(flagZ, v == 0)
	cpu.setFlag(flagN, v&0x80 != 0)
}

func (cpu *CPU) setZN16(v uint16) {
	cpu.setFlag(flagZ, v == 0)
	cpu.setFlag(flagN, v&0x8000 != 0)
}

// fetch8/fetch16 read from PC in the current program bank and advance it.
func (cpu *CPU) fetch8() uint8 {
	v := cpu.read8(uint32(cpu.PBR)<<16 | uint32(cpu.PC))
	cpu.PC++
	return v
}

func (cpu *CPU) fetch16() uint16 {
	lo := cpu.fetch8()
	hi := cpu.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

func (cpu *CPU) dpAddr(offset uint8) uint32 {
	return uint32(cpu.D+uint16(offset)) & 0xFFFF
}

// Step executes exactly one instruction and returns the CPU cycles it
// took (a fixed base cost per instruction rather than WDC's exact
// per-addressing-mode cycle table; spec's scanline/frame-granularity
// simplification extends to SNES CPU cycle accounting, since this
// system's PPU is explicitly reduced-fidelity already).
func (cpu *CPU) Step() uint64 {
	if cpu.nmiPending {
		cpu.nmiPending = false
		cpu.serviceInterrupt(0xFFEA, 0xFFFA)
		cpu.cycles += 8
		return 8
	}
	if cpu.irqLine && !cpu.flag(flagI) {
		cpu.serviceInterrupt(0xFFEE, 0xFFFE)
		cpu.cycles += 7
		return 7
	}

	op := cpu.fetch8()
	before := cpu.cycles
	cpu.execute(op)
	taken := cpu.cycles - before
	if taken == 0 {
		taken = 2
		cpu.cycles += 2
	}
	return taken
}

// serviceInterrupt pushes PC/P (and PBR in native mode) and vectors to
// the native or emulation-mode vector depending on E.
func (cpu *CPU) serviceInterrupt(nativeVector, emulationVector uint16) {
	if !cpu.E {
		cpu.push8(cpu.PBR)
	}
	cpu.push16(cpu.PC)
	cpu.push8(cpu.P)
	cpu.setFlag(flagI, true)
	cpu.setFlag(flagD, false)
	cpu.PBR = 0
	vector := emulationVector
	if !cpu.E {
		vector = nativeVector
	}
	cpu.PC = cpu.read16(uint32(vector))
}

type State struct {
	A, X, Y, D, S, PC uint16
	DBR, PBR, P       uint8
	E                 bool
	Cycles            uint64
}

func (cpu *CPU) GetState() State {
	return State{cpu.A, cpu.X, cpu.Y, cpu.D, cpu.S, cpu.PC, cpu.DBR, cpu.PBR, cpu.P, cpu.E, cpu.cycles}
}

func (cpu *CPU) SetState(s State) {
	cpu.A, cpu.X, cpu.Y, cpu.D, cpu.S, cpu.PC = s.A, s.X, s.Y, s.D, s.S, s.PC
	cpu.DBR, cpu.PBR, cpu.P, cpu.E, cpu.cycles = s.DBR, s.PBR, s.P, s.E, s.Cycles
}
