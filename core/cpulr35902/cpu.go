// Package cpulr35902 implements the Sharp LR35902, the Game Boy's CPU:
// an 8080/Z80 hybrid with no shadow register file and no IX/IY index
// registers, structured the same way core/cpuz80 is (core/cpuz80's
// decode-plane shape, generalized down to the Game Boy's narrower
// instruction set).
package cpulr35902

// Memory is the narrow capability the core needs from its host bus:
// the Game Boy has no separate I/O address space, every peripheral is
// memory-mapped.
type Memory interface {
	Read(addr uint16) uint8
	Write(addr uint16, value uint8)
}

// Registers holds the 8-bit register pairs and the two 16-bit
// pointers; flag bits use the Game Boy's layout (Z=0x80 N=0x40 H=0x20
// C=0x10, low nibble always zero).
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16
}

const (
	flagC = 0x10
	flagH = 0x20
	flagN = 0x40
	flagZ = 0x80
)

// CPU is an LR35902 interpreter covering the documented instruction
// set, the CB-prefixed bit-ops plane, and the Game Boy's single
// maskable interrupt line gated by the IME flag plus per-bit IE/IF
// registers (owned by the host bus, per real hardware).
type CPU struct {
	Registers
	mem Memory

	cycles uint64
	halted bool
	stopped bool

	ime        bool
	imePending bool

	// IF/IE are exposed through SetInterruptLines rather than polled,
	// since the Game Boy's interrupt controller is memory-mapped
	// registers the bus owns, not CPU-internal state.
	ifReg, ieReg uint8
}

func New(mem Memory) *CPU {
	return &CPU{mem: mem}
}

// Reset matches post-BIOS Game Boy register values for a DMG booting
// a cartridge with a valid header checksum.
func (c *CPU) Reset() {
	c.Registers = Registers{A: 0x01, F: 0xB0, B: 0x00, C: 0x13, D: 0x00, E: 0xD8, H: 0x01, L: 0x4D, SP: 0xFFFE, PC: 0x0100}
	c.cycles = 0
	c.halted = false
	c.stopped = false
	c.ime = false
	c.imePending = false
}

func (c *CPU) Cycles() uint64 { return c.cycles }

// SetInterruptLines lets the host bus push the current IE/IF register
// values ahead of each Step, since both live in memory the CPU itself
// doesn't own.
func (c *CPU) SetInterruptLines(ie, iflags uint8) {
	c.ieReg = ie
	c.ifReg = iflags
}

// PendingInterrupt reports which bit (0-4, priority low-to-high per
// hardware: VBlank, LCD STAT, Timer, Serial, Joypad) the CPU would
// service next, or -1 if none is both enabled and flagged.
func (c *CPU) PendingInterrupt() int {
	pending := c.ieReg & c.ifReg & 0x1F
	if pending == 0 {
		return -1
	}
	for i := 0; i < 5; i++ {
		if pending&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// interruptVector returns the vector address for IF/IE bit i; Step
// clears the serviced bit in its own IF copy (read back via IFValue).
func interruptVector(bit int) uint16 {
	return [5]uint16{0x40, 0x48, 0x50, 0x58, 0x60}[bit]
}

func (c *CPU) fetch() uint8 {
	b := c.mem.Read(c.PC)
	c.PC++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := uint16(c.fetch())
	hi := uint16(c.fetch())
	return hi<<8 | lo
}

func (c *CPU) push(v uint16) {
	c.SP -= 2
	c.mem.Write(c.SP, uint8(v))
	c.mem.Write(c.SP+1, uint8(v>>8))
}

func (c *CPU) pop() uint16 {
	lo := uint16(c.mem.Read(c.SP))
	hi := uint16(c.mem.Read(c.SP + 1))
	c.SP += 2
	return lo | hi<<8
}

// Step services any pending interrupt (waking the CPU from HALT even
// when IME is clear, per documented hardware behavior), applies a
// delayed EI enable, and executes one instruction.
func (c *CPU) Step() uint64 {
	before := c.cycles

	if bit := c.PendingInterrupt(); bit >= 0 {
		c.halted = false
		if c.ime {
			c.ime = false
			c.ifReg &^= 1 << uint(bit)
			c.push(c.PC)
			c.PC = interruptVector(bit)
			c.cycles += 20
			return c.cycles - before
		}
	}

	if c.halted {
		c.cycles += 4
		return c.cycles - before
	}

	enableAfter := c.imePending
	c.imePending = false

	op := c.fetch()
	c.execute(op)

	if enableAfter {
		c.ime = true
	}
	return c.cycles - before
}

// IFValue lets the host bus read back the CPU's mirrored IF changes
// after a serviced interrupt.
func (c *CPU) IFValue() uint8 { return c.ifReg }

func (c *CPU) setSZ(v uint8) {
	c.setFlag(flagZ, v == 0)
}

func (c *CPU) setFlag(mask uint8, set bool) {
	if set {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}
