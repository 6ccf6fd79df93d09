package cpuz80

// State is the gob-serializable snapshot of the Z80 register file and
// interrupt latches, mirroring the cpu6502.State pattern.
type State struct {
	Registers
	Cycles     uint64
	Halted     bool
	NMIPending bool
	IRQLine    bool
	IRQData    uint8
}

func (c *CPU) GetState() State {
	return State{
		Registers:  c.Registers,
		Cycles:     c.cycles,
		Halted:     c.halted,
		NMIPending: c.nmiPending,
		IRQLine:    c.irqLine,
		IRQData:    c.irqData,
	}
}

func (c *CPU) SetState(s State) {
	c.Registers = s.Registers
	c.cycles = s.Cycles
	c.halted = s.Halted
	c.nmiPending = s.NMIPending
	c.irqLine = s.IRQLine
	c.irqData = s.IRQData
}
