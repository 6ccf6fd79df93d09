package cpulr35902

type State struct {
	Registers
	Cycles     uint64
	Halted     bool
	Stopped    bool
	IME        bool
	IMEPending bool
	IF, IE     uint8
}

func (c *CPU) GetState() State {
	return State{
		Registers:  c.Registers,
		Cycles:     c.cycles,
		Halted:     c.halted,
		Stopped:    c.stopped,
		IME:        c.ime,
		IMEPending: c.imePending,
		IF:         c.ifReg,
		IE:         c.ieReg,
	}
}

func (c *CPU) SetState(s State) {
	c.Registers = s.Registers
	c.cycles = s.Cycles
	c.halted = s.Halted
	c.stopped = s.Stopped
	c.ime = s.IME
	c.imePending = s.IMEPending
	c.ifReg = s.IF
	c.ieReg = s.IE
}
