package cpu8086

// State is the gob-serializable snapshot of the 8086 register file,
// mirroring the cpu6502.State / cpuz80.State pattern.
type State struct {
	AX, BX, CX, DX uint16
	SI, DI, BP, SP uint16
	CS, DS, ES, SS uint16
	IP             uint16
	Flags          uint16
	Model          Model
	Cycles         uint64
	Halted         bool
}

func (cpu *CPU) GetState() State {
	return State{
		AX: cpu.AX, BX: cpu.BX, CX: cpu.CX, DX: cpu.DX,
		SI: cpu.SI, DI: cpu.DI, BP: cpu.BP, SP: cpu.SP,
		CS: cpu.CS, DS: cpu.DS, ES: cpu.ES, SS: cpu.SS,
		IP: cpu.IP, Flags: cpu.Flags, Model: cpu.Model,
		Cycles: cpu.cycles, Halted: cpu.halted,
	}
}

func (cpu *CPU) SetState(s State) {
	cpu.AX, cpu.BX, cpu.CX, cpu.DX = s.AX, s.BX, s.CX, s.DX
	cpu.SI, cpu.DI, cpu.BP, cpu.SP = s.SI, s.DI, s.BP, s.SP
	cpu.CS, cpu.DS, cpu.ES, cpu.SS = s.CS, s.DS, s.ES, s.SS
	cpu.IP, cpu.Flags, cpu.Model = s.IP, s.Flags, s.Model
	cpu.cycles, cpu.halted = s.Cycles, s.Halted
}
