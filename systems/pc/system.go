// Package pc implements a reduced-fidelity IBM PC/XT core: a real-mode
// 8086 running against a minimal BIOS and a CGA text-mode display.
// Floppy/hard-disk controllers, port-mapped I/O and protected-mode
// (80286/80386/80486) features are not wired up; this system targets
// the documented real-mode COM-program boot path (spec §1, §4.1.4).
package pc

import (
	"bytes"
	"encoding/gob"

	"github.com/hemu/hemucore/core/cpu8086"
	"github.com/hemu/hemucore/emu"
)

const (
	width, height = fbWidth, fbHeight

	cyclesPerFrame = 500_000
)

type System struct {
	cpu *cpu8086.CPU
	bus *bus

	fb *emu.Framebuffer

	mounted bool
}

func New() *System {
	s := &System{fb: emu.NewFramebuffer(width, height)}
	s.bus = newBus()
	s.cpu = cpu8086.New(s.bus)
	s.cpu.Model = cpu8086.Model8086
	return s
}

func (s *System) Reset() {
	s.cpu.Reset()
	s.bus.ctrl.reset()
}

func (s *System) StepFrame() *emu.Framebuffer {
	if !s.mounted {
		return s.fb
	}
	budget := uint64(cyclesPerFrame)
	for budget > 0 {
		taken := s.cpu.Step()
		if taken >= budget {
			break
		}
		budget -= taken
	}
	renderText(s.bus.vram(), s.fb.Pix)
	return s.fb
}

func (s *System) Mount(slot string, data []byte) error {
	if slot != "program" {
		return &emu.MountError{Slot: slot, Op: "mount"}
	}
	if len(data) == 0 {
		return &emu.StructuralError{Check: "pc-program-empty"}
	}
	s.bus.loadProgram(data)
	s.mounted = true
	s.cpu.Reset()
	return nil
}

func (s *System) Unmount(slot string) error {
	if slot != "program" {
		return &emu.MountError{Slot: slot, Op: "unmount"}
	}
	if !s.mounted {
		return &emu.MountError{Slot: slot, Op: "unmount"}
	}
	s.mounted = false
	s.bus = newBus()
	s.cpu = cpu8086.New(s.bus)
	s.cpu.Model = cpu8086.Model8086
	return nil
}

func (s *System) MountPoints() []emu.MountPoint {
	return []emu.MountPoint{
		{ID: "program", DisplayName: "Program", Extensions: []string{".com", ".bin"}, Required: true},
	}
}

func (s *System) SetController(index int, state uint32) {
	if index != 0 {
		return
	}
	s.bus.ctrl.setState(state)
}

type state struct {
	Version int
	CPU     cpu8086.State
	Bus     busState
}

func (s *System) SaveState() (emu.SaveState, error) {
	st := state{Version: 1, CPU: s.cpu.GetState(), Bus: s.bus.getState()}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return emu.SaveState{}, &emu.StructuralError{Check: "save-state-encode", Err: err}
	}
	return emu.SaveState{System: "pc", Version: 1, Payload: buf.Bytes()}, nil
}

func (s *System) LoadState(payload emu.SaveState) error {
	if payload.System != "pc" {
		return &emu.StructuralError{Check: "save-state-system-mismatch"}
	}
	if payload.Version != 1 {
		return &emu.StructuralError{Check: "save-state-version"}
	}
	var st state
	if err := gob.NewDecoder(bytes.NewReader(payload.Payload)).Decode(&st); err != nil {
		return &emu.StructuralError{Check: "save-state-decode", Err: err}
	}
	s.cpu.SetState(st.CPU)
	s.bus.setState(st.Bus)
	s.mounted = true
	return nil
}

var _ emu.Driver = (*System)(nil)
