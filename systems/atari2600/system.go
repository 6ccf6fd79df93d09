// Package atari2600 wires the shared 6502 core (as the 6507 variant),
// the TIA video/audio chip and the 6532 RIOT into one System façade,
// following the same StepFrame/Mount/SaveState shape every other
// system in this module uses (spec §6).
package atari2600

import (
	"bytes"
	"encoding/gob"

	"github.com/hemu/hemucore/core/cpu6502"
	"github.com/hemu/hemucore/emu"
)

const (
	width, height = visibleWidth, visibleLines
	// NTSC: 262 scanlines/frame * 76 CPU cycles/scanline (228 color
	// clocks at 3 color clocks per CPU cycle).
	cyclesPerFrame = linesPerFrame * (colorClocksPerLine / 3)
)

type System struct {
	cpu *cpu6502.CPU6502
	bus *bus

	fb      *emu.Framebuffer
	samples []int16

	mounted bool
}

func New() *System {
	s := &System{fb: emu.NewFramebuffer(width, height)}
	s.newMachine(nil)
	return s
}

func (s *System) newMachine(cart *Cartridge) {
	b := newBus(cart)
	s.bus = b
	s.cpu = cpu6502.New(b)
	s.cpu.DecimalEnabled = true // 6507: decimal mode functional, unlike the NES's 2A03
}

func (s *System) Reset() {
	if s.bus.cart != nil {
		s.newMachine(s.bus.cart)
	}
	s.cpu.Reset()
	s.bus.pad0.reset()
	s.bus.pad1.reset()
}

// StepFrame advances the CPU one instruction at a time for one NTSC
// frame's worth of cycles. A WSYNC write halts the 6507 until the
// next scanline boundary; since this core only reports cycle counts
// at instruction granularity, StepFrame honors WSYNC by burning the
// remaining cycles of the current scanline immediately after the
// instruction that wrote it retires (spec's instruction-boundary
// interrupt-sampling ordering applies the same way here).
func (s *System) StepFrame() *emu.Framebuffer {
	if !s.mounted {
		return s.fb
	}

	var ran uint64
	for ran < cyclesPerFrame {
		taken := s.cpu.Step()
		s.bus.tia.Step(taken)
		s.clockAudio(taken)
		ran += taken

		if s.bus.tia.wsync {
			s.bus.tia.wsync = false
			extra := s.bus.tia.ConsumeToLineEnd()
			if extra > 0 {
				s.bus.tia.Step(extra)
				s.clockAudio(extra)
				ran += extra
			}
		}

		s.bus.timer.step(taken)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.fb.Set(x, y, s.bus.tia.frame[y*width+x])
		}
	}
	return s.fb
}

func (s *System) clockAudio(cycles uint64) {
	for i := uint64(0); i < cycles; i++ {
		s.samples = append(s.samples, s.bus.tia.Clock())
	}
}

// AudioSamples returns and clears the 16-bit PCM samples generated by
// the most recent StepFrame call.
func (s *System) AudioSamples() []int16 {
	out := s.samples
	s.samples = nil
	return out
}

func (s *System) Mount(slot string, data []byte) error {
	if slot != "cartridge" {
		return &emu.MountError{Slot: slot, Op: "mount"}
	}
	cart, err := NewCartridge(data)
	if err != nil {
		return err
	}
	s.newMachine(cart)
	s.mounted = true
	s.cpu.Reset()
	return nil
}

func (s *System) Unmount(slot string) error {
	if slot != "cartridge" {
		return &emu.MountError{Slot: slot, Op: "unmount"}
	}
	if !s.mounted {
		return &emu.MountError{Slot: slot, Op: "unmount"}
	}
	s.mounted = false
	s.newMachine(nil)
	return nil
}

func (s *System) MountPoints() []emu.MountPoint {
	return []emu.MountPoint{
		{ID: "cartridge", DisplayName: "Cartridge", Extensions: []string{".a26", ".bin"}, Required: true},
	}
}

func (s *System) SetController(index int, state uint32) {
	switch index {
	case 0:
		s.bus.pad0.set(state)
	case 1:
		s.bus.pad1.set(state)
	}
}

type state struct {
	Version int
	CPU     cpu6502.State
	TIA     tiaState
	Cart    cartridgeState
	Bus     busState
}

func (s *System) SaveState() (emu.SaveState, error) {
	st := state{
		Version: 1,
		CPU:     s.cpu.GetState(),
		TIA:     s.bus.tia.getState(),
		Cart:    s.bus.cart.getState(),
		Bus:     s.bus.getState(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return emu.SaveState{}, &emu.StructuralError{Check: "save-state-encode", Err: err}
	}
	return emu.SaveState{System: "atari2600", Version: 1, Payload: buf.Bytes()}, nil
}

func (s *System) LoadState(payload emu.SaveState) error {
	if payload.System != "atari2600" {
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
	s.bus.tia.setState(st.TIA)
	s.bus.cart.setState(st.Cart)
	s.bus.setState(st.Bus)
	s.mounted = true
	return nil
}

var _ emu.Driver = (*System)(nil)
