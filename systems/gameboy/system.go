// Package gameboy wires the Sharp LR35902 CPU core, the 4-channel
// APU composite, the DMG LCD controller and the MBC0/1/2/3/5 mapper
// family into one System façade (spec §6), generalizing the Game Boy
// gap spec.md's CPU roster left open (SPEC_FULL §2 "GB CPU core").
package gameboy

import (
	"bytes"
	"encoding/gob"

	"github.com/hemu/hemucore/core/apugb"
	"github.com/hemu/hemucore/core/cpulr35902"
	"github.com/hemu/hemucore/emu"
)

const (
	width, height  = 160, 144
	cyclesPerFrame = 70224 // 4.194304MHz / 59.73Hz
)

type System struct {
	cpu *cpulr35902.CPU
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
	s.cpu = cpulr35902.New(b)
}

func (s *System) Reset() {
	if s.bus.cart != nil {
		s.newMachine(s.bus.cart)
	}
	s.cpu.Reset()
	s.bus.pad.reset()
}

// StepFrame advances the CPU instruction-by-instruction for one
// 70224-cycle video frame, clocking the PPU, APU and timer in
// lockstep and servicing interrupts at each instruction boundary
// (spec §4.6, §9).
func (s *System) StepFrame() *emu.Framebuffer {
	if !s.mounted {
		return s.fb
	}

	var ran uint64
	for ran < cyclesPerFrame {
		s.bus.pullInterrupts()
		s.cpu.SetInterruptLines(s.bus.ie, s.bus.ifReg)
		taken := s.cpu.Step()
		s.bus.ifReg = s.cpu.IFValue()

		for i := uint64(0); i < taken; i++ {
			s.bus.ppu.Step()
		}
		if s.bus.timer.step(taken) {
			s.bus.raiseTimerIRQ()
		}
		for i := uint64(0); i < taken; i++ {
			if sample, produced := s.bus.apu.Clock(); produced {
				s.samples = append(s.samples, sample)
			}
		}

		ran += taken
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.fb.Set(x, y, s.bus.ppu.frame[y*width+x])
		}
	}
	return s.fb
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
		{ID: "cartridge", DisplayName: "Cartridge", Extensions: []string{".gb", ".gbc"}, Required: true},
	}
}

func (s *System) SetController(index int, state uint32) {
	if index != 0 {
		return
	}
	s.bus.pad.setButtons(state)
}

type state struct {
	Version int
	CPU     cpulr35902.State
	PPU     ppuState
	APU     apugb.State
	Cart    cartridgeState
	Bus     busState
}

func (s *System) SaveState() (emu.SaveState, error) {
	st := state{
		Version: 1,
		CPU:     s.cpu.GetState(),
		PPU:     s.bus.ppu.getState(),
		APU:     s.bus.apu.GetState(),
		Cart:    s.bus.cart.getState(),
		Bus:     s.bus.getState(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return emu.SaveState{}, &emu.StructuralError{Check: "save-state-encode", Err: err}
	}
	return emu.SaveState{System: "gameboy", Version: 1, Payload: buf.Bytes()}, nil
}

func (s *System) LoadState(payload emu.SaveState) error {
	if payload.System != "gameboy" {
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
	s.bus.ppu.setState(st.PPU)
	s.bus.apu.SetState(st.APU)
	s.bus.cart.setState(st.Cart)
	s.bus.setState(st.Bus)
	s.mounted = true
	return nil
}

var _ emu.Driver = (*System)(nil)
