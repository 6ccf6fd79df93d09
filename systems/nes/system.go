// Package nes wires the 6502 CPU core, the 2A03 APU composite, the
// NES PPU, and the cartridge/mapper family into one System façade, the
// only public surface a frontend binds to (spec §6).
package nes

import (
	"bytes"
	"encoding/gob"

	"github.com/hemu/hemucore/core/apu2a03"
	"github.com/hemu/hemucore/core/cpu6502"
	"github.com/hemu/hemucore/emu"
)

const (
	width, height  = 256, 240
	cyclesPerFrame = 29781 // NTSC: CPU cycles per video frame
)

// System is the NES Driver. It owns every piece of hardware state;
// the CPU, PPU and mapper reach each other only through the bus it
// constructs, matching spec §5/§9's single-owner-plus-borrow model.
type System struct {
	cpu *cpu6502.CPU6502
	bus *bus

	fb *emu.Framebuffer

	mounted bool
}

// New constructs a System with no ROM loaded; stepping a frame before
// Mount produces the reset-state (black) framebuffer.
func New() *System {
	s := &System{fb: emu.NewFramebuffer(width, height)}
	s.newMachine(nil)
	return s
}

func (s *System) newMachine(cart *Cartridge) {
	b := newBus(cart)
	s.bus = b
	s.cpu = cpu6502.New(b)
	b.dmaCallback = s.performOAMDMA
	s.cpu.DecimalEnabled = false // RP2A03: BCD wired off in silicon
}

func (s *System) performOAMDMA(page uint8) {
	s.bus.performOAMDMA(page)
	// 513/514-cycle stall (spec §4.5): on an odd CPU cycle the
	// transfer takes one cycle longer to align to a read cycle. Only the
	// APU is clocked through the stall; the CPU's cycle counter does not
	// advance, so StepFrame's frame budget does not include it.
	stall := uint64(513)
	if s.cpu.Cycles()%2 != 0 {
		stall = 514
	}
	for i := uint64(0); i < stall; i++ {
		s.bus.apu.clock()
	}
}

func (s *System) Reset() {
	if s.bus.cart != nil {
		s.newMachine(s.bus.cart)
	}
	s.cpu.Reset()
	s.bus.ppu.reset()
	s.bus.apu.reset()
	s.bus.controllers[0].reset()
	s.bus.controllers[1].reset()
}

// StepFrame advances the CPU for one NTSC frame's worth of cycles,
// clocking the APU in lockstep and delivering mapper/frame-counter
// IRQs at instruction boundaries, then renders the completed PPU
// frame and delivers its NMI (if any) for the CPU to consume at the
// next instruction boundary (spec §4.6, §9).
func (s *System) StepFrame() *emu.Framebuffer {
	if !s.mounted {
		return s.fb
	}

	var ran uint64
	for ran < cyclesPerFrame {
		before := s.cpu.Cycles()
		s.cpu.Step()
		taken := s.cpu.Cycles() - before

		for i := uint64(0); i < taken; i++ {
			s.bus.apu.clock()
		}

		s.cpu.SetIRQ(s.bus.cart.TakeIRQPending() || s.bus.apu.irqPending())

		ran += taken
	}

	if s.bus.ppu.stepFrame() {
		s.cpu.SetNMI(true)
		s.cpu.SetNMI(false)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.fb.Set(x, y, s.bus.ppu.frame[y*width+x])
		}
	}
	return s.fb
}

// AudioSamples returns and clears the 16-bit PCM samples generated by
// the most recent StepFrame call, at the APU's configured sample rate
// (default 44.1kHz).
func (s *System) AudioSamples() []int16 {
	return s.bus.apu.takeSamples()
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
		{ID: "cartridge", DisplayName: "Cartridge", Extensions: []string{".nes"}, Required: true},
	}
}

func (s *System) SetController(index int, state uint32) {
	if index < 0 || index > 1 {
		return
	}
	s.bus.controllers[index].setButtons(state)
}

// state is the versioned, gob-serializable snapshot of the whole
// machine: CPU, PPU, APU, cartridge/mapper and bus RAM.
type state struct {
	Version int
	CPU     cpu6502.State
	PPU     ppuState
	APU     apu2a03.State
	Cart    cartridgeState
	Bus     busState
}

func (s *System) SaveState() (emu.SaveState, error) {
	st := state{
		Version: 1,
		CPU:     s.cpu.GetState(),
		PPU:     s.bus.ppu.getState(),
		APU:     s.bus.apu.getState(),
		Cart:    s.bus.cart.getState(),
		Bus:     s.bus.getState(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return emu.SaveState{}, &emu.StructuralError{Check: "save-state-encode", Err: err}
	}
	return emu.SaveState{System: "nes", Version: 1, Payload: buf.Bytes()}, nil
}

func (s *System) LoadState(payload emu.SaveState) error {
	if payload.System != "nes" {
		return &emu.StructuralError{Check: "save-state-system-mismatch"}
	}
	if payload.Version != 1 {
		return &emu.StructuralError{Check: "save-state-version"}
	}
	var st state
	if err := gob.NewDecoder(bytes.NewReader(payload.Payload)).Decode(&st); err != nil {
		return &emu.StructuralError{Check: "save-state-decode", Err: err}
	}

	// Decode into a scratch copy above; only now do we mutate the live
	// machine, so a malformed payload never partially applies (§5, §7).
	s.cpu.SetState(st.CPU)
	s.bus.ppu.setState(st.PPU)
	s.bus.apu.setState(st.APU)
	s.bus.cart.setState(st.Cart)
	s.bus.setState(st.Bus)
	s.mounted = true
	return nil
}

var _ emu.Driver = (*System)(nil)
