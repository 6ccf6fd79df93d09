// Package sms wires the Z80 CPU core, the SN76489 PSG and the
// mode-4 VDP into one System façade, grounded on the reference Rust
// SMS system's cycle-budget and scanline-stepping loop
// (crates/systems/sms/src/system.rs in original_source).
package sms

import (
	"bytes"
	"encoding/gob"

	"github.com/hemu/hemucore/core/cpuz80"
	"github.com/hemu/hemucore/core/psg"
	"github.com/hemu/hemucore/emu"
)

const (
	width, height  = 256, 192
	cyclesPerFrame = cyclesPerScanline * scanlinesPerFrame // 59736, NTSC
)

type System struct {
	cpu *cpuz80.CPU
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
	s.cpu = cpuz80.New(b)
}

func (s *System) Reset() {
	if s.bus.cart != nil {
		s.newMachine(s.bus.cart)
	}
	s.cpu.Reset()
	s.bus.controllers[0].reset()
	s.bus.controllers[1].reset()
}

// StepFrame advances the CPU one instruction boundary at a time for
// one NTSC frame's worth of cycles, clocking the VDP and PSG in
// lockstep and asserting the Z80's maskable interrupt line whenever
// the VDP has a pending frame or line interrupt (spec §4.6, §9).
func (s *System) StepFrame() *emu.Framebuffer {
	if !s.mounted {
		return s.fb
	}

	var ran uint64
	for ran < cyclesPerFrame {
		taken := s.cpu.Step()

		s.bus.vdp.Step(taken)
		for i := uint64(0); i < taken; i++ {
			if sample, produced := s.bus.psg.Clock(); produced {
				s.samples = append(s.samples, sample)
			}
		}
		s.cpu.IRQ(s.bus.vdp.TakeIRQ())

		ran += taken
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			s.fb.Set(x, y, s.bus.vdp.frame[y*width+x])
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
		{ID: "cartridge", DisplayName: "Cartridge", Extensions: []string{".sms"}, Required: true},
	}
}

func (s *System) SetController(index int, state uint32) {
	if index < 0 || index > 1 {
		return
	}
	s.bus.controllers[index].setButtons(state)
}

type state struct {
	Version int
	CPU     cpuz80.State
	VDP     vdpState
	PSG     psg.State
	Cart    cartridgeState
	Bus     busState
}

func (s *System) SaveState() (emu.SaveState, error) {
	st := state{
		Version: 1,
		CPU:     s.cpu.GetState(),
		VDP:     s.bus.vdp.getState(),
		PSG:     s.bus.psg.GetState(),
		Cart:    s.bus.cart.getState(),
		Bus:     s.bus.getState(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return emu.SaveState{}, &emu.StructuralError{Check: "save-state-encode", Err: err}
	}
	return emu.SaveState{System: "sms", Version: 1, Payload: buf.Bytes()}, nil
}

func (s *System) LoadState(payload emu.SaveState) error {
	if payload.System != "sms" {
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
	s.bus.vdp.setState(st.VDP)
	s.bus.psg.SetState(st.PSG)
	s.bus.cart.setState(st.Cart)
	s.bus.setState(st.Bus)
	s.mounted = true
	return nil
}

var _ emu.Driver = (*System)(nil)
