package nes

import "github.com/hemu/hemucore/core/apu2a03"

// APU is the NES system's thin binding of the reusable core/apu2a03
// channel composite to this system's CPU memory space: it supplies
// the DMC's sample-fetch memory reader and accumulates samples for
// the duration of one StepFrame call.
type APU struct {
	core    *apu2a03.APU
	samples []int16
}

func newAPU(mem apu2a03.MemoryReader) *APU {
	return &APU{core: apu2a03.New(mem)}
}

func (a *APU) reset() { a.core.Reset(); a.samples = a.samples[:0] }

// clock advances the composite by one CPU cycle, buffering any sample
// produced.
func (a *APU) clock() {
	if s, ok := a.core.Clock(); ok {
		a.samples = append(a.samples, s)
	}
}

// takeSamples drains and returns the buffered samples for the frame
// just completed.
func (a *APU) takeSamples() []int16 {
	s := a.samples
	a.samples = nil
	return s
}

func (a *APU) readStatus() uint8                    { return a.core.ReadStatus() }
func (a *APU) writeRegister(addr uint16, v uint8)    { a.core.WriteRegister(addr, v) }
func (a *APU) irqPending() bool                      { return a.core.FrameIRQ() || a.core.DMCIRQ() }

func (a *APU) getState() apu2a03.State { return a.core.GetState() }
func (a *APU) setState(s apu2a03.State) { a.core.SetState(s) }
