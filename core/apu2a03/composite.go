package apu2a03

// APU is the 2A03's audio composite: two pulses, a triangle, a noise
// channel, a DMC and the frame counter that drives their envelope,
// sweep and length units on fixed CPU-cycle boundaries.
type APU struct {
	Pulse1   *Pulse
	Pulse2   *Pulse
	Triangle *Triangle
	Noise    *Noise
	DMC      *DMC
	Frame    FrameCounter

	mem MemoryReader

	sampleAcc  float64
	cpuHz      float64
	sampleRate float64
}

// New constructs an APU. mem is used only to service DMC sample
// fetches; it must be the same bus the CPU and PPU share.
func New(mem MemoryReader) *APU {
	return &APU{
		Pulse1:     NewPulse(true),
		Pulse2:     NewPulse(false),
		Triangle:   &Triangle{},
		Noise:      NewNoise(),
		DMC:        NewDMC(),
		mem:        mem,
		cpuHz:      1789773.0,
		sampleRate: 44100.0,
	}
}

func (a *APU) Reset() {
	*a = *New(a.mem)
}

// Clock advances the APU by one CPU cycle. It returns true if a
// sample was produced this cycle (the caller accumulates these into
// its own output buffer).
func (a *APU) Clock() (sample int16, produced bool) {
	tick := a.Frame.Clock()
	if tick.Quarter {
		a.Pulse1.ClockEnvelope()
		a.Pulse2.ClockEnvelope()
		a.Noise.ClockEnvelope()
		a.Triangle.ClockLinear()
	}
	if tick.Half {
		a.Pulse1.ClockLength()
		a.Pulse1.ClockSweep()
		a.Pulse2.ClockLength()
		a.Pulse2.ClockSweep()
		a.Triangle.ClockLength()
		a.Noise.ClockLength()
	}

	a.Pulse1.Clock()
	a.Pulse2.Clock()
	a.Triangle.Clock()
	a.Noise.Clock()
	a.DMC.Clock()
	if a.DMC.FetchRequest && a.mem != nil {
		a.DMC.Feed(a.mem.Read(a.DMC.FetchAddress()))
	}

	a.sampleAcc += a.sampleRate / a.cpuHz
	if a.sampleAcc >= 1.0 {
		a.sampleAcc -= 1.0
		return a.mix(), true
	}
	return 0, false
}

// mix applies the NES's nonlinear mixer (spec §9 open question:
// adopt the documented nonlinear mix rather than linear averaging).
func (a *APU) mix() int16 {
	p1 := float64(a.Pulse1.Output())
	p2 := float64(a.Pulse2.Output())
	tr := float64(a.Triangle.Output())
	no := float64(a.Noise.Output())
	dm := float64(a.DMC.Output())

	var pulseOut float64
	if p1+p2 != 0 {
		pulseOut = 95.88 / (8128.0/(p1+p2) + 100.0)
	}
	var tndOut float64
	tnd := tr/8227.0 + no/12241.0 + dm/22638.0
	if tnd != 0 {
		tndOut = 159.79 / (1.0/tnd + 100.0)
	}
	return int16((pulseOut + tndOut) * 32767.0)
}

// SetSampleRate retargets sample generation (default 44.1kHz).
func (a *APU) SetSampleRate(rate int) {
	a.sampleRate = float64(rate)
	a.sampleAcc = 0
}

// ReadStatus services $4015 reads: length-counter-nonzero bits plus
// the frame and DMC IRQ flags, clearing the frame IRQ flag as a side
// effect (documented hardware behavior).
func (a *APU) ReadStatus() uint8 {
	var s uint8
	if a.Pulse1.Length.Value > 0 {
		s |= 0x01
	}
	if a.Pulse2.Length.Value > 0 {
		s |= 0x02
	}
	if a.Triangle.Length.Value > 0 {
		s |= 0x04
	}
	if a.Noise.Length.Value > 0 {
		s |= 0x08
	}
	if a.DMC.BytesRemaining() > 0 {
		s |= 0x10
	}
	if a.Frame.IRQFlag {
		s |= 0x40
	}
	if a.DMC.IRQFlag {
		s |= 0x80
	}
	a.Frame.IRQFlag = false
	return s
}

// WriteRegister dispatches a CPU write into $4000-$4013/$4015/$4017.
func (a *APU) WriteRegister(addr uint16, v uint8) {
	switch addr {
	case 0x4000:
		a.Pulse1.WriteControl(v)
	case 0x4001:
		a.Pulse1.WriteSweep(v)
	case 0x4002:
		a.Pulse1.WriteTimerLow(v)
	case 0x4003:
		a.Pulse1.WriteTimerHigh(v)
	case 0x4004:
		a.Pulse2.WriteControl(v)
	case 0x4005:
		a.Pulse2.WriteSweep(v)
	case 0x4006:
		a.Pulse2.WriteTimerLow(v)
	case 0x4007:
		a.Pulse2.WriteTimerHigh(v)
	case 0x4008:
		a.Triangle.WriteControl(v)
	case 0x400A:
		a.Triangle.WriteTimerLow(v)
	case 0x400B:
		a.Triangle.WriteTimerHigh(v)
	case 0x400C:
		a.Noise.WriteControl(v)
	case 0x400E:
		a.Noise.WritePeriod(v)
	case 0x400F:
		a.Noise.WriteLength(v)
	case 0x4010:
		a.DMC.WriteControl(v)
	case 0x4011:
		a.DMC.WriteDirectLoad(v)
	case 0x4012:
		a.DMC.WriteSampleAddress(v)
	case 0x4013:
		a.DMC.WriteSampleLength(v)
	case 0x4015:
		a.Pulse1.Length.SetEnable(v&0x01 != 0)
		a.Pulse2.Length.SetEnable(v&0x02 != 0)
		a.Triangle.Length.SetEnable(v&0x04 != 0)
		a.Noise.Length.SetEnable(v&0x08 != 0)
		a.DMC.SetEnable(v&0x10 != 0)
		a.DMC.IRQFlag = false
	case 0x4017:
		t := a.Frame.WriteControl(v)
		if t.Quarter {
			a.Pulse1.ClockEnvelope()
			a.Pulse2.ClockEnvelope()
			a.Noise.ClockEnvelope()
			a.Triangle.ClockLinear()
		}
		if t.Half {
			a.Pulse1.ClockLength()
			a.Pulse1.ClockSweep()
			a.Pulse2.ClockLength()
			a.Pulse2.ClockSweep()
			a.Triangle.ClockLength()
			a.Noise.ClockLength()
		}
	}
}

// FrameIRQ reports whether the frame counter's IRQ line is asserted.
func (a *APU) FrameIRQ() bool { return a.Frame.IRQFlag && !a.Frame.IRQInhibit }

// DMCIRQ reports whether the DMC's IRQ line is asserted.
func (a *APU) DMCIRQ() bool { return a.DMC.IRQFlag }

// State is the versioned, gob-serializable snapshot of the whole APU.
type State struct {
	Version  int
	Pulse1   PulseState
	Pulse2   PulseState
	Triangle TriangleState
	Noise    NoiseState
	DMC      DMCState
	Frame    FrameCounter
}

type PulseState struct {
	Envelope               Envelope
	Sweep                  Sweep
	Length                 LengthCounter
	Timer, TimerCounter    uint16
	Duty, Phase            uint8
}

type TriangleState struct {
	Length                              LengthCounter
	HaltControl                         bool
	LinearLoad, LinearCount             uint8
	LinearReload                        bool
	Timer, TimerCounter                 uint16
	Seq                                  uint8
}

type NoiseState struct {
	Envelope                 Envelope
	Length                   LengthCounter
	Mode                     bool
	PeriodIndex              uint8
	TimerCounter             uint16
	LFSR                     uint16
}

type DMCState struct {
	IRQEnable, Loop                        bool
	RateIndex                              uint8
	Output                                 uint8
	SampleAddr, SampleLength               uint16
	CurAddr, BytesLeft                     uint16
	ShiftBuf, ShiftBits                    uint8
	BufferEmpty                            bool
	TimerCounter                           uint16
	IRQFlag                                bool
	Silence                                bool
}

func (a *APU) GetState() State {
	return State{
		Version: 1,
		Pulse1: PulseState{
			Envelope: a.Pulse1.Envelope, Sweep: a.Pulse1.Sweep, Length: a.Pulse1.Length,
			Timer: a.Pulse1.timer, TimerCounter: a.Pulse1.timerCounter,
			Duty: a.Pulse1.duty, Phase: a.Pulse1.phase,
		},
		Pulse2: PulseState{
			Envelope: a.Pulse2.Envelope, Sweep: a.Pulse2.Sweep, Length: a.Pulse2.Length,
			Timer: a.Pulse2.timer, TimerCounter: a.Pulse2.timerCounter,
			Duty: a.Pulse2.duty, Phase: a.Pulse2.phase,
		},
		Triangle: TriangleState{
			Length: a.Triangle.Length, HaltControl: a.Triangle.haltControl,
			LinearLoad: a.Triangle.linearLoad, LinearCount: a.Triangle.linearCount,
			LinearReload: a.Triangle.linearReload, Timer: a.Triangle.timer,
			TimerCounter: a.Triangle.timerCounter, Seq: a.Triangle.seq,
		},
		Noise: NoiseState{
			Envelope: a.Noise.Envelope, Length: a.Noise.Length, Mode: a.Noise.mode,
			PeriodIndex: a.Noise.periodIndex, TimerCounter: a.Noise.timerCounter,
			LFSR: a.Noise.lfsr,
		},
		DMC: DMCState{
			IRQEnable: a.DMC.IRQEnable, Loop: a.DMC.Loop, RateIndex: a.DMC.rateIndex,
			Output: a.DMC.output, SampleAddr: a.DMC.sampleAddr, SampleLength: a.DMC.sampleLength,
			CurAddr: a.DMC.curAddr, BytesLeft: a.DMC.bytesLeft, ShiftBuf: a.DMC.shiftBuf,
			ShiftBits: a.DMC.shiftBits, BufferEmpty: a.DMC.bufferEmpty,
			TimerCounter: a.DMC.timerCounter, IRQFlag: a.DMC.IRQFlag,
			Silence: a.DMC.Silence,
		},
		Frame: a.Frame,
	}
}

func (a *APU) SetState(s State) {
	p1, p2 := s.Pulse1, s.Pulse2
	a.Pulse1.Envelope, a.Pulse1.Sweep, a.Pulse1.Length = p1.Envelope, p1.Sweep, p1.Length
	a.Pulse1.timer, a.Pulse1.timerCounter, a.Pulse1.duty, a.Pulse1.phase = p1.Timer, p1.TimerCounter, p1.Duty, p1.Phase
	a.Pulse2.Envelope, a.Pulse2.Sweep, a.Pulse2.Length = p2.Envelope, p2.Sweep, p2.Length
	a.Pulse2.timer, a.Pulse2.timerCounter, a.Pulse2.duty, a.Pulse2.phase = p2.Timer, p2.TimerCounter, p2.Duty, p2.Phase

	t := s.Triangle
	a.Triangle.Length, a.Triangle.haltControl = t.Length, t.HaltControl
	a.Triangle.linearLoad, a.Triangle.linearCount, a.Triangle.linearReload = t.LinearLoad, t.LinearCount, t.LinearReload
	a.Triangle.timer, a.Triangle.timerCounter, a.Triangle.seq = t.Timer, t.TimerCounter, t.Seq

	n := s.Noise
	a.Noise.Envelope, a.Noise.Length, a.Noise.mode = n.Envelope, n.Length, n.Mode
	a.Noise.periodIndex, a.Noise.timerCounter, a.Noise.lfsr = n.PeriodIndex, n.TimerCounter, n.LFSR

	d := s.DMC
	a.DMC.IRQEnable, a.DMC.Loop, a.DMC.rateIndex = d.IRQEnable, d.Loop, d.RateIndex
	a.DMC.output, a.DMC.sampleAddr, a.DMC.sampleLength = d.Output, d.SampleAddr, d.SampleLength
	a.DMC.curAddr, a.DMC.bytesLeft, a.DMC.shiftBuf = d.CurAddr, d.BytesLeft, d.ShiftBuf
	a.DMC.shiftBits, a.DMC.bufferEmpty, a.DMC.timerCounter, a.DMC.IRQFlag = d.ShiftBits, d.BufferEmpty, d.TimerCounter, d.IRQFlag
	a.DMC.Silence = d.Silence

	a.Frame = s.Frame
}
