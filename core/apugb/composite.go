package apugb

// APU composites the 4 Game Boy channels behind the $FF10-$FF3F
// register window, clocked once per CPU cycle (4.194304MHz) with an
// internal frame sequencer ticking every 8192 cycles (512Hz), half
// the NES frame counter's granularity since the Game Boy's quarter/
// half-tick phases are folded into 8 evenly spaced steps.
type APU struct {
	Pulse1 *Pulse
	Pulse2 *Pulse
	Wave   *Wave
	Noise  *Noise

	enabled bool

	leftVolume, rightVolume   uint8
	leftEnable, rightEnable   [4]bool

	seqStep   uint8
	seqCycles uint32

	sampleAcc  float64
	cpuHz      float64
	sampleRate float64
}

func New() *APU {
	a := &APU{
		Pulse1:     NewPulse(true),
		Pulse2:     NewPulse(false),
		Wave:       &Wave{},
		Noise:      NewNoise(),
		cpuHz:      4194304,
		sampleRate: 44100,
	}
	return a
}

func (a *APU) Reset() {
	*a = *New()
}

func (a *APU) SetSampleRate(rate int) { a.sampleRate = float64(rate) }

const frameSeqPeriod = 8192

// Clock advances every channel's timer by one CPU cycle, runs the
// 512Hz frame sequencer when due, and returns a mixed sample at the
// configured output rate.
func (a *APU) Clock() (sample int16, produced bool) {
	a.Pulse1.ClockTimer()
	a.Pulse2.ClockTimer()
	a.Wave.ClockTimer()
	a.Noise.ClockTimer()

	a.seqCycles++
	if a.seqCycles >= frameSeqPeriod {
		a.seqCycles = 0
		a.tickFrameSequencer()
	}

	a.sampleAcc += a.sampleRate
	if a.sampleAcc >= a.cpuHz {
		a.sampleAcc -= a.cpuHz
		return a.mix(), true
	}
	return 0, false
}

func (a *APU) tickFrameSequencer() {
	switch a.seqStep {
	case 0, 4:
		a.clockLength()
	case 2, 6:
		a.clockLength()
		a.clockSweep()
	case 7:
		a.clockEnvelope()
	}
	a.seqStep = (a.seqStep + 1) & 7
}

func (a *APU) clockLength() {
	a.Pulse1.ClockLength()
	a.Pulse2.ClockLength()
	a.Wave.ClockLength()
	a.Noise.ClockLength()
}

func (a *APU) clockSweep() { a.Pulse1.ClockSweep() }

func (a *APU) clockEnvelope() {
	a.Pulse1.Envelope.Clock()
	a.Pulse2.Envelope.Clock()
	a.Noise.Envelope.Clock()
}

func (a *APU) mix() int16 {
	if !a.enabled {
		return 0
	}
	var left, right int32
	channels := [4]uint8{a.Pulse1.Output(), a.Pulse2.Output(), a.Wave.Output(), a.Noise.Output()}
	for i, v := range channels {
		if a.leftEnable[i] {
			left += int32(v)
		}
		if a.rightEnable[i] {
			right += int32(v)
		}
	}
	left = left * int32(a.leftVolume+1)
	right = right * int32(a.rightVolume+1)
	total := (left + right) / 2
	// Scale the 4-channel, 4-bit-per-channel, 8-volume-step sum into
	// signed 16-bit PCM headroom.
	return int16(total * 64)
}

func (a *APU) WriteRegister(addr uint16, v uint8) {
	switch {
	case addr == 0xFF10: // NR10: pulse1 sweep
		a.Pulse1.Sweep.Period = (v >> 4) & 7
		a.Pulse1.Sweep.Negate = v&0x08 != 0
		a.Pulse1.Sweep.Shift = v & 7
	case addr == 0xFF11, addr == 0xFF16: // NR11/NR21: duty+length
		p := a.pulseFor(addr)
		p.Duty = v >> 6
		p.Length.Load(v & 0x3F)
	case addr == 0xFF12, addr == 0xFF17: // NR12/NR22: envelope
		p := a.pulseFor(addr)
		p.Envelope.InitialVolume = v >> 4
		p.Envelope.Increase = v&0x08 != 0
		p.Envelope.Period = v & 7
	case addr == 0xFF13, addr == 0xFF18: // NR13/NR23: freq lo
		p := a.pulseFor(addr)
		p.Frequency = p.Frequency&0x700 | uint16(v)
	case addr == 0xFF14, addr == 0xFF19: // NR14/NR24: freq hi + trigger
		p := a.pulseFor(addr)
		p.Frequency = p.Frequency&0xFF | uint16(v&7)<<8
		p.Length.SetEnable(v&0x40 != 0)
		if v&0x80 != 0 {
			p.Trigger()
		}
	case addr == 0xFF1A: // NR30: wave enable
		a.Wave.Enabled = v&0x80 != 0
	case addr == 0xFF1B: // NR31: wave length
		a.Wave.Length.Load(v)
	case addr == 0xFF1C: // NR32: wave volume
		a.Wave.VolumeCode = (v >> 5) & 3
	case addr == 0xFF1D: // NR33: wave freq lo
		a.Wave.Frequency = a.Wave.Frequency&0x700 | uint16(v)
	case addr == 0xFF1E: // NR34: wave freq hi + trigger
		a.Wave.Frequency = a.Wave.Frequency&0xFF | uint16(v&7)<<8
		a.Wave.Length.SetEnable(v&0x40 != 0)
		if v&0x80 != 0 {
			a.Wave.Trigger()
		}
	case addr == 0xFF20: // NR41: noise length
		a.Noise.Length.Load(v & 0x3F)
	case addr == 0xFF21: // NR42: noise envelope
		a.Noise.Envelope.InitialVolume = v >> 4
		a.Noise.Envelope.Increase = v&0x08 != 0
		a.Noise.Envelope.Period = v & 7
	case addr == 0xFF22: // NR43: noise frequency
		a.Noise.ClockShift = v >> 4
		a.Noise.WidthMode = v&0x08 != 0
		a.Noise.DivisorIdx = v & 7
	case addr == 0xFF23: // NR44: noise trigger
		a.Noise.Length.SetEnable(v&0x40 != 0)
		if v&0x80 != 0 {
			a.Noise.Trigger()
		}
	case addr == 0xFF24: // NR50: master volume
		a.rightVolume = v & 7
		a.leftVolume = (v >> 4) & 7
	case addr == 0xFF25: // NR51: channel panning
		for i := 0; i < 4; i++ {
			a.rightEnable[i] = v&(1<<uint(i)) != 0
			a.leftEnable[i] = v&(1<<uint(i+4)) != 0
		}
	case addr == 0xFF26: // NR52: master power
		a.enabled = v&0x80 != 0
	case addr >= 0xFF30 && addr <= 0xFF3F: // wave pattern RAM
		idx := (addr - 0xFF30) * 2
		a.Wave.Table[idx] = v >> 4
		a.Wave.Table[idx+1] = v & 0x0F
	}
}

func (a *APU) pulseFor(addr uint16) *Pulse {
	if addr == 0xFF11 || addr == 0xFF12 || addr == 0xFF13 || addr == 0xFF14 {
		return a.Pulse1
	}
	return a.Pulse2
}

func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.enabled {
		v |= 0x80
	}
	if a.Pulse1.enabled {
		v |= 0x01
	}
	if a.Pulse2.enabled {
		v |= 0x02
	}
	if a.Wave.playing {
		v |= 0x04
	}
	if a.Noise.enabled {
		v |= 0x08
	}
	return v
}

// State is the gob-serializable snapshot of the whole channel set.
type State struct {
	Pulse1, Pulse2 Pulse
	Wave           Wave
	Noise          Noise
	Enabled        bool
	LeftVolume     uint8
	RightVolume    uint8
	LeftEnable     [4]bool
	RightEnable    [4]bool
	SeqStep        uint8
	SeqCycles      uint32
}

func (a *APU) GetState() State {
	return State{
		Pulse1:      *a.Pulse1,
		Pulse2:      *a.Pulse2,
		Wave:        *a.Wave,
		Noise:       *a.Noise,
		Enabled:     a.enabled,
		LeftVolume:  a.leftVolume,
		RightVolume: a.rightVolume,
		LeftEnable:  a.leftEnable,
		RightEnable: a.rightEnable,
		SeqStep:     a.seqStep,
		SeqCycles:   a.seqCycles,
	}
}

func (a *APU) SetState(s State) {
	sweep1, sweep2 := a.Pulse1.Sweep, a.Pulse2.Sweep
	*a.Pulse1 = s.Pulse1
	*a.Pulse2 = s.Pulse2
	a.Pulse1.Sweep, a.Pulse2.Sweep = sweep1, sweep2
	*a.Wave = s.Wave
	*a.Noise = s.Noise
	a.enabled = s.Enabled
	a.leftVolume = s.LeftVolume
	a.rightVolume = s.RightVolume
	a.leftEnable = s.LeftEnable
	a.rightEnable = s.RightEnable
	a.seqStep = s.SeqStep
	a.seqCycles = s.SeqCycles
}
