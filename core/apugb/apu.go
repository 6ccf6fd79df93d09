// Package apugb implements the Game Boy's 4-channel APU: two pulse
// channels (the first with a frequency sweep unit whose negate/shift
// semantics differ from the NES sweep unit), a user-programmable wave
// channel, and a noise channel, reusing core/apu2a03's LengthCounter
// since the Game Boy's length mechanism is the same counter shape at
// a different clock divisor.
package apugb

import "github.com/hemu/hemucore/core/apu2a03"

// Envelope mirrors the NES envelope unit's volume/period/direction
// shape; the Game Boy variant steps up or down rather than only down.
type Envelope struct {
	InitialVolume uint8
	Increase      bool
	Period        uint8

	volume  uint8
	divider uint8
}

func (e *Envelope) Trigger() {
	e.volume = e.InitialVolume
	e.divider = e.Period
}

func (e *Envelope) Clock() {
	if e.Period == 0 {
		return
	}
	if e.divider > 0 {
		e.divider--
		return
	}
	e.divider = e.Period
	if e.Increase && e.volume < 15 {
		e.volume++
	} else if !e.Increase && e.volume > 0 {
		e.volume--
	}
}

func (e *Envelope) Output() uint8 { return e.volume }

// Sweep is the Game Boy pulse-1 frequency sweep unit: it shifts the
// 11-bit period right by Shift and adds or subtracts the result from
// the running frequency, disabling the channel on overflow past 2047.
type Sweep struct {
	Period    uint8
	Negate    bool
	Shift     uint8
	enabled   bool
	timer     uint8
	shadow    uint16
	disable   func()
}

func (s *Sweep) Trigger(freq uint16, disable func()) {
	s.shadow = freq
	s.timer = s.Period
	if s.timer == 0 {
		s.timer = 8
	}
	s.enabled = s.Period != 0 || s.Shift != 0
	s.disable = disable
	if s.Shift != 0 {
		s.calculate()
	}
}

func (s *Sweep) calculate() uint16 {
	delta := s.shadow >> s.Shift
	var next uint16
	if s.Negate {
		next = s.shadow - delta
	} else {
		next = s.shadow + delta
	}
	if next > 2047 && s.disable != nil {
		s.disable()
	}
	return next
}

func (s *Sweep) Clock() (newFreq uint16, changed bool) {
	if !s.enabled || s.Period == 0 {
		return 0, false
	}
	if s.timer > 0 {
		s.timer--
		return 0, false
	}
	s.timer = s.Period
	if s.Shift == 0 {
		return 0, false
	}
	next := s.calculate()
	if next <= 2047 {
		s.shadow = next
		return next, true
	}
	return 0, false
}

var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 0, 0, 1},
	{1, 0, 0, 0, 0, 1, 1, 1},
	{0, 1, 1, 1, 1, 1, 1, 0},
}

// Pulse is a Game Boy square channel; pulse 1 additionally owns a
// Sweep (left nil on pulse 2).
type Pulse struct {
	Duty      uint8
	Frequency uint16
	Length    apu2a03.LengthCounter
	Envelope  Envelope
	Sweep     *Sweep
	enabled   bool

	timer int32
	phase uint8
}

func NewPulse(withSweep bool) *Pulse {
	p := &Pulse{}
	if withSweep {
		p.Sweep = &Sweep{}
	}
	return p
}

func (p *Pulse) Trigger() {
	p.enabled = true
	if p.Length.Value == 0 {
		p.Length.Load(0)
	}
	p.timer = (2048 - int32(p.Frequency)) * 4
	p.Envelope.Trigger()
	if p.Sweep != nil {
		p.Sweep.Trigger(p.Frequency, func() { p.enabled = false })
	}
}

func (p *Pulse) ClockTimer() {
	if !p.enabled {
		return
	}
	p.timer--
	if p.timer <= 0 {
		p.timer = (2048 - int32(p.Frequency)) * 4
		p.phase = (p.phase + 1) & 7
	}
}

func (p *Pulse) ClockSweep() {
	if p.Sweep == nil {
		return
	}
	if freq, changed := p.Sweep.Clock(); changed {
		p.Frequency = freq
	}
}

func (p *Pulse) ClockLength() {
	wasOn := p.Length.Value > 0
	p.Length.Clock()
	if wasOn && p.Length.Value == 0 {
		p.enabled = false
	}
}

func (p *Pulse) Output() uint8 {
	if !p.enabled || p.Length.Value == 0 && p.Length.Enable {
		return 0
	}
	if dutyTable[p.Duty&3][p.phase] == 0 {
		return 0
	}
	return p.Envelope.Output()
}

// Wave is the Game Boy's user-programmable 4-bit sample channel.
type Wave struct {
	Enabled    bool
	Frequency  uint16
	Length     apu2a03.LengthCounter
	VolumeCode uint8 // 0=mute 1=100% 2=50% 3=25%
	Table      [32]uint8
	playing    bool

	timer    int32
	position uint8
}

func (w *Wave) Trigger() {
	w.playing = w.Enabled
	if w.Length.Value == 0 {
		w.Length.Load(0)
	}
	w.timer = (2048 - int32(w.Frequency)) * 2
	w.position = 0
}

func (w *Wave) ClockTimer() {
	if !w.playing {
		return
	}
	w.timer--
	if w.timer <= 0 {
		w.timer = (2048 - int32(w.Frequency)) * 2
		w.position = (w.position + 1) & 31
	}
}

func (w *Wave) ClockLength() {
	wasOn := w.Length.Value > 0
	w.Length.Clock()
	if wasOn && w.Length.Value == 0 {
		w.playing = false
	}
}

func (w *Wave) Output() uint8 {
	if !w.playing || !w.Enabled {
		return 0
	}
	sample := w.Table[w.position]
	switch w.VolumeCode {
	case 0:
		return 0
	case 1:
		return sample
	case 2:
		return sample >> 1
	default:
		return sample >> 2
	}
}

var noiseDivisors = [8]uint16{8, 16, 32, 48, 64, 80, 96, 112}

// Noise is the Game Boy LFSR channel; WidthMode selects the 15-bit
// (false) or 7-bit (true) feedback tap used by some percussion
// effects.
type Noise struct {
	ClockShift uint8
	WidthMode  bool
	DivisorIdx uint8
	Length     apu2a03.LengthCounter
	Envelope   Envelope
	enabled    bool

	lfsr  uint16
	timer int32
}

func NewNoise() *Noise { return &Noise{lfsr: 0x7FFF} }

func (n *Noise) Trigger() {
	n.enabled = true
	if n.Length.Value == 0 {
		n.Length.Load(0)
	}
	n.lfsr = 0x7FFF
	n.Envelope.Trigger()
	n.timer = int32(noiseDivisors[n.DivisorIdx&7]) << n.ClockShift
}

func (n *Noise) ClockTimer() {
	if !n.enabled {
		return
	}
	n.timer--
	if n.timer <= 0 {
		n.timer = int32(noiseDivisors[n.DivisorIdx&7]) << n.ClockShift
		bit := (n.lfsr ^ (n.lfsr >> 1)) & 1
		n.lfsr = n.lfsr>>1 | bit<<14
		if n.WidthMode {
			n.lfsr &^= 1 << 6
			n.lfsr |= bit << 6
		}
	}
}

func (n *Noise) ClockLength() {
	wasOn := n.Length.Value > 0
	n.Length.Clock()
	if wasOn && n.Length.Value == 0 {
		n.enabled = false
	}
}

func (n *Noise) Output() uint8 {
	if !n.enabled || n.lfsr&1 != 0 {
		return 0
	}
	return n.Envelope.Output()
}
