// Package apu2a03 implements the NES/Famicom 2A03's audio channels as
// a reusable composite: two pulse channels, a triangle, a noise
// channel, a DMC, and the frame counter that drives their envelope,
// sweep and length units. No package here knows it is hosted by the
// NES system bus; systems/nes wires register addresses and DMC memory
// fetches to it.
package apu2a03

// MemoryReader is the narrow capability the DMC channel needs: a
// single byte fetch from CPU address space. The DMC stalls the CPU
// while this happens; the caller (systems/nes) is responsible for
// that stall, not this package (spec §4.6: the driver performs it).
type MemoryReader interface {
	Read(addr uint16) uint8
}

// LengthCounter is the automatic note-duration unit shared by every
// channel, and by core/apugb's pulse/wave/noise channels (core/psg
// does not use it: the SN76489 has no length counter).
type LengthCounter struct {
	Value  uint8
	Halt   bool
	Enable bool
}

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6,
	160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 8, 48, 6, 96, 4,
	192, 2, 72, 16, 28, 32, 52, 2,
}

// Load sets the counter from the 5 MSBs of a $4003-shaped write, per
// the 32-entry table in spec §4.2. A disabled channel ignores the load.
func (l *LengthCounter) Load(index uint8) {
	if l.Enable {
		l.Value = lengthTable[index&0x1F]
	}
}

// Clock decrements on a half-frame tick unless halted or already zero.
func (l *LengthCounter) Clock() {
	if !l.Halt && l.Value > 0 {
		l.Value--
	}
}

// SetEnable forces the count to zero when disabled (spec §8 invariant).
func (l *LengthCounter) SetEnable(enable bool) {
	l.Enable = enable
	if !enable {
		l.Value = 0
	}
}

// Envelope is the decay/constant-volume unit clocked on quarter-frames.
type Envelope struct {
	Start       bool
	Loop        bool
	Constant    bool
	Volume      uint8 // also the envelope divider period when non-constant
	decayLevel  uint8
	divider     uint8
}

func (e *Envelope) Clock() {
	if e.Start {
		e.Start = false
		e.decayLevel = 15
		e.divider = e.Volume
		return
	}
	if e.divider == 0 {
		e.divider = e.Volume
		if e.decayLevel > 0 {
			e.decayLevel--
		} else if e.Loop {
			e.decayLevel = 15
		}
	} else {
		e.divider--
	}
}

func (e *Envelope) Output() uint8 {
	if e.Constant {
		return e.Volume
	}
	return e.decayLevel
}

// Sweep is the NES pulse sweep unit (one's-complement negate on pulse
// 1, two's-complement on pulse 2 per hardware quirk).
type Sweep struct {
	Enable  bool
	Period  uint8
	Negate  bool
	Shift   uint8
	Reload  bool
	onesCpl bool
	counter uint8
}

// Clock recomputes and, if due, commits a new timer period. Mutes the
// channel (by driving timer out of range) rather than returning a
// bool, matching getPulseOutput's timer-range mute check.
func (s *Sweep) Clock(timer *uint16) {
	change := *timer >> s.Shift
	if s.counter == 0 && s.Enable && s.Shift > 0 && *timer >= 8 {
		if s.Negate {
			if s.onesCpl {
				*timer -= change + 1
			} else {
				*timer -= change
			}
		} else {
			*timer += change
		}
	}
	if s.counter == 0 || s.Reload {
		s.counter = s.Period
		s.Reload = false
	} else {
		s.counter--
	}
}

var dutyTable = [4][8]uint8{
	{0, 0, 0, 0, 0, 0, 1, 0}, // 12.5%  (00000010, phases 0-7 in written order)
	{0, 0, 0, 0, 0, 1, 1, 0}, // 25%
	{0, 0, 0, 1, 1, 1, 1, 0}, // 50%
	{1, 1, 1, 1, 1, 0, 0, 1}, // 75%, inverted
}

// Pulse is one of the NES's two pulse/square channels.
type Pulse struct {
	Envelope Envelope
	Sweep    Sweep
	Length   LengthCounter

	timer        uint16
	timerCounter uint16
	duty         uint8
	phase        uint8
}

func NewPulse(onesComplementSweep bool) *Pulse {
	p := &Pulse{}
	p.Sweep.onesCpl = onesComplementSweep
	return p
}

func (p *Pulse) WriteControl(v uint8) {
	p.duty = (v >> 6) & 0x03
	p.Envelope.Loop = v&0x20 != 0
	p.Length.Halt = p.Envelope.Loop
	p.Envelope.Constant = v&0x10 != 0
	p.Envelope.Volume = v & 0x0F
}

func (p *Pulse) WriteSweep(v uint8) {
	p.Sweep.Enable = v&0x80 != 0
	p.Sweep.Period = (v >> 4) & 0x07
	p.Sweep.Negate = v&0x08 != 0
	p.Sweep.Shift = v & 0x07
	p.Sweep.Reload = true
}

func (p *Pulse) WriteTimerLow(v uint8) {
	p.timer = (p.timer & 0xFF00) | uint16(v)
}

func (p *Pulse) WriteTimerHigh(v uint8) {
	p.timer = (p.timer & 0x00FF) | (uint16(v&0x07) << 8)
	p.Length.Load(v >> 3)
	p.Envelope.Start = true
	p.phase = 0
}

// Clock advances the channel by one CPU cycle (spec: the duty phase
// advances every time the 11-bit timer counts below zero).
func (p *Pulse) Clock() {
	if p.timerCounter == 0 {
		p.timerCounter = p.timer
		p.phase = (p.phase + 1) & 0x07
	} else {
		p.timerCounter--
	}
}

func (p *Pulse) ClockEnvelope() { p.Envelope.Clock() }
func (p *Pulse) ClockLength()   { p.Length.Clock() }
func (p *Pulse) ClockSweep()    { p.Sweep.Clock(&p.timer) }

// Output returns the current sample (0-15); zero when muted by length,
// sweep-driven timer range, or the duty table entry.
func (p *Pulse) Output() uint8 {
	if p.Length.Value == 0 || p.timer < 8 || p.timer > 0x7FF {
		return 0
	}
	if dutyTable[p.duty][p.phase] == 0 {
		return 0
	}
	return p.Envelope.Output()
}

var triangleTable = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Triangle is the NES triangle channel: no volume control, but gated
// by both the length counter and a linear counter.
type Triangle struct {
	Length LengthCounter

	haltControl  bool
	linearLoad   uint8
	linearCount  uint8
	linearReload bool

	timer        uint16
	timerCounter uint16
	seq          uint8
}

func (t *Triangle) WriteControl(v uint8) {
	t.haltControl = v&0x80 != 0
	t.Length.Halt = t.haltControl
	t.linearLoad = v & 0x7F
}

func (t *Triangle) WriteTimerLow(v uint8) {
	t.timer = (t.timer & 0xFF00) | uint16(v)
}

func (t *Triangle) WriteTimerHigh(v uint8) {
	t.timer = (t.timer & 0x00FF) | (uint16(v&0x07) << 8)
	t.Length.Load(v >> 3)
	t.linearReload = true
}

func (t *Triangle) Clock() {
	if t.timerCounter == 0 {
		t.timerCounter = t.timer
		if t.linearCount > 0 && t.Length.Value > 0 {
			t.seq = (t.seq + 1) & 0x1F
		}
	} else {
		t.timerCounter--
	}
}

func (t *Triangle) ClockLinear() {
	if t.linearReload {
		t.linearCount = t.linearLoad
	} else if t.linearCount > 0 {
		t.linearCount--
	}
	if !t.haltControl {
		t.linearReload = false
	}
}

func (t *Triangle) ClockLength() { t.Length.Clock() }

func (t *Triangle) Output() uint8 {
	if t.Length.Value == 0 || t.linearCount == 0 {
		return 0
	}
	return triangleTable[t.seq]
}

var noisePeriodNTSC = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160,
	202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// Noise is the NES noise channel: a 15-bit LFSR that must never settle
// at zero (spec glossary / §3 invariant).
type Noise struct {
	Envelope Envelope
	Length   LengthCounter

	mode         bool
	periodIndex  uint8
	timerCounter uint16
	lfsr         uint16
}

func NewNoise() *Noise {
	return &Noise{lfsr: 1}
}

func (n *Noise) WriteControl(v uint8) {
	n.Envelope.Loop = v&0x20 != 0
	n.Length.Halt = n.Envelope.Loop
	n.Envelope.Constant = v&0x10 != 0
	n.Envelope.Volume = v & 0x0F
}

func (n *Noise) WritePeriod(v uint8) {
	n.mode = v&0x80 != 0
	n.periodIndex = v & 0x0F
}

func (n *Noise) WriteLength(v uint8) {
	n.Length.Load(v >> 3)
	n.Envelope.Start = true
}

func (n *Noise) Clock() {
	if n.timerCounter == 0 {
		n.timerCounter = noisePeriodNTSC[n.periodIndex]
		bit0 := n.lfsr & 1
		var tap uint16
		if n.mode {
			tap = (n.lfsr >> 6) & 1
		} else {
			tap = (n.lfsr >> 1) & 1
		}
		feedback := bit0 ^ tap
		n.lfsr >>= 1
		n.lfsr |= feedback << 14
		if n.lfsr == 0 {
			n.lfsr = 1 // must never settle at zero
		}
	} else {
		n.timerCounter--
	}
}

func (n *Noise) ClockEnvelope() { n.Envelope.Clock() }
func (n *Noise) ClockLength()   { n.Length.Clock() }

func (n *Noise) Output() uint8 {
	if n.Length.Value == 0 || n.lfsr&1 != 0 {
		return 0
	}
	return n.Envelope.Output()
}

var dmcRateNTSC = [16]uint16{
	428, 380, 340, 320, 286, 254, 226, 214,
	190, 160, 142, 128, 106, 84, 72, 54,
}

// DMC is the delta-modulation sample channel. FetchRequest is set
// whenever the shift buffer needs refilling; the caller must service
// it via Feed (and stall the CPU for 1-4 cycles per spec §4.2/§4.6).
type DMC struct {
	IRQEnable bool
	Loop      bool
	rateIndex uint8

	output uint8

	sampleAddr   uint16
	sampleLength uint16
	curAddr      uint16
	bytesLeft    uint16

	shiftBuf     uint8
	shiftBits    uint8
	bufferEmpty  bool
	timerCounter uint16

	IRQFlag      bool
	FetchRequest bool
	fetchAddr    uint16

	Silence bool
}

func NewDMC() *DMC {
	return &DMC{bufferEmpty: true, output: 0}
}

func (d *DMC) WriteControl(v uint8) {
	d.IRQEnable = v&0x80 != 0
	d.Loop = v&0x40 != 0
	d.rateIndex = v & 0x0F
	if !d.IRQEnable {
		d.IRQFlag = false
	}
}

func (d *DMC) WriteDirectLoad(v uint8) { d.output = v & 0x7F }
func (d *DMC) WriteSampleAddress(v uint8) {
	d.sampleAddr = 0xC000 | (uint16(v) << 6)
}
func (d *DMC) WriteSampleLength(v uint8) {
	d.sampleLength = (uint16(v) << 4) + 1
}

// SetEnable starts (or stops) sample playback, per $4015 semantics.
func (d *DMC) SetEnable(enable bool) {
	if !enable {
		d.bytesLeft = 0
	} else if d.bytesLeft == 0 {
		d.curAddr = d.sampleAddr
		d.bytesLeft = d.sampleLength
		d.Silence = false
	}
}

func (d *DMC) BytesRemaining() uint16 { return d.bytesLeft }

// Clock ticks the DMC's bit-rate timer. When the shift buffer is
// empty and a fetch hasn't been requested yet, it raises FetchRequest
// for the caller to service with Feed.
func (d *DMC) Clock() {
	if d.timerCounter == 0 {
		d.timerCounter = dmcRateNTSC[d.rateIndex]
		if !d.bufferEmpty {
			if d.shiftBits == 0 {
				d.bufferEmpty = true
			} else {
				if d.shiftBuf&1 != 0 {
					if d.output <= 125 {
						d.output += 2
					}
				} else if d.output >= 2 {
					d.output -= 2
				}
				d.shiftBuf >>= 1
				d.shiftBits--
			}
		}
		if d.bufferEmpty && d.bytesLeft > 0 && !d.FetchRequest {
			d.FetchRequest = true
			d.fetchAddr = d.curAddr
		}
	} else {
		d.timerCounter--
	}
}

// FetchAddress returns the address the pending fetch request targets.
func (d *DMC) FetchAddress() uint16 { return d.fetchAddr }

// Feed supplies the byte fetched from FetchAddress, clearing the
// pending request and wrapping the sample per spec scenario 5.
func (d *DMC) Feed(b uint8) {
	d.FetchRequest = false
	d.shiftBuf = b
	d.shiftBits = 8
	d.bufferEmpty = false
	d.Silence = false
	d.curAddr++
	if d.curAddr == 0 {
		d.curAddr = 0x8000
	}
	d.bytesLeft--
	if d.bytesLeft == 0 {
		if d.Loop {
			d.curAddr = d.sampleAddr
			d.bytesLeft = d.sampleLength
		} else {
			d.Silence = true
			if d.IRQEnable {
				d.IRQFlag = true
			}
		}
	}
}

func (d *DMC) Output() uint8 { return d.output }
