// Package psg implements the Texas Instruments SN76489 (Sega's
// SN76496 variant with a 16-bit noise LFSR), the Master System's
// programmable sound generator: three square-wave tone channels and
// one LFSR noise channel, each gated by a 4-bit logarithmic
// attenuator. Unlike the NES APU's channels, the chip has no
// hardware length-counter unit (SPEC_FULL §4.2).
package psg

// Tone is one of the three square-wave channels: a 10-bit period
// register toggling the output polarity at half-period, plus a
// 4-bit attenuator (0 = loudest, 0xF = silent, per the chip's
// logarithmic volume table).
type Tone struct {
	Period  uint16
	Counter uint16
	Output  bool
	Atten   uint8
}

func (t *Tone) clock() {
	if t.Counter == 0 {
		t.Counter = t.Period
		t.Output = !t.Output
		return
	}
	t.Counter--
}

func (t *Tone) sample() int16 {
	if t.Atten == 0x0F || t.Period == 0 {
		return 0
	}
	if !t.Output {
		return 0
	}
	return int16(volumeTable[t.Atten])
}

// Noise is the LFSR channel. The Sega variant of the chip (used in
// every Master System) widens the LFSR to 16 bits versus the
// original SN76489's 15; feedback taps bit0 against bit1 in white-
// noise mode, against nothing (bit0 alone) in periodic mode.
type Noise struct {
	LFSR    uint16
	Rate    uint8 // 0-2 fixed divisors, 3 = follow Tone3
	FB      bool  // true = white noise (two taps), false = periodic
	Counter uint16
	Atten   uint8
}

var noiseDivisors = [3]uint16{0x10, 0x20, 0x40}

func (n *Noise) period(tone3Period uint16) uint16 {
	if n.Rate == 3 {
		return tone3Period
	}
	return noiseDivisors[n.Rate]
}

func (n *Noise) clock(tone3Period uint16) {
	if n.Counter == 0 {
		n.Counter = n.period(tone3Period)
		var feedback uint16
		if n.FB {
			feedback = (n.LFSR & 1) ^ ((n.LFSR >> 1) & 1)
		} else {
			feedback = n.LFSR & 1
		}
		n.LFSR >>= 1
		if feedback != 0 {
			n.LFSR |= 0x8000
		}
		return
	}
	n.Counter--
}

func (n *Noise) sample() int16 {
	if n.Atten == 0x0F {
		return 0
	}
	if n.LFSR&1 == 0 {
		return 0
	}
	return int16(volumeTable[n.Atten])
}

// volumeTable is the SN76489's 2dB-per-step logarithmic attenuation
// table scaled into signed 16-bit PCM headroom for a single channel.
var volumeTable = [16]int16{
	2000, 1588, 1262, 1002, 796, 632, 502, 398,
	316, 251, 200, 159, 126, 100, 79, 0,
}

// PSG composites the four channels behind the chip's single
// write-only data port protocol: a "latch" byte selects channel and
// parameter (tone period low bits or attenuation), and a following
// "data" byte supplies the remaining bits.
type PSG struct {
	Tone  [3]Tone
	Noise Noise

	latchedChannel uint8
	latchedIsVol   bool

	prescale   uint8
	cycleAcc   float64
	cpuHz      float64
	sampleRate float64
}

func New(cpuHz float64) *PSG {
	return &PSG{cpuHz: cpuHz, sampleRate: 44100}
}

func (p *PSG) Reset() {
	*p = PSG{cpuHz: p.cpuHz, sampleRate: p.sampleRate}
	for i := range p.Tone {
		p.Tone[i].Atten = 0x0F
	}
	p.Noise.Atten = 0x0F
}

func (p *PSG) SetSampleRate(rate int) { p.sampleRate = float64(rate) }

// Write decodes one byte of the SN76489's single data port protocol.
func (p *PSG) Write(value uint8) {
	if value&0x80 != 0 {
		channel := (value >> 5) & 0x03
		isVol := value&0x10 != 0
		p.latchedChannel = channel
		p.latchedIsVol = isVol
		p.applyLatched(value&0x0F, true)
		return
	}
	p.applyLatched(value&0x3F, false)
}

func (p *PSG) applyLatched(data uint8, isFirstByte bool) {
	ch := p.latchedChannel
	if p.latchedIsVol {
		if ch == 3 {
			p.Noise.Atten = data & 0x0F
		} else {
			p.Tone[ch].Atten = data & 0x0F
		}
		return
	}
	if ch == 3 {
		p.Noise.Rate = data & 0x03
		p.Noise.FB = data&0x04 != 0
		p.Noise.LFSR = 0x8000
		return
	}
	if isFirstByte {
		p.Tone[ch].Period = p.Tone[ch].Period&0x3F0 | uint16(data&0x0F)
	} else {
		p.Tone[ch].Period = p.Tone[ch].Period&0x00F | uint16(data&0x3F)<<4
	}
}

// Clock advances the chip by one CPU cycle: every 16th call advances
// every channel by one PSG cycle (the SN76489 in the Master System is
// clocked at CPU rate / 16). It returns a mixed sample whenever enough
// cycles have accumulated for the configured output rate.
func (p *PSG) Clock() (sample int16, produced bool) {
	p.prescale++
	if p.prescale == 16 {
		p.prescale = 0
		for i := 0; i < 3; i++ {
			p.Tone[i].clock()
		}
		p.Noise.clock(p.Tone[2].Period)
	}

	p.cycleAcc += p.sampleRate
	if p.cycleAcc < p.cpuHz {
		return 0, false
	}
	p.cycleAcc -= p.cpuHz

	var total int32
	for i := range p.Tone {
		total += int32(p.Tone[i].sample())
	}
	total += int32(p.Noise.sample())
	return int16(total / 4), true
}

// State is the gob-serializable snapshot of the whole chip.
type State struct {
	Tone           [3]Tone
	Noise          Noise
	LatchedChannel uint8
	LatchedIsVol   bool
}

func (p *PSG) GetState() State {
	return State{Tone: p.Tone, Noise: p.Noise, LatchedChannel: p.latchedChannel, LatchedIsVol: p.latchedIsVol}
}

func (p *PSG) SetState(s State) {
	p.Tone, p.Noise = s.Tone, s.Noise
	p.latchedChannel, p.latchedIsVol = s.LatchedChannel, s.LatchedIsVol
}
