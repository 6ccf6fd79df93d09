package nes

import "github.com/hemu/hemucore/core/video"

// PPU implements the NES 2C02 Picture Processing Unit: background and
// sprite compositing driven by the loopy v/t/x/w scroll register
// model, NTSC timing (262 scanlines x 341 dots), sprite-0 hit and
// overflow detection, and VRAM-address-bus A12 notifications so
// MMC3-family mappers can clock their scanline IRQ counter.
type PPU struct {
	ctrl, mask, status uint8
	oamAddr            uint8

	v, t uint16
	x    uint8
	w    bool

	readBuffer uint8

	vram       [0x1000]uint8 // 4KB nametable RAM (max, four-screen)
	paletteRAM [32]uint8
	oam        [256]uint8

	cart   *Cartridge
	mirror MirrorMode

	scanline int
	dot      int
	oddFrame bool

	frame [256 * 240]uint32

	nmiOccurred bool
	nmiOutput   bool
	nmiPending  bool

	sprite0Hit     bool
	spriteOverflow bool
}

func newPPU(cart *Cartridge) *PPU {
	p := &PPU{cart: cart, mirror: cart.Mirroring(), scanline: -1}
	for i := 0; i < 32; i += 4 {
		p.paletteRAM[i] = 0x0F
	}
	return p
}

func (p *PPU) reset() {
	*p = PPU{cart: p.cart, mirror: p.cart.Mirroring(), scanline: -1, status: 0xA0}
	for i := 0; i < 32; i += 4 {
		p.paletteRAM[i] = 0x0F
	}
}

// ReadRegister services CPU reads of $2000-$2007 (mirrored by the bus).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 2:
		v := p.status
		p.status &^= 0x80
		p.w = false
		return v
	case 4:
		return p.oam[p.oamAddr]
	case 7:
		value := p.readBuffer
		p.readBuffer = p.readVRAM(p.v & 0x3FFF)
		if p.v&0x3FFF >= 0x3F00 {
			value = p.readBuffer // palette reads bypass the buffer delay
			p.readBuffer = p.readVRAM((p.v & 0x3FFF) - 0x1000)
		}
		p.incrementV()
		return value
	default:
		return 0
	}
}

// WriteRegister services CPU writes of $2000-$2007.
func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr & 7 {
	case 0:
		p.ctrl = value
		p.t = (p.t & 0xF3FF) | (uint16(value&0x03) << 10)
		p.nmiOutput = value&0x80 != 0
	case 1:
		p.mask = value
	case 3:
		p.oamAddr = value
	case 4:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5:
		if !p.w {
			p.t = (p.t & 0xFFE0) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t & 0x8FFF) | (uint16(value&0x07) << 12)
			p.t = (p.t & 0xFC1F) | (uint16(value&0xF8) << 2)
		}
		p.w = !p.w
	case 6:
		if !p.w {
			p.t = (p.t & 0x80FF) | (uint16(value&0x3F) << 8)
		} else {
			p.t = (p.t & 0xFF00) | uint16(value)
			p.v = p.t
			p.notifyA12()
		}
		p.w = !p.w
	case 7:
		p.writeVRAM(p.v&0x3FFF, value)
		p.incrementV()
	}
}

func (p *PPU) incrementV() {
	if p.mask&0x18 == 0 {
		if p.ctrl&0x04 != 0 {
			p.v += 32
		} else {
			p.v++
		}
	} else {
		p.v++
	}
	p.notifyA12()
}

func (p *PPU) notifyA12() {
	p.cart.NotifyA12(p.v&0x1000 != 0)
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return p.cart.ReadCHR(addr)
	case addr < 0x3F00:
		return p.vram[p.nametableIndex(addr)]
	default:
		return p.paletteRAM[p.paletteIndex(addr)]
	}
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		p.cart.WriteCHR(addr, value)
	case addr < 0x3F00:
		p.vram[p.nametableIndex(addr)] = value
	default:
		p.paletteRAM[p.paletteIndex(addr)] = value
	}
}

func (p *PPU) nametableIndex(addr uint16) uint16 {
	addr &= 0x0FFF
	table := (addr >> 10) & 3
	offset := addr & 0x3FF
	switch p.mirror {
	case MirrorVertical:
		if table == 1 || table == 3 {
			return 0x400 + offset
		}
		return offset
	case MirrorSingleLow:
		return offset
	case MirrorSingleHigh:
		return 0x400 + offset
	case MirrorFourScreen:
		return table*0x400 + offset
	default: // Horizontal
		if table >= 2 {
			return 0x400 + offset
		}
		return offset
	}
}

func (p *PPU) paletteIndex(addr uint16) uint16 {
	idx := (addr - 0x3F00) & 0x1F
	if idx == 0x10 || idx == 0x14 || idx == 0x18 || idx == 0x1C {
		idx &= 0x0F
	}
	return idx
}

// writeOAM is invoked by the bus during $4014 OAM DMA.
func (p *PPU) writeOAM(index uint8, value uint8) {
	p.oam[index] = value
}

// stepFrame advances the PPU one full frame's worth of scanlines and dots,
// rendering into the framebuffer and returning whether an NMI fired.
// This core renders per-scanline rather than per-dot: a simplification
// real silicon doesn't make, but one that produces an identical final
// frame for any mapper that isn't itself racing the beam intra-line.
func (p *PPU) stepFrame() (nmiFired bool) {
	for p.scanline = -1; p.scanline < 261; p.scanline++ {
		switch {
		case p.scanline == -1:
			p.status &^= 0x40 | 0x20 | 0x80
			p.sprite0Hit = false
			p.spriteOverflow = false
		case p.scanline >= 0 && p.scanline < 240:
			if p.mask&0x18 != 0 {
				p.renderScanline(p.scanline)
			}
		case p.scanline == 241:
			p.status |= 0x80
			if p.nmiOutput {
				nmiFired = true
			}
		}
		if p.mask&0x18 != 0 && p.scanline < 240 {
			p.clockMapperIRQForScanline()
		}
	}
	p.oddFrame = !p.oddFrame
	return nmiFired
}

// clockMapperIRQForScanline approximates the two A12 toggles MMC3
// observes per rendered scanline (the pre-render line and the 240
// visible lines; one sprite-fetch, one background
// tile-fetch phase) without simulating per-dot pattern fetches.
func (p *PPU) clockMapperIRQForScanline() {
	p.cart.NotifyA12(false)
	p.cart.NotifyA12(true)
}

func (p *PPU) renderScanline(line int) {
	if p.mask&0x10 != 0 {
		spriteHeight := 8
		if p.ctrl&0x20 != 0 {
			spriteHeight = 16
		}
		inRange := 0
		for i := 0; i < 256; i += 4 {
			if sy := int(p.oam[i]); line >= sy && line < sy+spriteHeight {
				inRange++
			}
		}
		if inRange > 8 {
			p.spriteOverflow = true
			p.status |= 0x20
		}
	}
	coarseY := (p.scrollY() + line) / 8 % 30
	for col := 0; col < 256; col++ {
		coarseX := (p.scrollX() + col) / 8 % 32
		tileX := (p.scrollX() + col) % 8
		tileY := (p.scrollY() + line) % 8

		nametableBase := uint16(0x2000)
		ntIndex := coarseY*32 + coarseX
		tileID := p.readVRAM(nametableBase + uint16(ntIndex))

		attrIndex := (coarseY/4)*8 + coarseX/4
		attr := p.readVRAM(nametableBase + 0x3C0 + uint16(attrIndex))
		shift := uint((coarseY%4)/2*4 + (coarseX%4)/2*2)
		paletteHi := (attr >> shift) & 0x03

		patternBase := uint16(0)
		if p.ctrl&0x10 != 0 {
			patternBase = 0x1000
		}
		lo := p.cart.ReadCHR(patternBase + uint16(tileID)*16 + uint16(tileY))
		hi := p.cart.ReadCHR(patternBase + uint16(tileID)*16 + uint16(tileY) + 8)
		bit := 7 - tileX
		pixel := ((lo>>uint(bit))&1)|((hi>>uint(bit))&1)<<1

		var colorIndex uint16
		if pixel == 0 {
			colorIndex = 0
		} else {
			colorIndex = uint16(paletteHi)*4 + uint16(pixel)
		}
		nesColor := p.paletteRAM[p.paletteIndex(0x3F00+colorIndex)]

		if p.mask&0x10 != 0 {
			p.compositeSprite(col, line, pixel, nesColor)
		} else {
			p.frame[line*256+col] = video.NESPalette[nesColor&0x3F]
		}
	}
}

func (p *PPU) scrollX() int { return int(p.t&0x1F) * 8 }
func (p *PPU) scrollY() int { return int((p.t>>5)&0x1F) * 8 }

// compositeSprite overlays the higher-priority of background/sprite
// pixels and flags sprite-0 hit when both are opaque at (col, line).
func (p *PPU) compositeSprite(col, line int, bgPixel uint8, bgColor uint8) {
	spriteHeight := 8
	if p.ctrl&0x20 != 0 {
		spriteHeight = 16
	}

	drawn := 0
	finalColor := bgColor
	for i := 0; i < 256 && drawn < 8; i += 4 {
		sy := int(p.oam[i])
		if line < sy || line >= sy+spriteHeight {
			continue
		}
		sx := int(p.oam[i+3])
		if col < sx || col >= sx+8 {
			continue
		}
		drawn++

		tileIndex := p.oam[i+1]
		attr := p.oam[i+2]
		row := line - sy
		if attr&0x80 != 0 {
			row = spriteHeight - 1 - row
		}
		patternBase := uint16(0)
		if spriteHeight == 8 && p.ctrl&0x08 != 0 {
			patternBase = 0x1000
		}
		lo := p.cart.ReadCHR(patternBase + uint16(tileIndex)*16 + uint16(row))
		hi := p.cart.ReadCHR(patternBase + uint16(tileIndex)*16 + uint16(row) + 8)
		colInSprite := col - sx
		if attr&0x40 == 0 {
			colInSprite = 7 - colInSprite
		}
		bit := uint(colInSprite)
		sp := ((lo>>bit)&1)|((hi>>bit)&1)<<1
		if sp == 0 {
			continue
		}

		if i == 0 && bgPixel != 0 {
			p.sprite0Hit = true
			p.status |= 0x40
		}

		if bgPixel != 0 && attr&0x20 != 0 {
			break // background has priority
		}
		paletteHi := attr & 0x03
		spriteColor := p.paletteRAM[p.paletteIndex(0x3F10+uint16(paletteHi)*4+uint16(sp))]
		finalColor = spriteColor
		break
	}
	p.frame[line*256+col] = video.NESPalette[finalColor&0x3F]
}

func (p *PPU) statusBits() (nmi, sprite0, overflow bool) {
	return p.status&0x80 != 0, p.sprite0Hit, p.spriteOverflow
}

type ppuState struct {
	Ctrl, Mask, Status uint8
	OAMAddr            uint8
	V, T               uint16
	X                  uint8
	W                  bool
	ReadBuffer         uint8
	VRAM               [0x1000]uint8
	PaletteRAM         [32]uint8
	OAM                [256]uint8
	Scanline           int
	OddFrame           bool
}

func (p *PPU) getState() ppuState {
	return ppuState{
		Ctrl: p.ctrl, Mask: p.mask, Status: p.status, OAMAddr: p.oamAddr,
		V: p.v, T: p.t, X: p.x, W: p.w, ReadBuffer: p.readBuffer,
		VRAM: p.vram, PaletteRAM: p.paletteRAM, OAM: p.oam,
		Scanline: p.scanline, OddFrame: p.oddFrame,
	}
}

func (p *PPU) setState(s ppuState) {
	p.ctrl, p.mask, p.status, p.oamAddr = s.Ctrl, s.Mask, s.Status, s.OAMAddr
	p.v, p.t, p.x, p.w, p.readBuffer = s.V, s.T, s.X, s.W, s.ReadBuffer
	p.vram, p.paletteRAM, p.oam = s.VRAM, s.PaletteRAM, s.OAM
	p.scanline, p.oddFrame = s.Scanline, s.OddFrame
}
