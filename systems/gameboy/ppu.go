package gameboy

import "github.com/hemu/hemucore/core/video"

// PPU implements the DMG LCD controller at scanline granularity (the
// same simplification spec §9's open question sanctions for the NES
// PPU): background, window and up to 10 sprites per line, composited
// once per scanline into the framebuffer rather than dot-by-dot.
// Mode timing (OAM-scan/pixel-transfer/hblank/vblank) still advances
// per dot so STAT interrupts and LY/LYC fire at the right cycle.
type PPU struct {
	vram [0x2000]uint8
	oam  [0xA0]uint8

	lcdc, stat        uint8
	scy, scx          uint8
	ly, lyc           uint8
	bgp, obp0, obp1   uint8
	wy, wx            uint8

	dot int

	frame [160 * 144]uint32

	ifRequest uint8 // bits this PPU wants OR'd into IF this tick
}

func newPPU() *PPU {
	return &PPU{lcdc: 0x91, bgp: 0xFC, obp0: 0xFF, obp1: 0xFF}
}

func (p *PPU) reset() {
	*p = PPU{lcdc: 0x91, bgp: 0xFC, obp0: 0xFF, obp1: 0xFF}
}

const (
	modeHBlank = 0
	modeVBlank = 1
	modeOAM    = 2
	modeVRAM   = 3
)

func (p *PPU) mode() uint8 { return p.stat & 0x03 }

func (p *PPU) setMode(m uint8) {
	p.stat = p.stat&0xFC | m
	switch m {
	case modeHBlank:
		if p.stat&0x08 != 0 {
			p.ifRequest |= 0x02
		}
	case modeOAM:
		if p.stat&0x20 != 0 {
			p.ifRequest |= 0x02
		}
	case modeVBlank:
		if p.stat&0x10 != 0 {
			p.ifRequest |= 0x02
		}
	}
}

// TakeIF returns and clears any interrupt-request bits this PPU has
// raised since the last call (the host bus ORs this into IF).
func (p *PPU) TakeIF() uint8 {
	v := p.ifRequest
	p.ifRequest = 0
	return v
}

// Step advances the LCD controller by one CPU cycle (4.194304MHz,
// same clock the CPU core counts in). Returns true on the dot the
// frame becomes complete (LY transitions to 144).
func (p *PPU) Step() (frameDone bool) {
	if p.lcdc&0x80 == 0 {
		return false
	}
	p.dot++
	if p.dot < 456 {
		if p.dot == 80 && p.ly < 144 {
			p.setMode(modeVRAM)
		} else if p.dot == 252 && p.ly < 144 {
			p.setMode(modeHBlank)
			p.renderScanline()
		}
		return false
	}
	p.dot = 0
	p.ly++
	if p.ly == 144 {
		p.setMode(modeVBlank)
		p.ifRequest |= 0x01
		frameDone = true
	} else if p.ly > 153 {
		p.ly = 0
		p.setMode(modeOAM)
	} else if p.ly < 144 {
		p.setMode(modeOAM)
	}
	p.checkLYC()
	return frameDone
}

func (p *PPU) checkLYC() {
	if p.ly == p.lyc {
		p.stat |= 0x04
		if p.stat&0x40 != 0 {
			p.ifRequest |= 0x02
		}
	} else {
		p.stat &^= 0x04
	}
}

func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

func (p *PPU) WriteRegister(addr uint16, v uint8) {
	switch addr {
	case 0xFF40:
		p.lcdc = v
		if v&0x80 == 0 {
			p.ly, p.dot = 0, 0
			p.setMode(modeHBlank)
		}
	case 0xFF41:
		p.stat = p.stat&0x07 | v&0xF8
	case 0xFF42:
		p.scy = v
	case 0xFF43:
		p.scx = v
	case 0xFF45:
		p.lyc = v
	case 0xFF47:
		p.bgp = v
	case 0xFF48:
		p.obp0 = v
	case 0xFF49:
		p.obp1 = v
	case 0xFF4A:
		p.wy = v
	case 0xFF4B:
		p.wx = v
	}
}

func (p *PPU) readVRAM(addr uint16) uint8  { return p.vram[addr&0x1FFF] }
func (p *PPU) writeVRAM(addr uint16, v uint8) { p.vram[addr&0x1FFF] = v }
func (p *PPU) readOAM(addr uint8) uint8    { return p.oam[addr] }
func (p *PPU) writeOAM(addr uint8, v uint8) { p.oam[addr] = v }

func applyPalette(reg uint8, idx uint8) uint32 {
	shade := (reg >> (idx * 2)) & 0x03
	return video.DMGPalette[shade]
}

// renderScanline composites background, window and sprites for the
// current LY into the framebuffer, per spec §4.4's scanline-
// granularity simplification.
func (p *PPU) renderScanline() {
	y := int(p.ly)
	if y >= 144 {
		return
	}
	bgIdx := [160]uint8{}

	if p.lcdc&0x01 != 0 {
		mapBase := uint16(0x1800)
		if p.lcdc&0x08 != 0 {
			mapBase = 0x1C00
		}
		tileY := (int(p.scy) + y) & 0xFF
		row := tileY / 8
		fineY := tileY % 8
		for x := 0; x < 160; x++ {
			tileX := (int(p.scx) + x) & 0xFF
			col := tileX / 8
			fineX := tileX % 8
			tileIdx := p.vram[mapBase+uint16(row*32+col)]
			lo, hi := p.tileRow(tileIdx, fineY)
			shade := pixelBit(lo, hi, fineX)
			bgIdx[x] = shade
			p.setFramePixel(x, y, applyPalette(p.bgp, shade))
		}
	} else {
		for x := 0; x < 160; x++ {
			p.setFramePixel(x, y, video.DMGPalette[0])
		}
	}

	if p.lcdc&0x20 != 0 && y >= int(p.wy) {
		mapBase := uint16(0x1800)
		if p.lcdc&0x40 != 0 {
			mapBase = 0x1C00
		}
		winY := y - int(p.wy)
		row := winY / 8
		fineY := winY % 8
		for x := 0; x < 160; x++ {
			px := int(p.wx) - 7 + x
			if px < 0 || px >= 160 {
				continue
			}
			col := x / 8
			fineX := x % 8
			tileIdx := p.vram[mapBase+uint16(row*32+col)]
			lo, hi := p.tileRow(tileIdx, fineY)
			shade := pixelBit(lo, hi, fineX)
			bgIdx[px] = shade
			p.setFramePixel(px, y, applyPalette(p.bgp, shade))
		}
	}

	if p.lcdc&0x02 != 0 {
		p.renderSprites(y, bgIdx)
	}
}

func (p *PPU) tileRow(tileIdx uint8, fineY int) (uint8, uint8) {
	var base uint16
	if p.lcdc&0x10 != 0 {
		base = uint16(tileIdx) * 16
	} else {
		base = uint16(0x1000 + int16(int8(tileIdx))*16)
	}
	off := base + uint16(fineY*2)
	return p.vram[off], p.vram[off+1]
}

func pixelBit(lo, hi uint8, fineX int) uint8 {
	shift := uint(7 - fineX)
	return ((lo>>shift)&1 | ((hi>>shift)&1)<<1)
}

func (p *PPU) renderSprites(y int, bgIdx [160]uint8) {
	spriteHeight := 8
	if p.lcdc&0x04 != 0 {
		spriteHeight = 16
	}
	type spr struct {
		x, tile, attr uint8
		oamIdx        int
	}
	var visible []spr
	for i := 0; i < 40 && len(visible) < 10; i++ {
		sy := int(p.oam[i*4]) - 16
		if y < sy || y >= sy+spriteHeight {
			continue
		}
		visible = append(visible, spr{
			x:      p.oam[i*4+1],
			tile:   p.oam[i*4+2],
			attr:   p.oam[i*4+3],
			oamIdx: i,
		})
	}
	// lower OAM index draws on top for equal X, per hardware priority;
	// iterate in reverse so earlier entries overwrite later ones.
	for i := len(visible) - 1; i >= 0; i-- {
		s := visible[i]
		sx := int(s.x) - 8
		sy := int(p.oam[s.oamIdx*4]) - 16
		row := y - sy
		if s.attr&0x40 != 0 {
			row = spriteHeight - 1 - row
		}
		tile := s.tile
		if spriteHeight == 16 {
			tile &^= 0x01
		}
		base := uint16(tile)*16 + uint16(row*2)
		lo, hi := p.vram[base], p.vram[base+1]
		pal := p.obp0
		if s.attr&0x10 != 0 {
			pal = p.obp1
		}
		for px := 0; px < 8; px++ {
			fineX := px
			if s.attr&0x20 != 0 {
				fineX = 7 - px
			}
			shade := pixelBit(lo, hi, fineX)
			if shade == 0 {
				continue
			}
			screenX := sx + px
			if screenX < 0 || screenX >= 160 {
				continue
			}
			if s.attr&0x80 != 0 && bgIdx[screenX] != 0 {
				continue // behind background
			}
			p.setFramePixel(screenX, y, applyPalette(pal, shade))
		}
	}
}

func (p *PPU) setFramePixel(x, y int, c uint32) {
	p.frame[y*160+x] = c
}

type ppuState struct {
	VRAM                    [0x2000]uint8
	OAM                     [0xA0]uint8
	LCDC, STAT              uint8
	SCY, SCX                uint8
	LY, LYC                 uint8
	BGP, OBP0, OBP1         uint8
	WY, WX                  uint8
	Dot                     int
}

func (p *PPU) getState() ppuState {
	return ppuState{
		VRAM: p.vram, OAM: p.oam,
		LCDC: p.lcdc, STAT: p.stat,
		SCY: p.scy, SCX: p.scx,
		LY: p.ly, LYC: p.lyc,
		BGP: p.bgp, OBP0: p.obp0, OBP1: p.obp1,
		WY: p.wy, WX: p.wx,
		Dot: p.dot,
	}
}

func (p *PPU) setState(s ppuState) {
	p.vram, p.oam = s.VRAM, s.OAM
	p.lcdc, p.stat = s.LCDC, s.STAT
	p.scy, p.scx = s.SCY, s.SCX
	p.ly, p.lyc = s.LY, s.LYC
	p.bgp, p.obp0, p.obp1 = s.BGP, s.OBP0, s.OBP1
	p.wy, p.wx = s.WY, s.WX
	p.dot = s.Dot
}
