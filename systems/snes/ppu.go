package snes

// ppu is a reduced-fidelity stand-in for the SNES's tile/sprite
// renderer. The original Rust SNES system's own PPU rendering
// delegates to an un-retrieved ppu.render_frame() (original_source's
// crates/systems/snes/src/ppu_renderer.rs), so this core does not
// have a byte-accurate reference to port; instead it implements the
// part of the register contract a program can observe and verify
// (CGRAM/VRAM access ports, the backdrop color, BG1 in 4bpp mode)
// and renders BG1 as a flat tile layer, matching spec §1's explicit
// scope reduction for "simplified but observably correct" PPU/VDP
// output rather than cycle/dot-accurate rendering.
const (
	snesWidth, snesHeight = 256, 224

	vramWords = 0x8000 // 64KiB as 32768 16-bit words
	cgramSize = 256     // 256 BGR555 color entries
)

type ppu struct {
	vram  [vramWords]uint16
	cgram [cgramSize]uint16

	vmaddr  uint16
	vmIncr  uint16
	vmLatch bool

	cgaddr uint8
	cgLow  bool
	cgBuf  uint8

	inidisp uint8
	bgMode  uint8
	tm      uint8
	bg1sc   uint8
	bg12nba uint8

	frame [snesWidth * snesHeight]uint32
}

// WriteReg handles a write to one of the $2100-$213F PPU registers
// the CPU bus decodes and forwards here.
func (p *ppu) WriteReg(reg uint8, v uint8) {
	switch reg {
	case 0x00:
		p.inidisp = v
	case 0x05:
		p.bgMode = v
	case 0x07:
		p.bg1sc = v
	case 0x0B:
		p.bg12nba = v
	case 0x0C:
		// ignored: BG3/4 tilemap base, out of scope for BG1-only rendering.
	case 0x15:
		p.vmIncr = incrementFor(v)
	case 0x16:
		p.vmaddr = (p.vmaddr & 0xFF00) | uint16(v)
	case 0x17:
		p.vmaddr = (p.vmaddr & 0x00FF) | uint16(v)<<8
	case 0x18:
		p.vram[p.vmaddr&(vramWords-1)] = (p.vram[p.vmaddr&(vramWords-1)] & 0xFF00) | uint16(v)
	case 0x19:
		p.vram[p.vmaddr&(vramWords-1)] = (p.vram[p.vmaddr&(vramWords-1)] & 0x00FF) | uint16(v)<<8
		p.vmaddr += p.vmIncr
	case 0x2C:
		p.tm = v
	case 0x21:
		p.cgaddr = v
		p.cgLow = true
	case 0x22:
		if p.cgLow {
			p.cgBuf = v
			p.cgLow = false
		} else {
			color := uint16(p.cgBuf) | uint16(v&0x7F)<<8
			p.cgram[p.cgaddr] = color
			p.cgaddr++
			p.cgLow = true
		}
	}
}

func incrementFor(v uint8) uint16 {
	switch v & 0x03 {
	case 0:
		return 1
	case 1:
		return 32
	default:
		return 128
	}
}

// render produces a full framebuffer: the CGRAM backdrop color (entry
// 0) everywhere, with BG1 drawn as 8x8, 4bpp tiles when the main
// screen designation register enables it.
func (p *ppu) render() []uint32 {
	backdrop := bgr555ToARGB(p.cgram[0])
	for i := range p.frame {
		p.frame[i] = backdrop
	}
	if p.tm&0x01 == 0 {
		return p.frame[:]
	}

	tilemapBase := uint16(p.bg1sc&0xFC) << 8
	charBase := uint16(p.bg12nba&0x0F) << 12

	const tilesPerRow = 32
	for ty := 0; ty < snesHeight/8; ty++ {
		for tx := 0; tx < snesWidth/8; tx++ {
			entry := p.vram[(tilemapBase+uint16(ty*tilesPerRow+tx))&(vramWords-1)]
			tileIdx := entry & 0x03FF
			paletteGroup := uint8((entry >> 10) & 0x07)
			p.drawTile(tx*8, ty*8, charBase, tileIdx, paletteGroup)
		}
	}
	return p.frame[:]
}

// drawTile renders one 8x8 4bpp planar tile at the given pixel origin.
func (p *ppu) drawTile(ox, oy int, charBase, tileIdx uint16, paletteGroup uint8) {
	wordsPerTile := uint16(16) // 4bpp: 8 rows x 2 words (4 bitplanes packed 2/word)
	base := charBase + tileIdx*wordsPerTile
	for row := 0; row < 8; row++ {
		p0 := p.vram[(base+uint16(row))&(vramWords-1)]
		p1 := p.vram[(base+uint16(row)+8)&(vramWords-1)]
		lo0, hi0 := uint8(p0), uint8(p0>>8)
		lo1, hi1 := uint8(p1), uint8(p1>>8)
		for col := 0; col < 8; col++ {
			bit := 7 - col
			idx := bitAt(lo0, bit) | bitAt(hi0, bit)<<1 | bitAt(lo1, bit)<<2 | bitAt(hi1, bit)<<3
			if idx == 0 {
				continue // transparent: backdrop shows through
			}
			color := p.cgram[uint16(paletteGroup)*16+uint16(idx)]
			x, y := ox+col, oy+row
			if x >= 0 && x < snesWidth && y >= 0 && y < snesHeight {
				p.frame[y*snesWidth+x] = bgr555ToARGB(color)
			}
		}
	}
}

func bitAt(b uint8, pos int) uint8 {
	return (b >> uint(pos)) & 1
}

func bgr555ToARGB(c uint16) uint32 {
	r := uint32(c&0x1F) << 3
	g := uint32((c>>5)&0x1F) << 3
	b := uint32((c>>10)&0x1F) << 3
	return 0xFF000000 | r<<16 | g<<8 | b
}

type ppuState struct {
	VRAM    [vramWords]uint16
	CGRAM   [cgramSize]uint16
	VMAddr  uint16
	VMIncr  uint16
	CGAddr  uint8
	CGLow   bool
	CGBuf   uint8
	Inidisp uint8
	BGMode  uint8
	TM      uint8
	BG1SC   uint8
	BG12NBA uint8
}

func (p *ppu) getState() ppuState {
	return ppuState{
		VRAM: p.vram, CGRAM: p.cgram, VMAddr: p.vmaddr, VMIncr: p.vmIncr,
		CGAddr: p.cgaddr, CGLow: p.cgLow, CGBuf: p.cgBuf,
		Inidisp: p.inidisp, BGMode: p.bgMode, TM: p.tm, BG1SC: p.bg1sc, BG12NBA: p.bg12nba,
	}
}

func (p *ppu) setState(s ppuState) {
	p.vram, p.cgram = s.VRAM, s.CGRAM
	p.vmaddr, p.vmIncr = s.VMAddr, s.VMIncr
	p.cgaddr, p.cgLow, p.cgBuf = s.CGAddr, s.CGLow, s.CGBuf
	p.inidisp, p.bgMode, p.tm, p.bg1sc, p.bg12nba = s.Inidisp, s.BGMode, s.TM, s.BG1SC, s.BG12NBA
}
