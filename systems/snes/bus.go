package snes

import "github.com/hemu/hemucore/core/cpu65c816"

// bus implements cpu65c816.Memory: 128KiB of work RAM at banks
// $7E-$7F (mirrored at $00-$3F/$80-$BF offsets $0000-$1FFF), the PPU
// register window at $2100-$213F, the auto-joypad-read latches at
// $4218-$421B, and the cartridge for everything else. Grounded on the
// SMS bus's "one struct owns address decoding, delegates to device
// structs" shape (systems/sms/bus.go).
type bus struct {
	wram [0x20000]uint8
	ppu  ppu
	cart *Cartridge
	ctrl [2]controller
}

func newBus(cart *Cartridge) *bus {
	return &bus{cart: cart}
}

func (b *bus) Read(addr uint32) uint8 {
	bank := uint8(addr >> 16)
	offset := uint16(addr)

	switch {
	case bank == 0x7E || bank == 0x7F:
		return b.wram[(uint32(bank-0x7E)<<16)|uint32(offset)]
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset < 0x2000:
		return b.wram[offset]
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x2100 && offset <= 0x213F:
		return 0 // PPU registers are write-only in this reduced model
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x4218 && offset <= 0x421B:
		return b.joypadByte(offset)
	default:
		if b.cart != nil {
			return b.cart.Read8(bank, offset)
		}
		return 0
	}
}

func (b *bus) Write(addr uint32, v uint8) {
	bank := uint8(addr >> 16)
	offset := uint16(addr)

	switch {
	case bank == 0x7E || bank == 0x7F:
		b.wram[(uint32(bank-0x7E)<<16)|uint32(offset)] = v
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset < 0x2000:
		b.wram[offset] = v
	case (bank <= 0x3F || (bank >= 0x80 && bank <= 0xBF)) && offset >= 0x2100 && offset <= 0x213F:
		b.ppu.WriteReg(uint8(offset-0x2100), v)
	default:
		if b.cart != nil {
			b.cart.Write8(bank, offset, v)
		}
	}
}

func (b *bus) joypadByte(offset uint16) uint8 {
	idx := int((offset - 0x4218) / 2)
	if idx > 1 {
		return 0
	}
	report := b.ctrl[idx].report()
	if offset%2 == 0 {
		return uint8(report)
	}
	return uint8(report >> 8)
}

type busState struct {
	WRAM [0x20000]uint8
	PPU  ppuState
}

func (b *bus) getState() busState {
	return busState{WRAM: b.wram, PPU: b.ppu.getState()}
}

func (b *bus) setState(s busState) {
	b.wram = s.WRAM
	b.ppu.setState(s.PPU)
}

var _ cpu65c816.Memory = (*bus)(nil)
