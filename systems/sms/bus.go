package sms

import "github.com/hemu/hemucore/core/psg"

// bus implements cpuz80.Memory: $0000-$BFFF cartridge (banked through
// Cartridge), $C000-$FFFF 8KiB work RAM mirrored twice, and the
// mirrored bank-select bytes at the top of RAM ($FFFC-$FFFE) that
// reprogram the cartridge's three slots, grounded on the reference
// SMS bus's `update_banking` (spec §4.3's "any bank index... reduced
// modulo the number of physical banks" invariant applied here too).
// I/O ports route to the VDP ($BE/$BF), PSG ($7E/$7F) and controller
// ports ($DC/$DD), per the reference bus's port map.
type bus struct {
	ram  [0x2000]uint8
	vdp  *VDP
	psg  *psg.PSG
	cart *Cartridge

	controllers [2]controller
}

func newBus(cart *Cartridge) *bus {
	return &bus{vdp: newVDP(), psg: psg.New(3579545), cart: cart}
}

func (b *bus) Read(addr uint16) uint8 {
	if addr < 0xC000 {
		if b.cart != nil {
			return b.cart.Read(addr)
		}
		return 0xFF
	}
	return b.ram[addr&0x1FFF]
}

func (b *bus) Write(addr uint16, value uint8) {
	if addr < 0xC000 {
		return // cartridge ROM region: ignore writes (no on-cart RAM modeled)
	}
	b.ram[addr&0x1FFF] = value
	if b.cart == nil {
		return
	}
	switch addr & 0x1FFF {
	case 0x1FFC:
		b.cart.SetBank(0, value)
	case 0x1FFD:
		b.cart.SetBank(1, value)
	case 0x1FFE:
		b.cart.SetBank(2, value)
	}
}

func (b *bus) IOIn(port uint8) uint8 {
	switch {
	case port == 0x7E || port == 0x7F:
		return b.vdp.ReadVCounter()
	case port == 0xBE:
		return b.vdp.ReadData()
	case port == 0xBF:
		return b.vdp.ReadStatus()
	case port == 0xDC:
		return b.controllers[0].read()
	case port == 0xDD:
		return b.controllers[1].read()
	default:
		return 0xFF
	}
}

func (b *bus) IOOut(port uint8, value uint8) {
	switch {
	case port == 0x7E || port == 0x7F:
		b.psg.Write(value)
	case port == 0xBE:
		b.vdp.WriteData(value)
	case port == 0xBF:
		b.vdp.WriteControl(value)
	}
}

type busState struct {
	RAM [0x2000]uint8
	C1  uint8
	C2  uint8
}

func (b *bus) getState() busState {
	return busState{RAM: b.ram, C1: b.controllers[0].buttons, C2: b.controllers[1].buttons}
}

func (b *bus) setState(s busState) {
	b.ram = s.RAM
	b.controllers[0].buttons = s.C1
	b.controllers[1].buttons = s.C2
}
