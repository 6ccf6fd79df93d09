package snes

import "testing"

func TestPPUBackdropFromCGRAMEntryZero(t *testing.T) {
	var p ppu
	p.WriteReg(0x21, 0) // CGADD = 0
	p.WriteReg(0x22, 0x1F)
	p.WriteReg(0x22, 0x00) // pure red in BGR555
	frame := p.render()
	want := bgr555ToARGB(0x001F)
	if frame[0] != want {
		t.Fatalf("backdrop = %#x, want %#x", frame[0], want)
	}
}

func TestPPUVRAMWriteReadRoundTrips(t *testing.T) {
	var p ppu
	p.WriteReg(0x15, 0x00) // increment by 1
	p.WriteReg(0x16, 0x10) // VMADDL
	p.WriteReg(0x17, 0x00) // VMADDH
	p.WriteReg(0x18, 0xCD)
	p.WriteReg(0x19, 0xAB)
	if p.vram[0x0010] != 0xABCD {
		t.Fatalf("vram[0x10] = %#x, want 0xABCD", p.vram[0x0010])
	}
}

func TestBGR555ToARGBWhite(t *testing.T) {
	if got := bgr555ToARGB(0x7FFF); got != 0xFFF8F8F8 {
		t.Fatalf("white conversion = %#x", got)
	}
}
