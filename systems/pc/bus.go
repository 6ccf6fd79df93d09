package pc

// Physical memory map (20-bit real-mode address space): conventional
// RAM for the bottom 640KiB, CGA text-mode VRAM's conventional B8000
// window, and a 64KiB BIOS image at the top of the first megabyte
// ending at the 8086 reset vector (0xFFFF0), per spec §4.1.4 and
// original_source's bios.rs layout.
const (
	vramBase = 0xB8000
	biosBase = 0xF0000

	// keyboardAddr mirrors the BIOS data area's real-mode keyboard
	// buffer head (0040:001A) closely enough to give a program a fixed,
	// documented place to poll the latest scancode without IN/OUT.
	keyboardAddr = 0x41A
)

// bus implements cpu8086.Memory. Port-mapped I/O (IN/OUT) is out of
// scope for this core's reduced opcode set; the keyboard is exposed
// as a memory-mapped scancode latch instead, a simplification this
// core documents rather than hides.
type bus struct {
	ram  [0x100000]uint8
	bios []uint8

	ctrl controller
}

func newBus() *bus {
	return &bus{bios: generateMinimalBIOS()}
}

// loadProgram places a raw COM-style binary at the conventional DOS
// load address 0000:0100, matching the BIOS's boot jump target.
func (b *bus) loadProgram(data []uint8) {
	copy(b.ram[0x100:], data)
}

func (b *bus) Read8(addr uint32) uint8 {
	a := addr & 0xFFFFF
	switch {
	case a >= biosBase:
		return b.bios[a-biosBase]
	case a == keyboardAddr:
		return b.ctrl.scancode
	default:
		return b.ram[a]
	}
}

func (b *bus) Write8(addr uint32, v uint8) {
	a := addr & 0xFFFFF
	if a >= biosBase {
		return // BIOS ROM: writes ignored
	}
	b.ram[a] = v
}

func (b *bus) vram() []uint8 { return b.ram[vramBase : vramBase+vramSize] }

type busState struct {
	RAM         []uint8
	KeyScancode uint8
}

func (b *bus) getState() busState {
	ram := make([]uint8, len(b.ram))
	copy(ram, b.ram[:])
	return busState{RAM: ram, KeyScancode: b.ctrl.scancode}
}

func (b *bus) setState(s busState) {
	copy(b.ram[:], s.RAM)
	b.ctrl.scancode = s.KeyScancode
}
