package snes

// controller packs a 16-bit SNES joypad report, bit positions per
// spec §5's documented layout (A=7, B=15, Select=13, Start=12, Up=11,
// Down=10, Left=9, Right=8, X=6, Y=14, L=5, R=4). Grounded on the NES
// controller's bit-shift-register style (systems/nes/controller.go)
// generalized from 8 to 16 bits.
type controller struct {
	state uint16
}

func (c *controller) setState(state uint32) {
	c.state = uint16(state)
}

func (c *controller) reset() {
	c.state = 0
}

// report returns the 16-bit value the auto-joypad-read registers
// would latch, already in the documented bit order.
func (c *controller) report() uint16 {
	return c.state
}
