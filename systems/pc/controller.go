package pc

// controller models a minimal keyboard input device: the low byte of
// SetController's state is latched as the current scancode, which the
// bus exposes to any code polling the keyboard the way port I/O would
// on real hardware (see bus.go's documented IN/OUT simplification).
type controller struct {
	scancode uint8
}

func (c *controller) setState(state uint32) {
	c.scancode = uint8(state & 0xFF)
}

func (c *controller) reset() {
	c.scancode = 0
}
