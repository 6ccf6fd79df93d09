package n64

// controller models the N64 pad's digital button state plus its
// analog stick, packed into the 32-bit state SetController carries:
// bits 0-15 are the digital buttons {A,B,Z,Start,DU,DD,DL,DR,L,R,
// CU,CD,CL,CR} in the order the real joybus reply packet uses, bits
// 16-23 are the signed analog-X byte, bits 24-31 the signed analog-Y
// byte. A real N64 reads this over the serial joybus protocol; this
// core exposes it as a plain memory-mapped latch the bus's PIF stub
// serves, since the joybus's bit-level serial timing is out of scope
// for a reduced-fidelity N64 controller per SPEC_FULL.
type controller struct {
	buttons uint16
	stickX  int8
	stickY  int8
}

func (c *controller) setState(state uint32) {
	c.buttons = uint16(state)
	c.stickX = int8(uint8(state >> 16))
	c.stickY = int8(uint8(state >> 24))
}

func (c *controller) reset() { *c = controller{} }
