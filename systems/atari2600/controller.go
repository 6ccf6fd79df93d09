package atari2600

// joystick models a digital Atari CX40-style joystick: four directions
// read back through the RIOT's SWCHA port and one fire button read
// back through the TIA's INPT4/5 latch, both active-low on real
// hardware. SetController's bit layout for this system is
// {Up, Down, Left, Right, Fire} in bits 0-4.
type joystick struct {
	state uint32
}

func (j *joystick) set(state uint32) { j.state = state }

func (j *joystick) up() bool    { return j.state&0x01 != 0 }
func (j *joystick) down() bool  { return j.state&0x02 != 0 }
func (j *joystick) left() bool  { return j.state&0x04 != 0 }
func (j *joystick) right() bool { return j.state&0x08 != 0 }
func (j *joystick) fire() bool  { return j.state&0x10 != 0 }

func (j *joystick) reset() { j.state = 0 }

// swcha packs both joysticks' direction bits into the RIOT SWCHA
// byte: P0 in the high nibble, P1 in the low nibble, each ordered
// Right,Left,Down,Up from bit 3 down to bit 0 of its nibble, all
// active-low.
func swcha(p0, p1 *joystick) uint8 {
	var v uint8 = 0xFF
	if p0.right() {
		v &^= 0x80
	}
	if p0.left() {
		v &^= 0x40
	}
	if p0.down() {
		v &^= 0x20
	}
	if p0.up() {
		v &^= 0x10
	}
	if p1.right() {
		v &^= 0x08
	}
	if p1.left() {
		v &^= 0x04
	}
	if p1.down() {
		v &^= 0x02
	}
	if p1.up() {
		v &^= 0x01
	}
	return v
}

// inpt returns the fire-button latch value for the TIA's INPT4/INPT5
// ports: bit 7 clear while held, set otherwise.
func inpt(j *joystick) uint8 {
	if j.fire() {
		return 0x00
	}
	return 0x80
}
