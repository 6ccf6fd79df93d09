package pc

// generateMinimalBIOS builds a 64KiB BIOS image whose only job is to
// get a loaded COM-style program running: it initializes DS/ES/SS to
// segment 0, sets SP just below the loaded program, and far-jumps to
// 0000:0100 (the COM-file convention). Grounded on original_source's
// crates/systems/pc/src/bios.rs generate_minimal_bios, reworked into
// this core's cpu8086 opcode encodings rather than copied byte-for-
// byte (the original's encoding happens to be identical 8086 machine
// code, since both target the same documented reset vector and COM
// load convention).
func generateMinimalBIOS() []uint8 {
	bios := make([]uint8, 0x10000)

	// Entry point: physical 0xFFFF0 (segment 0xFFFF, offset 0), the
	// documented 8086 reset vector. Only 16 bytes are available there,
	// so it's a far jump into the real boot routine at the start of
	// the image (physical 0xF0000).
	entry := 0xFFF0
	copy(bios[entry:], []uint8{
		0xEA, 0x00, 0x00, 0x00, 0xF0, // JMP FAR F000:0000 (ip=0x0000, cs=0xF000)
	})

	boot := []uint8{
		0xFA,             // CLI
		0xB8, 0x00, 0x00, // MOV AX, 0
		0x8E, 0xD8, // MOV DS, AX
		0x8E, 0xC0, // MOV ES, AX
		0x8E, 0xD0, // MOV SS, AX
		0xBC, 0xFE, 0xFF, // MOV SP, 0xFFFE
		0xFB,             // STI
		0xEA, 0x00, 0x01, 0x00, 0x00, // JMP FAR 0000:0100
	}
	copy(bios, boot)

	copy(bios[0xFFF5:], []uint8("01/01/88"))
	bios[0xFFFE] = 0xFE // system model: PC/XT

	return bios
}
