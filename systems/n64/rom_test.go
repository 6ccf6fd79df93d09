package n64

import "testing"

func makeROM(magic [4]uint8) []uint8 {
	data := make([]uint8, 0x1000)
	copy(data[0:4], magic[:])
	data[4] = 0x42
	return data
}

func TestParseROMBigEndianPassesThrough(t *testing.T) {
	rom, err := ParseROM(makeROM([4]uint8{0x80, 0x37, 0x12, 0x40}))
	if err != nil {
		t.Fatal(err)
	}
	if rom.Data[0] != 0x80 || rom.Data[4] != 0x42 {
		t.Fatalf("unexpected ROM bytes: %v", rom.Data[:8])
	}
}

func TestParseROMLittleEndianConverts(t *testing.T) {
	rom, err := ParseROM(makeROM([4]uint8{0x40, 0x12, 0x37, 0x80}))
	if err != nil {
		t.Fatal(err)
	}
	if rom.Data[0] != 0x80 || rom.Data[1] != 0x37 || rom.Data[2] != 0x12 || rom.Data[3] != 0x40 {
		t.Fatalf("not converted to big-endian: %v", rom.Data[:4])
	}
}

func TestParseROMMiddleEndianConverts(t *testing.T) {
	rom, err := ParseROM(makeROM([4]uint8{0x37, 0x80, 0x40, 0x12}))
	if err != nil {
		t.Fatal(err)
	}
	if rom.Data[0] != 0x80 || rom.Data[1] != 0x37 || rom.Data[2] != 0x12 || rom.Data[3] != 0x40 {
		t.Fatalf("not converted to big-endian: %v", rom.Data[:4])
	}
}

func TestParseROMBadMagicIsStructuralError(t *testing.T) {
	_, err := ParseROM(makeROM([4]uint8{0, 0, 0, 0}))
	if err == nil {
		t.Fatal("expected structural error for bad magic")
	}
}

func TestParseROMTooSmall(t *testing.T) {
	_, err := ParseROM(make([]uint8, 16))
	if err == nil {
		t.Fatal("expected structural error for undersized ROM")
	}
}
