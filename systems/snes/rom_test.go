package snes

import "testing"

func makeLoROM(size int) []uint8 {
	data := make([]uint8, size)
	const off = loROMHeaderOffset
	copy(data[off:off+21], []byte("TEST GAME            "))
	data[off+0x15] = 0x20 // LoROM, no battery
	checksum := uint16(0x1234)
	complement := checksum ^ 0xFFFF
	data[off+0x1C] = uint8(complement)
	data[off+0x1D] = uint8(complement >> 8)
	data[off+0x1E] = uint8(checksum)
	data[off+0x1F] = uint8(checksum >> 8)
	return data
}

func TestParseROMDetectsLoROM(t *testing.T) {
	rom, err := ParseROM(makeLoROM(0x8000))
	if err != nil {
		t.Fatal(err)
	}
	if rom.Mapping != LoROM {
		t.Fatalf("expected LoROM, got %v", rom.Mapping)
	}
}

func TestParseROMRejectsBadChecksum(t *testing.T) {
	data := make([]uint8, 0x8000)
	_, err := ParseROM(data)
	if err == nil {
		t.Fatal("expected structural error for invalid header checksum")
	}
}

func TestParseROMTooSmall(t *testing.T) {
	_, err := ParseROM(make([]uint8, 16))
	if err == nil {
		t.Fatal("expected structural error for undersized ROM")
	}
}

func TestParseROMStripsCopierHeader(t *testing.T) {
	inner := makeLoROM(0x8000)
	withCopier := make([]uint8, 0x200+len(inner))
	copy(withCopier[0x200:], inner)
	rom, err := ParseROM(withCopier)
	if err != nil {
		t.Fatal(err)
	}
	if rom.Mapping != LoROM {
		t.Fatalf("expected LoROM after stripping copier header, got %v", rom.Mapping)
	}
}
