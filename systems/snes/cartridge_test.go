package snes

import "testing"

func TestCartridgeLoROMAddressTranslation(t *testing.T) {
	data := makeLoROM(0x8000)
	data[0x0000] = 0xAB
	rom, err := ParseROM(data)
	if err != nil {
		t.Fatal(err)
	}
	c := NewCartridge(rom)
	if got := c.Read8(0x00, 0x8000); got != 0xAB {
		t.Fatalf("bank 0 offset 0x8000 = %#x, want 0xAB", got)
	}
}

func TestCartridgeSRAMWriteReadRoundTrips(t *testing.T) {
	data := makeLoROM(0x8000)
	data[loROMHeaderOffset+0x15] = 0x22 // LoROM + battery
	checksum := uint16(0x1234)
	complement := checksum ^ 0xFFFF
	data[loROMHeaderOffset+0x1C] = uint8(complement)
	data[loROMHeaderOffset+0x1D] = uint8(complement >> 8)
	data[loROMHeaderOffset+0x1E] = uint8(checksum)
	data[loROMHeaderOffset+0x1F] = uint8(checksum >> 8)

	rom, err := ParseROM(data)
	if err != nil {
		t.Fatal(err)
	}
	if !rom.HasBattery {
		t.Fatal("expected battery flag set")
	}
	c := NewCartridge(rom)
	c.Write8(0x70, 0x0010, 0x42)
	if got := c.Read8(0x70, 0x0010); got != 0x42 {
		t.Fatalf("SRAM round trip failed, got %#x", got)
	}
}
