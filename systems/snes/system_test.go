package snes

import "testing"

func TestNewSystemExposesCartridgeMountPoint(t *testing.T) {
	s := New()
	mps := s.MountPoints()
	if len(mps) != 1 || mps[0].ID != "cartridge" {
		t.Fatalf("unexpected mount points: %+v", mps)
	}
}

func TestStepFrameWithoutMountIsNoop(t *testing.T) {
	s := New()
	fb := s.StepFrame()
	if fb.Width != width || fb.Height != height {
		t.Fatalf("unexpected framebuffer size: %dx%d", fb.Width, fb.Height)
	}
}

func TestMountInvalidCartridgeIsStructuralError(t *testing.T) {
	s := New()
	if err := s.Mount("cartridge", make([]byte, 16)); err == nil {
		t.Fatal("expected structural error for undersized cartridge")
	}
}

func TestMountUnknownSlotIsMountError(t *testing.T) {
	s := New()
	if err := s.Mount("tape", makeLoROM(0x8000)); err == nil {
		t.Fatal("expected mount error for unknown slot")
	}
}

func TestMountValidCartridgeRendersBackdrop(t *testing.T) {
	s := New()
	if err := s.Mount("cartridge", makeLoROM(0x8000)); err != nil {
		t.Fatal(err)
	}
	fb := s.StepFrame()
	if len(fb.Pix) != width*height {
		t.Fatalf("unexpected pixel count: %d", len(fb.Pix))
	}
}

func TestSaveLoadStateRoundTrips(t *testing.T) {
	s := New()
	if err := s.Mount("cartridge", makeLoROM(0x8000)); err != nil {
		t.Fatal(err)
	}
	s.StepFrame()
	saved, err := s.SaveState()
	if err != nil {
		t.Fatal(err)
	}

	s2 := New()
	if err := s2.Mount("cartridge", makeLoROM(0x8000)); err != nil {
		t.Fatal(err)
	}
	if err := s2.LoadState(saved); err != nil {
		t.Fatal(err)
	}
}

func TestSetControllerUpdatesJoypadReport(t *testing.T) {
	s := New()
	s.SetController(0, 0x0080) // A button, bit 7
	if got := s.bus.ctrl[0].report(); got != 0x0080 {
		t.Fatalf("report = %#x, want 0x0080", got)
	}
}
