package pc

import "testing"

func TestNewSystemExposesProgramMountPoint(t *testing.T) {
	s := New()
	mps := s.MountPoints()
	if len(mps) != 1 || mps[0].ID != "program" {
		t.Fatalf("unexpected mount points: %+v", mps)
	}
}

func TestStepFrameWithoutMountIsNoop(t *testing.T) {
	s := New()
	fb := s.StepFrame()
	if fb.Width != fbWidth || fb.Height != fbHeight {
		t.Fatalf("unexpected framebuffer size: %dx%d", fb.Width, fb.Height)
	}
}

func TestMountUnknownSlotIsMountError(t *testing.T) {
	s := New()
	if err := s.Mount("cassette", []byte{0x90}); err == nil {
		t.Fatal("expected mount error for unknown slot")
	}
}

func TestMountEmptyProgramIsStructuralError(t *testing.T) {
	s := New()
	if err := s.Mount("program", nil); err == nil {
		t.Fatal("expected structural error for empty program")
	}
}

// TestBootRunsToHalt loads a COM-style program (mov ax,1; hlt) at 0000:0100
// and checks a few frames bring the CPU to the halted state through the
// BIOS boot path rather than crashing or looping indefinitely.
func TestBootRunsToHalt(t *testing.T) {
	program := []uint8{
		0xB8, 0x01, 0x00, // MOV AX, 1
		0xF4, // HLT
	}
	s := New()
	if err := s.Mount("program", program); err != nil {
		t.Fatal(err)
	}
	s.StepFrame()
	if !s.cpu.Halted() {
		t.Fatal("expected CPU to reach HLT")
	}
	if s.cpu.AX != 1 {
		t.Fatalf("AX = %d, want 1", s.cpu.AX)
	}
}

func TestSaveLoadStateRoundTrips(t *testing.T) {
	s := New()
	if err := s.Mount("program", []uint8{0xF4}); err != nil {
		t.Fatal(err)
	}
	s.StepFrame()
	saved, err := s.SaveState()
	if err != nil {
		t.Fatal(err)
	}

	s2 := New()
	if err := s2.LoadState(saved); err != nil {
		t.Fatal(err)
	}
	if !s2.cpu.Halted() {
		t.Fatal("expected restored CPU to be halted")
	}
}
