package atari2600

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
	if fb == nil {
		t.Fatal("expected a framebuffer even when nothing is mounted")
	}
}

func TestMountUnknownSlotIsMountError(t *testing.T) {
	s := New()
	if err := s.Mount("tape", make([]byte, 2048)); err == nil {
		t.Fatal("expected mount error for unknown slot")
	}
}
