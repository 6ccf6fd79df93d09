package nes

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
	if err := s.Mount("expansion", make([]byte, 16)); err == nil {
		t.Fatal("expected mount error for unknown slot")
	}
}

func TestMountBadMagicIsStructuralError(t *testing.T) {
	s := New()
	if err := s.Mount("cartridge", make([]byte, 32)); err == nil {
		t.Fatal("expected structural error for a non-iNES image")
	}
}
