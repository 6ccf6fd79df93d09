package apu2a03

import "testing"

// Spec §4.2 scenario 5 with a 0x41 (65) byte sample, played here from
// sample address 0xC000. On completing the 65th byte with loop clear,
// silence is set; with loop set, the sample restarts with 65 bytes left.
func TestDMCSetsSilenceOnSampleEndWithoutLoop(t *testing.T) {
	d := NewDMC()
	d.WriteSampleAddress(0x00) // sampleAddr = 0xC000
	d.WriteSampleLength(0x04)  // sampleLength = 65
	d.SetEnable(true)

	for i := 0; i < 65; i++ {
		if d.Silence {
			t.Fatalf("silence set early, after %d bytes", i)
		}
		d.Feed(0xFF)
	}
	if !d.Silence {
		t.Fatal("expected silence to be set after the sample ends without loop")
	}
	if d.BytesRemaining() != 0 {
		t.Fatalf("BytesRemaining = %d, want 0", d.BytesRemaining())
	}
}

func TestDMCLoopRestartsSampleAndClearsSilence(t *testing.T) {
	d := NewDMC()
	d.WriteControl(0x40) // loop flag set
	d.WriteSampleAddress(0x00)
	d.WriteSampleLength(0x04)
	d.SetEnable(true)

	for i := 0; i < 65; i++ {
		d.Feed(0xFF)
	}
	if d.Silence {
		t.Fatal("looping sample must not set silence")
	}
	if d.BytesRemaining() != 65 {
		t.Fatalf("BytesRemaining = %d, want 65 after loop restart", d.BytesRemaining())
	}
}

func TestDMCSilenceStateRoundTrips(t *testing.T) {
	d := NewDMC()
	d.WriteSampleAddress(0x00)
	d.WriteSampleLength(0x04)
	d.SetEnable(true)
	for i := 0; i < 65; i++ {
		d.Feed(0xFF)
	}

	apu := New(nil)
	apu.DMC = d
	st := apu.GetState()
	if !st.DMC.Silence {
		t.Fatal("expected GetState to capture the silence flag")
	}

	restored := New(nil)
	restored.SetState(st)
	if !restored.DMC.Silence {
		t.Fatal("expected SetState to restore the silence flag")
	}
}
