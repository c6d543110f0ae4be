package fingerprint

import "testing"

func TestGenerateEmptyPeaks(t *testing.T) {
	if fps := Generate(nil, 1, DefaultFanParams()); fps != nil {
		t.Fatalf("expected nil for empty peaks, got %v", fps)
	}
}

func TestGenerateRespectsFanOutCap(t *testing.T) {
	peaks := []Peak{{Time: 0, Freq: 1}}
	for f := 0; f < 10; f++ {
		peaks = append(peaks, Peak{Time: 5, Freq: f})
	}

	fps := Generate(peaks, 1, FanParams{MinDelta: 1, MaxDelta: 45, FanOut: 5})

	count := 0
	for _, fp := range fps {
		if fp.AnchorTime == 0 {
			count++
		}
	}
	if count != 5 {
		t.Errorf("expected fan-out capped at 5, got %d", count)
	}
}

func TestGenerateOnlyWithinDeltaWindow(t *testing.T) {
	peaks := []Peak{
		{Time: 0, Freq: 1},
		{Time: 50, Freq: 2}, // outside MaxDelta=45
	}
	fps := Generate(peaks, 1, FanParams{MinDelta: 1, MaxDelta: 45, FanOut: 5})
	if len(fps) != 0 {
		t.Errorf("expected no fingerprints across a too-large delta, got %d", len(fps))
	}
}

func TestGenerateTagsSongID(t *testing.T) {
	peaks := []Peak{
		{Time: 0, Freq: 1},
		{Time: 1, Freq: 2},
	}
	fps := Generate(peaks, 42, DefaultFanParams())
	for _, fp := range fps {
		if fp.SongID != 42 {
			t.Errorf("expected SongID 42, got %d", fp.SongID)
		}
	}
}

func TestGenerateHashMatchesPacking(t *testing.T) {
	peaks := []Peak{
		{Time: 0, Freq: 7},
		{Time: 3, Freq: 11},
	}
	fps := Generate(peaks, 1, DefaultFanParams())
	if len(fps) != 1 {
		t.Fatalf("expected exactly 1 fingerprint, got %d", len(fps))
	}
	f1, f2, dt := fps[0].Hash.Unpack()
	if f1 != 7 || f2 != 11 || dt != 3 {
		t.Errorf("expected (7,11,3), got (%d,%d,%d)", f1, f2, dt)
	}
}
