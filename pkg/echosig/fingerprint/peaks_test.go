package fingerprint

import "testing"

func TestPickPeaksRespectsMinBin(t *testing.T) {
	spec := Spectrogram{
		{10, 9, 8, 7, 6},
	}
	peaks := PickPeaks(spec, 2, 2)
	for _, p := range peaks {
		if p.Freq < 2 {
			t.Errorf("peak below minBin leaked through: %+v", p)
		}
	}
}

func TestPickPeaksTopK(t *testing.T) {
	spec := Spectrogram{
		{1, 5, 2, 9, 3, 7},
	}
	peaks := PickPeaks(spec, 0, 2)
	if len(peaks) != 2 {
		t.Fatalf("expected 2 peaks, got %d", len(peaks))
	}
	// sorted by (Time, Freq): freq 3 (mag 9) then freq 5 (mag 7)
	if peaks[0].Freq != 3 || peaks[1].Freq != 5 {
		t.Errorf("unexpected peak bins: %+v", peaks)
	}
}

func TestPickPeaksFewerThanK(t *testing.T) {
	spec := Spectrogram{
		{1, 2},
	}
	peaks := PickPeaks(spec, 0, 5)
	if len(peaks) != 2 {
		t.Fatalf("expected 2 peaks (all available bins), got %d", len(peaks))
	}
}

func TestPickPeaksEmptyWhenMinBinOutOfRange(t *testing.T) {
	spec := Spectrogram{
		{1, 2, 3},
	}
	peaks := PickPeaks(spec, 10, 5)
	if len(peaks) != 0 {
		t.Fatalf("expected no peaks, got %d", len(peaks))
	}
}

func TestPickPeaksSortedByTimeThenFreq(t *testing.T) {
	spec := Spectrogram{
		{5, 1},
		{1, 5},
	}
	peaks := PickPeaks(spec, 0, 2)
	for i := 1; i < len(peaks); i++ {
		prev, cur := peaks[i-1], peaks[i]
		if cur.Time < prev.Time || (cur.Time == prev.Time && cur.Freq < prev.Freq) {
			t.Fatalf("peaks not sorted: %+v", peaks)
		}
	}
}
