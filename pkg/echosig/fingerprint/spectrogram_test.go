package fingerprint

import (
	"math"
	"testing"
)

func TestHannWindowEndpoints(t *testing.T) {
	w := HannWindow(8)
	if w[0] != 0 {
		t.Errorf("expected first sample to be 0, got %v", w[0])
	}
	mid := w[len(w)/2]
	if mid < 0.9 {
		t.Errorf("expected a peak near the window center, got %v", mid)
	}
}

func TestHannWindowSingleSample(t *testing.T) {
	w := HannWindow(1)
	if len(w) != 1 || w[0] != 1 {
		t.Fatalf("expected [1], got %v", w)
	}
}

func TestBuildSpectrogramTooShort(t *testing.T) {
	samples := make([]float64, WindowSize-1)
	if spec := BuildSpectrogram(samples, WindowSize, HopSize); spec != nil {
		t.Fatalf("expected nil spectrogram for too-short input, got %d frames", len(spec))
	}
}

func TestBuildSpectrogramFrameCount(t *testing.T) {
	samples := make([]float64, WindowSize+2*HopSize)
	spec := BuildSpectrogram(samples, WindowSize, HopSize)
	want := (len(samples)-WindowSize)/HopSize + 1
	if len(spec) != want {
		t.Fatalf("expected %d frames, got %d", want, len(spec))
	}
	if len(spec[0]) != Bins {
		t.Fatalf("expected %d bins per frame, got %d", Bins, len(spec[0]))
	}
}

func TestBuildSpectrogramDetectsTone(t *testing.T) {
	const sampleRate = 11025.0
	const freqHz = 1000.0

	samples := make([]float64, WindowSize*3)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freqHz * float64(i) / sampleRate)
	}

	spec := BuildSpectrogram(samples, WindowSize, HopSize)
	if len(spec) == 0 {
		t.Fatal("expected at least one frame")
	}

	expectedBinF := freqHz * float64(WindowSize) / sampleRate
	expectedBin := int(expectedBinF)
	frame := spec[1]

	peakBin := 0
	for i, v := range frame {
		if v > frame[peakBin] {
			peakBin = i
		}
	}

	if diff := peakBin - expectedBin; diff < -2 || diff > 2 {
		t.Errorf("expected peak near bin %d, got bin %d", expectedBin, peakBin)
	}
}
