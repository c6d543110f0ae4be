package fingerprint

import "sort"

// Peak is a single spectral peak: frame index, frequency bin, and its
// magnitude in decibels.
type Peak struct {
	Time int // frame index
	Freq int // frequency bin index
	Mag  float64
}

// PickPeaks selects, per frame, the peakCount loudest bins at or above
// minBin. No local-maximum test is applied — this is pure per-frame
// top-k, which keeps peak density bounded and temporal coverage even.
// The result is sorted lexicographically by (Time, Freq).
func PickPeaks(spec Spectrogram, minBin, peakCount int) []Peak {
	peaks := make([]Peak, 0, len(spec)*peakCount)

	for t, frame := range spec {
		if minBin >= len(frame) {
			continue
		}
		peaks = append(peaks, topKBins(frame, t, minBin, peakCount)...)
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].Time != peaks[j].Time {
			return peaks[i].Time < peaks[j].Time
		}
		return peaks[i].Freq < peaks[j].Freq
	})
	return peaks
}

// topKBins returns the k loudest bins of frame in [minBin, len(frame)),
// or every bin in that range if fewer than k are available.
func topKBins(frame []float64, t, minBin, k int) []Peak {
	candidates := make([]Peak, 0, len(frame)-minBin)
	for f := minBin; f < len(frame); f++ {
		candidates = append(candidates, Peak{Time: t, Freq: f, Mag: frame[f]})
	}

	if len(candidates) <= k {
		return candidates
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Mag > candidates[j].Mag })
	return candidates[:k]
}
