// Package fingerprint implements the signal-processing and hashing
// pipeline that turns PCM audio into acoustic fingerprints: spectrogram
// construction, peak picking, and anchor/target hash generation.
package fingerprint

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

const (
	// WindowSize is the default STFT window length in samples.
	WindowSize = 1024
	// HopSize is the default number of samples advanced between frames.
	HopSize = 512
	// Bins is the number of magnitude bins kept per frame (WindowSize/2).
	Bins = WindowSize / 2
)

const dbEpsilon = 1e-9

// Spectrogram is an ordered sequence of frames, each holding Bins
// log-magnitude values in decibels.
type Spectrogram [][]float64

// HannWindow returns the n-point Hann window coefficients.
func HannWindow(n int) []float64 {
	w := make([]float64, n)
	if n == 1 {
		w[0] = 1
		return w
	}
	for i := 0; i < n; i++ {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// magnitudeDB converts a complex spectrum into log-magnitude dB values,
// keeping only the lower half of the bins (the top Nyquist bin is
// dropped so the bin count stays a power of two).
func magnitudeDB(spectrum []complex128, bins int) []float64 {
	out := make([]float64, bins)
	for i := 0; i < bins; i++ {
		mag := cmplx.Abs(spectrum[i])
		out[i] = 20.0 * math.Log10(mag+dbEpsilon)
	}
	return out
}

// BuildSpectrogram runs a windowed STFT over mono samples, producing a
// log-magnitude spectrogram. It returns an empty Spectrogram if samples
// is shorter than windowSize, per the "too short" failure mode.
func BuildSpectrogram(samples []float64, windowSize, hopSize int) Spectrogram {
	if len(samples) < windowSize {
		return nil
	}

	window := HannWindow(windowSize)
	bins := windowSize / 2

	numFrames := (len(samples)-windowSize)/hopSize + 1
	spec := make(Spectrogram, numFrames)

	frame := make([]float64, windowSize)
	for t := 0; t < numFrames; t++ {
		start := t * hopSize
		for i := 0; i < windowSize; i++ {
			frame[i] = samples[start+i] * window[i]
		}
		spectrum := fft.FFTReal(frame)
		spec[t] = magnitudeDB(spectrum, bins)
	}
	return spec
}
