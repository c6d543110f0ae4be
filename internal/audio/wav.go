// Package audio handles the boundary between files on disk and the raw
// mono float64 PCM samples the fingerprinting engine consumes: WAV
// decoding, arbitrary-format conversion via ffmpeg, and optional
// reference-audio fetch from YouTube.
package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Clip is decoded mono PCM audio, normalized to [-1.0, 1.0].
type Clip struct {
	Samples    []float64
	SampleRate int
}

// DecodeWAV reads a PCM WAV file and downmixes it to mono, normalizing
// sample values to [-1.0, 1.0]. Multi-channel input is averaged across
// channels per frame.
func DecodeWAV(r io.ReadSeeker) (Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Clip{}, fmt.Errorf("echosig/audio: not a valid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("echosig/audio: reading PCM buffer: %w", err)
	}

	samples := downmix(buf)
	return Clip{Samples: samples, SampleRate: int(decoder.SampleRate)}, nil
}

// DecodeWAVFile opens path and decodes it with DecodeWAV.
func DecodeWAVFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, err
	}
	defer f.Close()
	return DecodeWAV(f)
}

// downmix averages every channel in buf into a single float64 stream
// normalized by the source bit depth's full scale.
func downmix(buf *goaudio.IntBuffer) []float64 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	maxVal := float64(int(1) << (uint(buf.SourceBitDepth) - 1))
	if maxVal == 0 {
		maxVal = 1
	}

	numFrames := len(buf.Data) / channels
	samples := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = (sum / float64(channels)) / maxVal
	}
	return samples
}
