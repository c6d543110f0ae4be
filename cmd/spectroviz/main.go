// Command spectroviz renders a WAV file's spectrogram as a PNG, for
// visually sanity-checking the audio an engine is about to fingerprint.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/draw"
	"log"
	"os"
	"path/filepath"

	"github.com/eligwz/spectrogram"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func main() {
	var width, height int
	flag.IntVar(&width, "width", 2048, "output image width")
	flag.IntVar(&height, "height", 512, "output image height (frequency bins)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: spectroviz [--width N] [--height N] <input.wav> [output.png]")
		os.Exit(1)
	}

	inputPath := args[0]
	outputPath := inputPath + ".png"
	if len(args) > 1 {
		outputPath = args[1]
	}

	if err := render(inputPath, outputPath, width, height); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Saved spectrogram to %s\n", outputPath)
}

func render(inputPath, outputPath string, width, height int) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return fmt.Errorf("%s is not a valid WAV file", inputPath)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("reading samples from %s: %w", inputPath, err)
	}

	samples := normalize(buf, int(decoder.BitDepth))
	if len(samples) == 0 {
		return fmt.Errorf("%s has no samples", inputPath)
	}

	img := spectrogram.NewImage128(image.Rect(0, 0, width, height))
	black := spectrogram.ParseColor("000000")
	draw.Draw(img, img.Bounds(), image.NewUniform(black), image.Point{}, draw.Src)

	spectrogram.Drawfft(
		img,
		samples,
		uint32(decoder.SampleRate),
		uint32(height),
		false, // use Hamming window, not rectangular
		false, // use FFT, not DFT
		true,  // magnitude
		false, // linear scale
	)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return spectrogram.SavePng(img, outputPath)
}

func normalize(buf *audio.IntBuffer, bitDepth int) []float64 {
	maxVal := float64(int(1) << (uint(bitDepth) - 1))
	if maxVal == 0 {
		maxVal = 1
	}
	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / maxVal
	}
	return samples
}
