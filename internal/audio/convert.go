package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// TargetSampleRate is the rate every clip is resampled to before
// fingerprinting, matching the fixed analysis profile.
const TargetSampleRate = 11025

// ConvertToMonoWAV shells out to ffmpeg to resample and downmix an
// arbitrary input audio file into a mono 16-bit PCM WAV at sampleRate,
// writing it under outputDir. If sampleRate is 0, TargetSampleRate is
// used.
func ConvertToMonoWAV(ctx context.Context, inputPath, outputDir string, sampleRate int) (string, error) {
	if sampleRate == 0 {
		sampleRate = TargetSampleRate
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("echosig/audio: creating output dir: %w", err)
	}

	outputPath := filepath.Join(outputDir, filepath.Base(inputPath)+".wav")
	tmpPath := outputPath + ".tmp"
	defer os.Remove(tmpPath)

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-v", "quiet",
		"-i", inputPath,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-c:a", "pcm_s16le",
		tmpPath,
	)

	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("echosig/audio: ffmpeg failed: %w (%s)", err, out)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		return "", fmt.Errorf("echosig/audio: moving converted file: %w", err)
	}
	return outputPath, nil
}
