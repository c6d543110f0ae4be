package audio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/lrstanley/go-ytdlp"
)

// ytMetadataJSON is the subset of yt-dlp's metadata this package cares
// about when a caller adds a song by YouTube URL.
type ytMetadataJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Track    string `json:"track"`
	Artist   string `json:"artist"`
	Uploader string `json:"uploader"`
}

type YTMetadata struct {
	ID          string
	DisplayName string
}

func (m ytMetadataJSON) displayName() string {
	if m.Track != "" {
		return m.Track
	}
	if m.Title != "" {
		return m.Title
	}
	return "Unknown Title"
}

var downloadExtensions = []string{".m4a", ".webm", ".opus", ".mp3", ".aac", ".ogg"}

// FetchYouTubeAudio downloads the best available audio stream for
// youtubeURL into outputDir using yt-dlp, returning the path to the
// downloaded file and its metadata. The caller is expected to pass the
// result through ConvertToMonoWAV before fingerprinting.
func FetchYouTubeAudio(ctx context.Context, youtubeURL, outputDir string) (audioPath string, meta YTMetadata, err error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", YTMetadata{}, fmt.Errorf("echosig/audio: creating output dir: %w", err)
	}

	ytdlp.MustInstall(ctx, nil)

	metaResult, err := ytdlp.New().
		DumpSingleJSON().
		NoWarnings().
		NoPlaylist().
		Run(ctx, youtubeURL)
	if err != nil {
		return "", YTMetadata{}, fmt.Errorf("echosig/audio: yt-dlp metadata extraction failed: %w", err)
	}

	var raw ytMetadataJSON
	if err := json.Unmarshal([]byte(metaResult.Stdout), &raw); err != nil {
		return "", YTMetadata{}, fmt.Errorf("echosig/audio: parsing yt-dlp metadata: %w", err)
	}
	if raw.ID == "" {
		return "", YTMetadata{}, fmt.Errorf("echosig/audio: yt-dlp returned no video id")
	}

	baseName := uuid.NewString()
	outTemplate := filepath.Join(outputDir, baseName+".%(ext)s")

	if _, err := ytdlp.New().
		Format("ba").
		NoWarnings().
		NoPlaylist().
		Output(outTemplate).
		Run(ctx, youtubeURL); err != nil {
		return "", YTMetadata{}, fmt.Errorf("echosig/audio: yt-dlp download failed: %w", err)
	}

	for _, ext := range downloadExtensions {
		candidate := filepath.Join(outputDir, baseName+ext)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, YTMetadata{ID: raw.ID, DisplayName: raw.displayName()}, nil
		}
	}
	return "", YTMetadata{}, fmt.Errorf("echosig/audio: downloaded audio file not found for video %s", raw.ID)
}
