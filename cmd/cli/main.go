package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/devspire/echosig/internal/audio"
	"github.com/devspire/echosig/pkg/echosig"
	"github.com/devspire/echosig/pkg/logger"
)

var (
	tempDir    string
	sampleRate int
)

func init() {
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("ECHOSIG_TEMP_DIR", "/tmp/echosig"), "Directory for temporary audio conversion files")
	flag.IntVar(&sampleRate, "rate", audio.TargetSampleRate, "Audio sample rate for processing")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// eng is the process-lifetime catalog. Unlike the teacher's SQLite
// service, the engine holds no state on disk: everything ingested in
// one CLI invocation is gone once the process exits, so "add" and
// "match" against the same catalog only make sense within one run
// (see cmd/server for a long-lived process).
func main() {
	flag.Parse()
	log := logger.GetLogger()
	printBanner()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	log.Infof("executing command: %s", command)

	eng := echosig.NewEngine(echosig.WithLogger(log))

	switch command {
	case "add":
		handleAdd(eng, args[1:])
	case "match":
		handleMatch(eng, args[1:])
	case "list":
		handleList(eng)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Println(`
  ___          _           ___ _
 | __|__ _  __| |_  ___ __/ __(_)__ _
 | _|/ _| ' \/ _' | ' \/ _/ (__| / _' |
 |___\__|_||_\__,_|___/\__|\___|_\__, |
                                  |___/
        acoustic fingerprint matcher`)
}

func handleAdd(eng *echosig.Engine, args []string) {
	log := logger.GetLogger()

	var audioPath string
	var flagArgs []string
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") && audioPath == "" {
			audioPath = arg
		} else {
			flagArgs = append(flagArgs, args[i:]...)
			break
		}
	}

	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	title := addCmd.String("title", "", "Song title (required unless using --youtube-url)")
	youtubeURL := addCmd.String("youtube-url", "", "YouTube URL to fetch and add (alternative to a local file)")
	addCmd.Parse(flagArgs)

	var externalRef string
	if *youtubeURL != "" {
		if audioPath != "" {
			fmt.Println("Error: cannot specify both an audio file and --youtube-url")
			os.Exit(1)
		}
		fmt.Println("Fetching reference audio from YouTube...")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		downloaded, meta, err := audio.FetchYouTubeAudio(ctx, *youtubeURL, tempDir)
		if err != nil {
			fmt.Printf("Failed to fetch YouTube audio: %v\n", err)
			log.Errorf("youtube fetch failed: %v", err)
			os.Exit(1)
		}
		audioPath = downloaded
		externalRef = *youtubeURL
		if *title == "" {
			*title = meta.DisplayName
		}
	} else if audioPath == "" {
		fmt.Println("Usage: echosig add <audio_file> --title <title>")
		fmt.Println("   OR: echosig add --youtube-url <url> [--title <title>]")
		os.Exit(1)
	}

	if *title == "" {
		fmt.Println("Error: --title is required")
		os.Exit(1)
	}

	fmt.Println("Converting audio...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	wavPath, err := audio.ConvertToMonoWAV(ctx, audioPath, tempDir, sampleRate)
	if err != nil {
		fmt.Printf("Failed to convert audio: %v\n", err)
		log.Errorf("conversion failed: %v", err)
		os.Exit(1)
	}

	clip, err := audio.DecodeWAVFile(wavPath)
	if err != nil {
		fmt.Printf("Failed to decode audio: %v\n", err)
		log.Errorf("decode failed: %v", err)
		os.Exit(1)
	}

	id, err := eng.AddSong(clip.Samples, *title, externalRef)
	if err != nil {
		fmt.Printf("Failed to fingerprint song: %v\n", err)
		log.Errorf("AddSong failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Added song %d: %q\n", id, *title)
}

func handleMatch(eng *echosig.Engine, args []string) {
	log := logger.GetLogger()
	if len(args) < 1 {
		fmt.Println("Usage: echosig match <audio_file>")
		os.Exit(1)
	}
	audioPath := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	wavPath, err := audio.ConvertToMonoWAV(ctx, audioPath, tempDir, sampleRate)
	if err != nil {
		fmt.Printf("Failed to convert audio: %v\n", err)
		log.Errorf("conversion failed: %v", err)
		os.Exit(1)
	}

	clip, err := audio.DecodeWAVFile(wavPath)
	if err != nil {
		fmt.Printf("Failed to decode audio: %v\n", err)
		log.Errorf("decode failed: %v", err)
		os.Exit(1)
	}

	result := eng.Identify(clip.Samples)
	if result.Err != nil {
		fmt.Printf("Identification failed: %v\n", result.Err)
		os.Exit(1)
	}
	if !result.Matched {
		fmt.Println("No match found")
		return
	}

	fmt.Printf("\nTop matches:\n\n")
	for i, c := range result.Top {
		fmt.Printf("%d. %q (score %d, offset %d frames)\n", i+1, c.DisplayName, c.Score, c.OffsetFrames)
	}
}

func handleList(eng *echosig.Engine) {
	songs := eng.ListSongs()
	if len(songs) == 0 {
		fmt.Println("No songs in catalog")
		return
	}
	for _, s := range songs {
		fmt.Printf("%d. %q (%d fingerprints)\n", s.ID, s.DisplayName, s.NumFingerprints)
	}
}

func printUsage() {
	fmt.Println("echosig - acoustic fingerprint matcher")
	fmt.Println("\nUsage:")
	fmt.Println("  echosig add <audio_file> --title <title>")
	fmt.Println("  echosig add --youtube-url <url> [--title <title>]")
	fmt.Println("  echosig match <audio_file>")
	fmt.Println("  echosig list")
}
