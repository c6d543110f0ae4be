package main

import (
	"flag"
	"os"
	"strings"

	"github.com/devspire/echosig/internal/audio"
	"github.com/devspire/echosig/pkg/echosig"
	"github.com/devspire/echosig/pkg/logger"
)

var (
	port           int
	tempDir        string
	sampleRate     int
	allowedOrigins string
)

func init() {
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&tempDir, "temp", getEnvOrDefault("ECHOSIG_TEMP_DIR", "/tmp/echosig"), "Temporary directory")
	flag.IntVar(&sampleRate, "rate", audio.TargetSampleRate, "Audio sample rate")
	flag.StringVar(&allowedOrigins, "origins", "*", "Comma-separated list of allowed CORS origins (use * for all)")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	flag.Parse()
	log := logger.GetLogger()

	var origins []string
	if allowedOrigins == "*" {
		origins = []string{"*"}
	} else {
		origins = strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
	}

	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		log.Fatalf("failed to create temp dir: %v", err)
	}

	engine := echosig.NewEngine(echosig.WithLogger(log))

	config := &ServerConfig{
		Port:           port,
		TempDir:        tempDir,
		SampleRate:     sampleRate,
		AllowedOrigins: origins,
	}

	server := NewServer(engine, config, log)
	if err := server.Start(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
