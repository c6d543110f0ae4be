package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/devspire/echosig/internal/audio"
	"github.com/devspire/echosig/pkg/echosig"
)

// Server encapsulates the HTTP server and its dependencies.
type Server struct {
	engine *echosig.Engine
	config *ServerConfig
	log    echosig.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	TempDir        string
	SampleRate     int
	AllowedOrigins []string
}

// NewServer creates a new server instance.
func NewServer(engine *echosig.Engine, config *ServerConfig, log echosig.Logger) *Server {
	return &Server{engine: engine, config: config, log: log}
}

func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("failed to encode JSON response: %v", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "echosig API",
		"endpoints": map[string]string{
			"health":         "GET /health",
			"metrics":        "GET /api/health/metrics",
			"songs":          "GET /api/songs",
			"addSongFile":    "POST /api/songs",
			"addSongYoutube": "POST /api/songs/youtube",
			"identify":       "POST /api/identify",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	songs := s.engine.ListSongs()
	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:     "healthy",
		SongCount:  len(songs),
		SampleRate: s.config.SampleRate,
	})
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs := s.engine.ListSongs()
	dtos := make([]SongDTO, len(songs))
	for i, song := range songs {
		dtos[i] = SongDTO{
			ID:              song.ID,
			Title:           song.DisplayName,
			ExternalRef:     song.ExternalRef,
			NumFingerprints: song.NumFingerprints,
		}
	}
	s.respondJSON(w, http.StatusOK, ListSongsResponse{Songs: dtos, Count: len(dtos)})
}

// saveUpload copies a multipart file part to a temp file under
// s.config.TempDir and returns its path.
func (s *Server) saveUpload(file io.Reader, filename, prefix string) (string, error) {
	path := filepath.Join(s.config.TempDir, fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixNano(), filename))
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// ingestFile converts a raw audio file to mono PCM at the configured
// sample rate and adds it to the catalog.
func (s *Server) ingestFile(ctx context.Context, path, title, externalRef string) (int, error) {
	wavPath, err := audio.ConvertToMonoWAV(ctx, path, s.config.TempDir, s.config.SampleRate)
	if err != nil {
		return 0, fmt.Errorf("converting audio: %w", err)
	}
	clip, err := audio.DecodeWAVFile(wavPath)
	if err != nil {
		return 0, fmt.Errorf("decoding audio: %w", err)
	}
	return s.engine.AddSong(clip.Samples, title, externalRef)
}

// handleAddSongFile handles POST /api/songs (multipart file upload).
func (s *Server) handleAddSongFile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(100 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	title := r.FormValue("title")
	if title == "" {
		s.respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	tempFile, err := s.saveUpload(file, header.Filename, "upload")
	if err != nil {
		s.log.Errorf("failed to save upload: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}
	defer os.Remove(tempFile)

	id, err := s.ingestFile(ctx, tempFile, title, "")
	if err != nil {
		s.log.Errorf("failed to add song: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to add song: %v", err))
		return
	}

	s.log.Infof("added song %d: %q", id, title)
	s.respondJSON(w, http.StatusCreated, AddSongResponse{Message: "song added", ID: id, Title: title})
}

// handleAddSongYouTube handles POST /api/songs/youtube.
func (s *Server) handleAddSongYouTube(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req AddSongYouTubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.log.Infof("fetching youtube audio: %s", req.YouTubeURL)
	downloaded, meta, err := audio.FetchYouTubeAudio(ctx, req.YouTubeURL, s.config.TempDir)
	if err != nil {
		s.log.Errorf("youtube fetch failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to fetch youtube audio: %v", err))
		return
	}
	defer os.Remove(downloaded)

	title := req.Title
	if title == "" {
		title = meta.DisplayName
	}

	id, err := s.ingestFile(ctx, downloaded, title, req.YouTubeURL)
	if err != nil {
		s.log.Errorf("failed to add song: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to add song: %v", err))
		return
	}

	s.log.Infof("added song %d from youtube: %q", id, title)
	s.respondJSON(w, http.StatusCreated, AddSongResponse{Message: "song added from youtube", ID: id, Title: title})
}

// handleIdentify handles POST /api/identify (multipart file upload).
func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to parse form data")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "audio file is required")
		return
	}
	defer file.Close()

	tempFile, err := s.saveUpload(file, header.Filename, "query")
	if err != nil {
		s.log.Errorf("failed to save query upload: %v", err)
		s.respondError(w, http.StatusInternalServerError, "failed to process upload")
		return
	}
	defer os.Remove(tempFile)

	wavPath, err := audio.ConvertToMonoWAV(ctx, tempFile, s.config.TempDir, s.config.SampleRate)
	if err != nil {
		s.log.Errorf("conversion failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to convert audio: %v", err))
		return
	}
	clip, err := audio.DecodeWAVFile(wavPath)
	if err != nil {
		s.log.Errorf("decode failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to decode audio: %v", err))
		return
	}

	result := s.engine.Identify(clip.Samples)
	if result.Err != nil {
		switch {
		case errors.Is(result.Err, echosig.ErrDBEmpty):
			s.respondJSON(w, http.StatusOK, IdentifyResponse{Matched: false})
		default:
			s.respondError(w, http.StatusBadRequest, result.Err.Error())
		}
		return
	}

	top := make([]CandidateDTO, len(result.Top))
	for i, c := range result.Top {
		top[i] = CandidateDTO{
			SongID:       c.SongID,
			Title:        c.DisplayName,
			ExternalRef:  c.ExternalRef,
			Score:        c.Score,
			OffsetFrames: c.OffsetFrames,
		}
	}

	s.log.Infof("identify complete: matched=%v candidates=%d", result.Matched, len(top))
	s.respondJSON(w, http.StatusOK, IdentifyResponse{Matched: result.Matched, Top: top})
}

// handleSongs routes requests to /api/songs.
func (s *Server) handleSongs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListSongs(w, r)
	case http.MethodPost:
		s.handleAddSongFile(w, r)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleIdentifyRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.handleIdentify(w, r)
}
