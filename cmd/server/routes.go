package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// setupRoutes registers all HTTP routes and middleware.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/health/metrics", s.handleMetrics)
	mux.HandleFunc("/api/songs", s.handleSongs)
	mux.HandleFunc("/api/songs/youtube", s.handleAddSongYouTube)
	mux.HandleFunc("/api/identify", s.handleIdentifyRoute)

	handler := corsMiddleware(s.config.AllowedOrigins)(mux)
	return s.requestIDMiddleware(handler)
}

// requestIDMiddleware stamps every request with a correlation id,
// echoed in the response and included in the request log line.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		s.log.Infof("[%s] %s %s from %s", reqID, r.Method, r.URL.Path, getClientIP(r))
		next.ServeHTTP(wrapped, r)
		s.log.Infof("[%s] %s %s -> %d", reqID, r.Method, r.URL.Path, wrapped.statusCode)
	})
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			allowed := false
			if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				allowed = true
			} else {
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin {
						w.Header().Set("Access-Control-Allow-Origin", origin)
						allowed = true
						break
					}
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	handler := s.setupRoutes()

	addr := fmt.Sprintf(":%d", s.config.Port)
	s.log.Infof("echosig server starting on %s", addr)
	s.log.Infof("  sample rate: %d Hz", s.config.SampleRate)
	s.log.Infof("  cors origins: %v", s.config.AllowedOrigins)
	s.log.Infof("endpoints:")
	s.log.Infof("  GET  /health")
	s.log.Infof("  GET  /api/health/metrics")
	s.log.Infof("  GET  /api/songs")
	s.log.Infof("  POST /api/songs")
	s.log.Infof("  POST /api/songs/youtube")
	s.log.Infof("  POST /api/identify")

	return http.ListenAndServe(addr, handler)
}
